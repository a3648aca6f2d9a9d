// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package curator

import (
	"strings"
	"testing"
)

func TestNormalizeLanguage(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{"en": "en", "tr": "tr", "": "en", "de": "en", "TR": "en"} {
		if got := NormalizeLanguage(in); got != want {
			t.Errorf("NormalizeLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	req := Request{
		TargetName: "Portal 2",
		Candidates: []string{"Portal. Puzzle.", "  Half-Life. Shooter.  "},
	}

	en := buildPrompt(req)
	if !strings.Contains(en, `The user likes "Portal 2"`) {
		t.Errorf("prompt should name the target game:\n%s", en)
	}
	if !strings.Contains(en, "Candidate games (2)") || !strings.Contains(en, "2. Half-Life. Shooter.\n") {
		t.Errorf("prompt should number trimmed candidates:\n%s", en)
	}
	if !strings.Contains(en, "in English") {
		t.Error("default prompt should request English output")
	}

	req.Language = LanguageTurkish
	tr := buildPrompt(req)
	if !strings.Contains(tr, "in Turkish") {
		t.Error("tr prompt should request Turkish output")
	}

	req.TargetName = ""
	if strings.Contains(buildPrompt(req), "The user likes") {
		t.Error("prompt without a target should omit the target line")
	}
}
