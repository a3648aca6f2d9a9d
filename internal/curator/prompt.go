// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package curator

import (
	"fmt"
	"strings"
)

const systemInstruction = `You are the "NextGame Curator", an enthusiastic assistant with deep knowledge of video games on storefronts such as Steam: genres, themes, tags and what players who enjoy a game tend to look for next.

You receive the name of a game the user likes and a numbered list of candidate games. Every candidate comes with its name, genres, tags and a short description. Choose EXACTLY THREE games from that list:
1. Two games that are VERY SIMILAR to the liked game in genre, theme, mechanics or atmosphere. Their "type" is "Similar".
2. One INTERESTING ALTERNATIVE: a game the same player would probably enjoy that offers something different, such as a neighbouring subgenre, a fresh spin on familiar mechanics or an overlooked indie title. Its "type" is "Alternative".

Only use games and facts present in the candidate list. Never invent titles or details. Copy each "game_name" exactly as it appears in the candidate text.

Answer with a single JSON object and nothing else, no markdown fences and no surrounding prose:
{"recommendations":[{"game_name":"...","type":"Similar","match_reason":"...","user_note":"..."}]}

Keep the tone friendly and concise, like one gamer talking to another.`

type languageInstructions struct {
	reason string
	note   string
	output string
}

var instructionsByLanguage = map[string]languageInstructions{
	LanguageEnglish: {
		reason: "In one or two English sentences, explain why the game is similar or a good alternative, citing details from its candidate text.",
		note:   "Write a short, friendly English note to the user about the game, for example \"If you enjoyed X, you will love the Y here.\"",
		output: "Write the match_reason and user_note fields in English.",
	},
	LanguageTurkish: {
		reason: "In one or two Turkish sentences, explain why the game is similar or a good alternative, citing details from its candidate text.",
		note:   "Write a short, friendly Turkish note to the user about the game, for example \"Eğer X'i sevdiysen, Y'ye bayılacaksın.\"",
		output: "Write the match_reason and user_note fields in Turkish.",
	},
}

// buildPrompt renders the user turn for a curation request.
func buildPrompt(req Request) string {
	instr := instructionsByLanguage[NormalizeLanguage(req.Language)]

	var b strings.Builder
	if req.TargetName != "" {
		fmt.Fprintf(&b, "The user likes %q.\n\n", req.TargetName)
	}
	fmt.Fprintf(&b, "Candidate games (%d), most similar first:\n", len(req.Candidates))
	for i, text := range req.Candidates {
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.TrimSpace(text))
	}

	b.WriteString("\nInstructions:\n")
	fmt.Fprintf(&b, "- Select exactly %d games: two \"Similar\" and one \"Alternative\".\n", PickCount)
	fmt.Fprintf(&b, "- match_reason: %s\n", instr.reason)
	fmt.Fprintf(&b, "- user_note: %s\n", instr.note)
	fmt.Fprintf(&b, "- %s\n", instr.output)
	b.WriteString("- Respond with valid JSON only.\n")

	return b.String()
}
