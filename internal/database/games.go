// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/nextgame/internal/database/query"
	"github.com/tomtom215/nextgame/internal/logging"
	"github.com/tomtom215/nextgame/internal/metrics"
	"github.com/tomtom215/nextgame/internal/models"
)

// VectorRecord is one stored embedding.
type VectorRecord struct {
	AppID     int64
	Embedding []byte
}

// GetVector returns the embedding stored for appid, or ErrGameNotFound.
func (db *DB) GetVector(ctx context.Context, appid int64) (rec VectorRecord, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("get_vector", "games", time.Since(start), ignoreNotFound(err)) }()

	rec.AppID = appid
	err = db.conn.QueryRowContext(ctx, "SELECT embedding FROM games WHERE appid = ?", appid).Scan(&rec.Embedding)
	if errors.Is(err, sql.ErrNoRows) {
		return VectorRecord{}, fmt.Errorf("appid %d: %w", appid, ErrGameNotFound)
	}
	if err != nil {
		return VectorRecord{}, fmt.Errorf("failed to get vector for appid %d: %w", appid, err)
	}
	return rec, nil
}

// GetAllVectors returns every stored embedding ordered by appid. The order
// is the corpus order the ranker uses to break score ties.
func (db *DB) GetAllVectors(ctx context.Context) (records []VectorRecord, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("get_all_vectors", "games", time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx, "SELECT appid, embedding FROM games ORDER BY appid")
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}
	defer closeWithLog(rows, "vector rows")

	records = make([]VectorRecord, 0, 1024)
	for rows.Next() {
		var rec VectorRecord
		if err = rows.Scan(&rec.AppID, &rec.Embedding); err != nil {
			return nil, fmt.Errorf("failed to scan vector row: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vector rows: %w", err)
	}
	return records, nil
}

// GetTexts returns text_for_embedding for each requested appid that
// exists. Unknown appids are absent from the map.
func (db *DB) GetTexts(ctx context.Context, appids []int64) (texts map[int64]string, err error) {
	texts = make(map[int64]string, len(appids))
	if len(appids) == 0 {
		return texts, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("get_texts", "games", time.Since(start), err) }()

	where, args := query.NewWhereBuilder().AppIDIn("appid", appids).Build()
	rows, err := db.conn.QueryContext(ctx, "SELECT appid, text_for_embedding FROM games WHERE "+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query texts: %w", err)
	}
	defer closeWithLog(rows, "text rows")

	for rows.Next() {
		var (
			appid int64
			text  string
		)
		if err = rows.Scan(&appid, &text); err != nil {
			return nil, fmt.Errorf("failed to scan text row: %w", err)
		}
		texts[appid] = text
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate text rows: %w", err)
	}
	return texts, nil
}

// GetAppIDByName resolves a game name to its appid. An exact match wins;
// otherwise a case-insensitive match is tried. Among equal names the
// lowest appid is returned.
func (db *DB) GetAppIDByName(ctx context.Context, name string) (appid int64, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("get_appid_by_name", "games", time.Since(start), ignoreNotFound(err)) }()

	err = db.conn.QueryRowContext(ctx,
		"SELECT appid FROM games WHERE name = ? ORDER BY appid LIMIT 1", name).Scan(&appid)
	if err == nil {
		return appid, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up game %q: %w", name, err)
	}

	err = db.conn.QueryRowContext(ctx,
		"SELECT appid FROM games WHERE lower(name) = lower(?) ORDER BY appid LIMIT 1", name).Scan(&appid)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("game %q: %w", name, ErrGameNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up game %q: %w", name, err)
	}
	return appid, nil
}

// SearchByNamePrefix returns up to limit games whose name starts with
// prefix, case-insensitively, ordered by name. An empty prefix or a
// non-positive limit returns an empty slice.
func (db *DB) SearchByNamePrefix(ctx context.Context, prefix string, limit int) (games []models.GameSummary, err error) {
	games = []models.GameSummary{}
	if prefix == "" || limit <= 0 {
		return games, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("search_by_name_prefix", "games", time.Since(start), err) }()

	where, args := query.NewWhereBuilder().Prefix("name", prefix).Build()
	args = append(args, limit)
	rows, err := db.conn.QueryContext(ctx,
		"SELECT appid, name, header_image FROM games WHERE "+where+" ORDER BY name, appid LIMIT ?", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search games: %w", err)
	}
	defer closeWithLog(rows, "search rows")

	for rows.Next() {
		var (
			g     models.GameSummary
			image sql.NullString
		)
		if err = rows.Scan(&g.AppID, &g.Name, &image); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		g.HeaderImage = image.String
		games = append(games, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search rows: %w", err)
	}
	return games, nil
}

const upsertGameQuery = `INSERT INTO games (
		appid, name, release_date, required_age, price, dlc_count,
		header_image, website, windows, mac, linux,
		supported_languages, genres, tags, categories, developers, publishers,
		text_for_embedding, embedding, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (appid) DO UPDATE SET
		name = EXCLUDED.name,
		release_date = EXCLUDED.release_date,
		required_age = EXCLUDED.required_age,
		price = EXCLUDED.price,
		dlc_count = EXCLUDED.dlc_count,
		header_image = EXCLUDED.header_image,
		website = EXCLUDED.website,
		windows = EXCLUDED.windows,
		mac = EXCLUDED.mac,
		linux = EXCLUDED.linux,
		supported_languages = EXCLUDED.supported_languages,
		genres = EXCLUDED.genres,
		tags = EXCLUDED.tags,
		categories = EXCLUDED.categories,
		developers = EXCLUDED.developers,
		publishers = EXCLUDED.publishers,
		text_for_embedding = EXCLUDED.text_for_embedding,
		embedding = EXCLUDED.embedding,
		updated_at = EXCLUDED.updated_at`

// UpsertGames writes games in a single transaction. When the batch holds
// the same appid more than once, the last occurrence wins. It returns the
// number of distinct rows written.
func (db *DB) UpsertGames(ctx context.Context, games []models.Game) (written int, err error) {
	if len(games) == 0 {
		return 0, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("upsert", "games", time.Since(start), err) }()

	batch := dedupeByAppID(games)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().
					Err(rbErr).
					AnErr("original_error", err).
					Msg("Transaction rollback failed")
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertGameQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer closeWithLog(stmt, "upsert statement")

	now := time.Now().UTC()
	for i := range batch {
		g := &batch[i]
		if _, err = stmt.ExecContext(ctx,
			g.AppID, g.Name, nullableTime(g.ReleaseDate), g.RequiredAge, g.Price, g.DLCCount,
			nullableString(g.HeaderImage), nullableString(g.Website),
			nullableBool(g.Windows), nullableBool(g.Mac), nullableBool(g.Linux),
			g.SupportedLanguages, g.Genres, g.Tags, g.Categories, g.Developers, g.Publishers,
			g.TextForEmbedding, g.Embedding, now,
		); err != nil {
			if isWriteConflict(err) {
				return 0, fmt.Errorf("upsert appid %d: %w: %w", g.AppID, ErrWriteConflict, err)
			}
			return 0, fmt.Errorf("failed to upsert appid %d: %w", g.AppID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		if isWriteConflict(err) {
			return 0, fmt.Errorf("commit upsert: %w: %w", ErrWriteConflict, err)
		}
		return 0, fmt.Errorf("failed to commit upsert: %w", err)
	}
	return len(batch), nil
}

// dedupeByAppID keeps the last occurrence of each appid, preserving the
// order of first appearance.
func dedupeByAppID(games []models.Game) []models.Game {
	index := make(map[int64]int, len(games))
	out := make([]models.Game, 0, len(games))
	for i := range games {
		if pos, ok := index[games[i].AppID]; ok {
			out[pos] = games[i]
			continue
		}
		index[games[i].AppID] = len(out)
		out = append(out, games[i])
	}
	return out
}

// ignoreNotFound keeps not-found lookups out of the DB error metric.
func ignoreNotFound(err error) error {
	if errors.Is(err, ErrGameNotFound) {
		return nil
	}
	return err
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
