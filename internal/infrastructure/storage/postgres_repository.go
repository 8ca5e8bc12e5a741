package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"NewsNarrator/internal/domain"
	"NewsNarrator/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS episodes (
    run_id      TEXT PRIMARY KEY,
    created_at  TIMESTAMPTZ NOT NULL,
    audio_path  TEXT NOT NULL,
    script      TEXT NOT NULL,
    voice_name  TEXT NOT NULL,
    article_cnt INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS narrated_articles (
    link           TEXT PRIMARY KEY,
    title          TEXT NOT NULL,
    summary        TEXT NOT NULL,
    summary_status TEXT NOT NULL,
    run_id         TEXT NOT NULL REFERENCES episodes (run_id),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository keeps narration history in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.EpisodeRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the history tables when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// AlreadyNarrated returns the subset of links that earlier episodes covered.
func (r *PostgresRepository) AlreadyNarrated(ctx context.Context, links []string) (map[string]bool, error) {
	if r.db == nil || len(links) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := narratedQuery(links)
	if err != nil {
		return nil, fmt.Errorf("build narrated query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query narrated: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		result[link] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// SaveEpisode records the episode and upserts every narrated article in one
// transaction. Articles whose summary failed are not marked as narrated.
func (r *PostgresRepository) SaveEpisode(ctx context.Context, episode domain.Episode) error {
	if r.db == nil {
		return nil
	}

	statements, err := episodeStatements(episode)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	for _, st := range statements {
		if _, err := tx.ExecContext(ctx, st.query, st.args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("save episode %s: %w", episode.RunID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit episode %s: %w", episode.RunID, err)
	}
	return nil
}

type statement struct {
	query string
	args  []any
}

func narratedQuery(links []string) (string, []any, error) {
	return psql.Select("link").
		From("narrated_articles").
		Where(sq.Expr("link = ANY(?)", pq.Array(links))).
		ToSql()
}

func episodeStatements(episode domain.Episode) ([]statement, error) {
	// One row per link: a repeated conflict key in a single upsert is
	// rejected by Postgres.
	narrated := make([]domain.SummarizedArticle, 0, len(episode.Articles))
	links := make(map[string]struct{}, len(episode.Articles))
	for _, item := range episode.Articles {
		if !item.SummaryStatus.OK() || item.Link == "" {
			continue
		}
		if _, dup := links[item.Link]; dup {
			continue
		}
		links[item.Link] = struct{}{}
		narrated = append(narrated, item)
	}

	query, args, err := psql.Insert("episodes").
		Columns("run_id", "created_at", "audio_path", "script", "voice_name", "article_cnt").
		Values(episode.RunID, episode.CreatedAt, episode.AudioPath, episode.CleanScript, episode.Voice.VoiceName, len(narrated)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build episode insert: %w", err)
	}
	out := []statement{{query: query, args: args}}

	if len(narrated) == 0 {
		return out, nil
	}

	insert := psql.Insert("narrated_articles").
		Columns("link", "title", "summary", "summary_status", "run_id")
	for _, item := range narrated {
		insert = insert.Values(item.Link, item.Title, item.Summary, string(item.SummaryStatus), episode.RunID)
	}
	query, args, err = insert.
		Suffix(`ON CONFLICT (link) DO UPDATE
SET title = EXCLUDED.title,
    summary = EXCLUDED.summary,
    summary_status = EXCLUDED.summary_status,
    run_id = EXCLUDED.run_id,
    updated_at = NOW()`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build article upsert: %w", err)
	}
	return append(out, statement{query: query, args: args}), nil
}
