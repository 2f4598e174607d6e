package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lucidlog/dream-diary/internal/core/domain"
)

type DreamRepository struct {
	db *sql.DB
}

func NewDreamRepository(db *sql.DB) *DreamRepository {
	return &DreamRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DreamRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS dreams (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	audio_file_path TEXT NOT NULL DEFAULT '',
	transcription TEXT NOT NULL DEFAULT '',
	processed_data JSONB,
	comic_images JSONB,
	tags JSONB NOT NULL DEFAULT '[]'::jsonb,
	mood TEXT NOT NULL DEFAULT '',
	user_id TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_dreams_status ON dreams(status);
CREATE INDEX IF NOT EXISTS idx_dreams_created_at ON dreams(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_dreams_mood ON dreams(mood);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *DreamRepository) Create(ctx context.Context, dream *domain.Dream) error {
	tagsJSON, processedJSON, comicJSON, err := marshalDreamJSON(dream)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO dreams (
	id, title, audio_file_path, transcription, processed_data, comic_images, tags, mood, user_id, status, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`,
		dream.ID, dream.Title, dream.AudioFilePath, dream.Transcription, processedJSON, comicJSON,
		tagsJSON, dream.Mood, dream.UserID, string(dream.Status), dream.CreatedAt, dream.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert dream: %w", err)
	}
	return nil
}

func (r *DreamRepository) GetByID(ctx context.Context, id string) (*domain.Dream, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, audio_file_path, transcription, processed_data, comic_images, tags, mood, user_id, status, created_at, updated_at
FROM dreams
WHERE id = $1
`, id)

	dream, err := scanDream(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDreamNotFound, "get dream", fmt.Errorf("id=%s", id))
		}
		return nil, err
	}
	return dream, nil
}

// List applies every provided filter together and returns newest
// first. A tag filter matches dreams whose tag set contains the value.
func (r *DreamRepository) List(ctx context.Context, filter domain.DreamFilter) ([]domain.Dream, error) {
	var (
		conds []string
		args  []any
	)
	addCond := func(expr string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}

	if filter.Mood != "" {
		addCond("mood = $%d", filter.Mood)
	}
	if filter.Status != "" {
		addCond("status = $%d", filter.Status)
	}
	if filter.UserID != "" {
		addCond("user_id = $%d", filter.UserID)
	}
	if filter.Tag != "" {
		tagJSON, err := json.Marshal([]string{filter.Tag})
		if err != nil {
			return nil, fmt.Errorf("marshal tag filter: %w", err)
		}
		addCond("tags @> $%d::jsonb", string(tagJSON))
	}

	query := `
SELECT id, title, audio_file_path, transcription, processed_data, comic_images, tags, mood, user_id, status, created_at, updated_at
FROM dreams
`
	if len(conds) > 0 {
		query += "WHERE " + strings.Join(conds, " AND ") + "\n"
	}
	query += "ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list dreams: %w", err)
	}
	defer rows.Close()

	var dreams []domain.Dream
	for rows.Next() {
		dream, err := scanDream(rows)
		if err != nil {
			return nil, err
		}
		dreams = append(dreams, *dream)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dreams: %w", err)
	}
	return dreams, nil
}

func (r *DreamRepository) Update(ctx context.Context, dream *domain.Dream) error {
	tagsJSON, processedJSON, comicJSON, err := marshalDreamJSON(dream)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE dreams
SET title = $2, audio_file_path = $3, transcription = $4, processed_data = $5, comic_images = $6,
	tags = $7, mood = $8, user_id = $9, status = $10, updated_at = $11
WHERE id = $1
`,
		dream.ID, dream.Title, dream.AudioFilePath, dream.Transcription, processedJSON, comicJSON,
		tagsJSON, dream.Mood, dream.UserID, string(dream.Status), dream.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update dream: %w", err)
	}
	return requireRow(res, "update dream", dream.ID)
}

func (r *DreamRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dreams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dream: %w", err)
	}
	return requireRow(res, "delete dream", id)
}

func (r *DreamRepository) UpdateStatus(ctx context.Context, id string, status domain.DreamStatus) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE dreams
SET status = $2, updated_at = $3
WHERE id = $1
`, id, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update dream status: %w", err)
	}
	return requireRow(res, "update dream status", id)
}

// SaveTranscription stores the stage output and its status advance in
// one statement, so a crash between the two cannot leave them apart.
func (r *DreamRepository) SaveTranscription(ctx context.Context, id, text string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE dreams
SET transcription = $2, status = $3, updated_at = $4
WHERE id = $1
`, id, text, string(domain.StatusTranscribed), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save transcription: %w", err)
	}
	return requireRow(res, "save transcription", id)
}

func (r *DreamRepository) SaveStructuredResult(ctx context.Context, id string, data *domain.StructuredDream, title string) error {
	processedJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal processed data: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE dreams
SET processed_data = $2, title = $3, status = $4, updated_at = $5
WHERE id = $1
`, id, processedJSON, title, string(domain.StatusProcessed), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save structured result: %w", err)
	}
	return requireRow(res, "save structured result", id)
}

func (r *DreamRepository) SaveComicImages(ctx context.Context, id string, images *domain.ComicImages) error {
	comicJSON, err := json.Marshal(images)
	if err != nil {
		return fmt.Errorf("marshal comic images: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE dreams
SET comic_images = $2, status = $3, updated_at = $4
WHERE id = $1
`, id, comicJSON, string(domain.StatusCompleted), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save comic images: %w", err)
	}
	return requireRow(res, "save comic images", id)
}

func (r *DreamRepository) Stats(ctx context.Context) (*domain.DreamStats, error) {
	stats := &domain.DreamStats{
		StatusCounts: map[string]int{},
		MoodCounts:   map[string]int{},
	}

	row := r.db.QueryRowContext(ctx, `
SELECT COUNT(*), COUNT(*) FILTER (WHERE created_at >= $1)
FROM dreams
`, time.Now().UTC().AddDate(0, 0, -7))
	if err := row.Scan(&stats.TotalDreams, &stats.RecentDreams); err != nil {
		return nil, fmt.Errorf("scan dream totals: %w", err)
	}

	if err := r.countGrouped(ctx, "status", stats.StatusCounts); err != nil {
		return nil, err
	}
	if err := r.countGrouped(ctx, "mood", stats.MoodCounts); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *DreamRepository) countGrouped(ctx context.Context, column string, out map[string]int) error {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
SELECT %s, COUNT(*)
FROM dreams
WHERE %s <> ''
GROUP BY %s
`, column, column, column))
	if err != nil {
		return fmt.Errorf("count dreams by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scan %s count: %w", column, err)
		}
		out[key] = count
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s counts: %w", column, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDream(row rowScanner) (*domain.Dream, error) {
	var dream domain.Dream
	var tagsRaw []byte
	var processedRaw, comicRaw []byte
	var status string

	err := row.Scan(
		&dream.ID, &dream.Title, &dream.AudioFilePath, &dream.Transcription, &processedRaw, &comicRaw,
		&tagsRaw, &dream.Mood, &dream.UserID, &status, &dream.CreatedAt, &dream.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan dream: %w", err)
	}

	if err := json.Unmarshal(tagsRaw, &dream.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	if len(processedRaw) > 0 {
		if err := json.Unmarshal(processedRaw, &dream.ProcessedData); err != nil {
			return nil, fmt.Errorf("unmarshal processed data: %w", err)
		}
	}
	if len(comicRaw) > 0 {
		if err := json.Unmarshal(comicRaw, &dream.ComicImages); err != nil {
			return nil, fmt.Errorf("unmarshal comic images: %w", err)
		}
	}
	dream.Status = domain.DreamStatus(status)
	return &dream, nil
}

func marshalDreamJSON(dream *domain.Dream) (tags, processed, comic []byte, err error) {
	tags, err = json.Marshal(dream.Tags)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal tags: %w", err)
	}
	if dream.ProcessedData != nil {
		processed, err = json.Marshal(dream.ProcessedData)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("marshal processed data: %w", err)
		}
	}
	if dream.ComicImages != nil {
		comic, err = json.Marshal(dream.ComicImages)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("marshal comic images: %w", err)
		}
	}
	return tags, processed, comic, nil
}

func requireRow(res sql.Result, operation, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDreamNotFound, operation, fmt.Errorf("id=%s", id))
	}
	return nil
}
