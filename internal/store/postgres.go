package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS lectures (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	source_kind      TEXT NOT NULL,
	source_location  TEXT NOT NULL,
	video_path       TEXT NOT NULL DEFAULT '',
	duration_seconds INTEGER,
	transcript       TEXT NOT NULL DEFAULT '',
	transcript_html  TEXT NOT NULL DEFAULT '',
	summary          TEXT NOT NULL DEFAULT '',
	summary_html     TEXT NOT NULL DEFAULT '',
	slides           JSONB NOT NULL DEFAULT '[]',
	quizzes          JSONB NOT NULL DEFAULT '[]',
	processing_stage TEXT NOT NULL,
	processing_error TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type Postgres struct {
	db *sqlx.DB
}

type lectureRow struct {
	ID              string        `db:"id"`
	Title           string        `db:"title"`
	SourceKind      string        `db:"source_kind"`
	SourceLocation  string        `db:"source_location"`
	VideoPath       string        `db:"video_path"`
	DurationSeconds sql.NullInt64 `db:"duration_seconds"`
	Transcript      string        `db:"transcript"`
	TranscriptHTML  string        `db:"transcript_html"`
	Summary         string        `db:"summary"`
	SummaryHTML     string        `db:"summary_html"`
	Slides          []byte        `db:"slides"`
	Quizzes         []byte        `db:"quizzes"`
	ProcessingStage string        `db:"processing_stage"`
	ProcessingError string        `db:"processing_error"`
	CreatedAt       time.Time     `db:"created_at"`
}

// Connect opens a pgx-backed sqlx pool
func Connect(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the lectures table when it does not exist
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (p *Postgres) Create(ctx context.Context, l *models.Lecture) (string, error) {
	if err := prepare(l, time.Now().UTC()); err != nil {
		return "", err
	}
	row, err := toRow(l)
	if err != nil {
		return "", err
	}

	const q = `
		INSERT INTO lectures (id, title, source_kind, source_location, video_path, duration_seconds,
			transcript, transcript_html, summary, summary_html, slides, quizzes,
			processing_stage, processing_error, created_at)
		VALUES (:id, :title, :source_kind, :source_location, :video_path, :duration_seconds,
			:transcript, :transcript_html, :summary, :summary_html, :slides, :quizzes,
			:processing_stage, :processing_error, :created_at)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := p.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return "", fmt.Errorf("lecture create: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return "", models.ErrConflict
	}
	return l.ID, nil
}

// Update writes only the columns set in u
func (p *Postgres) Update(ctx context.Context, id string, u models.LectureUpdate) error {
	sets, args, err := updateClauses(u)
	if err != nil {
		return err
	}
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE lectures SET %s, updated_at = NOW() WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	res, err := p.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("lecture update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, id string) (*models.Lecture, error) {
	const q = `
		SELECT id, title, source_kind, source_location, video_path, duration_seconds,
			transcript, transcript_html, summary, summary_html, slides, quizzes,
			processing_stage, processing_error, created_at
		FROM lectures
		WHERE id = $1
	`

	var row lectureRow
	if err := p.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("lecture get: %w", err)
	}
	return fromRow(row)
}

func updateClauses(u models.LectureUpdate) ([]string, []any, error) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if u.Stage != nil {
		add("processing_stage", string(*u.Stage))
		if *u.Stage != models.StageFailed && u.ProcessingError == nil {
			add("processing_error", "")
		}
	}
	if u.ProcessingError != nil {
		add("processing_error", *u.ProcessingError)
	}
	if u.VideoPath != nil {
		add("video_path", *u.VideoPath)
	}
	if u.DurationSeconds != nil {
		add("duration_seconds", *u.DurationSeconds)
	}
	if u.Transcript != nil {
		add("transcript", *u.Transcript)
	}
	if u.TranscriptHTML != nil {
		add("transcript_html", *u.TranscriptHTML)
	}
	if u.Summary != nil {
		add("summary", *u.Summary)
	}
	if u.SummaryHTML != nil {
		add("summary_html", *u.SummaryHTML)
	}
	if u.Slides != nil {
		b, err := json.Marshal(u.Slides)
		if err != nil {
			return nil, nil, fmt.Errorf("encode slides: %w", err)
		}
		add("slides", b)
	}
	if u.Quizzes != nil {
		b, err := json.Marshal(u.Quizzes)
		if err != nil {
			return nil, nil, fmt.Errorf("encode quizzes: %w", err)
		}
		add("quizzes", b)
	}

	if len(sets) == 0 {
		return nil, nil, fmt.Errorf("%w: empty update", models.ErrInvalidArgument)
	}
	return sets, args, nil
}

func toRow(l *models.Lecture) (lectureRow, error) {
	slides, err := json.Marshal(nonNil(l.Slides))
	if err != nil {
		return lectureRow{}, fmt.Errorf("encode slides: %w", err)
	}
	quizzes, err := json.Marshal(nonNil(l.Quizzes))
	if err != nil {
		return lectureRow{}, fmt.Errorf("encode quizzes: %w", err)
	}

	row := lectureRow{
		ID:              l.ID,
		Title:           l.Title,
		SourceKind:      string(l.SourceKind),
		SourceLocation:  l.SourceLocation,
		VideoPath:       l.VideoPath,
		Transcript:      l.Transcript,
		TranscriptHTML:  l.TranscriptHTML,
		Summary:         l.Summary,
		SummaryHTML:     l.SummaryHTML,
		Slides:          slides,
		Quizzes:         quizzes,
		ProcessingStage: string(l.ProcessingStage),
		ProcessingError: l.ProcessingError,
		CreatedAt:       l.CreatedAt,
	}
	if l.DurationSeconds != nil {
		row.DurationSeconds = sql.NullInt64{Int64: int64(*l.DurationSeconds), Valid: true}
	}
	return row, nil
}

func fromRow(row lectureRow) (*models.Lecture, error) {
	l := &models.Lecture{
		ID:              row.ID,
		Title:           row.Title,
		SourceKind:      models.SourceKind(row.SourceKind),
		SourceLocation:  row.SourceLocation,
		VideoPath:       row.VideoPath,
		Transcript:      row.Transcript,
		TranscriptHTML:  row.TranscriptHTML,
		Summary:         row.Summary,
		SummaryHTML:     row.SummaryHTML,
		ProcessingStage: models.Stage(row.ProcessingStage),
		ProcessingError: row.ProcessingError,
		CreatedAt:       row.CreatedAt,
	}
	if row.DurationSeconds.Valid {
		d := int(row.DurationSeconds.Int64)
		l.DurationSeconds = &d
	}
	if err := json.Unmarshal(row.Slides, &l.Slides); err != nil {
		return nil, fmt.Errorf("decode slides: %w", err)
	}
	if err := json.Unmarshal(row.Quizzes, &l.Quizzes); err != nil {
		return nil, fmt.Errorf("decode quizzes: %w", err)
	}
	if len(l.Slides) == 0 {
		l.Slides = nil
	}
	if len(l.Quizzes) == 0 {
		l.Quizzes = nil
	}
	return l, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
