package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// table names are interpolated into statements below. they always come
// from the profile registry, never from scraped input.

type Question struct {
	ID            int64
	Question      string
	ImageURL      sql.NullString
	AnswerA       string
	AnswerB       string
	AnswerC       string
	AnswerD       string
	CorrectAnswer string
	Explanation   sql.NullString
}

func (q *Queries) GetQuestionByText(ctx context.Context, table, text string) (Question, error) {
	var out Question
	err := q.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT id, question, image_url, answer_a, answer_b, answer_c, answer_d, correct_answer, explanation
		 FROM %s WHERE question = ?`, table,
	), text).Scan(
		&out.ID, &out.Question, &out.ImageURL,
		&out.AnswerA, &out.AnswerB, &out.AnswerC, &out.AnswerD,
		&out.CorrectAnswer, &out.Explanation,
	)
	if err != nil {
		return Question{}, err
	}
	return out, nil
}

type InsertQuestionParams struct {
	Question      string
	ImageURL      string
	AnswerA       string
	AnswerB       string
	AnswerC       string
	AnswerD       string
	CorrectAnswer string
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (q *Queries) InsertQuestion(ctx context.Context, table string, params InsertQuestionParams) error {
	_, err := q.db.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (question, image_url, answer_a, answer_b, answer_c, answer_d, correct_answer, explanation)
		 VALUES (?, ?, ?, ?, ?, ?, ?, '')`, table,
	),
		params.Question, nullable(params.ImageURL),
		params.AnswerA, params.AnswerB, params.AnswerC, params.AnswerD,
		params.CorrectAnswer,
	)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

// SetQuestionImageIfMissing patches the image reference of a stored
// question, but only from null to a value. a question that already has
// an image is never touched.
func (q *Queries) SetQuestionImageIfMissing(ctx context.Context, table, text, imageURL string) (bool, error) {
	res, err := q.db.ExecContext(ctx, fmt.Sprintf(
		`UPDATE %s SET image_url = ?
		 WHERE question = ? AND (image_url IS NULL OR image_url = '')`, table,
	), imageURL, text)
	if err != nil {
		return false, fmt.Errorf("patch question image: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (q *Queries) ArchiveExists(ctx context.Context, table, code string) (bool, error) {
	var one int
	err := q.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT 1 FROM %s WHERE code = ?`, table,
	), code).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup archive: %w", err)
	}
	return true, nil
}

type InsertArchiveParams struct {
	Code       string
	Date       string
	Year       int
	Type       string
	Sheet      string
	Files      string
	Solution   string
	Downloaded int
	// extra-role key -> stored path; the column is <key>_url
	Extra map[string]string
}

func (q *Queries) InsertArchive(ctx context.Context, table string, params InsertArchiveParams) error {
	cols := []string{"code", "date", "year", "type", "arkusz_url", "pliki_url", "rozwiazanie_url", "downloaded"}
	args := []any{
		params.Code, params.Date, params.Year, params.Type,
		nullable(params.Sheet), nullable(params.Files), nullable(params.Solution),
		params.Downloaded,
	}

	extraKeys := make([]string, 0, len(params.Extra))
	for key := range params.Extra {
		extraKeys = append(extraKeys, key)
	}
	sort.Strings(extraKeys)
	for _, key := range extraKeys {
		cols = append(cols, key+"_url")
		args = append(args, nullable(params.Extra[key]))
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	_, err := q.db.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s)`,
		table, strings.Join(cols, ", "), placeholders,
	), args...)
	if err != nil {
		return fmt.Errorf("insert archive: %w", err)
	}
	return nil
}

type Archive struct {
	ID         int64
	Code       string
	Date       string
	Year       int
	Type       sql.NullString
	Sheet      sql.NullString
	Files      sql.NullString
	Solution   sql.NullString
	Downloaded int
}

func (q *Queries) GetArchiveByCode(ctx context.Context, table, code string) (Archive, error) {
	var out Archive
	err := q.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT id, code, date, year, type, arkusz_url, pliki_url, rozwiazanie_url, downloaded
		 FROM %s WHERE code = ?`, table,
	), code).Scan(
		&out.ID, &out.Code, &out.Date, &out.Year, &out.Type,
		&out.Sheet, &out.Files, &out.Solution, &out.Downloaded,
	)
	if err != nil {
		return Archive{}, err
	}
	return out, nil
}

func (q *Queries) CountRows(ctx context.Context, table string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&n)
	return n, err
}
