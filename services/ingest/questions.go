package ingest

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"time"

	"egzamin-backend/lib/download"
	"egzamin-backend/lib/fetchutil"
	"egzamin-backend/lib/scrapers/teoria"
	"egzamin-backend/services/ingest/db"
)

// RunQuestions scrapes the theory question bank of every configured
// profile. a profile that fails to fetch or parse is logged and
// skipped, its siblings still run.
func (p *Pipeline) RunQuestions(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "RunQuestions")
	defer span.End()

	for i, prof := range QuestionProfiles {
		if i > 0 {
			time.Sleep(p.profileDelay)
		}
		stats := p.scrapeQuestionProfile(ctx, prof)
		stats.log("question profile", "profile", prof.Key)
	}
}

func (p *Pipeline) scrapeQuestionProfile(ctx context.Context, prof QuestionProfile) Stats {
	ctx, span := tracer.Start(ctx, "scrapeQuestionProfile")
	defer span.End()

	var stats Stats

	doc, err := fetchutil.FetchDocument(ctx, p.http, prof.URL)
	if err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "failed to fetch question listing", "profile", prof.Key, "url", prof.URL, "err", err)
		return stats
	}

	questions := teoria.ExtractQuestions(ctx, doc)
	slog.InfoContext(ctx, "extracted questions", "profile", prof.Key, "count", len(questions))

	for _, q := range questions {
		imagePath := ""
		if q.ImageSrc != "" {
			imagePath = p.ensureQuestionImage(ctx, prof, q.ImageSrc)
		}

		err := p.upsertQuestion(ctx, prof, q, imagePath, &stats)
		if err != nil {
			stats.Failed++
			slog.WarnContext(ctx, "failed to upsert question",
				"profile", prof.Key, "question", q.Text, "err", err)
		}
	}

	return stats
}

// ensureQuestionImage downloads a question image into the static tree
// and returns the path it will be served under. a failed download only
// costs the image, never the question.
func (p *Pipeline) ensureQuestionImage(ctx context.Context, prof QuestionProfile, src string) string {
	name := teoria.ImageFilename(src)
	dest := filepath.Join(p.staticDir, "images", prof.Key, name)

	_, err := download.EnsureLocal(ctx, p.http, teoria.ImageURL(prof.URL, src), dest)
	if err != nil {
		slog.WarnContext(ctx, "failed to download question image",
			"profile", prof.Key, "src", src, "err", err)
		return ""
	}
	return "/static/images/" + prof.Key + "/" + name
}

// upsertQuestion inserts a first-seen question or patches a missing
// image reference on an already stored one. every other field of a
// stored question is immutable. each record gets its own transaction
// so one failure only rolls back itself.
func (p *Pipeline) upsertQuestion(ctx context.Context, prof QuestionProfile, q teoria.Question, imagePath string, stats *Stats) error {
	tx, err := p.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := p.qry.WithTx(tx)

	outcome := &stats.Skipped

	_, err = txqry.GetQuestionByText(ctx, prof.Table, q.Text)
	switch {
	case err == sql.ErrNoRows:
		err = txqry.InsertQuestion(ctx, prof.Table, db.InsertQuestionParams{
			Question:      q.Text,
			ImageURL:      imagePath,
			AnswerA:       q.Answers[0],
			AnswerB:       q.Answers[1],
			AnswerC:       q.Answers[2],
			AnswerD:       q.Answers[3],
			CorrectAnswer: q.Correct,
		})
		if err != nil {
			return err
		}
		outcome = &stats.Added
	case err != nil:
		return err
	case imagePath != "":
		patched, err := txqry.SetQuestionImageIfMissing(ctx, prof.Table, q.Text, imagePath)
		if err != nil {
			return err
		}
		if patched {
			outcome = &stats.Updated
		}
	}

	err = tx.Commit()
	if err != nil {
		return err
	}
	*outcome++
	return nil
}
