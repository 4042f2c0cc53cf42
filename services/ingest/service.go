// Package ingest drives the scraping pipeline: it walks every
// configured exam profile, extracts questions and practice archives
// from the source sites, downloads their assets and upserts the
// records into per-profile tables.
package ingest

import (
	"database/sql"
	"log/slog"
	"time"

	"egzamin-backend/services/ingest/db"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/ingest")

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type Config struct {
	// root directory for downloaded practice assets
	DownloadDir string `json:"download_dir"`
	// root directory for served static files (question images)
	StaticDir string `json:"static_dir"`
}

// Pipeline holds everything a run needs: the shared http client, the
// storage handle and the output directories. one Pipeline is built per
// run and passed down explicitly, there is no package level state.
type Pipeline struct {
	http  *resty.Client
	sqldb *sql.DB
	qry   *db.Queries

	downloadDir string
	staticDir   string

	// courtesy pauses between iterations so the source sites are not
	// hammered. zeroed out in tests.
	itemDelay    time.Duration
	yearDelay    time.Duration
	profileDelay time.Duration
}

func New(database *sql.DB, cfg Config) *Pipeline {
	client := resty.New()
	client.SetTimeout(time.Second * 15)
	client.SetHeader("user-agent", userAgent)

	return &Pipeline{
		http:         client,
		sqldb:        database,
		qry:          db.New(database),
		downloadDir:  cfg.DownloadDir,
		staticDir:    cfg.StaticDir,
		itemDelay:    time.Millisecond * 500,
		yearDelay:    time.Second,
		profileDelay: time.Second * 2,
	}
}

// Stats are the per-profile run counters reported at the end of every
// profile scrape.
type Stats struct {
	Added   int
	Updated int
	Skipped int
	Failed  int
}

func (s Stats) log(scope string, attrs ...any) {
	attrs = append(attrs,
		"added", s.Added,
		"updated", s.Updated,
		"skipped", s.Skipped,
		"failed", s.Failed,
	)
	slog.Info(scope+" scrape complete", attrs...)
}
