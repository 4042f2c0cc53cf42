package ingest

import (
	"context"
	"log/slog"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"egzamin-backend/lib/download"
	"egzamin-backend/lib/examcode"
	"egzamin-backend/lib/fetchutil"
	"egzamin-backend/lib/scrapers/praktyka"
	"egzamin-backend/services/ingest/db"
)

// RunPractice scrapes every practice archive group. a group whose year
// selector cannot be found aborts only that group.
func (p *Pipeline) RunPractice(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "RunPractice")
	defer span.End()

	for i, group := range PracticeGroups {
		if i > 0 {
			time.Sleep(p.profileDelay)
		}
		err := p.scrapePracticeGroup(ctx, group)
		if err != nil {
			span.RecordError(err)
			slog.ErrorContext(ctx, "practice group failed", "group", group.Name, "err", err)
		}
	}
}

func (p *Pipeline) scrapePracticeGroup(ctx context.Context, group PracticeGroup) error {
	ctx, span := tracer.Start(ctx, "scrapePracticeGroup")
	defer span.End()

	site, err := url.Parse(group.BaseURL)
	if err != nil {
		return err
	}

	doc, err := fetchutil.FetchDocument(ctx, p.http, group.BaseURL)
	if err != nil {
		return err
	}
	years, err := praktyka.Years(doc)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "enumerated years", "group", group.Name, "count", len(years))

	for pi, prof := range group.Profiles {
		if pi > 0 {
			time.Sleep(p.profileDelay)
		}

		var stats Stats
		for yi, year := range years {
			if yi > 0 {
				time.Sleep(p.yearDelay)
			}
			p.scrapePracticeYear(ctx, group, prof, site, year, &stats)
		}
		stats.log("practice profile", "profile", prof.Key)
	}

	return nil
}

func (p *Pipeline) scrapePracticeYear(ctx context.Context, group PracticeGroup, prof PracticeProfile, site *url.URL, year string, stats *Stats) {
	ctx, span := tracer.Start(ctx, "scrapePracticeYear")
	defer span.End()

	query := url.Values{}
	query.Set("rok", year)
	if group.Multi() {
		query.Set("egzamin", prof.Key)
	}
	listURL := group.BaseURL + "?" + query.Encode()

	doc, err := fetchutil.FetchDocument(ctx, p.http, listURL)
	if err != nil {
		span.RecordError(err)
		slog.WarnContext(ctx, "failed to fetch year listing",
			"profile", prof.Key, "year", year, "err", err)
		return
	}

	items := praktyka.ExtractItems(ctx, doc)
	slog.DebugContext(ctx, "extracted practice items",
		"profile", prof.Key, "year", year, "count", len(items))

	first := true
	for _, item := range items {
		// multi-profile listings may leak entries of sibling tracks
		// regardless of the egzamin filter
		if group.Multi() && examcode.ProfileOf(item.Code) != prof.Key {
			continue
		}
		if !first {
			time.Sleep(p.itemDelay)
		}
		first = false

		err := p.ingestArchive(ctx, prof, site, item, year, stats)
		if err != nil {
			stats.Failed++
			slog.WarnContext(ctx, "failed to ingest archive",
				"profile", prof.Key, "year", year, "code", item.Code, "err", err)
		}
	}
}

// ingestArchive resolves and downloads one archive's assets, then
// inserts the record. an already known code is a no-op skip: archives
// are never updated on re-sighting.
func (p *Pipeline) ingestArchive(ctx context.Context, prof PracticeProfile, site *url.URL, item praktyka.Item, fallbackYear string, stats *Stats) error {
	year, err := examcode.YearOf(item.Code)
	if err != nil {
		// the filter value the listing was fetched with is the only
		// other source of truth for the year
		year, err = strconv.Atoi(fallbackYear)
		if err != nil {
			return err
		}
	}

	rm := praktyka.Resolve(ctx, p.http, site, item.Links, prof.Extras)

	destDir := filepath.Join(p.downloadDir, prof.Key, item.Code)
	params := db.InsertArchiveParams{
		Code:     item.Code,
		Date:     item.Date,
		Year:     year,
		Type:     prof.Label,
		Sheet:    p.ensureAsset(ctx, rm.Sheet, filepath.Join(destDir, "arkusz.pdf")),
		Files:    p.ensureAsset(ctx, rm.Files, filepath.Join(destDir, "pliki.zip")),
		Solution: p.ensureAsset(ctx, rm.Solution, filepath.Join(destDir, "rozwiazanie.zip")),
	}
	if params.Sheet != "" {
		params.Downloaded = 1
	}
	if len(rm.Extra) > 0 {
		params.Extra = map[string]string{}
		for _, role := range prof.Extras {
			target, ok := rm.Extra[role.Key]
			if !ok {
				continue
			}
			params.Extra[role.Key] = p.ensureAsset(ctx, target, filepath.Join(destDir, role.Filename))
		}
	}

	return p.upsertArchive(ctx, prof, params, stats)
}

// ensureAsset downloads one resolved role url and returns the local
// path. an unresolved role or a failed download just leaves the role
// empty, the rest of the item is unaffected.
func (p *Pipeline) ensureAsset(ctx context.Context, target, dest string) string {
	if target == "" {
		return ""
	}
	local, err := download.EnsureLocal(ctx, p.http, target, dest)
	if err != nil {
		slog.WarnContext(ctx, "failed to download asset", "url", target, "err", err)
		return ""
	}
	return local
}

func (p *Pipeline) upsertArchive(ctx context.Context, prof PracticeProfile, params db.InsertArchiveParams, stats *Stats) error {
	tx, err := p.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := p.qry.WithTx(tx)

	exists, err := txqry.ArchiveExists(ctx, prof.Table, params.Code)
	if err != nil {
		return err
	}
	if exists {
		stats.Skipped++
		return nil
	}

	err = txqry.InsertArchive(ctx, prof.Table, params)
	if err != nil {
		return err
	}
	err = tx.Commit()
	if err != nil {
		return err
	}
	stats.Added++
	return nil
}
