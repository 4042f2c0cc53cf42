package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"egzamin-backend/lib/scrapers/praktyka"

	"github.com/stretchr/testify/require"
)

const practiceBasePage = `<html><body>
<select name="rok">
	<option value="all">Wszystkie</option>
	<option value="2025">2025</option>
	<option value="2024">2024</option>
</select>
</body></html>`

func practiceItem(code, date, sheetHref string) string {
	return fmt.Sprintf(`<div class="practice-list--one">
		<div class="practice-list--one--date"><h3>%s</h3></div>
		<div class="practice-list--one--id"><h3>%s</h3></div>
		<ul class="practice-list--one--links">
			<li><a href="%s">Arkusz PDF</a></li>
			<li><a href="/static/pliki/%s.zip">Pobierz Pliki</a></li>
			<li><a href="/static/rozw/%s.zip">Pobierz Rozwiązanie</a></li>
		</ul>
	</div>`, date, code, sheetHref, code, code)
}

type practiceSite struct {
	server   *httptest.Server
	pdfHits  atomic.Int64
	listings map[string]string
}

func newPracticeSite(t *testing.T) *practiceSite {
	site := &practiceSite{listings: map[string]string{}}
	site.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/praktyka/" && r.URL.Query().Get("rok") == "":
			w.Write([]byte(practiceBasePage))
		case r.URL.Path == "/praktyka/":
			key := r.URL.Query().Get("rok") + "|" + r.URL.Query().Get("egzamin")
			w.Write([]byte("<html><body>" + site.listings[key] + "</body></html>"))
		case r.URL.Path == "/arkusz/ok":
			w.Write([]byte(`<html><body><a href="/static/arkusze/ok.pdf">Pobierz</a></body></html>`))
		case filepath.Ext(r.URL.Path) == ".pdf":
			site.pdfHits.Add(1)
			w.Write([]byte("%PDF-1.4"))
		case filepath.Ext(r.URL.Path) == ".zip":
			w.Write([]byte("PK zip"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(site.server.Close)
	return site
}

func TestScrapePracticeGroupSingleProfile(t *testing.T) {
	site := newPracticeSite(t)
	site.listings["2025|"] = practiceItem("INF.04-01-25.01-SG", "Styczeń 2025", "/arkusz/ok")
	site.listings["2024|"] = practiceItem("INF.04-02-24.06-SG", "Czerwiec 2024", "/arkusz/missing")

	p := setupPipeline(t)
	group := PracticeGroup{
		Name:    "INF.04",
		BaseURL: site.server.URL + "/praktyka/",
		Profiles: []PracticeProfile{
			{Key: "inf04", Table: "practice_inf04", Label: "INF.04", Extras: praktyka.Inf04ExtraRoles},
		},
	}
	ctx := context.Background()

	require.NoError(t, p.scrapePracticeGroup(ctx, group))

	count, err := p.qry.CountRows(ctx, "practice_inf04")
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	archive, err := p.qry.GetArchiveByCode(ctx, "practice_inf04", "INF.04-01-25.01-SG")
	require.NoError(t, err)
	require.Equal(t, 2025, archive.Year)
	require.Equal(t, "INF.04", archive.Type.String)
	require.Equal(t, 1, archive.Downloaded)
	require.True(t, archive.Sheet.Valid)
	require.FileExists(t, archive.Sheet.String)
	require.FileExists(t, filepath.Join(p.downloadDir, "inf04", "INF.04-01-25.01-SG", "pliki.zip"))

	// the second item's sheet page has no pdf behind it
	archive, err = p.qry.GetArchiveByCode(ctx, "practice_inf04", "INF.04-02-24.06-SG")
	require.NoError(t, err)
	require.False(t, archive.Sheet.Valid)
	require.Equal(t, 0, archive.Downloaded)
	require.True(t, archive.Solution.Valid)
}

func TestScrapePracticeGroupRerunIsNoop(t *testing.T) {
	site := newPracticeSite(t)
	site.listings["2025|"] = practiceItem("INF.04-01-25.01-SG", "Styczeń 2025", "/arkusz/ok")

	p := setupPipeline(t)
	group := PracticeGroup{
		Name:    "INF.04",
		BaseURL: site.server.URL + "/praktyka/",
		Profiles: []PracticeProfile{
			{Key: "inf04", Table: "practice_inf04", Label: "INF.04"},
		},
	}
	ctx := context.Background()

	require.NoError(t, p.scrapePracticeGroup(ctx, group))
	require.NoError(t, p.scrapePracticeGroup(ctx, group))

	count, err := p.qry.CountRows(ctx, "practice_inf04")
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	// the sheet was on disk already, so the re-run never fetched it
	require.Equal(t, int64(1), site.pdfHits.Load())
}

func TestScrapePracticeGroupMultiProfileFilter(t *testing.T) {
	site := newPracticeSite(t)
	// the inf02-filtered listing leaks an ee08 entry which must be
	// filed under ee08's own pass, not inf02's
	site.listings["2025|inf02"] = practiceItem("INF.02-01-25.01-SG", "Styczeń 2025", "/arkusz/ok") +
		practiceItem("EE.08-05-25.01-SG", "Styczeń 2025", "/arkusz/ok")
	site.listings["2025|ee08"] = practiceItem("EE.08-05-25.01-SG", "Styczeń 2025", "/arkusz/ok")

	p := setupPipeline(t)
	group := PracticeGroup{
		Name:    "INF.02 / EE.08",
		BaseURL: site.server.URL + "/praktyka/",
		Profiles: []PracticeProfile{
			{Key: "inf02", Table: "practice_inf02", Label: "INF02"},
			{Key: "ee08", Table: "practice_ee08", Label: "EE08"},
		},
	}
	ctx := context.Background()

	require.NoError(t, p.scrapePracticeGroup(ctx, group))

	count, err := p.qry.CountRows(ctx, "practice_inf02")
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	count, err = p.qry.CountRows(ctx, "practice_ee08")
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestScrapePracticeGroupMissingYearSelector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>layout changed</p></body></html>"))
	}))
	t.Cleanup(server.Close)

	p := setupPipeline(t)
	err := p.scrapePracticeGroup(context.Background(), PracticeGroup{
		Name:     "INF.04",
		BaseURL:  server.URL + "/praktyka/",
		Profiles: []PracticeProfile{{Key: "inf04", Table: "practice_inf04"}},
	})
	require.ErrorIs(t, err, praktyka.ErrNoYearSelector)
}

func TestIngestArchiveYearFallback(t *testing.T) {
	site := newPracticeSite(t)
	// a code with too few segments cannot carry a year
	site.listings["2024|"] = `<div class="practice-list--one">
		<div class="practice-list--one--date"><h3>Czerwiec 2024</h3></div>
		<div class="practice-list--one--id"><h3>INF.04-BAD</h3></div>
		<ul class="practice-list--one--links"></ul>
	</div>`

	p := setupPipeline(t)
	group := PracticeGroup{
		Name:    "INF.04",
		BaseURL: site.server.URL + "/praktyka/",
		Profiles: []PracticeProfile{
			{Key: "inf04", Table: "practice_inf04", Label: "INF.04"},
		},
	}
	require.NoError(t, p.scrapePracticeGroup(context.Background(), group))

	archive, err := p.qry.GetArchiveByCode(context.Background(), "practice_inf04", "INF.04-BAD")
	require.NoError(t, err)
	require.Equal(t, 2024, archive.Year)
}

func TestPartialDownloadNeverLeftBehind(t *testing.T) {
	// crash recovery relies on a non-empty file meaning a complete
	// download, so a failed transfer must leave no file at all
	p := setupPipeline(t)
	dest := filepath.Join(p.downloadDir, "inf04", "X", "arkusz.pdf")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	got := p.ensureAsset(context.Background(), server.URL+"/arkusz.pdf", dest)
	require.Empty(t, got)
	_, err := os.Stat(dest)
	require.True(t, os.IsNotExist(err))
}
