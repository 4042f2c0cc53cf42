package praktyka

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"egzamin-backend/lib/fetchutil"
	"egzamin-backend/lib/htmlutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

// ExtraRole is a profile-specific downloadable role beyond the shared
// sheet/files/solution trio, e.g. the per-language solution archives on
// the INF.04 listing.
type ExtraRole struct {
	// storage key, doubles as the column suffix in the practice table
	Key string
	// case-sensitive substring of the link text
	Keyword string
	// local file name the asset is saved under
	Filename string
}

// Inf04ExtraRoles are the additional links present on INF.04 entries.
// language variants come before the answer key so that "Rozwiązanie
// C++" never falls through to a broader rule.
var Inf04ExtraRoles = []ExtraRole{
	{Key: "rozwiazanie_cs", Keyword: "C#", Filename: "rozwiazanie_cs.zip"},
	{Key: "rozwiazanie_cpp", Keyword: "C++", Filename: "rozwiazanie_cpp.zip"},
	{Key: "rozwiazanie_java", Keyword: "Java", Filename: "rozwiazanie_java.zip"},
	{Key: "rozwiazanie_python", Keyword: "Python", Filename: "rozwiazanie_python.zip"},
	{Key: "klucz_odpowiedzi", Keyword: "Klucz", Filename: "klucz_odpowiedzi.pdf"},
	{Key: "materialy", Keyword: "Materiały", Filename: "materialy.zip"},
}

// RoleMap holds the resolved binary url per asset role. an empty value
// means the role stayed unresolved for this item, which is missing
// data, not an error.
type RoleMap struct {
	Sheet    string
	Files    string
	Solution string
	// extra-role key -> url, only for profiles that define extras
	Extra map[string]string
}

// Resolve classifies an item's outbound links into asset roles by their
// link text, first match wins per link and per role. the sheet link
// points at an intermediate html page, so resolving it costs one more
// fetch to locate the actual pdf.
func Resolve(ctx context.Context, client *resty.Client, site *url.URL, links []htmlutil.Anchor, extras []ExtraRole) RoleMap {
	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()

	rm := RoleMap{}

	for _, link := range links {
		abs, err := site.Parse(link.Href)
		if err != nil {
			slog.WarnContext(ctx, "unparseable link href", "href", link.Href, "err", err)
			continue
		}
		target := abs.String()

		if key, ok := matchExtra(link.Text, extras, rm.Extra); ok {
			if rm.Extra == nil {
				rm.Extra = map[string]string{}
			}
			rm.Extra[key] = target
			continue
		}

		switch {
		case rm.Sheet == "" && strings.Contains(link.Text, "Arkusz"):
			pdf, err := resolveSheet(ctx, client, site, target)
			if err != nil {
				span.SetStatus(codes.Error, "sheet page fetch failed")
				slog.WarnContext(ctx, "failed to resolve sheet page", "url", target, "err", err)
				continue
			}
			rm.Sheet = pdf
		case rm.Files == "" && isZipRole(link, "Pobierz Pliki", "Pliki"):
			rm.Files = target
		case rm.Solution == "" && isZipRole(link, "Pobierz Rozwiązanie", "Rozwiązanie"):
			rm.Solution = target
		}
	}

	return rm
}

func matchExtra(text string, extras []ExtraRole, resolved map[string]string) (string, bool) {
	for _, role := range extras {
		if _, done := resolved[role.Key]; done {
			continue
		}
		if strings.Contains(text, role.Keyword) {
			return role.Key, true
		}
	}
	return "", false
}

func isZipRole(link htmlutil.Anchor, explicit, bare string) bool {
	if strings.Contains(link.Text, explicit) {
		return true
	}
	return strings.Contains(link.Text, bare) &&
		strings.HasSuffix(strings.ToLower(link.Href), ".zip")
}

// resolveSheet fetches the intermediate page behind an "Arkusz" link
// and returns the url of the first pdf it links to. no pdf on the page
// leaves the sheet role unresolved.
func resolveSheet(ctx context.Context, client *resty.Client, site *url.URL, pageURL string) (string, error) {
	doc, err := fetchutil.FetchDocument(ctx, client, pageURL)
	if err != nil {
		return "", err
	}

	href := doc.Find(`a[href$=".pdf"]`).First().AttrOr("href", "")
	if href == "" {
		return "", nil
	}
	abs, err := site.Parse(href)
	if err != nil {
		return "", err
	}
	return abs.String(), nil
}
