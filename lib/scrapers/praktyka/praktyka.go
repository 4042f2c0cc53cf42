// Package praktyka scrapes the practice exam archives on
// ee-informatyk.pl: paginated-by-year listings of downloadable exam
// sheets, attachments and solutions.
package praktyka

import (
	"context"
	"errors"

	"egzamin-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/praktyka")

var ErrNoYearSelector = errors.New("year selector not found on listing page")

// Years enumerates the values of the listing's year filter, excluding
// the "all" sentinel. an absent selector means the page layout changed,
// which is fatal for the whole profile group.
func Years(doc *goquery.Document) ([]string, error) {
	sel := doc.Find(`select[name="rok"]`).First()
	if sel.Length() == 0 {
		return nil, ErrNoYearSelector
	}

	var years []string
	sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
		value := opt.AttrOr("value", "")
		if value == "" || value == "all" {
			return
		}
		years = append(years, value)
	})
	return years, nil
}

// Item is one archive entry on a year-filtered listing page.
type Item struct {
	Code  string
	Date  string
	Links []htmlutil.Anchor
}

// ExtractItems pulls every archive block out of a listing page. blocks
// missing their date or code are dropped, later blocks are unaffected.
func ExtractItems(ctx context.Context, doc *goquery.Document) []Item {
	_, span := tracer.Start(ctx, "ExtractItems")
	defer span.End()

	var out []Item
	doc.Find("div.practice-list--one").Each(func(_ int, block *goquery.Selection) {
		date := htmlutil.CleanText(block.Find("div.practice-list--one--date h3").First())
		code := htmlutil.CleanText(block.Find("div.practice-list--one--id h3").First())
		if date == "" || code == "" {
			return
		}

		out = append(out, Item{
			Code:  code,
			Date:  date,
			Links: htmlutil.Anchors(block.Find("ul.practice-list--one--links").First()),
		})
	})
	return out
}
