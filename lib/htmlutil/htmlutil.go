package htmlutil

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CleanText returns the text content of a selection with surrounding
// whitespace trimmed and runs of inner whitespace collapsed.
func CleanText(sel *goquery.Selection) string {
	return innerWhitespace.ReplaceAllString(strings.TrimSpace(sel.Text()), " ")
}

type Anchor struct {
	Text string
	Href string
}

// Anchors collects every <a> under the selection with its cleaned link
// text. anchors without an href are dropped.
func Anchors(sel *goquery.Selection) []Anchor {
	var out []Anchor
	sel.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		out = append(out, Anchor{
			Text: CleanText(a),
			Href: href,
		})
	})
	return out
}
