// Package teoria scrapes the theory question listings on
// praktycznyegzamin.pl. a profile's whole question bank sits on a
// single page as repeated "question" blocks.
package teoria

import (
	"context"
	"regexp"
	"strings"

	"egzamin-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/teoria")

// answer labels in storage order. the page marks the correct answer
// with a "correct" class, so detection is structural, not positional.
var labels = [4]string{"a", "b", "c", "d"}

type Question struct {
	Text     string
	Answers  [4]string
	// one of a/b/c/d
	Correct string
	// raw src attribute of the question's image, if any
	ImageSrc string
}

var (
	numberPrefix = regexp.MustCompile(`^\d+\.\s*`)
	letterPrefix = regexp.MustCompile(`^\s*[A-D]\.\s*`)
)

// ExtractQuestions pulls every well-formed question block out of a
// listing page. blocks missing a title or a marked correct answer are
// dropped without affecting their siblings.
func ExtractQuestions(ctx context.Context, doc *goquery.Document) []Question {
	_, span := tracer.Start(ctx, "ExtractQuestions")
	defer span.End()

	var out []Question
	doc.Find("div.question").Each(func(_ int, block *goquery.Selection) {
		title := block.Find("div.title").First()
		if title.Length() == 0 {
			return
		}
		text := numberPrefix.ReplaceAllString(htmlutil.CleanText(title), "")
		if text == "" {
			return
		}

		q := Question{Text: text}
		correct := -1
		block.Find("div.answer").Each(func(i int, ans *goquery.Selection) {
			if i >= len(q.Answers) {
				return
			}
			q.Answers[i] = letterPrefix.ReplaceAllString(htmlutil.CleanText(ans), "")
			if ans.HasClass("correct") {
				correct = i
			}
		})
		if correct < 0 {
			return
		}
		q.Correct = labels[correct]

		q.ImageSrc = block.Find("div.image img").AttrOr("src", "")

		out = append(out, q)
	})

	return out
}

// ImageURL resolves a question image src against the listing page url.
// sources on these pages are plain relative paths appended to the page
// url, absolute urls pass through untouched.
func ImageURL(pageURL, src string) string {
	if strings.HasPrefix(src, "http") {
		return src
	}
	return pageURL + src
}

// ImageFilename is the local (and served) file name for an image src.
// the site keeps legacy copies under an "old/" prefix which is dropped
// so both variants land on the same file.
func ImageFilename(src string) string {
	trimmed := strings.ReplaceAll(src, "old/", "")
	idx := strings.LastIndexByte(trimmed, '/')
	return trimmed[idx+1:]
}
