package theme

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var liquidTagPattern = regexp.MustCompile(`\{\{[^}]*\}\}|\{%[^%]*%\}`)

const summaryMaxLength = 120

// Summary extracts a short human-readable preview from section markup for
// catalog listings: the first heading if one exists, otherwise the first
// run of text. Liquid interpolation is stripped before parsing since the
// markup is HTML once the engine tags are removed.
func Summary(markup string) string {
	plain := liquidTagPattern.ReplaceAllString(markup, " ")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(plain))
	if err != nil {
		return ""
	}

	text := strings.TrimSpace(doc.Find("h1, h2, h3").First().Text())
	if text == "" {
		text = strings.TrimSpace(doc.Text())
	}

	text = strings.Join(strings.Fields(text), " ")
	if len(text) > summaryMaxLength {
		text = strings.TrimSpace(text[:summaryMaxLength]) + "…"
	}
	return text
}
