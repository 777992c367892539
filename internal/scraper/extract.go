package scraper

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

// Extractor pulls candidate name strings out of a parsed directory page.
// The strategy is chosen by configuration; directory sites differ in whether
// names live in dedicated markup or in free-flowing text.
type Extractor interface {
	Extract(doc *goquery.Document) []string
}

// SelectorExtractor performs structural extraction: each element matching one
// of the configured selectors yields one candidate from its text content.
type SelectorExtractor struct {
	Selectors []string
}

func (e SelectorExtractor) Extract(doc *goquery.Document) []string {
	var candidates []string
	for _, sel := range e.Selectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if text := Normalize(s.Text()); text != "" {
				candidates = append(candidates, text)
			}
		})
	}
	return candidates
}

var (
	// "Last, First" — reassembled as "First Last".
	lastFirstPattern = regexp.MustCompile(`(?m)([A-Z][a-zA-Z'.-]+),\s+([A-Z][a-zA-Z'.-]+)`)
	// Bare "First Last" token pairs.
	firstLastPattern = regexp.MustCompile(`(?m)\b([A-Z][a-z'-]+)\s+([A-Z][a-z'-]+)\b`)
)

// TextExtractor is the textual fallback: markup, scripts and styles are
// stripped and two surface patterns are matched over the remaining text.
// Every match is gated by the classifier before it becomes a candidate.
type TextExtractor struct {
	Classifier *Classifier
}

func (e TextExtractor) Extract(doc *goquery.Document) []string {
	stripped := doc.Clone()
	stripped.Find("script, style, noscript").Remove()
	text := stripped.Text()

	var candidates []string
	for _, m := range lastFirstPattern.FindAllStringSubmatch(text, -1) {
		name := Normalize(m[2] + " " + m[1])
		if e.Classifier.IsLikelyName(name) {
			candidates = append(candidates, name)
		}
	}
	for _, m := range firstLastPattern.FindAllStringSubmatch(text, -1) {
		name := Normalize(m[0])
		if e.Classifier.IsLikelyName(name) {
			candidates = append(candidates, name)
		}
	}
	return candidates
}
