package scraper

import (
	"strings"
	"unicode"
)

// Classifier decides whether a scraped text fragment is plausibly a person's
// full name. It is the only defense against directory pages leaking headings
// and boilerplate into the roster, so every rule errs toward rejection.
type Classifier struct {
	minLength int
	maxLength int
	denylist  []string
}

// ClassifierConfig tunes the classifier. Zero values fall back to defaults.
type ClassifierConfig struct {
	MinLength int
	MaxLength int
	Denylist  []string
}

const (
	defaultMinNameLength = 5
	defaultMaxNameLength = 40

	// Four or more consecutive uppercase letters marks an all-caps heading.
	maxUppercaseRun = 3
)

// NewClassifier builds a classifier. Denylist entries are matched as
// case-insensitive substrings of the normalized candidate.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	minLen := cfg.MinLength
	if minLen <= 0 {
		minLen = defaultMinNameLength
	}
	maxLen := cfg.MaxLength
	if maxLen <= 0 {
		maxLen = defaultMaxNameLength
	}

	denylist := make([]string, 0, len(cfg.Denylist))
	for _, word := range cfg.Denylist {
		word = strings.ToLower(strings.TrimSpace(word))
		if word != "" {
			denylist = append(denylist, word)
		}
	}

	return &Classifier{minLength: minLen, maxLength: maxLen, denylist: denylist}
}

// Normalize collapses runs of whitespace to single spaces and trims the ends.
// Normalizing an already-normalized string is a no-op.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsLikelyName reports whether the fragment looks like a full person name.
// Pure predicate, no side effects.
func (c *Classifier) IsLikelyName(raw string) bool {
	name := Normalize(raw)

	if len(name) < c.minLength || len(name) > c.maxLength {
		return false
	}

	upperRun := 0
	for _, r := range name {
		if !allowedNameRune(r) {
			return false
		}
		if unicode.IsUpper(r) {
			upperRun++
			if upperRun > maxUppercaseRun {
				return false
			}
		} else {
			upperRun = 0
		}
	}

	tokens := strings.Split(name, " ")
	if len(tokens) < 2 || len(tokens) > 3 {
		return false
	}
	for _, tok := range tokens {
		if tok == "" {
			return false
		}
	}

	lower := strings.ToLower(name)
	for _, word := range c.denylist {
		if strings.Contains(lower, word) {
			return false
		}
	}

	return true
}

func allowedNameRune(r rune) bool {
	if unicode.IsLetter(r) {
		return true
	}
	switch r {
	case ' ', '\'', '-', '.':
		return true
	}
	return false
}
