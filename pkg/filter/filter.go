// Package filter decides which feed entries are relevant enough to be stored
package filter

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/araddon/dateparse"

	"github.com/umputun/newsdigest/pkg/domain"
)

// Matcher checks titles against a keyword list with whole-word, case-insensitive matching
type Matcher struct {
	re *regexp.Regexp
}

// wordClass is the set of word characters, unicode aware unlike RE2's \b
const wordClass = `\p{L}\p{N}\p{M}_`

// NewMatcher builds a matcher for keywords, blank keywords are ignored.
// A matcher without keywords matches nothing.
// A keyword edge made of a word character must not touch another word character,
// edges made of symbols (as in "C++") are not anchored.
func NewMatcher(keywords []string) *Matcher {
	alts := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		alt := regexp.QuoteMeta(k)
		if first, _ := utf8.DecodeRuneInString(k); isWordRune(first) {
			alt = `(?:^|[^` + wordClass + `])` + alt
		}
		if last, _ := utf8.DecodeLastRuneInString(k); isWordRune(last) {
			alt += `(?:[^` + wordClass + `]|$)`
		}
		alts = append(alts, alt)
	}
	if len(alts) == 0 {
		return &Matcher{}
	}
	return &Matcher{re: regexp.MustCompile(`(?i)(?:` + strings.Join(alts, "|") + `)`)}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}

// Match reports whether text contains any keyword as a whole word
func (m *Matcher) Match(text string) bool {
	if m == nil || m.re == nil {
		return false
	}
	return m.re.MatchString(text)
}

// Verdict is the outcome of a relevance check
type Verdict int

// verdicts, only Relevant entries are stored
const (
	NoMatch Verdict = iota
	NoDate
	TooOld
	Relevant
)

// Evaluate checks the entry title against the matcher and its age against threshold.
// The normalized publication time is returned for matching entries with a usable date,
// the error explains a NoDate verdict.
func Evaluate(entry domain.Entry, m *Matcher, threshold time.Duration, now time.Time) (Verdict, *time.Time, error) {
	if !m.Match(entry.Title) {
		return NoMatch, nil, nil
	}
	published, err := NormalizeTime(entry.Published, entry.PublishedAt)
	if err != nil {
		return NoDate, nil, err
	}
	if now.UTC().Sub(*published) >= threshold {
		return TooOld, published, nil
	}
	return Relevant, published, nil
}

// IsRelevant reports whether the entry title matches and the entry is younger than threshold.
// Entries without a usable publication time are never relevant.
func IsRelevant(entry domain.Entry, m *Matcher, threshold time.Duration, now time.Time) bool {
	v, _, _ := Evaluate(entry, m, threshold, now)
	return v == Relevant
}

// NormalizeTime returns the publication time in UTC. The time already parsed by the feed
// library wins, otherwise raw is parsed permissively with naive timestamps taken as UTC.
func NormalizeTime(raw string, parsed *time.Time) (*time.Time, error) {
	if parsed != nil && !parsed.IsZero() {
		ts := parsed.UTC()
		return &ts, nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("no publication time")
	}
	ts, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse publication time %q: %w", raw, err)
	}
	ts = ts.UTC()
	return &ts, nil
}
