// Package nlp implements the text analyzer behind the slot policies:
// tokenization, number and date detection, part-of-speech tagging with
// noun-phrase grouping, and word-class matching.
package nlp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	prose "github.com/jdkato/prose/v2"

	"github.com/jvm123/botstory/pkg/domain"
)

// prefilterLayout is the month/day/year form the prefilter substitutes
// for relative day words, chosen to parse unambiguously downstream.
const prefilterLayout = "01/02/2006"

var (
	todayPattern    = regexp.MustCompile(`(?i)\btoday\b`)
	tomorrowPattern = regexp.MustCompile(`(?i)\btomorrow\b`)
	bracketPattern  = regexp.MustCompile(`[\(\[][^\)\]]*[\)\]]`)
	datePattern     = regexp.MustCompile(`^\d{1,4}([/-])\d{1,2}(?:[/-]\d{1,4})?$`)
)

const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var numberWords = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven",
	"eight", "nine", "ten", "eleven", "twelve", "thirteen", "fourteen",
	"fifteen", "sixteen", "seventeen", "eighteen", "nineteen", "twenty",
}

var monthNames = map[string]bool{
	"january": true, "february": true, "march": true, "april": true,
	"may": true, "june": true, "july": true, "august": true,
	"september": true, "october": true, "november": true, "december": true,
	"jan": true, "feb": true, "mar": true, "apr": true, "jun": true,
	"jul": true, "aug": true, "sep": true, "oct": true, "nov": true,
	"dec": true,
}

// Analyzer implements ports.Analyzer on top of prose for tagging and
// dateparse for date detection. Safe for concurrent use.
type Analyzer struct {
	now func() time.Time
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithClock overrides the time source used to resolve "today" and
// "tomorrow". Tests pin it to a fixed instant.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// New returns an Analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Prefilter rewrites relative day words into calendar dates so the
// date detector sees a concrete value.
func (a *Analyzer) Prefilter(text string) string {
	text = todayPattern.ReplaceAllString(text, a.now().Format(prefilterLayout))
	text = tomorrowPattern.ReplaceAllString(text, a.now().AddDate(0, 0, 1).Format(prefilterLayout))
	return text
}

// Analyze runs the full pipeline over one utterance. The date search
// runs on the raw text because cleaning strips the separators a date
// needs; everything else works on cleaned tokens.
func (a *Analyzer) Analyze(text string, classes []domain.WordClass, skip int) (domain.Analysis, error) {
	date := findDate(strings.Fields(text))

	tokens := cleanTokens(text)
	tokens, numbers := findNumbers(tokens)
	query := strings.Join(tokens, " ")

	tags, err := tagTokens(query)
	if err != nil {
		return domain.Analysis{}, err
	}

	nouns := findNouns(tags, skip)
	last := ""
	if len(nouns) > 0 {
		last = nouns[len(nouns)-1]
	}

	return domain.Analysis{
		Query:    query,
		Tokens:   tokens,
		Tags:     tags,
		Classes:  matchClasses(tokens, classes),
		Numbers:  numbers,
		Date:     date,
		Nouns:    nouns,
		LastNoun: last,
	}, nil
}

// cleanTokens strips bracketed asides and punctuation, then splits on
// whitespace.
func cleanTokens(text string) []string {
	text = bracketPattern.ReplaceAllString(text, "")
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if !strings.ContainsRune(punctuation, r) {
			b.WriteRune(r)
		}
	}
	return strings.Fields(b.String())
}

// findDate scans windows of up to three raw tokens for a parseable
// date. Bare numbers are not considered: a window qualifies only when
// it carries a date hint, either a separator form like 12/11/2021 or a
// month name. That keeps "2 nights" from being read as a date.
func findDate(rawTokens []string) *time.Time {
	trimmed := make([]string, len(rawTokens))
	for i, tok := range rawTokens {
		trimmed[i] = strings.Trim(tok, ",.;:!?")
	}
	for n := 3; n >= 1; n-- {
		for i := 0; i+n <= len(trimmed); i++ {
			window := trimmed[i : i+n]
			if !dateHint(window) {
				continue
			}
			if t, err := dateparse.ParseAny(strings.Join(window, " ")); err == nil {
				return &t
			}
		}
	}
	return nil
}

func dateHint(window []string) bool {
	for _, tok := range window {
		if datePattern.MatchString(tok) || monthNames[strings.ToLower(tok)] {
			return true
		}
	}
	return false
}

// findNumbers rewrites spelled-out numbers up to twenty into digits in
// place, then collects every purely numeric token.
func findNumbers(tokens []string) ([]string, []int) {
	var numbers []int
	for i, tok := range tokens {
		for n, word := range numberWords {
			if strings.EqualFold(tok, word) {
				tokens[i] = strconv.Itoa(n)
				break
			}
		}
	}
	for _, tok := range tokens {
		if n, err := strconv.Atoi(tok); err == nil {
			numbers = append(numbers, n)
		}
	}
	return tokens, numbers
}

func tagTokens(query string) ([]domain.TaggedToken, error) {
	if query == "" {
		return nil, nil
	}
	doc, err := prose.NewDocument(query,
		prose.WithExtraction(false),
		prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("tag tokens: %w", err)
	}
	toks := doc.Tokens()
	tags := make([]domain.TaggedToken, 0, len(toks))
	for _, t := range toks {
		tags = append(tags, domain.TaggedToken{Text: t.Text, Tag: t.Tag})
	}
	return tags, nil
}

// findNouns groups uninterrupted runs of NN*-tagged tokens into noun
// phrases. skip excludes the leading tokens, so an expected trigger
// word such as "define" is not misread as a noun.
func findNouns(tags []domain.TaggedToken, skip int) []string {
	if skip > len(tags) {
		skip = len(tags)
	}
	var nouns []string
	current := ""
	for _, t := range tags[skip:] {
		if !strings.HasPrefix(t.Tag, "NN") {
			if current != "" {
				nouns = append(nouns, current)
				current = ""
			}
			continue
		}
		if current == "" {
			current = t.Text
		} else {
			current += " " + t.Text
		}
	}
	if current != "" {
		nouns = append(nouns, current)
	}
	return nouns
}

func matchClasses(tokens []string, classes []domain.WordClass) domain.ClassSet {
	matched := make(domain.ClassSet)
	for _, class := range classes {
		for _, tok := range tokens {
			lower := strings.ToLower(tok)
			for _, word := range class.Words {
				if lower == word {
					matched[class.Key()] = true
					break
				}
			}
			if matched[class.Key()] {
				break
			}
		}
	}
	return matched
}
