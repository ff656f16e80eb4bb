package ports

import "github.com/jvm123/botstory/pkg/domain"

// Analyzer turns raw text into the structured linguistic features the
// slot policies interpret. Implementations are synchronous and must be
// safe for concurrent use across sessions.
type Analyzer interface {
	// Prefilter rewrites a raw utterance before analysis, e.g. literal
	// "today"/"tomorrow" into calendar dates.
	Prefilter(text string) string

	// Analyze tokenizes text, detects numbers, a date and noun
	// phrases, and matches the given word classes against the tokens.
	// skip excludes the first n tokens from the noun-phrase search
	// (used to strip a leading trigger word such as "define").
	Analyze(text string, classes []domain.WordClass, skip int) (domain.Analysis, error)
}
