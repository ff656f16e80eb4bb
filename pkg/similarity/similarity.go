// Package similarity provides string similarity scorers on a [0,1]
// scale, backed by the strutil metric implementations.
package similarity

import (
	"strings"

	"github.com/adrg/strutil/metrics"
)

// Jaro scores strings with the Jaro metric. It is more forgiving of
// transpositions than edit distance, which suits matching short
// user answers against option labels.
type Jaro struct {
	m *metrics.Jaro
}

// NewJaro creates a case-insensitive Jaro scorer.
func NewJaro() *Jaro {
	return &Jaro{m: metrics.NewJaro()}
}

// Score returns the Jaro similarity of a and b in [0,1].
func (j *Jaro) Score(a, b string) float64 {
	return j.m.Compare(strings.ToLower(a), strings.ToLower(b))
}

// JaroWinkler favors strings sharing a common prefix, which suits
// matching whole trained prompts.
type JaroWinkler struct {
	m *metrics.JaroWinkler
}

// NewJaroWinkler creates a case-insensitive Jaro-Winkler scorer.
func NewJaroWinkler() *JaroWinkler {
	return &JaroWinkler{m: metrics.NewJaroWinkler()}
}

// Score returns the Jaro-Winkler similarity of a and b in [0,1].
func (j *JaroWinkler) Score(a, b string) float64 {
	return j.m.Compare(strings.ToLower(a), strings.ToLower(b))
}
