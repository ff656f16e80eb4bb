package ports

// Scorer measures string similarity on a [0,1] scale. Used by the
// orchestrator to match free-text answers against previously presented
// option lists.
type Scorer interface {
	Score(a, b string) float64
}
