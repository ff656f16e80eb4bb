package ports

import "context"

// Responder is the free-text response collaborator: it is trained with
// alternating prompt/reply pairs and returns its best-matching reply
// with a confidence score in [0,1].
type Responder interface {
	// Train records the given pairs. The slice alternates prompt,
	// reply, prompt, reply; an odd length is a configuration error.
	Train(ctx context.Context, pairs []string) error

	// Respond returns the best-matching trained reply and its
	// confidence.
	Respond(ctx context.Context, text string) (reply string, confidence float64, err error)
}

// Strategy is one pluggable response source. The hosting selector asks
// every applicable strategy for a reply and picks the one reporting the
// highest confidence. The dialog orchestrator is itself a strategy.
type Strategy interface {
	// CanHandle reports whether the strategy applies to the utterance.
	CanHandle(text string) bool

	// Process produces a reply and its confidence.
	Process(ctx context.Context, text string) (reply string, confidence float64, err error)
}
