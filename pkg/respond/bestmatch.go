/*
Package respond implements the free-text response collaborator: a
best-match responder over trained stimulus/response pairs, a selector
that weighs pluggable response strategies by confidence, and a sqlite
corpus store for the trained pairs.
*/
package respond

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jvm123/botstory/internal/logging"
	"github.com/jvm123/botstory/pkg/ports"
	"github.com/jvm123/botstory/pkg/similarity"
)

// MatchThreshold is the minimum similarity for a trained prompt to be
// considered a match.
const MatchThreshold = 0.9

// DefaultReply is returned, with zero confidence, when no trained
// prompt matches.
const DefaultReply = "I am sorry, but I do not understand."

type exchange struct {
	prompt string
	reply  string
}

// BestMatch replies with the response trained for the most similar
// prompt. It implements both ports.Responder and ports.Strategy.
//
// Safe for concurrent reads across sessions; Train calls are
// serialized internally.
type BestMatch struct {
	scorer    ports.Scorer
	threshold float64
	fallback  string
	store     *CorpusStore
	logger    *slog.Logger

	mu        sync.RWMutex
	exchanges []exchange
}

// BestMatchOption configures a BestMatch responder.
type BestMatchOption func(*BestMatch)

// WithScorer replaces the default Jaro-Winkler prompt scorer.
func WithScorer(scorer ports.Scorer) BestMatchOption {
	return func(b *BestMatch) { b.scorer = scorer }
}

// WithThreshold overrides the match acceptance threshold.
func WithThreshold(t float64) BestMatchOption {
	return func(b *BestMatch) { b.threshold = t }
}

// WithDefaultReply overrides the no-match reply.
func WithDefaultReply(reply string) BestMatchOption {
	return func(b *BestMatch) { b.fallback = reply }
}

// WithCorpusStore attaches a persistent corpus: Train writes through
// to it, and LoadCorpus reads previously trained pairs back.
func WithCorpusStore(store *CorpusStore) BestMatchOption {
	return func(b *BestMatch) { b.store = store }
}

// WithLogger sets the responder logger.
func WithLogger(logger *slog.Logger) BestMatchOption {
	return func(b *BestMatch) { b.logger = logger }
}

// NewBestMatch creates an untrained responder.
func NewBestMatch(opts ...BestMatchOption) *BestMatch {
	b := &BestMatch{
		scorer:    similarity.NewJaroWinkler(),
		threshold: MatchThreshold,
		fallback:  DefaultReply,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Train records alternating prompt/reply pairs, appending to any
// previous training and writing through to the corpus store if one is
// attached.
func (b *BestMatch) Train(ctx context.Context, pairs []string) error {
	if len(pairs)%2 != 0 {
		return fmt.Errorf("training data must alternate prompt and reply, got %d entries", len(pairs))
	}

	b.mu.Lock()
	for i := 0; i < len(pairs); i += 2 {
		b.exchanges = append(b.exchanges, exchange{prompt: pairs[i], reply: pairs[i+1]})
	}
	b.mu.Unlock()

	if b.store != nil {
		if err := b.store.Append(ctx, pairs); err != nil {
			return fmt.Errorf("persist corpus: %w", err)
		}
	}
	b.logger.Debug("responder trained", "pairs", len(pairs)/2)
	return nil
}

// LoadCorpus replaces the in-memory training with the persisted
// corpus.
func (b *BestMatch) LoadCorpus(ctx context.Context) error {
	if b.store == nil {
		return nil
	}
	pairs, err := b.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.exchanges = b.exchanges[:0]
	for i := 0; i+1 < len(pairs); i += 2 {
		b.exchanges = append(b.exchanges, exchange{prompt: pairs[i], reply: pairs[i+1]})
	}
	return nil
}

// Respond returns the reply trained for the most similar prompt and
// the similarity as confidence. Below the threshold it returns the
// default reply with zero confidence.
func (b *BestMatch) Respond(ctx context.Context, text string) (string, float64, error) {
	text = strings.TrimSpace(text)

	b.mu.RLock()
	defer b.mu.RUnlock()

	best, bestScore := -1, 0.0
	for i, ex := range b.exchanges {
		score := b.scorer.Score(ex.prompt, text)
		if score > bestScore {
			bestScore = score
			best = i
		}
	}

	if best < 0 || bestScore < b.threshold {
		return b.fallback, 0, nil
	}
	return b.exchanges[best].reply, bestScore, nil
}

// CanHandle implements ports.Strategy; the responder applies to every
// utterance.
func (b *BestMatch) CanHandle(string) bool { return true }

// Process implements ports.Strategy.
func (b *BestMatch) Process(ctx context.Context, text string) (string, float64, error) {
	return b.Respond(ctx, text)
}
