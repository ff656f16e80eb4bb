package respond

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jvm123/botstory/internal/logging"
	"github.com/jvm123/botstory/pkg/ports"
)

// ErrNoStrategy is returned when no registered strategy could produce
// a reply.
var ErrNoStrategy = errors.New("no response strategy produced a reply")

// Selector asks every applicable strategy for a reply and picks the
// highest-confidence one; registration order breaks ties. A strategy
// that fails is skipped, so a broken collaborator degrades the answer
// instead of crashing the session.
type Selector struct {
	strategies []ports.Strategy
	logger     *slog.Logger
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithSelectorLogger sets the selector logger.
func WithSelectorLogger(logger *slog.Logger) SelectorOption {
	return func(s *Selector) { s.logger = logger }
}

// NewSelector creates a selector over the given strategies, consulted
// in order.
func NewSelector(strategies []ports.Strategy, opts ...SelectorOption) *Selector {
	s := &Selector{
		strategies: append([]ports.Strategy(nil), strategies...),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Respond returns the best reply across strategies.
func (s *Selector) Respond(ctx context.Context, text string) (string, float64, error) {
	bestReply, bestScore, found := "", -1.0, false

	for _, strat := range s.strategies {
		if !strat.CanHandle(text) {
			continue
		}
		reply, confidence, err := strat.Process(ctx, text)
		if err != nil {
			s.logger.Warn("response strategy failed", "err", err)
			continue
		}
		if confidence > bestScore {
			bestReply, bestScore, found = reply, confidence, true
		}
	}

	if !found {
		return "", 0, ErrNoStrategy
	}
	return bestReply, bestScore, nil
}
