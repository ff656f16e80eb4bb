package middleware

import (
	"context"
	"regexp"

	"github.com/jvm123/botstory/pkg/domain"
	"github.com/jvm123/botstory/pkg/ports"
)

// maskedValue replaces a matched slot value at rest.
const maskedValue = "***"

type piiMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks the values of slots
// whose names match any of the patterns before they reach the backing
// store. Typical patterns are "name", "phone" or "(?i)mail". The live
// session keeps the real values; only the persisted copy is masked.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.StateStore) ports.StateStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, state *domain.DialogState) error {
	cloned := state.Clone()

	for _, values := range cloned.Values {
		for slot, v := range values {
			if !v.IsSet() {
				continue
			}
			for _, p := range m.patterns {
				if p.MatchString(slot) {
					values[slot] = domain.StringValue(maskedValue)
					break
				}
			}
		}
	}

	return m.next.Save(ctx, sessionID, cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.DialogState, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
