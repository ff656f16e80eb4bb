package ports

import (
	"context"

	"github.com/jvm123/botstory/pkg/domain"
)

// StateStore persists per-session dialog state snapshots. This allows
// sessions to survive process restarts and to be shared across
// replicas.
type StateStore interface {
	// Save persists the snapshot for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.DialogState) error

	// Load retrieves the snapshot for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.DialogState, error)

	// Delete removes the snapshot for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the known session IDs.
	List(ctx context.Context) ([]string, error)
}
