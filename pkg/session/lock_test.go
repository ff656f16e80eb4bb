package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/jvm123/botstory/pkg/domain"
)

// MockStore structure
type MockStore struct{}

func (m *MockStore) Save(ctx context.Context, sessionID string, state *domain.DialogState) error {
	return nil
}
func (m *MockStore) Load(ctx context.Context, sessionID string) (*domain.DialogState, error) {
	return nil, domain.ErrSessionNotFound
}
func (m *MockStore) Delete(ctx context.Context, sessionID string) error { return nil }
func (m *MockStore) List(ctx context.Context) ([]string, error)         { return nil, nil }

type nopBot struct {
	state domain.DialogState
}

func (b *nopBot) Respond(ctx context.Context, text string) (domain.Reply, error) {
	return domain.Reply{Text: "ok"}, nil
}
func (b *nopBot) State() *domain.DialogState               { return &b.state }
func (b *nopBot) RestoreState(s *domain.DialogState) error { b.state = *s; return nil }

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(func() Bot { return &nopBot{} }, &MockStore{})
	ctx := context.Background()
	count := 10000

	// Create and evict many sessions
	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_, _, _ = mgr.Respond(ctx, sid, "hello")
		_ = mgr.Evict(ctx, sid)
	}

	// If cleaned up properly, the lock map should be empty.
	lockCount := len(mgr.locks)
	t.Logf("Sessions Created: %d, Locks Leaked: %d", count, lockCount)

	if lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Evict", lockCount)
	}
}
