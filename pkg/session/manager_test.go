package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jvm123/botstory/pkg/domain"
	"github.com/jvm123/botstory/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]*domain.DialogState
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, state *domain.DialogState) error {
	time.Sleep(5 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.DialogState)
	}
	s.data[sessionID] = state.Clone()
	return nil
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.DialogState, error) {
	time.Sleep(5 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.data[sessionID]; ok {
		return state.Clone(), nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *SlowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

// countBot counts turns without internal locking. The manager must
// serialize Respond calls per session for the count to come out right.
type countBot struct {
	turns    int
	restored bool
	state    domain.DialogState
}

func (b *countBot) Respond(ctx context.Context, text string) (domain.Reply, error) {
	current := b.turns
	time.Sleep(2 * time.Millisecond)
	b.turns = current + 1
	return domain.Reply{Text: "ok"}, nil
}

func (b *countBot) State() *domain.DialogState { return &b.state }

func (b *countBot) RestoreState(state *domain.DialogState) error {
	b.state = *state.Clone()
	b.restored = true
	return nil
}

func TestManager_NewSessionFlag(t *testing.T) {
	manager := session.NewManager(func() session.Bot { return &countBot{} }, &SlowStore{})
	ctx := context.Background()

	reply, isNew, err := manager.Respond(ctx, "u1", "hello")
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.True(t, reply.NewSession)

	reply, isNew, err = manager.Respond(ctx, "u1", "hello again")
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.False(t, reply.NewSession)
}

func TestManager_RestoreFromStore(t *testing.T) {
	store := &SlowStore{}
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "u1", &domain.DialogState{Branch: "search"}))

	var bot *countBot
	manager := session.NewManager(func() session.Bot {
		bot = &countBot{}
		return bot
	}, store)

	_, isNew, err := manager.Respond(ctx, "u1", "hello")
	require.NoError(t, err)
	assert.False(t, isNew, "restored sessions are not new")
	assert.True(t, bot.restored)
	assert.Equal(t, "search", bot.state.Branch)
}

func TestManager_SerializedTurns(t *testing.T) {
	bot := &countBot{}
	manager := session.NewManager(func() session.Bot { return bot }, &SlowStore{})
	ctx := context.Background()

	var wg sync.WaitGroup
	turns := 10
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := manager.Respond(ctx, "race-test", "hi")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, turns, bot.turns, "turns must be serialized per session")
}

func TestManager_IdleEviction(t *testing.T) {
	now := time.Date(2021, 11, 12, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	manager := session.NewManager(func() session.Bot { return &countBot{} }, &SlowStore{},
		session.WithClock(clock),
		session.WithIdleTimeout(time.Hour))
	ctx := context.Background()

	_, _, err := manager.Respond(ctx, "u1", "hello")
	require.NoError(t, err)
	assert.Equal(t, 1, manager.Len())

	now = now.Add(2 * time.Hour)
	_, _, err = manager.Respond(ctx, "u2", "hello")
	require.NoError(t, err)
	assert.Equal(t, 1, manager.Len(), "idle session evicted from memory")

	// The evicted session still restores from the store.
	_, isNew, err := manager.Respond(ctx, "u1", "back again")
	require.NoError(t, err)
	assert.False(t, isNew)
}

func TestManager_Evict(t *testing.T) {
	manager := session.NewManager(func() session.Bot { return &countBot{} }, &SlowStore{})
	ctx := context.Background()

	_, _, err := manager.Respond(ctx, "u1", "hello")
	require.NoError(t, err)
	require.NoError(t, manager.Evict(ctx, "u1"))

	_, isNew, err := manager.Respond(ctx, "u1", "hello")
	require.NoError(t, err)
	assert.True(t, isNew, "evicted session starts over")
}
