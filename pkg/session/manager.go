package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/jvm123/botstory/internal/logging"
	"github.com/jvm123/botstory/pkg/domain"
	"github.com/jvm123/botstory/pkg/ports"
)

// DefaultIdleTimeout is how long a session may sit without a turn
// before it is evicted from memory.
const DefaultIdleTimeout = 2 * time.Hour

// Bot is one conversational engine instance. The manager keeps one Bot
// per session and serializes turns on it.
type Bot interface {
	Respond(ctx context.Context, text string) (domain.Reply, error)
	State() *domain.DialogState
	RestoreState(state *domain.DialogState) error
}

// Factory builds a fresh Bot for a new session.
type Factory func() Bot

// lockEntry holds the per-session mutex and its reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// liveSession is an in-memory bot plus its last activity time.
type liveSession struct {
	bot      Bot
	lastSeen time.Time
}

// Manager owns the session registry: it creates bots on demand,
// restores their dialog state from the store, serializes concurrent
// turns per session and evicts idle sessions. Locks are reference
// counted so the lock map does not grow with the session count.
type Manager struct {
	factory Factory
	store   ports.StateStore
	idle    time.Duration
	clock   func() time.Time
	logger  *slog.Logger

	mu    sync.Mutex
	locks map[string]*lockEntry
	bots  map[string]*liveSession
}

// Option configures the Manager.
type Option func(*Manager)

// WithIdleTimeout overrides the idle eviction window.
func WithIdleTimeout(d time.Duration) Option {
	return func(m *Manager) { m.idle = d }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.clock = now }
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// NewManager creates a session Manager with the given bot factory and
// persistence store.
func NewManager(factory Factory, store ports.StateStore, opts ...Option) *Manager {
	m := &Manager{
		factory: factory,
		store:   store,
		idle:    DefaultIdleTimeout,
		clock:   time.Now,
		logger:  logging.NewNop(),
		locks:   make(map[string]*lockEntry),
		bots:    make(map[string]*liveSession),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference
// count. The caller must Lock entry.mu and call release afterwards.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and drops the entry at zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// withLock executes fn while holding the lock for the session.
func (m *Manager) withLock(sessionID string, fn func() error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()
	return fn()
}

// Respond runs one turn for the session, creating or restoring the bot
// as needed. The returned flag reports whether this is a brand new
// session, i.e. neither the memory registry nor the store knew it.
func (m *Manager) Respond(ctx context.Context, sessionID, text string) (domain.Reply, bool, error) {
	m.sweep()

	var reply domain.Reply
	var isNew bool
	err := m.withLock(sessionID, func() error {
		bot, fresh, err := m.lookup(ctx, sessionID)
		if err != nil {
			return err
		}
		isNew = fresh

		reply, err = bot.Respond(ctx, text)
		if err != nil {
			return err
		}

		if err := m.store.Save(ctx, sessionID, bot.State()); err != nil {
			return fmt.Errorf("persist session %s: %w", sessionID, err)
		}
		m.touch(sessionID, bot)
		return nil
	})
	if err != nil {
		return domain.Reply{}, false, err
	}
	reply.NewSession = isNew
	return reply, isNew, nil
}

// lookup returns the live bot for the session, restoring it from the
// store when it is not in memory. Caller holds the session lock.
func (m *Manager) lookup(ctx context.Context, sessionID string) (Bot, bool, error) {
	m.mu.Lock()
	entry, ok := m.bots[sessionID]
	m.mu.Unlock()
	if ok {
		return entry.bot, false, nil
	}

	bot := m.factory()
	state, err := m.store.Load(ctx, sessionID)
	switch {
	case err == nil:
		if restoreErr := bot.RestoreState(state); restoreErr != nil {
			m.logger.Warn("Stored session state unusable, starting fresh",
				"session_id", sessionID,
				"err", restoreErr,
			)
			return m.factory(), true, nil
		}
		return bot, false, nil
	case errors.Is(err, domain.ErrSessionNotFound):
		return bot, true, nil
	default:
		return nil, false, fmt.Errorf("load session %s: %w", sessionID, err)
	}
}

// Touch marks the session as active without running a turn. Unknown
// sessions are ignored.
func (m *Manager) Touch(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.bots[sessionID]; ok {
		entry.lastSeen = m.clock()
	}
}

func (m *Manager) touch(sessionID string, bot Bot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bots[sessionID] = &liveSession{bot: bot, lastSeen: m.clock()}
}

// Evict drops the session from memory and from the store.
func (m *Manager) Evict(ctx context.Context, sessionID string) error {
	return m.withLock(sessionID, func() error {
		m.mu.Lock()
		delete(m.bots, sessionID)
		m.mu.Unlock()

		if err := m.store.Delete(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return err
		}
		return nil
	})
}

// sweep evicts sessions idle beyond the timeout. Only the in-memory
// bot is dropped; the stored state stays until the store expires it.
func (m *Manager) sweep() {
	now := m.clock()

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, entry := range m.bots {
		if now.Sub(entry.lastSeen) < m.idle {
			continue
		}
		delete(m.bots, id)
		m.logger.Debug("Evicted idle session", "session_id", id)
	}
}

// Len reports how many sessions are live in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bots)
}
