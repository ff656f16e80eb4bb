package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvm123/botstory/pkg/domain"
)

// RunStateStoreContract runs a suite of tests verifying that a
// StateStore implementation adheres to the interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		when := time.Date(2021, 11, 12, 0, 0, 0, 0, time.UTC)
		state := &domain.DialogState{
			Branch:     "search",
			OpenEntity: "quantity",
			Values: map[string]domain.EntityValues{
				"search": {
					"date":     domain.DateValue(when),
					"quantity": {},
				},
			},
			Merges: []domain.SchemaMerge{{Into: "action", From: "search"}},
		}

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		require.NotNil(t, loaded)

		assert.Equal(t, "search", loaded.Branch)
		assert.Equal(t, "quantity", loaded.OpenEntity)
		assert.Equal(t, state.Merges, loaded.Merges)

		got := loaded.Values["search"]["date"]
		assert.Equal(t, domain.KindDate, got.Kind)
		assert.True(t, got.Date.Equal(when), "date should survive the round trip")
		assert.False(t, loaded.Values["search"]["quantity"].IsSet(), "unset slot must stay unset")
	})

	t.Run("Isolation", func(t *testing.T) {
		state := &domain.DialogState{
			Branch: "init",
			Values: map[string]domain.EntityValues{"init": {}},
		}
		require.NoError(t, store.Save(ctx, sessionID, state))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)

		// Mutating the loaded copy must not leak into the store.
		loaded.Branch = "mutated"
		loaded.Values["init"]["ghost"] = domain.IntValue(1)

		reloaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "init", reloaded.Branch)
		assert.NotContains(t, reloaded.Values["init"], "ghost")
	})

	t.Run("List", func(t *testing.T) {
		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, sessionID)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, sessionID))

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Load missing", func(t *testing.T) {
		_, err := store.Load(ctx, "no-such-session")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}
