package middleware_test

import (
	"context"
	"testing"

	"github.com/jvm123/botstory/pkg/adapters/memory"
	"github.com/jvm123/botstory/pkg/domain"
	"github.com/jvm123/botstory/pkg/persistence/middleware"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	backing := memory.NewStore()
	mw := middleware.NewPIIMiddleware([]string{"name", "phone"})
	secureStore := mw(backing)

	ctx := context.Background()
	sessionID := "pii-session"
	state := &domain.DialogState{
		Branch: "action",
		Values: map[string]domain.EntityValues{
			"action": {
				"name":     domain.StringValue("Maria"),
				"phone":    domain.StringValue("555-0147"),
				"quantity": domain.IntValue(2),
				"confirm":  {},
			},
		},
	}

	if err := secureStore.Save(ctx, sessionID, state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The live state must stay untouched.
	if state.Values["action"]["name"] != domain.StringValue("Maria") {
		t.Error("middleware modified the in-memory state")
	}

	stored, err := backing.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("backing load failed: %v", err)
	}
	if v := stored.Values["action"]["name"]; v != domain.StringValue("***") {
		t.Errorf("name should be masked, got: %+v", v)
	}
	if v := stored.Values["action"]["phone"]; v != domain.StringValue("***") {
		t.Errorf("phone should be masked, got: %+v", v)
	}
	if v := stored.Values["action"]["quantity"]; v != domain.IntValue(2) {
		t.Errorf("quantity should pass through, got: %+v", v)
	}
	if v := stored.Values["action"]["confirm"]; v.IsSet() {
		t.Errorf("unset slot must stay unset, got: %+v", v)
	}
}

func TestMiddleware_Compose(t *testing.T) {
	backing := memory.NewStore()
	pii := middleware.NewPIIMiddleware([]string{"name"})
	enc := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})

	// Mask first, then encrypt the masked snapshot.
	store := pii(enc(backing))

	ctx := context.Background()
	state := &domain.DialogState{
		Branch: "action",
		Values: map[string]domain.EntityValues{
			"action": {"name": domain.StringValue("Maria")},
		},
	}
	if err := store.Save(ctx, "composed", state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx, "composed")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v := loaded.Values["action"]["name"]; v != domain.StringValue("***") {
		t.Errorf("name = %+v, want masked", v)
	}
}
