package memory_test

import (
	"testing"

	"github.com/jvm123/botstory/pkg/adapters/memory"
	"github.com/jvm123/botstory/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStateStoreContract(t, store)
}
