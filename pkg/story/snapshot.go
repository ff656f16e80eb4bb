package story

import (
	"fmt"

	"github.com/jvm123/botstory/pkg/domain"
)

// Snapshot captures the session's dialog position for persistence.
// Schema overlays are recorded as the merge history, not as schema
// copies; Restore replays them against the same registry.
func (s *Story) Snapshot() *domain.DialogState {
	st := &domain.DialogState{
		Branch:     s.branch,
		OpenEntity: s.open,
		Values:     make(map[string]domain.EntityValues, len(s.values)),
		Merges:     append([]domain.SchemaMerge(nil), s.merges...),
	}
	for branch, ev := range s.values {
		st.Values[branch] = ev.Clone()
	}
	return st
}

// Restore rebuilds the session from a snapshot taken against the same
// registry. Unknown branches or slots in the snapshot fail fast; slots
// the snapshot does not mention come back unset.
func (s *Story) Restore(st *domain.DialogState) error {
	if _, ok := s.reg.Branch(st.Branch); !ok {
		return fmt.Errorf("restore branch %q: %w", st.Branch, domain.ErrBranchNotFound)
	}

	// Rebuild effective schemas from pristine registry clones, then
	// replay the recorded merges in order.
	schemas := make(map[string]domain.Schema, len(s.schemas))
	for _, name := range s.reg.Branches() {
		b, _ := s.reg.Branch(name)
		schemas[name] = b.Schema.Clone()
	}
	for _, m := range st.Merges {
		src, ok := schemas[m.From]
		if !ok {
			return fmt.Errorf("restore merge from %q: %w", m.From, domain.ErrBranchNotFound)
		}
		dst, ok := schemas[m.Into]
		if !ok {
			return fmt.Errorf("restore merge into %q: %w", m.Into, domain.ErrBranchNotFound)
		}
		schemas[m.Into] = dst.Merge(src)
	}

	values := make(map[string]domain.EntityValues, len(schemas))
	for name, schema := range schemas {
		ev := freshValues(schema)
		for slot, v := range st.Values[name] {
			if _, known := ev[slot]; !known {
				return fmt.Errorf("restore branch %q slot %q: %w", name, slot, domain.ErrUnknownEntity)
			}
			ev[slot] = v
		}
		values[name] = ev
	}

	if st.OpenEntity != "" {
		if _, ok := schemas[st.Branch].Get(st.OpenEntity); !ok {
			return fmt.Errorf("restore open question %q: %w", st.OpenEntity, domain.ErrUnknownEntity)
		}
	}

	s.branch = st.Branch
	s.open = st.OpenEntity
	s.schemas = schemas
	s.values = values
	s.merges = append([]domain.SchemaMerge(nil), st.Merges...)
	s.analysis = nil
	return nil
}
