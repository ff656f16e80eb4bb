package domain

// SchemaMerge records a copy-forward of one branch's entities into
// another, so a restored session can rebuild its effective schemas.
type SchemaMerge struct {
	Into string `json:"into"`
	From string `json:"from"`
}

// DialogState is the serializable snapshot of one session's dialog
// position: active branch, pending open question and per-branch slot
// values. The last analysis record is deliberately absent; it never
// outlives the turn that produced it.
type DialogState struct {
	// Branch is the active branch name, or "" before first activation.
	Branch string `json:"branch"`

	// OpenEntity is the slot currently being asked about, or "".
	// Invariant: when set, it names a currently-unset slot in the
	// active branch's schema.
	OpenEntity string `json:"open_entity,omitempty"`

	// Values holds the per-branch entity value stores.
	Values map[string]EntityValues `json:"values"`

	// Merges lists schema copy-forwards in application order.
	Merges []SchemaMerge `json:"merges,omitempty"`
}

// Clone returns an independent deep copy.
func (st *DialogState) Clone() *DialogState {
	if st == nil {
		return nil
	}
	out := &DialogState{
		Branch:     st.Branch,
		OpenEntity: st.OpenEntity,
		Values:     make(map[string]EntityValues, len(st.Values)),
		Merges:     append([]SchemaMerge(nil), st.Merges...),
	}
	for branch, ev := range st.Values {
		out.Values[branch] = ev.Clone()
	}
	return out
}

// Reply is the per-turn result handed to the hosting service.
type Reply struct {
	Text       string   `json:"response"`
	Buttons    []string `json:"buttons"`
	NewSession bool     `json:"new_session"`
}
