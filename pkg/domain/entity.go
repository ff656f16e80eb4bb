package domain

// EntityType tags the slot interpretation policy for an entity.
type EntityType string

const (
	// EntityInt accepts the last number detected in the utterance,
	// within the spec's inclusive bounds.
	EntityInt EntityType = "int"
	// EntityIntOrString prefers a number for short answers, otherwise
	// falls back to free text.
	EntityIntOrString EntityType = "int_or_str"
	// EntityBool accepts an unambiguous affirmative or negative answer.
	EntityBool EntityType = "bool"
	// EntityBoolConfirm is a confirmation gate: a negative answer
	// cancels the whole branch, an ambiguous one re-prompts.
	EntityBoolConfirm EntityType = "bool_confirm"
	// EntityString takes the cleaned utterance or its last noun phrase.
	EntityString EntityType = "str"
	// EntityDate accepts a calendar date detected by the analyzer.
	EntityDate EntityType = "date"
)

// Default bounds for EntityInt slots without explicit limits.
const (
	DefaultIntMin = -9999
	DefaultIntMax = 9999
)

// EntitySpec defines one typed slot within a branch schema.
type EntitySpec struct {
	Name string
	Type EntityType

	// Question is the prompt template for this slot. It may contain
	// {slot} placeholders resolved against the formatted values of the
	// current branch.
	Question string

	// Buttons optionally overrides the derived quick-reply choices.
	Buttons []string

	// ParallelTakeup names another slot in the same branch; when that
	// slot is the open question, this one is opportunistically filled
	// from the same utterance.
	ParallelTakeup string

	// Min and Max bound EntityInt slots. Nil means the default bound;
	// derived range buttons are only offered when both are explicit.
	Min *int
	Max *int

	// TrueText and FalseText optionally control how an EntityBool value
	// renders inside question templates.
	TrueText  *string
	FalseText *string
}

// IntBounds returns the effective inclusive bounds for an EntityInt slot.
func (s EntitySpec) IntBounds() (min, max int) {
	min, max = DefaultIntMin, DefaultIntMax
	if s.Min != nil {
		min = *s.Min
	}
	if s.Max != nil {
		max = *s.Max
	}
	return min, max
}

// Schema is an ordered slot list. Declaration order drives prompting
// order and is fixed when the branch is registered.
type Schema []EntitySpec

// Index returns the position of the named slot, or -1.
func (s Schema) Index(name string) int {
	for i, spec := range s {
		if spec.Name == name {
			return i
		}
	}
	return -1
}

// Get returns the named slot spec.
func (s Schema) Get(name string) (EntitySpec, bool) {
	if i := s.Index(name); i >= 0 {
		return s[i], true
	}
	return EntitySpec{}, false
}

// Keys returns the slot names in declaration order.
func (s Schema) Keys() []string {
	keys := make([]string, len(s))
	for i, spec := range s {
		keys[i] = spec.Name
	}
	return keys
}

// Clone returns a deep copy. Schemas are merged across branches at
// runtime, so sessions must never share backing arrays.
func (s Schema) Clone() Schema {
	out := make(Schema, len(s))
	copy(out, s)
	for i := range out {
		if len(out[i].Buttons) > 0 {
			out[i].Buttons = append([]string(nil), out[i].Buttons...)
		}
	}
	return out
}

// Merge overlays src onto s: same-named slots are replaced in place,
// new slots are appended in src order. The receiver is not modified.
func (s Schema) Merge(src Schema) Schema {
	out := s.Clone()
	for _, spec := range src.Clone() {
		if i := out.Index(spec.Name); i >= 0 {
			out[i] = spec
		} else {
			out = append(out, spec)
		}
	}
	return out
}

// Branch is a named conversational intent with its slot schema.
type Branch struct {
	Name string

	// TriggerWords mark utterances as candidate intents for this
	// branch. May be empty for branches that are only entered
	// programmatically.
	TriggerWords []string

	Schema Schema

	// Button is an optional display label linking to this branch.
	Button string
}
