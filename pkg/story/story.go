package story

import (
	"fmt"
	"log/slog"

	"github.com/jvm123/botstory/internal/logging"
	"github.com/jvm123/botstory/pkg/domain"
	"github.com/jvm123/botstory/pkg/ports"
)

// Messages holds the fixed wording the state machine itself can emit.
// Only the BoolConfirm policy produces user-visible text here.
type Messages struct {
	// ConfirmRetry is returned when a confirmation answer is ambiguous.
	ConfirmRetry string
	// Cancelled is returned when a confirmation is answered negatively
	// and the dialog falls back to the initial branch.
	Cancelled string
}

// DefaultMessages returns the stock wording.
func DefaultMessages() Messages {
	return Messages{
		ConfirmRetry: "Sorry, I do not understand. Yes or no?",
		Cancelled:    "Sorry I could not help you. Let's start over.",
	}
}

// Story is the per-session dialog state machine over one Registry:
// active branch, per-branch slot values, pending open question and the
// most recent analysis snapshot.
//
// A Story is not safe for concurrent mutation; the hosting service
// serializes access per session. Distinct sessions never share state.
type Story struct {
	reg      *Registry
	analyzer ports.Analyzer
	logger   *slog.Logger
	msgs     Messages

	branch  string
	open    string
	values  map[string]domain.EntityValues
	schemas map[string]domain.Schema
	merges  []domain.SchemaMerge

	analysis *domain.Analysis
}

// Option configures a Story.
type Option func(*Story)

// WithLogger sets the story logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Story) { s.logger = logger }
}

// WithMessages overrides the BoolConfirm wording.
func WithMessages(msgs Messages) Option {
	return func(s *Story) { s.msgs = msgs }
}

// New creates a session state machine over the given registry. The
// session starts positioned in the registry's initial branch with no
// open question.
func New(reg *Registry, analyzer ports.Analyzer, opts ...Option) *Story {
	s := &Story{
		reg:      reg,
		analyzer: analyzer,
		logger:   logging.NewNop(),
		msgs:     DefaultMessages(),
		branch:   reg.InitialBranch(),
		values:   make(map[string]domain.EntityValues),
		schemas:  make(map[string]domain.Schema),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, name := range reg.Branches() {
		b, _ := reg.Branch(name)
		s.schemas[name] = b.Schema.Clone()
		s.values[name] = freshValues(s.schemas[name])
	}
	return s
}

// freshValues builds an all-unset value store whose keys are exactly
// the schema keys.
func freshValues(schema domain.Schema) domain.EntityValues {
	ev := make(domain.EntityValues, len(schema))
	for _, spec := range schema {
		ev[spec.Name] = domain.Value{}
	}
	return ev
}

// Registry returns the shared definition catalog.
func (s *Story) Registry() *Registry { return s.reg }

// Branch returns the active branch name.
func (s *Story) Branch() string { return s.branch }

// OpenEntity returns the slot currently being asked about, or "".
func (s *Story) OpenEntity() string { return s.open }

// Analysis returns the most recent analysis snapshot, or nil.
func (s *Story) Analysis() *domain.Analysis { return s.analysis }

// Schema returns the session's effective schema for the active branch.
func (s *Story) Schema() domain.Schema { return s.schemas[s.branch].Clone() }

// Value returns the current value of a slot in the active branch.
func (s *Story) Value(entity string) (domain.Value, bool) {
	v, ok := s.values[s.branch][entity]
	return v, ok
}

// Values returns a copy of the active branch's value store.
func (s *Story) Values() domain.EntityValues {
	return s.values[s.branch].Clone()
}

// Complete reports whether every slot of the active branch is set.
func (s *Story) Complete() bool { return s.values[s.branch].Complete() }

// EnterBranch activates a branch: its value store is reset to all-unset
// and the open question becomes the first schema key in declared order
// (or unset for an empty schema). Fails without mutating state if the
// branch is not registered.
func (s *Story) EnterBranch(name string) error {
	schema, ok := s.schemas[name]
	if !ok {
		return fmt.Errorf("enter branch %q: %w", name, domain.ErrBranchNotFound)
	}

	s.branch = name
	s.values[name] = freshValues(schema)
	if len(schema) > 0 {
		s.open = schema[0].Name
	} else {
		s.open = ""
	}

	s.logger.Debug("entered branch", "branch", name, "open", s.open)
	return nil
}

// RecordAnalysis runs the prefilter and analyzer over a new user
// utterance and stores the result as the session's current snapshot,
// replacing any prior one. extra word classes are merged over the
// registry's; on key collision the extra class wins.
func (s *Story) RecordAnalysis(text string, extra []domain.WordClass) (domain.Analysis, error) {
	classes := mergeClasses(s.reg.Classes(), extra)

	a, err := s.analyzer.Analyze(s.analyzer.Prefilter(text), classes, 0)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("analyze utterance: %w", err)
	}
	s.analysis = &a
	return a, nil
}

func mergeClasses(base, extra []domain.WordClass) []domain.WordClass {
	if len(extra) == 0 {
		return base
	}
	replaced := make(map[string]domain.WordClass, len(extra))
	for _, c := range extra {
		replaced[c.Key()] = c
	}
	out := make([]domain.WordClass, 0, len(base)+len(extra))
	for _, c := range base {
		if r, ok := replaced[c.Key()]; ok {
			out = append(out, r)
			delete(replaced, c.Key())
			continue
		}
		out = append(out, c)
	}
	for _, c := range extra {
		if _, pending := replaced[c.Key()]; pending {
			out = append(out, c)
		}
	}
	return out
}

// IdentifyIntent scans the registered word classes in registration
// order and returns the branch of the first trigger class matched by
// the current analysis. The second result is false when no trigger
// matched.
func (s *Story) IdentifyIntent() (string, bool) {
	if s.analysis == nil {
		return "", false
	}
	for _, c := range s.reg.Classes() {
		if c.Kind == domain.ClassTrigger && s.analysis.Classes.Has(c.Key()) {
			return c.Tag, true
		}
	}
	return "", false
}

// FillEntity attempts to fill the named slot (or the open question if
// entity is "") from the current analysis. It returns a user-visible
// message only for the BoolConfirm re-prompt and cancellation cases;
// otherwise the empty string, leaving prompting to the caller.
func (s *Story) FillEntity(entity string) (string, error) {
	if s.analysis == nil {
		return "", domain.ErrNoAnalysis
	}
	if entity == "" {
		entity = s.open
	}
	return s.fill(entity, true)
}

func (s *Story) fill(entity string, takeup bool) (string, error) {
	schema := s.schemas[s.branch]
	spec, ok := schema.Get(entity)
	if !ok {
		return "", nil
	}

	// Parallel takeup: a single, non-recursive side pass over slots
	// declaring the open question as their takeup source. Targets are
	// never chained and their messages are discarded.
	if takeup && entity == s.open {
		for _, other := range schema {
			if other.Name != entity && other.ParallelTakeup == entity {
				if _, err := s.fill(other.Name, false); err != nil {
					return "", err
				}
			}
		}
	}

	if spec.Type == domain.EntityBoolConfirm {
		return s.fillConfirm(spec)
	}

	if v := extractValue(spec, s.analysis); v.IsSet() {
		s.values[s.branch][entity] = v
		s.open = ""
		s.logger.Debug("entity filled", "branch", s.branch, "entity", entity, "kind", string(v.Kind))
	}
	return "", nil
}

// fillConfirm applies the BoolConfirm policy: the only slot type
// permitted to short-circuit the whole dialog.
func (s *Story) fillConfirm(spec domain.EntitySpec) (string, error) {
	switch v := extractBool(s.analysis); {
	case v.IsSet() && v.Bool:
		s.values[s.branch][spec.Name] = v
		s.open = ""
		return "", nil
	case v.IsSet():
		// Negative answer: the current branch is cancelled, never
		// recorded as false.
		if err := s.EnterBranch(s.reg.InitialBranch()); err != nil {
			return "", err
		}
		return s.msgs.Cancelled, nil
	default:
		return s.msgs.ConfirmRetry, nil
	}
}

// SetEntity stores a value directly, for business logic that resolves
// a slot outside the extraction policies (e.g. option matching).
func (s *Story) SetEntity(entity string, v domain.Value) error {
	if _, ok := s.schemas[s.branch].Get(entity); !ok {
		return fmt.Errorf("set %q in branch %q: %w", entity, s.branch, domain.ErrUnknownEntity)
	}
	s.values[s.branch][entity] = v
	return nil
}

// ClearEntity resets a slot to unset, so the next prompt pass asks for
// it again.
func (s *Story) ClearEntity(entity string) error {
	return s.SetEntity(entity, domain.Value{})
}

// SetOpenEntity marks a slot as the pending open question, for prompts
// produced outside the state machine.
func (s *Story) SetOpenEntity(entity string) error {
	if _, ok := s.schemas[s.branch].Get(entity); !ok {
		return fmt.Errorf("open %q in branch %q: %w", entity, s.branch, domain.ErrUnknownEntity)
	}
	s.open = entity
	return nil
}

// PromptForOpenEntities walks the active branch's schema in declared
// order, marks the first unset slot as the open question and returns
// its question template with placeholders substituted. It returns ""
// when every slot is set.
func (s *Story) PromptForOpenEntities() (string, error) {
	for _, spec := range s.schemas[s.branch] {
		if s.values[s.branch][spec.Name].IsSet() {
			continue
		}
		s.open = spec.Name

		prompt, err := ExpandTemplate(spec.Question, s.FormattedValues())
		if err != nil {
			return "", fmt.Errorf("branch %q entity %q: %w", s.branch, spec.Name, err)
		}
		return prompt, nil
	}

	s.open = ""
	return "", nil
}

// CopyEntitiesFrom merges the source branch's current values and
// schema into the active branch's store. Source keys overwrite
// same-named destination keys; destination-only keys are preserved.
// The merge copies, it never aliases.
func (s *Story) CopyEntitiesFrom(source string) error {
	srcSchema, ok := s.schemas[source]
	if !ok {
		return fmt.Errorf("copy entities from %q: %w", source, domain.ErrBranchNotFound)
	}

	s.schemas[s.branch] = s.schemas[s.branch].Merge(srcSchema)

	dst := s.values[s.branch]
	for name, v := range s.values[source] {
		dst[name] = v
	}
	for _, spec := range s.schemas[s.branch] {
		if _, present := dst[spec.Name]; !present {
			dst[spec.Name] = domain.Value{}
		}
	}

	s.merges = append(s.merges, domain.SchemaMerge{Into: s.branch, From: source})
	return nil
}
