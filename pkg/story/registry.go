package story

import (
	"log/slog"

	"github.com/jvm123/botstory/internal/logging"
	"github.com/jvm123/botstory/pkg/domain"
)

// Registry is the build-time catalog of branches, word classes and
// canned exchanges. It is populated before any session starts and is
// read-only afterwards; Stories share one Registry.
type Registry struct {
	branches map[string]domain.Branch
	order    []string
	classes  []domain.WordClass
	initial  string

	training    []string
	homeButtons []string

	logger *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used for definition diagnostics.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty registry with the built-in affirmative
// and negative sentiment classes pre-registered.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		branches: make(map[string]domain.Branch),
		classes: []domain.WordClass{
			domain.SentimentClass(domain.SentimentYes, "yes", "ok", "correct", "good"),
			domain.SentimentClass(domain.SentimentNo, "no", "nope", "incorrect", "wrong", "not", "bad"),
		},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterBranch adds a branch definition. The first branch ever
// registered becomes the initial active branch for new sessions.
// Registering a duplicate name overwrites that branch's schema,
// triggers and button; the branch keeps its original position in the
// intent tie-break order.
func (r *Registry) RegisterBranch(b domain.Branch) error {
	if err := validateBranch(b); err != nil {
		return err
	}

	old, exists := r.branches[b.Name]
	if exists {
		r.logger.Debug("branch re-registered, definition replaced", "branch", b.Name)
	} else {
		r.order = append(r.order, b.Name)
	}

	b.Schema = b.Schema.Clone()
	r.branches[b.Name] = b

	if len(b.TriggerWords) > 0 || exists {
		r.setTriggerClass(b.Name, b.TriggerWords)
	}

	if r.initial == "" {
		r.initial = b.Name
	}

	if !exists || old.Button != b.Button {
		r.setHomeButton(old.Button, b.Button)
	}
	return nil
}

// setHomeButton installs or replaces a branch's home button, keeping
// its position in the button list.
func (r *Registry) setHomeButton(old, button string) {
	if old != "" {
		for i, btn := range r.homeButtons {
			if btn != old {
				continue
			}
			if button == "" {
				r.homeButtons = append(r.homeButtons[:i], r.homeButtons[i+1:]...)
			} else {
				r.homeButtons[i] = button
			}
			return
		}
	}
	if button != "" {
		r.homeButtons = append(r.homeButtons, button)
	}
}

// setTriggerClass installs or replaces the trigger word class for a
// branch, preserving its registration-order slot.
func (r *Registry) setTriggerClass(branch string, words []string) {
	key := domain.TriggerClass(branch).Key()
	for i, c := range r.classes {
		if c.Key() == key {
			r.classes[i].Words = append([]string(nil), words...)
			return
		}
	}
	if len(words) == 0 {
		return
	}
	r.classes = append(r.classes, domain.TriggerClass(branch, words...))
}

func validateBranch(b domain.Branch) error {
	if b.Name == "" {
		return &domain.ConfigError{Branch: b.Name, Reason: "empty branch name"}
	}
	seen := make(map[string]bool, len(b.Schema))
	for _, spec := range b.Schema {
		if spec.Name == "" {
			return &domain.ConfigError{Branch: b.Name, Reason: "entity with empty name"}
		}
		if seen[spec.Name] {
			return &domain.ConfigError{Branch: b.Name, Entity: spec.Name, Reason: "duplicate entity name"}
		}
		seen[spec.Name] = true

		switch spec.Type {
		case domain.EntityInt, domain.EntityIntOrString, domain.EntityBool,
			domain.EntityBoolConfirm, domain.EntityString, domain.EntityDate:
		default:
			return &domain.ConfigError{Branch: b.Name, Entity: spec.Name, Reason: "unknown entity type " + string(spec.Type)}
		}

		if spec.Question == "" {
			return &domain.ConfigError{Branch: b.Name, Entity: spec.Name, Reason: "missing question text"}
		}
		if min, max := spec.IntBounds(); min > max {
			return &domain.ConfigError{Branch: b.Name, Entity: spec.Name, Reason: "numeric bounds are inverted"}
		}
		if spec.ParallelTakeup != "" {
			if spec.ParallelTakeup == spec.Name {
				return &domain.ConfigError{Branch: b.Name, Entity: spec.Name, Reason: "parallel takeup references itself"}
			}
			if b.Schema.Index(spec.ParallelTakeup) < 0 {
				return &domain.ConfigError{Branch: b.Name, Entity: spec.Name, Reason: "parallel takeup target " + spec.ParallelTakeup + " not in schema"}
			}
		}
	}
	return nil
}

// RegisterExchange records one stimulus/response pair for the response
// collaborator's training step. It has no effect on the state machine.
func (r *Registry) RegisterExchange(prompt, reply string, addButton bool) {
	r.training = append(r.training, prompt, reply)
	if addButton {
		r.homeButtons = append(r.homeButtons, prompt)
	}
}

// RegisterExchanges records alternating prompt/reply pairs.
func (r *Registry) RegisterExchanges(pairs []string, addButtons bool) error {
	if len(pairs)%2 != 0 {
		return &domain.ConfigError{Reason: "exchange list must alternate prompt and reply"}
	}
	for i := 0; i < len(pairs); i += 2 {
		r.RegisterExchange(pairs[i], pairs[i+1], addButtons)
	}
	return nil
}

// InitialBranch returns the default branch new sessions start in, or
// "" if no branch has been registered.
func (r *Registry) InitialBranch() string { return r.initial }

// Branch looks up a branch definition by name.
func (r *Registry) Branch(name string) (domain.Branch, bool) {
	b, ok := r.branches[name]
	return b, ok
}

// Branches returns the branch names in registration order.
func (r *Registry) Branches() []string {
	return append([]string(nil), r.order...)
}

// Classes returns the word classes in registration order, built-in
// sentiment classes first.
func (r *Registry) Classes() []domain.WordClass {
	return append([]domain.WordClass(nil), r.classes...)
}

// TrainingData returns the accumulated canned exchanges as alternating
// prompt/reply strings.
func (r *Registry) TrainingData() []string {
	return append([]string(nil), r.training...)
}

// HomeButtons returns the display labels contributed by branches and
// exchanges, for the initial branch choice.
func (r *Registry) HomeButtons() []string {
	return append([]string(nil), r.homeButtons...)
}
