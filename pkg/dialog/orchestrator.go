/*
Package dialog sequences one user turn through the slot-filling
pipeline: intent-switch detection, entity extraction, option matching,
prompting and terminal branch actions.

The pipeline is strict: stages run in a fixed order and the first one
producing a non-empty message wins, so every turn yields exactly one
user-visible message.
*/
package dialog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jvm123/botstory/internal/logging"
	"github.com/jvm123/botstory/pkg/ports"
	"github.com/jvm123/botstory/pkg/story"
)

// SimilarityThreshold is the minimum score for a free-text answer to
// match a previously presented option.
const SimilarityThreshold = 0.6

// Confidence levels the orchestrator reports as a response strategy.
const (
	fullConfidence     = 1.0
	fallbackConfidence = 0.1
)

// Messages holds the orchestrator's fixed wording.
type Messages struct {
	// Done is emitted when a running branch is cancelled by a quit
	// intent and the session returns to the initial branch.
	Done string
	// DontUnderstand is the low-confidence fallback.
	DontUnderstand string
}

// DefaultMessages returns the stock wording.
func DefaultMessages() Messages {
	return Messages{
		Done:           "Thank you! Can I help you with anything else?",
		DontUnderstand: "Sorry, I don't understand.",
	}
}

// ActionFunc is a branch's terminal behavior, executed once every slot
// of the branch is filled. It may transition to a follow-up branch,
// carry values forward, present options, or finalize the dialog and
// return to the initial branch.
type ActionFunc func(ctx context.Context, t *Turn) (string, error)

// optionSet is a pending choice list presented to the user, matched
// against a later free-text answer for the named slot. The list
// survives branch transitions, since options are typically presented
// one branch before the answer is collected.
type optionSet struct {
	entity  string
	choices []string
}

// Orchestrator drives the per-turn pipeline for one session. It
// implements ports.Strategy so a response selector can weigh it
// against other reply sources.
type Orchestrator struct {
	story  *story.Story
	scorer ports.Scorer
	logger *slog.Logger
	msgs   Messages

	actions map[string]ActionFunc

	threshold float64
	options   *optionSet
	buttons   map[string][]string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithScorer sets the similarity collaborator used for option
// matching. Without one, option lists match by index only.
func WithScorer(scorer ports.Scorer) Option {
	return func(o *Orchestrator) { o.scorer = scorer }
}

// WithLogger sets the orchestrator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithMessages overrides the fixed wording.
func WithMessages(msgs Messages) Option {
	return func(o *Orchestrator) { o.msgs = msgs }
}

// WithSimilarityThreshold overrides the option-matching threshold.
func WithSimilarityThreshold(t float64) Option {
	return func(o *Orchestrator) { o.threshold = t }
}

// New creates a per-session orchestrator over the given story.
func New(st *story.Story, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		story:     st,
		logger:    logging.NewNop(),
		msgs:      DefaultMessages(),
		actions:   make(map[string]ActionFunc),
		threshold: SimilarityThreshold,
		buttons:   make(map[string][]string),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Story returns the underlying session state machine.
func (o *Orchestrator) Story() *story.Story { return o.story }

// RegisterAction installs the terminal behavior for a branch,
// replacing any previous one.
func (o *Orchestrator) RegisterAction(branch string, fn ActionFunc) {
	o.actions[branch] = fn
}

// CanHandle reports whether the slot engine applies to the utterance:
// either a branch is already active, or the utterance triggers a
// non-default branch. It records the analysis as a side effect.
func (o *Orchestrator) CanHandle(text string) bool {
	if o.story.Branch() != o.story.Registry().InitialBranch() {
		return true
	}
	if _, err := o.story.RecordAnalysis(text, nil); err != nil {
		return false
	}
	intent, ok := o.story.IdentifyIntent()
	return ok && intent != o.story.Registry().InitialBranch()
}

// Process runs the per-turn pipeline and returns exactly one message.
//
// Stage order: analyze, branch switch, entity extraction (with option
// matching), prompt, terminal action, fallback. Collaborator failures
// degrade toward the fallback message and never corrupt dialog state.
func (o *Orchestrator) Process(ctx context.Context, text string) (string, float64, error) {
	if _, err := o.story.RecordAnalysis(text, nil); err != nil {
		o.logger.Warn("analyzer failed, treating turn as not understood", "err", err)
		return o.msgs.DontUnderstand, fallbackConfidence, nil
	}

	if msg, err := o.switchBranch(); err != nil {
		return "", 0, err
	} else if msg != "" {
		return msg, fullConfidence, nil
	}

	msg, err := o.story.FillEntity("")
	if err != nil {
		return "", 0, fmt.Errorf("fill entity: %w", err)
	}
	if msg != "" {
		// BoolConfirm cancellation or re-prompt.
		return msg, fullConfidence, nil
	}
	o.matchOptions()

	prompt, err := o.story.PromptForOpenEntities()
	if err != nil {
		// A template gap is a configuration error; surface it rather
		// than emit a partially substituted question.
		return "", 0, err
	}
	if prompt != "" {
		return prompt, fullConfidence, nil
	}

	if fn := o.actions[o.story.Branch()]; fn != nil && o.story.Complete() {
		msg, err := fn(ctx, &Turn{o: o})
		if err != nil {
			o.logger.Error("branch action failed", "branch", o.story.Branch(), "err", err)
		} else if msg != "" {
			return msg, fullConfidence, nil
		}
	}

	return o.msgs.DontUnderstand, fallbackConfidence, nil
}

// switchBranch handles quit intents and fresh intent activation. The
// returned message may be empty when a branch with no slots was
// entered; the pipeline then continues.
func (o *Orchestrator) switchBranch() (string, error) {
	initial := o.story.Registry().InitialBranch()
	current := o.story.Branch()
	intent, matched := o.story.IdentifyIntent()
	if !matched {
		return "", nil
	}

	if current != initial && intent == initial {
		if err := o.story.EnterBranch(initial); err != nil {
			return "", err
		}
		o.forgetOptions()
		return o.msgs.Done, nil
	}

	if current == initial && intent != initial {
		if err := o.story.EnterBranch(intent); err != nil {
			return "", err
		}
		prompt, err := o.story.PromptForOpenEntities()
		if err != nil {
			return "", err
		}
		return prompt, nil
	}

	return "", nil
}

// Buttons returns the quick-reply choices for the message produced by
// the last pipeline run: a one-shot override registered by business
// logic wins over the choices derived from the open slot's spec.
func (o *Orchestrator) Buttons() []string {
	open := o.story.OpenEntity()
	if open == "" {
		return nil
	}
	if override, ok := o.buttons[open]; ok {
		delete(o.buttons, open)
		return override
	}
	return o.story.OpenEntityButtons()
}
