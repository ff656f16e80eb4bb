package botstory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jvm123/botstory/internal/logging"
	"github.com/jvm123/botstory/pkg/dialog"
	"github.com/jvm123/botstory/pkg/domain"
	"github.com/jvm123/botstory/pkg/nlp"
	"github.com/jvm123/botstory/pkg/ports"
	"github.com/jvm123/botstory/pkg/respond"
	"github.com/jvm123/botstory/pkg/similarity"
	"github.com/jvm123/botstory/pkg/story"
)

// Version is the library version.
const Version = "1.0.0"

// DefaultWelcome is the opening chat log entry for new sessions.
const DefaultWelcome = "Hi."

// Bot is the high-level entry point: one conversational agent over a
// shared story registry. It wires the analyzer, the per-session slot
// engine and the free-text responder behind a single Respond call.
//
// A Bot holds per-session state; create one Bot per conversation and
// share the Registry between them.
type Bot struct {
	reg          *story.Registry
	story        *story.Story
	orchestrator *dialog.Orchestrator
	responder    *respond.BestMatch
	selector     *respond.Selector
	logger       *slog.Logger

	welcome          string
	wording          Wording
	glossary         map[string]string
	chatlog          []string
	analyzerOverride ports.Analyzer
}

// Option configures a Bot.
type Option func(*Bot)

// WithLogger sets a structured logger for the bot and its parts.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) { b.logger = logger }
}

// WithWelcome overrides the opening chat log entry.
func WithWelcome(msg string) Option {
	return func(b *Bot) { b.welcome = msg }
}

// Wording overrides the fixed user-visible texts in one place. Empty
// fields keep the stock wording.
type Wording struct {
	Welcome        string
	Done           string
	DontUnderstand string
	ConfirmRetry   string
	Cancelled      string
}

// WithWording applies wording overrides to the bot and its parts.
func WithWording(w Wording) Option {
	return func(b *Bot) { b.wording = w }
}

// WithResponder injects a pre-configured free-text responder, e.g. one
// backed by a persistent corpus store.
func WithResponder(r *respond.BestMatch) Option {
	return func(b *Bot) { b.responder = r }
}

// The default analyzer is shared across bots; it is stateless apart
// from its clock.
var defaultAnalyzer = nlp.New()

// WithAnalyzer overrides the text analyzer.
func WithAnalyzer(a ports.Analyzer) Option {
	return func(b *Bot) { b.analyzerOverride = a }
}

// WithDefinitions adds a glossary lookup strategy that answers
// "What is X?" style prompts from the given term/definition pairs.
func WithDefinitions(glossary map[string]string) Option {
	return func(b *Bot) { b.glossary = glossary }
}

// New creates a bot over the given registry: a fresh session in the
// registry's initial branch, with the responder trained on the default
// small talk plus the registry's canned exchanges.
func New(reg *story.Registry, opts ...Option) (*Bot, error) {
	b := &Bot{
		reg:     reg,
		logger:  logging.NewNop(),
		welcome: DefaultWelcome,
	}
	for _, opt := range opts {
		opt(b)
	}

	analyzer := b.analyzerOverride
	if analyzer == nil {
		analyzer = defaultAnalyzer
	}

	if b.wording.Welcome != "" {
		b.welcome = b.wording.Welcome
	}
	storyMsgs := story.DefaultMessages()
	if b.wording.ConfirmRetry != "" {
		storyMsgs.ConfirmRetry = b.wording.ConfirmRetry
	}
	if b.wording.Cancelled != "" {
		storyMsgs.Cancelled = b.wording.Cancelled
	}
	dialogMsgs := dialog.DefaultMessages()
	if b.wording.Done != "" {
		dialogMsgs.Done = b.wording.Done
	}
	if b.wording.DontUnderstand != "" {
		dialogMsgs.DontUnderstand = b.wording.DontUnderstand
	}

	b.story = story.New(reg, analyzer,
		story.WithLogger(b.logger),
		story.WithMessages(storyMsgs),
	)
	b.orchestrator = dialog.New(b.story,
		dialog.WithScorer(similarity.NewJaro()),
		dialog.WithLogger(b.logger),
		dialog.WithMessages(dialogMsgs),
	)

	if b.responder == nil {
		b.responder = respond.NewBestMatch(respond.WithLogger(b.logger))
	}
	training := append(DefaultExchanges(), reg.TrainingData()...)
	if err := b.responder.Train(context.Background(), training); err != nil {
		return nil, fmt.Errorf("train responder: %w", err)
	}

	strategies := []ports.Strategy{b.orchestrator, b.responder}
	if len(b.glossary) > 0 {
		strategies = append(strategies,
			respond.NewDefinitions(analyzer, b.glossary, respond.WithDefinitionsLogger(b.logger)))
	}
	b.selector = respond.NewSelector(strategies, respond.WithSelectorLogger(b.logger))

	b.chatlogAppend(b.welcome, true)
	return b, nil
}

// Registry returns the shared definition catalog.
func (b *Bot) Registry() *story.Registry { return b.reg }

// Story returns the session state machine.
func (b *Bot) Story() *story.Story { return b.story }

// RegisterAction installs the terminal behavior for a branch.
func (b *Bot) RegisterAction(branch string, fn dialog.ActionFunc) {
	b.orchestrator.RegisterAction(branch, fn)
}

// Respond runs one conversational turn and returns the reply with its
// quick-reply buttons.
func (b *Bot) Respond(ctx context.Context, text string) (domain.Reply, error) {
	b.chatlogAppend(text, false)

	msg, confidence, err := b.selector.Respond(ctx, text)
	if err != nil {
		return domain.Reply{}, err
	}
	b.logger.Debug("turn answered", "confidence", confidence, "branch", b.story.Branch())

	b.chatlogAppend(msg, true)
	return domain.Reply{
		Text:    msg,
		Buttons: b.orchestrator.Buttons(),
	}, nil
}

// State snapshots the session's dialog position for persistence.
func (b *Bot) State() *domain.DialogState {
	return b.story.Snapshot()
}

// RestoreState rebuilds the session from a stored snapshot.
func (b *Bot) RestoreState(state *domain.DialogState) error {
	return b.story.Restore(state)
}

// Chatlog returns all past user prompts and bot replies, bot entries
// wrapped in asterisks.
func (b *Bot) Chatlog() []string {
	return append([]string(nil), b.chatlog...)
}

func (b *Bot) chatlogAppend(msg string, botUser bool) {
	if botUser {
		msg = "*" + msg + "*"
	}
	b.chatlog = append(b.chatlog, msg)
}

// TemplateData provides data for UI templates.
func (b *Bot) TemplateData() map[string]any {
	return map[string]any{
		"welcome":      b.welcome,
		"home_buttons": b.reg.HomeButtons(),
	}
}
