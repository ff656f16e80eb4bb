package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jvm123/botstory"
	"github.com/jvm123/botstory/internal/demo"
	"github.com/jvm123/botstory/pkg/config"
	"github.com/jvm123/botstory/pkg/respond"
	"github.com/jvm123/botstory/pkg/story"
)

// BotOptions controls how CLI commands assemble a bot.
type BotOptions struct {
	// ConfigPath is a YAML story definition. Empty selects the
	// built-in demo story.
	ConfigPath string

	// CorpusPath is an optional sqlite corpus of additional trained
	// exchanges.
	CorpusPath string

	Debug bool
}

// LoadStory builds the story definition from the YAML config when one
// is given, otherwise the built-in demo story. It also returns the bot
// options the config implies (wording overrides) and whether the demo
// was selected.
func LoadStory(configPath string, logger *slog.Logger) (*story.Registry, []botstory.Option, bool, error) {
	if configPath == "" {
		reg, err := demo.Registry(story.WithRegistryLogger(logger))
		if err != nil {
			return nil, nil, false, fmt.Errorf("build demo story: %w", err)
		}
		return reg, []botstory.Option{botstory.WithDefinitions(demo.Glossary())}, true, nil
	}

	file, err := config.Load(configPath)
	if err != nil {
		return nil, nil, false, fmt.Errorf("load story config: %w", err)
	}
	reg := story.NewRegistry(story.WithRegistryLogger(logger))
	if err := file.Apply(reg); err != nil {
		return nil, nil, false, fmt.Errorf("apply story config: %w", err)
	}

	var botOpts []botstory.Option
	if w := (botstory.Wording{
		Welcome:        file.Messages.Welcome,
		Done:           file.Messages.Done,
		DontUnderstand: file.Messages.DontUnderstand,
		ConfirmRetry:   file.Messages.ConfirmRetry,
		Cancelled:      file.Messages.Cancelled,
	}); w != (botstory.Wording{}) {
		botOpts = append(botOpts, botstory.WithWording(w))
	}
	if len(file.Definitions) > 0 {
		botOpts = append(botOpts, botstory.WithDefinitions(file.Definitions))
	}
	return reg, botOpts, false, nil
}

// NewRegistry is LoadStory without the bot options, for commands that
// only inspect the definition.
func NewRegistry(configPath string, logger *slog.Logger) (*story.Registry, bool, error) {
	reg, _, isDemo, err := LoadStory(configPath, logger)
	return reg, isDemo, err
}

// NewBot assembles a single-session bot per the CLI conventions: demo
// actions when the demo story is active, and the persisted corpus
// loaded into the responder when a corpus path is given.
func NewBot(opts BotOptions, logger *slog.Logger) (*botstory.Bot, error) {
	reg, storyOpts, isDemo, err := LoadStory(opts.ConfigPath, logger)
	if err != nil {
		return nil, err
	}

	botOpts := append([]botstory.Option{botstory.WithLogger(logger)}, storyOpts...)
	if opts.CorpusPath != "" {
		responder, err := corpusResponder(opts.CorpusPath, logger)
		if err != nil {
			return nil, err
		}
		botOpts = append(botOpts, botstory.WithResponder(responder))
	}

	bot, err := botstory.New(reg, botOpts...)
	if err != nil {
		return nil, err
	}
	if isDemo {
		demo.Attach(bot)
	}
	return bot, nil
}

// corpusResponder pre-trains a responder with the persisted corpus.
// The store stays detached afterwards so per-session training is not
// written back.
func corpusResponder(path string, logger *slog.Logger) (*respond.BestMatch, error) {
	store, err := respond.OpenCorpus(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer store.Close()

	pairs, err := store.LoadAll(context.Background())
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	responder := respond.NewBestMatch(respond.WithLogger(logger))
	if err := responder.Train(context.Background(), pairs); err != nil {
		return nil, fmt.Errorf("train from corpus: %w", err)
	}
	return responder, nil
}
