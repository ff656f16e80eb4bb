package respond

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jvm123/botstory/internal/logging"
	"github.com/jvm123/botstory/pkg/domain"
	"github.com/jvm123/botstory/pkg/ports"
)

// Fixed wording and confidence levels for glossary lookups.
const (
	DefinitionConfidence = 0.9

	// NoDefinitionConfidence lets another strategy take over when the
	// asked-about term is not in the glossary.
	NoDefinitionConfidence = 0.1

	NoDefinitionReply = "Sorry, I don't understand."
)

// definitionTriggers mark an utterance as a definition query.
var definitionTriggers = []string{"what", "define", "explain"}

// Definitions answers prompts such as "What is a bar?" or "Define
// catering." from a fixed glossary. The term to look up is the last
// noun phrase of the utterance, found with the leading trigger word
// skipped so "Define" is never mistaken for the term itself.
type Definitions struct {
	analyzer ports.Analyzer
	glossary map[string]string
	trigger  domain.WordClass
	logger   *slog.Logger
}

// DefinitionsOption configures a Definitions strategy.
type DefinitionsOption func(*Definitions)

// WithDefinitionsLogger sets the strategy logger.
func WithDefinitionsLogger(logger *slog.Logger) DefinitionsOption {
	return func(d *Definitions) { d.logger = logger }
}

// NewDefinitions creates a glossary lookup strategy. Glossary keys are
// matched case insensitively.
func NewDefinitions(analyzer ports.Analyzer, glossary map[string]string, opts ...DefinitionsOption) *Definitions {
	d := &Definitions{
		analyzer: analyzer,
		glossary: make(map[string]string, len(glossary)),
		trigger:  domain.CustomClass("definitions", definitionTriggers...),
		logger:   logging.NewNop(),
	}
	for term, def := range glossary {
		d.glossary[strings.ToLower(term)] = def
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CanHandle reports whether the utterance contains a definition
// trigger word.
func (d *Definitions) CanHandle(text string) bool {
	analysis, err := d.analyzer.Analyze(text, []domain.WordClass{d.trigger}, 0)
	if err != nil {
		d.logger.Warn("definition trigger analysis failed", "err", err)
		return false
	}
	return analysis.HasClass(d.trigger)
}

// Process looks up the asked-about term in the glossary.
func (d *Definitions) Process(ctx context.Context, text string) (string, float64, error) {
	analysis, err := d.analyzer.Analyze(text, []domain.WordClass{d.trigger}, 1)
	if err != nil {
		return "", 0, fmt.Errorf("analyze definition query: %w", err)
	}

	term := strings.ToLower(analysis.LastNoun)
	definition, ok := d.glossary[term]
	if term == "" || !ok {
		d.logger.Debug("no definition found", "term", term)
		return NoDefinitionReply, NoDefinitionConfidence, nil
	}
	return definition, DefinitionConfidence, nil
}
