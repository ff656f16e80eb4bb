// Package config loads story definitions from YAML files and applies
// them to a registry, so conversations can be authored without code.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/jvm123/botstory/pkg/domain"
	"github.com/jvm123/botstory/pkg/story"
)

// EntityDef is one slot definition. The type field accepts either a
// plain type name or the bounded shorthand "int:<min>:<max>".
type EntityDef struct {
	Name           string   `mapstructure:"name"`
	Type           string   `mapstructure:"type"`
	Question       string   `mapstructure:"question"`
	Buttons        []string `mapstructure:"buttons"`
	ParallelTakeup string   `mapstructure:"parallel_takeup"`
	Min            *int     `mapstructure:"min"`
	Max            *int     `mapstructure:"max"`
	TrueText       *string  `mapstructure:"str_true"`
	FalseText      *string  `mapstructure:"str_false"`
}

// BranchDef is one branch definition with its ordered slots.
type BranchDef struct {
	Name         string      `mapstructure:"name"`
	TriggerWords []string    `mapstructure:"trigger_words"`
	Button       string      `mapstructure:"button"`
	Entities     []EntityDef `mapstructure:"entities"`
}

// ExchangeDef is one canned stimulus/response pair.
type ExchangeDef struct {
	Prompt string `mapstructure:"prompt"`
	Reply  string `mapstructure:"reply"`
	Button bool   `mapstructure:"button"`
}

// MessagesDef overrides the fixed bot wording. Empty fields keep the
// stock texts.
type MessagesDef struct {
	Welcome        string `mapstructure:"welcome"`
	Done           string `mapstructure:"done"`
	DontUnderstand string `mapstructure:"dont_understand"`
	ConfirmRetry   string `mapstructure:"confirm_retry"`
	Cancelled      string `mapstructure:"cancelled"`
}

// File is a parsed story definition file.
type File struct {
	Branches  []BranchDef   `mapstructure:"branches"`
	Exchanges []ExchangeDef `mapstructure:"exchanges"`
	Messages  MessagesDef   `mapstructure:"messages"`

	// Definitions is an optional glossary of term/definition pairs
	// served for "What is X?" style prompts.
	Definitions map[string]string `mapstructure:"definitions"`
}

// Load reads and parses a story definition file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read story config: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML story definition content.
func Parse(data []byte) (*File, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse story config: %w", err)
	}

	var file File
	if err := mapstructure.Decode(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to decode story config: %w", err)
	}
	return &file, nil
}

// Apply registers every branch and exchange on the registry, in file
// order.
func (f *File) Apply(reg *story.Registry) error {
	for _, def := range f.Branches {
		branch, err := buildBranch(def)
		if err != nil {
			return err
		}
		if err := reg.RegisterBranch(branch); err != nil {
			return err
		}
	}
	for _, ex := range f.Exchanges {
		reg.RegisterExchange(ex.Prompt, ex.Reply, ex.Button)
	}
	return nil
}

func buildBranch(def BranchDef) (domain.Branch, error) {
	schema := make(domain.Schema, 0, len(def.Entities))
	for _, e := range def.Entities {
		spec, err := buildSpec(def.Name, e)
		if err != nil {
			return domain.Branch{}, err
		}
		schema = append(schema, spec)
	}
	return domain.Branch{
		Name:         def.Name,
		TriggerWords: def.TriggerWords,
		Schema:       schema,
		Button:       def.Button,
	}, nil
}

func buildSpec(branch string, def EntityDef) (domain.EntitySpec, error) {
	spec := domain.EntitySpec{
		Name:           def.Name,
		Question:       def.Question,
		Buttons:        def.Buttons,
		ParallelTakeup: def.ParallelTakeup,
		Min:            def.Min,
		Max:            def.Max,
		TrueText:       def.TrueText,
		FalseText:      def.FalseText,
	}

	typ, min, max, err := parseType(def.Type)
	if err != nil {
		return domain.EntitySpec{}, &domain.ConfigError{Branch: branch, Entity: def.Name, Reason: err.Error()}
	}
	spec.Type = typ
	if min != nil {
		spec.Min = min
	}
	if max != nil {
		spec.Max = max
	}
	return spec, nil
}

// parseType resolves a type field, expanding the "int:<min>:<max>"
// shorthand into explicit bounds.
func parseType(t string) (domain.EntityType, *int, *int, error) {
	if !strings.HasPrefix(t, "int:") {
		return domain.EntityType(t), nil, nil, nil
	}

	parts := strings.Split(t, ":")
	if len(parts) != 3 {
		return "", nil, nil, fmt.Errorf("malformed bounded int type %q", t)
	}
	min, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", nil, nil, fmt.Errorf("bad lower bound in %q", t)
	}
	max, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", nil, nil, fmt.Errorf("bad upper bound in %q", t)
	}
	return domain.EntityInt, &min, &max, nil
}
