package story

import (
	"strconv"

	"github.com/jvm123/botstory/pkg/domain"
)

// FormattedValues renders the active branch's values for display and
// template substitution. Stored values are never mutated: booleans use
// the spec's true/false strings when provided, dates render in the
// fixed day/month/year form, everything else passes through. Unset
// slots render as the empty string.
func (s *Story) FormattedValues() map[string]string {
	schema := s.schemas[s.branch]
	out := make(map[string]string, len(schema))

	for _, spec := range schema {
		v := s.values[s.branch][spec.Name]
		out[spec.Name] = formatValue(spec, v)
	}
	return out
}

func formatValue(spec domain.EntitySpec, v domain.Value) string {
	switch v.Kind {
	case domain.KindInt:
		return strconv.Itoa(v.Int)
	case domain.KindString:
		return v.Str
	case domain.KindBool:
		if spec.TrueText != nil && spec.FalseText != nil {
			if v.Bool {
				return *spec.TrueText
			}
			return *spec.FalseText
		}
		return strconv.FormatBool(v.Bool)
	case domain.KindDate:
		return v.Date.Format(domain.DateLayout)
	}
	return ""
}

// intButtonSpan is how many choices a derived integer range offers.
const intButtonSpan = 7

// OpenEntityButtons returns quick-reply choices for the open question.
// An explicit button list on the spec wins; otherwise the choices are
// derived from the slot type. Slots with no natural choices, and an
// unset open question, yield nil.
func (s *Story) OpenEntityButtons() []string {
	if s.open == "" {
		return nil
	}
	spec, ok := s.schemas[s.branch].Get(s.open)
	if !ok {
		return nil
	}

	if len(spec.Buttons) > 0 {
		return append([]string(nil), spec.Buttons...)
	}

	switch spec.Type {
	case domain.EntityBool, domain.EntityBoolConfirm:
		return []string{"Yes", "No"}
	case domain.EntityDate:
		return []string{"Today", "Tomorrow"}
	case domain.EntityInt:
		// Only a fully specified range derives buttons.
		if spec.Min == nil || spec.Max == nil {
			return nil
		}
		lo, hi := *spec.Min, *spec.Max
		if lo+intButtonSpan-1 < hi {
			hi = lo + intButtonSpan - 1
		}
		buttons := make([]string, 0, hi-lo+1)
		for n := lo; n <= hi; n++ {
			buttons = append(buttons, strconv.Itoa(n))
		}
		return buttons
	}
	return nil
}
