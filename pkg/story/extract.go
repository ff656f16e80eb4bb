package story

import (
	"strconv"

	"github.com/jvm123/botstory/pkg/domain"
)

// shortUtterance is the token count at or below which a user is
// assumed to have typed just the answer string rather than a sentence.
const shortUtterance = 3

// extractValue interprets the analysis against one slot definition and
// either produces a value or declines. BoolConfirm is not handled
// here: it is the only type allowed to mutate branch state, which is
// the Story's job.
func extractValue(spec domain.EntitySpec, a *domain.Analysis) domain.Value {
	switch spec.Type {
	case domain.EntityInt:
		return extractInt(spec, a)
	case domain.EntityBool:
		return extractBool(a)
	case domain.EntityString:
		return extractString(a)
	case domain.EntityIntOrString:
		return extractIntOrString(a)
	case domain.EntityDate:
		if a.Date != nil {
			return domain.DateValue(*a.Date)
		}
	}
	return domain.Value{}
}

// extractInt takes the last detected number and accepts it only within
// the slot's inclusive bounds. An out-of-range last number rejects the
// whole utterance; earlier numbers are never used as a fallback.
func extractInt(spec domain.EntitySpec, a *domain.Analysis) domain.Value {
	if len(a.Numbers) == 0 {
		return domain.Value{}
	}
	last := a.Numbers[len(a.Numbers)-1]
	if min, max := spec.IntBounds(); last < min || last > max {
		return domain.Value{}
	}
	return domain.IntValue(last)
}

// extractBool assigns only on an unambiguous affirmative or negative
// keyword match; both-or-neither leaves the slot unset.
func extractBool(a *domain.Analysis) domain.Value {
	yes := a.Classes.HasSentiment(domain.SentimentYes)
	no := a.Classes.HasSentiment(domain.SentimentNo)
	switch {
	case yes && !no:
		return domain.BoolValue(true)
	case no && !yes:
		return domain.BoolValue(false)
	}
	return domain.Value{}
}

func extractString(a *domain.Analysis) domain.Value {
	if len(a.Tokens) <= shortUtterance {
		return domain.StringValue(a.Query)
	}
	if a.LastNoun != "" {
		return domain.StringValue(a.LastNoun)
	}
	return domain.Value{}
}

func extractIntOrString(a *domain.Analysis) domain.Value {
	if len(a.Tokens) <= shortUtterance {
		if len(a.Numbers) > 0 {
			return domain.StringValue(strconv.Itoa(a.Numbers[0]))
		}
		return domain.StringValue(a.Query)
	}
	if a.LastNoun != "" {
		return domain.StringValue(a.LastNoun)
	}
	return domain.Value{}
}
