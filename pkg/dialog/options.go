package dialog

import (
	"strconv"
	"strings"

	"github.com/jvm123/botstory/pkg/domain"
)

// matchOptions post-processes a freshly extracted answer against a
// previously presented option list. A numeric answer selects by
// one-based position; free text is matched by similarity score and
// committed only above the threshold, otherwise the filled value is
// discarded so the slot is re-prompted.
func (o *Orchestrator) matchOptions() {
	pending := o.options
	if pending == nil {
		return
	}

	v, ok := o.story.Value(pending.entity)
	if !ok || v.Kind != domain.KindString || v.Str == "" {
		return
	}
	answer := v.Str

	idx := -1
	if n, err := strconv.Atoi(strings.TrimSpace(answer)); err == nil {
		idx = n - 1
	} else if o.scorer != nil {
		best, bestScore := -1, 0.0
		for i, choice := range pending.choices {
			score := o.scorer.Score(choice, answer)
			if score > bestScore {
				bestScore = score
				best = i
			}
		}
		if bestScore > o.threshold {
			idx = best
		} else {
			o.logger.Debug("answer matched no option, discarding",
				"entity", pending.entity, "answer", answer, "best_score", bestScore)
			if err := o.story.ClearEntity(pending.entity); err != nil {
				o.logger.Warn("could not discard unmatched answer", "err", err)
			}
			return
		}
	}

	if idx >= 0 && idx < len(pending.choices) {
		if err := o.story.SetEntity(pending.entity, domain.StringValue(pending.choices[idx])); err != nil {
			o.logger.Warn("could not commit matched option", "err", err)
			return
		}
		o.options = nil
		o.logger.Debug("answer matched option",
			"entity", pending.entity, "choice", pending.choices[idx])
	}
}

// forgetOptions drops any pending option list, e.g. after a branch
// cancellation.
func (o *Orchestrator) forgetOptions() {
	o.options = nil
}
