package dialog

import "github.com/jvm123/botstory/pkg/story"

// Turn is the view a branch action gets of the running pipeline. It
// exposes the session state machine plus the hooks business logic
// needs: presenting option lists and overriding quick replies.
type Turn struct {
	o *Orchestrator
}

// Story returns the session state machine, for branch transitions and
// entity access inside an action.
func (t *Turn) Story() *story.Story { return t.o.story }

// PresentOptions records a choice list for the named slot of the
// active branch. A later free-text answer for that slot is matched
// against these choices (see matchOptions).
func (t *Turn) PresentOptions(entity string, choices []string) {
	t.o.options = &optionSet{
		entity:  entity,
		choices: append([]string(nil), choices...),
	}
}

// OverrideButtons supplies one-shot quick replies shown the next time
// the named slot is the open question, instead of the derived ones.
func (t *Turn) OverrideButtons(entity string, buttons []string) {
	t.o.buttons[entity] = append([]string(nil), buttons...)
}
