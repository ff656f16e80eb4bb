// Package demo ships the example hospitality storyline: searching for
// an offer, confirming, and placing an order. It doubles as a living
// reference for wiring branches, actions and option lists.
package demo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jvm123/botstory"
	"github.com/jvm123/botstory/pkg/dialog"
	"github.com/jvm123/botstory/pkg/domain"
	"github.com/jvm123/botstory/pkg/story"
)

// Fixed demo wording.
const (
	doneMessage          = "Thank you! Can I help you with anything else?"
	noResultsMessage     = "I am sorry, nothing matches your search."
	searchResultsMessage = "On {date} for quantity {quantity} and size {size} I can offer you these options:\n{search_results}\nWould you like to order now?"
)

type offer struct {
	ID    int
	Name  string
	Price int
}

// catalog stands in for a real inventory backend.
var catalog = []offer{
	{ID: 1, Name: "Rooftop bar", Price: 246},
	{ID: 2, Name: "Beach bar", Price: 369},
	{ID: 3, Name: "Food truck", Price: 123},
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

// Registry builds the demo story definition: branches, trigger words
// and canned exchanges.
func Registry(opts ...story.RegistryOption) (*story.Registry, error) {
	reg := story.NewRegistry(opts...)

	branches := []domain.Branch{
		{
			Name:         "init",
			TriggerWords: []string{"quit", "exit", "help", "bye", "reconsidered", "cu"},
		},
		{
			Name:         "search",
			TriggerWords: []string{"search", "offer", "price", "products"},
			Schema: domain.Schema{
				{Name: "date", Type: domain.EntityDate,
					Question: "What date are you interested in?"},
				{Name: "quantity", Type: domain.EntityInt, Min: intPtr(1), Max: intPtr(20),
					ParallelTakeup: "date",
					Question:       "Ok, the date is {date}. What quantity are you interested in?"},
				{Name: "size", Type: domain.EntityString,
					Question: "What size do you prefer? We offer small, mid and large.",
					Buttons:  []string{"small", "mid", "large"}},
			},
		},
		{
			// Not user triggered, entered programmatically after search.
			Name:   "search_confirm",
			Button: "Trigger search",
			Schema: domain.Schema{
				{Name: "action_now", Type: domain.EntityBoolConfirm,
					Question: "Would you like to order now?"},
			},
		},
		{
			Name:         "action",
			TriggerWords: []string{"action", "trigger"},
			Schema: domain.Schema{
				// date, quantity and size carry over from the search branch.
				{Name: "queryname", Type: domain.EntityIntOrString,
					Question: "Which option do you prefer?"},
				{Name: "name", Type: domain.EntityString,
					Question: "What is your name?"},
				{Name: "catering", Type: domain.EntityBool,
					Question:  "Can we offer you catering?",
					TrueText:  strPtr(""),
					FalseText: strPtr("no ")},
				{Name: "confirm_action", Type: domain.EntityBoolConfirm,
					Question: "Let me summarize: You would like to order {quantity} items of {queryname} for {date} with {catering}catering. Your name is {name}. Is this correct?"},
			},
		},
	}
	for _, b := range branches {
		if err := reg.RegisterBranch(b); err != nil {
			return nil, err
		}
	}

	err := reg.RegisterExchanges([]string{
		"Can you tell me your contact information?",
		"Sure. Our address is ...",
		"What are your opening times?",
		"Our opening times are ...",
	}, true)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Glossary feeds the definitions strategy for "What is X?" prompts
// about the demo offering.
func Glossary() map[string]string {
	return map[string]string{
		"catering":   "Catering is food and drink service we can add to any order.",
		"bar":        "A bar is one of our drink locations, on the roof or at the beach.",
		"food truck": "The food truck is our mobile kitchen serving street food.",
	}
}

// NewBot creates a demo bot with the branch actions attached.
func NewBot(reg *story.Registry, opts ...botstory.Option) (*botstory.Bot, error) {
	opts = append([]botstory.Option{botstory.WithDefinitions(Glossary())}, opts...)
	bot, err := botstory.New(reg, opts...)
	if err != nil {
		return nil, err
	}
	Attach(bot)
	return bot, nil
}

// Attach installs the demo branch actions on a bot.
func Attach(bot *botstory.Bot) {
	bot.RegisterAction("search", searchAction)
	bot.RegisterAction("search_confirm", confirmAction)
	bot.RegisterAction("action", orderAction)
}

// searchAction runs once the search parameters are assembled: it lists
// the matching offers, presents them as choices for the later pick,
// and asks for order confirmation.
func searchAction(ctx context.Context, turn *dialog.Turn) (string, error) {
	st := turn.Story()

	results := catalog
	if len(results) == 0 {
		if err := st.EnterBranch("init"); err != nil {
			return "", err
		}
		return noResultsMessage, nil
	}

	var lines strings.Builder
	names := make([]string, 0, len(results))
	for i, item := range results {
		fmt.Fprintf(&lines, "\t%d) %s for %d EUR\n", i+1, item.Name, item.Price)
		names = append(names, item.Name)
	}
	turn.PresentOptions("queryname", names)
	turn.OverrideButtons("queryname", names)

	values := st.FormattedValues()
	values["search_results"] = lines.String()

	if err := st.EnterBranch("search_confirm"); err != nil {
		return "", err
	}
	return story.ExpandTemplate(searchResultsMessage, values)
}

// confirmAction moves an accepted search into the order branch,
// carrying the accumulated entities over and prompting for the rest.
func confirmAction(ctx context.Context, turn *dialog.Turn) (string, error) {
	st := turn.Story()

	if err := st.EnterBranch("action"); err != nil {
		return "", err
	}
	if err := st.CopyEntitiesFrom("search"); err != nil {
		return "", err
	}
	return st.PromptForOpenEntities()
}

// orderAction finalizes the order and returns to the initial branch.
func orderAction(ctx context.Context, turn *dialog.Turn) (string, error) {
	if err := turn.Story().EnterBranch("init"); err != nil {
		return "", err
	}
	return doneMessage, nil
}
