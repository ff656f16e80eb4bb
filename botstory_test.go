package botstory_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jvm123/botstory"
	"github.com/jvm123/botstory/pkg/dialog"
	"github.com/jvm123/botstory/pkg/domain"
	"github.com/jvm123/botstory/pkg/nlp"
	"github.com/jvm123/botstory/pkg/story"
)

func fixedAnalyzer() *nlp.Analyzer {
	day := time.Date(2021, 11, 12, 10, 0, 0, 0, time.UTC)
	return nlp.New(nlp.WithClock(func() time.Time { return day }))
}

func intPtr(n int) *int { return &n }

func searchRegistry(t *testing.T) *story.Registry {
	t.Helper()
	reg := story.NewRegistry()

	if err := reg.RegisterBranch(domain.Branch{
		Name:         "init",
		TriggerWords: []string{"quit", "exit", "help", "bye"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := reg.RegisterBranch(domain.Branch{
		Name:         "search",
		TriggerWords: []string{"search", "offer", "price"},
		Schema: domain.Schema{
			{Name: "date", Type: domain.EntityDate, Question: "What date are you interested in?"},
			{Name: "quantity", Type: domain.EntityInt, Min: intPtr(1), Max: intPtr(20),
				ParallelTakeup: "date",
				Question:       "Ok, the date is {date}. What quantity are you interested in?"},
			{Name: "size", Type: domain.EntityString,
				Question: "What size do you prefer? We offer small, mid and large.",
				Buttons:  []string{"small", "mid", "large"}},
		},
	}); err != nil {
		t.Fatal(err)
	}
	return reg
}

func newBot(t *testing.T, reg *story.Registry) *botstory.Bot {
	t.Helper()
	bot, err := botstory.New(reg, botstory.WithAnalyzer(fixedAnalyzer()))
	if err != nil {
		t.Fatal(err)
	}
	return bot
}

func respond(t *testing.T, bot *botstory.Bot, text string) domain.Reply {
	t.Helper()
	reply, err := bot.Respond(context.Background(), text)
	if err != nil {
		t.Fatalf("Respond(%q): %v", text, err)
	}
	return reply
}

func TestBot_SearchFlow(t *testing.T) {
	bot := newBot(t, searchRegistry(t))
	bot.RegisterAction("search", func(ctx context.Context, turn *dialog.Turn) (string, error) {
		if err := turn.Story().EnterBranch("init"); err != nil {
			return "", err
		}
		return "Search complete.", nil
	})

	reply := respond(t, bot, "I want to search for a room")
	if reply.Text != "What date are you interested in?" {
		t.Fatalf("turn 1 reply = %q", reply.Text)
	}
	if got := bot.Story().Branch(); got != "search" {
		t.Fatalf("branch = %q", got)
	}
	if len(reply.Buttons) != 2 || reply.Buttons[0] != "Today" || reply.Buttons[1] != "Tomorrow" {
		t.Errorf("date buttons = %v", reply.Buttons)
	}

	// One utterance fills the open date slot and, via parallel takeup,
	// the quantity slot in the same turn.
	reply = respond(t, bot, "tomorrow, 2 of them")
	if !strings.HasPrefix(reply.Text, "What size do you prefer?") {
		t.Fatalf("turn 2 reply = %q", reply.Text)
	}

	date, _ := bot.Story().Value("date")
	if date.Kind != domain.KindDate || date.Date.Day() != 13 || date.Date.Month() != time.November {
		t.Errorf("date = %+v", date)
	}
	quantity, _ := bot.Story().Value("quantity")
	if quantity.Kind != domain.KindInt || quantity.Int != 2 {
		t.Errorf("quantity = %+v", quantity)
	}
	if len(reply.Buttons) != 3 || reply.Buttons[2] != "large" {
		t.Errorf("size buttons = %v", reply.Buttons)
	}

	reply = respond(t, bot, "large")
	if reply.Text != "Search complete." {
		t.Fatalf("turn 3 reply = %q", reply.Text)
	}
	if got := bot.Story().Branch(); got != "init" {
		t.Errorf("branch after action = %q", got)
	}
}

func TestBot_SmallTalk(t *testing.T) {
	bot := newBot(t, searchRegistry(t))

	reply := respond(t, bot, "Thank you.")
	if reply.Text != "You're welcome." {
		t.Fatalf("reply = %q", reply.Text)
	}
	if got := bot.Story().Branch(); got != "init" {
		t.Errorf("small talk must not move the branch, got %q", got)
	}
}

func TestBot_QuitMidBranch(t *testing.T) {
	bot := newBot(t, searchRegistry(t))

	respond(t, bot, "search please")
	reply := respond(t, bot, "quit")
	if reply.Text != "Thank you! Can I help you with anything else?" {
		t.Fatalf("reply = %q", reply.Text)
	}
	if got := bot.Story().Branch(); got != "init" {
		t.Errorf("branch = %q", got)
	}
}

func TestBot_Confirmation(t *testing.T) {
	reg := story.NewRegistry()
	if err := reg.RegisterBranch(domain.Branch{
		Name:         "init",
		TriggerWords: []string{"quit"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := reg.RegisterBranch(domain.Branch{
		Name:         "order",
		TriggerWords: []string{"order"},
		Schema: domain.Schema{
			{Name: "confirm", Type: domain.EntityBoolConfirm, Question: "Would you like to order now?"},
		},
	}); err != nil {
		t.Fatal(err)
	}

	t.Run("ambiguous answer re-prompts", func(t *testing.T) {
		bot := newBot(t, reg)
		respond(t, bot, "I want to order")
		reply := respond(t, bot, "maybe later")
		if reply.Text != "Sorry, I do not understand. Yes or no?" {
			t.Fatalf("reply = %q", reply.Text)
		}
		if got := bot.Story().Branch(); got != "order" {
			t.Errorf("branch = %q", got)
		}
	})

	t.Run("negative answer cancels the branch", func(t *testing.T) {
		bot := newBot(t, reg)
		respond(t, bot, "I want to order")
		reply := respond(t, bot, "no")
		if reply.Text != "Sorry I could not help you. Let's start over." {
			t.Fatalf("reply = %q", reply.Text)
		}
		if got := bot.Story().Branch(); got != "init" {
			t.Errorf("branch = %q", got)
		}
		// The gate value is never recorded as false.
		if v, _ := bot.Story().Value("confirm"); v.IsSet() {
			t.Errorf("confirm = %+v", v)
		}
	})

	t.Run("affirmative answer runs the action", func(t *testing.T) {
		bot := newBot(t, reg)
		bot.RegisterAction("order", func(ctx context.Context, turn *dialog.Turn) (string, error) {
			if err := turn.Story().EnterBranch("init"); err != nil {
				return "", err
			}
			return "Order placed.", nil
		})
		first := respond(t, bot, "I want to order")
		if first.Text != "Would you like to order now?" {
			t.Fatalf("turn 1 reply = %q", first.Text)
		}
		second := respond(t, bot, "yes")
		if second.Text != "Order placed." {
			t.Fatalf("turn 2 reply = %q", second.Text)
		}
	})
}

func TestBot_StateRoundTrip(t *testing.T) {
	reg := searchRegistry(t)
	first := newBot(t, reg)

	respond(t, first, "search for offers")
	respond(t, first, "tomorrow")

	state := first.State()

	second := newBot(t, reg)
	if err := second.RestoreState(state); err != nil {
		t.Fatal(err)
	}
	if got := second.Story().Branch(); got != "search" {
		t.Fatalf("restored branch = %q", got)
	}

	reply := respond(t, second, "2 of them")
	if !strings.HasPrefix(reply.Text, "What size do you prefer?") {
		t.Fatalf("reply after restore = %q", reply.Text)
	}
}

func TestBot_Chatlog(t *testing.T) {
	bot := newBot(t, searchRegistry(t))
	respond(t, bot, "Hello")

	log := bot.Chatlog()
	if len(log) != 3 {
		t.Fatalf("chatlog = %v", log)
	}
	if log[0] != "*Hi.*" || log[1] != "Hello" {
		t.Errorf("chatlog = %v", log)
	}
	if !strings.HasPrefix(log[2], "*") {
		t.Errorf("bot entries are marked: %v", log[2])
	}
}

func TestBot_WordingOverrides(t *testing.T) {
	reg := searchRegistry(t)
	bot, err := botstory.New(reg,
		botstory.WithAnalyzer(fixedAnalyzer()),
		botstory.WithWording(botstory.Wording{
			Welcome: "Good evening.",
			Done:    "Glad I could help.",
		}),
	)
	if err != nil {
		t.Fatal(err)
	}

	if got := bot.TemplateData()["welcome"]; got != "Good evening." {
		t.Errorf("welcome = %v", got)
	}

	respond(t, bot, "search please")
	reply := respond(t, bot, "quit")
	if reply.Text != "Glad I could help." {
		t.Errorf("done = %q", reply.Text)
	}
}

func TestBot_TemplateData(t *testing.T) {
	reg := searchRegistry(t)
	reg.RegisterExchange("What are your opening times?", "Our opening times are ...", true)

	bot := newBot(t, reg)
	data := bot.TemplateData()
	if data["welcome"] != botstory.DefaultWelcome {
		t.Errorf("welcome = %v", data["welcome"])
	}
	buttons, ok := data["home_buttons"].([]string)
	if !ok || len(buttons) != 1 || buttons[0] != "What are your opening times?" {
		t.Errorf("home_buttons = %v", data["home_buttons"])
	}
}
