package demo

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jvm123/botstory"
	"github.com/jvm123/botstory/pkg/domain"
	"github.com/jvm123/botstory/pkg/nlp"
)

func newDemoBot(t *testing.T) *botstory.Bot {
	t.Helper()
	reg, err := Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	clock := func() time.Time {
		return time.Date(2021, time.November, 12, 10, 0, 0, 0, time.UTC)
	}
	bot, err := NewBot(reg, botstory.WithAnalyzer(nlp.New(nlp.WithClock(clock))))
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}
	return bot
}

func say(t *testing.T, bot *botstory.Bot, text string) domain.Reply {
	t.Helper()
	reply, err := bot.Respond(context.Background(), text)
	if err != nil {
		t.Fatalf("Respond(%q): %v", text, err)
	}
	return reply
}

func TestRegistry_Definition(t *testing.T) {
	reg, err := Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	if got := reg.InitialBranch(); got != "init" {
		t.Fatalf("initial branch = %q, want init", got)
	}
	if got := len(reg.Branches()); got != 4 {
		t.Fatalf("branch count = %d, want 4", got)
	}
	buttons := strings.Join(reg.HomeButtons(), "|")
	if !strings.Contains(buttons, "Trigger search") {
		t.Errorf("home buttons %q missing branch button", buttons)
	}
	if !strings.Contains(buttons, "What are your opening times?") {
		t.Errorf("home buttons %q missing exchange button", buttons)
	}
}

func TestDemo_OrderFlow(t *testing.T) {
	bot := newDemoBot(t)

	reply := say(t, bot, "I would like to search for an offer")
	if reply.Text != "What date are you interested in?" {
		t.Fatalf("date prompt = %q", reply.Text)
	}

	reply = say(t, bot, "tomorrow, 2 of them")
	if !strings.HasPrefix(reply.Text, "What size do you prefer?") {
		t.Fatalf("size prompt = %q", reply.Text)
	}
	if want := []string{"small", "mid", "large"}; len(reply.Buttons) != len(want) {
		t.Fatalf("size buttons = %v", reply.Buttons)
	}

	reply = say(t, bot, "large")
	if !strings.Contains(reply.Text, "On 13/11/2021 for quantity 2 and size large") {
		t.Fatalf("search summary = %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "2) Beach bar for 369 EUR") {
		t.Fatalf("missing catalog line in %q", reply.Text)
	}
	if !strings.HasSuffix(reply.Text, "Would you like to order now?") {
		t.Fatalf("missing confirmation question in %q", reply.Text)
	}
	if got := bot.State().Branch; got != "search_confirm" {
		t.Fatalf("branch = %q, want search_confirm", got)
	}

	reply = say(t, bot, "yes please")
	if reply.Text != "Which option do you prefer?" {
		t.Fatalf("option prompt = %q", reply.Text)
	}
	if len(reply.Buttons) != len(catalog) {
		t.Fatalf("option buttons = %v", reply.Buttons)
	}

	// Pick by one-based index into the presented options.
	reply = say(t, bot, "2")
	if reply.Text != "What is your name?" {
		t.Fatalf("name prompt = %q", reply.Text)
	}

	reply = say(t, bot, "Maria")
	if reply.Text != "Can we offer you catering?" {
		t.Fatalf("catering prompt = %q", reply.Text)
	}

	reply = say(t, bot, "no thanks")
	want := "Let me summarize: You would like to order 2 items of Beach bar for 13/11/2021 with no catering. Your name is Maria. Is this correct?"
	if reply.Text != want {
		t.Fatalf("summary = %q, want %q", reply.Text, want)
	}

	reply = say(t, bot, "yes")
	if reply.Text != doneMessage {
		t.Fatalf("done message = %q", reply.Text)
	}
	if got := bot.State().Branch; got != "init" {
		t.Fatalf("branch after order = %q, want init", got)
	}
}

func TestDemo_DeclineOrder(t *testing.T) {
	bot := newDemoBot(t)

	say(t, bot, "search")
	say(t, bot, "tomorrow")
	say(t, bot, "2")
	say(t, bot, "small")

	reply := say(t, bot, "no")
	if reply.Text != "Sorry I could not help you. Let's start over." {
		t.Fatalf("decline reply = %q", reply.Text)
	}
	if got := bot.State().Branch; got != "init" {
		t.Fatalf("branch after decline = %q, want init", got)
	}
}

func TestDemo_BlindExchange(t *testing.T) {
	bot := newDemoBot(t)

	reply := say(t, bot, "What are your opening times?")
	if reply.Text != "Our opening times are ..." {
		t.Fatalf("exchange reply = %q", reply.Text)
	}
}

func TestDemo_GlossaryLookup(t *testing.T) {
	bot := newDemoBot(t)

	reply := say(t, bot, "What is a food truck?")
	if reply.Text != Glossary()["food truck"] {
		t.Fatalf("definition reply = %q", reply.Text)
	}
	if got := bot.Story().Branch(); got != "init" {
		t.Errorf("a definition query must not move the branch, got %q", got)
	}
}
