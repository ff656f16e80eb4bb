package respond

import (
	"context"
	"errors"
	"testing"

	"github.com/jvm123/botstory/pkg/ports"
)

func trained(t *testing.T, opts ...BestMatchOption) *BestMatch {
	t.Helper()
	b := NewBestMatch(opts...)
	err := b.Train(context.Background(), []string{
		"Hi", "Hello there.",
		"What are your opening times?", "We are always open.",
		"Bye", "See you.",
	})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	return b
}

func TestBestMatch_ExactPrompt(t *testing.T) {
	b := trained(t)

	reply, confidence, err := b.Respond(context.Background(), "What are your opening times?")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if reply != "We are always open." {
		t.Fatalf("reply = %q", reply)
	}
	if confidence < MatchThreshold {
		t.Fatalf("confidence = %v, want >= %v", confidence, MatchThreshold)
	}
}

func TestBestMatch_NearPrompt(t *testing.T) {
	b := trained(t)

	// One character off still scores above the default threshold.
	reply, _, err := b.Respond(context.Background(), "What are your opening times")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if reply != "We are always open." {
		t.Fatalf("reply = %q", reply)
	}
}

func TestBestMatch_NoMatch(t *testing.T) {
	b := trained(t)

	reply, confidence, err := b.Respond(context.Background(), "Please reboot the flux capacitor")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if reply != DefaultReply {
		t.Fatalf("reply = %q, want default", reply)
	}
	if confidence != 0 {
		t.Fatalf("confidence = %v, want 0", confidence)
	}
}

func TestBestMatch_Untrained(t *testing.T) {
	b := NewBestMatch()

	reply, confidence, err := b.Respond(context.Background(), "Hi")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if reply != DefaultReply || confidence != 0 {
		t.Fatalf("reply = %q confidence = %v", reply, confidence)
	}
}

func TestBestMatch_OddTrainingRejected(t *testing.T) {
	b := NewBestMatch()
	if err := b.Train(context.Background(), []string{"Hi"}); err == nil {
		t.Fatal("odd-length training data must be rejected")
	}
}

func TestBestMatch_CustomOptions(t *testing.T) {
	b := trained(t, WithThreshold(0.99), WithDefaultReply("Pardon?"))

	reply, _, err := b.Respond(context.Background(), "What are your opening time")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if reply != "Pardon?" {
		t.Fatalf("reply = %q, want custom default under the raised threshold", reply)
	}
}

// fixedStrategy replies with a constant confidence, or fails.
type fixedStrategy struct {
	reply      string
	confidence float64
	applies    bool
	err        error
}

func (f fixedStrategy) CanHandle(string) bool { return f.applies }

func (f fixedStrategy) Process(ctx context.Context, text string) (string, float64, error) {
	return f.reply, f.confidence, f.err
}

func TestSelector_PicksHighestConfidence(t *testing.T) {
	s := NewSelector([]ports.Strategy{
		fixedStrategy{reply: "low", confidence: 0.2, applies: true},
		fixedStrategy{reply: "high", confidence: 0.8, applies: true},
	})

	reply, confidence, err := s.Respond(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if reply != "high" || confidence != 0.8 {
		t.Fatalf("reply = %q confidence = %v", reply, confidence)
	}
}

func TestSelector_OrderBreaksTies(t *testing.T) {
	s := NewSelector([]ports.Strategy{
		fixedStrategy{reply: "first", confidence: 0.5, applies: true},
		fixedStrategy{reply: "second", confidence: 0.5, applies: true},
	})

	reply, _, err := s.Respond(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if reply != "first" {
		t.Fatalf("reply = %q, want first registered on a tie", reply)
	}
}

func TestSelector_SkipsInapplicableAndFailing(t *testing.T) {
	s := NewSelector([]ports.Strategy{
		fixedStrategy{reply: "skipped", confidence: 1, applies: false},
		fixedStrategy{reply: "broken", confidence: 1, applies: true, err: errors.New("boom")},
		fixedStrategy{reply: "ok", confidence: 0.3, applies: true},
	})

	reply, _, err := s.Respond(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if reply != "ok" {
		t.Fatalf("reply = %q", reply)
	}
}

func TestSelector_NoStrategy(t *testing.T) {
	s := NewSelector([]ports.Strategy{
		fixedStrategy{reply: "skipped", applies: false},
	})

	_, _, err := s.Respond(context.Background(), "hi")
	if !errors.Is(err, ErrNoStrategy) {
		t.Fatalf("err = %v, want ErrNoStrategy", err)
	}
}
