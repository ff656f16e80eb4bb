package story

import (
	"reflect"
	"testing"
	"time"

	"github.com/jvm123/botstory/pkg/domain"
)

func strp(s string) *string { return &s }

func TestFormattedValues(t *testing.T) {
	reg := NewRegistry()
	must(t, reg.RegisterBranch(domain.Branch{Name: "init"}))
	must(t, reg.RegisterBranch(domain.Branch{Name: "order", Schema: domain.Schema{
		{Name: "when", Type: domain.EntityDate, Question: "when?"},
		{Name: "count", Type: domain.EntityInt, Question: "count?"},
		{Name: "extras", Type: domain.EntityBool, Question: "extras?",
			TrueText: strp(""), FalseText: strp("no ")},
		{Name: "plain", Type: domain.EntityBool, Question: "plain?"},
		{Name: "note", Type: domain.EntityString, Question: "note?"},
	}}))

	s := newStory(t, reg, stubAnalyzer{})
	must(t, s.EnterBranch("order"))
	must(t, s.SetEntity("when", domain.DateValue(time.Date(2021, time.November, 13, 0, 0, 0, 0, time.UTC))))
	must(t, s.SetEntity("count", domain.IntValue(3)))
	must(t, s.SetEntity("extras", domain.BoolValue(false)))
	must(t, s.SetEntity("plain", domain.BoolValue(true)))

	got := s.FormattedValues()
	want := map[string]string{
		"when":   "13/11/2021",
		"count":  "3",
		"extras": "no ",
		"plain":  "true",
		"note":   "",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FormattedValues = %v, want %v", got, want)
	}
}

func TestOpenEntityButtons(t *testing.T) {
	reg := NewRegistry()
	must(t, reg.RegisterBranch(domain.Branch{Name: "init"}))
	must(t, reg.RegisterBranch(domain.Branch{Name: "b", Schema: domain.Schema{
		{Name: "flag", Type: domain.EntityBool, Question: "flag?"},
		{Name: "sure", Type: domain.EntityBoolConfirm, Question: "sure?"},
		{Name: "when", Type: domain.EntityDate, Question: "when?"},
		{Name: "narrow", Type: domain.EntityInt, Min: intp(2), Max: intp(4), Question: "narrow?"},
		{Name: "wide", Type: domain.EntityInt, Min: intp(1), Max: intp(100), Question: "wide?"},
		{Name: "open", Type: domain.EntityInt, Min: intp(1), Question: "open?"},
		{Name: "pick", Type: domain.EntityString, Buttons: []string{"a", "b"}, Question: "pick?"},
		{Name: "free", Type: domain.EntityString, Question: "free?"},
	}}))

	s := newStory(t, reg, stubAnalyzer{})
	must(t, s.EnterBranch("b"))

	cases := []struct {
		entity string
		want   []string
	}{
		{"flag", []string{"Yes", "No"}},
		{"sure", []string{"Yes", "No"}},
		{"when", []string{"Today", "Tomorrow"}},
		{"narrow", []string{"2", "3", "4"}},
		{"wide", []string{"1", "2", "3", "4", "5", "6", "7"}},
		{"open", nil},
		{"pick", []string{"a", "b"}},
		{"free", nil},
	}
	for _, tc := range cases {
		t.Run(tc.entity, func(t *testing.T) {
			must(t, s.SetOpenEntity(tc.entity))
			if got := s.OpenEntityButtons(); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("buttons = %v, want %v", got, tc.want)
			}
		})
	}

	t.Run("no open question", func(t *testing.T) {
		must(t, s.EnterBranch("init"))
		if got := s.OpenEntityButtons(); got != nil {
			t.Fatalf("buttons = %v, want none", got)
		}
	})
}

func TestExpandTemplate(t *testing.T) {
	values := map[string]string{"name": "Maria", "n": "2"}

	cases := []struct {
		name string
		tmpl string
		want string
	}{
		{"plain", "hello", "hello"},
		{"substitution", "Hi {name}, {n} items.", "Hi Maria, 2 items."},
		{"literal braces", "a {{b}} c", "a {b} c"},
		{"empty value", "x{name}", "xMaria"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExpandTemplate(tc.tmpl, values)
			if err != nil {
				t.Fatalf("ExpandTemplate: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}

	t.Run("missing placeholder", func(t *testing.T) {
		_, err := ExpandTemplate("Hi {nobody}", values)
		if err == nil {
			t.Fatal("expected a template error")
		}
	})

	t.Run("unterminated placeholder", func(t *testing.T) {
		_, err := ExpandTemplate("Hi {name", values)
		if err == nil {
			t.Fatal("expected a template error")
		}
	})
}
