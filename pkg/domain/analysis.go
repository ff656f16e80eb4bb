package domain

import "time"

// TaggedToken is a token with its part-of-speech tag.
type TaggedToken struct {
	Text string
	Tag  string
}

// Analysis is the structured result of running the external analyzer
// over one user utterance. It is ephemeral: the dialog state keeps only
// the most recent record and overwrites it every turn.
type Analysis struct {
	// Query is the cleaned utterance rebuilt from tokens.
	Query string

	Tokens []string
	Tags   []TaggedToken

	// Classes holds the keys of every word class whose word set
	// intersects the tokens.
	Classes ClassSet

	// Numbers are the detected integers, in utterance order.
	Numbers []int

	// Date is the detected calendar date, if any.
	Date *time.Time

	// Nouns are the extracted noun phrases, in utterance order.
	Nouns []string

	// LastNoun is the final noun phrase, or "" if none was found.
	LastNoun string
}

// HasClass reports whether the given word class matched.
func (a *Analysis) HasClass(c WordClass) bool {
	return a != nil && a.Classes.Has(c.Key())
}
