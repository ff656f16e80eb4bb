// Package ports defines the interfaces between the dialog engine core
// and its collaborators: utterance analysis, canned-response
// generation, string similarity and dialog-state persistence.
//
// The core consumes these interfaces and never depends on a concrete
// adapter; adapters live under pkg/adapters and pkg/nlp.
package ports
