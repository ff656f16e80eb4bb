// Package middleware provides StateStore decorators: encryption at
// rest and masking of personal data in slot values. Decorators
// compose; the outermost wrapper sees the plaintext state.
package middleware

import "github.com/jvm123/botstory/pkg/ports"

// Middleware wraps a StateStore to add behavior.
type Middleware func(ports.StateStore) ports.StateStore
