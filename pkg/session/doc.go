/*
Package session implements the session registry: one bot instance per
conversation, serialized turns, state persistence through a StateStore
and eviction of idle sessions.
*/
package session
