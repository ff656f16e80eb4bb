// Package domain contains the pure data model of the dialog engine:
// branches, entity schemas, word classes, analysis records and the
// per-session dialog state snapshot.
//
// Nothing in this package performs I/O or holds references to the
// collaborators defined in pkg/ports. Adapters and the orchestrator
// depend on domain; domain depends on nothing.
package domain
