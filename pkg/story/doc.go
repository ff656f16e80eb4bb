/*
Package story implements the branch/entity state machine at the heart
of the dialog engine.

A Registry holds the static definition of the dialog: branches with
their ordered entity schemas, trigger word classes and canned
exchanges. A Story is the per-session mutable state over one Registry:
the active branch, the per-branch slot values, the pending open
question and the most recent utterance analysis.

The Story performs no I/O. Utterance analysis is delegated to the
ports.Analyzer collaborator and the result is interpreted here by the
per-type slot policies.
*/
package story
