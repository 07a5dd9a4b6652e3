// Package tm implements deterministic multi-tape Turing machines.
//
// A [Machine] is an immutable definition assembled with a [Builder]: a set of
// named states (exactly one start state, any number of accept states), an
// alphabet, and a partial transition function keyed by the current state and
// the tuple of symbols under the heads. An [Engine] executes a machine one
// step at a time over unbounded [Tape] values.
//
// # Building
//
//	b := tm.NewBuilder(1)
//	b.AddState("q0", true, false)
//	b.AddState("q1", false, true)
//	b.AddTransition("q0", []tm.Symbol{'a'}, "q1", []tm.Symbol{'b'}, []tm.Move{tm.Right})
//	m, err := b.Build()
//
// # Stepping
//
// [Engine.Step] returns a [StepResult] whose Outcome is one of Stepped,
// Accepted, AlreadyAccepted or Rejected. Rejection is not an error: it only
// means the machine halted without accepting. Accepting states are terminal.
//
// # Tapes
//
// Tapes grow on both ends. Logical positions are stable across growth, while
// storage indices are re-based when the tape grows to the left. Each cell
// records a lineage value used by the trace package to connect the step that
// last wrote a cell to the step that reads it.
package tm
