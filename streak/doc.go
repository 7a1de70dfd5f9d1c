// Package streak provides the core backfill simulation engine for the
// writing-streak-with-forgiveness rules.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - state.go: SimulationState snapshots and the OnStreak/Eligible/Missed status sum type
//   - machine.go: Step, the per-day state transition folded over the timeline
//   - simulator.go: timeline replay, recovery-event assembly, and run stats
//
// # Architecture
//
// The streak package holds the pure engine; hosts live in sub-packages:
//   - streak/source/: posting-history loading and raw-timestamp -> KST resolution
//   - streak/store/: persistence of final state and recovery events
//   - streak/runner/: bounded worker pool fanning the engine out over users
//   - streak/trace/: per-day trace recording
//
// The engine performs no I/O and holds no clock or timezone state beyond the
// fixed KST zone: every calendar decision is a pure function of the day keys
// supplied by the caller, which keeps a full replay of the same history
// byte-identical, generated recovery ids included.
package streak
