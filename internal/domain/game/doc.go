// Package game implements the turn state machine of a memory game session.
//
// A Session owns a shuffled deck, the flip/lock state, the counters (elapsed
// seconds, moves, matches) and the single visible notice. Every transition,
// whether triggered by a flip or by one of the session's timers (the clock
// tick, the mismatch resolution and the notice auto-hide), runs under the
// session's mutex, so transitions are strictly sequential.
//
// Timers are created through a Scheduler. Production code uses
// SystemScheduler; tests drive time explicitly with a ManualScheduler.
package game
