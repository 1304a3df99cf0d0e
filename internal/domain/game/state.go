package game

// TurnState is the explicit state of the turn state machine.
type TurnState string

const (
	// StateIdle means no card is awaiting a second flip.
	StateIdle TurnState = "idle"
	// StateOneFlipped means the first card of an attempt is face-up.
	StateOneFlipped TurnState = "one_flipped"
	// StateLocked means a mismatch is being displayed and flips are ignored.
	StateLocked TurnState = "locked"
	// StateMatched is the transition taken when a pair is found. It is never
	// observed between calls: the session returns to Idle, or moves to
	// Complete, before Flip returns.
	StateMatched TurnState = "matched"
	// StateComplete means every pair has been found.
	StateComplete TurnState = "complete"
)

// FlipOutcome describes what a flip did.
type FlipOutcome string

const (
	OutcomeIgnored      FlipOutcome = "ignored"
	OutcomeFirstFlipped FlipOutcome = "first_flipped"
	OutcomeMatched      FlipOutcome = "matched"
	OutcomeMismatched   FlipOutcome = "mismatched"
	OutcomeWon          FlipOutcome = "won"
)

// IgnoreReason explains why a flip was a no-op.
type IgnoreReason string

const (
	IgnoreLocked         IgnoreReason = "locked"
	IgnoreAlreadyFlipped IgnoreReason = "already_flipped"
	IgnoreAlreadyMatched IgnoreReason = "already_matched"
	IgnoreComplete       IgnoreReason = "game_complete"
)

// FlipResult is returned by Session.Flip.
type FlipResult struct {
	CardUID string       `json:"card_uid"`
	Outcome FlipOutcome  `json:"outcome"`
	Reason  IgnoreReason `json:"ignored_reason,omitempty"`
}

// Ignored reports whether the flip changed nothing.
func (r FlipResult) Ignored() bool {
	return r.Outcome == OutcomeIgnored
}

// ChangeKind identifies a state change published to a session's listener.
type ChangeKind string

const (
	ChangeCardFlipped    ChangeKind = "card_flipped"
	ChangePairMatched    ChangeKind = "pair_matched"
	ChangePairMismatched ChangeKind = "pair_mismatched"
	ChangeCardsHidden    ChangeKind = "cards_hidden"
	ChangeClockTick      ChangeKind = "clock_tick"
	ChangeGameWon        ChangeKind = "game_won"
	ChangeNoticeShown    ChangeKind = "notice_shown"
	ChangeNoticeHidden   ChangeKind = "notice_hidden"
	ChangeSessionReset   ChangeKind = "session_reset"
)

// Change is a single state change together with the snapshot taken right
// after it was applied.
type Change struct {
	Kind     ChangeKind
	CardUIDs []string
	Snapshot Snapshot
}

// Listener receives a session's changes. It is called after the session's
// mutex has been released, so it may call back into the session.
type Listener func(Change)
