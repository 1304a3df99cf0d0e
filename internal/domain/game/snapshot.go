package game

import "github.com/phrazzld/watercycle-memory/internal/domain"

// CardView is the player-visible state of one card. The instance ID and the
// stage are only revealed while the card is face-up or matched; players
// address cards by position.
type CardView struct {
	UID      string        `json:"uid,omitempty"`
	Position int           `json:"position"`
	Flipped  bool          `json:"flipped"`
	Matched  bool          `json:"matched"`
	Stage    *domain.Stage `json:"stage,omitempty"`
}

// FaceUp reports whether the card shows its stage.
func (v CardView) FaceUp() bool {
	return v.Flipped || v.Matched
}

// Snapshot is an immutable copy of a session's state.
type Snapshot struct {
	State        TurnState  `json:"state"`
	Cards        []CardView `json:"cards"`
	Moves        int        `json:"moves"`
	Matches      int        `json:"matches"`
	TotalPairs   int        `json:"total_pairs"`
	Seconds      int        `json:"seconds"`
	Elapsed      string     `json:"elapsed"`
	ClockRunning bool       `json:"clock_running"`
	Notice       *Notice    `json:"notice,omitempty"`
}

// Locked reports whether flips are currently suppressed.
func (s Snapshot) Locked() bool {
	return s.State == StateLocked
}

// Complete reports whether every pair has been found.
func (s Snapshot) Complete() bool {
	return s.State == StateComplete
}

// CardAt returns the view of the card at the given position.
func (s Snapshot) CardAt(position int) (CardView, bool) {
	if position < 0 || position >= len(s.Cards) {
		return CardView{}, false
	}
	return s.Cards[position], true
}

// FaceUpCount returns how many cards are currently showing their stage
// without being matched.
func (s Snapshot) FaceUpCount() int {
	n := 0
	for _, c := range s.Cards {
		if c.Flipped && !c.Matched {
			n++
		}
	}
	return n
}
