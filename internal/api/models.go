package api

import (
	"time"

	"github.com/phrazzld/watercycle-memory/internal/domain"
	"github.com/phrazzld/watercycle-memory/internal/domain/game"
	"github.com/phrazzld/watercycle-memory/internal/service"
)

// FlipRequest defines the payload for the flip endpoint. Cards are
// addressed by their grid position.
type FlipRequest struct {
	Position *int `json:"position" validate:"required,min=0"`
}

// StageResponse describes one water cycle stage.
type StageResponse struct {
	ID          string `json:"id"`
	Image       string `json:"image"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CardResponse is the player-visible state of one card. UID and Stage are
// only present while the card is face-up or matched.
type CardResponse struct {
	Position int            `json:"position"`
	Flipped  bool           `json:"flipped"`
	Matched  bool           `json:"matched"`
	UID      string         `json:"uid,omitempty"`
	Stage    *StageResponse `json:"stage,omitempty"`
}

// NoticeResponse is the visible notice.
type NoticeResponse struct {
	Kind       string     `json:"kind"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Detail     string     `json:"detail,omitempty"`
	StageID    string     `json:"stage_id,omitempty"`
	ShownAt    time.Time  `json:"shown_at"`
	DurationMS int64      `json:"duration_ms"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// GameResponse is the state of a game session.
type GameResponse struct {
	ID           string          `json:"id"`
	State        string          `json:"state"`
	Cards        []CardResponse  `json:"cards"`
	Moves        int             `json:"moves"`
	Matches      int             `json:"matches"`
	TotalPairs   int             `json:"total_pairs"`
	Seconds      int             `json:"seconds"`
	Elapsed      string          `json:"elapsed"`
	Locked       bool            `json:"locked"`
	Complete     bool            `json:"complete"`
	ClockRunning bool            `json:"clock_running"`
	Notice       *NoticeResponse `json:"notice,omitempty"`
}

// FlipResponse is the result of a flip request.
type FlipResponse struct {
	Outcome       string       `json:"outcome"`
	IgnoredReason string       `json:"ignored_reason,omitempty"`
	Game          GameResponse `json:"game"`
}

func stageToResponse(s domain.Stage) StageResponse {
	return StageResponse{
		ID:          s.ID,
		Image:       s.Image,
		Title:       s.Title,
		Description: s.Description,
	}
}

func noticeToResponse(n *game.Notice) *NoticeResponse {
	if n == nil {
		return nil
	}
	resp := &NoticeResponse{
		Kind:       string(n.Kind),
		Title:      n.Title,
		Body:       n.Body,
		Detail:     n.Detail,
		StageID:    n.StageID,
		ShownAt:    n.ShownAt,
		DurationMS: n.Duration.Milliseconds(),
	}
	if expires := n.ExpiresAt(); !expires.IsZero() {
		resp.ExpiresAt = &expires
	}
	return resp
}

func gameToResponse(g *service.Game) GameResponse {
	snap := g.Snapshot
	cards := make([]CardResponse, len(snap.Cards))
	for i, c := range snap.Cards {
		cards[i] = CardResponse{
			Position: c.Position,
			Flipped:  c.Flipped,
			Matched:  c.Matched,
			UID:      c.UID,
		}
		if c.Stage != nil {
			stage := stageToResponse(*c.Stage)
			cards[i].Stage = &stage
		}
	}

	return GameResponse{
		ID:           g.ID.String(),
		State:        string(snap.State),
		Cards:        cards,
		Moves:        snap.Moves,
		Matches:      snap.Matches,
		TotalPairs:   snap.TotalPairs,
		Seconds:      snap.Seconds,
		Elapsed:      snap.Elapsed,
		Locked:       snap.Locked(),
		Complete:     snap.Complete(),
		ClockRunning: snap.ClockRunning,
		Notice:       noticeToResponse(snap.Notice),
	}
}
