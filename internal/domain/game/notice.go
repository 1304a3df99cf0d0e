package game

import (
	"fmt"
	"time"

	"github.com/phrazzld/watercycle-memory/internal/domain"
)

// NoticeKind distinguishes the messages the notification surface shows.
type NoticeKind string

const (
	NoticePair     NoticeKind = "pair"
	NoticeComplete NoticeKind = "complete"
)

// Notice is the single message currently visible to the player.
type Notice struct {
	Kind     NoticeKind    `json:"kind"`
	Title    string        `json:"title"`
	Body     string        `json:"body"`
	Detail   string        `json:"detail,omitempty"`
	StageID  string        `json:"stage_id,omitempty"`
	ShownAt  time.Time     `json:"shown_at"`
	Duration time.Duration `json:"-"`
}

// ExpiresAt returns when the notice hides itself, or the zero time for a
// notice that stays until replaced or dismissed.
func (n Notice) ExpiresAt() time.Time {
	if n.Duration <= 0 {
		return time.Time{}
	}
	return n.ShownAt.Add(n.Duration)
}

func pairNotice(stage domain.Stage) Notice {
	return Notice{
		Kind:    NoticePair,
		Title:   "Par: " + stage.Title,
		Body:    stage.Description,
		StageID: stage.ID,
	}
}

func completionNotice(seconds, moves int) Notice {
	return Notice{
		Kind:   NoticeComplete,
		Title:  "Parabéns!",
		Body:   "Você completou o ciclo da água.",
		Detail: fmt.Sprintf("Tempo: %s · Movimentos: %d", FormatElapsed(seconds), moves),
	}
}

// FormatElapsed renders seconds as mm:ss. Minutes are not capped.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
