package web

import (
	"fmt"

	"github.com/phrazzld/watercycle-memory/internal/service"
)

type pageView struct {
	GameID string
	Board  boardView
}

type boardView struct {
	GameID     string
	Cards      []cardView
	Moves      int
	Matches    int
	TotalPairs int
	Elapsed    string
	Locked     bool
	Complete   bool
	Notice     *noticeView
}

type cardView struct {
	Position int
	Flipped  bool
	Matched  bool
	FaceUp   bool
	Disabled bool
	Title    string
	Image    string
	Label    string
}

type noticeView struct {
	Kind   string
	Title  string
	Body   string
	Detail string
}

func newBoardView(g *service.Game) boardView {
	snap := g.Snapshot
	view := boardView{
		GameID:     g.ID.String(),
		Cards:      make([]cardView, len(snap.Cards)),
		Moves:      snap.Moves,
		Matches:    snap.Matches,
		TotalPairs: snap.TotalPairs,
		Elapsed:    snap.Elapsed,
		Locked:     snap.Locked(),
		Complete:   snap.Complete(),
	}

	for i, c := range snap.Cards {
		cv := cardView{
			Position: c.Position,
			Flipped:  c.Flipped,
			Matched:  c.Matched,
			FaceUp:   c.FaceUp(),
			Disabled: c.FaceUp() || view.Locked || view.Complete,
			Label:    fmt.Sprintf("Carta %d", c.Position+1),
		}
		if c.Stage != nil {
			cv.Title = c.Stage.Title
			cv.Image = "/" + c.Stage.Image
			cv.Label = "Carta: " + c.Stage.Title
		}
		view.Cards[i] = cv
	}

	if n := snap.Notice; n != nil {
		view.Notice = &noticeView{
			Kind:   string(n.Kind),
			Title:  n.Title,
			Body:   n.Body,
			Detail: n.Detail,
		}
	}
	return view
}
