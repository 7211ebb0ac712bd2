package solver

import (
	"github.com/gammazero/deque"

	"github.com/vancomm/minesweeper-interact/internal/board"
)

// Mia is a single-point solver: it reasons about one numbered cell at a
// time. For a cell showing n with f flagged neighbors and u unknown
// neighbors it flags all unknowns when n-f == u, and chords the cell when
// n == f. It proposes one such move per call and reports no move once the
// board yields nothing certain.
type Mia struct{}

func (Mia) Name() string { return "mia" }

func (Mia) SafeRadius() int { return 1 }

func (Mia) Solve(snap board.Snapshot) (Move, bool) {
	if snap.Status != board.StatusPlaying {
		return Move{}, false
	}

	var frontier deque.Deque[int]
	for i, s := range snap.Cells {
		if s.Open() && s > 0 {
			frontier.PushBack(i)
		}
	}

	for frontier.Len() != 0 {
		i := frontier.PopFront()
		p := snap.PointAt(i)

		var flagged int
		var unknown []board.Point
		for _, n := range snap.Neighbors(p) {
			switch snap.At(n) {
			case board.Flagged:
				flagged++
			case board.Unknown, board.Question:
				unknown = append(unknown, n)
			}
		}
		if len(unknown) == 0 {
			continue
		}

		n := int(snap.At(p))
		switch {
		case n-flagged == len(unknown):
			actions := make([]Action, len(unknown))
			for j, u := range unknown {
				actions[j] = Action{Point: u, Op: OpFlag}
			}
			return Move{Actions: actions}, true
		case n == flagged:
			// chording the numbered cell opens every unflagged neighbor
			return Move{Actions: []Action{{Point: p, Op: OpReveal}}}, true
		}
	}

	return Move{}, false
}
