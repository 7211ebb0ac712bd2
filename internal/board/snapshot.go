package board

import (
	"fmt"
	"strconv"
	"strings"
)

type CellState int8

const (
	Question      CellState = -3
	Unknown       CellState = -2
	Flagged       CellState = -1
	CorrectFlag   CellState = 64 // post-game-over
	ExplodedMine  CellState = 65
	WrongFlag     CellState = 66
	UnflaggedMine CellState = 67
	// 0-8 for open cells with the given number of mined neighbors
)

func (s CellState) String() string {
	switch s {
	case Question:
		return "?"
	case Unknown:
		return " "
	case Flagged:
		return "*"
	case 0, 1, 2, 3, 4, 5, 6, 7, 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

// Open reports whether the cell has been revealed and carries a neighbor
// mine count.
func (s CellState) Open() bool {
	return 0 <= s && s <= 8
}

// Covered reports whether the cell is still actionable by the player:
// unknown, flagged or question-marked.
func (s CellState) Covered() bool {
	return s == Unknown || s == Flagged || s == Question
}

type GameStatus int

const (
	// StatusPending means the engine has not finished (re)initializing;
	// gameplay gestures are no-ops while it lasts.
	StatusPending GameStatus = iota
	StatusPlaying
	StatusWon
	StatusLost
)

func (s GameStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusPlaying:
		return "playing"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func (s GameStatus) Over() bool {
	return s == StatusWon || s == StatusLost
}

// Snapshot is an immutable copy of the externally observable game state. It
// is what the engine hands out, what solvers reason about and what the
// interaction layer bases its scheduling decisions on.
type Snapshot struct {
	Geometry
	Cells          []CellState
	RemainingMines int
	Status         GameStatus
}

func (s Snapshot) At(p Point) CellState {
	return s.Cells[s.Index(p)]
}

func (s Snapshot) String() string {
	var b strings.Builder
	for y := range s.Height {
		for x := range s.Width {
			fmt.Fprint(&b, s.Cells[y*s.Width+x].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
