package solver

import (
	"fmt"

	"github.com/vancomm/minesweeper-interact/internal/board"
)

type Op int

const (
	OpReveal Op = iota
	OpFlag
)

func (op Op) String() string {
	switch op {
	case OpReveal:
		return "reveal"
	case OpFlag:
		return "flag"
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

type Action struct {
	Point board.Point
	Op    Op
}

// Move is a solver's proposed batch of actions for one board snapshot. The
// actions are ordered and must be applied strictly in that order.
type Move struct {
	Actions []Action
}

// Solver proposes the next move for a board snapshot. Solve must be pure: no
// suspension, no retained state between calls.
//
// A solver is also consulted by the engine when a game is (re)initialized;
// implementations that need a stronger starting guarantee than "the first
// opened cell is safe" additionally implement [Starter].
type Solver interface {
	Name() string
	Solve(snap board.Snapshot) (Move, bool)
}

// Starter is optionally implemented by solvers to widen the mine-free zone
// around the starting cell. SafeRadius 0 keeps only the starting cell clear,
// 1 clears its whole neighborhood so the first reveal flood-fills.
type Starter interface {
	SafeRadius() int
}

// ByName resolves one of the known solvers. The set is closed; session
// construction and reinitialization are the only swap points.
func ByName(name string) (Solver, error) {
	switch name {
	case "", "mia":
		return Mia{}, nil
	case "safestart":
		return SafeStart{}, nil
	case "zerostart":
		return ZeroStart{}, nil
	default:
		return nil, fmt.Errorf("unknown solver %q", name)
	}
}
