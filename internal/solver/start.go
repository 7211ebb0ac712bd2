package solver

import "github.com/vancomm/minesweeper-interact/internal/board"

// SafeStart only guarantees that the starting cell is not a mine; it never
// proposes moves, leaving play entirely to the user.
type SafeStart struct{}

func (SafeStart) Name() string { return "safestart" }

func (SafeStart) Solve(board.Snapshot) (Move, bool) { return Move{}, false }

// ZeroStart guarantees the starting cell has no mined neighbors, so the
// opening reveal flood-fills a region. Like [SafeStart] it never proposes
// moves.
type ZeroStart struct{}

func (ZeroStart) Name() string { return "zerostart" }

func (ZeroStart) SafeRadius() int { return 1 }

func (ZeroStart) Solve(board.Snapshot) (Move, bool) { return Move{}, false }
