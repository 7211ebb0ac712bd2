package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-interact/internal/board"
)

func snapshot(t *testing.T, width int, cells []board.CellState) board.Snapshot {
	t.Helper()
	if len(cells)%width != 0 {
		t.Fatalf("bad cell grid: %d cells for width %d", len(cells), width)
	}
	return board.Snapshot{
		Geometry: board.Geometry{
			Width:     width,
			Height:    len(cells) / width,
			MineCount: 1,
		},
		Cells:  cells,
		Status: board.StatusPlaying,
	}
}

const (
	u = board.Unknown
	f = board.Flagged
)

func TestMiaFlagsWhenCountMatches(t *testing.T) {
	t.Parallel()

	// every "1" touches exactly one unknown cell
	snap := snapshot(t, 3, []board.CellState{
		0, 0, 0,
		0, 1, 1,
		0, 1, u,
	})

	move, ok := Mia{}.Solve(snap)
	require.True(t, ok)
	require.Equal(t, []Action{{Point: board.Point{X: 2, Y: 2}, Op: OpFlag}}, move.Actions)
}

func TestMiaChordsWhenSatisfied(t *testing.T) {
	t.Parallel()

	// the "1" at 1:1 already has its mine flagged; remaining unknowns are safe
	snap := snapshot(t, 3, []board.CellState{
		f, 1, u,
		1, 1, u,
		u, u, u,
	})

	move, ok := Mia{}.Solve(snap)
	require.True(t, ok)
	require.Len(t, move.Actions, 1)
	require.Equal(t, OpReveal, move.Actions[0].Op)
	require.True(t, snap.At(move.Actions[0].Point).Open())
}

func TestMiaStuck(t *testing.T) {
	t.Parallel()

	// classic 50/50: nothing certain to do
	snap := snapshot(t, 2, []board.CellState{
		1, 1,
		u, u,
	})

	_, ok := Mia{}.Solve(snap)
	require.False(t, ok)
}

func TestMiaIgnoresFinishedGames(t *testing.T) {
	t.Parallel()

	snap := snapshot(t, 3, []board.CellState{
		0, 0, 0,
		0, 1, 1,
		0, 1, u,
	})
	snap.Status = board.StatusWon

	_, ok := Mia{}.Solve(snap)
	require.False(t, ok)
}

func TestByName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"mia", "safestart", "zerostart"} {
		s, err := ByName(name)
		require.NoError(t, err)
		require.Equal(t, name, s.Name())
	}

	s, err := ByName("")
	require.NoError(t, err)
	require.Equal(t, "mia", s.Name())

	_, err = ByName("gpt")
	require.Error(t, err)
}

func TestStartSolversNeverMove(t *testing.T) {
	t.Parallel()

	snap := snapshot(t, 3, []board.CellState{
		0, 0, 0,
		0, 1, 1,
		0, 1, u,
	})

	for _, s := range []Solver{SafeStart{}, ZeroStart{}} {
		_, ok := s.Solve(snap)
		require.False(t, ok, s.Name())
	}
}
