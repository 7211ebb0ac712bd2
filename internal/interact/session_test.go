package interact

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-interact/internal/board"
)

func TestNewSessionValidation(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine(board.Snapshot{})

	_, err := NewSession(engine, Options{
		Geometry: board.Geometry{Width: 0, Height: 1, MineCount: 1},
		Solver:   nil,
	})
	require.Error(t, err)
}

func TestRestartEmptiesRegistryAndResetsCounters(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine(mkSnap(3, board.StatusPlaying, []board.CellState{
		u, u, u,
		u, u, u,
		u, u, u,
	}))
	s := mkSession(t, engine, Options{Geometry: engine.snap.Geometry})
	ctx := context.Background()

	gate := engine.hold()
	for _, p := range []board.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}} {
		require.NoError(t, s.HandleLeftPress(ctx, p))
		require.NoError(t, s.HandleLeftRelease(ctx, p))
	}
	require.Eventually(t, func() bool {
		return s.registry.Outstanding() == 3
	}, eventually, time.Millisecond)

	require.NoError(t, s.Restart(ctx))

	// the registry is empty the moment restart returns, however many
	// operations were in flight, and no indicator survives
	require.Equal(t, 0, s.registry.Outstanding())
	for _, p := range []board.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}} {
		require.False(t, s.Armed(p))
		require.Equal(t, 0, s.counters.Count(p))
	}
	require.Len(t, engine.callsOf("reinit"), 1)

	// cancelled bodies unwind without corrupting the fresh counters
	close(gate)
	time.Sleep(50 * time.Millisecond)
	for _, p := range []board.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}} {
		require.Equal(t, 0, s.counters.Count(p))
	}
}

func TestResizeRebuildsInteractionState(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine(mkSnap(2, board.StatusPlaying, []board.CellState{
		u, u,
		u, u,
	}))
	s := mkSession(t, engine, Options{Geometry: engine.snap.Geometry})
	ctx := context.Background()

	gate := engine.hold()
	require.NoError(t, s.HandleLeftPress(ctx, board.Point{X: 1, Y: 1}))
	require.NoError(t, s.HandleLeftRelease(ctx, board.Point{X: 1, Y: 1}))

	bigger := board.Geometry{Width: 4, Height: 4, MineCount: 3}
	require.NoError(t, s.Resize(ctx, bigger))
	close(gate)

	require.Equal(t, bigger, s.Geometry())
	require.Len(t, s.ArmedCells(), bigger.CellCount())
	require.Equal(t, 0, s.registry.Outstanding())

	require.Error(t, s.Resize(ctx, board.Geometry{Width: 0, Height: 1, MineCount: 1}))
}

func TestArmedCellsMatchesArmed(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine(mkSnap(2, board.StatusPlaying, []board.CellState{
		u, u,
		u, u,
	}))
	s := mkSession(t, engine, Options{Geometry: engine.snap.Geometry})
	ctx := context.Background()
	p := board.Point{X: 0, Y: 0}

	require.NoError(t, s.HandleHoverEnter(ctx, p))
	require.NoError(t, s.HandleLeftPress(ctx, p))

	armed := s.ArmedCells()
	for i, want := range armed {
		require.Equal(t, want, s.Armed(engine.snap.PointAt(i)))
	}
	require.True(t, armed[0])
}
