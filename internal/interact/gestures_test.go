package interact

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-interact/internal/board"
)

func TestLeftReleaseRequiresPress(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine(mkSnap(2, board.StatusPlaying, []board.CellState{
		u, u,
		u, u,
	}))
	s := mkSession(t, engine, Options{Geometry: engine.snap.Geometry})
	ctx := context.Background()

	require.NoError(t, s.HandleLeftRelease(ctx, board.Point{X: 0, Y: 0}))

	time.Sleep(50 * time.Millisecond)
	require.Empty(t, engine.callsOf("reveal", "flag"))
}

func TestLeftReleaseRevealsCoveredCell(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine(mkSnap(2, board.StatusPlaying, []board.CellState{
		u, u,
		u, u,
	}))
	s := mkSession(t, engine, Options{Geometry: engine.snap.Geometry})
	ctx := context.Background()
	p := board.Point{X: 0, Y: 0}

	gate := engine.hold()
	require.NoError(t, s.HandleLeftPress(ctx, p))
	require.NoError(t, s.HandleLeftRelease(ctx, p))

	// the reveal indicator holds exactly the target while the op is in
	// flight
	require.Eventually(t, func() bool {
		return s.Armed(p)
	}, eventually, time.Millisecond)
	require.False(t, s.Armed(board.Point{X: 1, Y: 1}))

	close(gate)
	require.Eventually(t, func() bool {
		return !s.Armed(p) && s.registry.Outstanding() == 0
	}, eventually, time.Millisecond)

	reveals := engine.callsOf("reveal")
	require.Len(t, reveals, 1)
	require.Equal(t, p, reveals[0].p)
}

func TestLeftReleaseGatedWhileGameNotStarted(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine(mkSnap(2, board.StatusPending, []board.CellState{
		u, u,
		u, u,
	}))
	s := mkSession(t, engine, Options{Geometry: engine.snap.Geometry})
	ctx := context.Background()
	p := board.Point{X: 0, Y: 0}

	require.NoError(t, s.HandleLeftPress(ctx, p))
	require.NoError(t, s.HandleLeftRelease(ctx, p))
	require.NoError(t, s.HandleRightPress(ctx, p))

	time.Sleep(50 * time.Millisecond)
	require.Empty(t, engine.callsOf("reveal", "flag"))
}

func TestFlagChordFiresWhenCountsMatch(t *testing.T) {
	t.Parallel()

	// the "2" has exactly 2 covered unflagged neighbors
	engine := newFakeEngine(mkSnap(3, board.StatusPlaying, []board.CellState{
		0, 1, u,
		0, 2, f,
		0, 1, u,
	}))
	s := mkSession(t, engine, Options{
		Geometry:  engine.snap.Geometry,
		FlagChord: true,
	})
	ctx := context.Background()
	center := board.Point{X: 1, Y: 1}

	require.NoError(t, s.HandleLeftPress(ctx, center))
	require.NoError(t, s.HandleLeftRelease(ctx, center))

	require.Eventually(t, func() bool {
		return len(engine.callsOf("reveal")) == 1
	}, eventually, time.Millisecond)

	ops := engine.callsOf("flag", "reveal")
	require.Len(t, ops, 3, "two pre-flags, then the chord reveal")
	require.ElementsMatch(t,
		[]engineCall{{"flag", board.Point{X: 2, Y: 0}}, {"flag", board.Point{X: 2, Y: 2}}},
		ops[:2],
	)
	require.Equal(t, engineCall{"reveal", center}, ops[2])
}

func TestFlagChordSkippedWhenCountsDiffer(t *testing.T) {
	t.Parallel()

	// a "2" with 8 covered neighbors of which 2 are flagged and 6 unknown;
	// 2 != 6 so no pre-flags are issued
	engine := newFakeEngine(mkSnap(3, board.StatusPlaying, []board.CellState{
		f, u, u,
		u, 2, u,
		u, u, f,
	}))
	s := mkSession(t, engine, Options{
		Geometry:  engine.snap.Geometry,
		FlagChord: true,
	})
	ctx := context.Background()
	center := board.Point{X: 1, Y: 1}

	gate := engine.hold()
	require.NoError(t, s.HandleLeftPress(ctx, center))
	require.NoError(t, s.HandleLeftRelease(ctx, center))

	// chord reveal set: all 8 neighbors acquired, the cell itself untouched
	require.Eventually(t, func() bool {
		return len(engine.callsOf("reveal")) == 1
	}, eventually, time.Millisecond)
	for _, n := range engine.snap.Neighbors(center) {
		require.Equal(t, 1, s.counters.Count(n))
		require.True(t, s.Armed(n))
	}
	require.Equal(t, 0, s.counters.Count(center))

	close(gate)
	require.Eventually(t, func() bool {
		return s.registry.Outstanding() == 0
	}, eventually, time.Millisecond)
	for _, n := range engine.snap.Neighbors(center) {
		require.Equal(t, 0, s.counters.Count(n))
	}
	require.Empty(t, engine.callsOf("flag"))
}

func TestRightPressTogglesFlagWithoutCounters(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine(mkSnap(2, board.StatusPlaying, []board.CellState{
		u, u,
		u, u,
	}))
	s := mkSession(t, engine, Options{Geometry: engine.snap.Geometry})
	ctx := context.Background()
	p := board.Point{X: 1, Y: 0}

	require.NoError(t, s.HandleLeftPress(ctx, p))
	require.NoError(t, s.HandleRightPress(ctx, p))

	require.Eventually(t, func() bool {
		return len(engine.callsOf("flag")) == 1 && s.registry.Outstanding() == 0
	}, eventually, time.Millisecond)

	require.Equal(t, p, engine.callsOf("flag")[0].p)
	require.Equal(t, 0, s.counters.Count(p))
	require.False(t, s.Armed(p), "right press clears the pressed indicator")
}

func TestHoverChord(t *testing.T) {
	t.Parallel()

	cells := []board.CellState{
		0, 1, u,
		0, 1, u,
		0, 1, u,
	}

	t.Run("enabled launches on numbered cell", func(t *testing.T) {
		t.Parallel()
		engine := newFakeEngine(mkSnap(3, board.StatusPlaying, cells))
		s := mkSession(t, engine, Options{
			Geometry:   engine.snap.Geometry,
			HoverChord: true,
		})

		require.NoError(t, s.HandleHoverEnter(context.Background(), board.Point{X: 1, Y: 1}))

		require.Eventually(t, func() bool {
			reveals := engine.callsOf("reveal")
			return len(reveals) == 1 && reveals[0].p == (board.Point{X: 1, Y: 1})
		}, eventually, time.Millisecond)
	})

	t.Run("enabled ignores covered cells", func(t *testing.T) {
		t.Parallel()
		engine := newFakeEngine(mkSnap(3, board.StatusPlaying, cells))
		s := mkSession(t, engine, Options{
			Geometry:   engine.snap.Geometry,
			HoverChord: true,
		})

		require.NoError(t, s.HandleHoverEnter(context.Background(), board.Point{X: 2, Y: 1}))

		time.Sleep(50 * time.Millisecond)
		require.Empty(t, engine.callsOf("reveal", "flag"))
	})

	t.Run("disabled never launches", func(t *testing.T) {
		t.Parallel()
		engine := newFakeEngine(mkSnap(3, board.StatusPlaying, cells))
		s := mkSession(t, engine, Options{Geometry: engine.snap.Geometry})

		require.NoError(t, s.HandleHoverEnter(context.Background(), board.Point{X: 1, Y: 1}))

		time.Sleep(50 * time.Millisecond)
		require.Empty(t, engine.callsOf("reveal", "flag"))
	})
}

func TestForcePropagationOneLevelDeep(t *testing.T) {
	t.Parallel()

	cells := make([]board.CellState, 25)
	for i := range cells {
		cells[i] = u
	}
	center := board.Point{X: 2, Y: 2}
	snap := mkSnap(5, board.StatusPlaying, cells)
	snap.Cells[snap.Index(center)] = 1

	engine := newFakeEngine(snap)
	s := mkSession(t, engine, Options{Geometry: snap.Geometry})
	ctx := context.Background()

	require.NoError(t, s.HandleHoverEnter(ctx, center))
	require.NoError(t, s.HandleLeftPress(ctx, center))

	for _, n := range snap.Neighbors(center) {
		require.True(t, s.Armed(n), "direct neighbor %v", n)
	}
	for _, far := range []board.Point{{X: 0, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 2}, {X: 2, Y: 0}} {
		require.False(t, s.Armed(far), "two steps away %v", far)
	}

	require.NoError(t, s.HandleHoverExit(ctx, center))
	for _, n := range snap.Neighbors(center) {
		require.False(t, s.Armed(n), "released neighbor %v", n)
	}
}

func TestForcePropagationOnlyFromNumberedCells(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine(mkSnap(3, board.StatusPlaying, []board.CellState{
		u, u, u,
		u, u, u,
		u, u, u,
	}))
	s := mkSession(t, engine, Options{Geometry: engine.snap.Geometry})
	ctx := context.Background()
	p := board.Point{X: 1, Y: 1}

	require.NoError(t, s.HandleHoverEnter(ctx, p))
	require.NoError(t, s.HandleLeftPress(ctx, p))

	require.True(t, s.Armed(p))
	for _, n := range engine.snap.Neighbors(p) {
		require.False(t, s.Armed(n), "covered cells don't propagate")
	}
}

func TestReleaseAllClearsPressedCells(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine(mkSnap(2, board.StatusPlaying, []board.CellState{
		u, u,
		u, u,
	}))
	s := mkSession(t, engine, Options{Geometry: engine.snap.Geometry})
	ctx := context.Background()
	p := board.Point{X: 0, Y: 1}

	require.NoError(t, s.HandleLeftPress(ctx, p))
	require.NoError(t, s.ReleaseAll(ctx))
	require.NoError(t, s.HandleLeftRelease(ctx, p))

	time.Sleep(50 * time.Millisecond)
	require.Empty(t, engine.callsOf("reveal"), "press was cancelled by the global release")
}

func TestGesturesOutsideBoardAreIgnored(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine(mkSnap(2, board.StatusPlaying, []board.CellState{
		u, u,
		u, u,
	}))
	s := mkSession(t, engine, Options{Geometry: engine.snap.Geometry})
	ctx := context.Background()
	outside := board.Point{X: 7, Y: 7}

	require.NoError(t, s.HandleLeftPress(ctx, outside))
	require.NoError(t, s.HandleLeftRelease(ctx, outside))
	require.NoError(t, s.HandleRightPress(ctx, outside))
	require.NoError(t, s.HandleHoverEnter(ctx, outside))
	require.NoError(t, s.HandleHoverExit(ctx, outside))
	require.Empty(t, engine.calls)
}

// resizingEngine shrinks the session right after serving its first
// snapshot, landing the resize between a gesture's board read and its
// state update.
type resizingEngine struct {
	*fakeEngine
	once   sync.Once
	resize func()
}

func (e *resizingEngine) Snapshot(ctx context.Context) (board.Snapshot, error) {
	snap, err := e.fakeEngine.Snapshot(ctx)
	e.once.Do(e.resize)
	return snap, err
}

func TestGestureRacingResizeIsDropped(t *testing.T) {
	t.Parallel()

	handlers := map[string]func(*Session, context.Context, board.Point) error{
		"left press":   (*Session).HandleLeftPress,
		"left release": (*Session).HandleLeftRelease,
		"right press":  (*Session).HandleRightPress,
		"hover enter":  (*Session).HandleHoverEnter,
		"hover exit":   (*Session).HandleHoverExit,
	}
	for name, handle := range handlers {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cells := make([]board.CellState, 25)
			for i := range cells {
				cells[i] = u
			}
			engine := &resizingEngine{
				fakeEngine: newFakeEngine(mkSnap(5, board.StatusPlaying, cells)),
			}
			s := mkSession(t, engine, Options{Geometry: engine.snap.Geometry})
			engine.resize = func() {
				err := s.Resize(context.Background(), board.Geometry{
					Width: 2, Height: 2, MineCount: 1,
				})
				if err != nil {
					t.Error(err)
				}
			}

			// in bounds when the gesture starts, out of bounds once the
			// resize lands
			p := board.Point{X: 4, Y: 4}
			require.NoError(t, handle(s, context.Background(), p))
			require.False(t, s.Armed(p))

			time.Sleep(50 * time.Millisecond)
			require.Empty(t, engine.callsOf("reveal", "flag"))
		})
	}
}
