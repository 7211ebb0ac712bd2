package interact

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-interact/internal/board"
	"github.com/vancomm/minesweeper-interact/internal/solver"
)

const eventually = 2 * time.Second

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

type engineCall struct {
	op string
	p  board.Point
}

// fakeEngine serves a fixed snapshot and records every call. An optional
// gate keeps reveal/flag bodies in flight until the test opens it, which is
// how the tests hold operations "in the air".
type fakeEngine struct {
	mu    sync.Mutex
	snap  board.Snapshot
	calls []engineCall
	gate  chan struct{}
}

func newFakeEngine(snap board.Snapshot) *fakeEngine {
	return &fakeEngine{snap: snap}
}

// hold makes subsequent Reveal/ToggleFlag calls block until the returned
// channel is closed (or their context is cancelled).
func (e *fakeEngine) hold() chan struct{} {
	ch := make(chan struct{})
	e.mu.Lock()
	e.gate = ch
	e.mu.Unlock()
	return ch
}

func (e *fakeEngine) record(op string, p board.Point) {
	e.mu.Lock()
	e.calls = append(e.calls, engineCall{op, p})
	e.mu.Unlock()
}

func (e *fakeEngine) wait(ctx context.Context) error {
	e.mu.Lock()
	gate := e.gate
	e.mu.Unlock()
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// callsOf returns the recorded calls matching any of the given ops, in
// order.
func (e *fakeEngine) callsOf(ops ...string) []engineCall {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []engineCall
	for _, c := range e.calls {
		for _, op := range ops {
			if c.op == op {
				out = append(out, c)
			}
		}
	}
	return out
}

func (e *fakeEngine) Snapshot(ctx context.Context) (board.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return board.Snapshot{}, err
	}
	e.record("snapshot", board.Point{})
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := e.snap
	snap.Cells = append([]board.CellState(nil), e.snap.Cells...)
	return snap, nil
}

func (e *fakeEngine) Reveal(ctx context.Context, p board.Point) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.record("reveal", p)
	return e.wait(ctx)
}

func (e *fakeEngine) ToggleFlag(ctx context.Context, p board.Point) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.record("flag", p)
	return e.wait(ctx)
}

func (e *fakeEngine) Reinitialize(
	ctx context.Context, geom board.Geometry, _ solver.Solver,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.record("reinit", board.Point{})
	cells := make([]board.CellState, geom.CellCount())
	for i := range cells {
		cells[i] = board.Unknown
	}
	e.mu.Lock()
	e.snap = board.Snapshot{
		Geometry:       geom,
		Cells:          cells,
		RemainingMines: geom.MineCount,
		Status:         board.StatusPlaying,
	}
	e.mu.Unlock()
	return nil
}

// scriptedSolver hands out a fixed sequence of moves, then reports stuck.
type scriptedSolver struct {
	mu     sync.Mutex
	moves  []solver.Move
	solves int
}

func (s *scriptedSolver) Name() string { return "scripted" }

func (s *scriptedSolver) Solve(board.Snapshot) (solver.Move, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.solves++
	if len(s.moves) == 0 {
		return solver.Move{}, false
	}
	move := s.moves[0]
	s.moves = s.moves[1:]
	return move, true
}

func (s *scriptedSolver) solveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.solves
}

func mkSnap(width int, status board.GameStatus, cells []board.CellState) board.Snapshot {
	return board.Snapshot{
		Geometry: board.Geometry{
			Width:     width,
			Height:    len(cells) / width,
			MineCount: 1,
		},
		Cells:  cells,
		Status: status,
	}
}

func mkSession(t *testing.T, engine Engine, opts Options) *Session {
	t.Helper()
	if opts.Solver == nil {
		opts.Solver = solver.SafeStart{}
	}
	if opts.Logger == nil {
		opts.Logger = testLogger()
	}
	s, err := NewSession(engine, opts)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

const (
	u = board.Unknown
	f = board.Flagged
)
