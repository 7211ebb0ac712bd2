package mines

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-interact/internal/board"
	"github.com/vancomm/minesweeper-interact/internal/solver"
)

// ErrRejected marks an operation the engine declined: acting outside an
// in-progress game, revealing a flagged or already-open cell, chording a
// cell whose flags don't add up. Callers treat it as a silent no-op.
var ErrRejected = errors.New("rejected")

// Engine owns one game and serializes every mutation behind a mutex. It
// satisfies the interaction layer's engine interface; duplicate or racing
// requests against the same cell degrade to ErrRejected rather than faults.
type Engine struct {
	mu     sync.Mutex
	log    logrus.FieldLogger
	rnd    *rand.Rand
	geom   board.Geometry
	status board.GameStatus
	state  *gameState
}

func NewEngine(log logrus.FieldLogger, rnd *rand.Rand) *Engine {
	return &Engine{log: log, rnd: rnd}
}

// Reinitialize resets the board to the given geometry, adopts the solver's
// start rule, performs the starting reveal and moves the game to Playing.
func (e *Engine) Reinitialize(
	ctx context.Context, geom board.Geometry, s solver.Solver,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := geom.Validate(); err != nil {
		return fmt.Errorf("reinitialize: %w", err)
	}

	safeRadius := 0
	if starter, ok := s.(solver.Starter); ok {
		safeRadius = starter.SafeRadius()
	}
	start := board.Point{X: e.rnd.IntN(geom.Width), Y: e.rnd.IntN(geom.Height)}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.geom = geom
	e.state = newGameState(geom, start, safeRadius, e.rnd)
	e.status = board.StatusPlaying
	e.log.WithFields(logrus.Fields{
		"geometry": fmt.Sprintf("%dx%d(%d)", geom.Width, geom.Height, geom.MineCount),
		"start":    start,
		"solver":   s.Name(),
	}).Debug("game initialized")
	return nil
}

// Snapshot returns a copy of the observable game state. It is the
// synchronization point autoplay relies on: a snapshot taken after an
// operation completed reflects that operation.
func (e *Engine) Snapshot(ctx context.Context) (board.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return board.Snapshot{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := board.Snapshot{Geometry: e.geom, Status: e.status}
	if e.state != nil {
		snap.Cells = append([]board.CellState(nil), e.state.grid...)
		snap.RemainingMines = e.state.remainingMines()
	}
	return snap, nil
}

// Reveal opens a covered cell, or chords an open numbered one.
func (e *Engine) Reveal(ctx context.Context, p board.Point) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != board.StatusPlaying || !e.geom.Contains(p) {
		return ErrRejected
	}

	i := e.geom.Index(p)
	switch {
	case e.state.grid[i].Covered() && e.state.grid[i] != board.Flagged:
		e.state.open(p)
	case e.state.grid[i].Open() && e.state.grid[i] > 0:
		if !e.state.chord(p) {
			return ErrRejected
		}
	default:
		return ErrRejected
	}

	e.settle(p)
	return nil
}

// ToggleFlag marks or unmarks a covered cell.
func (e *Engine) ToggleFlag(ctx context.Context, p board.Point) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != board.StatusPlaying || !e.geom.Contains(p) {
		return ErrRejected
	}
	if !e.state.flag(p) {
		return ErrRejected
	}
	return nil
}

// settle moves the engine status after a mutation and reveals the full
// layout on a loss.
func (e *Engine) settle(p board.Point) {
	switch {
	case e.state.dead:
		e.state.revealAll()
		e.status = board.StatusLost
		e.log.WithField("point", p).Debug("game lost")
	case e.state.won:
		e.status = board.StatusWon
		e.log.Debug("game won")
	}
}
