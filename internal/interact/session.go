package interact

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-interact/internal/board"
	"github.com/vancomm/minesweeper-interact/internal/solver"
)

// Engine is the asynchronous puzzle engine the interaction layer drives.
// Implementations serialize their own state mutations; racing duplicate
// calls against the same cell must degrade to silent rejections.
type Engine interface {
	Snapshot(ctx context.Context) (board.Snapshot, error)
	Reveal(ctx context.Context, p board.Point) error
	ToggleFlag(ctx context.Context, p board.Point) error
	Reinitialize(ctx context.Context, geom board.Geometry, s solver.Solver) error
}

// AutoplayConfig is read at loop chain time; a loop that already started
// keeps the snapshot it was started with.
type AutoplayConfig struct {
	Enabled   bool
	Solver    solver.Solver // nil means the session's solver
	StepDelay time.Duration
}

type Options struct {
	Geometry   board.Geometry
	Solver     solver.Solver
	FlagChord  bool
	HoverChord bool
	Autoplay   AutoplayConfig
	Logger     logrus.FieldLogger
}

// cellState is the per-cell interaction state. It is only ever mutated while
// holding the session mutex; forced is set exclusively by propagation from a
// neighboring numbered cell, never by the cell's own gesture handling.
type cellState struct {
	pressed  bool
	hovering bool
	forced   bool
}

// Session owns the engine handle, the solver choice and all per-cell
// interaction bookkeeping for one game. Gesture handlers are meant to be
// driven from a single control goroutine; the operations they spawn complete
// on their own goroutines and touch only the registry, the reveal counters
// and the autoplay flag.
type Session struct {
	log      logrus.FieldLogger
	engine   Engine
	registry *Registry

	mu         sync.RWMutex
	geom       board.Geometry
	cells      []cellState
	counters   *RevealCounters
	solver     solver.Solver
	flagChord  bool
	hoverChord bool
	autoplay   AutoplayConfig

	// autoOwner is 0 when no autoplay loop runs, otherwise the token of the
	// loop that owns the running interval. Tokens come from autoSeq and never
	// repeat, so a cancelled loop still unwinding after a restart cannot
	// clear a successor's ownership.
	autoSeq   atomic.Uint64
	autoOwner atomic.Uint64
}

func NewSession(engine Engine, opts Options) (*Session, error) {
	if err := opts.Geometry.Validate(); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	if opts.Solver == nil {
		return nil, fmt.Errorf("new session: no solver")
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Session{
		log:        log,
		engine:     engine,
		registry:   NewRegistry(),
		geom:       opts.Geometry,
		cells:      make([]cellState, opts.Geometry.CellCount()),
		counters:   NewRevealCounters(opts.Geometry),
		solver:     opts.Solver,
		flagChord:  opts.FlagChord,
		hoverChord: opts.HoverChord,
		autoplay:   opts.Autoplay,
	}, nil
}

// Restart cancels every outstanding operation, resets all interaction state
// and reinitializes the engine with the current solver. Cancelled operation
// bodies may still be unwinding when Restart returns; their completion
// handlers only touch the discarded counter instance and the (idempotent)
// registry removal.
func (s *Session) Restart(ctx context.Context) error {
	s.registry.CancelAll()
	s.autoOwner.Store(0)

	s.mu.Lock()
	geom, sol := s.geom, s.solver
	s.cells = make([]cellState, geom.CellCount())
	s.counters = NewRevealCounters(geom)
	s.mu.Unlock()

	if err := s.engine.Reinitialize(ctx, geom, sol); err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	return nil
}

// Resize tears the interaction layer down and rebuilds it for the new
// geometry, then restarts.
func (s *Session) Resize(ctx context.Context, geom board.Geometry) error {
	if err := geom.Validate(); err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	s.mu.Lock()
	s.geom = geom
	s.mu.Unlock()
	return s.Restart(ctx)
}

// Snapshot reads the engine's current board state.
func (s *Session) Snapshot(ctx context.Context) (board.Snapshot, error) {
	return s.engine.Snapshot(ctx)
}

func (s *Session) Geometry() board.Geometry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.geom
}

// Armed reports the visual "pressed/about to reveal" indicator for a cell.
// This is the only interaction state the rendering side consumes.
func (s *Session) Armed(p board.Point) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.geom.Contains(p) {
		return false
	}
	return s.armedLocked(p)
}

func (s *Session) armedLocked(p board.Point) bool {
	c := s.cells[s.geom.Index(p)]
	return (c.pressed && c.hovering) || c.forced || s.counters.Count(p) > 0
}

// ArmedCells returns the armed flag for every cell in row-major order.
func (s *Session) ArmedCells() []bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	armed := make([]bool, s.geom.CellCount())
	for i := range armed {
		armed[i] = s.armedLocked(s.geom.PointAt(i))
	}
	return armed
}

// SetSolver changes the session solver; the engine adopts it on the next
// Restart or Resize.
func (s *Session) SetSolver(sol solver.Solver) {
	s.mu.Lock()
	s.solver = sol
	s.mu.Unlock()
}

func (s *Session) SetFlagChord(enabled bool) {
	s.mu.Lock()
	s.flagChord = enabled
	s.mu.Unlock()
}

func (s *Session) SetHoverChord(enabled bool) {
	s.mu.Lock()
	s.hoverChord = enabled
	s.mu.Unlock()
}

// SetAutoplay replaces the autoplay config. A loop already running keeps the
// config it chained with.
func (s *Session) SetAutoplay(cfg AutoplayConfig) {
	s.mu.Lock()
	s.autoplay = cfg
	s.mu.Unlock()
}

// Autoplay returns the current autoplay config.
func (s *Session) Autoplay() AutoplayConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoplay
}

// AutoplayRunning reports whether an autoplay loop is currently active.
func (s *Session) AutoplayRunning() bool {
	return s.autoOwner.Load() != 0
}
