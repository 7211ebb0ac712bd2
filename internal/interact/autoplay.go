package interact

import (
	"context"
	"time"

	"github.com/vancomm/minesweeper-interact/internal/board"
	"github.com/vancomm/minesweeper-interact/internal/solver"
)

// maybeChainAutoplay starts an autoplay loop if autoplay is enabled and no
// loop is active for this session. Called from manual reveal completion
// handlers and from StartAutoplay; losing the CompareAndSwap race means a
// loop is already running and the chain request is a no-op.
func (s *Session) maybeChainAutoplay() {
	s.mu.RLock()
	cfg := s.autoplay
	sol := cfg.Solver
	if sol == nil {
		sol = s.solver
	}
	s.mu.RUnlock()

	if !cfg.Enabled {
		return
	}
	token := s.autoSeq.Add(1)
	if !s.autoOwner.CompareAndSwap(0, token) {
		return
	}
	go s.runAutoplay(token, sol, cfg.StepDelay)
}

// StartAutoplay kicks the loop off without waiting for a manual reveal.
func (s *Session) StartAutoplay() {
	s.maybeChainAutoplay()
}

// StopAutoplay disables chaining. An active loop winds down at its next
// step boundary; the step already in progress still runs to completion.
func (s *Session) StopAutoplay() {
	s.mu.Lock()
	s.autoplay.Enabled = false
	s.mu.Unlock()
}

// runAutoplay is the loop body: Start -> SolveNext (repeating) -> End.
// Ownership is already held on entry; the conditional swap on the way out
// releases it only while this loop still owns it. A restart hands ownership
// to the next loop directly, and this loop's release must not revoke it.
func (s *Session) runAutoplay(token uint64, sol solver.Solver, delay time.Duration) {
	defer s.autoOwner.CompareAndSwap(token, 0)
	s.log.WithField("solver", sol.Name()).Debug("autoplay loop started")
	steps := 0
	for s.autoplayStep(sol, delay) {
		steps++
	}
	s.log.WithField("steps", steps).Debug("autoplay loop ended")
}

// autoplayStep performs one SolveNext transition and reports whether the
// loop should continue. The whole step, pacing delay included, is
// registered in the action registry under its own token so a restart can
// cancel it; cancellation at any suspension point aborts the remainder.
func (s *Session) autoplayStep(sol solver.Solver, delay time.Duration) bool {
	opCtx, cancel := context.WithCancel(context.Background())
	token := s.registry.Register(cancel)
	defer s.registry.Complete(token)
	defer cancel()

	// unlike the solver and the delay, which stay as chained, Enabled is
	// re-read live so StopAutoplay takes effect at the next step boundary
	s.mu.RLock()
	enabled := s.autoplay.Enabled
	s.mu.RUnlock()
	if !enabled {
		return false
	}

	// a fresh snapshot is the synchronization point: it reflects every
	// previously completed operation
	snap, err := s.engine.Snapshot(opCtx)
	if err != nil {
		return false
	}
	if snap.Status != board.StatusPlaying {
		return false
	}

	move, ok := sol.Solve(snap)
	if !ok {
		return false
	}

	// apply strictly in order; no flag-chord pre-pass for autoplay reveals
	for _, a := range move.Actions {
		var err error
		switch a.Op {
		case solver.OpReveal:
			err = s.engine.Reveal(opCtx, a.Point)
		case solver.OpFlag:
			err = s.engine.ToggleFlag(opCtx, a.Point)
		}
		if opCtx.Err() != nil {
			// no rollback of partially applied moves; the engine is
			// trusted to tolerate them
			return false
		}
		if err != nil {
			s.log.WithField("action", a).WithError(err).Debug("autoplay action not applied")
		}
	}

	select {
	case <-time.After(delay):
		return true
	case <-opCtx.Done():
		return false
	}
}
