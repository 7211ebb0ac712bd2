package interact

import (
	"context"
	"fmt"

	"github.com/vancomm/minesweeper-interact/internal/board"
)

// HandleLeftPress marks a cell as pressed and refreshes the chord preview of
// its neighbors.
func (s *Session) HandleLeftPress(ctx context.Context, p board.Point) error {
	snap, err := s.gestureSnapshot(ctx, p)
	if err != nil || snap.Cells == nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// recheck: a resize may have landed since the snapshot
	if !s.geom.Contains(p) {
		return nil
	}
	s.cells[s.geom.Index(p)].pressed = true
	s.propagateLocked(snap, p)
	return nil
}

// HandleLeftRelease translates a left release into a reveal (or chord)
// operation. It is a no-op when the cell is not currently pressed: the press
// originated elsewhere or was cancelled by an intervening exit.
func (s *Session) HandleLeftRelease(ctx context.Context, p board.Point) error {
	snap, err := s.gestureSnapshot(ctx, p)
	if err != nil || snap.Cells == nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.geom.Contains(p) {
		return nil
	}
	cell := &s.cells[s.geom.Index(p)]
	pressed := cell.pressed
	cell.pressed = false
	if pressed && snap.Status != board.StatusPending {
		s.launchRevealLocked(snap, p)
	}
	s.propagateLocked(snap, p)
	return nil
}

// HandleRightPress toggles a flag. The pressed indicator is cleared
// immediately: flagging never shows a reveal latency indicator and never
// touches the reveal counters.
func (s *Session) HandleRightPress(ctx context.Context, p board.Point) error {
	snap, err := s.gestureSnapshot(ctx, p)
	if err != nil || snap.Cells == nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.geom.Contains(p) {
		return nil
	}
	s.cells[s.geom.Index(p)].pressed = false
	if snap.Status != board.StatusPending {
		opCtx, cancel := context.WithCancel(context.Background())
		token := s.registry.Register(cancel)
		go func() {
			defer cancel()
			if err := s.engine.ToggleFlag(opCtx, p); err != nil {
				s.log.WithField("point", p).WithError(err).Debug("flag not applied")
			}
			s.registry.Complete(token)
		}()
	}
	s.propagateLocked(snap, p)
	return nil
}

// HandleHoverEnter marks a cell as hovered. With hover-chord enabled,
// entering an open numbered cell launches the same operation a left release
// would.
func (s *Session) HandleHoverEnter(ctx context.Context, p board.Point) error {
	snap, err := s.gestureSnapshot(ctx, p)
	if err != nil || snap.Cells == nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.geom.Contains(p) {
		return nil
	}
	s.cells[s.geom.Index(p)].hovering = true
	if s.hoverChord && snap.Status == board.StatusPlaying && chordCell(snap, p) {
		s.launchRevealLocked(snap, p)
	}
	s.propagateLocked(snap, p)
	return nil
}

// HandleHoverExit clears a cell's hovered flag.
func (s *Session) HandleHoverExit(ctx context.Context, p board.Point) error {
	snap, err := s.gestureSnapshot(ctx, p)
	if err != nil || snap.Cells == nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.geom.Contains(p) {
		return nil
	}
	s.cells[s.geom.Index(p)].hovering = false
	s.propagateLocked(snap, p)
	return nil
}

// ReleaseAll clears the pressed flag of every cell. Driven by global mouse
// releases, so a press that ends outside the grid doesn't leave a cell
// stuck down.
func (s *Session) ReleaseAll(ctx context.Context) error {
	snap, err := s.engine.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("release all: %w", err)
	}

	s.mu.Lock()
	for i := range s.cells {
		if s.cells[i].pressed {
			s.cells[i].pressed = false
			if snap.Cells != nil {
				s.propagateLocked(snap, s.geom.PointAt(i))
			}
		}
	}
	s.mu.Unlock()
	return nil
}

// gestureSnapshot reads the latest board state and swallows gestures aimed
// outside the board.
func (s *Session) gestureSnapshot(
	ctx context.Context, p board.Point,
) (board.Snapshot, error) {
	s.mu.RLock()
	ok := s.geom.Contains(p)
	s.mu.RUnlock()
	if !ok {
		return board.Snapshot{}, nil
	}
	snap, err := s.engine.Snapshot(ctx)
	if err != nil {
		return board.Snapshot{}, fmt.Errorf("gesture %v: %w", p, err)
	}
	return snap, nil
}

// chordCell reports whether p is an open numbered cell, the kind a chord
// applies to.
func chordCell(snap board.Snapshot, p board.Point) bool {
	c := snap.At(p)
	return c.Open() && c > 0
}

// revealSet computes the cells whose counters an operation targeting p must
// hold: the cell itself while it is covered, or the whole neighborhood once
// it is an open chord cell (whose own counter stays untouched).
func revealSet(snap board.Snapshot, p board.Point) []board.Point {
	if chordCell(snap, p) {
		return snap.Neighbors(p)
	}
	return []board.Point{p}
}

// flagChordTargets returns the covered unflagged neighbors of p when the
// flag-chord convenience applies: p shows n and has exactly n such
// neighbors. Otherwise nil.
func flagChordTargets(snap board.Snapshot, p board.Point) []board.Point {
	if !chordCell(snap, p) {
		return nil
	}
	var unknown []board.Point
	for _, q := range snap.Neighbors(p) {
		if c := snap.At(q); c.Covered() && c != board.Flagged {
			unknown = append(unknown, q)
		}
	}
	if len(unknown) != int(snap.At(p)) {
		return nil
	}
	return unknown
}

// launchRevealLocked spawns the cancellable reveal/chord operation for p:
// acquire the reveal set, optionally run the flag-chord pre-pass, issue the
// reveal, then release and complete regardless of outcome, chaining autoplay
// last. Callers hold s.mu.
func (s *Session) launchRevealLocked(snap board.Snapshot, p board.Point) {
	if snap.Geometry != s.geom {
		// a resize slipped in between the snapshot and this launch
		return
	}
	set := revealSet(snap, p)
	release := s.counters.Acquire(set)

	var flagTargets []board.Point
	if s.flagChord {
		flagTargets = flagChordTargets(snap, p)
	}

	opCtx, cancel := context.WithCancel(context.Background())
	token := s.registry.Register(cancel)

	go func() {
		defer cancel()
		for _, q := range flagTargets {
			if opCtx.Err() != nil {
				break
			}
			if err := s.engine.ToggleFlag(opCtx, q); err != nil {
				s.log.WithField("point", q).WithError(err).Debug("pre-flag not applied")
			}
		}
		if opCtx.Err() == nil {
			if err := s.engine.Reveal(opCtx, p); err != nil {
				s.log.WithField("point", p).WithError(err).Debug("reveal not applied")
			}
		}

		// cleanup is the same on every exit path
		release()
		s.registry.Complete(token)
		s.maybeChainAutoplay()
	}()
}

// propagateLocked imposes the chord preview on the neighbors of an open
// numbered cell: they follow p's armed state, one level deep only. Callers
// hold s.mu.
func (s *Session) propagateLocked(snap board.Snapshot, p board.Point) {
	if snap.Cells == nil || snap.Geometry != s.geom || !chordCell(snap, p) {
		return
	}
	armed := s.armedLocked(p)
	for _, n := range snap.Neighbors(p) {
		s.cells[s.geom.Index(n)].forced = armed
	}
}
