package mines

import (
	"math/rand/v2"

	"github.com/vancomm/minesweeper-interact/internal/board"
)

// gameState is the mutable heart of a game. It is not safe for concurrent
// use; Engine serializes access to it.
type gameState struct {
	geom      board.Geometry
	mines     []bool            // real mine positions
	grid      []board.CellState // player knowledge
	dead, won bool
}

// newGameState places mines randomly, keeping every cell within safeRadius
// of start clear, then opens the starting cell.
func newGameState(
	geom board.Geometry, start board.Point, safeRadius int, rnd *rand.Rand,
) *gameState {
	excluded := make([]bool, geom.CellCount())
	excluded[geom.Index(start)] = true
	nexcluded := 1
	if safeRadius > 0 {
		for _, n := range geom.Neighbors(start) {
			excluded[geom.Index(n)] = true
			nexcluded++
		}
	}
	if geom.CellCount()-nexcluded < geom.MineCount {
		// no room for the wide exclusion zone on this geometry, keep only
		// the starting cell clear
		clear(excluded)
		excluded[geom.Index(start)] = true
	}

	eligible := make([]int, 0, geom.CellCount())
	for i := range geom.CellCount() {
		if !excluded[i] {
			eligible = append(eligible, i)
		}
	}
	rnd.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	s := &gameState{
		geom:  geom,
		mines: make([]bool, geom.CellCount()),
		grid:  make([]board.CellState, geom.CellCount()),
	}
	for _, i := range eligible[:geom.MineCount] {
		s.mines[i] = true
	}
	for i := range s.grid {
		s.grid[i] = board.Unknown
	}
	s.open(start)
	return s
}

func (s *gameState) over() bool {
	return s.dead || s.won
}

func (s *gameState) mineCount(p board.Point) board.CellState {
	var n board.CellState
	for _, q := range s.geom.Neighbors(p) {
		if s.mines[s.geom.Index(q)] {
			n++
		}
	}
	return n
}

// open reveals p and flood-fills through zero cells. Landing on a mine kills
// the game and exposes only the mine that was hit, so an undo could carry on
// playing.
func (s *gameState) open(p board.Point) {
	i := s.geom.Index(p)
	if s.mines[i] {
		s.dead = true
		s.grid[i] = board.ExplodedMine
		return
	}

	queued := make([]bool, s.geom.CellCount())
	queued[i] = true
	todo := []board.Point{p}
	for len(todo) > 0 {
		q := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		j := s.geom.Index(q)
		n := s.mineCount(q)
		s.grid[j] = n
		if n != 0 {
			continue
		}
		for _, r := range s.geom.Neighbors(q) {
			k := s.geom.Index(r)
			if s.grid[k] == board.Unknown && !queued[k] {
				queued[k] = true
				todo = append(todo, r)
			}
		}
	}

	s.checkWon()
}

// checkWon flips the won flag once exactly the mined cells remain covered.
func (s *gameState) checkWon() {
	if s.dead {
		return
	}
	var covered int
	for i := range s.grid {
		if s.grid[i].Covered() {
			covered++
		}
	}
	if covered == s.geom.MineCount {
		for i := range s.grid {
			if s.grid[i] == board.Unknown || s.grid[i] == board.Question {
				s.grid[i] = board.UnflaggedMine
			}
		}
		s.won = true
	}
}

func (s *gameState) flag(p board.Point) bool {
	i := s.geom.Index(p)
	switch s.grid[i] {
	case board.Unknown, board.Question:
		s.grid[i] = board.Flagged
	case board.Flagged:
		s.grid[i] = board.Unknown
	default:
		return false
	}
	return true
}

// chord opens every unflagged covered neighbor of an open numbered cell,
// provided the flagged neighbor count matches the number.
func (s *gameState) chord(p board.Point) bool {
	i := s.geom.Index(p)
	if !s.grid[i].Open() || s.grid[i] == 0 {
		return false
	}
	var flagged int
	var covered []board.Point
	for _, q := range s.geom.Neighbors(p) {
		switch s.grid[s.geom.Index(q)] {
		case board.Flagged:
			flagged++
		case board.Unknown, board.Question:
			covered = append(covered, q)
		}
	}
	if board.CellState(flagged) != s.grid[i] || len(covered) == 0 {
		return false
	}
	for _, q := range covered {
		s.open(q)
		if s.over() {
			break
		}
	}
	return true
}

// revealAll exposes the full layout after a loss.
func (s *gameState) revealAll() {
	for i := range s.grid {
		switch {
		case s.grid[i] == board.Flagged && s.mines[i]:
			s.grid[i] = board.CorrectFlag
		case s.grid[i] == board.Flagged:
			s.grid[i] = board.WrongFlag
		case s.grid[i].Covered() && s.mines[i]:
			s.grid[i] = board.UnflaggedMine
		case s.grid[i].Covered():
			s.grid[i] = s.mineCount(s.geom.PointAt(i))
		}
	}
}

func (s *gameState) remainingMines() int {
	remaining := s.geom.MineCount
	for _, c := range s.grid {
		if c == board.Flagged {
			remaining--
		}
	}
	return remaining
}
