package main

import (
	"hash/maphash"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper-interact/internal/interact"
)

// gameSession ties one live orchestration session to its transport-level
// bookkeeping. Games live in memory only; what outlasts the process are
// players and highscores.
type gameSession struct {
	Id       uuid.UUID
	PlayerId *int64
	Solver   string
	Session  *interact.Session

	mu        sync.Mutex
	startedAt time.Time
	scored    atomic.Bool
}

// clockRestart resets win-time tracking after the board is redealt.
func (gs *gameSession) clockRestart() {
	gs.mu.Lock()
	gs.startedAt = time.Now().UTC()
	gs.mu.Unlock()
	gs.scored.Store(false)
}

func (gs *gameSession) playtime() time.Duration {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return time.Since(gs.startedAt)
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*gameSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[uuid.UUID]*gameSession)}
}

func (s *sessionStore) Put(gs *gameSession) {
	s.mu.Lock()
	s.sessions[gs.Id] = gs
	s.mu.Unlock()
}

func (s *sessionStore) Get(id uuid.UUID) (*gameSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gs, ok := s.sessions[id]
	return gs, ok
}

func (s *sessionStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}
