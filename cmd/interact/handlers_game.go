package main

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-interact/internal/board"
	"github.com/vancomm/minesweeper-interact/internal/interact"
	"github.com/vancomm/minesweeper-interact/internal/middleware"
	"github.com/vancomm/minesweeper-interact/internal/mines"
	"github.com/vancomm/minesweeper-interact/internal/solver"
)

var dec = schema.NewDecoder()

func init() {
	dec.IgnoreUnknownKeys(true)
}

type NewGameParams struct {
	Width           int    `schema:"width,required"`
	Height          int    `schema:"height,required"`
	MineCount       int    `schema:"mine_count,required"`
	Solver          string `schema:"solver"`
	FlagChord       *bool  `schema:"flag_chord"`
	HoverChord      *bool  `schema:"hover_chord"`
	Autoplay        bool   `schema:"autoplay"`
	AutoplayDelayMs int    `schema:"autoplay_delay_ms"`
}

type ResizeParams struct {
	Width     int `schema:"width,required"`
	Height    int `schema:"height,required"`
	MineCount int `schema:"mine_count,required"`
}

func (app *application) handleNewGame(w http.ResponseWriter, r *http.Request) {
	params := NewGameParams{
		Solver:          app.cfg.Game.Solver,
		Autoplay:        false,
		AutoplayDelayMs: int(app.cfg.Game.AutoplayDelay.Milliseconds()),
	}
	if err := dec.Decode(&params, r.URL.Query()); err != nil {
		app.badRequest(w)
		return
	}
	flagChord := app.cfg.Game.FlagChord
	if params.FlagChord != nil {
		flagChord = *params.FlagChord
	}
	hoverChord := app.cfg.Game.HoverChord
	if params.HoverChord != nil {
		hoverChord = *params.HoverChord
	}

	sol, err := solver.ByName(params.Solver)
	if err != nil {
		app.badRequest(w)
		return
	}

	id := uuid.New()
	engine := mines.NewEngine(app.log.WithField("game", id), createRand())
	session, err := interact.NewSession(engine, interact.Options{
		Geometry: board.Geometry{
			Width:     params.Width,
			Height:    params.Height,
			MineCount: params.MineCount,
		},
		Solver:     sol,
		FlagChord:  flagChord,
		HoverChord: hoverChord,
		Autoplay: interact.AutoplayConfig{
			Enabled:   params.Autoplay,
			StepDelay: time.Duration(params.AutoplayDelayMs) * time.Millisecond,
		},
		Logger: app.log.WithField("game", id),
	})
	if err != nil {
		app.badRequest(w)
		return
	}
	// deal the opening board
	if err := session.Restart(r.Context()); err != nil {
		app.internalError(w, "unable to start game", err)
		return
	}

	gs := &gameSession{
		Id:      id,
		Solver:  params.Solver,
		Session: session,
	}
	if claims, ok := middleware.PlayerClaims(r.Context()); ok {
		app.log.Debug("creating session for player ", claims.Username)
		playerId := claims.PlayerId
		gs.PlayerId = &playerId
	} else {
		app.log.Debug("creating anonymous session")
	}
	gs.clockRestart()
	app.store.Put(gs)

	app.replyTo(w, r, gs)
}

func (app *application) getGameSession(w http.ResponseWriter, r *http.Request) (*gameSession, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		app.badRequest(w)
		return nil, false
	}
	gs, ok := app.store.Get(id)
	if !ok {
		app.notFound(w)
		return nil, false
	}
	return gs, true
}

// replyTo sends the current board and interaction state. A win surfacing on
// this path (an autoplay win observed by polling, say) is recorded here as
// well, not only on the websocket reply.
func (app *application) replyTo(w http.ResponseWriter, r *http.Request, gs *gameSession) {
	snap, err := gs.Session.Snapshot(r.Context())
	if err != nil {
		app.internalError(w, "unable to snapshot game", err)
		return
	}
	if snap.Status == board.StatusWon {
		app.maybeRecordHighscore(r.Context(), gs)
	}
	app.replyWithJSON(w, newGameStateDTO(gs, snap))
}

func (app *application) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gs, ok := app.getGameSession(w, r)
	if !ok {
		return
	}
	app.replyTo(w, r, gs)
}

func (app *application) handleRestart(w http.ResponseWriter, r *http.Request) {
	gs, ok := app.getGameSession(w, r)
	if !ok {
		return
	}
	if err := gs.Session.Restart(r.Context()); err != nil {
		app.internalError(w, "unable to restart game", err)
		return
	}
	gs.clockRestart()
	app.replyTo(w, r, gs)
}

func (app *application) handleResize(w http.ResponseWriter, r *http.Request) {
	gs, ok := app.getGameSession(w, r)
	if !ok {
		return
	}
	var params ResizeParams
	if err := dec.Decode(&params, r.URL.Query()); err != nil {
		app.badRequest(w)
		return
	}
	geom := board.Geometry{
		Width:     params.Width,
		Height:    params.Height,
		MineCount: params.MineCount,
	}
	if err := geom.Validate(); err != nil {
		app.badRequest(w)
		return
	}
	if err := gs.Session.Resize(r.Context(), geom); err != nil {
		app.internalError(w, "unable to resize game", err)
		return
	}
	gs.clockRestart()
	app.replyTo(w, r, gs)
}
