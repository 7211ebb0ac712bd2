package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minesweeper-interact/internal/board"
	"github.com/vancomm/minesweeper-interact/internal/middleware"
	"github.com/vancomm/minesweeper-interact/internal/repository"
)

func highscoreFilter(query map[string][]string) (repository.HighscoreFilter, error) {
	filter := repository.HighscoreFilter{}
	get := func(key string) (string, bool) {
		vs, ok := query[key]
		if !ok || len(vs) == 0 {
			return "", false
		}
		return vs[0], true
	}

	if username, ok := get("username"); ok {
		filter.Username = &username
	}
	if sol, ok := get("solver"); ok {
		filter.Solver = &sol
	}
	w, wok := get("width")
	h, hok := get("height")
	m, mok := get("mine_count")
	if wok || hok || mok {
		if !(wok && hok && mok) {
			return filter, errors.New("width, height and mine_count only filter together")
		}
		var geom board.Geometry
		var err error
		if geom.Width, err = strconv.Atoi(w); err != nil {
			return filter, err
		}
		if geom.Height, err = strconv.Atoi(h); err != nil {
			return filter, err
		}
		if geom.MineCount, err = strconv.Atoi(m); err != nil {
			return filter, err
		}
		filter.Geometry = &geom
	}
	return filter, nil
}

func (app *application) replyWithHighscores(
	w http.ResponseWriter, r *http.Request, filter repository.HighscoreFilter,
) {
	highscores, err := app.repo.GetHighscores(r.Context(), filter)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		app.internalError(w, "failed to fetch highscores", err)
		return
	}
	if highscores == nil {
		highscores = []repository.Highscore{}
	}
	app.replyWithJSON(w, highscores)
}

func (app *application) handleGetHighscores(w http.ResponseWriter, r *http.Request) {
	if app.repo == nil {
		app.noDatabase(w)
		return
	}
	filter, err := highscoreFilter(r.URL.Query())
	if err != nil {
		app.badRequest(w)
		return
	}
	app.replyWithHighscores(w, r, filter)
}

func (app *application) handleGetOwnHighscores(w http.ResponseWriter, r *http.Request) {
	if app.repo == nil {
		app.noDatabase(w)
		return
	}
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		app.unauthorized(w)
		return
	}
	filter, err := highscoreFilter(r.URL.Query())
	if err != nil {
		app.badRequest(w)
		return
	}
	filter.Username = &claims.Username
	app.replyWithHighscores(w, r, filter)
}

// maybeRecordHighscore stores a result the first time a session is seen in
// the won state. Anonymous wins are recorded without a player.
func (app *application) maybeRecordHighscore(ctx context.Context, gs *gameSession) {
	if app.repo == nil {
		return
	}
	if !gs.scored.CompareAndSwap(false, true) {
		return
	}
	_, err := app.repo.CreateHighscore(ctx, repository.CreateHighscoreParams{
		PlayerId:   gs.PlayerId,
		Geometry:   gs.Session.Geometry(),
		Solver:     gs.Solver,
		PlaytimeMs: float64(gs.playtime().Microseconds()) / 1000,
	})
	if err != nil {
		gs.scored.Store(false)
		app.log.WithError(err).Error("failed to record highscore")
	}
}
