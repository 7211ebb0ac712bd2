package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/minesweeper-interact/internal/config"
	"github.com/vancomm/minesweeper-interact/internal/middleware"
	"github.com/vancomm/minesweeper-interact/internal/repository"
)

func credentials(r *http.Request) (username, password string, ok bool) {
	if err := r.ParseForm(); err != nil {
		return "", "", false
	}
	username = r.FormValue("username")
	password = r.FormValue("password")
	if username == "" || password == "" || len(password) > 72 {
		return "", "", false
	}
	return username, password, true
}

func (app *application) setAuthCookies(w http.ResponseWriter, playerId int64, username string) error {
	token, err := app.jwt.Sign(config.NewPlayerClaims(playerId, username))
	if err != nil {
		return err
	}
	return app.cookies.Refresh(w, token, time.Now().Add(app.jwt.TokenLifetime))
}

func (app *application) handleRegister(w http.ResponseWriter, r *http.Request) {
	if app.repo == nil {
		app.noDatabase(w)
		return
	}
	username, password, ok := credentials(r)
	if !ok {
		app.badRequest(w)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		app.internalError(w, "unable to hash password", err)
		return
	}

	player, err := app.repo.CreatePlayer(
		r.Context(), repository.CreatePlayerParams{Username: username, PasswordHash: hash},
	)
	var pgErr *pgconn.PgError
	if err != nil {
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			w.WriteHeader(http.StatusConflict)
			app.replyWithJSON(w, map[string]string{"error": "username taken"})
			return
		}
		app.internalError(w, "unable to insert player", err)
		return
	}

	if err := app.setAuthCookies(w, player.PlayerId, player.Username); err != nil {
		app.internalError(w, "failed to set auth cookies", err)
		return
	}
	app.replyWithJSON(w, "ok")
}

func (app *application) handleLogin(w http.ResponseWriter, r *http.Request) {
	if app.repo == nil {
		app.noDatabase(w)
		return
	}
	username, password, ok := credentials(r)
	if !ok {
		app.badRequest(w)
		return
	}

	player, err := app.repo.FetchPlayer(r.Context(), username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			app.unauthorized(w)
		} else {
			app.internalError(w, "could not fetch player from db", err)
		}
		return
	}

	err = bcrypt.CompareHashAndPassword(player.PasswordHash, []byte(password))
	if err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			app.log.WithError(err).Error("bcrypt compare error")
		}
		app.unauthorized(w)
		return
	}

	if err := app.setAuthCookies(w, player.PlayerId, player.Username); err != nil {
		app.internalError(w, "failed to set auth cookies", err)
		return
	}
	app.replyWithJSON(w, "ok")
}

func (app *application) handleLogout(w http.ResponseWriter, r *http.Request) {
	app.cookies.Clear(w)
}

func (app *application) handleStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		app.unauthorized(w)
		return
	}
	app.replyWithJSON(w, map[string]any{
		"player_id": claims.PlayerId,
		"username":  claims.Username,
	})
}
