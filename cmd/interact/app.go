package main

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-interact/internal/config"
	"github.com/vancomm/minesweeper-interact/internal/middleware"
	"github.com/vancomm/minesweeper-interact/internal/repository"
)

type application struct {
	log     *logrus.Logger
	cfg     config.Config
	cookies *config.Cookies
	jwt     *config.JWT
	ws      *config.WebSocket
	repo    *repository.Queries // nil when running without a database
	store   *sessionStore
}

func (app *application) router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/register", app.handleRegister)
	mux.HandleFunc("POST /v1/login", app.handleLogin)
	mux.HandleFunc("POST /v1/logout", app.handleLogout)
	mux.HandleFunc("GET /v1/status", app.handleStatus)

	mux.HandleFunc("GET /v1/highscores", app.handleGetHighscores)
	mux.HandleFunc("GET /v1/myhighscores", app.handleGetOwnHighscores)

	mux.HandleFunc("POST /v1/game", app.handleNewGame)
	mux.HandleFunc("GET /v1/game/{id}", app.handleGetGame)
	mux.HandleFunc("POST /v1/game/{id}/restart", app.handleRestart)
	mux.HandleFunc("POST /v1/game/{id}/resize", app.handleResize)

	mux.HandleFunc("/v1/game/{id}/connect", app.handleConnectWs)

	return middleware.Wrap(mux,
		middleware.Cors(),
		middleware.Auth(app.cookies, app.jwt),
		middleware.Logging(app.log),
	)
}

func (app *application) badRequest(w http.ResponseWriter) {
	w.WriteHeader(http.StatusBadRequest)
}

func (app *application) unauthorized(w http.ResponseWriter) {
	w.WriteHeader(http.StatusUnauthorized)
}

func (app *application) notFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
}

func (app *application) noDatabase(w http.ResponseWriter) {
	w.WriteHeader(http.StatusServiceUnavailable)
}

func (app *application) internalError(w http.ResponseWriter, msg string, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	app.log.WithError(err).Error(msg)
}

func (app *application) replyWithJSON(w http.ResponseWriter, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		app.internalError(w, "failed to marshal json", err)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	if _, err = w.Write(payload); err != nil {
		app.log.WithError(err).Error("failed to send data")
	}
}
