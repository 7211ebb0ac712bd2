package main

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper-interact/internal/board"
)

// handleConnectWs drives one grid's gestures over a websocket. Each text
// message carries newline-separated commands:
//
//	p x y     press a cell
//	r x y     release a cell
//	f x y     right-press a cell (toggle flag, maybe flag-chord)
//	e x y     pointer enters a cell
//	x x y     pointer leaves a cell
//	R         release every pressed cell
//	g         no-op, refresh only
//	restart   redeal the board
//	auto on   start the solver loop
//	auto off  stop the solver loop at its next step
//
// Commands run in order; every message is answered with the current game
// state. Reveals the commands trigger complete asynchronously, so a client
// animating armed cells polls with g until they settle.
func (app *application) handleConnectWs(w http.ResponseWriter, r *http.Request) {
	gs, ok := app.getGameSession(w, r)
	if !ok {
		return
	}
	c, err := app.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.log.Error("upgrade: ", err)
		return
	}
	defer c.Close()

	ctx := r.Context()
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				app.log.Warn("read: ", err)
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}
		text := strings.TrimSpace(string(message))
		app.log.Debug("\t> ", text)
		for _, cmd := range byPiece(text, "\n") {
			if err := app.executeCommand(ctx, gs, cmd); err != nil {
				app.log.Error("command: ", err)
				return
			}
		}
		snap, err := gs.Session.Snapshot(ctx)
		if err != nil {
			app.log.Error("snapshot: ", err)
			return
		}
		if snap.Status == board.StatusWon {
			app.maybeRecordHighscore(ctx, gs)
		}
		if err := c.WriteJSON(newGameStateDTO(gs, snap)); err != nil {
			app.log.Error("write: ", err)
			break
		}
	}
}
