package main

import (
	"github.com/vancomm/minesweeper-interact/internal/board"
)

type gameStateDTO struct {
	SessionId       string            `json:"session_id"`
	Width           int               `json:"width"`
	Height          int               `json:"height"`
	MineCount       int               `json:"mine_count"`
	RemainingMines  int               `json:"remaining_mines"`
	Status          string            `json:"status"`
	Cells           []board.CellState `json:"cells"`
	Armed           []bool            `json:"armed"`
	Solver          string            `json:"solver"`
	AutoplayRunning bool              `json:"autoplay_running"`
}

func newGameStateDTO(gs *gameSession, snap board.Snapshot) gameStateDTO {
	return gameStateDTO{
		SessionId:       gs.Id.String(),
		Width:           snap.Width,
		Height:          snap.Height,
		MineCount:       snap.MineCount,
		RemainingMines:  snap.RemainingMines,
		Status:          snap.Status.String(),
		Cells:           snap.Cells,
		Armed:           gs.Session.ArmedCells(),
		Solver:          gs.Solver,
		AutoplayRunning: gs.Session.AutoplayRunning(),
	}
}
