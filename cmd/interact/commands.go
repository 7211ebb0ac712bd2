package main

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper-interact/internal/board"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g":       0, // refresh only
	"p":       2, // left press
	"r":       2, // left release
	"f":       2, // right press (flag)
	"e":       2, // hover enter
	"x":       2, // hover exit
	"R":       0, // release all
	"restart": 0,
	"auto":    1, // on | off
}

func parseXY(twoStrings []string) (p board.Point, err error) {
	if p.X, err = strconv.Atoi(twoStrings[0]); err != nil {
		return p, errors.New("first argument must be an int")
	}
	if p.Y, err = strconv.Atoi(twoStrings[1]); err != nil {
		return p, errors.New("second argument must be an int")
	}
	return p, nil
}

func (app *application) executeCommand(
	ctx context.Context, gs *gameSession, c string,
) error {
	parts := strings.Split(c, " ")
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return errors.New("unknown command")
	}
	if nargs != len(parts)-1 {
		return errors.New("invalid number of arguments")
	}
	switch parts[0] {
	case "g":
		return nil
	case "p", "r", "f", "e", "x":
		p, err := parseXY(parts[1:])
		if err != nil {
			return err
		}
		s := gs.Session
		switch parts[0] {
		case "p":
			return s.HandleLeftPress(ctx, p)
		case "r":
			return s.HandleLeftRelease(ctx, p)
		case "f":
			return s.HandleRightPress(ctx, p)
		case "e":
			return s.HandleHoverEnter(ctx, p)
		case "x":
			return s.HandleHoverExit(ctx, p)
		}
	case "R":
		return gs.Session.ReleaseAll(ctx)
	case "restart":
		if err := gs.Session.Restart(ctx); err != nil {
			return err
		}
		gs.clockRestart()
		return nil
	case "auto":
		switch parts[1] {
		case "on":
			cfg := gs.Session.Autoplay()
			cfg.Enabled = true
			gs.Session.SetAutoplay(cfg)
			gs.Session.StartAutoplay()
			return nil
		case "off":
			gs.Session.StopAutoplay()
			return nil
		}
		return errors.New("auto takes on or off")
	}
	return errors.New("invalid command")
}
