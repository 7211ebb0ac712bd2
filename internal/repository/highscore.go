package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minesweeper-interact/internal/board"
)

type Highscore struct {
	HighscoreId int64   `json:"highscore_id"`
	Username    *string `json:"username"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	MineCount   int     `json:"mine_count"`
	Solver      string  `json:"solver"`
	PlaytimeMs  float64 `json:"playtime_ms"`
}

type CreateHighscoreParams struct {
	PlayerId   *int64
	Geometry   board.Geometry
	Solver     string
	PlaytimeMs float64
}

func (q *Queries) CreateHighscore(
	ctx context.Context, params CreateHighscoreParams,
) (*Highscore, error) {
	args := pgx.NamedArgs{
		"width":       params.Geometry.Width,
		"height":      params.Geometry.Height,
		"mine_count":  params.Geometry.MineCount,
		"solver":      params.Solver,
		"playtime_ms": params.PlaytimeMs,
	}
	if params.PlayerId != nil {
		args["player_id"] = *params.PlayerId
	}

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO highscore (
			player_id, width, height, mine_count, solver, playtime_ms
		)
		VALUES (
			@player_id, @width, @height, @mine_count, @solver, @playtime_ms
		)
		RETURNING highscore_id, NULL::text username,
			width, height, mine_count, solver, playtime_ms;`,
		args,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Highscore])
}

type HighscoreFilter struct {
	Username *string
	Geometry *board.Geometry
	Solver   *string
}

func (f HighscoreFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.Geometry != nil {
		clauses = append(
			clauses,
			"width = @width",
			"height = @height",
			"mine_count = @mineCount",
		)
		args["width"] = f.Geometry.Width
		args["height"] = f.Geometry.Height
		args["mineCount"] = f.Geometry.MineCount
	}
	if f.Solver != nil {
		clauses = append(clauses, "solver = @solver")
		args["solver"] = *f.Solver
	}
	return strings.Join(clauses, " AND "), args
}

func (q *Queries) GetHighscores(
	ctx context.Context, filter HighscoreFilter,
) ([]Highscore, error) {
	query := `
	SELECT
		highscore_id,
		username,
		width,
		height,
		mine_count,
		solver,
		playtime_ms
	FROM highscore
		LEFT OUTER JOIN player using (player_id)
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	query += " ORDER BY playtime_ms;"

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Highscore])
}
