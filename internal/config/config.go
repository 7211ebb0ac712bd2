package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     uint   `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DbName   string `json:"db_name"`
	SSLMode  string `json:"sslmode"`
}

func (p PostgresConfig) DbUrl() string {
	if url, ok := os.LookupEnv("DATABASE_URL"); ok {
		return url
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		p.Host, p.Port, p.User, p.Password, p.DbName,
	)
	if p.SSLMode != "" {
		dsn += " sslmode=" + p.SSLMode
	}
	return dsn
}

// Url renders the postgresql:// form the migrator wants.
func (p PostgresConfig) Url() string {
	if dbUrl, ok := os.LookupEnv("DATABASE_URL"); ok {
		return dbUrl
	}
	s := fmt.Sprintf("postgresql://%s:%s@%s:%d/%s",
		p.User, url.QueryEscape(p.Password), p.Host, p.Port, p.DbName,
	)
	if p.SSLMode != "" {
		s += "?sslmode=" + p.SSLMode
	}
	return s
}

type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil
	default:
		return errors.New("invalid duration")
	}
}

type JwtConfig struct {
	TokenLifetime  Duration `json:"token_lifetime"`
	PrivateKeyPath string   `json:"private_key_path"`
	PublicKeyPath  string   `json:"public_key_path"`
}

// GameConfig holds the board and interaction defaults a new session starts
// with; every field can be overridden per session through query parameters.
type GameConfig struct {
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	MineCount     int      `json:"mine_count"`
	Solver        string   `json:"solver"`
	FlagChord     bool     `json:"flag_chord"`
	HoverChord    bool     `json:"hover_chord"`
	AutoplayDelay Duration `json:"autoplay_delay"`
}

type Config struct {
	Mode     string         `json:"mode"`
	Addr     string         `json:"addr"`
	Domain   string         `json:"domain"`
	LogFile  string         `json:"log_file"`
	Postgres PostgresConfig `json:"postgres"`
	Jwt      JwtConfig      `json:"jwt"`
	Game     GameConfig     `json:"game"`
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":                 c.Mode,
		"addr":                 c.Addr,
		"domain":               c.Domain,
		"log_file":             c.LogFile,
		"pg_host":              c.Postgres.Host,
		"pg_port":              c.Postgres.Port,
		"pg_user":              c.Postgres.User,
		"pg_db_name":           c.Postgres.DbName,
		"jwt_token_lifetime":   c.Jwt.TokenLifetime.Duration.String(),
		"jwt_private_key_path": c.Jwt.PrivateKeyPath,
		"jwt_public_key_path":  c.Jwt.PublicKeyPath,
		"game_width":           c.Game.Width,
		"game_height":          c.Game.Height,
		"game_mine_count":      c.Game.MineCount,
		"game_solver":          c.Game.Solver,
		"game_flag_chord":      c.Game.FlagChord,
		"game_hover_chord":     c.Game.HoverChord,
		"game_autoplay_delay":  c.Game.AutoplayDelay.Duration.String(),
	}
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

func (c Config) HttpCookieSameSite() http.SameSite {
	if c.Development() {
		return http.SameSiteNoneMode
	} else {
		return http.SameSiteStrictMode
	}
}

// Default returns the config a server starts with before the config file is
// applied on top.
func Default() Config {
	return Config{
		Mode: "development",
		Addr: ":8080",
		Jwt: JwtConfig{
			TokenLifetime: Duration{time.Hour * 24 * 30},
		},
		Game: GameConfig{
			Width:         9,
			Height:        9,
			MineCount:     10,
			Solver:        "mia",
			FlagChord:     true,
			AutoplayDelay: Duration{time.Millisecond * 150},
		},
	}
}

func ReadConfig(path string, config *Config) error {
	if b, err := os.ReadFile(path); err != nil {
		return err
	} else {
		return json.Unmarshal(b, config)
	}
}
