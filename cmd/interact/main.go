package main

import (
	"context"
	"embed"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-interact/internal/config"
	"github.com/vancomm/minesweeper-interact/internal/database"
	"github.com/vancomm/minesweeper-interact/internal/repository"
)

//go:embed migrations
var migrations embed.FS

var configPath string

func init() {
	const (
		defaultConfigPath = "/run/config.json"
		usage             = "config file path"
	)
	flag.StringVar(&configPath, "config", defaultConfigPath, usage)
	flag.StringVar(&configPath, "c", defaultConfigPath, usage+" (shorthand)")
}

func setupLogging(log *logrus.Logger, cfg config.Config) {
	if cfg.Development() {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
		return
	}

	log.SetLevel(logrus.InfoLevel)
	log.SetFormatter(&logrus.JSONFormatter{})

	if cfg.LogFile == "" {
		return
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   cfg.LogFile,
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Level:      logrus.InfoLevel,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		log.Warn("unable to set up log file rotation: ", err)
		return
	}
	log.AddHook(hook)
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	flag.Parse()

	log := logrus.New()

	cfg := config.Default()
	if err := config.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("unable to read config %s: %s", configPath, err.Error())
	}

	setupLogging(log, cfg)

	log.Info("starting up, mode = ", cfg.Mode)
	log.WithFields(cfg.Fields()).Debug("config")

	jwt, err := config.NewJWT(cfg.Jwt)
	if err != nil {
		log.Fatal("unable to load jwt keys: ", err)
	}

	// accounts and highscores need the database, games do not
	var repo *repository.Queries
	db, err := database.Connect(mainCtx, cfg.Postgres.DbUrl())
	if err != nil {
		log.Warn("starting without a database: ", err)
	} else {
		defer db.Close()
		if _, err := database.Migrate(cfg.Postgres.Url(), migrations); err != nil {
			log.Fatal("unable to migrate database: ", err)
		}
		repo = repository.New(db)
	}

	app := &application{
		log:     log,
		cfg:     cfg,
		cookies: config.NewCookies(cfg),
		jwt:     jwt,
		ws:      config.NewWebSocket(),
		repo:    repo,
		store:   newSessionStore(),
	}

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: app.router(),
		BaseContext: func(l net.Listener) context.Context {
			return mainCtx
		},
	}

	log.Infof("ready to serve @ %s", cfg.Addr)

	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		return server.ListenAndServe()
	})
	g.Go(func() error {
		<-gCtx.Done()
		return server.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		log.Printf("exit reason: %s\n", err)
	}
}
