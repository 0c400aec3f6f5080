package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/cardroom/blackjack/internal/game"
	"github.com/cardroom/blackjack/internal/server"
	"github.com/cardroom/blackjack/internal/statistics"
)

var CLI struct {
	Config   string `short:"c" help:"Path to HCL configuration file"`
	Addr     string `short:"a" help:"Listen address (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Seed     int64  `help:"Shoe shuffle seed, 0 for random"`
	Stats    string `help:"Write session statistics to this file on shutdown"`
}

func main() {
	ctx := kong.Parse(&CLI)

	cfg := server.DefaultConfig()
	if CLI.Config != "" {
		loaded, err := server.LoadConfig(CLI.Config)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			ctx.Exit(1)
		}
		cfg = loaded
	}

	addr := cfg.Addr()
	if CLI.Addr != "" {
		addr = CLI.Addr
	}
	if CLI.LogLevel != "" {
		cfg.LogLevel = CLI.LogLevel
	}

	logger := log.New(os.Stderr)
	switch cfg.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	tableCfg, err := cfg.Table.GameConfig()
	if err != nil {
		fmt.Printf("Invalid table config: %v\n", err)
		ctx.Exit(1)
	}

	session := statistics.NewSession()

	srv := server.New(logger, addr)
	room := game.NewRoom(tableCfg, srv, game.Options{
		Logger:   logger,
		Recorder: session,
		Seed:     CLI.Seed,
	})
	srv.SetRoom(room)

	logger.Info("starting blackjack server",
		"addr", addr,
		"decks", tableCfg.DeckCount,
		"minBet", tableCfg.MinBet,
		"maxBet", tableCfg.MaxBet,
		"blackjackPays", tableCfg.BlackjackPayout.String())

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, runCtx := errgroup.WithContext(runCtx)
	g.Go(func() error { return room.Run(runCtx) })
	g.Go(func() error { return srv.Run(runCtx) })

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("server exited", "error", err)
		ctx.Exit(1)
	}

	if CLI.Stats != "" {
		if err := session.ExportJSON(CLI.Stats); err != nil {
			logger.Error("exporting statistics", "error", err)
			ctx.Exit(1)
		}
		logger.Info("statistics exported", "path", CLI.Stats, "rounds", session.Rounds())
	}
}
