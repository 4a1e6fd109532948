package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"holdem-tourney/internal/randutil"
	"holdem-tourney/internal/server"
)

var cli struct {
	Config   string `short:"c" help:"Path to HCL configuration file" default:"holdem-server.hcl"`
	Addr     string `short:"a" help:"Server address to bind to (overrides config)"`
	Port     int    `short:"p" help:"Server port to bind to (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Seed     int64  `help:"RNG seed for deck shuffles; defaults to the current time"`
}

func main() {
	ctx := kong.Parse(&cli)

	cfg, err := server.LoadServerConfig(cli.Config)
	if err != nil {
		fatal("failed to load config: %v", err)
	}
	if cli.Addr != "" {
		cfg.Server.Address = cli.Addr
	}
	if cli.Port != 0 {
		cfg.Server.Port = cli.Port
	}
	if cli.LogLevel != "" {
		cfg.Server.LogLevel = cli.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		fatal("invalid config: %v", err)
	}

	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Str("component", "server").
		Logger()

	seed := cli.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := randutil.New(seed)
	logger.Info().Int64("seed", seed).Msg("seeded deck rng")

	srv := server.NewServer(cfg, logger, quartz.NewReal(), rng)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info().Msg("shutting down")
		srv.Stop()
	}()

	logger.Info().Str("addr", cfg.GetServerAddress()).Msg("starting holdem tournament server")
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("server failed")
		ctx.Exit(1)
	}
}

func fatal(format string, args ...interface{}) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	logger.Fatal().Msgf(format, args...)
}
