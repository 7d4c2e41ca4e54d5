package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Hakiick/narutomythos-sub000/internal/config"
	"github.com/Hakiick/narutomythos-sub000/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	port := flag.Int("port", cfg.HTTPPort, "HTTP port to listen on")
	catalog := flag.String("catalog", cfg.Catalog, "path to catalog YAML file")
	decks := flag.String("decks", cfg.Decks, "path to decks YAML file")
	flag.Parse()
	cfg.HTTPPort, cfg.Catalog, cfg.Decks = *port, *catalog, *decks

	logger, err := cfg.Logger()
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()

	engine, err := cfg.Engine(logger)
	if err != nil {
		fatal(err)
	}
	cat, err := cfg.LoadCatalog()
	if err != nil {
		fatal(err)
	}
	deckList, err := cfg.LoadDecks(cat)
	if err != nil {
		fatal(err)
	}
	script, err := cfg.LoadTutorial()
	if err != nil {
		logger.Warn("tutorial disabled", zap.Error(err))
		script = nil
	}

	srv, err := web.NewServer(web.Options{
		Engine:     engine,
		Catalog:    cat,
		Decks:      deckList,
		Tutorial:   script,
		Difficulty: cfg.AIDifficulty(),
		Seed:       cfg.Seed,
		Locale:     cfg.Locale,
		Logger:     logger,
	})
	if err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	if err := srv.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
