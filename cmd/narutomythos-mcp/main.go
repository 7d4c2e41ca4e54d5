package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/Hakiick/narutomythos-sub000/internal/ai"
	"github.com/Hakiick/narutomythos-sub000/internal/config"
	"github.com/Hakiick/narutomythos-sub000/internal/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	catalog := flag.String("catalog", cfg.Catalog, "path to catalog YAML file")
	decks := flag.String("decks", cfg.Decks, "path to decks YAML file")
	difficulty := flag.String("difficulty", cfg.Difficulty, "default AI difficulty")
	flag.Parse()
	cfg.Catalog, cfg.Decks, cfg.Difficulty = *catalog, *decks, *difficulty

	d, err := ai.ParseDifficulty(cfg.Difficulty)
	if err != nil {
		fatal(err)
	}
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

	srv, err := mcp.NewServer(mcp.Options{
		Engine:     engine,
		Decks:      deckList,
		Tutorial:   script,
		Difficulty: d,
		Seed:       cfg.Seed,
		Locale:     cfg.Locale,
		Logger:     logger,
	})
	if err != nil {
		fatal(err)
	}
	defer srv.Close()

	logger.Info("serving MCP on stdio", zap.Int("decks", len(deckList)), zap.Int("cards", cat.Len()))
	if err := server.ServeStdio(srv.NewMCPServer("1.0.0")); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
