// Package config loads process configuration from NARUTO_* environment variables and
// builds the shared pieces every entry point needs: the logger, the engine and the decks.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Hakiick/narutomythos-sub000/internal/ai"
	"github.com/Hakiick/narutomythos-sub000/internal/game"
	"github.com/Hakiick/narutomythos-sub000/internal/tutorial"
)

// Config is the process configuration. Command-line flags override these values.
type Config struct {
	Catalog    string `env:"NARUTO_CATALOG"    envDefault:"data/catalog.yaml"`
	Decks      string `env:"NARUTO_DECKS"      envDefault:"data/decks.yaml"`
	Rules      string `env:"NARUTO_RULES"` // optional rules YAML
	Tutorial   string `env:"NARUTO_TUTORIAL"   envDefault:"data/tutorial.yaml"`
	Seed       int64  `env:"NARUTO_SEED"` // 0 = random
	Difficulty string `env:"NARUTO_DIFFICULTY" envDefault:"medium"`
	Locale     string `env:"NARUTO_LOCALE"     envDefault:"en"`
	LogLevel   string `env:"NARUTO_LOG_LEVEL"  envDefault:"info"`
	LogFormat  string `env:"NARUTO_LOG_FORMAT" envDefault:"console"`
	HTTPPort   int    `env:"NARUTO_HTTP_PORT"  envDefault:"8080"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if _, err := ai.ParseDifficulty(cfg.Difficulty); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Logger builds the process logger. It always writes to stderr so stdout stays free for
// the CLI board and the MCP stdio transport.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	var zapCfg zap.Config
	if c.LogFormat == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{"stderr"}
	return zapCfg.Build()
}

// GameRules returns the default ruleset, or the rules file if one is configured, with
// the configured seed applied.
func (c Config) GameRules() (game.Rules, error) {
	rules := game.DefaultRules()
	if c.Rules != "" {
		var err error
		if rules, err = game.LoadRules(c.Rules); err != nil {
			return rules, fmt.Errorf("load rules %s: %w", c.Rules, err)
		}
	}
	if c.Seed != 0 {
		rules.Seed = c.Seed
	}
	return rules, nil
}

// Engine builds an engine from the configured rules.
func (c Config) Engine(logger *zap.Logger) (*game.Engine, error) {
	rules, err := c.GameRules()
	if err != nil {
		return nil, err
	}
	return game.NewEngine(game.EngineConfig{Rules: rules, Logger: logger}), nil
}

// LoadCatalog reads the card catalog.
func (c Config) LoadCatalog() (*game.Catalog, error) {
	cat, err := game.LoadCatalog(c.Catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", c.Catalog, err)
	}
	return cat, nil
}

// LoadDecks reads every deck against the catalog.
func (c Config) LoadDecks(cat *game.Catalog) ([]game.Deck, error) {
	decks, err := game.LoadDecks(c.Decks, cat)
	if err != nil {
		return nil, fmt.Errorf("load decks %s: %w", c.Decks, err)
	}
	return decks, nil
}

// LoadTutorial reads the tutorial script.
func (c Config) LoadTutorial() (*tutorial.Script, error) {
	script, err := tutorial.LoadScript(c.Tutorial)
	if err != nil {
		return nil, fmt.Errorf("load tutorial %s: %w", c.Tutorial, err)
	}
	return script, nil
}

// AIDifficulty returns the parsed difficulty, defaulting to medium.
func (c Config) AIDifficulty() ai.Difficulty {
	d, err := ai.ParseDifficulty(c.Difficulty)
	if err != nil {
		return ai.Medium
	}
	return d
}
