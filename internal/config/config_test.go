package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hakiick/narutomythos-sub000/internal/ai"
	"github.com/Hakiick/narutomythos-sub000/internal/game"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "data/catalog.yaml", cfg.Catalog)
	assert.Equal(t, "data/decks.yaml", cfg.Decks)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, ai.Medium, cfg.AIDifficulty())
	assert.Zero(t, cfg.Seed)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("NARUTO_SEED", "77")
	t.Setenv("NARUTO_DIFFICULTY", "expert")
	t.Setenv("NARUTO_HTTP_PORT", "9090")
	t.Setenv("NARUTO_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(77), cfg.Seed)
	assert.Equal(t, ai.Expert, cfg.AIDifficulty())
	assert.Equal(t, 9090, cfg.HTTPPort)

	rules, err := cfg.GameRules()
	require.NoError(t, err)
	assert.Equal(t, int64(77), rules.Seed)

	logger, err := cfg.Logger()
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("NARUTO_HTTP_PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")

	t.Setenv("NARUTO_HTTP_PORT", "8080")
	t.Setenv("NARUTO_DIFFICULTY", "nightmare")
	_, err = Load()
	assert.Error(t, err)
}

func TestRulesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("first_actor: alternate\nbase_chakra: 6\n"), 0o644))

	cfg := Config{Rules: path}
	rules, err := cfg.GameRules()
	require.NoError(t, err)
	assert.Equal(t, game.FirstActorAlternate, rules.FirstActor)
	assert.Equal(t, 6, rules.BaseChakra)

	e, err := cfg.Engine(nil)
	require.NoError(t, err)
	assert.Equal(t, 6, e.Rules().BaseChakra)

	cfg.Rules = filepath.Join(dir, "missing.yaml")
	_, err = cfg.GameRules()
	assert.Error(t, err)
}

func TestLoadCatalogAndDecks(t *testing.T) {
	dir := t.TempDir()
	catalog := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalog, []byte(`
cards:
  - id: KS-001
    names: {en: Naruto Uzumaki, fr: Naruto Uzumaki}
    type: CHARACTER
    chakra: 2
    power: 2
  - id: MS-001
    names: {en: Escort Mission}
    type: MISSION
`), 0o644))
	decks := filepath.Join(dir, "decks.yaml")
	require.NoError(t, os.WriteFile(decks, []byte(`
decks:
  - name: Tiny
    cards:
      - {id: KS-001, count: 2}
    missions: [MS-001]
`), 0o644))

	cfg := Config{Catalog: catalog, Decks: decks}
	cat, err := cfg.LoadCatalog()
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())

	ds, err := cfg.LoadDecks(cat)
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Len(t, ds[0].Cards, 2)

	cfg.Catalog = filepath.Join(dir, "nope.yaml")
	_, err = cfg.LoadCatalog()
	assert.Error(t, err)
}
