// Package ai is the computer opponent. It plays through the same primitives as a human:
// it reads a masked view of the game, picks from GetAvailableActions and answers pending
// effects from their ValidTargets.
package ai

import (
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"github.com/Hakiick/narutomythos-sub000/internal/effect"
	"github.com/Hakiick/narutomythos-sub000/internal/game"
)

// Difficulty selects a weight and noise profile for the evaluator.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
	Expert Difficulty = "expert"
)

// ParseDifficulty maps a name to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := profiles[d]; !ok {
		return "", fmt.Errorf("unknown difficulty %q (want easy, medium, hard or expert)", s)
	}
	return d, nil
}

// Profile weighs the parts of the evaluator.
type Profile struct {
	Lane       float64 // power swing at the active mission, scaled by its points
	Efficiency float64 // power per chakra spent
	Save       float64 // keeping chakra for higher ranked missions
	Deny       float64 // turning a lost mission into a won one
	Effects    float64 // value of triggered card effects
	Noise      float64 // standard deviation of the random term
	Mulligan   float64 // hand quality below which the opening hand goes back
}

var profiles = map[Difficulty]Profile{
	Easy:   {Lane: 0.6, Efficiency: 0.2, Save: 0, Deny: 0, Effects: 0.3, Noise: 2.5, Mulligan: 0},
	Medium: {Lane: 1, Efficiency: 0.4, Save: 0.1, Deny: 0.5, Effects: 0.7, Noise: 1.2, Mulligan: 1},
	Hard:   {Lane: 1.2, Efficiency: 0.5, Save: 0.25, Deny: 1, Effects: 1, Noise: 0.4, Mulligan: 1.5},
	Expert: {Lane: 1.4, Efficiency: 0.6, Save: 0.35, Deny: 1.5, Effects: 1.2, Noise: 0, Mulligan: 2},
}

// ProfileFor returns the weights of a difficulty, defaulting to Medium.
func ProfileFor(d Difficulty) Profile {
	if p, ok := profiles[d]; ok {
		return p
	}
	return profiles[Medium]
}

// hiddenPower is the assumed power of a character whose identity is unknown.
const hiddenPower = 2.0

// Config holds configuration for an AI player.
type Config struct {
	Side       game.Side
	Difficulty Difficulty
	Seed       int64       // seeds the noise; equal seeds give equal decisions
	Logger     *zap.Logger // nil disables diagnostics
}

// AI decides for one side of a game.
type AI struct {
	engine  *game.Engine
	parser  effect.Parser
	side    game.Side
	profile Profile
	seed    int64
	logger  *zap.Logger
}

// New creates an AI playing cfg.Side with the engine's rules.
func New(engine *game.Engine, cfg Config) *AI {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	side := cfg.Side
	if !side.Valid() {
		side = game.SideOpponent
	}
	return &AI{
		engine:  engine,
		parser:  engine.Parser(),
		side:    side,
		profile: ProfileFor(cfg.Difficulty),
		seed:    cfg.Seed,
		logger:  logger.With(zap.String("side", string(side))),
	}
}

// Side returns the side the AI plays.
func (a *AI) Side() game.Side {
	return a.side
}

// rng derives a generator from the seed and public progress counters, so the same
// position always gets the same noise.
func (a *AI) rng(s *game.GameState, salt int64) *rand.Rand {
	n := int64(len(s.ActionHistory))*7919 + int64(len(s.EffectLog))*31 + salt
	return rand.New(rand.NewSource(a.seed*104729 + n))
}

func (a *AI) noise(r *rand.Rand) float64 {
	if a.profile.Noise == 0 {
		return 0
	}
	return r.NormFloat64() * a.profile.Noise
}

// Step makes the AI's next decision if it has one to make and returns the new state.
// It reports false when the AI has nothing to do.
func (a *AI) Step(s *game.GameState) (*game.GameState, bool) {
	switch {
	case s.Phase == game.PhaseGameOver:
		return s, false
	case s.Phase == game.PhaseMulligan:
		if s.Side(a.side).MulliganDone {
			return s, false
		}
		if a.DecideMulligan(s) {
			return a.engine.PerformMulligan(s, a.side), true
		}
		return a.engine.KeepHand(s, a.side), true
	case s.PendingEffect != nil:
		if s.PendingEffect.Side != a.side {
			return s, false
		}
		target := a.DecideTarget(s)
		next := a.engine.ResolvePendingEffect(s, target)
		if next == s {
			next = a.engine.SkipPendingEffect(s)
		}
		return next, next != s
	case s.Phase == game.PhaseAction && s.Turn == a.side:
		next := a.engine.ExecutePlayerAction(s, a.DecideAction(s))
		return next, next != s
	}
	return s, false
}
