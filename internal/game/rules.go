package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Who holds the Edge and acts first in round 1.
const (
	FirstPlayerRandom   = "random"
	FirstPlayerPlayer   = "player"
	FirstPlayerOpponent = "opponent"
)

// Who acts first in each later round.
const (
	FirstActorEdge      = "edge"      // the Edge holder
	FirstActorAlternate = "alternate" // swaps every round
	FirstActorFixed     = "fixed"     // the round 1 first actor every round
)

// Rules holds the tunable parts of the ruleset.
type Rules struct {
	FirstPlayer           string `yaml:"first_player"`
	FirstActor            string `yaml:"first_actor"`
	PassGrantsEdge        bool   `yaml:"pass_grants_edge"`
	OpeningHand           int    `yaml:"opening_hand"`
	DrawPerRound          int    `yaml:"draw_per_round"`
	BaseChakra            int    `yaml:"base_chakra"`
	UpgradeRequiresEffect bool   `yaml:"upgrade_requires_effect"`
	RevealExpiry          int    `yaml:"reveal_expiry"`
	Seed                  int64  `yaml:"seed"` // 0 picks a random seed at InitializeGame
}

// DefaultRules returns the standard ruleset.
func DefaultRules() Rules {
	return Rules{
		FirstPlayer:           FirstPlayerRandom,
		FirstActor:            FirstActorEdge,
		OpeningHand:           5,
		DrawPerRound:          2,
		BaseChakra:            5,
		UpgradeRequiresEffect: true,
		RevealExpiry:          2,
	}
}

// Validate checks enum fields and numeric ranges.
func (r Rules) Validate() error {
	switch r.FirstPlayer {
	case FirstPlayerRandom, FirstPlayerPlayer, FirstPlayerOpponent:
	default:
		return fmt.Errorf("first_player: unknown value %q", r.FirstPlayer)
	}
	switch r.FirstActor {
	case FirstActorEdge, FirstActorAlternate, FirstActorFixed:
	default:
		return fmt.Errorf("first_actor: unknown value %q", r.FirstActor)
	}
	if r.OpeningHand < 0 || r.DrawPerRound < 0 || r.BaseChakra < 0 || r.RevealExpiry < 0 {
		return fmt.Errorf("rules: negative count")
	}
	return nil
}

// LoadRules reads a YAML rules file on top of DefaultRules.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, err
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("parse rules YAML: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return rules, err
	}
	return rules, nil
}
