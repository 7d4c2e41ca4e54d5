// Package gametest builds small deterministic games for tests of packages layered on the
// engine.
package gametest

import (
	"fmt"
	"time"

	"github.com/Hakiick/narutomythos-sub000/internal/game"
)

// Clock is the fixed time every test engine stamps events with.
var Clock = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// Engine returns an engine that never shuffles and lets the player act first.
func Engine(mods ...func(*game.Rules)) *game.Engine {
	rules := game.DefaultRules()
	rules.FirstPlayer = game.FirstPlayerPlayer
	rules.Seed = 42
	for _, m := range mods {
		m(&rules)
	}
	return game.NewEngine(game.EngineConfig{
		Rules:     rules,
		NoShuffle: true,
		Now:       func() time.Time { return Clock },
	})
}

func intp(n int) *int { return &n }

// Character creates a Leaf Village character whose ID is its name.
func Character(name string, cost, power int, text string) *game.Card {
	return &game.Card{
		ID:     name,
		Names:  game.LocalizedText{"en": name, "fr": name + " (fr)"},
		Type:   game.CardTypeCharacter,
		Chakra: intp(cost),
		Power:  intp(power),
		Group:  "Leaf Village",
		Effect: game.LocalizedText{"en": text},
	}
}

// Jutsu creates a jutsu card whose ID is its name.
func Jutsu(name string, cost int, text string) *game.Card {
	return &game.Card{
		ID:     name,
		Names:  game.LocalizedText{"en": name},
		Type:   game.CardTypeJutsu,
		Chakra: intp(cost),
		Effect: game.LocalizedText{"en": text},
	}
}

// Mission creates a mission card whose ID is its name.
func Mission(name, text string) *game.Card {
	return &game.Card{
		ID:     name,
		Names:  game.LocalizedText{"en": name},
		Type:   game.CardTypeMission,
		Effect: game.LocalizedText{"en": text},
	}
}

// Deck puts the given cards on top of a deck padded with "<prefix> Filler NN" characters
// costing 1 with 1 power.
func Deck(prefix string, front ...*game.Card) []*game.Card {
	deck := append([]*game.Card(nil), front...)
	for i := len(deck); i < game.DeckSize; i++ {
		deck = append(deck, Character(fmt.Sprintf("%s Filler %02d", prefix, i), 1, 1, ""))
	}
	return deck
}

// Missions returns three blank missions named "<prefix> Mission N".
func Missions(prefix string) []*game.Card {
	return []*game.Card{
		Mission(prefix+" Mission 1", ""),
		Mission(prefix+" Mission 2", ""),
		Mission(prefix+" Mission 3", ""),
	}
}

// Start deals the given cards on top of each hand and has both sides keep.
func Start(e *game.Engine, playerHand, opponentHand []*game.Card) *game.GameState {
	s := e.InitializeGame(Deck("P", playerHand...), Missions("P"), Deck("O", opponentHand...), Missions("O"))
	s = e.KeepHand(s, game.SidePlayer)
	return e.KeepHand(s, game.SideOpponent)
}

// Find returns the first available action of the given type whose card is named name.
// PASS matches any name.
func Find(e *game.Engine, s *game.GameState, typ game.ActionType, name string) (game.AvailableAction, bool) {
	for _, aa := range e.GetAvailableActions(s) {
		if aa.Type != typ {
			continue
		}
		if typ == game.ActionPass {
			return aa, true
		}
		if c, ok := s.Side(aa.Side).HandCard(aa.CardInstanceID); ok && c.Card.Name() == name {
			return aa, true
		}
		if _, _, ch := s.FindCharacter(aa.CardInstanceID); ch != nil && ch.Card.Name() == name {
			return aa, true
		}
	}
	return game.AvailableAction{}, false
}

// Catalog returns a catalog holding the given cards plus both filler decks and missions.
func Catalog(extra ...*game.Card) *game.Catalog {
	cat := game.NewCatalog(extra...)
	for _, prefix := range []string{"P", "O"} {
		for _, c := range Deck(prefix) {
			cat.Add(c)
		}
		for _, m := range Missions(prefix) {
			cat.Add(m)
		}
	}
	return cat
}
