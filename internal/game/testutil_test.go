package game

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testClock = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// newTestEngine returns an engine that never shuffles, lets the player act first and
// stamps everything with testClock.
func newTestEngine(mods ...func(*Rules)) *Engine {
	rules := DefaultRules()
	rules.FirstPlayer = FirstPlayerPlayer
	rules.Seed = 42
	for _, m := range mods {
		m(&rules)
	}
	return NewEngine(EngineConfig{
		Rules:     rules,
		NoShuffle: true,
		Now:       func() time.Time { return testClock },
	})
}

func intp(n int) *int { return &n }

// character creates a Leaf Village character whose ID is its name.
func character(name string, cost, power int, text string) *Card {
	return &Card{
		ID:     name,
		Names:  LocalizedText{"en": name, "fr": name + " (fr)"},
		Type:   CardTypeCharacter,
		Chakra: intp(cost),
		Power:  intp(power),
		Group:  "Leaf Village",
		Effect: LocalizedText{"en": text},
	}
}

func jutsu(name string, cost int, text string) *Card {
	return &Card{
		ID:     name,
		Names:  LocalizedText{"en": name},
		Type:   CardTypeJutsu,
		Chakra: intp(cost),
		Effect: LocalizedText{"en": text},
	}
}

func mission(name, text string) *Card {
	return &Card{
		ID:     name,
		Names:  LocalizedText{"en": name},
		Type:   CardTypeMission,
		Effect: LocalizedText{"en": text},
	}
}

// deckWith puts the given cards on top of a deck padded to DeckSize with distinct fillers.
func deckWith(prefix string, front ...*Card) []*Card {
	deck := append([]*Card(nil), front...)
	for i := len(deck); i < DeckSize; i++ {
		deck = append(deck, character(fmt.Sprintf("%s Filler %02d", prefix, i), 1, 1, ""))
	}
	return deck
}

func testMissions(prefix string) []*Card {
	return []*Card{
		mission(prefix+" Mission 1", ""),
		mission(prefix+" Mission 2", ""),
		mission(prefix+" Mission 3", ""),
	}
}

// startGame deals the given cards as the top of each hand and skips the mulligan.
func startGame(t *testing.T, e *Engine, playerHand, opponentHand []*Card) *GameState {
	t.Helper()
	s := e.InitializeGame(deckWith("P", playerHand...), testMissions("P"), deckWith("O", opponentHand...), testMissions("O"))
	s = e.KeepHand(s, SidePlayer)
	s = e.KeepHand(s, SideOpponent)
	require.Equal(t, PhaseAction, s.Phase)
	return s
}

func handID(t *testing.T, s *GameState, side Side, name string) string {
	t.Helper()
	for _, c := range s.Side(side).Hand {
		if c.Card.Name() == name {
			return c.InstanceID
		}
	}
	t.Fatalf("%s has no %q in hand", side, name)
	return ""
}

func deployed(t *testing.T, s *GameState, side Side, name string) *DeployedCharacter {
	t.Helper()
	for _, m := range s.Missions {
		for _, ch := range m.Characters(side) {
			if ch.Card.Name() == name {
				return ch
			}
		}
	}
	t.Fatalf("%s has no %q deployed", side, name)
	return nil
}

// findAction returns the available action of the given type for the named card, matching
// hand cards or, for REVEAL, deployed characters.
func findAction(t *testing.T, e *Engine, s *GameState, typ ActionType, name string) AvailableAction {
	t.Helper()
	for _, aa := range e.GetAvailableActions(s) {
		if aa.Type != typ {
			continue
		}
		if typ == ActionPass {
			return aa
		}
		if c, ok := s.Side(aa.Side).HandCard(aa.CardInstanceID); ok && c.Card.Name() == name {
			return aa
		}
		if _, _, ch := s.FindCharacter(aa.CardInstanceID); ch != nil && ch.Card.Name() == name {
			return aa
		}
	}
	t.Fatalf("no %s action for %q available to %s", typ, name, s.Turn)
	return AvailableAction{}
}

func act(t *testing.T, e *Engine, s *GameState, typ ActionType, name string) *GameState {
	t.Helper()
	next := e.ExecutePlayerAction(s, findAction(t, e, s, typ, name).Action)
	require.NotSame(t, s, next, "action %s %q was rejected", typ, name)
	return next
}

func pass(t *testing.T, e *Engine, s *GameState) *GameState {
	t.Helper()
	return act(t, e, s, ActionPass, "")
}

func hasAction(e *Engine, s *GameState, typ ActionType, cardID string) bool {
	for _, aa := range e.GetAvailableActions(s) {
		if aa.Type == typ && aa.CardInstanceID == cardID {
			return true
		}
	}
	return false
}

// playOut drives a game to completion, resolving every pending effect with its first
// target and calling check after each transition.
func playOut(t *testing.T, e *Engine, s *GameState, choose func([]AvailableAction) AvailableAction, check func(prev, next *GameState)) *GameState {
	t.Helper()
	for i := 0; i < 1000 && s.Phase != PhaseGameOver; i++ {
		var next *GameState
		if s.PendingEffect != nil {
			next = e.ResolvePendingEffect(s, s.PendingEffect.ValidTargets[0])
		} else {
			actions := e.GetAvailableActions(s)
			require.NotEmpty(t, actions)
			next = e.ExecutePlayerAction(s, choose(actions).Action)
		}
		require.NotSame(t, s, next, "transition rejected")
		if check != nil {
			check(s, next)
		}
		s = next
	}
	require.Equal(t, PhaseGameOver, s.Phase, "game did not finish")
	return s
}

// firstNonPass prefers the first playable action.
func firstNonPass(actions []AvailableAction) AvailableAction {
	for _, a := range actions {
		if a.Type != ActionPass {
			return a
		}
	}
	return actions[len(actions)-1]
}
