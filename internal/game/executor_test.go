package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hakiick/narutomythos-sub000/internal/effect"
	"github.com/Hakiick/narutomythos-sub000/internal/log"
)

var (
	assassin = func() *Card {
		return character("Assassin", 3, 1, "MAIN: Defeat an enemy character in this mission.")
	}
	dummy = func() *Card { return character("Target Dummy", 1, 2, "") }
)

// setupDefeat leaves the player's Assassin play pending against the opponent's Target Dummy.
func setupDefeat(t *testing.T, e *Engine) *GameState {
	t.Helper()
	s := startGame(t, e, []*Card{assassin()}, []*Card{dummy()})
	s = pass(t, e, s)
	s = act(t, e, s, ActionPlayCharacter, "Target Dummy")
	return act(t, e, s, ActionPlayCharacter, "Assassin")
}

func TestPendingEffectBlocksActions(t *testing.T) {
	e := newTestEngine()
	s := setupDefeat(t, e)

	pe := s.PendingEffect
	require.NotNil(t, pe)
	assert.Equal(t, effect.ActionDefeat, pe.EffectType)
	assert.Equal(t, SidePlayer, pe.Side)
	assert.Equal(t, StepSelectTarget, pe.Step)
	assert.Equal(t, []string{deployed(t, s, SideOpponent, "Target Dummy").InstanceID}, pe.ValidTargets)
	assert.Contains(t, pe.Description, "Assassin")

	assert.Empty(t, e.GetAvailableActions(s))
	assert.Equal(t, SidePlayer, s.Turn, "turn stays with the resolving side")
	passAction := Action{Type: ActionPass, Side: SidePlayer, MissionIndex: -1}
	assert.Same(t, s, e.ExecutePlayerAction(s, passAction))
}

func TestResolveInvalidTargetIsIgnored(t *testing.T) {
	e := newTestEngine()
	s := setupDefeat(t, e)
	assert.Same(t, s, e.ResolvePendingEffect(s, "inst-9999"))
	assert.Same(t, s, e.ResolvePendingEffect(s, deployed(t, s, SidePlayer, "Assassin").InstanceID))

	noPending := startGame(t, e, nil, nil)
	assert.Same(t, noPending, e.ResolvePendingEffect(noPending, "inst-0001"))
	assert.Same(t, noPending, e.SkipPendingEffect(noPending))
}

func TestResolveDefeat(t *testing.T) {
	e := newTestEngine()
	s := setupDefeat(t, e)
	target := s.PendingEffect.ValidTargets[0]

	next := e.ResolvePendingEffect(s, target)

	assert.Nil(t, next.PendingEffect)
	assert.Empty(t, next.Missions[RankD].OpponentCharacters)
	_, ok := next.Opponent.DiscardCard(target)
	assert.True(t, ok, "defeated character goes to its owner's discard pile")
	assert.Equal(t, SideOpponent, next.Turn)
	// The pending state itself is untouched.
	assert.NotNil(t, s.PendingEffect)
	assert.Len(t, s.Missions[RankD].OpponentCharacters, 1)

	ev := next.EffectLog[len(next.EffectLog)-1]
	assert.Equal(t, log.EventEffect, ev.Type)
	assert.Equal(t, effect.ActionDefeat, ev.Action)
	assert.Equal(t, "Assassin", ev.SourceName("en"))
	assert.Equal(t, "Assassin (fr)", ev.SourceName("fr"))
	assert.Equal(t, "Target Dummy", ev.TargetName("en"))
	assert.Equal(t, testClock, ev.Timestamp)
	assert.NotEmpty(t, ev.ID)
}

func TestEffectWithoutTargetsFizzles(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e, []*Card{assassin()}, nil)

	s = act(t, e, s, ActionPlayCharacter, "Assassin")

	assert.Nil(t, s.PendingEffect)
	assert.Equal(t, SideOpponent, s.Turn)
	fizzled := log.OfType(s.EffectLog, log.EventEffectFizzled)
	require.Len(t, fizzled, 1)
	assert.Equal(t, effect.ActionDefeat, fizzled[0].Action)
}

func TestProtectionBlocksEnemyTargeting(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e,
		[]*Card{assassin()},
		[]*Card{character("Gaara", 2, 2, "This character can't be defeated by enemy effects.")})
	s = pass(t, e, s)
	s = act(t, e, s, ActionPlayCharacter, "Gaara")
	require.True(t, deployed(t, s, SideOpponent, "Gaara").HasContinuous(effect.ActionProtection))

	s = act(t, e, s, ActionPlayCharacter, "Assassin")

	assert.Nil(t, s.PendingEffect)
	assert.Len(t, s.Missions[RankD].OpponentCharacters, 1)
	assert.Len(t, log.OfType(s.EffectLog, log.EventEffectFizzled), 1)
}

func TestMoveTakesTwoSteps(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e,
		[]*Card{character("Shikamaru Nara", 2, 1, "MAIN: Move an enemy character in this mission to another mission.")},
		[]*Card{dummy()})
	s = pass(t, e, s)
	s = act(t, e, s, ActionPlayCharacter, "Target Dummy")
	s = act(t, e, s, ActionPlayCharacter, "Shikamaru Nara")

	require.NotNil(t, s.PendingEffect)
	assert.Equal(t, StepSelectTarget, s.PendingEffect.Step)
	target := deployed(t, s, SideOpponent, "Target Dummy").InstanceID
	assert.Equal(t, []string{target}, s.PendingEffect.ValidTargets)

	s = e.ResolvePendingEffect(s, target)
	require.NotNil(t, s.PendingEffect)
	assert.Equal(t, StepSelectDestination, s.PendingEffect.Step)
	assert.Equal(t, target, s.PendingEffect.Selected)
	assert.Equal(t, []string{"mission-C", "mission-B", "mission-A"}, s.PendingEffect.ValidTargets)
	assert.Empty(t, e.GetAvailableActions(s))

	s = e.ResolvePendingEffect(s, "mission-B")
	assert.Nil(t, s.PendingEffect)
	assert.Empty(t, s.Missions[RankD].OpponentCharacters)
	require.Len(t, s.Missions[RankB].OpponentCharacters, 1)
	assert.Equal(t, target, s.Missions[RankB].OpponentCharacters[0].InstanceID)
	assert.Equal(t, SideOpponent, s.Turn)
}

func TestRestrictMovement(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e,
		[]*Card{character("Shikamaru Nara", 2, 1, "MAIN: Move an enemy character in this mission to another mission.")},
		[]*Card{character("Jirobo", 2, 3, "This character can't be moved.")})
	s = pass(t, e, s)
	s = act(t, e, s, ActionPlayCharacter, "Jirobo")
	s = act(t, e, s, ActionPlayCharacter, "Shikamaru Nara")

	assert.Nil(t, s.PendingEffect)
	assert.Len(t, s.Missions[RankD].OpponentCharacters, 1)
}

func TestTakeControlKeepsInstance(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e,
		[]*Card{character("Ino Yamanaka", 2, 1, "MAIN: Take control of an enemy character with cost 2 or less in this mission.")},
		[]*Card{dummy(), character("Kisame Hoshigaki", 4, 5, "")})
	s = pass(t, e, s)
	s = act(t, e, s, ActionPlayCharacter, "Target Dummy")
	s = act(t, e, s, ActionPlayCharacter, "P Filler 02")
	s = act(t, e, s, ActionPlayCharacter, "Kisame Hoshigaki")
	s = act(t, e, s, ActionPlayCharacter, "Ino Yamanaka")

	require.NotNil(t, s.PendingEffect)
	target := deployed(t, s, SideOpponent, "Target Dummy").InstanceID
	assert.Equal(t, []string{target}, s.PendingEffect.ValidTargets, "cost filter excludes Kisame")

	s = e.ResolvePendingEffect(s, target)
	lane, side, ch := s.FindCharacter(target)
	require.NotNil(t, ch)
	assert.Equal(t, int(RankD), lane)
	assert.Equal(t, SidePlayer, side)
	assert.Equal(t, SideOpponent, ch.Owner)
	assert.Equal(t, 1+1+2, MissionPower(s, 0, SidePlayer))
}

func TestCopyEffect(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e, []*Card{
		character("Chakra Adept", 1, 1, "MAIN: Gain 2 chakra."),
		character("Sai", 1, 1, "MAIN: Copy the MAIN effect of another friendly character in this mission."),
	}, nil)
	s = act(t, e, s, ActionPlayCharacter, "Chakra Adept")
	require.Equal(t, 6, s.Player.Chakra)
	s = pass(t, e, s)
	s = act(t, e, s, ActionPlayCharacter, "Sai")

	require.NotNil(t, s.PendingEffect)
	adept := deployed(t, s, SidePlayer, "Chakra Adept").InstanceID
	assert.Equal(t, []string{adept}, s.PendingEffect.ValidTargets)

	s = e.ResolvePendingEffect(s, adept)
	assert.Nil(t, s.PendingEffect)
	assert.Equal(t, 7, s.Player.Chakra)
	assert.Equal(t, SideOpponent, s.Turn)
}

func TestSkipOptionalEffect(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e,
		[]*Card{character("Anko Mitarashi", 3, 2, "MAIN: You may defeat an enemy character in this mission.")},
		[]*Card{dummy()})
	s = pass(t, e, s)
	s = act(t, e, s, ActionPlayCharacter, "Target Dummy")
	s = act(t, e, s, ActionPlayCharacter, "Anko Mitarashi")
	require.NotNil(t, s.PendingEffect)
	assert.True(t, s.PendingEffect.Optional)

	next := e.SkipPendingEffect(s)
	assert.Nil(t, next.PendingEffect)
	assert.Len(t, next.Missions[RankD].OpponentCharacters, 1)
	assert.Equal(t, SideOpponent, next.Turn)
}

func TestMandatoryEffectCannotBeSkipped(t *testing.T) {
	e := newTestEngine()
	s := setupDefeat(t, e)
	assert.Same(t, s, e.SkipPendingEffect(s))
}

func TestChakraEffects(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e, []*Card{
		character("Kakuzu", 1, 1, "MAIN: Steal 2 chakra."),
		character("Shizune", 1, 1, "MAIN: Draw 2 cards."),
	}, nil)

	s = act(t, e, s, ActionPlayCharacter, "Kakuzu")
	assert.Equal(t, 6, s.Player.Chakra)
	assert.Equal(t, 3, s.Opponent.Chakra)

	s = pass(t, e, s)
	s = act(t, e, s, ActionPlayCharacter, "Shizune")
	assert.Len(t, s.Player.Hand, 5-2+2)
	assert.Len(t, s.Player.Deck, DeckSize-5-2)
}

func TestPowerBoostAura(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e, []*Card{
		character("Sakura Haruno", 1, 1, "Other friendly characters in this mission have +1 Power."),
	}, nil)
	s = act(t, e, s, ActionPlayCharacter, "Sakura Haruno")
	s = pass(t, e, s)
	s = act(t, e, s, ActionPlayCharacter, "P Filler 01")

	sakura := deployed(t, s, SidePlayer, "Sakura Haruno")
	filler := deployed(t, s, SidePlayer, "P Filler 01")
	assert.Equal(t, 1, CharacterPower(s, 0, SidePlayer, sakura))
	assert.Equal(t, 2, CharacterPower(s, 0, SidePlayer, filler))
	assert.Equal(t, 3, MissionPower(s, 0, SidePlayer))

	// A hidden source grants nothing.
	hidden := s.Clone()
	_, _, ch := hidden.FindCharacter(sakura.InstanceID)
	ch.Hidden = true
	assert.Equal(t, 1, MissionPower(hidden, 0, SidePlayer))
}

func TestPayingLess(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e, []*Card{
		character("Neji Hyuga", 4, 4, "If you have a Leaf Village character in this mission, you can play this character paying 2 less."),
	}, nil)

	aa := findAction(t, e, s, ActionPlayCharacter, "Neji Hyuga")
	assert.Equal(t, 4, aa.Cost)

	s = act(t, e, s, ActionPlayCharacter, "P Filler 01")
	s = pass(t, e, s)
	aa = findAction(t, e, s, ActionPlayCharacter, "Neji Hyuga")
	assert.Equal(t, 2, aa.Cost)
}

func TestXValueCountsFriendlyCharacters(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e, []*Card{
		character("Hinata Hyuga", 2, 1, "MAIN: Gain X chakra, where X is the number of characters you have in this mission."),
	}, nil)
	s = act(t, e, s, ActionPlayCharacter, "P Filler 01")
	s = pass(t, e, s)
	s = act(t, e, s, ActionPlayCharacter, "Hinata Hyuga")
	// 5 - 1 - 2 + 2
	assert.Equal(t, 4, s.Player.Chakra)
}

func TestHiddenPlaySkipsMainEffects(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e, []*Card{character("Rock Lee", 2, 2, "MAIN: POWERUP 2.")}, nil)
	s = act(t, e, s, ActionPlayHidden, "Rock Lee")
	assert.Equal(t, 0, deployed(t, s, SidePlayer, "Rock Lee").PowerTokens)
	assert.Empty(t, log.OfType(s.EffectLog, log.EventEffect))
}

func TestLookAtExpires(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e, []*Card{character("Hinata Hyuga", 1, 1, "MAIN: Look at your opponent's hand.")}, nil)
	s = act(t, e, s, ActionPlayCharacter, "Hinata Hyuga")
	require.NotNil(t, s.RevealedInfo)
	assert.Equal(t, SidePlayer, s.RevealedInfo.Side)
	assert.Len(t, s.RevealedInfo.Cards, 5)

	s = pass(t, e, s)
	require.NotNil(t, s.RevealedInfo)
	s = act(t, e, s, ActionPlayCharacter, "P Filler 01")
	require.NotNil(t, s.RevealedInfo)
	s = pass(t, e, s)
	assert.Nil(t, s.RevealedInfo)
}
