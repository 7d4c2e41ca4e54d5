package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hakiick/narutomythos-sub000/internal/log"
)

func TestPlayCharacter(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e, []*Card{character("Kakashi Hatake", 2, 3, "")}, nil)
	require.Equal(t, 5, s.Player.Chakra)

	next := act(t, e, s, ActionPlayCharacter, "Kakashi Hatake")

	assert.Equal(t, 3, next.Player.Chakra)
	lane := next.Missions[RankD]
	require.Len(t, lane.PlayerCharacters, 1)
	ch := lane.PlayerCharacters[0]
	assert.False(t, ch.Hidden)
	assert.Equal(t, SidePlayer, ch.Owner)
	assert.Equal(t, 3, CharacterPower(next, 0, SidePlayer, ch))
	assert.Len(t, next.Player.Hand, 4)
	assert.Equal(t, SideOpponent, next.Turn)
	require.Len(t, next.ActionHistory, 1)
	assert.Equal(t, testClock, next.ActionHistory[0].Timestamp)

	// The input state is untouched.
	assert.Empty(t, s.Missions[RankD].PlayerCharacters)
	assert.Equal(t, 5, s.Player.Chakra)
}

func TestIllegalActionsReturnSameState(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e, []*Card{character("Kakashi Hatake", 2, 3, ""), character("Orochimaru", 9, 9, "")}, nil)
	kakashi := handID(t, s, SidePlayer, "Kakashi Hatake")

	tests := []struct {
		name   string
		action Action
	}{
		{"wrong side", Action{Type: ActionPlayCharacter, Side: SideOpponent, CardInstanceID: handID(t, s, SideOpponent, "O Filler 00"), MissionIndex: 0}},
		{"unknown card", Action{Type: ActionPlayCharacter, Side: SidePlayer, CardInstanceID: "inst-9999", MissionIndex: 0}},
		{"future lane", Action{Type: ActionPlayCharacter, Side: SidePlayer, CardInstanceID: kakashi, MissionIndex: 2}},
		{"unaffordable", Action{Type: ActionPlayCharacter, Side: SidePlayer, CardInstanceID: handID(t, s, SidePlayer, "Orochimaru"), MissionIndex: 0}},
		{"reveal face-up card", Action{Type: ActionReveal, Side: SidePlayer, CardInstanceID: kakashi, MissionIndex: 0}},
		{"jutsu type on character", Action{Type: ActionPlayJutsu, Side: SidePlayer, CardInstanceID: kakashi, MissionIndex: 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, e.IsAvailable(s, tc.action))
			assert.Same(t, s, e.ExecutePlayerAction(s, tc.action))
		})
	}

	// Replaying a consumed action is rejected too.
	a := findAction(t, e, s, ActionPlayCharacter, "Kakashi Hatake").Action
	next := e.ExecutePlayerAction(s, a)
	require.NotSame(t, s, next)
	assert.Same(t, next, e.ExecutePlayerAction(next, a))
}

func TestNameLock(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e, []*Card{
		character("Naruto Uzumaki - Genin", 1, 1, ""),
		character("NARUTO UZUMAKI - Sage Mode", 4, 5, ""),
	}, nil)

	s = act(t, e, s, ActionPlayCharacter, "Naruto Uzumaki - Genin")
	s = pass(t, e, s)
	require.Equal(t, SidePlayer, s.Turn)

	sage := handID(t, s, SidePlayer, "NARUTO UZUMAKI - Sage Mode")
	assert.False(t, hasAction(e, s, ActionPlayCharacter, sage))
	assert.False(t, hasAction(e, s, ActionPlayHidden, sage))
	// No UPGRADE trigger, so no upgrade either.
	assert.False(t, hasAction(e, s, ActionUpgrade, sage))
}

func TestHiddenCharacterHasNoPower(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e, []*Card{character("Kakashi Hatake", 2, 3, "AMBUSH: Gain 1 chakra.")}, nil)

	s = act(t, e, s, ActionPlayHidden, "Kakashi Hatake")
	assert.Equal(t, 3, s.Player.Chakra, "hidden play costs the printed cost")
	ch := deployed(t, s, SidePlayer, "Kakashi Hatake")
	assert.True(t, ch.Hidden)
	assert.Equal(t, 0, CharacterPower(s, 0, SidePlayer, ch))
	assert.Equal(t, 0, MissionPower(s, 0, SidePlayer))

	without := s.Clone()
	without.Missions[0].removeCharacter(ch.InstanceID)
	assert.Equal(t, MissionPower(s, 0, SidePlayer), MissionPower(without, 0, SidePlayer))

	plays := log.OfType(s.EffectLog, log.EventPlayHidden)
	require.Len(t, plays, 1)
}

func TestReveal(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e, []*Card{character("Kakashi Hatake", 2, 3, "AMBUSH: Gain 1 chakra.")}, nil)
	s = act(t, e, s, ActionPlayHidden, "Kakashi Hatake")
	s = pass(t, e, s)

	aa := findAction(t, e, s, ActionReveal, "Kakashi Hatake")
	assert.Equal(t, 2, aa.Cost)
	s = e.ExecutePlayerAction(s, aa.Action)

	ch := deployed(t, s, SidePlayer, "Kakashi Hatake")
	assert.False(t, ch.Hidden)
	assert.Equal(t, 3, MissionPower(s, 0, SidePlayer))
	// 5 - 2 (hidden) - 2 (reveal) + 1 (ambush)
	assert.Equal(t, 2, s.Player.Chakra)
	assert.Equal(t, 0, s.ConsecutivePasses)
}

func TestRevealInLaterLane(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e, []*Card{
		character("Kakashi Hatake", 2, 3, "AMBUSH: Gain 1 chakra."),
		character("Kiba Inuzuka", 1, 1, "MAIN: Move a friendly character to another mission."),
	}, nil)
	s = act(t, e, s, ActionPlayHidden, "Kakashi Hatake")
	s = pass(t, e, s)
	s = act(t, e, s, ActionPlayCharacter, "Kiba Inuzuka")

	kakashi := deployed(t, s, SidePlayer, "Kakashi Hatake").InstanceID
	require.NotNil(t, s.PendingEffect)
	s = e.ResolvePendingEffect(s, kakashi)
	require.NotNil(t, s.PendingEffect)
	s = e.ResolvePendingEffect(s, s.Missions[RankC].ID)
	require.Nil(t, s.PendingEffect)
	lane, _, _ := s.FindCharacter(kakashi)
	require.Equal(t, int(RankC), lane)

	s = pass(t, e, s)
	aa := findAction(t, e, s, ActionReveal, "Kakashi Hatake")
	assert.Equal(t, int(RankC), aa.MissionIndex)
	s = e.ExecutePlayerAction(s, aa.Action)

	assert.False(t, deployed(t, s, SidePlayer, "Kakashi Hatake").Hidden)
	assert.Equal(t, 3, MissionPower(s, int(RankC), SidePlayer))
	assert.Equal(t, 1, MissionPower(s, int(RankD), SidePlayer), "only Kiba counts in D")
	// 5 - 2 (hidden) - 1 (Kiba) - 2 (reveal) + 1 (ambush)
	assert.Equal(t, 1, s.Player.Chakra)
}

func TestAmbushDoesNotFireOnFaceUpPlay(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e, []*Card{character("Kakashi Hatake", 2, 3, "AMBUSH: Gain 1 chakra.")}, nil)
	s = act(t, e, s, ActionPlayCharacter, "Kakashi Hatake")
	assert.Equal(t, 3, s.Player.Chakra)
}

func TestUpgrade(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e, []*Card{
		character("Naruto Uzumaki - Genin", 1, 1, ""),
		character("Naruto Uzumaki - Sage", 4, 5, "UPGRADE: POWERUP 2."),
	}, nil)

	s = act(t, e, s, ActionPlayCharacter, "Naruto Uzumaki - Genin")
	genin := deployed(t, s, SidePlayer, "Naruto Uzumaki - Genin")
	s = pass(t, e, s)

	aa := findAction(t, e, s, ActionUpgrade, "Naruto Uzumaki - Sage")
	assert.Equal(t, genin.InstanceID, aa.TargetInstanceID)
	assert.Equal(t, 3, aa.Cost)
	s = e.ExecutePlayerAction(s, aa.Action)

	ch := deployed(t, s, SidePlayer, "Naruto Uzumaki - Sage")
	assert.Equal(t, genin.InstanceID, ch.InstanceID)
	require.Len(t, ch.Stacked, 1)
	assert.Equal(t, "Naruto Uzumaki - Genin", ch.Stacked[0].Name())
	assert.Equal(t, 2, ch.PowerTokens)
	assert.Equal(t, 7, CharacterPower(s, 0, SidePlayer, ch))
	assert.Equal(t, 1, s.Player.Chakra)
	assert.Len(t, s.Missions[0].PlayerCharacters, 1)
}

func TestUpgradeNeedsHigherCost(t *testing.T) {
	e := newTestEngine(func(r *Rules) { r.UpgradeRequiresEffect = false })
	s := startGame(t, e, []*Card{
		character("Sasuke Uchiha - Genin", 3, 3, ""),
		character("Sasuke Uchiha - Rogue", 2, 2, ""),
	}, nil)
	s = act(t, e, s, ActionPlayCharacter, "Sasuke Uchiha - Genin")
	s = pass(t, e, s)
	assert.False(t, hasAction(e, s, ActionUpgrade, handID(t, s, SidePlayer, "Sasuke Uchiha - Rogue")))
}

func TestPlayJutsu(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e, []*Card{
		jutsu("Sacrifice", 0, "MAIN: Discard 2 cards.\nMAIN: Draw 2 cards."),
	}, nil)

	s = act(t, e, s, ActionPlayJutsu, "Sacrifice")
	require.NotNil(t, s.PendingEffect)
	pe := s.PendingEffect
	assert.Equal(t, 1, pe.Remaining)
	assert.Len(t, pe.ValidTargets, 4)
	assert.Equal(t, SidePlayer, s.Turn)

	s = e.ResolvePendingEffect(s, pe.ValidTargets[0])
	require.NotNil(t, s.PendingEffect)
	assert.Equal(t, 0, s.PendingEffect.Remaining)
	assert.Len(t, s.PendingEffect.ValidTargets, 3)

	s = e.ResolvePendingEffect(s, s.PendingEffect.ValidTargets[0])
	assert.Nil(t, s.PendingEffect)
	assert.Len(t, s.Player.Hand, 4)
	assert.Len(t, s.Player.DiscardPile, 3)
	assert.Equal(t, SideOpponent, s.Turn)
}

func TestPassAlternatesAndEvaluates(t *testing.T) {
	e := newTestEngine()
	s := startGame(t, e, nil, nil)

	s = pass(t, e, s)
	assert.Equal(t, SideOpponent, s.Turn)
	assert.Equal(t, 1, s.ConsecutivePasses)
	assert.Equal(t, SidePlayer, s.FirstPasser)

	// Passing is not permanent: the opponent plays, the player may act again.
	s = act(t, e, s, ActionPlayCharacter, "O Filler 00")
	assert.Equal(t, 0, s.ConsecutivePasses)
	assert.Equal(t, SidePlayer, s.Turn)

	s = pass(t, e, s)
	s = pass(t, e, s)
	assert.Equal(t, 2, s.Round)
	assert.True(t, s.Missions[RankD].Resolved)
	assert.Equal(t, OutcomeOpponent, s.Missions[RankD].Winner)
}

func TestRandomGamesKeepInvariants(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		rules := DefaultRules()
		rules.Seed = seed
		e := NewEngine(EngineConfig{Rules: rules, Now: func() time.Time { return testClock }})
		s := e.InitializeGame(deckWith("P"), testMissions("P"), deckWith("O"), testMissions("O"))
		s = e.KeepHand(s, SidePlayer)
		s = e.KeepHand(s, SideOpponent)

		final := playOut(t, e, s, firstNonPass, func(prev, next *GameState) {
			assert.GreaterOrEqual(t, next.Player.Chakra, 0)
			assert.GreaterOrEqual(t, next.Opponent.Chakra, 0)
			if prev.Round == next.Round && prev.PendingEffect == nil && next.PendingEffect == nil && next.Phase == PhaseAction {
				assert.Equal(t, prev.Turn.Other(), next.Turn, "turns alternate within a round")
			}
			for _, m := range next.Missions {
				for _, side := range []Side{SidePlayer, SideOpponent} {
					names := make(map[string]bool)
					for _, ch := range m.Characters(side) {
						key := foldName(BaseName(ch.Card.Name()))
						assert.False(t, names[key], "duplicate name %s in %s", key, m.ID)
						names[key] = true
					}
				}
			}
		})

		assert.LessOrEqual(t, final.Player.MissionPoints+final.Opponent.MissionPoints, MaxMissionPoints())
		for _, m := range final.Missions {
			assert.True(t, m.Resolved)
		}
		assert.NotEqual(t, OutcomeNone, final.Winner)
	}
}
