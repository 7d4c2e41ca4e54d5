package ai

import (
	"math"

	"go.uber.org/zap"

	"github.com/Hakiick/narutomythos-sub000/internal/effect"
	"github.com/Hakiick/narutomythos-sub000/internal/game"
	"github.com/Hakiick/narutomythos-sub000/internal/view"
)

// harmful lists effects that hurt the character they hit.
var harmful = map[effect.Action]bool{
	effect.ActionDefeat:       true,
	effect.ActionHide:         true,
	effect.ActionReducePower:  true,
	effect.ActionSetPowerZero: true,
	effect.ActionRemovePower:  true,
	effect.ActionTakeControl:  true,
	effect.ActionReturnToHand: true,
}

// DecideTarget picks one of the pending effect's ValidTargets. DEFEAT and the other
// harmful effects go for the strongest enemy, POWERUP for the strongest own character at
// the active mission. It returns "" only when there is nothing to pick.
func (a *AI) DecideTarget(s *game.GameState) string {
	pe := s.PendingEffect
	if pe == nil || pe.Side != a.side || len(pe.ValidTargets) == 0 {
		return ""
	}
	b := newBoard(view.BuildStateView(s, a.side, game.DefaultLocale))
	r := a.rng(s, 3)

	best, bestScore := pe.ValidTargets[0], math.Inf(-1)
	for _, id := range pe.ValidTargets {
		score := a.scoreTarget(b, pe, id) + 0.5*a.noise(r)
		if score > bestScore {
			best, bestScore = id, score
		}
	}
	a.logger.Debug("ai target",
		zap.String("effect", pe.EffectType.String()),
		zap.String("target", best),
		zap.Float64("score", bestScore))
	return best
}

func (a *AI) scoreTarget(b *board, pe *game.PendingEffect, id string) float64 {
	if lane, ok := b.lanes[id]; ok {
		return destinationScore(b, pe.Selected, lane)
	}
	if ch, ok := b.mine[id]; ok {
		return ownCharacterScore(b, pe, id, ch)
	}
	if ch, ok := b.theirs[id]; ok {
		return enemyCharacterScore(b, pe, id, ch)
	}
	if c, ok := b.hand[id]; ok {
		return cardScore(pe.EffectType, c)
	}
	if c, ok := b.discard[id]; ok {
		return cardScore(pe.EffectType, c)
	}
	return 0
}

func (b *board) atActive(id string) bool {
	lane, ok := b.laneOf[id]
	return ok && b.active != nil && lane == b.active.Index
}

func ownCharacterScore(b *board, pe *game.PendingEffect, id string, ch view.CharacterView) float64 {
	power := float64(ch.Power)
	if ch.Hidden {
		power = float64(ch.PrintedPower)
	}
	active := 0.0
	if b.atActive(id) {
		active = 1
	}
	switch {
	case harmful[pe.EffectType]:
		// Hurting our own weakest character costs least.
		return -power - active - 1
	case pe.EffectType == effect.ActionMove:
		// Bring characters into the contested lane; otherwise move the weakest.
		return (1-active)*power - active*power
	}
	return power + 2*active
}

func enemyCharacterScore(b *board, pe *game.PendingEffect, id string, ch view.CharacterView) float64 {
	power := strength(ch)
	active := 0.0
	if b.atActive(id) {
		active = 1
	}
	switch {
	case pe.EffectType == effect.ActionLookAt:
		return power + active
	case pe.EffectType == effect.ActionRemovePower:
		return float64(ch.PowerTokens) + active
	case harmful[pe.EffectType]:
		return power + 2*active
	case pe.EffectType == effect.ActionMove:
		// Pull the strongest enemy out of the contested lane.
		return active*power - (1-active)*power
	}
	return -power
}

// destinationScore rates a lane for the second step of MOVE.
func destinationScore(b *board, selected string, lane *view.LaneView) float64 {
	points := float64(lane.Points)
	active := 0.0
	if lane.Active {
		active = 5
	}
	if _, theirs := b.theirs[selected]; theirs {
		return -points - active
	}
	return points + active
}

// cardScore rates a hand or discard card for card-picking effects.
func cardScore(a effect.Action, c view.CardView) float64 {
	worth := float64(c.Power) + 0.3*float64(c.Chakra)
	if a == effect.ActionDiscard {
		return -worth
	}
	return worth
}
