package game

import (
	"github.com/Hakiick/narutomythos-sub000/internal/effect"
	"github.com/Hakiick/narutomythos-sub000/internal/log"
)

// playJutsu pays for a jutsu, puts it in the discard pile and queues its MAIN effects with
// the active lane as their source mission.
func (e *Engine) playJutsu(s *GameState, aa AvailableAction) {
	p := s.Side(aa.Side)
	c, ok := p.RemoveFromHand(aa.CardInstanceID)
	if !ok {
		return
	}
	p.Chakra -= aa.Cost
	p.DiscardPile = append(p.DiscardPile, c)

	rank := s.Missions[aa.MissionIndex].Rank.String()
	e.emit(s, log.NewPlayEvent(log.EventPlayJutsu, s.Round, string(aa.Side), c.Card.Names, rank, aa.Cost))
	e.queueEffects(s, c.Card, c.InstanceID, aa.Side, aa.MissionIndex, effect.TriggerMain)
}

// jutsuTargets previews the targets of the jutsu's first effect that needs a choice.
func (e *Engine) jutsuTargets(s *GameState, side Side, c GameCardInstance, lane int) []string {
	for _, pe := range e.instantEffects(c.Card, effect.TriggerMain) {
		qe := QueuedEffect{Effect: pe, Side: side, SourceInstanceID: c.InstanceID, SourceCard: c.Card, SourceMission: lane}
		kind := kindOf(pe)
		if kind == targetSelf {
			qe.Effect.Filter.Self = false
			if qe.Effect.Filter.Side == effect.SideAny {
				qe.Effect.Filter.Side = effect.SideFriendly
			}
			kind = targetCharacter
		}
		if kind == targetNone {
			continue
		}
		return e.targets(s, qe, effectValue(s, qe))
	}
	return nil
}
