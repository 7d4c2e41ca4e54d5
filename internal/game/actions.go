package game

import (
	"github.com/Hakiick/narutomythos-sub000/internal/effect"
	"github.com/Hakiick/narutomythos-sub000/internal/log"
)

// AvailableAction is a legal move together with what it costs.
type AvailableAction struct {
	Action
	Cost         int
	JutsuTargets []string // targets the jutsu's first targeted effect would offer
}

// GetAvailableActions lists every legal move for the side to act. It returns nothing
// outside the ACTION phase or while an effect is pending. PASS is always last.
func (e *Engine) GetAvailableActions(s *GameState) []AvailableAction {
	if s.Phase != PhaseAction || s.PendingEffect != nil || !s.Turn.Valid() {
		return nil
	}
	side := s.Turn
	p := s.Side(side)
	idx := s.ActiveMissionIndex()
	var lane *MissionSlot
	if idx >= 0 && s.Missions[idx] != nil && !s.Missions[idx].Resolved {
		lane = s.Missions[idx]
	}

	var out []AvailableAction
	add := func(t ActionType, cardID, targetID string, cost int) *AvailableAction {
		out = append(out, AvailableAction{
			Action: Action{
				Type:             t,
				Side:             side,
				CardInstanceID:   cardID,
				MissionIndex:     idx,
				TargetInstanceID: targetID,
			},
			Cost: cost,
		})
		return &out[len(out)-1]
	}

	if lane != nil {
		for _, hc := range p.Hand {
			card := hc.Card
			switch card.Type {
			case CardTypeCharacter:
				cost := e.playCost(s, side, card, idx)
				if cost <= p.Chakra && !lane.HasName(side, card, "") {
					add(ActionPlayCharacter, hc.InstanceID, "", cost)
					add(ActionPlayHidden, hc.InstanceID, "", cost)
				}
				for _, ch := range lane.Characters(side) {
					if cost, ok := e.upgradeCost(ch, card); ok && cost <= p.Chakra {
						add(ActionUpgrade, hc.InstanceID, ch.InstanceID, cost)
					}
				}
			case CardTypeJutsu:
				cost := e.playCost(s, side, card, idx)
				if cost <= p.Chakra {
					aa := add(ActionPlayJutsu, hc.InstanceID, "", cost)
					aa.JutsuTargets = e.jutsuTargets(s, side, hc, idx)
				}
			}
		}
		// Hidden characters can be revealed in any unresolved lane.
		for j, m := range s.Missions {
			if m == nil || m.Resolved {
				continue
			}
			for _, ch := range m.Characters(side) {
				if !ch.Hidden {
					continue
				}
				cost := e.playCost(s, side, ch.Card, j)
				if cost <= p.Chakra {
					add(ActionReveal, ch.InstanceID, "", cost).MissionIndex = j
				}
			}
		}
	}

	out = append(out, AvailableAction{Action: Action{Type: ActionPass, Side: side, MissionIndex: -1}})
	return out
}

// IsAvailable reports whether a is among the legal moves, ignoring its timestamp.
func (e *Engine) IsAvailable(s *GameState, a Action) bool {
	_, ok := e.findAvailable(s, a)
	return ok
}

func (e *Engine) findAvailable(s *GameState, a Action) (AvailableAction, bool) {
	for _, aa := range e.GetAvailableActions(s) {
		if aa.sameMove(a) {
			return aa, true
		}
	}
	return AvailableAction{}, false
}

// ExecutePlayerAction applies a legal action and returns the new state. Illegal actions
// (wrong phase, wrong side, pending effect, unaffordable, no valid lane) return s unchanged.
func (e *Engine) ExecutePlayerAction(s *GameState, a Action) *GameState {
	aa, ok := e.findAvailable(s, a)
	if !ok {
		return s
	}
	next := s.Clone()
	recorded := aa.Action
	recorded.Timestamp = a.Timestamp
	if recorded.Timestamp.IsZero() {
		recorded.Timestamp = e.now()
	}
	next.ActionHistory = append(next.ActionHistory, recorded)
	if ri := next.RevealedInfo; ri != nil && len(next.ActionHistory) > ri.ExpiresAfter {
		next.RevealedInfo = nil
	}
	next.Resume = ResumeEndTurn

	switch aa.Type {
	case ActionPass:
		e.pass(next, aa.Side)
		return next
	case ActionPlayCharacter, ActionPlayHidden:
		e.playCharacter(next, aa)
	case ActionUpgrade:
		e.upgrade(next, aa)
	case ActionReveal:
		e.reveal(next, aa)
	case ActionPlayJutsu:
		e.playJutsu(next, aa)
	}
	next.ConsecutivePasses = 0
	e.drain(next)
	return next
}

func (e *Engine) pass(s *GameState, side Side) {
	s.ConsecutivePasses++
	e.emit(s, log.NewPassEvent(s.Round, string(side)))
	if s.FirstPasser == "" {
		s.FirstPasser = side
		if e.rules.PassGrantsEdge && !s.Side(side).HasEdge {
			s.Side(side).HasEdge = true
			s.Side(side.Other()).HasEdge = false
			e.emit(s, log.NewEdgeEvent(s.Round, string(side)))
		}
	}
	if s.ConsecutivePasses >= 2 {
		e.evaluateMission(s)
		return
	}
	s.Turn = side.Other()
}

// --- Costs ---

// playCost is the chakra a side pays to put card into play at lane: printed cost minus
// the card's own PAYING_LESS and friendly COST_REDUCTION modifiers, never below 0.
func (e *Engine) playCost(s *GameState, side Side, card *Card, lane int) int {
	cost := card.ChakraCost()
	for _, pe := range e.parser.Parse(card.EffectText()) {
		if pe.Action != effect.ActionPayingLess || pe.Timing != effect.TimingContinuous {
			continue
		}
		if e.conditionMet(s, pe.Filter, side, lane) {
			cost -= max(pe.Value, 0)
		}
	}
	forEachAura(s, effect.ActionCostReduction, func(pe effect.ParsedEffect, srcLane int, srcSide Side, src *DeployedCharacter) {
		if srcSide != side || (pe.Filter.SameMission && srcLane != lane) {
			return
		}
		if needsIdentity(pe.Filter) && !cardMatches(pe.Filter, card) {
			return
		}
		cost -= auraValue(s, pe, srcLane, srcSide)
	})
	if cost < 0 {
		return 0
	}
	return cost
}

// conditionMet checks a PAYING_LESS condition such as "if you have a Leaf Village
// character in this mission". Filters naming no group or keyword are unconditional.
func (e *Engine) conditionMet(s *GameState, f effect.TargetFilter, side Side, lane int) bool {
	if f.Keyword == "" && f.Group == "" {
		return true
	}
	for idx, m := range s.Missions {
		if m == nil || (f.SameMission && idx != lane) {
			continue
		}
		for _, ch := range m.Characters(side) {
			if !ch.Hidden && cardMatches(effect.TargetFilter{Keyword: f.Keyword, Group: f.Group, MaxCost: -1}, ch.Card) {
				return true
			}
		}
	}
	return false
}

// upgradeCost reports whether card may upgrade ch, and the chakra difference to pay.
func (e *Engine) upgradeCost(ch *DeployedCharacter, card *Card) (int, bool) {
	if ch.Hidden || !SameName(ch.Card, card) {
		return 0, false
	}
	if card.ChakraCost() <= ch.Card.ChakraCost() {
		return 0, false
	}
	if e.rules.UpgradeRequiresEffect && !e.hasTrigger(card, effect.TriggerUpgrade) {
		return 0, false
	}
	return card.ChakraCost() - ch.Card.ChakraCost(), true
}
