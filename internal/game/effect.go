package game

import (
	"strings"

	"github.com/Hakiick/narutomythos-sub000/internal/effect"
)

// continuousEffects returns the continuous effects a card grants while deployed face-up.
func (e *Engine) continuousEffects(card *Card, instanceID string) []ContinuousEffect {
	var out []ContinuousEffect
	for _, pe := range e.parser.Parse(card.EffectText()) {
		if pe.Timing != effect.TimingContinuous || !pe.Resolved() {
			continue
		}
		out = append(out, ContinuousEffect{SourceInstanceID: instanceID, Effect: pe})
	}
	return out
}

// instantEffects returns the resolved one-shot effects of a card for the given triggers, in text order.
func (e *Engine) instantEffects(card *Card, triggers ...effect.Trigger) []effect.ParsedEffect {
	var out []effect.ParsedEffect
	for _, pe := range e.parser.Parse(card.EffectText()) {
		for _, t := range triggers {
			if pe.Matches(t) {
				out = append(out, pe)
				break
			}
		}
	}
	return out
}

// hasTrigger reports whether any line of the card's text fires on t.
func (e *Engine) hasTrigger(card *Card, t effect.Trigger) bool {
	for _, pe := range e.parser.Parse(card.EffectText()) {
		if pe.Trigger == t {
			return true
		}
	}
	return false
}

// cardMatches checks the identity parts of a filter (keyword, group, cost) against a card.
func cardMatches(f effect.TargetFilter, card *Card) bool {
	if card == nil {
		return false
	}
	if f.Keyword != "" && !card.HasKeyword(f.Keyword) {
		return false
	}
	if f.Group != "" && !card.InGroup(f.Group) && !card.HasKeyword(f.Group) {
		return false
	}
	if f.MaxCost >= 0 && card.ChakraCost() > f.MaxCost {
		return false
	}
	return true
}

// needsIdentity reports whether the filter can only be checked against a face-up card.
func needsIdentity(f effect.TargetFilter) bool {
	return f.Keyword != "" || f.Group != "" || f.MaxCost >= 0
}

// auraApplies reports whether a continuous effect from src (at srcLane, controlled by srcSide)
// reaches ch. A nil src with an empty srcSide is a mission card affecting its own lane.
func auraApplies(f effect.TargetFilter, srcLane int, srcSide Side, src *DeployedCharacter, lane int, side Side, ch *DeployedCharacter) bool {
	if f.Self {
		return src != nil && src.InstanceID == ch.InstanceID
	}
	if f.Another && src != nil && src.InstanceID == ch.InstanceID {
		return false
	}
	if srcSide != "" {
		switch f.Side {
		case effect.SideFriendly:
			if side != srcSide {
				return false
			}
		case effect.SideEnemy:
			if side == srcSide {
				return false
			}
		}
	}
	if (f.SameMission || src == nil) && lane != srcLane {
		return false
	}
	if f.Hidden && !ch.Hidden {
		return false
	}
	if needsIdentity(f) && (ch.Hidden || !cardMatches(f, ch.Card)) {
		return false
	}
	return true
}

// forEachAura calls fn for every active continuous effect with the given action,
// including those printed on revealed mission cards.
func forEachAura(s *GameState, a effect.Action, fn func(pe effect.ParsedEffect, srcLane int, srcSide Side, src *DeployedCharacter)) {
	for lane, m := range s.Missions {
		if m == nil {
			continue
		}
		if m.Revealed {
			for _, pe := range m.ContinuousEffects {
				if pe.Action == a {
					fn(pe, lane, "", nil)
				}
			}
		}
		for _, side := range []Side{SidePlayer, SideOpponent} {
			for _, ch := range m.Characters(side) {
				if ch.Hidden {
					continue
				}
				for _, ce := range ch.ContinuousEffects {
					if ce.Effect.Action == a {
						fn(ce.Effect, lane, side, ch)
					}
				}
			}
		}
	}
}

// CharacterPower returns the effective power of a deployed character. Hidden characters
// contribute 0; otherwise printed power (0 when zeroed) plus tokens minus penalties plus
// POWER_BOOST auras, never below 0.
func CharacterPower(s *GameState, lane int, side Side, ch *DeployedCharacter) int {
	if ch == nil || ch.Hidden {
		return 0
	}
	power := ch.Card.BasePower()
	if ch.PowerZeroed {
		power = 0
	}
	power += ch.PowerTokens - ch.PowerPenalty
	forEachAura(s, effect.ActionPowerBoost, func(pe effect.ParsedEffect, srcLane int, srcSide Side, src *DeployedCharacter) {
		if auraApplies(pe.Filter, srcLane, srcSide, src, lane, side, ch) {
			power += auraValue(s, pe, srcLane, srcSide)
		}
	})
	if power < 0 {
		return 0
	}
	return power
}

// MissionPower sums the effective power of a side's characters in a lane.
func MissionPower(s *GameState, lane int, side Side) int {
	m := s.Missions[lane]
	if m == nil {
		return 0
	}
	total := 0
	for _, ch := range m.Characters(side) {
		total += CharacterPower(s, lane, side, ch)
	}
	return total
}

func auraValue(s *GameState, pe effect.ParsedEffect, srcLane int, srcSide Side) int {
	if pe.IsX() {
		if srcSide == "" {
			return 0
		}
		return countX(s, pe, srcLane, srcSide)
	}
	return pe.Value
}

// countX resolves a variable amount: the number of the controller's face-up characters in
// the source lane, or of characters matching the "for each" wording when present.
func countX(s *GameState, pe effect.ParsedEffect, lane int, side Side) int {
	if lane < 0 || s.Missions[lane] == nil {
		return 0
	}
	raw := strings.ToLower(pe.RawText)
	count := 0
	countSide := side
	if strings.Contains(raw, "enemy") || strings.Contains(raw, "opponent") {
		countSide = side.Other()
	}
	for _, ch := range s.Missions[lane].Characters(countSide) {
		if ch.Hidden && !strings.Contains(raw, "hidden") {
			continue
		}
		count++
	}
	return count
}

// isProtected reports whether enemy effects controlled by attacker can't target ch.
func isProtected(ch *DeployedCharacter, attacker, owner Side) bool {
	return attacker != owner && ch.HasContinuous(effect.ActionProtection)
}

// movementRestricted reports whether a RESTRICT_MOVEMENT effect pins ch in place.
func movementRestricted(s *GameState, lane int, side Side, ch *DeployedCharacter) bool {
	restricted := false
	forEachAura(s, effect.ActionRestrictMovement, func(pe effect.ParsedEffect, srcLane int, srcSide Side, src *DeployedCharacter) {
		if !restricted && auraApplies(pe.Filter, srcLane, srcSide, src, lane, side, ch) {
			restricted = true
		}
	})
	return restricted
}

// retainsPower reports whether ch keeps its power tokens at round end.
func retainsPower(s *GameState, lane int, side Side, ch *DeployedCharacter) bool {
	retained := false
	forEachAura(s, effect.ActionRetainPower, func(pe effect.ParsedEffect, srcLane int, srcSide Side, src *DeployedCharacter) {
		if !retained && auraApplies(pe.Filter, srcLane, srcSide, src, lane, side, ch) {
			retained = true
		}
	})
	return retained
}
