package game

import (
	"github.com/Hakiick/narutomythos-sub000/internal/effect"
)

// ResolvePendingEffect supplies the next decision for the pending effect. A target that is
// not in ValidTargets, or a call with nothing pending, returns s unchanged. Multi-step
// effects (MOVE, multi-card DISCARD) stay pending with the next step's targets.
func (e *Engine) ResolvePendingEffect(s *GameState, targetID string) *GameState {
	pe := s.PendingEffect
	if pe == nil || !pe.IsValidTarget(targetID) {
		return s
	}
	next := s.Clone()
	pe = next.PendingEffect
	qe := pe.queued()

	if pe.EffectType == effect.ActionMove && pe.Step == StepSelectTarget {
		dests := e.destinations(next, targetID)
		if len(dests) == 0 {
			next.PendingEffect = nil
			e.fizzle(next, qe)
			e.drain(next)
			return next
		}
		pe.Step = StepSelectDestination
		pe.Selected = targetID
		pe.ValidTargets = dests
		return next
	}

	next.PendingEffect = nil
	e.apply(next, qe, pe.Value, targetID, pe.Selected)

	if pe.Remaining > 0 && next.PendingEffect == nil {
		if targets := e.targets(next, qe, pe.Value); len(targets) > 0 {
			pe.Remaining--
			pe.ValidTargets = targets
			pe.ID = next.newPendingID()
			next.PendingEffect = pe
			return next
		}
	}
	e.drain(next)
	return next
}

// SkipPendingEffect declines an optional pending effect. Mandatory effects cannot be
// skipped while they have targets; s is returned unchanged.
func (e *Engine) SkipPendingEffect(s *GameState) *GameState {
	pe := s.PendingEffect
	if pe == nil || (!pe.Optional && len(pe.ValidTargets) > 0) {
		return s
	}
	next := s.Clone()
	qe := next.PendingEffect.queued()
	next.PendingEffect = nil
	e.fizzle(next, qe)
	e.drain(next)
	return next
}
