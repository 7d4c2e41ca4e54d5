package game

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Hakiick/narutomythos-sub000/internal/effect"
	"github.com/Hakiick/narutomythos-sub000/internal/log"
)

// targetKind is what an effect needs the controller to pick.
type targetKind int

const (
	targetNone      targetKind = iota // applies without a choice
	targetSelf                        // applies to its own source character
	targetCharacter                   // a deployed character
	targetHand                        // a card in the controller's hand
	targetDiscard                     // a card in the controller's discard pile
)

// kindOf classifies an effect's target requirement.
func kindOf(pe effect.ParsedEffect) targetKind {
	switch pe.Action {
	case effect.ActionPowerup, effect.ActionMove, effect.ActionDefeat, effect.ActionHide,
		effect.ActionReducePower, effect.ActionSetPowerZero, effect.ActionRemovePower,
		effect.ActionReturnToHand:
		if pe.Filter.Self {
			return targetSelf
		}
		return targetCharacter
	case effect.ActionTakeControl, effect.ActionCopyEffect:
		return targetCharacter
	case effect.ActionLookAt:
		if pe.Filter.Hidden {
			return targetCharacter
		}
		return targetNone
	case effect.ActionDiscard, effect.ActionPlayCharacter:
		return targetHand
	case effect.ActionPlayFromDiscard, effect.ActionRetrieveFromDiscard:
		return targetDiscard
	}
	return targetNone
}

// amountActions default to 1 when the text carries no number.
var amountActions = map[effect.Action]bool{
	effect.ActionPowerup:            true,
	effect.ActionGainChakra:         true,
	effect.ActionStealChakra:        true,
	effect.ActionDraw:               true,
	effect.ActionOpponentDraw:       true,
	effect.ActionOpponentGainChakra: true,
	effect.ActionBothDraw:           true,
	effect.ActionOpponentDiscard:    true,
	effect.ActionDiscard:            true,
	effect.ActionReducePower:        true,
	effect.ActionLookAt:             true,
}

// effectValue resolves X and missing amounts.
func effectValue(s *GameState, qe QueuedEffect) int {
	pe := qe.Effect
	if pe.IsX() {
		return countX(s, pe, qe.SourceMission, qe.Side)
	}
	if pe.Value == 0 && amountActions[pe.Action] {
		return 1
	}
	return pe.Value
}

// begin starts resolving a queued effect: applies it at once, installs a PendingEffect
// for the controller to pick a target, or lets it fizzle when nothing is targetable.
func (e *Engine) begin(s *GameState, qe QueuedEffect) {
	if !qe.Effect.Resolved() {
		return
	}
	value := effectValue(s, qe)
	kind := kindOf(qe.Effect)

	if kind == targetSelf {
		lane, _, src := s.FindCharacter(qe.SourceInstanceID)
		switch {
		case src != nil && (src.Hidden || s.Missions[lane].Resolved):
			e.fizzle(s, qe)
			return
		case src != nil:
		case qe.SourceCard != nil && qe.SourceCard.Type != CardTypeCharacter:
			// jutsu and mission text that reads as self-targeting picks a friendly character
			qe.Effect.Filter.Self = false
			if qe.Effect.Filter.Side == effect.SideAny {
				qe.Effect.Filter.Side = effect.SideFriendly
			}
			kind = targetCharacter
		default:
			e.fizzle(s, qe)
			return
		}
	}

	switch kind {
	case targetNone:
		e.apply(s, qe, value, "", "")
		return
	case targetSelf:
		if qe.Effect.Action != effect.ActionMove {
			e.apply(s, qe, value, qe.SourceInstanceID, "")
			return
		}
		dests := e.destinations(s, qe.SourceInstanceID)
		if len(dests) == 0 {
			e.fizzle(s, qe)
			return
		}
		e.suspend(s, qe, value, StepSelectDestination, qe.SourceInstanceID, dests)
		return
	}

	targets := e.targets(s, qe, value)
	if len(targets) == 0 {
		e.fizzle(s, qe)
		return
	}
	pe := e.suspend(s, qe, value, StepSelectTarget, "", targets)
	if qe.Effect.Action == effect.ActionDiscard && value > 1 {
		pe.Remaining = value - 1
	}
}

// suspend installs a PendingEffect and returns it.
func (e *Engine) suspend(s *GameState, qe QueuedEffect, value int, step EffectStep, selected string, targets []string) *PendingEffect {
	pe := &PendingEffect{
		ID:               s.newPendingID(),
		EffectType:       qe.Effect.Action,
		Effect:           qe.Effect,
		SourceInstanceID: qe.SourceInstanceID,
		SourceCard:       qe.SourceCard,
		SourceMission:    qe.SourceMission,
		Side:             qe.Side,
		ValidTargets:     targets,
		Description:      describe(qe),
		Value:            value,
		Step:             step,
		Selected:         selected,
		Optional:         qe.Effect.Optional,
	}
	s.PendingEffect = pe
	return pe
}

func (p *PendingEffect) queued() QueuedEffect {
	return QueuedEffect{
		Effect:           p.Effect,
		Side:             p.Side,
		SourceInstanceID: p.SourceInstanceID,
		SourceCard:       p.SourceCard,
		SourceMission:    p.SourceMission,
	}
}

func describe(qe QueuedEffect) string {
	name := "effect"
	if qe.SourceCard != nil {
		name = qe.SourceCard.Name()
	}
	text := qe.Effect.RawText
	if text == "" {
		text = qe.Effect.Action.String()
	}
	return fmt.Sprintf("%s: %s", name, text)
}

func (e *Engine) fizzle(s *GameState, qe QueuedEffect) {
	e.emit(s, log.NewFizzleEvent(s.Round, string(qe.Side), qe.Effect.Action, sourceNames(qe)))
}

func sourceNames(qe QueuedEffect) map[string]string {
	if qe.SourceCard == nil {
		return nil
	}
	return qe.SourceCard.Names
}

// --- Target computation ---

// targets lists the legal first-step targets of an effect that needs a choice.
func (e *Engine) targets(s *GameState, qe QueuedEffect, value int) []string {
	switch kindOf(qe.Effect) {
	case targetHand:
		return e.cardTargets(s, qe, value, s.Side(qe.Side).Hand)
	case targetDiscard:
		return e.cardTargets(s, qe, value, s.Side(qe.Side).DiscardPile)
	}
	var ids []string
	for _, t := range e.characterTargets(s, qe) {
		ids = append(ids, t.InstanceID)
	}
	return ids
}

// characterTargets returns every deployed character the effect may legally affect.
func (e *Engine) characterTargets(s *GameState, qe QueuedEffect) []*DeployedCharacter {
	pe := qe.Effect
	f := pe.Filter
	var out []*DeployedCharacter
	for idx, lane := range s.Missions {
		if lane == nil || lane.Resolved {
			continue
		}
		if f.SameMission && idx != qe.SourceMission {
			continue
		}
		for _, side := range targetSides(pe, qe.Side) {
			for _, ch := range lane.Characters(side) {
				if f.Another && ch.InstanceID == qe.SourceInstanceID {
					continue
				}
				if isProtected(ch, qe.Side, side) {
					continue
				}
				if !filterAccepts(s, f, idx, side, ch) {
					continue
				}
				if !e.actionAccepts(s, qe, idx, side, ch) {
					continue
				}
				out = append(out, ch)
			}
		}
	}
	return out
}

// targetSides returns which sides' characters an effect may reach.
func targetSides(pe effect.ParsedEffect, controller Side) []Side {
	switch {
	case pe.Action == effect.ActionTakeControl || pe.Filter.Side == effect.SideEnemy:
		return []Side{controller.Other()}
	case pe.Filter.Side == effect.SideFriendly:
		return []Side{controller}
	}
	return []Side{controller, controller.Other()}
}

// filterAccepts applies the non-relational parts of a filter to a character.
func filterAccepts(s *GameState, f effect.TargetFilter, lane int, side Side, ch *DeployedCharacter) bool {
	if f.Hidden && !ch.Hidden {
		return false
	}
	if f.Revealed && ch.Hidden {
		return false
	}
	if needsIdentity(f) && (ch.Hidden || !cardMatches(f, ch.Card)) {
		return false
	}
	if f.MaxPower >= 0 && CharacterPower(s, lane, side, ch) > f.MaxPower {
		return false
	}
	return true
}

// actionAccepts applies the per-action requirements to a candidate target.
func (e *Engine) actionAccepts(s *GameState, qe QueuedEffect, lane int, side Side, ch *DeployedCharacter) bool {
	switch qe.Effect.Action {
	case effect.ActionHide, effect.ActionHideAll, effect.ActionReducePower, effect.ActionSetPowerZero:
		return !ch.Hidden
	case effect.ActionRemovePower:
		return ch.PowerTokens > 0
	case effect.ActionTakeControl:
		return !ch.Hidden && !s.Missions[lane].HasName(qe.Side, ch.Card, "")
	case effect.ActionCopyEffect:
		_, ok := e.copyableEffect(ch)
		return !ch.Hidden && ch.InstanceID != qe.SourceInstanceID && ok
	case effect.ActionMove:
		return !movementRestricted(s, lane, side, ch) && len(e.destinations(s, ch.InstanceID)) > 0
	case effect.ActionLookAt:
		return ch.Hidden
	}
	return true
}

// destinations lists the lanes a character may move to: unresolved, not its own lane, and
// free of a same-name character on its side. Characters in a resolved lane stay put.
func (e *Engine) destinations(s *GameState, id string) []string {
	from, side, ch := s.FindCharacter(id)
	if ch == nil || s.Missions[from].Resolved || movementRestricted(s, from, side, ch) {
		return nil
	}
	var out []string
	for idx, lane := range s.Missions {
		if lane == nil || lane.Resolved || idx == from {
			continue
		}
		if lane.HasName(side, ch.Card, ch.InstanceID) {
			continue
		}
		out = append(out, lane.ID)
	}
	return out
}

// cardTargets filters hand or discard cards for card-picking effects.
func (e *Engine) cardTargets(s *GameState, qe QueuedEffect, value int, cards []GameCardInstance) []string {
	f := qe.Effect.Filter
	var out []string
	for _, c := range cards {
		switch qe.Effect.Action {
		case effect.ActionDiscard:
		case effect.ActionPlayCharacter, effect.ActionPlayFromDiscard:
			if !e.canEffectPlay(s, qe, value, c.Card) {
				continue
			}
		case effect.ActionRetrieveFromDiscard:
			if needsIdentity(f) && !cardMatches(f, c.Card) {
				continue
			}
			if strings.Contains(strings.ToLower(qe.Effect.RawText), "character") && c.Card.Type != CardTypeCharacter {
				continue
			}
		}
		out = append(out, c.InstanceID)
	}
	return out
}

// canEffectPlay reports whether an effect may put card into play at its discount.
func (e *Engine) canEffectPlay(s *GameState, qe QueuedEffect, discount int, card *Card) bool {
	if card.Type != CardTypeCharacter {
		return false
	}
	if needsIdentity(qe.Effect.Filter) && !cardMatches(qe.Effect.Filter, card) {
		return false
	}
	idx := s.ActiveMissionIndex()
	if idx < 0 || s.Missions[idx].Resolved || s.Missions[idx].HasName(qe.Side, card, "") {
		return false
	}
	return e.discountedCost(s, qe.Side, card, idx, discount) <= s.Side(qe.Side).Chakra
}

func (e *Engine) discountedCost(s *GameState, side Side, card *Card, lane, discount int) int {
	cost := e.playCost(s, side, card, lane) - discount
	if cost < 0 {
		return 0
	}
	return cost
}

// copyableEffect returns the first one-shot MAIN effect a COPY_EFFECT can take from ch.
func (e *Engine) copyableEffect(ch *DeployedCharacter) (effect.ParsedEffect, bool) {
	for _, pe := range e.instantEffects(ch.Card, effect.TriggerMain) {
		if pe.Action != effect.ActionCopyEffect {
			return pe, true
		}
	}
	return effect.ParsedEffect{}, false
}

// --- Application ---

// apply performs an effect's action. target is the chosen instance or lane ID (empty for
// choice-free effects); selected is the character picked in an earlier step.
func (e *Engine) apply(s *GameState, qe QueuedEffect, value int, target, selected string) {
	side := qe.Side
	me, them := s.Side(side), s.Side(side.Other())
	var targetNames map[string]string
	if _, _, ch := s.FindCharacter(target); ch != nil {
		targetNames = ch.Card.Names
	}

	switch qe.Effect.Action {
	case effect.ActionUnresolved:
		return

	case effect.ActionPowerup:
		if ch := e.character(s, target); ch != nil {
			ch.PowerTokens += value
		}

	case effect.ActionGainChakra:
		me.Chakra += value

	case effect.ActionStealChakra:
		value = min(value, them.Chakra)
		them.Chakra -= value
		me.Chakra += value

	case effect.ActionDraw:
		value = me.Draw(value)

	case effect.ActionOpponentDraw:
		value = them.Draw(value)

	case effect.ActionOpponentGainChakra:
		them.Chakra += value

	case effect.ActionBothDraw:
		me.Draw(value)
		them.Draw(value)

	case effect.ActionOpponentDiscard:
		r := rngFor(s)
		discarded := 0
		for i := 0; i < value && len(them.Hand) > 0; i++ {
			c := them.Hand[r.Intn(len(them.Hand))]
			them.RemoveFromHand(c.InstanceID)
			them.DiscardPile = append(them.DiscardPile, c)
			discarded++
		}
		value = discarded

	case effect.ActionMove:
		dest := s.LaneIndex(target)
		from, controller, ch := s.FindCharacter(selected)
		if ch == nil || dest < 0 {
			return
		}
		targetNames = ch.Card.Names
		s.Missions[from].removeCharacter(ch.InstanceID)
		s.Missions[dest].addCharacter(controller, ch)

	case effect.ActionDefeat:
		e.defeat(s, target)

	case effect.ActionDefeatAll:
		victims := e.characterTargets(s, qe)
		for _, ch := range victims {
			e.defeat(s, ch.InstanceID)
		}
		value = len(victims)

	case effect.ActionHide:
		if ch := e.character(s, target); ch != nil {
			ch.Hidden = true
		}

	case effect.ActionHideAll:
		victims := e.characterTargets(s, qe)
		for _, ch := range victims {
			ch.Hidden = true
		}
		value = len(victims)

	case effect.ActionReducePower:
		if ch := e.character(s, target); ch != nil {
			fromTokens := min(value, ch.PowerTokens)
			ch.PowerTokens -= fromTokens
			ch.PowerPenalty += value - fromTokens
		}

	case effect.ActionSetPowerZero:
		if ch := e.character(s, target); ch != nil {
			ch.PowerZeroed = true
			ch.PowerTokens = 0
			ch.PowerPenalty = 0
		}

	case effect.ActionRemovePower:
		if ch := e.character(s, target); ch != nil {
			if value <= 0 || value > ch.PowerTokens {
				value = ch.PowerTokens
			}
			ch.PowerTokens -= value
		}

	case effect.ActionDiscard:
		c, ok := me.RemoveFromHand(target)
		if !ok {
			return
		}
		me.DiscardPile = append(me.DiscardPile, c)
		targetNames = c.Card.Names
		value = 1

	case effect.ActionTakeControl:
		lane, owner, ch := s.FindCharacter(target)
		if ch == nil || owner == side {
			return
		}
		s.Missions[lane].removeCharacter(ch.InstanceID)
		s.Missions[lane].addCharacter(side, ch)

	case effect.ActionLookAt:
		e.lookAt(s, qe, value, target)

	case effect.ActionPlayCharacter, effect.ActionPlayFromDiscard:
		var c GameCardInstance
		var ok bool
		if qe.Effect.Action == effect.ActionPlayCharacter {
			c, ok = me.RemoveFromHand(target)
		} else {
			c, ok = me.RemoveFromDiscard(target)
		}
		if !ok {
			return
		}
		idx := s.ActiveMissionIndex()
		cost := e.discountedCost(s, side, c.Card, idx, value)
		me.Chakra -= cost
		ch := e.deploy(s, c, side, idx, false)
		targetNames = c.Card.Names
		value = cost
		e.queueEffects(s, ch.Card, ch.InstanceID, side, idx, effect.TriggerMain)

	case effect.ActionRetrieveFromDiscard:
		c, ok := me.RemoveFromDiscard(target)
		if !ok {
			return
		}
		me.Hand = append(me.Hand, c)
		targetNames = c.Card.Names

	case effect.ActionPlaceFromDeck:
		c, ok := me.DrawCard()
		if !ok {
			return
		}
		me.RemoveFromHand(c.InstanceID)
		targetNames = c.Card.Names
		idx := qe.SourceMission
		if idx < 0 || s.Missions[idx] == nil || s.Missions[idx].Resolved {
			idx = s.ActiveMissionIndex()
		}
		if c.Card.Type != CardTypeCharacter || idx < 0 || s.Missions[idx].Resolved || s.Missions[idx].HasName(side, c.Card, "") {
			me.DiscardPile = append(me.DiscardPile, c)
			break
		}
		e.deploy(s, c, side, idx, true)

	case effect.ActionReturnToHand:
		lane, _, ch := s.FindCharacter(target)
		if ch == nil {
			return
		}
		s.Missions[lane].removeCharacter(ch.InstanceID)
		e.toHand(s, ch)

	case effect.ActionCopyEffect:
		ch := e.character(s, target)
		if ch == nil {
			return
		}
		copied, ok := e.copyableEffect(ch)
		if !ok {
			return
		}
		s.pushFront(QueuedEffect{
			Effect:           copied,
			Side:             side,
			SourceInstanceID: qe.SourceInstanceID,
			SourceCard:       qe.SourceCard,
			SourceMission:    qe.SourceMission,
		})

	case effect.ActionPowerBoost, effect.ActionPayingLess, effect.ActionProtection,
		effect.ActionRestrictMovement, effect.ActionCostReduction, effect.ActionRetainPower:
		// Continuous modifiers delivered by a one-shot trigger stick to their source.
		if ch := e.character(s, qe.SourceInstanceID); ch != nil {
			ch.ContinuousEffects = append(ch.ContinuousEffects, ContinuousEffect{
				SourceInstanceID: qe.SourceInstanceID,
				Effect:           qe.Effect,
			})
		}

	default:
		e.logger.Warn("effect action has no executor", zap.String("action", qe.Effect.Action.String()))
		return
	}

	e.emit(s, log.NewEffectEvent(s.Round, string(side), qe.Effect.Action, sourceNames(qe), targetNames, value))
}

// character finds a deployed character by instance ID.
func (e *Engine) character(s *GameState, id string) *DeployedCharacter {
	if id == "" {
		return nil
	}
	_, _, ch := s.FindCharacter(id)
	return ch
}

func (e *Engine) lookAt(s *GameState, qe QueuedEffect, value int, target string) {
	info := &RevealedInfo{
		Side:             qe.Side,
		SourceInstanceID: qe.SourceInstanceID,
		ExpiresAfter:     len(s.ActionHistory) + e.rules.RevealExpiry,
	}
	raw := strings.ToLower(qe.Effect.RawText)
	switch {
	case target != "":
		if ch := e.character(s, target); ch != nil {
			info.Cards = []GameCardInstance{ch.Instance()}
		}
	case strings.Contains(raw, "hand"):
		info.Cards = append(info.Cards, s.Side(qe.Side.Other()).Hand...)
	default:
		deck := s.Side(qe.Side).Deck
		info.Cards = append(info.Cards, deck[:min(value, len(deck))]...)
	}
	s.RevealedInfo = info
}
