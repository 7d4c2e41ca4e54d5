package game

import (
	"github.com/Hakiick/narutomythos-sub000/internal/effect"
	"github.com/Hakiick/narutomythos-sub000/internal/log"
)

// playCharacter deploys a hand character face-up or hidden to the active lane. Face-up
// plays queue the card's MAIN effects.
func (e *Engine) playCharacter(s *GameState, aa AvailableAction) {
	p := s.Side(aa.Side)
	c, ok := p.RemoveFromHand(aa.CardInstanceID)
	if !ok {
		return
	}
	p.Chakra -= aa.Cost
	hidden := aa.Type == ActionPlayHidden
	ch := e.deploy(s, c, aa.Side, aa.MissionIndex, hidden)

	rank := s.Missions[aa.MissionIndex].Rank.String()
	if hidden {
		e.emit(s, log.NewPlayEvent(log.EventPlayHidden, s.Round, string(aa.Side), c.Card.Names, rank, aa.Cost))
		return
	}
	e.emit(s, log.NewPlayEvent(log.EventPlayCharacter, s.Round, string(aa.Side), c.Card.Names, rank, aa.Cost))
	e.queueEffects(s, ch.Card, ch.InstanceID, aa.Side, aa.MissionIndex, effect.TriggerMain)
}

// upgrade places a higher-cost copy of a character onto it. The deployed instance keeps
// its ID and power tokens; the previous card is stacked beneath. UPGRADE then MAIN
// effects of the new card fire.
func (e *Engine) upgrade(s *GameState, aa AvailableAction) {
	p := s.Side(aa.Side)
	ch := e.character(s, aa.TargetInstanceID)
	if ch == nil {
		return
	}
	c, ok := p.RemoveFromHand(aa.CardInstanceID)
	if !ok {
		return
	}
	p.Chakra -= aa.Cost
	ch.Stacked = append(ch.Stacked, ch.Card)
	ch.Card = c.Card
	ch.ContinuousEffects = e.continuousEffects(c.Card, ch.InstanceID)

	rank := s.Missions[aa.MissionIndex].Rank.String()
	e.emit(s, log.NewPlayEvent(log.EventUpgrade, s.Round, string(aa.Side), c.Card.Names, rank, aa.Cost))
	e.queueEffects(s, ch.Card, ch.InstanceID, aa.Side, aa.MissionIndex, effect.TriggerUpgrade, effect.TriggerMain)
}

// reveal flips a hidden character face-up, paying its cost again. MAIN and AMBUSH effects fire.
func (e *Engine) reveal(s *GameState, aa AvailableAction) {
	ch := e.character(s, aa.CardInstanceID)
	if ch == nil || !ch.Hidden {
		return
	}
	s.Side(aa.Side).Chakra -= aa.Cost
	ch.Hidden = false

	rank := s.Missions[aa.MissionIndex].Rank.String()
	e.emit(s, log.NewPlayEvent(log.EventReveal, s.Round, string(aa.Side), ch.Card.Names, rank, aa.Cost))
	e.queueEffects(s, ch.Card, ch.InstanceID, aa.Side, aa.MissionIndex, effect.TriggerMain, effect.TriggerAmbush)
}

// deploy puts a card into a lane as a character controlled and owned by side.
func (e *Engine) deploy(s *GameState, c GameCardInstance, side Side, lane int, hidden bool) *DeployedCharacter {
	ch := &DeployedCharacter{
		Card:              c.Card,
		InstanceID:        c.InstanceID,
		Owner:             side,
		Hidden:            hidden,
		ContinuousEffects: e.continuousEffects(c.Card, c.InstanceID),
	}
	s.Missions[lane].addCharacter(side, ch)
	return ch
}

// defeat removes a character from play into its owner's discard pile.
func (e *Engine) defeat(s *GameState, id string) {
	lane, _, ch := s.FindCharacter(id)
	if ch == nil {
		return
	}
	s.Missions[lane].removeCharacter(id)
	owner := s.Side(ch.Owner)
	owner.DiscardPile = append(owner.DiscardPile, ch.Instance())
	e.discardStacked(s, ch)
}

// toHand returns a character to its owner's hand, keeping its instance ID.
func (e *Engine) toHand(s *GameState, ch *DeployedCharacter) {
	owner := s.Side(ch.Owner)
	owner.Hand = append(owner.Hand, ch.Instance())
	e.discardStacked(s, ch)
}

// discardStacked sends the cards under an upgraded character to the discard pile.
func (e *Engine) discardStacked(s *GameState, ch *DeployedCharacter) {
	owner := s.Side(ch.Owner)
	for _, card := range ch.Stacked {
		owner.DiscardPile = append(owner.DiscardPile, GameCardInstance{Card: card, InstanceID: s.newInstanceID()})
	}
	ch.Stacked = nil
}
