package view

import (
	"fmt"

	"github.com/Hakiick/narutomythos-sub000/internal/effect"
	"github.com/Hakiick/narutomythos-sub000/internal/game"
	"github.com/Hakiick/narutomythos-sub000/internal/log"
)

// BuildStateView creates a StateView from the perspective of side. The opponent's hand,
// deck order and the identity of their hidden characters are never included.
func BuildStateView(s *game.GameState, side game.Side, locale string) *StateView {
	me := s.Side(side)
	opp := s.Side(side.Other())

	sv := &StateView{
		Side:       string(side),
		Round:      s.Round,
		Phase:      s.Phase.String(),
		Turn:       string(s.Turn),
		IsYourTurn: s.Turn == side && s.PendingEffect == nil && s.Phase == game.PhaseAction,
		Winner:     string(s.Winner),

		PassesInARow: s.ConsecutivePasses,
	}

	sv.You = PlayerView{
		Chakra:        me.Chakra,
		MissionPoints: me.MissionPoints,
		HasEdge:       me.HasEdge,
		HandCount:     len(me.Hand),
		DeckCount:     len(me.Deck),
		HiddenCount:   s.HiddenCount(side),
	}
	for _, c := range me.Hand {
		sv.You.Hand = append(sv.You.Hand, CardInstanceView(c, locale))
	}
	for _, c := range me.DiscardPile {
		sv.You.Discard = append(sv.You.Discard, CardInstanceView(c, locale))
	}

	sv.Opponent = PlayerView{
		Chakra:        opp.Chakra,
		MissionPoints: opp.MissionPoints,
		HasEdge:       opp.HasEdge,
		HandCount:     len(opp.Hand),
		DeckCount:     len(opp.Deck),
		HiddenCount:   s.HiddenCount(side.Other()),
	}
	// Discard piles are public.
	for _, c := range opp.DiscardPile {
		sv.Opponent.Discard = append(sv.Opponent.Discard, CardInstanceView(c, locale))
	}

	active := s.ActiveMissionIndex()
	for i, m := range s.Missions {
		if m == nil {
			continue
		}
		sv.Missions = append(sv.Missions, laneView(s, i, m, side, locale, i == active))
	}

	if s.PendingEffect != nil {
		sv.Pending = PendingEffectView(s, side, locale)
	}
	if ri := s.RevealedInfo; ri != nil && ri.Side == side {
		for _, c := range ri.Cards {
			sv.Revealed = append(sv.Revealed, CardInstanceView(c, locale))
		}
	}
	return sv
}

func laneView(s *game.GameState, idx int, m *game.MissionSlot, side game.Side, locale string, active bool) LaneView {
	lv := LaneView{
		Index:    idx,
		ID:       m.ID,
		Rank:     m.Rank.String(),
		Points:   m.Rank.Points(),
		Active:   active && !m.Resolved,
		Revealed: m.Revealed,
		Resolved: m.Resolved,
		You:      []CharacterView{},
		Opponent: []CharacterView{},
	}
	if m.Revealed && m.MissionCard != nil {
		cv := CardView{
			CardID: m.MissionCard.ID,
			Name:   m.MissionCard.Names.Get(locale),
			Type:   m.MissionCard.Type.String(),
			Effect: m.MissionCard.Effect.Get(locale),
		}
		lv.Mission = &cv
	}
	if m.Resolved {
		lv.Winner = string(m.Winner)
		lv.YourPower, lv.OpponentPower = m.PlayerPowerAtEval, m.OpponentPowerAtEval
		if side == game.SideOpponent {
			lv.YourPower, lv.OpponentPower = m.OpponentPowerAtEval, m.PlayerPowerAtEval
		}
	} else {
		lv.YourPower = game.MissionPower(s, idx, side)
		lv.OpponentPower = game.MissionPower(s, idx, side.Other())
	}
	for _, ch := range m.Characters(side) {
		lv.You = append(lv.You, CharacterViewOf(s, idx, side, ch, true, locale))
	}
	for _, ch := range m.Characters(side.Other()) {
		lv.Opponent = append(lv.Opponent, CharacterViewOf(s, idx, side.Other(), ch, false, locale))
	}
	return lv
}

// CharacterViewOf renders a deployed character. Owners see their own hidden characters;
// anyone else only sees that a hidden character exists.
func CharacterViewOf(s *game.GameState, lane int, side game.Side, ch *game.DeployedCharacter, isOwner bool, locale string) CharacterView {
	if ch.Hidden && !isOwner {
		return CharacterView{InstanceID: ch.InstanceID, Hidden: true}
	}
	return CharacterView{
		InstanceID:   ch.InstanceID,
		CardID:       ch.Card.ID,
		Name:         ch.Card.Names.Get(locale),
		Hidden:       ch.Hidden,
		Power:        game.CharacterPower(s, lane, side, ch),
		PrintedPower: ch.Card.BasePower(),
		PrintedCost:  ch.Card.ChakraCost(),
		PowerTokens:  ch.PowerTokens,
		Upgrades:     len(ch.Stacked),
		Effect:       ch.Card.Effect.Get(locale),
	}
}

// CardInstanceView renders a card whose identity the viewer is allowed to know.
func CardInstanceView(c game.GameCardInstance, locale string) CardView {
	cv := CardView{
		InstanceID: c.InstanceID,
		CardID:     c.Card.ID,
		Name:       c.Card.Names.Get(locale),
		Type:       c.Card.Type.String(),
		Chakra:     c.Card.ChakraCost(),
		Power:      c.Card.BasePower(),
		Group:      c.Card.Group,
		Keywords:   c.Card.Keywords,
		Effect:     c.Card.Effect.Get(locale),
	}
	return cv
}

// CatalogCardView renders a catalog card definition.
func CatalogCardView(c *game.Card, locale string) CardView {
	return CardInstanceView(game.GameCardInstance{Card: c}, locale)
}

// PendingEffectView renders the pending effect. Targets are only listed for the side that
// has to choose.
func PendingEffectView(s *game.GameState, side game.Side, locale string) *PendingView {
	pe := s.PendingEffect
	if pe == nil {
		return nil
	}
	pv := &PendingView{
		ID:          pe.ID,
		Effect:      pe.EffectType.String(),
		Description: pe.Description,
		Step:        pe.Step.String(),
		Value:       pe.Value,
		Optional:    pe.Optional,
		Yours:       pe.Side == side,
	}
	if !pv.Yours {
		return pv
	}
	for i, id := range pe.ValidTargets {
		pv.Targets = append(pv.Targets, targetView(s, side, i, id, locale))
	}
	return pv
}

func targetView(s *game.GameState, side game.Side, i int, id, locale string) TargetView {
	tv := TargetView{Index: i, ID: id}
	if lane := s.LaneIndex(id); lane >= 0 {
		tv.Kind = "mission"
		tv.Name = "Mission " + s.Missions[lane].Rank.String()
		return tv
	}
	if _, owner, ch := s.FindCharacter(id); ch != nil {
		tv.Kind = "character"
		if ch.Hidden && owner != side {
			tv.Name = "hidden character"
		} else {
			tv.Name = ch.Card.Names.Get(locale)
		}
		if owner != side {
			tv.Name += " (enemy)"
		}
		return tv
	}
	p := s.Side(side)
	if c, ok := p.HandCard(id); ok {
		tv.Kind = "card"
		tv.Name = c.Card.Names.Get(locale) + " (hand)"
		return tv
	}
	if c, ok := p.DiscardCard(id); ok {
		tv.Kind = "card"
		tv.Name = c.Card.Names.Get(locale) + " (discard)"
		return tv
	}
	tv.Kind = "unknown"
	tv.Name = id
	return tv
}

// BuildActionViews numbers the available actions and describes them in the given locale.
func BuildActionViews(s *game.GameState, actions []game.AvailableAction, locale string) []ActionView {
	views := make([]ActionView, 0, len(actions))
	for i, aa := range actions {
		views = append(views, ActionView{
			Index:            i,
			Type:             aa.Type.String(),
			CardInstanceID:   aa.CardInstanceID,
			TargetInstanceID: aa.TargetInstanceID,
			MissionIndex:     aa.MissionIndex,
			Cost:             aa.Cost,
			Desc:             DescribeAction(s, aa, locale),
		})
	}
	return views
}

// DescribeAction renders an available action as a short sentence.
func DescribeAction(s *game.GameState, aa game.AvailableAction, locale string) string {
	if aa.Type == game.ActionPass {
		return "Pass"
	}
	rank := "?"
	if aa.MissionIndex >= 0 && aa.MissionIndex < game.NumRanks && s.Missions[aa.MissionIndex] != nil {
		rank = s.Missions[aa.MissionIndex].Rank.String()
	}
	p := s.Side(aa.Side)
	name := aa.CardInstanceID
	if c, ok := p.HandCard(aa.CardInstanceID); ok {
		name = c.Card.Names.Get(locale)
	} else if _, _, ch := s.FindCharacter(aa.CardInstanceID); ch != nil {
		name = ch.Card.Names.Get(locale)
	}
	switch aa.Type {
	case game.ActionPlayCharacter:
		return fmt.Sprintf("Play %s to mission %s (%d chakra)", name, rank, aa.Cost)
	case game.ActionPlayHidden:
		return fmt.Sprintf("Play %s hidden to mission %s (%d chakra)", name, rank, aa.Cost)
	case game.ActionUpgrade:
		return fmt.Sprintf("Upgrade into %s at mission %s (%d chakra)", name, rank, aa.Cost)
	case game.ActionReveal:
		return fmt.Sprintf("Reveal %s at mission %s (%d chakra)", name, rank, aa.Cost)
	case game.ActionPlayJutsu:
		return fmt.Sprintf("Play jutsu %s (%d chakra)", name, aa.Cost)
	}
	return aa.Type.String()
}

// BuildEventViews renders log entries for side. Names the side could not have seen (hidden
// plays and peeks by the other side) are dropped.
func BuildEventViews(events []log.EffectEvent, side game.Side, locale string) []EventView {
	views := make([]EventView, 0, len(events))
	for _, ev := range events {
		views = append(views, EventViewOf(ev, side, locale))
	}
	return views
}

// EventViewOf renders one log entry for side.
func EventViewOf(ev log.EffectEvent, side game.Side, locale string) EventView {
	v := EventView{
		ID:      ev.ID,
		Round:   ev.Round,
		Type:    ev.Type.String(),
		Side:    ev.Side,
		Value:   ev.Value,
		Source:  ev.SourceName(locale),
		Target:  ev.TargetName(locale),
		Details: ev.Details,
	}
	if ev.Type == log.EventEffect || ev.Type == log.EventEffectFizzled {
		v.Action = ev.Action.String()
	}
	if ev.Side == string(side) {
		return v
	}
	switch {
	case ev.Type == log.EventPlayHidden:
		v.Source = ""
	case ev.Type == log.EventEffect && secretTarget(ev.Action):
		v.Target = ""
		v.Details = fmt.Sprintf("%s resolves %s", v.Source, ev.Action)
	}
	return v
}

// secretTarget reports whether an effect's target stays unknown to the other side.
func secretTarget(a effect.Action) bool {
	return a == effect.ActionLookAt || a == effect.ActionPlaceFromDeck
}
