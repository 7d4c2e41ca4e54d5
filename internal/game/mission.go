package game

import (
	"go.uber.org/zap"

	"github.com/Hakiick/narutomythos-sub000/internal/effect"
	"github.com/Hakiick/narutomythos-sub000/internal/log"
)

// startRound reveals the round's mission, grants chakra, draws cards and picks who acts first.
func (e *Engine) startRound(s *GameState) {
	s.Phase = PhaseAction
	s.ConsecutivePasses = 0
	s.FirstPasser = ""
	s.PendingEffect = nil
	s.EffectQueue = nil

	lane := s.ActiveMission()
	if lane != nil && !lane.Revealed {
		lane.Revealed = true
		if lane.MissionCard != nil {
			lane.ContinuousEffects = e.missionAuras(lane.MissionCard)
			e.emit(s, log.NewMissionRevealedEvent(s.Round, lane.MissionCard.Names, lane.Rank.String()))
		}
	}

	for _, side := range []Side{SidePlayer, SideOpponent} {
		p := s.Side(side)
		p.Chakra += e.rules.BaseChakra + s.DeployedCount(side)
		if s.Round > 1 {
			p.Draw(e.rules.DrawPerRound)
		}
	}

	switch {
	case s.Round == 1:
		s.FirstActor = s.Starter
	case e.rules.FirstActor == FirstActorAlternate:
		s.FirstActor = s.FirstActor.Other()
	case e.rules.FirstActor == FirstActorFixed:
		s.FirstActor = s.Starter
	default:
		s.FirstActor = SidePlayer
		if s.Opponent.HasEdge {
			s.FirstActor = SideOpponent
		}
	}
	s.Turn = s.FirstActor

	rank := "?"
	if lane != nil {
		rank = lane.Rank.String()
	}
	e.emit(s, log.NewRoundStartEvent(s.Round, rank, string(s.Turn)))
}

// missionAuras extracts the continuous modifiers a mission card applies to its lane.
func (e *Engine) missionAuras(card *Card) []effect.ParsedEffect {
	var out []effect.ParsedEffect
	for _, pe := range e.parser.Parse(card.EffectText()) {
		if pe.Timing != effect.TimingContinuous || !pe.Resolved() {
			continue
		}
		pe.Filter.Self = false
		out = append(out, pe)
	}
	return out
}

// evaluateMission scores the active lane once both sides have passed.
func (e *Engine) evaluateMission(s *GameState) {
	s.Phase = PhaseMissionEvaluation
	idx := s.ActiveMissionIndex()
	if idx < 0 {
		e.finishRound(s)
		return
	}
	lane := s.Missions[idx]

	pp := MissionPower(s, idx, SidePlayer)
	op := MissionPower(s, idx, SideOpponent)
	winner := decideMission(pp, op, s.Player.HasEdge, s.Opponent.HasEdge)

	lane.PlayerPowerAtEval = pp
	lane.OpponentPowerAtEval = op
	lane.Resolved = true
	lane.Winner = winner

	points := 0
	if side, ok := winner.Side(); ok {
		points = lane.Rank.Points()
		s.Side(side).MissionPoints += points
	}
	e.emit(s, log.NewMissionResolvedEvent(s.Round, lane.Rank.String(), string(winner), pp, op, points))
	e.logger.Debug("mission resolved",
		zap.String("lane", lane.ID),
		zap.String("winner", string(winner)),
		zap.Int("player_power", pp),
		zap.Int("opponent_power", op))

	s.Resume = ResumeFinishRound
	if side, ok := winner.Side(); ok {
		e.queueScoreEffects(s, idx, side)
	}
	e.drain(s)
}

// decideMission compares lane powers. Equal powers, 0-0 included, go to the Edge holder.
// With no Edge on either side the lane is a tie.
func decideMission(playerPower, opponentPower int, playerEdge, opponentEdge bool) Outcome {
	switch {
	case playerPower > opponentPower:
		return OutcomePlayer
	case opponentPower > playerPower:
		return OutcomeOpponent
	case playerEdge:
		return OutcomePlayer
	case opponentEdge:
		return OutcomeOpponent
	}
	return OutcomeTie
}

// queueScoreEffects queues the SCORE effects of the mission card and of the winner's
// face-up characters in the lane, in that order.
func (e *Engine) queueScoreEffects(s *GameState, idx int, winner Side) {
	lane := s.Missions[idx]
	if lane.MissionCard != nil {
		for _, pe := range e.instantEffects(lane.MissionCard, effect.TriggerScore) {
			pe.Filter.Self = false
			s.EffectQueue = append(s.EffectQueue, QueuedEffect{
				Effect:           pe,
				Side:             winner,
				SourceInstanceID: lane.MissionInstanceID,
				SourceCard:       lane.MissionCard,
				SourceMission:    idx,
			})
		}
	}
	for _, ch := range lane.Characters(winner) {
		if ch.Hidden {
			continue
		}
		e.queueEffects(s, ch.Card, ch.InstanceID, winner, idx, effect.TriggerScore)
	}
}

// finishRound runs end-of-round cleanup and moves to the next round or ends the game.
func (e *Engine) finishRound(s *GameState) {
	for idx, lane := range s.Missions {
		if lane == nil {
			continue
		}
		for _, side := range []Side{SidePlayer, SideOpponent} {
			for _, ch := range lane.Characters(side) {
				if lane.Resolved {
					continue
				}
				if !retainsPower(s, idx, side, ch) {
					ch.PowerTokens = 0
				}
				ch.PowerPenalty = 0
				ch.PowerZeroed = false
			}
		}
	}
	e.returnToHandAtRoundEnd(s)
	s.RevealedInfo = nil
	s.Resume = ResumeEndTurn

	s.Round++
	if s.Round > NumRanks {
		s.Round = NumRanks
		e.endGame(s)
		return
	}
	e.startRound(s)
}

// returnToHandAtRoundEnd sends characters with a continuous RETURN_TO_HAND back to their owner.
func (e *Engine) returnToHandAtRoundEnd(s *GameState) {
	type leaving struct {
		lane int
		id   string
	}
	var out []leaving
	for idx, lane := range s.Missions {
		if lane == nil {
			continue
		}
		for _, side := range []Side{SidePlayer, SideOpponent} {
			for _, ch := range lane.Characters(side) {
				if ch.HasContinuous(effect.ActionReturnToHand) {
					out = append(out, leaving{idx, ch.InstanceID})
				}
			}
		}
	}
	for _, l := range out {
		ch, _, ok := s.Missions[l.lane].removeCharacter(l.id)
		if !ok {
			continue
		}
		e.toHand(s, ch)
		e.emit(s, log.NewReturnToHandEvent(s.Round, string(ch.Owner), ch.Card.Names))
	}
}

func (e *Engine) endGame(s *GameState) {
	s.Phase = PhaseGameOver
	s.Turn = ""
	pp, op := s.Player.MissionPoints, s.Opponent.MissionPoints
	switch {
	case pp > op:
		s.Winner = OutcomePlayer
	case op > pp:
		s.Winner = OutcomeOpponent
	default:
		s.Winner = OutcomeTie
	}
	e.emit(s, log.NewGameOverEvent(s.Round, string(s.Winner), pp, op))
}
