package game

import (
	"github.com/Hakiick/narutomythos-sub000/internal/effect"
)

// queueEffects appends the source card's one-shot effects for the given triggers, in text order.
func (e *Engine) queueEffects(s *GameState, card *Card, sourceID string, side Side, lane int, triggers ...effect.Trigger) {
	for _, pe := range e.instantEffects(card, triggers...) {
		s.EffectQueue = append(s.EffectQueue, QueuedEffect{
			Effect:           pe,
			Side:             side,
			SourceInstanceID: sourceID,
			SourceCard:       card,
			SourceMission:    lane,
		})
	}
}

// pushFront puts an effect at the head of the queue so it resolves next.
func (s *GameState) pushFront(qe QueuedEffect) {
	s.EffectQueue = append([]QueuedEffect{qe}, s.EffectQueue...)
}

// drain resolves queued effects in FIFO order until one suspends for a target or the
// queue empties, then performs the recorded follow-up (end the turn or finish the round).
func (e *Engine) drain(s *GameState) {
	for s.PendingEffect == nil && len(s.EffectQueue) > 0 {
		qe := s.EffectQueue[0]
		s.EffectQueue = s.EffectQueue[1:]
		e.begin(s, qe)
	}
	if s.PendingEffect != nil || s.Phase == PhaseGameOver {
		return
	}
	resume := s.Resume
	s.Resume = ResumeEndTurn
	switch resume {
	case ResumeEndTurn:
		s.Turn = s.Turn.Other()
	case ResumeFinishRound:
		e.finishRound(s)
	case ResumeNothing:
	}
}
