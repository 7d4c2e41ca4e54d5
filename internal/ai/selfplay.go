package ai

import (
	"errors"
	"fmt"

	"github.com/Hakiick/narutomythos-sub000/internal/game"
)

// ErrStalled is returned by PlayOut when neither AI can move before the game ends.
var ErrStalled = errors.New("no side can move")

// PlayOut lets two AIs finish the game from s. It stops after maxSteps decisions.
func PlayOut(s *game.GameState, a, b *AI, maxSteps int) (*game.GameState, error) {
	if a.Side() == b.Side() {
		return s, fmt.Errorf("both AIs play %s", a.Side())
	}
	for i := 0; i < maxSteps; i++ {
		if s.Phase == game.PhaseGameOver {
			return s, nil
		}
		next, ok := a.Step(s)
		if !ok {
			next, ok = b.Step(s)
		}
		if !ok {
			return s, fmt.Errorf("round %d, phase %s: %w", s.Round, s.Phase, ErrStalled)
		}
		s = next
	}
	if s.Phase != game.PhaseGameOver {
		return s, fmt.Errorf("game not over after %d steps", maxSteps)
	}
	return s, nil
}
