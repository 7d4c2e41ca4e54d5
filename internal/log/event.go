package log

import (
	"time"

	"github.com/Hakiick/narutomythos-sub000/internal/effect"
)

// EventType enumerates all observable game events.
type EventType int

const (
	EventGameStart EventType = iota
	EventMulligan
	EventKeepHand
	EventRoundStart
	EventMissionRevealed
	EventPlayCharacter
	EventPlayHidden
	EventUpgrade
	EventReveal
	EventPlayJutsu
	EventPass
	EventEdge
	EventEffect
	EventEffectFizzled
	EventMissionResolved
	EventReturnToHand
	EventGameOver
)

func (e EventType) String() string {
	switch e {
	case EventGameStart:
		return "GameStart"
	case EventMulligan:
		return "Mulligan"
	case EventKeepHand:
		return "KeepHand"
	case EventRoundStart:
		return "RoundStart"
	case EventMissionRevealed:
		return "MissionRevealed"
	case EventPlayCharacter:
		return "PlayCharacter"
	case EventPlayHidden:
		return "PlayHidden"
	case EventUpgrade:
		return "Upgrade"
	case EventReveal:
		return "Reveal"
	case EventPlayJutsu:
		return "PlayJutsu"
	case EventPass:
		return "Pass"
	case EventEdge:
		return "Edge"
	case EventEffect:
		return "Effect"
	case EventEffectFizzled:
		return "EffectFizzled"
	case EventMissionResolved:
		return "MissionResolved"
	case EventReturnToHand:
		return "ReturnToHand"
	case EventGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// EffectEvent is one entry of the game's event log. Effect entries carry the
// applied action, names of source and target in every catalog locale and the
// numeric value; other entries only use the fields they need.
type EffectEvent struct {
	ID          string            `json:"id"`
	Type        EventType         `json:"type"`
	Action      effect.Action     `json:"action"`
	Timestamp   time.Time         `json:"timestamp"`
	Round       int               `json:"round"`
	Side        string            `json:"side,omitempty"`
	SourceNames map[string]string `json:"source_names,omitempty"`
	TargetNames map[string]string `json:"target_names,omitempty"`
	Value       int               `json:"value"`
	Details     string            `json:"details"`
}

// SourceName returns the source name in the requested locale, falling back to English.
func (e EffectEvent) SourceName(locale string) string {
	return pick(e.SourceNames, locale)
}

// TargetName returns the target name in the requested locale, falling back to English.
func (e EffectEvent) TargetName(locale string) string {
	return pick(e.TargetNames, locale)
}

func pick(names map[string]string, locale string) string {
	if n, ok := names[locale]; ok && n != "" {
		return n
	}
	return names["en"]
}
