package log

import (
	"fmt"
	"io"
	"strings"

	"github.com/Hakiick/narutomythos-sub000/internal/effect"
)

// EventLogger receives every event a game emits.
type EventLogger interface {
	Log(event EffectEvent)
	Events() []EffectEvent
}

// MemoryLogger keeps events in order. Sessions and tests read them back.
type MemoryLogger struct {
	events []EffectEvent
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event EffectEvent) {
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []EffectEvent {
	return l.events
}

// EventsOfType filters the log by event type.
func (l *MemoryLogger) EventsOfType(t EventType) []EffectEvent {
	return OfType(l.events, t)
}

// LastEvent returns the newest event. The zero event means nothing was logged.
func (l *MemoryLogger) LastEvent() EffectEvent {
	if len(l.events) == 0 {
		return EffectEvent{}
	}
	return l.events[len(l.events)-1]
}

// TextLogger mirrors the memory log as one line per event.
type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event EffectEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// OfType filters events by type.
func OfType(events []EffectEvent, t EventType) []EffectEvent {
	var result []EffectEvent
	for _, e := range events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// Text rendering.

// FormatEvent renders one event as a log line.
func FormatEvent(e EffectEvent) string {
	side := e.Side
	if side == "" {
		side = "-"
	}
	for len(side) < 8 {
		side += " "
	}
	return fmt.Sprintf("R%d %s| %s", e.Round, side, e.Details)
}

// FormatAll renders events one per line.
func FormatAll(events []EffectEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Constructors.

func NewRoundStartEvent(round int, rank string, firstSide string) EffectEvent {
	return EffectEvent{
		Type:    EventRoundStart,
		Round:   round,
		Side:    firstSide,
		Details: fmt.Sprintf("=== Round %d (mission %s), %s acts first ===", round, rank, firstSide),
	}
}

func NewMissionRevealedEvent(round int, names map[string]string, rank string) EffectEvent {
	return EffectEvent{
		Type:        EventMissionRevealed,
		Round:       round,
		SourceNames: names,
		Details:     fmt.Sprintf("Mission %s revealed: %s", rank, pick(names, "en")),
	}
}

func NewMulliganEvent(side string, kept bool) EffectEvent {
	ev := EffectEvent{Side: side}
	if kept {
		ev.Type = EventKeepHand
		ev.Details = fmt.Sprintf("%s keeps their hand", side)
	} else {
		ev.Type = EventMulligan
		ev.Details = fmt.Sprintf("%s mulligans", side)
	}
	return ev
}

func NewPlayEvent(t EventType, round int, side string, names map[string]string, rank string, cost int) EffectEvent {
	var verb string
	switch t {
	case EventPlayHidden:
		return EffectEvent{
			Type:        t,
			Round:       round,
			Side:        side,
			SourceNames: names,
			Value:       cost,
			Details:     fmt.Sprintf("%s plays a hidden character to mission %s (%d chakra)", side, rank, cost),
		}
	case EventUpgrade:
		verb = "upgrades into"
	case EventReveal:
		verb = "reveals"
	case EventPlayJutsu:
		verb = "plays jutsu"
	default:
		verb = "plays"
	}
	return EffectEvent{
		Type:        t,
		Round:       round,
		Side:        side,
		SourceNames: names,
		Value:       cost,
		Details:     fmt.Sprintf("%s %s %s at mission %s (%d chakra)", side, verb, pick(names, "en"), rank, cost),
	}
}

func NewPassEvent(round int, side string) EffectEvent {
	return EffectEvent{
		Type:    EventPass,
		Round:   round,
		Side:    side,
		Details: fmt.Sprintf("%s passes", side),
	}
}

func NewEdgeEvent(round int, side string) EffectEvent {
	return EffectEvent{
		Type:    EventEdge,
		Round:   round,
		Side:    side,
		Details: fmt.Sprintf("%s takes the Edge", side),
	}
}

func NewEffectEvent(round int, side string, action effect.Action, source, target map[string]string, value int) EffectEvent {
	details := fmt.Sprintf("%s resolves %s", pick(source, "en"), action)
	if len(target) > 0 {
		details += " on " + pick(target, "en")
	}
	if value != 0 {
		details += fmt.Sprintf(" (%d)", value)
	}
	return EffectEvent{
		Type:        EventEffect,
		Action:      action,
		Round:       round,
		Side:        side,
		SourceNames: source,
		TargetNames: target,
		Value:       value,
		Details:     details,
	}
}

func NewFizzleEvent(round int, side string, action effect.Action, source map[string]string) EffectEvent {
	return EffectEvent{
		Type:        EventEffectFizzled,
		Action:      action,
		Round:       round,
		Side:        side,
		SourceNames: source,
		Details:     fmt.Sprintf("%s: %s has no legal target", pick(source, "en"), action),
	}
}

func NewMissionResolvedEvent(round int, rank string, winner string, playerPower, opponentPower, points int) EffectEvent {
	var details string
	if winner == "tie" {
		details = fmt.Sprintf("Mission %s ends in a draw (%d vs %d)", rank, playerPower, opponentPower)
	} else {
		details = fmt.Sprintf("Mission %s won by %s (%d vs %d), +%d points", rank, winner, playerPower, opponentPower, points)
	}
	return EffectEvent{
		Type:    EventMissionResolved,
		Round:   round,
		Side:    winner,
		Value:   points,
		Details: details,
	}
}

func NewReturnToHandEvent(round int, side string, names map[string]string) EffectEvent {
	return EffectEvent{
		Type:        EventReturnToHand,
		Round:       round,
		Side:        side,
		SourceNames: names,
		Details:     fmt.Sprintf("%s returns to %s's hand", pick(names, "en"), side),
	}
}

func NewGameOverEvent(round int, winner string, playerPoints, opponentPoints int) EffectEvent {
	details := fmt.Sprintf("Game over: draw at %d-%d", playerPoints, opponentPoints)
	if winner != "" && winner != "tie" {
		details = fmt.Sprintf("Game over: %s wins %d-%d", winner, playerPoints, opponentPoints)
	}
	return EffectEvent{
		Type:    EventGameOver,
		Round:   round,
		Side:    winner,
		Details: details,
	}
}
