package game

import (
	"fmt"
	"strings"
)

// --- Enums ---

// Side identifies one of the two seats at the table.
type Side string

const (
	SidePlayer   Side = "player"
	SideOpponent Side = "opponent"
)

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SidePlayer {
		return SideOpponent
	}
	return SidePlayer
}

// Valid reports whether s names a seat.
func (s Side) Valid() bool {
	return s == SidePlayer || s == SideOpponent
}

// Outcome is the result of a mission or of the whole game.
type Outcome string

const (
	OutcomeNone     Outcome = ""
	OutcomePlayer   Outcome = "player"
	OutcomeOpponent Outcome = "opponent"
	OutcomeTie      Outcome = "tie"
)

// OutcomeFor returns the outcome that names s as the winner.
func OutcomeFor(s Side) Outcome {
	return Outcome(s)
}

// Side returns the winning side, if any.
func (o Outcome) Side() (Side, bool) {
	switch o {
	case OutcomePlayer:
		return SidePlayer, true
	case OutcomeOpponent:
		return SideOpponent, true
	}
	return "", false
}

type Phase int

const (
	PhaseMulligan Phase = iota
	PhaseAction
	PhaseMissionEvaluation
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseMulligan:
		return "MULLIGAN"
	case PhaseAction:
		return "ACTION"
	case PhaseMissionEvaluation:
		return "MISSION_EVALUATION"
	case PhaseGameOver:
		return "GAME_OVER"
	default:
		return "UNKNOWN"
	}
}

type CardType int

const (
	CardTypeCharacter CardType = iota
	CardTypeMission
	CardTypeJutsu
)

func (ct CardType) String() string {
	switch ct {
	case CardTypeCharacter:
		return "CHARACTER"
	case CardTypeMission:
		return "MISSION"
	case CardTypeJutsu:
		return "JUTSU"
	default:
		return "UNKNOWN"
	}
}

// ParseCardType maps a catalog type string to a CardType.
func ParseCardType(s string) (CardType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CHARACTER":
		return CardTypeCharacter, nil
	case "MISSION":
		return CardTypeMission, nil
	case "JUTSU":
		return CardTypeJutsu, nil
	}
	return 0, fmt.Errorf("unknown card type %q", s)
}

// Rank is the fixed grade of a mission lane.
type Rank int

const (
	RankD Rank = iota
	RankC
	RankB
	RankA

	NumRanks = 4
)

var (
	rankNames  = [NumRanks]string{"D", "C", "B", "A"}
	rankPoints = [NumRanks]int{1, 2, 3, 4}
)

func (r Rank) String() string {
	if r < 0 || int(r) >= NumRanks {
		return "?"
	}
	return rankNames[r]
}

// Points is the mission points awarded for winning a lane of this rank.
func (r Rank) Points() int {
	if r < 0 || int(r) >= NumRanks {
		return 0
	}
	return rankPoints[r]
}

// RankForRound maps round 1..4 to D, C, B, A.
func RankForRound(round int) (Rank, bool) {
	if round < 1 || round > NumRanks {
		return 0, false
	}
	return Rank(round - 1), true
}

// MaxMissionPoints is the total of all lane point values.
func MaxMissionPoints() int {
	total := 0
	for _, p := range rankPoints {
		total += p
	}
	return total
}

// ActionType is the kind of move a side makes on its turn.
type ActionType int

const (
	ActionPlayCharacter ActionType = iota
	ActionPlayHidden
	ActionUpgrade
	ActionReveal
	ActionPlayJutsu
	ActionPass
)

func (at ActionType) String() string {
	switch at {
	case ActionPlayCharacter:
		return "PLAY_CHARACTER"
	case ActionPlayHidden:
		return "PLAY_HIDDEN"
	case ActionUpgrade:
		return "UPGRADE"
	case ActionReveal:
		return "REVEAL"
	case ActionPlayJutsu:
		return "PLAY_JUTSU"
	case ActionPass:
		return "PASS"
	default:
		return "UNKNOWN"
	}
}

// ParseActionType maps "PLAY_HIDDEN" and friends back to an ActionType.
func ParseActionType(s string) (ActionType, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for at := ActionPlayCharacter; at <= ActionPass; at++ {
		if at.String() == s {
			return at, true
		}
	}
	return 0, false
}

// EffectStep is the decision a pending effect is waiting for.
type EffectStep int

const (
	StepSelectTarget EffectStep = iota
	StepSelectDestination
)

func (s EffectStep) String() string {
	if s == StepSelectDestination {
		return "SELECT_DESTINATION"
	}
	return "SELECT_TARGET"
}

// ResumeKind records what the engine does once the effect queue drains.
type ResumeKind int

const (
	ResumeEndTurn ResumeKind = iota
	ResumeFinishRound
	ResumeNothing
)
