// Package effect models parsed card effects and turns free-form effect text
// into them.
package effect

import "strings"

// Trigger is the lifecycle moment at which an effect fires.
type Trigger int

const (
	TriggerMain Trigger = iota
	TriggerUpgrade
	TriggerAmbush
	TriggerScore
)

func (t Trigger) String() string {
	switch t {
	case TriggerMain:
		return "MAIN"
	case TriggerUpgrade:
		return "UPGRADE"
	case TriggerAmbush:
		return "AMBUSH"
	case TriggerScore:
		return "SCORE"
	default:
		return "UNKNOWN"
	}
}

// Timing says whether an effect fires once or persists while its source is deployed.
type Timing int

const (
	TimingInstant Timing = iota
	TimingContinuous
)

func (t Timing) String() string {
	if t == TimingContinuous {
		return "CONTINUOUS"
	}
	return "INSTANT"
}

// Action is the closed set of effect actions the executor knows how to apply.
// Adding an action means extending this list, String, and the executor switch.
type Action int

const (
	ActionUnresolved Action = iota
	ActionPowerup
	ActionGainChakra
	ActionStealChakra
	ActionDraw
	ActionMove
	ActionDefeat
	ActionDefeatAll
	ActionHide
	ActionHideAll
	ActionPowerBoost
	ActionReducePower
	ActionSetPowerZero
	ActionRemovePower
	ActionDiscard
	ActionOpponentDiscard
	ActionOpponentDraw
	ActionOpponentGainChakra
	ActionBothDraw
	ActionTakeControl
	ActionLookAt
	ActionPlayCharacter
	ActionPlayFromDiscard
	ActionRetrieveFromDiscard
	ActionPlaceFromDeck
	ActionReturnToHand
	ActionCopyEffect
	ActionPayingLess
	ActionProtection
	ActionRestrictMovement
	ActionCostReduction
	ActionRetainPower

	numActions
)

var actionNames = [numActions]string{
	ActionUnresolved:          "UNRESOLVED",
	ActionPowerup:             "POWERUP",
	ActionGainChakra:          "GAIN_CHAKRA",
	ActionStealChakra:         "STEAL_CHAKRA",
	ActionDraw:                "DRAW",
	ActionMove:                "MOVE",
	ActionDefeat:              "DEFEAT",
	ActionDefeatAll:           "DEFEAT_ALL",
	ActionHide:                "HIDE",
	ActionHideAll:             "HIDE_ALL",
	ActionPowerBoost:          "POWER_BOOST",
	ActionReducePower:         "REDUCE_POWER",
	ActionSetPowerZero:        "SET_POWER_ZERO",
	ActionRemovePower:         "REMOVE_POWER",
	ActionDiscard:             "DISCARD",
	ActionOpponentDiscard:     "OPPONENT_DISCARD",
	ActionOpponentDraw:        "OPPONENT_DRAW",
	ActionOpponentGainChakra:  "OPPONENT_GAIN_CHAKRA",
	ActionBothDraw:            "BOTH_DRAW",
	ActionTakeControl:         "TAKE_CONTROL",
	ActionLookAt:              "LOOK_AT",
	ActionPlayCharacter:       "PLAY_CHARACTER",
	ActionPlayFromDiscard:     "PLAY_FROM_DISCARD",
	ActionRetrieveFromDiscard: "RETRIEVE_FROM_DISCARD",
	ActionPlaceFromDeck:       "PLACE_FROM_DECK",
	ActionReturnToHand:        "RETURN_TO_HAND",
	ActionCopyEffect:          "COPY_EFFECT",
	ActionPayingLess:          "PAYING_LESS",
	ActionProtection:          "PROTECTION",
	ActionRestrictMovement:    "RESTRICT_MOVEMENT",
	ActionCostReduction:       "COST_REDUCTION",
	ActionRetainPower:         "RETAIN_POWER",
}

func (a Action) String() string {
	if a < 0 || a >= numActions {
		return "UNKNOWN"
	}
	return actionNames[a]
}

// Actions returns every known action, UNRESOLVED included.
func Actions() []Action {
	out := make([]Action, 0, numActions)
	for a := Action(0); a < numActions; a++ {
		out = append(out, a)
	}
	return out
}

// ParseAction maps an action name such as "DEFEAT_ALL" back to its Action.
func ParseAction(name string) (Action, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for a := Action(0); a < numActions; a++ {
		if actionNames[a] == name {
			return a, true
		}
	}
	return ActionUnresolved, false
}

// AlwaysContinuous reports whether the action only makes sense as a
// persistent modifier.
func (a Action) AlwaysContinuous() bool {
	switch a {
	case ActionPowerBoost, ActionPayingLess, ActionProtection,
		ActionRestrictMovement, ActionCostReduction, ActionRetainPower:
		return true
	}
	return false
}

// ValueX is the sentinel for variable amounts resolved at execution time.
const ValueX = -1

// Side narrows which characters a filter accepts relative to the effect's controller.
type Side int

const (
	SideAny Side = iota
	SideFriendly
	SideEnemy
)

func (s Side) String() string {
	switch s {
	case SideFriendly:
		return "friendly"
	case SideEnemy:
		return "enemy"
	default:
		return "any"
	}
}

// TargetFilter narrows the legal targets of an effect. Zero values mean "no constraint"
// except MaxPower and MaxCost, where -1 means unbounded.
type TargetFilter struct {
	Side        Side
	Self        bool // the effect applies to its own source
	Another     bool // the source itself is excluded
	SameMission bool // only characters in the source's mission
	Keyword     string
	Group       string
	MaxPower    int
	MaxCost     int
	Hidden      bool // only hidden characters
	Revealed    bool // only face-up characters
	All         bool // "all"/"every" wording, used by amount-less removals
}

// NoFilter is a filter that accepts everything.
func NoFilter() TargetFilter {
	return TargetFilter{MaxPower: -1, MaxCost: -1}
}

// ParsedEffect is one structured effect line.
type ParsedEffect struct {
	Trigger  Trigger
	Timing   Timing
	Action   Action
	Value    int
	Filter   TargetFilter
	Optional bool
	RawText  string
}

// Resolved reports whether the parser recognised the line.
func (p ParsedEffect) Resolved() bool {
	return p.Action != ActionUnresolved
}

// IsX reports whether the amount is variable.
func (p ParsedEffect) IsX() bool {
	return p.Value == ValueX
}

// Matches reports whether the effect fires on the given trigger as a one-shot.
func (p ParsedEffect) Matches(t Trigger) bool {
	return p.Trigger == t && p.Timing == TimingInstant && p.Resolved()
}
