package game

import (
	"strings"

	"github.com/Hakiick/narutomythos-sub000/internal/effect"
)

// Card is a catalog card definition. Cards are shared between instances and never mutated.
type Card struct {
	ID       string
	Names    LocalizedText
	Type     CardType
	Rarity   string
	Chakra   *int // nil for missions
	Power    *int // nil for non-characters
	Keywords []string
	Group    string
	Effect   LocalizedText
	Set      string
	Number   int
}

// Name returns the English card name.
func (c *Card) Name() string {
	return c.Names.English()
}

// ChakraCost returns the printed cost, 0 when the card has none.
func (c *Card) ChakraCost() int {
	if c == nil || c.Chakra == nil {
		return 0
	}
	return *c.Chakra
}

// BasePower returns the printed power, 0 when the card has none.
func (c *Card) BasePower() int {
	if c == nil || c.Power == nil {
		return 0
	}
	return *c.Power
}

// EffectText returns the English effect text used for parsing.
func (c *Card) EffectText() string {
	if c == nil {
		return ""
	}
	return c.Effect.English()
}

// HasKeyword reports whether the card carries the keyword, case-insensitively.
func (c *Card) HasKeyword(keyword string) bool {
	for _, k := range c.Keywords {
		if strings.EqualFold(k, keyword) {
			return true
		}
	}
	return false
}

// InGroup reports whether the card belongs to the group/village. "leaf" matches "Leaf Village".
func (c *Card) InGroup(group string) bool {
	if c.Group == "" || group == "" {
		return false
	}
	g := strings.ToLower(c.Group)
	want := strings.ToLower(group)
	return g == want || strings.HasPrefix(g, want+" ") || strings.HasPrefix(want, g+" ")
}

// GameCardInstance is a card in a deck, hand or discard pile.
type GameCardInstance struct {
	Card       *Card
	InstanceID string
}

// ContinuousEffect is a persistent modifier attached to a deployed character.
type ContinuousEffect struct {
	SourceInstanceID string
	Effect           effect.ParsedEffect
}

// DeployedCharacter is a character in a mission lane.
type DeployedCharacter struct {
	Card              *Card
	InstanceID        string
	Owner             Side
	Hidden            bool
	PowerTokens       int
	PowerPenalty      int  // power lost to effects until the end of the round
	PowerZeroed       bool // printed power counts as 0 until the end of the round
	Stacked           []*Card
	ContinuousEffects []ContinuousEffect
}

func (d *DeployedCharacter) clone() *DeployedCharacter {
	c := *d
	c.Stacked = append([]*Card(nil), d.Stacked...)
	c.ContinuousEffects = append([]ContinuousEffect(nil), d.ContinuousEffects...)
	return &c
}

// HasContinuous reports whether an active continuous effect with the given action is attached.
// Hidden characters have no active effects.
func (d *DeployedCharacter) HasContinuous(a effect.Action) bool {
	if d.Hidden {
		return false
	}
	for _, ce := range d.ContinuousEffects {
		if ce.Effect.Action == a {
			return true
		}
	}
	return false
}

// Instance returns the character as a hand/discard card keeping its instance id.
func (d *DeployedCharacter) Instance() GameCardInstance {
	return GameCardInstance{Card: d.Card, InstanceID: d.InstanceID}
}
