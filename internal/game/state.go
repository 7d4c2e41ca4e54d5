package game

import (
	"fmt"
	"slices"
	"time"

	"github.com/Hakiick/narutomythos-sub000/internal/effect"
	"github.com/Hakiick/narutomythos-sub000/internal/log"
)

// PlayerState represents one side's zones and counters.
type PlayerState struct {
	Deck          []GameCardInstance // top of deck is index 0
	Hand          []GameCardInstance
	DiscardPile   []GameCardInstance
	Chakra        int
	MissionPoints int
	HasEdge       bool
	MulliganDone  bool
}

// DrawCard moves the top card of the deck into the hand.
func (p *PlayerState) DrawCard() (GameCardInstance, bool) {
	if len(p.Deck) == 0 {
		return GameCardInstance{}, false
	}
	card := p.Deck[0]
	p.Deck = p.Deck[1:]
	p.Hand = append(p.Hand, card)
	return card, true
}

// Draw draws up to n cards and returns how many were drawn.
func (p *PlayerState) Draw(n int) int {
	drawn := 0
	for i := 0; i < n; i++ {
		if _, ok := p.DrawCard(); !ok {
			break
		}
		drawn++
	}
	return drawn
}

// HandCard finds a hand card by instance ID.
func (p *PlayerState) HandCard(id string) (GameCardInstance, bool) {
	return findInstance(p.Hand, id)
}

// DiscardCard finds a discard pile card by instance ID.
func (p *PlayerState) DiscardCard(id string) (GameCardInstance, bool) {
	return findInstance(p.DiscardPile, id)
}

// RemoveFromHand removes a card from the hand by instance ID.
func (p *PlayerState) RemoveFromHand(id string) (GameCardInstance, bool) {
	var card GameCardInstance
	var ok bool
	p.Hand, card, ok = removeInstance(p.Hand, id)
	return card, ok
}

// RemoveFromDiscard removes a card from the discard pile by instance ID.
func (p *PlayerState) RemoveFromDiscard(id string) (GameCardInstance, bool) {
	var card GameCardInstance
	var ok bool
	p.DiscardPile, card, ok = removeInstance(p.DiscardPile, id)
	return card, ok
}

func (p *PlayerState) clone() *PlayerState {
	c := *p
	c.Deck = slices.Clone(p.Deck)
	c.Hand = slices.Clone(p.Hand)
	c.DiscardPile = slices.Clone(p.DiscardPile)
	return &c
}

func findInstance(cards []GameCardInstance, id string) (GameCardInstance, bool) {
	for _, c := range cards {
		if c.InstanceID == id {
			return c, true
		}
	}
	return GameCardInstance{}, false
}

func removeInstance(cards []GameCardInstance, id string) ([]GameCardInstance, GameCardInstance, bool) {
	for i, c := range cards {
		if c.InstanceID == id {
			return slices.Delete(cards, i, i+1), c, true
		}
	}
	return cards, GameCardInstance{}, false
}

// MissionSlot is one of the four ranked lanes.
type MissionSlot struct {
	ID                  string
	Rank                Rank
	MissionCard         *Card
	MissionInstanceID   string
	Revealed            bool
	ContinuousEffects   []effect.ParsedEffect // mission card modifiers, active once revealed
	PlayerCharacters    []*DeployedCharacter
	OpponentCharacters  []*DeployedCharacter
	Resolved            bool
	Winner              Outcome
	PlayerPowerAtEval   int
	OpponentPowerAtEval int
}

// Characters returns the characters a side has in this lane.
func (m *MissionSlot) Characters(side Side) []*DeployedCharacter {
	if side == SidePlayer {
		return m.PlayerCharacters
	}
	return m.OpponentCharacters
}

func (m *MissionSlot) setCharacters(side Side, chars []*DeployedCharacter) {
	if side == SidePlayer {
		m.PlayerCharacters = chars
	} else {
		m.OpponentCharacters = chars
	}
}

func (m *MissionSlot) addCharacter(side Side, ch *DeployedCharacter) {
	m.setCharacters(side, append(m.Characters(side), ch))
}

// removeCharacter removes a character from whichever side holds it.
func (m *MissionSlot) removeCharacter(id string) (*DeployedCharacter, Side, bool) {
	for _, side := range []Side{SidePlayer, SideOpponent} {
		chars := m.Characters(side)
		for i, ch := range chars {
			if ch.InstanceID == id {
				m.setCharacters(side, slices.Delete(slices.Clone(chars), i, i+1))
				return ch, side, true
			}
		}
	}
	return nil, "", false
}

// HasName reports whether a side already has a character sharing the card's base name here.
func (m *MissionSlot) HasName(side Side, card *Card, exceptID string) bool {
	for _, ch := range m.Characters(side) {
		if ch.InstanceID != exceptID && SameName(ch.Card, card) {
			return true
		}
	}
	return false
}

func (m *MissionSlot) clone() *MissionSlot {
	c := *m
	c.PlayerCharacters = cloneCharacters(m.PlayerCharacters)
	c.OpponentCharacters = cloneCharacters(m.OpponentCharacters)
	return &c
}

func cloneCharacters(in []*DeployedCharacter) []*DeployedCharacter {
	if in == nil {
		return nil
	}
	out := make([]*DeployedCharacter, len(in))
	for i, ch := range in {
		out[i] = ch.clone()
	}
	return out
}

// QueuedEffect is a triggered effect waiting its turn to resolve.
type QueuedEffect struct {
	Effect           effect.ParsedEffect
	Side             Side // controller of the effect
	SourceInstanceID string
	SourceCard       *Card
	SourceMission    int
}

// PendingEffect is an effect suspended until a target is chosen.
type PendingEffect struct {
	ID               string
	EffectType       effect.Action
	Effect           effect.ParsedEffect
	SourceInstanceID string
	SourceCard       *Card
	SourceMission    int
	Side             Side
	ValidTargets     []string
	Description      string
	Value            int
	Step             EffectStep
	Selected         string // character chosen in an earlier step
	Remaining        int    // further picks after this one
	Optional         bool
}

// IsValidTarget reports whether id is one of the offered targets.
func (p *PendingEffect) IsValidTarget(id string) bool {
	return slices.Contains(p.ValidTargets, id)
}

func (p *PendingEffect) clone() *PendingEffect {
	if p == nil {
		return nil
	}
	c := *p
	c.ValidTargets = slices.Clone(p.ValidTargets)
	return &c
}

// RevealedInfo is a temporary look at otherwise secret cards.
type RevealedInfo struct {
	Side             Side // who may see the cards
	SourceInstanceID string
	Cards            []GameCardInstance
	ExpiresAfter     int // cleared once this many actions are in the history
}

// Action is a move submitted by a side.
type Action struct {
	Type             ActionType
	Side             Side
	CardInstanceID   string
	MissionIndex     int
	TargetInstanceID string    // deployed character being upgraded
	Timestamp        time.Time // ordering key for logs, ignored by legality checks
}

// sameMove compares everything except the timestamp.
func (a Action) sameMove(b Action) bool {
	if a.Type != b.Type || a.Side != b.Side {
		return false
	}
	if a.Type == ActionPass {
		return true
	}
	return a.CardInstanceID == b.CardInstanceID &&
		a.MissionIndex == b.MissionIndex &&
		a.TargetInstanceID == b.TargetInstanceID
}

// --- GameState ---

// GameState holds the complete state of a game. Engine transitions never mutate a
// GameState they are given; they clone it and return the clone.
type GameState struct {
	Player   *PlayerState
	Opponent *PlayerState
	Missions [NumRanks]*MissionSlot

	Round      int // 1-based
	Phase      Phase
	Turn       Side
	FirstActor Side // who acted first this round
	Starter    Side // who acted first in round 1

	PendingEffect *PendingEffect
	EffectQueue   []QueuedEffect
	Resume        ResumeKind

	ActionHistory []Action
	EffectLog     []log.EffectEvent
	RevealedInfo  *RevealedInfo

	ConsecutivePasses int
	FirstPasser       Side

	Winner Outcome

	Seed         int64
	ShuffleCount int
	NextID       int
	NextEventID  int
}

// Clone returns a deep copy. Card definitions are shared.
func (s *GameState) Clone() *GameState {
	c := *s
	c.Player = s.Player.clone()
	c.Opponent = s.Opponent.clone()
	for i, m := range s.Missions {
		if m != nil {
			c.Missions[i] = m.clone()
		}
	}
	c.PendingEffect = s.PendingEffect.clone()
	c.EffectQueue = slices.Clone(s.EffectQueue)
	c.ActionHistory = slices.Clone(s.ActionHistory)
	c.EffectLog = slices.Clone(s.EffectLog)
	if s.RevealedInfo != nil {
		ri := *s.RevealedInfo
		ri.Cards = slices.Clone(s.RevealedInfo.Cards)
		c.RevealedInfo = &ri
	}
	return &c
}

// Side returns the PlayerState for a side.
func (s *GameState) Side(side Side) *PlayerState {
	if side == SidePlayer {
		return s.Player
	}
	return s.Opponent
}

// ActiveMissionIndex returns the lane index for the current round, or -1.
func (s *GameState) ActiveMissionIndex() int {
	rank, ok := RankForRound(s.Round)
	if !ok {
		return -1
	}
	return int(rank)
}

// ActiveMission returns the lane for the current round, or nil.
func (s *GameState) ActiveMission() *MissionSlot {
	idx := s.ActiveMissionIndex()
	if idx < 0 {
		return nil
	}
	return s.Missions[idx]
}

// FindCharacter locates a deployed character by instance ID.
func (s *GameState) FindCharacter(id string) (lane int, side Side, ch *DeployedCharacter) {
	for i, m := range s.Missions {
		if m == nil {
			continue
		}
		for _, sd := range []Side{SidePlayer, SideOpponent} {
			for _, c := range m.Characters(sd) {
				if c.InstanceID == id {
					return i, sd, c
				}
			}
		}
	}
	return -1, "", nil
}

// DeployedCount returns how many characters a side has across all lanes.
func (s *GameState) DeployedCount(side Side) int {
	n := 0
	for _, m := range s.Missions {
		if m != nil {
			n += len(m.Characters(side))
		}
	}
	return n
}

// HiddenCount returns how many hidden characters a side has in unresolved lanes.
func (s *GameState) HiddenCount(side Side) int {
	n := 0
	for _, m := range s.Missions {
		if m == nil || m.Resolved {
			continue
		}
		for _, ch := range m.Characters(side) {
			if ch.Hidden {
				n++
			}
		}
	}
	return n
}

// LaneIndex returns the index of the lane with the given id, or -1.
func (s *GameState) LaneIndex(id string) int {
	for i, m := range s.Missions {
		if m != nil && m.ID == id {
			return i
		}
	}
	return -1
}

// newInstanceID generates a unique, never reused card instance ID.
func (s *GameState) newInstanceID() string {
	s.NextID++
	return fmt.Sprintf("inst-%04d", s.NextID)
}

func (s *GameState) newPendingID() string {
	s.NextID++
	return fmt.Sprintf("pending-%04d", s.NextID)
}

func (s *GameState) newEventID() string {
	s.NextEventID++
	return fmt.Sprintf("evt-%04d", s.NextEventID)
}

func laneID(r Rank) string {
	return "mission-" + r.String()
}
