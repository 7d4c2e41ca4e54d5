package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/Hakiick/narutomythos-sub000/internal/effect"
	"github.com/Hakiick/narutomythos-sub000/internal/log"
)

// EngineConfig holds configuration for creating an engine.
type EngineConfig struct {
	Rules  Rules
	Parser effect.Parser    // nil uses a cached text parser
	Logger *zap.Logger      // nil disables diagnostics
	Now    func() time.Time // clock for action and event timestamps (nil = time.Now)

	NoShuffle bool // keep deck and mission order (for deterministic tests)
}

// Engine applies the rules. It holds no game state: every method takes a GameState and
// returns a new one, leaving its input untouched. An Engine is safe for concurrent use
// as long as its Parser is.
type Engine struct {
	rules  Rules
	parser effect.Parser
	logger *zap.Logger
	now    func() time.Time

	noShuffle bool
}

// NewEngine creates an engine from the given config.
func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	parser := cfg.Parser
	if parser == nil {
		parser = effect.NewCachedParser(effect.NewTextParser(), logger)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	rules := cfg.Rules
	if rules == (Rules{}) {
		rules = DefaultRules()
	}
	return &Engine{rules: rules, parser: parser, logger: logger, now: now, noShuffle: cfg.NoShuffle}
}

// Rules returns the ruleset the engine enforces.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Parser returns the effect parser the engine uses.
func (e *Engine) Parser() effect.Parser {
	return e.parser
}

// InitializeGame shuffles both decks, sets up the four mission lanes from the six
// submitted missions, deals opening hands and enters MULLIGAN for round 1.
func (e *Engine) InitializeGame(playerDeck, playerMissions, opponentDeck, opponentMissions []*Card) *GameState {
	seed := e.rules.Seed
	if seed == 0 {
		seed = randomSeed()
	}
	s := &GameState{
		Player:   &PlayerState{},
		Opponent: &PlayerState{},
		Round:    1,
		Phase:    PhaseMulligan,
		Seed:     seed,
	}

	s.Player.Deck = e.instances(s, playerDeck)
	s.Opponent.Deck = e.instances(s, opponentDeck)
	e.shuffle(s, s.Player.Deck)
	e.shuffle(s, s.Opponent.Deck)

	missions := e.instances(s, append(append([]*Card(nil), playerMissions...), opponentMissions...))
	e.shuffle(s, missions)
	for i := 0; i < NumRanks; i++ {
		slot := &MissionSlot{ID: laneID(Rank(i)), Rank: Rank(i)}
		if i < len(missions) {
			slot.MissionCard = missions[i].Card
			slot.MissionInstanceID = missions[i].InstanceID
		}
		s.Missions[i] = slot
	}

	s.Player.Draw(e.rules.OpeningHand)
	s.Opponent.Draw(e.rules.OpeningHand)

	first := SidePlayer
	switch e.rules.FirstPlayer {
	case FirstPlayerOpponent:
		first = SideOpponent
	case FirstPlayerRandom:
		if rngFor(s).Intn(2) == 1 {
			first = SideOpponent
		}
	}
	s.Side(first).HasEdge = true
	s.Starter = first
	s.FirstActor = first
	s.Turn = first

	e.emit(s, log.EffectEvent{
		Type:    log.EventGameStart,
		Round:   1,
		Side:    string(first),
		Details: "Game start, " + string(first) + " holds the Edge",
	})
	e.logger.Debug("game initialized",
		zap.Int64("seed", seed),
		zap.String("first", string(first)),
		zap.Int("player_deck", len(s.Player.Deck)),
		zap.Int("opponent_deck", len(s.Opponent.Deck)))
	return s
}

// instances wraps catalog cards with fresh instance IDs. Nil cards are skipped.
func (e *Engine) instances(s *GameState, cards []*Card) []GameCardInstance {
	out := make([]GameCardInstance, 0, len(cards))
	for _, c := range cards {
		if c == nil {
			continue
		}
		out = append(out, GameCardInstance{Card: c, InstanceID: s.newInstanceID()})
	}
	return out
}

// PerformMulligan shuffles the side's hand back and draws a new one.
func (e *Engine) PerformMulligan(s *GameState, side Side) *GameState {
	if s.Phase != PhaseMulligan || !side.Valid() || s.Side(side).MulliganDone {
		return s
	}
	next := s.Clone()
	p := next.Side(side)
	n := len(p.Hand)
	p.Deck = append(p.Deck, p.Hand...)
	p.Hand = nil
	e.shuffle(next, p.Deck)
	p.Draw(n)
	p.MulliganDone = true
	e.emit(next, log.NewMulliganEvent(string(side), false))
	e.maybeStartGame(next)
	return next
}

// KeepHand records that the side keeps its opening hand.
func (e *Engine) KeepHand(s *GameState, side Side) *GameState {
	if s.Phase != PhaseMulligan || !side.Valid() || s.Side(side).MulliganDone {
		return s
	}
	next := s.Clone()
	next.Side(side).MulliganDone = true
	e.emit(next, log.NewMulliganEvent(string(side), true))
	e.maybeStartGame(next)
	return next
}

func (e *Engine) maybeStartGame(s *GameState) {
	if s.Player.MulliganDone && s.Opponent.MulliganDone {
		e.startRound(s)
	}
}

// emit stamps and appends an event to the state's log.
func (e *Engine) emit(s *GameState, ev log.EffectEvent) {
	ev.ID = s.newEventID()
	ev.Timestamp = e.now()
	if ev.Round == 0 {
		ev.Round = s.Round
	}
	s.EffectLog = append(s.EffectLog, ev)
}

// --- RNG ---

// rngFor returns a generator derived from the game seed and the number of draws taken so
// far, so replaying the same inputs gives the same game.
func rngFor(s *GameState) *rand.Rand {
	s.ShuffleCount++
	return rand.New(rand.NewSource(s.Seed*7919 + int64(s.ShuffleCount)))
}

func (e *Engine) shuffle(s *GameState, cards []GameCardInstance) {
	if e.noShuffle {
		return
	}
	r := rngFor(s)
	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

func randomSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}
