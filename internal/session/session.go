// Package session runs one game between a human (or an external agent) and the AI. A
// Session is a single-writer actor: one goroutine owns the GameState and applies commands
// from a channel in order, then lets the AI move until the human has a decision to make.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Hakiick/narutomythos-sub000/internal/ai"
	"github.com/Hakiick/narutomythos-sub000/internal/game"
	"github.com/Hakiick/narutomythos-sub000/internal/log"
	"github.com/Hakiick/narutomythos-sub000/internal/tutorial"
	"github.com/Hakiick/narutomythos-sub000/internal/view"
)

var (
	// ErrIllegalAction is returned when the engine rejects a command.
	ErrIllegalAction = errors.New("illegal action")
	// ErrClosed is returned for commands sent to a closed session.
	ErrClosed = errors.New("session closed")
	// ErrNotFound is returned by Manager lookups for unknown ids.
	ErrNotFound = errors.New("session not found")
)

// maxAISteps bounds how many moves the AI makes between two human commands.
const maxAISteps = 500

// Config holds configuration for a session.
type Config struct {
	Engine     *game.Engine
	Human      game.Side // seat of the human; the AI takes the other one
	HumanDeck  game.Deck
	AIDeck     game.Deck
	Difficulty ai.Difficulty
	AISeed     int64
	Locale     string
	Tutorial   *tutorial.Script // nil for a normal game
	EventLog   log.EventLogger  // mirrors every game event, e.g. a TextLogger
	Logger     *zap.Logger
}

// TutorialView is the tutorial progress shown with each snapshot.
type TutorialView struct {
	Name        string `json:"name"`
	Instruction string `json:"instruction,omitempty"`
	Step        int    `json:"step"`
	Steps       int    `json:"steps"`
	Done        bool   `json:"done"`
}

// Snapshot is what the human sees after a command.
type Snapshot struct {
	ID       string            `json:"id"`
	State    *view.StateView   `json:"state"`
	Actions  []view.ActionView `json:"actions,omitempty"`
	Events   []view.EventView  `json:"events"` // since the previous snapshot
	GameOver bool              `json:"game_over"`
	Winner   string            `json:"winner,omitempty"`
	Tutorial *TutorialView     `json:"tutorial,omitempty"`
}

type command struct {
	name  string
	apply func(s *game.GameState) (*game.GameState, tutorial.Move, error)
	reply chan reply
}

type reply struct {
	snap *Snapshot
	err  error
}

// Session is one running game.
type Session struct {
	id     string
	human  game.Side
	locale string
	engine *game.Engine
	bot    *ai.AI
	logger *zap.Logger

	cmds      chan command
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	// Owned by the actor goroutine.
	state    *game.GameState
	seen     int // events already delivered to the human
	mirrored int // events already written to the mirror log
	mirror   log.EventLogger
	tracker  *tutorial.Tracker
}

// New deals a game and starts the session's goroutine. The AI takes its mulligan decision
// before New returns control to the first command.
func New(id string, cfg Config) (*Session, error) {
	if cfg.Engine == nil {
		return nil, errors.New("session: engine is required")
	}
	if len(cfg.HumanDeck.Cards) == 0 || len(cfg.AIDeck.Cards) == 0 {
		return nil, errors.New("session: both decks are required")
	}
	human := cfg.Human
	if !human.Valid() {
		human = game.SidePlayer
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	locale := cfg.Locale
	if locale == "" {
		locale = game.DefaultLocale
	}
	logger = logger.With(zap.String("session", id))

	playerDeck, opponentDeck := cfg.HumanDeck, cfg.AIDeck
	if human == game.SideOpponent {
		playerDeck, opponentDeck = opponentDeck, playerDeck
	}

	s := &Session{
		id:     id,
		human:  human,
		locale: locale,
		engine: cfg.Engine,
		bot: ai.New(cfg.Engine, ai.Config{
			Side:       human.Other(),
			Difficulty: cfg.Difficulty,
			Seed:       cfg.AISeed,
			Logger:     logger,
		}),
		logger: logger,
		cmds:   make(chan command),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		state:  cfg.Engine.InitializeGame(playerDeck.Cards, playerDeck.Missions, opponentDeck.Cards, opponentDeck.Missions),
		mirror: cfg.EventLog,
	}
	if cfg.Tutorial != nil {
		s.tracker = tutorial.NewTracker(cfg.Tutorial)
	}
	s.advanceAI()
	s.mirrorEvents()

	logger.Info("session started",
		zap.String("human", string(human)),
		zap.String("human_deck", cfg.HumanDeck.Name),
		zap.String("ai_deck", cfg.AIDeck.Name),
		zap.String("difficulty", string(cfg.Difficulty)),
		zap.Bool("tutorial", s.tracker != nil))

	go s.run()
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Human returns the human's seat.
func (s *Session) Human() game.Side {
	return s.human
}

func (s *Session) run() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			s.logger.Info("session closed")
			return
		case cmd := <-s.cmds:
			cmd.reply <- s.handle(cmd)
		}
	}
}

// handle applies one command. It runs on the actor goroutine only.
func (s *Session) handle(cmd command) reply {
	if cmd.apply != nil {
		next, move, err := cmd.apply(s.state)
		if err != nil {
			s.logger.Debug("command rejected", zap.String("command", cmd.name), zap.Error(err))
			return reply{err: err}
		}
		if next == s.state {
			s.logger.Debug("command rejected", zap.String("command", cmd.name))
			return reply{err: fmt.Errorf("%s: %w", cmd.name, ErrIllegalAction)}
		}
		s.state = next
		if s.tracker != nil {
			s.tracker.Observe(move)
		}
		s.advanceAI()
	}
	s.mirrorEvents()
	return reply{snap: s.snapshot()}
}

// advanceAI lets the AI move until it has nothing to decide.
func (s *Session) advanceAI() {
	for i := 0; i < maxAISteps; i++ {
		next, ok := s.bot.Step(s.state)
		if !ok {
			return
		}
		s.state = next
	}
	s.logger.Warn("ai step limit reached", zap.Int("limit", maxAISteps))
}

func (s *Session) mirrorEvents() {
	if s.mirror == nil {
		return
	}
	for _, ev := range s.state.EffectLog[s.mirrored:] {
		s.mirror.Log(ev)
	}
	s.mirrored = len(s.state.EffectLog)
}

func (s *Session) snapshot() *Snapshot {
	st := s.state
	snap := &Snapshot{
		ID:       s.id,
		State:    view.BuildStateView(st, s.human, s.locale),
		Events:   view.BuildEventViews(st.EffectLog[s.seen:], s.human, s.locale),
		GameOver: st.Phase == game.PhaseGameOver,
		Winner:   string(st.Winner),
	}
	s.seen = len(st.EffectLog)
	if st.Turn == s.human {
		snap.Actions = view.BuildActionViews(st, s.engine.GetAvailableActions(st), s.locale)
	}
	if s.tracker != nil {
		done, total := s.tracker.Progress()
		snap.Tutorial = &TutorialView{
			Name:        s.tracker.Name(),
			Instruction: s.tracker.Instruction(),
			Step:        done,
			Steps:       total,
			Done:        s.tracker.Done(),
		}
	}
	return snap
}

// do sends a command to the actor and waits for its reply.
func (s *Session) do(ctx context.Context, cmd command) (*Snapshot, error) {
	cmd.reply = make(chan reply, 1)
	select {
	case s.cmds <- cmd:
	case <-s.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-cmd.reply:
		return r.snap, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// State returns the current snapshot without changing the game.
func (s *Session) State(ctx context.Context) (*Snapshot, error) {
	return s.do(ctx, command{name: "state"})
}

// Mulligan decides the human's opening hand: true sends it back, false keeps it.
func (s *Session) Mulligan(ctx context.Context, mulligan bool) (*Snapshot, error) {
	return s.do(ctx, command{name: "mulligan", apply: func(st *game.GameState) (*game.GameState, tutorial.Move, error) {
		if mulligan {
			return s.engine.PerformMulligan(st, s.human), tutorial.Move{Kind: tutorial.KindMulligan}, nil
		}
		return s.engine.KeepHand(st, s.human), tutorial.Move{Kind: tutorial.KindKeepHand}, nil
	}})
}

// Act takes the available action with the given index, as numbered in Snapshot.Actions.
func (s *Session) Act(ctx context.Context, index int) (*Snapshot, error) {
	return s.do(ctx, command{name: "action", apply: func(st *game.GameState) (*game.GameState, tutorial.Move, error) {
		if st.Turn != s.human {
			return st, tutorial.Move{}, fmt.Errorf("not your turn: %w", ErrIllegalAction)
		}
		actions := s.engine.GetAvailableActions(st)
		if index < 0 || index >= len(actions) {
			return st, tutorial.Move{}, fmt.Errorf("action %d of %d: %w", index, len(actions), ErrIllegalAction)
		}
		return s.submit(st, actions[index].Action)
	}})
}

// Submit takes an explicit action for the human's side.
func (s *Session) Submit(ctx context.Context, a game.Action) (*Snapshot, error) {
	return s.do(ctx, command{name: "submit", apply: func(st *game.GameState) (*game.GameState, tutorial.Move, error) {
		if a.Side != s.human {
			return st, tutorial.Move{}, fmt.Errorf("action for %s: %w", a.Side, ErrIllegalAction)
		}
		return s.submit(st, a)
	}})
}

func (s *Session) submit(st *game.GameState, a game.Action) (*game.GameState, tutorial.Move, error) {
	move := tutorial.Move{Kind: a.Type.String()}
	if c, ok := st.Side(s.human).HandCard(a.CardInstanceID); ok {
		move.CardID = c.Card.ID
	} else if _, _, ch := st.FindCharacter(a.CardInstanceID); ch != nil {
		move.CardID = ch.Card.ID
	}
	return s.engine.ExecutePlayerAction(st, a), move, nil
}

// ChooseTarget resolves the human's pending effect with one of its targets.
func (s *Session) ChooseTarget(ctx context.Context, target string) (*Snapshot, error) {
	return s.do(ctx, command{name: "choose_target", apply: func(st *game.GameState) (*game.GameState, tutorial.Move, error) {
		if st.PendingEffect == nil || st.PendingEffect.Side != s.human {
			return st, tutorial.Move{}, fmt.Errorf("no effect waiting for you: %w", ErrIllegalAction)
		}
		return s.engine.ResolvePendingEffect(st, target), tutorial.Move{Kind: tutorial.KindTarget}, nil
	}})
}

// Skip declines the human's optional pending effect.
func (s *Session) Skip(ctx context.Context) (*Snapshot, error) {
	return s.do(ctx, command{name: "skip_effect", apply: func(st *game.GameState) (*game.GameState, tutorial.Move, error) {
		if st.PendingEffect == nil || st.PendingEffect.Side != s.human {
			return st, tutorial.Move{}, fmt.Errorf("no effect waiting for you: %w", ErrIllegalAction)
		}
		return s.engine.SkipPendingEffect(st), tutorial.Move{Kind: tutorial.KindSkip}, nil
	}})
}

// Close stops the session. Pending and later commands fail with ErrClosed.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.quit) })
	<-s.done
}
