package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hakiick/narutomythos-sub000/internal/ai"
	"github.com/Hakiick/narutomythos-sub000/internal/game"
	"github.com/Hakiick/narutomythos-sub000/internal/game/gametest"
	"github.com/Hakiick/narutomythos-sub000/internal/log"
	"github.com/Hakiick/narutomythos-sub000/internal/tutorial"
)

func testConfig() Config {
	return Config{
		Engine: gametest.Engine(),
		Human:  game.SidePlayer,
		HumanDeck: game.Deck{
			Name:     "Player",
			Cards:    gametest.Deck("P", gametest.Character("Kakashi Hatake", 2, 3, "")),
			Missions: gametest.Missions("P"),
		},
		AIDeck: game.Deck{
			Name:     "AI",
			Cards:    gametest.Deck("O"),
			Missions: gametest.Missions("O"),
		},
		Difficulty: ai.Hard,
		AISeed:     3,
	}
}

func newSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	s, err := New("test", cfg)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func passIndex(t *testing.T, snap *Snapshot) int {
	t.Helper()
	require.NotEmpty(t, snap.Actions)
	last := snap.Actions[len(snap.Actions)-1]
	require.Equal(t, "PASS", last.Type)
	return last.Index
}

func TestNewRequiresEngineAndDecks(t *testing.T) {
	cfg := testConfig()
	cfg.Engine = nil
	_, err := New("x", cfg)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.AIDeck = game.Deck{}
	_, err = New("x", cfg)
	assert.Error(t, err)
}

func TestSessionPlaysAgainstAI(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, testConfig())

	snap, err := s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, "test", snap.ID)
	assert.Equal(t, "MULLIGAN", snap.State.Phase)
	assert.Empty(t, snap.Actions)

	snap, err = s.Mulligan(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "ACTION", snap.State.Phase)
	require.True(t, snap.State.IsYourTurn)
	assert.NotEmpty(t, snap.Events)

	snap, err = s.Act(ctx, passIndex(t, snap))
	require.NoError(t, err)
	assert.True(t, snap.State.IsYourTurn || snap.GameOver, "the AI moves before control returns")
	types := make([]string, 0, len(snap.Events))
	for _, ev := range snap.Events {
		types = append(types, ev.Type)
	}
	assert.Contains(t, types, "Pass")

	again, err := s.State(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Events, "events are delivered once")
}

func TestSessionRejectsIllegalCommands(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, testConfig())

	_, err := s.Act(ctx, 0)
	assert.ErrorIs(t, err, ErrIllegalAction, "no actions during the mulligan")

	_, err = s.Mulligan(ctx, false)
	require.NoError(t, err)
	_, err = s.Mulligan(ctx, true)
	assert.ErrorIs(t, err, ErrIllegalAction, "a side decides once")

	_, err = s.Act(ctx, 999)
	assert.ErrorIs(t, err, ErrIllegalAction)
	_, err = s.ChooseTarget(ctx, "nothing")
	assert.ErrorIs(t, err, ErrIllegalAction)
	_, err = s.Skip(ctx)
	assert.ErrorIs(t, err, ErrIllegalAction)
	_, err = s.Submit(ctx, game.Action{Type: game.ActionPass, Side: game.SideOpponent})
	assert.ErrorIs(t, err, ErrIllegalAction)

	snap, err := s.Submit(ctx, game.Action{Type: game.ActionPass, Side: game.SidePlayer})
	require.NoError(t, err)
	assert.NotNil(t, snap.State)
}

func TestSessionClosed(t *testing.T) {
	s, err := New("closing", testConfig())
	require.NoError(t, err)
	s.Close()
	s.Close()

	_, err = s.State(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSessionHonoursContext(t *testing.T) {
	s := newSession(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.State(ctx)
	assert.Error(t, err)
}

func TestConcurrentReadersAreSerialized(t *testing.T) {
	s := newSession(t, testConfig())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := s.State(context.Background())
			assert.NoError(t, err)
			assert.NotNil(t, snap)
		}()
	}
	wg.Wait()
}

func TestSessionMirrorsEvents(t *testing.T) {
	cfg := testConfig()
	mem := log.NewMemoryLogger()
	cfg.EventLog = mem
	s := newSession(t, cfg)

	_, err := s.Mulligan(context.Background(), false)
	require.NoError(t, err)
	decisions := len(mem.EventsOfType(log.EventKeepHand)) + len(mem.EventsOfType(log.EventMulligan))
	assert.Equal(t, 2, decisions)
}

func TestHumanAsSecondSeat(t *testing.T) {
	cfg := testConfig()
	cfg.Human = game.SideOpponent
	s := newSession(t, cfg)
	assert.Equal(t, game.SideOpponent, s.Human())

	snap, err := s.Mulligan(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "opponent", snap.State.Side)
	assert.True(t, snap.State.IsYourTurn || snap.GameOver)
	names := make([]string, 0, len(snap.State.You.Hand))
	for _, c := range snap.State.You.Hand {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "Kakashi Hatake", "the human keeps their own deck")
}

func TestTutorialProgress(t *testing.T) {
	script, err := tutorial.ParseScript([]byte(`
name: Basics
steps:
  - instruction: Keep your hand.
    expect: KEEP_HAND
  - instruction: Pass.
    expect: PASS
`))
	require.NoError(t, err)
	cfg := testConfig()
	cfg.Tutorial = script
	s := newSession(t, cfg)
	ctx := context.Background()

	snap, err := s.State(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap.Tutorial)
	assert.Equal(t, "Keep your hand.", snap.Tutorial.Instruction)

	snap, err = s.Mulligan(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Tutorial.Step)
	assert.Equal(t, "Pass.", snap.Tutorial.Instruction)

	snap, err = s.Act(ctx, passIndex(t, snap))
	require.NoError(t, err)
	assert.True(t, snap.Tutorial.Done)
	assert.Equal(t, 2, snap.Tutorial.Steps)
}

func TestManager(t *testing.T) {
	m := NewManager(nil)
	a, err := m.Create(testConfig())
	require.NoError(t, err)
	b, err := m.Create(testConfig())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Len(t, m.IDs(), 2)

	got, err := m.Get(a.ID())
	require.NoError(t, err)
	assert.Same(t, a, got)

	require.NoError(t, m.Close(a.ID()))
	_, err = m.Get(a.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.Close(a.ID()), ErrNotFound)

	m.CloseAll()
	assert.Empty(t, m.IDs())
	_, err = b.State(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}
