// Package mcp exposes games against the AI as MCP tools, so an external agent can play
// (or a human through an MCP client). Each start_game call opens a session; later calls
// name it with session_id or fall back to the most recent one.
package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/Hakiick/narutomythos-sub000/internal/ai"
	"github.com/Hakiick/narutomythos-sub000/internal/game"
	"github.com/Hakiick/narutomythos-sub000/internal/session"
	"github.com/Hakiick/narutomythos-sub000/internal/tutorial"
)

// Options configures a Server.
type Options struct {
	Engine     *game.Engine
	Decks      []game.Deck
	Tutorial   *tutorial.Script // nil disables tutorial games
	Difficulty ai.Difficulty    // default for start_game
	Seed       int64            // base AI seed; each game adds its ordinal
	Locale     string
	Logger     *zap.Logger
}

// Server holds the sessions started through MCP tools.
type Server struct {
	opts     Options
	sessions *session.Manager
	logger   *zap.Logger

	mu      sync.Mutex
	current string
	games   int64
}

// NewServer creates a server. Call Register to add its tools to an MCP server.
func NewServer(opts Options) (*Server, error) {
	if opts.Engine == nil {
		return nil, errors.New("mcp: engine is required")
	}
	if len(opts.Decks) == 0 {
		return nil, errors.New("mcp: no decks loaded")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Difficulty == "" {
		opts.Difficulty = ai.Medium
	}
	if opts.Locale == "" {
		opts.Locale = game.DefaultLocale
	}
	return &Server{
		opts:     opts,
		sessions: session.NewManager(opts.Logger),
		logger:   opts.Logger.Named("mcp"),
	}, nil
}

// NewMCPServer builds an MCP server with every game tool registered.
func (s *Server) NewMCPServer(version string) *server.MCPServer {
	ms := server.NewMCPServer("narutomythos", version)
	s.Register(ms)
	return ms
}

// Close ends every running game.
func (s *Server) Close() {
	s.sessions.CloseAll()
}

// session returns the named session, or the most recent one when id is empty.
func (s *Server) session(id string) (*session.Session, error) {
	if id == "" {
		s.mu.Lock()
		id = s.current
		s.mu.Unlock()
		if id == "" {
			return nil, errors.New("no game is running; use start_game first")
		}
	}
	return s.sessions.Get(id)
}

func (s *Server) deck(n int) (game.Deck, error) {
	if n < 1 || n > len(s.opts.Decks) {
		return game.Deck{}, fmt.Errorf("deck %d not found (have %d decks)", n, len(s.opts.Decks))
	}
	return s.opts.Decks[n-1], nil
}

// respondJSON marshals a tool response to a JSON string.
func respondJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
