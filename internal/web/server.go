// Package web serves the card catalog and deck list over HTTP and lets a browser play
// against the AI over a websocket. Each websocket connection owns one game session.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"github.com/Hakiick/narutomythos-sub000/internal/ai"
	"github.com/Hakiick/narutomythos-sub000/internal/game"
	"github.com/Hakiick/narutomythos-sub000/internal/session"
	"github.com/Hakiick/narutomythos-sub000/internal/tutorial"
	"github.com/Hakiick/narutomythos-sub000/internal/view"
)

// Options configures a Server.
type Options struct {
	Engine     *game.Engine
	Catalog    *game.Catalog
	Decks      []game.Deck
	Tutorial   *tutorial.Script
	Difficulty ai.Difficulty
	Seed       int64
	Locale     string
	Logger     *zap.Logger
}

// Server is the HTTP and websocket front end.
type Server struct {
	opts     Options
	sessions *session.Manager
	logger   *zap.Logger
	mux      *http.ServeMux
	games    atomic.Int64
}

// NewServer creates a new web server.
func NewServer(opts Options) (*Server, error) {
	if opts.Engine == nil || opts.Catalog == nil {
		return nil, errors.New("web: engine and catalog are required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Locale == "" {
		opts.Locale = game.DefaultLocale
	}
	if opts.Difficulty == "" {
		opts.Difficulty = ai.Medium
	}
	s := &Server{
		opts:     opts,
		sessions: session.NewManager(opts.Logger),
		logger:   opts.Logger.Named("web"),
		mux:      http.NewServeMux(),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down and ends every game.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		s.sessions.CloseAll()
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.sessions.CloseAll()
	return err
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("write json", zap.Error(err))
	}
}

// handleCards lists the catalog. ?locale=fr picks the name language.
func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = s.opts.Locale
	}
	cards := make([]view.CardView, 0, s.opts.Catalog.Len())
	for _, c := range s.opts.Catalog.Cards() {
		cards = append(cards, view.CatalogCardView(c, locale))
	}
	s.writeJSON(w, cards)
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, deckInfos(s.opts.Decks, s.opts.Locale))
}

// ClientMessage is a command sent by the browser.
type ClientMessage struct {
	Type       string `json:"type"` // start, state, mulligan, action, target, skip
	Deck       int    `json:"deck,omitempty"`
	AIDeck     int    `json:"ai_deck,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Seat       string `json:"seat,omitempty"`
	Tutorial   bool   `json:"tutorial,omitempty"`
	Mulligan   bool   `json:"mulligan,omitempty"`
	Index      int    `json:"index,omitempty"`
	Target     string `json:"target,omitempty"`
}

// ServerMessage is a reply to the browser: a snapshot or an error.
type ServerMessage struct {
	Type     string            `json:"type"` // state or error
	Snapshot *session.Snapshot `json:"snapshot,omitempty"`
	Error    string            `json:"error,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.logger.Warn("websocket accept", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	var sess *session.Session
	defer func() {
		if sess != nil {
			_ = s.sessions.Close(sess.ID())
		}
	}()

	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && !errors.Is(err, context.Canceled) {
				s.logger.Debug("websocket read", zap.Error(err))
			}
			return
		}

		var snap *session.Snapshot
		if msg.Type == "start" {
			if sess != nil {
				_ = s.sessions.Close(sess.ID())
				sess = nil
			}
			sess, err = s.start(msg)
			if err == nil {
				snap, err = sess.State(ctx)
			}
		} else if sess == nil {
			err = errors.New("no game is running; send a start message first")
		} else {
			snap, err = dispatch(ctx, sess, msg)
		}

		reply := ServerMessage{Type: "state", Snapshot: snap}
		if err != nil {
			reply = ServerMessage{Type: "error", Error: err.Error()}
		}
		if err := wsjson.Write(ctx, conn, reply); err != nil {
			s.logger.Debug("websocket write", zap.Error(err))
			return
		}
		if snap != nil && snap.GameOver {
			conn.Close(websocket.StatusNormalClosure, "game ended")
			return
		}
	}
}

func dispatch(ctx context.Context, sess *session.Session, msg ClientMessage) (*session.Snapshot, error) {
	switch msg.Type {
	case "state":
		return sess.State(ctx)
	case "mulligan":
		return sess.Mulligan(ctx, msg.Mulligan)
	case "action":
		return sess.Act(ctx, msg.Index)
	case "target":
		return sess.ChooseTarget(ctx, msg.Target)
	case "skip":
		return sess.Skip(ctx)
	}
	return nil, fmt.Errorf("unknown message type %q", msg.Type)
}

func (s *Server) start(msg ClientMessage) (*session.Session, error) {
	deckNo, aiDeckNo := msg.Deck, msg.AIDeck
	if deckNo == 0 {
		deckNo = 1
	}
	if aiDeckNo == 0 {
		aiDeckNo = 2
		if aiDeckNo > len(s.opts.Decks) {
			aiDeckNo = 1
		}
	}
	difficulty := s.opts.Difficulty
	if msg.Difficulty != "" {
		var err error
		if difficulty, err = ai.ParseDifficulty(msg.Difficulty); err != nil {
			return nil, err
		}
	}
	seat := game.SidePlayer
	if msg.Seat != "" {
		seat = game.Side(strings.ToLower(msg.Seat))
		if !seat.Valid() {
			return nil, fmt.Errorf("seat must be player or opponent, got %q", msg.Seat)
		}
	}

	cfg := session.Config{
		Engine:     s.opts.Engine,
		Human:      seat,
		Difficulty: difficulty,
		AISeed:     s.opts.Seed + s.games.Add(1),
		Locale:     s.opts.Locale,
		Logger:     s.logger,
	}
	if msg.Tutorial {
		if s.opts.Tutorial == nil {
			return nil, errors.New("no tutorial is configured")
		}
		cfg.Tutorial = s.opts.Tutorial
		deckNo, aiDeckNo = s.opts.Tutorial.PlayerDeck, s.opts.Tutorial.AIDeck
	}
	for _, pick := range []struct {
		n   int
		dst *game.Deck
	}{{deckNo, &cfg.HumanDeck}, {aiDeckNo, &cfg.AIDeck}} {
		if pick.n < 1 || pick.n > len(s.opts.Decks) {
			return nil, fmt.Errorf("deck %d not found (have %d decks)", pick.n, len(s.opts.Decks))
		}
		*pick.dst = s.opts.Decks[pick.n-1]
	}
	return s.sessions.Create(cfg)
}
