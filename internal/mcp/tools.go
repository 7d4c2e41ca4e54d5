package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/Hakiick/narutomythos-sub000/internal/ai"
	"github.com/Hakiick/narutomythos-sub000/internal/game"
	"github.com/Hakiick/narutomythos-sub000/internal/session"
	"github.com/Hakiick/narutomythos-sub000/internal/view"
)

// Register adds all game tools to the MCP server.
func (s *Server) Register(ms *server.MCPServer) {
	ms.AddTool(startGameTool(), s.handleStartGame)
	ms.AddTool(getGameStateTool(), s.handleGetGameState)
	ms.AddTool(mulliganTool(), s.handleMulligan)
	ms.AddTool(takeActionTool(), s.handleTakeAction)
	ms.AddTool(chooseTargetTool(), s.handleChooseTarget)
	ms.AddTool(skipEffectTool(), s.handleSkipEffect)
	ms.AddTool(endGameTool(), s.handleEndGame)
	ms.AddTool(listDecksTool(), s.handleListDecks)
}

// --- Tool definitions ---

func sessionParam() mcp.ToolOption {
	return mcp.WithString("session_id", mcp.Description("Game to act on; defaults to the most recently started game"))
}

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new Naruto Mythos game against the AI. Returns the game id, the initial state "+
			"and, once both hands are kept, the numbered list of available actions. "+
			"The game opens with a mulligan decision: call `mulligan` first."),
		mcp.WithNumber("deck", mcp.Description("Your deck number (1-indexed, see list_decks). Default 1.")),
		mcp.WithNumber("ai_deck", mcp.Description("The AI's deck number. Default 2, or 1 if only one deck exists.")),
		mcp.WithString("difficulty", mcp.Description("AI difficulty: easy, medium, hard or expert")),
		mcp.WithString("seat", mcp.Description("Your seat: player (default) or opponent")),
		mcp.WithBoolean("tutorial", mcp.Description("Play the scripted tutorial game instead")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current game state, events since the last call and available actions. Read-only."),
		sessionParam(),
	)
}

func mulliganTool() mcp.Tool {
	return mcp.NewTool("mulligan",
		mcp.WithDescription("Decide your opening hand: mulligan=true draws a new hand, false keeps it. Once per game."),
		mcp.WithBoolean("mulligan", mcp.Required(), mcp.Description("true to mulligan, false to keep")),
		sessionParam(),
	)
}

func takeActionTool() mcp.Tool {
	return mcp.NewTool("take_action",
		mcp.WithDescription("Take one of the available actions on your turn. The AI replies before this returns."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index of the action in the actions list")),
		sessionParam(),
	)
}

func chooseTargetTool() mcp.Tool {
	return mcp.NewTool("choose_target",
		mcp.WithDescription("Resolve your pending effect with one of its listed targets."),
		mcp.WithString("target", mcp.Required(), mcp.Description("Target id from state.pending.targets")),
		sessionParam(),
	)
}

func skipEffectTool() mcp.Tool {
	return mcp.NewTool("skip_effect",
		mcp.WithDescription("Decline your pending effect. Only optional effects can be skipped."),
		sessionParam(),
	)
}

func endGameTool() mcp.Tool {
	return mcp.NewTool("end_game",
		mcp.WithDescription("Abandon a game and free its session."),
		sessionParam(),
	)
}

func listDecksTool() mcp.Tool {
	return mcp.NewTool("list_decks",
		mcp.WithDescription("List the numbered decks available to start_game."),
	)
}

// --- Tool handlers ---

func (s *Server) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deckNo := request.GetInt("deck", 1)
	aiDeckNo := request.GetInt("ai_deck", 2)
	if aiDeckNo > len(s.opts.Decks) {
		aiDeckNo = 1
	}

	difficulty := s.opts.Difficulty
	if d := request.GetString("difficulty", ""); d != "" {
		var err error
		if difficulty, err = ai.ParseDifficulty(d); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	seat := game.Side(strings.ToLower(request.GetString("seat", string(game.SidePlayer))))
	if !seat.Valid() {
		return mcp.NewToolResultErrorf("seat must be player or opponent, got %q", seat), nil
	}

	cfg := session.Config{
		Engine:     s.opts.Engine,
		Human:      seat,
		Difficulty: difficulty,
		Locale:     s.opts.Locale,
		Logger:     s.logger,
	}
	if request.GetBool("tutorial", false) {
		if s.opts.Tutorial == nil {
			return mcp.NewToolResultError("No tutorial is configured."), nil
		}
		cfg.Tutorial = s.opts.Tutorial
		deckNo, aiDeckNo = s.opts.Tutorial.PlayerDeck, s.opts.Tutorial.AIDeck
	}

	var err error
	if cfg.HumanDeck, err = s.deck(deckNo); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if cfg.AIDeck, err = s.deck(aiDeckNo); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	s.games++
	cfg.AISeed = s.opts.Seed + s.games
	s.mu.Unlock()

	sess, err := s.sessions.Create(cfg)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}
	s.mu.Lock()
	s.current = sess.ID()
	s.mu.Unlock()

	snap, err := sess.State(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error reading the new game: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(snap)), nil
}

// play runs one session command and renders the result.
func (s *Server) play(ctx context.Context, request mcp.CallToolRequest, cmd func(*session.Session) (*session.Snapshot, error)) (*mcp.CallToolResult, error) {
	sess, err := s.session(request.GetString("session_id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap, err := cmd(sess)
	switch {
	case errors.Is(err, session.ErrIllegalAction):
		return mcp.NewToolResultErrorf("Not allowed now: %v. Call get_game_state to see the legal moves.", err), nil
	case err != nil:
		return mcp.NewToolResultErrorf("Error: %v", err), nil
	}
	if snap.GameOver {
		s.logger.Info("game over", zap.String("session", sess.ID()), zap.String("winner", snap.Winner))
	}
	return mcp.NewToolResultText(respondJSON(snap)), nil
}

func (s *Server) handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.play(ctx, request, func(sess *session.Session) (*session.Snapshot, error) {
		return sess.State(ctx)
	})
}

func (s *Server) handleMulligan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mulligan := request.GetBool("mulligan", false)
	return s.play(ctx, request, func(sess *session.Session) (*session.Snapshot, error) {
		return sess.Mulligan(ctx, mulligan)
	})
}

func (s *Server) handleTakeAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index := request.GetInt("index", -1)
	if index < 0 {
		return mcp.NewToolResultError("index must be >= 0"), nil
	}
	return s.play(ctx, request, func(sess *session.Session) (*session.Snapshot, error) {
		return sess.Act(ctx, index)
	})
}

func (s *Server) handleChooseTarget(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target := request.GetString("target", "")
	if target == "" {
		return mcp.NewToolResultError("target is required"), nil
	}
	return s.play(ctx, request, func(sess *session.Session) (*session.Snapshot, error) {
		return sess.ChooseTarget(ctx, target)
	})
}

func (s *Server) handleSkipEffect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.play(ctx, request, func(sess *session.Session) (*session.Snapshot, error) {
		return sess.Skip(ctx)
	})
}

func (s *Server) handleEndGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session(request.GetString("session_id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.sessions.Close(sess.ID()); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.mu.Lock()
	if s.current == sess.ID() {
		s.current = ""
	}
	s.mu.Unlock()
	return mcp.NewToolResultText(respondJSON(map[string]string{"ended": sess.ID()})), nil
}

type deckSummary struct {
	Number   int             `json:"number"`
	Name     string          `json:"name"`
	Cards    int             `json:"cards"`
	Missions []view.CardView `json:"missions"`
}

func (s *Server) handleListDecks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := make([]deckSummary, 0, len(s.opts.Decks))
	for i, d := range s.opts.Decks {
		ds := deckSummary{Number: i + 1, Name: d.Name, Cards: len(d.Cards)}
		for _, m := range d.Missions {
			ds.Missions = append(ds.Missions, view.CatalogCardView(m, s.opts.Locale))
		}
		out = append(out, ds)
	}
	return mcp.NewToolResultText(respondJSON(out)), nil
}
