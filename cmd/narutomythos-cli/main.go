package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Hakiick/narutomythos-sub000/internal/ai"
	"github.com/Hakiick/narutomythos-sub000/internal/cli"
	"github.com/Hakiick/narutomythos-sub000/internal/config"
	"github.com/Hakiick/narutomythos-sub000/internal/game"
	"github.com/Hakiick/narutomythos-sub000/internal/log"
	"github.com/Hakiick/narutomythos-sub000/internal/session"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	cmd := os.Args[1]
	switch cmd {
	case "play":
		err = runPlay(cfg, os.Args[2:], false)
	case "tutorial":
		err = runPlay(cfg, os.Args[2:], true)
	case "decks":
		err = runDecks(cfg, os.Args[2:])
	case "simulate":
		err = runSimulate(cfg, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fatal(err)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  narutomythos play [--deck N] [--ai-deck M] [--difficulty D] [--seat player|opponent]")
	fmt.Println("  narutomythos tutorial")
	fmt.Println("  narutomythos decks")
	fmt.Println("  narutomythos simulate [--deck N] [--ai-deck M] [--games G] [-v]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  play      Play a game against the AI in the terminal")
	fmt.Println("  tutorial  Play the guided first game")
	fmt.Println("  decks     List the decks and check their construction")
	fmt.Println("  simulate  Let two AIs play each other and report the results")
	fmt.Println()
	fmt.Println("Files and defaults come from NARUTO_* environment variables.")
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// setup loads everything a game needs. Flags override the environment.
func setup(cfg config.Config) (*zap.Logger, *game.Engine, []game.Deck, error) {
	logger, err := cfg.Logger()
	if err != nil {
		return nil, nil, nil, err
	}
	engine, err := cfg.Engine(logger)
	if err != nil {
		return nil, nil, nil, err
	}
	cat, err := cfg.LoadCatalog()
	if err != nil {
		return nil, nil, nil, err
	}
	decks, err := cfg.LoadDecks(cat)
	if err != nil {
		return nil, nil, nil, err
	}
	return logger, engine, decks, nil
}

func pickDeck(decks []game.Deck, n int) (game.Deck, error) {
	if n < 1 || n > len(decks) {
		return game.Deck{}, fmt.Errorf("deck %d not found (have %d decks)", n, len(decks))
	}
	return decks[n-1], nil
}

func runPlay(cfg config.Config, args []string, guided bool) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	deck := fs.Int("deck", 1, "your deck number (from the decks file)")
	aiDeck := fs.Int("ai-deck", 2, "the AI's deck number")
	difficulty := fs.String("difficulty", cfg.Difficulty, "AI difficulty: easy, medium, hard, expert")
	seat := fs.String("seat", "player", "your seat: player or opponent")
	seed := fs.Int64("seed", cfg.Seed, "game seed (0 = random)")
	locale := fs.String("locale", cfg.Locale, "card name language")
	logFile := fs.String("log", "", "also write the game log to this file")
	fs.Parse(args)

	cfg.Seed = *seed
	d, err := ai.ParseDifficulty(*difficulty)
	if err != nil {
		return err
	}
	logger, engine, decks, err := setup(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	scfg := session.Config{
		Engine:     engine,
		Human:      game.Side(*seat),
		Difficulty: d,
		AISeed:     cfg.Seed,
		Locale:     *locale,
		Logger:     logger,
	}
	if guided {
		script, err := cfg.LoadTutorial()
		if err != nil {
			return err
		}
		scfg.Tutorial = script
		*deck, *aiDeck = script.PlayerDeck, script.AIDeck
		scfg.Difficulty = ai.Easy
	}
	if scfg.HumanDeck, err = pickDeck(decks, *deck); err != nil {
		return err
	}
	if scfg.AIDeck, err = pickDeck(decks, *aiDeck); err != nil {
		return err
	}
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			return fmt.Errorf("open game log: %w", err)
		}
		defer f.Close()
		scfg.EventLog = log.NewTextLogger(f)
	}

	sess, err := session.New("local", scfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	repl := cli.NewREPL(sess, os.Stdin, os.Stdout)
	if err := repl.Run(ctx); err != nil {
		return err
	}
	return nil
}

func runDecks(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("decks", flag.ExitOnError)
	locale := fs.String("locale", cfg.Locale, "card name language")
	fs.Parse(args)

	_, _, decks, err := setup(cfg)
	if err != nil {
		return err
	}
	for i, d := range decks {
		status := "ok"
		if err := game.ValidateDeck(d); err != nil {
			status = err.Error()
		}
		fmt.Printf("%d) %s: %d cards, %d missions [%s]\n", i+1, d.Name, len(d.Cards), len(d.Missions), status)
		for _, m := range d.Missions {
			fmt.Printf("     mission: %s\n", m.Names.Get(*locale))
		}
	}
	return nil
}

func runSimulate(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	deck := fs.Int("deck", 1, "first AI's deck number")
	aiDeck := fs.Int("ai-deck", 2, "second AI's deck number")
	games := fs.Int("games", 10, "number of games")
	difficulty := fs.String("difficulty", cfg.Difficulty, "difficulty of the first AI")
	opponent := fs.String("opponent-difficulty", cfg.Difficulty, "difficulty of the second AI")
	verbose := fs.Bool("v", false, "print every game's log")
	fs.Parse(args)

	d1, err := ai.ParseDifficulty(*difficulty)
	if err != nil {
		return err
	}
	d2, err := ai.ParseDifficulty(*opponent)
	if err != nil {
		return err
	}
	logger, engine, decks, err := setup(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()
	p, err := pickDeck(decks, *deck)
	if err != nil {
		return err
	}
	o, err := pickDeck(decks, *aiDeck)
	if err != nil {
		return err
	}

	wins := map[game.Outcome]int{}
	for g := 0; g < *games; g++ {
		seed := cfg.Seed + int64(g)
		s := engine.InitializeGame(p.Cards, p.Missions, o.Cards, o.Missions)
		a := ai.New(engine, ai.Config{Side: game.SidePlayer, Difficulty: d1, Seed: seed, Logger: logger})
		b := ai.New(engine, ai.Config{Side: game.SideOpponent, Difficulty: d2, Seed: seed + 1, Logger: logger})
		end, err := ai.PlayOut(s, a, b, 10000)
		if err != nil {
			return fmt.Errorf("game %d: %w", g+1, err)
		}
		if *verbose {
			fmt.Print(log.FormatAll(end.EffectLog))
		}
		wins[end.Winner]++
		fmt.Printf("game %d: %s %d - %d %s (%s)\n", g+1, p.Name, end.Player.MissionPoints, end.Opponent.MissionPoints, o.Name, end.Winner)
	}
	fmt.Printf("\n%s (%s): %d  %s (%s): %d  ties: %d\n",
		p.Name, d1, wins[game.OutcomePlayer], o.Name, d2, wins[game.OutcomeOpponent], wins[game.OutcomeTie])
	return nil
}
