// Package cli is a terminal front end: it renders a session's snapshots as text and reads
// numbered choices from the player.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Hakiick/narutomythos-sub000/internal/session"
	"github.com/Hakiick/narutomythos-sub000/internal/view"
)

// errQuit ends the REPL at the player's request.
var errQuit = errors.New("quit")

// REPL plays one session in a terminal.
type REPL struct {
	sess   *session.Session
	in     *bufio.Reader
	out    io.Writer
	result string
}

// NewREPL creates a REPL reading choices from in and writing the board to out.
func NewREPL(sess *session.Session, in io.Reader, out io.Writer) *REPL {
	return &REPL{sess: sess, in: bufio.NewReader(in), out: out}
}

// Result is the final winner line once the game ended.
func (r *REPL) Result() string {
	return r.result
}

// Run loops until the game ends, the player types q or input runs out.
func (r *REPL) Run(ctx context.Context) error {
	snap, err := r.sess.State(ctx)
	if err != nil {
		return err
	}
	for {
		r.renderEvents(snap.Events)
		if snap.GameOver {
			r.renderGameOver(snap)
			return nil
		}
		r.renderState(snap)

		next, err := r.decide(ctx, snap)
		switch {
		case errors.Is(err, errQuit), errors.Is(err, io.EOF):
			fmt.Fprintln(r.out, "Bye.")
			return nil
		case errors.Is(err, session.ErrIllegalAction):
			fmt.Fprintf(r.out, "Not allowed: %v\n", err)
			if next, err = r.sess.State(ctx); err != nil {
				return err
			}
		case err != nil:
			return err
		}
		snap = next
	}
}

// decide asks for the one decision the snapshot is waiting on and sends it.
func (r *REPL) decide(ctx context.Context, snap *session.Snapshot) (*session.Snapshot, error) {
	sv := snap.State
	switch {
	case sv.Phase == "MULLIGAN":
		fmt.Fprint(r.out, "\nKeep this hand? (y/n) ")
		keep, err := r.readYesNo()
		if err != nil {
			return nil, err
		}
		return r.sess.Mulligan(ctx, !keep)

	case sv.Pending != nil && sv.Pending.Yours:
		p := sv.Pending
		fmt.Fprintf(r.out, "\n%s: %s\n", p.Effect, p.Description)
		for _, t := range p.Targets {
			fmt.Fprintf(r.out, "  %d) %s\n", t.Index+1, t.Name)
		}
		if p.Optional {
			fmt.Fprintln(r.out, "  0) skip")
		}
		lo := 1
		if p.Optional {
			lo = 0
		}
		n, err := r.readChoice(lo, len(p.Targets))
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return r.sess.Skip(ctx)
		}
		return r.sess.ChooseTarget(ctx, p.Targets[n-1].ID)

	case sv.IsYourTurn:
		r.renderActions(snap.Actions)
		n, err := r.readChoice(1, len(snap.Actions))
		if err != nil {
			return nil, err
		}
		return r.sess.Act(ctx, snap.Actions[n-1].Index)
	}
	return nil, fmt.Errorf("nothing to decide in phase %s", sv.Phase)
}

func (r *REPL) renderEvents(events []view.EventView) {
	for _, ev := range events {
		fmt.Fprintf(r.out, "R%-2d %-16s| %s\n", ev.Round, ev.Type, ev.Details)
	}
}

func (r *REPL) renderState(snap *session.Snapshot) {
	sv := snap.State
	opp, you := sv.Opponent, sv.You
	w := r.out

	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════════╗")
	fmt.Fprintf(w, "║  OPPONENT  Points: %d  Chakra: %d  Hand: %d  Deck: %d%s\n",
		opp.MissionPoints, opp.Chakra, opp.HandCount, opp.DeckCount, edgeMark(opp.HasEdge))
	fmt.Fprintln(w, "║──────────────────────────────────────────────────────")
	for _, lane := range sv.Missions {
		fmt.Fprintf(w, "║  %s\n", formatLane(lane))
		fmt.Fprintf(w, "║     them %2d: %s\n", lane.OpponentPower, formatCharacters(lane.Opponent))
		fmt.Fprintf(w, "║     you  %2d: %s\n", lane.YourPower, formatCharacters(lane.You))
	}
	fmt.Fprintln(w, "║──────────────────────────────────────────────────────")
	fmt.Fprintf(w, "║  YOU       Points: %d  Chakra: %d  Hand: %d  Deck: %d%s\n",
		you.MissionPoints, you.Chakra, you.HandCount, you.DeckCount, edgeMark(you.HasEdge))
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════════╝")

	turnInfo := fmt.Sprintf("Round %d | %s", sv.Round, sv.Phase)
	switch {
	case sv.Phase != "ACTION":
	case sv.IsYourTurn:
		turnInfo += " | Your turn"
	default:
		turnInfo += " | Opponent's turn"
	}
	if sv.PassesInARow > 0 {
		turnInfo += " | last player passed"
	}
	fmt.Fprintln(w, turnInfo)

	if len(you.Hand) > 0 {
		fmt.Fprint(w, "\nHand: ")
		for _, c := range you.Hand {
			fmt.Fprintf(w, "%s  ", formatCard(c))
		}
		fmt.Fprintln(w)
	}
	for _, c := range sv.Revealed {
		fmt.Fprintf(w, "Revealed to you: %s\n", formatCard(c))
	}
	if t := snap.Tutorial; t != nil && !t.Done {
		fmt.Fprintf(w, "\nTutorial %d/%d: %s\n", t.Step+1, t.Steps, t.Instruction)
	}
}

func edgeMark(edge bool) string {
	if edge {
		return "  [EDGE]"
	}
	return ""
}

func formatLane(l view.LaneView) string {
	name := "?"
	if l.Mission != nil {
		name = l.Mission.Name
	}
	s := fmt.Sprintf("[%s] %s (%d pts)", l.Rank, name, l.Points)
	switch {
	case l.Resolved && l.Winner != "":
		s += " won by " + l.Winner
	case l.Resolved:
		s += " tied"
	case l.Active:
		s += " <- active"
	}
	return s
}

func formatCharacters(chars []view.CharacterView) string {
	if len(chars) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(chars))
	for _, c := range chars {
		switch {
		case c.Hidden && c.Name == "":
			parts = append(parts, "[hidden]")
		case c.Hidden:
			parts = append(parts, fmt.Sprintf("[%s hidden/%d]", c.Name, c.PrintedPower))
		default:
			parts = append(parts, fmt.Sprintf("[%s %d]", c.Name, c.Power))
		}
	}
	return strings.Join(parts, " ")
}

func formatCard(c view.CardView) string {
	if c.Type == "JUTSU" {
		return fmt.Sprintf("[%s c%d]", c.Name, c.Chakra)
	}
	return fmt.Sprintf("[%s c%d/p%d]", c.Name, c.Chakra, c.Power)
}

func (r *REPL) renderActions(actions []view.ActionView) {
	fmt.Fprintln(r.out, "\nActions:")
	for i, a := range actions {
		fmt.Fprintf(r.out, "  %d) %s\n", i+1, a.Desc)
	}
}

func (r *REPL) renderGameOver(snap *session.Snapshot) {
	sv := snap.State
	switch snap.Winner {
	case sv.Side:
		r.result = "You win!"
	case "tie":
		r.result = "It's a tie."
	default:
		r.result = "The AI wins."
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "═══════════════════════════════════")
	fmt.Fprintln(r.out, "          GAME OVER")
	fmt.Fprintln(r.out, "═══════════════════════════════════")
	fmt.Fprintf(r.out, "%s  %d - %d\n", r.result, sv.You.MissionPoints, sv.Opponent.MissionPoints)
	fmt.Fprintln(r.out, "═══════════════════════════════════")
}

func (r *REPL) readLine() (string, error) {
	fmt.Fprint(r.out, "> ")
	line, err := r.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "q" || line == "quit" {
		return "", errQuit
	}
	return line, nil
}

// readChoice reads a number in [min, max], asking again on bad input.
func (r *REPL) readChoice(min, max int) (int, error) {
	for {
		line, err := r.readLine()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < min || n > max {
			fmt.Fprintf(r.out, "Enter a number between %d and %d (q to quit)\n", min, max)
			continue
		}
		return n, nil
	}
}

func (r *REPL) readYesNo() (bool, error) {
	for {
		line, err := r.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprint(r.out, "Enter y or n: ")
	}
}
