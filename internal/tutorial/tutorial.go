// Package tutorial walks a new player through a scripted first game. A Script is a list
// of instructions, each waiting for one kind of move; a Tracker follows the player's moves
// and advances when the expected one is made.
package tutorial

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Move kinds besides the engine's action types (PLAY_CHARACTER, PASS, ...).
const (
	KindMulligan = "MULLIGAN"
	KindKeepHand = "KEEP_HAND"
	KindTarget   = "TARGET"
	KindSkip     = "SKIP"
	KindAny      = "ANY"
)

// Step is one instruction and the move that completes it.
type Step struct {
	Instruction string `yaml:"instruction" json:"instruction"`
	Expect      string `yaml:"expect" json:"expect"`                 // move kind
	Card        string `yaml:"card,omitempty" json:"card,omitempty"` // card ID the move must use
	Hint        string `yaml:"hint,omitempty" json:"hint,omitempty"` // shown after a wrong move
}

// Script is a named tutorial.
type Script struct {
	Name       string `yaml:"name"`
	PlayerDeck int    `yaml:"player_deck"` // 1-based deck numbers in the deck file
	AIDeck     int    `yaml:"ai_deck"`
	Steps      []Step `yaml:"steps"`
}

// ParseScript decodes a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse tutorial YAML: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("tutorial %q has no steps", s.Name)
	}
	for i := range s.Steps {
		s.Steps[i].Expect = strings.ToUpper(strings.TrimSpace(s.Steps[i].Expect))
		if s.Steps[i].Expect == "" {
			s.Steps[i].Expect = KindAny
		}
	}
	return &s, nil
}

// LoadScript reads a YAML script from disk.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

// Move is what the player just did.
type Move struct {
	Kind   string // action type or one of the Kind constants
	CardID string
}

// Tracker follows a player through a Script. It is not safe for concurrent use; a game
// session owns one.
type Tracker struct {
	script *Script
	step   int
	missed bool
}

// NewTracker starts at the first step.
func NewTracker(script *Script) *Tracker {
	return &Tracker{script: script}
}

// Observe records a move and reports whether it completed the current step.
func (t *Tracker) Observe(m Move) bool {
	cur, ok := t.Current()
	if !ok {
		return false
	}
	if !matches(cur, m) {
		t.missed = true
		return false
	}
	t.step++
	t.missed = false
	return true
}

func matches(step Step, m Move) bool {
	if step.Expect != KindAny && !strings.EqualFold(step.Expect, m.Kind) {
		return false
	}
	return step.Card == "" || step.Card == m.CardID
}

// Current returns the step waiting to be completed.
func (t *Tracker) Current() (Step, bool) {
	if t.Done() {
		return Step{}, false
	}
	return t.script.Steps[t.step], true
}

// Instruction is the text to show now: the current instruction, followed by its hint
// when the last move did not match.
func (t *Tracker) Instruction() string {
	cur, ok := t.Current()
	if !ok {
		return ""
	}
	if t.missed && cur.Hint != "" {
		return cur.Instruction + " (" + cur.Hint + ")"
	}
	return cur.Instruction
}

// Done reports whether every step is complete.
func (t *Tracker) Done() bool {
	return t.step >= len(t.script.Steps)
}

// Progress returns the number of completed steps and the total.
func (t *Tracker) Progress() (done, total int) {
	return t.step, len(t.script.Steps)
}

// Name returns the script name.
func (t *Tracker) Name() string {
	return t.script.Name
}
