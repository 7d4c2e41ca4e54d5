package game

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Deck construction limits.
const (
	DeckSize     = 30
	MissionCount = 3
	MaxCopies    = 2
)

// ErrInvalidDeck is returned by ValidateDeck.
var ErrInvalidDeck = errors.New("invalid deck")

// DeckFile represents the top-level YAML structure.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry represents a single deck in the YAML file.
type DeckEntry struct {
	Name     string          `yaml:"name"`
	Cards    []DeckCardEntry `yaml:"cards"`
	Missions []string        `yaml:"missions"`
}

// DeckCardEntry represents a card and its count in a deck.
type DeckCardEntry struct {
	ID    string `yaml:"id"`
	Count int    `yaml:"count"`
}

// Deck is a resolved deck ready for InitializeGame.
type Deck struct {
	Name     string
	Cards    []*Card
	Missions []*Card
}

// LoadDecks reads every deck from a YAML deck file.
func LoadDecks(path string, catalog *Catalog) ([]Deck, error) {
	df, err := readDeckFile(path)
	if err != nil {
		return nil, err
	}
	decks := make([]Deck, 0, len(df.Decks))
	for _, entry := range df.Decks {
		d, err := entry.resolve(catalog)
		if err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, nil
}

// DeckByNumber returns the Nth deck (1-indexed) from the deck file.
func DeckByNumber(path string, n int, catalog *Catalog) (Deck, error) {
	df, err := readDeckFile(path)
	if err != nil {
		return Deck{}, err
	}
	if n < 1 || n > len(df.Decks) {
		return Deck{}, fmt.Errorf("deck %d not found (have %d decks)", n, len(df.Decks))
	}
	return df.Decks[n-1].resolve(catalog)
}

func readDeckFile(path string) (DeckFile, error) {
	var df DeckFile
	data, err := os.ReadFile(path)
	if err != nil {
		return df, err
	}
	if err := yaml.Unmarshal(data, &df); err != nil {
		return df, fmt.Errorf("parse deck YAML: %w", err)
	}
	return df, nil
}

func (de DeckEntry) resolve(catalog *Catalog) (Deck, error) {
	d := Deck{Name: de.Name}
	for _, entry := range de.Cards {
		card, ok := catalog.Lookup(entry.ID)
		if !ok {
			return Deck{}, fmt.Errorf("deck %q: card %q not in catalog", de.Name, entry.ID)
		}
		for i := 0; i < entry.Count; i++ {
			d.Cards = append(d.Cards, card)
		}
	}
	for _, id := range de.Missions {
		card, ok := catalog.Lookup(id)
		if !ok {
			return Deck{}, fmt.Errorf("deck %q: mission %q not in catalog", de.Name, id)
		}
		d.Missions = append(d.Missions, card)
	}
	return d, nil
}

// ValidateDeck checks construction rules: exactly 30 non-mission cards, exactly 3 missions,
// at most 2 copies of any card. The engine never calls it; it is for deck builders.
func ValidateDeck(d Deck) error {
	if len(d.Cards) != DeckSize {
		return fmt.Errorf("%w: %q has %d cards, want %d", ErrInvalidDeck, d.Name, len(d.Cards), DeckSize)
	}
	if len(d.Missions) != MissionCount {
		return fmt.Errorf("%w: %q has %d missions, want %d", ErrInvalidDeck, d.Name, len(d.Missions), MissionCount)
	}
	counts := make(map[string]int)
	for _, c := range d.Cards {
		if c.Type == CardTypeMission {
			return fmt.Errorf("%w: %q lists mission %s among its cards", ErrInvalidDeck, d.Name, c.ID)
		}
		counts[c.ID]++
		if counts[c.ID] > MaxCopies {
			return fmt.Errorf("%w: %q has more than %d copies of %s", ErrInvalidDeck, d.Name, MaxCopies, c.ID)
		}
	}
	seen := make(map[string]bool)
	for _, m := range d.Missions {
		if m.Type != CardTypeMission {
			return fmt.Errorf("%w: %q lists %s as a mission", ErrInvalidDeck, d.Name, m.ID)
		}
		if seen[m.ID] {
			return fmt.Errorf("%w: %q repeats mission %s", ErrInvalidDeck, d.Name, m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}
