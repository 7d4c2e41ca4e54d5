package game

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// CatalogFile represents the top-level catalog YAML structure.
type CatalogFile struct {
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry is a card as written in the catalog.
type CardEntry struct {
	ID       string            `yaml:"id"`
	Names    map[string]string `yaml:"names"`
	Type     string            `yaml:"type"`
	Rarity   string            `yaml:"rarity"`
	Chakra   *int              `yaml:"chakra"`
	Power    *int              `yaml:"power"`
	Keywords []string          `yaml:"keywords"`
	Group    string            `yaml:"group"`
	Effect   map[string]string `yaml:"effect"`
	Set      string            `yaml:"set"`
	Number   int               `yaml:"number"`
}

// Catalog maps card IDs to their definitions.
type Catalog struct {
	cards map[string]*Card
	order []string
}

// NewCatalog builds a catalog from card definitions. Later duplicates replace earlier ones.
func NewCatalog(cards ...*Card) *Catalog {
	c := &Catalog{cards: make(map[string]*Card)}
	for _, card := range cards {
		c.Add(card)
	}
	return c
}

// Add registers a card.
func (c *Catalog) Add(card *Card) {
	if _, ok := c.cards[card.ID]; !ok {
		c.order = append(c.order, card.ID)
	}
	c.cards[card.ID] = card
}

// Lookup returns the card with the given ID.
func (c *Catalog) Lookup(id string) (*Card, bool) {
	card, ok := c.cards[id]
	return card, ok
}

// Cards returns every card in catalog order.
func (c *Catalog) Cards() []*Card {
	out := make([]*Card, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.cards[id])
	}
	return out
}

// Len returns the number of cards.
func (c *Catalog) Len() int {
	return len(c.cards)
}

// IDs returns every card ID sorted.
func (c *Catalog) IDs() []string {
	ids := append([]string(nil), c.order...)
	sort.Strings(ids)
	return ids
}

// LoadCatalog reads a YAML card catalog.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

// ParseCatalog parses catalog YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var cf CatalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}
	c := NewCatalog()
	for i, entry := range cf.Cards {
		card, err := entry.toCard()
		if err != nil {
			return nil, fmt.Errorf("catalog card %d (%s): %w", i+1, entry.ID, err)
		}
		c.Add(card)
	}
	return c, nil
}

func (ce CardEntry) toCard() (*Card, error) {
	if ce.ID == "" {
		return nil, fmt.Errorf("missing id")
	}
	ct, err := ParseCardType(ce.Type)
	if err != nil {
		return nil, err
	}
	card := &Card{
		ID:       ce.ID,
		Names:    LocalizedText(ce.Names),
		Type:     ct,
		Rarity:   ce.Rarity,
		Keywords: ce.Keywords,
		Group:    ce.Group,
		Effect:   LocalizedText(ce.Effect),
		Set:      ce.Set,
		Number:   ce.Number,
	}
	if ct != CardTypeMission {
		card.Chakra = ce.Chakra
		if card.Chakra == nil {
			zero := 0
			card.Chakra = &zero
		}
	}
	if ct == CardTypeCharacter {
		card.Power = ce.Power
		if card.Power == nil {
			zero := 0
			card.Power = &zero
		}
	}
	if card.Names == nil {
		card.Names = LocalizedText{DefaultLocale: ce.ID}
	}
	return card, nil
}
