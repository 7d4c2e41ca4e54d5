package web

import (
	"github.com/Hakiick/narutomythos-sub000/internal/game"
	"github.com/Hakiick/narutomythos-sub000/internal/view"
)

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
type DeckInfo struct {
	Number   int             `json:"number"`
	Name     string          `json:"name"`
	Size     int             `json:"size"`
	Cards    []DeckCard      `json:"cards"`
	Missions []view.CardView `json:"missions"`
	Valid    bool            `json:"valid"`
	Problem  string          `json:"problem,omitempty"`
}

// DeckCard is one distinct card of a deck with its copy count.
type DeckCard struct {
	view.CardView
	Count int `json:"count"`
}

func deckInfos(decks []game.Deck, locale string) []DeckInfo {
	out := make([]DeckInfo, 0, len(decks))
	for i, d := range decks {
		di := DeckInfo{Number: i + 1, Name: d.Name, Size: len(d.Cards), Valid: true}
		if err := game.ValidateDeck(d); err != nil {
			di.Valid = false
			di.Problem = err.Error()
		}
		index := make(map[string]int)
		for _, c := range d.Cards {
			if j, ok := index[c.ID]; ok {
				di.Cards[j].Count++
				continue
			}
			index[c.ID] = len(di.Cards)
			di.Cards = append(di.Cards, DeckCard{CardView: view.CatalogCardView(c, locale), Count: 1})
		}
		for _, m := range d.Missions {
			di.Missions = append(di.Missions, view.CatalogCardView(m, locale))
		}
		out = append(out, di)
	}
	return out
}
