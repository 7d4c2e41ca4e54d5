package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
cards:
  - id: KS-001
    names: {en: "Naruto Uzumaki - Genin", fr: "Naruto Uzumaki - Genin"}
    type: character
    rarity: C
    chakra: 2
    power: 2
    group: Leaf Village
    keywords: [Team 7]
    effect: {en: "MAIN: Draw 1 card.", fr: "MAIN : Piochez 1 carte."}
  - id: KS-002
    names: {en: "Rasengan"}
    type: jutsu
    chakra: 3
    effect: {en: "MAIN: POWERUP 2."}
  - id: KS-M01
    names: {en: "Escort Mission", fr: "Mission d'escorte"}
    type: mission
  - id: KS-M02
    names: {en: "Chunin Exam"}
    type: mission
  - id: KS-M03
    type: mission
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseCatalog(t *testing.T) {
	cat, err := ParseCatalog([]byte(testCatalog))
	require.NoError(t, err)
	assert.Equal(t, 5, cat.Len())
	assert.Equal(t, []string{"KS-001", "KS-002", "KS-M01", "KS-M02", "KS-M03"}, cat.IDs())

	naruto, ok := cat.Lookup("KS-001")
	require.True(t, ok)
	assert.Equal(t, CardTypeCharacter, naruto.Type)
	assert.Equal(t, 2, naruto.ChakraCost())
	assert.Equal(t, 2, naruto.BasePower())
	assert.Equal(t, "MAIN : Piochez 1 carte.", naruto.Effect.Get("fr"))
	assert.True(t, naruto.HasKeyword("team 7"))

	rasengan, _ := cat.Lookup("KS-002")
	assert.Nil(t, rasengan.Power)

	m3, _ := cat.Lookup("KS-M03")
	assert.Equal(t, "KS-M03", m3.Name(), "missing names fall back to the ID")
	assert.Nil(t, m3.Chakra)

	_, ok = cat.Lookup("nope")
	assert.False(t, ok)
}

func TestParseCatalogErrors(t *testing.T) {
	_, err := ParseCatalog([]byte("cards:\n  - id: X\n    type: spell\n"))
	assert.Error(t, err)
	_, err = ParseCatalog([]byte("cards:\n  - type: character\n"))
	assert.Error(t, err)
	_, err = ParseCatalog([]byte("cards: [unterminated"))
	assert.Error(t, err)
}

func TestLoadDecks(t *testing.T) {
	cat, err := ParseCatalog([]byte(testCatalog))
	require.NoError(t, err)
	path := writeFile(t, "decks.yaml", `
decks:
  - name: Team 7
    cards:
      - {id: KS-001, count: 2}
      - {id: KS-002, count: 1}
    missions: [KS-M01, KS-M02, KS-M03]
  - name: Broken
    cards:
      - {id: KS-999, count: 1}
`)

	_, err = LoadDecks(path, cat)
	assert.ErrorContains(t, err, "KS-999")

	d, err := DeckByNumber(path, 1, cat)
	require.NoError(t, err)
	assert.Equal(t, "Team 7", d.Name)
	assert.Len(t, d.Cards, 3)
	assert.Len(t, d.Missions, 3)

	_, err = DeckByNumber(path, 3, cat)
	assert.Error(t, err)

	_, err = LoadDecks(filepath.Join(t.TempDir(), "missing.yaml"), cat)
	assert.Error(t, err)
}

func TestValidateDeck(t *testing.T) {
	good := Deck{Name: "good", Cards: deckWith("V"), Missions: testMissions("V")}
	assert.NoError(t, ValidateDeck(good))

	short := good
	short.Cards = good.Cards[:29]
	assert.True(t, errors.Is(ValidateDeck(short), ErrInvalidDeck))

	tooMany := good
	tooMany.Cards = append(append([]*Card(nil), good.Cards[:27]...), good.Cards[0], good.Cards[0], good.Cards[1])
	assert.ErrorIs(t, ValidateDeck(tooMany), ErrInvalidDeck)

	noMissions := good
	noMissions.Missions = nil
	assert.ErrorIs(t, ValidateDeck(noMissions), ErrInvalidDeck)

	repeated := good
	repeated.Missions = []*Card{good.Missions[0], good.Missions[0], good.Missions[1]}
	assert.ErrorIs(t, ValidateDeck(repeated), ErrInvalidDeck)
}

func TestLoadRules(t *testing.T) {
	path := writeFile(t, "rules.yaml", "first_actor: alternate\npass_grants_edge: true\nseed: 99\n")
	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, FirstActorAlternate, rules.FirstActor)
	assert.True(t, rules.PassGrantsEdge)
	assert.Equal(t, int64(99), rules.Seed)
	assert.Equal(t, 5, rules.BaseChakra, "unset fields keep their defaults")

	bad := writeFile(t, "bad.yaml", "first_player: whoever\n")
	_, err = LoadRules(bad)
	assert.Error(t, err)
}
