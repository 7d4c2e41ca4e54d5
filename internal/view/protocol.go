package view

// JSON views of a game from one side's seat. Everything a surface (MCP, websocket, CLI)
// shows a human or an agent goes through these types, so hidden information is masked in
// one place.

// StateView is the game state from one side's perspective.
type StateView struct {
	Side       string       `json:"side"`
	Round      int          `json:"round"`
	Phase      string       `json:"phase"`
	Turn       string       `json:"turn"`
	IsYourTurn bool         `json:"is_your_turn"`
	You        PlayerView   `json:"you"`
	Opponent   PlayerView   `json:"opponent"`
	Missions   []LaneView   `json:"missions"`
	Pending    *PendingView `json:"pending,omitempty"`
	Revealed   []CardView   `json:"revealed,omitempty"`
	Winner     string       `json:"winner,omitempty"`

	// PassesInARow is 1 right after a pass: another pass ends the round's actions.
	PassesInARow int `json:"passes_in_a_row"`
}

// PlayerView shows one side's counters and zones.
type PlayerView struct {
	Chakra        int        `json:"chakra"`
	MissionPoints int        `json:"mission_points"`
	HasEdge       bool       `json:"has_edge"`
	HandCount     int        `json:"hand_count"`
	Hand          []CardView `json:"hand,omitempty"` // only for "you"
	DeckCount     int        `json:"deck_count"`
	Discard       []CardView `json:"discard,omitempty"`
	HiddenCount   int        `json:"hidden_count"`
}

// LaneView describes one mission lane.
type LaneView struct {
	Index         int             `json:"index"`
	ID            string          `json:"id"`
	Rank          string          `json:"rank"`
	Points        int             `json:"points"`
	Active        bool            `json:"active,omitempty"`
	Revealed      bool            `json:"revealed"`
	Mission       *CardView       `json:"mission,omitempty"`
	You           []CharacterView `json:"you"`
	Opponent      []CharacterView `json:"opponent"`
	YourPower     int             `json:"your_power"`
	OpponentPower int             `json:"opponent_power"`
	Resolved      bool            `json:"resolved,omitempty"`
	Winner        string          `json:"winner,omitempty"`
}

// CharacterView is a deployed character. Hidden enemy characters only show their instance ID.
type CharacterView struct {
	InstanceID   string `json:"instance_id"`
	CardID       string `json:"card_id,omitempty"`
	Name         string `json:"name,omitempty"`
	Hidden       bool   `json:"hidden,omitempty"`
	Power        int    `json:"power"`
	PrintedPower int    `json:"printed_power,omitempty"`
	PrintedCost  int    `json:"cost,omitempty"`
	PowerTokens  int    `json:"power_tokens,omitempty"`
	Upgrades     int    `json:"upgrades,omitempty"`
	Effect       string `json:"effect,omitempty"`
}

// CardView describes a card in a hand, discard pile or a revealed set.
type CardView struct {
	InstanceID string   `json:"instance_id,omitempty"`
	CardID     string   `json:"card_id"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Chakra     int      `json:"chakra,omitempty"`
	Power      int      `json:"power,omitempty"`
	Group      string   `json:"group,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
	Effect     string   `json:"effect,omitempty"`
}

// PendingView is an effect waiting for a decision.
type PendingView struct {
	ID          string       `json:"id"`
	Effect      string       `json:"effect"`
	Description string       `json:"description"`
	Step        string       `json:"step"`
	Value       int          `json:"value,omitempty"`
	Optional    bool         `json:"optional,omitempty"`
	Yours       bool         `json:"yours"`
	Targets     []TargetView `json:"targets,omitempty"`
}

// TargetView is one choice offered by a pending effect.
type TargetView struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Kind  string `json:"kind"` // character, card or mission
}

// ActionView is a numbered action choice.
type ActionView struct {
	Index            int    `json:"index"`
	Type             string `json:"type"`
	CardInstanceID   string `json:"card_instance_id,omitempty"`
	TargetInstanceID string `json:"target_instance_id,omitempty"`
	MissionIndex     int    `json:"mission_index"`
	Cost             int    `json:"cost"`
	Desc             string `json:"desc"`
}

// EventView is a log entry as one side may see it.
type EventView struct {
	ID      string `json:"id"`
	Round   int    `json:"round"`
	Type    string `json:"type"`
	Side    string `json:"side,omitempty"`
	Action  string `json:"action,omitempty"`
	Source  string `json:"source,omitempty"`
	Target  string `json:"target,omitempty"`
	Value   int    `json:"value,omitempty"`
	Details string `json:"details"`
}
