package effect

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Parser turns effect text into structured effects. Implementations must be
// total: every non-empty line yields exactly one ParsedEffect, unrecognised
// lines come back as ActionUnresolved.
type Parser interface {
	Parse(text string) []ParsedEffect
}

// TextParser is the pattern-based parser for English card text.
type TextParser struct{}

// NewTextParser returns the default effect text parser.
func NewTextParser() *TextParser {
	return &TextParser{}
}

var headerRe = regexp.MustCompile(`(?i)^\s*[\[(]?\s*(?:(main|upgrade|ambush|score|continuous)\b|(⧗))\s*[\])]?\s*[:\-–—]?\s*`)

type actionRule struct {
	re     *regexp.Regexp
	action Action
}

// Rules are tried in order; the first match wins. More specific wording
// (protection, restrictions, opponent-side variants) sits ahead of the
// general verbs it contains.
var actionRules = []actionRule{
	{regexp.MustCompile(`\bcopy\b`), ActionCopyEffect},
	{regexp.MustCompile(`take control of`), ActionTakeControl},
	{regexp.MustCompile(`steal (\d+|x|an?|one|two|three) chakra`), ActionStealChakra},
	{regexp.MustCompile(`(?:opponent|opposing player) gains? (\d+|x|an?|one|two|three) chakra`), ActionOpponentGainChakra},
	{regexp.MustCompile(`\bgain (\d+|x|an?|one|two|three) chakra`), ActionGainChakra},
	{regexp.MustCompile(`(?:each|both) players? draws? (\d+|x|an?|one|two|three)`), ActionBothDraw},
	{regexp.MustCompile(`(?:opponent|opposing player) draws? (\d+|x|an?|one|two|three)`), ActionOpponentDraw},
	{regexp.MustCompile(`(?:opponent|opposing player) discards? (\d+|x|an?|one|two|three)`), ActionOpponentDiscard},
	{regexp.MustCompile(`\bdiscard (\d+|x|an?|one|two|three) cards?`), ActionDiscard},
	{regexp.MustCompile(`(?:cannot|can't|can not) (?:be moved|move)`), ActionRestrictMovement},
	{regexp.MustCompile(`(?:cannot|can't|can not) be (?:targeted|defeated|hidden|affected)`), ActionProtection},
	{regexp.MustCompile(`(?:keeps?|retains?) (?:its |their )?power tokens|(?:does not|doesn't) lose (?:its )?power tokens|power tokens are not removed`), ActionRetainPower},
	{regexp.MustCompile(`\bplay\b.*\bfrom your discard pile`), ActionPlayFromDiscard},
	{regexp.MustCompile(`from your discard pile`), ActionRetrieveFromDiscard},
	{regexp.MustCompile(`\bplay (?:a|an|one|1|another) .*\bcharacter|\bplay .*from your hand`), ActionPlayCharacter},
	{regexp.MustCompile(`\bcosts? (\d+|x|an?|one|two|three) (?:less|fewer)|\bpay(?:ing)? (\d+|x|an?|one|two|three) (?:less|fewer)`), ActionCostReduction},
	{regexp.MustCompile(`\bdraws? (\d+|x|an?|one|two|three) cards?`), ActionDraw},
	{regexp.MustCompile(`\bdefeat (?:all|every|each)\b`), ActionDefeatAll},
	{regexp.MustCompile(`\bdefeat\b`), ActionDefeat},
	{regexp.MustCompile(`\bhide (?:all|every|each)\b`), ActionHideAll},
	{regexp.MustCompile(`\bhide\b`), ActionHide},
	{regexp.MustCompile(`\bset\b.*\bpower\b.*\bto 0\b|\bpower (?:becomes|is) 0\b`), ActionSetPowerZero},
	{regexp.MustCompile(`\bremove (?:(\d+|x|all|an?|one|two|three) )?power`), ActionRemovePower},
	{regexp.MustCompile(`\bloses? (\d+|x|one|two|three) power|-(\d+|x) power`), ActionReducePower},
	{regexp.MustCompile(`\+(\d+|x) power`), ActionPowerBoost},
	{regexp.MustCompile(`\bpowerup (\d+|x)`), ActionPowerup},
	{regexp.MustCompile(`\bmove\b`), ActionMove},
	{regexp.MustCompile(`\blook at\b`), ActionLookAt},
	{regexp.MustCompile(`top card of (?:your|the) deck`), ActionPlaceFromDeck},
	{regexp.MustCompile(`\breturn\b.*\bto (?:its owner's|their owner's|your|its|the) hand`), ActionReturnToHand},
}

var (
	numberRe      = regexp.MustCompile(`\b(\d+)\b`)
	xRe           = regexp.MustCompile(`\bx\b`)
	payingLessRe  = regexp.MustCompile(`paying (\d+|x|an?|one|two|three) (?:less|fewer)`)
	sideRe        = regexp.MustCompile(`\b(enemy|enemies|opposing|opponent's|friendly|allied|your|own)\s+(?:[\w'-]+\s+){0,3}?characters?\b`)
	otherCharRe   = regexp.MustCompile(`\b(?:a|an|another|one|target|each|all|every|other|up to \d+)\s+(?:[\w'-]+\s+){0,4}?characters?\b`)
	thisRe        = regexp.MustCompile(`\bthis (?:character|card|jutsu)\b`)
	anotherRe     = regexp.MustCompile(`\b(?:another|other)\b`)
	pluralRe      = regexp.MustCompile(`\bcharacters\b`)
	sameMissionRe = regexp.MustCompile(`\b(?:in|at|to) (?:this|the same) mission\b`)
	keywordRe     = regexp.MustCompile(`keyword\s+["“']?([a-z][\w-]*)`)
	groupRe       = regexp.MustCompile(`\b(leaf village|sand village|mist village|cloud village|stone village|sound village|akatsuki|independent)\b`)
	maxPowerRe    = regexp.MustCompile(`\bpower (?:of )?(\d+) or (?:less|lower)|\b(\d+) power or (?:less|lower)`)
	maxCostRe     = regexp.MustCompile(`\bcost (?:of )?(\d+) or (?:less|lower)|\b(\d+) chakra or less`)
	hiddenRe      = regexp.MustCompile(`\bhidden characters?\b`)
	revealedRe    = regexp.MustCompile(`\bnon-hidden\b|\brevealed\b|\bface-up\b`)
	allRe         = regexp.MustCompile(`\b(?:all|every|each)\b`)
	optionalRe    = regexp.MustCompile(`\byou may\b|\bup to\b`)
)

var wordNumbers = map[string]int{"a": 1, "an": 1, "one": 1, "two": 2, "three": 3}

// selfDefault lists actions that act on their own source when the text
// names no other character.
var selfDefault = map[Action]bool{
	ActionPowerup:          true,
	ActionPowerBoost:       true,
	ActionProtection:       true,
	ActionRetainPower:      true,
	ActionReturnToHand:     true,
	ActionMove:             true,
	ActionRestrictMovement: true,
	ActionPayingLess:       true,
}

// Parse splits text into lines and parses each one.
func (p *TextParser) Parse(text string) []ParsedEffect {
	var out []ParsedEffect
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, p.ParseLine(line))
	}
	return out
}

// ParseLine parses a single effect line. It never fails.
func (p *TextParser) ParseLine(line string) ParsedEffect {
	pe := ParsedEffect{
		Trigger: TriggerMain,
		Timing:  TimingInstant,
		Action:  ActionUnresolved,
		Filter:  NoFilter(),
		RawText: line,
	}

	rest := line
	for i := 0; i < 3; i++ {
		m := headerRe.FindStringSubmatchIndex(rest)
		if m == nil {
			break
		}
		word := ""
		if m[2] >= 0 {
			word = strings.ToLower(rest[m[2]:m[3]])
		}
		switch word {
		case "main":
			pe.Trigger = TriggerMain
		case "upgrade":
			pe.Trigger = TriggerUpgrade
		case "ambush":
			pe.Trigger = TriggerAmbush
		case "score":
			pe.Trigger = TriggerScore
		default:
			pe.Timing = TimingContinuous
		}
		rest = rest[m[1]:]
	}

	body := strings.ToLower(strings.TrimSpace(rest))
	body = strings.TrimRight(body, ".! ")
	if body == "" {
		return pe
	}

	for _, r := range actionRules {
		m := r.re.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		pe.Action = r.action
		pe.Value = ruleValue(m, body)
		break
	}
	if pe.Action == ActionUnresolved {
		return pe
	}

	switch pe.Action {
	case ActionCostReduction:
		if thisRe.MatchString(body) && !anotherRe.MatchString(body) {
			pe.Action = ActionPayingLess
		}
	case ActionPlayCharacter, ActionPlayFromDiscard:
		pe.Value = 0
		if m := payingLessRe.FindStringSubmatch(body); m != nil {
			pe.Value = parseAmount(m[1])
		}
	}

	if pe.Action.AlwaysContinuous() {
		pe.Timing = TimingContinuous
	}
	pe.Optional = optionalRe.MatchString(body)
	pe.Filter = parseFilter(pe.Action, body)
	if pe.Action == ActionRemovePower && pe.Filter.All && !strings.Contains(body, "all characters") {
		pe.Value = 0
	}
	return pe
}

func ruleValue(m []string, body string) int {
	for _, g := range m[1:] {
		if g != "" {
			if g == "all" {
				return 0
			}
			return parseAmount(g)
		}
	}
	if xRe.MatchString(body) {
		return ValueX
	}
	if n := numberRe.FindStringSubmatch(body); n != nil {
		v, _ := strconv.Atoi(n[1])
		return v
	}
	return 0
}

func parseAmount(s string) int {
	if s == "x" {
		return ValueX
	}
	if v, ok := wordNumbers[s]; ok {
		return v
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func parseFilter(action Action, body string) TargetFilter {
	f := NoFilter()

	if m := sideRe.FindStringSubmatch(body); m != nil {
		switch m[1] {
		case "enemy", "enemies", "opposing", "opponent's":
			f.Side = SideEnemy
		default:
			f.Side = SideFriendly
		}
	}

	thisLoc := thisRe.FindStringIndex(body)
	otherLoc := firstMatch(body, otherCharRe, sideRe, pluralRe)
	switch {
	case thisLoc != nil && (otherLoc == nil || thisLoc[0] < otherLoc[0]):
		f.Self = true
	case otherLoc == nil && selfDefault[action]:
		f.Self = true
	}
	f.Another = anotherRe.MatchString(body)
	f.SameMission = sameMissionRe.MatchString(body)

	if m := keywordRe.FindStringSubmatch(body); m != nil {
		f.Keyword = m[1]
	}
	if m := groupRe.FindStringSubmatch(body); m != nil {
		f.Group = m[1]
	}
	if m := maxPowerRe.FindStringSubmatch(body); m != nil {
		f.MaxPower = firstInt(m[1:])
	}
	if m := maxCostRe.FindStringSubmatch(body); m != nil {
		f.MaxCost = firstInt(m[1:])
	}
	if revealedRe.MatchString(body) {
		f.Revealed = true
	} else if hiddenRe.MatchString(body) && action != ActionHide && action != ActionHideAll {
		f.Hidden = true
	}
	f.All = allRe.MatchString(body)
	return f
}

// firstMatch returns the location of the earliest match of any of res.
func firstMatch(body string, res ...*regexp.Regexp) []int {
	var best []int
	for _, re := range res {
		if loc := re.FindStringIndex(body); loc != nil && (best == nil || loc[0] < best[0]) {
			best = loc
		}
	}
	return best
}

func firstInt(groups []string) int {
	for _, g := range groups {
		if g == "" {
			continue
		}
		if v, err := strconv.Atoi(g); err == nil {
			return v
		}
	}
	return -1
}

// CachedParser memoises another parser per distinct effect string. It is safe
// for concurrent use.
type CachedParser struct {
	inner  Parser
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[string][]ParsedEffect
}

// NewCachedParser wraps inner. Unrecognised lines are reported once per
// distinct text through logger, which may be nil.
func NewCachedParser(inner Parser, logger *zap.Logger) *CachedParser {
	if inner == nil {
		inner = NewTextParser()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedParser{
		inner:  inner,
		logger: logger,
		cache:  make(map[string][]ParsedEffect),
	}
}

// Parse returns the cached parse of text, computing it on first use.
func (c *CachedParser) Parse(text string) []ParsedEffect {
	c.mu.RLock()
	effects, ok := c.cache[text]
	c.mu.RUnlock()
	if ok {
		return clone(effects)
	}

	effects = c.inner.Parse(text)
	for _, e := range effects {
		if !e.Resolved() {
			c.logger.Warn("unresolved effect text", zap.String("text", e.RawText))
		}
	}

	c.mu.Lock()
	c.cache[text] = effects
	c.mu.Unlock()
	return clone(effects)
}

// Len returns the number of distinct texts cached.
func (c *CachedParser) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func clone(effects []ParsedEffect) []ParsedEffect {
	if effects == nil {
		return nil
	}
	out := make([]ParsedEffect, len(effects))
	copy(out, effects)
	return out
}
