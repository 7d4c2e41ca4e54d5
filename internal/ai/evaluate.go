package ai

import (
	"math"

	"go.uber.org/zap"

	"github.com/Hakiick/narutomythos-sub000/internal/effect"
	"github.com/Hakiick/narutomythos-sub000/internal/game"
	"github.com/Hakiick/narutomythos-sub000/internal/view"
)

// board is what the AI knows about the position, taken from its masked view.
type board struct {
	sv     *view.StateView
	active *view.LaneView

	hand    map[string]view.CardView
	discard map[string]view.CardView
	mine    map[string]view.CharacterView
	theirs  map[string]view.CharacterView
	laneOf  map[string]int
	lanes   map[string]*view.LaneView

	myPower, theirPower float64 // at the active lane, unknown characters estimated
	roundsLeft          int
}

func newBoard(sv *view.StateView) *board {
	b := &board{
		sv:         sv,
		hand:       make(map[string]view.CardView),
		discard:    make(map[string]view.CardView),
		mine:       make(map[string]view.CharacterView),
		theirs:     make(map[string]view.CharacterView),
		laneOf:     make(map[string]int),
		lanes:      make(map[string]*view.LaneView),
		roundsLeft: max(game.NumRanks-sv.Round, 0),
	}
	for _, c := range sv.You.Hand {
		b.hand[c.InstanceID] = c
	}
	for _, c := range sv.You.Discard {
		b.discard[c.InstanceID] = c
	}
	for i := range sv.Missions {
		lane := &sv.Missions[i]
		b.lanes[lane.ID] = lane
		if lane.Active {
			b.active = lane
		}
		for _, ch := range lane.You {
			b.mine[ch.InstanceID] = ch
			b.laneOf[ch.InstanceID] = lane.Index
		}
		for _, ch := range lane.Opponent {
			b.theirs[ch.InstanceID] = ch
			b.laneOf[ch.InstanceID] = lane.Index
		}
	}
	if b.active != nil {
		b.myPower = float64(b.active.YourPower)
		b.theirPower = float64(b.active.OpponentPower)
		for _, ch := range b.active.Opponent {
			if unknown(ch) {
				b.theirPower += hiddenPower
			}
		}
	}
	return b
}

// unknown reports whether a character's identity is masked.
func unknown(ch view.CharacterView) bool {
	return ch.Hidden && ch.CardID == ""
}

// strength is a character's power as the AI sees it.
func strength(ch view.CharacterView) float64 {
	if unknown(ch) {
		return hiddenPower
	}
	return float64(ch.Power)
}

func (b *board) points() float64 {
	if b.active == nil {
		return 0
	}
	return float64(b.active.Points)
}

// winChance maps a power margin to a rough probability of taking the lane. Holding the
// Edge is worth half a point of power.
func (b *board) winChance(mine, theirs float64) float64 {
	margin := mine - theirs
	if b.sv.You.HasEdge {
		margin += 0.5
	} else {
		margin -= 0.5
	}
	if mine <= 0 {
		return 0
	}
	return 1 / (1 + math.Exp(-margin*1.5))
}

func (b *board) enemiesAtActive() []view.CharacterView {
	if b.active == nil {
		return nil
	}
	return b.active.Opponent
}

func (b *board) friendsAtActive() []view.CharacterView {
	if b.active == nil {
		return nil
	}
	return b.active.You
}

// DecideAction returns the highest scoring available action. Ties keep the earlier
// action, so hand order breaks them. It falls back to PASS and never returns an action
// that is not available.
func (a *AI) DecideAction(s *game.GameState) game.Action {
	pass := game.Action{Type: game.ActionPass, Side: a.side, MissionIndex: -1}
	actions := a.engine.GetAvailableActions(s)
	if len(actions) == 0 || s.Turn != a.side {
		return pass
	}
	b := newBoard(view.BuildStateView(s, a.side, game.DefaultLocale))
	r := a.rng(s, 1)

	best, bestScore := len(actions)-1, math.Inf(-1)
	for i, aa := range actions {
		score := a.scoreAction(b, aa) + a.noise(r)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	chosen := actions[best]
	a.logger.Debug("ai action",
		zap.String("type", chosen.Type.String()),
		zap.String("card", chosen.CardInstanceID),
		zap.Float64("score", bestScore),
		zap.Int("candidates", len(actions)))
	return chosen.Action
}

// scoreAction evaluates one candidate.
func (a *AI) scoreAction(b *board, aa game.AvailableAction) float64 {
	p := a.profile
	banked := p.Save * float64(b.sv.You.Chakra) * float64(b.roundsLeft) * 0.1
	before := b.winChance(b.myPower, b.theirPower)

	if aa.Type == game.ActionPass {
		if b.sv.PassesInARow >= 1 {
			// Passing now ends the round's actions.
			return p.Lane*b.points()*4*(before-0.5) + banked
		}
		return -0.25 + banked
	}

	var (
		card     view.CardView
		gain     float64
		triggers []effect.Trigger
	)
	switch aa.Type {
	case game.ActionPlayCharacter:
		card = b.hand[aa.CardInstanceID]
		gain = float64(card.Power)
		triggers = []effect.Trigger{effect.TriggerMain}
	case game.ActionPlayHidden:
		card = b.hand[aa.CardInstanceID]
	case game.ActionUpgrade:
		card = b.hand[aa.CardInstanceID]
		gain = float64(card.Power - b.mine[aa.TargetInstanceID].PrintedPower)
		triggers = []effect.Trigger{effect.TriggerUpgrade, effect.TriggerMain}
	case game.ActionReveal:
		ch := b.mine[aa.CardInstanceID]
		card = view.CardView{CardID: ch.CardID, Power: ch.PrintedPower, Effect: ch.Effect}
		gain = float64(ch.PrintedPower + ch.PowerTokens)
		if b.active != nil && b.laneOf[aa.CardInstanceID] != b.active.Index {
			// power in a later lane does not count yet
			gain = 0
		}
		triggers = []effect.Trigger{effect.TriggerMain, effect.TriggerAmbush}
	case game.ActionPlayJutsu:
		card = b.hand[aa.CardInstanceID]
		triggers = []effect.Trigger{effect.TriggerMain}
	}

	effects := a.parser.Parse(card.Effect)
	var value, myDelta, theirDelta float64
	for _, pe := range effects {
		if pe.Timing == effect.TimingContinuous && aa.Type != game.ActionPlayHidden {
			v, m := continuousValue(b, pe)
			value += v
			myDelta += m
			continue
		}
		if !firesOn(pe, triggers) {
			continue
		}
		v, m, t := effectValue(b, pe)
		value += v
		myDelta += m
		theirDelta += t
	}

	if aa.Type == game.ActionPlayHidden {
		// A hidden character is a threat the other side must respect, and its AMBUSH
		// effects are still to come.
		for _, pe := range effects {
			if pe.Matches(effect.TriggerAmbush) {
				v, _, _ := effectValue(b, pe)
				value += 0.6 * v
			}
		}
		value += 0.3 + 0.1*float64(card.Power)
	}

	after := b.winChance(b.myPower+gain+myDelta, max(b.theirPower-theirDelta, 0))
	score := p.Lane * b.points() * 4 * (after - before)
	if before < 0.5 && after > 0.5 {
		score += p.Deny * b.points()
	}
	score += p.Efficiency * (gain + myDelta + theirDelta) / math.Max(float64(aa.Cost), 1)
	score += p.Effects * value
	return score + p.Save*float64(b.sv.You.Chakra-aa.Cost)*float64(b.roundsLeft)*0.1
}

func firesOn(pe effect.ParsedEffect, triggers []effect.Trigger) bool {
	for _, t := range triggers {
		if pe.Matches(t) {
			return true
		}
	}
	return false
}

// amount resolves X to a guess at what it will count.
func amount(b *board, pe effect.ParsedEffect) float64 {
	if pe.IsX() {
		return float64(len(b.friendsAtActive()) + 1)
	}
	if pe.Value == 0 {
		return 1
	}
	return float64(pe.Value)
}

func strongestEnemy(b *board, faceUpOnly bool) float64 {
	best := 0.0
	for _, ch := range b.enemiesAtActive() {
		if faceUpOnly && ch.Hidden {
			continue
		}
		best = math.Max(best, strength(ch))
	}
	return best
}

func laneTotal(chars []view.CharacterView, faceUpOnly bool) float64 {
	total := 0.0
	for _, ch := range chars {
		if faceUpOnly && ch.Hidden {
			continue
		}
		total += strength(ch)
	}
	return total
}

// effectValue scores a one-shot effect. It returns a general value plus the expected
// change in own and enemy power at the active lane.
func effectValue(b *board, pe effect.ParsedEffect) (value, myDelta, theirDelta float64) {
	n := amount(b, pe)
	switch pe.Action {
	case effect.ActionPowerup:
		if pe.Filter.Side == effect.SideEnemy {
			return -0.5 * n, 0, -n
		}
		return 0, n, 0
	case effect.ActionGainChakra:
		return 0.6 * n, 0, 0
	case effect.ActionStealChakra:
		return 1.0 * n, 0, 0
	case effect.ActionDraw:
		return 0.7 * n, 0, 0
	case effect.ActionOpponentDraw:
		return -0.7 * n, 0, 0
	case effect.ActionOpponentGainChakra:
		return -0.6 * n, 0, 0
	case effect.ActionOpponentDiscard:
		return 0.8 * n, 0, 0
	case effect.ActionDiscard:
		return -0.6 * n, 0, 0
	case effect.ActionDefeat, effect.ActionTakeControl:
		if pe.Filter.Side == effect.SideFriendly {
			return -1, 0, 0
		}
		hit := strongestEnemy(b, pe.Action == effect.ActionTakeControl)
		if pe.Action == effect.ActionTakeControl {
			return 0.5, hit, hit
		}
		return 0.5, 0, hit
	case effect.ActionDefeatAll, effect.ActionHideAll:
		faceUp := pe.Action == effect.ActionHideAll
		theirs := laneTotal(b.enemiesAtActive(), faceUp)
		if pe.Filter.Side == effect.SideEnemy {
			return 0, 0, theirs
		}
		return 0, -laneTotal(b.friendsAtActive(), faceUp), theirs
	case effect.ActionHide, effect.ActionSetPowerZero:
		return 0, 0, strongestEnemy(b, true)
	case effect.ActionReducePower:
		return 0, 0, math.Min(n, strongestEnemy(b, true))
	case effect.ActionRemovePower:
		return 0.5, 0, 0
	case effect.ActionPlayCharacter, effect.ActionPlayFromDiscard:
		return 1.5, 1, 0
	case effect.ActionRetrieveFromDiscard, effect.ActionPlaceFromDeck, effect.ActionCopyEffect:
		return 1, 0, 0
	case effect.ActionLookAt, effect.ActionMove:
		return 0.4, 0, 0
	}
	return 0, 0, 0
}

// continuousValue scores a modifier that stays active while its source is deployed.
func continuousValue(b *board, pe effect.ParsedEffect) (value, myDelta float64) {
	switch pe.Action {
	case effect.ActionPowerBoost:
		if pe.Filter.Side == effect.SideEnemy {
			return 0, 0
		}
		return 0.3, amount(b, pe) * float64(len(b.friendsAtActive()))
	case effect.ActionProtection, effect.ActionRetainPower, effect.ActionCostReduction:
		return 0.8, 0
	case effect.ActionReturnToHand:
		return 0.5, 0
	}
	return 0, 0
}

// DecideMulligan reports whether the AI sends its opening hand back. Hands with few
// cheap characters or a high average cost go back.
func (a *AI) DecideMulligan(s *game.GameState) bool {
	if s.Phase != game.PhaseMulligan || s.Side(a.side).MulliganDone {
		return false
	}
	sv := view.BuildStateView(s, a.side, game.DefaultLocale)
	q := handQuality(sv.You.Hand) + a.noise(a.rng(s, 2))
	mulligan := q < a.profile.Mulligan
	a.logger.Debug("ai mulligan", zap.Float64("quality", q), zap.Bool("mulligan", mulligan))
	return mulligan
}

func handQuality(hand []view.CardView) float64 {
	if len(hand) == 0 {
		return 0
	}
	cheap, characters, total := 0, 0, 0
	for _, c := range hand {
		total += c.Chakra
		if c.Type != game.CardTypeCharacter.String() {
			continue
		}
		characters++
		if c.Chakra <= 3 {
			cheap++
		}
	}
	q := float64(cheap) - 1
	if characters >= 3 {
		q += 0.5
	} else {
		q -= 0.5
	}
	avg := float64(total) / float64(len(hand))
	return q - math.Max(avg-3.5, 0)
}
