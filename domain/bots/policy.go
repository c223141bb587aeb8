package bots

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lazharichir/holdem/domain/cards"
)

// Move is what a bot chose to do.
type Move string

const (
	Fold  Move = "fold"
	Call  Move = "call"
	Raise Move = "raise"
)

// Situation is everything a bot may look at when it is its turn.
type Situation struct {
	HoleCards  cards.Stack
	Board      cards.Stack
	Chips      int // behind, not counting the current bet
	Bet        int // already in front of the bot this street
	CurrentBet int
	BigBlind   int
}

// ToCall is the amount needed to match the current bet, capped by the stack.
func (s Situation) ToCall() int {
	return max(0, min(s.CurrentBet-s.Bet, s.Chips))
}

// Decision is a move plus, for raises, the total bet to raise to.
type Decision struct {
	Move      Move
	Amount    int
	Reasoning string
}

// Policy decides for one bot.
type Policy struct {
	profile Profile
	rng     *rand.Rand
	logger  *log.Logger
}

// NewPolicy creates a policy with a time-seeded RNG
func NewPolicy(logger *log.Logger, profile Profile) *Policy {
	return NewPolicyWithRNG(logger, profile, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewPolicyWithRNG creates a policy with a controlled RNG for deterministic testing
func NewPolicyWithRNG(logger *log.Logger, profile Profile, rng *rand.Rand) *Policy {
	return &Policy{
		profile: profile,
		rng:     rng,
		logger:  logger.WithPrefix("bot").With("bot", profile.Name),
	}
}

// Profile returns the personality this policy plays with.
func (p *Policy) Profile() Profile {
	return p.profile
}

// Decide picks fold, call or raise. Raise amounts are always a legal total
// bet for the situation; when no raise is possible the decision is a call.
// A bot never folds when it can check.
func (p *Policy) Decide(s Situation) Decision {
	strength := Strength(s.HoleCards, s.Board)
	toCall := s.ToCall()
	bluffing := p.rng.Float64() < p.profile.BluffChance
	roll := p.rng.Float64()

	d := p.choose(s, strength, toCall, bluffing, roll)
	d = p.legalize(s, d)

	p.logger.Debug("decision",
		"holeCards", s.HoleCards.String(),
		"board", s.Board.String(),
		"strength", math.Round(strength*1000)/1000,
		"toCall", toCall,
		"bluffing", bluffing,
		"move", d.Move,
		"amount", d.Amount,
		"reason", d.Reasoning)

	return d
}

func (p *Policy) choose(s Situation, strength float64, toCall int, bluffing bool, roll float64) Decision {
	bb := float64(s.BigBlind)
	call := float64(toCall)
	chips := float64(s.Chips)
	a := p.profile.Aggression

	switch {
	case strength < 0.15 && roll < 0.3*p.profile.Tightness && !bluffing:
		return p.foldOrCheck(toCall, "weak hand, tight fold")

	case bluffing && strength < 0.5 && roll < 0.5:
		return p.raiseBy(s, math.Min(math.Max(call*1.5, bb*1.5), chips*0.1), "bluff")

	case strength < 0.3:
		switch {
		case toCall == 0:
			return Decision{Move: Call, Reasoning: "weak hand, free check"}
		case call < bb && roll < 0.4:
			return Decision{Move: Call, Reasoning: "weak hand, cheap call"}
		case roll < 0.3:
			return Decision{Move: Fold, Reasoning: "weak hand"}
		default:
			return Decision{Move: Call, Reasoning: "weak hand, stubborn call"}
		}

	case strength < 0.6:
		if roll < 0.5*a {
			return p.raiseBy(s, math.Min(math.Max(call*1.8, bb*1.5), chips*0.15), "medium hand, aggressive")
		}
		if call < chips*0.2 {
			return Decision{Move: Call, Reasoning: "medium hand, affordable call"}
		}
		return p.foldOrCheck(toCall, "medium hand, too expensive")

	default:
		mult := 2 + strength*1.5 + a*1.5
		return p.raiseBy(s, math.Min(math.Max(call*mult, bb*2), chips*(0.2+strength*0.3)), "strong hand")
	}
}

func (p *Policy) foldOrCheck(toCall int, reason string) Decision {
	if toCall == 0 {
		return Decision{Move: Call, Reasoning: reason + ", checking instead"}
	}
	return Decision{Move: Fold, Reasoning: reason}
}

// raiseBy sizes a raise as the bot's current bet plus a jittered amount.
func (p *Policy) raiseBy(s Situation, amount float64, reason string) Decision {
	jitter := 0.9 + p.rng.Float64()*0.2
	to := s.Bet + int(math.Round(amount*jitter))
	return Decision{Move: Raise, Amount: to, Reasoning: fmt.Sprintf("%s, raise to %d", reason, to)}
}

func (p *Policy) legalize(s Situation, d Decision) Decision {
	if d.Move == Fold && s.ToCall() == 0 {
		return Decision{Move: Call, Reasoning: d.Reasoning + ", checking instead"}
	}
	if d.Move != Raise {
		d.Amount = 0
		return d
	}
	allIn := s.Bet + s.Chips
	if d.Amount > allIn {
		d.Amount = allIn
	}
	if d.Amount <= s.CurrentBet {
		return Decision{Move: Call, Reasoning: d.Reasoning + ", too small to raise so calling"}
	}
	return d
}
