package main

import (
	"context"
	"errors"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lazharichir/holdem/bank"
	"github.com/lazharichir/holdem/config"
	"github.com/lazharichir/holdem/domain"
	"github.com/lazharichir/holdem/domain/bots"
	"github.com/lazharichir/holdem/domain/events"
	"golang.org/x/sync/errgroup"
)

type simOptions struct {
	Tables     int
	Hands      int
	Bots       int
	HighRoller bool
	Seed       int64
}

type simResult struct {
	Table      string
	Hands      int
	Balance    int
	BiggestPot int
}

// autopilot plays the human seat with the same policy the bots use
var autopilot = bots.Profile{Name: "Autopilot", Aggression: 0.5, Tightness: 0.5, BluffChance: 0.1}

// runSimulation plays opts.Tables tables in parallel, each until it has
// played opts.Hands hands or its player can no longer sit.
func runSimulation(ctx context.Context, cfg config.Config, opts simOptions, logger *log.Logger) ([]simResult, error) {
	if opts.Tables <= 0 {
		return nil, errors.New("need at least one table")
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	blinds := cfg.Rules().BlindsFor(opts.HighRoller)

	results := make([]simResult, opts.Tables)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := 0; i < opts.Tables; i++ {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed + int64(i)))
			res, err := simulateTable(ctx, cfg, blinds, opts, rng, logger)
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func simulateTable(ctx context.Context, cfg config.Config, blinds domain.BlindConfig, opts simOptions, rng *rand.Rand, logger *log.Logger) (simResult, error) {
	b := bank.NewMemoryBank(cfg.StartingBalance)
	var res simResult

	table := domain.NewTable(b,
		domain.WithLogger(logger),
		domain.WithRNG(rng),
		domain.WithBotProfiles(cfg.Bots...),
		domain.WithPlayerName(autopilot.Name),
		domain.WithEventHandler(func(e events.Event) {
			if ended, ok := e.(events.HandEnded); ok {
				res.BiggestPot = max(res.BiggestPot, ended.FinalPot)
			}
		}),
	)
	res.Table = table.ID
	pilot := bots.NewPolicyWithRNG(logger, autopilot, rng)

	for res.Hands < opts.Hands {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		state, err := table.StartHand(opts.Bots, blinds)
		if errors.Is(err, domain.ErrInsufficientFunds) {
			logger.Info("player is broke", "table", table.ID[:8], "hands", res.Hands)
			break
		}
		if err != nil {
			return res, err
		}

		for state.Phase != domain.HandPhase_Ended {
			state, err = playTurn(table, pilot, state)
			if err != nil {
				return res, err
			}
		}
		res.Hands++
	}

	res.Balance = b.Balance()
	return res, nil
}

// playTurn asks the autopilot for a move and falls back to a call when the
// table rejects it.
func playTurn(table *domain.Table, pilot *bots.Policy, state domain.TableState) (domain.TableState, error) {
	me, _ := state.Seat(domain.HumanSeatID)
	d := pilot.Decide(bots.Situation{
		HoleCards:  me.HoleCards,
		Board:      state.CommunityCards,
		Chips:      me.Chips,
		Bet:        me.Bet,
		CurrentBet: state.CurrentBet,
		BigBlind:   state.BigBlind,
	})

	next, err := table.SubmitPlayerAction(domain.ActionKind(d.Move), d.Amount)
	if err == nil {
		return next, nil
	}
	return table.SubmitPlayerAction(domain.ActionCall, 0)
}
