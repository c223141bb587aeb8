package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lazharichir/holdem/config"
	"github.com/lazharichir/holdem/server"
	"github.com/lazharichir/holdem/server/handlers"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "holdem",
		Short:         "Texas Hold'em against house bots",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (yaml, json or toml)")
	root.PersistentFlags().String("log-level", "info", "debug, info, warn or error")
	root.PersistentFlags().Int("balance", 1000, "starting chip balance of each player")
	root.PersistentFlags().Int("small-blind", 10, "small blind of standard tables")

	// cobra merges the persistent flags into cmd.Flags() once parsed
	loadConfig := func(cmd *cobra.Command) (config.Config, error) {
		return config.Load(configPath, cmd.Flags())
	}

	root.AddCommand(newServeCmd(loadConfig), newSimulateCmd(loadConfig))
	return root
}

func newServeCmd(loadConfig func(*cobra.Command) (config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tables over WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := cfg.Logger()

			s := server.NewServer(handlers.Settings{
				StartingBalance: cfg.StartingBalance,
				Rules:           cfg.Rules(),
				Bots:            cfg.Bots,
			}, logger)

			return s.Run(cmd.Context(), fmt.Sprintf("0.0.0.0:%d", cfg.Port))
		},
	}
	cmd.Flags().IntP("port", "p", 7777, "port to listen on")
	cmd.Flags().Duration("turn-timeout", 30*time.Second, "time the player has to act, 0 to wait forever")
	return cmd
}

func newSimulateCmd(loadConfig func(*cobra.Command) (config.Config, error)) *cobra.Command {
	var opts simOptions

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play tables to completion with an autopilot in the player's seat",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := cfg.Logger()

			results, err := runSimulation(cmd.Context(), cfg, opts, logger)
			if err != nil {
				return err
			}
			for _, r := range results {
				logger.Info("table finished",
					"table", r.Table,
					"hands", r.Hands,
					"balance", r.Balance,
					"net", r.Balance-cfg.StartingBalance,
					"biggestPot", r.BiggestPot)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Tables, "tables", 4, "tables to run in parallel")
	cmd.Flags().IntVar(&opts.Hands, "hands", 100, "hands per table")
	cmd.Flags().IntVar(&opts.Bots, "bots", 3, "bots per table, 1 to 3")
	cmd.Flags().BoolVar(&opts.HighRoller, "high-roller", false, "play high roller stakes")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed, 0 for time based")
	return cmd
}
