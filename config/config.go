package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lazharichir/holdem/domain"
	"github.com/lazharichir/holdem/domain/bots"
	"github.com/lazharichir/holdem/table"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. HOLDEM_BLINDS_SMALL_BLIND.
const EnvPrefix = "HOLDEM"

// Config is everything the server and the simulator can be tuned with.
type Config struct {
	Port            int                `mapstructure:"port"`
	LogLevel        string             `mapstructure:"log_level"`
	StartingBalance int                `mapstructure:"starting_balance"`
	TurnTimeout     time.Duration      `mapstructure:"turn_timeout"`
	Blinds          domain.BlindConfig `mapstructure:"blinds"`
	HighRoller      domain.BlindConfig `mapstructure:"high_roller"`
	Bots            []bots.Profile     `mapstructure:"bots"`
}

// flag name to config key
var flagKeys = map[string]string{
	"port":         "port",
	"log-level":    "log_level",
	"balance":      "starting_balance",
	"turn-timeout": "turn_timeout",
	"small-blind":  "blinds.small_blind",
}

func setDefaults(v *viper.Viper) {
	standard := domain.DefaultBlindConfig(false)
	highRoller := domain.DefaultBlindConfig(true)

	v.SetDefault("port", 7777)
	v.SetDefault("log_level", "info")
	v.SetDefault("starting_balance", 1000)
	v.SetDefault("turn_timeout", 30*time.Second)

	v.SetDefault("blinds.small_blind", standard.SmallBlind)
	v.SetDefault("blinds.max_bet", standard.MaxBet)
	v.SetDefault("blinds.min_buy_in", standard.MinBuyIn)

	v.SetDefault("high_roller.small_blind", highRoller.SmallBlind)
	v.SetDefault("high_roller.max_bet", highRoller.MaxBet)
	v.SetDefault("high_roller.min_buy_in", highRoller.MinBuyIn)
}

// Load reads the configuration. Later sources win: defaults, the file at
// path (optional, any format viper reads), HOLDEM_* environment variables,
// then any flag in flags that was set.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if len(cfg.Bots) == 0 {
		cfg.Bots = bots.DefaultProfiles()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.StartingBalance < 0 {
		errs = append(errs, errors.New("starting balance must not be negative"))
	}
	if c.TurnTimeout < 0 {
		errs = append(errs, errors.New("turn timeout must not be negative"))
	}
	if err := c.Blinds.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("blinds: %w", err))
	}
	if err := c.HighRoller.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("high roller blinds: %w", err))
	}
	for i, p := range c.Bots {
		if p.Name == "" || p.Stack <= 0 {
			errs = append(errs, fmt.Errorf("bot %d needs a name and a positive stack", i))
		}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level %q: %w", c.LogLevel, err))
	}
	return errors.Join(errs...)
}

// Rules returns the stakes and turn clock for a game loop.
func (c Config) Rules() table.Rules {
	return table.Rules{
		Standard:    c.Blinds,
		HighRoller:  c.HighRoller,
		TurnTimeout: c.TurnTimeout,
	}
}

// Logger builds the root logger at the configured level.
func (c Config) Logger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	if level, err := log.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger
}
