// Package config loads binary configuration from GOLDRAID_* environment
// variables, then lets command-line flags override them.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"goldraid/internal/domain/raid"
	"goldraid/internal/domain/realm"

	"github.com/caarlos0/env/v11"
)

var ErrMissingCredentials = errors.New("username and password are required")

// RaiderConfig configures one raiding session.
type RaiderConfig struct {
	BaseURL          string        `env:"GOLDRAID_BASE_URL"          envDefault:"http://localhost:8080"`
	Username         string        `env:"GOLDRAID_USERNAME"`
	Password         string        `env:"GOLDRAID_PASSWORD"`
	MinRank          int           `env:"GOLDRAID_MIN_RANK"          envDefault:"2000"`
	MaxRank          int           `env:"GOLDRAID_MAX_RANK"          envDefault:"4000"`
	GoldThreshold    int           `env:"GOLDRAID_GOLD_THRESHOLD"    envDefault:"400000"`
	MaxTurns         int           `env:"GOLDRAID_MAX_TURNS"         envDefault:"50"`
	RepairFrequency  int           `env:"GOLDRAID_REPAIR_FREQUENCY"  envDefault:"5"`
	StoringFrequency int           `env:"GOLDRAID_STORING_FREQUENCY" envDefault:"3"`
	PageSize         int           `env:"GOLDRAID_PAGE_SIZE"         envDefault:"98"`
	Speed            string        `env:"GOLDRAID_SPEED"             envDefault:"really_slow"`
	PaceSeed         uint64        `env:"GOLDRAID_PACE_SEED"`
	LogLevel         string        `env:"GOLDRAID_LOG_LEVEL"         envDefault:"info"`
	RequestTimeout   time.Duration `env:"GOLDRAID_REQUEST_TIMEOUT"   envDefault:"20s"`
	ReadAttempts     uint          `env:"GOLDRAID_READ_ATTEMPTS"     envDefault:"3"`
}

// ParseRaiderConfig parses env and flags into a RaiderConfig.
func ParseRaiderConfig(fs *flag.FlagSet, args []string) (RaiderConfig, error) {
	var cfg RaiderConfig
	if err := env.Parse(&cfg); err != nil {
		return RaiderConfig{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "game API base URL")
	fs.StringVar(&cfg.Username, "username", cfg.Username, "account name")
	fs.StringVar(&cfg.Password, "password", cfg.Password, "account password")
	fs.IntVar(&cfg.MinRank, "min-rank", cfg.MinRank, "first rank to scan (inclusive)")
	fs.IntVar(&cfg.MaxRank, "max-rank", cfg.MaxRank, "rank to stop scanning at (exclusive)")
	fs.IntVar(&cfg.GoldThreshold, "gold-threshold", cfg.GoldThreshold, "minimum held gold of a target")
	fs.IntVar(&cfg.MaxTurns, "max-turns", cfg.MaxTurns, "maximum number of attacks")
	fs.IntVar(&cfg.RepairFrequency, "repair-frequency", cfg.RepairFrequency, "repair after every N successful attacks")
	fs.IntVar(&cfg.StoringFrequency, "storing-frequency", cfg.StoringFrequency, "deposit after every N successful attacks")
	fs.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "players per directory page")
	fs.StringVar(&cfg.Speed, "speed", cfg.Speed, "pacing profile: fast, normal, slow, really_slow")
	fs.Uint64Var(&cfg.PaceSeed, "pace-seed", cfg.PaceSeed, "pacing random seed (0 picks one)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "verbose, debug, info, warn or error")
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "read timeout per request")
	fs.UintVar(&cfg.ReadAttempts, "read-attempts", cfg.ReadAttempts, "attempts per idempotent read")
	if err := fs.Parse(args); err != nil {
		return RaiderConfig{}, err
	}
	return cfg, nil
}

// Validate checks the settings a session cannot start without.
func (c RaiderConfig) Validate() error {
	if c.Username == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if err := c.Filter().Validate(); err != nil {
		return err
	}
	return c.Params().Validate()
}

func (c RaiderConfig) Filter() raid.PlayerFilter {
	return raid.PlayerFilter{
		MinRank:       c.MinRank,
		MaxRank:       c.MaxRank,
		GoldThreshold: c.GoldThreshold,
		MaxTurns:      c.MaxTurns,
	}
}

func (c RaiderConfig) Params() raid.AttackParams {
	return raid.AttackParams{
		RepairFrequency:  c.RepairFrequency,
		StoringFrequency: c.StoringFrequency,
	}
}

// SandboxConfig configures the local game service.
type SandboxConfig struct {
	Addr            string `env:"GOLDRAID_SANDBOX_ADDR"        envDefault:":8080"`
	DSN             string `env:"GOLDRAID_DB_DSN"`
	Migrate         bool   `env:"GOLDRAID_DB_MIGRATE"          envDefault:"true"`
	Population      int    `env:"GOLDRAID_POPULATION"          envDefault:"5000"`
	Seed            uint64 `env:"GOLDRAID_POPULATION_SEED"     envDefault:"1"`
	AccountName     string `env:"GOLDRAID_SANDBOX_ACCOUNT"     envDefault:"raider"`
	AccountPassword string `env:"GOLDRAID_SANDBOX_PASSWORD"    envDefault:"raider"`
	AccountTurns    int    `env:"GOLDRAID_SANDBOX_TURNS"       envDefault:"60"`
	StealPercent    int    `env:"GOLDRAID_STEAL_PERCENT"       envDefault:"50"`
	WearPerAttack   int    `env:"GOLDRAID_WEAR_PER_ATTACK"     envDefault:"7"`
	MaxWear         int    `env:"GOLDRAID_MAX_WEAR"            envDefault:"100"`
	RepairCost      int    `env:"GOLDRAID_REPAIR_COST"         envDefault:"40"`
	LogLevel        string `env:"GOLDRAID_LOG_LEVEL"           envDefault:"info"`
}

// ParseSandboxConfig parses env and flags into a SandboxConfig.
func ParseSandboxConfig(fs *flag.FlagSet, args []string) (SandboxConfig, error) {
	var cfg SandboxConfig
	if err := env.Parse(&cfg); err != nil {
		return SandboxConfig{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.DSN, "dsn", cfg.DSN, "postgres DSN (empty keeps the realm in memory)")
	fs.BoolVar(&cfg.Migrate, "migrate", cfg.Migrate, "apply embedded SQL migrations on start")
	fs.IntVar(&cfg.Population, "population", cfg.Population, "number of generated players")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "population seed")
	fs.StringVar(&cfg.AccountName, "account", cfg.AccountName, "playable account name")
	fs.StringVar(&cfg.AccountPassword, "account-password", cfg.AccountPassword, "playable account password")
	fs.IntVar(&cfg.AccountTurns, "account-turns", cfg.AccountTurns, "turns granted to the playable account")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "verbose, debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return SandboxConfig{}, err
	}
	return cfg, nil
}

func (c SandboxConfig) Rules() realm.Rules {
	return realm.Rules{
		StealPercent:       c.StealPercent,
		WearPerAttack:      c.WearPerAttack,
		MaxWear:            c.MaxWear,
		RepairCostPerPoint: c.RepairCost,
	}
}
