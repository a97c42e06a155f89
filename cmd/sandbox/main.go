package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	schema "goldraid/db"
	httpadapter "goldraid/internal/adapter/http"
	metricsinmem "goldraid/internal/adapter/metrics/inmemory"
	gormrepo "goldraid/internal/adapter/repo/gorm"
	"goldraid/internal/adapter/repo/memory"
	"goldraid/internal/app/ports"
	"goldraid/internal/app/sandbox"
	"goldraid/internal/config"
	"goldraid/internal/domain/realm"
	"goldraid/internal/logx"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	fs := flag.NewFlagSet("sandbox", flag.ExitOnError)
	cfg, err := config.ParseSandboxConfig(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "sandbox: %v\n", err)
		os.Exit(2)
	}
	level, err := logx.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sandbox: %v\n", err)
		os.Exit(2)
	}
	logger := logx.New(os.Stderr, level)

	ctx := context.Background()
	repos, err := buildRepos(ctx, cfg, logger)
	if err != nil {
		logger.Error("build repositories", "err", err)
		os.Exit(1)
	}
	kpiRecorder := metricsinmem.NewRecorder()
	uc := sandbox.UseCase{
		Accounts:  repos.accounts,
		Sessions:  repos.sessions,
		TxManager: repos.tx,
		Rules:     cfg.Rules(),
		Metrics:   kpiRecorder,
	}
	if err := seedRealm(ctx, uc, cfg, logger); err != nil {
		logger.Error("seed realm", "err", err)
		os.Exit(1)
	}

	h := httpadapter.Handler{RealmUC: uc, KPI: kpiRecorder}
	s := server.Default(server.WithHostPorts(cfg.Addr))
	h.RegisterRoutes(s)

	logger.Info("sandbox listening", "addr", cfg.Addr, "account", cfg.AccountName, "population", cfg.Population)
	s.Spin()
}

type repositories struct {
	accounts ports.AccountRepository
	sessions ports.SessionRepository
	tx       ports.TxManager
}

// buildRepos keeps the realm in memory unless a DSN is configured.
func buildRepos(ctx context.Context, cfg config.SandboxConfig, logger *slog.Logger) (repositories, error) {
	if cfg.DSN == "" {
		store := memory.NewStore()
		logger.Info("realm kept in memory")
		return repositories{
			accounts: memory.NewAccountRepo(store),
			sessions: memory.NewSessionRepo(store),
			tx:       memory.NewTxManager(store),
		}, nil
	}

	db, err := gormrepo.OpenPostgres(cfg.DSN)
	if err != nil {
		return repositories{}, err
	}
	if cfg.Migrate {
		applied, err := gormrepo.ApplyMigrations(ctx, db, schema.Migrations, "migrations")
		if err != nil {
			return repositories{}, err
		}
		logger.Info("migrations applied", "versions", applied)
	}
	return repositories{
		accounts: gormrepo.NewAccountRepo(db),
		sessions: gormrepo.NewSessionRepo(db),
		tx:       gormrepo.NewTxManager(db),
	}, nil
}

// seedRealm generates the population and ranks the playable account just
// below it.
func seedRealm(ctx context.Context, uc sandbox.UseCase, cfg config.SandboxConfig, logger *slog.Logger) error {
	created, err := uc.Seed(ctx, realm.GeneratePopulation(cfg.Seed, cfg.Population))
	if err != nil {
		return err
	}
	err = uc.Register(ctx, sandbox.RegisterRequest{
		Name:     cfg.AccountName,
		Password: cfg.AccountPassword,
		Rank:     cfg.Population + 1,
		Turns:    cfg.AccountTurns,
	})
	if err != nil {
		return fmt.Errorf("register %s: %w", cfg.AccountName, err)
	}
	logger.Info("realm seeded", "created", created, "seed", cfg.Seed)
	return nil
}
