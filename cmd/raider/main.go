package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goldraid/internal/adapter/gameclient"
	metricsinmem "goldraid/internal/adapter/metrics/inmemory"
	"goldraid/internal/adapter/pacing"
	"goldraid/internal/app/directory"
	"goldraid/internal/app/ports"
	"goldraid/internal/app/session"
	"goldraid/internal/app/targeting"
	"goldraid/internal/config"
	"goldraid/internal/logx"
)

const (
	exitOK         = 0
	exitAuthFailed = 1
	exitUsage      = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, errOut io.Writer) int {
	fs := flag.NewFlagSet("raider", flag.ContinueOnError)
	fs.SetOutput(errOut)
	cfg, err := config.ParseRaiderConfig(fs, args)
	if err != nil {
		return exitUsage
	}
	level, err := logx.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(errOut, "raider: %v\n", err)
		return exitUsage
	}
	logger := logx.New(errOut, level)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		return exitUsage
	}
	speed, err := pacing.ParseSpeed(cfg.Speed)
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		return exitUsage
	}

	client, err := gameclient.New(gameclient.Config{
		BaseURL:      cfg.BaseURL,
		PageSize:     cfg.PageSize,
		ReadTimeout:  cfg.RequestTimeout,
		ReadAttempts: cfg.ReadAttempts,
	})
	if err != nil {
		logger.Error("build game client", "err", err)
		return exitUsage
	}
	pacer := pacing.NewSleeper(speed, paceSeed(cfg.PaceSeed))
	recorder := metricsinmem.NewRecorder()

	uc := session.UseCase{
		Client: client,
		Pacer:  pacer,
		Selector: targeting.Selector{
			Reader: directory.Reader{Client: client, PageSize: cfg.PageSize},
			Pacer:  pacer,
			Logger: logger,
		},
		Metrics: recorder,
		Logger:  logger,
	}

	logger.Info("raid starting",
		"base_url", cfg.BaseURL,
		"ranks", fmt.Sprintf("[%d,%d)", cfg.MinRank, cfg.MaxRank),
		"gold_threshold", logx.Gold(cfg.GoldThreshold),
		"max_turns", cfg.MaxTurns,
		"speed", cfg.Speed,
	)
	rep, err := uc.Run(ctx, session.Request{
		Username: cfg.Username,
		Password: cfg.Password,
		Filter:   cfg.Filter(),
		Params:   cfg.Params(),
	})
	report(logger, rep, recorder.Snapshot(), err)
	return exitCode(err)
}

func report(logger *slog.Logger, rep session.Report, snap metricsinmem.Snapshot, err error) {
	if err != nil {
		logger.Error("raid ended early", "state", rep.State, "err", err)
	}
	logger.Info("raid summary",
		"targets", rep.Targets,
		"attacks", rep.Result.Succeeded,
		"skipped", rep.Result.Skipped,
		"gold_stolen", logx.Gold(rep.Result.TotalGoldStolen),
		"deposited", logx.Gold(rep.Deposited),
	)
	logger.Info("action totals", "success", snap.SuccessByAction, "failure", snap.FailureByAction)
}

func exitCode(err error) int {
	if errors.Is(err, ports.ErrAuthentication) {
		return exitAuthFailed
	}
	return exitOK
}

func paceSeed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	return uint64(time.Now().UnixNano())
}
