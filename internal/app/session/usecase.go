package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"goldraid/internal/app/ports"
	"goldraid/internal/domain/raid"
	"goldraid/internal/logx"
)

var (
	// ErrAttackAttemptFailed marks a target that could not be attacked. The
	// target is skipped and the session goes on.
	ErrAttackAttemptFailed = errors.New("attack attempt failed")
	// ErrMaintenanceFailed marks a repair or deposit the game refused.
	ErrMaintenanceFailed = errors.New("maintenance failed")
)

// TargetSelector picks the players to attack.
type TargetSelector interface {
	Select(ctx context.Context, f raid.PlayerFilter) ([]raid.Player, error)
}

type Request struct {
	Username string
	Password string
	Filter   raid.PlayerFilter
	Params   raid.AttackParams
}

type Report struct {
	Result    raid.SessionResult `json:"result"`
	State     State              `json:"state"`
	Targets   int                `json:"targets"`
	Deposited int                `json:"deposited"`
}

// UseCase runs one raid session from login to logout. Every step waits for
// the previous one; nothing runs concurrently.
type UseCase struct {
	Client   ports.GameClient
	Pacer    ports.Pacer
	Selector TargetSelector
	Metrics  ports.ActionMetrics
	Logger   *slog.Logger
}

func (u UseCase) Run(ctx context.Context, req Request) (Report, error) {
	rep := Report{State: StateIdle}
	if err := req.Filter.Validate(); err != nil {
		return rep, err
	}
	if err := req.Params.Validate(); err != nil {
		return rep, err
	}
	logger := u.logger()

	logger.DebugContext(ctx, "logging in", "username", req.Username)
	if err := u.Client.Login(ctx, req.Username, req.Password); err != nil {
		u.enter(ctx, &rep, eventLoginFailed)
		u.recordFailure(ports.ActionLogin)
		logger.ErrorContext(ctx, "login failure", "username", req.Username, "error", err)
		if !errors.Is(err, ports.ErrAuthentication) {
			err = fmt.Errorf("%w: %w", ports.ErrAuthentication, err)
		}
		return rep, err
	}
	u.recordSuccess(ports.ActionLogin)
	u.enter(ctx, &rep, eventLoginSucceeded)
	logx.Indent(logger).InfoContext(ctx, "logged in", "username", req.Username)
	if err := u.Pacer.AfterLogin(ctx); err != nil {
		return u.finish(ctx, logger, rep, err)
	}

	u.enter(ctx, &rep, eventScanStarted)
	logger.InfoContext(ctx, "starting massive attack",
		"min_rank", req.Filter.MinRank,
		"max_rank", req.Filter.MaxRank,
		"gold_threshold", logx.Gold(req.Filter.GoldThreshold),
		"max_attacks", req.Filter.MaxTurns,
	)
	targets, err := u.Selector.Select(ctx, req.Filter)
	if err != nil {
		u.recordFailure(ports.ActionScan)
		logger.ErrorContext(ctx, "directory scan failed", "error", err)
		return u.finish(ctx, logger, rep, fmt.Errorf("scan directory: %w", err))
	}
	u.recordSuccess(ports.ActionScan)
	rep.Targets = len(targets)

	u.enter(ctx, &rep, eventTargetsSelected)
	if err := u.attackAll(ctx, logger, targets, req.Params, &rep); err != nil {
		return u.finish(ctx, logger, rep, err)
	}

	u.enter(ctx, &rep, eventAttacksDone)
	if flushDue(rep.Result, req.Params) {
		if err := u.storeGold(ctx, logger, &rep); err != nil {
			return u.finish(ctx, logger, rep, err)
		}
	}

	logger.InfoContext(ctx, "attack session finished",
		"gold_stolen", logx.Gold(rep.Result.TotalGoldStolen),
		"attacked", rep.Result.Succeeded,
		"skipped", rep.Result.Skipped,
		"targets", rep.Targets,
	)
	return u.finish(ctx, logger, rep, nil)
}

func (u UseCase) attackAll(ctx context.Context, logger *slog.Logger, targets []raid.Player, params raid.AttackParams, rep *Report) error {
	for _, target := range targets {
		stolen, err := u.attack(ctx, logger, target)
		switch {
		case errors.Is(err, ErrAttackAttemptFailed):
			u.recordFailure(ports.ActionAttack)
			rep.Result = rep.Result.WithSkip()
		case err != nil:
			return err
		default:
			u.recordSuccess(ports.ActionAttack)
			var due maintenance
			rep.Result, due = advance(rep.Result, stolen, params)
			if due.repair {
				if err := u.repairWeapons(ctx, logger); err != nil {
					return err
				}
			}
			if due.deposit {
				if err := u.storeGold(ctx, logger, rep); err != nil {
					return err
				}
			}
		}
		if err := u.Pacer.BetweenTargets(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (u UseCase) repairWeapons(ctx context.Context, logger *slog.Logger) error {
	if err := u.Pacer.BetweenSteps(ctx); err != nil {
		return err
	}
	if err := u.repair(ctx, logger); err != nil {
		return err
	}
	return u.Pacer.BetweenSteps(ctx)
}

func (u UseCase) storeGold(ctx context.Context, logger *slog.Logger, rep *Report) error {
	if err := u.Pacer.BetweenSteps(ctx); err != nil {
		return err
	}
	amount, err := u.deposit(ctx, logger)
	if err != nil {
		return err
	}
	rep.Deposited += amount
	return u.Pacer.AfterDeposit(ctx)
}

// finish logs out and returns the report with cause. Logout is best effort:
// its failure is logged, never returned. A cancelled ctx skips the pause
// and still sends the logout.
func (u UseCase) finish(ctx context.Context, logger *slog.Logger, rep Report, cause error) (Report, error) {
	logoutCtx := ctx
	if ctx.Err() != nil {
		logoutCtx = context.WithoutCancel(ctx)
	} else if err := u.Pacer.BeforeLogout(ctx); err != nil {
		logoutCtx = context.WithoutCancel(ctx)
		if cause == nil {
			cause = err
		}
	}

	if err := u.Client.Logout(logoutCtx); err != nil {
		u.recordFailure(ports.ActionLogout)
		logger.ErrorContext(logoutCtx, "logout failed", "error", err)
	} else {
		u.recordSuccess(ports.ActionLogout)
		logger.DebugContext(logoutCtx, "logged out")
	}
	u.enter(logoutCtx, &rep, eventLoggedOut)
	return rep, cause
}

func (u UseCase) enter(ctx context.Context, rep *Report, ev event) {
	to, ok := rep.State.next(ev)
	if !ok {
		u.logger().WarnContext(ctx, "unexpected session event", "state", rep.State, "event", ev)
		return
	}
	logx.Verbose(ctx, u.logger(), "session state", "from", rep.State, "to", to)
	rep.State = to
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger == nil {
		return slog.Default()
	}
	return u.Logger
}

func (u UseCase) recordSuccess(kind ports.ActionKind) {
	if u.Metrics != nil {
		u.Metrics.RecordSuccess(kind)
	}
}

func (u UseCase) recordFailure(kind ports.ActionKind) {
	if u.Metrics != nil {
		u.Metrics.RecordFailure(kind)
	}
}
