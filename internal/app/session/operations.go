package session

import (
	"context"
	"fmt"
	"log/slog"

	"goldraid/internal/app/ports"
	"goldraid/internal/domain/raid"
	"goldraid/internal/logx"
)

// attack visits the target's profile, then submits the attack. A failure of
// either remote call is an ErrAttackAttemptFailed; other errors come from
// pacing and abort the session.
func (u UseCase) attack(ctx context.Context, logger *slog.Logger, target raid.Player) (int, error) {
	logger.DebugContext(ctx, "attacking player", "name", target.Name, "gold", logx.Gold(target.Gold), "rank", target.Rank)
	step := logx.Indent(logger)

	logx.Verbose(ctx, step, "displaying player page")
	if err := u.Client.ReadTargetStatus(ctx, target.Name); err != nil {
		logx.Indent(step).ErrorContext(ctx, "player page unavailable", "name", target.Name, "error", err)
		return 0, fmt.Errorf("%w: status of %s: %w", ErrAttackAttemptFailed, target.Name, err)
	}

	if err := u.Pacer.InPageAction(ctx); err != nil {
		return 0, err
	}

	logx.Verbose(ctx, step, "attacking")
	stolen, err := u.Client.Attack(ctx, target.Name)
	if err != nil {
		logx.Indent(step).ErrorContext(ctx, "attack not carried out", "name", target.Name, "error", err)
		return 0, fmt.Errorf("%w: attack %s: %w", ErrAttackAttemptFailed, target.Name, err)
	}
	if stolen > 0 {
		logx.Verbose(ctx, logx.Indent(step), "victory", "gold_stolen", logx.Gold(stolen))
	} else {
		logx.Verbose(ctx, logx.Indent(step), "defeat")
	}
	return stolen, nil
}

// repair reads the weapon wear for the record, then asks for a repair.
// Remote failures are logged only.
func (u UseCase) repair(ctx context.Context, logger *slog.Logger) error {
	logx.Verbose(ctx, logger, "repairing weapons")
	step := logx.Indent(logger)

	logx.Verbose(ctx, step, "displaying weapons page")
	if wear, err := u.Client.ReadWearLevel(ctx); err != nil {
		step.ErrorContext(ctx, "weapons page unavailable", "error", err)
	} else {
		logx.Verbose(ctx, step, "weapons worn", "percent", wear)
	}

	if err := u.Pacer.InPageAction(ctx); err != nil {
		return err
	}

	logx.Verbose(ctx, step, "repair request")
	if err := u.Client.Repair(ctx); err != nil {
		u.recordFailure(ports.ActionRepair)
		logger.ErrorContext(ctx, "couldn't repair weapons, is there enough gold?", "error", fmt.Errorf("%w: %w", ErrMaintenanceFailed, err))
		return nil
	}
	u.recordSuccess(ports.ActionRepair)
	logger.InfoContext(ctx, "weapons repaired")
	return nil
}

// deposit stores the held gold reported by the game, which may differ from
// what the session counted. It returns the amount stored.
func (u UseCase) deposit(ctx context.Context, logger *slog.Logger) (int, error) {
	logx.Verbose(ctx, logger, "storing gold into the chest")
	step := logx.Indent(logger)

	logx.Verbose(ctx, step, "displaying chest page")
	amount, err := u.Client.ReadChestAmount(ctx)
	if err != nil {
		u.recordFailure(ports.ActionDeposit)
		logger.ErrorContext(ctx, "chest page unavailable", "error", fmt.Errorf("%w: %w", ErrMaintenanceFailed, err))
		return 0, nil
	}
	if amount <= 0 {
		logx.Verbose(ctx, step, "nothing to store")
		return 0, nil
	}
	logx.Verbose(ctx, step, "gold to store", "amount", logx.Gold(amount))

	if err := u.Pacer.InPageAction(ctx); err != nil {
		return 0, err
	}

	logx.Verbose(ctx, step, "storing everything")
	if err := u.Client.Deposit(ctx, amount); err != nil {
		u.recordFailure(ports.ActionDeposit)
		logx.Indent(step).ErrorContext(ctx, "something went wrong", "error", fmt.Errorf("%w: %w", ErrMaintenanceFailed, err))
		return 0, nil
	}
	u.recordSuccess(ports.ActionDeposit)
	logx.Verbose(ctx, logx.Indent(step), "the gold is safe")
	logger.InfoContext(ctx, "gold stored in chest", "amount", logx.Gold(amount))
	return amount, nil
}
