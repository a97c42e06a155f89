package pacing

import "context"

// Noop never waits. Used for rehearsals against the sandbox and in tests.
type Noop struct{}

func (Noop) AfterLogin(ctx context.Context) error { return ctx.Err() }
func (Noop) BetweenPages(ctx context.Context) error { return ctx.Err() }
func (Noop) InPageAction(ctx context.Context) error { return ctx.Err() }
func (Noop) BetweenSteps(ctx context.Context) error { return ctx.Err() }
func (Noop) BetweenTargets(ctx context.Context) error { return ctx.Err() }
func (Noop) AfterDeposit(ctx context.Context) error { return ctx.Err() }
func (Noop) BeforeLogout(ctx context.Context) error { return ctx.Err() }
