package ports

import "context"

// Pacer provides one named wait per kind of pause a human player takes.
// Each method blocks and only fails when ctx is done.
type Pacer interface {
	AfterLogin(ctx context.Context) error
	BetweenPages(ctx context.Context) error
	InPageAction(ctx context.Context) error
	BetweenSteps(ctx context.Context) error
	BetweenTargets(ctx context.Context) error
	AfterDeposit(ctx context.Context) error
	BeforeLogout(ctx context.Context) error
}
