package ports

import (
	"context"

	"goldraid/internal/domain/raid"
)

// DirectoryClient reads one page of the ranked player directory.
type DirectoryClient interface {
	ReadDirectoryPage(ctx context.Context, startRank int) ([]raid.Player, error)
}

// GameClient is everything a raid session asks of the remote game service.
// Implementations own the session with the service between Login and Logout.
type GameClient interface {
	DirectoryClient

	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error

	// ReadTargetStatus visits the target's profile before an attack.
	ReadTargetStatus(ctx context.Context, name string) error
	// Attack returns the gold stolen, zero on defeat.
	Attack(ctx context.Context, name string) (int, error)

	ReadWearLevel(ctx context.Context) (int, error)
	Repair(ctx context.Context) error

	// ReadChestAmount returns the held gold not deposited yet.
	ReadChestAmount(ctx context.Context) (int, error)
	Deposit(ctx context.Context, amount int) error
}
