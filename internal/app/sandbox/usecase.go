package sandbox

import (
	"context"
	"errors"
	"strings"
	"time"

	"goldraid/internal/app/ports"
	"goldraid/internal/domain/realm"

	"github.com/google/uuid"
)

var (
	ErrInvalidRequest     = errors.New("invalid sandbox request")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownSession     = errors.New("unknown session")
)

const (
	maxDirectoryPage = 500
	saveAttempts     = 3
)

// UseCase serves the game API of the sandbox realm. All reads and writes
// run inside TxManager; account updates are versioned and retried on
// conflict.
type UseCase struct {
	Accounts  ports.AccountRepository
	Sessions  ports.SessionRepository
	TxManager ports.TxManager
	Rules     realm.Rules
	Metrics   ports.ActionMetrics
	Now       func() time.Time
	NewToken  func() string
}

// Seed stores the accounts that do not exist yet.
func (u UseCase) Seed(ctx context.Context, accounts []realm.Account) (int, error) {
	created := 0
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		for _, acc := range accounts {
			_, err := u.Accounts.GetByName(txCtx, acc.Name)
			if err == nil {
				continue
			}
			if !errors.Is(err, ports.ErrNotFound) {
				return err
			}
			acc.Version = 1
			acc.UpdatedAt = u.now()
			if err := u.Accounts.SaveWithVersion(txCtx, acc, 0); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	return created, err
}

// Register creates a playable account.
func (u UseCase) Register(ctx context.Context, req RegisterRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Password == "" || req.Rank < 1 {
		return ErrInvalidRequest
	}
	salt, err := randomBytes(16)
	if err != nil {
		return err
	}
	acc := realm.Account{
		Name:    req.Name,
		Rank:    req.Rank,
		Gold:    req.Gold,
		Turns:   req.Turns,
		KeySalt: salt,
		KeyHash: credentialHash(salt, req.Password),
	}
	_, err = u.Seed(ctx, []realm.Account{acc})
	return err
}

func (u UseCase) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		u.recordFailure(ports.ActionLogin)
		return LoginResponse{}, ErrInvalidRequest
	}

	var out LoginResponse
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		acc, err := u.Accounts.GetByName(txCtx, req.Username)
		if errors.Is(err, ports.ErrNotFound) {
			return ErrInvalidCredentials
		}
		if err != nil {
			return err
		}
		if !verifyPassword(acc.KeySalt, acc.KeyHash, req.Password) {
			return ErrInvalidCredentials
		}
		token := u.newToken()
		if err := u.Sessions.Create(txCtx, ports.SessionRecord{
			Token:       token,
			AccountName: acc.Name,
			CreatedAt:   u.now(),
		}); err != nil {
			return err
		}
		out = LoginResponse{Token: token, Name: acc.Name}
		return nil
	})
	if err != nil {
		u.recordFailure(ports.ActionLogin)
		return LoginResponse{}, err
	}
	u.recordSuccess(ports.ActionLogin)
	return out, nil
}

// Authenticate resolves a session token to its account name.
func (u UseCase) Authenticate(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrUnknownSession
	}
	var name string
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		rec, err := u.Sessions.GetByToken(txCtx, token)
		if errors.Is(err, ports.ErrNotFound) {
			return ErrUnknownSession
		}
		if err != nil {
			return err
		}
		name = rec.AccountName
		return nil
	})
	return name, err
}

func (u UseCase) Logout(ctx context.Context, token string) error {
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		err := u.Sessions.Delete(txCtx, token)
		if errors.Is(err, ports.ErrNotFound) {
			return ErrUnknownSession
		}
		return err
	})
	if err != nil {
		u.recordFailure(ports.ActionLogout)
		return err
	}
	u.recordSuccess(ports.ActionLogout)
	return nil
}

func (u UseCase) Directory(ctx context.Context, req DirectoryRequest) (DirectoryResponse, error) {
	if req.StartRank < 1 || req.Count < 1 || req.Count > maxDirectoryPage {
		return DirectoryResponse{}, ErrInvalidRequest
	}
	out := DirectoryResponse{Players: []PlayerEntry{}}
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		rows, err := u.Accounts.ListByRank(txCtx, req.StartRank, req.Count)
		if err != nil {
			return err
		}
		for _, acc := range rows {
			if acc.Rank >= req.StartRank+req.Count {
				break
			}
			out.Players = append(out.Players, toEntry(acc))
		}
		return nil
	})
	if err != nil {
		u.recordFailure(ports.ActionScan)
		return DirectoryResponse{}, err
	}
	u.recordSuccess(ports.ActionScan)
	return out, nil
}

func (u UseCase) Profile(ctx context.Context, name string) (PlayerEntry, error) {
	acc, err := u.account(ctx, name)
	if err != nil {
		return PlayerEntry{}, err
	}
	return toEntry(acc), nil
}

func (u UseCase) Attack(ctx context.Context, req AttackRequest) (realm.AttackOutcome, error) {
	if strings.TrimSpace(req.Attacker) == "" || strings.TrimSpace(req.Target) == "" {
		return realm.AttackOutcome{}, ErrInvalidRequest
	}
	var out realm.AttackOutcome
	err := u.update(ctx, func(txCtx context.Context) error {
		attacker, err := u.Accounts.GetByName(txCtx, req.Attacker)
		if err != nil {
			return err
		}
		defender, err := u.Accounts.GetByName(txCtx, req.Target)
		if err != nil {
			return err
		}
		outcome, a, d, err := u.Rules.Attack(attacker, defender)
		if err != nil {
			return err
		}
		if err := u.save(txCtx, a); err != nil {
			return err
		}
		if err := u.save(txCtx, d); err != nil {
			return err
		}
		out = outcome
		return nil
	})
	if err != nil {
		u.recordFailure(ports.ActionAttack)
		return realm.AttackOutcome{}, err
	}
	u.recordSuccess(ports.ActionAttack)
	return out, nil
}

func (u UseCase) Weapons(ctx context.Context, name string) (WeaponsResponse, error) {
	acc, err := u.account(ctx, name)
	if err != nil {
		return WeaponsResponse{}, err
	}
	return WeaponsResponse{Wear: acc.Wear}, nil
}

func (u UseCase) Repair(ctx context.Context, name string) (realm.RepairOutcome, error) {
	var out realm.RepairOutcome
	err := u.update(ctx, func(txCtx context.Context) error {
		acc, err := u.Accounts.GetByName(txCtx, name)
		if err != nil {
			return err
		}
		outcome, repaired, err := u.Rules.Repair(acc)
		if err != nil {
			return err
		}
		out = outcome
		return u.save(txCtx, repaired)
	})
	if err != nil {
		u.recordFailure(ports.ActionRepair)
		return realm.RepairOutcome{}, err
	}
	u.recordSuccess(ports.ActionRepair)
	return out, nil
}

func (u UseCase) Chest(ctx context.Context, name string) (ChestResponse, error) {
	acc, err := u.account(ctx, name)
	if err != nil {
		return ChestResponse{}, err
	}
	return ChestResponse{HeldGold: acc.Gold, ChestGold: acc.Chest}, nil
}

func (u UseCase) Deposit(ctx context.Context, req DepositRequest) (ChestResponse, error) {
	var out ChestResponse
	err := u.update(ctx, func(txCtx context.Context) error {
		acc, err := u.Accounts.GetByName(txCtx, req.Name)
		if err != nil {
			return err
		}
		stored, err := realm.Deposit(acc, req.Amount)
		if err != nil {
			return err
		}
		out = ChestResponse{HeldGold: stored.Gold, ChestGold: stored.Chest}
		return u.save(txCtx, stored)
	})
	if err != nil {
		u.recordFailure(ports.ActionDeposit)
		return ChestResponse{}, err
	}
	u.recordSuccess(ports.ActionDeposit)
	return out, nil
}

func (u UseCase) account(ctx context.Context, name string) (realm.Account, error) {
	if strings.TrimSpace(name) == "" {
		return realm.Account{}, ErrInvalidRequest
	}
	var acc realm.Account
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		acc, err = u.Accounts.GetByName(txCtx, name)
		return err
	})
	return acc, err
}

// update runs fn in a transaction, starting over when a versioned save lost
// a race.
func (u UseCase) update(ctx context.Context, fn func(txCtx context.Context) error) error {
	var err error
	for i := 0; i < saveAttempts; i++ {
		err = u.TxManager.RunInTx(ctx, fn)
		if !errors.Is(err, ports.ErrConflict) {
			return err
		}
	}
	return err
}

func (u UseCase) save(ctx context.Context, acc realm.Account) error {
	expected := acc.Version
	acc.Version++
	acc.UpdatedAt = u.now()
	return u.Accounts.SaveWithVersion(ctx, acc, expected)
}

func (u UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now().UTC()
	}
	return u.Now().UTC()
}

func (u UseCase) newToken() string {
	if u.NewToken == nil {
		return uuid.NewString()
	}
	return u.NewToken()
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

func toEntry(acc realm.Account) PlayerEntry {
	return PlayerEntry{Name: acc.Name, Gold: acc.Gold, Rank: acc.Rank}
}
