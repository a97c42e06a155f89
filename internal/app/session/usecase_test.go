package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"goldraid/internal/app/ports"
	"goldraid/internal/domain/raid"
)

func TestRun_StepSequence(t *testing.T) {
	trace := &[]string{}
	client := &fakeClient{trace: trace, chest: 300, gold: map[string]int{"a": 100, "b": 200}}
	uc := newUseCase(client, trace, fakeSelector{targets: players("a", "b")})

	rep, err := uc.Run(context.Background(), request(raid.AttackParams{RepairFrequency: 2, StoringFrequency: 2}))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	want := []string{
		"login", "wait:after_login",
		"status:a", "wait:in_page", "attack:a", "wait:between_targets",
		"status:b", "wait:in_page", "attack:b",
		"wait:between_steps", "wear", "wait:in_page", "repair", "wait:between_steps",
		"wait:between_steps", "chest", "wait:in_page", "deposit:300", "wait:after_deposit",
		"wait:between_targets",
		"wait:before_logout", "logout",
	}
	if !slices.Equal(*trace, want) {
		t.Fatalf("step sequence mismatch:\n got=%v\nwant=%v", *trace, want)
	}
	if rep.Result.TotalGoldStolen != 300 || rep.Result.Succeeded != 2 || rep.Result.Attempted != 2 {
		t.Fatalf("unexpected result: %+v", rep.Result)
	}
	if rep.State != StateLoggedOut {
		t.Fatalf("expected logged_out, got %s", rep.State)
	}
	if rep.Deposited != 300 {
		t.Fatalf("expected 300 deposited, got %d", rep.Deposited)
	}
}

func TestRun_MaintenanceFrequencies(t *testing.T) {
	trace := &[]string{}
	names := []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7"}
	client := &fakeClient{trace: trace, chest: 10}
	uc := newUseCase(client, trace, fakeSelector{targets: players(names...)})

	rep, err := uc.Run(context.Background(), request(raid.AttackParams{RepairFrequency: 3, StoringFrequency: 5}))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got := client.repairsAfter; !slices.Equal(got, []string{"t3", "t6"}) {
		t.Fatalf("repairs after %v, want [t3 t6]", got)
	}
	if got := client.depositsAfter; !slices.Equal(got, []string{"t5", "t7"}) {
		t.Fatalf("deposits after %v, want [t5 t7] (periodic then flush)", got)
	}
	if rep.Result.Succeeded != 7 {
		t.Fatalf("expected 7 successes, got %d", rep.Result.Succeeded)
	}
}

func TestRun_SkippedTargetDoesNotCount(t *testing.T) {
	trace := &[]string{}
	client := &fakeClient{
		trace:      trace,
		chest:      10,
		gold:       map[string]int{"a": 10, "b": 20, "c": 30},
		statusFail: map[string]bool{"b": true},
	}
	uc := newUseCase(client, trace, fakeSelector{targets: players("a", "b", "c")})

	rep, err := uc.Run(context.Background(), request(raid.AttackParams{RepairFrequency: 2, StoringFrequency: 10}))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if rep.Result.TotalGoldStolen != 40 || rep.Result.Succeeded != 2 || rep.Result.Attempted != 2 || rep.Result.Skipped != 1 {
		t.Fatalf("unexpected result: %+v", rep.Result)
	}
	if slices.Contains(*trace, "attack:b") {
		t.Fatalf("skipped target was attacked: %v", *trace)
	}
	if got := count(*trace, "wait:between_targets"); got != 3 {
		t.Fatalf("expected the long pause after every target, got %d", got)
	}
	// The repair comes after the second success (c), never after the skip.
	if got := client.repairsAfter; !slices.Equal(got, []string{"c"}) {
		t.Fatalf("repairs after %v, want [c]", got)
	}
}

func TestRun_AttackSubmissionFailureIsSkipped(t *testing.T) {
	trace := &[]string{}
	client := &fakeClient{trace: trace, attackFail: map[string]bool{"a": true}, gold: map[string]int{"b": 5}}
	uc := newUseCase(client, trace, fakeSelector{targets: players("a", "b")})

	rep, err := uc.Run(context.Background(), request(raid.AttackParams{RepairFrequency: 9, StoringFrequency: 9}))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if rep.Result.Succeeded != 1 || rep.Result.Skipped != 1 || rep.Result.TotalGoldStolen != 5 {
		t.Fatalf("unexpected result: %+v", rep.Result)
	}
}

func TestRun_LoginFailureAbortsEverything(t *testing.T) {
	trace := &[]string{}
	client := &fakeClient{trace: trace, loginErr: errors.New("bad password")}
	uc := newUseCase(client, trace, fakeSelector{targets: players("a")})

	rep, err := uc.Run(context.Background(), request(raid.AttackParams{RepairFrequency: 1, StoringFrequency: 1}))
	if !errors.Is(err, ports.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
	if rep.Result != (raid.SessionResult{}) {
		t.Fatalf("expected zero result, got %+v", rep.Result)
	}
	if rep.State != StateFailed {
		t.Fatalf("expected failed, got %s", rep.State)
	}
	if !slices.Equal(*trace, []string{"login"}) {
		t.Fatalf("expected nothing after login, got %v", *trace)
	}
}

func TestRun_ScanFailureLogsOut(t *testing.T) {
	trace := &[]string{}
	client := &fakeClient{trace: trace}
	scanErr := fmt.Errorf("read page: %w", ports.ErrTransport)
	uc := newUseCase(client, trace, fakeSelector{err: scanErr})

	rep, err := uc.Run(context.Background(), request(raid.AttackParams{RepairFrequency: 1, StoringFrequency: 1}))
	if !errors.Is(err, ports.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if rep.State != StateLoggedOut {
		t.Fatalf("expected logged_out, got %s", rep.State)
	}
	if slices.Contains(*trace, "chest") || !slices.Contains(*trace, "logout") {
		t.Fatalf("expected logout without flush, got %v", *trace)
	}
}

func TestRun_LogoutFailureIsNotReturned(t *testing.T) {
	trace := &[]string{}
	client := &fakeClient{trace: trace, logoutErr: errors.New("gone")}
	uc := newUseCase(client, trace, fakeSelector{})

	rep, err := uc.Run(context.Background(), request(raid.AttackParams{RepairFrequency: 1, StoringFrequency: 1}))
	if err != nil {
		t.Fatalf("logout failure leaked: %v", err)
	}
	if rep.State != StateLoggedOut {
		t.Fatalf("expected logged_out, got %s", rep.State)
	}
}

func TestRun_NoFlushWithoutSuccess(t *testing.T) {
	trace := &[]string{}
	client := &fakeClient{trace: trace, statusFail: map[string]bool{"a": true}}
	uc := newUseCase(client, trace, fakeSelector{targets: players("a")})

	if _, err := uc.Run(context.Background(), request(raid.AttackParams{RepairFrequency: 1, StoringFrequency: 3})); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if slices.Contains(*trace, "chest") || slices.Contains(*trace, "repair") {
		t.Fatalf("unexpected maintenance: %v", *trace)
	}
}

func TestRun_MaintenanceFailuresDoNotAbort(t *testing.T) {
	trace := &[]string{}
	client := &fakeClient{
		trace:      trace,
		chest:      50,
		repairErr:  errors.New("not enough gold"),
		depositErr: errors.New("chest locked"),
		gold:       map[string]int{"a": 50, "b": 60},
	}
	uc := newUseCase(client, trace, fakeSelector{targets: players("a", "b")})

	rep, err := uc.Run(context.Background(), request(raid.AttackParams{RepairFrequency: 1, StoringFrequency: 1}))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if rep.Result.TotalGoldStolen != 110 || rep.Result.Succeeded != 2 {
		t.Fatalf("gold accounting changed by maintenance failure: %+v", rep.Result)
	}
	if !slices.Contains(*trace, "attack:b") {
		t.Fatalf("session stopped after maintenance failure: %v", *trace)
	}
}

func TestRun_DepositsRemoteHeldAmount(t *testing.T) {
	trace := &[]string{}
	client := &fakeClient{trace: trace, chest: 777, gold: map[string]int{"a": 100}}
	uc := newUseCase(client, trace, fakeSelector{targets: players("a")})

	if _, err := uc.Run(context.Background(), request(raid.AttackParams{RepairFrequency: 5, StoringFrequency: 5})); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !slices.Contains(*trace, "deposit:777") {
		t.Fatalf("expected deposit of the chest page amount, got %v", *trace)
	}
}

func TestRun_EmptyChestSkipsDeposit(t *testing.T) {
	trace := &[]string{}
	client := &fakeClient{trace: trace, chest: 0, gold: map[string]int{"a": 100}}
	uc := newUseCase(client, trace, fakeSelector{targets: players("a")})

	rep, err := uc.Run(context.Background(), request(raid.AttackParams{RepairFrequency: 5, StoringFrequency: 1}))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !slices.Contains(*trace, "chest") {
		t.Fatalf("expected the chest page to be read: %v", *trace)
	}
	for _, step := range *trace {
		if strings.HasPrefix(step, "deposit:") {
			t.Fatalf("unexpected deposit of an empty purse: %v", *trace)
		}
	}
	if rep.Deposited != 0 {
		t.Fatalf("expected nothing deposited, got %d", rep.Deposited)
	}
}

func TestRun_FailedDepositIsNotCounted(t *testing.T) {
	trace := &[]string{}
	client := &fakeClient{trace: trace, chest: 40, depositErr: errors.New("chest locked"), gold: map[string]int{"a": 40}}
	uc := newUseCase(client, trace, fakeSelector{targets: players("a")})

	rep, err := uc.Run(context.Background(), request(raid.AttackParams{RepairFrequency: 5, StoringFrequency: 1}))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if rep.Deposited != 0 {
		t.Fatalf("failed deposit counted: %d", rep.Deposited)
	}
}

func TestRun_CancelledContextStillLogsOut(t *testing.T) {
	trace := &[]string{}
	ctx, cancel := context.WithCancel(context.Background())
	client := &fakeClient{trace: trace, gold: map[string]int{"a": 1, "b": 1}}
	pacer := &fakePacer{trace: trace, onBetweenTargets: cancel}
	uc := UseCase{
		Client:   client,
		Pacer:    pacer,
		Selector: fakeSelector{targets: players("a", "b")},
		Logger:   slog.New(slog.DiscardHandler),
	}

	rep, err := uc.Run(ctx, request(raid.AttackParams{RepairFrequency: 9, StoringFrequency: 9}))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if slices.Contains(*trace, "attack:b") {
		t.Fatalf("session continued after cancellation: %v", *trace)
	}
	if (*trace)[len(*trace)-1] != "logout" {
		t.Fatalf("expected a final logout, got %v", *trace)
	}
	if rep.Result.Succeeded != 1 || rep.State != StateLoggedOut {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestRun_RejectsInvalidParams(t *testing.T) {
	uc := UseCase{}
	if _, err := uc.Run(context.Background(), request(raid.AttackParams{})); !errors.Is(err, raid.ErrInvalidAttackParams) {
		t.Fatalf("expected ErrInvalidAttackParams, got %v", err)
	}
}

func TestStateTransitions(t *testing.T) {
	s := StateIdle
	for _, ev := range []event{eventLoginSucceeded, eventScanStarted, eventTargetsSelected, eventAttacksDone, eventLoggedOut} {
		next, ok := s.next(ev)
		if !ok {
			t.Fatalf("event %s rejected in %s", ev, s)
		}
		s = next
	}
	if s != StateLoggedOut || !s.Terminal() {
		t.Fatalf("expected terminal logged_out, got %s", s)
	}
	if _, ok := StateIdle.next(eventAttacksDone); ok {
		t.Fatalf("attacks_done accepted in idle")
	}
	if failed, _ := StateIdle.next(eventLoginFailed); !failed.Terminal() {
		t.Fatalf("failed should be terminal")
	}
}

func TestAdvance(t *testing.T) {
	p := raid.AttackParams{RepairFrequency: 2, StoringFrequency: 3}
	r := raid.SessionResult{}
	var dues []maintenance
	for i := 0; i < 6; i++ {
		var due maintenance
		r, due = advance(r, 10, p)
		dues = append(dues, due)
	}
	want := []maintenance{{}, {repair: true}, {deposit: true}, {repair: true}, {}, {repair: true, deposit: true}}
	if !slices.Equal(dues, want) {
		t.Fatalf("dues=%v want=%v", dues, want)
	}
	if r.TotalGoldStolen != 60 || flushDue(r, p) {
		t.Fatalf("unexpected result %+v flush=%v", r, flushDue(r, p))
	}
}

func newUseCase(client *fakeClient, trace *[]string, selector fakeSelector) UseCase {
	return UseCase{
		Client:   client,
		Pacer:    &fakePacer{trace: trace},
		Selector: selector,
		Logger:   slog.New(slog.DiscardHandler),
	}
}

func request(params raid.AttackParams) Request {
	return Request{
		Username: "knight",
		Password: "secret",
		Filter:   raid.PlayerFilter{MinRank: 1, MaxRank: 100, GoldThreshold: 0, MaxTurns: 50},
		Params:   params,
	}
}

func players(names ...string) []raid.Player {
	out := make([]raid.Player, 0, len(names))
	for i, n := range names {
		out = append(out, raid.Player{Name: n, Gold: 1000 - i, Rank: i + 1})
	}
	return out
}

func count(trace []string, step string) int {
	n := 0
	for _, s := range trace {
		if s == step {
			n++
		}
	}
	return n
}

type fakeSelector struct {
	targets []raid.Player
	err     error
}

func (s fakeSelector) Select(context.Context, raid.PlayerFilter) ([]raid.Player, error) {
	return s.targets, s.err
}

type fakeClient struct {
	trace *[]string

	gold       map[string]int
	statusFail map[string]bool
	attackFail map[string]bool
	chest      int

	loginErr   error
	logoutErr  error
	repairErr  error
	depositErr error

	lastAttacked  string
	repairsAfter  []string
	depositsAfter []string
}

func (c *fakeClient) log(step string) { *c.trace = append(*c.trace, step) }

func (c *fakeClient) Login(context.Context, string, string) error {
	c.log("login")
	return c.loginErr
}

func (c *fakeClient) Logout(context.Context) error {
	c.log("logout")
	return c.logoutErr
}

func (c *fakeClient) ReadDirectoryPage(context.Context, int) ([]raid.Player, error) {
	return nil, errors.New("not used")
}

func (c *fakeClient) ReadTargetStatus(_ context.Context, name string) error {
	c.log("status:" + name)
	if c.statusFail[name] {
		return errors.New("profile unavailable")
	}
	return nil
}

func (c *fakeClient) Attack(_ context.Context, name string) (int, error) {
	c.log("attack:" + name)
	if c.attackFail[name] {
		return 0, errors.New("attack rejected")
	}
	c.lastAttacked = name
	return c.gold[name], nil
}

func (c *fakeClient) ReadWearLevel(context.Context) (int, error) {
	c.log("wear")
	return 42, nil
}

func (c *fakeClient) Repair(context.Context) error {
	c.log("repair")
	c.repairsAfter = append(c.repairsAfter, c.lastAttacked)
	return c.repairErr
}

func (c *fakeClient) ReadChestAmount(context.Context) (int, error) {
	c.log("chest")
	return c.chest, nil
}

func (c *fakeClient) Deposit(_ context.Context, amount int) error {
	c.log(fmt.Sprintf("deposit:%d", amount))
	c.depositsAfter = append(c.depositsAfter, c.lastAttacked)
	return c.depositErr
}

type fakePacer struct {
	trace            *[]string
	onBetweenTargets func()
}

func (p *fakePacer) wait(ctx context.Context, name string) error {
	*p.trace = append(*p.trace, "wait:"+name)
	return ctx.Err()
}

func (p *fakePacer) AfterLogin(ctx context.Context) error { return p.wait(ctx, "after_login") }
func (p *fakePacer) BetweenPages(ctx context.Context) error { return p.wait(ctx, "between_pages") }
func (p *fakePacer) InPageAction(ctx context.Context) error { return p.wait(ctx, "in_page") }
func (p *fakePacer) BetweenSteps(ctx context.Context) error { return p.wait(ctx, "between_steps") }
func (p *fakePacer) AfterDeposit(ctx context.Context) error { return p.wait(ctx, "after_deposit") }
func (p *fakePacer) BeforeLogout(ctx context.Context) error { return p.wait(ctx, "before_logout") }

func (p *fakePacer) BetweenTargets(ctx context.Context) error {
	if p.onBetweenTargets != nil {
		p.onBetweenTargets()
	}
	return p.wait(ctx, "between_targets")
}
