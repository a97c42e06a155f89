package pacing

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

type Speed string

const (
	SpeedFast       Speed = "fast"
	SpeedNormal     Speed = "normal"
	SpeedSlow       Speed = "slow"
	SpeedReallySlow Speed = "really_slow"
)

func ParseSpeed(s string) (Speed, error) {
	switch sp := Speed(strings.ToLower(strings.TrimSpace(s))); sp {
	case SpeedFast, SpeedNormal, SpeedSlow, SpeedReallySlow:
		return sp, nil
	case "":
		return SpeedNormal, nil
	default:
		return "", fmt.Errorf("unknown pacing speed %q", s)
	}
}

func (s Speed) factor() float64 {
	switch s {
	case SpeedFast:
		return 0.25
	case SpeedSlow:
		return 2
	case SpeedReallySlow:
		return 3
	default:
		return 1
	}
}

// Delay names a class of pause.
type Delay string

const (
	DelayAfterLogin     Delay = "after_login"
	DelayBetweenPages   Delay = "between_pages"
	DelayInPageAction   Delay = "in_page_action"
	DelayBetweenSteps   Delay = "between_steps"
	DelayBetweenTargets Delay = "between_targets"
	DelayAfterDeposit   Delay = "after_deposit"
	DelayBeforeLogout   Delay = "before_logout"
)

type window struct {
	min, max time.Duration
}

// Base windows at normal speed.
var baseWindows = map[Delay]window{
	DelayAfterLogin:     {2 * time.Second, 4 * time.Second},
	DelayBetweenPages:   {1 * time.Second, 3 * time.Second},
	DelayInPageAction:   {600 * time.Millisecond, 1500 * time.Millisecond},
	DelayBetweenSteps:   {1 * time.Second, 2500 * time.Millisecond},
	DelayBetweenTargets: {3 * time.Second, 7 * time.Second},
	DelayAfterDeposit:   {4 * time.Second, 10 * time.Second},
	DelayBeforeLogout:   {3 * time.Second, 7 * time.Second},
}

// Sleeper waits a random duration in the window of each delay class,
// scaled by its speed. It is not safe for concurrent use.
type Sleeper struct {
	Speed Speed
	Rand  *rand.Rand
	Sleep func(ctx context.Context, d time.Duration) error
}

func NewSleeper(speed Speed, seed uint64) *Sleeper {
	return &Sleeper{
		Speed: speed,
		Rand:  rand.New(rand.NewPCG(seed, seed>>1|1)),
		Sleep: sleepContext,
	}
}

// Duration draws the next wait for the delay class.
func (s *Sleeper) Duration(d Delay) time.Duration {
	w, ok := baseWindows[d]
	if !ok {
		return 0
	}
	f := s.Speed.factor()
	lo := time.Duration(float64(w.min) * f)
	hi := time.Duration(float64(w.max) * f)
	if hi <= lo {
		return lo
	}
	r := s.Rand
	if r == nil {
		return lo + time.Duration(rand.Int64N(int64(hi-lo)))
	}
	return lo + time.Duration(r.Int64N(int64(hi-lo)))
}

func (s *Sleeper) wait(ctx context.Context, d Delay) error {
	sleep := s.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	return sleep(ctx, s.Duration(d))
}

func (s *Sleeper) AfterLogin(ctx context.Context) error { return s.wait(ctx, DelayAfterLogin) }
func (s *Sleeper) BetweenPages(ctx context.Context) error { return s.wait(ctx, DelayBetweenPages) }
func (s *Sleeper) InPageAction(ctx context.Context) error { return s.wait(ctx, DelayInPageAction) }
func (s *Sleeper) BetweenSteps(ctx context.Context) error { return s.wait(ctx, DelayBetweenSteps) }
func (s *Sleeper) BetweenTargets(ctx context.Context) error { return s.wait(ctx, DelayBetweenTargets) }
func (s *Sleeper) AfterDeposit(ctx context.Context) error { return s.wait(ctx, DelayAfterDeposit) }
func (s *Sleeper) BeforeLogout(ctx context.Context) error { return s.wait(ctx, DelayBeforeLogout) }

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
