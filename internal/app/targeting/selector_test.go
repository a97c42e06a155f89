package targeting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"goldraid/internal/app/directory"
	"goldraid/internal/app/ports"
	"goldraid/internal/domain/raid"
)

func TestSelector_SelectsGlobalRichestWithinBounds(t *testing.T) {
	dir := newFakeDirectory(1, 300, func(rank int) int { return (rank * 7919) % 1000 })
	pacer := &countingPacer{}
	s := Selector{
		Reader: directory.Reader{Client: dir, PageSize: 98},
		Pacer:  pacer,
		Logger: slog.New(slog.DiscardHandler),
	}
	f := raid.PlayerFilter{MinRank: 1, MaxRank: 250, GoldThreshold: 500, MaxTurns: 10}

	got, err := s.Select(context.Background(), f)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got) != f.MaxTurns {
		t.Fatalf("expected %d targets, got %d", f.MaxTurns, len(got))
	}
	for i, p := range got {
		if p.Gold < f.GoldThreshold || p.Rank > f.MaxRank {
			t.Fatalf("ineligible target %+v", p)
		}
		if i > 0 && got[i-1].Gold < p.Gold {
			t.Fatalf("targets not richest first at %d: %v", i, got)
		}
	}

	// Brute force over every eligible player: the selection must be the global top.
	var all []raid.Player
	for rank := 1; rank <= f.MaxRank; rank++ {
		all = append(all, dir.player(rank))
	}
	want := raid.SelectRichest(raid.FilterPage(all, raid.PlayerFilter{MinRank: 1, MaxRank: f.MaxRank, GoldThreshold: f.GoldThreshold, MaxTurns: len(all)}), f.MaxTurns)
	for i := range want {
		if want[i].Gold != got[i].Gold {
			t.Fatalf("target %d gold mismatch: got=%d want=%d", i, got[i].Gold, want[i].Gold)
		}
	}
	if pacer.pages != 3 {
		t.Fatalf("expected one page pause per page read, got %d", pacer.pages)
	}
}

func TestSelector_PageCountFollowsRankWindow(t *testing.T) {
	dir := newFakeDirectory(1, 5000, func(int) int { return 0 })
	s := Selector{
		Reader: directory.Reader{Client: dir, PageSize: 98},
		Pacer:  &countingPacer{},
		Logger: slog.New(slog.DiscardHandler),
	}
	got, err := s.Select(context.Background(), raid.PlayerFilter{MinRank: 2000, MaxRank: 4000, GoldThreshold: 1, MaxTurns: 5})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no targets, got %d", len(got))
	}
	if len(dir.reads) != 21 {
		t.Fatalf("expected 21 page reads, got %d", len(dir.reads))
	}
}

func TestSelector_SortsAcrossPagesWhenUnderLimit(t *testing.T) {
	gold := map[int]int{1: 100, 2: 50, 3: 200}
	dir := newFakeDirectory(1, 3, func(rank int) int { return gold[rank] })
	dir.pageSize = 2
	s := Selector{
		Reader: directory.Reader{Client: dir, PageSize: 2},
		Pacer:  &countingPacer{},
		Logger: slog.New(slog.DiscardHandler),
	}
	got, err := s.Select(context.Background(), raid.PlayerFilter{MinRank: 1, MaxRank: 4, MaxTurns: 5})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got) != 3 || got[0].Gold != 200 || got[1].Gold != 100 || got[2].Gold != 50 {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestSelector_PropagatesTransportError(t *testing.T) {
	dir := newFakeDirectory(1, 500, func(int) int { return 1000 })
	dir.failAt = 99
	s := Selector{
		Reader: directory.Reader{Client: dir, PageSize: 98},
		Pacer:  &countingPacer{},
		Logger: slog.New(slog.DiscardHandler),
	}
	_, err := s.Select(context.Background(), raid.PlayerFilter{MinRank: 1, MaxRank: 400, MaxTurns: 5})
	if !errors.Is(err, ports.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestSelector_RejectsInvalidFilter(t *testing.T) {
	s := Selector{}
	if _, err := s.Select(context.Background(), raid.PlayerFilter{MinRank: 5, MaxRank: 1, MaxTurns: 1}); !errors.Is(err, raid.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

type fakeDirectory struct {
	first, last int
	goldOf      func(rank int) int
	pageSize    int
	failAt      int
	reads       []int
}

func newFakeDirectory(first, last int, goldOf func(rank int) int) *fakeDirectory {
	return &fakeDirectory{first: first, last: last, goldOf: goldOf, pageSize: 98}
}

func (d *fakeDirectory) player(rank int) raid.Player {
	return raid.Player{Name: fmt.Sprintf("p%d", rank), Gold: d.goldOf(rank), Rank: rank}
}

func (d *fakeDirectory) ReadDirectoryPage(_ context.Context, startRank int) ([]raid.Player, error) {
	d.reads = append(d.reads, startRank)
	if d.failAt != 0 && startRank == d.failAt {
		return nil, errors.New("page unavailable")
	}
	var out []raid.Player
	for rank := startRank; rank < startRank+d.pageSize && rank <= d.last; rank++ {
		if rank >= d.first {
			out = append(out, d.player(rank))
		}
	}
	return out, nil
}

type countingPacer struct {
	pages int
}

func (p *countingPacer) AfterLogin(context.Context) error { return nil }
func (p *countingPacer) BetweenPages(context.Context) error { p.pages++; return nil }
func (p *countingPacer) InPageAction(context.Context) error { return nil }
func (p *countingPacer) BetweenSteps(context.Context) error { return nil }
func (p *countingPacer) BetweenTargets(context.Context) error { return nil }
func (p *countingPacer) AfterDeposit(context.Context) error { return nil }
func (p *countingPacer) BeforeLogout(context.Context) error { return nil }
