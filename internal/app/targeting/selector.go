package targeting

import (
	"context"
	"log/slog"

	"goldraid/internal/app/ports"
	"goldraid/internal/domain/raid"
	"goldraid/internal/logx"
)

// PageReader is the slice of directory.Reader the selector needs.
type PageReader interface {
	ReadPage(ctx context.Context, startRank int) ([]raid.Player, error)
	Window(startRank int) int
	PageStarts(minRank, maxRank int) []int
}

// Selector scans the directory and picks the richest eligible players.
type Selector struct {
	Reader PageReader
	Pacer  ports.Pacer
	Logger *slog.Logger
}

// Select returns at most f.MaxTurns players, richest first.
//
// Each page is filtered and truncated to f.MaxTurns before being kept, so the
// candidate list stays bounded whatever the width of the rank window. Paging
// stops on the rank bounds only: a later page may hold richer players.
func (s Selector) Select(ctx context.Context, f raid.PlayerFilter) ([]raid.Player, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var candidates []raid.Player
	for _, start := range s.Reader.PageStarts(f.MinRank, f.MaxRank) {
		logger.DebugContext(ctx, "reading directory page", "from_rank", start, "to_rank", s.Reader.Window(start))
		page, err := s.Reader.ReadPage(ctx, start)
		if err != nil {
			return nil, err
		}
		kept := raid.FilterPage(page, f)
		logx.Verbose(ctx, logx.Indent(logger), "page filtered", "listed", len(page), "kept", len(kept))
		candidates = append(candidates, kept...)
		if err := s.Pacer.BetweenPages(ctx); err != nil {
			return nil, err
		}
	}
	logger.InfoContext(ctx, "players matching rank and gold criteria", "count", len(candidates))

	return raid.SelectRichest(candidates, f.MaxTurns), nil
}
