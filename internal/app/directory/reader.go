package directory

import (
	"context"
	"errors"
	"fmt"

	"goldraid/internal/app/ports"
	"goldraid/internal/domain/raid"
)

// DefaultPageSize is the number of ranks the game lists per directory page.
const DefaultPageSize = 98

// Reader reads the ranked directory one fixed-size page at a time.
type Reader struct {
	Client   ports.DirectoryClient
	PageSize int
}

func (r Reader) pageSize() int {
	if r.PageSize <= 0 {
		return DefaultPageSize
	}
	return r.PageSize
}

// ReadPage returns the players ranked [startRank, startRank+PageSize).
// Failures are wrapped in ports.ErrTransport and never retried here.
func (r Reader) ReadPage(ctx context.Context, startRank int) ([]raid.Player, error) {
	players, err := r.Client.ReadDirectoryPage(ctx, startRank)
	if err != nil {
		if errors.Is(err, ports.ErrTransport) {
			return nil, fmt.Errorf("read page at rank %d: %w", startRank, err)
		}
		return nil, fmt.Errorf("read page at rank %d: %w: %w", startRank, ports.ErrTransport, err)
	}
	return players, nil
}

// Window returns the last rank covered by the page starting at startRank.
func (r Reader) Window(startRank int) int {
	return startRank + r.pageSize() - 1
}

// PageStarts lists the start rank of every page needed to cover
// [minRank, maxRank).
func (r Reader) PageStarts(minRank, maxRank int) []int {
	var out []int
	for start := minRank; start < maxRank; start += r.pageSize() {
		out = append(out, start)
	}
	return out
}
