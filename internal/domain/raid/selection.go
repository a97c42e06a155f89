package raid

import "slices"

// RichestFirst orders players by descending gold. Used with a stable sort so
// equal gold keeps directory order.
func RichestFirst(a, b Player) int {
	switch {
	case a.Gold > b.Gold:
		return -1
	case a.Gold < b.Gold:
		return 1
	default:
		return 0
	}
}

// FilterPage keeps the eligible players of one directory page, richest
// first, at most f.MaxTurns of them. The page is not modified.
func FilterPage(page []Player, f PlayerFilter) []Player {
	kept := make([]Player, 0, len(page))
	for _, p := range page {
		if f.Accepts(p) {
			kept = append(kept, p)
		}
	}
	return SelectRichest(kept, f.MaxTurns)
}

// SelectRichest returns at most max players from candidates, richest first.
// The input slice is not modified.
func SelectRichest(candidates []Player, max int) []Player {
	out := slices.Clone(candidates)
	slices.SortStableFunc(out, RichestFirst)
	if max >= 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
