package raid

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFilter       = errors.New("invalid player filter")
	ErrInvalidAttackParams = errors.New("invalid attack params")
)

// Player is a directory entry as seen at scan time. It may be stale by the
// time the attack is submitted.
type Player struct {
	Name string `json:"name"`
	Gold int    `json:"gold"`
	Rank int    `json:"rank"`
}

// PlayerFilter bounds the ranks to scan, the minimum wealth of a target and
// the number of attacks in a session.
type PlayerFilter struct {
	MinRank       int
	MaxRank       int
	GoldThreshold int
	MaxTurns      int
}

func (f PlayerFilter) Validate() error {
	switch {
	case f.MinRank < 1:
		return fmt.Errorf("%w: min rank %d < 1", ErrInvalidFilter, f.MinRank)
	case f.MinRank >= f.MaxRank:
		return fmt.Errorf("%w: min rank %d >= max rank %d", ErrInvalidFilter, f.MinRank, f.MaxRank)
	case f.GoldThreshold < 0:
		return fmt.Errorf("%w: negative gold threshold", ErrInvalidFilter)
	case f.MaxTurns < 1:
		return fmt.Errorf("%w: max turns %d < 1", ErrInvalidFilter, f.MaxTurns)
	}
	return nil
}

// Accepts reports whether p is eligible under the filter.
func (f PlayerFilter) Accepts(p Player) bool {
	return p.Gold >= f.GoldThreshold && p.Rank <= f.MaxRank
}

// AttackParams sets how many successful attacks separate two repairs and two
// deposits.
type AttackParams struct {
	RepairFrequency  int
	StoringFrequency int
}

func (p AttackParams) Validate() error {
	if p.RepairFrequency < 1 {
		return fmt.Errorf("%w: repair frequency %d < 1", ErrInvalidAttackParams, p.RepairFrequency)
	}
	if p.StoringFrequency < 1 {
		return fmt.Errorf("%w: storing frequency %d < 1", ErrInvalidAttackParams, p.StoringFrequency)
	}
	return nil
}

// RepairDue reports whether a repair follows the given number of successes.
func (p AttackParams) RepairDue(succeeded int) bool {
	return succeeded%p.RepairFrequency == 0
}

// DepositDue reports whether a deposit follows the given number of successes.
func (p AttackParams) DepositDue(succeeded int) bool {
	return succeeded%p.StoringFrequency == 0
}

// SessionResult accumulates the outcome of one attack session. Attempted and
// Succeeded only count completed attacks; Skipped counts targets whose
// attempt could not be carried out.
type SessionResult struct {
	TotalGoldStolen int `json:"total_gold_stolen"`
	Attempted       int `json:"attempted"`
	Succeeded       int `json:"succeeded"`
	Skipped         int `json:"skipped"`
}

// WithAttack returns r with one completed attack folded in.
func (r SessionResult) WithAttack(stolen int) SessionResult {
	r.TotalGoldStolen += stolen
	r.Succeeded++
	r.Attempted++
	return r
}

// WithSkip returns r with one skipped target folded in.
func (r SessionResult) WithSkip() SessionResult {
	r.Skipped++
	return r
}
