package session

import "goldraid/internal/domain/raid"

type maintenance struct {
	repair  bool
	deposit bool
}

// advance folds one completed attack into the running result and reports
// the maintenance falling due after it.
func advance(r raid.SessionResult, stolen int, p raid.AttackParams) (raid.SessionResult, maintenance) {
	r = r.WithAttack(stolen)
	return r, maintenance{
		repair:  p.RepairDue(r.Succeeded),
		deposit: p.DepositDue(r.Succeeded),
	}
}

// flushDue reports whether gold stolen since the last periodic deposit is
// still held at the end of the attack loop.
func flushDue(r raid.SessionResult, p raid.AttackParams) bool {
	return !p.DepositDue(r.Succeeded)
}
