package realm

// Rules holds the tuning of the sandbox combat economy.
type Rules struct {
	// StealPercent of the defender's held gold goes to a victorious attacker.
	StealPercent int
	// WearPerAttack is added to the attacker's weapon wear on every attack.
	WearPerAttack int
	// MaxWear is the wear level at which weapons are broken and attacks are lost.
	MaxWear int
	// RepairCostPerPoint is charged in held gold for each point of wear repaired.
	RepairCostPerPoint int
}

func DefaultRules() Rules {
	return Rules{
		StealPercent:       50,
		WearPerAttack:      7,
		MaxWear:            100,
		RepairCostPerPoint: 40,
	}
}

func (r Rules) normalized() Rules {
	d := DefaultRules()
	if r.StealPercent <= 0 || r.StealPercent > 100 {
		r.StealPercent = d.StealPercent
	}
	if r.WearPerAttack < 0 {
		r.WearPerAttack = d.WearPerAttack
	}
	if r.MaxWear <= 0 {
		r.MaxWear = d.MaxWear
	}
	if r.RepairCostPerPoint < 0 {
		r.RepairCostPerPoint = d.RepairCostPerPoint
	}
	return r
}

// Attack settles one attack and returns the updated attacker and defender.
// Only held gold can be stolen; the chest is out of reach.
func (r Rules) Attack(attacker, defender Account) (AttackOutcome, Account, Account, error) {
	r = r.normalized()
	if attacker.Name == defender.Name {
		return AttackOutcome{}, attacker, defender, ErrSelfAttack
	}
	if attacker.Turns <= 0 {
		return AttackOutcome{}, attacker, defender, ErrNoTurnsLeft
	}

	out := AttackOutcome{Result: AttackDefeat}
	if attacker.Wear < r.MaxWear {
		out.Result = AttackVictory
		out.GoldStolen = defender.Gold * r.StealPercent / 100
	}
	defender.Gold -= out.GoldStolen
	attacker.Gold += out.GoldStolen
	attacker.Turns--
	attacker.Wear = min(attacker.Wear+r.WearPerAttack, r.MaxWear)
	return out, attacker, defender, nil
}

// Repair resets the weapon wear, paid from held gold.
func (r Rules) Repair(acc Account) (RepairOutcome, Account, error) {
	r = r.normalized()
	cost := acc.Wear * r.RepairCostPerPoint
	if cost > acc.Gold {
		return RepairOutcome{Wear: acc.Wear, Cost: cost}, acc, ErrInsufficientGold
	}
	acc.Gold -= cost
	acc.Wear = 0
	return RepairOutcome{Wear: 0, Cost: cost}, acc, nil
}

// Deposit moves amount of held gold into the chest.
func Deposit(acc Account, amount int) (Account, error) {
	if amount <= 0 || amount > acc.Gold {
		return acc, ErrInvalidAmount
	}
	acc.Gold -= amount
	acc.Chest += amount
	return acc, nil
}
