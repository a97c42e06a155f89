package realm

import (
	"fmt"
	"math/rand/v2"
)

const (
	populationMeanGold = 250000
	populationTurns    = 100
)

// GeneratePopulation builds count non-playable accounts ranked 1..count.
// The same seed always yields the same realm.
func GeneratePopulation(seed uint64, count int) []Account {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]Account, 0, count)
	for i := 1; i <= count; i++ {
		gold := int(rng.ExpFloat64() * populationMeanGold)
		out = append(out, Account{
			Name:    fmt.Sprintf("lord-%05d", i),
			Rank:    i,
			Gold:    gold,
			Chest:   rng.IntN(populationMeanGold),
			Wear:    rng.IntN(50),
			Turns:   populationTurns,
			Version: 1,
		})
	}
	return out
}
