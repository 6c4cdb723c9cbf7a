package zmachine

import (
	"math/rand"
	"time"
)

func newSeededRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func newSeededRandFromSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
