package styling

import (
	"math/rand"
	"time"
)

// RandSource is the randomness the composer draws from. *rand.Rand
// satisfies it.
type RandSource interface {
	Intn(n int) int
	Float64() float64
}

func NewSeededRand(seed int64) RandSource {
	return rand.New(rand.NewSource(seed))
}

func newTimeSeededRand() RandSource {
	return NewSeededRand(time.Now().UnixNano())
}
