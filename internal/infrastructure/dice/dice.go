// Package dice provides the six-sided die used by the board mini-game.
package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

const sides = 6

// Die rolls a fair six-sided die. It is safe for concurrent use.
type Die struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a die seeded with seed. The same seed yields the same
// sequence of rolls.
func New(seed int64) *Die {
	return &Die{rng: rand.New(rand.NewSource(seed))}
}

// NewRandom returns a die seeded from crypto/rand.
func NewRandom() (*Die, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return New(seed), nil
}

// Roll returns a value in [1, 6].
func (d *Die) Roll() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Intn(sides) + 1
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
