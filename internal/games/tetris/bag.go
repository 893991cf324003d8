package tetris

import "math/rand"

// Bag is the 7-bag piece generator. Each bag is a uniform random
// permutation of all seven shapes and is fully drawn before the next one is
// shuffled, so no shape can repeat more than once across seven draws. The
// sequence is fixed by the seed.
type Bag struct {
	rng   *rand.Rand
	queue []Shape
}

// NewBag creates a generator seeded with seed.
func NewBag(seed int64) *Bag {
	return &Bag{rng: rand.New(rand.NewSource(seed))}
}

func (b *Bag) refill() {
	bag := AllShapes
	for i := len(bag) - 1; i > 0; i-- {
		j := b.rng.Intn(i + 1)
		bag[i], bag[j] = bag[j], bag[i]
	}
	b.queue = append(b.queue, bag[:]...)
}

// Next draws the next shape.
func (b *Bag) Next() Shape {
	if len(b.queue) == 0 {
		b.refill()
	}
	if len(b.queue) == 0 {
		panic("tetris: piece bag exhausted after refill")
	}
	s := b.queue[0]
	b.queue = b.queue[1:]
	return s
}

// Peek returns the next n shapes without consuming them.
func (b *Bag) Peek(n int) []Shape {
	for len(b.queue) < n {
		b.refill()
	}
	out := make([]Shape, n)
	copy(out, b.queue)
	return out
}
