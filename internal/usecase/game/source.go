package game

import (
	"math/rand"
	"time"

	"github.com/kiryu-dev/tetris/internal/domain"
	"go.uber.org/atomic"
)

type randomSource struct {
	r *rand.Rand
}

// NewRandomSource returns a per-session shape source. A zero seed uses the
// current time.
func NewRandomSource(seed int64) *randomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &randomSource{r: rand.New(rand.NewSource(seed))}
}

func (s *randomSource) Next() domain.Shape {
	return domain.RandomShape(s.r)
}

// NewSourceFactory returns a constructor of per-session sources. With a zero
// seed every session is seeded from the clock. Otherwise session n gets
// seed+n, so runs are reproducible but sessions do not share a sequence.
func NewSourceFactory(seed int64) func() domain.ShapeSource {
	sessions := atomic.NewInt64(0)
	return func() domain.ShapeSource {
		if seed == 0 {
			return NewRandomSource(0)
		}
		return NewRandomSource(seed + sessions.Inc())
	}
}
