package starfield

import (
	"math/rand/v2"
	"time"
)

// Float64Source yields pseudo-random values in [0, 1). *rand.Rand satisfies it.
type Float64Source interface {
	Float64() float64
}

// Field is an ordered, fixed-size set of particle positions. Positions never
// change after generation; motion is applied as a rigid rotation at draw time.
type Field []Vec3

// Generate scatters count particles with each coordinate drawn independently
// and uniformly from [-spread/2, spread/2].
func Generate(count int, spread float64, src Float64Source) Field {
	if count < 0 {
		count = 0
	}
	half := spread / 2
	f := make(Field, count)
	for i := range f {
		f[i] = Vec3{
			X: src.Float64()*spread - half,
			Y: src.Float64()*spread - half,
			Z: src.Float64()*spread - half,
		}
	}
	return f
}

// Len returns the number of particles.
func (f Field) Len() int {
	return len(f)
}

// newTimeSeededRand returns a PCG source seeded from the wall clock.
func newTimeSeededRand() *rand.Rand {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed>>32|seed<<32))
}

// NewSeededRand returns a deterministic source for reproducible fields.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
