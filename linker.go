package starfield

import (
	"math"
	"slices"
)

// Connection is an unordered pair of particle indices with I < J.
type Connection struct {
	I, J int
}

// Linker derives the connections between particles closer than threshold.
// Implementations append to dst (which may be reused between frames) and must
// return connections in ascending (I, J) order so output is deterministic and
// identical across implementations.
type Linker interface {
	Link(dst []Connection, field Field, threshold float64) []Connection
}

// Link returns every pair (i, j), i < j, whose distance is below threshold.
func Link(field Field, threshold float64) []Connection {
	return BruteForceLinker{}.Link(nil, field, threshold)
}

// BruteForceLinker compares every pair. O(N²), fine for a few hundred points.
type BruteForceLinker struct{}

// Link implements Linker.
func (BruteForceLinker) Link(dst []Connection, field Field, threshold float64) []Connection {
	dst = dst[:0]
	t2 := threshold * threshold
	for i := 0; i < len(field); i++ {
		p := field[i]
		for j := i + 1; j < len(field); j++ {
			if p.distSq(field[j]) < t2 {
				dst = append(dst, Connection{i, j})
			}
		}
	}
	return dst
}

// cellKey addresses one grid bucket.
type cellKey struct {
	x, y, z int
}

// GridLinker buckets particles into cubes of edge threshold so each particle
// is only compared with the 27 surrounding cells. Output matches
// BruteForceLinker exactly. Buffers are reused between calls; a GridLinker
// must not be shared between goroutines.
type GridLinker struct {
	cells map[cellKey][]int
	keys  []cellKey
}

// Link implements Linker.
func (g *GridLinker) Link(dst []Connection, field Field, threshold float64) []Connection {
	dst = dst[:0]
	if len(field) < 2 || !(threshold > 0) {
		return dst
	}
	if g.cells == nil {
		g.cells = make(map[cellKey][]int)
	}
	for k, bucket := range g.cells {
		g.cells[k] = bucket[:0]
	}
	if cap(g.keys) < len(field) {
		g.keys = make([]cellKey, len(field))
	}
	g.keys = g.keys[:len(field)]

	inv := 1 / threshold
	for i, p := range field {
		k := cellKey{
			x: int(math.Floor(p.X * inv)),
			y: int(math.Floor(p.Y * inv)),
			z: int(math.Floor(p.Z * inv)),
		}
		g.keys[i] = k
		g.cells[k] = append(g.cells[k], i)
	}

	t2 := threshold * threshold
	for i, p := range field {
		k := g.keys[i]
		start := len(dst)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for dz := -1; dz <= 1; dz++ {
					for _, j := range g.cells[cellKey{k.x + dx, k.y + dy, k.z + dz}] {
						if j > i && p.distSq(field[j]) < t2 {
							dst = append(dst, Connection{i, j})
						}
					}
				}
			}
		}
		// Neighbour cells are visited out of index order.
		slices.SortFunc(dst[start:], func(a, b Connection) int { return a.J - b.J })
	}

	// Drop buckets that stayed empty so the map does not grow without bound
	// when the field is replaced.
	for k, bucket := range g.cells {
		if len(bucket) == 0 {
			delete(g.cells, k)
		}
	}
	return dst
}
