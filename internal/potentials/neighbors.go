package potentials

import (
	"math"

	"github.com/san-kum/mdsim/internal/atoms"
	"gonum.org/v1/gonum/spatial/r3"
)

// pair is one entry of a half neighbor list: d points from atom i to the
// periodic image of atom j.
type pair struct {
	i, j int
	d    r3.Vec
	r    float64
}

// neighborPairs lists every atom pair, periodic images included, closer than
// cutoff. Each pair appears once.
func neighborPairs(a *atoms.Atoms, cutoff float64) []pair {
	n := a.Len()
	cell := a.Cell()
	pbc := a.PBC()
	pos := wrapped(a)

	lengths := [3]float64{cell.X, cell.Y, cell.Z}
	var images [3]int
	for k := range images {
		if pbc[k] && lengths[k] > 0 {
			images[k] = int(math.Ceil(cutoff / lengths[k]))
		}
	}

	shifts := make([]r3.Vec, 0, (2*images[0]+1)*(2*images[1]+1)*(2*images[2]+1))
	positive := make([]bool, 0, cap(shifts))
	for sx := -images[0]; sx <= images[0]; sx++ {
		for sy := -images[1]; sy <= images[1]; sy++ {
			for sz := -images[2]; sz <= images[2]; sz++ {
				shifts = append(shifts, r3.Vec{
					X: float64(sx) * cell.X,
					Y: float64(sy) * cell.Y,
					Z: float64(sz) * cell.Z,
				})
				positive = append(positive, sx > 0 || (sx == 0 && (sy > 0 || (sy == 0 && sz > 0))))
			}
		}
	}

	cutoff2 := cutoff * cutoff
	pairs := make([]pair, 0, n*32)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			base := r3.Sub(pos[j], pos[i])
			for s, shift := range shifts {
				if i == j && !positive[s] {
					continue
				}
				d := r3.Add(base, shift)
				r2 := r3.Norm2(d)
				if r2 < cutoff2 {
					pairs = append(pairs, pair{i: i, j: j, d: d, r: math.Sqrt(r2)})
				}
			}
		}
	}
	return pairs
}

// wrapped returns positions folded into the cell along periodic axes.
func wrapped(a *atoms.Atoms) []r3.Vec {
	pos := a.Positions()
	cell := a.Cell()
	pbc := a.PBC()
	for i, p := range pos {
		if pbc[0] && cell.X > 0 {
			p.X -= cell.X * math.Floor(p.X/cell.X)
		}
		if pbc[1] && cell.Y > 0 {
			p.Y -= cell.Y * math.Floor(p.Y/cell.Y)
		}
		if pbc[2] && cell.Z > 0 {
			p.Z -= cell.Z * math.Floor(p.Z/cell.Z)
		}
		pos[i] = p
	}
	return pos
}
