package mesh

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultEpsilonFraction is the fraction of the bounding box diagonal used
// by DefaultEpsilon.
const DefaultEpsilonFraction = 1e-6

// DefaultEpsilon returns the merge tolerance used when none is configured:
// a small fraction of the mesh bounding box diagonal.
func DefaultEpsilon(m *Mesh) float64 {
	return DefaultEpsilonFraction * m.BoundsDiagonal()
}

// Deduplicate merges vertices that lie within epsilon of each other and
// remaps the faces onto the reduced vertex set. An epsilon of zero merges
// exactly coincident vertices only.
//
// Merging is by connected components of the within-epsilon relation: any two
// vertices within epsilon map to the same output vertex, and a chain of
// within-epsilon pairs collapses into one vertex even when the chain's
// endpoints are farther than epsilon apart. A merged vertex is placed at the
// centroid of its component.
//
// The output is deterministic for identical input: components are numbered in
// lexicographic order of their members' grid-rounded coordinates, so new
// identifiers do not depend on insertion order.
//
// Faces that become degenerate under the remap (repeated index or zero area)
// are removed, as are exact duplicate faces. Returns the reduced mesh and the
// original-to-new index remapping.
func Deduplicate(m *Mesh, epsilon float64) (*Mesh, []uint32, error) {
	if m.VertexCount() == 0 || m.FaceCount() == 0 {
		return nil, nil, ErrEmptyMesh
	}
	if epsilon < 0 || math.IsNaN(epsilon) {
		return nil, nil, &ErrInvalidEpsilon{Epsilon: epsilon}
	}

	var (
		n        = len(m.Positions)
		keys     = make([]cellKey, n)
		cells    = make(map[cellKey][]int, n) // cell -> vertex indices, ascending
		eps2     = epsilon * epsilon
		exact    = epsilon == 0
		neighbor = neighborOffsets(exact)
	)
	for i, p := range m.Positions {
		keys[i] = quantize(p, epsilon)
		cells[keys[i]] = append(cells[keys[i]], i)
	}

	// Union every within-epsilon pair found in the cell neighborhood scan.
	uf := newUnionFind(n)
	for vi := 0; vi < n; vi++ {
		p := m.Positions[vi]
		key := keys[vi]
		for _, off := range neighbor {
			nk := cellKey{key[0] + off[0], key[1] + off[1], key[2] + off[2]}
			for _, vj := range cells[nk] {
				if vj >= vi {
					break
				}
				if exact {
					if m.Positions[vj] == p {
						uf.union(vi, vj)
					}
				} else if r3.Norm2(r3.Sub(m.Positions[vj], p)) <= eps2 {
					uf.union(vi, vj)
				}
			}
		}
	}

	// Number components by first appearance in the sorted sweep.
	order := sortedByCell(keys)
	remap := make([]uint32, n)
	clusterOf := make([]int, n)
	for i := range clusterOf {
		clusterOf[i] = -1
	}
	clusters := 0
	for _, vi := range order {
		root := uf.find(vi)
		if clusterOf[root] < 0 {
			clusterOf[root] = clusters
			clusters++
		}
		remap[vi] = uint32(clusterOf[root])
	}

	sums := make([]r3.Vec, clusters)
	counts := make([]int, clusters)
	for vi, c := range remap {
		sums[c] = r3.Add(sums[c], m.Positions[vi])
		counts[c]++
	}

	out := &Mesh{
		Positions: make([]r3.Vec, clusters),
		Faces:     make([][3]uint32, 0, len(m.Faces)),
	}
	for c := range out.Positions {
		out.Positions[c] = r3.Scale(1/float64(counts[c]), sums[c])
	}

	seen := make(map[[3]uint32]struct{}, len(m.Faces))
	for _, f := range m.Faces {
		nf := [3]uint32{remap[f[0]], remap[f[1]], remap[f[2]]}
		if nf[0] == nf[1] || nf[1] == nf[2] || nf[0] == nf[2] {
			continue
		}
		key := sortedTriple(nf)
		if _, ok := seen[key]; ok {
			continue
		}
		if zeroArea(out.Positions[nf[0]], out.Positions[nf[1]], out.Positions[nf[2]]) {
			continue
		}
		seen[key] = struct{}{}
		out.Faces = append(out.Faces, nf)
	}

	if len(out.Faces) == 0 {
		return nil, nil, ErrDegenerateInput
	}
	return out, remap, nil
}

// cellKey addresses one epsilon-sized grid cell.
type cellKey [3]int64

// quantize maps a position to its grid cell. With epsilon zero the raw
// coordinate bits are used, so only exactly equal positions share a cell.
func quantize(p r3.Vec, epsilon float64) cellKey {
	if epsilon == 0 {
		return cellKey{
			int64(math.Float64bits(p.X)),
			int64(math.Float64bits(p.Y)),
			int64(math.Float64bits(p.Z)),
		}
	}
	return cellKey{
		int64(math.Round(p.X / epsilon)),
		int64(math.Round(p.Y / epsilon)),
		int64(math.Round(p.Z / epsilon)),
	}
}

// neighborOffsets returns the cell offsets searched for merge candidates.
// Exact mode needs the home cell only; tolerance mode scans the 3x3x3
// neighborhood since a vertex within epsilon may round to an adjacent cell.
func neighborOffsets(exact bool) [][3]int64 {
	if exact {
		return [][3]int64{{0, 0, 0}}
	}
	offs := make([][3]int64, 0, 27)
	for x := int64(-1); x <= 1; x++ {
		for y := int64(-1); y <= 1; y++ {
			for z := int64(-1); z <= 1; z++ {
				offs = append(offs, [3]int64{x, y, z})
			}
		}
	}
	return offs
}

// sortedByCell orders vertex indices lexicographically by their grid-rounded
// coordinates, with the original index breaking exact ties. Component
// numbering follows this order, which makes the output IDs insertion-order
// independent.
func sortedByCell(keys []cellKey) []int {
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ka, kb := keys[order[a]], keys[order[b]]
		for i := 0; i < 3; i++ {
			if ka[i] != kb[i] {
				return ka[i] < kb[i]
			}
		}
		return order[a] < order[b]
	})
	return order
}

func zeroArea(a, b, c r3.Vec) bool {
	return r3.Norm2(r3.Cross(r3.Sub(b, a), r3.Sub(c, a))) == 0
}

// unionFind tracks merge components over vertex indices. Roots keep the
// smallest index in their component.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]] // path halving
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if rb < ra {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
}
