package decimate

import (
	"container/heap"
	"context"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Ram9299/3dshape-explorer/mesh"
)

// Options configures a decimation pass.
type Options struct {
	// MidpointPlacement forces every collapse target to the edge midpoint
	// instead of the quadric-optimal point. Placement is applied uniformly
	// for the whole pass either way.
	MidpointPlacement bool

	// CancelCheckInterval is the number of completed collapses between
	// context cancellation checks. Collapses leave the mesh internally
	// consistent, so each boundary is a safe preemption point.
	CancelCheckInterval int
}

// DefaultOptions are the default decimation options.
var DefaultOptions = Options{
	CancelCheckInterval: 64,
}

// Result reports the outcome of a decimation pass. AchievedFaces can stay
// above TargetFaces when the candidate queue drains before the target is
// reached; that is a documented outcome, not an error.
type Result struct {
	Mesh          *mesh.Mesh
	TargetFaces   int
	AchievedFaces int
	Collapses     int
	Skipped       int
}

// Decimate reduces m to at most targetFaces faces and returns the reduced
// mesh as an independent copy; m itself is never mutated. If targetFaces is
// at or above the current face count the mesh is returned unchanged
// (field-for-field clone). The returned mesh carries no normals; callers
// recompute them on the reduced topology.
func Decimate(ctx context.Context, m *mesh.Mesh, targetFaces int, optFns ...func(*Options)) (*Result, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.CancelCheckInterval <= 0 {
		opts.CancelCheckInterval = DefaultOptions.CancelCheckInterval
	}

	if m.VertexCount() == 0 || m.FaceCount() == 0 {
		return nil, mesh.ErrEmptyMesh
	}
	if targetFaces < 0 {
		targetFaces = 0
	}
	if targetFaces >= m.FaceCount() {
		return &Result{
			Mesh:          m.Clone(),
			TargetFaces:   targetFaces,
			AchievedFaces: m.FaceCount(),
		}, nil
	}

	d := newDecimator(m, opts)
	collapses, skipped, err := d.run(ctx, targetFaces)
	if err != nil {
		return nil, err
	}

	return &Result{
		Mesh:          d.compact(),
		TargetFaces:   targetFaces,
		AchievedFaces: d.faceCount,
		Collapses:     collapses,
		Skipped:       skipped,
	}, nil
}

// decimator holds the mutable collapse state for one pass.
type decimator struct {
	opts Options

	pos      []r3.Vec
	quadrics []quadric
	faces    [][3]uint32

	liveFaces *roaring.Bitmap
	liveVerts *roaring.Bitmap

	// vertFaces lists face ids incident to each vertex. Entries go stale
	// when a face dies; readers filter through liveFaces.
	vertFaces [][]uint32

	// version invalidates queued candidates: any collapse touching a vertex
	// bumps it, and candidates snapshot it at push time.
	version []uint32

	queue     candidateQueue
	faceCount int
}

func newDecimator(m *mesh.Mesh, opts Options) *decimator {
	d := &decimator{
		opts:      opts,
		pos:       make([]r3.Vec, len(m.Positions)),
		quadrics:  make([]quadric, len(m.Positions)),
		faces:     make([][3]uint32, len(m.Faces)),
		liveFaces: roaring.New(),
		liveVerts: roaring.New(),
		vertFaces: make([][]uint32, len(m.Positions)),
		version:   make([]uint32, len(m.Positions)),
		faceCount: len(m.Faces),
	}
	copy(d.pos, m.Positions)
	copy(d.faces, m.Faces)

	for i, f := range d.faces {
		fi := uint32(i)
		d.liveFaces.Add(fi)
		for _, v := range f {
			d.liveVerts.Add(v)
			d.vertFaces[v] = append(d.vertFaces[v], fi)
		}

		// Fundamental error quadric: the face plane, accumulated into each
		// corner.
		cross := r3.Cross(r3.Sub(d.pos[f[1]], d.pos[f[0]]), r3.Sub(d.pos[f[2]], d.pos[f[0]]))
		if r3.Norm2(cross) == 0 {
			continue
		}
		n := r3.Unit(cross)
		dd := -r3.Dot(n, d.pos[f[0]])
		for _, v := range f {
			d.quadrics[v].addPlane(n, dd)
		}
	}

	// Seed the queue with every unique face edge.
	seen := make(map[uint64]struct{}, len(d.faces)*3/2)
	for _, f := range d.faces {
		for _, e := range [3][2]uint32{{f[0], f[1]}, {f[1], f[2]}, {f[0], f[2]}} {
			u, v := minmax(e[0], e[1])
			key := uint64(u)<<32 | uint64(v)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			heap.Push(&d.queue, d.candidate(u, v))
		}
	}

	return d
}

// candidate builds a queue entry for the edge (u, v), u < v.
func (d *decimator) candidate(u, v uint32) *candidate {
	q := d.quadrics[u]
	q.add(&d.quadrics[v])

	var target r3.Vec
	if d.opts.MidpointPlacement {
		target = r3.Scale(0.5, r3.Add(d.pos[u], d.pos[v]))
	} else {
		var ok bool
		target, ok = q.optimal()
		if !ok {
			target = r3.Scale(0.5, r3.Add(d.pos[u], d.pos[v]))
		}
	}

	return &candidate{
		u:      u,
		v:      v,
		verU:   d.version[u],
		verV:   d.version[v],
		cost:   q.eval(target),
		target: target,
	}
}

// run pops and applies collapses until the face target is met or the queue
// drains. It returns the number of applied collapses and skipped candidates.
func (d *decimator) run(ctx context.Context, targetFaces int) (collapses, skipped int, err error) {
	steps := 0
	for d.faceCount > targetFaces && d.queue.Len() > 0 {
		if steps%d.opts.CancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return collapses, skipped, err
			}
		}
		steps++

		c := heap.Pop(&d.queue).(*candidate)

		// Lazy deletion: drop entries whose endpoints died or changed since
		// the entry was pushed.
		if !d.liveVerts.Contains(c.u) || !d.liveVerts.Contains(c.v) {
			skipped++
			continue
		}
		if d.version[c.u] != c.verU || d.version[c.v] != c.verV {
			skipped++
			continue
		}

		if d.collapse(c) {
			collapses++
		} else {
			skipped++
		}
	}
	return collapses, skipped, nil
}

// collapse merges v into u at the candidate target. It reports false without
// touching any state when the collapse would create a duplicate face.
func (d *decimator) collapse(c *candidate) bool {
	u, v := c.u, c.v

	facesU := d.liveFacesOf(u)
	facesV := d.liveFacesOf(v)

	// Faces spanning the edge die with the collapse; the rest of v's faces
	// are relinked onto u.
	var dead, relink []uint32
	for _, fi := range facesV {
		if faceContains(d.faces[fi], u) {
			dead = append(dead, fi)
		} else {
			relink = append(relink, fi)
		}
	}

	// Reject collapses that would fold two faces onto the same triple.
	surviving := make(map[[3]uint32]struct{}, len(facesU)+len(relink))
	for _, fi := range facesU {
		if !faceContains(d.faces[fi], v) {
			surviving[canonical(d.faces[fi])] = struct{}{}
		}
	}
	for _, fi := range relink {
		f := d.faces[fi]
		for i, w := range f {
			if w == v {
				f[i] = u
			}
		}
		key := canonical(f)
		if _, ok := surviving[key]; ok {
			return false
		}
		surviving[key] = struct{}{}
	}

	// Commit.
	d.pos[u] = c.target
	d.quadrics[u].add(&d.quadrics[v])
	for _, fi := range dead {
		d.liveFaces.Remove(fi)
		d.faceCount--
	}
	for _, fi := range relink {
		f := &d.faces[fi]
		for i, w := range f {
			if w == v {
				f[i] = u
			}
		}
		d.vertFaces[u] = append(d.vertFaces[u], fi)
	}
	d.liveVerts.Remove(v)
	d.version[u]++
	d.version[v]++

	remaining := d.liveFacesOf(u)
	if len(remaining) == 0 {
		d.liveVerts.Remove(u)
		return true
	}

	// Refresh costs for edges now incident to the surviving vertex. Only
	// those edges changed; everything else stays queued and is invalidated
	// lazily if needed.
	neighborSet := make(map[uint32]struct{})
	for _, fi := range remaining {
		for _, w := range d.faces[fi] {
			if w != u {
				neighborSet[w] = struct{}{}
			}
		}
	}
	neighbors := make([]uint32, 0, len(neighborSet))
	for w := range neighborSet {
		neighbors = append(neighbors, w)
	}
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
	for _, w := range neighbors {
		a, b := minmax(u, w)
		heap.Push(&d.queue, d.candidate(a, b))
	}

	return true
}

// liveFacesOf returns the live face ids incident to vert.
func (d *decimator) liveFacesOf(vert uint32) []uint32 {
	var out []uint32
	for _, fi := range d.vertFaces[vert] {
		if d.liveFaces.Contains(fi) {
			out = append(out, fi)
		}
	}
	return out
}

// compact rebuilds an indexed mesh from the live faces. Surviving vertices
// are renumbered in ascending original id order, so the output is
// deterministic.
func (d *decimator) compact() *mesh.Mesh {
	used := roaring.New()
	it := d.liveFaces.Iterator()
	for it.HasNext() {
		for _, v := range d.faces[it.Next()] {
			used.Add(v)
		}
	}

	remap := make(map[uint32]uint32, used.GetCardinality())
	out := &mesh.Mesh{
		Positions: make([]r3.Vec, 0, used.GetCardinality()),
		Faces:     make([][3]uint32, 0, d.faceCount),
	}
	vit := used.Iterator()
	for vit.HasNext() {
		v := vit.Next()
		remap[v] = uint32(len(out.Positions))
		out.Positions = append(out.Positions, d.pos[v])
	}

	fit := d.liveFaces.Iterator()
	for fit.HasNext() {
		f := d.faces[fit.Next()]
		out.Faces = append(out.Faces, [3]uint32{remap[f[0]], remap[f[1]], remap[f[2]]})
	}
	return out
}

func faceContains(f [3]uint32, v uint32) bool {
	return f[0] == v || f[1] == v || f[2] == v
}

// canonical returns the face as an unordered index triple.
func canonical(f [3]uint32) [3]uint32 {
	a, b, c := f[0], f[1], f[2]
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return [3]uint32{a, b, c}
}

func minmax(a, b uint32) (uint32, uint32) {
	if a < b {
		return a, b
	}
	return b, a
}
