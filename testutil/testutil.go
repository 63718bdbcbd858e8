package testutil

import (
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Ram9299/3dshape-explorer/mesh"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// JitterSoup returns a copy of the soup with every coordinate perturbed by a
// uniform offset in [-scale, scale). Useful for testing epsilon merges.
func (r *RNG) JitterSoup(soup [][3]r3.Vec, scale float64) [][3]r3.Vec {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][3]r3.Vec, len(soup))
	for i, tri := range soup {
		for j, p := range tri {
			out[i][j] = r3.Vec{
				X: p.X + (r.rand.Float64()*2-1)*scale,
				Y: p.Y + (r.rand.Float64()*2-1)*scale,
				Z: p.Z + (r.rand.Float64()*2-1)*scale,
			}
		}
	}
	return out
}

// cubeCorners are the corners of the unit cube.
var cubeCorners = []r3.Vec{
	{}, {X: 1}, {X: 1, Y: 1}, {Y: 1},
	{Z: 1}, {X: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {Y: 1, Z: 1},
}

// cubeFaces are the 12 outward counter-clockwise triangles of the unit cube.
var cubeFaces = [][3]uint32{
	{0, 2, 1}, {0, 3, 2}, // bottom, -Z
	{4, 5, 6}, {4, 6, 7}, // top, +Z
	{0, 1, 5}, {0, 5, 4}, // front, -Y
	{2, 3, 7}, {2, 7, 6}, // back, +Y
	{0, 4, 7}, {0, 7, 3}, // left, -X
	{1, 2, 6}, {1, 6, 5}, // right, +X
}

// Cube returns the unit cube as an indexed mesh: 8 vertices, 12 faces.
func Cube() *mesh.Mesh {
	m := &mesh.Mesh{
		Positions: make([]r3.Vec, len(cubeCorners)),
		Faces:     make([][3]uint32, len(cubeFaces)),
	}
	copy(m.Positions, cubeCorners)
	copy(m.Faces, cubeFaces)
	return m
}

// CubeSoup returns the unit cube as a triangle soup of 12 loose triangles,
// the shape an STL decoder produces.
func CubeSoup() [][3]r3.Vec {
	soup := make([][3]r3.Vec, len(cubeFaces))
	for i, f := range cubeFaces {
		soup[i] = [3]r3.Vec{cubeCorners[f[0]], cubeCorners[f[1]], cubeCorners[f[2]]}
	}
	return soup
}

// Grid returns a planar n x n quad grid in the z=0 plane, triangulated with
// counter-clockwise winding. It has (n+1)^2 vertices and 2*n^2 faces, with
// plenty of interior edges to collapse.
func Grid(n int) *mesh.Mesh {
	m := &mesh.Mesh{}
	for y := 0; y <= n; y++ {
		for x := 0; x <= n; x++ {
			m.Positions = append(m.Positions, r3.Vec{X: float64(x), Y: float64(y)})
		}
	}
	stride := uint32(n + 1)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			a := uint32(y)*stride + uint32(x)
			b := a + 1
			c := a + stride + 1
			d := a + stride
			m.Faces = append(m.Faces, [3]uint32{a, b, c}, [3]uint32{a, c, d})
		}
	}
	return m
}

// SphereSoup returns a lat/lon tessellated unit sphere as triangle soup.
func SphereSoup(latSteps, lonSteps int) [][3]r3.Vec {
	at := func(lat, lon int) r3.Vec {
		theta := math.Pi * float64(lat) / float64(latSteps)
		phi := 2 * math.Pi * float64(lon%lonSteps) / float64(lonSteps)
		return r3.Vec{
			X: math.Sin(theta) * math.Cos(phi),
			Y: math.Sin(theta) * math.Sin(phi),
			Z: math.Cos(theta),
		}
	}
	var soup [][3]r3.Vec
	for lat := 0; lat < latSteps; lat++ {
		for lon := 0; lon < lonSteps; lon++ {
			a := at(lat, lon)
			b := at(lat+1, lon)
			c := at(lat+1, lon+1)
			d := at(lat, lon+1)
			if lat > 0 {
				soup = append(soup, [3]r3.Vec{a, b, d})
			}
			if lat < latSteps-1 {
				soup = append(soup, [3]r3.Vec{b, c, d})
			}
		}
	}
	return soup
}
