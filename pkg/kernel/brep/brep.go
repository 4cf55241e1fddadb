// Package brep implements the kernel.Kernel interface with an exact
// boundary-representation backend. Solids are closed polygon soups and
// boolean operations are performed by BSP-tree clipping, so the result of
// a difference is itself a watertight mesh usable as a further boolean
// operand. Identical inputs always produce vertex-identical meshes.
package brep

import (
	"fmt"
	"math"

	"github.com/tmorvan/panelcut/pkg/kernel"
)

// Compile-time interface checks.
var _ kernel.Kernel = (*BrepKernel)(nil)
var _ kernel.Solid = (*Solid)(nil)

// Solid is a boundary-representation solid: its closed boundary polygons
// plus cached bounding volumes. Bounding volumes are computed eagerly by
// every constructor, so they are never stale.
type Solid struct {
	polygons []polygon

	boxMin, boxMax [3]float64
	sphereCenter   [3]float64
	sphereRadius   float64
}

func newSolid(polygons []polygon) *Solid {
	s := &Solid{polygons: polygons}
	s.computeBounds()
	return s
}

// computeBounds derives the axis-aligned bounding box and a bounding
// sphere centered on the box center.
func (s *Solid) computeBounds() {
	if len(s.polygons) == 0 {
		return
	}

	min := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range s.polygons {
		for _, v := range p.vertices {
			for i, c := range [3]float64{v.X, v.Y, v.Z} {
				if c < min[i] {
					min[i] = c
				}
				if c > max[i] {
					max[i] = c
				}
			}
		}
	}
	s.boxMin, s.boxMax = min, max

	center := vec{
		(min[0] + max[0]) / 2,
		(min[1] + max[1]) / 2,
		(min[2] + max[2]) / 2,
	}
	radius := 0.0
	for _, p := range s.polygons {
		for _, v := range p.vertices {
			if d := v.sub(center).length(); d > radius {
				radius = d
			}
		}
	}
	s.sphereCenter = [3]float64{center.X, center.Y, center.Z}
	s.sphereRadius = radius
}

// BoundingBox returns the axis-aligned bounding box.
func (s *Solid) BoundingBox() (min, max [3]float64) {
	return s.boxMin, s.boxMax
}

// BoundingSphere returns the cached bounding sphere.
func (s *Solid) BoundingSphere() (center [3]float64, radius float64) {
	return s.sphereCenter, s.sphereRadius
}

// Volume computes the enclosed volume via the divergence theorem. Only
// meaningful for closed solids; used by tests to compare results that may
// tessellate differently.
func (s *Solid) Volume() float64 {
	total := 0.0
	for _, p := range s.polygons {
		a := p.vertices[0]
		for i := 1; i+1 < len(p.vertices); i++ {
			b := p.vertices[i]
			c := p.vertices[i+1]
			total += a.dot(b.cross(c)) / 6
		}
	}
	return total
}

// SurfaceArea computes the total boundary area.
func (s *Solid) SurfaceArea() float64 {
	total := 0.0
	for _, p := range s.polygons {
		a := p.vertices[0]
		for i := 1; i+1 < len(p.vertices); i++ {
			b := p.vertices[i]
			c := p.vertices[i+1]
			total += b.sub(a).cross(c.sub(a)).length() / 2
		}
	}
	return total
}

// BrepKernel implements kernel.Kernel with BSP-based mesh booleans.
type BrepKernel struct{}

// New returns a new BrepKernel.
func New() *BrepKernel {
	return &BrepKernel{}
}

// unwrap extracts the polygon representation from a kernel.Solid.
func unwrap(s kernel.Solid) *Solid {
	return s.(*Solid)
}

// Box creates an axis-aligned box with the given dimensions, centered at
// the origin. Panics on non-positive dimensions; callers are expected to
// validate or substitute fallbacks first.
func (k *BrepKernel) Box(x, y, z float64) kernel.Solid {
	if x <= 0 || y <= 0 || z <= 0 {
		panic(fmt.Sprintf("brep: box dimensions must be positive, got %g x %g x %g", x, y, z))
	}
	hx, hy, hz := x/2, y/2, z/2

	c := func(sx, sy, sz float64) vec {
		return vec{sx * hx, sy * hy, sz * hz}
	}

	// Six faces, counter-clockwise from outside.
	faces := [][]vec{
		{c(-1, -1, -1), c(-1, -1, +1), c(-1, +1, +1), c(-1, +1, -1)}, // -X
		{c(+1, -1, -1), c(+1, +1, -1), c(+1, +1, +1), c(+1, -1, +1)}, // +X
		{c(-1, -1, -1), c(+1, -1, -1), c(+1, -1, +1), c(-1, -1, +1)}, // -Y
		{c(-1, +1, -1), c(-1, +1, +1), c(+1, +1, +1), c(+1, +1, -1)}, // +Y
		{c(-1, -1, -1), c(-1, +1, -1), c(+1, +1, -1), c(+1, -1, -1)}, // -Z
		{c(-1, -1, +1), c(+1, -1, +1), c(+1, +1, +1), c(-1, +1, +1)}, // +Z
	}

	polygons := make([]polygon, 0, len(faces))
	for _, f := range faces {
		polygons = append(polygons, newPolygon(f))
	}
	return newSolid(polygons)
}

// Cylinder creates a right circular cylinder along the Z axis, centered at
// the origin, tessellated into the given number of radial segments.
// Panics on non-positive height/radius or segments < 3.
func (k *BrepKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	if height <= 0 || radius <= 0 {
		panic(fmt.Sprintf("brep: cylinder height and radius must be positive, got h=%g r=%g", height, radius))
	}
	if segments < 3 {
		panic(fmt.Sprintf("brep: cylinder needs at least 3 segments, got %d", segments))
	}

	hz := height / 2
	top := vec{0, 0, hz}
	bottom := vec{0, 0, -hz}

	rim := func(i int, z float64) vec {
		angle := 2 * math.Pi * float64(i%segments) / float64(segments)
		return vec{radius * math.Cos(angle), radius * math.Sin(angle), z}
	}

	polygons := make([]polygon, 0, segments*3)
	for i := 0; i < segments; i++ {
		// Outward-facing side quad.
		polygons = append(polygons, newPolygon([]vec{
			rim(i, -hz), rim(i+1, -hz), rim(i+1, hz), rim(i, hz),
		}))
		// Top cap triangle (+Z).
		polygons = append(polygons, newPolygon([]vec{
			top, rim(i, hz), rim(i+1, hz),
		}))
		// Bottom cap triangle (-Z).
		polygons = append(polygons, newPolygon([]vec{
			bottom, rim(i+1, -hz), rim(i, -hz),
		}))
	}
	return newSolid(polygons)
}

// Union returns the boolean union of two solids.
func (k *BrepKernel) Union(a, b kernel.Solid) kernel.Solid {
	return newSolid(union(unwrap(a).polygons, unwrap(b).polygons))
}

// Difference returns the boolean difference a − b.
func (k *BrepKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return newSolid(difference(unwrap(a).polygons, unwrap(b).polygons))
}

// Intersection returns the boolean intersection of two solids.
func (k *BrepKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return newSolid(intersection(unwrap(a).polygons, unwrap(b).polygons))
}

// Translate moves a solid by (x, y, z).
func (k *BrepKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	src := unwrap(s)
	d := vec{x, y, z}

	out := make([]polygon, len(src.polygons))
	for i, p := range src.polygons {
		verts := make([]vec, len(p.vertices))
		for j, v := range p.vertices {
			verts[j] = v.add(d)
		}
		out[i] = polygon{
			vertices: verts,
			// Translation shifts the plane offset along its normal.
			plane: plane{normal: p.plane.normal, w: p.plane.w + p.plane.normal.dot(d)},
		}
	}
	return newSolid(out)
}

// Rotate rotates a solid by Euler angles (degrees) around the X, Y, Z
// axes, composed as Rz·Ry·Rx about the origin.
func (k *BrepKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	src := unwrap(s)
	m := rotationZYX(x, y, z)

	out := make([]polygon, len(src.polygons))
	for i, p := range src.polygons {
		verts := make([]vec, len(p.vertices))
		for j, v := range p.vertices {
			verts[j] = m.apply(v)
		}
		out[i] = polygon{
			vertices: verts,
			// Rotation about the origin preserves the plane offset.
			plane: plane{normal: m.apply(p.plane.normal), w: p.plane.w},
		}
	}
	return newSolid(out)
}

// ToMesh triangulates the boundary polygons with fan triangulation and
// flat per-face normals. Vertices are not shared between triangles, so
// the renderer shows crisp facet edges until shading normals are
// recomputed on the final mesh.
func (k *BrepKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	src := unwrap(s)

	var vertices, normals []float32
	var indices []uint32

	next := uint32(0)
	for _, p := range src.polygons {
		if len(p.vertices) < 3 {
			continue
		}
		nx := float32(p.plane.normal.X)
		ny := float32(p.plane.normal.Y)
		nz := float32(p.plane.normal.Z)

		for i := 1; i+1 < len(p.vertices); i++ {
			for _, v := range [3]vec{p.vertices[0], p.vertices[i], p.vertices[i+1]} {
				vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
				normals = append(normals, nx, ny, nz)
				indices = append(indices, next)
				next++
			}
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

// mat3 is a row-major 3x3 matrix.
type mat3 [9]float64

func (m mat3) apply(v vec) vec {
	return vec{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

func (m mat3) mul(o mat3) mat3 {
	var r mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i*3+j] = m[i*3]*o[j] + m[i*3+1]*o[3+j] + m[i*3+2]*o[6+j]
		}
	}
	return r
}

// rotationZYX builds the combined rotation matrix Rz·Ry·Rx from Euler
// angles in degrees.
func rotationZYX(xDeg, yDeg, zDeg float64) mat3 {
	xr := xDeg * math.Pi / 180
	yr := yDeg * math.Pi / 180
	zr := zDeg * math.Pi / 180

	sx, cx := math.Sincos(xr)
	sy, cy := math.Sincos(yr)
	sz, cz := math.Sincos(zr)

	rx := mat3{
		1, 0, 0,
		0, cx, -sx,
		0, sx, cx,
	}
	ry := mat3{
		cy, 0, sy,
		0, 1, 0,
		-sy, 0, cy,
	}
	rz := mat3{
		cz, -sz, 0,
		sz, cz, 0,
		0, 0, 1,
	}
	return rz.mul(ry).mul(rx)
}
