package brep

import (
	"math"
	"testing"

	"github.com/tmorvan/panelcut/pkg/kernel"
)

const tol = 1e-6

func approxEq(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func approxVec(a, b [3]float64, eps float64) bool {
	return approxEq(a[0], b[0], eps) && approxEq(a[1], b[1], eps) && approxEq(a[2], b[2], eps)
}

// prismVolume is the exact volume of an n-gon prism approximating a
// cylinder of radius r and height h, matching the tessellation Cylinder
// produces.
func prismVolume(r, h float64, n int) float64 {
	return float64(n) / 2 * r * r * math.Sin(2*math.Pi/float64(n)) * h
}

// --- Primitives ---

func TestBoxBounds(t *testing.T) {
	k := New()
	s := k.Box(10, 20, 30)

	min, max := s.BoundingBox()
	if !approxVec(min, [3]float64{-5, -10, -15}, tol) {
		t.Errorf("min = %v, want [-5 -10 -15]", min)
	}
	if !approxVec(max, [3]float64{5, 10, 15}, tol) {
		t.Errorf("max = %v, want [5 10 15]", max)
	}

	center, radius := s.BoundingSphere()
	if !approxVec(center, [3]float64{0, 0, 0}, tol) {
		t.Errorf("sphere center = %v, want origin", center)
	}
	wantRadius := math.Sqrt(5*5 + 10*10 + 15*15)
	if !approxEq(radius, wantRadius, tol) {
		t.Errorf("sphere radius = %g, want %g", radius, wantRadius)
	}
}

func TestBoxVolumeAndArea(t *testing.T) {
	k := New()
	s := unwrap(k.Box(10, 20, 30))

	if v := s.Volume(); !approxEq(v, 6000, tol) {
		t.Errorf("Volume() = %g, want 6000", v)
	}
	if a := s.SurfaceArea(); !approxEq(a, 2200, tol) {
		t.Errorf("SurfaceArea() = %g, want 2200", a)
	}
}

func TestBoxMeshTriangleCount(t *testing.T) {
	k := New()
	m, err := k.ToMesh(k.Box(1, 1, 1))
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	// Six quad faces, two triangles each.
	if got := m.TriangleCount(); got != 12 {
		t.Errorf("TriangleCount() = %d, want 12", got)
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Errorf("normals length %d != vertices length %d", len(m.Normals), len(m.Vertices))
	}
}

func TestBoxPanicsOnInvalidDimensions(t *testing.T) {
	k := New()
	defer func() {
		if recover() == nil {
			t.Error("Box(0, 1, 1) did not panic")
		}
	}()
	k.Box(0, 1, 1)
}

func TestCylinderBounds(t *testing.T) {
	k := New()
	s := k.Cylinder(20, 5, 32)

	min, max := s.BoundingBox()
	// Rim vertices lie on the radius; the bounding box reaches ±r on the
	// axes because segment 0 starts at angle 0.
	if !approxEq(min[2], -10, tol) || !approxEq(max[2], 10, tol) {
		t.Errorf("z extent = [%g, %g], want [-10, 10]", min[2], max[2])
	}
	if !approxEq(max[0], 5, tol) {
		t.Errorf("max x = %g, want 5", max[0])
	}
	if max[1] > 5+tol || min[1] < -5-tol {
		t.Errorf("y extent = [%g, %g], exceeds radius 5", min[1], max[1])
	}
}

func TestCylinderVolume(t *testing.T) {
	k := New()
	s := unwrap(k.Cylinder(20, 5, 32))

	want := prismVolume(5, 20, 32)
	if v := s.Volume(); !approxEq(v, want, 1e-9) {
		t.Errorf("Volume() = %g, want %g", v, want)
	}
}

func TestCylinderMeshTriangleCount(t *testing.T) {
	k := New()
	const segments = 16
	m, err := k.ToMesh(k.Cylinder(10, 3, segments))
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	// Per segment: one side quad (2 triangles) + 1 top + 1 bottom cap
	// triangle.
	if got, want := m.TriangleCount(), segments*4; got != want {
		t.Errorf("TriangleCount() = %d, want %d", got, want)
	}
}

func TestCylinderPanicsOnInvalidParams(t *testing.T) {
	k := New()
	tests := []struct {
		name           string
		height, radius float64
		segments       int
	}{
		{"zero height", 0, 5, 32},
		{"negative radius", 10, -1, 32},
		{"two segments", 10, 5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Cylinder(%g, %g, %d) did not panic", tt.height, tt.radius, tt.segments)
				}
			}()
			k.Cylinder(tt.height, tt.radius, tt.segments)
		})
	}
}

// --- Transforms ---

func TestTranslateShiftsBounds(t *testing.T) {
	k := New()
	s := k.Translate(k.Box(10, 10, 10), 100, -50, 25)

	min, max := s.BoundingBox()
	if !approxVec(min, [3]float64{95, -55, 20}, tol) {
		t.Errorf("min = %v, want [95 -55 20]", min)
	}
	if !approxVec(max, [3]float64{105, -45, 30}, tol) {
		t.Errorf("max = %v, want [105 -45 30]", max)
	}
}

func TestTranslatePreservesVolume(t *testing.T) {
	k := New()
	s := unwrap(k.Translate(k.Box(10, 20, 30), 7, 8, 9))
	if v := s.Volume(); !approxEq(v, 6000, 1e-6) {
		t.Errorf("Volume() after translate = %g, want 6000", v)
	}
}

func TestRotateAboutZSwapsLateralBounds(t *testing.T) {
	k := New()
	s := k.Rotate(k.Box(10, 20, 30), 0, 0, 90)

	min, max := s.BoundingBox()
	if !approxVec(min, [3]float64{-10, -5, -15}, 1e-9) {
		t.Errorf("min = %v, want [-10 -5 -15]", min)
	}
	if !approxVec(max, [3]float64{10, 5, 15}, 1e-9) {
		t.Errorf("max = %v, want [10 5 15]", max)
	}
}

func TestRotatePreservesVolume(t *testing.T) {
	k := New()
	s := unwrap(k.Rotate(k.Box(10, 20, 30), 30, 45, 60))
	if v := s.Volume(); !approxEq(v, 6000, 1e-6) {
		t.Errorf("Volume() after rotate = %g, want 6000", v)
	}
}

// --- Booleans ---

func TestDifferenceThroughHole(t *testing.T) {
	k := New()
	panel := k.Box(100, 50, 10)
	hole := k.Cylinder(10, 5, 32)

	result := unwrap(k.Difference(panel, hole))

	want := 100*50*10 - prismVolume(5, 10, 32)
	if v := result.Volume(); !approxEq(v, want, 1e-3) {
		t.Errorf("Volume() = %g, want %g", v, want)
	}

	// The hole does not touch the outer boundary, so the bounding box is
	// unchanged.
	min, max := result.BoundingBox()
	if !approxVec(min, [3]float64{-50, -25, -5}, 1e-4) || !approxVec(max, [3]float64{50, 25, 5}, 1e-4) {
		t.Errorf("bounds = %v .. %v, want panel bounds", min, max)
	}

	// Cutting adds boundary detail: more triangles than the plain box's 12.
	m, err := k.ToMesh(result)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if m.TriangleCount() <= 12 {
		t.Errorf("TriangleCount() = %d, want more than the uncut box's 12", m.TriangleCount())
	}
}

func TestDifferenceDisjointCutLeavesSolidIntact(t *testing.T) {
	k := New()
	panel := unwrap(k.Box(100, 50, 10))
	// Entirely outside the panel.
	cut := k.Translate(k.Box(10, 10, 10), 500, 0, 0)

	result := unwrap(k.Difference(panel, cut))
	if v := result.Volume(); !approxEq(v, panel.Volume(), 1e-6) {
		t.Errorf("Volume() = %g, want %g", v, panel.Volume())
	}
}

func TestUnionDisjointAddsVolumes(t *testing.T) {
	k := New()
	a := k.Box(10, 10, 10)
	b := k.Translate(k.Box(10, 10, 10), 100, 0, 0)

	result := unwrap(k.Union(a, b))
	if v := result.Volume(); !approxEq(v, 2000, 1e-6) {
		t.Errorf("Volume() = %g, want 2000", v)
	}
}

func TestIntersectionOfOffsetBoxes(t *testing.T) {
	k := New()
	a := k.Box(10, 10, 10)
	b := k.Translate(k.Box(10, 10, 10), 5, 0, 0)

	result := unwrap(k.Intersection(a, b))
	// Overlap is a 5 x 10 x 10 slab.
	if v := result.Volume(); !approxEq(v, 500, 1e-6) {
		t.Errorf("Volume() = %g, want 500", v)
	}
}

// TestDifferenceDeterministic checks that identical inputs produce
// vertex-identical meshes.
func TestDifferenceDeterministic(t *testing.T) {
	k := New()

	build := func() *kernel.Mesh {
		panel := k.Box(100, 50, 10)
		hole := k.Translate(k.Cylinder(10, 5, 32), 20, 5, 0)
		m, err := k.ToMesh(k.Difference(panel, hole))
		if err != nil {
			t.Fatalf("ToMesh() error = %v", err)
		}
		return m
	}

	a := build()
	b := build()
	if !a.SameVertices(b) {
		t.Error("identical inputs produced different vertex arrays")
	}
	if len(a.Indices) != len(b.Indices) {
		t.Errorf("index counts differ: %d vs %d", len(a.Indices), len(b.Indices))
	}
}

// TestDifferenceResultIsReusable checks that a boolean result can be used
// as a further boolean operand (it stays a closed solid).
func TestDifferenceResultIsReusable(t *testing.T) {
	k := New()
	panel := k.Box(100, 50, 10)
	first := k.Difference(panel, k.Translate(k.Cylinder(10, 5, 32), -20, 0, 0))
	second := unwrap(k.Difference(first, k.Translate(k.Cylinder(10, 5, 32), 20, 0, 0)))

	want := 100*50*10 - 2*prismVolume(5, 10, 32)
	if v := second.Volume(); !approxEq(v, want, 1e-2) {
		t.Errorf("Volume() = %g, want %g", v, want)
	}
}
