// Package kernel defines the abstract geometry kernel interface.
// Implementations (brep, sdfx) provide solid modeling and boolean
// operations behind this interface. The kernel abstraction allows
// swapping backends without changing the rest of the system.
package kernel

// Solid is an opaque handle to a geometry kernel solid. Implementations
// wrap their internal representation. Bounding volumes are computed when
// the solid is constructed; they are never stale.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)

	// BoundingSphere returns the center and radius of a sphere
	// enclosing the solid.
	BoundingSphere() (center [3]float64, radius float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives. Both are centered on the origin of the local frame;
	// cylinders are aligned along the Z axis.
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid

	// Boolean operations.
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Rigid transforms.
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output.
	ToMesh(s Solid) (*Mesh, error)
}
