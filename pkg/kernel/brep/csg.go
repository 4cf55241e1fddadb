package brep

import "math"

// planeEpsilon is the tolerance used to classify a point against a plane.
// Points within this distance are treated as coplanar.
const planeEpsilon = 1e-5

// vec is a 3D vector. All boolean arithmetic runs in float64; meshes are
// narrowed to float32 only at ToMesh time.
type vec struct {
	X, Y, Z float64
}

func (v vec) add(o vec) vec       { return vec{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v vec) sub(o vec) vec       { return vec{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v vec) scale(s float64) vec { return vec{v.X * s, v.Y * s, v.Z * s} }
func (v vec) dot(o vec) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v vec) length() float64     { return math.Sqrt(v.dot(v)) }
func (v vec) lerp(o vec, t float64) vec {
	return v.add(o.sub(v).scale(t))
}

func (v vec) cross(o vec) vec {
	return vec{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v vec) unit() vec {
	l := v.length()
	if l == 0 {
		return vec{}
	}
	return v.scale(1 / l)
}

// plane is an oriented plane in Hessian normal form: normal·p = w.
type plane struct {
	normal vec
	w      float64
}

func planeFromPoints(a, b, c vec) plane {
	n := b.sub(a).cross(c.sub(a)).unit()
	return plane{normal: n, w: n.dot(a)}
}

func (pl plane) flipped() plane {
	return plane{normal: pl.normal.scale(-1), w: -pl.w}
}

// polygon is a convex planar face with vertices in counter-clockwise order
// when viewed from the outside (the side the plane normal points to).
type polygon struct {
	vertices []vec
	plane    plane
}

func newPolygon(vertices []vec) polygon {
	return polygon{
		vertices: vertices,
		plane:    planeFromPoints(vertices[0], vertices[1], vertices[2]),
	}
}

// flipped returns the polygon with reversed winding and flipped plane.
// It never mutates the receiver's vertex storage.
func (p polygon) flipped() polygon {
	reversed := make([]vec, len(p.vertices))
	for i, v := range p.vertices {
		reversed[len(p.vertices)-1-i] = v
	}
	return polygon{vertices: reversed, plane: p.plane.flipped()}
}

// Vertex classification against a splitting plane.
const (
	sideCoplanar = 0
	sideFront    = 1
	sideBack     = 2
	sideSpanning = 3 // sideFront | sideBack
)

// splitPolygon classifies p against pl and appends it (or its pieces) to
// the appropriate output lists. Spanning polygons are cut along the plane;
// the pieces keep the parent polygon's plane so repeated splitting of
// slivers cannot degrade the normal.
func (pl plane) splitPolygon(p polygon, coplanarFront, coplanarBack, front, back *[]polygon) {
	polygonType := 0
	types := make([]int, len(p.vertices))
	for i, v := range p.vertices {
		t := pl.normal.dot(v) - pl.w
		side := sideCoplanar
		if t < -planeEpsilon {
			side = sideBack
		} else if t > planeEpsilon {
			side = sideFront
		}
		polygonType |= side
		types[i] = side
	}

	switch polygonType {
	case sideCoplanar:
		if pl.normal.dot(p.plane.normal) > 0 {
			*coplanarFront = append(*coplanarFront, p)
		} else {
			*coplanarBack = append(*coplanarBack, p)
		}
	case sideFront:
		*front = append(*front, p)
	case sideBack:
		*back = append(*back, p)
	case sideSpanning:
		var f, b []vec
		n := len(p.vertices)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			ti, tj := types[i], types[j]
			vi, vj := p.vertices[i], p.vertices[j]
			if ti != sideBack {
				f = append(f, vi)
			}
			if ti != sideFront {
				b = append(b, vi)
			}
			if (ti | tj) == sideSpanning {
				t := (pl.w - pl.normal.dot(vi)) / pl.normal.dot(vj.sub(vi))
				mid := vi.lerp(vj, t)
				f = append(f, mid)
				b = append(b, mid)
			}
		}
		if len(f) >= 3 {
			*front = append(*front, polygon{vertices: f, plane: p.plane})
		}
		if len(b) >= 3 {
			*back = append(*back, polygon{vertices: b, plane: p.plane})
		}
	}
}

// bspNode is a node in a binary space partition tree built from solid
// boundary polygons. The tree supports the clipping operations that
// implement boolean set operations on solids.
type bspNode struct {
	plane    *plane
	front    *bspNode
	back     *bspNode
	polygons []polygon
}

func newBSPNode(polygons []polygon) *bspNode {
	n := &bspNode{}
	if len(polygons) > 0 {
		n.build(polygons)
	}
	return n
}

// build incorporates polygons into the tree. The first polygon's plane
// seeds a fresh node's splitting plane.
func (n *bspNode) build(polygons []polygon) {
	if len(polygons) == 0 {
		return
	}
	if n.plane == nil {
		pl := polygons[0].plane
		n.plane = &pl
	}
	var front, back []polygon
	for _, p := range polygons {
		n.plane.splitPolygon(p, &n.polygons, &n.polygons, &front, &back)
	}
	if len(front) > 0 {
		if n.front == nil {
			n.front = &bspNode{}
		}
		n.front.build(front)
	}
	if len(back) > 0 {
		if n.back == nil {
			n.back = &bspNode{}
		}
		n.back.build(back)
	}
}

// invert converts the tree to represent the complement solid.
func (n *bspNode) invert() {
	for i := range n.polygons {
		n.polygons[i] = n.polygons[i].flipped()
	}
	if n.plane != nil {
		fl := n.plane.flipped()
		n.plane = &fl
	}
	if n.front != nil {
		n.front.invert()
	}
	if n.back != nil {
		n.back.invert()
	}
	n.front, n.back = n.back, n.front
}

// clipPolygons removes all parts of the given polygons that lie inside
// the solid represented by this tree.
func (n *bspNode) clipPolygons(polygons []polygon) []polygon {
	if n.plane == nil {
		return append([]polygon(nil), polygons...)
	}
	var front, back []polygon
	for _, p := range polygons {
		n.plane.splitPolygon(p, &front, &back, &front, &back)
	}
	if n.front != nil {
		front = n.front.clipPolygons(front)
	}
	if n.back != nil {
		back = n.back.clipPolygons(back)
	} else {
		// No back subtree: everything behind the plane is inside the solid.
		back = nil
	}
	return append(front, back...)
}

// clipTo removes all parts of this tree's polygons that are inside the
// other tree's solid.
func (n *bspNode) clipTo(other *bspNode) {
	n.polygons = other.clipPolygons(n.polygons)
	if n.front != nil {
		n.front.clipTo(other)
	}
	if n.back != nil {
		n.back.clipTo(other)
	}
}

// allPolygons collects every polygon in the tree.
func (n *bspNode) allPolygons() []polygon {
	out := append([]polygon(nil), n.polygons...)
	if n.front != nil {
		out = append(out, n.front.allPolygons()...)
	}
	if n.back != nil {
		out = append(out, n.back.allPolygons()...)
	}
	return out
}

// union returns the boundary polygons of a ∪ b.
func union(a, b []polygon) []polygon {
	na := newBSPNode(a)
	nb := newBSPNode(b)
	na.clipTo(nb)
	nb.clipTo(na)
	nb.invert()
	nb.clipTo(na)
	nb.invert()
	na.build(nb.allPolygons())
	return na.allPolygons()
}

// difference returns the boundary polygons of a − b.
func difference(a, b []polygon) []polygon {
	na := newBSPNode(a)
	nb := newBSPNode(b)
	na.invert()
	na.clipTo(nb)
	nb.clipTo(na)
	nb.invert()
	nb.clipTo(na)
	nb.invert()
	na.build(nb.allPolygons())
	na.invert()
	return na.allPolygons()
}

// intersection returns the boundary polygons of a ∩ b.
func intersection(a, b []polygon) []polygon {
	na := newBSPNode(a)
	nb := newBSPNode(b)
	na.invert()
	nb.clipTo(na)
	nb.invert()
	na.clipTo(nb)
	nb.clipTo(na)
	na.build(nb.allPolygons())
	na.invert()
	return na.allPolygons()
}
