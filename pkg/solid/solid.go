// Package solid turns parameter records into ready-to-use kernel solids,
// defensively. Invalid parameters never raise an error: each generator
// logs a diagnostic and substitutes a documented fallback, so the system
// always has something renderable. Every returned solid carries freshly
// computed bounding volumes (a kernel constructor guarantee the boolean
// stage relies on).
package solid

import (
	"log"

	"github.com/tmorvan/panelcut/pkg/kernel"
)

// Axis convention: panel length maps to X, width to Y, and thickness to
// the Z (up) axis. Cut depth also runs along Z.

// Fixed fallback dimensions. The rect-cut fallback is deliberately not
// the same triple as the rect-cut defaults.
const (
	FallbackPanelLength    = 200.0
	FallbackPanelThickness = 18.0
	FallbackPanelWidth     = 100.0

	DefaultCylinderRadius   = 10.0
	DefaultCylinderDepth    = 20.0
	DefaultCylinderSegments = 32
	MinCylinderSegments     = 3

	FallbackRectLength = 50.0
	FallbackRectWidth  = 20.0
	FallbackRectDepth  = 30.0
)

// warnf routes generator diagnostics. Tests swap it to capture output.
var warnf = log.Printf

// SetWarnf replaces the diagnostic sink and returns the previous one.
func SetWarnf(f func(format string, v ...interface{})) func(format string, v ...interface{}) {
	prev := warnf
	warnf = f
	return prev
}

// Panel produces the base panel box. Precondition: all dimensions
// positive. On violation it warns and substitutes the fixed default
// panel (200 long, 18 thick, 100 wide) instead of failing.
func Panel(k kernel.Kernel, length, width, thickness float64) kernel.Solid {
	if length <= 0 || width <= 0 || thickness <= 0 {
		warnf("solid: invalid panel dimensions %g x %g x %g, substituting default %g x %g x %g",
			length, width, thickness,
			FallbackPanelLength, FallbackPanelWidth, FallbackPanelThickness)
		length = FallbackPanelLength
		width = FallbackPanelWidth
		thickness = FallbackPanelThickness
	}
	return k.Box(length, width, thickness)
}

// Cylinder produces a right circular cylinder along the up axis for
// circular cuts. Invalid parameters degrade independently, not as an
// all-or-nothing reset:
//
//   - radius ≤ 0: the full default cylinder (10, 20, 32) is returned,
//     even when depth and segments were valid.
//   - depth ≤ 0 (radius valid): the given radius is kept but depth and
//     segments revert to the defaults (20, 32).
//   - segments < 3 (radius and depth valid): only the segment count
//     reverts to the default 32.
func Cylinder(k kernel.Kernel, radius, depth float64, segments int) kernel.Solid {
	switch {
	case radius <= 0:
		warnf("solid: invalid cylinder radius %g, substituting default cylinder (r=%g d=%g segments=%d)",
			radius, DefaultCylinderRadius, DefaultCylinderDepth, DefaultCylinderSegments)
		radius = DefaultCylinderRadius
		depth = DefaultCylinderDepth
		segments = DefaultCylinderSegments

	case depth <= 0:
		warnf("solid: invalid cylinder depth %g, substituting default depth %g and segments %d",
			depth, DefaultCylinderDepth, DefaultCylinderSegments)
		depth = DefaultCylinderDepth
		segments = DefaultCylinderSegments

	case segments < MinCylinderSegments:
		warnf("solid: invalid cylinder segment count %d, substituting default %d",
			segments, DefaultCylinderSegments)
		segments = DefaultCylinderSegments
	}
	return k.Cylinder(depth, radius, segments)
}

// RectCut produces the box solid for a rectangular cut, sized by the
// cut's own length/width/depth. Any non-positive dimension triggers the
// single fixed fallback box (50, 20, 30), all-or-nothing, unlike the
// cylinder's per-parameter matrix.
func RectCut(k kernel.Kernel, length, width, depth float64) kernel.Solid {
	if length <= 0 || width <= 0 || depth <= 0 {
		warnf("solid: invalid rect cut dimensions %g x %g x %g, substituting fallback %g x %g x %g",
			length, width, depth,
			FallbackRectLength, FallbackRectWidth, FallbackRectDepth)
		length = FallbackRectLength
		width = FallbackRectWidth
		depth = FallbackRectDepth
	}
	return k.Box(length, width, depth)
}
