// Package evaluate folds an ordered cut list into a panel via sequential
// boolean subtraction, producing one renderable result. Evaluation is
// synchronous and single-threaded: each subtraction depends on the
// previous accumulator, so there is no opportunity for parallel folding
// without changing the algorithm.
package evaluate

import (
	"fmt"
	"log"

	"github.com/tmorvan/panelcut/pkg/config"
	"github.com/tmorvan/panelcut/pkg/kernel"
	"github.com/tmorvan/panelcut/pkg/material"
	"github.com/tmorvan/panelcut/pkg/solid"
)

// warnf routes evaluator diagnostics. Tests swap it to capture output.
var warnf = log.Printf

// SetWarnf replaces the diagnostic sink and returns the previous one.
func SetWarnf(f func(format string, v ...interface{})) func(format string, v ...interface{}) {
	prev := warnf
	warnf = f
	return prev
}

// Result is one renderable evaluation outcome: the final solid, its
// tessellated mesh with shading normals, and the panel's material.
type Result struct {
	Solid         kernel.Solid
	Mesh          *kernel.Mesh
	Material      material.Material
	CastShadow    bool
	ReceiveShadow bool
}

// Evaluate builds the panel solid, folds every cut into it in list order,
// and tessellates the final accumulator once.
//
// The evaluator does not validate dimensional constraints (cut depth vs
// panel thickness and so on); that is the validator's job, invoked by
// the UI before evaluation. Its only local recovery is skipping cuts of
// unrecognized kind. A kernel boolean failure (backend panic) propagates
// to the caller, which is expected to substitute an uncut panel.
func Evaluate(k kernel.Kernel, cfg config.Config, mats *material.Table) (*Result, error) {
	// Accumulator starts as the panel in its local frame (identity
	// transform). Unresolvable material ids fall back to the default.
	acc := solid.Panel(k, cfg.Panel.Length, cfg.Panel.Width, cfg.Panel.Thickness)
	mat, known := mats.Lookup(cfg.Panel.MaterialID)
	if !known {
		warnf("evaluate: unknown material %q, substituting %q", cfg.Panel.MaterialID, mat.ID)
	}

	for i, cut := range cfg.Cuts {
		cutSolid, ok := buildCut(k, cut)
		if !ok {
			warnf("evaluate: cut %d has unrecognized kind %q, skipping", i, cut.Kind)
			continue
		}

		cutSolid = place(k, cutSolid, cut)

		// Sequential fold: order matters when cut volumes overlap.
		// Superseded accumulators are dropped here and reclaimed by GC.
		acc = k.Difference(acc, cutSolid)
	}

	mesh, err := k.ToMesh(acc)
	if err != nil {
		return nil, fmt.Errorf("evaluate: tessellation failed: %w", err)
	}

	// Shading normals are recomputed exactly once, on the final mesh.
	// Intermediate accumulators never need them.
	kernel.ComputeVertexNormals(mesh)
	mesh.PartName = "panel"

	return &Result{
		Solid:         acc,
		Mesh:          mesh,
		Material:      mat,
		CastShadow:    true,
		ReceiveShadow: true,
	}, nil
}

// buildCut dispatches on the cut kind and instantiates its solid.
// Returns ok=false for unrecognized kinds.
func buildCut(k kernel.Kernel, cut config.CutSpec) (kernel.Solid, bool) {
	switch cut.Kind {
	case config.KindCircular:
		p := cut.Circle
		if p == nil {
			p = &config.CircleParams{}
		}
		return solid.Cylinder(k, p.Radius, p.Depth, p.Segments), true

	case config.KindRectangular:
		p := cut.Rect
		if p == nil {
			p = &config.RectParams{}
		}
		return solid.RectCut(k, p.Length, p.Width, p.Depth), true

	default:
		return nil, false
	}
}

// place applies the cut's rotation then translation in the panel's local
// frame. Omitted components default to identity / origin.
func place(k kernel.Kernel, s kernel.Solid, cut config.CutSpec) kernel.Solid {
	if r := cut.Rotation; r != nil && !r.IsZero() {
		s = k.Rotate(s, r.X, r.Y, r.Z)
	}
	if p := cut.Position; p != nil && !p.IsZero() {
		s = k.Translate(s, p.X, p.Y, p.Z)
	}
	return s
}
