// Package validate enforces the global dimensional constraints on a
// configuration before it reaches the evaluator. The UI layer runs this
// first and refuses to evaluate on blocking errors; the evaluator itself
// never clamps or rejects (its generators degrade to fallbacks instead),
// so skipping validation produces visible-but-wrong output, not a crash.
package validate

import (
	"fmt"

	"github.com/tmorvan/panelcut/pkg/config"
	"github.com/tmorvan/panelcut/pkg/material"
)

// Panel dimension bounds in mm.
const (
	MinPanelLength = 10.0
	MaxPanelLength = 2500.0
	MinPanelWidth  = 10.0
	MaxPanelWidth  = 1250.0
)

// Severity indicates whether a finding blocks evaluation or is advisory.
type Severity int

const (
	SeverityError   Severity = iota // blocks evaluation
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Finding describes a single validation result. CutIndex is -1 for
// panel-level findings.
type Finding struct {
	CutIndex int
	Message  string
	Severity Severity
}

func (f Finding) Error() string {
	if f.CutIndex < 0 {
		return fmt.Sprintf("[%s] panel: %s", f.Severity, f.Message)
	}
	return fmt.Sprintf("[%s] cut %d: %s", f.Severity, f.CutIndex, f.Message)
}

// Result bundles blocking errors and advisory warnings.
type Result struct {
	Errors   []Finding
	Warnings []Finding
}

// OK reports whether the configuration may be evaluated.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Check runs all dimensional checks on the configuration against the
// material table. It is read-only and never mutates the configuration.
func Check(cfg config.Config, mats *material.Table) Result {
	var res Result
	res.add(checkPanel(cfg.Panel, mats))
	for i, cut := range cfg.Cuts {
		res.add(checkCut(i, cut, cfg.Panel))
	}
	return res
}

func (r *Result) add(findings []Finding) {
	for _, f := range findings {
		if f.Severity == SeverityError {
			r.Errors = append(r.Errors, f)
		} else {
			r.Warnings = append(r.Warnings, f)
		}
	}
}

// checkPanel enforces the panel range constraints and the material's
// discrete thickness set.
func checkPanel(p config.PanelSpec, mats *material.Table) []Finding {
	var findings []Finding

	if p.Length < MinPanelLength || p.Length > MaxPanelLength {
		findings = append(findings, Finding{
			CutIndex: -1,
			Message:  fmt.Sprintf("length %.1fmm outside [%.0f, %.0f]", p.Length, MinPanelLength, MaxPanelLength),
			Severity: SeverityError,
		})
	}
	if p.Width < MinPanelWidth || p.Width > MaxPanelWidth {
		findings = append(findings, Finding{
			CutIndex: -1,
			Message:  fmt.Sprintf("width %.1fmm outside [%.0f, %.0f]", p.Width, MinPanelWidth, MaxPanelWidth),
			Severity: SeverityError,
		})
	}

	mat, known := mats.Lookup(p.MaterialID)
	if !known {
		findings = append(findings, Finding{
			CutIndex: -1,
			Message:  fmt.Sprintf("unknown material %q, evaluation will substitute %q", p.MaterialID, mat.ID),
			Severity: SeverityWarning,
		})
	}
	if !containsThickness(mat.Thicknesses, p.Thickness) {
		findings = append(findings, Finding{
			CutIndex: -1,
			Message: fmt.Sprintf("thickness %.1fmm not available for %s (stock: %v)",
				p.Thickness, mat.ID, mat.Thicknesses),
			Severity: SeverityError,
		})
	}

	return findings
}

// checkCut enforces per-cut constraints relative to the panel: cut depth
// must not exceed panel thickness, and a circular cut must fit within the
// panel's smaller lateral dimension. The evaluator never clamps; a
// too-deep cut that slips past validation simply cuts all the way
// through.
func checkCut(index int, cut config.CutSpec, panel config.PanelSpec) []Finding {
	var findings []Finding

	smallerLateral := panel.Length
	if panel.Width < smallerLateral {
		smallerLateral = panel.Width
	}

	switch cut.Kind {
	case config.KindCircular:
		if cut.Circle == nil {
			break
		}
		if cut.Circle.Depth > panel.Thickness {
			findings = append(findings, Finding{
				CutIndex: index,
				Message: fmt.Sprintf("depth %.1fmm exceeds panel thickness %.1fmm",
					cut.Circle.Depth, panel.Thickness),
				Severity: SeverityError,
			})
		}
		if cut.Circle.Radius*2 > smallerLateral {
			findings = append(findings, Finding{
				CutIndex: index,
				Message: fmt.Sprintf("diameter %.1fmm exceeds panel's smaller lateral dimension %.1fmm",
					cut.Circle.Radius*2, smallerLateral),
				Severity: SeverityError,
			})
		}

	case config.KindRectangular:
		if cut.Rect == nil {
			break
		}
		if cut.Rect.Depth > panel.Thickness {
			findings = append(findings, Finding{
				CutIndex: index,
				Message: fmt.Sprintf("depth %.1fmm exceeds panel thickness %.1fmm",
					cut.Rect.Depth, panel.Thickness),
				Severity: SeverityError,
			})
		}
		if cut.Rect.Length > panel.Length || cut.Rect.Width > panel.Width {
			findings = append(findings, Finding{
				CutIndex: index,
				Message: fmt.Sprintf("footprint %.1f x %.1fmm exceeds panel %.1f x %.1fmm",
					cut.Rect.Length, cut.Rect.Width, panel.Length, panel.Width),
				Severity: SeverityWarning,
			})
		}

	default:
		findings = append(findings, Finding{
			CutIndex: index,
			Message:  fmt.Sprintf("unrecognized kind %q, evaluation will skip it", cut.Kind),
			Severity: SeverityWarning,
		})
	}

	return findings
}

func containsThickness(set []float64, t float64) bool {
	for _, s := range set {
		if s == t {
			return true
		}
	}
	return false
}
