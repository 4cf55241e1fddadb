package validate

import (
	"strings"
	"testing"

	"github.com/tmorvan/panelcut/pkg/config"
	"github.com/tmorvan/panelcut/pkg/material"
)

func validPanel() config.PanelSpec {
	return config.PanelSpec{Length: 800, Width: 300, Thickness: 18, MaterialID: "pine"}
}

func TestCheckValidConfig(t *testing.T) {
	mats := material.NewTable()
	cfg := config.Config{
		Panel: validPanel(),
		Cuts: []config.CutSpec{
			{
				Kind:   config.KindCircular,
				Circle: &config.CircleParams{Radius: 10, Depth: 18, Segments: 32},
			},
		},
	}

	res := Check(cfg, mats)
	if !res.OK() {
		t.Errorf("OK() = false, errors: %v", res.Errors)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestCheckPanel(t *testing.T) {
	mats := material.NewTable()

	tests := []struct {
		name         string
		mutate       func(*config.PanelSpec)
		wantErrors   int
		wantWarnings int
		wantContains string
	}{
		{
			name:         "length too small",
			mutate:       func(p *config.PanelSpec) { p.Length = 5 },
			wantErrors:   1,
			wantContains: "length",
		},
		{
			name:         "length too large",
			mutate:       func(p *config.PanelSpec) { p.Length = 3000 },
			wantErrors:   1,
			wantContains: "length",
		},
		{
			name:         "width too large",
			mutate:       func(p *config.PanelSpec) { p.Width = 2000 },
			wantErrors:   1,
			wantContains: "width",
		},
		{
			name:         "thickness not in stock set",
			mutate:       func(p *config.PanelSpec) { p.Thickness = 17 },
			wantErrors:   1,
			wantContains: "thickness",
		},
		{
			name: "unknown material warns and checks fallback stock",
			mutate: func(p *config.PanelSpec) {
				p.MaterialID = "granite"
				p.Thickness = 18 // valid for the pine fallback
			},
			wantWarnings: 1,
			wantContains: "granite",
		},
		{
			name: "both lateral dims out of range",
			mutate: func(p *config.PanelSpec) {
				p.Length = 0
				p.Width = 0
			},
			wantErrors: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPanel()
			tt.mutate(&p)

			res := Check(config.Config{Panel: p}, mats)
			if len(res.Errors) != tt.wantErrors {
				t.Errorf("got %d errors (%v), want %d", len(res.Errors), res.Errors, tt.wantErrors)
			}
			if len(res.Warnings) != tt.wantWarnings {
				t.Errorf("got %d warnings (%v), want %d", len(res.Warnings), res.Warnings, tt.wantWarnings)
			}
			if tt.wantContains != "" {
				all := append(append([]Finding{}, res.Errors...), res.Warnings...)
				found := false
				for _, f := range all {
					if strings.Contains(f.Message, tt.wantContains) {
						found = true
					}
				}
				if !found {
					t.Errorf("no finding mentions %q: %v", tt.wantContains, all)
				}
			}
		})
	}
}

func TestCheckCut(t *testing.T) {
	mats := material.NewTable()

	tests := []struct {
		name         string
		cut          config.CutSpec
		wantErrors   int
		wantWarnings int
	}{
		{
			name: "circular depth exceeds thickness",
			cut: config.CutSpec{
				Kind:   config.KindCircular,
				Circle: &config.CircleParams{Radius: 10, Depth: 25, Segments: 32},
			},
			wantErrors: 1,
		},
		{
			name: "circular diameter exceeds smaller lateral",
			cut: config.CutSpec{
				Kind:   config.KindCircular,
				Circle: &config.CircleParams{Radius: 200, Depth: 18, Segments: 32},
			},
			wantErrors: 1,
		},
		{
			name: "rectangular depth exceeds thickness",
			cut: config.CutSpec{
				Kind: config.KindRectangular,
				Rect: &config.RectParams{Length: 50, Width: 30, Depth: 19},
			},
			wantErrors: 1,
		},
		{
			name: "rectangular footprint exceeds panel",
			cut: config.CutSpec{
				Kind: config.KindRectangular,
				Rect: &config.RectParams{Length: 900, Width: 30, Depth: 10},
			},
			wantWarnings: 1,
		},
		{
			name:         "unknown kind warns",
			cut:          config.CutSpec{Kind: "bevel"},
			wantWarnings: 1,
		},
		{
			name: "depth equal to thickness is allowed",
			cut: config.CutSpec{
				Kind:   config.KindCircular,
				Circle: &config.CircleParams{Radius: 10, Depth: 18, Segments: 32},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Config{Panel: validPanel(), Cuts: []config.CutSpec{tt.cut}}
			res := Check(cfg, mats)
			if len(res.Errors) != tt.wantErrors {
				t.Errorf("got %d errors (%v), want %d", len(res.Errors), res.Errors, tt.wantErrors)
			}
			if len(res.Warnings) != tt.wantWarnings {
				t.Errorf("got %d warnings (%v), want %d", len(res.Warnings), res.Warnings, tt.wantWarnings)
			}
			if tt.wantErrors > 0 && res.Errors[0].CutIndex != 0 {
				t.Errorf("CutIndex = %d, want 0", res.Errors[0].CutIndex)
			}
		})
	}
}

func TestFindingError(t *testing.T) {
	f := Finding{CutIndex: -1, Message: "too wide", Severity: SeverityError}
	if got := f.Error(); !strings.Contains(got, "panel") {
		t.Errorf("Error() = %q, want panel-level prefix", got)
	}

	f = Finding{CutIndex: 2, Message: "too deep", Severity: SeverityWarning}
	if got := f.Error(); !strings.Contains(got, "cut 2") || !strings.Contains(got, "warning") {
		t.Errorf("Error() = %q, want cut index and severity", got)
	}
}
