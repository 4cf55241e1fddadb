package engine

import (
	"strings"
	"testing"

	"github.com/tmorvan/panelcut/pkg/config"
)

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "keyword becomes string",
			source: `(panel :length 600)`,
			want:   `(panel "__kw_length" 600)`,
		},
		{
			name:   "kebab keyword",
			source: `(hole :cut-depth 10)`,
			want:   `(hole "__kw_cut-depth" 10)`,
		},
		{
			name:   "kebab identifier becomes underscore",
			source: `(def shelf-width 300)`,
			want:   `(def shelf_width 300)`,
		},
		{
			name:   "subtraction is untouched",
			source: `(- 10 3)`,
			want:   `(- 10 3)`,
		},
		{
			name:   "numeric subtraction without spaces is untouched",
			source: `(+ 1 -2)`,
			want:   `(+ 1 -2)`,
		},
		{
			name:   "assignment operator preserved",
			source: `(x := 5)`,
			want:   `(x := 5)`,
		},
		{
			name:   "semicolon comment",
			source: "; heading\n(panel)",
			want:   "// heading\n(panel)",
		},
		{
			name:   "double semicolon comment",
			source: ";; note\n",
			want:   "// note\n",
		},
		{
			name:   "keyword inside string untouched",
			source: `(panel :material "pine :knotty")`,
			want:   `(panel "__kw_material" "pine :knotty")`,
		},
		{
			name:   "semicolon inside string untouched",
			source: `(def s "a;b")`,
			want:   `(def s "a;b")`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preprocessSource(tt.source); got != tt.want {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}

func TestKebabKeywordRoundTrip(t *testing.T) {
	// A kebab keyword keeps its hyphen through preprocessing (it is inside
	// a string by then), so isKW must report it as written.
	got := preprocessSource(`:cut-depth`)
	name, ok := isKWString(got)
	if !ok || name != "cut-depth" {
		t.Errorf("round trip = %q, %v; want cut-depth, true", name, ok)
	}
}

// isKWString strips the quotes preprocessSource adds and applies the
// keyword check to the literal.
func isKWString(literal string) (string, bool) {
	s := strings.Trim(literal, `"`)
	if strings.HasPrefix(s, kwPrefix) {
		return s[len(kwPrefix):], true
	}
	return "", false
}

func TestConfigBuilderDefaults(t *testing.T) {
	cb := newConfigBuilder()
	cfg := cb.config()

	if cfg.Panel != config.Default().Panel {
		t.Errorf("panel = %+v, want default", cfg.Panel)
	}
	if len(cfg.Cuts) != 0 {
		t.Errorf("got %d cuts, want 0", len(cfg.Cuts))
	}
}

func TestConfigBuilderAccumulatesCuts(t *testing.T) {
	cb := newConfigBuilder()
	cb.cuts = append(cb.cuts, config.CutSpec{Kind: config.KindCircular})
	cb.cuts = append(cb.cuts, config.CutSpec{Kind: config.KindRectangular})

	cfg := cb.config()
	if len(cfg.Cuts) != 2 {
		t.Fatalf("got %d cuts, want 2", len(cfg.Cuts))
	}
	if cfg.Cuts[0].Kind != config.KindCircular || cfg.Cuts[1].Kind != config.KindRectangular {
		t.Errorf("cut order not preserved: %+v", cfg.Cuts)
	}
}
