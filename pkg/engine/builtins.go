package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/tmorvan/panelcut/pkg/config"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms configurator Lisp source before passing it
// to zygomys:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal).
//     This avoids registering keyword symbols as globals, which would
//     conflict with user variables of the same name.
//
//  2. Kebab-case to underscore: cut-depth -> cut_depth. zygomys does not
//     allow hyphens in identifiers (it reads them as subtraction).
//
//  3. Lisp ; line comments become zygomys // comments.
//
// All transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when the hyphen sits between identifier characters.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types
// ---------------------------------------------------------------------------

// sexpVec3 wraps a config.Vec3 so it can be passed between builtins.
type sexpVec3 struct {
	vec config.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpCutRef wraps the index of a cut appended to the configuration so
// scripts can see what a form produced.
type sexpCutRef struct {
	kind  string
	index int
}

func (c *sexpCutRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(cut %s #%d)", c.kind, c.index)
}
func (c *sexpCutRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks whether a Sexp is a preprocessed keyword string, returning
// the keyword name without the prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds a parsed mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a config.Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (config.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return config.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Configuration builder
// ---------------------------------------------------------------------------

// configBuilder accumulates the panel and cuts as builtins run. One
// builder exists per evaluation; the sandbox is single-threaded.
type configBuilder struct {
	panel    *config.PanelSpec
	cuts     []config.CutSpec
	panelSet bool
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{}
}

// config finalizes the builder. A source that never called (panel ...)
// gets the default panel; the system favors something renderable.
func (cb *configBuilder) config() config.Config {
	cfg := config.Default()
	if cb.panelSet {
		cfg.Panel = *cb.panel
	}
	cfg.Cuts = cb.cuts
	return cfg
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the configurator DSL builtins into a zygomys
// environment. The builtins populate the provided builder during
// evaluation. Source must be preprocessed with preprocessSource() first
// so that :keyword tokens are recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, cb *configBuilder) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		var v config.Vec3
		for i, dst := range []*float64{&v.X, &v.Y, &v.Z} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: component %d: %w", i, err)
			}
			*dst = f
		}

		return &sexpVec3{vec: v}, nil
	})

	// -----------------------------------------------------------------------
	// (panel :length 1000 :width 500 :thickness 20 :material "pine")
	// -----------------------------------------------------------------------
	env.AddFunction("panel", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if cb.panelSet {
			return zygo.SexpNull, fmt.Errorf("panel: already defined; a configuration has exactly one panel")
		}

		pa := parseArgs(args)
		spec := config.Default().Panel

		if v, ok := pa.kw["length"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("panel: length: %w", err)
			}
			spec.Length = f
		}
		if v, ok := pa.kw["width"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("panel: width: %w", err)
			}
			spec.Width = f
		}
		if v, ok := pa.kw["thickness"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("panel: thickness: %w", err)
			}
			spec.Thickness = f
		}
		if v, ok := pa.kw["material"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("panel: material: %w", err)
			}
			spec.MaterialID = s
		}

		cb.panel = &spec
		cb.panelSet = true
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (hole :radius 25 :depth 20 :segments 32 :at (vec3 0 0 0) :rotate (vec3 0 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("hole", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		params := config.CircleParams{
			Radius:   config.DefaultCutRadius,
			Depth:    config.DefaultCutDepth,
			Segments: config.DefaultCutSegments,
		}
		cut := config.CutSpec{Kind: config.KindCircular}

		if v, ok := pa.kw["radius"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("hole: radius: %w", err)
			}
			params.Radius = f
		}
		if v, ok := pa.kw["depth"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("hole: depth: %w", err)
			}
			params.Depth = f
		}
		if v, ok := pa.kw["segments"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("hole: segments: %w", err)
			}
			params.Segments = n
		}
		if err := parsePlacement(pa, &cut); err != nil {
			return zygo.SexpNull, fmt.Errorf("hole: %w", err)
		}

		cut.Circle = &params
		cb.cuts = append(cb.cuts, cut)
		return &sexpCutRef{kind: cut.Kind, index: len(cb.cuts) - 1}, nil
	})

	// -----------------------------------------------------------------------
	// (pocket :length 80 :width 40 :depth 10 :at (vec3 ...) :rotate (vec3 ...))
	// -----------------------------------------------------------------------
	env.AddFunction("pocket", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		params := config.RectParams{
			Length: config.DefaultRectLength,
			Width:  config.DefaultRectWidth,
			Depth:  config.DefaultRectDepth,
		}
		cut := config.CutSpec{Kind: config.KindRectangular}

		if v, ok := pa.kw["length"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("pocket: length: %w", err)
			}
			params.Length = f
		}
		if v, ok := pa.kw["width"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("pocket: width: %w", err)
			}
			params.Width = f
		}
		if v, ok := pa.kw["depth"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("pocket: depth: %w", err)
			}
			params.Depth = f
		}
		if err := parsePlacement(pa, &cut); err != nil {
			return zygo.SexpNull, fmt.Errorf("pocket: %w", err)
		}

		cut.Rect = &params
		cb.cuts = append(cb.cuts, cut)
		return &sexpCutRef{kind: cut.Kind, index: len(cb.cuts) - 1}, nil
	})
}

// parsePlacement extracts the shared :at and :rotate keywords into a cut.
func parsePlacement(pa kwArgs, cut *config.CutSpec) error {
	if v, ok := pa.kw["at"]; ok {
		vec, err := toVec3(v)
		if err != nil {
			return fmt.Errorf("at: %w", err)
		}
		cut.Position = &vec
	}
	if v, ok := pa.kw["rotate"]; ok {
		vec, err := toVec3(v)
		if err != nil {
			return fmt.Errorf("rotate: %w", err)
		}
		cut.Rotation = &vec
	}
	return nil
}
