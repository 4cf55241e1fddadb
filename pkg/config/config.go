// Package config defines the configuration record the evaluator consumes:
// one panel specification plus an ordered list of cuts. Configurations are
// built by the UI, decoded from JSON, or produced by the scripting engine;
// the evaluator treats them as read-only for the duration of one
// evaluation.
package config

import (
	"encoding/json"
	"fmt"
)

// Cut kinds understood by the evaluator. Anything else is skipped with a
// diagnostic.
const (
	KindCircular    = "circular"
	KindRectangular = "rectangular"
)

// Default cut parameters, applied when a field is omitted from a cut's
// params. These are the documented UI defaults; they are distinct from
// the generator fallbacks substituted for invalid values.
const (
	DefaultCutRadius   = 10.0
	DefaultCutDepth    = 20.0
	DefaultCutSegments = 32
	DefaultRectLength  = 50.0
	DefaultRectWidth   = 30.0
	DefaultRectDepth   = 20.0
)

// Vec3 is a 3D offset or Euler angle triple. Omitted components are zero.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns the component-wise sum.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// PanelSpec describes the base panel. Dimensions in mm; MaterialID
// resolves through the material table (unknown ids fall back to the
// default material).
type PanelSpec struct {
	Length     float64 `json:"length"`
	Width      float64 `json:"width"`
	Thickness  float64 `json:"thickness"`
	MaterialID string  `json:"materialId"`
}

// CircleParams are the parameters of a circular cut.
type CircleParams struct {
	Radius   float64 `json:"radius"`
	Depth    float64 `json:"depth"`
	Segments int     `json:"segments,omitempty"`
}

// RectParams are the parameters of a rectangular cut.
type RectParams struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
}

// CutSpec describes one subtractive cut. Kind selects the parameter set:
// Circle for circular cuts, Rect for rectangular ones. Position and
// Rotation place the cut in the panel's local frame; nil means origin /
// identity.
type CutSpec struct {
	Kind     string        `json:"kind"`
	Circle   *CircleParams `json:"-"`
	Rect     *RectParams   `json:"-"`
	Position *Vec3         `json:"position,omitempty"`
	Rotation *Vec3         `json:"rotation,omitempty"` // Euler angles in degrees
}

// Config is one complete panel configuration. Cut order is significant:
// cuts apply left to right, and swapping overlapping cuts can change the
// final mesh topology.
type Config struct {
	Panel PanelSpec `json:"panel"`
	Cuts  []CutSpec `json:"cuts"`
}

// Default returns the built-in starting configuration: a plain pine
// shelf panel with no cuts.
func Default() Config {
	return Config{
		Panel: PanelSpec{
			Length:     800,
			Width:      300,
			Thickness:  18,
			MaterialID: "pine",
		},
	}
}

// cutSpecJSON is the wire form of a CutSpec: params is kind-dependent.
type cutSpecJSON struct {
	Kind     string          `json:"kind"`
	Params   json.RawMessage `json:"params,omitempty"`
	Position *Vec3           `json:"position,omitempty"`
	Rotation *Vec3           `json:"rotation,omitempty"`
}

// UnmarshalJSON decodes the kind-tagged wire form, applying the
// documented defaults for omitted parameter fields. Unrecognized kinds
// decode successfully with no parameter set; the evaluator skips them.
func (c *CutSpec) UnmarshalJSON(data []byte) error {
	var raw cutSpecJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.Kind = raw.Kind
	c.Position = raw.Position
	c.Rotation = raw.Rotation
	c.Circle = nil
	c.Rect = nil

	switch raw.Kind {
	case KindCircular:
		p := CircleParams{
			Radius:   DefaultCutRadius,
			Depth:    DefaultCutDepth,
			Segments: DefaultCutSegments,
		}
		if len(raw.Params) > 0 {
			if err := json.Unmarshal(raw.Params, &p); err != nil {
				return fmt.Errorf("circular cut params: %w", err)
			}
		}
		c.Circle = &p

	case KindRectangular:
		p := RectParams{
			Length: DefaultRectLength,
			Width:  DefaultRectWidth,
			Depth:  DefaultRectDepth,
		}
		if len(raw.Params) > 0 {
			if err := json.Unmarshal(raw.Params, &p); err != nil {
				return fmt.Errorf("rectangular cut params: %w", err)
			}
		}
		c.Rect = &p
	}

	return nil
}

// MarshalJSON encodes back to the kind-tagged wire form.
func (c CutSpec) MarshalJSON() ([]byte, error) {
	raw := cutSpecJSON{
		Kind:     c.Kind,
		Position: c.Position,
		Rotation: c.Rotation,
	}

	var params interface{}
	switch {
	case c.Circle != nil:
		params = c.Circle
	case c.Rect != nil:
		params = c.Rect
	}
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		raw.Params = b
	}

	return json.Marshal(raw)
}

// Decode parses a JSON configuration.
func Decode(data []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
