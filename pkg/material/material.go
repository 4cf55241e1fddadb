// Package material maps material ids to display properties and to the
// discrete thickness sets the dimensional validator enforces.
package material

// DefaultID is the material substituted when an id does not resolve.
const DefaultID = "pine"

// Material describes a panel material. Color is a hex display color for
// the rendering surface; Thicknesses is the set of stock thicknesses (mm)
// the material is available in.
type Material struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Thicknesses []float64 `json:"thicknesses"`
}

// Table resolves material ids. The zero value is unusable; construct with
// NewTable.
type Table struct {
	byID map[string]Material
}

// NewTable returns a table populated with the built-in materials.
func NewTable() *Table {
	t := &Table{byID: make(map[string]Material)}
	for _, m := range builtins {
		t.byID[m.ID] = m
	}
	return t
}

// builtins is the built-in material catalog. The pine entry doubles as
// the fallback for unresolved ids.
var builtins = []Material{
	{ID: "pine", Name: "Pine", Color: "#DEB887", Thicknesses: []float64{12, 18, 28, 40}},
	{ID: "oak", Name: "Oak", Color: "#B8860B", Thicknesses: []float64{19, 25, 40}},
	{ID: "walnut", Name: "Walnut", Color: "#5C4033", Thicknesses: []float64{19, 25, 40}},
	{ID: "birch", Name: "Birch", Color: "#F1E3C3", Thicknesses: []float64{18, 27, 40}},
	{ID: "plywood", Name: "Plywood", Color: "#D2B48C", Thicknesses: []float64{6, 9, 12, 15, 18, 21, 24}},
	{ID: "mdf", Name: "MDF", Color: "#9C8468", Thicknesses: []float64{3, 6, 10, 12, 16, 19, 22, 25}},
}

// Lookup resolves an id to a material. Unknown ids resolve to the default
// material; the second return reports whether the id was known.
func (t *Table) Lookup(id string) (Material, bool) {
	if m, ok := t.byID[id]; ok {
		return m, true
	}
	return t.byID[DefaultID], false
}

// Default returns the fallback material.
func (t *Table) Default() Material {
	return t.byID[DefaultID]
}

// All returns the full catalog in its declaration order.
func (t *Table) All() []Material {
	out := make([]Material, len(builtins))
	copy(out, builtins)
	return out
}

// IDs returns the ids of all known materials.
func (t *Table) IDs() []string {
	ids := make([]string, 0, len(builtins))
	for _, m := range builtins {
		ids = append(ids, m.ID)
	}
	return ids
}
