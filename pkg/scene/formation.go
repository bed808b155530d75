package scene

// Placement is the geometry of one enemy in a formation.
type Placement struct {
	X, Y, Z int16
	Row     uint16
	Cover   uint16
}

// put writes the 10-byte geometry group.
func (p Placement) put(c *Cursor) {
	c.PutUint16(uint16(p.X))
	c.PutUint16(uint16(p.Y))
	c.PutUint16(uint16(p.Z))
	c.PutUint16(p.Row)
	c.PutUint16(p.Cover)
}

// Template places six enemies; one template is drawn per record.
type Template [PlacementSlots]Placement

// Bytes encodes the template as its 60-byte on-disk form.
func (t Template) Bytes() []byte {
	buf := make([]byte, PlacementSlots*placementGeomSize)
	c := NewCursor(buf)
	for _, p := range t {
		p.put(c)
	}
	return buf
}

// Formation templates.
var (
	// TwoLine puts three enemies in the front row and three behind.
	TwoLine = Template{
		{X: -1300, Z: -1400, Row: 1},
		{X: 0, Z: -1200, Row: 1},
		{X: 1300, Z: -1400, Row: 1},
		{X: -1300, Z: -2800, Row: 2},
		{X: 0, Z: -1200, Row: 2},
		{X: 1300, Z: -2800, Row: 2},
	}

	// Triangle puts one enemy up front, two behind it and three at the back.
	Triangle = Template{
		{X: 0, Z: -1200, Row: 1},
		{X: -500, Z: -2200, Row: 1},
		{X: 500, Z: -2200, Row: 1},
		{X: -1000, Z: -3200, Row: 2},
		{X: 0, Z: -3200, Row: 2},
		{X: 1000, Z: -3200, Row: 2},
	}

	templates = [...]*Template{&TwoLine, &Triangle}
)
