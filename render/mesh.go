package render

import (
	"github.com/go-gl/mathgl/mgl32"
)

// OverlayVertex matches the WGSL VertexInput in overlay.wgsl.
type OverlayVertex struct {
	Pos   [2]float32
	Color [4]float32
}

// LineMesh accumulates flat-colored line geometry for one frame. Lines
// are expanded on the CPU into thin quads so width is controllable.
type LineMesh struct {
	Vertices []OverlayVertex
	Indices  []uint32
}

func (m *LineMesh) Reset() {
	m.Vertices = m.Vertices[:0]
	m.Indices = m.Indices[:0]
}

// PushLine appends a quad covering the segment from a to b with the given
// total width. Degenerate segments are skipped.
func (m *LineMesh) PushLine(a, b mgl32.Vec2, width float32, color [4]float32) {
	diff := b.Sub(a)
	if diff.Len() < 1e-6 {
		return
	}
	dir := diff.Normalize()
	normal := mgl32.Vec2{-dir.Y(), dir.X()}.Mul(width * 0.5)

	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices,
		OverlayVertex{Pos: [2]float32{a.X() + normal.X(), a.Y() + normal.Y()}, Color: color},
		OverlayVertex{Pos: [2]float32{a.X() - normal.X(), a.Y() - normal.Y()}, Color: color},
		OverlayVertex{Pos: [2]float32{b.X() + normal.X(), b.Y() + normal.Y()}, Color: color},
		OverlayVertex{Pos: [2]float32{b.X() - normal.X(), b.Y() - normal.Y()}, Color: color},
	)
	m.Indices = append(m.Indices,
		base, base+1, base+2,
		base+2, base+1, base+3,
	)
}

// PushRectOutline appends the four edges of an axis-aligned square cell
// centered at center with the given half side length.
func (m *LineMesh) PushRectOutline(center mgl32.Vec2, halfSize, width float32, color [4]float32) {
	tl := mgl32.Vec2{center.X() - halfSize, center.Y() + halfSize}
	tr := mgl32.Vec2{center.X() + halfSize, center.Y() + halfSize}
	bl := mgl32.Vec2{center.X() - halfSize, center.Y() - halfSize}
	br := mgl32.Vec2{center.X() + halfSize, center.Y() - halfSize}

	m.PushLine(tl, tr, width, color)
	m.PushLine(tr, br, width, color)
	m.PushLine(br, bl, width, color)
	m.PushLine(bl, tl, width, color)
}
