package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Subdivision stops here. Two coincident points would otherwise split
// forever.
const maxTreeDepth = 64

type nodeKind uint8

const (
	nodeEmpty nodeKind = iota
	nodeLeaf
	nodeTwig
)

// Child slots of a twig, in node array order.
const (
	quadNW = 0
	quadSW = 1
	quadNE = 2
	quadSE = 3
)

type treeNode struct {
	kind     nodeKind
	children int32 // index of the first of four consecutive child nodes
	element  int32 // index into points when kind is nodeLeaf
}

// Quadtree is a flat-array point index over the square region
// [-extent, extent] on both axes. Nodes hold at most one point; inserting
// into an occupied leaf subdivides it until the points separate.
type Quadtree struct {
	extent float32
	nodes  []treeNode
	points []mgl32.Vec2
}

func NewQuadtree(extent float32) *Quadtree {
	t := &Quadtree{extent: extent}
	t.Clear()
	return t
}

// Clear drops all points but keeps the backing arrays for reuse.
func (t *Quadtree) Clear() {
	t.nodes = t.nodes[:0]
	t.nodes = append(t.nodes, treeNode{kind: nodeEmpty, children: -1, element: -1})
	t.points = t.points[:0]
}

func (t *Quadtree) Extent() float32 { return t.extent }

func (t *Quadtree) Len() int { return len(t.points) }

// Contains reports whether p falls inside the indexed region.
func (t *Quadtree) Contains(p mgl32.Vec2) bool {
	return p.X() >= -t.extent && p.X() <= t.extent &&
		p.Y() >= -t.extent && p.Y() <= t.extent
}

// Insert adds one point. Points outside the extent are rejected. A
// subdivision overflow (coincident or near-coincident points) leaves the
// tree partially updated; callers should Clear and rebuild.
func (t *Quadtree) Insert(p mgl32.Vec2) error {
	if !t.Contains(p) {
		return fmt.Errorf("point (%g, %g) outside tree extent %g", p.X(), p.Y(), t.extent)
	}
	elem := int32(len(t.points))
	t.points = append(t.points, p)
	return t.insert(0, mgl32.Vec2{}, t.extent, 0, elem)
}

func (t *Quadtree) insert(node int32, center mgl32.Vec2, halfSize float32, depth int, elem int32) error {
	if depth > maxTreeDepth {
		p := t.points[elem]
		return fmt.Errorf("subdivision depth %d exceeded near (%g, %g)", maxTreeDepth, p.X(), p.Y())
	}

	switch t.nodes[node].kind {
	case nodeEmpty:
		t.nodes[node].kind = nodeLeaf
		t.nodes[node].element = elem
		return nil

	case nodeLeaf:
		// Push the resident point down alongside the new one.
		prev := t.nodes[node].element
		children := int32(len(t.nodes))
		for i := 0; i < 4; i++ {
			t.nodes = append(t.nodes, treeNode{kind: nodeEmpty, children: -1, element: -1})
		}
		t.nodes[node].kind = nodeTwig
		t.nodes[node].children = children
		t.nodes[node].element = -1

		if err := t.insertIntoChild(node, center, halfSize, depth, prev); err != nil {
			return err
		}
		return t.insertIntoChild(node, center, halfSize, depth, elem)

	default:
		return t.insertIntoChild(node, center, halfSize, depth, elem)
	}
}

func (t *Quadtree) insertIntoChild(node int32, center mgl32.Vec2, halfSize float32, depth int, elem int32) error {
	p := t.points[elem]
	quarter := halfSize * 0.5

	q := quadNW
	offset := mgl32.Vec2{-quarter, quarter}
	if p.X() >= center.X() {
		q += 2
		offset[0] = quarter
	}
	if p.Y() < center.Y() {
		q += 1
		offset[1] = -quarter
	}

	child := t.nodes[node].children + int32(q)
	return t.insert(child, center.Add(offset), quarter, depth+1, elem)
}

// Walk visits every occupied node depth first, reporting the cell center,
// its half side length and its depth. The root cell spans the full extent.
func (t *Quadtree) Walk(fn func(center mgl32.Vec2, halfSize float32, depth int)) {
	if t.nodes[0].kind == nodeEmpty {
		return
	}
	t.walk(0, mgl32.Vec2{}, t.extent, 0, fn)
}

func (t *Quadtree) walk(node int32, center mgl32.Vec2, halfSize float32, depth int, fn func(center mgl32.Vec2, halfSize float32, depth int)) {
	fn(center, halfSize, depth)
	if t.nodes[node].kind != nodeTwig {
		return
	}

	quarter := halfSize * 0.5
	offsets := [4]mgl32.Vec2{
		{-quarter, quarter},
		{-quarter, -quarter},
		{quarter, quarter},
		{quarter, -quarter},
	}
	for i := int32(0); i < 4; i++ {
		child := t.nodes[node].children + i
		if t.nodes[child].kind == nodeEmpty {
			continue
		}
		t.walk(child, center.Add(offsets[i]), quarter, depth+1, fn)
	}
}
