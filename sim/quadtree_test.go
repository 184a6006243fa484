package sim

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuadtreeInsertSinglePoint(t *testing.T) {
	tree := NewQuadtree(2)
	require.NoError(t, tree.Insert(mgl32.Vec2{0.5, 0.5}))
	assert.Equal(t, 1, tree.Len())

	visited := 0
	tree.Walk(func(center mgl32.Vec2, halfSize float32, depth int) {
		visited++
		assert.Equal(t, mgl32.Vec2{0, 0}, center)
		assert.Equal(t, float32(2), halfSize)
		assert.Equal(t, 0, depth)
	})
	assert.Equal(t, 1, visited, "single point stays in the root leaf")
}

func TestQuadtreeSubdividesOnSecondPoint(t *testing.T) {
	tree := NewQuadtree(2)
	require.NoError(t, tree.Insert(mgl32.Vec2{-1, 1})) // NW
	require.NoError(t, tree.Insert(mgl32.Vec2{1, 1}))  // NE

	type cell struct {
		center   mgl32.Vec2
		halfSize float32
		depth    int
	}
	var cells []cell
	tree.Walk(func(center mgl32.Vec2, halfSize float32, depth int) {
		cells = append(cells, cell{center, halfSize, depth})
	})

	require.Len(t, cells, 3, "root plus two occupied children")
	assert.Equal(t, cell{mgl32.Vec2{0, 0}, 2, 0}, cells[0])
	assert.Contains(t, cells, cell{mgl32.Vec2{-1, 1}, 1, 1})
	assert.Contains(t, cells, cell{mgl32.Vec2{1, 1}, 1, 1})
}

func TestQuadtreeDeepSubdivision(t *testing.T) {
	tree := NewQuadtree(2)
	// Two points in the same quadrant at every level until they separate
	require.NoError(t, tree.Insert(mgl32.Vec2{0.1, 0.1}))
	require.NoError(t, tree.Insert(mgl32.Vec2{0.11, 0.11}))
	assert.Equal(t, 2, tree.Len())

	maxDepth := 0
	tree.Walk(func(center mgl32.Vec2, halfSize float32, depth int) {
		if depth > maxDepth {
			maxDepth = depth
		}
	})
	assert.Greater(t, maxDepth, 1, "close points should subdivide past the first level")
}

func TestQuadtreeRejectsOutOfExtent(t *testing.T) {
	tree := NewQuadtree(2)
	err := tree.Insert(mgl32.Vec2{3, 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside tree extent")
}

func TestQuadtreeCoincidentPointsOverflow(t *testing.T) {
	tree := NewQuadtree(2)
	require.NoError(t, tree.Insert(mgl32.Vec2{0.5, 0.5}))
	err := tree.Insert(mgl32.Vec2{0.5, 0.5})
	require.Error(t, err, "coincident points cannot separate")
	assert.Contains(t, err.Error(), "subdivision depth")
}

func TestQuadtreeClearReuses(t *testing.T) {
	tree := NewQuadtree(2)
	require.NoError(t, tree.Insert(mgl32.Vec2{1, 1}))
	require.NoError(t, tree.Insert(mgl32.Vec2{-1, -1}))

	tree.Clear()
	assert.Equal(t, 0, tree.Len())
	visited := 0
	tree.Walk(func(mgl32.Vec2, float32, int) { visited++ })
	assert.Equal(t, 0, visited, "cleared tree has no occupied nodes")

	require.NoError(t, tree.Insert(mgl32.Vec2{0.25, -0.25}))
	assert.Equal(t, 1, tree.Len())
}

func TestQuadtreeContains(t *testing.T) {
	tree := NewQuadtree(1)
	assert.True(t, tree.Contains(mgl32.Vec2{1, -1}), "boundary is inside")
	assert.False(t, tree.Contains(mgl32.Vec2{1.001, 0}))
}
