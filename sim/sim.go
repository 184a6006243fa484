package sim

import (
	"github.com/google/uuid"

	"github.com/gekko3d/graviton/render"
)

// Simulation holds the particle set and its spatial index. It owns no GPU
// state; the renderer consumes the instance stream it packs.
type Simulation struct {
	ID     uuid.UUID
	Bodies []Body
	Extent float32

	tree      *Quadtree
	instances []render.ParticleInstance
}

func New(bodies []Body, extent float32) *Simulation {
	return &Simulation{
		ID:     uuid.New(),
		Bodies: bodies,
		Extent: extent,
		tree:   NewQuadtree(extent),
	}
}

func (s *Simulation) Tree() *Quadtree { return s.tree }

// RebuildTree reindexes every body. Bodies outside the extent stay in the
// particle set (and keep rendering) but are skipped; the count of skipped
// bodies is returned. Any other insert failure aborts the rebuild.
func (s *Simulation) RebuildTree() (skipped int, err error) {
	s.tree.Clear()
	for i := range s.Bodies {
		if !s.tree.Contains(s.Bodies[i].Position) {
			skipped++
			continue
		}
		if err := s.tree.Insert(s.Bodies[i].Position); err != nil {
			return skipped, err
		}
	}
	return skipped, nil
}

// Instances packs the bodies into the per-instance attribute stream. The
// backing slice is reused across frames; the result is only valid until
// the next call.
func (s *Simulation) Instances() []render.ParticleInstance {
	s.instances = s.instances[:0]
	for i := range s.Bodies {
		b := &s.Bodies[i]
		s.instances = append(s.instances, render.ParticleInstance{
			Pos:    [2]float32{b.Position.X(), b.Position.Y()},
			Color:  b.Color,
			Radius: b.Radius,
		})
	}
	return s.instances
}
