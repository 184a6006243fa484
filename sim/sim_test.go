package sim

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewCloudIsDeterministic(t *testing.T) {
	cfg := DefaultCloudConfig()
	cfg.Count = 100
	cfg.Seed = 42

	a := NewCloud(cfg)
	b := NewCloud(cfg)

	if len(a) != 100 {
		t.Fatalf("cloud size = %d, want 100", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("body %d differs between identically seeded clouds", i)
		}
	}
}

func TestNewCloudAppliesConfig(t *testing.T) {
	cfg := CloudConfig{
		Count:  10,
		StdDev: 0.5,
		Radius: 0.005,
		Color:  [4]float32{1, 0.5, 0.25, 1},
		Seed:   7,
	}
	for _, b := range NewCloud(cfg) {
		if b.Radius != 0.005 {
			t.Errorf("radius = %v, want 0.005", b.Radius)
		}
		if b.Color != cfg.Color {
			t.Errorf("color = %v, want %v", b.Color, cfg.Color)
		}
	}
}

func TestInstancesPackBodies(t *testing.T) {
	bodies := []Body{
		{Position: mgl32.Vec2{0.1, -0.2}, Radius: 0.01, Color: [4]float32{1, 0, 0, 1}},
		{Position: mgl32.Vec2{-0.3, 0.4}, Radius: 0.02, Color: [4]float32{0, 1, 0, 0.5}},
	}
	s := New(bodies, 2)

	instances := s.Instances()
	if len(instances) != 2 {
		t.Fatalf("instance count = %d, want 2", len(instances))
	}
	for i, b := range bodies {
		inst := instances[i]
		if inst.Pos != [2]float32{b.Position.X(), b.Position.Y()} {
			t.Errorf("instance %d pos = %v, want %v", i, inst.Pos, b.Position)
		}
		if inst.Color != b.Color {
			t.Errorf("instance %d color = %v, want %v", i, inst.Color, b.Color)
		}
		if inst.Radius != b.Radius {
			t.Errorf("instance %d radius = %v, want %v", i, inst.Radius, b.Radius)
		}
	}
}

func TestInstancesEmptySimulation(t *testing.T) {
	s := New(nil, 2)
	if got := s.Instances(); len(got) != 0 {
		t.Errorf("instance count = %d, want 0", len(got))
	}
}

func TestInstancesReuseBacking(t *testing.T) {
	s := New(NewCloud(CloudConfig{Count: 50, StdDev: 0.5, Radius: 0.005, Color: [4]float32{1, 1, 1, 1}, Seed: 1}), 2)

	first := s.Instances()
	second := s.Instances()
	if &first[0] != &second[0] {
		t.Error("instance slice reallocated between identical frames")
	}
}

func TestRebuildTreeSkipsOutOfExtent(t *testing.T) {
	bodies := []Body{
		{Position: mgl32.Vec2{0.5, 0.5}, Radius: 0.01, Color: [4]float32{1, 1, 1, 1}},
		{Position: mgl32.Vec2{5, 5}, Radius: 0.01, Color: [4]float32{1, 1, 1, 1}},
	}
	s := New(bodies, 2)

	skipped, err := s.RebuildTree()
	if err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if s.Tree().Len() != 1 {
		t.Errorf("tree holds %d points, want 1", s.Tree().Len())
	}
	// The out-of-extent body still renders
	if len(s.Instances()) != 2 {
		t.Error("out-of-extent body dropped from the instance stream")
	}
}

func TestRebuildTreeTwiceIsStable(t *testing.T) {
	s := New(NewCloud(CloudConfig{Count: 200, StdDev: 0.3, Radius: 0.005, Color: [4]float32{1, 1, 1, 1}, Seed: 3}), 2)

	if _, err := s.RebuildTree(); err != nil {
		t.Fatalf("first rebuild: %v", err)
	}
	n := s.Tree().Len()
	if _, err := s.RebuildTree(); err != nil {
		t.Fatalf("second rebuild: %v", err)
	}
	if s.Tree().Len() != n {
		t.Errorf("tree size changed across rebuilds: %d vs %d", n, s.Tree().Len())
	}
}
