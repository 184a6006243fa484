package render

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

func TestOverlayUpdateEmptyMeshDisablesDraw(t *testing.T) {
	p := &OverlayRenderPass{}
	var m LineMesh
	if err := p.Update(nil, &m); err != nil {
		t.Fatalf("empty mesh: %v", err)
	}
	if p.IndexCount != 0 {
		t.Errorf("index count = %d, want 0", p.IndexCount)
	}
}

func TestOverlayUpdateSurfacesAllocationFailure(t *testing.T) {
	p := &OverlayRenderPass{}
	p.newBuffer = func(*wgpu.BufferDescriptor) (*wgpu.Buffer, error) {
		return nil, errors.New("out of device memory")
	}

	var m LineMesh
	m.PushLine(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, 0.1, [4]float32{0, 1, 0, 1})

	err := p.Update(nil, &m)
	if err == nil {
		t.Fatal("allocation failure not reported")
	}
	if p.IndexCount != 0 {
		t.Errorf("index count = %d after failed upload, want 0 (draw skipped)", p.IndexCount)
	}
	if p.VertexBuffer != nil || p.IndexBuffer != nil {
		t.Error("buffers set after failed allocation")
	}
}
