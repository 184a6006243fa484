package render

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// CircleVertex matches the WGSL VertexInput
type CircleVertex struct {
	Pos [2]float32
}

// ParticleInstance matches the WGSL instance attributes. Field order and
// sizes are the wire contract with the vertex stage; do not reorder.
type ParticleInstance struct {
	Pos    [2]float32
	Color  [4]float32
	Radius float32
}

// One shared unit quad spanning [-0.5, 0.5], expanded per instance
// by the vertex stage.
var QuadVertices = []CircleVertex{
	{Pos: [2]float32{-0.5, 0.5}},
	{Pos: [2]float32{-0.5, -0.5}},
	{Pos: [2]float32{0.5, -0.5}},
	{Pos: [2]float32{0.5, 0.5}},
}

// Two counter-clockwise triangles covering the quad.
var QuadIndices = []uint16{0, 1, 3, 1, 2, 3}

func circleVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(CircleVertex{})),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{
				Format:         wgpu.VertexFormatFloat32x2,
				Offset:         0,
				ShaderLocation: 0,
			},
		},
	}
}

func particleInstanceLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(ParticleInstance{})),
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{
				Format:         wgpu.VertexFormatFloat32x2,
				Offset:         0,
				ShaderLocation: 1,
			},
			{
				Format:         wgpu.VertexFormatFloat32x4,
				Offset:         8,
				ShaderLocation: 2,
			},
			{
				Format:         wgpu.VertexFormatFloat32,
				Offset:         24,
				ShaderLocation: 3,
			},
		},
	}
}
