package render

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/graviton/render/shaders"
)

// OverlayRenderPass draws per-frame debug line geometry on top of the
// particle pass. Buffers grow to fit the largest mesh seen so far and are
// rewritten every frame.
type OverlayRenderPass struct {
	Pipeline *wgpu.RenderPipeline

	VertexBuffer *wgpu.Buffer
	IndexBuffer  *wgpu.Buffer
	IndexCount   uint32

	Device *wgpu.Device

	// Buffer allocation seam, stubbed in tests
	newBuffer func(*wgpu.BufferDescriptor) (*wgpu.Buffer, error)
}

func NewOverlayRenderPass(device *wgpu.Device, format wgpu.TextureFormat) (*OverlayRenderPass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "OverlayShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.OverlayWGSL},
	})
	if err != nil {
		return nil, err
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "OverlayPipeline",
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(OverlayVertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 8, ShaderLocation: 1},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	return &OverlayRenderPass{
		Pipeline:  pipeline,
		Device:    device,
		newBuffer: device.CreateBuffer,
	}, nil
}

// Update uploads the mesh for this frame. An allocation failure keeps any
// old buffers, leaves the draw disabled for this frame and reports the
// error; the next frame retries.
func (p *OverlayRenderPass) Update(queue *wgpu.Queue, mesh *LineMesh) error {
	p.IndexCount = 0
	if len(mesh.Indices) == 0 {
		return nil
	}

	vSize := uint64(len(mesh.Vertices) * int(unsafe.Sizeof(OverlayVertex{})))
	if p.VertexBuffer == nil || p.VertexBuffer.GetSize() < vSize {
		buf, err := p.newBuffer(&wgpu.BufferDescriptor{
			Label: "OverlayVertexBuffer",
			Size:  vSize,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("grow overlay vertex buffer: %w", err)
		}
		if p.VertexBuffer != nil {
			p.VertexBuffer.Release()
		}
		p.VertexBuffer = buf
	}
	queue.WriteBuffer(p.VertexBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&mesh.Vertices[0])), vSize))

	iSize := uint64(len(mesh.Indices) * 4)
	if p.IndexBuffer == nil || p.IndexBuffer.GetSize() < iSize {
		buf, err := p.newBuffer(&wgpu.BufferDescriptor{
			Label: "OverlayIndexBuffer",
			Size:  iSize,
			Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("grow overlay index buffer: %w", err)
		}
		if p.IndexBuffer != nil {
			p.IndexBuffer.Release()
		}
		p.IndexBuffer = buf
	}
	queue.WriteBuffer(p.IndexBuffer, 0, wgpu.ToBytes(mesh.Indices))

	p.IndexCount = uint32(len(mesh.Indices))
	return nil
}

func (p *OverlayRenderPass) Draw(pass *wgpu.RenderPassEncoder) {
	if p.IndexCount == 0 || p.VertexBuffer == nil {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetVertexBuffer(0, p.VertexBuffer, 0, p.VertexBuffer.GetSize())
	pass.SetIndexBuffer(p.IndexBuffer, wgpu.IndexFormatUint32, 0, p.IndexBuffer.GetSize())
	pass.DrawIndexed(p.IndexCount, 1, 0, 0, 0)
}
