package render

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/graviton/render/shaders"
)

// Number of in-flight instance buffers. Writes for frame N go to slot
// N % instanceRingLen, so the GPU can still be reading the previous
// frame's slot while the CPU fills the next one.
const instanceRingLen = 3

// Headroom added when an instance buffer grows, so a slowly growing
// stream does not reallocate every frame.
const instanceCapMargin = 256

type CircleRenderPass struct {
	Pipeline     *wgpu.RenderPipeline
	VertexBuffer *wgpu.Buffer
	IndexBuffer  *wgpu.Buffer
	IndexCount   uint32

	InstanceBuffers [instanceRingLen]*wgpu.Buffer
	InstanceCaps    [instanceRingLen]uint32
	InstanceCount   uint32
	ringIndex       int

	Device *wgpu.Device

	// Buffer allocation seam, stubbed in tests
	newBuffer func(*wgpu.BufferDescriptor) (*wgpu.Buffer, error)
}

func NewCircleRenderPass(device *wgpu.Device, format wgpu.TextureFormat) (*CircleRenderPass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "CircleShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.CircleWGSL},
	})
	if err != nil {
		return nil, err
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "CirclePipeline",
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				circleVertexLayout(),
				particleInstanceLayout(),
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
			CullMode:  wgpu.CullModeBack,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	p := &CircleRenderPass{
		Pipeline:   pipeline,
		IndexCount: uint32(len(QuadIndices)),
		Device:     device,
		newBuffer:  device.CreateBuffer,
	}

	// Static unit quad, shared by every instance.
	vSize := uint64(len(QuadVertices) * int(unsafe.Sizeof(CircleVertex{})))
	p.VertexBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "CircleQuadVertexBuffer",
		Size:  vSize,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	device.GetQueue().WriteBuffer(p.VertexBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&QuadVertices[0])), vSize))

	iSize := uint64(len(QuadIndices) * 2)
	p.IndexBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "CircleQuadIndexBuffer",
		Size:  iSize,
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	device.GetQueue().WriteBuffer(p.IndexBuffer, 0, wgpu.ToBytes(QuadIndices))

	// Seed every ring slot so Draw always has a buffer to bind, even for
	// an empty stream.
	for i := range p.InstanceBuffers {
		p.InstanceCaps[i] = instanceCapMargin
		p.InstanceBuffers[i], err = device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "CircleInstanceBuffer",
			Size:  uint64(p.InstanceCaps[i]) * uint64(unsafe.Sizeof(ParticleInstance{})),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Update advances the ring and uploads this frame's instance stream into
// the new slot, growing it if the stream no longer fits. An allocation
// failure keeps the old buffer, forces a zero-instance draw for this
// frame and reports the error; the next frame retries.
func (p *CircleRenderPass) Update(queue *wgpu.Queue, instances []ParticleInstance) error {
	p.ringIndex = (p.ringIndex + 1) % instanceRingLen
	p.InstanceCount = uint32(len(instances))
	if len(instances) == 0 {
		return nil
	}

	slot := p.ringIndex
	if p.InstanceCaps[slot] < p.InstanceCount {
		newCap := p.InstanceCount + instanceCapMargin
		buf, err := p.newBuffer(&wgpu.BufferDescriptor{
			Label: "CircleInstanceBuffer",
			Size:  uint64(newCap) * uint64(unsafe.Sizeof(ParticleInstance{})),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			p.InstanceCount = 0
			return fmt.Errorf("grow instance buffer to %d: %w", newCap, err)
		}
		if p.InstanceBuffers[slot] != nil {
			p.InstanceBuffers[slot].Release()
		}
		p.InstanceBuffers[slot] = buf
		p.InstanceCaps[slot] = newCap
	}

	sizeBytes := uint64(len(instances) * int(unsafe.Sizeof(ParticleInstance{})))
	queue.WriteBuffer(p.InstanceBuffers[slot], 0, unsafe.Slice((*byte)(unsafe.Pointer(&instances[0])), sizeBytes))
	return nil
}

// Draw issues the single instanced draw for the frame. A zero instance
// count still records the draw; it produces no fragments.
func (p *CircleRenderPass) Draw(pass *wgpu.RenderPassEncoder) {
	pass.SetPipeline(p.Pipeline)
	pass.SetVertexBuffer(0, p.VertexBuffer, 0, p.VertexBuffer.GetSize())
	pass.SetVertexBuffer(1, p.InstanceBuffers[p.ringIndex], 0, p.InstanceBuffers[p.ringIndex].GetSize())
	pass.SetIndexBuffer(p.IndexBuffer, wgpu.IndexFormatUint16, 0, p.IndexBuffer.GetSize())
	pass.DrawIndexed(p.IndexCount, p.InstanceCount, 0, 0, 0)
}
