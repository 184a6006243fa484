package render

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/graviton/render/shaders"
)

// TextRenderPass owns the glyph atlas texture and the pipeline that blits
// baked text vertices over the frame.
type TextRenderPass struct {
	Pipeline     *wgpu.RenderPipeline
	AtlasView    *wgpu.TextureView
	Sampler      *wgpu.Sampler
	BindGroup    *wgpu.BindGroup
	VertexBuffer *wgpu.Buffer
	VertexCount  uint32

	Device *wgpu.Device

	// Buffer allocation seam, stubbed in tests
	newBuffer func(*wgpu.BufferDescriptor) (*wgpu.Buffer, error)
}

func NewTextRenderPass(device *wgpu.Device, format wgpu.TextureFormat, tr *TextRenderer) (*TextRenderPass, error) {
	p := &TextRenderPass{Device: device, newBuffer: device.CreateBuffer}

	w, h := tr.AtlasImage.Bounds().Dx(), tr.AtlasImage.Bounds().Dy()
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "TextAtlas",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}
	device.GetQueue().WriteTexture(tex.AsImageCopy(), tr.AtlasImage.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(w),
		RowsPerImage: uint32(h),
	}, &wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1})

	p.AtlasView, err = tex.CreateView(nil)
	if err != nil {
		return nil, err
	}

	p.Sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, err
	}

	textMod, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "TextShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.TextWGSL},
	})
	if err != nil {
		return nil, err
	}

	p.Pipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "TextPipeline",
		Vertex: wgpu.VertexState{
			Module:     textMod,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof(TextVertex{})),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     textMod,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: format,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOne,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	p.BindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: p.Pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: p.AtlasView},
			{Binding: 1, Sampler: p.Sampler},
		},
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Update uploads the baked vertices for this frame. An allocation failure
// keeps any old buffer, leaves the draw disabled for this frame and
// reports the error; the next frame retries.
func (p *TextRenderPass) Update(queue *wgpu.Queue, vertices []TextVertex) error {
	p.VertexCount = 0
	if len(vertices) == 0 {
		return nil
	}

	vSize := uint64(len(vertices) * int(unsafe.Sizeof(TextVertex{})))
	if p.VertexBuffer == nil || p.VertexBuffer.GetSize() < vSize {
		buf, err := p.newBuffer(&wgpu.BufferDescriptor{
			Label: "TextVertexBuffer",
			Size:  vSize,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("grow text vertex buffer: %w", err)
		}
		if p.VertexBuffer != nil {
			p.VertexBuffer.Release()
		}
		p.VertexBuffer = buf
	}
	queue.WriteBuffer(p.VertexBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), vSize))

	p.VertexCount = uint32(len(vertices))
	return nil
}

func (p *TextRenderPass) Draw(pass *wgpu.RenderPassEncoder) {
	if p.VertexCount == 0 || p.VertexBuffer == nil {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.SetVertexBuffer(0, p.VertexBuffer, 0, p.VertexBuffer.GetSize())
	pass.Draw(p.VertexCount, 1, 0, 0)
}
