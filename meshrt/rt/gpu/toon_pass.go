package gpu

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/scrollscene/meshrt/rt/core"
	"github.com/gekko3d/scrollscene/meshrt/rt/shaders"
)

const DepthFormat = wgpu.TextureFormatDepth24Plus

type gpuMesh struct {
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   uint32
}

func (m *gpuMesh) release() {
	m.vertexBuffer.Release()
	m.indexBuffer.Release()
}

// ToonPass draws lit meshes with a banded gradient lookup, one instanced
// draw per mesh.
type ToonPass struct {
	Pipeline        *wgpu.RenderPipeline
	BindGroupLayout *wgpu.BindGroupLayout
	BindGroup       *wgpu.BindGroup
	Sampler         *wgpu.Sampler
	GradientTexture *wgpu.Texture
	GradientView    *wgpu.TextureView
	InstanceBuffer  *wgpu.Buffer
	InstanceCap     uint32
	Device          *wgpu.Device

	meshes map[string]*gpuMesh
	order  []string
	counts map[string]uint32
}

func NewToonPass(device *wgpu.Device, format wgpu.TextureFormat) (*ToonPass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "ToonShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.ToonWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shaderModule.Release()

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "ToonBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(unsafe.Sizeof(core.Globals{})),
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "ToonPipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, err
	}
	defer pipelineLayout.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "ToonPipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(core.Vertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
					},
				},
				{
					ArrayStride: uint64(unsafe.Sizeof(core.MeshInstance{})),
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 2},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 3},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 4},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 5},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 64, ShaderLocation: 6},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{Format: format, WriteMask: wgpu.ColorWriteMaskAll},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: depthState(true),
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "GradientSampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, err
	}

	return &ToonPass{
		Pipeline:        pipeline,
		BindGroupLayout: bgl,
		Sampler:         sampler,
		Device:          device,
		meshes:          make(map[string]*gpuMesh),
		counts:          make(map[string]uint32),
	}, nil
}

func depthState(write bool) *wgpu.DepthStencilState {
	return &wgpu.DepthStencilState{
		Format:            DepthFormat,
		DepthWriteEnabled: write,
		DepthCompare:      wgpu.CompareFunctionLess,
		StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilReadMask:   0xFFFFFFFF,
		StencilWriteMask:  0xFFFFFFFF,
	}
}

func (p *ToonPass) HasMesh(key string) bool {
	_, ok := p.meshes[key]
	return ok
}

func (p *ToonPass) UploadMesh(key string, data core.MeshData) error {
	if len(data.Vertices) == 0 || len(data.Indices) == 0 {
		return fmt.Errorf("mesh %s is empty", key)
	}

	vb, err := p.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "MeshVertexBuffer",
		Contents: wgpu.ToBytes(data.Vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return err
	}
	ib, err := p.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "MeshIndexBuffer",
		Contents: wgpu.ToBytes(data.Indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		vb.Release()
		return err
	}

	if old, ok := p.meshes[key]; ok {
		old.release()
	}
	p.meshes[key] = &gpuMesh{vertexBuffer: vb, indexBuffer: ib, indexCount: uint32(len(data.Indices))}
	return nil
}

// SetGradient uploads the toon lookup strip and rebuilds the bind group
// around the shared globals buffer.
func (p *ToonPass) SetGradient(queue *wgpu.Queue, texels []uint8, width uint32, globals *wgpu.Buffer) error {
	if width == 0 || len(texels) < int(width)*4 {
		return fmt.Errorf("gradient needs %d RGBA texels, got %d bytes", width, len(texels))
	}

	extent := wgpu.Extent3D{Width: width, Height: 1, DepthOrArrayLayers: 1}
	texture, err := p.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "GradientTexture",
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return err
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return err
	}

	err = queue.WriteTexture(
		texture.AsImageCopy(),
		texels[:width*4],
		&wgpu.TextureDataLayout{Offset: 0, BytesPerRow: width * 4, RowsPerImage: 1},
		&extent,
	)
	if err != nil {
		view.Release()
		texture.Release()
		return err
	}

	bindGroup, err := p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "ToonBG",
		Layout: p.BindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: globals, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: view},
			{Binding: 2, Sampler: p.Sampler},
		},
	})
	if err != nil {
		view.Release()
		texture.Release()
		return err
	}

	p.releaseGradient()
	p.GradientTexture, p.GradientView, p.BindGroup = texture, view, bindGroup
	return nil
}

// Update uploads this frame's instances, grouped by mesh.
func (p *ToonPass) Update(queue *wgpu.Queue, draws []core.MeshDraw) error {
	order, byMesh := core.SortDraws(draws)

	p.order = p.order[:0]
	clear(p.counts)
	var all []core.MeshInstance
	for _, key := range order {
		if !p.HasMesh(key) {
			continue
		}
		p.order = append(p.order, key)
		p.counts[key] = uint32(len(byMesh[key]))
		all = append(all, byMesh[key]...)
	}
	if len(all) == 0 {
		return nil
	}

	count := uint32(len(all))
	if p.InstanceBuffer == nil || p.InstanceCap < count {
		if p.InstanceBuffer != nil {
			p.InstanceBuffer.Release()
		}
		p.InstanceCap = count + 16
		buf, err := p.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "MeshInstanceBuffer",
			Size:  uint64(p.InstanceCap) * uint64(unsafe.Sizeof(core.MeshInstance{})),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			p.InstanceBuffer = nil
			return err
		}
		p.InstanceBuffer = buf
	}

	return queue.WriteBuffer(p.InstanceBuffer, 0, wgpu.ToBytes(all))
}

func (p *ToonPass) Draw(pass *wgpu.RenderPassEncoder) {
	if p.InstanceBuffer == nil || p.BindGroup == nil || len(p.order) == 0 {
		return
	}

	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.SetVertexBuffer(1, p.InstanceBuffer, 0, p.InstanceBuffer.GetSize())

	var firstInstance uint32
	for _, key := range p.order {
		m := p.meshes[key]
		count := p.counts[key]
		pass.SetVertexBuffer(0, m.vertexBuffer, 0, m.vertexBuffer.GetSize())
		pass.SetIndexBuffer(m.indexBuffer, wgpu.IndexFormatUint16, 0, m.indexBuffer.GetSize())
		pass.DrawIndexed(m.indexCount, count, 0, 0, firstInstance)
		firstInstance += count
	}
}

func (p *ToonPass) releaseGradient() {
	if p.BindGroup != nil {
		p.BindGroup.Release()
		p.BindGroup = nil
	}
	if p.GradientView != nil {
		p.GradientView.Release()
		p.GradientView = nil
	}
	if p.GradientTexture != nil {
		p.GradientTexture.Release()
		p.GradientTexture = nil
	}
}

func (p *ToonPass) Release() {
	p.releaseGradient()
	for key, m := range p.meshes {
		m.release()
		delete(p.meshes, key)
	}
	if p.InstanceBuffer != nil {
		p.InstanceBuffer.Release()
		p.InstanceBuffer = nil
	}
	p.Sampler.Release()
	p.BindGroupLayout.Release()
	p.Pipeline.Release()
}
