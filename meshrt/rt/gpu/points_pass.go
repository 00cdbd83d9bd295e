package gpu

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/scrollscene/meshrt/rt/core"
	"github.com/gekko3d/scrollscene/meshrt/rt/shaders"
)

// PointsPass draws a point cloud with per-point colors. Positions are
// uploaded once; colors whenever the cloud is marked dirty.
type PointsPass struct {
	Pipeline       *wgpu.RenderPipeline
	BindGroup      *wgpu.BindGroup
	PositionBuffer *wgpu.Buffer
	ColorBuffer    *wgpu.Buffer
	Count          uint32
	Device         *wgpu.Device
}

func NewPointsPass(device *wgpu.Device, format wgpu.TextureFormat, globals *wgpu.Buffer) (*PointsPass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "PointsShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.PointsWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shaderModule.Release()

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "PointsBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(unsafe.Sizeof(core.Globals{})),
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	defer bgl.Release()

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "PointsPipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, err
	}
	defer pipelineLayout.Release()

	vec3Stride := uint64(unsafe.Sizeof([3]float32{}))
	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "PointsPipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: vec3Stride,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					},
				},
				{
					ArrayStride: vec3Stride,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 1},
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
			Topology:  wgpu.PrimitiveTopologyPointList,
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

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "PointsBG",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: globals, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		pipeline.Release()
		return nil, err
	}

	return &PointsPass{Pipeline: pipeline, BindGroup: bindGroup, Device: device}, nil
}

func (p *PointsPass) Update(queue *wgpu.Queue, cloud *core.PointCloud) error {
	if cloud == nil || len(cloud.Positions) == 0 {
		p.Count = 0
		return nil
	}

	count := uint32(len(cloud.Positions))
	if p.PositionBuffer == nil || p.Count != count {
		p.releaseBuffers()

		positions, err := p.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    "PointPositionBuffer",
			Contents: wgpu.ToBytes(cloud.Positions),
			Usage:    wgpu.BufferUsageVertex,
		})
		if err != nil {
			return err
		}
		colors, err := p.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "PointColorBuffer",
			Size:  uint64(count) * uint64(unsafe.Sizeof([3]float32{})),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			positions.Release()
			return err
		}
		p.PositionBuffer, p.ColorBuffer, p.Count = positions, colors, count
		cloud.ColorsDirty = true
	}

	if !cloud.ColorsDirty {
		return nil
	}
	cloud.ColorsDirty = false
	return queue.WriteBuffer(p.ColorBuffer, 0, wgpu.ToBytes(cloud.Colors[:count]))
}

func (p *PointsPass) Draw(pass *wgpu.RenderPassEncoder) {
	if p.Count == 0 || p.PositionBuffer == nil {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.SetVertexBuffer(0, p.PositionBuffer, 0, p.PositionBuffer.GetSize())
	pass.SetVertexBuffer(1, p.ColorBuffer, 0, p.ColorBuffer.GetSize())
	pass.Draw(p.Count, 1, 0, 0)
}

func (p *PointsPass) releaseBuffers() {
	if p.PositionBuffer != nil {
		p.PositionBuffer.Release()
		p.PositionBuffer = nil
	}
	if p.ColorBuffer != nil {
		p.ColorBuffer.Release()
		p.ColorBuffer = nil
	}
}

func (p *PointsPass) Release() {
	p.releaseBuffers()
	p.BindGroup.Release()
	p.Pipeline.Release()
}
