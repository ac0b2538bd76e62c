// package viewer presents the particle cloud in a native window. It owns
// the GLFW window and a single WebGPU point-list pipeline; per frame it
// uploads the point buffer when it changed and redraws with the current
// presentation orientation.
package viewer

import (
	_ "embed"
	"fmt"
	"runtime"
	"sync"

	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/Carmen-Shannon/nimbus-go/common"
)

//go:embed points.wgsl
var pointsShaderSource string

// Default window parameters, overridable via the With* builder options.
const (
	DefaultTitle  = "nimbus"
	DefaultWidth  = 1280
	DefaultHeight = 800
)

// Fixed camera placement. The cloud is centered on the origin and spans
// roughly two units, so the eye sits back far enough to frame it with the
// default field of view.
const (
	cameraDistance = 4.2
	cameraFovY     = 45.0 * math32.Pi / 180.0
	cameraNear     = 0.1
	cameraFar      = 100.0
)

// viewer is the implementation of the Viewer interface.
type viewer struct {
	mu *sync.Mutex

	title         string
	width         int
	height        int
	pointCapacity int
	vsync         bool

	window    *glfw.Window
	onKeyDown func(key uint32)

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat        wgpu.TextureFormat
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	pipeline      *wgpu.RenderPipeline
	vertexBuffer  *wgpu.Buffer
	uniformBuffer *wgpu.Buffer
	bindGroup     *wgpu.BindGroup

	// pendingResize carries framebuffer dimensions from the GLFW callback
	// to the next Render call, where the surface is reconfigured.
	pendingResize bool

	// scratch matrices reused every frame to keep Render allocation-free.
	model, view, proj, vp, mvp [16]float32
}

// Viewer is the native presentation surface for the particle cloud. All
// methods must be called from the main OS thread (GLFW requirement); the
// constructor locks the calling goroutine to it.
type Viewer interface {
	// Render draws one frame. The point buffer is re-uploaded to the GPU
	// only when changed is true; the orientation uniform is uploaded every
	// frame since the presentation rotation never stops.
	//
	// Parameters:
	//   - positions: the flat point buffer, 3 scalars per point (must not
	//     exceed the configured point capacity)
	//   - changed: true if positions differ from the previous frame
	//   - yaw: rotation around the Y axis in radians
	//   - pitch: rotation around the X axis in radians
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	Render(positions []float32, changed bool, yaw, pitch float32) error

	// ProcessEvents polls pending window events without blocking.
	//
	// Returns:
	//   - bool: true if the window is still open
	ProcessEvents() bool

	// SetKeyDownCallback registers a handler invoked on key press and
	// repeat. Escape always closes the window and is not forwarded.
	//
	// Parameters:
	//   - cb: the callback receiving the GLFW key code
	SetKeyDownCallback(cb func(key uint32))

	// Release destroys the window and all GPU resources. The viewer must
	// not be used afterwards.
	Release()
}

var _ Viewer = &viewer{}

// NewViewer creates the window and the WebGPU device, pipeline, and
// buffers for point rendering. The calling goroutine is locked to the OS
// thread and must be the one that later calls Render and ProcessEvents.
//
// Parameters:
//   - pointCapacity: the maximum number of points a frame may carry
//   - options: functional options to configure the viewer
//
// Returns:
//   - Viewer: the configured viewer
//   - error: an error if window or GPU initialization failed
func NewViewer(pointCapacity int, options ...ViewerBuilderOption) (Viewer, error) {
	if pointCapacity <= 0 {
		return nil, fmt.Errorf("viewer: point capacity must be > 0, got %d", pointCapacity)
	}

	runtime.LockOSThread()

	v := &viewer{
		mu:            &sync.Mutex{},
		title:         DefaultTitle,
		width:         DefaultWidth,
		height:        DefaultHeight,
		pointCapacity: pointCapacity,
		vsync:         true,
	}
	for _, opt := range options {
		opt(v)
	}

	if err := v.initWindow(); err != nil {
		return nil, err
	}
	if err := v.initGPU(); err != nil {
		v.window.Destroy()
		glfw.Terminate()
		return nil, err
	}
	return v, nil
}

func (v *viewer) initWindow() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("viewer: failed to initialize GLFW: %v", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(v.width, v.height, v.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("viewer: failed to create GLFW window: %v", err)
	}
	v.window = win

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			win.SetShouldClose(true)
			return
		}
		if (action == glfw.Press || action == glfw.Repeat) && v.onKeyDown != nil {
			v.onKeyDown(uint32(key))
		}
	})

	// Framebuffer size callback for pixel-accurate resize events; on
	// high-DPI displays the framebuffer size differs from the window size.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.width = width
		v.height = height
		v.pendingResize = true
	})

	fbWidth, fbHeight := win.GetFramebufferSize()
	v.width = fbWidth
	v.height = fbHeight
	return nil
}

func (v *viewer) initGPU() error {
	v.instance = wgpu.CreateInstance(nil)
	v.surface = v.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(v.window))

	adapter, err := v.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: v.surface,
	})
	if err != nil {
		return fmt.Errorf("viewer: failed to request adapter: %w", err)
	}
	v.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Viewer Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return fmt.Errorf("viewer: failed to request device: %w", err)
	}
	v.device = device
	v.queue = device.GetQueue()

	v.configureSurface()

	if err := v.initBuffers(); err != nil {
		return err
	}
	return v.initPipeline()
}

// configureSurface (re)configures the swapchain and depth texture for the
// current framebuffer size and rebuilds the cached render pass descriptor.
func (v *viewer) configureSurface() {
	capabilities := v.surface.GetCapabilities(v.adapter)
	v.surfaceFormat = capabilities.Formats[0]

	presentMode := wgpu.PresentModeImmediate
	if v.vsync {
		presentMode = wgpu.PresentModeFifo
	}

	v.surface.Configure(v.adapter, v.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      v.surfaceFormat,
		Width:       uint32(v.width),
		Height:      uint32(v.height),
		PresentMode: presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	depthTexture, err := v.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(v.width),
			Height:             uint32(v.height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	v.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	v.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    nil, // set per-frame to the swapchain view
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: 0.04, G: 0.05, B: 0.08, A: 1.0,
				},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            v.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (v *viewer) initBuffers() error {
	vertexBuffer, err := v.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Point Vertex Buffer",
		Size:  uint64(v.pointCapacity) * 3 * 4,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("viewer: failed to create vertex buffer: %w", err)
	}
	v.vertexBuffer = vertexBuffer

	uniformBuffer, err := v.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Camera Uniform Buffer",
		Size:  64, // one mat4x4<f32>
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("viewer: failed to create uniform buffer: %w", err)
	}
	v.uniformBuffer = uniformBuffer
	return nil
}

func (v *viewer) initPipeline() error {
	shaderModule, err := v.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Point Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: pointsShaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("viewer: failed to create shader module: %w", err)
	}

	bindGroupLayout, err := v.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeUniform,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("viewer: failed to create bind group layout: %w", err)
	}

	pipelineLayout, err := v.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Point Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindGroupLayout},
	})
	if err != nil {
		return fmt.Errorf("viewer: failed to create pipeline layout: %w", err)
	}

	pipeline, err := v.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Point Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: 3 * 4,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{
							Format:         wgpu.VertexFormatFloat32x3,
							Offset:         0,
							ShaderLocation: 0,
						},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    v.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyPointList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("viewer: failed to create render pipeline: %w", err)
	}
	v.pipeline = pipeline

	bindGroup, err := v.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Camera Bind Group",
		Layout: bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  v.uniformBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("viewer: failed to create bind group: %w", err)
	}
	v.bindGroup = bindGroup
	return nil
}

func (v *viewer) Render(positions []float32, changed bool, yaw, pitch float32) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.pendingResize {
		v.configureSurface()
		v.pendingResize = false
	}

	pointCount := len(positions) / 3
	if pointCount > v.pointCapacity {
		return fmt.Errorf("viewer: %d points exceeds capacity %d", pointCount, v.pointCapacity)
	}

	if changed {
		v.queue.WriteBuffer(v.vertexBuffer, 0, common.SliceToBytes(positions))
	}

	v.writeCamera(yaw, pitch)

	surfaceTexture, err := v.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("viewer: failed to acquire swapchain texture: %w", err)
	}
	surfaceView, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("viewer: failed to create swapchain view: %w", err)
	}

	encoder, err := v.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("viewer: failed to create command encoder: %w", err)
	}

	v.renderPassDescriptor.ColorAttachments[0].View = surfaceView
	pass := encoder.BeginRenderPass(v.renderPassDescriptor)
	pass.SetPipeline(v.pipeline)
	pass.SetBindGroup(0, v.bindGroup, nil)
	pass.SetVertexBuffer(0, v.vertexBuffer, 0, wgpu.WholeSize)
	pass.Draw(uint32(pointCount), 1, 0, 0)
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("viewer: failed to finish command encoder: %w", err)
	}
	v.queue.Submit(commandBuffer)
	v.surface.Present()

	commandBuffer.Release()
	encoder.Release()
	surfaceView.Release()
	surfaceTexture.Release()
	return nil
}

// writeCamera composes projection * view * orientation and uploads it.
// Caller must hold v.mu.
func (v *viewer) writeCamera(yaw, pitch float32) {
	aspect := float32(v.width) / float32(v.height)
	common.Perspective(v.proj[:], cameraFovY, aspect, cameraNear, cameraFar)
	common.LookAt(v.view[:], 0, 0, cameraDistance, 0, 0, 0, 0, 1, 0)
	common.OrientationMatrix(v.model[:], yaw, pitch)

	common.Mul4(v.vp[:], v.proj[:], v.view[:])
	common.Mul4(v.mvp[:], v.vp[:], v.model[:])

	v.queue.WriteBuffer(v.uniformBuffer, 0, common.SliceToBytes(v.mvp[:]))
}

func (v *viewer) ProcessEvents() bool {
	glfw.PollEvents()
	return !v.window.ShouldClose()
}

func (v *viewer) SetKeyDownCallback(cb func(key uint32)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onKeyDown = cb
}

func (v *viewer) Release() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.bindGroup != nil {
		v.bindGroup.Release()
	}
	if v.pipeline != nil {
		v.pipeline.Release()
	}
	if v.uniformBuffer != nil {
		v.uniformBuffer.Release()
	}
	if v.vertexBuffer != nil {
		v.vertexBuffer.Release()
	}
	if v.depthTextureView != nil {
		v.depthTextureView.Release()
	}
	if v.device != nil {
		v.device.Release()
	}
	if v.surface != nil {
		v.surface.Release()
	}
	if v.instance != nil {
		v.instance.Release()
	}
	if v.window != nil {
		v.window.Destroy()
	}
	glfw.Terminate()
}
