package app

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/graviton/render"
	"github.com/gekko3d/graviton/sim"
)

var clearColor = wgpu.Color{R: 0.001, G: 0.001, B: 0.002, A: 1.0}

var quadtreeColor = [4]float32{0, 1, 0, 1}

const quadtreeLineWidth = 0.003

type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	Circles *render.CircleRenderPass
	Overlay *render.OverlayRenderPass
	Text    *render.TextRenderPass

	TextRenderer *render.TextRenderer
	TextItems    []render.TextItem

	Sim         *sim.Simulation
	overlayMesh render.LineMesh

	Log      Logger
	Profiler *Profiler

	DebugMode bool

	LastRenderTime float64
	FrameCount     int
	FPS            float64
	FPSTime        float64
}

func NewApp(window *glfw.Window, simulation *sim.Simulation, logger Logger) *App {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &App{
		Window:   window,
		Sim:      simulation,
		Log:      logger,
		Profiler: NewProfiler(),
	}
}

// Init brings up the GPU stack. Any failure here is fatal; the caller
// aborts startup.
func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)

	surface := a.Instance.CreateSurface(GetSurfaceDescriptor(a.Window))
	a.Surface = surface

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := surface.GetCapabilities(adapter)
	format := caps.Formats[0]

	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, a.Device, a.Config)

	a.Circles, err = render.NewCircleRenderPass(a.Device, format)
	if err != nil {
		return fmt.Errorf("circle pass: %w", err)
	}

	a.Overlay, err = render.NewOverlayRenderPass(a.Device, format)
	if err != nil {
		return fmt.Errorf("overlay pass: %w", err)
	}

	// Text HUD is best effort; the particle view works without it.
	a.TextRenderer, err = render.NewTextRenderer(32)
	if err != nil {
		a.Log.Warnf("text renderer unavailable: %v", err)
	} else {
		a.Text, err = render.NewTextRenderPass(a.Device, format, a.TextRenderer)
		if err != nil {
			a.Log.Warnf("text pass unavailable: %v", err)
			a.Text = nil
		}
	}

	a.Log.Infof("renderer up: surface %dx%d, format %v, %d bodies, run %s",
		width, height, format, len(a.Sim.Bodies), a.Sim.ID)
	return nil
}

func (a *App) Resize(w, h int) {
	if w > 0 && h > 0 {
		a.Config.Width = uint32(w)
		a.Config.Height = uint32(h)
		a.Surface.Configure(a.Adapter, a.Device, a.Config)
	}
}

func (a *App) ClearText() {
	a.TextItems = a.TextItems[:0]
}

func (a *App) DrawText(text string, x, y float32, scale float32, color [4]float32) {
	a.TextItems = append(a.TextItems, render.TextItem{
		Text:     text,
		Position: [2]float32{x, y},
		Scale:    scale,
		Color:    color,
	})
}

// Update rebuilds the spatial index and stages this frame's GPU uploads.
func (a *App) Update() {
	a.Profiler.BeginScope("tree")
	skipped, err := a.Sim.RebuildTree()
	if err != nil {
		a.Log.Errorf("quadtree rebuild failed: %v", err)
	}
	if skipped > 0 {
		a.Log.Debugf("quadtree: %d bodies outside extent", skipped)
	}
	a.Profiler.EndScope("tree")

	a.Profiler.BeginScope("instances")
	instances := a.Sim.Instances()
	if err := a.Circles.Update(a.Queue, instances); err != nil {
		a.Log.Errorf("instance upload failed, skipping particle draw: %v", err)
	}
	a.Profiler.SetCount("bodies", len(instances))
	a.Profiler.EndScope("instances")

	if a.DebugMode {
		a.Profiler.BeginScope("overlay")
		a.overlayMesh.Reset()
		a.Sim.Tree().Walk(func(center mgl32.Vec2, halfSize float32, depth int) {
			a.overlayMesh.PushRectOutline(center, halfSize, quadtreeLineWidth, quadtreeColor)
		})
		if err := a.Overlay.Update(a.Queue, &a.overlayMesh); err != nil {
			a.Log.Errorf("overlay upload failed, skipping overlay draw: %v", err)
		}
		a.Profiler.EndScope("overlay")

		a.DrawText(fmt.Sprintf("FPS: %.1f", a.FPS), 10, 10, 1.0, [4]float32{1, 1, 0, 1})
		a.DrawText(a.Profiler.GetStatsString(), 10, 50, 0.75, [4]float32{1, 1, 1, 1})
	}

	if a.Text != nil {
		var vertices []render.TextVertex
		if len(a.TextItems) > 0 {
			vertices = a.TextRenderer.BuildVertices(a.TextItems, int(a.Config.Width), int(a.Config.Height))
		}
		if err := a.Text.Update(a.Queue, vertices); err != nil {
			a.Log.Errorf("text upload failed, skipping text draw: %v", err)
		}
	}
	a.ClearText()
}

// Render draws one frame. Surface acquisition failures skip the frame and
// leave the previous image on screen.
func (a *App) Render() {
	a.Profiler.BeginScope("render")

	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Log.Errorf("GetCurrentTexture failed: %v", err)
		// Lost or outdated surfaces come back after a reconfigure
		a.Surface.Configure(a.Adapter, a.Device, a.Config)
		a.Profiler.EndScope("render")
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		a.Log.Errorf("CreateView failed: %v", err)
		a.Profiler.EndScope("render")
		return
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.Log.Errorf("CreateCommandEncoder failed: %v", err)
		a.Profiler.EndScope("render")
		return
	}

	rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clearColor,
		}},
	})

	a.Circles.Draw(rPass)
	if a.DebugMode {
		a.Overlay.Draw(rPass)
	}
	if a.Text != nil {
		a.Text.Draw(rPass)
	}

	err = rPass.End()
	if err != nil {
		a.Log.Errorf("render pass End failed: %v", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		a.Log.Errorf("encoder Finish failed: %v", err)
		a.Profiler.EndScope("render")
		return
	}
	a.Queue.Submit(cmd)
	a.Surface.Present()

	a.Profiler.EndScope("render")

	// FPS
	now := glfw.GetTime()
	if a.LastRenderTime > 0 {
		a.FrameCount++
		a.FPSTime += now - a.LastRenderTime
		if a.FPSTime >= 1.0 {
			a.FPS = float64(a.FrameCount) / a.FPSTime
			a.FrameCount = 0
			a.FPSTime = 0
		}
	}
	a.LastRenderTime = now
}

func GetSurfaceDescriptor(w *glfw.Window) *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w)
}
