package main

import (
	"flag"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/graviton/app"
	"github.com/gekko3d/graviton/sim"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	debug := flag.Bool("debug", false, "Enable debug mode (quadtree overlay and HUD)")
	bodies := flag.Int("bodies", 1000, "Number of particles to spawn")
	seed := flag.Int64("seed", 0, "Particle cloud seed (0 picks one from the clock)")
	extent := flag.Float64("extent", 2.0, "Half side length of the indexed region")
	flag.Parse()

	logger := app.NewDefaultLogger("graviton", *debug)

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(1280, 720, "Graviton", nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	cfg := sim.DefaultCloudConfig()
	cfg.Count = *bodies
	cfg.Seed = *seed
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	simulation := sim.New(sim.NewCloud(cfg), float32(*extent))

	application := app.NewApp(window, simulation, logger)
	application.DebugMode = *debug
	if err := application.Init(); err != nil {
		logger.Errorf("startup failed: %v", err)
		panic(err)
	}

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
		if key == glfw.KeyF1 && action == glfw.Press {
			application.DebugMode = !application.DebugMode
			logger.SetDebug(application.DebugMode)
		}
	})

	for !window.ShouldClose() {
		glfw.PollEvents()
		application.Update()
		application.Render()
	}
}
