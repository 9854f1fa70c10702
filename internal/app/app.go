// Package app implements the interactive rigging tool loop.
package app

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/thenamesdyl/animation-poc/internal/config"
	"github.com/thenamesdyl/animation-poc/internal/engine/camera"
	"github.com/thenamesdyl/animation-poc/internal/engine/capture"
	"github.com/thenamesdyl/animation-poc/internal/engine/input"
	"github.com/thenamesdyl/animation-poc/internal/engine/projection"
	"github.com/thenamesdyl/animation-poc/internal/engine/renderer"
	"github.com/thenamesdyl/animation-poc/internal/engine/window"
	"github.com/thenamesdyl/animation-poc/internal/groups"
	"github.com/thenamesdyl/animation-poc/internal/logger"
	"github.com/thenamesdyl/animation-poc/internal/mesh"
	"github.com/thenamesdyl/animation-poc/internal/rig"
	"github.com/thenamesdyl/animation-poc/internal/sampling"
	"github.com/thenamesdyl/animation-poc/internal/selection"
	"github.com/thenamesdyl/animation-poc/internal/suggest"
	"github.com/thenamesdyl/animation-poc/pkg/math"
)

var (
	selectionColor = [3]float32{0.2, 0.9, 0.3}
	lassoColor     = [3]float32{0.95, 0.85, 0.2}
	jointColor     = [3]float32{1.0, 0.5, 0.1}
	boneColor      = [3]float32{0.9, 0.9, 0.95}
)

// App is the main application instance.
type App struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera

	model   *mesh.Mesh
	lasso   *selection.Lasso
	groups  *groups.Store
	rig     *rig.Generator
	capture *capture.Capture

	// Current selection, updated by the lasso observer
	selected []int

	// Rigging output cached once generation completes
	result *rig.Result

	// Tool and pointer state
	lassoActive bool
	rotating    bool
	lastMouseX  int
	lastMouseY  int

	// Smoothed camera zoom
	zoomSpring harmonica.Spring
	zoomTarget float64
	zoomVel    float64

	// Outcome of the in-flight generation, nil when idle
	genCh chan error

	stdin *bufio.Reader
}

// New creates the application and loads the model at modelPath.
func New(cfg *config.Config, modelPath string) (*App, error) {
	logger.Info("initializing app",
		zap.String("model", modelPath),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	a := &App{
		cfg:   cfg,
		stdin: bufio.NewReader(os.Stdin),
	}

	// Create window (this also creates OpenGL context)
	var err error
	a.window, err = window.New(window.Config{
		Title:      "Rig Tool",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist).
	// The renderer works in drawable pixels, which differ from the
	// configured window size on high-DPI displays.
	dw, dh := a.window.GetDrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:  dw,
		Height: dh,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.input = input.New()

	a.model, err = mesh.LoadGLTF(modelPath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	if err := a.renderer.UploadMesh(a.model); err != nil {
		a.Close()
		return nil, err
	}

	a.camera = camera.NewOrbitCamera()
	a.camera.FitToBounds(a.model.Bounds.Min, a.model.Bounds.Max)
	a.zoomSpring = harmonica.NewSpring(harmonica.FPS(60), 8.0, 1.0)
	a.zoomTarget = float64(a.camera.Distance)

	a.groups = groups.NewStore(a.model)
	a.capture = capture.New("screenshots", "rigtool")

	client := suggest.NewClient(cfg.Service.URL, cfg.Service.RequestTimeout)
	sampler := sampling.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	a.rig = rig.New(client, sampler, cfg.Sampling.Ratio, cfg.Sampling.MaxPoints)

	a.lasso = selection.NewLasso(a.model, a.projector, func(indices []int) {
		a.selected = indices
	})

	logger.Info("app initialized",
		zap.String("model", a.model.Name),
		zap.Int("vertices", a.model.VertexCount()),
	)
	return a, nil
}

// projector builds a screen-space projector for the current camera and
// window size. The lasso queries it lazily so orbiting between strokes
// is picked up.
func (a *App) projector() *projection.Projector {
	w, h := a.window.GetSize()
	aspect := float32(w) / float32(h)
	return projection.New(a.camera.ViewProjection(aspect), projection.Viewport{
		Width:  float32(w),
		Height: float32(h),
	})
}

// Run starts the main loop.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()

	fmt.Println("controls: L lasso tool, G assign group, R generate rig, C cancel, S screenshot, ESC quit")
	logger.Info("starting main loop")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}

		for _, event := range a.input.Events() {
			a.handleEvent(event)
		}

		// 2. Update state
		a.update(dt)

		// 3. Render
		a.render()

		// 4. Present
		a.window.SwapBuffers()
	}

	return nil
}

// Close cleans up application resources.
func (a *App) Close() {
	logger.Info("closing app")

	if a.lasso != nil {
		a.lasso.Dispose()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

func (a *App) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		a.renderer.Resize(a.window.GetDrawableSize())

	case input.EventKeyDown:
		a.handleKey(event.Key)

	case input.EventMouseDown:
		if a.lassoActive && event.IsPrimaryButton() {
			a.lasso.Handle(selection.PointerEvent{
				Kind:    selection.PointerDown,
				X:       float32(event.MouseX),
				Y:       float32(event.MouseY),
				Primary: true,
			})
		} else if event.Button == sdl.BUTTON_RIGHT || !a.lassoActive {
			a.rotating = true
			a.lastMouseX = event.MouseX
			a.lastMouseY = event.MouseY
		}

	case input.EventMouseMove:
		if a.lassoActive && a.lasso.Dragging() {
			a.lasso.Handle(selection.PointerEvent{
				Kind:    selection.PointerMove,
				X:       float32(event.MouseX),
				Y:       float32(event.MouseY),
				Primary: true,
			})
		} else if a.rotating {
			dx := float32(event.MouseX - a.lastMouseX)
			dy := float32(event.MouseY - a.lastMouseY)
			a.camera.HandleDrag(dx, dy)
			a.lastMouseX = event.MouseX
			a.lastMouseY = event.MouseY
		}

	case input.EventMouseUp:
		if a.lassoActive && event.IsPrimaryButton() && a.lasso.Dragging() {
			a.lasso.Handle(selection.PointerEvent{
				Kind:    selection.PointerUp,
				X:       float32(event.MouseX),
				Y:       float32(event.MouseY),
				Primary: true,
			})
		}
		a.rotating = false

	case input.EventMouseWheel:
		a.zoomTarget = float64(a.camera.ZoomStep(float32(a.zoomTarget), float32(event.WheelY)))
	}
}

func (a *App) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		a.running = false

	case sdl.SCANCODE_L:
		a.lassoActive = !a.lassoActive
		fmt.Printf("lasso tool: %v\n", a.lassoActive)

	case sdl.SCANCODE_G:
		a.assignGroup()

	case sdl.SCANCODE_R:
		a.generateRig()

	case sdl.SCANCODE_C:
		if a.genCh == nil {
			a.rig.Cancel()
			fmt.Printf("rig state: %s\n", a.rig.Phase())
		}

	case sdl.SCANCODE_S:
		pixels, w, h := a.renderer.ReadPixels()
		name, err := a.capture.SavePixels(pixels, w, h)
		if err != nil {
			logger.Error("screenshot failed", zap.Error(err))
			return
		}
		fmt.Printf("saved %s\n", name)
	}
}

// assignGroup prompts for a group name on the terminal and records the
// current selection under it.
func (a *App) assignGroup() {
	if len(a.selected) == 0 {
		fmt.Println("nothing selected; draw a lasso first (L)")
		return
	}

	name, err := a.readLine("group name: ")
	if err != nil || name == "" {
		return
	}

	clean, err := a.groups.Assign(name, a.selected)
	if err != nil {
		fmt.Printf("cannot assign group: %v\n", err)
		return
	}
	fmt.Printf("group %q now has %d vertices (%d groups total)\n",
		clean, len(a.groups.Members(clean)), a.groups.Len())
}

// generateRig prepares the current groups, prompts for a description,
// and runs the generation on a background goroutine.
func (a *App) generateRig() {
	if a.genCh != nil {
		logger.Warn("generation already in flight")
		return
	}

	if err := a.rig.Prepare(a.model, a.groups); err != nil {
		fmt.Printf("cannot generate: %v\n", err)
		return
	}

	prompt, err := a.readLine("describe the rig: ")
	if err != nil || prompt == "" {
		a.rig.Cancel()
		return
	}

	fmt.Println("generating...")
	a.genCh = make(chan error, 1)
	go func() {
		_, err := a.rig.Generate(context.Background(), prompt)
		a.genCh <- err
	}()
}

func (a *App) readLine(promptText string) (string, error) {
	fmt.Print(promptText)
	line, err := a.stdin.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *App) update(dt float64) {
	_ = dt

	// Ease the camera toward the target zoom distance
	pos, vel := a.zoomSpring.Update(float64(a.camera.Distance), a.zoomVel, a.zoomTarget)
	a.camera.Distance = float32(pos)
	a.zoomVel = vel

	// Collect the outcome of a finished generation
	if a.genCh != nil {
		select {
		case err := <-a.genCh:
			a.genCh = nil
			if err != nil {
				fmt.Printf("generation failed: %v\n", err)
			} else {
				a.result = a.rig.Result()
				fmt.Printf("rig generated: %d bones\n", a.result.Skeleton.BoneCount())
			}
		default:
		}
	}
}

func (a *App) render() {
	a.renderer.Begin()

	w, h := a.window.GetSize()
	aspect := float32(w) / float32(h)
	viewProj := a.camera.ViewProjection(aspect)

	a.renderer.DrawMesh(viewProj, a.model.WorldMatrix())

	if len(a.selected) > 0 {
		points := make([]math.Vec3, 0, len(a.selected))
		for _, idx := range a.selected {
			points = append(points, a.model.WorldPosition(idx))
		}
		a.renderer.DrawPoints(viewProj, points, selectionColor, 6)
	}

	if a.lasso.Dragging() {
		a.renderer.DrawLassoPath(a.lasso.Path(), lassoColor)
	}

	if a.result != nil {
		joints := a.result.Skeleton.WorldPositions()
		a.renderer.DrawPoints(viewProj, joints, jointColor, 10)

		// Bone lines from the root to each child
		lines := make([]math.Vec3, 0, (len(joints)-1)*2)
		for i := 1; i < len(joints); i++ {
			lines = append(lines, joints[0], joints[i])
		}
		a.renderer.DrawLines(viewProj, lines, boneColor)
	}

	a.renderer.End()
}
