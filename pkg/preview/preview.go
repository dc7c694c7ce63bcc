package preview

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/obj2three/pkg/geometry"
	"github.com/taigrr/obj2three/pkg/math3d"
	"github.com/taigrr/obj2three/pkg/models"
)

// spinAxis tracks position and velocity for one rotation axis with
// spring-smoothed velocity decay.
type spinAxis struct {
	Position float64
	Velocity float64

	spring harmonica.Spring
	accel  float64
}

func newSpinAxis(fps int) spinAxis {
	return spinAxis{
		// Frequency 4.0, damping 1.0: critically damped, no overshoot.
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward rest.
func (a *spinAxis) Update(rest float64) {
	a.Position += a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, rest)
}

// edges returns the deduplicated edge list of the mesh, each edge as an
// ordered vertex index pair.
func edges(mesh *models.Mesh) [][2]int {
	seen := map[[2]int]struct{}{}
	var out [][2]int
	for _, f := range mesh.Faces {
		n := len(f.V)
		for i := range n {
			a, b := f.V[i], f.V[(i+1)%n]
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	return out
}

// fitVertices returns a copy of the vertices centered on the origin and
// scaled so the largest dimension spans two units, which fills the
// default camera's view.
func fitVertices(vertices []math3d.Vec3) []math3d.Vec3 {
	box := geometry.BoundingBox(vertices)
	center := box.Center()
	size := box.Size()

	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	scale := 1.0
	if maxDim > 0 {
		scale = 2.0 / maxDim
	}

	out := make([]math3d.Vec3, len(vertices))
	for i, v := range vertices {
		out[i] = v.Sub(center).Scale(scale)
	}
	return out
}

// Run shows the mesh as a spinning wireframe until the user quits with
// Esc, q or Ctrl+C. Space adds a random spin impulse, the mouse wheel
// and +/- zoom, r resets the view.
func Run(mesh *models.Mesh, fps int) error {
	if fps <= 0 {
		fps = 30
	}

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	fb := NewFramebuffer(width, height*2)
	camera := NewCamera()
	camera.AspectRatio = float64(width) / float64(height*2) * 2 // cells are twice as tall as wide

	vertices := fitVertices(mesh.Vertices)
	wires := edges(mesh)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// The turntable spins at a steady rate; impulses decay back to it.
	const baseSpin = 0.02
	yaw := newSpinAxis(fps)
	yaw.Velocity = baseSpin
	pitch := newSpinAxis(fps)

	cameraZ := 5.0

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				fb = NewFramebuffer(width, height*2)
				camera.AspectRatio = float64(width) / float64(height*2) * 2

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("q"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("space"):
					yaw.Velocity += (rand.Float64() - 0.5) * 1.5
					pitch.Velocity += (rand.Float64() - 0.5) * 1.5
				case ev.MatchString("r"):
					yaw = newSpinAxis(fps)
					yaw.Velocity = baseSpin
					pitch = newSpinAxis(fps)
					cameraZ = 5.0
				case ev.MatchString("+", "="):
					cameraZ = math.Max(1, cameraZ-0.5)
				case ev.MatchString("-", "_"):
					cameraZ = math.Min(20, cameraZ+0.5)
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					cameraZ = math.Max(1, cameraZ-0.5)
				case uv.MouseWheelDown:
					cameraZ = math.Min(20, cameraZ+0.5)
				}
			}
		}
	}()

	frame := time.Second / time.Duration(fps)
	wireColor := RGB(0, 255, 128)
	bg := RGB(20, 20, 28)

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		start := time.Now()

		yaw.Update(baseSpin)
		pitch.Update(0)
		camera.Position = math3d.V3(0, 0, cameraZ)

		transform := math3d.RotateX(pitch.Position).Mul(math3d.RotateY(yaw.Position))

		fb.Clear(bg)
		for _, e := range wires {
			p1 := transform.MulVec3(vertices[e[0]])
			p2 := transform.MulVec3(vertices[e[1]])

			x1, y1, vis1 := camera.WorldToScreen(p1, fb.Width, fb.Height)
			x2, y2, vis2 := camera.WorldToScreen(p2, fb.Width, fb.Height)
			if !vis1 && !vis2 {
				continue
			}
			fb.DrawLine(int(x1), int(y1), int(x2), int(y2), wireColor)
		}

		fmt.Print(fb.Render())

		if elapsed := time.Since(start); elapsed < frame {
			time.Sleep(frame - elapsed)
		}
	}
}
