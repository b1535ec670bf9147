package game

import (
	"image"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/iburimskiy/pulse/internal/pulse"
)

// Game hosts a pulse engine in an ebiten window. The engine draws onto a
// persistent canvas; Draw copies the canvas to the screen each frame.
type Game struct {
	engine *pulse.Engine
	canvas *Canvas
	frames pulse.FrameQueue
	loop   *pulse.Loop

	extent  int
	debug   bool
	started time.Time
}

func NewGame(e *pulse.Engine, debug bool) *Game {
	extent := int(math.Ceil(e.Extent()))
	g := &Game{
		engine:  e,
		canvas:  NewCanvas(extent),
		extent:  extent,
		debug:   debug,
		started: time.Now(),
	}
	g.loop = pulse.Start(e, g.canvas, &g.frames)
	return g
}

// Loop returns the frame loop so the host can hook pings or stop it.
func (g *Game) Loop() *pulse.Loop { return g.loop }

func (g *Game) Update() error {
	if g.loop.Stopped() {
		return ebiten.Termination
	}
	g.frames.Run()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.canvas.Image(), nil)

	if g.debug {
		c := g.engine.Cursor()
		line := statusLine(g.engine.Pings(), g.loop.Frames(), time.Since(g.started), image.Pt(int(c.X), int(c.Y)))
		ebitenutil.DebugPrintAt(screen, line, 4, 4)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.extent, g.extent
}
