package gui

import (
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/san-kum/cowsim/internal/config"
	"github.com/san-kum/cowsim/internal/dynamo"
	"github.com/san-kum/cowsim/internal/physics"
	"github.com/san-kum/cowsim/internal/sim"
	"github.com/san-kum/cowsim/internal/viz"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600
	comRadius     = 3
	trailRadius   = 1
)

var (
	colBackground = color.RGBA{10, 10, 10, 255}
	colMember     = colornames.Red
	colOther      = colornames.White
	colTrail      = colornames.Lime
	colAim        = colornames.Lightgrey
)

type Options struct {
	Width, Height int
	Template      Template
	// Scenario preloads bodies; nil starts with an empty world.
	Scenario *config.Config
	// Watcher, when set, replaces the world whenever the scenario file changes.
	Watcher    *config.Watcher
	SimOptions []sim.Option
	Logger     *slog.Logger
}

// reload is delivered from the watcher goroutine to the frame loop.
type reload struct {
	name string
	err  error
}

// Game is the ebiten placement demo. Bodies are placed and aimed with the
// mouse, Enter starts the simulation, which then advances by the measured
// wall-clock time of each frame.
type Game struct {
	locked  *sim.Locked
	editor  *Editor
	clock   *Clock
	camera  *viz.Camera
	width   int
	height  int
	name    string
	follow  bool
	paused  bool
	err     error
	notice  string
	reloads chan reload
	logger  *slog.Logger
}

// New builds the game without opening a window.
func New(opts Options) (*Game, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	scenario := opts.Scenario
	if scenario == nil {
		scenario = config.DefaultConfig()
		scenario.Name = "sandbox"
	}
	s, err := scenario.Build(opts.SimOptions...)
	if err != nil {
		return nil, err
	}

	// Zoom 1 with the focus at the window centre maps world onto window
	// pixels, so placement happens in screen coordinates.
	cam := viz.NewCamera(opts.Width, opts.Height, 1)
	cam.Follow(dynamo.V(float64(opts.Width)/2, float64(opts.Height)/2))

	locked := sim.NewLocked(s)
	g := &Game{
		locked:  locked,
		editor:  NewEditor(locked, opts.Template),
		clock:   NewClock(nil),
		camera:  cam,
		width:   opts.Width,
		height:  opts.Height,
		name:    scenario.Name,
		follow:  true,
		reloads: make(chan reload, 4),
		logger:  opts.Logger,
	}
	if opts.Watcher != nil {
		go g.watch(opts.Watcher, opts.SimOptions)
	}
	return g, nil
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) error {
	g, err := New(opts)
	if err != nil {
		return err
	}
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle("cowsim - " + g.name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}

func (g *Game) watch(w *config.Watcher, opts []sim.Option) {
	for {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return
			}
			cfg, err := config.Load(path)
			if err == nil {
				var s *sim.Simulator
				if s, err = cfg.Build(opts...); err == nil {
					g.locked.Swap(s)
					g.post(reload{name: cfg.Name})
					continue
				}
			}
			g.post(reload{err: err})
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			g.post(reload{err: err})
		}
	}
}

// post queues r without blocking, dropping the oldest pending reload when
// the frame loop has fallen behind or stopped.
func (g *Game) post(r reload) {
	for {
		select {
		case g.reloads <- r:
			return
		default:
		}
		select {
		case <-g.reloads:
		default:
		}
	}
}

func (g *Game) drainReloads() {
	for {
		select {
		case r := <-g.reloads:
			g.applyReload(r)
		default:
			return
		}
	}
}

func (g *Game) applyReload(r reload) {
	if r.err != nil {
		g.notice = "reload failed: " + r.err.Error()
		g.logger.Warn("scenario reload failed", "err", r.err)
		return
	}
	g.name = r.name
	g.err = nil
	g.editor.Reopen()
	g.clock.Reset()
	g.recentre()
	g.notice = "reloaded " + r.name
	g.logger.Info("scenario reloaded", "name", r.name)
}

// recentre restores the zero camera offset, where world and window
// coordinates coincide.
func (g *Game) recentre() {
	g.camera.Follow(dynamo.V(float64(g.width)/2, float64(g.height)/2))
}

func (g *Game) Update() error {
	g.drainReloads()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		g.start()
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		g.follow = !g.follow
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		g.editor.ToggleMember()
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.editor.ScaleMass(2)
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.editor.ScaleMass(0.5)
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		g.editor.ScaleRadius(1.25)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		g.editor.ScaleRadius(0.8)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.click(float64(x), float64(y))
	}

	g.advance(g.clock.Tick())
	return nil
}

func (g *Game) start() {
	if g.editor.Stage() == Running {
		return
	}
	g.editor.Start()
	g.clock.Reset()
	g.notice = ""
}

// click forwards a window click to the editor in world coordinates.
func (g *Game) click(x, y float64) {
	if err := g.editor.Click(g.camera.ToWorld(dynamo.V(x, y))); err != nil {
		g.notice = err.Error()
		g.logger.Debug("placement rejected", "err", err)
	}
}

// advance steps the world by dt seconds once running.
func (g *Game) advance(dt float64) {
	if g.editor.Stage() != Running || g.paused || g.err != nil {
		return
	}
	if err := g.locked.Step(dt); err != nil {
		g.err = err
		g.logger.Warn("simulation stopped", "err", err)
		return
	}
	if g.follow {
		var com dynamo.Vec2
		g.locked.Do(func(s *sim.Simulator) { com = s.CenterOfMass() })
		if dynamo.IsNaN(com) {
			g.recentre()
		} else {
			g.camera.Follow(com)
		}
	}
}

// scene is everything Draw needs, copied out under the lock.
type scene struct {
	bodies []physics.Snapshot
	trail  []dynamo.Vec2
	com    dynamo.Vec2
	t      float64
	energy float64
}

func (g *Game) snapshot() scene {
	var sc scene
	g.locked.Do(func(s *sim.Simulator) {
		sc = scene{
			bodies: s.Bodies(),
			trail:  s.Trail(),
			com:    s.CenterOfMass(),
			t:      s.Time(),
			energy: s.TotalEnergy(),
		}
	})
	return sc
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	sc := g.snapshot()

	for _, p := range sc.trail {
		q := g.camera.ToScreen(p)
		vector.FillCircle(screen, float32(q.X), float32(q.Y), trailRadius, colTrail, false)
	}
	for _, b := range sc.bodies {
		q := g.camera.ToScreen(b.Position)
		r := float32(math.Max(b.Radius*g.camera.Zoom, 1))
		col := colOther
		if b.Member {
			col = colMember
		}
		vector.FillCircle(screen, float32(q.X), float32(q.Y), r, col, true)
	}
	if !dynamo.IsNaN(sc.com) {
		q := g.camera.ToScreen(sc.com)
		vector.FillCircle(screen, float32(q.X), float32(q.Y), comRadius, colTrail, true)
	}

	if anchor, ok := g.editor.Anchor(); ok {
		a := g.camera.ToScreen(anchor)
		x, y := ebiten.CursorPosition()
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(x), float32(y), 1, colAim, true)
	}

	ebitenutil.DebugPrintAt(screen, g.hud(sc), 8, 8)
}

func (g *Game) hud(sc scene) string {
	lines := fmt.Sprintf("%s  [%s]  t=%.2f  bodies=%d  E=%.4g\nnext body: %s",
		g.name, g.status(), sc.t, len(sc.bodies), sc.energy, g.editor.Template())
	if g.editor.Stage() != Running {
		lines += "\nclick: place / aim   enter: start   tab: member   m/n: mass   +/-: radius"
	} else {
		lines += "\nspace: pause   f: follow centre of mass   q: quit"
	}
	if g.err != nil {
		lines += "\nunstable: " + g.err.Error()
	} else if g.notice != "" {
		lines += "\n" + g.notice
	}
	return lines
}

func (g *Game) status() string {
	switch {
	case g.err != nil:
		return "stopped"
	case g.editor.Stage() == Running && g.paused:
		return "paused"
	}
	return g.editor.Stage().String()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.camera.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
