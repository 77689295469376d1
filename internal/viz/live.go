package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/cowsim/internal/config"
	"github.com/san-kum/cowsim/internal/dynamo"
	"github.com/san-kum/cowsim/internal/physics"
	"github.com/san-kum/cowsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	frameRate       = 60
	maxSubsteps     = 50
)

type TickMsg time.Time

// ReloadMsg carries a simulator rebuilt from an edited scenario file.
type ReloadMsg struct {
	Name string
	Sim  *sim.Simulator
	Dt   float64
}

// ReloadErrMsg reports a scenario file that failed to load.
type ReloadErrMsg struct{ Err error }

// frame is one recorded view for replay.
type frame struct {
	bodies []physics.Snapshot
	trail  []dynamo.Vec2
	com    dynamo.Vec2
	t      float64
	energy float64
}

// Model is the bubbletea model of the live terminal viewer.
type Model struct {
	sim       *sim.Simulator
	name      string
	dt        float64
	substeps  int
	canvas    *Canvas
	camera    *Camera
	theme     Theme
	styles    styles
	running   bool
	showHelp  bool
	history   []frame
	playHead  int
	energy    []float64
	kinetic   []float64
	err       error
	notice    string
	watcher   *config.Watcher
	simOpts   []sim.Option
	recording bool
	gifFrames []*image.Paletted
}

// NewModel wraps a populated simulator. dt is the simulated time per step;
// enough steps are taken per frame to keep roughly real time.
func NewModel(s *sim.Simulator, name string, dt float64) Model {
	canvas := NewCanvas(width, height)
	pw, ph := canvas.PixelSize()
	m := Model{
		sim:      s,
		name:     name,
		dt:       dt,
		substeps: substepsFor(dt),
		canvas:   canvas,
		camera:   NewCamera(pw, ph, 1),
		theme:    ThemeNight,
		styles:   newStyles(ThemeNight),
		running:  true,
		history:  make([]frame, 0, historyCapacity),
		playHead: -1,
		energy:   make([]float64, 0, historyCapacity),
		kinetic:  make([]float64, 0, historyCapacity),
	}
	m.fit()
	return m
}

func substepsFor(dt float64) int {
	n := int(math.Round(1 / (frameRate * dt)))
	return min(max(n, 1), maxSubsteps)
}

// WithWatcher reloads the scenario whenever w reports a change. opts are
// applied to every rebuilt simulator.
func (m Model) WithWatcher(w *config.Watcher, opts ...sim.Option) Model {
	m.watcher = w
	m.simOpts = opts
	return m
}

// WithTheme selects the initial colour scheme.
func (m Model) WithTheme(name string) Model {
	m.theme = GetTheme(name)
	m.styles = newStyles(m.theme)
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	if cmd := m.watch(); cmd != nil {
		return tea.Batch(tick(), cmd)
	}
	return tick()
}

// WatchCmd waits for the next scenario change and rebuilds the simulator.
func WatchCmd(w *config.Watcher, opts ...sim.Option) tea.Cmd {
	return func() tea.Msg {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			cfg, err := config.Load(path)
			if err != nil {
				return ReloadErrMsg{Err: err}
			}
			s, err := cfg.Build(opts...)
			if err != nil {
				return ReloadErrMsg{Err: err}
			}
			return ReloadMsg{Name: cfg.Name, Sim: s, Dt: cfg.Dt}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return ReloadErrMsg{Err: err}
		}
	}
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case ".":
			if !m.running {
				m.step(1)
			}
		case "r":
			m.reset()
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "+", "=":
			m.camera.ZoomBy(1.25)
		case "-", "_":
			m.camera.ZoomBy(0.8)
		case "f":
			m.fit()
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "s":
			m.notice = m.saveSVG()
		case "g":
			if m.recording {
				m.notice = m.saveGIF()
				m.recording = false
				m.gifFrames = nil
			} else {
				m.recording = true
				m.gifFrames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step(m.substeps)
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	case ReloadMsg:
		m.sim = msg.Sim
		m.name = msg.Name
		m.dt = msg.Dt
		m.substeps = substepsFor(msg.Dt)
		m.clearHistory()
		m.err = nil
		m.running = true
		m.notice = "reloaded " + msg.Name
		m.fit()
		return m, m.watch()
	case ReloadErrMsg:
		m.notice = "reload failed: " + msg.Err.Error()
		return m, m.watch()
	}
	return m, nil
}

func (m Model) watch() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return WatchCmd(m.watcher, m.simOpts...)
}

// step advances the simulation n times and records a frame. A non-finite
// state stops the viewer.
func (m *Model) step(n int) {
	if m.err != nil {
		return
	}
	for i := 0; i < n; i++ {
		if err := m.sim.Step(m.dt); err != nil {
			m.err = err
			m.running = false
			break
		}
	}

	energy := m.sim.TotalEnergy()
	if isFinite(energy) {
		m.energy = appendCapped(m.energy, energy)
	}
	if ke := m.sim.KineticEnergy(); isFinite(ke) {
		m.kinetic = appendCapped(m.kinetic, ke)
	}

	m.history = append(m.history, frame{
		bodies: m.sim.Bodies(),
		trail:  m.sim.Trail(),
		com:    m.sim.CenterOfMass(),
		t:      m.sim.Time(),
		energy: energy,
	})
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

func (m *Model) reset() {
	m.sim.Reset()
	m.clearHistory()
	m.err = nil
	m.fit()
}

func (m *Model) clearHistory() {
	m.history = m.history[:0]
	m.energy = m.energy[:0]
	m.kinetic = m.kinetic[:0]
	m.playHead = -1
}

// fit zooms so the current bodies fill the canvas.
func (m *Model) fit() {
	m.camera.Follow(m.sim.CenterOfMass())
	bodies := m.sim.Bodies()
	positions := make([]dynamo.Vec2, len(bodies))
	for i, b := range bodies {
		positions[i] = b.Position
	}
	m.camera.FitZoom(positions)
}

func (m *Model) current() frame {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return frame{
		bodies: m.sim.Bodies(),
		trail:  m.sim.Trail(),
		com:    m.sim.CenterOfMass(),
		t:      m.sim.Time(),
		energy: m.sim.TotalEnergy(),
	}
}

// draw renders the current or replayed frame: the centre-of-mass trail,
// members as filled discs and other bodies as outlines.
func (m *Model) draw() {
	f := m.current()
	m.canvas.Clear()
	m.camera.Follow(f.com)

	for i := 1; i < len(f.trail); i++ {
		x0, y0 := m.camera.Project(f.trail[i-1])
		x1, y1 := m.camera.Project(f.trail[i])
		m.canvas.DrawLine(x0, y0, x1, y1)
	}

	for _, b := range f.bodies {
		x, y := m.camera.Project(b.Position)
		r := max(m.camera.ProjectRadius(b.Radius), 1)
		if b.Member {
			m.canvas.FillCircle(x, y, r)
		} else {
			m.canvas.DrawCircle(x, y, r)
		}
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	f := m.current()
	st := m.styles

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(st.status.Render(m.status()) + "\n")
	if m.err != nil {
		s.WriteString(st.warn.Render("unstable: "+m.err.Error()) + "\n")
	}
	if m.notice != "" {
		s.WriteString(st.value.Render(m.notice) + "\n")
	}
	s.WriteString("\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", f.t))
	row("Bodies", fmt.Sprintf("%d", len(f.bodies)))
	row("Energy", fmt.Sprintf("%.2f", f.energy))
	row("Kinetic", Sparkline(m.kinetic, 20))
	row("Momentum", fmt.Sprintf("%.3f", dynamo.Norm(m.sim.Momentum())))
	if dynamo.IsNaN(f.com) {
		row("COM", "undefined")
	} else {
		row("COM", fmt.Sprintf("(%.1f, %.1f)", f.com.X, f.com.Y))
	}
	row("Collisions", fmt.Sprintf("%d", m.sim.Stats().Collisions.Resolved))
	row("Zoom", fmt.Sprintf("%.3g", m.camera.Zoom))
	row("Substeps", fmt.Sprintf("%d x %.4gs", m.substeps, m.dt))

	s.WriteString("\n" + st.member.Render("● member") + "  " + st.other.Render("○ other") + "\n")
	s.WriteString(st.help.Render("─────────────────────\nSP:Pause R:Reset Q:Quit\nT:Theme  G:Record ?:Help\n[ ]:Replay  +/-:Zoom"))

	canvasView := st.canvas.Render(m.canvas.String())
	statsView := st.stats.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  .        - Single step when paused  ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  + / -    - Zoom in / out            ║
║  F        - Fit bodies to view       ║
║  [ / ]    - Replay backward/forward  ║
║  S        - Save SVG snapshot        ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

func (m Model) status() string {
	switch {
	case m.playHead != -1 && len(m.history) > 0:
		back := m.history[m.playHead].t - m.history[len(m.history)-1].t
		if m.running {
			return fmt.Sprintf("REPLAYING (%.1fs)", back)
		}
		return fmt.Sprintf("REPLAY PAUSED (%.1fs)", back)
	case m.recording:
		return "RECORDING"
	case !m.running:
		return "PAUSED"
	default:
		return "RUNNING"
	}
}

func (m *Model) saveSVG() string {
	name := fmt.Sprintf("cowsim_%d.svg", time.Now().Unix())
	svg := m.canvas.SVG(4, string(m.theme.Trail), m.theme.SVGBack)
	if err := os.WriteFile(name, []byte(svg), 0644); err != nil {
		return "svg: " + err.Error()
	}
	return "saved " + name
}

func (m *Model) captureFrame() {
	const dot = 4
	pw, ph := m.canvas.PixelSize()
	img := image.NewPaletted(image.Rect(0, 0, pw*dot, ph*dot), color.Palette{color.Black, color.White})
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !m.canvas.IsSet(x, y) {
				continue
			}
			for py := 0; py < dot; py++ {
				for px := 0; px < dot; px++ {
					img.SetColorIndex(x*dot+px, y*dot+py, 1)
				}
			}
		}
	}
	m.gifFrames = append(m.gifFrames, img)
}

func (m *Model) saveGIF() string {
	if len(m.gifFrames) == 0 {
		return "nothing recorded"
	}
	anim := gif.GIF{LoopCount: 0}
	for _, f := range m.gifFrames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, 2)
	}
	name := fmt.Sprintf("cowsim_%d.gif", time.Now().Unix())
	f, err := os.Create(name)
	if err != nil {
		return "gif: " + err.Error()
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return "gif: " + err.Error()
	}
	return "saved " + name
}
