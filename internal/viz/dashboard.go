package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-logr/logr"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/bearingsim/internal/bearing"
	"github.com/san-kum/bearingsim/internal/dynamo"
	"github.com/san-kum/bearingsim/internal/physics"
	"github.com/san-kum/bearingsim/internal/rig"
	"github.com/san-kum/bearingsim/internal/storage"
)

const (
	canvasWidth     = 40
	canvasHeight    = 14
	gaugeWidth      = 20
	historyCapacity = 300
	frameInterval   = time.Second / 60
	spinPerTick     = 0.1
	fieldLines      = 8
)

// gainStep is the increment applied per key press to each tunable gain.
var gainStep = map[string]float64{"kp": 50, "ki": 1, "kd": 5}

var gainKeys = []string{"kp", "ki", "kd"}

type TickMsg time.Time

// Options configures a dashboard session.
type Options struct {
	// ExportPath receives a CSV record every ExportEvery ticks. Empty
	// disables export.
	ExportPath    string
	ExportEvery   int
	TicksPerFrame int
	Theme         string
	Log           logr.Logger
}

// Model is the bubbletea model driving a rig interactively. All rig access
// happens inside Update.
type Model struct {
	rig      *rig.Rig
	tunable  dynamo.Configurable
	recorder *storage.Recorder
	log      logr.Logger

	canvas        *Canvas
	theme         int
	running       bool
	selected      int
	ticksPerFrame int
	angle         float64
	last          dynamo.Sample
	displacement  []float64
	temperature   []float64
	status        string
}

func NewModel(r *rig.Rig, opts Options) Model {
	m := Model{
		rig:           r,
		log:           opts.Log,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		running:       true,
		ticksPerFrame: opts.TicksPerFrame,
		last:          r.Engine().Snapshot(),
		displacement:  make([]float64, 0, historyCapacity),
		temperature:   make([]float64, 0, historyCapacity),
	}
	if m.ticksPerFrame < 1 {
		m.ticksPerFrame = 1
	}
	for i, name := range ThemeNames() {
		if name == opts.Theme {
			m.theme = i
		}
	}
	if c, ok := r.Controller().(dynamo.Configurable); ok {
		if _, hasKp := c.GetParams()["kp"]; hasKp {
			m.tunable = c
		}
	}
	if opts.ExportPath != "" {
		every := opts.ExportEvery
		if every <= 0 {
			every = int(math.Round(1.0 / dynamo.Dt))
		}
		m.recorder = storage.NewRecorder(storage.NewExporter(opts.ExportPath), every, opts.Log)
		r.AddObserver(m.recorder)
	}
	return m
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			if !m.running {
				m.advance(1)
			}
		case "r":
			m.reset()
		case "tab":
			m.selected = (m.selected + 1) % len(gainKeys)
		case "up", "k":
			m.adjustGain(1)
		case "down", "j":
			m.adjustGain(-1)
		case "b":
			m.cycleBearing()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		}
	case TickMsg:
		if m.running {
			m.advance(m.ticksPerFrame)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance(n int) {
	for i := 0; i < n; i++ {
		m.last = m.rig.Tick()
		m.angle += spinPerTick
		m.displacement = appendCapped(m.displacement, m.last.Displacement*1000)
		m.temperature = appendCapped(m.temperature, m.last.Temperature)
	}
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// reset restarts the physics only; controller state and gains carry over.
func (m *Model) reset() {
	m.rig.ResetPhysics()
	m.last = m.rig.Engine().Snapshot()
	m.angle = 0
	m.displacement = m.displacement[:0]
	m.temperature = m.temperature[:0]
	if m.recorder != nil {
		m.recorder.Reset()
	}
	m.status = "physics reset"
}

func (m *Model) adjustGain(dir float64) {
	if m.tunable == nil {
		m.status = "controller has no tunable gains"
		return
	}
	key := gainKeys[m.selected]
	val := m.tunable.GetParams()[key] + dir*gainStep[key]
	if err := m.tunable.SetParam(key, val); err != nil {
		m.log.Error(err, "gain update rejected", "gain", key)
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("%s = %.0f", key, m.tunable.GetParams()[key])
}

func (m *Model) cycleBearing() {
	model := m.rig.Model()
	next := bearing.Types[0]
	for i, t := range bearing.Types {
		if t == model.Type() {
			next = bearing.Types[(i+1)%len(bearing.Types)]
		}
	}
	model.SetType(next)
	m.status = "bearing: " + next.String()
	m.log.V(1).Info("bearing type changed", "type", next.String())
}

func (m *Model) draw() {
	c := m.canvas
	c.Clear()
	cx, cy := c.PixelWidth()/2, c.PixelHeight()/2
	ring := float64(cy - 7)

	c.DrawCircle(cx, cy, int(ring))

	// Displacement is exaggerated so the full clearance spans a third of the ring.
	offset := int(math.Round(m.last.Displacement / physics.MaxDisplacement * ring / 3))
	rotor := int(ring / 3)
	c.DrawCircle(cx+offset, cy, rotor)
	for i := 0; i < 4; i++ {
		c.Spoke(cx+offset, cy, 0, float64(rotor), m.angle+float64(i)*math.Pi/2)
	}

	if m.last.MagneticField > 0 {
		for i := 0; i < fieldLines; i++ {
			theta := float64(i)*2*math.Pi/fieldLines + m.angle
			c.Spoke(cx, cy, ring+2, ring+6, theta)
		}
	}
}

func (m Model) View() string {
	th := Themes[m.theme]
	s := m.last
	model := m.rig.Model()

	m.draw()
	title := lipgloss.NewStyle().Bold(true).Foreground(th.Title)
	state := "RUNNING"
	if !m.running {
		state = "PAUSED"
	}

	var left strings.Builder
	left.WriteString(title.Render(fmt.Sprintf("%s BEARING", strings.ToUpper(model.Type().String()))))
	left.WriteString(fmt.Sprintf("  %s  t=%.2fs\n", state, s.Time))
	left.WriteString(lipgloss.NewStyle().Foreground(th.Rotor).Render(m.canvas.String()))
	left.WriteString(fmt.Sprintf("displacement %+.3f mm   velocity %+.3f m/s\n", s.Displacement*1000, s.Velocity))
	if len(m.displacement) > 1 {
		left.WriteString(asciigraph.Plot(m.displacement,
			asciigraph.Height(5), asciigraph.Width(canvasWidth), asciigraph.Caption("displacement (mm)")))
	}

	var right strings.Builder
	right.WriteString(title.Render("TELEMETRY") + "\n")
	right.WriteString(Gauge("Friction", fmt.Sprintf("%.2f N", s.Friction), s.Friction/physics.MaxFriction, gaugeWidth, th.Friction) + "\n")
	right.WriteString(Gauge("Energy loss", fmt.Sprintf("%.2f J", s.EnergyLoss), s.EnergyLoss/10000, gaugeWidth, th.Energy) + "\n")
	right.WriteString(Gauge("Temperature", fmt.Sprintf("%.2f °C", s.Temperature),
		(s.Temperature-physics.AmbientTemp)/(physics.MaxTemperature-physics.AmbientTemp), gaugeWidth, th.Temperature) + "\n")
	right.WriteString(Gauge("Field", fmt.Sprintf("%.4f T", s.MagneticField), s.MagneticField/physics.CoilFieldStrength(), gaugeWidth, th.Field) + "\n")
	right.WriteString(Gauge("Stress", fmt.Sprintf("%.2f MPa", s.Stress/1e6), s.Stress/physics.MaxStress, gaugeWidth, th.Stress) + "\n")
	right.WriteString(Gauge("Control", fmt.Sprintf("%+.1f N", s.ControlForce), math.Abs(s.ControlForce)/physics.MaxForce, gaugeWidth, th.Rotor) + "\n")
	right.WriteString(labelStyle.Render("Temp trend") + " " + Sparkline(m.temperature, gaugeWidth, th.Temperature) + "\n\n")

	right.WriteString(title.Render("CONFIGURATION") + "\n")
	right.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%.0f rpm", model.SpindleSpeed())) + "\n")
	right.WriteString(labelStyle.Render("Load") + valueStyle.Render(fmt.Sprintf("%.0f N", model.Load())) + "\n")
	right.WriteString(labelStyle.Render("Modulus") + valueStyle.Render(fmt.Sprintf("%.0f GPa", model.YoungsModulus())) + "\n\n")

	right.WriteString(title.Render("CONTROLLER") + "\n")
	if m.tunable == nil {
		right.WriteString(labelStyle.Render("(open loop)") + "\n")
	} else {
		params := m.tunable.GetParams()
		active := lipgloss.NewStyle().Foreground(th.Warning).Bold(true)
		for i, k := range gainKeys {
			line := fmt.Sprintf("%-3s %8.1f", k, params[k])
			if i == m.selected {
				right.WriteString(active.Render("> "+line) + "\n")
			} else {
				right.WriteString("  " + valueStyle.Render(line) + "\n")
			}
		}
	}
	if m.recorder != nil {
		export := "export: " + m.recorder.Path()
		if err := m.recorder.Err(); err != nil {
			export = "export failed: " + err.Error()
		}
		right.WriteString("\n" + lipgloss.NewStyle().Foreground(th.Muted).Render(export) + "\n")
	}
	if m.status != "" {
		right.WriteString(lipgloss.NewStyle().Foreground(th.Muted).Render(m.status) + "\n")
	}

	help := helpStyle.Render("SPACE pause  S step  R reset  TAB gain  ↑↓ tune  B bearing  T theme  Q quit")
	body := lipgloss.JoinHorizontal(lipgloss.Top, left.String(), "  ", panelStyle.Render(right.String()))
	return body + "\n" + help
}
