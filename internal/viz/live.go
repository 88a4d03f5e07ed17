package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/golang/geo/r2"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/boatsim/internal/course"
	"github.com/san-kum/boatsim/internal/geom"
	"github.com/san-kum/boatsim/internal/sim"
)

const (
	width          = 80
	height         = 24
	trailCapacity  = 2000
	speedCapacity  = 300
	arrowSpacing   = 24
	manualSpeedInc = 10.0
	manualTurnInc  = 0.2
)

type TickMsg time.Time

// Model is the live course view. In manual mode the arrow keys drive the
// boat velocities directly and the guidance strategy is bypassed.
type Model struct {
	sim      *sim.Simulator
	gate     course.Gate
	path     geom.Polyline
	dt       float64
	canvas   *Canvas
	view     Viewport
	trail    []r2.Point
	speeds   []float64
	last     sim.Step
	running  bool
	showHelp bool
	arrows   bool
}

func NewModel(s *sim.Simulator, gate course.Gate, path geom.Polyline, dt float64) Model {
	canvas := NewCanvas(width, height)

	frame := append(geom.NewPolyline(path), gate.Positions()...)
	frame = append(frame, s.Boat().Position())

	return Model{
		sim:     s,
		gate:    gate,
		path:    path,
		dt:      dt,
		canvas:  canvas,
		view:    FitViewport(frame, canvas.PixelWidth(), canvas.PixelHeight(), 0.1),
		trail:   make([]r2.Point, 0, trailCapacity),
		speeds:  make([]float64, 0, speedCapacity),
		last:    sim.Step{Snapshot: s.Boat().Snapshot()},
		running: true,
		arrows:  true,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
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
		case "m":
			m.sim.SetManual(!m.sim.Manual())
		case "c":
			m.arrows = !m.arrows
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			nextTheme()
		case "up", "down", "left", "right":
			m.teleop(msg.String())
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) teleop(key string) {
	if !m.sim.Manual() {
		return
	}
	b := m.sim.Boat()
	switch key {
	case "up":
		b.SetLinearVelocity(b.LinearVelocity() + manualSpeedInc)
	case "down":
		b.SetLinearVelocity(b.LinearVelocity() - manualSpeedInc)
	case "left":
		b.SetAngularVelocity(b.AngularVelocity() + manualTurnInc)
	case "right":
		b.SetAngularVelocity(b.AngularVelocity() - manualTurnInc)
	}
}

func (m *Model) step() {
	m.last = m.sim.Tick(m.dt)

	if len(m.trail) == trailCapacity {
		m.trail = m.trail[1:]
	}
	m.trail = append(m.trail, m.last.Snapshot.Position())

	if len(m.speeds) == speedCapacity {
		m.speeds = m.speeds[1:]
	}
	m.speeds = append(m.speeds, m.last.Snapshot.LinearVelocity)
}

func (m *Model) draw() {
	c, v := m.canvas, m.view
	c.Clear()

	if m.arrows {
		m.drawCurrent()
	}

	c.Polyline(v, m.path, false)
	for _, p := range m.path {
		c.Ring(v, p, 2)
	}

	for i := 1; i < len(m.trail); i++ {
		c.Line(v, m.trail[i-1], m.trail[i])
	}

	hull := m.last.Corners
	if hull == ([4]r2.Point{}) {
		hull = m.sim.Boat().Corners()
	}
	c.Polyline(v, hull[:], true)
	c.Line(v, m.sim.Boat().Position(), m.sim.Boat().Nose())

	if tel := m.last.Telemetry; tel.Valid {
		c.Line(v, tel.LookaheadStart, tel.LookaheadEnd)
		c.Ring(v, tel.Target, 3)
	}

	green := lipgloss.NewStyle().Foreground(CurrentTheme.Starboard).Render("●")
	red := lipgloss.NewStyle().Foreground(CurrentTheme.Port).Render("●")
	for _, b := range m.gate.Buoys {
		x, y := v.ToPixel(b.Position)
		if b.Color == course.Green {
			c.Overlay(x, y, green)
		} else {
			c.Overlay(x, y, red)
		}
	}
}

// drawCurrent samples the water current on a coarse grid and draws short
// strokes along the flow.
func (m *Model) drawCurrent() {
	c, v := m.canvas, m.view
	field := m.sim.Boat().Field()
	t := m.last.Snapshot.Time

	for py := arrowSpacing / 2; py < c.PixelHeight(); py += arrowSpacing {
		for px := arrowSpacing / 2; px < c.PixelWidth(); px += arrowSpacing {
			p := v.ToWorld(px, py)
			cur, err := field.Current(p.X, p.Y, t)
			if err != nil || cur.Norm() < 1e-6 {
				continue
			}
			dir := cur.Normalize()
			x1 := px + int(math.Round(dir.X*6))
			y1 := py - int(math.Round(dir.Y*6))
			c.Set(px, py)
			c.DrawLine(px, py, x1, y1)
		}
	}
}

func (m Model) View() string {
	m.draw()

	s := m.last.Snapshot
	mode := StatusRunning.Render("AUTO")
	if m.sim.Manual() {
		mode = StatusManual.Render("MANUAL")
	} else if !m.running {
		mode = StatusPaused.Render("PAUSED")
	}

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
	}

	var stats strings.Builder
	stats.WriteString(headerStyle().Render("boatsim · "+m.sim.Strategy().Name()) + "\n")
	stats.WriteString(row("mode", mode))
	stats.WriteString(row("time", fmt.Sprintf("%.2f s", s.Time)))
	stats.WriteString(row("position", fmt.Sprintf("%.1f, %.1f", s.X, s.Y)))
	stats.WriteString(row("heading", fmt.Sprintf("%.1f°", geom.WrapAngle(s.Orientation)*geom.RadToDeg)))
	stats.WriteString(row("speed", fmt.Sprintf("%.1f", s.LinearVelocity)))
	stats.WriteString(row("turn rate", fmt.Sprintf("%.3f rad/s", s.AngularVelocity)))
	stats.WriteString(row("current", fmt.Sprintf("%.1f, %.1f", s.Current.X, s.Current.Y)))
	stats.WriteString(row("progress", fmt.Sprintf("%d", m.last.Progress)))
	if m.last.Done {
		stats.WriteString(row("status", StatusRunning.Render("done")))
	}
	if lim := m.sim.Boat().MaxLinearSpeed; lim > 0 {
		stats.WriteString(row("throttle", ProgressBar(math.Abs(s.LinearVelocity)/lim, 20)))
	}

	if len(m.speeds) > 1 {
		chart := asciigraph.Plot(m.speeds, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("speed"))
		stats.WriteString(graphStyle.Render(chart))
	}

	help := "space pause · m manual · c current · t theme · ? help · q quit"
	if m.showHelp {
		help = "arrows (manual): ↑↓ speed, ←→ turn\n" + help
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Foreground(CurrentTheme.Water).Render(m.canvas.String()),
		statsStyle.Render(stats.String()),
	)
	return body + "\n" + helpStyle.Render(help)
}
