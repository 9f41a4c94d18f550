package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/balsimlab/balsim/internal/dynamo"
	"github.com/balsimlab/balsim/internal/flight"
	"github.com/balsimlab/balsim/internal/physics"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
	landedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

type TickMsg time.Time

// Model animates a single flight in the terminal: braille arc, stats
// panel, altitude sparkline, and live parameter tuning.
type Model struct {
	proj       *physics.Projectile
	integrator dynamo.Integrator

	state  dynamo.State
	t, dt  float64
	status flight.Status

	launch flight.Launch
	canvas *Canvas
	trail  []struct{ x, y float64 }

	// world bounds for projection, grown as the flight progresses
	maxX, maxY float64

	altHistory []float64

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int

	running  bool
	showHelp bool
}

func NewModel(proj *physics.Projectile, integ dynamo.Integrator, launch flight.Launch, dt float64) Model {
	params := proj.GetParams()
	keys := make([]string, 0, len(params))
	initialParams := make(map[string]float64, len(params))
	for k, v := range params {
		keys = append(keys, k)
		initialParams[k] = v
	}
	sort.Strings(keys)

	// Seed the projection with the vacuum envelope so the arc does not
	// jump around while the bounds settle.
	sin := math.Sin(launch.Angle)
	maxX := physics.Range(launch.Speed, launch.Angle, proj.Gravity)
	maxY := launch.Speed * launch.Speed * sin * sin / (2 * proj.Gravity)

	return Model{
		proj:          proj,
		integrator:    integ,
		state:         physics.LaunchState(launch.Speed, launch.Angle),
		dt:            dt,
		status:        flight.Running,
		launch:        launch,
		canvas:        NewCanvas(width, height),
		trail:         make([]struct{ x, y float64 }, 0, historyCapacity),
		maxX:          math.Max(maxX, 1),
		maxY:          math.Max(maxY, 1),
		altHistory:    make([]float64, 0, historyCapacity),
		params:        params,
		initialParams: initialParams,
		paramKeys:     keys,
		running:       true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.status == flight.Running {
			// several physics steps per frame so slow-motion dt still
			// reads as motion
			for i := 0; i < 8 && m.status == flight.Running; i++ {
				m.step()
			}
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	var next dynamo.State
	if adaptive, ok := m.integrator.(dynamo.AdaptiveIntegrator); ok {
		var err error
		next, _, err = adaptive.StepAdaptive(m.proj, m.state, m.t, m.dt, 1e-6)
		if err != nil {
			m.status = flight.Failed
			return
		}
	} else {
		next = m.integrator.Step(m.proj, m.state, m.t, m.dt)
	}

	if !next.IsValid() {
		m.status = flight.Failed
		return
	}
	if next[physics.PosY] < 0 {
		m.status = flight.Landed
		return
	}

	m.state = next
	m.t += m.dt

	x, y := m.state[physics.PosX], m.state[physics.PosY]
	m.maxX = math.Max(m.maxX, x)
	m.maxY = math.Max(m.maxY, y)

	m.trail = append(m.trail, struct{ x, y float64 }{x, y})
	if len(m.trail) > historyCapacity {
		m.trail = m.trail[1:]
	}

	m.altHistory = append(m.altHistory, y)
	if len(m.altHistory) > historyCapacity {
		m.altHistory = m.altHistory[1:]
	}
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	newVal := m.params[key] * factor
	m.params[key] = newVal
	m.proj.SetParam(key, newVal)
}

func (m *Model) reset() {
	m.t = 0
	m.state = physics.LaunchState(m.launch.Speed, m.launch.Angle)
	m.status = flight.Running
	m.trail = m.trail[:0]
	m.altHistory = m.altHistory[:0]
	for k, v := range m.initialParams {
		m.params[k] = v
		m.proj.SetParam(k, v)
	}
}

// project maps world coordinates to canvas sub-pixels, ground at the
// bottom row.
func (m *Model) project(x, y float64) (int, int) {
	cw, ch := float64(width*2-1), float64(height*4-1)
	px := int(x / m.maxX * cw)
	py := int(ch - y/m.maxY*ch)
	return px, py
}

func (m *Model) draw() {
	m.canvas.Clear()

	// ground line
	m.canvas.DrawLine(0, height*4-1, width*2-1, height*4-1)

	prevX, prevY := m.project(0, 0)
	for _, p := range m.trail {
		px, py := m.project(p.x, p.y)
		m.canvas.DrawLine(prevX, prevY, px, py)
		prevX, prevY = px, py
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("PROJECTILE") + "\n")

	switch m.status {
	case flight.Landed:
		s.WriteString(landedStyle.Render("LANDED") + "\n\n")
	case flight.Failed:
		s.WriteString(failedStyle.Render("SOLVER FAILED") + "\n\n")
	default:
		if m.running {
			s.WriteString("RUNNING\n\n")
		} else {
			s.WriteString("PAUSED\n\n")
		}
	}

	if len(m.altHistory) > 1 {
		chart := asciigraph.Plot(m.altHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("altitude"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	vx, vy := m.state[physics.VelX], m.state[physics.VelY]
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Downrange") + valueStyle.Render(fmt.Sprintf("%.1fm", m.state[physics.PosX])) + "\n")
	s.WriteString(labelStyle.Render("Altitude") + valueStyle.Render(fmt.Sprintf("%.1fm", m.state[physics.PosY])) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%.1fm/s", math.Hypot(vx, vy))) + "\n")

	s.WriteString("\nPARAMETERS\n")
	for i, k := range m.paramKeys {
		val, initial := m.params[k], m.initialParams[k]
		ref := initial
		if ref == 0 {
			ref = 1e-6
		}
		barWidth, ratio := 10, val/(2.0*ref)
		if ratio > 1 {
			ratio = 1
		} else if ratio < 0 {
			ratio = 0
		}
		filled := int(ratio * float64(barWidth))
		bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled) + "]"
		line := fmt.Sprintf("%-10s %s %.4f", k, bar, val)
		if i == m.selected {
			s.WriteString(activeStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Relaunch Q:Quit\nTab:Param ↑↓:Tune ?:Help"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume flight      ║
║  R        - Relaunch                 ║
║  Q        - Quit                     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
