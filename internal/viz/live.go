package viz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zhangluna929/Thermal-Management-Model/internal/battery"
	"github.com/zhangluna929/Thermal-Management-Model/internal/cooling"
	"github.com/zhangluna929/Thermal-Management-Model/internal/sim"
	"github.com/zhangluna929/Thermal-Management-Model/internal/therm"
)

const (
	historyCapacity = 600
	tickInterval    = time.Second / 5
	gaugeWidth      = 28
	sparkWidth      = 36
)

var (
	gaugeStyle  = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	faultStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model drives a live pack simulation in the terminal: per-zone gauges on
// the left, run statistics and a max-temperature sparkline on the right.
type Model struct {
	pack     *battery.Pack
	source   therm.HeatSource
	planner  sim.Planner
	title    string
	current  float64
	dt       float64
	external []float64
	limit    float64

	t       float64
	step    int
	running bool
	labels  []therm.CoolingLabel
	status  []therm.ZoneStatus
	maxHist []float64
	fault   error
	srcDown bool

	initial     therm.State
	initCurrent float64
}

// NewModel prepares a live view around an assembled pack. source and
// planner may be nil; external follows the Advance broadcast rules.
func NewModel(title string, pack *battery.Pack, source therm.HeatSource, planner sim.Planner, current, dt float64, external []float64) Model {
	return Model{
		pack:        pack,
		source:      source,
		planner:     planner,
		title:       title,
		current:     current,
		dt:          dt,
		external:    external,
		limit:       battery.DefaultCoolingTrigger,
		running:     true,
		labels:      make([]therm.CoolingLabel, pack.NumZones()),
		status:      pack.Status(),
		maxHist:     make([]float64, 0, historyCapacity),
		initial:     pack.Temperatures(),
		initCurrent: current,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.fault == nil {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "up", "k":
			m.current++
		case "down", "j":
			m.current--
		}
	case TickMsg:
		if m.running {
			m.stepOnce()
		}
		return m, tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// stepOnce advances the pack by one simulation step: plan cooling, gather
// heat, integrate, then apply the cooling tiers.
func (m *Model) stepOnce() {
	if m.planner != nil {
		if plan, err := m.planner.Plan(m.pack.Temperatures(), m.pack.Ambient()); err == nil {
			m.pack.SetCooling(plan)
		}
	}

	heat := append([]float64(nil), m.external...)
	if m.source != nil && !m.srcDown {
		q, err := m.source.HeatPerZone(m.current, m.dt, m.pack.NumZones())
		switch {
		case err == nil:
			if len(heat) == 0 {
				heat = make([]float64, m.pack.NumZones())
			} else if len(heat) == 1 {
				base := heat[0]
				heat = make([]float64, m.pack.NumZones())
				for i := range heat {
					heat[i] = base
				}
			}
			for i := range heat {
				heat[i] += q[i]
			}
		case errors.Is(err, therm.ErrBackendUnavailable):
			m.srcDown = true
		}
	}

	if _, err := m.pack.Advance(m.current, m.dt, heat...); err != nil {
		m.fault = err
		m.running = false
		return
	}
	m.labels = m.pack.ApplyCooling(m.limit)
	m.status = m.pack.Status()

	m.t += m.dt
	m.step++
	m.maxHist = append(m.maxHist, m.pack.Temperatures().Max())
	if len(m.maxHist) > historyCapacity {
		m.maxHist = m.maxHist[1:]
	}
}

// reset restores the initial temperatures and current. Cooling strategy
// state is not rebuilt, so a spent phase-change budget stays spent.
func (m *Model) reset() {
	m.t = 0
	m.step = 0
	m.current = m.initCurrent
	m.fault = nil
	m.srcDown = false
	m.running = true
	m.maxHist = m.maxHist[:0]
	m.labels = make([]therm.CoolingLabel, m.pack.NumZones())
	if err := m.pack.SetTemperatures(m.initial); err != nil {
		m.fault = err
		m.running = false
	}
	m.status = m.pack.Status()
}

// View renders the TUI interface.
func (m Model) View() string {
	temps := m.pack.Temperatures()
	ambient := m.pack.Ambient()
	span := battery.MaxSafeTemperature - ambient
	if span <= 0 {
		span = 1
	}

	var gauges strings.Builder
	gauges.WriteString(headerStyle.Render("ZONES") + "\n")
	for i, t := range temps {
		frac := (t - ambient) / span
		tag := StatusNormal.Render("NORMAL")
		if i < len(m.status) && m.status[i] == therm.StatusOverheated {
			tag = StatusOverheat.Render("OVERHEAT")
		} else if i < len(m.labels) && m.labels[i] == therm.ActiveCooling {
			tag = StatusCooling.Render("COOLING")
		}
		gauges.WriteString(fmt.Sprintf("z%-2d %s %6.1f°C %s\n", i, TempBar(frac, gaugeWidth), t, tag))
	}
	gaugeView := gaugeStyle.Render(gauges.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	status := "RUNNING"
	if m.fault != nil {
		status = "FAULT"
	} else if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.maxHist) > 1 {
		s.WriteString(SparklineChart(m.maxHist, sparkWidth) + "\n")
		s.WriteString(Subtle.Render("max temperature") + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.1fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d", m.step)) + "\n")
	s.WriteString(labelStyle.Render("Current") + valueStyle.Render(fmt.Sprintf("%.1f A", m.current)) + "\n")
	s.WriteString(labelStyle.Render("Mean") + MetricValue.Render(fmt.Sprintf("%.2f°C", temps.Mean())) + "\n")
	s.WriteString(labelStyle.Render("Max") + MetricValue.Render(fmt.Sprintf("%.2f°C", temps.Max())) + "\n")
	s.WriteString(labelStyle.Render("Cooling") + valueStyle.Render(cooling.Describe(m.pack.Cooling())) + "\n")
	if m.planner != nil {
		s.WriteString(labelStyle.Render("Planner") + valueStyle.Render("mpc") + "\n")
	}
	if m.srcDown {
		s.WriteString(Subtle.Render("heat source unavailable, running without it") + "\n")
	}
	if m.fault != nil {
		s.WriteString(faultStyle.Render("fault: "+m.fault.Error()) + "\n")
	}

	s.WriteString("\n" + Separator(sparkWidth) + "\n")
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit ↑↓:Current"))
	statsView := statsStyle.Render(s.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, gaugeView, statsView)
}
