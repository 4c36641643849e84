package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/ui/benchmarks"
)

// PhaseRow is a phase as displayed.
type PhaseRow struct {
	Name      string
	Key       string
	Done      bool
	Active    bool
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}

// ResourceRow is a resource outcome as displayed.
type ResourceRow struct {
	Type   string
	Name   string
	ID     string
	Action string
}

// Model is the Bubble Tea model for the apply dashboard.
type Model struct {
	StackName string
	Region    string

	Phases    []PhaseRow
	Resources []ResourceRow

	// Rollback
	RollingBack    bool
	RollbackDone   bool
	RollbackFailed bool
	RollbackDetail string

	LastLog string

	// ETA
	EstimatedRemaining time.Duration
	PerformanceScale   float64
	StartTime          time.Time

	// Animation
	SpinnerFrame int

	// UI state
	Width  int
	Height int
	Err    error
	Done   bool
}

// NewApplyModel creates a model for the apply command TUI.
func NewApplyModel(stackName, region string) Model {
	return Model{
		StackName:        stackName,
		Region:           region,
		StartTime:        time.Now(),
		PerformanceScale: 1.0,
		Phases: []PhaseRow{
			{Name: "Validation", Key: "validation"},
			{Name: "Security Group", Key: "security-group"},
			{Name: "Instance", Key: "instance"},
			{Name: "Database", Key: "database"},
			{Name: "Load Balancing", Key: "load-balancing"},
			{Name: "Auto Scaling", Key: "autoscaling"},
		},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case PhaseMsg:
		m.updatePhase(msg)
		m.updateETA()

	case ResourceMsg:
		m.updateResource(msg)

	case RollbackMsg:
		m.RollingBack = !msg.Done
		m.RollbackDone = msg.Done
		m.RollbackFailed = msg.Failed
		m.RollbackDetail = msg.Detail

	case LogMsg:
		m.LastLog = msg.Line

	case TickMsg:
		m.SpinnerFrame++
		m.updateETA()
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// updateResource replaces the row for the same resource, so a resource
// being created is shown once and then resolved.
func (m *Model) updateResource(msg ResourceMsg) {
	row := ResourceRow{Type: msg.Type, Name: msg.Name, ID: msg.ID, Action: msg.Action}
	for i, r := range m.Resources {
		if r.Type == msg.Type && r.Name == msg.Name {
			if row.ID == "" {
				row.ID = r.ID
			}
			m.Resources[i] = row
			return
		}
	}
	m.Resources = append(m.Resources, row)
}

func (m *Model) updatePhase(msg PhaseMsg) {
	idx := -1
	for i, phase := range m.Phases {
		if phase.Key == msg.Phase {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	// Mark previous phases as done
	for i := 0; i < idx; i++ {
		m.Phases[i].Done = true
		m.Phases[i].Active = false
	}

	row := &m.Phases[idx]
	switch {
	case msg.Err != nil:
		row.Err = msg.Err
		row.Active = false
		row.Duration = msg.Duration
	case msg.Done:
		row.Done = true
		row.Active = false
		row.Duration = msg.Duration
	default:
		row.Active = true
		row.StartedAt = time.Now()
	}
}

func (m *Model) updateETA() {
	var history []benchmarks.PhaseRecord
	current := ""
	var elapsed time.Duration
	for _, p := range m.Phases {
		switch {
		case p.Done:
			history = append(history, benchmarks.PhaseRecord{Phase: p.Key, Duration: p.Duration})
		case p.Active:
			current = p.Key
			elapsed = time.Since(p.StartedAt)
		}
	}
	if current == "" {
		m.EstimatedRemaining = 0
		return
	}

	m.PerformanceScale = benchmarks.PerformanceScale(current, elapsed, history)
	m.EstimatedRemaining = benchmarks.EstimateRemainingWithScale(current, elapsed, history, m.PerformanceScale)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
