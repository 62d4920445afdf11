package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/beltsim/internal/sim"
	"github.com/san-kum/beltsim/internal/viz"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

const (
	frameInterval = 50 * time.Millisecond
	maxSpeed      = 64
	barWidth      = 30
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model steps through the discharge samples of a finished run.
type Model struct {
	title string
	res   *sim.Results

	cursor  int
	playing bool
	speed   int

	// cumulative discharge per material up to and including each row
	cumulative [][]float64

	width  int
	height int
}

func NewModel(title string, res *sim.Results) Model {
	n := len(res.Materials())
	cum := make([][]float64, len(res.Flow))
	run := make([]float64, n)
	for i, row := range res.Flow {
		for j := 0; j < n; j++ {
			run[j] += row[j]
		}
		cum[i] = append([]float64(nil), run...)
	}
	return Model{
		title:      title,
		res:        res,
		speed:      1,
		cumulative: cum,
		width:      80,
		height:     24,
	}
}

func (m Model) Cursor() int   { return m.cursor }
func (m Model) Playing() bool { return m.playing }
func (m Model) Speed() int    { return m.speed }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) last() int { return len(m.res.Flow) - 1 }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tickMsg:
		if !m.playing {
			return m, nil
		}
		m.cursor = min(m.cursor+m.speed, m.last())
		if m.cursor == m.last() {
			m.playing = false
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "right", "l":
		m.cursor = min(m.cursor+1, m.last())
	case "left", "h":
		m.cursor = max(m.cursor-1, 0)
	case "pgdown":
		m.cursor = min(m.cursor+10*m.speed, m.last())
	case "pgup":
		m.cursor = max(m.cursor-10*m.speed, 0)
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = m.last()
	case "+", "=":
		m.speed = min(m.speed*2, maxSpeed)
	case "-":
		m.speed = max(m.speed/2, 1)
	case " ":
		if m.cursor == m.last() {
			m.cursor = 0
		}
		m.playing = !m.playing
		if m.playing {
			return m, tick()
		}
	}
	return m, nil
}

func (m Model) View() string {
	if len(m.res.Flow) == 0 {
		return dim.Render("  no samples recorded") + "\n"
	}

	row := m.res.Flow[m.cursor]
	mats := m.res.Materials()
	nm := len(mats)
	props := m.res.Proportions[m.cursor]

	var b strings.Builder
	b.WriteString("\n  " + cyan.Render(m.title) + "  " +
		dim.Render(fmt.Sprintf("t = %8.3fs   sample %d/%d   ×%d", row[nm], m.cursor+1, len(m.res.Flow), m.speed)))
	if m.playing {
		b.WriteString("  " + yellow.Render("▶"))
	}
	b.WriteString("\n" + dimmer.Render("  "+strings.Repeat("─", 64)) + "\n\n")

	for i, name := range mats {
		bar := int(props[i] / 100 * barWidth)
		b.WriteString(fmt.Sprintf("  %s %s%s %s %s\n",
			viz.MaterialStyle(i).Render(fmt.Sprintf("%-12s", name)),
			viz.MaterialStyle(i).Render(strings.Repeat("█", bar)),
			dimmer.Render(strings.Repeat("░", barWidth-bar)),
			white.Render(fmt.Sprintf("%6.2f%%", props[i])),
			dim.Render(fmt.Sprintf("flow %8.3f  cum %10.3f", row[i], m.cumulative[m.cursor][i])),
		))
	}
	b.WriteString(fmt.Sprintf("\n  %s %s\n", dim.Render("total"), white.Render(fmt.Sprintf("%.3f", row[nm+1]))))

	if c := m.chemistryLine(row[nm]); c != "" {
		b.WriteString("  " + c + "\n")
	}

	w := max(m.width-14, 20)
	totals := m.res.Totals()
	from := max(0, m.cursor+1-w)
	b.WriteString("\n  " + dim.Render("history ") + viz.Sparkline(totals[from:m.cursor+1], min(w, m.cursor+1-from)) + "\n")

	b.WriteString("\n" + dim.Render("  ←→ step  pgup/pgdn jump  space play  +/- speed  home/end  q quit") + "\n")
	return b.String()
}

// chemistryLine shows the blend at time t; rows without flow have no trend
// entry and show nothing.
func (m Model) chemistryLine(t float64) string {
	tr, err := m.res.Chemistry()
	if err != nil {
		return ""
	}
	i := sort.SearchFloat64s(tr.Time, t)
	if i >= tr.Len() || tr.Time[i] != t {
		return dim.Render("blend  no flow")
	}
	return dim.Render("blend  ") + white.Render(fmt.Sprintf("Fe %.2f%%  SiO2 %.2f%%  CaO %.2f%%  B2 %.3f  B4 %.3f",
		tr.Fe[i], tr.SiO2[i], tr.CaO[i], tr.B2[i], tr.B4[i]))
}

// Run opens the replay viewer full screen.
func Run(title string, res *sim.Results) error {
	p := tea.NewProgram(NewModel(title, res), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
