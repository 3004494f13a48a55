package cli

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"

	"github.com/matzehuels/folio/pkg/config"
	"github.com/matzehuels/folio/pkg/diagram"
	"github.com/matzehuels/folio/pkg/errors"
)

const (
	// frameInterval paces solver steps and clock updates.
	frameInterval = time.Second / 60

	// compactBelow is the terminal width under which the layout stacks and
	// the diagram switches to compact icons.
	compactBelow = 100

	// clockLayout is ISO-8601 UTC with milliseconds.
	clockLayout = "2006-01-02T15:04:05.000Z"
)

// --- Messages ---

type frameMsg time.Time

// runMsg carries a fired hover timer back onto the event loop.
type runMsg func()

type configChangedMsg struct{}

type configLoadedMsg struct {
	cfg *config.Config
	err error
}

// --- Key bindings ---

type keyMap struct {
	Quit    key.Binding
	Compact key.Binding
	Reseed  key.Binding
	Help    key.Binding
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	Compact: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "compact")),
	Reseed:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "re-seed")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Compact, k.Reseed, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Compact, k.Reseed}, {k.Help, k.Quit}}
}

// --- Model ---

// rect is a cell rectangle on the terminal.
type rect struct{ x, y, w, h int }

func (r rect) contains(col, row int) bool {
	return col >= r.x && col < r.x+r.w && row >= r.y && row < r.y+r.h
}

// viewModel is the interactive landing page: the name panel, the live
// diagram and the status bar.
type viewModel struct {
	d      *diagram.Diagram
	logger *log.Logger

	profile     config.Profile
	opts        diagram.Options // configured tuning, without the automatic compact switch
	userCompact bool            // compact asked for by flag, config or key

	width, height int
	canvas        rect

	now    time.Time
	clock  func() time.Time
	reload func() (*config.Config, error) // nil when the config is not watched
	status string                         // last reload error

	help     help.Model
	showHelp bool
}

func newViewModel(d *diagram.Diagram, profile config.Profile, logger *log.Logger) viewModel {
	opts := d.Options()
	return viewModel{
		d:           d,
		logger:      logger,
		profile:     profile,
		opts:        opts,
		userCompact: opts.Compact,
		clock:       time.Now,
		now:         time.Now(),
		help:        help.New(),
	}
}

func (m viewModel) Init() tea.Cmd {
	return tickFrame()
}

func tickFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.d.Close()
			return m, tea.Quit
		case key.Matches(msg, keys.Compact):
			m.userCompact = !m.userCompact
			m.applyCompact()
		case key.Matches(msg, keys.Reseed):
			if err := m.d.SetGraph(m.d.Graph()); err != nil {
				m.setStatus(err)
			}
		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.layout()

	case tea.MouseMsg:
		m.pointer(msg)

	case frameMsg:
		m.now = m.clock()
		m.d.Step()
		return m, tickFrame()

	case runMsg:
		msg()

	case configChangedMsg:
		if m.reload != nil {
			return m, m.loadConfig()
		}

	case configLoadedMsg:
		m.applyConfig(msg)
	}
	return m, nil
}

// narrow reports whether the terminal is too narrow for the split layout.
func (m *viewModel) narrow() bool { return m.width < compactBelow }

// headerHeight is the height of the stacked name panel in the narrow layout.
func (m *viewModel) headerHeight() int { return len(m.profile.Name) + 2 }

// layout places the diagram canvas and resizes the diagram to it.
func (m *viewModel) layout() {
	body := max(m.height-1, 0) // status bar
	if m.narrow() {
		top := min(m.headerHeight(), body)
		m.canvas = rect{x: 0, y: top, w: m.width, h: body - top}
	} else {
		side := m.width * 2 / 5
		m.canvas = rect{x: side, y: 0, w: m.width - side, h: body}
	}
	m.applyCompact()
	if err := m.d.Resize(float64(m.canvas.w)*cellWidth, float64(m.canvas.h)*cellHeight); err != nil {
		m.setStatus(err)
	}
}

// applyCompact switches compact icons on when asked for or when narrow.
func (m *viewModel) applyCompact() {
	want := m.userCompact || m.narrow()
	if m.d.Options().Compact == want {
		return
	}
	opts := m.opts
	opts.Compact = want
	if err := m.d.SetOptions(opts); err != nil {
		m.setStatus(err)
	}
}

// toDiagram maps a terminal cell to diagram coordinates.
func (m *viewModel) toDiagram(col, row int) (x, y float64, inside bool) {
	x, y = toPixel(col-m.canvas.x, row-m.canvas.y)
	return x, y, m.canvas.contains(col, row)
}

func (m *viewModel) pointer(msg tea.MouseMsg) {
	x, y, inside := m.toDiagram(msg.X, msg.Y)
	dragging := m.d.Dragging() >= 0

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && inside {
			m.d.PointerDown(x, y)
		}
	case tea.MouseActionRelease:
		m.d.PointerUp()
	case tea.MouseActionMotion:
		switch {
		case inside || dragging:
			m.d.PointerMove(x, y)
		default:
			m.d.PointerLeave()
		}
	}
}

func (m viewModel) loadConfig() tea.Cmd {
	reload := m.reload
	return func() tea.Msg {
		cfg, err := reload()
		return configLoadedMsg{cfg: cfg, err: err}
	}
}

// applyConfig swaps in a reloaded config. A broken config leaves the running
// diagram untouched and reports the error in the status bar.
func (m *viewModel) applyConfig(msg configLoadedMsg) {
	if msg.err != nil {
		m.setStatus(msg.err)
		return
	}
	opts, err := msg.cfg.Options()
	if err != nil {
		m.setStatus(err)
		return
	}
	if err := m.d.SetGraph(msg.cfg.Graph()); err != nil {
		m.setStatus(err)
		return
	}

	m.opts = opts
	m.userCompact = opts.Compact
	want := opts.Compact || m.narrow()
	opts.Compact = want
	if err := m.d.SetOptions(opts); err != nil {
		m.setStatus(err)
		return
	}

	m.profile = msg.cfg.Profile
	m.status = ""
	m.layout()
	m.logger.Info("config reloaded", "nodes", len(m.d.Graph().Nodes))
}

func (m *viewModel) setStatus(err error) {
	m.status = errors.UserMessage(err)
	m.logger.Warn("diagram update rejected", "error", err)
}

// --- View ---

func (m viewModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var body string
	if m.narrow() {
		body = lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.renderDiagram())
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSide(), m.renderDiagram())
	}

	footer := m.renderStatusBar()
	if m.showHelp {
		footer = m.help.View(keys)
	}
	return body + "\n" + footer
}

var (
	styleName  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	styleClock = lipgloss.NewStyle().Foreground(colorGray)
)

func (m viewModel) clockLine() string {
	return "DATETIME: " + m.now.UTC().Format(clockLayout)
}

// renderSide is the right-aligned name panel with its vertical divider.
func (m viewModel) renderSide() string {
	w := max(m.canvas.x-2, 0)
	lines := make([]string, 0, len(m.profile.Name)+2)
	for _, n := range m.profile.Name {
		lines = append(lines, styleName.Render(spaced(n)))
	}
	lines = append(lines, "", styleClock.Render(m.clockLine()))

	content := lipgloss.JoinVertical(lipgloss.Right, lines...)
	content = truncateLines(content, w)
	panel := lipgloss.Place(w, m.canvas.h, lipgloss.Right, lipgloss.Center, content)
	return lipgloss.NewStyle().
		PaddingRight(1).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(colorDim).
		Render(panel)
}

// renderHeader is the name panel stacked above the diagram.
func (m viewModel) renderHeader() string {
	lines := make([]string, 0, len(m.profile.Name)+1)
	for _, n := range m.profile.Name {
		lines = append(lines, styleName.Render(spaced(n)))
	}
	lines = append(lines, styleClock.Render(m.clockLine()))

	content := lipgloss.JoinVertical(lipgloss.Right, lines...)
	content = truncateLines(content, m.width)
	return lipgloss.NewStyle().
		Width(m.width).
		Align(lipgloss.Right).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(colorDim).
		Render(content)
}

func (m viewModel) renderDiagram() string {
	c := newCanvas(m.canvas.w, m.canvas.h)
	f, ok := m.d.Frame()
	if !ok {
		return c.String()
	}

	active := m.d.Dragging()
	var tip *tooltipView
	if t, n, ok := m.d.Tooltip(); ok {
		category := n.Category
		if category == "" {
			category = "uncategorized"
		}
		tip = &tooltipView{X: t.X, Y: t.Y, Title: n.Label(), Detail: category}
		if active < 0 {
			active = t.Node
		}
	}
	paintFrame(c, f, active, tip)
	return c.String()
}

func (m viewModel) renderStatusBar() string {
	left := StyleDim.Render("// STATUS: ") + StyleValue.Render(m.profile.Status) + " "
	for _, c := range statusFade {
		left += lipgloss.NewStyle().Foreground(c).Render("█")
	}

	right := StyleDim.Render("? help")
	if m.status != "" {
		right = StyleError.Render(m.status)
	}

	gap := m.width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		return ansi.Truncate(left+" "+right, m.width, "…")
	}
	return left + strings.Repeat(" ", gap) + right
}

// truncateLines cuts each line to width so content never wraps.
func truncateLines(s string, width int) string {
	if width <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if ansi.StringWidth(line) > width {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return strings.Join(lines, "\n")
}
