package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/go-drift/inview/pkg/geometry"
)

func init() {
	RegisterCommand(&Command{
		Name:  "tui",
		Short: "Interactive lazy-loading feed",
		Long: `Run the feed interactively. Rows load as they scroll into the
margin-expanded window; the summary line tracks loads, retirements, and
bootstrap grants live.

Keys:
  j/down, k/up      scroll one row
  pgdown, pgup      scroll one window
  g, G              jump to top / bottom
  m                 cycle the root margin (rebuilds the sensor)
  q, ctrl+c         quit`,
		Usage: "showcase tui [--config FILE]",
		Run:   runTUI,
	})
}

func runTUI(args []string) error {
	path, rest, err := configPath(args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("unexpected argument %q", rest[0])
	}
	cfg, err := LoadOptional(path)
	if err != nil {
		return err
	}

	program := tea.NewProgram(newModel(cfg), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// chromeLines is the screen space used around the feed pane: header,
// summary, a blank line, four log lines, and the key footer.
const chromeLines = 7

// logLines is the number of transition log lines shown.
const logLines = 4

// model renders the feed with Bubble Tea.
type model struct {
	cfg       Config
	feed      *Feed
	width     int
	height    int
	status    string
	margins   []string
	marginIdx int
}

func newModel(cfg Config) model {
	return model{
		cfg:     cfg,
		margins: marginCycle(cfg.Scheduler.RootMargin),
	}
}

// marginCycle returns the margins the m key rotates through, starting
// with the configured one.
func marginCycle(configured string) []string {
	cycle := []string{configured}
	for _, margin := range []string{"0px", "24px 0px", "50% 0px"} {
		if margin != configured {
			cycle = append(cycle, margin)
		}
	}
	return cycle
}

// Init waits for the first window size before building the feed.
func (m model) Init() tea.Cmd {
	return nil
}

// Update consumes key presses and terminal resizes.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(typed)
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m model) resize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	size := geometry.Size{Width: float64(msg.Width), Height: float64(paneHeight(msg.Height))}

	if m.feed == nil {
		feed, err := NewFeed(m.cfg, size, nil)
		if err != nil {
			m.status = err.Error()
			return m, tea.Quit
		}
		m.feed = feed
		m.feed.Prime()
		return m, nil
	}
	m.feed.Resize(size)
	return m, nil
}

func paneHeight(screenHeight int) int {
	pane := screenHeight - chromeLines
	if pane < 3 {
		pane = 3
	}
	return pane
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.feed == nil {
		if key := msg.String(); key == "q" || key == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}

	rowStep := float64(m.cfg.Feed.RowHeight)
	pageStep := m.feed.Region().Viewport().Height

	switch msg.String() {
	case "q", "ctrl+c":
		m.feed.Close()
		return m, tea.Quit
	case "j", "down":
		m.feed.ScrollBy(rowStep)
	case "k", "up":
		m.feed.ScrollBy(-rowStep)
	case "pgdown":
		m.feed.ScrollBy(pageStep)
	case "pgup":
		m.feed.ScrollBy(-pageStep)
	case "g":
		m.feed.ScrollTo(0)
	case "G":
		m.feed.ScrollTo(m.feed.MaxOffset())
	case "m":
		m.marginIdx = (m.marginIdx + 1) % len(m.margins)
		margin := m.margins[m.marginIdx]
		if err := m.feed.Reconfigure(margin, m.cfg.Scheduler.Thresholds); err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("root margin %q", margin)
		}
	}
	return m, nil
}

// View renders the whole screen.
func (m model) View() string {
	if m.feed == nil {
		return "measuring terminal..."
	}

	header := stylize("inview showcase", lipgloss.Color("33"))
	summary := renderSummary(m.feed, m.margins[m.marginIdx], m.status)
	pane := strings.Join(renderFeedLines(m.feed), "\n")
	log := renderLog(m.feed)
	footer := stylize("j/k scroll  pgup/pgdn page  g/G ends  m margin  q quit", lipgloss.Color("244"))

	return lipgloss.JoinVertical(lipgloss.Left, header, summary, pane, "", log, footer)
}

// renderSummary renders the live counters line.
func renderSummary(f *Feed, margin, status string) string {
	line := fmt.Sprintf("loaded %d/%d | preloaded %d | tracked %d | grants %d | margin %q",
		f.LoadedCount(), len(f.Rows()), f.PreloadedCount(), f.TrackedCount(), f.GrantsRemaining(), margin)
	if status != "" {
		line += " | " + status
	}
	return stylize(line, lipgloss.Color("242"))
}

// renderFeedLines renders the rows overlapping the window, clipped to
// it line by line.
func renderFeedLines(f *Feed) []string {
	window := f.Region().Window()
	height := int(window.Height())
	lines := make([]string, 0, height)

	for _, row := range f.Rows() {
		bounds := row.VisibilityBounds()
		if bounds.Bottom <= window.Top || bounds.Top >= window.Bottom {
			continue
		}
		block := renderRowBlock(row, int(window.Width()))
		start := 0
		if bounds.Top < window.Top {
			start = int(window.Top - bounds.Top)
		}
		end := len(block)
		if bounds.Bottom > window.Bottom {
			end -= int(bounds.Bottom - window.Bottom)
		}
		for i := start; i < end && i < len(block); i++ {
			lines = append(lines, block[i])
		}
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

// renderRowBlock renders one row as its full block of lines.
func renderRowBlock(row *Row, width int) []string {
	marker := stylize("○", lipgloss.Color("240"))
	label := stylize("pending", lipgloss.Color("240"))
	switch {
	case row.Loaded() && row.Visible():
		marker = stylize("●", lipgloss.Color("42"))
		label = stylize("visible", lipgloss.Color("42"))
	case row.Loaded():
		marker = stylize("●", lipgloss.Color("35"))
		label = stylize("loaded", lipgloss.Color("35"))
	}

	height := int(row.VisibilityBounds().Height())
	block := make([]string, 0, height)
	block = append(block, fmt.Sprintf("%s %s  %s", marker, row.Title, label))
	for len(block) < height {
		if row.Loaded() {
			block = append(block, stylize("  "+bodyText(row.Index), lipgloss.Color("245")))
		} else {
			block = append(block, stylize("  "+strings.Repeat("░", min(width-2, 40)), lipgloss.Color("238")))
		}
	}
	return block
}

// bodyText returns deterministic filler content for a loaded row.
func bodyText(index int) string {
	fillers := []string{
		"Fetched from the archive, rendered in place.",
		"Loaded lazily the moment it entered the margin.",
		"One sensor, many rows, a single shared pipeline.",
	}
	return fillers[index%len(fillers)]
}

// renderLog renders the latest transition lines.
func renderLog(f *Feed) string {
	entries := f.RecentTransitions(logLines)
	lines := make([]string, 0, logLines)
	for _, entry := range entries {
		lines = append(lines, stylize(entry, lipgloss.Color("240")))
	}
	for len(lines) < logLines {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// stylize applies a foreground color.
func stylize(text string, color lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
