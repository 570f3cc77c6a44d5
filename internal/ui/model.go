package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertwitch/atimes/internal/scan"
	"github.com/dustin/go-humanize"
)

//nolint:gochecknoglobals
var (
	// titleStyle defines the style for a panel's title.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	// borderStyle defines the style for a panel's borders.
	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4"))

	// infoStyle defines the style for a panel's text.
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	// helpStyle defines the style for the help panel's text.
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(0, 1)
)

// ScanProgressMsg is a [tea.Msg] containing [scan.Progress] information.
type ScanProgressMsg struct {
	t        time.Time
	scanData scan.Progress
}

// TeaModel is the principal [tea.Model] for the command-line user interface.
type TeaModel struct {
	width  int
	height int

	cancel context.CancelFunc

	uiHandler *Handler
	tracker   *scan.Tracker

	fullWidthWithBorders int

	scanData scan.Progress

	scanProgress progress.Model
	logsViewport viewport.Model
	logs         []string

	ready bool
}

// NewTeaModel returns an initial new [TeaModel].
//
//nolint:mnd
func NewTeaModel(uiHandler *Handler, tracker *scan.Tracker, cancel context.CancelFunc) TeaModel {
	scanProgress := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(80),
	)

	logsViewport := viewport.New(80, 20)

	return TeaModel{
		uiHandler:    uiHandler,
		tracker:      tracker,
		scanProgress: scanProgress,
		scanData:     scan.Progress{},
		logsViewport: logsViewport,
		logs:         make([]string, 0, 100),
		cancel:       cancel,
		ready:        false,
	}
}

// Init initializes the model within a [tea.Program].
func (m TeaModel) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		updateScanProgress(m.tracker),
	)
}

// updateScanProgress produces a [tea.Cmd] for later scheduling in a
// [tea.Program]. When executed, a [ScanProgressMsg] with a [scan.Tracker]'s
// [scan.Progress] is returned.
func updateScanProgress(tracker *scan.Tracker) tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { //nolint:mnd
		scanProgressMsg := ScanProgressMsg{
			t:        t,
			scanData: tracker.Progress(),
		}

		return scanProgressMsg
	})
}

// Update is the principal message handling method of the model.
// It sets the internal state of the model, for later rendering.
//
//nolint:mnd,ireturn
func (m TeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()

			return m, tea.Quit
		case "q":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.fullWidthWithBorders = m.width - 2

		// Progress bar should match the content width.
		m.scanProgress.Width = m.fullWidthWithBorders

		// We want the upper panel to take about 40% of the height.
		upperHeight := m.height * 2 / 5
		lowerHeight := m.height - upperHeight

		// Viewport height: lower section minus borders and title.
		viewportHeight := lowerHeight - 3

		// Set viewport width to full width minus borders.
		m.logsViewport.Width = m.fullWidthWithBorders
		m.logsViewport.Height = viewportHeight

		// Update viewport content with current logs.
		if len(m.logs) > 0 {
			logs := lipgloss.NewStyle().
				Width(m.logsViewport.Width).
				Render(strings.TrimSuffix(strings.Join(m.logs, ""), "\n"))

			m.logsViewport.SetContent(logs)
			m.logsViewport.GotoBottom()
		}

		if !m.ready {
			m.ready = true
			m.uiHandler.Ready.Store(true)
		}

	case ScanProgressMsg:
		m.scanData = msg.scanData

		cmds = append(cmds,
			m.scanProgress.SetPercent(m.scanData.ProgressPct/100),
		)

		// Queue the next update.
		cmds = append(cmds, updateScanProgress(m.tracker))

	case LogMsg:
		logMsg := string(msg)

		if len(m.logs) >= 100 {
			m.logs = m.logs[1:]
		}

		m.logs = append(m.logs, logMsg)

		logs := lipgloss.NewStyle().
			Width(m.logsViewport.Width).
			Render(strings.TrimSuffix(strings.Join(m.logs, ""), "\n"))

		m.logsViewport.SetContent(logs)
		m.logsViewport.GotoBottom()

	case progress.FrameMsg:
		updatedScan, cmd := m.scanProgress.Update(msg)
		if progressModel, ok := updatedScan.(progress.Model); ok {
			m.scanProgress = progressModel
		}
		cmds = append(cmds, cmd)
	}

	// Handle viewport updates.
	m.logsViewport, cmd = m.logsViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View is the principal rendering function of the model.
func (m TeaModel) View() string {
	if !m.ready {
		return "Loading the GUI..."
	}

	var s strings.Builder

	scanSection := borderStyle.
		Width(m.fullWidthWithBorders).
		Render(m.formatProgressView("Scan", m.scanProgress.View(), m.scanData))

	logsSection := borderStyle.
		Width(m.fullWidthWithBorders).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Left,
				titleStyle.Width(m.fullWidthWithBorders).Render("Report Output"),
				lipgloss.NewStyle().Width(m.fullWidthWithBorders).Render(m.logsViewport.View()),
			),
		)

	helpSection := helpStyle.
		Width(m.fullWidthWithBorders).
		Render("q: quit gui • ctrl+c: quit program")

	s.WriteString(lipgloss.JoinVertical(
		lipgloss.Left,
		scanSection,
		logsSection,
		helpSection,
	))

	return s.String()
}

// formatProgressView is a helper function for rendering the progress panel.
func (m TeaModel) formatProgressView(title string, progressBar string, progress scan.Progress) string {
	var timeLeftMin float64

	if !progress.ETA.IsZero() {
		timeLeftMin = time.Until(progress.ETA).Minutes()
	}

	var details string
	if !progress.HasFinished {
		details = fmt.Sprintf(
			"Progress: %.2f%% (%d/%d)\n"+
				"Files: Stale=%d, Seen=%s\n"+
				"Time: Started=%v, ETA=%v (%.1f%s left)\n",
			progress.ProgressPct,
			progress.ProcessedItems,
			progress.TotalItems,
			progress.StaleItems,
			humanize.Bytes(progress.TotalBytes),
			progress.StartTime.Format("15:04:05"),
			progress.ETA.Format("15:04:05"),
			timeLeftMin, "min",
		)
	} else {
		details = fmt.Sprintf(
			"Progress: %.2f%% (%d/%d)\n"+
				"Files: Stale=%d, Seen=%s\n"+
				"Time: Started=%v, Finished=%v\n",
			progress.ProgressPct,
			progress.ProcessedItems,
			progress.TotalItems,
			progress.StaleItems,
			humanize.Bytes(progress.TotalBytes),
			progress.StartTime.Format("15:04:05"),
			progress.FinishTime.Format("15:04:05"),
		)
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Width(m.fullWidthWithBorders).Render(title),
		"", // Empty line for spacing.
		progressBar,
		"", // Empty line for spacing.
		infoStyle.Width(m.fullWidthWithBorders).Render(details),
	)

	return content
}
