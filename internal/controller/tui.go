package controller

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	m "refdata.dev/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// DiffViewer implements UI using Bubble Tea for interactive display of
// diff reports.
type DiffViewer struct {
	output io.Writer
}

// NewDiffViewer creates a new DiffViewer.
func NewDiffViewer(output io.Writer) *DiffViewer {
	return &DiffViewer{output: output}
}

// DisplayDiff shows the diff text in a scrollable viewport. Short diffs
// are printed directly without entering the alternate screen.
func (v *DiffViewer) DisplayDiff(report *m.CompareReport) error {
	if report.Clean() {
		_, err := fmt.Fprintf(v.output, "%s %s == %s\n", okStyle.Render("trees match:"), report.Ref, report.Gen)
		return err
	}

	title := fmt.Sprintf("%s  %s != %s", failStyle.Render("MISMATCH"), report.Ref, report.Gen)
	body := colorizeDiff(report.Diff)

	width, height := v.size()
	if height == 0 || strings.Count(body, "\n") <= height-3 {
		_, err := fmt.Fprintf(v.output, "%s\n%s", title, body)
		return err
	}

	model := newDiffViewerModel(title, body, width, height)

	program := tea.NewProgram(model, tea.WithOutput(v.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

// DisplaySummary lists the verify outcomes line by line; the viewer is
// meant for single diffs, so no table here.
func (v *DiffViewer) DisplaySummary(report *m.VerifyReport) error {
	for _, result := range report.Results {
		status := failStyle.Render("FAIL")

		switch {
		case result.Error != "":
			status = failStyle.Render("ERROR")
		case result.Clean:
			status = okStyle.Render("OK")
		}

		if _, err := fmt.Fprintf(v.output, "%s  %s  %s\n", status, result.Ref, result.Gen); err != nil {
			return err
		}
	}

	return nil
}

// size returns the terminal dimensions, or zeros when the output is not
// a terminal.
func (v *DiffViewer) size() (int, int) {
	if f, ok := v.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			return width, height
		}
	}

	return 0, 0
}

// colorizeDiff highlights added and removed diff lines.
func colorizeDiff(diff string) string {
	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+"):
			lines[i] = addedStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = removedStyle.Render(line)
		}
	}

	return strings.Join(lines, "\n")
}

// diffViewerModel is the Bubble Tea model wrapping the diff viewport.
type diffViewerModel struct {
	title    string
	viewport viewport.Model
	quitting bool
}

func newDiffViewerModel(title, body string, width, height int) diffViewerModel {
	vp := viewport.New(width, height-3)
	vp.SetContent(body)

	return diffViewerModel{title: title, viewport: vp}
}

func (dm diffViewerModel) Init() tea.Cmd {
	return nil
}

func (dm diffViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		dm.viewport.Width = msg.Width
		dm.viewport.Height = msg.Height - 3

		return dm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			dm.quitting = true
			return dm, tea.Quit
		}
	}

	var cmd tea.Cmd
	dm.viewport, cmd = dm.viewport.Update(msg)

	return dm, cmd
}

func (dm diffViewerModel) View() string {
	if dm.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(dm.title))
	b.WriteString("\n")
	b.WriteString(dm.viewport.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("  ↑/k: up | ↓/j: down | q: quit"))

	return b.String()
}
