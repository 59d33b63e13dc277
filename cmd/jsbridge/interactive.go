package main

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dop251/goja"

	"github.com/wippyai/jsbridge/errors"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	aboutStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD580"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectType modelState = iota
	stateInputExpr
	stateShowResult
)

type interactiveModel struct {
	err      error
	rt       *goja.Runtime
	result   result
	input    textinput.Model
	selected int
	state    modelState
}

type evalResultMsg struct {
	err    error
	result result
}

func newInteractiveModel(typeName string) *interactiveModel {
	m := &interactiveModel{
		rt:    goja.New(),
		state: stateSelectType,
	}
	for i, d := range demos {
		if d.name == typeName {
			m.selected = i
		}
	}
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputExpr {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectType && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectType && m.selected < len(demos)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectType:
				m.prepareInput()
				m.state = stateInputExpr
				return m, textinput.Blink

			case stateInputExpr:
				return m, m.evaluate

			case stateShowResult:
				m.state = stateInputExpr
				m.err = nil
				return m, nil
			}

		case "esc":
			switch m.state {
			case stateInputExpr:
				m.state = stateSelectType
			case stateShowResult:
				m.state = stateSelectType
				m.err = nil
			}
			return m, nil
		}

	case evalResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
		return m, nil
	}

	if m.state == stateInputExpr {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) prepareInput() {
	d := demos[m.selected]
	ti := textinput.New()
	ti.Placeholder = d.sample
	ti.Prompt = "> "
	ti.Width = 80
	ti.SetValue(d.sample)
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) evaluate() tea.Msg {
	res, err := evaluate(m.rt, demos[m.selected], m.input.Value())
	return evalResultMsg{result: res, err: err}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("jsbridge"))
	b.WriteString(" Go <-> JS round trip\n\n")

	switch m.state {
	case stateSelectType:
		b.WriteString("Select a Go type:\n\n")
		for i, d := range demos {
			line := fmt.Sprintf("%-8s %s", d.name, d.about)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + nameStyle.Render(fmt.Sprintf("%-8s", d.name)) + " " + aboutStyle.Render(d.about))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter choose • q quit"))

	case stateInputExpr:
		d := demos[m.selected]
		b.WriteString(fmt.Sprintf("Expression decoded as %s\n\n", nameStyle.Render(d.name)))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter evaluate • esc back"))

	case stateShowResult:
		d := demos[m.selected]
		b.WriteString(fmt.Sprintf("Round trip through %s:\n\n", nameStyle.Render(d.name)))
		if m.err != nil {
			b.WriteString(renderError(m.err))
		} else {
			b.WriteString("Go: " + resultStyle.Render(m.result.goValue) + "\n")
			b.WriteString("JS: " + resultStyle.Render(m.result.jsValue))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter edit • esc types • q quit"))
	}

	return b.String()
}

// renderError highlights the value path of structured errors.
func renderError(err error) string {
	var e *errors.Error
	if !stderrors.As(err, &e) || len(e.Path) == 0 {
		return errorStyle.Render(fmt.Sprintf("Error: %v", err))
	}
	return errorStyle.Render(fmt.Sprintf("Error [%s/%s] at ", e.Phase, e.Kind)) +
		pathStyle.Render(errors.FormatPath(e.Path)) + "\n" +
		errorStyle.Render(err.Error())
}

func runInteractive(typeName string) error {
	p := tea.NewProgram(newInteractiveModel(typeName), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
