package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/gvariant"
	"github.com/wippyai/gvariant/signature"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	strStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	numStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	enumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DDA0DD"))

	nothingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	result   string
	inputs   []textinput.Model
	focusIdx int
	state    modelState
}

type modelState int

const (
	stateInput modelState = iota
	stateShowResult
)

const (
	fieldSignature = iota
	fieldPayload
)

func newInteractiveModel(typeSig, hexStr string) *interactiveModel {
	sigInput := textinput.New()
	sigInput.Placeholder = "a{sv}"
	sigInput.Prompt = "type: "
	sigInput.Width = 40
	sigInput.SetValue(typeSig)
	sigInput.Focus()

	payloadInput := textinput.New()
	payloadInput.Placeholder = "05 00 00 00 00 69"
	payloadInput.Prompt = "hex:  "
	payloadInput.Width = 60
	payloadInput.SetValue(hexStr)

	return &interactiveModel{
		inputs: []textinput.Model{sigInput, payloadInput},
		state:  stateInput,
	}
}

type decodeResultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateShowResult {
				return m, tea.Quit
			}

		case "enter":
			switch m.state {
			case stateInput:
				return m, m.decodePayload
			case stateShowResult:
				m.state = stateInput
				m.result = ""
				m.err = nil
				return m, nil
			}

		case "tab":
			if m.state == stateInput {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			if m.state == stateShowResult {
				m.state = stateInput
				m.result = ""
				m.err = nil
			}
		}

	case decodeResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInput {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) decodePayload() tea.Msg {
	sig, err := signature.Parse(m.inputs[fieldSignature].Value())
	if err != nil {
		return decodeResultMsg{err: err}
	}

	data, err := parseHex(m.inputs[fieldPayload].Value())
	if err != nil {
		return decodeResultMsg{err: err}
	}

	value, err := gvariant.Deserialize(data, string(sig))
	if err != nil {
		return decodeResultMsg{err: err}
	}

	return decodeResultMsg{result: renderValue(value, 0)}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("gvdump"))
	b.WriteString("\n\n")

	switch m.state {
	case stateInput:
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter decode • ctrl+c quit"))

	case stateShowResult:
		sig := m.inputs[fieldSignature].Value()
		b.WriteString(fmt.Sprintf("Decoded %s:\n\n", typeStyle.Render(sig)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter again • q quit"))
	}

	return b.String()
}

func runInteractive(typeSig, hexStr, file string) error {
	if file != "" && hexStr == "" {
		data, err := loadPayload("", file)
		if err != nil {
			return err
		}
		var hexParts []string
		for _, by := range data {
			hexParts = append(hexParts, fmt.Sprintf("%02x", by))
		}
		hexStr = strings.Join(hexParts, " ")
	}

	p := tea.NewProgram(newInteractiveModel(typeSig, hexStr), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
