package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/walink/whatsapp-link-cli/internal/application"
	"github.com/walink/whatsapp-link-cli/internal/domain"
)

type pairChangeMsg struct {
	change application.PhaseChange
}

type pairWaitSpinnerModel struct {
	spinner spinner.Model
	changes <-chan application.PhaseChange
	phase   domain.Phase
	final   application.PhaseChange
	done    bool
}

func newPairWaitSpinnerModel(changes <-chan application.PhaseChange) pairWaitSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return pairWaitSpinnerModel{
		spinner: s,
		changes: changes,
		phase:   domain.PhaseAwaitingScan,
	}
}

func (m pairWaitSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForChange(m.changes))
}

func (m pairWaitSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case pairChangeMsg:
		if msg.change.Phase.Active() {
			m.phase = msg.change.Phase
			return m, waitForChange(m.changes)
		}
		m.done = true
		m.final = msg.change
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m pairWaitSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), waitLabel(m.phase))
}

func waitLabel(phase domain.Phase) string {
	switch phase {
	case domain.PhaseConnecting:
		return "Scan accepted, finishing the link..."
	default:
		return "Waiting for you to scan the code..."
	}
}

func waitForChange(changes <-chan application.PhaseChange) tea.Cmd {
	return func() tea.Msg {
		return pairChangeMsg{change: <-changes}
	}
}

func runPairWaitSpinner(ctx context.Context, output io.Writer, changes <-chan application.PhaseChange) (application.PhaseChange, error) {
	p := tea.NewProgram(
		newPairWaitSpinnerModel(changes),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return application.PhaseChange{}, err
	}

	result, ok := finalModel.(pairWaitSpinnerModel)
	if !ok {
		return application.PhaseChange{}, fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.final, nil
}
