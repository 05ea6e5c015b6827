package pairing

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/walink/whatsapp-link-cli/internal/domain"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	session domain.Session
	opts    RenderOptions
	styles  styles
	output  string
}

func newModel(session domain.Session, opts RenderOptions) model {
	return model{
		session: session,
		opts:    opts,
		styles:  newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.session, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render produces a one-shot snapshot of a pairing session. It runs a
// bubbletea program to completion with no input so the output composes with
// plain command pipelines.
func Render(session domain.Session, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(session, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
