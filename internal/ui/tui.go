// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the editor
package ui

import (
	"context"

	"github.com/Resonate-Protocol/wavecut/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// NewModel creates a new editor model over s
func NewModel(ctx context.Context, s *session.Session) Model {
	status := &statusLine{text: "Press m to place markers"}
	for _, tr := range s.Tracks {
		tr.Subscribe(markerStatus(tr, status))
	}

	return Model{
		session: s,
		ctx:     ctx,
		cursor:  make([]int, len(s.Tracks)),
		busy:    make([]bool, len(s.Tracks)),
		status:  status,
	}
}

// Run starts the editor and blocks until the user quits
func Run(ctx context.Context, s *session.Session) error {
	p := tea.NewProgram(NewModel(ctx, s), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
