package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/bus"
)

// Run opens the UI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, svc *app.Service) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m, err := New(ctx, svc)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Send blocks until the event loop reads, and the loop may be waiting on
	// the Service, so events go through a queue instead.
	fwd := newForwarder(func(ev bus.Event) {
		p.Send(changedMsg{ev})
	})
	unsubscribe := svc.Subscribe(fwd.push)
	defer func() {
		unsubscribe()
		fwd.stop()
	}()

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err = p.Run()
	return err
}
