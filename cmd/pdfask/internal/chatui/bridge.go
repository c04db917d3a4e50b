package chatui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/germanamz/pdfask/pkg/conversation"
)

// startBridge forwards conversation events to the program. The goroutine only
// calls p.Send(); it never touches model state. The returned cancel function
// stops the bridge and waits for it to exit.
func startBridge(ctx context.Context, p *tea.Program, store *conversation.Store) context.CancelFunc {
	bridgeCtx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	sub := store.Subscribe(64)

	wg.Go(func() {
		defer store.Unsubscribe(sub)
		for {
			select {
			case <-bridgeCtx.Done():
				return
			case ev, ok := <-sub.C:
				if !ok {
					return
				}
				p.Send(storeEventMsg{event: ev})
			}
		}
	})

	return func() {
		cancel()
		wg.Wait()
	}
}
