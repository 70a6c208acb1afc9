package chat

import (
	"context"
	"fmt"
)

// Run starts the chat UI for session and cancels its context when the UI exits.
func Run(session *Session, startGUI func(context.Context, *Session, context.CancelFunc) error) error {
	if session == nil {
		return fmt.Errorf("chat: nil session")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := startGUI(ctx, session, cancel); err != nil {
		return fmt.Errorf("running chat program: %w", err)
	}
	return nil
}
