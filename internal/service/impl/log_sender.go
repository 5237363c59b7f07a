package impl

import (
	"context"
	"log/slog"

	"voting/internal/service"
)

// LogSender is the development stand-in for the real delivery channel: it
// logs that a message would go out without ever printing the token itself.
type LogSender struct{}

func NewLogSender() *LogSender { return &LogSender{} }

func (LogSender) SendInvitation(ctx context.Context, inv service.Invitation) error {
	slog.Info("invitation (not delivered: log sender)",
		"to", inv.Email,
		"session", inv.SessionTitle,
		"candidates", len(inv.CandidateNames),
		"deadline", inv.Deadline,
	)
	return nil
}

func (LogSender) SendConfirmation(ctx context.Context, c service.Confirmation) error {
	slog.Info("vote confirmation (not delivered: log sender)",
		"to", c.Email,
		"session", c.SessionTitle,
	)
	return nil
}
