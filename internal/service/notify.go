package service

import (
	"context"
	"time"
)

// Invitation is everything the delivery channel needs to render a voting link
// message. The token rides along as an opaque string; this package does not
// know or care how the channel transports it.
type Invitation struct {
	Email          string
	Token          string
	SessionTitle   string
	CandidateNames []string
	Deadline       time.Time
}

// Confirmation is the post-vote receipt message. It carries the verification
// code, never the chosen candidate.
type Confirmation struct {
	Email            string
	SessionTitle     string
	VerificationCode string
	CastAt           time.Time
}

// DeliveryResult is the per-recipient outcome contract: success is tracked by
// explicit result, not by position in the submitted batch.
type DeliveryResult struct {
	Email     string
	Delivered bool
	Err       string
}

// NotificationSender is the external delivery collaborator.
type NotificationSender interface {
	SendInvitation(ctx context.Context, inv Invitation) error
	SendConfirmation(ctx context.Context, c Confirmation) error
}
