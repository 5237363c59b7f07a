package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"voting/internal/domain"
	"voting/internal/dto"
	"voting/internal/observability/metrics"
	"voting/internal/service"
	"voting/internal/store"

	"github.com/google/uuid"
)

type RosterServiceImpl struct {
	store       *store.Store
	credentials service.CredentialService
	sender      service.NotificationSender
	audit       service.AuditRecorder
}

func NewRosterServiceImpl(st *store.Store, creds service.CredentialService, sender service.NotificationSender, audit service.AuditRecorder) *RosterServiceImpl {
	return &RosterServiceImpl{store: st, credentials: creds, sender: sender, audit: audit}
}

// Upload processes a bulk email list for a draft session: validate, dedupe,
// mint a credential per new voter, deliver invitations, and stamp
// email_sent_at strictly from per-recipient delivery results.
func (r *RosterServiceImpl) Upload(ctx context.Context, req dto.UploadVotersRequest, actor service.Actor) (*dto.UploadVotersResponse, error) {
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed session id", domain.ErrValidation)
	}
	if len(req.Emails) == 0 {
		return nil, fmt.Errorf("%w: emails are required", domain.ErrValidation)
	}

	sess, err := r.store.Sessions().GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if sess.Status != domain.StatusDraft {
		return nil, fmt.Errorf("%w: voters can only be added to draft sessions", domain.ErrInvalidState)
	}

	candidates, err := r.store.Candidates().ListActive(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: session has no candidates", domain.ErrInvalidState)
	}
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Name
	}

	resp := &dto.UploadVotersResponse{TotalProcessed: len(req.Emails)}
	seen := map[string]bool{}
	var invitations []service.Invitation

	for _, raw := range req.Emails {
		email := domain.NormalizeEmail(raw)
		if !domain.ValidEmail(email) {
			resp.InvalidEmails = append(resp.InvalidEmails, email)
			continue
		}
		if seen[email] {
			resp.DuplicateEmails = append(resp.DuplicateEmails, email)
			continue
		}
		seen[email] = true

		issued, err := r.credentials.Issue(ctx, sessionID, email)
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateVoter) {
				resp.DuplicateEmails = append(resp.DuplicateEmails, email)
				continue
			}
			return nil, err
		}
		resp.ValidEmails++
		invitations = append(invitations, service.Invitation{
			Email:          email,
			Token:          issued.Token,
			SessionTitle:   sess.Title,
			CandidateNames: names,
			Deadline:       sess.EndTime,
		})
	}

	if resp.ValidEmails == 0 {
		return resp, fmt.Errorf("%w: no valid new emails to process", domain.ErrValidation)
	}

	now := time.Now().UTC()
	for _, res := range r.deliver(ctx, invitations) {
		if res.Delivered {
			resp.EmailsSent++
			if err := r.store.Voters().MarkEmailSent(ctx, sessionID, res.Email, now); err != nil {
				slog.Warn("failed to stamp email_sent_at", "error", err, "session_id", sessionID)
			}
		} else {
			resp.EmailsFailed++
			resp.DeliveryErrors = append(resp.DeliveryErrors, fmt.Sprintf("%s: %s", res.Email, res.Err))
		}
	}

	if err := r.store.Sessions().AddInviteCounts(ctx, sessionID, resp.ValidEmails, resp.EmailsSent); err != nil {
		slog.Warn("failed to bump session invite counters", "error", err, "session_id", sessionID)
	}

	r.audit.Record(ctx, domain.AuditLogEntry{
		VotingSessionID: &sessionID,
		Action:          domain.ActionVotersAdded,
		EntityType:      "voting_session",
		EntityID:        sessionID.String(),
		Details: service.Details(map[string]any{
			"totalEmails":     resp.TotalProcessed,
			"validEmails":     resp.ValidEmails,
			"invalidEmails":   len(resp.InvalidEmails),
			"duplicateEmails": len(resp.DuplicateEmails),
			"emailsSent":      resp.EmailsSent,
			"emailsFailed":    resp.EmailsFailed,
		}),
		Actor: actor.Email,
		IP:    actor.IP,
	})

	slog.Info("voter roster uploaded",
		"session_id", sessionID,
		"valid", resp.ValidEmails,
		"sent", resp.EmailsSent,
		"failed", resp.EmailsFailed,
	)
	return resp, nil
}

// deliver fans invitations out to the sender and reports each recipient's
// outcome explicitly; batch position means nothing.
func (r *RosterServiceImpl) deliver(ctx context.Context, invitations []service.Invitation) []service.DeliveryResult {
	results := make([]service.DeliveryResult, 0, len(invitations))
	for _, inv := range invitations {
		res := service.DeliveryResult{Email: inv.Email, Delivered: true}
		if err := r.sender.SendInvitation(ctx, inv); err != nil {
			res.Delivered = false
			res.Err = err.Error()
			metrics.InvitationsDeliveredTotal.WithLabelValues("failure").Inc()
		} else {
			metrics.InvitationsDeliveredTotal.WithLabelValues("success").Inc()
		}
		results = append(results, res)
	}
	return results
}

func (r *RosterServiceImpl) List(ctx context.Context, sessionID domain.SessionID) ([]dto.VoterSummary, error) {
	voters, err := r.store.Voters().List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	out := make([]dto.VoterSummary, len(voters))
	for i, v := range voters {
		out[i] = dto.VoterSummary{
			Email:       v.Email,
			EmailSentAt: v.EmailSentAt,
			VotedAt:     v.VotedAt,
			CreatedAt:   v.CreatedAt,
		}
	}
	return out, nil
}
