package impl

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"voting/internal/domain"
	"voting/internal/dto"
	"voting/internal/store"
)

func rosterFixture(t *testing.T, failFor ...string) (*RosterServiceImpl, *store.Store, *domain.VotingSession, *recordingSender) {
	t.Helper()

	st := setupStore(t)
	now := time.Now().UTC()
	sess := seedSession(t, st, domain.StatusDraft, now, now.Add(time.Hour))
	seedCandidate(t, st, sess.ID, "Alice Candidate", 1)

	sender := &recordingSender{failFor: map[string]bool{}}
	for _, email := range failFor {
		sender.failFor[email] = true
	}

	creds := newTestCredentialService(st, time.Hour)
	svc := NewRosterServiceImpl(st, creds, sender, nopAudit{})
	return svc, st, sess, sender
}

func TestRosterUploadMixedBatch(t *testing.T) {
	svc, st, sess, sender := rosterFixture(t, "bob@example.com")
	ctx := context.Background()

	resp, err := svc.Upload(ctx, dto.UploadVotersRequest{
		SessionID: sess.ID.String(),
		Emails: []string{
			"  Alice@Example.com ",
			"not-an-email",
			"alice@example.com", // in-batch duplicate of the first entry
			"bob@example.com",
		},
	}, nopActor())
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if resp.TotalProcessed != 4 || resp.ValidEmails != 2 {
		t.Fatalf("unexpected counts: %+v", resp)
	}
	if len(resp.InvalidEmails) != 1 || resp.InvalidEmails[0] != "not-an-email" {
		t.Fatalf("unexpected invalid list: %v", resp.InvalidEmails)
	}
	if len(resp.DuplicateEmails) != 1 || resp.DuplicateEmails[0] != "alice@example.com" {
		t.Fatalf("unexpected duplicate list: %v", resp.DuplicateEmails)
	}
	if resp.EmailsSent != 1 || resp.EmailsFailed != 1 {
		t.Fatalf("unexpected delivery counts: %+v", resp)
	}
	if len(resp.DeliveryErrors) != 1 || !strings.HasPrefix(resp.DeliveryErrors[0], "bob@example.com:") {
		t.Fatalf("unexpected delivery errors: %v", resp.DeliveryErrors)
	}

	// email_sent_at tracks per-recipient outcomes, not batch position.
	alice, err := st.Voters().GetByEmail(ctx, sess.ID, "alice@example.com")
	if err != nil {
		t.Fatalf("alice row: %v", err)
	}
	if alice.EmailSentAt == nil {
		t.Fatalf("delivered recipient missing email_sent_at")
	}
	bob, err := st.Voters().GetByEmail(ctx, sess.ID, "bob@example.com")
	if err != nil {
		t.Fatalf("bob row: %v", err)
	}
	if bob.EmailSentAt != nil {
		t.Fatalf("failed recipient must not be stamped as sent")
	}

	// Session counters reflect the batch.
	updated, err := st.Sessions().GetByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("session reload: %v", err)
	}
	if updated.TotalInvited != 2 || updated.EmailsSent != 1 {
		t.Fatalf("unexpected session counters: invited=%d sent=%d", updated.TotalInvited, updated.EmailsSent)
	}

	// The delivered invitation carries the raw token and election context.
	if len(sender.invitations) != 1 {
		t.Fatalf("expected one delivered invitation, got %d", len(sender.invitations))
	}
	inv := sender.invitations[0]
	if inv.Email != "alice@example.com" || inv.Token == "" || inv.SessionTitle != sess.Title {
		t.Fatalf("unexpected invitation: %+v", inv)
	}
	if len(inv.CandidateNames) != 1 || inv.CandidateNames[0] != "Alice Candidate" {
		t.Fatalf("invitation missing candidate names: %+v", inv.CandidateNames)
	}
}

func TestRosterUploadReUploadReportsDuplicates(t *testing.T) {
	svc, st, sess, _ := rosterFixture(t)
	ctx := context.Background()

	if _, err := svc.Upload(ctx, dto.UploadVotersRequest{
		SessionID: sess.ID.String(),
		Emails:    []string{"alice@example.com"},
	}, nopActor()); err != nil {
		t.Fatalf("first upload: %v", err)
	}

	resp, err := svc.Upload(ctx, dto.UploadVotersRequest{
		SessionID: sess.ID.String(),
		Emails:    []string{"alice@example.com", "carol@example.com"},
	}, nopActor())
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if resp.ValidEmails != 1 {
		t.Fatalf("expected one new voter, got %d", resp.ValidEmails)
	}
	if len(resp.DuplicateEmails) != 1 || resp.DuplicateEmails[0] != "alice@example.com" {
		t.Fatalf("re-upload not reported as duplicate: %v", resp.DuplicateEmails)
	}

	voters, err := st.Voters().List(ctx, sess.ID)
	if err != nil {
		t.Fatalf("list voters: %v", err)
	}
	if len(voters) != 2 {
		t.Fatalf("expected 2 roster rows, got %d", len(voters))
	}
}

func TestRosterUploadRejections(t *testing.T) {
	svc, st, sess, _ := rosterFixture(t)
	ctx := context.Background()

	if _, err := svc.Upload(ctx, dto.UploadVotersRequest{SessionID: sess.ID.String()}, nopActor()); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty batch, got %v", err)
	}
	if _, err := svc.Upload(ctx, dto.UploadVotersRequest{SessionID: "nope", Emails: []string{"a@b.co"}}, nopActor()); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for malformed id, got %v", err)
	}

	resp, err := svc.Upload(ctx, dto.UploadVotersRequest{
		SessionID: sess.ID.String(),
		Emails:    []string{"junk", "also junk"},
	}, nopActor())
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for all-invalid batch, got %v", err)
	}
	if resp == nil || len(resp.InvalidEmails) != 2 {
		t.Fatalf("expected the per-email breakdown alongside the error, got %+v", resp)
	}

	active := seedSession(t, st, domain.StatusActive, time.Now().UTC(), time.Now().UTC().Add(time.Hour))
	seedCandidate(t, st, active.ID, "X", 1)
	if _, err := svc.Upload(ctx, dto.UploadVotersRequest{
		SessionID: active.ID.String(),
		Emails:    []string{"late@example.com"},
	}, nopActor()); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for active session, got %v", err)
	}
}

func TestRosterListSummaries(t *testing.T) {
	svc, _, sess, _ := rosterFixture(t)
	ctx := context.Background()

	if _, err := svc.Upload(ctx, dto.UploadVotersRequest{
		SessionID: sess.ID.String(),
		Emails:    []string{"zoe@example.com", "adam@example.com"},
	}, nopActor()); err != nil {
		t.Fatalf("upload: %v", err)
	}

	out, err := svc.List(ctx, sess.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 || out[0].Email != "adam@example.com" || out[1].Email != "zoe@example.com" {
		t.Fatalf("expected summaries ordered by email, got %+v", out)
	}
	if out[0].EmailSentAt == nil || out[0].VotedAt != nil {
		t.Fatalf("unexpected summary flags: %+v", out[0])
	}
}
