package impl

import (
	"context"
	"errors"
	"testing"
	"time"

	"voting/internal/domain"
	"voting/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var testSigningKey = []byte("unit-test-signing-key")

func newTestCredentialService(st *store.Store, ttl time.Duration) *CredentialServiceImpl {
	return NewCredentialServiceHS256(CredentialConfig{
		Issuer:     "voting-service",
		Audience:   "voters",
		TTL:        ttl,
		SigningKey: testSigningKey,
	}, st)
}

func TestCredentialIssueAndVerifyRoundTrip(t *testing.T) {
	st := setupStore(t)
	now := time.Now().UTC()
	sess := seedSession(t, st, domain.StatusDraft, now, now.Add(time.Hour))
	seedCandidate(t, st, sess.ID, "Alice Candidate", 1)

	svc := newTestCredentialService(st, time.Hour)
	ctx := context.Background()

	issued, err := svc.Issue(ctx, sess.ID, "  Voter@Example.COM ")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.Token == "" {
		t.Fatalf("expected a signed token")
	}
	if issued.Voter.Email != "voter@example.com" {
		t.Fatalf("email not normalized: %q", issued.Voter.Email)
	}
	if issued.Voter.TokenHash != domain.CredentialHash(issued.Token) {
		t.Fatalf("stored hash does not match token")
	}
	if issued.Voter.TokenHash == issued.Token {
		t.Fatalf("raw token must not be stored")
	}

	stored, err := st.Voters().GetByEmail(ctx, sess.ID, "voter@example.com")
	if err != nil {
		t.Fatalf("voter not persisted: %v", err)
	}
	if stored.VotedAt != nil {
		t.Fatalf("fresh voter should not be marked voted")
	}

	claims, err := svc.Verify(issued.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Email != "voter@example.com" {
		t.Fatalf("unexpected email in claims: %q", claims.Email)
	}
	if claims.SessionID != sess.ID {
		t.Fatalf("unexpected session in claims: %s", claims.SessionID)
	}
	if claims.VoterHash != domain.VoterHash("voter@example.com") {
		t.Fatalf("unexpected voter hash in claims")
	}
}

func TestCredentialIssueRejectsDuplicateVoter(t *testing.T) {
	st := setupStore(t)
	now := time.Now().UTC()
	sess := seedSession(t, st, domain.StatusDraft, now, now.Add(time.Hour))
	seedCandidate(t, st, sess.ID, "Alice Candidate", 1)

	svc := newTestCredentialService(st, time.Hour)
	ctx := context.Background()

	if _, err := svc.Issue(ctx, sess.ID, "voter@example.com"); err != nil {
		t.Fatalf("first issue: %v", err)
	}
	// Case and whitespace variants are the same mailbox.
	if _, err := svc.Issue(ctx, sess.ID, " VOTER@example.com"); !errors.Is(err, domain.ErrDuplicateVoter) {
		t.Fatalf("expected ErrDuplicateVoter, got %v", err)
	}
}

func TestCredentialIssuePreconditions(t *testing.T) {
	st := setupStore(t)
	now := time.Now().UTC()

	active := seedSession(t, st, domain.StatusActive, now, now.Add(time.Hour))
	seedCandidate(t, st, active.ID, "X", 1)

	empty := seedSession(t, st, domain.StatusDraft, now, now.Add(time.Hour))

	draft := seedSession(t, st, domain.StatusDraft, now, now.Add(time.Hour))
	seedCandidate(t, st, draft.ID, "Y", 1)

	svc := newTestCredentialService(st, time.Hour)
	ctx := context.Background()

	cases := []struct {
		name      string
		sessionID domain.SessionID
		email     string
		want      error
	}{
		{name: "malformed email", sessionID: draft.ID, email: "not-an-email", want: domain.ErrValidation},
		{name: "unknown session", sessionID: uuid.New(), email: "a@example.com", want: domain.ErrNotFound},
		{name: "session not draft", sessionID: active.ID, email: "a@example.com", want: domain.ErrInvalidState},
		{name: "no candidates", sessionID: empty.ID, email: "a@example.com", want: domain.ErrInvalidState},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Issue(ctx, tc.sessionID, tc.email); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCredentialVerifyRejectsExpired(t *testing.T) {
	st := setupStore(t)
	now := time.Now().UTC()
	sess := seedSession(t, st, domain.StatusDraft, now, now.Add(time.Hour))
	seedCandidate(t, st, sess.ID, "Alice Candidate", 1)

	expired := newTestCredentialService(st, -time.Minute)
	issued, err := expired.Issue(context.Background(), sess.ID, "late@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := expired.Verify(issued.Token); !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential for expired token, got %v", err)
	}
}

func TestCredentialVerifyRejectsForgeries(t *testing.T) {
	st := setupStore(t)
	now := time.Now().UTC()
	sess := seedSession(t, st, domain.StatusDraft, now, now.Add(time.Hour))
	seedCandidate(t, st, sess.ID, "Alice Candidate", 1)

	svc := newTestCredentialService(st, time.Hour)
	issued, err := svc.Issue(context.Background(), sess.ID, "voter@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	sign := func(claims voterClaims, key []byte) string {
		t.Helper()
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}
	base := voterClaims{
		Email:     "voter@example.com",
		SID:       sess.ID.String(),
		VoterHash: domain.VoterHash("voter@example.com"),
		Purpose:   credentialPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "voting-service",
			Audience:  jwt.ClaimStrings{"voters"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	wrongKey := base
	wrongIssuer := base
	wrongIssuer.Issuer = "someone-else"
	wrongAudience := base
	wrongAudience.Audience = jwt.ClaimStrings{"admins"}
	wrongPurpose := base
	wrongPurpose.Purpose = "password-reset"
	badSID := base
	badSID.SID = "not-a-uuid"

	cases := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.token"},
		{name: "tampered", token: issued.Token + "x"},
		{name: "wrong key", token: sign(wrongKey, []byte("other-key"))},
		{name: "wrong issuer", token: sign(wrongIssuer, testSigningKey)},
		{name: "wrong audience", token: sign(wrongAudience, testSigningKey)},
		{name: "wrong purpose", token: sign(wrongPurpose, testSigningKey)},
		{name: "malformed session id", token: sign(badSID, testSigningKey)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Verify(tc.token); !errors.Is(err, domain.ErrInvalidCredential) {
				t.Fatalf("expected ErrInvalidCredential, got %v", err)
			}
		})
	}
}
