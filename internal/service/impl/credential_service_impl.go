package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"voting/internal/domain"
	"voting/internal/observability/metrics"
	"voting/internal/service"
	"voting/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ====== Config ======

type CredentialConfig struct {
	Issuer     string        // e.g. "voting-service"
	Audience   string        // e.g. "voters"
	TTL        time.Duration // credential validity, measured from issuance
	SigningKey []byte        // HS256 secret
}

// credentialPurpose pins the token to one use; anything else is rejected even
// if the signature checks out.
const credentialPurpose = "ballot"

// ====== Claims ======

type voterClaims struct {
	Email     string `json:"email"`
	SID       string `json:"sid"` // voting session id
	VoterHash string `json:"vh"`
	Purpose   string `json:"purpose"`
	jwt.RegisteredClaims
}

// ====== Service ======

type CredentialServiceImpl struct {
	cfg   CredentialConfig
	store *store.Store
}

func NewCredentialServiceHS256(cfg CredentialConfig, st *store.Store) *CredentialServiceImpl {
	return &CredentialServiceImpl{cfg: cfg, store: st}
}

// Issue mints a signed, expiring credential for (session, email) and persists
// the AuthorizedVoter row holding only the token's hash. The raw token is
// returned for out-of-band delivery and never stored in recoverable form.
func (c *CredentialServiceImpl) Issue(ctx context.Context, sessionID domain.SessionID, email string) (*service.CredentialIssuance, error) {
	result := "success"
	defer func() {
		metrics.CredentialsIssuedTotal.WithLabelValues(result).Inc()
	}()

	email = domain.NormalizeEmail(email)
	if !domain.ValidEmail(email) {
		result = "failure"
		return nil, fmt.Errorf("%w: malformed email", domain.ErrValidation)
	}

	sess, err := c.store.Sessions().GetByID(ctx, sessionID)
	if err != nil {
		result = "failure"
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if sess.Status != domain.StatusDraft {
		result = "failure"
		return nil, fmt.Errorf("%w: voters can only be added to draft sessions", domain.ErrInvalidState)
	}

	candidates, err := c.store.Candidates().CountActive(ctx, sessionID)
	if err != nil {
		result = "failure"
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if candidates == 0 {
		result = "failure"
		return nil, fmt.Errorf("%w: session has no candidates", domain.ErrInvalidState)
	}

	if _, err := c.store.Voters().GetByEmail(ctx, sessionID, email); err == nil {
		result = "failure"
		return nil, domain.ErrDuplicateVoter
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		result = "failure"
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	now := time.Now().UTC()
	token, err := c.sign(email, sessionID, now)
	if err != nil {
		result = "failure"
		return nil, err
	}

	voter := &domain.AuthorizedVoter{
		ID:              uuid.New(),
		VotingSessionID: sessionID,
		Email:           email,
		TokenHash:       domain.CredentialHash(token),
		CreatedAt:       now,
	}
	if err := c.store.Voters().Create(ctx, voter); err != nil {
		// The session+email unique index closes the check-then-create race.
		result = "failure"
		return nil, domain.ErrDuplicateVoter
	}

	slog.Info("issued voting credential", "session_id", sessionID, "voter_hash", domain.VoterHash(email))

	return &service.CredentialIssuance{Token: token, Voter: voter}, nil
}

// Verify validates signature, issuer, audience and expiry, collapsing every
// failure into one opaque error so callers cannot probe which check failed.
func (c *CredentialServiceImpl) Verify(token string) (*service.CredentialClaims, error) {
	claims := &voterClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.cfg.Issuer),
		jwt.WithAudience(c.cfg.Audience),
		jwt.WithExpirationRequired(),
	)
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return c.cfg.SigningKey, nil
	})
	if err != nil || !parsed.Valid {
		slog.Debug("credential rejected", "error", err)
		return nil, domain.ErrInvalidCredential
	}
	if claims.Purpose != credentialPurpose {
		slog.Debug("credential rejected", "error", "wrong purpose")
		return nil, domain.ErrInvalidCredential
	}
	sid, err := uuid.Parse(claims.SID)
	if err != nil {
		slog.Debug("credential rejected", "error", "malformed session id")
		return nil, domain.ErrInvalidCredential
	}
	return &service.CredentialClaims{
		Email:     claims.Email,
		SessionID: sid,
		VoterHash: claims.VoterHash,
	}, nil
}

// ====== Helpers ======

func (c *CredentialServiceImpl) sign(email string, sessionID domain.SessionID, now time.Time) (string, error) {
	claims := voterClaims{
		Email:     email,
		SID:       sessionID.String(),
		VoterHash: domain.VoterHash(email),
		Purpose:   credentialPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.cfg.Issuer,
			Subject:   domain.VoterHash(email),
			Audience:  jwt.ClaimStrings{c.cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(c.cfg.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.cfg.SigningKey)
}
