package service

import (
	"context"

	"voting/internal/domain"
)

// CredentialClaims is the decoded payload of a verified voting credential.
type CredentialClaims struct {
	Email     string
	SessionID domain.SessionID
	VoterHash string
}

// CredentialIssuance pairs the raw signed token (handed to the notification
// channel, never persisted) with the roster row that stores only its hash.
type CredentialIssuance struct {
	Token string
	Voter *domain.AuthorizedVoter
}

type CredentialService interface {
	Issue(ctx context.Context, sessionID domain.SessionID, email string) (*CredentialIssuance, error)
	Verify(token string) (*CredentialClaims, error)
}
