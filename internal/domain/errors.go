package domain

import "errors"

var (
	// ErrInvalidCredential covers every credential rejection (bad signature,
	// malformed token, wrong issuer/audience, expiry). The internal cause is
	// logged server-side only so the error cannot be used as an oracle.
	ErrInvalidCredential = errors.New("invalid or expired voting token")

	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidState     = errors.New("invalid session state")
	ErrDuplicateVoter   = errors.New("voter already registered for session")
	ErrNotAuthorized    = errors.New("not authorized to vote in this session")
	ErrAlreadyVoted     = errors.New("vote already cast")
	ErrInvalidCandidate = errors.New("invalid candidate selection")
	ErrSessionClosed    = errors.New("voting session is not open")
	ErrValidation       = errors.New("invalid input")
	ErrNotFound         = errors.New("record not found")
	ErrStorage          = errors.New("storage failure")
)
