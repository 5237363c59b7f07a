package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// RFC 5322 caps addresses at 254 octets; anything longer is rejected outright.
const maxEmailLength = 254

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail lower-cases and trims an address. All voter identity
// derivations run through this so the same mailbox always maps to the same
// pseudonym regardless of how the admin typed it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return len(email) <= maxEmailLength && emailPattern.MatchString(email)
}

// VoterHash derives the fixed pseudonym for an email address. Deliberately
// unsalted: duplicate detection must work across separately issued credentials
// for the same mailbox, which rules out per-issuance secret material.
func VoterHash(email string) string {
	sum := sha256.Sum256([]byte(NormalizeEmail(email)))
	return hex.EncodeToString(sum[:])
}

// CredentialHash is the storable fingerprint of a serialized token. Only this
// hash is persisted; the raw token goes out on the notification channel and is
// never recoverable from storage.
func CredentialHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// NewVerificationCode returns the human-facing vote receipt: 16 random bytes
// as upper-case hex, carrying no information about the chosen candidate.
func NewVerificationCode() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
