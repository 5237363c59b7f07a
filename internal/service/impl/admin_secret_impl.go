package impl

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

type argon2Params struct {
	Time    uint32 // iterations
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// AdminSecretVerifier holds an argon2id digest of the configured admin secret,
// derived once at startup. Verification is constant-time on the derived keys,
// so header probes cannot time their way to the secret.
type AdminSecretVerifier struct {
	params argon2Params
	salt   []byte
	hash   []byte
}

func NewAdminSecretVerifier(secret string) (*AdminSecretVerifier, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	p := argon2Params{
		Time:    2,
		Memory:  19 * 1024, // 19 MiB
		Threads: 1,
		KeyLen:  32,
		SaltLen: 16,
	}
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	hash := argon2.IDKey([]byte(secret), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	return &AdminSecretVerifier{params: p, salt: salt, hash: hash}, nil
}

func (v *AdminSecretVerifier) Verify(presented string) bool {
	if presented == "" {
		return false
	}
	calculated := argon2.IDKey([]byte(presented), v.salt, v.params.Time, v.params.Memory, v.params.Threads, v.params.KeyLen)
	return subtle.ConstantTimeCompare(calculated, v.hash) == 1
}
