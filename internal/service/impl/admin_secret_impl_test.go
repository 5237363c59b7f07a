package impl

import (
	"errors"
	"testing"
)

func TestAdminSecretVerifier(t *testing.T) {
	if _, err := NewAdminSecretVerifier(""); !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("expected ErrEmptySecret, got %v", err)
	}

	v, err := NewAdminSecretVerifier("correct horse battery staple")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	if !v.Verify("correct horse battery staple") {
		t.Fatalf("correct secret rejected")
	}
	for _, bad := range []string{"", "wrong", "correct horse battery staple "} {
		if v.Verify(bad) {
			t.Fatalf("accepted wrong secret %q", bad)
		}
	}
}
