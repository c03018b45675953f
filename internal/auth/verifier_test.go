package auth

import (
	"errors"
	"testing"
	"time"
)

func TestVerifyRoundTrip(t *testing.T) {
	v := NewJWTVerifier("test-secret")

	token, err := v.Sign("Alice", time.Minute)
	if err != nil {
		t.Fatalf("Sign() unexpected error: %v", err)
	}

	user, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if user != "alice" {
		t.Errorf("Verify() = %q, want normalized alice", user)
	}
}

func TestVerifyRejects(t *testing.T) {
	v := NewJWTVerifier("test-secret")

	expired, err := v.Sign("alice", -time.Minute)
	if err != nil {
		t.Fatalf("Sign() unexpected error: %v", err)
	}

	foreign, err := NewJWTVerifier("other-secret").Sign("alice", time.Minute)
	if err != nil {
		t.Fatalf("Sign() unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty", token: "", wantErr: ErrInvalidToken},
		{name: "garbage", token: "not.a.jwt", wantErr: ErrInvalidToken},
		{name: "wrong secret", token: foreign, wantErr: ErrInvalidToken},
		{name: "expired", token: expired, wantErr: ErrExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Verify(tt.token); !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
