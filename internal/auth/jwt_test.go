package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/postboard/internal/auth"
	"github.com/google/uuid"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)
	id := uuid.New()

	token, err := m.Generate(id, "alice", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	wantSubject := "alice" + auth.SubjectDelimiter + id.String()

	if claims.Subject != wantSubject {
		t.Fatalf("got subject %q, want %q", claims.Subject, wantSubject)
	}

	if claims.Username != "alice" || claims.Role != "user" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := auth.NewManager("secret-one", time.Hour)
	verifier := auth.NewManager("secret-two", time.Hour)

	token, err := issuer.Generate(uuid.New(), "alice", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := verifier.Verify(token); err == nil {
		t.Fatal("expected verification to fail with the wrong secret")
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)

	token, err := m.Generate(uuid.New(), "alice", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// flip a character in the payload segment
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}

	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)

	if _, err := m.Verify(strings.Join(parts, ".")); err == nil {
		t.Fatal("expected verification of a tampered token to fail")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := auth.NewManager("test-secret", -time.Minute)

	token, err := m.Generate(uuid.New(), "alice", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.Verify(token); err == nil {
		t.Fatal("expected verification of an expired token to fail")
	}
}
