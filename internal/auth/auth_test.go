package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const secret = "test-secret"

func TestIssueAndParseToken(t *testing.T) {
	tok, err := IssueToken("uid-1", "a@b.com", "patient", secret, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.UserID != "uid-1" {
		t.Errorf("uid: got %s", c.UserID)
	}
	if c.Email != "a@b.com" {
		t.Errorf("email: got %s", c.Email)
	}
	if c.Role != "patient" {
		t.Errorf("role: got %s", c.Role)
	}

	// expiry roughly ttl from now
	diff := time.Until(c.ExpiresAt.Time)
	if diff < 59*time.Minute || diff > 61*time.Minute {
		t.Errorf("expected ~1h expiry, got %v", diff)
	}
}

func TestParseTokenExpired(t *testing.T) {
	tok, err := IssueToken("uid-1", "a@b.com", "patient", secret, -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = ParseToken(tok, secret)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseTokenInvalid(t *testing.T) {
	tok, _ := IssueToken("uid-1", "a@b.com", "patient", secret, time.Hour)

	tests := []struct {
		name string
		raw  string
	}{
		{"wrong secret parses with other key", tok},
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"tampered payload", tamper(tok)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec := secret
			if tt.name == "wrong secret parses with other key" {
				sec = "other-secret"
			}
			_, err := ParseToken(tt.raw, sec)
			if !errors.Is(err, ErrBadToken) {
				t.Fatalf("expected ErrBadToken, got %v", err)
			}
		})
	}
}

// tamper flips a character in the payload segment so the signature no longer matches
func tamper(tok string) string {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 || len(parts[1]) == 0 {
		return tok
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)
	return strings.Join(parts, ".")
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword(hash, "hunter22") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "hunter23") {
		t.Error("wrong password accepted")
	}
}
