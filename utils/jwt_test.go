package utils

import (
	"testing"
	"time"
)

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	t.Run("RoundTrip", func(t *testing.T) {
		token, err := issuer.GenerateToken("user-1", "a@example.com")
		if err != nil {
			t.Fatalf("Failed to generate token: %v", err)
		}
		id, err := issuer.ExtractIDFromToken(token)
		if err != nil {
			t.Fatalf("Failed to extract id: %v", err)
		}
		if id != "user-1" {
			t.Errorf("Expected subject 'user-1', got '%s'", id)
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewTokenIssuer("other-secret", time.Hour)
		token, err := other.GenerateToken("user-1", "a@example.com")
		if err != nil {
			t.Fatalf("Failed to generate token: %v", err)
		}
		if _, err := issuer.ExtractIDFromToken(token); err == nil {
			t.Fatal("Expected an error for a token signed with another secret")
		}
	})

	t.Run("Expired", func(t *testing.T) {
		expired := NewTokenIssuer("test-secret", time.Hour)
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := expired.GenerateToken("user-1", "a@example.com")
		if err != nil {
			t.Fatalf("Failed to generate token: %v", err)
		}
		if _, err := issuer.ExtractIDFromToken(token); err == nil {
			t.Fatal("Expected an error for an expired token")
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		if _, err := issuer.ExtractIDFromToken("not-a-token"); err == nil {
			t.Fatal("Expected an error for a malformed token")
		}
	})
}
