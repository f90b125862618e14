package token

import (
	"testing"
	"time"
)

var secret = []byte("test-secret")

func TestIssueParse_RoundTrip(t *testing.T) {
	tok, err := Issue(42, secret, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	id, err := Parse(tok, secret)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if id != 42 {
		t.Errorf("user id: got %d, want 42", id)
	}
}

func TestParse_Expired(t *testing.T) {
	tok, err := Issue(7, secret, -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := Parse(tok, secret); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := Issue(7, secret, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := Parse(tok, []byte("other-secret")); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParse_Garbage(t *testing.T) {
	if _, err := Parse("not-a-token", secret); err == nil {
		t.Fatal("expected error for garbage token")
	}
}
