package models

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("stevig-wachtwoord-123")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("expected argon2id encoding, got: %s", hash)
	}
	if !VerifyPassword("stevig-wachtwoord-123", hash) {
		t.Fatal("correct password must verify")
	}
	if VerifyPassword("verkeerd-wachtwoord", hash) {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashPasswordUniqueSalt(t *testing.T) {
	first, err := HashPassword("zelfde-wachtwoord")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	second, err := HashPassword("zelfde-wachtwoord")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	if first == second {
		t.Fatal("hashing twice must produce different salts")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	cases := []string{
		"",
		"plain-text",
		"$argon2id$v=19$m=65536,t=1,p=4$not-base64!$also-not-base64!",
		"$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
	}
	for _, encoded := range cases {
		if VerifyPassword("whatever", encoded) {
			t.Fatalf("malformed hash must not verify: %q", encoded)
		}
	}
}

func TestDistributorUserVerifyPassword(t *testing.T) {
	hash, err := HashPassword("kassa-2026")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	user := DistributorUser{Username: "demo-staff", PasswordHash: hash}
	if !user.VerifyPassword("kassa-2026") {
		t.Fatal("correct password must verify on the user")
	}
	if user.VerifyPassword("kassa-2025") {
		t.Fatal("wrong password must not verify on the user")
	}
}
