package auth

import (
	"testing"
	"time"
)

func TestCheckPassword_Plaintext(t *testing.T) {
	if !CheckPassword("opensesame", "opensesame") {
		t.Fatalf("matching plaintext must pass")
	}
	if CheckPassword("opensesame", "wrong") {
		t.Fatalf("wrong password must fail")
	}
	if CheckPassword("", "") {
		t.Fatalf("unprovisioned gate must never open")
	}
}

func TestCheckPassword_Bcrypt(t *testing.T) {
	hash, err := HashPassword("opensesame")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "opensesame") {
		t.Fatalf("bcrypt match must pass")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("bcrypt mismatch must fail")
	}
}

func TestSignAndParseToken(t *testing.T) {
	tok, err := SignToken(RoleAdmin, "secret", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	role, err := ParseToken(tok, "secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if role != RoleAdmin {
		t.Fatalf("got role %q", role)
	}

	if _, err := ParseToken(tok, "other-secret"); err == nil {
		t.Fatalf("wrong secret must fail")
	}
	if _, err := ParseToken("garbage", "secret"); err == nil {
		t.Fatalf("garbage token must fail")
	}
}

func TestParseToken_Expired(t *testing.T) {
	tok, err := SignToken(RoleUser, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseToken(tok, "secret"); err == nil {
		t.Fatalf("expired token must fail")
	}
}
