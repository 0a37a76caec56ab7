package auth

import "testing"

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Secret123$")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if hash == "Secret123$" {
		t.Fatalf("expected hash, got plain text")
	}
	if !CheckPassword(hash, "Secret123$") {
		t.Fatalf("expected password to match")
	}
	if CheckPassword(hash, "secret123$") {
		t.Fatalf("expected different password to fail")
	}
}

func TestHashToken(t *testing.T) {
	t.Parallel()

	a := HashToken("token")
	if len(a) != 64 {
		t.Fatalf("expected hex sha256, got %q", a)
	}
	if a != HashToken("token") || a == HashToken("other") {
		t.Fatalf("expected deterministic, distinct hashes")
	}
}
