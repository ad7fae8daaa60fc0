package auth

import (
	"testing"

	commoncrypto "github.com/mkravtsov/taskdeck/internal/common/crypto"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	hasher := &commoncrypto.BcryptHasher{}

	hash, err := hasher.Hash("pw123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "pw123" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if err := hasher.Compare(hash, "pw123"); err != nil {
		t.Errorf("expected match for correct password, got %v", err)
	}
	if err := hasher.Compare(hash, "pw124"); err == nil {
		t.Error("expected mismatch for wrong password")
	}
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	hasher := &commoncrypto.BcryptHasher{}

	if err := hasher.Compare("not-a-bcrypt-hash", "pw123"); err == nil {
		t.Error("expected error for malformed hash")
	}
}
