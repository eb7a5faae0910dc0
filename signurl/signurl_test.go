package signurl

import (
	"crypto/sha256"
	"strings"
	"testing"
	"time"
)

func testSecret() []byte {
	h := sha256.Sum256([]byte("test passphrase"))
	return h[:]
}

func TestSignVerifyRoundtrip(t *testing.T) {
	secret := testSecret()

	token, err := Sign(secret, "file-123", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	id, err := Verify(secret, token)
	if err != nil {
		t.Fatal(err)
	}
	if id != "file-123" {
		t.Fatalf("file ID = %q, want file-123", id)
	}
}

func TestVerifyExpired(t *testing.T) {
	secret := testSecret()

	token, err := Sign(secret, "file-123", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Verify(secret, token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestVerifyTampered(t *testing.T) {
	secret := testSecret()

	token, err := Sign(secret, "file-123", time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	// Flip a character in the signature segment.
	i := strings.LastIndex(token, ".") + 1
	mangled := token[:i] + "x" + token[i+1:]
	if mangled == token {
		mangled = token[:i] + "y" + token[i+1:]
	}
	if _, err := Verify(secret, mangled); err == nil {
		t.Fatal("expected error for tampered token")
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := Sign(testSecret(), "file-123", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	other := sha256.Sum256([]byte("other passphrase"))
	if _, err := Verify(other[:], token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestSignShortSecret(t *testing.T) {
	if _, err := Sign([]byte("short"), "file-123", time.Minute); err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestSignEmptyFileID(t *testing.T) {
	if _, err := Sign(testSecret(), "", time.Minute); err == nil {
		t.Fatal("expected error for empty file ID")
	}
}
