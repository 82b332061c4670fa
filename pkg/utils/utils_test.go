package utils

import (
	"strings"
	"testing"
	"time"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptDecrypt(t *testing.T) {
	sealed, err := Encrypt([]byte("page-token"), testKey)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if strings.Contains(sealed, "page-token") {
		t.Fatalf("ciphertext leaks plaintext: %s", sealed)
	}

	plain, err := Decrypt(sealed, testKey)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if plain != "page-token" {
		t.Fatalf("Decrypt = %q", plain)
	}
}

func TestDecryptRejectsTampering(t *testing.T) {
	if _, err := Decrypt("not base64!", testKey); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, err := Decrypt("AAAA", testKey); err != ErrCiphertextTooShort {
		t.Fatalf("expected ErrCiphertextTooShort, got %v", err)
	}

	sealed, _ := Encrypt([]byte("x"), testKey)
	other := []byte("fedcba9876543210fedcba9876543210")
	if _, err := Decrypt(sealed, other); err == nil {
		t.Fatal("expected error for wrong key")
	}
}

func TestWorkerToken(t *testing.T) {
	tok, err := GenerateWorkerToken("s3cret", "post-1", time.Minute)
	if err != nil {
		t.Fatalf("GenerateWorkerToken: %v", err)
	}

	claims, err := ValidateWorkerToken("s3cret", tok)
	if err != nil {
		t.Fatalf("ValidateWorkerToken: %v", err)
	}
	if claims.PostID != "post-1" {
		t.Fatalf("PostID = %q", claims.PostID)
	}

	if _, err := ValidateWorkerToken("other", tok); err == nil {
		t.Fatal("expected signature error")
	}

	expired, _ := GenerateWorkerToken("s3cret", "post-1", -time.Minute)
	if _, err := ValidateWorkerToken("s3cret", expired); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestGenerateRandomKey(t *testing.T) {
	a, err := GenerateRandomKey(16)
	if err != nil {
		t.Fatalf("GenerateRandomKey: %v", err)
	}
	b, _ := GenerateRandomKey(16)
	if a == b || !strings.HasPrefix(a, apiKeyPrefix) {
		t.Fatalf("unexpected keys %q %q", a, b)
	}
}
