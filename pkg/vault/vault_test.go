package vault

import (
	"bytes"
	"strings"
	"testing"
)

func testVault(t *testing.T) *Vault {
	t.Helper()

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}

	v, err := New(key)
	if err != nil {
		t.Fatalf("failed to create vault: %v", err)
	}
	return v
}

func TestNew(t *testing.T) {
	if _, err := New(make([]byte, 32)); err != nil {
		t.Fatalf("unexpected error with valid key: %v", err)
	}

	for _, size := range []int{0, 16, 31, 33} {
		if _, err := New(make([]byte, size)); err == nil {
			t.Errorf("expected error with %d-byte key", size)
		}
	}
}

func TestNewFromHex(t *testing.T) {
	validHex := strings.Repeat("ab", 32)
	if _, err := NewFromHex(validHex); err != nil {
		t.Fatalf("unexpected error with valid hex key: %v", err)
	}

	tests := []struct {
		name   string
		hexKey string
	}{
		{"empty", ""},
		{"too short", strings.Repeat("ab", 31)},
		{"too long", strings.Repeat("ab", 33)},
		{"not hex", strings.Repeat("zz", 32)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFromHex(tt.hexKey); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv(KeyEnvVar, strings.Repeat("0f", 32))
	if _, err := NewFromEnv(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Setenv(KeyEnvVar, "short")
	if _, err := NewFromEnv(); err == nil {
		t.Error("expected error with malformed key")
	}
}

func TestFieldRoundTrip(t *testing.T) {
	v := testVault(t)

	tests := []struct {
		name      string
		plaintext string
	}{
		{"api key", "mosyle-api-key-123456"},
		{"empty", ""},
		{"unicode", "pässwörd-ünïcode"},
		{"long", strings.Repeat("x", 10000)},
		{"binary-ish", string([]byte{0x00, 0x01, 0xff, 0xfe})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := v.EncryptField(tt.plaintext)
			if err != nil {
				t.Fatalf("encryption failed: %v", err)
			}

			if len(tt.plaintext) > 0 && bytes.Contains(blob, []byte(tt.plaintext)) {
				t.Error("blob should not contain the plaintext")
			}

			decrypted, err := v.DecryptField(blob)
			if err != nil {
				t.Fatalf("decryption failed: %v", err)
			}
			if decrypted != tt.plaintext {
				t.Errorf("round trip mismatch: got %q, want %q", decrypted, tt.plaintext)
			}
		})
	}
}

func TestDecryptFailsClosedOnTampering(t *testing.T) {
	v := testVault(t)

	blob, err := v.EncryptField("carddav app password")
	if err != nil {
		t.Fatalf("encryption failed: %v", err)
	}

	// Flip a single bit at every position; decryption must never return a
	// different plaintext silently.
	for i := range blob {
		tampered := append([]byte{}, blob...)
		tampered[i] ^= 0x01

		if _, err := v.DecryptField(tampered); err == nil {
			t.Fatalf("expected decryption failure with bit flip at index %d", i)
		}
	}
}

func TestDecryptFailsClosedOnTruncation(t *testing.T) {
	v := testVault(t)

	blob, err := v.EncryptField("secret")
	if err != nil {
		t.Fatalf("encryption failed: %v", err)
	}

	for _, n := range []int{0, 1, len(blob) / 2, len(blob) - 1} {
		if _, err := v.DecryptField(blob[:n]); err == nil {
			t.Errorf("expected decryption failure with %d-byte blob", n)
		}
	}
}

func TestEncryptionIsNonDeterministic(t *testing.T) {
	v := testVault(t)

	blob1, _ := v.EncryptField("same secret")
	blob2, _ := v.EncryptField("same secret")

	if bytes.Equal(blob1, blob2) {
		t.Error("encrypting the same plaintext twice should produce different blobs")
	}

	p1, _ := v.DecryptField(blob1)
	p2, _ := v.DecryptField(blob2)
	if p1 != "same secret" || p2 != "same secret" {
		t.Error("both blobs should decrypt to the original plaintext")
	}
}

func TestDecryptWithWrongKey(t *testing.T) {
	v1 := testVault(t)

	otherKey := make([]byte, 32)
	for i := range otherKey {
		otherKey[i] = byte(255 - i)
	}
	v2, _ := New(otherKey)

	blob, _ := v1.EncryptField("secret")
	if _, err := v2.DecryptField(blob); err == nil {
		t.Error("expected decryption failure with wrong key")
	}
}

func TestGenerateKeyHex(t *testing.T) {
	k1, err := GenerateKeyHex()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(k1) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(k1))
	}

	k2, _ := GenerateKeyHex()
	if k1 == k2 {
		t.Error("two generated keys should differ")
	}

	if _, err := NewFromHex(k1); err != nil {
		t.Errorf("generated key should be usable: %v", err)
	}
}
