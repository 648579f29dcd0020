package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	nonceSize    = 12
	tagSize      = aes.BlockSize
	versionMagic = byte('S')

	// KeyEnvVar holds the process-wide field encryption key as 64 hex
	// characters (32 bytes).
	KeyEnvVar = "STAFFDIR_ENCRYPTION_KEY"
)

// ErrBadKey indicates the field encryption key is missing or malformed.
// This is a startup-time configuration failure.
var ErrBadKey = errors.New("STAFFDIR_ENCRYPTION_KEY must be 32 bytes (64 hex characters)")

// ErrDecryptFailed covers tampered, truncated, or otherwise undecryptable
// blobs. The message deliberately carries no key or plaintext material.
var ErrDecryptFailed = errors.New("field decryption failed")

// FieldCipher encrypts and decrypts individual secret fields for storage
// at rest.
type FieldCipher interface {
	EncryptField(plaintext string) ([]byte, error)
	DecryptField(blob []byte) (string, error)
}

// Vault is an AES-256-GCM FieldCipher under a single process-wide key.
// Blob layout: versionMagic || tag || nonce || ciphertext, so decryption
// needs no state beyond the key.
type Vault struct {
	aesgcm cipher.AEAD
}

var _ FieldCipher = (*Vault)(nil)

// New creates a Vault from a raw 32-byte key.
func New(key []byte) (*Vault, error) {
	if len(key) != 32 {
		return nil, ErrBadKey
	}

	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aesgcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}

	return &Vault{aesgcm: aesgcm}, nil
}

// NewFromHex creates a Vault from a 64-hex-character key string.
func NewFromHex(hexKey string) (*Vault, error) {
	if len(hexKey) != 64 {
		return nil, ErrBadKey
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, ErrBadKey
	}
	return New(key)
}

// NewFromEnv creates a Vault from the STAFFDIR_ENCRYPTION_KEY environment
// variable. Callers treat an error here as fatal.
func NewFromEnv() (*Vault, error) {
	hexKey, ok := os.LookupEnv(KeyEnvVar)
	if !ok {
		return nil, ErrBadKey
	}
	return NewFromHex(hexKey)
}

// EncryptField seals a plaintext field with a fresh random nonce.
func (v *Vault) EncryptField(plaintext string) ([]byte, error) {
	nonce, err := RandomBytes(nonceSize)
	if err != nil {
		return nil, err
	}

	cipherTextWithTag := v.aesgcm.Seal(nil, nonce, []byte(plaintext), nil)
	return packBlob(cipherTextWithTag, nonce), nil
}

// DecryptField opens a blob produced by EncryptField. Any tampering or
// truncation fails closed with ErrDecryptFailed.
func (v *Vault) DecryptField(blob []byte) (string, error) {
	cipherText, nonce, err := unpackBlob(blob)
	if err != nil {
		return "", err
	}

	plaintext, err := v.aesgcm.Open(nil, nonce, cipherText, nil)
	if err != nil {
		return "", ErrDecryptFailed
	}
	return string(plaintext), nil
}

// RandomBytes returns size bytes from the CSPRNG.
func RandomBytes(size int) ([]byte, error) {
	value := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, value); err != nil {
		return nil, err
	}
	return value, nil
}

// GenerateKeyHex returns a fresh 256-bit key as 64 hex characters, suitable
// for STAFFDIR_ENCRYPTION_KEY.
func GenerateKeyHex() (string, error) {
	key, err := RandomBytes(32)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}

func packBlob(cipherTextWithTag, nonce []byte) []byte {
	tagStart := len(cipherTextWithTag) - tagSize
	tag := cipherTextWithTag[tagStart:]
	cipherText := cipherTextWithTag[:tagStart]

	blob := make([]byte, 1+tagSize+nonceSize+len(cipherText))
	blob[0] = versionMagic
	index := 1

	copy(blob[index:], tag)
	index += tagSize

	copy(blob[index:], nonce)
	index += nonceSize

	copy(blob[index:], cipherText)

	return blob
}

func unpackBlob(blob []byte) (cipherText, nonce []byte, err error) {
	if len(blob) < 1+tagSize+nonceSize {
		return nil, nil, fmt.Errorf("%w: blob too short", ErrDecryptFailed)
	}
	if blob[0] != versionMagic {
		return nil, nil, fmt.Errorf("%w: unknown blob version", ErrDecryptFailed)
	}

	index := 1
	tag := blob[index : index+tagSize]
	index += tagSize

	nonce = blob[index : index+nonceSize]
	index += nonceSize

	// GCM expects the tag appended to the ciphertext.
	cipherText = append(append([]byte{}, blob[index:]...), tag...)

	return cipherText, nonce, nil
}
