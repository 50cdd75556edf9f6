package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength       = 16 // 128-bit salt
	keyLength        = 32 // AES-256
	nonceLength      = 12 // GCM nonce
	pbkdf2Iterations = 310000
)

func generateRandomBytes(length int) ([]byte, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return bytes, nil
}

// deriveKey derives a 256-bit key from secret using PBKDF2-SHA256.
func deriveKey(secret string, salt []byte) []byte {
	return pbkdf2.Key([]byte(secret), salt, pbkdf2Iterations, keyLength, sha256.New)
}

// encrypt seals plaintext with AES-256-GCM and returns ciphertext and nonce.
func encrypt(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	if len(key) != keyLength {
		return nil, nil, fmt.Errorf("invalid key length: expected %d, got %d", keyLength, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce, err = generateRandomBytes(nonceLength)
	if err != nil {
		return nil, nil, err
	}
	return gcm.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// decrypt opens an AES-256-GCM sealed box.
func decrypt(ciphertext, nonce, key []byte) ([]byte, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("invalid key length: expected %d, got %d", keyLength, len(key))
	}
	if len(nonce) != nonceLength {
		return nil, fmt.Errorf("invalid nonce length: expected %d, got %d", nonceLength, len(nonce))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plaintext, nil
}
