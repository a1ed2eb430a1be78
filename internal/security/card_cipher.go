package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// CardCipher seals captured payment details before they are journaled.
// AES-256-GCM with a random nonce prepended to the ciphertext.
type CardCipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

type cardCipher struct {
	aead      cipher.AEAD
	nonceSize int
}

// NewCardCipher builds a cipher from the base64url-encoded 32-byte key
// carried in config.
func NewCardCipher(keyB64 string) (CardCipher, error) {
	if keyB64 == "" {
		return nil, errors.New("missing card_key_b64url")
	}
	key, err := base64.RawURLEncoding.DecodeString(keyB64)
	if err != nil {
		return nil, fmt.Errorf("decode card_key_b64url: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("card key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}

	return &cardCipher{aead: aead, nonceSize: aead.NonceSize()}, nil
}

func (cc *cardCipher) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, cc.nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("rand nonce: %w", err)
	}
	ct := cc.aead.Seal(nil, nonce, plaintext, nil)

	// concat: nonce || ct
	out := make([]byte, 0, len(nonce)+len(ct))
	out = append(out, nonce...)
	out = append(out, ct...)
	return out, nil
}

func (cc *cardCipher) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < cc.nonceSize {
		return nil, errors.New("ciphertext shorter than nonce")
	}
	nonce, ct := ciphertext[:cc.nonceSize], ciphertext[cc.nonceSize:]
	pt, err := cc.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("aead.Open: %w", err)
	}
	return pt, nil
}
