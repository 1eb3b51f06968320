// Package secret encrypts small values, such as access tokens, for storage
// at rest. Values are sealed with AES-GCM under a key derived from stable
// machine identity, so a copied database does not leak tokens in clear text.
package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/user"
)

// ErrDecrypt reports a value that could not be opened, typically because it
// was sealed on another machine or the stored bytes were corrupted.
var ErrDecrypt = errors.New("cannot decrypt value")

// keySalt separates this application's derived keys from any other use of
// the same machine identity.
const keySalt = "glab-board.token.v1"

// Sealer encrypts and decrypts values under a fixed key.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives the machine-bound key and prepares the cipher.
func NewSealer() (*Sealer, error) {
	return newSealerWithKey(deviceKey())
}

func newSealerWithKey(key [32]byte) (*Sealer, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("secret: init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("secret: init gcm: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts a value for storage. Output is base64 and embeds the nonce.
func (s *Sealer) Seal(plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("secret: nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a stored value.
func (s *Sealer) Open(stored string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	if len(raw) < s.aead.NonceSize() {
		return "", ErrDecrypt
	}
	nonce, ciphertext := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plaintext), nil
}

// deviceKey derives the machine-bound key from the hostname and user name.
// Weak identity sources degrade to the salt alone rather than failing.
func deviceKey() [32]byte {
	hostname, _ := os.Hostname()
	username := ""
	if u, err := user.Current(); err == nil {
		username = u.Username
	}
	return sha256.Sum256([]byte(keySalt + "|" + hostname + "|" + username))
}
