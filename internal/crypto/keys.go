package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"
)

// SecretSize is the size in bytes of a freshly generated session secret.
const SecretSize = 32

// ErrSecretTooShort is returned when a configured secret has less than SecretSize bytes.
var ErrSecretTooShort = errors.New("session secret must be at least 32 bytes (hex 64 chars)")

// CookieKeys are the keys handed to the cookie store: a 64 byte HMAC key and a
// 32 byte AES-256 key.
type CookieKeys struct {
	Hash  []byte
	Block []byte
}

// DeriveCookieKeys derives independent signing and encryption keys from one
// secret using HKDF-SHA256.
func DeriveCookieKeys(secret []byte) (CookieKeys, error) {
	hash, err := derive(secret, "cookie-hash", 64)
	if err != nil {
		return CookieKeys{}, err
	}
	block, err := derive(secret, "cookie-block", 32)
	if err != nil {
		return CookieKeys{}, err
	}
	return CookieKeys{Hash: hash, Block: block}, nil
}

func derive(secret []byte, info string, n int) ([]byte, error) {
	h := hkdf.New(sha256.New, secret, nil, []byte(info))
	out := make([]byte, n)
	if _, err := io.ReadFull(h, out); err != nil {
		return nil, errors.Wrapf(err, "deriving %s", info)
	}
	return out, nil
}

// ParseSecret decodes a hex encoded secret, as written by cmd/genkey.
func ParseSecret(h string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(h))
	if err != nil {
		return nil, errors.Wrap(err, "session secret hex decode error")
	}
	if len(b) < SecretSize {
		return nil, ErrSecretTooShort
	}
	return b, nil
}

// GenerateSecret returns a new random session secret.
func GenerateSecret() []byte {
	return MustRandom(SecretSize)
}

// MustRandom returns n random bytes or panics.
func MustRandom(n int) []byte {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		panic(err)
	}
	return b
}
