package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"io"
	"time"
)

const (
	nonceSize = 16
	stampSize = 8
)

var ErrInvalidState = errors.New("invalid oauth state")

// StateSigner issues and checks the OAuth state parameter without server-side storage.
// A state is base64url(nonce || expiry || HMAC-SHA256(nonce || expiry)).
type StateSigner struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewStateSigner creates a signer. key should be at least 32 bytes.
func NewStateSigner(key []byte, ttl time.Duration) (*StateSigner, error) {
	if len(key) < 32 {
		return nil, errors.New("state key must be at least 32 bytes")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StateSigner{key: key, ttl: ttl, now: time.Now}, nil
}

func (s *StateSigner) mac(payload []byte) []byte {
	h := hmac.New(sha256.New, s.key)
	h.Write(payload)
	return h.Sum(nil)
}

// Issue returns a fresh state value.
func (s *StateSigner) Issue() (string, error) {
	payload := make([]byte, nonceSize+stampSize)
	if _, err := io.ReadFull(rand.Reader, payload[:nonceSize]); err != nil {
		return "", err
	}
	binary.BigEndian.PutUint64(payload[nonceSize:], uint64(s.now().Add(s.ttl).Unix()))
	return base64.RawURLEncoding.EncodeToString(append(payload, s.mac(payload)...)), nil
}

// Check validates the signature and expiry of a state value.
func (s *StateSigner) Check(state string) error {
	data, err := base64.RawURLEncoding.DecodeString(state)
	if err != nil {
		return ErrInvalidState
	}
	if len(data) != nonceSize+stampSize+sha256.Size {
		return ErrInvalidState
	}
	payload, sig := data[:nonceSize+stampSize], data[nonceSize+stampSize:]
	if !hmac.Equal(sig, s.mac(payload)) {
		return ErrInvalidState
	}
	expiry := int64(binary.BigEndian.Uint64(payload[nonceSize:]))
	if s.now().Unix() > expiry {
		return ErrInvalidState
	}
	return nil
}
