package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash"
	"math"
)

var (
	ErrInvalidCursorLength    = errors.New("invalid_cursor_length")
	ErrInvalidCursorSignature = errors.New("invalid_cursor_signature")
)

// Codec signs the pagination cursors handed out by the HTTP API.
// Implementations must be safe for concurrent use.
type Codec interface {
	EncodeMoviesCursor(popularity float64, id int64) string
	DecodeMoviesCursor(token string) (float64, int64, error)
}

// HMAC implements Codec using HMAC-SHA256 for integrity.
// Tokens are payload||sig encoded as base64 URL without padding.
type HMAC struct {
	key []byte
	h   func() hash.Hash
}

func NewHMAC(key []byte) *HMAC {
	return &HMAC{key: append([]byte(nil), key...), h: sha256.New}
}

func (c *HMAC) seal(payload []byte) string {
	mac := hmac.New(c.h, c.key)
	mac.Write(payload)
	buf := append(payload, mac.Sum(nil)...)
	return base64.RawURLEncoding.EncodeToString(buf)
}

func (c *HMAC) open(token string, payloadLen int) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	if len(raw) != payloadLen+sha256.Size {
		return nil, ErrInvalidCursorLength
	}
	payload, sig := raw[:payloadLen], raw[payloadLen:]
	mac := hmac.New(c.h, c.key)
	mac.Write(payload)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return nil, ErrInvalidCursorSignature
	}
	return payload, nil
}

// Movies by release date: popularity(float64) + id(int64)
func (c *HMAC) EncodeMoviesCursor(popularity float64, id int64) string {
	payload := make([]byte, 16)
	binary.BigEndian.PutUint64(payload[0:8], math.Float64bits(popularity))
	binary.BigEndian.PutUint64(payload[8:16], uint64(id))
	return c.seal(payload)
}

func (c *HMAC) DecodeMoviesCursor(token string) (float64, int64, error) {
	payload, err := c.open(token, 16)
	if err != nil {
		return 0, 0, err
	}
	pop := math.Float64frombits(binary.BigEndian.Uint64(payload[0:8]))
	id := int64(binary.BigEndian.Uint64(payload[8:16]))
	return pop, id, nil
}
