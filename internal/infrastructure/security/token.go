package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var refTime = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC).Unix()

var (
	ErrTokenExpired = errors.New("Token expired")
	ErrTokenInvalid = errors.New("Invalid token")
)

// TokenGenerator issues timestamped HMAC tokens bound to a claims string,
// used for unsubscribe links.
type TokenGenerator struct {
	key        string
	salt       string
	expiration time.Duration
	now        func() time.Time
}

func NewTokenGenerator(key, salt string, expiration time.Duration) *TokenGenerator {
	return &TokenGenerator{key: key, salt: salt, expiration: expiration, now: time.Now}
}

func (t *TokenGenerator) tokenWithTimestamp(claims string, timestamp int64) string {
	h := hmac.New(sha256.New, []byte(t.key))
	h.Write([]byte(t.salt))
	h.Write([]byte(fmt.Sprintf("%s%d", claims, timestamp)))
	return fmt.Sprintf("%s-%x", strconv.FormatInt(timestamp, 36), h.Sum(nil))
}

func (t *TokenGenerator) timestamp() int64 {
	return t.now().UTC().Unix() - refTime
}

func (t *TokenGenerator) GenerateToken(claims string) (string, error) {
	ts := t.timestamp()
	if ts < 0 {
		return "", fmt.Errorf("clock before reference time")
	}
	return t.tokenWithTimestamp(claims, ts), nil
}

func (t *TokenGenerator) CheckToken(token, claims string) error {
	parts := strings.SplitN(token, "-", 2)
	if len(parts) != 2 {
		return ErrTokenInvalid
	}
	ts, err := strconv.ParseInt(parts[0], 36, 64)
	if err != nil || ts < 0 {
		return ErrTokenInvalid
	}
	if !hmac.Equal([]byte(token), []byte(t.tokenWithTimestamp(claims, ts))) {
		return ErrTokenInvalid
	}
	if t.expiration > 0 && t.timestamp()-ts > int64(t.expiration.Seconds()) {
		return ErrTokenExpired
	}
	return nil
}
