// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Token configuration.
const (
	// TokenTTL is the default lifetime of an issued bearer token.
	TokenTTL = 24 * time.Hour
	// MinKeyBytes is the minimum length of the token signing key.
	MinKeyBytes = 32
)

// ErrInvalidToken is returned for tokens that are malformed, tampered with,
// or expired. Verification deliberately reports all three the same way.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload bound into a bearer token.
type Claims struct {
	AccountID ulid.ULID
	Scope     Scope
	ExpiresAt time.Time
}

// tokenPayload is the wire encoding of Claims.
type tokenPayload struct {
	AccountID string `json:"sub"`
	Scope     string `json:"scope"`
	ExpiresAt int64  `json:"exp"`
}

// Codec issues and verifies opaque bearer tokens. A token is
// base64url(payload) + "." + base64url(HMAC-SHA256(payload, key)); without the
// key a token cannot be forged, and any single-byte mutation fails
// verification. Codec is immutable and safe for concurrent use.
type Codec struct {
	key []byte
	ttl time.Duration
}

// NewCodec creates a Codec from secret key material supplied at process start.
// The key must be at least MinKeyBytes long.
func NewCodec(key []byte) (*Codec, error) {
	if len(key) < MinKeyBytes {
		return nil, oops.Code("AUTH_WEAK_TOKEN_KEY").
			With("min_bytes", MinKeyBytes).
			Errorf("token signing key must be at least %d bytes", MinKeyBytes)
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &Codec{key: k, ttl: TokenTTL}, nil
}

// Issue produces a bearer token binding the account and scope, expiring
// TokenTTL from now.
func (c *Codec) Issue(accountID ulid.ULID, scope Scope) (string, error) {
	return c.IssueWithExpiry(accountID, scope, time.Now().Add(c.ttl))
}

// IssueWithExpiry produces a bearer token with an explicit expiry timestamp.
func (c *Codec) IssueWithExpiry(accountID ulid.ULID, scope Scope, expiresAt time.Time) (string, error) {
	if accountID.Compare(ulid.ULID{}) == 0 {
		return "", oops.Code("AUTH_INVALID_ACCOUNT").Errorf("account ID cannot be zero")
	}
	if _, err := ParseScope(string(scope)); err != nil {
		return "", err
	}
	payload, err := json.Marshal(tokenPayload{
		AccountID: accountID.String(),
		Scope:     string(scope),
		ExpiresAt: expiresAt.Unix(),
	})
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_ENCODE_FAILED").Wrap(err)
	}
	enc := base64.RawURLEncoding
	return enc.EncodeToString(payload) + "." + enc.EncodeToString(c.sign(payload)), nil
}

// Verify decodes and authenticates a bearer token, returning its claims.
// Fails with ErrInvalidToken when the token is malformed, the signature does
// not match, or the token has expired. Deterministic and side-effect-free.
func (c *Codec) Verify(token string) (Claims, error) {
	return c.VerifyAt(token, time.Now())
}

// VerifyAt verifies a token against an explicit point in time. Useful for
// testing expiry with deterministic time values.
func (c *Codec) VerifyAt(token string, at time.Time) (Claims, error) {
	payloadPart, sigPart, found := strings.Cut(token, ".")
	if !found {
		return Claims{}, invalidToken("missing signature separator")
	}

	enc := base64.RawURLEncoding
	payload, err := enc.DecodeString(payloadPart)
	if err != nil {
		return Claims{}, invalidToken("payload is not base64url")
	}
	sig, err := enc.DecodeString(sigPart)
	if err != nil {
		return Claims{}, invalidToken("signature is not base64url")
	}

	// Authenticate before parsing: claims from an unverified payload are
	// never inspected.
	if !hmac.Equal(sig, c.sign(payload)) {
		return Claims{}, invalidToken("signature mismatch")
	}

	var p tokenPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return Claims{}, invalidToken("payload is not valid JSON")
	}
	accountID, err := ulid.Parse(p.AccountID)
	if err != nil {
		return Claims{}, invalidToken("subject is not a ULID")
	}
	scope, err := ParseScope(p.Scope)
	if err != nil {
		return Claims{}, invalidToken("unknown scope")
	}
	expiresAt := time.Unix(p.ExpiresAt, 0)
	if at.After(expiresAt) {
		return Claims{}, invalidToken("token expired")
	}

	return Claims{AccountID: accountID, Scope: scope, ExpiresAt: expiresAt}, nil
}

func (c *Codec) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(payload)
	return mac.Sum(nil)
}

func invalidToken(reason string) error {
	return oops.Code("AUTH_INVALID_TOKEN").With("reason", reason).Wrap(ErrInvalidToken)
}
