// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/samber/oops"
)

// ErrBadSignature is returned when a signed request fails verification.
var ErrBadSignature = errors.New("signature verification failed")

// SignedRequest wraps a payload with a detached HMAC signature. It is used at
// the login boundary: the client signs the credential payload with the shared
// application secret, and the server refuses to read the payload until the
// signature verifies. The signature covers the exact payload bytes, so
// re-serialization cannot invalidate it.
type SignedRequest struct {
	Payload   json.RawMessage `json:"payload"`
	Signature string          `json:"signature"`
}

// Signer signs and verifies request payloads with a shared application
// secret. Immutable and safe for concurrent use.
type Signer struct {
	secret []byte
}

// NewSigner creates a Signer from the shared application secret.
func NewSigner(secret []byte) (*Signer, error) {
	if len(secret) < MinKeyBytes {
		return nil, oops.Code("AUTH_WEAK_API_SECRET").
			With("min_bytes", MinKeyBytes).
			Errorf("api secret must be at least %d bytes", MinKeyBytes)
	}
	s := make([]byte, len(secret))
	copy(s, secret)
	return &Signer{secret: s}, nil
}

// Sign serializes the payload and attaches its signature.
func (s *Signer) Sign(payload any) (SignedRequest, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return SignedRequest{}, oops.Code("AUTH_SIGN_ENCODE_FAILED").Wrap(err)
	}
	return SignedRequest{
		Payload:   raw,
		Signature: hex.EncodeToString(s.mac(raw)),
	}, nil
}

// Verify checks the detached signature against the payload bytes using a
// constant-time comparison. Returns ErrBadSignature (wrapped) on mismatch or
// malformed signature encoding.
func (s *Signer) Verify(req SignedRequest) error {
	if len(req.Payload) == 0 {
		return oops.Code("AUTH_BAD_SIGNATURE").With("reason", "empty payload").Wrap(ErrBadSignature)
	}
	sig, err := hex.DecodeString(req.Signature)
	if err != nil {
		return oops.Code("AUTH_BAD_SIGNATURE").With("reason", "signature is not hex").Wrap(ErrBadSignature)
	}
	if !hmac.Equal(sig, s.mac(req.Payload)) {
		return oops.Code("AUTH_BAD_SIGNATURE").With("reason", "signature mismatch").Wrap(ErrBadSignature)
	}
	return nil
}

func (s *Signer) mac(payload []byte) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}
