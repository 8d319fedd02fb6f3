// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package trip

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/samber/oops"

	"github.com/cryal/cryal/internal/auth"
)

// RegisterRequest is the body of an account registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Credentials is the login payload carried inside a SignedRequest.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthorizedAccount bundles an account profile with a bearer token for it.
type AuthorizedAccount struct {
	Account Profile `json:"account"`
	Token   string  `json:"auth_token"`
}

// Register creates a new account. Fails with Conflict when the username is
// taken and Validation when the username or password is unacceptable.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (Profile, error) {
	if err := ValidateUsername(req.Username); err != nil {
		return Profile{}, err
	}
	if req.Password == "" {
		return Profile{}, ValidationError("account", "password cannot be empty")
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return Profile{}, InternalError(oops.With("operation", "hash password").Wrap(err))
	}
	account, err := NewAccount(req.Username, hash)
	if err != nil {
		return Profile{}, err
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return Profile{}, ConflictError("account", "username is already taken")
		}
		return Profile{}, InternalError(oops.With("operation", "create account").Wrap(err))
	}
	return account.Profile(), nil
}

// Login authenticates the credential-exchange payload and issues a
// full-scope bearer token. The payload signature is verified before the
// payload is read; a password check runs even when the username is unknown so
// that lookups and mismatches take the same time.
func (s *Service) Login(ctx context.Context, signed auth.SignedRequest) (AuthorizedAccount, error) {
	if err := s.signer.Verify(signed); err != nil {
		return AuthorizedAccount{}, InvalidCredentialError("request signature is invalid")
	}

	var creds Credentials
	dec := json.NewDecoder(bytes.NewReader(signed.Payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&creds); err != nil {
		return AuthorizedAccount{}, ValidationError("credential", "login payload has unexpected or malformed fields")
	}

	account, lookupErr := s.accounts.GetByUsername(ctx, creds.Username)

	targetHash := auth.DummyPasswordHash
	exists := false
	switch {
	case lookupErr == nil:
		targetHash = account.PasswordHash
		exists = true
	case errors.Is(lookupErr, ErrNotFound):
		// keep the dummy hash so verification still runs
	default:
		return AuthorizedAccount{}, InternalError(oops.With("operation", "get account by username").Wrap(lookupErr))
	}

	valid, verifyErr := s.hasher.Verify(creds.Password, targetHash)
	if verifyErr != nil && exists {
		return AuthorizedAccount{}, InternalError(oops.With("operation", "verify password").Wrap(verifyErr))
	}
	if !exists || !valid {
		return AuthorizedAccount{}, InvalidCredentialError("invalid username or password")
	}

	token, err := s.tokens.Issue(account.ID, auth.ScopeFull)
	if err != nil {
		return AuthorizedAccount{}, InternalError(oops.With("operation", "issue token").Wrap(err))
	}
	return AuthorizedAccount{Account: account.Profile(), Token: token}, nil
}

// LookupAccount returns another account's profile together with a read-only
// token for it. Permitted for self-lookup or when the two accounts share an
// active room.
func (s *Service) LookupAccount(ctx context.Context, req Requestor, username string) (AuthorizedAccount, error) {
	target, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AuthorizedAccount{}, NotFoundError("account")
		}
		return AuthorizedAccount{}, InternalError(oops.With("operation", "get account by username").Wrap(err))
	}

	shareRoom := false
	if req.AccountID != target.ID {
		shareRoom, err = s.memberships.ShareActiveRoom(ctx, req.AccountID, target.ID)
		if err != nil {
			return AuthorizedAccount{}, InternalError(oops.With("operation", "share active room").Wrap(err))
		}
	}
	if d := s.accountPolicy.CanView(req.AccountID, target, shareRoom); !d.Allowed {
		return AuthorizedAccount{}, d.Err()
	}

	token, err := s.tokens.Issue(target.ID, auth.ScopeReadOnly)
	if err != nil {
		return AuthorizedAccount{}, InternalError(oops.With("operation", "issue token").Wrap(err))
	}
	return AuthorizedAccount{Account: target.Profile(), Token: token}, nil
}
