// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package trip

import (
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Username validation constraints.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
)

// usernameRegex matches usernames that start with a letter and contain only
// letters, numbers, and underscores.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// Account is a registered user identity. The password hash never leaves the
// service layer; transport responses carry a Profile instead.
type Account struct {
	ID           ulid.ULID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewAccount creates a validated Account with a fresh ID.
func NewAccount(username, passwordHash string) (*Account, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("ACCOUNT_INVALID_HASH").Errorf("password hash cannot be empty")
	}
	now := time.Now()
	return &Account{
		ID:           ulid.Make(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Profile is the caller-visible projection of an Account.
type Profile struct {
	ID        ulid.ULID `json:"account_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile returns the caller-visible projection of the account.
func (a *Account) Profile() Profile {
	return Profile{ID: a.ID, Username: a.Username, CreatedAt: a.CreatedAt}
}

// ValidateUsername validates a username against registration rules:
// MinUsernameLength to MaxUsernameLength characters, starting with a letter,
// containing only letters, numbers, and underscores.
func ValidateUsername(username string) error {
	if username == "" {
		return ValidationError("account", "username cannot be empty")
	}
	if len(username) < MinUsernameLength {
		return ValidationError("account", "username is too short")
	}
	if len(username) > MaxUsernameLength {
		return ValidationError("account", "username is too long")
	}
	if !usernameRegex.MatchString(username) {
		return ValidationError("account", "username must start with a letter and contain only letters, numbers, and underscores")
	}
	return nil
}
