// Package domain defines core domain models and errors for accounts, environments
// and their credentials.
package domain

import (
	"github.com/allisson/envkeys/internal/errors"
)

// Environment-specific error definitions.
var (
	// ErrAccountNotFound indicates no account matches the given id.
	ErrAccountNotFound = errors.Wrap(errors.ErrNotFound, "account not found")

	// ErrEnvironmentNotFound indicates no live environment matches the given key.
	ErrEnvironmentNotFound = errors.Wrap(errors.ErrNotFound, "environment not found")

	// ErrCallerNotFound indicates a presented credential does not identify any environment.
	// Resolution paths return it for every kind of absence so callers answer uniformly.
	ErrCallerNotFound = errors.Wrap(errors.ErrNotFound, "caller not found")

	// ErrEnvironmentAlreadyExists indicates the account already has an environment with that name.
	ErrEnvironmentAlreadyExists = errors.Wrap(errors.ErrConflict, "environment already exists")

	// ErrInvalidRotationState indicates activation was requested with no pending credential.
	ErrInvalidRotationState = errors.Wrap(errors.ErrConflict, "no pending credential to activate")

	// ErrInvalidCredentialType indicates a credential type other than "secret" or "public".
	ErrInvalidCredentialType = errors.Wrap(errors.ErrInvalidInput, "invalid credential type")
)
