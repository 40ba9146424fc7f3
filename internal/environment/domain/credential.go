package domain

import "strings"

// CredentialType identifies which of the two environment credentials an operation targets.
type CredentialType string

const (
	// CredentialSecret is the bearer secret key, looked up through its slow hash.
	CredentialSecret CredentialType = "secret"
	// CredentialPublic is the non-secret public key, compared by equality.
	CredentialPublic CredentialType = "public"
)

// ParseCredentialType accepts "secret" and "public" in any case.
func ParseCredentialType(s string) (CredentialType, error) {
	switch CredentialType(strings.ToLower(strings.TrimSpace(s))) {
	case CredentialSecret:
		return CredentialSecret, nil
	case CredentialPublic:
		return CredentialPublic, nil
	default:
		return "", ErrInvalidCredentialType
	}
}

// RotationState is the per credential type rotation state.
type RotationState string

const (
	// RotationStable means no pending value exists.
	RotationStable RotationState = "stable"
	// RotationPending means a pending value exists; the active value still authenticates.
	RotationPending RotationState = "rotation_pending"
)
