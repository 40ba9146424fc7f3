package domain

import (
	"time"

	"github.com/google/uuid"
)

// Environment is a named, credentialed workspace under an account.
//
// As returned by the use cases SecretKey and PendingSecretKey hold plaintext and
// their IV and tag fields are nil. As exchanged with the repositories they hold
// base64 ciphertext, with base64 IV and tag in the sibling fields.
type Environment struct {
	ID        int64
	UUID      uuid.UUID
	AccountID int64
	Name      string

	SecretKey       string
	SecretKeyIV     *string
	SecretKeyTag    *string
	SecretKeyHashed *string

	PendingSecretKey    *string
	PendingSecretKeyIV  *string
	PendingSecretKeyTag *string

	PublicKey        string
	PendingPublicKey *string

	HMACEnabled         bool
	HMACKey             *string
	WebhookURL          *string
	SecondaryWebhookURL *string
	CallbackURL         *string
	SendAuthWebhook     bool
	AlwaysSendWebhook   bool

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Pending returns the pending value for t, or nil when no rotation is in flight.
func (e *Environment) Pending(t CredentialType) *string {
	if t == CredentialSecret {
		return e.PendingSecretKey
	}
	return e.PendingPublicKey
}

// Active returns the active value for t.
func (e *Environment) Active(t CredentialType) string {
	if t == CredentialSecret {
		return e.SecretKey
	}
	return e.PublicKey
}

// RotationState reports whether a rotation of t is in flight.
func (e *Environment) RotationState(t CredentialType) RotationState {
	if e.Pending(t) != nil {
		return RotationPending
	}
	return RotationStable
}

// MetadataUpdate carries the non-credential fields an environment edit may change.
// Nil fields are left untouched.
type MetadataUpdate struct {
	Name                *string
	HMACEnabled         *bool
	HMACKey             *string
	WebhookURL          *string
	SecondaryWebhookURL *string
	CallbackURL         *string
	SendAuthWebhook     *bool
	AlwaysSendWebhook   *bool
}

// Apply copies the set fields of u onto e.
func (u MetadataUpdate) Apply(e *Environment) {
	if u.Name != nil {
		e.Name = *u.Name
	}
	if u.HMACEnabled != nil {
		e.HMACEnabled = *u.HMACEnabled
	}
	if u.HMACKey != nil {
		e.HMACKey = u.HMACKey
	}
	if u.WebhookURL != nil {
		e.WebhookURL = u.WebhookURL
	}
	if u.SecondaryWebhookURL != nil {
		e.SecondaryWebhookURL = u.SecondaryWebhookURL
	}
	if u.CallbackURL != nil {
		e.CallbackURL = u.CallbackURL
	}
	if u.SendAuthWebhook != nil {
		e.SendAuthWebhook = *u.SendAuthWebhook
	}
	if u.AlwaysSendWebhook != nil {
		e.AlwaysSendWebhook = *u.AlwaysSendWebhook
	}
}
