package service

import "github.com/google/uuid"

// UUIDCredentialGenerator issues random UUIDv4 strings as credentials.
type UUIDCredentialGenerator struct{}

// NewCredentialGenerator creates a UUIDCredentialGenerator.
func NewCredentialGenerator() *UUIDCredentialGenerator {
	return &UUIDCredentialGenerator{}
}

// SecretKey returns a fresh secret key.
func (UUIDCredentialGenerator) SecretKey() string {
	return uuid.NewString()
}

// PublicKey returns a fresh public key.
func (UUIDCredentialGenerator) PublicKey() string {
	return uuid.NewString()
}
