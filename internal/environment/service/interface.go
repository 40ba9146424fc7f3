// Package service provides the technical services behind environment credentials:
// field encryption of environments and variables, credential generation, the
// self-hosted override index and admin token hashing.
package service

// AdminTokenService hashes and verifies the management API token.
type AdminTokenService interface {
	// GenerateToken creates a random token and its Argon2id hash.
	GenerateToken() (plainToken string, tokenHash string, err error)
	HashToken(plainToken string) (string, error)
	// VerifyToken reports whether plainToken matches tokenHash. Malformed hashes never match.
	VerifyToken(plainToken, tokenHash string) bool
}
