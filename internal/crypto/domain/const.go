package domain

// Algorithm represents the AEAD algorithm used to encrypt credential fields.
//
// Both supported algorithms use a 256-bit key, a 12-byte nonce and a 16-byte
// authentication tag, so the persisted layout does not depend on the choice.
//
// Algorithm selection guidelines:
//   - Use AESGCM on modern CPUs with AES-NI hardware acceleration
//   - Use ChaCha20 on systems without AES-NI
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the size in bytes of the process-wide encryption key.
	KeySize = 32

	// NonceSize is the IV size in bytes produced by both supported algorithms.
	NonceSize = 12

	// TagSize is the authentication tag size in bytes produced by both supported algorithms.
	TagSize = 16
)

// Secret hash derivation parameters. Every instance must share them, otherwise
// hashes computed by different processes would not compare equal.
const (
	HashIterations = 310000
	HashKeyLength  = 32
)
