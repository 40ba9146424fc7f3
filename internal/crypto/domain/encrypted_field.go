package domain

// EncryptedField is one encrypted value as it is persisted: ciphertext, IV and
// authentication tag, each base64 encoded and stored in sibling columns.
type EncryptedField struct {
	Ciphertext string
	IV         string
	Tag        string
}
