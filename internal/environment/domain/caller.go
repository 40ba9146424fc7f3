package domain

// Caller is the identity a presented credential resolves to.
type Caller struct {
	Account     *Account
	Environment *Environment
}
