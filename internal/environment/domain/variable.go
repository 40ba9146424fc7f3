package domain

import "time"

// EnvironmentVariable is a named value attached to an environment, encrypted at
// rest the same way as the secret key.
type EnvironmentVariable struct {
	ID            int64
	EnvironmentID int64
	Name          string
	Value         string
	ValueIV       *string
	ValueTag      *string
	CreatedAt     time.Time
}

// VariableInput is one entry of a replace-all variables write.
type VariableInput struct {
	Name  string
	Value string
}
