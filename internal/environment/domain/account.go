package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultAccountID is the account seeded by the migrations. Self-hosted
// credential overrides resolve to its environments unless configured otherwise.
const DefaultAccountID int64 = 1

// DefaultEnvironmentNames are created with every new account.
var DefaultEnvironmentNames = []string{"prod", "dev"}

// Account is the tenant root owning one or more environments.
type Account struct {
	ID        int64
	UUID      uuid.UUID
	Name      string
	CreatedAt time.Time
}
