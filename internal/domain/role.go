package domain

import "time"

// Role names ensured at startup.
const (
	RoleAdministrator = "Administrator"
	RoleCustomer      = "Customer"
)

// Role is a named permission group assignable to users.
type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
