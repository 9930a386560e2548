package model

import "time"

// Role is the closed set of authorization levels. Checked at the routing
// boundary via middleware.RequireRole, never by string comparison in handlers.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCashier
}

// User stores login identities. The password is only ever persisted as a
// bcrypt hash and is never serialized into responses.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash string    `gorm:"column:password;not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'cashier'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
