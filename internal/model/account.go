package model

import (
	"time"
)

type Account struct {
	ID           int64      `db:"id" json:"id"`
	Handle       string     `db:"handle" json:"handle"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         Role       `db:"role" json:"role"`
	BlockedAt    *time.Time `db:"blocked_at" json:"blockedAt,omitempty"`
	LoginCount   int        `db:"login_count" json:"loginCount"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}

func (a *Account) IsBlocked() bool {
	return a.BlockedAt != nil
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdministrator
}

type CreateAccountParams struct {
	Handle       string
	PasswordHash string
	Role         Role
}
