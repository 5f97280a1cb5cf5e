package model

import (
	"time"
)

// Session is a server-side login session. Only the HMAC hash of the cookie
// token is stored.
type Session struct {
	ID        int64     `db:"id" json:"id"`
	AccountID int64     `db:"account_id" json:"accountId"`
	TokenHash string    `db:"token_hash" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreateSessionParams struct {
	AccountID int64
	TokenHash string
	ExpiresAt time.Time
}
