package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the JWT claims issued on admin login.
type SessionClaims struct {
	Phone string `json:"phone"`
	Label string `json:"label"`
	jwt.RegisteredClaims
}

// AdminPhone is one entry of the admin allowlist. CodeHash holds the
// bcrypt hash of the login code used by the session endpoint; entries
// added over chat start without one.
type AdminPhone struct {
	ID        string    `db:"id" json:"id"`
	Phone     string    `db:"phone" json:"phone"`
	Label     string    `db:"label" json:"label"`
	CodeHash  string    `db:"code_hash" json:"-"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TemporaryPage is a short-lived shareable content page.
type TemporaryPage struct {
	ID        string    `db:"id" json:"id"`
	Token     string    `db:"token" json:"token"`
	Titre     string    `db:"titre" json:"titre"`
	Contenu   string    `db:"contenu" json:"contenu"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
