package domain

import "time"

// Account is the identity that owns exactly one player record.
type Account struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	PasswordHash *string   `db:"password_hash" json:"-"`
	DiscordID    *string   `db:"discord_id" json:"discord_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// HasPassword reports whether the account can log in locally.
func (a *Account) HasPassword() bool {
	return a.PasswordHash != nil && *a.PasswordHash != ""
}
