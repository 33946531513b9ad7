package models

import "time"

// RefreshToken is a server-stored, single-use token bound to a wallet address.
type RefreshToken struct {
	ID        string
	Address   string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
