package domain

import "time"

// RiderRole represents the role of an account in the system.
type RiderRole string

const (
	RoleRider  RiderRole = "Rider"
	RoleDriver RiderRole = "Driver"
	RoleAdmin  RiderRole = "Admin"
)

// Rider represents an account with a wallet.
// BalanceCents is a cached projection of the rider's ledger: it must always
// equal the sum of the rider's ledger entry amounts, and is only updated in
// the same transaction as a ledger append.
type Rider struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         RiderRole
	BalanceCents int64
	CreatedAt    time.Time
}
