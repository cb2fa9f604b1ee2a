package domain

import "time"

// EntryType classifies a ledger entry.
type EntryType string

const (
	EntryTypeRidePayment     EntryType = "RidePayment"
	EntryTypeAddFunds        EntryType = "AddFunds"
	EntryTypeAdminAdjustment EntryType = "AdminAdjustment"
)

// LedgerEntry is an immutable signed monetary record. The ledger is
// append-only and is the source of truth for wallet balances; a negative
// amount is a charge, a positive amount a credit. Amounts are in cents.
type LedgerEntry struct {
	ID            string
	RiderID       string
	AmountCents   int64
	Type          EntryType
	Timestamp     time.Time
	RelatedTripID string // empty when the entry is not tied to a trip
}
