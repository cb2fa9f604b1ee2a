package repository

import "context"

// Stores bundles the repositories scoped to a single transaction.
type Stores struct {
	Riders RiderRepository
	Routes RouteRepository
	Trips  TripRepository
	Ledger LedgerRepository
}

// TxRunner executes a function as one atomic unit against the store: either
// every write made through the supplied Stores becomes visible, or none do.
// Tap settlement and per-trip shift settlement each run inside exactly one
// such unit.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(s Stores) error) error
}
