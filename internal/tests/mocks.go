package tests

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"shuttle/internal/domain"
	"shuttle/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK RIDER REPOSITORY
// ──────────────────────────────────────────────

// MockRiderRepository is a mock implementation of RiderRepository.
type MockRiderRepository struct {
	mu     sync.RWMutex
	riders map[string]*domain.Rider

	// Counters for verification
	CreateCallCount        int32
	AdjustBalanceCallCount int32

	// Error injection
	CreateError        error
	AdjustBalanceError error
}

// NewMockRiderRepository creates a new mock rider repository.
func NewMockRiderRepository() *MockRiderRepository {
	return &MockRiderRepository{
		riders: make(map[string]*domain.Rider),
	}
}

// AddRider adds a rider to the mock repository.
func (m *MockRiderRepository) AddRider(rider *domain.Rider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.riders[rider.ID] = rider
}

func (m *MockRiderRepository) Create(ctx context.Context, rider *domain.Rider) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.riders {
		if r.Username == rider.Username {
			return repository.ErrDuplicate
		}
	}
	m.riders[rider.ID] = rider
	return nil
}

func (m *MockRiderRepository) GetByID(ctx context.Context, id string) (*domain.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rider, ok := m.riders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *rider
	return &copy, nil
}

func (m *MockRiderRepository) GetByUsername(ctx context.Context, username string) (*domain.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.riders {
		if r.Username == username {
			copy := *r
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockRiderRepository) GetAll(ctx context.Context) ([]*domain.Rider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Rider, 0, len(m.riders))
	for _, r := range m.riders {
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRiderRepository) AdjustBalance(ctx context.Context, id string, deltaCents int64) (int64, error) {
	atomic.AddInt32(&m.AdjustBalanceCallCount, 1)
	if m.AdjustBalanceError != nil {
		return 0, m.AdjustBalanceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rider, ok := m.riders[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	rider.BalanceCents += deltaCents
	return rider.BalanceCents, nil
}

// Balance returns the rider's balance (for test assertions).
func (m *MockRiderRepository) Balance(id string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rider, ok := m.riders[id]; ok {
		return rider.BalanceCents
	}
	return 0
}

func (m *MockRiderRepository) snapshot() map[string]domain.Rider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]domain.Rider, len(m.riders))
	for id, r := range m.riders {
		snap[id] = *r
	}
	return snap
}

func (m *MockRiderRepository) restore(snap map[string]domain.Rider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.riders = make(map[string]*domain.Rider, len(snap))
	for id := range snap {
		r := snap[id]
		m.riders[id] = &r
	}
}

// ──────────────────────────────────────────────
// MOCK ROUTE REPOSITORY
// ──────────────────────────────────────────────

// MockRouteRepository is a mock implementation of RouteRepository.
type MockRouteRepository struct {
	mu         sync.RWMutex
	routes     map[string]*domain.Route
	stops      map[string]*domain.Stop
	routeStops map[string]*domain.RouteStop

	// Error injection
	GetRouteStopError error
}

// NewMockRouteRepository creates a new mock route repository.
func NewMockRouteRepository() *MockRouteRepository {
	return &MockRouteRepository{
		routes:     make(map[string]*domain.Route),
		stops:      make(map[string]*domain.Stop),
		routeStops: make(map[string]*domain.RouteStop),
	}
}

func (m *MockRouteRepository) CreateRoute(ctx context.Context, route *domain.Route) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[route.ID] = route
	return nil
}

func (m *MockRouteRepository) GetRoute(ctx context.Context, id string) (*domain.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	route, ok := m.routes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *route
	return &copy, nil
}

func (m *MockRouteRepository) GetAllRoutes(ctx context.Context) ([]*domain.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Route, 0, len(m.routes))
	for _, r := range m.routes {
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRouteRepository) CreateStop(ctx context.Context, stop *domain.Stop) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops[stop.ID] = stop
	return nil
}

func (m *MockRouteRepository) GetAllStops(ctx context.Context) ([]*domain.Stop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Stop, 0, len(m.stops))
	for _, s := range m.stops {
		copy := *s
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockRouteRepository) AddRouteStop(ctx context.Context, rs *domain.RouteStop) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.routeStops {
		if existing.RouteID == rs.RouteID && existing.StopOrder == rs.StopOrder {
			return repository.ErrDuplicate
		}
	}
	m.routeStops[rs.ID] = rs
	return nil
}

func (m *MockRouteRepository) GetRouteStop(ctx context.Context, id string) (*domain.RouteStop, error) {
	if m.GetRouteStopError != nil {
		return nil, m.GetRouteStopError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rs, ok := m.routeStops[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *rs
	return &copy, nil
}

func (m *MockRouteRepository) GetRouteStops(ctx context.Context, routeID string) ([]*domain.RouteStop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.RouteStop, 0)
	for _, rs := range m.routeStops {
		if rs.RouteID == routeID {
			copy := *rs
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StopOrder < result[j].StopOrder
	})
	return result, nil
}

func (m *MockRouteRepository) GetTerminalStop(ctx context.Context, routeID string) (*domain.RouteStop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var terminal *domain.RouteStop
	for _, rs := range m.routeStops {
		if rs.RouteID == routeID && (terminal == nil || rs.StopOrder > terminal.StopOrder) {
			terminal = rs
		}
	}
	if terminal == nil {
		return nil, repository.ErrNotFound
	}
	copy := *terminal
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	// Counters
	CreateCallCount int32
	CloseCallCount  int32

	// Error injection
	CreateError error
	CloseError  error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) GetActiveByRiderID(ctx context.Context, riderID string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.trips {
		if t.RiderID == riderID && t.Status == domain.TripStatusActive {
			copy := *t
			return &copy, nil
		}
	}
	return nil, nil // No active trip
}

func (m *MockTripRepository) GetActiveByShuttleID(ctx context.Context, shuttleID string) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Trip, 0)
	for _, t := range m.trips {
		if t.ShuttleID == shuttleID && t.Status == domain.TripStatusActive {
			copy := *t
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockTripRepository) Close(ctx context.Context, id string, status domain.TripStatus) error {
	atomic.AddInt32(&m.CloseCallCount, 1)
	if m.CloseError != nil {
		return m.CloseError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[id]
	if !ok {
		return repository.ErrNotFound
	}
	if trip.Status != domain.TripStatusActive {
		return repository.ErrTripNotActive
	}
	trip.Status = status
	return nil
}

// GetTrip returns trip for assertions.
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips[id]
}

// CountTrips returns the number of trips.
func (m *MockTripRepository) CountTrips() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips)
}

// CountActiveTripsForRider counts active trips for a rider.
func (m *MockTripRepository) CountActiveTripsForRider(riderID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, t := range m.trips {
		if t.RiderID == riderID && t.Status == domain.TripStatusActive {
			count++
		}
	}
	return count
}

func (m *MockTripRepository) snapshot() map[string]domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]domain.Trip, len(m.trips))
	for id, t := range m.trips {
		snap[id] = *t
	}
	return snap
}

func (m *MockTripRepository) restore(snap map[string]domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips = make(map[string]*domain.Trip, len(snap))
	for id := range snap {
		t := snap[id]
		m.trips[id] = &t
	}
}

// ──────────────────────────────────────────────
// MOCK LEDGER REPOSITORY
// ──────────────────────────────────────────────

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	mu      sync.RWMutex
	entries []*domain.LedgerEntry

	// Counters
	AppendCallCount int32

	// Error injection
	AppendError error
}

// NewMockLedgerRepository creates a new mock ledger repository.
func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{
		entries: make([]*domain.LedgerEntry, 0),
	}
}

func (m *MockLedgerRepository) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	atomic.AddInt32(&m.AppendCallCount, 1)
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *entry
	m.entries = append(m.entries, &copy)
	return nil
}

func (m *MockLedgerRepository) GetByRider(ctx context.Context, riderID string, entryType domain.EntryType) ([]*domain.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.LedgerEntry, 0)
	// Newest first.
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if e.RiderID != riderID {
			continue
		}
		if entryType != "" && e.Type != entryType {
			continue
		}
		copy := *e
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockLedgerRepository) GetAll(ctx context.Context) ([]*domain.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.LedgerEntry, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		copy := *m.entries[i]
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockLedgerRepository) SumByRider(ctx context.Context, riderID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum int64
	for _, e := range m.entries {
		if e.RiderID == riderID {
			sum += e.AmountCents
		}
	}
	return sum, nil
}

// CountEntries returns the number of entries.
func (m *MockLedgerRepository) CountEntries() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// EntriesForRider returns a rider's entries in append order (for assertions).
func (m *MockLedgerRepository) EntriesForRider(riderID string) []*domain.LedgerEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.LedgerEntry, 0)
	for _, e := range m.entries {
		if e.RiderID == riderID {
			result = append(result, e)
		}
	}
	return result
}

func (m *MockLedgerRepository) snapshot() []domain.LedgerEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make([]domain.LedgerEntry, len(m.entries))
	for i, e := range m.entries {
		snap[i] = *e
	}
	return snap
}

func (m *MockLedgerRepository) restore(snap []domain.LedgerEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make([]*domain.LedgerEntry, len(snap))
	for i := range snap {
		e := snap[i]
		m.entries[i] = &e
	}
}

// ──────────────────────────────────────────────
// MOCK SHUTTLE REPOSITORY
// ──────────────────────────────────────────────

// MockShuttleRepository is a mock implementation of ShuttleRepository.
type MockShuttleRepository struct {
	mu       sync.RWMutex
	shuttles map[string]*domain.Shuttle
}

// NewMockShuttleRepository creates a new mock shuttle repository.
func NewMockShuttleRepository() *MockShuttleRepository {
	return &MockShuttleRepository{
		shuttles: make(map[string]*domain.Shuttle),
	}
}

// AddShuttle adds a shuttle to the mock repository.
func (m *MockShuttleRepository) AddShuttle(shuttle *domain.Shuttle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shuttles[shuttle.ID] = shuttle
}

func (m *MockShuttleRepository) Create(ctx context.Context, shuttle *domain.Shuttle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shuttles[shuttle.ID] = shuttle
	return nil
}

func (m *MockShuttleRepository) GetByID(ctx context.Context, id string) (*domain.Shuttle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	shuttle, ok := m.shuttles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *shuttle
	return &copy, nil
}

func (m *MockShuttleRepository) GetAll(ctx context.Context) ([]*domain.Shuttle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Shuttle, 0, len(m.shuttles))
	for _, s := range m.shuttles {
		copy := *s
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireRiderLock(ctx context.Context, riderID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "lock:rider:" + riderID
	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseRiderLock(ctx context.Context, riderID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, "lock:rider:"+riderID)
	return nil
}

// IsLocked checks if a rider is locked (for test assertions).
func (m *MockLockStore) IsLocked(riderID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:rider:"+riderID]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// MOCK TRANSACTIONAL STORE
// ──────────────────────────────────────────────

// MockStore bundles the mock repositories behind a TxRunner. It snapshots
// all mutable state before running the transaction function and restores it
// when the function fails, so abort semantics can be asserted in tests.
type MockStore struct {
	Riders *MockRiderRepository
	Routes *MockRouteRepository
	Trips  *MockTripRepository
	Ledger *MockLedgerRepository

	// Counters
	WithinTxCallCount int32

	// Error injection
	BeginError error
}

// NewMockStore creates a new mock transactional store.
func NewMockStore() *MockStore {
	return &MockStore{
		Riders: NewMockRiderRepository(),
		Routes: NewMockRouteRepository(),
		Trips:  NewMockTripRepository(),
		Ledger: NewMockLedgerRepository(),
	}
}

func (m *MockStore) WithinTx(ctx context.Context, fn func(s repository.Stores) error) error {
	atomic.AddInt32(&m.WithinTxCallCount, 1)
	if m.BeginError != nil {
		return m.BeginError
	}

	riderSnap := m.Riders.snapshot()
	tripSnap := m.Trips.snapshot()
	ledgerSnap := m.Ledger.snapshot()

	err := fn(repository.Stores{
		Riders: m.Riders,
		Routes: m.Routes,
		Trips:  m.Trips,
		Ledger: m.Ledger,
	})
	if err != nil {
		m.Riders.restore(riderSnap)
		m.Trips.restore(tripSnap)
		m.Ledger.restore(ledgerSnap)
	}
	return err
}

var _ repository.TxRunner = (*MockStore)(nil)

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)
