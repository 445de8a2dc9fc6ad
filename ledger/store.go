// Package ledger holds the canonical state of the insurance network:
// airlines, flights, policies, oracles and the escrow pool. It performs
// data-level invariant checks only; admission thresholds, quorum sizes
// and payout multipliers belong to the packages acting on the store.
//
// Locking granularity is per entity key. Airline and oracle sets are
// each guarded by one RWMutex (low rate operations), while every flight
// carries its own lock covering the flight record, its policies and its
// oracle response buckets, so that quorum resolution and the credit
// fan-out are atomic per flight without serializing unrelated flights.
package ledger

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.suretynet.io/surety/types"
)

// Store is the canonical ledger state. The zero value is not usable;
// create instances with New.
type Store struct {
	airlinesMu sync.RWMutex
	airlines   map[common.Address]*Airline

	oraclesMu sync.RWMutex
	oracles   map[common.Address]*Oracle

	escrowMu sync.Mutex
	escrow   *types.BigInt

	flightsMu sync.Mutex
	flights   map[types.FlightKey]*flightEntry
}

// New creates an empty ledger store.
func New() *Store {
	return &Store{
		airlines: make(map[common.Address]*Airline),
		oracles:  make(map[common.Address]*Oracle),
		escrow:   types.NewBigInt(0),
		flights:  make(map[types.FlightKey]*flightEntry),
	}
}

// flightEntry ties a flight to everything that must mutate atomically
// with its terminal status flip.
type flightEntry struct {
	mu       sync.Mutex
	flight   Flight
	policies map[common.Address]*Policy
	// responses: submitted index -> status code -> set of oracle identities
	responses map[uint8]map[types.FlightStatus]map[common.Address]bool
}

// entry returns the flightEntry for key, creating it implicitly on first
// use (flights come into existence on the first oracle request or the
// first insurance purchase).
func (s *Store) entry(key types.FlightKey) *flightEntry {
	s.flightsMu.Lock()
	defer s.flightsMu.Unlock()
	e, ok := s.flights[key]
	if !ok {
		e = &flightEntry{
			flight:    Flight{Key: key, Status: types.FlightStatusUnknown},
			policies:  make(map[common.Address]*Policy),
			responses: make(map[uint8]map[types.FlightStatus]map[common.Address]bool),
		}
		s.flights[key] = e
	}
	return e
}

// lookup returns the flightEntry for key without creating it.
func (s *Store) lookup(key types.FlightKey) (*flightEntry, bool) {
	s.flightsMu.Lock()
	defer s.flightsMu.Unlock()
	e, ok := s.flights[key]
	return e, ok
}

// EscrowBalance returns the pooled funds currently held by the ledger.
func (s *Store) EscrowBalance() *types.BigInt {
	s.escrowMu.Lock()
	defer s.escrowMu.Unlock()
	return s.escrow.Clone()
}

// DepositEscrow adds amount to the pooled funds. Used for fees and any
// other income that is not tied to a single airline balance.
func (s *Store) DepositEscrow(amount *types.BigInt) {
	s.escrowDeposit(amount)
}

func (s *Store) escrowDeposit(amount *types.BigInt) {
	s.escrowMu.Lock()
	defer s.escrowMu.Unlock()
	s.escrow.Add(s.escrow, amount)
}

// escrowWithdraw moves amount out of the pool. Returns ErrInsolvency if
// the pool cannot cover it; the pool is left untouched in that case.
func (s *Store) escrowWithdraw(amount *types.BigInt) error {
	s.escrowMu.Lock()
	defer s.escrowMu.Unlock()
	if s.escrow.Cmp(amount) < 0 {
		return ErrInsolvency
	}
	s.escrow.Sub(s.escrow, amount)
	return nil
}
