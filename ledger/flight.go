package ledger

import (
	"github.com/ethereum/go-ethereum/common"
	"go.suretynet.io/surety/types"
)

// Flight is the ledger view of a flight. Status is terminal: once it
// leaves FlightStatusUnknown it never changes again.
type Flight struct {
	Key    types.FlightKey
	Status types.FlightStatus
}

// Flight returns the flight record for key, plus whether the ledger has
// seen the flight at all.
func (s *Store) Flight(key types.FlightKey) (Flight, bool) {
	e, ok := s.lookup(key)
	if !ok {
		return Flight{Key: key, Status: types.FlightStatusUnknown}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flight, true
}

// FlightStatus returns the current status of the flight, which is
// FlightStatusUnknown for flights the ledger has never seen.
func (s *Store) FlightStatus(key types.FlightKey) types.FlightStatus {
	f, _ := s.Flight(key)
	return f.Status
}

// AddOracleResponse appends caller to the response bucket for
// (index, key, status) and resolves the flight if that bucket reaches
// quorum for the first time. The credit callback runs for every policy
// on the flight, under the flight lock, exactly when the resolution
// happens; resolved reports whether this call triggered it.
//
// Responses arriving after the flight is resolved are dropped silently:
// oracles race each other by design and a late answer is not a caller
// mistake. A repeated answer from the same oracle under the same index
// is dropped the same way, so a single identity can never fill a bucket.
func (s *Store) AddOracleResponse(index uint8, key types.FlightKey, status types.FlightStatus,
	caller common.Address, quorum int, credit func(*Policy)) (resolved bool, count int) {
	e := s.entry(key)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.flight.Status.Resolved() {
		return false, 0
	}

	byStatus, ok := e.responses[index]
	if !ok {
		byStatus = make(map[types.FlightStatus]map[common.Address]bool)
		e.responses[index] = byStatus
	}
	// One bucket per oracle per (index, flight) key.
	for _, voters := range byStatus {
		if voters[caller] {
			return false, len(byStatus[status])
		}
	}
	bucket, ok := byStatus[status]
	if !ok {
		bucket = make(map[common.Address]bool)
		byStatus[status] = bucket
	}
	bucket[caller] = true

	if len(bucket) < quorum {
		return false, len(bucket)
	}

	// First bucket to reach quorum locks the flight.
	e.flight.Status = status
	if credit != nil {
		for _, p := range e.policies {
			credit(p)
		}
	}
	return true, len(bucket)
}
