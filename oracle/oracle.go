// Package oracle implements the oracle registry and the quorum protocol
// that turns independent status reports into a canonical flight status.
//
// Oracles pay a fixed fee to register and receive three distinct indexes
// from a small index space. Status requests carry one randomly chosen
// index, narrowing which oracles should answer and bounding the fan-out
// of a single request without a membership directory. The first response
// bucket to collect a quorum of matching reports locks the flight.
package oracle

import (
	"math/rand"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.suretynet.io/surety/events"
	"go.suretynet.io/surety/ledger"
	"go.suretynet.io/surety/log"
	"go.suretynet.io/surety/types"
)

// Notifier is where the registry emits oracle requests and resolutions.
type Notifier interface {
	Collect(events.Event) error
}

// CreditPass is supplied by the insurance engine: given the status a
// flight resolved to, it returns the per-policy credit function to run
// under the flight lock, or nil when the status carries no payout.
type CreditPass func(types.FlightStatus) func(*ledger.Policy)

// Registry registers oracle identities and drives flight resolution.
type Registry struct {
	store    *ledger.Store
	notifier Notifier
	credit   CreditPass

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// New creates the registry. The random source decides index assignments
// and request indexes; inject a seeded source for deterministic tests.
// notifier and credit may be nil.
func New(store *ledger.Store, notifier Notifier, credit CreditPass, rnd *rand.Rand) *Registry {
	return &Registry{store: store, notifier: notifier, credit: credit, rnd: rnd}
}

// RegisterOracle registers the caller, drawing its index assignment.
// The fee is kept by the ledger's escrow pool.
func (r *Registry) RegisterOracle(caller common.Address, feePaid *types.BigInt) ([3]uint8, error) {
	if feePaid == nil || feePaid.Cmp(types.OracleRegistrationFee) < 0 {
		return [3]uint8{}, ledger.ErrInsufficientFee
	}
	indexes := r.drawIndexes()
	if err := r.store.AddOracle(caller, indexes); err != nil {
		return [3]uint8{}, err
	}
	r.store.DepositEscrow(feePaid)
	log.Debugw("oracle registered", "oracle", caller.Hex(), "indexes", indexes)
	return indexes, nil
}

// Indexes returns the caller's assigned indexes.
func (r *Registry) Indexes(caller common.Address) ([3]uint8, error) {
	o, ok := r.store.Oracle(caller)
	if !ok {
		return [3]uint8{}, ledger.ErrOracleNotFound
	}
	return o.Indexes, nil
}

// FetchFlightStatus opens a status request for the flight: it picks a
// random index and emits an OracleRequest event for external agents to
// answer. Safe to call repeatedly; it never mutates flight state.
func (r *Registry) FetchFlightStatus(key types.FlightKey, requester common.Address) (*events.OracleRequest, error) {
	r.rndMu.Lock()
	index := uint8(r.rnd.Intn(types.OracleIndexRange))
	r.rndMu.Unlock()

	req := &events.OracleRequest{
		ID:        uuid.NewString(),
		Index:     index,
		Flight:    key.Flight,
		Timestamp: key.Timestamp,
	}
	copy(req.Airline[:], key.Airline.Bytes())
	if r.notifier != nil {
		if err := r.notifier.Collect(req); err != nil {
			return nil, err
		}
	}
	log.Infow("oracle request opened", "id", req.ID, "index", index,
		"flight", key.String(), "requester", requester.Hex())
	return req, nil
}

// SubmitOracleResponse records the caller's status report. The index
// must be one of the caller's assigned indexes. Reports landing after
// the flight resolved are dropped without error: racing answers from
// uncoordinated agents are expected, not caller mistakes. When the
// report completes a quorum, the flight status becomes canonical, the
// insurance credit pass runs synchronously and a FlightResolved event
// is emitted.
func (r *Registry) SubmitOracleResponse(index uint8, key types.FlightKey,
	status types.FlightStatus, caller common.Address) (bool, error) {
	o, ok := r.store.Oracle(caller)
	if !ok || !o.HasIndex(index) {
		return false, ledger.ErrInvalidIndex
	}
	if !status.Resolved() {
		return false, ledger.ErrInvalidStatus
	}
	var credit func(*ledger.Policy)
	if r.credit != nil {
		credit = r.credit(status)
	}
	resolved, count := r.store.AddOracleResponse(index, key, status, caller, types.OracleQuorum, credit)
	if !resolved {
		log.Debugw("oracle response recorded", "flight", key.String(),
			"status", status.String(), "count", count, "oracle", caller.Hex())
		return false, nil
	}
	log.Infow("flight status resolved", "flight", key.String(),
		"status", status.String(), "responses", count)
	if r.notifier != nil {
		ev := &events.FlightResolved{
			Flight:    key.Flight,
			Timestamp: key.Timestamp,
			Status:    uint8(status),
		}
		copy(ev.Airline[:], key.Airline.Bytes())
		if err := r.notifier.Collect(ev); err != nil {
			log.Warnf("cannot emit flight resolved event: %s", err)
		}
	}
	return true, nil
}

// drawIndexes picks three distinct indexes from the index space.
func (r *Registry) drawIndexes() [3]uint8 {
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	perm := r.rnd.Perm(types.OracleIndexRange)
	return [3]uint8{uint8(perm[0]), uint8(perm[1]), uint8(perm[2])}
}
