// Package service composes the ledger, governance, oracle and insurance
// components behind the operational guard and exposes the command and
// query surface consumed by the API, the CLI and the oracle agents.
package service

import (
	"math/rand"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"go.suretynet.io/surety/events"
	"go.suretynet.io/surety/governance"
	"go.suretynet.io/surety/insurance"
	"go.suretynet.io/surety/ledger"
	"go.suretynet.io/surety/log"
	"go.suretynet.io/surety/oracle"
	"go.suretynet.io/surety/types"
)

// Options configures a Service.
type Options struct {
	// Owner is the only identity allowed to flip the operational flag.
	Owner common.Address
	// GenesisAirline is registered at startup so the network never
	// deadlocks with zero airlines able to vote.
	GenesisAirline     common.Address
	GenesisAirlineName string
	// Seed drives oracle index assignment. Zero means a random seed.
	Seed int64
	// Dispatcher receives the outbound events. May be nil (tests).
	Dispatcher *events.Dispatcher
}

// Service is the business-logic core of the insurance network.
type Service struct {
	owner       common.Address
	operational atomic.Bool

	store      *ledger.Store
	gov        *governance.Governance
	oracles    *oracle.Registry
	insurance  *insurance.Engine
	dispatcher *events.Dispatcher
}

// notifier adapts the dispatcher to the component Notifier interfaces,
// tolerating a nil dispatcher.
type notifier struct {
	d *events.Dispatcher
}

func (n notifier) Collect(ev events.Event) error {
	if n.d == nil {
		return nil
	}
	return n.d.Collect(ev)
}

// New creates the service, registers the genesis airline and leaves the
// system operational.
func New(opts Options) (*Service, error) {
	store := ledger.New()
	n := notifier{opts.Dispatcher}
	eng := insurance.New(store)
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	s := &Service{
		owner:      opts.Owner,
		store:      store,
		gov:        governance.New(store, n),
		oracles:    oracle.New(store, n, eng.CreditPass, rand.New(rand.NewSource(seed))),
		insurance:  eng,
		dispatcher: opts.Dispatcher,
	}
	if err := store.AddAirline(opts.GenesisAirline, opts.GenesisAirlineName, true); err != nil {
		return nil, err
	}
	s.operational.Store(true)
	registerMetrics()
	log.Infow("surety service created",
		"owner", opts.Owner.Hex(), "genesisAirline", opts.GenesisAirline.Hex())
	return s, nil
}

// Store exposes the ledger for read-only callers (API projections).
func (s *Service) Store() *ledger.Store { return s.store }

// SetOperational flips the circuit-breaker flag. Owner only.
func (s *Service) SetOperational(operational bool, caller common.Address) error {
	if caller != s.owner {
		return ledger.ErrUnauthorized
	}
	s.operational.Store(operational)
	log.Infow("operational flag set", "operational", operational)
	return nil
}

// IsOperational is always allowed, regardless of the flag itself.
func (s *Service) IsOperational() bool {
	return s.operational.Load()
}

func (s *Service) requireOperational() error {
	if !s.operational.Load() {
		return ledger.ErrSystemPaused
	}
	return nil
}

// RegisterAirline admits or votes for a candidate airline.
func (s *Service) RegisterAirline(candidate common.Address, name string,
	caller common.Address) (bool, int, error) {
	if err := s.requireOperational(); err != nil {
		return false, 0, err
	}
	admitted, votes, err := s.gov.RegisterAirline(candidate, name, caller)
	if err == nil && admitted {
		airlinesAdmitted.Inc()
	}
	return admitted, votes, err
}

// Fund adds self-service funding to an airline.
func (s *Service) Fund(airline common.Address, amount *types.BigInt,
	caller common.Address) (*types.BigInt, error) {
	if err := s.requireOperational(); err != nil {
		return nil, err
	}
	return s.gov.Fund(airline, amount, caller)
}

// GetAirline is the read-only airline projection.
func (s *Service) GetAirline(address common.Address) (ledger.Airline, bool) {
	return s.gov.GetAirline(address)
}

// RegisterOracle registers the caller as an oracle.
func (s *Service) RegisterOracle(caller common.Address, feePaid *types.BigInt) ([3]uint8, error) {
	if err := s.requireOperational(); err != nil {
		return [3]uint8{}, err
	}
	return s.oracles.RegisterOracle(caller, feePaid)
}

// OracleIndexes returns the caller's index assignment.
func (s *Service) OracleIndexes(caller common.Address) ([3]uint8, error) {
	return s.oracles.Indexes(caller)
}

// FetchFlightStatus opens an oracle request for the flight.
func (s *Service) FetchFlightStatus(key types.FlightKey,
	requester common.Address) (*events.OracleRequest, error) {
	if err := s.requireOperational(); err != nil {
		return nil, err
	}
	return s.oracles.FetchFlightStatus(key, requester)
}

// SubmitOracleResponse records an oracle's status report.
func (s *Service) SubmitOracleResponse(index uint8, key types.FlightKey,
	status types.FlightStatus, caller common.Address) error {
	if err := s.requireOperational(); err != nil {
		return err
	}
	resolved, err := s.oracles.SubmitOracleResponse(index, key, status, caller)
	if err == nil && resolved {
		flightsResolved.Inc()
	}
	return err
}

// Buy purchases insurance on a flight.
func (s *Service) Buy(passenger common.Address, key types.FlightKey,
	premium *types.BigInt) error {
	if err := s.requireOperational(); err != nil {
		return err
	}
	if err := s.insurance.Buy(passenger, key, premium); err != nil {
		return err
	}
	policiesSold.Inc()
	return nil
}

// Pay releases a credited payout to the passenger.
func (s *Service) Pay(passenger common.Address, key types.FlightKey) (*types.BigInt, error) {
	if err := s.requireOperational(); err != nil {
		return nil, err
	}
	amount, err := s.insurance.Pay(passenger, key)
	if err == nil {
		payoutsReleased.Inc()
	}
	return amount, err
}

// CheckCredit is the read-only policy/status projection.
func (s *Service) CheckCredit(passenger common.Address, key types.FlightKey) insurance.Credit {
	return s.insurance.CheckCredit(passenger, key)
}

// GetInsuranceValue returns the stored premium of a policy.
func (s *Service) GetInsuranceValue(passenger common.Address, key types.FlightKey) *types.BigInt {
	return s.insurance.InsuranceValue(passenger, key)
}

// FlightStatus returns the canonical status of a flight.
func (s *Service) FlightStatus(key types.FlightKey) types.FlightStatus {
	return s.store.FlightStatus(key)
}

// EscrowBalance returns the pooled funds held by the ledger.
func (s *Service) EscrowBalance() *types.BigInt {
	return s.store.EscrowBalance()
}
