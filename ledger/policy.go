package ledger

import (
	"github.com/ethereum/go-ethereum/common"
	"go.suretynet.io/surety/types"
)

// Policy is an insurance policy held by a passenger on one flight.
// Premium accumulates across purchases until the flight resolves;
// Credit is set at most once, by the credit pass of a late-airline
// resolution; Paid flips at most once, on withdrawal.
type Policy struct {
	Passenger common.Address
	Flight    types.FlightKey
	Premium   *types.BigInt
	Credit    *types.BigInt
	Paid      bool
}

func (p *Policy) clone() Policy {
	out := Policy{
		Passenger: p.Passenger,
		Flight:    p.Flight,
		Premium:   p.Premium.Clone(),
		Paid:      p.Paid,
	}
	if p.Credit != nil {
		out.Credit = p.Credit.Clone()
	}
	return out
}

// Payable reports whether the policy holds an unpaid, positive credit.
func (p *Policy) Payable() bool {
	return !p.Paid && p.Credit != nil && p.Credit.Sign() > 0
}

// UpsertPolicy creates the passenger's policy on the flight or tops up
// its premium, moving the premium into escrow. The flight record is
// created implicitly if this is the first operation touching it. The limit
// bounds the accumulated premium, checked under the flight lock so
// concurrent top-ups cannot slip past it; nil means unbounded.
func (s *Store) UpsertPolicy(key types.FlightKey, passenger common.Address,
	premium, limit *types.BigInt) error {
	if premium == nil || premium.Sign() <= 0 {
		return ErrInsufficientFunds
	}
	e := s.entry(key)
	e.mu.Lock()
	p, ok := e.policies[passenger]
	if !ok {
		p = &Policy{
			Passenger: passenger,
			Flight:    key,
			Premium:   types.NewBigInt(0),
		}
	}
	total := new(types.BigInt).Add(p.Premium, premium)
	if limit != nil && total.Cmp(limit) > 0 {
		e.mu.Unlock()
		return ErrOverCap
	}
	p.Premium = total
	e.policies[passenger] = p
	e.mu.Unlock()

	s.escrowDeposit(premium)
	return nil
}

// Policy returns a copy of the passenger's policy on the flight.
func (s *Store) Policy(key types.FlightKey, passenger common.Address) (Policy, bool) {
	e, ok := s.lookup(key)
	if !ok {
		return Policy{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.policies[passenger]
	if !ok {
		return Policy{}, false
	}
	return p.clone(), true
}

// PoliciesOnFlight returns copies of every policy held on the flight.
func (s *Store) PoliciesOnFlight(key types.FlightKey) []Policy {
	e, ok := s.lookup(key)
	if !ok {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Policy, 0, len(e.policies))
	for _, p := range e.policies {
		out = append(out, p.clone())
	}
	return out
}

// PayPolicy releases the policy credit out of escrow and marks it paid.
// ErrNothingDue when there is no unpaid positive credit; ErrInsolvency
// when the escrow pool cannot cover the credit, in which case nothing is
// mutated and the condition must be treated as fatal by the caller.
func (s *Store) PayPolicy(key types.FlightKey, passenger common.Address) (*types.BigInt, error) {
	e, ok := s.lookup(key)
	if !ok {
		return nil, ErrNothingDue
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.policies[passenger]
	if !ok || !p.Payable() {
		return nil, ErrNothingDue
	}
	if err := s.escrowWithdraw(p.Credit); err != nil {
		return nil, err
	}
	p.Paid = true
	return p.Credit.Clone(), nil
}
