package ledger

import (
	"github.com/ethereum/go-ethereum/common"
	"go.suretynet.io/surety/types"
)

// Airline is a network participant. Airlines are created on the first
// registration request and never deleted. The Votes set only ever holds
// identities of airlines that were funded at voting time; a voter
// appears at most once per candidate.
type Airline struct {
	Address    common.Address
	Name       string
	Registered bool
	Funded     bool
	Balance    *types.BigInt
	Votes      map[common.Address]bool
}

// clone returns a defensive copy safe to hand outside the store lock.
func (a *Airline) clone() Airline {
	votes := make(map[common.Address]bool, len(a.Votes))
	for v := range a.Votes {
		votes[v] = true
	}
	return Airline{
		Address:    a.Address,
		Name:       a.Name,
		Registered: a.Registered,
		Funded:     a.Funded,
		Balance:    a.Balance.Clone(),
		Votes:      votes,
	}
}

// AddAirline creates the airline record. Returns ErrAirlineAlreadyExists
// if the address is already known.
func (s *Store) AddAirline(address common.Address, name string, registered bool) error {
	s.airlinesMu.Lock()
	defer s.airlinesMu.Unlock()
	if _, ok := s.airlines[address]; ok {
		return ErrAirlineAlreadyExists
	}
	s.airlines[address] = &Airline{
		Address:    address,
		Name:       name,
		Registered: registered,
		Balance:    types.NewBigInt(0),
		Votes:      make(map[common.Address]bool),
	}
	return nil
}

// Airline returns a projection of the airline record, plus whether the
// address is known to the ledger at all.
func (s *Store) Airline(address common.Address) (Airline, bool) {
	s.airlinesMu.RLock()
	defer s.airlinesMu.RUnlock()
	a, ok := s.airlines[address]
	if !ok {
		return Airline{Address: address, Balance: types.NewBigInt(0)}, false
	}
	return a.clone(), true
}

// AirlineIsFunded reports whether the address is a funded, registered airline.
func (s *Store) AirlineIsFunded(address common.Address) bool {
	s.airlinesMu.RLock()
	defer s.airlinesMu.RUnlock()
	a, ok := s.airlines[address]
	return ok && a.Registered && a.Funded
}

// AirlineIsRegistered reports whether the address is a registered airline.
func (s *Store) AirlineIsRegistered(address common.Address) bool {
	s.airlinesMu.RLock()
	defer s.airlinesMu.RUnlock()
	a, ok := s.airlines[address]
	return ok && a.Registered
}

// CountAirlines returns the number of registered airlines and how many
// of those are also funded.
func (s *Store) CountAirlines() (registered, funded int) {
	s.airlinesMu.RLock()
	defer s.airlinesMu.RUnlock()
	for _, a := range s.airlines {
		if a.Registered {
			registered++
			if a.Funded {
				funded++
			}
		}
	}
	return registered, funded
}

// SetAirlineRegistered marks the airline as registered. The existing
// vote set is kept; votes are never cleared.
func (s *Store) SetAirlineRegistered(address common.Address) error {
	s.airlinesMu.Lock()
	defer s.airlinesMu.Unlock()
	a, ok := s.airlines[address]
	if !ok {
		return ErrAirlineNotFound
	}
	a.Registered = true
	return nil
}

// AddAirlineVote records voter in the candidate's vote set and returns
// the updated vote count together with the current funded airline count,
// read under the same lock so callers can evaluate admission thresholds
// against a consistent snapshot.
//
// Invariants enforced here: only funded registered airlines may vote
// (ErrUnauthorized) and a voter appears at most once per candidate
// (ErrDuplicateVote). Voting for an already-registered candidate is a
// successful no-op.
func (s *Store) AddAirlineVote(candidate, voter common.Address) (votes, funded int, err error) {
	s.airlinesMu.Lock()
	defer s.airlinesMu.Unlock()
	v, ok := s.airlines[voter]
	if !ok || !v.Registered || !v.Funded {
		return 0, 0, ErrUnauthorized
	}
	c, ok := s.airlines[candidate]
	if !ok {
		return 0, 0, ErrAirlineNotFound
	}
	for _, a := range s.airlines {
		if a.Registered && a.Funded {
			funded++
		}
	}
	if c.Registered {
		return len(c.Votes), funded, nil
	}
	if c.Votes[voter] {
		return len(c.Votes), funded, ErrDuplicateVote
	}
	c.Votes[voter] = true
	return len(c.Votes), funded, nil
}

// AddAirlineFunds adds amount to the airline balance and deposits the
// same amount into the escrow pool. Non-positive amounts are rejected
// with ErrInsufficientFunds. Returns the new balance.
func (s *Store) AddAirlineFunds(address common.Address, amount *types.BigInt) (*types.BigInt, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInsufficientFunds
	}
	s.airlinesMu.Lock()
	a, ok := s.airlines[address]
	if !ok {
		s.airlinesMu.Unlock()
		return nil, ErrAirlineNotFound
	}
	a.Balance.Add(a.Balance, amount)
	balance := a.Balance.Clone()
	s.airlinesMu.Unlock()

	s.escrowDeposit(amount)
	return balance, nil
}

// SetAirlineFunded marks the airline as a funded participant.
func (s *Store) SetAirlineFunded(address common.Address) error {
	s.airlinesMu.Lock()
	defer s.airlinesMu.Unlock()
	a, ok := s.airlines[address]
	if !ok {
		return ErrAirlineNotFound
	}
	a.Funded = true
	return nil
}
