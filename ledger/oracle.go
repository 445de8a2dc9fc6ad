package ledger

import (
	"github.com/ethereum/go-ethereum/common"
)

// Oracle is a registered oracle identity with its assigned indexes.
// The record is immutable after registration.
type Oracle struct {
	Address common.Address
	Indexes [3]uint8
}

// HasIndex reports whether the oracle holds the given index.
func (o *Oracle) HasIndex(index uint8) bool {
	for _, idx := range o.Indexes {
		if idx == index {
			return true
		}
	}
	return false
}

// AddOracle registers the oracle identity with its index assignment.
func (s *Store) AddOracle(address common.Address, indexes [3]uint8) error {
	s.oraclesMu.Lock()
	defer s.oraclesMu.Unlock()
	if _, ok := s.oracles[address]; ok {
		return ErrOracleAlreadyExists
	}
	s.oracles[address] = &Oracle{Address: address, Indexes: indexes}
	return nil
}

// Oracle returns the oracle record for the address.
func (s *Store) Oracle(address common.Address) (Oracle, bool) {
	s.oraclesMu.RLock()
	defer s.oraclesMu.RUnlock()
	o, ok := s.oracles[address]
	if !ok {
		return Oracle{}, false
	}
	return *o, true
}

// CountOracles returns the number of registered oracles.
func (s *Store) CountOracles() int {
	s.oraclesMu.RLock()
	defer s.oraclesMu.RUnlock()
	return len(s.oracles)
}
