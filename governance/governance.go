// Package governance implements airline admission and funding: admission
// by incumbency while the network is small, multiparty voting from the
// fifth airline onward, and self-service funding with a fixed threshold.
package governance

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.suretynet.io/surety/events"
	"go.suretynet.io/surety/ledger"
	"go.suretynet.io/surety/log"
	"go.suretynet.io/surety/types"
)

// Notifier is where governance emits its outbound events.
type Notifier interface {
	Collect(events.Event) error
}

// Governance runs the airline admission protocol on top of the ledger
// store. Registration decisions (count, vote, admit) are serialized by
// an internal mutex; individual store mutations keep their own locks.
type Governance struct {
	store    *ledger.Store
	notifier Notifier

	registerMu sync.Mutex
}

// New creates the governance component. notifier may be nil.
func New(store *ledger.Store, notifier Notifier) *Governance {
	return &Governance{store: store, notifier: notifier}
}

// RegisterAirline admits candidate or records caller's vote for it.
//
// While fewer than types.ConsensusAirlineThreshold airlines are
// registered, any funded airline admits the candidate unilaterally
// (incumbency bootstrapping). From the fifth airline onward the call
// casts caller's vote and the candidate is admitted once its votes reach
// at least half of the currently funded airline count, recomputed at
// every vote. Voting again for a candidate that is still unregistered
// fails with ErrDuplicateVote; voting for an already admitted candidate
// is a successful no-op.
func (g *Governance) RegisterAirline(candidate common.Address, name string,
	caller common.Address) (admitted bool, votes int, err error) {
	if !g.store.AirlineIsFunded(caller) {
		return false, 0, ledger.ErrUnauthorized
	}

	g.registerMu.Lock()
	defer g.registerMu.Unlock()

	registered, _ := g.store.CountAirlines()
	if registered < types.ConsensusAirlineThreshold {
		err := g.store.AddAirline(candidate, name, true)
		if errors.Is(err, ledger.ErrAirlineAlreadyExists) {
			err = g.store.SetAirlineRegistered(candidate)
		}
		if err != nil {
			return false, 0, err
		}
		log.Infow("airline admitted by incumbency",
			"candidate", candidate.Hex(), "name", name, "registrar", caller.Hex())
		return true, 0, nil
	}

	// Consensus path: make sure the candidate record exists, then vote.
	if err := g.store.AddAirline(candidate, name, false); err != nil &&
		!errors.Is(err, ledger.ErrAirlineAlreadyExists) {
		return false, 0, err
	}
	votes, funded, err := g.store.AddAirlineVote(candidate, caller)
	if err != nil {
		return false, votes, err
	}
	if a, _ := g.store.Airline(candidate); a.Registered {
		return true, votes, nil
	}
	// Simple majority of the current funded set, evaluated live.
	if votes < (funded+1)/2 {
		log.Debugw("airline vote recorded",
			"candidate", candidate.Hex(), "voter", caller.Hex(),
			"votes", votes, "funded", funded)
		return false, votes, nil
	}
	if err := g.store.SetAirlineRegistered(candidate); err != nil {
		return false, votes, err
	}
	log.Infow("airline admitted by consensus",
		"candidate", candidate.Hex(), "votes", votes, "funded", funded)
	return true, votes, nil
}

// Fund adds amount to the airline's balance. Funding is self-service:
// only the airline itself may fund its participation. Once the balance
// reaches types.AirlineFundingThreshold the airline becomes a funded
// participant and an AirlineFunded event is emitted.
func (g *Governance) Fund(airline common.Address, amount *types.BigInt,
	caller common.Address) (*types.BigInt, error) {
	if caller != airline {
		return nil, ledger.ErrUnauthorized
	}
	a, ok := g.store.Airline(airline)
	if !ok || !a.Registered {
		return nil, ledger.ErrUnknownAirline
	}
	balance, err := g.store.AddAirlineFunds(airline, amount)
	if err != nil {
		return nil, err
	}
	if !a.Funded && balance.Cmp(types.AirlineFundingThreshold) >= 0 {
		if err := g.store.SetAirlineFunded(airline); err != nil {
			return nil, err
		}
		log.Infow("airline funded", "airline", airline.Hex(), "balance", balance.String())
		if g.notifier != nil {
			ev := &events.AirlineFunded{Name: a.Name, Balance: balance.Bytes()}
			copy(ev.Airline[:], airline.Bytes())
			if err := g.notifier.Collect(ev); err != nil {
				log.Warnf("cannot emit airline funded event: %s", err)
			}
		}
	}
	return balance, nil
}

// GetAirline returns the read-only projection of the airline record.
func (g *Governance) GetAirline(address common.Address) (ledger.Airline, bool) {
	return g.store.Airline(address)
}
