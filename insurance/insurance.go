// Package insurance implements the passenger-facing insurance engine:
// capped policy purchases, the late-airline credit pass and payouts.
package insurance

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"go.suretynet.io/surety/ledger"
	"go.suretynet.io/surety/log"
	"go.suretynet.io/surety/types"
)

// Engine acts on the shared ledger store. All methods are safe for
// concurrent use; atomicity per flight comes from the store's locks.
type Engine struct {
	store *ledger.Store
}

// New creates the insurance engine.
func New(store *ledger.Store) *Engine {
	return &Engine{store: store}
}

// Buy purchases (or tops up) the passenger's policy on a flight. The
// accumulated premium is capped per policy and the airline must be
// registered; the premium moves into the ledger's escrow custody.
func (e *Engine) Buy(passenger common.Address, key types.FlightKey, premium *types.BigInt) error {
	if !e.store.AirlineIsRegistered(key.Airline) {
		return ledger.ErrUnknownAirline
	}
	if err := e.store.UpsertPolicy(key, passenger, premium, types.PolicyPremiumCap); err != nil {
		return err
	}
	log.Debugw("policy purchased", "passenger", passenger.Hex(),
		"flight", key.String(), "premium", premium.String())
	return nil
}

// CreditPass returns the per-policy credit function for a resolution to
// the given status, or nil when the status carries no payout. Only a
// late-airline resolution credits passengers; the credit is 3/2 of the
// premium and is computed at most once per policy.
func (e *Engine) CreditPass(status types.FlightStatus) func(*ledger.Policy) {
	if status != types.FlightStatusLateAirline {
		return nil
	}
	return func(p *ledger.Policy) {
		if p.Credit != nil || p.Paid {
			return
		}
		half := new(types.BigInt).Div(p.Premium, types.NewBigInt(2))
		p.Credit = new(types.BigInt).Add(p.Premium, half)
	}
}

// Pay releases the passenger's credited payout from escrow.
// ErrNothingDue when there is no unpaid credit. An ErrInsolvency from
// the store is fatal for the operation and is always surfaced.
func (e *Engine) Pay(passenger common.Address, key types.FlightKey) (*types.BigInt, error) {
	amount, err := e.store.PayPolicy(key, passenger)
	if errors.Is(err, ledger.ErrInsolvency) {
		log.Errorf("escrow insolvency paying %s on flight %s: %s",
			passenger.Hex(), key.String(), err)
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	log.Infow("policy paid", "passenger", passenger.Hex(),
		"flight", key.String(), "amount", amount.String())
	return amount, nil
}

// Credit is the read-only projection returned by CheckCredit.
type Credit struct {
	Status types.FlightStatus
	Credit *types.BigInt
	Paid   bool
}

// CheckCredit returns the flight status and the passenger's credit on it.
func (e *Engine) CheckCredit(passenger common.Address, key types.FlightKey) Credit {
	out := Credit{
		Status: e.store.FlightStatus(key),
		Credit: types.NewBigInt(0),
	}
	if p, ok := e.store.Policy(key, passenger); ok {
		if p.Credit != nil {
			out.Credit = p.Credit
		}
		out.Paid = p.Paid
	}
	return out
}

// InsuranceValue returns the premium currently stored for the
// passenger's policy on the flight, zero if there is none.
func (e *Engine) InsuranceValue(passenger common.Address, key types.FlightKey) *types.BigInt {
	if p, ok := e.store.Policy(key, passenger); ok {
		return p.Premium
	}
	return types.NewBigInt(0)
}
