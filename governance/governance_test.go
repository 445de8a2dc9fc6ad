package governance

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"go.suretynet.io/surety/events"
	"go.suretynet.io/surety/ledger"
	"go.suretynet.io/surety/types"
)

type fakeNotifier struct {
	events []events.Event
}

func (f *fakeNotifier) Collect(ev events.Event) error {
	f.events = append(f.events, ev)
	return nil
}

func airlineAddr(i int) common.Address {
	return common.HexToAddress(fmt.Sprintf("0x10000000000000000000000000000000000000%02x", i))
}

// newTestGovernance returns a governance with one funded genesis airline.
func newTestGovernance(t *testing.T) (*Governance, *ledger.Store, *fakeNotifier) {
	t.Helper()
	store := ledger.New()
	notifier := &fakeNotifier{}
	g := New(store, notifier)
	if err := store.AddAirline(airlineAddr(1), "Genesis Air", true); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Fund(airlineAddr(1), types.EtherAmount(10), airlineAddr(1)); err != nil {
		t.Fatal(err)
	}
	return g, store, notifier
}

func TestRegisterRequiresFundedCaller(t *testing.T) {
	c := qt.New(t)
	g, store, _ := newTestGovernance(t)

	// a registered but unfunded airline cannot register others
	admitted, _, err := g.RegisterAirline(airlineAddr(2), "Second Air", airlineAddr(1))
	c.Assert(err, qt.IsNil)
	c.Assert(admitted, qt.IsTrue)
	_, _, err = g.RegisterAirline(airlineAddr(3), "Third Air", airlineAddr(2))
	c.Assert(err, qt.ErrorIs, ledger.ErrUnauthorized)

	// an unknown caller cannot either
	_, _, err = g.RegisterAirline(airlineAddr(3), "Third Air", airlineAddr(9))
	c.Assert(err, qt.ErrorIs, ledger.ErrUnauthorized)

	a, ok := store.Airline(airlineAddr(3))
	c.Assert(ok, qt.IsFalse)
	c.Assert(a.Registered, qt.IsFalse)
}

func TestIncumbencyBootstrap(t *testing.T) {
	c := qt.New(t)
	g, store, _ := newTestGovernance(t)

	// airlines 2..4 are admitted unilaterally by the funded genesis airline
	for i := 2; i <= 4; i++ {
		admitted, votes, err := g.RegisterAirline(airlineAddr(i), fmt.Sprintf("Air %d", i), airlineAddr(1))
		c.Assert(err, qt.IsNil)
		c.Assert(admitted, qt.IsTrue)
		c.Assert(votes, qt.Equals, 0)
	}
	registered, _ := store.CountAirlines()
	c.Assert(registered, qt.Equals, 4)
}

func TestConsensusAdmission(t *testing.T) {
	c := qt.New(t)
	g, store, _ := newTestGovernance(t)

	// bootstrap to 4 registered airlines, all funded
	for i := 2; i <= 4; i++ {
		_, _, err := g.RegisterAirline(airlineAddr(i), fmt.Sprintf("Air %d", i), airlineAddr(1))
		c.Assert(err, qt.IsNil)
		_, err = g.Fund(airlineAddr(i), types.EtherAmount(10), airlineAddr(i))
		c.Assert(err, qt.IsNil)
	}
	// a 5th airline was registered while the cohort was still below the
	// threshold, so it is also admitted unilaterally
	admitted, _, err := g.RegisterAirline(airlineAddr(5), "Air 5", airlineAddr(1))
	c.Assert(err, qt.IsNil)
	c.Assert(admitted, qt.IsTrue)

	// from here on, admission needs votes >= half the funded set (4 funded,
	// so 2 votes)
	candidate := airlineAddr(6)
	admitted, votes, err := g.RegisterAirline(candidate, "Air 6", airlineAddr(1))
	c.Assert(err, qt.IsNil)
	c.Assert(admitted, qt.IsFalse)
	c.Assert(votes, qt.Equals, 1)

	// a single identity cannot vote twice for the same candidate
	_, _, err = g.RegisterAirline(candidate, "Air 6", airlineAddr(1))
	c.Assert(err, qt.ErrorIs, ledger.ErrDuplicateVote)

	admitted, votes, err = g.RegisterAirline(candidate, "Air 6", airlineAddr(2))
	c.Assert(err, qt.IsNil)
	c.Assert(admitted, qt.IsTrue)
	c.Assert(votes, qt.Equals, 2)
	c.Assert(store.AirlineIsRegistered(candidate), qt.IsTrue)

	// votes persist after admission, and further votes are no-ops
	admitted, votes, err = g.RegisterAirline(candidate, "Air 6", airlineAddr(3))
	c.Assert(err, qt.IsNil)
	c.Assert(admitted, qt.IsTrue)
	c.Assert(votes, qt.Equals, 2)
}

func TestFund(t *testing.T) {
	c := qt.New(t)
	g, store, notifier := newTestGovernance(t)
	_, _, err := g.RegisterAirline(airlineAddr(2), "Second Air", airlineAddr(1))
	c.Assert(err, qt.IsNil)

	// funding is self-service only
	_, err = g.Fund(airlineAddr(2), types.EtherAmount(10), airlineAddr(1))
	c.Assert(err, qt.ErrorIs, ledger.ErrUnauthorized)

	// unknown airlines cannot be funded
	_, err = g.Fund(airlineAddr(9), types.EtherAmount(10), airlineAddr(9))
	c.Assert(err, qt.ErrorIs, ledger.ErrUnknownAirline)

	// non-positive amounts are rejected
	_, err = g.Fund(airlineAddr(2), types.NewBigInt(0), airlineAddr(2))
	c.Assert(err, qt.ErrorIs, ledger.ErrInsufficientFunds)

	// balance accumulates; the airline is funded once it crosses the threshold
	balance, err := g.Fund(airlineAddr(2), types.EtherAmount(4), airlineAddr(2))
	c.Assert(err, qt.IsNil)
	c.Assert(balance.Equal(types.EtherAmount(4)), qt.IsTrue)
	c.Assert(store.AirlineIsFunded(airlineAddr(2)), qt.IsFalse)

	balance, err = g.Fund(airlineAddr(2), types.EtherAmount(6), airlineAddr(2))
	c.Assert(err, qt.IsNil)
	c.Assert(balance.Equal(types.EtherAmount(10)), qt.IsTrue)
	c.Assert(store.AirlineIsFunded(airlineAddr(2)), qt.IsTrue)

	// one funded notification, for the threshold crossing
	var funded []*events.AirlineFunded
	for _, ev := range notifier.events {
		if f, ok := ev.(*events.AirlineFunded); ok && f.Name == "Second Air" {
			funded = append(funded, f)
		}
	}
	c.Assert(funded, qt.HasLen, 1)
	c.Assert(new(types.BigInt).SetBytes(funded[0].Balance).Equal(types.EtherAmount(10)), qt.IsTrue)
}
