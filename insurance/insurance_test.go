package insurance

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"go.suretynet.io/surety/ledger"
	"go.suretynet.io/surety/types"
)

var (
	testAirline   = common.HexToAddress("0x1000000000000000000000000000000000000001")
	testPassenger = common.HexToAddress("0x2000000000000000000000000000000000000001")
)

func testKey() types.FlightKey {
	return types.FlightKey{Airline: testAirline, Flight: "SN1905", Timestamp: 1700000000}
}

func newTestEngine(t *testing.T) (*Engine, *ledger.Store) {
	t.Helper()
	store := ledger.New()
	if err := store.AddAirline(testAirline, "Genesis Air", true); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddAirlineFunds(testAirline, types.EtherAmount(10)); err != nil {
		t.Fatal(err)
	}
	return New(store), store
}

// resolve drives the flight to the given status through the store, the
// same way the oracle quorum does, running the engine's credit pass.
func resolve(s *ledger.Store, e *Engine, key types.FlightKey, status types.FlightStatus) {
	for i := 1; i <= types.OracleQuorum; i++ {
		oracle := common.HexToAddress(fmt.Sprintf("0x30000000000000000000000000000000000000%02x", i))
		s.AddOracleResponse(0, key, status, oracle, types.OracleQuorum, e.CreditPass(status))
	}
}

func TestBuy(t *testing.T) {
	c := qt.New(t)
	e, _ := newTestEngine(t)
	key := testKey()

	overCap := new(types.BigInt).Add(types.PolicyPremiumCap, types.NewBigInt(1))
	c.Assert(e.Buy(testPassenger, key, overCap), qt.ErrorIs, ledger.ErrOverCap)

	unknown := types.FlightKey{Airline: common.HexToAddress("0x9"), Flight: "XX1", Timestamp: 1}
	c.Assert(e.Buy(testPassenger, unknown, types.NewBigInt(100)), qt.ErrorIs, ledger.ErrUnknownAirline)

	half := new(types.BigInt).Div(types.EtherAmount(1), types.NewBigInt(2))
	c.Assert(e.Buy(testPassenger, key, half), qt.IsNil)
	c.Assert(e.InsuranceValue(testPassenger, key).Equal(half), qt.IsTrue)

	// topping up past the cap fails, the accumulated premium is bounded
	c.Assert(e.Buy(testPassenger, key, types.PolicyPremiumCap.Clone()), qt.ErrorIs, ledger.ErrOverCap)
	c.Assert(e.Buy(testPassenger, key, half), qt.IsNil)
	c.Assert(e.InsuranceValue(testPassenger, key).Equal(types.PolicyPremiumCap), qt.IsTrue)

	// buying at exactly the cap is allowed, on a separate flight
	key2 := types.FlightKey{Airline: testAirline, Flight: "SN1906", Timestamp: 1700000000}
	c.Assert(e.Buy(testPassenger, key2, types.PolicyPremiumCap.Clone()), qt.IsNil)
}

func TestCreditOnLateAirline(t *testing.T) {
	c := qt.New(t)
	e, store := newTestEngine(t)
	key := testKey()

	half := new(types.BigInt).Div(types.EtherAmount(1), types.NewBigInt(2))
	c.Assert(e.Buy(testPassenger, key, half), qt.IsNil)

	resolve(store, e, key, types.FlightStatusLateAirline)

	credit := e.CheckCredit(testPassenger, key)
	c.Assert(credit.Status, qt.Equals, types.FlightStatusLateAirline)
	want, _ := new(types.BigInt).SetString("750000000000000000")
	c.Assert(credit.Credit.Equal(want), qt.IsTrue)

	amount, err := e.Pay(testPassenger, key)
	c.Assert(err, qt.IsNil)
	c.Assert(amount.Equal(want), qt.IsTrue)

	// pay transfers exactly once
	_, err = e.Pay(testPassenger, key)
	c.Assert(err, qt.ErrorIs, ledger.ErrNothingDue)
}

func TestNoCreditOnOnTime(t *testing.T) {
	c := qt.New(t)
	e, store := newTestEngine(t)
	key := testKey()

	half := new(types.BigInt).Div(types.EtherAmount(1), types.NewBigInt(2))
	c.Assert(e.Buy(testPassenger, key, half), qt.IsNil)

	resolve(store, e, key, types.FlightStatusOnTime)

	credit := e.CheckCredit(testPassenger, key)
	c.Assert(credit.Status, qt.Equals, types.FlightStatusOnTime)
	c.Assert(credit.Credit.Sign(), qt.Equals, 0)

	_, err := e.Pay(testPassenger, key)
	c.Assert(err, qt.ErrorIs, ledger.ErrNothingDue)
}

func TestCreditPassIdempotent(t *testing.T) {
	c := qt.New(t)
	e, _ := newTestEngine(t)

	p := &ledger.Policy{
		Passenger: testPassenger,
		Flight:    testKey(),
		Premium:   types.NewBigInt(100),
	}
	pass := e.CreditPass(types.FlightStatusLateAirline)
	pass(p)
	c.Assert(p.Credit.Equal(types.NewBigInt(150)), qt.IsTrue)
	// re-invoking never double-credits
	pass(p)
	c.Assert(p.Credit.Equal(types.NewBigInt(150)), qt.IsTrue)

	// non late-airline resolutions carry no pass at all
	c.Assert(e.CreditPass(types.FlightStatusLateWeather), qt.IsNil)
	c.Assert(e.CreditPass(types.FlightStatusOnTime), qt.IsNil)
}
