package archive

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"go.suretynet.io/surety/db"
	"go.suretynet.io/surety/db/metadb"
	"go.suretynet.io/surety/events"
	"go.suretynet.io/surety/types"
)

func testResolved(flight string, status types.FlightStatus) *events.FlightResolved {
	ev := &events.FlightResolved{
		Flight:    flight,
		Timestamp: 1700000000,
		Status:    uint8(status),
	}
	copy(ev.Airline[:], common.HexToAddress("0x1000000000000000000000000000000000000001").Bytes())
	return ev
}

func TestFlightResolutions(t *testing.T) {
	c := qt.New(t)
	a := New(metadb.NewTest(t))

	ev := testResolved("SN1905", types.FlightStatusLateAirline)
	c.Assert(a.Notify(ev), qt.IsNil)

	status, ok, err := a.ResolvedStatus(ev.Key())
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	c.Assert(status, qt.Equals, types.FlightStatusLateAirline)

	// a flight that never resolved is simply absent
	other := testResolved("SN1906", types.FlightStatusOnTime)
	_, ok, err = a.ResolvedStatus(other.Key())
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)

	// notifying again overwrites idempotently
	c.Assert(a.Notify(ev), qt.IsNil)
	c.Assert(a.Notify(other), qt.IsNil)

	var got []string
	err = a.Resolutions(func(r *events.FlightResolved) bool {
		got = append(got, r.Flight)
		return true
	})
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.HasLen, 2)
}

func TestAirlinesAndRequests(t *testing.T) {
	c := qt.New(t)
	a := New(metadb.NewTest(t))

	funded := &events.AirlineFunded{Name: "Genesis Air", Balance: types.EtherAmount(10).Bytes()}
	copy(funded.Airline[:], common.HexToAddress("0x1000000000000000000000000000000000000001").Bytes())
	c.Assert(a.Notify(funded), qt.IsNil)

	airlines, err := a.FundedAirlines()
	c.Assert(err, qt.IsNil)
	c.Assert(airlines, qt.HasLen, 1)
	c.Assert(airlines[0].Name, qt.Equals, "Genesis Air")

	req := &events.OracleRequest{ID: "req-1", Index: 4, Flight: "SN1905", Timestamp: 1700000000}
	c.Assert(a.Notify(req), qt.IsNil)
	got, err := a.Request("req-1")
	c.Assert(err, qt.IsNil)
	c.Assert(got.Index, qt.Equals, uint8(4))

	_, err = a.Request("missing")
	c.Assert(err, qt.ErrorIs, db.ErrKeyNotFound)
}
