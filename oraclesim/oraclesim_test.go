package oraclesim

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"go.suretynet.io/surety/events"
	"go.suretynet.io/surety/service"
	"go.suretynet.io/surety/types"
)

func TestSwarmResolvesFlight(t *testing.T) {
	c := qt.New(t)
	owner := common.HexToAddress("0x0000000000000000000000000000000000000aaa")
	genesis := common.HexToAddress("0x1000000000000000000000000000000000000001")
	svc, err := service.New(service.Options{
		Owner:              owner,
		GenesisAirline:     genesis,
		GenesisAirlineName: "Genesis Air",
		Seed:               1905,
	})
	c.Assert(err, qt.IsNil)

	requests := make(chan events.Event, 16)
	sim := New(svc, Config{Oracles: 30, Seed: 7, Status: types.FlightStatusLateAirline})
	c.Assert(sim.Start(requests), qt.IsNil)
	defer sim.Close()

	key := types.FlightKey{Airline: genesis, Flight: "SN1905", Timestamp: 1700000000}

	// find a request whose index enough agents hold, then feed it to the swarm
	var req *events.OracleRequest
	for i := 0; i < 500; i++ {
		r, err := svc.FetchFlightStatus(key, owner)
		c.Assert(err, qt.IsNil)
		if len(sim.AgentsHolding(r.Index)) >= types.OracleQuorum {
			req = r
			break
		}
	}
	c.Assert(req, qt.IsNotNil, qt.Commentf("no index with quorum among %d agents", 30))
	requests <- req

	deadline := time.Now().Add(5 * time.Second)
	for svc.FlightStatus(key) == types.FlightStatusUnknown {
		if time.Now().After(deadline) {
			t.Fatal("swarm did not resolve the flight in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
	c.Assert(svc.FlightStatus(key), qt.Equals, types.FlightStatusLateAirline)
}

func TestSwarmIgnoresForeignEvents(t *testing.T) {
	c := qt.New(t)
	svc, err := service.New(service.Options{
		Owner:              common.HexToAddress("0x0000000000000000000000000000000000000aaa"),
		GenesisAirline:     common.HexToAddress("0x1000000000000000000000000000000000000001"),
		GenesisAirlineName: "Genesis Air",
		Seed:               1905,
	})
	c.Assert(err, qt.IsNil)

	requests := make(chan events.Event, 1)
	sim := New(svc, Config{Oracles: 5, Seed: 11})
	c.Assert(sim.Start(requests), qt.IsNil)
	defer sim.Close()

	// non-request events pass through the pump without effect
	requests <- &events.AirlineFunded{Name: "noise"}
	time.Sleep(50 * time.Millisecond)
	c.Assert(sim.queue.GetLen(), qt.Equals, 0)
}
