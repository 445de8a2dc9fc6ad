package ledger

import (
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"go.suretynet.io/surety/types"
	"go.suretynet.io/surety/util"
)

var (
	testAirline   = common.HexToAddress("0x1000000000000000000000000000000000000001")
	testVoter     = common.HexToAddress("0x1000000000000000000000000000000000000002")
	testPassenger = common.HexToAddress("0x2000000000000000000000000000000000000001")
)

func testKey() types.FlightKey {
	return types.FlightKey{Airline: testAirline, Flight: "SN1905", Timestamp: 1700000000}
}

func TestAirlineVotes(t *testing.T) {
	c := qt.New(t)
	s := New()
	c.Assert(s.AddAirline(testAirline, "Genesis Air", true), qt.IsNil)
	c.Assert(s.AddAirline(testAirline, "Genesis Air", true), qt.ErrorIs, ErrAirlineAlreadyExists)
	c.Assert(s.AddAirline(testVoter, "Voter Air", true), qt.IsNil)

	// an unfunded airline cannot vote
	_, _, err := s.AddAirlineVote(testAirline, testVoter)
	c.Assert(err, qt.ErrorIs, ErrUnauthorized)

	_, err = s.AddAirlineFunds(testVoter, types.EtherAmount(10))
	c.Assert(err, qt.IsNil)
	c.Assert(s.SetAirlineFunded(testVoter), qt.IsNil)

	candidate := common.HexToAddress("0x1000000000000000000000000000000000000003")
	c.Assert(s.AddAirline(candidate, "Candidate Air", false), qt.IsNil)
	votes, funded, err := s.AddAirlineVote(candidate, testVoter)
	c.Assert(err, qt.IsNil)
	c.Assert(votes, qt.Equals, 1)
	c.Assert(funded, qt.Equals, 1)

	// double voting for the same unregistered candidate fails
	_, _, err = s.AddAirlineVote(candidate, testVoter)
	c.Assert(err, qt.ErrorIs, ErrDuplicateVote)

	// once registered, further votes are accepted as no-ops
	c.Assert(s.SetAirlineRegistered(candidate), qt.IsNil)
	votes, _, err = s.AddAirlineVote(candidate, testVoter)
	c.Assert(err, qt.IsNil)
	c.Assert(votes, qt.Equals, 1)
}

func TestAirlineFunds(t *testing.T) {
	c := qt.New(t)
	s := New()
	c.Assert(s.AddAirline(testAirline, "Genesis Air", true), qt.IsNil)

	_, err := s.AddAirlineFunds(testAirline, types.NewBigInt(0))
	c.Assert(err, qt.ErrorIs, ErrInsufficientFunds)

	balance, err := s.AddAirlineFunds(testAirline, types.EtherAmount(4))
	c.Assert(err, qt.IsNil)
	c.Assert(balance.Equal(types.EtherAmount(4)), qt.IsTrue)

	// balance accumulates across calls, and so does the escrow pool
	balance, err = s.AddAirlineFunds(testAirline, types.EtherAmount(6))
	c.Assert(err, qt.IsNil)
	c.Assert(balance.Equal(types.EtherAmount(10)), qt.IsTrue)
	c.Assert(s.EscrowBalance().Equal(types.EtherAmount(10)), qt.IsTrue)
}

func TestOracleResponses(t *testing.T) {
	c := qt.New(t)
	s := New()
	key := testKey()
	oracles := []common.Address{
		common.HexToAddress("0x3000000000000000000000000000000000000001"),
		common.HexToAddress("0x3000000000000000000000000000000000000002"),
		common.HexToAddress("0x3000000000000000000000000000000000000003"),
	}

	// same oracle submitting twice under the same index counts once
	resolved, count := s.AddOracleResponse(7, key, types.FlightStatusOnTime, oracles[0], 3, nil)
	c.Assert(resolved, qt.IsFalse)
	c.Assert(count, qt.Equals, 1)
	resolved, count = s.AddOracleResponse(7, key, types.FlightStatusOnTime, oracles[0], 3, nil)
	c.Assert(resolved, qt.IsFalse)
	c.Assert(count, qt.Equals, 1)

	resolved, _ = s.AddOracleResponse(7, key, types.FlightStatusOnTime, oracles[1], 3, nil)
	c.Assert(resolved, qt.IsFalse)
	resolved, count = s.AddOracleResponse(7, key, types.FlightStatusOnTime, oracles[2], 3, nil)
	c.Assert(resolved, qt.IsTrue)
	c.Assert(count, qt.Equals, 3)
	c.Assert(s.FlightStatus(key), qt.Equals, types.FlightStatusOnTime)

	// late response with a different code is silently dropped
	late := common.HexToAddress("0x3000000000000000000000000000000000000004")
	resolved, _ = s.AddOracleResponse(7, key, types.FlightStatusLateAirline, late, 3, nil)
	c.Assert(resolved, qt.IsFalse)
	c.Assert(s.FlightStatus(key), qt.Equals, types.FlightStatusOnTime)
}

func TestPolicyLifecycle(t *testing.T) {
	c := qt.New(t)
	s := New()
	key := testKey()
	premium := new(types.BigInt).Div(types.EtherAmount(1), types.NewBigInt(2))

	c.Assert(s.UpsertPolicy(key, testPassenger, premium, types.PolicyPremiumCap), qt.IsNil)
	p, ok := s.Policy(key, testPassenger)
	c.Assert(ok, qt.IsTrue)
	c.Assert(p.Premium.Equal(premium), qt.IsTrue)
	c.Assert(p.Payable(), qt.IsFalse)

	// nothing due before a credit exists
	_, err := s.PayPolicy(key, testPassenger)
	c.Assert(err, qt.ErrorIs, ErrNothingDue)

	// fund the pool so the payout is covered, then credit 1.5x via the
	// resolution callback
	c.Assert(s.AddAirline(testAirline, "Genesis Air", true), qt.IsNil)
	_, err = s.AddAirlineFunds(testAirline, types.EtherAmount(10))
	c.Assert(err, qt.IsNil)

	oracles := []common.Address{
		common.HexToAddress("0x3000000000000000000000000000000000000001"),
		common.HexToAddress("0x3000000000000000000000000000000000000002"),
		common.HexToAddress("0x3000000000000000000000000000000000000003"),
	}
	credit := func(p *Policy) {
		if p.Credit == nil {
			half := new(types.BigInt).Div(p.Premium, types.NewBigInt(2))
			p.Credit = new(types.BigInt).Add(p.Premium, half)
		}
	}
	for i, o := range oracles {
		resolved, _ := s.AddOracleResponse(2, key, types.FlightStatusLateAirline, o, 3, credit)
		c.Assert(resolved, qt.Equals, i == 2)
	}

	p, _ = s.Policy(key, testPassenger)
	c.Assert(p.Payable(), qt.IsTrue)
	want, _ := new(types.BigInt).SetString("750000000000000000")
	c.Assert(p.Credit.Equal(want), qt.IsTrue)

	amount, err := s.PayPolicy(key, testPassenger)
	c.Assert(err, qt.IsNil)
	c.Assert(amount.Equal(want), qt.IsTrue)

	// paying twice fails
	_, err = s.PayPolicy(key, testPassenger)
	c.Assert(err, qt.ErrorIs, ErrNothingDue)
}

func TestPayInsolvency(t *testing.T) {
	c := qt.New(t)
	s := New()
	key := testKey()

	c.Assert(s.UpsertPolicy(key, testPassenger, types.NewBigInt(10), nil), qt.IsNil)
	oracles := []common.Address{
		common.HexToAddress("0x3000000000000000000000000000000000000001"),
		common.HexToAddress("0x3000000000000000000000000000000000000002"),
		common.HexToAddress("0x3000000000000000000000000000000000000003"),
	}
	// credit more than the pool holds (only the 10 wei premium is escrowed)
	credit := func(p *Policy) {
		p.Credit = types.NewBigInt(15)
	}
	for _, o := range oracles {
		s.AddOracleResponse(0, key, types.FlightStatusLateAirline, o, 3, credit)
	}
	_, err := s.PayPolicy(key, testPassenger)
	c.Assert(err, qt.ErrorIs, ErrInsolvency)
}

func TestConcurrentResponses(t *testing.T) {
	c := qt.New(t)
	s := New()
	key := testKey()

	// 100 oracles race on the same flight; the flight must resolve
	// exactly once and every policy must be credited exactly once.
	credits := 0
	credit := func(p *Policy) {
		if p.Credit == nil {
			p.Credit = p.Premium.Clone()
			credits++
		}
	}
	c.Assert(s.UpsertPolicy(key, testPassenger, types.NewBigInt(100), nil), qt.IsNil)

	var wg sync.WaitGroup
	resolutions := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			oracle := util.RandomAddress()
			resolved, _ := s.AddOracleResponse(uint8(i%10), key, types.FlightStatusLateAirline, oracle, 3, credit)
			resolutions <- resolved
		}(i)
	}
	wg.Wait()
	close(resolutions)

	total := 0
	for r := range resolutions {
		if r {
			total++
		}
	}
	c.Assert(total, qt.Equals, 1)
	c.Assert(credits, qt.Equals, 1)
	c.Assert(s.FlightStatus(key), qt.Equals, types.FlightStatusLateAirline)
}
