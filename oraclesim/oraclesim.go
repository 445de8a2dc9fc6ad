// Package oraclesim runs a swarm of simulated oracle agents against a
// service. Each agent registers itself paying the oracle fee, then answers
// the status requests matching one of its assigned indexes. The swarm is
// what keeps a development network resolving flights without real feeds.
package oraclesim

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/enriquebris/goconcurrentqueue"
	"github.com/ethereum/go-ethereum/common"
	"go.suretynet.io/surety/events"
	"go.suretynet.io/surety/log"
	"go.suretynet.io/surety/service"
	"go.suretynet.io/surety/types"
)

// DefaultOracles is the swarm size used when the config does not set one.
const DefaultOracles = 20

var resolvedStatuses = []types.FlightStatus{
	types.FlightStatusOnTime,
	types.FlightStatusLateAirline,
	types.FlightStatusLateWeather,
	types.FlightStatusLateTechnical,
	types.FlightStatusLateOther,
}

// Config tunes the simulator swarm.
type Config struct {
	// Oracles is the number of agents to register. Zero means DefaultOracles.
	Oracles int
	// Seed drives agent addresses and answer selection. Zero means random.
	Seed int64
	// Status, when a valid resolved code, is reported by every agent.
	// Otherwise each agent answers with a random resolved code.
	Status types.FlightStatus
}

type agent struct {
	address common.Address
	indexes [3]uint8
}

// Simulator owns the agent swarm and the request worker.
type Simulator struct {
	svc    *service.Service
	cfg    Config
	rndMu  sync.Mutex
	rnd    *rand.Rand
	agents []agent
	queue  *goconcurrentqueue.FIFO
	done   chan struct{}
	cancel context.CancelFunc
}

// New creates a simulator. Call Start to register the agents and begin
// answering requests.
func New(svc *service.Service, cfg Config) *Simulator {
	if cfg.Oracles <= 0 {
		cfg.Oracles = DefaultOracles
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	return &Simulator{
		svc:   svc,
		cfg:   cfg,
		rnd:   rand.New(rand.NewSource(seed)),
		queue: goconcurrentqueue.NewFIFO(),
		done:  make(chan struct{}),
	}
}

// Start registers the swarm and launches the pump and worker goroutines.
// The requests channel is usually a dispatcher subscription.
func (s *Simulator) Start(requests <-chan events.Event) error {
	for i := 0; i < s.cfg.Oracles; i++ {
		addr := s.randomAddress()
		indexes, err := s.svc.RegisterOracle(addr, types.OracleRegistrationFee)
		if err != nil {
			return fmt.Errorf("cannot register simulated oracle %d: %w", i, err)
		}
		s.agents = append(s.agents, agent{address: addr, indexes: indexes})
	}
	log.Infow("oracle simulator started", "oracles", len(s.agents))
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.pump(requests)
	go s.work(ctx)
	return nil
}

func (s *Simulator) randomAddress() common.Address {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	var addr common.Address
	s.rnd.Read(addr[:])
	return addr
}

func (s *Simulator) randomStatus() types.FlightStatus {
	if s.cfg.Status.Resolved() {
		return s.cfg.Status
	}
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return resolvedStatuses[s.rnd.Intn(len(resolvedStatuses))]
}

// AgentsHolding returns the agents assigned the given index.
func (s *Simulator) AgentsHolding(index uint8) []common.Address {
	var out []common.Address
	for _, a := range s.agents {
		for _, idx := range a.indexes {
			if idx == index {
				out = append(out, a.address)
				break
			}
		}
	}
	return out
}

// pump moves oracle requests from the subscription into the work queue.
func (s *Simulator) pump(requests <-chan events.Event) {
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-requests:
			if !ok {
				return
			}
			req, isReq := ev.(*events.OracleRequest)
			if !isReq {
				continue
			}
			if err := s.queue.Enqueue(req); err != nil {
				log.Warnf("oraclesim: cannot enqueue request: %s", err)
			}
		}
	}
}

func (s *Simulator) work(ctx context.Context) {
	for {
		item, err := s.queue.DequeueOrWaitForNextElementContext(ctx)
		if err != nil {
			return
		}
		s.answer(item.(*events.OracleRequest))
	}
}

// answer submits one response per agent holding the requested index. Each
// agent draws its own status, so quorum behaves like independent feeds.
func (s *Simulator) answer(req *events.OracleRequest) {
	key := req.Key()
	for _, a := range s.agents {
		held := false
		for _, idx := range a.indexes {
			if idx == req.Index {
				held = true
				break
			}
		}
		if !held {
			continue
		}
		status := s.randomStatus()
		if err := s.svc.SubmitOracleResponse(req.Index, key, status, a.address); err != nil {
			log.Debugw("oraclesim: response rejected",
				"oracle", a.address.Hex(), "flight", key.String(), "err", err)
		}
	}
}

// Close stops both goroutines. Safe to call once.
func (s *Simulator) Close() {
	close(s.done)
	if s.cancel != nil {
		s.cancel()
	}
}
