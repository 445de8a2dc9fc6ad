// Package events implements the outbound notification channel of the
// core: airline funding, oracle status requests and flight resolutions
// are collected into a persistent disk queue and delivered by a worker
// to every registered sink and in-process subscriber. The queue decouples
// the ledger hot path from slow observers and survives restarts.
package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/nsqio/go-diskqueue"
	"go.suretynet.io/surety/log"
)

const subscriberBuffer = 64

// Sink receives every event in order. A failing sink is logged and
// skipped; delivery is at-least-once.
type Sink interface {
	Notify(Event) error
}

// Dispatcher is responsible for pulling collected events from the disk
// queue and distributing them to sinks and subscribers.
type Dispatcher struct {
	queue diskqueue.Interface

	mu    sync.RWMutex
	sinks []Sink
	subs  []chan Event

	done chan struct{}
}

// NewDispatcher creates a dispatcher persisting its queue under dataDir.
func NewDispatcher(name, dataDir string) *Dispatcher {
	dqLog := func(lvl diskqueue.LogLevel, f string, args ...interface{}) {
		switch lvl {
		case diskqueue.WARN:
			log.Warnf("diskqueue: "+f, args...)
		case diskqueue.ERROR, diskqueue.FATAL:
			log.Errorf("diskqueue: "+f, args...)
		default:
			log.Debugf("diskqueue: "+f, args...)
		}
	}
	return &Dispatcher{
		queue: diskqueue.New(name, dataDir, 1<<26, 1, 1<<16, 2500, time.Second*2, dqLog),
		done:  make(chan struct{}),
	}
}

// AddSink registers a delivery sink. Must be called before Start.
func (d *Dispatcher) AddSink(sink Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, sink)
}

// Subscribe returns a channel receiving every dispatched event. Slow
// subscribers drop events once their buffer fills; subscribers that need
// lossless delivery should register a Sink instead.
func (d *Dispatcher) Subscribe() <-chan Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch := make(chan Event, subscriberBuffer)
	d.subs = append(d.subs, ch)
	return ch
}

// Collect serializes the event and appends it to the persistent queue.
func (d *Dispatcher) Collect(ev Event) error {
	envelope, err := encode(ev)
	if err != nil {
		return fmt.Errorf("cannot collect event: %w", err)
	}
	if err := d.queue.Put(envelope); err != nil {
		return fmt.Errorf("cannot enqueue event: %w", err)
	}
	return nil
}

// Start launches the delivery worker.
func (d *Dispatcher) Start() {
	go d.work()
	log.Infof("events dispatcher started")
}

func (d *Dispatcher) work() {
	for {
		select {
		case <-d.done:
			return
		case envelope, ok := <-d.queue.ReadChan():
			if !ok {
				return
			}
			ev, err := decode(envelope)
			if err != nil {
				log.Warnf("dropping undecodable event: %s", err)
				continue
			}
			d.deliver(ev)
		}
	}
}

func (d *Dispatcher) deliver(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, sink := range d.sinks {
		if err := sink.Notify(ev); err != nil {
			log.Warnf("event sink failed: %s", err)
		}
	}
	for _, sub := range d.subs {
		select {
		case sub <- ev:
		default:
			log.Debugf("subscriber buffer full, dropping event %+v", ev)
		}
	}
}

// Close stops the worker and syncs the queue to disk.
func (d *Dispatcher) Close() error {
	close(d.done)
	return d.queue.Close()
}
