// Package archive persists the event stream of the network into a local
// key-value store, so resolved flights and funded airlines can be queried
// after a restart without replaying the disk queue.
package archive

import (
	"encoding/binary"
	"errors"
	"fmt"

	"git.sr.ht/~sircmpwn/go-bare"
	"go.suretynet.io/surety/db"
	"go.suretynet.io/surety/events"
	"go.suretynet.io/surety/log"
	"go.suretynet.io/surety/types"
)

var (
	flightPrefix  = []byte("f/")
	airlinePrefix = []byte("a/")
	requestPrefix = []byte("r/")
)

// Archive is an events.Sink writing every delivered event to its database.
type Archive struct {
	db db.Database
}

var _ events.Sink = (*Archive)(nil)

// New creates an archive on top of the given database.
func New(database db.Database) *Archive {
	return &Archive{db: database}
}

func flightKey(key types.FlightKey) []byte {
	k := make([]byte, 0, len(flightPrefix)+20+len(key.Flight)+8)
	k = append(k, flightPrefix...)
	k = append(k, key.Airline.Bytes()...)
	k = append(k, key.Flight...)
	return binary.BigEndian.AppendUint64(k, uint64(key.Timestamp))
}

// Notify implements events.Sink. Unknown event types are ignored so the
// archive never blocks dispatcher delivery.
func (a *Archive) Notify(ev events.Event) error {
	switch e := ev.(type) {
	case *events.FlightResolved:
		return a.put(flightKey(e.Key()), e)
	case *events.AirlineFunded:
		return a.put(append(airlinePrefix, e.Airline[:]...), e)
	case *events.OracleRequest:
		return a.put(append(requestPrefix, e.ID...), e)
	default:
		log.Debugf("archive: ignoring event %+v", ev)
		return nil
	}
}

func (a *Archive) put(key []byte, ev events.Event) error {
	data, err := bare.Marshal(ev)
	if err != nil {
		return fmt.Errorf("cannot marshal archive entry: %w", err)
	}
	wTx := a.db.WriteTx()
	defer wTx.Discard()
	if err := wTx.Set(key, data); err != nil {
		return err
	}
	return wTx.Commit()
}

// ResolvedStatus returns the archived status of a flight, or false if the
// flight never reached quorum.
func (a *Archive) ResolvedStatus(key types.FlightKey) (types.FlightStatus, bool, error) {
	data, err := a.db.Get(flightKey(key))
	if errors.Is(err, db.ErrKeyNotFound) {
		return types.FlightStatusUnknown, false, nil
	}
	if err != nil {
		return types.FlightStatusUnknown, false, err
	}
	var ev events.FlightResolved
	if err := bare.Unmarshal(data, &ev); err != nil {
		return types.FlightStatusUnknown, false, err
	}
	return types.FlightStatus(ev.Status), true, nil
}

// Resolutions calls callback with every archived flight resolution. The
// iteration stops early when callback returns false.
func (a *Archive) Resolutions(callback func(*events.FlightResolved) bool) error {
	return a.db.Iterate(flightPrefix, func(_, value []byte) bool {
		var ev events.FlightResolved
		if err := bare.Unmarshal(value, &ev); err != nil {
			log.Warnf("archive: skipping undecodable resolution: %s", err)
			return true
		}
		return callback(&ev)
	})
}

// FundedAirlines returns every airline that reached the funding threshold.
func (a *Archive) FundedAirlines() ([]*events.AirlineFunded, error) {
	var out []*events.AirlineFunded
	err := a.db.Iterate(airlinePrefix, func(_, value []byte) bool {
		ev := &events.AirlineFunded{}
		if err := bare.Unmarshal(value, ev); err != nil {
			log.Warnf("archive: skipping undecodable funding entry: %s", err)
			return true
		}
		out = append(out, ev)
		return true
	})
	return out, err
}

// Request returns an archived oracle request by its identifier.
func (a *Archive) Request(id string) (*events.OracleRequest, error) {
	data, err := a.db.Get(append(requestPrefix, id...))
	if err != nil {
		return nil, err
	}
	ev := &events.OracleRequest{}
	if err := bare.Unmarshal(data, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}
