package events

import (
	"fmt"

	"git.sr.ht/~sircmpwn/go-bare"
	"github.com/ethereum/go-ethereum/common"
	"go.suretynet.io/surety/types"
)

// Type identifies the origin of an event in the serialized envelope.
type Type byte

const (
	// TypeAirlineFunded is emitted when an airline reaches the funding threshold.
	TypeAirlineFunded = Type(0x01)
	// TypeOracleRequest is emitted when a flight status request is opened.
	TypeOracleRequest = Type(0x02)
	// TypeFlightResolved is emitted when a flight status reaches quorum.
	TypeFlightResolved = Type(0x03)
)

// Event is any outbound notification of the core.
type Event interface {
	eventType() Type
}

// AirlineFunded notifies observers that an airline completed its funding.
type AirlineFunded struct {
	Airline [20]byte
	Name    string
	Balance []byte // big-endian wei
}

func (AirlineFunded) eventType() Type { return TypeAirlineFunded }

// OracleRequest asks external oracle agents holding Index to report the
// status of the flight.
type OracleRequest struct {
	ID        string
	Index     uint8
	Airline   [20]byte
	Flight    string
	Timestamp int64
}

func (OracleRequest) eventType() Type { return TypeOracleRequest }

// Key returns the flight key the request refers to.
func (r *OracleRequest) Key() types.FlightKey {
	return types.FlightKey{
		Airline:   common.BytesToAddress(r.Airline[:]),
		Flight:    r.Flight,
		Timestamp: r.Timestamp,
	}
}

// FlightResolved notifies observers that the flight status is now canonical.
type FlightResolved struct {
	Airline   [20]byte
	Flight    string
	Timestamp int64
	Status    uint8
}

func (FlightResolved) eventType() Type { return TypeFlightResolved }

// Key returns the resolved flight key.
func (r *FlightResolved) Key() types.FlightKey {
	return types.FlightKey{
		Airline:   common.BytesToAddress(r.Airline[:]),
		Flight:    r.Flight,
		Timestamp: r.Timestamp,
	}
}

// encode serializes an event envelope.
// byte[0]  -> event type
// byte[1:] -> bare-encoded event data
func encode(ev Event) ([]byte, error) {
	data, err := bare.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("cannot marshal event %+v: %w", ev, err)
	}
	return append([]byte{byte(ev.eventType())}, data...), nil
}

// decode deserializes an event envelope created by encode.
func decode(envelope []byte) (Event, error) {
	if len(envelope) < 1 {
		return nil, fmt.Errorf("empty event envelope")
	}
	var ev Event
	switch Type(envelope[0]) {
	case TypeAirlineFunded:
		ev = &AirlineFunded{}
	case TypeOracleRequest:
		ev = &OracleRequest{}
	case TypeFlightResolved:
		ev = &FlightResolved{}
	default:
		return nil, fmt.Errorf("unknown event type %#x", envelope[0])
	}
	if err := bare.Unmarshal(envelope[1:], ev); err != nil {
		return nil, fmt.Errorf("cannot unmarshal event type %#x: %w", envelope[0], err)
	}
	return ev, nil
}
