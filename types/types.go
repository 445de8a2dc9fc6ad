package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// FlightStatus is the canonical status code reported by oracles for a
// flight. Codes are multiples of ten, matching the on-wire convention of
// the oracle agents.
type FlightStatus uint8

const (
	FlightStatusUnknown       FlightStatus = 0
	FlightStatusOnTime        FlightStatus = 10
	FlightStatusLateAirline   FlightStatus = 20
	FlightStatusLateWeather   FlightStatus = 30
	FlightStatusLateTechnical FlightStatus = 40
	FlightStatusLateOther     FlightStatus = 50
)

// Valid reports whether s is one of the canonical status codes.
func (s FlightStatus) Valid() bool {
	switch s {
	case FlightStatusUnknown, FlightStatusOnTime, FlightStatusLateAirline,
		FlightStatusLateWeather, FlightStatusLateTechnical, FlightStatusLateOther:
		return true
	}
	return false
}

// Resolved reports whether s is terminal (any non-Unknown code).
func (s FlightStatus) Resolved() bool {
	return s != FlightStatusUnknown && s.Valid()
}

func (s FlightStatus) String() string {
	switch s {
	case FlightStatusUnknown:
		return "unknown"
	case FlightStatusOnTime:
		return "on-time"
	case FlightStatusLateAirline:
		return "late-airline"
	case FlightStatusLateWeather:
		return "late-weather"
	case FlightStatusLateTechnical:
		return "late-technical"
	case FlightStatusLateOther:
		return "late-other"
	}
	return fmt.Sprintf("invalid(%d)", uint8(s))
}

// FlightKey identifies a flight: the operating airline, the flight code
// and the scheduled departure timestamp (unix seconds).
type FlightKey struct {
	Airline   common.Address
	Flight    string
	Timestamp int64
}

func (k FlightKey) String() string {
	return fmt.Sprintf("%s/%s/%d", k.Airline.Hex(), k.Flight, k.Timestamp)
}
