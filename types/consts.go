package types

const (
	// ConsensusAirlineThreshold is the registered airline count from which
	// admission requires a multiparty vote instead of incumbency.
	ConsensusAirlineThreshold = 5

	// OracleIndexRange is the size of the oracle index space; assigned
	// indexes are always in [0, OracleIndexRange).
	OracleIndexRange = 10

	// OracleIndexesPerNode is the number of distinct indexes assigned to
	// each registered oracle.
	OracleIndexesPerNode = 3

	// OracleQuorum is the minimum count of matching oracle responses
	// required to resolve a flight status.
	OracleQuorum = 3

	// WeiPerEther is the wei value of one ether unit.
	WeiPerEther = uint64(1e18)
)

// Amounts with policy meaning. Treated as constants.
var (
	// AirlineFundingThreshold is the minimum accumulated balance for an
	// airline to become a funded network participant (10 ether).
	AirlineFundingThreshold = EtherAmount(10)

	// OracleRegistrationFee is the fee required to register an oracle (1 ether).
	OracleRegistrationFee = EtherAmount(1)

	// PolicyPremiumCap is the maximum premium accepted for a single
	// insurance policy (1 ether).
	PolicyPremiumCap = EtherAmount(1)
)

// EtherAmount returns n ether expressed in wei.
func EtherAmount(n uint64) *BigInt {
	return new(BigInt).Mul(NewBigInt(n), NewBigInt(WeiPerEther))
}
