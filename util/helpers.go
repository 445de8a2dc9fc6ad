package util

import (
	"encoding/hex"
	"io"
	"math/rand"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var randReader = rand.New(rand.NewSource(time.Now().UnixNano()))

func RandomBytes(n int) []byte {
	bytes := make([]byte, n)
	if _, err := io.ReadFull(randReader, bytes); err != nil {
		panic(err)
	}
	return bytes
}

func RandomHex(n int) string {
	return hex.EncodeToString(RandomBytes(n))
}

func RandomInt(min, max int) int {
	return randReader.Intn(max-min) + min
}

// RandomAddress returns a random 20 byte ethereum-style address.
// Useful for tests and simulated identities, not for real wallets.
func RandomAddress() common.Address {
	return common.BytesToAddress(RandomBytes(common.AddressLength))
}
