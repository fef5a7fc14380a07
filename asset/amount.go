package asset

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// LamportsPerSOL is the number of base units in one SOL.
const LamportsPerSOL = 1_000_000_000

// FormatSOL renders a lamport amount as "<amount> SOL" with nine decimals.
func FormatSOL(lamports uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -9).StringFixed(9) + " SOL"
}
