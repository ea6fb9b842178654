package wallet

import (
	"fmt"
	"math/big"
)

var weiPerToken = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// FormatAddress shortens a chain address for display: 0x1234...abcd.
func FormatAddress(address string) string {
	if address == "" {
		return "N/A"
	}
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

// FormatBalance renders a smallest-unit balance string as a native-token
// amount with four decimal places. Unparseable input renders as zero rather
// than erroring; display formatting must never fail.
func FormatBalance(balance string) string {
	if balance == "" {
		return "0.0000"
	}
	wei, ok := new(big.Int).SetString(balance, 10)
	if !ok {
		return "0.0000"
	}
	return new(big.Rat).SetFrac(wei, weiPerToken).FloatString(4)
}

// ChainName returns a display name for well-known chain ids.
func ChainName(chainID int64) string {
	switch chainID {
	case 1:
		return "Ethereum Mainnet"
	case 5:
		return "Goerli Testnet"
	case 11155111:
		return "Sepolia Testnet"
	case 50312:
		return "Somnia Shannon Testnet"
	default:
		return fmt.Sprintf("Unknown Network (%d)", chainID)
	}
}
