package handlers

import (
	"github.com/shopspring/decimal"
)

const (
	tokenDecimals     = 18
	displayedDecimals = 4
)

// FormatTokenAmount renders a smallest-unit amount in whole tokens, cut (not rounded)
// to maxDecimals fractional digits. Unparsable input is returned as is.
func FormatTokenAmount(amount string, decimals int32, maxDecimals int32) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return amount
	}
	return d.Shift(-decimals).Truncate(maxDecimals).String()
}

func ShortenTxHash(hash string) string {
	if len(hash) <= 18 {
		return hash
	}
	return hash[:10] + "..." + hash[len(hash)-8:]
}
