package bot

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// maxAmountLen guards against overflow-sized input before any parse attempt.
const maxAmountLen = 12

var (
	errAmountTooLong     = errors.New("amount input too long")
	errAmountNotNumber   = errors.New("amount is not a number")
	errAmountNotPositive = errors.New("amount must be positive")
)

// parseAmount converts user input into a positive decimal amount. Both `.`
// and `,` are accepted as the decimal separator. The length guard applies to
// the raw input, before trimming or parsing.
func parseAmount(input string) (decimal.Decimal, error) {
	if len([]rune(input)) > maxAmountLen {
		return decimal.Decimal{}, errAmountTooLong
	}
	s := strings.TrimSpace(strings.ReplaceAll(input, ",", "."))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errAmountNotNumber
	}
	if d.Sign() <= 0 {
		return decimal.Decimal{}, errAmountNotPositive
	}
	return d, nil
}

// parsePrice parses an admin-entered rate value; same separator rules as
// amounts, must be positive.
func parsePrice(input string) (decimal.Decimal, error) {
	return parseAmount(input)
}
