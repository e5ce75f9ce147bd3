package v1

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	errInvalidAmount = errors.New("amount must be a positive decimal with at most two fraction digits")
	errInvalidPathID = errors.New("path id must be a positive integer")
)

func parseDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}

	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	if d.IsNegative() {
		return nil, errInvalidAmount
	}

	return &d, nil
}
