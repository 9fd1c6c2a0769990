package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// ts builds a Timestamp at a fixed reference instant plus n microseconds,
// keeping scenario tests free of repetitive time.Date boilerplate.
func ts(n int) Timestamp {
	base := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
	return NewTimestamp(base.Add(time.Duration(n) * time.Microsecond))
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}
