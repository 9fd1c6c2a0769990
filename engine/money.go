package engine

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount tagged with a currency. Arithmetic is
// performed on the underlying decimal.Decimal with no intermediate
// rounding; go-money is used only to resolve display metadata (minor-unit
// fraction digits, symbol), exactly how the teacher keeps go-money out of
// the arithmetic path in its own type_money.go.
type Money struct {
	value decimal.Decimal
	cur   string
}

// Mny constructs a Money value tagged with currency. Display, not Mny
// itself, is where an unknown ISO currency code would surface, since
// go-money is only ever consulted for display metadata.
func Mny(value decimal.Decimal, currency string) Money {
	return Money{value: value, cur: currency}
}

// MnyFromString parses a canonical decimal string amount.
func MnyFromString(s, currency string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{value: d, cur: currency}, nil
}

func (m Money) Currency() string         { return m.cur }
func (m Money) Decimal() decimal.Decimal { return m.value }
func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) IsPositive() bool         { return m.value.IsPositive() }
func (m Money) IsNegative() bool         { return m.value.IsNegative() }
func (m Money) Neg() Money               { return Money{value: m.value.Neg(), cur: m.cur} }

// currencyMeta resolves go-money's currency metadata for display purposes.
func (m Money) currencyMeta() *money.Currency {
	return money.New(0, m.cur).Currency()
}

// Add sums two Money values. Both must carry the same currency, or one may
// be the untagged zero value (the same "weak empty currency" rule the
// teacher applies so that decimal.Decimal{} zero values compose safely).
func (m Money) Add(o Money) Money { return Money{value: m.value.Add(o.value), cur: resolveCur(m, o)} }
func (m Money) Sub(o Money) Money { return Money{value: m.value.Sub(o.value), cur: resolveCur(m, o)} }

func (m Money) LessThan(o Money) bool    { return m.value.LessThan(o.value) }
func (m Money) GreaterThan(o Money) bool { return m.value.GreaterThan(o.value) }
func (m Money) Equal(o Money) bool       { return m.value.Equal(o.value) && m.cur == o.cur }

func resolveCur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("engine: currency mismatch " + a.cur + " != " + b.cur)
	}
	return a.cur
}

// String renders the canonical decimal string with the ISO currency code
// (e.g. "1100000 USD"), never the symbol-formatted go-money display —
// output records must stay byte-identical regardless of locale.
func (m Money) String() string { return m.value.String() + " " + m.cur }

// Display renders the value using go-money's locale-aware formatter, for
// human-facing reports only (see the report package); never used by the
// core or by output records.
func (m Money) Display() string {
	meta := m.currencyMeta()
	shifted := m.value.Shift(int32(meta.Fraction))
	return meta.Formatter().Format(shifted.IntPart())
}

func (m Money) MarshalJSON() ([]byte, error) {
	var w fieldWriter
	w.Append("currency", m.cur)
	w.Append("amount", m.value)
	return w.MarshalJSON()
}
