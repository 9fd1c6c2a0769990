package engine

import (
	"fmt"
	"time"
)

// Timestamp is a UTC instant truncated to microsecond precision, the
// granularity spec §3.2 requires for event ordering keys. It is distinct
// from a calendar date: two events on the same day are still ordered by
// their exact instant, then by SequenceID.
type Timestamp struct {
	t time.Time
}

// NewTimestamp normalizes t to UTC and truncates it to microsecond precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.UTC().Truncate(time.Microsecond)}
}

// timestampLayout renders ISO-8601 with microsecond precision and an
// explicit +00:00 offset, per spec §6.3. time.RFC3339Nano would trim
// trailing zero fractional digits and write "Z"; neither is acceptable here.
const timestampLayout = "2006-01-02T15:04:05.000000-07:00"

// ParseTimestamp parses the canonical serialization produced by String.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		// Be lenient about the zero-padding of the fractional part and the
		// exact offset spelling, the way the teacher's date.Parse accepts
		// more than one literal layout.
		t, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return Timestamp{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
	}
	return NewTimestamp(t), nil
}

// Time returns the underlying time.Time, always UTC.
func (ts Timestamp) Time() time.Time { return ts.t }

// Before reports whether ts is strictly earlier than o.
func (ts Timestamp) Before(o Timestamp) bool { return ts.t.Before(o.t) }

// Equal reports whether ts and o represent the same instant.
func (ts Timestamp) Equal(o Timestamp) bool { return ts.t.Equal(o.t) }

// String renders the canonical microsecond-precision ISO-8601 form.
func (ts Timestamp) String() string { return ts.t.Format(timestampLayout) }

// IsZero reports whether ts is the zero Timestamp.
func (ts Timestamp) IsZero() bool { return ts.t.IsZero() }

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ts.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("invalid timestamp literal %q", data)
	}
	parsed, err := ParseTimestamp(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// OrderingKey is the global ordering key for events: (timestamp, sequence_id)
// per spec §3.2. It must be unique across an entire input.
type OrderingKey struct {
	Timestamp  Timestamp
	SequenceID uint64
}

// Less reports whether k sorts strictly before o: earlier timestamp first,
// then lower sequence id.
func (k OrderingKey) Less(o OrderingKey) bool {
	if !k.Timestamp.Equal(o.Timestamp) {
		return k.Timestamp.Before(o.Timestamp)
	}
	return k.SequenceID < o.SequenceID
}

// Equal reports whether k and o identify the same event slot.
func (k OrderingKey) Equal(o OrderingKey) bool {
	return k.Timestamp.Equal(o.Timestamp) && k.SequenceID == o.SequenceID
}

func (k OrderingKey) String() string {
	return fmt.Sprintf("%s#%d", k.Timestamp, k.SequenceID)
}
