package engine

import "testing"

func TestOrderingKeyLessOrdersByTimestampThenSequence(t *testing.T) {
	a := OrderingKey{ts(0), 5}
	b := OrderingKey{ts(0), 6}
	c := OrderingKey{ts(1), 1}

	if !a.Less(b) {
		t.Fatal("a should sort before b (same timestamp, lower sequence)")
	}
	if !b.Less(c) {
		t.Fatal("b should sort before c (earlier timestamp)")
	}
	if a.Less(a) {
		t.Fatal("a should not sort before itself")
	}
}

func TestTimestampStringRoundTrips(t *testing.T) {
	original := ts(1234)
	parsed, err := ParseTimestamp(original.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !parsed.Equal(original) {
		t.Fatalf("round trip = %s, want %s", parsed, original)
	}
}

func TestTimestampTruncatesToMicrosecond(t *testing.T) {
	nanosHeavy := ts(0).Time().Add(123)
	got := NewTimestamp(nanosHeavy)
	if got.Time().Nanosecond()%1000 != 0 {
		t.Fatalf("timestamp not truncated to microsecond: %v", got.Time())
	}
}
