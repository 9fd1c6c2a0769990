package runid

import "testing"

func TestNewProducesDistinctIDs(t *testing.T) {
	a, b := New(), New()
	if a == b {
		t.Fatal("two successive New() calls produced the same id")
	}
	if a.String() == "" {
		t.Fatal("id string representation is empty")
	}
}
