// Package jsonl writes engine output records as an append-only,
// newline-delimited JSON audit log, the persistence format named in the
// spec's "out of scope" note. It wraps encoding/json directly, the same way
// the teacher's own encode_ledger.go streams transactions to a writer one
// line at a time rather than building a single large document in memory.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/etnz/fxdesk/engine"
)

// Sink writes one JSON object per line to w, flushing after every record so
// a crash mid-run loses at most the record currently being written.
type Sink struct {
	w *bufio.Writer
}

// New wraps w as a jsonl event sink.
func New(w io.Writer) *Sink {
	return &Sink{w: bufio.NewWriter(w)}
}

type line struct {
	Timestamp  engine.Timestamp  `json:"timestamp"`
	RecordType engine.RecordType `json:"record_type"`
	Data       *engine.Fields    `json:"data"`
}

// Emit appends r as a single JSON line.
func (s *Sink) Emit(r engine.OutputRecord) error {
	encoded, err := json.Marshal(line{Timestamp: r.Timestamp, RecordType: r.RecordType, Data: r.Data})
	if err != nil {
		return fmt.Errorf("jsonl: marshal record: %w", err)
	}
	if _, err := s.w.Write(encoded); err != nil {
		return fmt.Errorf("jsonl: write record: %w", err)
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("jsonl: write newline: %w", err)
	}
	return s.w.Flush()
}
