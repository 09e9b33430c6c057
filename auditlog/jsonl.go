// Package auditlog provides audit-event sinks for the vault ledger: a JSONL
// appender for file-backed journals and a batching Postgres writer. Sinks are
// write-only consumers; they log and drop records they cannot persist rather
// than failing the ledger call that produced them.
package auditlog

import (
	"io"
	"log"

	"github.com/opencustody/vault"
)

// FileSink appends every event as one JSONL line to w. It implements
// vault.Sink; the resulting file is a replayable journal for
// vault.DecodeEvents.
type FileSink struct {
	w io.Writer
}

// NewFileSink creates a sink appending to w.
func NewFileSink(w io.Writer) *FileSink {
	return &FileSink{w: w}
}

func (s *FileSink) Record(e vault.Event) {
	if err := vault.EncodeEvent(s.w, e); err != nil {
		log.Printf("audit write err (dropped %s %s): %v", e.What(), e.ID(), err)
	}
}
