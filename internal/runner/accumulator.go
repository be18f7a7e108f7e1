package runner

import (
	"sync"

	"abstain/internal/ledger"
)

// accumulator buffers records between flushes. It is owned by one scheduler
// run.
type accumulator struct {
	mu      sync.Mutex
	records []ledger.Record
}

func (a *accumulator) add(record ledger.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, record)
}

// drain returns the buffered records and empties the buffer.
func (a *accumulator) drain() []ledger.Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	records := a.records
	a.records = nil
	return records
}

// restore puts records back in front of anything buffered since drain.
func (a *accumulator) restore(records []ledger.Record) {
	if len(records) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(records, a.records...)
}

func (a *accumulator) len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}
