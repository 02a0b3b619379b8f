package memhost

import (
	"sync"

	"github.com/vango-dev/recon/pkg/host"
)

// Journal is an append-only log of host mutations. It is safe for
// concurrent readers while a single writer records.
type Journal struct {
	mu      sync.RWMutex
	seq     uint64
	records []host.Mutation
	subs    map[int]func(host.Mutation)
	nextSub int
	limit   int
}

// NewJournal creates a journal that keeps at most limit records
// (0 keeps everything).
func NewJournal(limit int) *Journal {
	return &Journal{
		subs:  make(map[int]func(host.Mutation)),
		limit: limit,
	}
}

// Record appends a mutation, assigns its sequence number, and notifies
// subscribers.
func (j *Journal) Record(m host.Mutation) host.Mutation {
	j.mu.Lock()
	j.seq++
	m.Seq = j.seq
	j.records = append(j.records, m)
	if j.limit > 0 && len(j.records) > j.limit {
		j.records = append(j.records[:0:0], j.records[len(j.records)-j.limit:]...)
	}
	subs := make([]func(host.Mutation), 0, len(j.subs))
	for _, fn := range j.subs {
		subs = append(subs, fn)
	}
	j.mu.Unlock()

	for _, fn := range subs {
		fn(m)
	}
	return m
}

// Subscribe registers fn for every future mutation. The returned function
// unsubscribes.
func (j *Journal) Subscribe(fn func(host.Mutation)) func() {
	j.mu.Lock()
	id := j.nextSub
	j.nextSub++
	j.subs[id] = fn
	j.mu.Unlock()

	return func() {
		j.mu.Lock()
		delete(j.subs, id)
		j.mu.Unlock()
	}
}

// Mutations returns a copy of the retained records.
func (j *Journal) Mutations() []host.Mutation {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]host.Mutation, len(j.records))
	copy(out, j.records)
	return out
}

// Since returns retained records with a sequence number greater than seq.
func (j *Journal) Since(seq uint64) []host.Mutation {
	j.mu.RLock()
	defer j.mu.RUnlock()
	var out []host.Mutation
	for _, m := range j.records {
		if m.Seq > seq {
			out = append(out, m)
		}
	}
	return out
}

// Seq returns the sequence number of the latest record.
func (j *Journal) Seq() uint64 {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.seq
}

// Len returns the number of retained records.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.records)
}

// Count returns how many retained records have the given op.
func (j *Journal) Count(op host.Op) int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	n := 0
	for _, m := range j.records {
		if m.Op == op {
			n++
		}
	}
	return n
}

// Reset drops all retained records. Sequence numbers keep increasing.
func (j *Journal) Reset() {
	j.mu.Lock()
	j.records = nil
	j.mu.Unlock()
}
