// Package dedupe makes heat submissions idempotent by remembering which
// heat each client submission ID produced.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

const defaultMaxSize = 10000

// Deduper maps submission IDs to the heat they created.
type Deduper interface {
	// Claim records heatID for submissionID if the submission is new and
	// returns (heatID, false). For a known submission it returns the heat
	// recorded earlier and true.
	Claim(ctx context.Context, submissionID, heatID string) (string, bool)

	// Release forgets submissionID so it can be retried. Used when a
	// claimed submission could not be queued.
	Release(ctx context.Context, submissionID string)

	Size() int64
}

type entry struct {
	submissionID string
	heatID       string
}

// inMemoryDeduper keeps claims in arrival order and evicts the oldest once
// maxSize is reached. A maxSize of zero or less never evicts.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List
	maxSize int
}

// NewInMemoryDeduper creates an in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]*list.Element)
	d.order = list.New()
	return d
}

func (d *inMemoryDeduper) Claim(ctx context.Context, submissionID, heatID string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[submissionID]; ok {
		return el.Value.(entry).heatID, true
	}
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		oldest := d.order.Front()
		d.order.Remove(oldest)
		delete(d.seen, oldest.Value.(entry).submissionID)
	}
	d.seen[submissionID] = d.order.PushBack(entry{submissionID: submissionID, heatID: heatID})
	return heatID, false
}

func (d *inMemoryDeduper) Release(ctx context.Context, submissionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[submissionID]; ok {
		d.order.Remove(el)
		delete(d.seen, submissionID)
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(d.order.Len())
}
