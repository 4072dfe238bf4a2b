// Package dedupe tracks submission IDs so that retried report creations stay
// idempotent.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

const defaultMaxSize = 50000

// Deduper records seen submission IDs to ensure at-most-once persistence.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen list, allowing a retry. Used when
	// a submission was marked seen but failed downstream (store error, queue
	// backpressure).
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// entry is a node in the recency list.
type entry struct {
	id   string
	next *entry
}

func (e *entry) reset() {
	e.id = ""
	e.next = nil
}

// inMemoryDeduper implements Deduper with a bounded map plus a linked list
// for eviction. With maxSize <= 0 the cache grows without bound.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*entry
	head    *entry
	maxSize int
	size    atomic.Int64
	pool    sync.Pool
}

// NewInMemoryDeduper creates a new in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]*entry)
	if d.maxSize > 0 {
		d.pool = sync.Pool{
			New: func() interface{} {
				return &entry{}
			},
		}
	}

	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	if d.maxSize > 0 {
		if len(d.seen) >= d.maxSize {
			d.evictOldest()
		}
		e := d.pool.Get().(*entry)
		e.id = id
		e.next = d.head
		d.head = e
		d.seen[id] = e
	} else {
		d.seen[id] = nil
	}
	d.size.Add(1)
	return false
}

// Unrecord removes an ID from the seen list.
func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, exists := d.seen[id]
	if !exists {
		return
	}
	delete(d.seen, id)
	d.size.Add(-1)

	if d.maxSize <= 0 {
		return
	}

	// Unlink from the recency list.
	if d.head == e {
		d.head = e.next
	} else {
		cur := d.head
		for cur != nil && cur.next != e {
			cur = cur.next
		}
		if cur != nil {
			cur.next = e.next
		}
	}
	e.reset()
	d.pool.Put(e)
}

// evictOldest removes the tail of the recency list. Caller holds d.mu.
func (d *inMemoryDeduper) evictOldest() {
	if d.head == nil {
		return
	}

	var prev *entry
	cur := d.head
	for cur.next != nil {
		prev = cur
		cur = cur.next
	}

	if prev == nil {
		d.head = nil
	} else {
		prev.next = nil
	}
	delete(d.seen, cur.id)
	cur.reset()
	d.pool.Put(cur)
	d.size.Add(-1)
}

// Size returns the current number of entries in the deduper.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
