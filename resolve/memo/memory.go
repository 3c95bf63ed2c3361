// Package memo provides an in-memory resolve.Memo and resolve.Log.
package memo

import (
	"container/list"
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/warp/value-algebra/resolve"
)

// Default bounds of a Memory store.
const (
	DefaultOutputs = 10000
	DefaultRecords = 10000
)

// =============================================================================
// MEMORY STORE - In-memory implementation, bounded
// =============================================================================

// Memory keeps at most maxOutputs outputs, evicting the least recently used,
// and the newest maxRecords log records.
type Memory struct {
	mu         sync.Mutex
	maxOutputs int
	maxRecords int

	outputs map[resolve.Key]*list.Element
	order   *list.List // front is most recently used

	records []resolve.Record
	ids     map[uuid.UUID]bool
}

type entry struct {
	key resolve.Key
	out resolve.Output
}

// Option configures a Memory store.
type Option func(*Memory)

// WithCapacity bounds the cached outputs and the retained log records.
// Non-positive values keep the defaults.
func WithCapacity(outputs, records int) Option {
	return func(m *Memory) {
		if outputs > 0 {
			m.maxOutputs = outputs
		}
		if records > 0 {
			m.maxRecords = records
		}
	}
}

func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		maxOutputs: DefaultOutputs,
		maxRecords: DefaultRecords,
		outputs:    make(map[resolve.Key]*list.Element),
		order:      list.New(),
		ids:        make(map[uuid.UUID]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the cached output for key.
func (m *Memory) Get(_ context.Context, key resolve.Key) (resolve.Output, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	el, ok := m.outputs[key]
	if !ok {
		return resolve.Output{}, false, nil
	}
	m.order.MoveToFront(el)
	return el.Value.(*entry).out, true, nil
}

// Put caches out. The first output stored for a key wins.
func (m *Memory) Put(_ context.Context, key resolve.Key, out resolve.Output) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.outputs[key]; ok {
		return nil
	}
	for len(m.outputs) >= m.maxOutputs {
		m.evictOldest()
	}
	m.outputs[key] = m.order.PushFront(&entry{key: key, out: out})
	return nil
}

// evictOldest drops the least recently used output. Must be called with lock held.
func (m *Memory) evictOldest() {
	oldest := m.order.Back()
	if oldest == nil {
		return
	}
	m.order.Remove(oldest)
	delete(m.outputs, oldest.Value.(*entry).key)
}

// Append adds a record, dropping the oldest once maxRecords is reached.
func (m *Memory) Append(_ context.Context, r resolve.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ids[r.ID] {
		return resolve.ErrDuplicateRecord
	}
	for len(m.records) >= m.maxRecords {
		delete(m.ids, m.records[0].ID)
		m.records = m.records[1:]
	}
	m.ids[r.ID] = true
	m.records = append(m.records, r)
	return nil
}

// Recent returns up to limit records, newest first.
func (m *Memory) Recent(_ context.Context, limit int) ([]resolve.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.records) {
		limit = len(m.records)
	}
	out := make([]resolve.Record, 0, limit)
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

// Len reports the number of cached outputs and retained records.
func (m *Memory) Len() (outputs, records int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.outputs), len(m.records)
}

var (
	_ resolve.Memo = (*Memory)(nil)
	_ resolve.Log  = (*Memory)(nil)
)
