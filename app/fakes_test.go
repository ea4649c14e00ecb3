package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"facultysite/domain/faculty"
)

// fakeSource serves fixed tables by sheet name.
type fakeSource struct {
	mu     sync.Mutex
	tables map[string]faculty.RawTable
	fail   map[string]error
	calls  atomic.Int32
	gate   chan struct{}
}

func newFakeSource(tables map[string]faculty.RawTable) *fakeSource {
	return &fakeSource{tables: tables, fail: map[string]error{}}
}

func (f *fakeSource) Fetch(ctx context.Context, sheet, _ string) (faculty.RawTable, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[sheet]; err != nil {
		return nil, err
	}
	return f.tables[sheet], nil
}

func (f *fakeSource) setFail(sheet string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[sheet] = err
}

func (f *fakeSource) setTable(sheet string, table faculty.RawTable) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[sheet] = table
}

// memStore is an in-memory DocumentStore that tracks overlapping writers.
type memStore struct {
	mu        sync.Mutex
	docs      []faculty.Document
	replaces  int
	active    atomic.Int32
	maxActive atomic.Int32
	failWith  error
}

func (m *memStore) Replace(_ context.Context, docs []faculty.Document) error {
	n := m.active.Add(1)
	defer m.active.Add(-1)
	for {
		cur := m.maxActive.Load()
		if n <= cur || m.maxActive.CompareAndSwap(cur, n) {
			break
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.docs = docs
	m.replaces++
	return nil
}

func (m *memStore) Load(context.Context) ([]faculty.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs == nil {
		return []faculty.Document{}, nil
	}
	return m.docs, nil
}

func (m *memStore) snapshot() ([]faculty.Document, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.docs, m.replaces
}

func sheetTables() map[string]faculty.RawTable {
	return map[string]faculty.RawTable{
		"Personal_Info": {{"faculty_id", "name"}, {"f1", "Alice"}, {"f2", "Bob"}},
		"Courses":       {{"faculty_id", "name", "credits"}, {"f1", "Algorithms", "4"}, {"f3", "Orphan", "3"}},
		"Research_Positions": {
			{"faculty_id", "position"},
			{"f1", "Lab Director"},
		},
	}
}

type sourceErr string

func (e sourceErr) Error() string { return fmt.Sprintf("source: %s", string(e)) }

type recordingPublisher struct {
	mu     sync.Mutex
	events []RefreshEvent
}

func (p *recordingPublisher) Publish(event RefreshEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
