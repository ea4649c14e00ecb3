package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"facultysite/domain/core"
	"facultysite/domain/faculty"
	"facultysite/internal"
	"facultysite/internal/tables"
	"facultysite/ports"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Snapshot is the document collection currently served to readers.
type Snapshot struct {
	Documents   []faculty.Document
	Fingerprint core.Hash
	RefreshedAt time.Time
	RunID       core.ID
}

// IDs returns the faculty ids of the snapshot in order.
func (s *Snapshot) IDs() []string {
	return faculty.IDs(s.Documents)
}

// RefreshResult summarizes one successful refresh.
type RefreshResult struct {
	RunID       core.ID
	Count       int
	FacultyIDs  []string
	Fingerprint core.Hash
	Duration    time.Duration
}

// RefreshService pulls every table, assembles the faculty documents and
// replaces both the persisted collection and the in-memory snapshot.
type RefreshService struct {
	source    ports.TableSource
	store     ports.DocumentStore
	catalog   *tables.Catalog
	assembler *faculty.Assembler
	metrics   *Metrics
	events    EventPublisher
	logger    *internal.Logger
	timeout   time.Duration

	flight   singleflight.Group
	mu       sync.Mutex
	snapshot atomic.Pointer[Snapshot]
}

// RefreshOption configures a RefreshService.
type RefreshOption func(*RefreshService)

// WithTimeout bounds each refresh run.
func WithTimeout(d time.Duration) RefreshOption {
	return func(s *RefreshService) { s.timeout = d }
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *Metrics) RefreshOption {
	return func(s *RefreshService) { s.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *internal.Logger) RefreshOption {
	return func(s *RefreshService) { s.logger = l }
}

// NewRefreshService creates a refresh service. The snapshot starts empty
// until Warm or Refresh succeeds.
func NewRefreshService(source ports.TableSource, store ports.DocumentStore, catalog *tables.Catalog, opts ...RefreshOption) *RefreshService {
	if catalog == nil {
		catalog = tables.Default()
	}
	s := &RefreshService{
		source:    source,
		store:     store,
		catalog:   catalog,
		assembler: faculty.NewAssembler(catalog.Labels),
		events:    nopPublisher{},
		logger:    internal.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	s.snapshot.Store(&Snapshot{Documents: []faculty.Document{}, Fingerprint: fingerprint(nil)})
	return s
}

// Refresh runs one full refresh. Concurrent callers share the in-flight run.
// On any failure the store and the snapshot keep their previous contents.
func (s *RefreshService) Refresh(ctx context.Context) (*RefreshResult, error) {
	v, err, shared := s.flight.Do("refresh", func() (interface{}, error) {
		return s.refresh(ctx)
	})
	if shared {
		s.logger.Debug("[RefreshService] joined in-flight refresh")
	}
	if err != nil {
		return nil, err
	}
	return v.(*RefreshResult), nil
}

func (s *RefreshService) refresh(ctx context.Context) (*RefreshResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	runID := core.NewID()
	start := time.Now()
	logger := s.logger.With("run_id", runID.String())
	logger.Info("[RefreshService] refresh started (%d tables)", len(faculty.AllTables))
	s.events.Publish(RefreshEvent{Type: EventRefreshStarted, RunID: runID.String(), Timestamp: start})

	// Step 1: Fetch every table; the first failure cancels the rest
	raw, err := s.fetchAll(ctx)
	if err != nil {
		s.metrics.refreshTotal.WithLabelValues("source_error").Inc()
		logger.Error("[RefreshService] refresh aborted: %v", err)
		s.publishFailure(runID, err)
		return nil, err
	}

	// Step 2: Normalize and assemble
	docs := s.assembler.AssembleRaw(raw)

	// Step 3: Persist the full collection
	if err := s.store.Replace(ctx, docs); err != nil {
		s.metrics.refreshTotal.WithLabelValues("store_error").Inc()
		logger.Error("[RefreshService] store replace failed: %v", err)
		s.publishFailure(runID, err)
		return nil, err
	}

	// Step 4: Swap the served snapshot
	snap := &Snapshot{
		Documents:   docs,
		Fingerprint: fingerprint(docs),
		RefreshedAt: time.Now(),
		RunID:       runID,
	}
	s.snapshot.Store(snap)

	elapsed := time.Since(start)
	s.metrics.refreshTotal.WithLabelValues("success").Inc()
	s.metrics.refreshDuration.Observe(elapsed.Seconds())
	s.metrics.documents.Set(float64(len(docs)))
	s.metrics.lastSuccess.Set(float64(snap.RefreshedAt.Unix()))
	logger.Info("[RefreshService] refresh finished in %s: %d documents (%s)", elapsed.Round(time.Millisecond), len(docs), snap.Fingerprint.Short())
	s.events.Publish(RefreshEvent{
		Type:        EventRefreshCompleted,
		RunID:       runID.String(),
		Count:       len(docs),
		Fingerprint: snap.Fingerprint.String(),
		Timestamp:   snap.RefreshedAt,
	})

	return &RefreshResult{
		RunID:       runID,
		Count:       len(docs),
		FacultyIDs:  snap.IDs(),
		Fingerprint: snap.Fingerprint,
		Duration:    elapsed,
	}, nil
}

func (s *RefreshService) publishFailure(runID core.ID, err error) {
	s.events.Publish(RefreshEvent{
		Type:      EventRefreshFailed,
		RunID:     runID.String(),
		Error:     err.Error(),
		Timestamp: time.Now(),
	})
}

func (s *RefreshService) fetchAll(ctx context.Context) (map[faculty.Table]faculty.RawTable, error) {
	var mu sync.Mutex
	raw := make(map[faculty.Table]faculty.RawTable, len(faculty.AllTables))

	g, gctx := errgroup.WithContext(ctx)
	for _, table := range faculty.AllTables {
		table := table
		entry := s.catalog.Entry(table)
		g.Go(func() error {
			start := time.Now()
			grid, err := s.source.Fetch(gctx, entry.Sheet, entry.Range)
			s.metrics.fetchDuration.WithLabelValues(string(table)).Observe(time.Since(start).Seconds())
			if err != nil {
				if !core.IsSourceError(err) {
					err = core.NewSourceError(entry.Sheet, err)
				}
				return err
			}
			mu.Lock()
			raw[table] = grid
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return raw, nil
}

// Warm loads the persisted collection into the snapshot. It is used at
// startup so the last good data is served before the first refresh.
func (s *RefreshService) Warm(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("warm snapshot: %w", err)
	}
	s.snapshot.Store(&Snapshot{Documents: docs, Fingerprint: fingerprint(docs), RefreshedAt: time.Now()})
	s.metrics.documents.Set(float64(len(docs)))
	s.logger.Info("[RefreshService] warmed snapshot with %d persisted documents", len(docs))
	return len(docs), nil
}

// Snapshot returns the collection currently served.
func (s *RefreshService) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Documents returns the documents currently served.
func (s *RefreshService) Documents() []faculty.Document {
	return s.Snapshot().Documents
}

// Lookup returns the document for id, matched against facultyID or
// faculty_id. Unknown ids yield a core.FacultyNotFoundError listing the
// known ids.
func (s *RefreshService) Lookup(id string) (faculty.Document, error) {
	snap := s.Snapshot()
	doc, ok := faculty.Find(snap.Documents, id)
	if !ok {
		return faculty.Document{}, core.NewFacultyNotFoundError(id, snap.IDs())
	}
	return doc, nil
}

func fingerprint(docs []faculty.Document) core.Hash {
	if docs == nil {
		docs = []faculty.Document{}
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return ""
	}
	return core.NewHash(data)
}
