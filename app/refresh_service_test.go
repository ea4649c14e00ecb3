package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"facultysite/domain/core"
	"facultysite/domain/faculty"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshBuildsAndStoresDocuments(t *testing.T) {
	source := newFakeSource(sheetTables())
	store := &memStore{}
	svc := NewRefreshService(source, store, nil)

	result, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
	assert.Equal(t, []string{"f1", "f2"}, result.FacultyIDs)
	assert.False(t, result.RunID.IsEmpty())
	assert.Equal(t, int32(len(faculty.AllTables)), source.calls.Load(), "every table is fetched once")

	stored, replaces := store.snapshot()
	assert.Equal(t, 1, replaces)
	assert.Len(t, stored, 2)

	snap := svc.Snapshot()
	assert.Equal(t, result.Fingerprint, snap.Fingerprint)
	assert.Equal(t, result.RunID, snap.RunID)

	alice, err := svc.Lookup("f1")
	require.NoError(t, err)
	require.Len(t, alice.Courses, 1)
	assert.Equal(t, 4.0, *alice.Courses[0].Credits)
	require.Len(t, alice.About.ResearchPositions, 1)
	assert.Equal(t, "Lab Director", *alice.About.ResearchPositions[0])
}

func TestLookupUnknownListsKnownIDs(t *testing.T) {
	svc := NewRefreshService(newFakeSource(sheetTables()), &memStore{}, nil)
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	_, err = svc.Lookup("f3")
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))

	var nf *core.FacultyNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{"f1", "f2"}, nf.Known)
}

func TestRefreshFailureKeepsPreviousData(t *testing.T) {
	source := newFakeSource(sheetTables())
	store := &memStore{}
	svc := NewRefreshService(source, store, nil)

	first, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	source.setTable("Personal_Info", faculty.RawTable{{"faculty_id"}, {"f9"}})
	source.setFail("Talks", sourceErr("403 forbidden"))

	_, err = svc.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, core.IsSourceError(err), "failure is reported as source unavailable: %v", err)

	stored, replaces := store.snapshot()
	assert.Equal(t, 1, replaces, "store is not touched by a failed refresh")
	assert.Equal(t, []string{"f1", "f2"}, faculty.IDs(stored))

	assert.Equal(t, first.Fingerprint, svc.Snapshot().Fingerprint)
	assert.Equal(t, []string{"f1", "f2"}, faculty.IDs(svc.Documents()), "readers keep the old collection")
}

func TestRefreshStoreFailureKeepsSnapshot(t *testing.T) {
	store := &memStore{}
	svc := NewRefreshService(newFakeSource(sheetTables()), store, nil)

	store.failWith = core.NewStoreError("rename", errors.New("read-only file system"))
	_, err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, core.IsStoreError(err))
	assert.Empty(t, svc.Documents())
}

func TestConcurrentRefreshesAreSerialized(t *testing.T) {
	source := newFakeSource(sheetTables())
	source.gate = make(chan struct{})
	store := &memStore{}
	svc := NewRefreshService(source, store, nil)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Refresh(context.Background())
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(source.gate)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), store.maxActive.Load(), "store writes never overlap")
	_, replaces := store.snapshot()
	assert.GreaterOrEqual(t, replaces, 1)
	assert.LessOrEqual(t, replaces, len(errs))
}

func TestReadsDuringRefreshSeeOldCollection(t *testing.T) {
	source := newFakeSource(sheetTables())
	svc := NewRefreshService(source, &memStore{}, nil)
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	source.gate = make(chan struct{})
	source.setFail("Links", sourceErr("timeout"))

	done := make(chan error, 1)
	go func() {
		_, err := svc.Refresh(context.Background())
		done <- err
	}()

	assert.Equal(t, []string{"f1", "f2"}, faculty.IDs(svc.Documents()))
	close(source.gate)
	assert.Error(t, <-done)
	assert.Equal(t, []string{"f1", "f2"}, faculty.IDs(svc.Documents()))
}

func TestRefreshTimeout(t *testing.T) {
	source := newFakeSource(sheetTables())
	source.gate = make(chan struct{})
	svc := NewRefreshService(source, &memStore{}, nil, WithTimeout(10*time.Millisecond))

	_, err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, core.IsSourceError(err))
	assert.ErrorIs(t, err, core.ErrSourceUnavailable)
}

func TestWarmLoadsPersistedCollection(t *testing.T) {
	store := &memStore{}
	docs := faculty.NewAssembler(nil).AssembleRaw(map[faculty.Table]faculty.RawTable{
		faculty.TablePersonalInfo: {{"faculty_id"}, {"f7"}},
	})
	require.NoError(t, store.Replace(context.Background(), docs))

	svc := NewRefreshService(newFakeSource(nil), store, nil)
	n, err := svc.Warm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"f7"}, svc.Snapshot().IDs())
}

func TestRefreshMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	source := newFakeSource(sheetTables())
	svc := NewRefreshService(source, &memStore{}, nil, WithMetrics(metrics))

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	source.setFail("About", sourceErr("boom"))
	_, err = svc.Refresh(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.refreshTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.refreshTotal.WithLabelValues("source_error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.documents))
}
