package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceimundo/asistencia-api/internal/models"
	appErrors "github.com/ceimundo/asistencia-api/pkg/errors"
)

type cacheRepoMock struct {
	entries map[string][]byte
	getErr  error
	setErr  error
	deleted []string
}

func newCacheRepoMock() *cacheRepoMock {
	return &cacheRepoMock{entries: make(map[string][]byte)}
}

func (m *cacheRepoMock) Get(_ context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *cacheRepoMock) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *cacheRepoMock) Delete(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	delete(m.entries, key)
	return nil
}

func TestCacheServiceGetMissThenHit(t *testing.T) {
	repo := newCacheRepoMock()
	cacheSvc := NewCacheService(repo, nil, time.Minute, nil)

	var got models.DailyReport
	hit, err := cacheSvc.Get(context.Background(), "report:daily:2026-09-01", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	stored := models.DailyReport{Date: "2026-09-01"}
	require.NoError(t, cacheSvc.Set(context.Background(), "report:daily:2026-09-01", stored, 0))

	hit, err = cacheSvc.Get(context.Background(), "report:daily:2026-09-01", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "2026-09-01", got.Date)
}

func TestCacheServiceDisabledWithoutRepo(t *testing.T) {
	var cacheSvc *CacheService
	assert.False(t, cacheSvc.Enabled())

	cacheSvc = NewCacheService(nil, nil, time.Minute, nil)
	assert.False(t, cacheSvc.Enabled())

	hit, err := cacheSvc.Get(context.Background(), "k", nil)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, cacheSvc.Set(context.Background(), "k", "v", 0))
	assert.NoError(t, cacheSvc.Invalidate(context.Background(), "k"))
}

func TestDailyReportServedFromCache(t *testing.T) {
	repo := newCacheRepoMock()
	cacheSvc := NewCacheService(repo, nil, time.Minute, nil)
	cached := models.DailyReport{
		Date:     "2026-09-01",
		Students: []models.DailyAttendance{{Name: "Ana García", Type: models.PersonTypeStudent, EntryTime: "08:05:00 AM", ExitTime: models.NoData}},
		Teachers: []models.DailyAttendance{},
	}
	require.NoError(t, cacheSvc.Set(context.Background(), dailyReportCacheKey("2026-09-01"), cached, 0))

	lister := &stubEventLister{}
	svc := NewReportService(lister, cacheSvc, time.Minute, nil)

	report, err := svc.DailyReport(context.Background(), "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, &cached, report)
	assert.Equal(t, 0, lister.calls)
}

func TestDailyReportPopulatesCacheOnMiss(t *testing.T) {
	repo := newCacheRepoMock()
	cacheSvc := NewCacheService(repo, nil, time.Minute, nil)
	lister := &stubEventLister{events: []models.AttendanceEvent{
		event("p1", "Ana García", models.PersonTypeStudent, models.EventKindEntry, at(8, 5, 0)),
	}}
	svc := NewReportService(lister, cacheSvc, time.Minute, nil)

	first, err := svc.DailyReport(context.Background(), "2026-09-01")
	require.NoError(t, err)
	require.Len(t, first.Students, 1)
	assert.Equal(t, 1, lister.calls)

	second, err := svc.DailyReport(context.Background(), "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, lister.calls)
}

func TestDailyReportDegradesWhenCacheFails(t *testing.T) {
	repo := newCacheRepoMock()
	repo.getErr = errors.New("redis: connection refused")
	repo.setErr = errors.New("redis: connection refused")
	cacheSvc := NewCacheService(repo, nil, time.Minute, nil)
	lister := &stubEventLister{events: []models.AttendanceEvent{
		event("p1", "Ana García", models.PersonTypeStudent, models.EventKindEntry, at(8, 5, 0)),
	}}
	svc := NewReportService(lister, cacheSvc, time.Minute, nil)

	report, err := svc.DailyReport(context.Background(), "2026-09-01")
	require.NoError(t, err)
	require.Len(t, report.Students, 1)
	assert.Equal(t, "08:05:00 AM", report.Students[0].EntryTime)
	assert.Equal(t, 1, lister.calls)
}

func TestScanInvalidatesReportCacheForDate(t *testing.T) {
	repo := newCacheRepoMock()
	cacheSvc := NewCacheService(repo, nil, time.Minute, nil)
	require.NoError(t, cacheSvc.Set(context.Background(), dailyReportCacheKey("2026-09-01"), models.DailyReport{Date: "2026-09-01"}, 0))

	people := &stubPersonFinder{person: &models.Person{ID: "p1", Name: "Ana García", Type: models.PersonTypeStudent}}
	events := &stubEventInserter{}
	svc := NewScanService(people, events, nil, cacheSvc, nil, nil, nil, time.UTC)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 8, 5, 0, 0, time.UTC) }

	_, err := svc.HandleScan(context.Background(), ScanRequest{Code: "Ana García", Kind: models.EventKindEntry})
	require.NoError(t, err)

	require.Len(t, repo.deleted, 1)
	assert.Equal(t, "report:daily:2026-09-01", repo.deleted[0])

	var stale models.DailyReport
	hit, err := cacheSvc.Get(context.Background(), dailyReportCacheKey("2026-09-01"), &stale)
	require.NoError(t, err)
	assert.False(t, hit)
}
