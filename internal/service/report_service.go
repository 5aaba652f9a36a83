package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ceimundo/asistencia-api/internal/models"
	appErrors "github.com/ceimundo/asistencia-api/pkg/errors"
)

type eventLister interface {
	ListByDate(ctx context.Context, date string) ([]models.AttendanceEvent, error)
}

// ReportService derives the per-person daily summary from the raw event log.
type ReportService struct {
	events   eventLister
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(events eventLister, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{events: events, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func dailyReportCacheKey(date string) string {
	return fmt.Sprintf("report:daily:%s", date)
}

// DailyReport returns the attendance summary for the given YYYY-MM-DD date.
// A day with no events yields a report with empty sections, not an error.
func (s *ReportService) DailyReport(ctx context.Context, date string) (*models.DailyReport, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted as YYYY-MM-DD")
	}

	key := dailyReportCacheKey(date)
	if s.cache.Enabled() {
		var cached models.DailyReport
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	events, err := s.events.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load attendance events")
	}

	report := Aggregate(date, events)

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache daily report", zap.String("date", date), zap.Error(err))
		}
	}

	return report, nil
}

// Aggregate collapses a day's events into one row per person: the earliest
// entry and the latest exit. Rows keep the order in which each person first
// appears in the event log. A person with only entries (or only exits) gets
// the NoData sentinel in the missing column. Students and everyone else land
// in separate sections.
func Aggregate(date string, events []models.AttendanceEvent) *models.DailyReport {
	type summary struct {
		name       string
		personType models.PersonType
		firstEntry time.Time
		lastExit   time.Time
	}

	order := make([]string, 0, len(events))
	byPerson := make(map[string]*summary, len(events))

	for _, event := range events {
		entry, ok := byPerson[event.PersonID]
		if !ok {
			entry = &summary{name: event.PersonName, personType: event.PersonType}
			byPerson[event.PersonID] = entry
			order = append(order, event.PersonID)
		}
		switch event.Kind {
		case models.EventKindEntry:
			if entry.firstEntry.IsZero() || event.OccurredAt.Before(entry.firstEntry) {
				entry.firstEntry = event.OccurredAt
			}
		case models.EventKindExit:
			if entry.lastExit.IsZero() || event.OccurredAt.After(entry.lastExit) {
				entry.lastExit = event.OccurredAt
			}
		}
	}

	report := &models.DailyReport{
		Date:     date,
		Students: make([]models.DailyAttendance, 0, len(order)),
		Teachers: make([]models.DailyAttendance, 0),
	}

	for _, personID := range order {
		entry := byPerson[personID]
		row := models.DailyAttendance{
			Name:      entry.name,
			Type:      entry.personType,
			EntryTime: formatClock(entry.firstEntry),
			ExitTime:  formatClock(entry.lastExit),
		}
		if entry.personType == models.PersonTypeStudent {
			report.Students = append(report.Students, row)
		} else {
			report.Teachers = append(report.Teachers, row)
		}
	}

	return report
}

// formatClock renders a timestamp as a 12-hour wall-clock reading, or the
// NoData sentinel when the person never produced that kind of event.
func formatClock(t time.Time) string {
	if t.IsZero() {
		return models.NoData
	}
	return t.Format("03:04:05 PM")
}
