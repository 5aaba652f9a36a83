package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ceimundo/asistencia-api/internal/models"
	appErrors "github.com/ceimundo/asistencia-api/pkg/errors"
)

type personFinder interface {
	FindByName(ctx context.Context, name string) (*models.Person, error)
}

type eventInserter interface {
	Insert(ctx context.Context, event *models.AttendanceEvent) error
}

// ScanService resolves scanned QR codes to registered people and appends
// attendance events. One event per successful call; duplicate scans create
// duplicate events on purpose (the report keeps earliest entry / latest exit).
type ScanService struct {
	people    personFinder
	events    eventInserter
	scanner   *ScannerService
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	location  *time.Location
	now       func() time.Time
}

// NewScanService constructs the scan service. The location controls calendar
// date derivation and must be the recording site's zone.
func NewScanService(people personFinder, events eventInserter, scanner *ScannerService, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, location *time.Location) *ScanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.Local
	}
	return &ScanService{
		people:    people,
		events:    events,
		scanner:   scanner,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		location:  location,
		now:       time.Now,
	}
}

// ScanRequest is one decoded QR read submitted by the kiosk.
type ScanRequest struct {
	Code      string           `json:"code" validate:"required"`
	Kind      models.EventKind `json:"kind" validate:"required"`
	DeviceID  string           `json:"-"`
	SessionID string           `json:"session_id"`
}

// ScanConfirmation is the user-visible result of a successful scan.
type ScanConfirmation struct {
	Message      string    `json:"message"`
	PersonName   string    `json:"person_name"`
	Kind         string    `json:"kind"`
	CalendarDate string    `json:"calendar_date"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// HandleScan records a single attendance event for the scanned code. The
// device's scan session is released before the lookup+insert sequence begins
// so a second read cannot race this one.
func (s *ScanService) HandleScan(ctx context.Context, req ScanRequest) (*ScanConfirmation, error) {
	if s.scanner != nil && req.DeviceID != "" {
		s.scanner.Stop(req.DeviceID, req.SessionID)
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scan request")
	}
	if !req.Kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "kind must be entrada or salida")
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		s.metrics.RecordScan(string(req.Kind), "not_found")
		return nil, appErrors.Clone(appErrors.ErrPersonNotFound, "empty code does not match a registered person")
	}

	person, err := s.people.FindByName(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordScan(string(req.Kind), "not_found")
			return nil, appErrors.Clone(appErrors.ErrPersonNotFound, fmt.Sprintf("%q no se encontró", code))
		}
		s.metrics.RecordScan(string(req.Kind), "lookup_failed")
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to look up person")
	}

	now := s.now().In(s.location)
	event := &models.AttendanceEvent{
		PersonID:     person.ID,
		PersonName:   person.Name,
		PersonType:   person.Type,
		Kind:         req.Kind,
		OccurredAt:   now,
		CalendarDate: CalendarDate(now, s.location),
	}

	if err := s.events.Insert(ctx, event); err != nil {
		s.metrics.RecordScan(string(req.Kind), "persistence_failure")
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to store attendance event")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, dailyReportCacheKey(event.CalendarDate)); err != nil {
			s.logger.Warn("failed to invalidate report cache", zap.String("date", event.CalendarDate), zap.Error(err))
		}
	}

	s.metrics.RecordScan(string(req.Kind), "ok")
	s.logger.Info("scan recorded",
		zap.String("person_id", person.ID),
		zap.String("kind", string(req.Kind)),
		zap.String("date", event.CalendarDate))

	return &ScanConfirmation{
		Message:      fmt.Sprintf("¡Listo! %s registró su %s.", person.Name, req.Kind),
		PersonName:   person.Name,
		Kind:         string(req.Kind),
		CalendarDate: event.CalendarDate,
		OccurredAt:   event.OccurredAt,
	}, nil
}

// CalendarDate formats the local wall-clock date of t in the given zone as
// YYYY-MM-DD. The UTC date of the same instant may differ; reports key on the
// date observed at the recording site.
func CalendarDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("2006-01-02")
}
