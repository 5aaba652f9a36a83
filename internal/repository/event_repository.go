package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ceimundo/asistencia-api/internal/models"
)

// EventRepository handles the append-only attendance event log. Events are
// inserted once and only ever read back by calendar date.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs the repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Insert persists a single attendance event.
func (r *EventRepository) Insert(ctx context.Context, event *models.AttendanceEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO attendance_events (id, person_id, person_name, person_type, kind, occurred_at, calendar_date, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(ctx, query,
		event.ID, event.PersonID, event.PersonName, event.PersonType,
		event.Kind, event.OccurredAt, event.CalendarDate, event.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert attendance event: %w", err)
	}
	return nil
}

// ListByDate returns all events recorded for one calendar date, oldest first.
func (r *EventRepository) ListByDate(ctx context.Context, calendarDate string) ([]models.AttendanceEvent, error) {
	query := `SELECT id, person_id, person_name, person_type, kind, occurred_at, calendar_date, created_at
FROM attendance_events WHERE calendar_date = $1 ORDER BY created_at ASC`
	var events []models.AttendanceEvent
	if err := r.db.SelectContext(ctx, &events, query, calendarDate); err != nil {
		return nil, fmt.Errorf("list attendance events: %w", err)
	}
	return events, nil
}
