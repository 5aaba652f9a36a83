package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceimundo/asistencia-api/internal/models"
)

func TestEventRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec("INSERT INTO attendance_events").
		WithArgs(sqlmock.AnyArg(), "p1", "Ana García", "student", "entrada", sqlmock.AnyArg(), "2026-09-01", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.AttendanceEvent{
		PersonID:     "p1",
		PersonName:   "Ana García",
		PersonType:   models.PersonTypeStudent,
		Kind:         models.EventKindEntry,
		OccurredAt:   time.Now(),
		CalendarDate: "2026-09-01",
	}
	require.NoError(t, repo.Insert(context.Background(), event))
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryListByDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	rows := sqlmock.NewRows([]string{"id", "person_id", "person_name", "person_type", "kind", "occurred_at", "calendar_date", "created_at"}).
		AddRow("e1", "p1", "Ana García", "student", "entrada", time.Now(), "2026-09-01", time.Now()).
		AddRow("e2", "p1", "Ana García", "student", "salida", time.Now(), "2026-09-01", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance_events WHERE calendar_date = $1 ORDER BY created_at ASC")).
		WithArgs("2026-09-01").
		WillReturnRows(rows)

	events, err := repo.ListByDate(context.Background(), "2026-09-01")
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, models.EventKindExit, events[1].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}
