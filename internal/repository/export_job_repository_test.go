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

func TestExportJobRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExportJobRepository(db)

	mock.ExpectExec("INSERT INTO export_jobs").
		WithArgs(sqlmock.AnyArg(), "2026-09-01", "pdf", "QUEUED", "device-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	job := &models.ExportJob{
		Date:      "2026-09-01",
		Format:    models.ExportFormatPDF,
		Status:    models.ExportStatusQueued,
		CreatedBy: "device-1",
	}
	require.NoError(t, repo.Create(context.Background(), job))
	assert.NotEmpty(t, job.ID)

	rows := sqlmock.NewRows([]string{"id", "date", "format", "status", "result_url", "created_by", "created_at", "finished_at", "error_message"}).
		AddRow(job.ID, "2026-09-01", "pdf", "QUEUED", nil, "device-1", time.Now(), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM export_jobs WHERE id = $1")).
		WithArgs(job.ID).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, got.Status)
	assert.Nil(t, got.ResultURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportJobRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExportJobRepository(db)

	status := models.ExportStatusFinished
	url := "/api/v1/export/tok"
	finishedAt := time.Now()

	mock.ExpectExec("UPDATE export_jobs SET").
		WithArgs("job-1", "FINISHED", url, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Update(context.Background(), "job-1", UpdateExportJobParams{
		Status:     &status,
		ResultURL:  &url,
		FinishedAt: &finishedAt,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportJobRepositoryListQueued(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExportJobRepository(db)

	rows := sqlmock.NewRows([]string{"id", "date", "format", "status", "result_url", "created_by", "created_at", "finished_at", "error_message"}).
		AddRow("job-1", "2026-09-01", "pdf", "QUEUED", nil, "device-1", time.Now(), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM export_jobs WHERE status = $1 ORDER BY created_at ASC LIMIT $2")).
		WithArgs(models.ExportStatusQueued, 100).
		WillReturnRows(rows)

	jobs, err := repo.ListQueued(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
