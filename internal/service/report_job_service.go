package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ceimundo/asistencia-api/internal/models"
	"github.com/ceimundo/asistencia-api/internal/repository"
	appErrors "github.com/ceimundo/asistencia-api/pkg/errors"
	"github.com/ceimundo/asistencia-api/pkg/jobs"
)

// ExportJobRepository persists export job lifecycle state.
type ExportJobRepository interface {
	Create(ctx context.Context, job *models.ExportJob) error
	GetByID(ctx context.Context, id string) (*models.ExportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error
	ListQueued(ctx context.Context, limit int) ([]models.ExportJob, error)
}

// URLSigner issues and validates signed download tokens.
type URLSigner interface {
	Generate(jobID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error)
}

// FileResolver maps stored file names to local paths.
type FileResolver interface {
	Path(filename string) string
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ReportJobService runs report exports in the background. A request returns a
// job immediately; a worker renders the file and attaches a signed download
// URL when it finishes.
type ReportJobService struct {
	repo     ExportJobRepository
	exporter *ExportService
	signer   URLSigner
	files    FileResolver
	queue    *jobs.Queue
	fileTTL  time.Duration
	cleanup  time.Duration
	logger   *zap.Logger
}

// ReportJobConfig tunes the export worker pool.
type ReportJobConfig struct {
	Workers         int
	BufferSize      int
	MaxRetries      int
	FileTTL         time.Duration
	CleanupInterval time.Duration
}

// NewReportJobService wires the export queue and its handler.
func NewReportJobService(repo ExportJobRepository, exporter *ExportService, signer URLSigner, files FileResolver, cfg ReportJobConfig, logger *zap.Logger) *ReportJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FileTTL <= 0 {
		cfg.FileTTL = 24 * time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Hour
	}

	s := &ReportJobService{
		repo:     repo,
		exporter: exporter,
		signer:   signer,
		files:    files,
		fileTTL:  cfg.FileTTL,
		cleanup:  cfg.CleanupInterval,
		logger:   logger,
	}
	s.queue = jobs.NewQueue("report-export", s.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the export workers and the expired file sweeper, and requeues
// jobs left QUEUED by a previous run.
func (s *ReportJobService) Start(ctx context.Context) {
	s.queue.Start(ctx)
	s.recover(ctx)
	go s.cleanupLoop(ctx)
}

// Stop drains the worker pool.
func (s *ReportJobService) Stop() {
	s.queue.Stop()
}

// CreateJob registers an export request and queues it for processing.
func (s *ReportJobService) CreateJob(ctx context.Context, date string, format models.ExportFormat, createdBy string) (*models.ExportJob, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted as YYYY-MM-DD")
	}
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	job := &models.ExportJob{
		Date:      date,
		Format:    format,
		Status:    models.ExportStatusQueued,
		CreatedBy: createdBy,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to register export job")
	}

	if err := s.enqueue(job.ID); err != nil {
		s.markFailed(ctx, job.ID, err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export job")
	}

	s.logger.Info("export job queued",
		zap.String("job_id", job.ID),
		zap.String("date", date),
		zap.String("format", string(format)))
	return job, nil
}

// GetStatus returns the current state of a job.
func (s *ReportJobService) GetStatus(ctx context.Context, id string) (*models.ExportJob, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load export job")
	}
	return job, nil
}

// ResolveDownload validates a signed token and returns the local file path and
// the download name to present.
func (s *ReportJobService) ResolveDownload(token string) (path, filename string, err error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return "", "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	return s.files.Path(relPath), relPath, nil
}

func (s *ReportJobService) enqueue(jobID string) error {
	return s.queue.Enqueue(jobs.Job{
		ID:      jobID,
		Type:    "report-export",
		Payload: jobID,
	})
}

// process renders one export job. Errors are recorded on the job rather than
// returned so the queue does not retry work whose failure is already durable.
func (s *ReportJobService) process(ctx context.Context, job jobs.Job) error {
	jobID, ok := job.Payload.(string)
	if !ok || jobID == "" {
		s.logger.Error("export job with malformed payload", zap.String("queue_job_id", job.ID))
		return nil
	}

	record, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		s.logger.Error("failed to load export job", zap.String("job_id", jobID), zap.Error(err))
		return err
	}
	if record.Status == models.ExportStatusFinished {
		return nil
	}

	s.setStatus(ctx, jobID, models.ExportStatusProcessing)

	relPath, err := s.exporter.Generate(ctx, record.Date, record.Format)
	if err != nil {
		s.markFailed(ctx, jobID, err)
		return nil
	}

	token, _, err := s.signer.Generate(jobID, relPath)
	if err != nil {
		s.markFailed(ctx, jobID, err)
		return nil
	}

	resultURL := fmt.Sprintf("/api/v1/export/%s", token)
	finishedAt := time.Now().UTC()
	status := models.ExportStatusFinished
	if err := s.repo.Update(ctx, jobID, repository.UpdateExportJobParams{
		Status:     &status,
		ResultURL:  &resultURL,
		FinishedAt: &finishedAt,
	}); err != nil {
		s.logger.Error("failed to finish export job", zap.String("job_id", jobID), zap.Error(err))
		return err
	}

	s.logger.Info("export job finished", zap.String("job_id", jobID), zap.String("file", relPath))
	return nil
}

func (s *ReportJobService) setStatus(ctx context.Context, jobID string, status models.ExportStatus) {
	if err := s.repo.Update(ctx, jobID, repository.UpdateExportJobParams{Status: &status}); err != nil {
		s.logger.Warn("failed to update export job status",
			zap.String("job_id", jobID),
			zap.String("status", string(status)),
			zap.Error(err))
	}
}

func (s *ReportJobService) markFailed(ctx context.Context, jobID string, cause error) {
	status := models.ExportStatusFailed
	message := cause.Error()
	finishedAt := time.Now().UTC()
	if err := s.repo.Update(ctx, jobID, repository.UpdateExportJobParams{
		Status:       &status,
		ErrorMessage: &message,
		FinishedAt:   &finishedAt,
	}); err != nil {
		s.logger.Error("failed to mark export job as failed", zap.String("job_id", jobID), zap.Error(err))
	}
	s.logger.Warn("export job failed", zap.String("job_id", jobID), zap.Error(cause))
}

// recover requeues jobs that were accepted but never processed.
func (s *ReportJobService) recover(ctx context.Context) {
	queued, err := s.repo.ListQueued(ctx, 100)
	if err != nil {
		s.logger.Warn("failed to recover queued export jobs", zap.Error(err))
		return
	}
	for _, job := range queued {
		if err := s.enqueue(job.ID); err != nil {
			s.logger.Warn("failed to requeue export job", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
	if len(queued) > 0 {
		s.logger.Info("requeued pending export jobs", zap.Int("count", len(queued)))
	}
}

// cleanupLoop periodically removes export files past their download TTL.
func (s *ReportJobService) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cleanup)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.files.CleanupOlderThan(s.fileTTL)
			if err != nil {
				s.logger.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(deleted) > 0 {
				s.logger.Info("removed expired export files", zap.Int("count", len(deleted)))
			}
		}
	}
}
