package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ceimundo/asistencia-api/internal/models"
	appErrors "github.com/ceimundo/asistencia-api/pkg/errors"
)

// ScannerService tracks the exclusive scan session per device. The camera
// itself lives in the kiosk, but the stop-before-start discipline is enforced
// here so two tabs sharing one device session cannot run concurrent scan
// flows. Sessions expire after a TTL so a crashed kiosk cannot wedge the
// scanning surface.
type ScannerService struct {
	mu     sync.Mutex
	active map[string]*models.ScanSession
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewScannerService constructs the session registry.
func NewScannerService(ttl time.Duration, logger *zap.Logger) *ScannerService {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScannerService{
		active: make(map[string]*models.ScanSession),
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// Start activates a scan session for the device bound to one entry/exit
// intent. Fails while another unexpired session is active: the caller must
// stop the previous session first.
func (s *ScannerService) Start(deviceID string, kind models.EventKind) (*models.ScanSession, error) {
	if !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "kind must be entrada or salida")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if current, ok := s.active[deviceID]; ok && now.Before(current.ExpiresAt) {
		return nil, appErrors.ErrScannerBusy
	}

	session := &models.ScanSession{
		ID:        uuid.NewString(),
		DeviceID:  deviceID,
		Kind:      kind,
		StartedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.active[deviceID] = session
	return session, nil
}

// Stop deactivates the device's session. Best-effort and idempotent: stopping
// an unknown or already-stopped session is logged, never surfaced. Teardown
// must always be safe to attempt, even with no scan in flight.
func (s *ScannerService) Stop(deviceID, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.active[deviceID]
	if !ok {
		s.logger.Debug("scanner stop with no active session", zap.String("device_id", deviceID))
		return
	}
	if sessionID != "" && current.ID != sessionID {
		s.logger.Warn("scanner stop for stale session",
			zap.String("device_id", deviceID),
			zap.String("session_id", sessionID),
			zap.String("active_id", current.ID))
		return
	}
	delete(s.active, deviceID)
}

// Active returns the device's current session when one is live.
func (s *ScannerService) Active(deviceID string) (*models.ScanSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.active[deviceID]
	if !ok {
		return nil, false
	}
	if !s.now().Before(current.ExpiresAt) {
		delete(s.active, deviceID)
		return nil, false
	}
	return current, true
}
