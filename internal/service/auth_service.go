package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ceimundo/asistencia-api/internal/models"
	appErrors "github.com/ceimundo/asistencia-api/pkg/errors"
)

// AuthConfig defines configuration for anonymous device sessions.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AuthService issues and validates anonymous device session tokens. The kiosk
// has no user accounts: a device exchanges nothing for a short-lived token
// before it may scan or load reports, replacing the implicit sign-in the old
// client performed at page load.
type AuthService struct {
	logger *zap.Logger
	config AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Expiration <= 0 {
		config.Expiration = 12 * time.Hour
	}
	return &AuthService{logger: logger, config: config}
}

// IssueAnonymous creates a fresh device session.
func (s *AuthService) IssueAnonymous() (*models.DeviceSession, error) {
	if s.config.Secret == "" {
		return nil, appErrors.Clone(appErrors.ErrAuthFailed, "token secret not configured")
	}

	deviceID := uuid.NewString()
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.Expiration)

	claims := &models.DeviceClaims{
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   deviceID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrAuthFailed.Code, appErrors.ErrAuthFailed.Status, "failed to sign session token")
	}

	s.logger.Info("anonymous session issued", zap.String("device_id", deviceID))

	return &models.DeviceSession{
		DeviceID:    deviceID,
		AccessToken: signed,
		ExpiresIn:   int64(s.config.Expiration.Seconds()),
		IssuedAt:    issuedAt,
	}, nil
}

// ValidateToken parses and validates a session token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.DeviceClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.DeviceClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.DeviceClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}
