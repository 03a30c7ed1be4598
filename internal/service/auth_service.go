package service

import (
	"time"

	"github.com/vaibavdk-pieq/agent-management-template-main/internal/auth"
	"github.com/vaibavdk-pieq/agent-management-template-main/internal/config"
	apperrors "github.com/vaibavdk-pieq/agent-management-template-main/pkg/util/errorutil"
)

// AuthService issues scoped tokens to service clients via a
// client-credentials exchange. A single client identity is configured per
// deployment; its secret is stored as a bcrypt hash.
type AuthService struct {
	cfg    config.AuthConfig
	tokens *auth.TokenManager
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		cfg:    cfg,
		tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// IssueToken exchanges client credentials for a scoped JWT.
func (s *AuthService) IssueToken(clientID, clientSecret string) (string, time.Time, error) {
	if s.cfg.ClientID == "" || s.cfg.ClientSecretHash == "" {
		return "", time.Time{}, apperrors.NewUnauthorized("token issuance not configured")
	}
	if clientID != s.cfg.ClientID {
		return "", time.Time{}, apperrors.NewUnauthorized("unknown client")
	}
	if err := auth.CompareSecret(s.cfg.ClientSecretHash, clientSecret); err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid client credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(clientID, s.cfg.ClientScopes)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, expiresAt, nil
}
