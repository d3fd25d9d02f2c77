package auth

import (
	"errors"
	"log/slog"

	"draftdeck/internal/domain"
	"draftdeck/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

// LocalVerifier implements JWTVerifier with an HS256 shared secret. It is the
// demo-mode identity scheme for deployments without an identity provider:
// any token signed with the shared secret is accepted and its subject becomes
// the owner ID.
type LocalVerifier struct {
	secret []byte
	logger *slog.Logger
}

// NewLocalVerifier creates an HS256 shared-secret verifier.
func NewLocalVerifier(secret string, logger *slog.Logger) (JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}

	logger.Warn("using local HS256 token verification; set JWKS_URL for production")

	return &LocalVerifier{
		secret: []byte(secret),
		logger: logger,
	}, nil
}

// VerifyToken validates an HS256 token against the shared secret.
func (v *LocalVerifier) VerifyToken(tokenString string) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.UserClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != "HS256" {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		v.logger.Debug("token parse failed", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	if claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close is a no-op; nothing is held open.
func (v *LocalVerifier) Close() error {
	return nil
}
