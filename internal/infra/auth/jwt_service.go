package auth

import (
	"time"

	"gramosi/config"
	"gramosi/internal/domain/service"
	"gramosi/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewJWTService is the constructor for jwtService.
// Signing key and lifetime come from the session section of the configuration.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg == nil || cfg.Session == nil || cfg.Session.SigningKey == "" {
		return nil, errors.New("session signing key must be provided")
	}
	if cfg.Session.TTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}

	return &jwtService{
		signingKey: []byte(cfg.Session.SigningKey),
		ttl:        cfg.Session.TTL,
		now:        time.Now,
	}, nil
}

// Issue creates a signed token whose subject is the account ID.
func (s *jwtService) Issue(accountID uuid.UUID) (*service.SessionToken, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   accountID.String(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign session token")
	}

	return &service.SessionToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// Validate checks the signature, the algorithm and the expiry of token.
func (s *jwtService) Validate(token string) (*service.SessionClaims, error) {
	registered := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(token, registered, func(*jwt.Token) (any, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse session token")
	}
	if !parsed.Valid {
		return nil, errors.New("session token is not valid")
	}

	accountID, err := uuid.Parse(registered.Subject)
	if err != nil {
		return nil, errors.Wrap(err, "session token subject is not an account id")
	}

	return &service.SessionClaims{
		AccountID:        accountID,
		RegisteredClaims: *registered,
	}, nil
}

// TTL returns the configured token lifetime.
func (s *jwtService) TTL() time.Duration {
	return s.ttl
}
