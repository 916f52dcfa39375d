package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/landsurveyors/directory-api/internal/core/domain"
)

const (
	passwordCost    = 10
	defaultTokenTTL = 24 * time.Hour
)

// CredentialConfig holds the token signing settings.
type CredentialConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

type tokenClaims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// CredentialService hashes passwords with bcrypt and issues HS256 tokens.
type CredentialService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewCredentialService(cfg CredentialConfig) *CredentialService {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTokenTTL
	}
	return &CredentialService{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TTL,
		now:      time.Now,
	}
}

func (s *CredentialService) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *CredentialService) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

func (s *CredentialService) TokenTTL() time.Duration { return s.ttl }

func (s *CredentialService) IssueToken(userID int64, email string) (string, error) {
	now := s.now()
	claims := tokenClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// VerifyToken returns ErrTokenExpired for a well-signed but expired token and
// ErrInvalidToken for anything else that fails validation.
func (s *CredentialService) VerifyToken(token string) (*domain.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, domain.ErrTokenExpired
	case err != nil:
		return nil, domain.ErrInvalidToken.Wrap(err)
	case claims.UserID <= 0:
		return nil, domain.ErrInvalidToken
	}
	return &domain.Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
