package ports

import (
	"context"
	"time"

	"github.com/landsurveyors/directory-api/internal/core/domain"
)

// Credentials hashes passwords and issues/verifies access tokens.
type Credentials interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
	IssueToken(userID int64, email string) (string, error)
	VerifyToken(token string) (*domain.Identity, error)
	TokenTTL() time.Duration
}

// RegisterInput carries a registration request after transport validation.
type RegisterInput struct {
	FirstName       string
	LastName        string
	CompanyName     string
	Email           string
	Password        string
	ConfirmPassword string
	Phone           string
	Address         string
	City            string
	State           string
	ZipCode         string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	User      *domain.Surveyor
	Token     string
	ExpiresIn time.Duration
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Surveyor, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}
