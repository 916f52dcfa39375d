package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/landsurveyors/directory-api/internal/core/domain"
	"github.com/landsurveyors/directory-api/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo            ports.SurveyorRepository
	creds           ports.Credentials
	activity        ports.ActivityRepository
	mail            ports.EmailQueue
	defaultCounties []string
	log             zerolog.Logger
}

// NewAuthService wires the registration and login use cases. activity and
// mail may be nil.
func NewAuthService(
	repo ports.SurveyorRepository,
	creds ports.Credentials,
	activity ports.ActivityRepository,
	mail ports.EmailQueue,
	defaultCounties []string,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:            repo,
		creds:           creds,
		activity:        activity,
		mail:            mail,
		defaultCounties: defaultCounties,
		log:             log,
	}
}

// Register creates the surveyor and links the default counties. The password
// is hashed before the store transaction starts.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Surveyor, error) {
	if in.Password != in.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	hash, err := s.creds.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.Surveyor{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		CompanyName:  optional(in.CompanyName),
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        optional(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		City:         strings.TrimSpace(in.City),
		State:        strings.ToUpper(strings.TrimSpace(in.State)),
		ZipCode:      strings.TrimSpace(in.ZipCode),
	}, s.defaultCounties)
	if err != nil {
		return nil, err
	}

	recordActivity(ctx, s.activity, s.log, &domain.Activity{
		Type:       domain.ActivityRegistered,
		SurveyorID: created.ID,
		Email:      created.Email,
	})
	s.enqueueWelcome(created)

	s.log.Info().Int64("surveyor_id", created.ID).Msg("surveyor registered")
	return created, nil
}

// Login verifies the credentials and issues an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !s.creds.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.creds.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	recordActivity(ctx, s.activity, s.log, &domain.Activity{
		Type:       domain.ActivityLogin,
		SurveyorID: user.ID,
		Email:      user.Email,
	})

	return &ports.LoginResult{User: user, Token: token, ExpiresIn: s.creds.TokenTTL()}, nil
}

func (s *AuthService) enqueueWelcome(u *domain.Surveyor) {
	if s.mail == nil {
		return
	}
	msg := domain.EmailMessage{
		To:      u.Email,
		Subject: "Welcome to the Land Surveyor Directory",
		Text: fmt.Sprintf("Hi %s,\n\nYour directory profile is live. Sign in to add the services you offer and the counties you serve.\n",
			u.FirstName),
	}
	if err := s.mail.Enqueue(msg); err != nil {
		s.log.Warn().Err(err).Int64("surveyor_id", u.ID).Msg("failed to queue welcome email")
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
