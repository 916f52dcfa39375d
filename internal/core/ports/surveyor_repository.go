package ports

import (
	"context"

	"github.com/landsurveyors/directory-api/internal/core/domain"
)

// UpdateInfoInput carries a partial profile update. Nil fields are left as is.
type UpdateInfoInput struct {
	FirstName   *string
	LastName    *string
	CompanyName *string
	Email       *string
	Phone       *string
	Address     *string
	City        *string
	State       *string
	ZipCode     *string
}

// Empty reports whether no field is set.
func (in UpdateInfoInput) Empty() bool {
	return in.FirstName == nil && in.LastName == nil && in.CompanyName == nil &&
		in.Email == nil && in.Phone == nil && in.Address == nil &&
		in.City == nil && in.State == nil && in.ZipCode == nil
}

// RehashFunc receives the stored password hash and returns the replacement
// hash, or an error to abort the change.
type RehashFunc func(currentHash string) (string, error)

// SurveyorRepository persists surveyors and their association sets. Every
// multi-statement method runs in a single transaction.
type SurveyorRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Surveyor, error)
	// FindByEmail returns domain.ErrUserNotFound when no row matches.
	FindByEmail(ctx context.Context, email string) (*domain.Surveyor, error)
	GetProfile(ctx context.Context, id int64) (*domain.Profile, error)
	List(ctx context.Context, page, limit int) (*domain.Page[domain.Surveyor], error)

	// Create inserts the surveyor and associates it with the named default
	// counties. Returns domain.ErrEmailTaken when the email is in use.
	Create(ctx context.Context, s *domain.Surveyor, defaultCounties []string) (*domain.Surveyor, error)
	UpdateInfo(ctx context.Context, id int64, in UpdateInfoInput) error
	ChangePassword(ctx context.Context, id int64, rehash RehashFunc) error
	// ReplaceServices and ReplaceCounties delete the current set and insert
	// the rows whose names resolve. Unknown names are dropped. They return the
	// number of associations written.
	ReplaceServices(ctx context.Context, id int64, subservices []string) (int, error)
	ReplaceCounties(ctx context.Context, id int64, counties []string) (int, error)
	Delete(ctx context.Context, id int64) error
}
