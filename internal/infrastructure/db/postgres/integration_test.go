//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/landsurveyors/directory-api/internal/core/domain"
)

// startPostgres runs a disposable server, applies the schema and returns a
// pool connected to it. Run with: go test -tags integration ./...
func startPostgres(t *testing.T) Pool {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("surveyors"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := Connect(ctx, Config{DSN: dsn, MaxConns: 4, Timeout: 30 * time.Second})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	require.NoError(t, Migrate(ctx, pool), "migrate must be idempotent")
	return pool
}

func registerAda(t *testing.T, repo *SurveyorRepository, counties ...string) *domain.Surveyor {
	t.Helper()
	s, err := repo.Create(context.Background(), &domain.Surveyor{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "$2a$10$hash",
		Address:      "1 Main St",
		City:         "Austin",
		State:        "TX",
		ZipCode:      "78701",
	}, counties)
	require.NoError(t, err)
	return s
}

func TestIntegration_RegistrationAndReplace(t *testing.T) {
	pool := startPostgres(t)
	repo := NewSurveyorRepository(pool, zerolog.Nop())
	ctx := context.Background()

	ada := registerAda(t, repo, "Travis", "Williamson", "Hays", "Atlantis")

	profile, err := repo.GetProfile(ctx, ada.ID)
	require.NoError(t, err)
	assert.Len(t, profile.Counties, 3, "unknown default county is dropped")

	n, err := repo.ReplaceServices(ctx, ada.ID, []string{"Boundary Survey", "Teleportation"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.ReplaceCounties(ctx, ada.ID, []string{})
	require.NoError(t, err)
	assert.Zero(t, n)

	profile, err = repo.GetProfile(ctx, ada.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.Counties)
	require.Len(t, profile.Services, 1)
	assert.Equal(t, "Boundary Surveys", profile.Services[0].Category)

	_, err = repo.Create(ctx, &domain.Surveyor{Email: "ADA@example.com", PasswordHash: "x"}, nil)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestIntegration_FailedTransactionLeavesAssociations(t *testing.T) {
	pool := startPostgres(t)
	repo := NewSurveyorRepository(pool, zerolog.Nop())
	ctx := context.Background()

	ada := registerAda(t, repo, "Travis")

	abort := errors.New("abort after delete")
	err := WithTransaction(ctx, pool, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := deleteByField(ctx, tx, TableSurveyorCounties, "surveyor_id", ada.ID); err != nil {
			return err
		}
		return abort
	})
	require.ErrorIs(t, err, abort)

	profile, err := repo.GetProfile(ctx, ada.ID)
	require.NoError(t, err)
	require.Len(t, profile.Counties, 1, "delete must have been rolled back")
	assert.Equal(t, "Travis", profile.Counties[0].Name)
}

func TestIntegration_ReplaceForMissingSurveyor(t *testing.T) {
	pool := startPostgres(t)
	repo := NewSurveyorRepository(pool, zerolog.Nop())

	_, err := repo.ReplaceCounties(context.Background(), 9999, []string{"Travis"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	err = repo.Delete(context.Background(), 9999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
