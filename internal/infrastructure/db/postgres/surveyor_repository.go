package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/landsurveyors/directory-api/internal/core/domain"
	"github.com/landsurveyors/directory-api/internal/core/ports"
)

const (
	selectServicesSQL = `SELECT ss.id AS subcategory_id, ss.name, sc.name AS category
FROM surveyor_services us
JOIN service_subcategories ss ON ss.id = us.subcategory_id
JOIN service_categories sc ON sc.id = ss.category_id
WHERE us.surveyor_id = $1
ORDER BY sc.name, ss.name`

	selectCountiesSQL = `SELECT c.id, c.name, c.state
FROM surveyor_counties uc
JOIN counties c ON c.id = uc.county_id
WHERE uc.surveyor_id = $1
ORDER BY c.name`

	selectHashForUpdateSQL = `SELECT password_hash FROM surveyors WHERE id = $1 FOR UPDATE`
)

// SurveyorRepository implements ports.SurveyorRepository on PostgreSQL.
type SurveyorRepository struct {
	pool Pool
	log  zerolog.Logger
	now  func() time.Time
}

// NewSurveyorRepository creates a SurveyorRepository over pool.
func NewSurveyorRepository(pool Pool, log zerolog.Logger) *SurveyorRepository {
	return &SurveyorRepository{pool: pool, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (r *SurveyorRepository) FindByID(ctx context.Context, id int64) (*domain.Surveyor, error) {
	s, err := FindByID[domain.Surveyor](ctx, r.pool, TableSurveyors, id)
	if err != nil {
		return nil, fmt.Errorf("find surveyor: %w", err)
	}
	if s == nil {
		return nil, domain.ErrUserNotFound
	}
	return s, nil
}

func (r *SurveyorRepository) FindByEmail(ctx context.Context, email string) (*domain.Surveyor, error) {
	rows, err := FindByField[domain.Surveyor](ctx, r.pool, TableSurveyors, "email", normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("find surveyor by email: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return &rows[0], nil
}

// GetProfile loads the surveyor and both association sets on one connection.
func (r *SurveyorRepository) GetProfile(ctx context.Context, id int64) (*domain.Profile, error) {
	return withConn(ctx, r.pool, func(c Conn) (*domain.Profile, error) {
		s, err := findByID[domain.Surveyor](ctx, c, TableSurveyors, id, publicSurveyorColumns)
		if err != nil {
			return nil, fmt.Errorf("get profile: %w", err)
		}
		if s == nil {
			return nil, domain.ErrUserNotFound
		}
		services, err := collect[domain.ServiceOffering](ctx, c, selectServicesSQL, id)
		if err != nil {
			return nil, fmt.Errorf("get profile services: %w", err)
		}
		counties, err := collect[domain.County](ctx, c, selectCountiesSQL, id)
		if err != nil {
			return nil, fmt.Errorf("get profile counties: %w", err)
		}
		return &domain.Profile{Surveyor: *s, Services: services, Counties: counties}, nil
	})
}

func (r *SurveyorRepository) List(ctx context.Context, page, limit int) (*domain.Page[domain.Surveyor], error) {
	p, err := Paginate[domain.Surveyor](ctx, r.pool, TableSurveyors, page, limit, PageOptions{
		Columns: publicSurveyorColumns,
		OrderBy: []Order{{Column: "last_name"}, {Column: "first_name"}, {Column: "id"}},
	})
	if err != nil {
		return nil, fmt.Errorf("list surveyors: %w", err)
	}
	return p, nil
}

// Create registers a surveyor and links the default counties. When none of
// the default counties exist the surveyor is still created, with no areas.
func (r *SurveyorRepository) Create(ctx context.Context, s *domain.Surveyor, defaultCounties []string) (*domain.Surveyor, error) {
	created := *s
	created.Email = normalizeEmail(s.Email)
	now := r.now()
	created.CreatedAt, created.UpdatedAt = now, now

	err := WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		taken, err := existsByField(ctx, tx, TableSurveyors, "email", created.Email)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrEmailTaken
		}

		id, err := insert(ctx, tx, TableSurveyors, Fields{
			"first_name":    created.FirstName,
			"last_name":     created.LastName,
			"company_name":  created.CompanyName,
			"email":         created.Email,
			"password_hash": created.PasswordHash,
			"phone":         created.Phone,
			"address":       created.Address,
			"city":          created.City,
			"state":         created.State,
			"zip_code":      created.ZipCode,
			"created_at":    created.CreatedAt,
			"updated_at":    created.UpdatedAt,
		})
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrEmailTaken.Wrap(err)
			}
			return err
		}
		created.ID = id

		countyIDs, err := resolveIDs(ctx, tx, TableCounties, defaultCounties)
		if err != nil {
			return fmt.Errorf("resolve default counties: %w", err)
		}
		if len(countyIDs) == 0 {
			r.log.Warn().
				Int64("surveyor_id", id).
				Strs("default_counties", defaultCounties).
				Msg("default counties not found; surveyor registered without service areas")
			return nil
		}
		_, err = batchInsert(ctx, tx, TableSurveyorCounties, []string{"surveyor_id", "county_id"}, pairs(id, countyIDs))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create surveyor: %w", err)
	}
	return &created, nil
}

func (r *SurveyorRepository) UpdateInfo(ctx context.Context, id int64, in ports.UpdateInfoInput) error {
	fields := Fields{"updated_at": r.now()}
	setIf(fields, "first_name", in.FirstName)
	setIf(fields, "last_name", in.LastName)
	setIf(fields, "company_name", in.CompanyName)
	setIf(fields, "phone", in.Phone)
	setIf(fields, "address", in.Address)
	setIf(fields, "city", in.City)
	setIf(fields, "state", in.State)
	setIf(fields, "zip_code", in.ZipCode)
	if in.Email != nil {
		fields["email"] = normalizeEmail(*in.Email)
	}

	err := WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		n, err := updateByID(ctx, tx, TableSurveyors, id, fields)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrEmailTaken.Wrap(err)
			}
			return err
		}
		if n == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update surveyor info: %w", err)
	}
	return nil
}

// ChangePassword locks the surveyor row, hands the stored hash to rehash and
// writes the hash it returns.
func (r *SurveyorRepository) ChangePassword(ctx context.Context, id int64, rehash ports.RehashFunc) error {
	err := WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		var current string
		if err := tx.QueryRow(ctx, selectHashForUpdateSQL, id).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrUserNotFound
			}
			return err
		}

		next, err := rehash(current)
		if err != nil {
			return err
		}

		n, err := updateByID(ctx, tx, TableSurveyors, id, Fields{"password_hash": next, "updated_at": r.now()})
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

func (r *SurveyorRepository) ReplaceServices(ctx context.Context, id int64, subservices []string) (int, error) {
	n, err := r.replaceAssociations(ctx, id, TableSurveyorServices, TableServiceSubcategories, "subcategory_id", subservices)
	if err != nil {
		return 0, fmt.Errorf("replace services: %w", err)
	}
	return n, nil
}

func (r *SurveyorRepository) ReplaceCounties(ctx context.Context, id int64, counties []string) (int, error) {
	n, err := r.replaceAssociations(ctx, id, TableSurveyorCounties, TableCounties, "county_id", counties)
	if err != nil {
		return 0, fmt.Errorf("replace counties: %w", err)
	}
	return n, nil
}

// replaceAssociations deletes every join row of the surveyor, resolves names
// against ref and inserts the resolved pairs, all in one transaction.
func (r *SurveyorRepository) replaceAssociations(ctx context.Context, id int64, join, ref Table, refColumn string, names []string) (int, error) {
	var written int
	err := WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := deleteByField(ctx, tx, join, "surveyor_id", id); err != nil {
			return err
		}

		ids, err := resolveIDs(ctx, tx, ref, names)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", ref, err)
		}
		if len(ids) < len(dedupe(names)) {
			r.log.Debug().
				Int64("surveyor_id", id).
				Int("requested", len(names)).
				Int("resolved", len(ids)).
				Str("table", string(ref)).
				Msg("unknown names dropped")
		}

		res, err := batchInsert(ctx, tx, join, []string{"surveyor_id", refColumn}, pairs(id, ids))
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrUserNotFound.Wrap(err)
			}
			return err
		}
		written = int(res.AffectedRows)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// Delete removes both association sets explicitly before the surveyor row.
func (r *SurveyorRepository) Delete(ctx context.Context, id int64) error {
	err := WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := deleteByField(ctx, tx, TableSurveyorServices, "surveyor_id", id); err != nil {
			return err
		}
		if _, err := deleteByField(ctx, tx, TableSurveyorCounties, "surveyor_id", id); err != nil {
			return err
		}
		n, err := deleteByField(ctx, tx, TableSurveyors, "id", id)
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete surveyor: %w", err)
	}
	return nil
}

func pairs(id int64, refs []int64) [][]any {
	rows := make([][]any, len(refs))
	for i, ref := range refs {
		rows[i] = []any{id, ref}
	}
	return rows
}

func setIf(f Fields, col string, v *string) {
	if v != nil {
		f[col] = *v
	}
}

func dedupe(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
