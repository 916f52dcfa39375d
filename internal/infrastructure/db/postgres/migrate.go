package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS surveyors (
		id            BIGSERIAL PRIMARY KEY,
		first_name    TEXT NOT NULL,
		last_name     TEXT NOT NULL,
		company_name  TEXT,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		phone         TEXT,
		address       TEXT NOT NULL,
		city          TEXT NOT NULL,
		state         TEXT NOT NULL,
		zip_code      TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS service_categories (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS service_subcategories (
		id          BIGSERIAL PRIMARY KEY,
		category_id BIGINT NOT NULL REFERENCES service_categories(id),
		name        TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS counties (
		id    BIGSERIAL PRIMARY KEY,
		name  TEXT NOT NULL UNIQUE,
		state TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS surveyor_services (
		surveyor_id    BIGINT NOT NULL REFERENCES surveyors(id) ON DELETE CASCADE,
		subcategory_id BIGINT NOT NULL REFERENCES service_subcategories(id),
		PRIMARY KEY (surveyor_id, subcategory_id)
	)`,
	`CREATE TABLE IF NOT EXISTS surveyor_counties (
		surveyor_id BIGINT NOT NULL REFERENCES surveyors(id) ON DELETE CASCADE,
		county_id   BIGINT NOT NULL REFERENCES counties(id),
		PRIMARY KEY (surveyor_id, county_id)
	)`,
	`CREATE INDEX IF NOT EXISTS surveyors_name_idx ON surveyors (last_name, first_name)`,
}

// serviceTaxonomy seeds service_categories and service_subcategories.
var serviceTaxonomy = []struct {
	category      string
	subcategories []string
}{
	{"Boundary Surveys", []string{"Boundary Survey", "Lot Survey", "Property Line Staking"}},
	{"Construction Surveys", []string{"Construction Staking", "As-Built Survey", "Site Plan Survey"}},
	{"Land Title Surveys", []string{"ALTA/NSPS Survey", "Mortgage Survey"}},
	{"Topographic Surveys", []string{"Topographic Survey", "Elevation Certificate", "Drone Mapping"}},
	{"Subdivision Services", []string{"Subdivision Plat", "Replat", "Easement Survey"}},
}

// seedCounties are the counties offered as service areas.
var seedCounties = []string{
	"Bastrop", "Bell", "Bexar", "Blanco", "Burnet", "Caldwell", "Collin", "Comal",
	"Dallas", "Denton", "Guadalupe", "Harris", "Hays", "Lee", "Llano", "Tarrant",
	"Travis", "Williamson",
}

// seedState is the state every seeded county belongs to.
const seedState = "TX"

// Migrate creates the schema and seeds reference data. It is idempotent and
// runs in a single transaction.
func Migrate(ctx context.Context, pool Pool) error {
	err := WithTransaction(ctx, pool, func(ctx context.Context, tx pgx.Tx) error {
		for i, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("schema statement %d: %w", i, err)
			}
		}

		for _, group := range serviceTaxonomy {
			if _, err := tx.Exec(ctx,
				`INSERT INTO service_categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
				group.category); err != nil {
				return fmt.Errorf("seed category %q: %w", group.category, err)
			}
			for _, sub := range group.subcategories {
				if _, err := tx.Exec(ctx,
					`INSERT INTO service_subcategories (category_id, name)
					 SELECT id, $2 FROM service_categories WHERE name = $1
					 ON CONFLICT (name) DO NOTHING`,
					group.category, sub); err != nil {
					return fmt.Errorf("seed subcategory %q: %w", sub, err)
				}
			}
		}

		for _, county := range seedCounties {
			if _, err := tx.Exec(ctx,
				`INSERT INTO counties (name, state) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
				county, seedState); err != nil {
				return fmt.Errorf("seed county %q: %w", county, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
