package postgres

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Table names a table the record helper may touch. Only the constants below
// are accepted; identifiers never come from request input.
type Table string

const (
	TableSurveyors            Table = "surveyors"
	TableServiceCategories    Table = "service_categories"
	TableServiceSubcategories Table = "service_subcategories"
	TableCounties             Table = "counties"
	TableSurveyorServices     Table = "surveyor_services"
	TableSurveyorCounties     Table = "surveyor_counties"
)

var tableColumns = map[Table][]string{
	TableSurveyors: {
		"id", "first_name", "last_name", "company_name", "email", "password_hash",
		"phone", "address", "city", "state", "zip_code", "created_at", "updated_at",
	},
	TableServiceCategories:    {"id", "name"},
	TableServiceSubcategories: {"id", "category_id", "name"},
	TableCounties:             {"id", "name", "state"},
	TableSurveyorServices:     {"surveyor_id", "subcategory_id"},
	TableSurveyorCounties:     {"surveyor_id", "county_id"},
}

// publicSurveyorColumns is every surveyor column except the password hash.
var publicSurveyorColumns = []string{
	"id", "first_name", "last_name", "company_name", "email",
	"phone", "address", "city", "state", "zip_code", "created_at", "updated_at",
}

func (t Table) columns() ([]string, error) {
	cols, ok := tableColumns[t]
	if !ok {
		return nil, fmt.Errorf("unknown table %q", string(t))
	}
	return cols, nil
}

func (t Table) hasID() bool {
	return slices.Contains(tableColumns[t], "id")
}

func (t Table) ident() string {
	return pgx.Identifier{string(t)}.Sanitize()
}

// column validates c against the table's allowlist and returns it quoted.
func (t Table) column(c string) (string, error) {
	cols, err := t.columns()
	if err != nil {
		return "", err
	}
	if !slices.Contains(cols, c) {
		return "", fmt.Errorf("unknown column %q on table %q", c, string(t))
	}
	return pgx.Identifier{c}.Sanitize(), nil
}

func (t Table) columnList(cols []string) (string, error) {
	if len(cols) == 0 {
		var err error
		if cols, err = t.columns(); err != nil {
			return "", err
		}
	}
	quoted := make([]string, len(cols))
	for i, c := range cols {
		q, err := t.column(c)
		if err != nil {
			return "", err
		}
		quoted[i] = q
	}
	return strings.Join(quoted, ", "), nil
}
