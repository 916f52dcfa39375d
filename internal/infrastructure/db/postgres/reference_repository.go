package postgres

import (
	"context"
	"fmt"

	"github.com/landsurveyors/directory-api/internal/core/domain"
)

// ReferenceRepository reads the service taxonomy and counties.
type ReferenceRepository struct {
	pool Pool
}

func NewReferenceRepository(pool Pool) *ReferenceRepository {
	return &ReferenceRepository{pool: pool}
}

// ListServiceCategories returns every category with its subcategories nested.
func (r *ReferenceRepository) ListServiceCategories(ctx context.Context) ([]domain.ServiceCategory, error) {
	return withConn(ctx, r.pool, func(c Conn) ([]domain.ServiceCategory, error) {
		cats, err := findAll[domain.ServiceCategory](ctx, c, TableServiceCategories, []Order{{Column: "name"}})
		if err != nil {
			return nil, fmt.Errorf("list service categories: %w", err)
		}
		subs, err := findAll[domain.ServiceSubcategory](ctx, c, TableServiceSubcategories, []Order{{Column: "name"}})
		if err != nil {
			return nil, fmt.Errorf("list service subcategories: %w", err)
		}

		byCategory := make(map[int64][]domain.ServiceSubcategory, len(cats))
		for _, s := range subs {
			byCategory[s.CategoryID] = append(byCategory[s.CategoryID], s)
		}
		for i := range cats {
			cats[i].Subcategories = byCategory[cats[i].ID]
		}
		return cats, nil
	})
}

func (r *ReferenceRepository) ListCounties(ctx context.Context) ([]domain.County, error) {
	counties, err := FindAll[domain.County](ctx, r.pool, TableCounties, Order{Column: "name"})
	if err != nil {
		return nil, fmt.Errorf("list counties: %w", err)
	}
	return counties, nil
}
