package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landsurveyors/directory-api/internal/core/domain"
)

var countyColumns = []string{"id", "name", "state"}

func TestPaginate_SecondPageOfTwentyFive(t *testing.T) {
	pool, mock := newCountingPool(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM "counties"`)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(25)))

	rows := pgxmock.NewRows(countyColumns)
	for i := 11; i <= 20; i++ {
		rows.AddRow(int64(i), fmt.Sprintf("County %d", i), "TX")
	}
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id", "name", "state" FROM "counties" ORDER BY "id" ASC LIMIT $1 OFFSET $2`)).
		WithArgs(10, 10).
		WillReturnRows(rows)

	page, err := Paginate[domain.County](context.Background(), pool, TableCounties, 2, 10, PageOptions{
		OrderBy: []Order{{Column: "id"}},
	})
	require.NoError(t, err)

	assert.Len(t, page.Data, 10)
	assert.Equal(t, int64(11), page.Data[0].ID)
	assert.Equal(t, domain.Pagination{Page: 2, Limit: 10, Total: 25, TotalPages: 3, HasNext: true, HasPrev: true}, page.Pagination)
	requireBalanced(t, pool)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaginate_RejectsOverflowingOffset(t *testing.T) {
	for _, tc := range []struct{ page, limit int }{
		{math.MaxInt64, 100},
		{math.MaxInt32/10 + 2, 10},
		{0, 10},
		{1, 0},
	} {
		pool, mock := newCountingPool(t)

		_, err := Paginate[domain.County](context.Background(), pool, TableCounties, tc.page, tc.limit, PageOptions{})
		assert.Equal(t, domain.KindValidation, domain.KindOf(err), "page=%d limit=%d", tc.page, tc.limit)
		requireBalanced(t, pool)
		require.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestPaginate_WhereAppliesToCountAndSelect(t *testing.T) {
	pool, mock := newCountingPool(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM "counties" WHERE "state" = $1`)).
		WithArgs("TX").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "counties" WHERE "state" = $1 LIMIT $2 OFFSET $3`)).
		WithArgs("TX", 5, 0).
		WillReturnRows(pgxmock.NewRows(countyColumns))

	page, err := Paginate[domain.County](context.Background(), pool, TableCounties, 1, 5, PageOptions{
		Where: []Condition{{Column: "state", Value: "TX"}},
	})
	require.NoError(t, err)

	assert.Empty(t, page.Data)
	assert.Equal(t, 0, page.Pagination.TotalPages)
	assert.False(t, page.Pagination.HasNext)
	assert.False(t, page.Pagination.HasPrev)
	requireBalanced(t, pool)
}

func TestFindByID_NoMatchIsNotAnError(t *testing.T) {
	pool, mock := newCountingPool(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id", "name", "state" FROM "counties" WHERE "id" = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(countyColumns))

	c, err := FindByID[domain.County](context.Background(), pool, TableCounties, 7)
	require.NoError(t, err)
	assert.Nil(t, c)
	requireBalanced(t, pool)
}

func TestFindByField_ReturnsAllMatches(t *testing.T) {
	pool, mock := newCountingPool(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE "state" = $1`)).
		WithArgs("TX").
		WillReturnRows(pgxmock.NewRows(countyColumns).
			AddRow(int64(1), "Travis", "TX").
			AddRow(int64(2), "Hays", "TX"))

	got, err := FindByField[domain.County](context.Background(), pool, TableCounties, "state", "TX")
	require.NoError(t, err)
	assert.Equal(t, []domain.County{{ID: 1, Name: "Travis", State: "TX"}, {ID: 2, Name: "Hays", State: "TX"}}, got)
	requireBalanced(t, pool)
}

func TestInsert_ReturnsGeneratedID(t *testing.T) {
	pool, mock := newCountingPool(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "counties" ("name", "state") VALUES ($1, $2) RETURNING id`)).
		WithArgs("Lee", "TX").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := Insert(context.Background(), pool, TableCounties, Fields{"state": "TX", "name": "Lee"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	requireBalanced(t, pool)
}

func TestUpdateByID_ZeroRowsAffected(t *testing.T) {
	pool, mock := newCountingPool(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "counties" SET "name" = $1 WHERE id = $2`)).
		WithArgs("Renamed", int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	n, err := UpdateByID(context.Background(), pool, TableCounties, 3, Fields{"name": "Renamed"})
	require.NoError(t, err)
	assert.Zero(t, n)
	requireBalanced(t, pool)
}

func TestDeleteByID_ReportsAffectedRows(t *testing.T) {
	pool, mock := newCountingPool(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "surveyors" WHERE "id" = $1`)).
		WithArgs(int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	n, err := DeleteByID(context.Background(), pool, TableSurveyors, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	requireBalanced(t, pool)
}

func TestExistsByField(t *testing.T) {
	existsSQL := regexp.QuoteMeta(`SELECT 1 FROM "surveyors" WHERE "email" = $1 LIMIT 1`)

	t.Run("found", func(t *testing.T) {
		pool, mock := newCountingPool(t)
		mock.ExpectQuery(existsSQL).WithArgs("a@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))

		ok, err := ExistsByField(context.Background(), pool, TableSurveyors, "email", "a@example.com")
		require.NoError(t, err)
		assert.True(t, ok)
		requireBalanced(t, pool)
	})

	t.Run("missing", func(t *testing.T) {
		pool, mock := newCountingPool(t)
		mock.ExpectQuery(existsSQL).WithArgs("b@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"?column?"}))

		ok, err := ExistsByField(context.Background(), pool, TableSurveyors, "email", "b@example.com")
		require.NoError(t, err)
		assert.False(t, ok)
		requireBalanced(t, pool)
	})
}

func TestBatchInsert_EmptyIssuesNoQuery(t *testing.T) {
	pool, mock := newCountingPool(t)

	res, err := BatchInsert(context.Background(), pool, TableSurveyorCounties, []string{"surveyor_id", "county_id"}, nil)
	require.NoError(t, err)

	assert.Equal(t, BatchResult{AffectedRows: 0, InsertID: nil}, res)
	assert.Zero(t, pool.acquired)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchInsert_MultiRow(t *testing.T) {
	pool, mock := newCountingPool(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "surveyor_counties" ("surveyor_id", "county_id") VALUES ($1, $2), ($3, $4)`)).
		WithArgs(int64(1), int64(10), int64(1), int64(11)).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))

	res, err := BatchInsert(context.Background(), pool, TableSurveyorCounties,
		[]string{"surveyor_id", "county_id"}, [][]any{{int64(1), int64(10)}, {int64(1), int64(11)}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.AffectedRows)
	assert.Nil(t, res.InsertID)
	requireBalanced(t, pool)
}

func TestRecords_RejectUnknownIdentifiers(t *testing.T) {
	pool, mock := newCountingPool(t)

	_, err := FindByField[domain.County](context.Background(), pool, TableCounties, "name; DROP TABLE counties", "x")
	require.Error(t, err)

	_, err = FindByID[domain.County](context.Background(), pool, Table("pg_shadow"), 1)
	require.Error(t, err)

	assert.Equal(t, pool.acquired, pool.released)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecords_ReleaseOnQueryError(t *testing.T) {
	pool, mock := newCountingPool(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM "surveyors"`)).
		WillReturnError(errors.New("connection reset"))

	_, err := ExistsByField(context.Background(), pool, TableSurveyors, "email", "x@example.com")
	require.Error(t, err)
	requireBalanced(t, pool)
}

func TestRecords_AcquireFailure(t *testing.T) {
	pool, _ := newCountingPool(t)
	pool.acquireErr = errors.New("pool exhausted")

	_, err := Insert(context.Background(), pool, TableCounties, Fields{"name": "x", "state": "TX"})
	require.ErrorContains(t, err, "acquire connection")
	assert.Zero(t, pool.released)
}
