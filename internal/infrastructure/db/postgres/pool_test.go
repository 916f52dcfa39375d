package postgres

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

// countingPool hands out a single pgxmock connection and counts checkouts.
type countingPool struct {
	mock       pgxmock.PgxConnIface
	acquireErr error
	acquired   int
	released   int
}

type countingConn struct {
	pgxmock.PgxConnIface
	pool *countingPool
}

func (c *countingConn) Release() { c.pool.released++ }

func (p *countingPool) Acquire(context.Context) (Conn, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.acquired++
	return &countingConn{PgxConnIface: p.mock, pool: p}, nil
}

func (p *countingPool) Ping(ctx context.Context) error { return p.mock.Ping(ctx) }

func (p *countingPool) Close() {}

func newCountingPool(t *testing.T) (*countingPool, pgxmock.PgxConnIface) {
	t.Helper()
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mock.Close(context.Background()) })
	return &countingPool{mock: mock}, mock
}

// requireBalanced asserts one checkout was made and returned.
func requireBalanced(t *testing.T, p *countingPool) {
	t.Helper()
	require.Equal(t, 1, p.acquired, "acquire count")
	require.Equal(t, 1, p.released, "release count")
}

func strPtr(s string) *string { return &s }
