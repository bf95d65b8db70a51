package repositories

import (
	"context"
	"net"
	"net/url"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hr-org-system/migrations"
)

type queryCountTracer struct {
	mu sync.Mutex
	n  int
}

func (t *queryCountTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryStartData) context.Context {
	t.mu.Lock()
	t.n++
	t.mu.Unlock()
	return ctx
}

func (t *queryCountTracer) TraceQueryEnd(_ context.Context, _ *pgx.Conn, _ pgx.TraceQueryEndData) {}

func (t *queryCountTracer) Reset() {
	t.mu.Lock()
	t.n = 0
	t.mu.Unlock()
}

func (t *queryCountTracer) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.n
}

func canDialPostgres(dsn string) bool {
	u, err := url.Parse(dsn)
	if err != nil || u.Host == "" {
		return false
	}
	host := u.Host
	if u.Port() == "" {
		host = net.JoinHostPort(u.Hostname(), "5432")
	}
	conn, err := net.DialTimeout("tcp", host, time.Second)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func newTestPool(tb testing.TB, tracer pgx.QueryTracer) *pgxpool.Pool {
	tb.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		tb.Skip("TEST_DATABASE_URL not set")
	}
	if !canDialPostgres(dsn) {
		tb.Skip("postgres is not reachable")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	config, err := pgxpool.ParseConfig(dsn)
	require.NoError(tb, err)
	config.ConnConfig.Tracer = tracer
	config.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, config)
	require.NoError(tb, err)
	tb.Cleanup(pool.Close)

	require.NoError(tb, migrations.Up(ctx, pool))
	return pool
}

func TestReferenceRepository_ExistingIDsSingleQuery(t *testing.T) {
	tracer := &queryCountTracer{}
	pool := newTestPool(t, tracer)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `INSERT INTO user_types (id, name) VALUES
		(900001, 'import-test-a'), (900002, 'import-test-b'), (900003, 'import-test-c')
		ON CONFLICT (id) DO NOTHING`)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DELETE FROM user_types WHERE id BETWEEN 900001 AND 900003")
	})

	repo := NewReferenceRepository(pool, zap.NewNop())

	// more ids than postgres allows bind parameters
	ids := make([]int64, 0, 70002)
	for i := int64(0); i < 70000; i++ {
		ids = append(ids, 800000+i)
	}
	ids = append(ids, 900001, 900003)

	tracer.Reset()
	found, err := repo.ExistingIDs(ctx, RefUserTypes, ids)
	require.NoError(t, err)

	assert.Equal(t, 1, tracer.Count())
	assert.Equal(t, map[int64]struct{}{900001: {}, 900003: {}}, found)

	tracer.Reset()
	empty, err := repo.ExistingIDs(ctx, RefUserTypes, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Zero(t, tracer.Count())
}

func TestReferenceRepository_UnknownTable(t *testing.T) {
	repo := NewReferenceRepository(nil, zap.NewNop())
	_, err := repo.ExistingIDs(context.Background(), ReferenceTable("users; DROP TABLE x"), []int64{1})
	assert.Error(t, err)
}

func TestExistenceQuery_SingleArrayParameter(t *testing.T) {
	ids := make([]int64, 70000)
	for i := range ids {
		ids[i] = int64(i + 1)
	}

	query, args, err := existenceQuery(RefUserTypes, ids)
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM user_types WHERE id = ANY($1)", query)
	require.Len(t, args, 1)
	assert.Len(t, args[0], 70000)

	query, _, err = existenceQuery(RefEmployees, []int64{1})
	require.NoError(t, err)
	assert.Equal(t, "SELECT employee_id FROM employees WHERE employee_id = ANY($1)", query)
}
