package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-tickets/internal/auth"
	"github.com/spec-kit/support-tickets/internal/domain"
	"github.com/spec-kit/support-tickets/internal/repository"
	"github.com/spec-kit/support-tickets/internal/testutils"
	"github.com/spec-kit/support-tickets/internal/worker"
)

// memoryCache records every put.
type memoryCache struct {
	mu      sync.Mutex
	records map[string]any
	err     error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{records: map[string]any{}}
}

func (c *memoryCache) Put(_ context.Context, key string, record any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.records[key] = record
	return nil
}

func (c *memoryCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.records[key]
	return v, ok
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Send(ctx context.Context, ticketID int64) error {
	args := m.Called(ctx, ticketID)
	return args.Error(0)
}

// failingStore fails every operation like a store whose connection is gone.
type failingStore struct{ err error }

func (f failingStore) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:        failingUsers{err: f.err},
		Tickets:      failingTickets{err: f.err},
		Interactions: failingInteractions{err: f.err},
	}
}

func (f failingStore) WithinTx(context.Context, func(context.Context, repository.Repositories) error) error {
	return f.err
}

func (f failingStore) Ping(context.Context) error { return f.err }

type failingUsers struct{ err error }

func (f failingUsers) Create(context.Context, *domain.User) error { return f.err }
func (f failingUsers) GetByID(context.Context, int64) (*domain.User, error) {
	return nil, f.err
}
func (f failingUsers) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, f.err
}
func (f failingUsers) First(context.Context) (*domain.User, error) { return nil, f.err }

type failingTickets struct{ err error }

func (f failingTickets) Create(context.Context, *domain.Ticket) error { return f.err }
func (f failingTickets) UpdateState(context.Context, int64, domain.TicketState) (*domain.Ticket, error) {
	return nil, f.err
}
func (f failingTickets) GetByID(context.Context, int64) (*domain.Ticket, error) {
	return nil, f.err
}
func (f failingTickets) List(context.Context) ([]domain.Ticket, error) { return nil, f.err }

type failingInteractions struct{ err error }

func (f failingInteractions) Create(context.Context, *domain.Interaction) error { return f.err }
func (f failingInteractions) ListByTicket(context.Context, int64) ([]domain.Interaction, error) {
	return nil, f.err
}

type fixture struct {
	store    repository.Store
	db       *sql.DB
	tickets  *TicketService
	users    *UserService
	cache    *memoryCache
	notifier *mockNotifier
	pool     *worker.Pool
	count    func(table string) int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, db := testutils.NewSQLiteStore(t)
	f := &fixture{
		store:    store,
		db:       db,
		cache:    newMemoryCache(),
		notifier: &mockNotifier{},
		pool:     worker.NewPool(2, 64, time.Second, zap.NewNop(), nil),
		count:    func(table string) int { return testutils.CountRows(t, db, table) },
	}
	t.Cleanup(f.pool.Close)
	f.tickets = NewTicketService(TicketDependencies{
		Store:    store,
		Cache:    f.cache,
		Notifier: f.notifier,
		Runner:   f.pool,
	})
	f.users = NewUserService(UserDependencies{
		Store:  store,
		Tokens: auth.NewTokenManager("test-secret", 5),
		Cache:  f.cache,
		Runner: f.pool,
	})
	return f
}

func (f *fixture) user(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	u, err := f.users.CreateUser(context.Background(), "Ana", email, role)
	require.NoError(t, err)
	return u
}

// rejectInteractions makes every later interaction insert fail inside the
// database, after the preceding write of the same transaction succeeded.
func (f *fixture) rejectInteractions(t *testing.T) {
	t.Helper()
	_, err := f.db.Exec(`CREATE TRIGGER reject_interactions BEFORE INSERT ON interactions
		BEGIN SELECT RAISE(ABORT, 'interaction insert rejected'); END`)
	require.NoError(t, err)
}

var errConnRefused = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
