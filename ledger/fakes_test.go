package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ayoisaiah/cashtimer/internal/models"
	"github.com/ayoisaiah/cashtimer/ledger"
)

var errStoreDown = errors.New("store is down")

// memStore keeps sessions in memory and can be told to fail writes.
type memStore struct {
	sessions map[string]*models.Session
	fail     bool
	mu       sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*models.Session)}
}

func (m *memStore) CreateSession(_ context.Context, sess *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail {
		return errStoreDown
	}

	m.sessions[sess.ID] = sess.Clone()

	return nil
}

func (m *memStore) UpdateSession(_ context.Context, sess *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail {
		return errStoreDown
	}

	if _, ok := m.sessions[sess.ID]; !ok {
		return fmt.Errorf("session %s: missing", sess.ID)
	}

	m.sessions[sess.ID] = sess.Clone()

	return nil
}

func (m *memStore) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail {
		return errStoreDown
	}

	delete(m.sessions, id)

	return nil
}

func (m *memStore) ListSessions(
	_ context.Context,
	ownerID string,
) ([]*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.Session

	for _, s := range m.sessions {
		if s.OwnerID == ownerID {
			out = append(out, s.Clone())
		}
	}

	slices.SortFunc(out, func(a, b *models.Session) int {
		return a.StartTime.Compare(b.StartTime)
	})

	return out, nil
}

func (m *memStore) get(id string) *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s.Clone()
	}

	return nil
}

type staticIdentity struct {
	user *models.User
	err  error
}

func (s *staticIdentity) Current(context.Context) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}

	return s.user, nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.t = t
}

func sequentialIDs() func() string {
	n := 0

	return func() string {
		n++
		return fmt.Sprintf("id-%02d", n)
	}
}

type fixture struct {
	ledger   *ledger.Ledger
	store    *memStore
	identity *staticIdentity
	clock    *fakeClock
}

func newFixture(start time.Time) *fixture {
	f := &fixture{
		store:    newMemStore(),
		identity: &staticIdentity{user: &models.User{ID: "user-1", Email: "ada@example.com"}},
		clock:    &fakeClock{t: start},
	}

	f.ledger = ledger.New(
		f.store,
		f.identity,
		ledger.WithClock(f.clock.Now),
		ledger.WithIDGenerator(sequentialIDs()),
	)

	return f
}
