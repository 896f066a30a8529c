package rates_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/cashtimer/internal/models"
	"github.com/ayoisaiah/cashtimer/rates"
)

func TestConvert(t *testing.T) {
	table := rates.Default()

	got, err := rates.Convert(table, decimal.NewFromInt(100), "USD", "CAD")
	require.NoError(t, err)
	assert.Equal(t, "135.00", got.StringFixed(2))

	got, err = rates.Convert(table, decimal.NewFromInt(135), "cad", " usd ")
	require.NoError(t, err)
	assert.Equal(t, "100.00", got.StringFixed(2))

	got, err = rates.Convert(table, decimal.NewFromInt(42), "CAD", "CAD")
	require.NoError(t, err)
	assert.Equal(t, "42", got.String())

	_, err = rates.Convert(table, decimal.NewFromInt(1), "USD", "XYZ")
	require.ErrorIs(t, err, rates.ErrUnknownCurrency)
}

func TestLookup(t *testing.T) {
	c, ok := rates.Lookup("eur")
	assert.True(t, ok)
	assert.Equal(t, "€", c.Symbol)

	c, ok = rates.Lookup("JPY")
	assert.False(t, ok)
	assert.Equal(t, "JPY ", c.Symbol)
	assert.Equal(t, "$", rates.Symbol("CAD"))
}

func TestSortedCodes(t *testing.T) {
	codes := rates.SortedCodes(map[string]int{"USD": 1, "CAD": 2, "AUD": 3, "EUR": 4})
	assert.Equal(t, []string{"AUD", "CAD", "EUR", "USD"}, codes)
}

func feedServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))

	t.Cleanup(srv.Close)

	return srv, &hits
}

func TestHTTPFeed(t *testing.T) {
	srv, _ := feedServer(
		t,
		http.StatusOK,
		`{"base":"USD","date":"2024-03-04","rates":{"USD":1,"CAD":1.36,"EUR":0.92}}`,
	)

	table, err := rates.NewHTTPFeed(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "USD", table.Base)
	assert.Equal(t, "1.36", table.Rates["CAD"].String())
	assert.False(t, table.UpdatedAt.IsZero())
}

func TestHTTPFeedErrors(t *testing.T) {
	cases := []struct {
		Name   string
		Body   string
		Status int
	}{
		{Name: "server error", Status: http.StatusInternalServerError, Body: `oops`},
		{Name: "malformed body", Status: http.StatusOK, Body: `{"rates":`},
		{Name: "no rates", Status: http.StatusOK, Body: `{"base":"USD","rates":{}}`},
		{Name: "negative rate", Status: http.StatusOK, Body: `{"base":"USD","rates":{"CAD":-1}}`},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			srv, _ := feedServer(t, tc.Status, tc.Body)

			_, err := rates.NewHTTPFeed(srv.URL, time.Second).Fetch(context.Background())
			assert.Error(t, err)
		})
	}
}

type memCache struct {
	table *models.RateTable
	saves int
}

func (m *memCache) SaveRates(_ context.Context, t *models.RateTable) error {
	m.table = rates.Clone(t)
	m.saves++

	return nil
}

func (m *memCache) LoadRates(context.Context) (*models.RateTable, error) {
	if m.table == nil {
		return nil, context.DeadlineExceeded
	}

	return rates.Clone(m.table), nil
}

type stubFeed struct {
	table *models.RateTable
	err   error
}

func (s *stubFeed) Fetch(context.Context) (*models.RateTable, error) {
	return s.table, s.err
}

func TestRefresherKeepsLastGoodTable(t *testing.T) {
	ctx := context.Background()
	cache := &memCache{}

	good := &models.RateTable{
		Base: "USD",
		Rates: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(1),
			"CAD": decimal.RequireFromString("1.40"),
		},
		UpdatedAt: time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC),
	}

	feed := &stubFeed{table: good}
	r := rates.NewRefresher(ctx, feed, cache, time.Minute)

	assert.Equal(t, "1.35", r.Table().Rates["CAD"].String())

	require.NoError(t, r.Refresh(ctx))
	assert.Equal(t, "1.4", r.Table().Rates["CAD"].String())
	assert.Equal(t, 1, cache.saves)

	feed.table, feed.err = nil, context.DeadlineExceeded

	require.Error(t, r.Refresh(ctx))
	assert.Error(t, r.Err())
	assert.Equal(t, "1.4", r.Table().Rates["CAD"].String())
	assert.Equal(t, 1, cache.saves)

	// a new refresher starts from the cached table
	next := rates.NewRefresher(ctx, feed, cache, time.Minute)
	assert.Equal(t, "1.4", next.Table().Rates["CAD"].String())
}

func TestRefresherSnapshotIsolation(t *testing.T) {
	r := rates.NewRefresher(context.Background(), &stubFeed{}, nil, 0)

	snap := r.Table()
	snap.Rates["CAD"] = decimal.NewFromInt(99)

	assert.Equal(t, "1.35", r.Table().Rates["CAD"].String())
}

func TestRefresherStart(t *testing.T) {
	srv, hits := feedServer(t, http.StatusOK, `{"base":"USD","rates":{"CAD":1.5}}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := rates.NewRefresher(ctx, rates.NewHTTPFeed(srv.URL, time.Second), nil, 10*time.Millisecond)
	stop := r.Start(ctx)

	require.Eventually(t, func() bool {
		return hits.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	stop()

	after := hits.Load()

	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, after, hits.Load(), "no refreshes after stop returns")
	assert.Equal(t, "1.5", r.Table().Rates["CAD"].String())
	assert.Equal(t, "1", r.Table().Rates["USD"].String())
}
