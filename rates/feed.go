package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ayoisaiah/cashtimer/internal/models"
)

const DefaultURL = "https://api.exchangerate-api.com/v4/latest/USD"

var errEmptyFeed = errors.New("decoding exchange rates: response has no rates")

// Feed fetches the latest exchange rates.
type Feed interface {
	Fetch(ctx context.Context) (*models.RateTable, error)
}

// HTTPFeed reads rates from an exchangerate-api compatible endpoint.
type HTTPFeed struct {
	client *http.Client
	url    string
	now    func() time.Time
}

// NewHTTPFeed returns a feed for url whose requests give up after timeout.
func NewHTTPFeed(url string, timeout time.Duration) *HTTPFeed {
	if url == "" {
		url = DefaultURL
	}

	return &HTTPFeed{
		client: &http.Client{Timeout: timeout},
		url:    url,
		now:    time.Now,
	}
}

type feedResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
	Base  string                     `json:"base"`
}

func (f *HTTPFeed) Fetch(ctx context.Context) (*models.RateTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, http.NoBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching exchange rates: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetching exchange rates: unexpected status %s", resp.Status)
	}

	var body feedResponse

	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		return nil, fmt.Errorf("decoding exchange rates: %w", err)
	}

	if len(body.Rates) == 0 {
		return nil, errEmptyFeed
	}

	table := &models.RateTable{
		Base:      NormalizeCode(body.Base),
		Rates:     make(map[string]decimal.Decimal, len(body.Rates)),
		UpdatedAt: f.now(),
	}

	if table.Base == "" {
		table.Base = BaseCurrency
	}

	for code, r := range body.Rates {
		table.Rates[NormalizeCode(code)] = r
	}

	err = validate(table)
	if err != nil {
		return nil, err
	}

	return table, nil
}
