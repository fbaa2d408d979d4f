package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/api-sage/asset-ledger/src/internal/domain"
	"github.com/api-sage/asset-ledger/src/internal/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

var _ domain.RateOracle = (*HTTPOracle)(nil)

const maxResponseBytes = 1 << 20

// HTTPOracle asks a public price API for conversion rates:
//
//	GET <base>/price/rate?from=USD&to=BTC  ->  {"USD": {"price": "0.00002", ...}}
//
// Concurrent lookups of the same pair share one upstream request.
type HTTPOracle struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	group   singleflight.Group
}

func NewHTTPOracle(baseURL string, client *http.Client, timeout time.Duration) *HTTPOracle {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPOracle{
		baseURL: baseURL,
		client:  client,
		timeout: timeout,
	}
}

func (o *HTTPOracle) Rate(ctx context.Context, from string, to string) (decimal.Decimal, error) {
	key := from + "/" + to
	ch := o.group.DoChan(key, func() (any, error) {
		// the shared request must not die with whichever caller started it
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.timeout)
		defer cancel()
		return o.fetch(fetchCtx, from, to)
	})

	select {
	case <-ctx.Done():
		return decimal.Zero, domain.RateError(from, to, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return decimal.Zero, domain.RateError(from, to, res.Err)
		}
		return res.Val.(decimal.Decimal), nil
	}
}

func (o *HTTPOracle) fetch(ctx context.Context, from string, to string) (decimal.Decimal, error) {
	query := url.Values{}
	query.Set("from", from)
	query.Set("to", to)
	addr := o.baseURL + "/price/rate?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := o.client.Do(req)
	if err != nil {
		logger.Error("http rate oracle request failed", err, logger.Fields{
			"from": from,
			"to":   to,
		})
		return decimal.Zero, fmt.Errorf("rate request: %w", err)
	}
	defer resp.Body.Close()

	logger.Info("http rate oracle response", logger.Fields{
		"from":       from,
		"to":         to,
		"status":     resp.StatusCode,
		"durationMs": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decimal.Zero, fmt.Errorf("rate request: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return decimal.Zero, fmt.Errorf("read rate response: %w", err)
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return decimal.Zero, fmt.Errorf("decode rate response: %w", err)
	}

	return priceAt(payload, fmt.Sprintf("$[%q].price", from))
}

// priceAt extracts a positive price from payload. The API sends prices as
// strings, numbers are accepted too.
func priceAt(payload any, path string) (decimal.Decimal, error) {
	value, err := jsonpath.Get(path, payload)
	if err != nil {
		return decimal.Zero, fmt.Errorf("rate response %s: %w", path, err)
	}

	var price decimal.Decimal
	switch typed := value.(type) {
	case string:
		price, err = decimal.NewFromString(typed)
		if err != nil {
			return decimal.Zero, fmt.Errorf("rate response %s: %w", path, err)
		}
	case float64:
		price = decimal.NewFromFloat(typed)
	default:
		return decimal.Zero, fmt.Errorf("rate response %s: unexpected %T", path, value)
	}

	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("rate response %s: price must be greater than zero, got %s", path, price)
	}
	return price, nil
}
