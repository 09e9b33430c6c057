// Package feed provides price-feed clients for the vault's oracle valuation:
// an HTTP client polling a JSON endpoint and a websocket client keeping the
// latest streamed sample.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/opencustody/vault"
)

// Config locates a JSON price endpoint and the paths inside its response.
type Config struct {
	// URL of the endpoint serving the latest price document.
	URL string
	// ValuePath is the jsonpath of the price, a decimal number in major
	// units (e.g. "$.data.price").
	ValuePath string
	// UpdatedAtPath is the jsonpath of the sample timestamp, unix seconds
	// (e.g. "$.data.ts"). Empty means the document carries no timestamp and
	// the sample is stamped at fetch time.
	UpdatedAtPath string
}

// Client fetches price samples over HTTP. It implements vault.PriceFeed.
type Client struct {
	cfg    Config
	client *http.Client
}

// New creates an HTTP price-feed client. A nil httpClient uses a plain
// http.Client.
func New(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = new(http.Client)
	}
	return &Client{cfg: cfg, client: httpClient}
}

// Latest fetches the endpoint and extracts the current sample. The price is
// scaled to 8-fractional-digit base units.
func (c *Client) Latest(ctx context.Context) (vault.Sample, error) {
	var jobj any
	if err := jwget(ctx, c.client, c.cfg.URL, &jobj); err != nil {
		return vault.Sample{}, fmt.Errorf("error fetching price feed: %w", err)
	}

	value, err := number(jobj, c.cfg.ValuePath)
	if err != nil {
		return vault.Sample{}, fmt.Errorf("error extracting price: %w", err)
	}

	updatedAt := time.Now()
	if c.cfg.UpdatedAtPath != "" {
		ts, err := number(jobj, c.cfg.UpdatedAtPath)
		if err != nil {
			return vault.Sample{}, fmt.Errorf("error extracting timestamp: %w", err)
		}
		updatedAt = time.Unix(int64(ts), 0)
	}

	price := decimal.NewFromFloat(value).Shift(vault.PriceDecimals).Floor()
	return vault.Sample{Value: vault.A(price), UpdatedAt: updatedAt}, nil
}

// number extracts a float64 at path from a decoded JSON document.
func number(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("%q: not a number: %v", path, jval)
	}
	return val, nil
}

// jwget performs an HTTP GET request and unmarshals the JSON response into
// the provided data structure.
func jwget(ctx context.Context, client *http.Client, addr string, data interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		resp.Body.Close()
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}
