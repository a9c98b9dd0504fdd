package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pl247/aimon/internal/errors"
	"github.com/pl247/aimon/internal/monitor/parsers"
)

// DefaultMetricName is the vLLM cumulative generation token counter.
const DefaultMetricName = "vllm:generation_tokens_total"

// maxMetricsBody caps how much of a metrics page is read.
const maxMetricsBody = 8 << 20

// Tokens scrapes one metric from a Prometheus text endpoint.
type Tokens struct {
	URL    string
	Metric string
	Client *http.Client
}

// NewTokens creates a scraper for metric at url.
func NewTokens(url, metric string, client *http.Client) *Tokens {
	if metric == "" {
		metric = DefaultMetricName
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Tokens{URL: url, Metric: metric, Client: client}
}

// Read fetches the endpoint and returns the metric's current value.
// An unreachable endpoint or a non-200 answer is coded ErrSource; a page
// without the metric is coded ErrParse.
func (t *Tokens) Read(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("invalid metrics URL %q", t.URL),
			"Pass a full URL such as http://localhost:8000/metrics.")
	}
	req.Header.Set("Accept", "text/plain;version=0.0.4")

	resp, err := t.Client.Do(req)
	if err != nil {
		return 0, errors.Unavailable("metrics endpoint", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxMetricsBody))
		return 0, errors.Unavailable("metrics endpoint", fmt.Errorf("HTTP %s", resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMetricsBody))
	if err != nil {
		return 0, errors.Unavailable("metrics endpoint", err)
	}
	return parsers.ParsePrometheusMetric(string(body), t.Metric)
}
