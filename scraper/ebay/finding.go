package ebay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"deal-scanner/models"
	"deal-scanner/utils"
)

const findingServiceVersion = "1.13.0"

// FindingOptions configures a FindingClient.
type FindingOptions struct {
	Endpoint          string
	AppID             string
	GlobalID          string
	Timeout           time.Duration
	RequestsPerSecond float64
	MaxRetries        int
	RetryBaseDelay    time.Duration
	Logger            *utils.Logger
}

func (o *FindingOptions) setDefaults() {
	if o.GlobalID == "" {
		o.GlobalID = "EBAY-US"
	}
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 1
	}
	if o.RetryBaseDelay <= 0 {
		o.RetryBaseDelay = time.Second
	}
	if o.Logger == nil {
		o.Logger = utils.Discard()
	}
}

// FindingClient calls the Finding API over HTTP with JSON responses.
type FindingClient struct {
	opts     FindingOptions
	endpoint *url.URL
	client   *http.Client
	limiter  *rate.Limiter
	retry    *utils.RetryConfig
}

// httpStatusError is a non-2xx reply from the marketplace.
type httpStatusError struct {
	Code int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("http status %d", e.Code)
}

// NewFindingClient validates opts and returns a ready client.
func NewFindingClient(opts FindingOptions) (*FindingClient, error) {
	opts.setDefaults()

	endpoint, err := url.Parse(strings.TrimSpace(opts.Endpoint))
	if err != nil || endpoint.Scheme == "" || endpoint.Host == "" {
		return nil, fmt.Errorf("finding: invalid endpoint %q", opts.Endpoint)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &FindingClient{
		opts:     opts,
		endpoint: endpoint,
		client:   &http.Client{Timeout: opts.Timeout},
		limiter:  rate.NewLimiter(limit, 1),
		retry: &utils.RetryConfig{
			MaxAttempts: opts.MaxRetries,
			BaseDelay:   opts.RetryBaseDelay,
			Logger:      opts.Logger,
			Retryable:   isTransient,
		},
	}, nil
}

// Execute performs one Finding API call. All failures are reported as
// ErrUpstreamUnavailable.
func (c *FindingClient) Execute(ctx context.Context, req Request) (*RawResult, error) {
	if strings.TrimSpace(c.opts.AppID) == "" {
		return nil, fmt.Errorf("%w: no application id configured", models.ErrUpstreamUnavailable)
	}

	q := url.Values{}
	q.Set("OPERATION-NAME", string(req.Operation))
	q.Set("SERVICE-VERSION", findingServiceVersion)
	q.Set("SECURITY-APPNAME", c.opts.AppID)
	q.Set("GLOBAL-ID", c.opts.GlobalID)
	q.Set("RESPONSE-DATA-FORMAT", "JSON")
	q.Set("REST-PAYLOAD", "")
	req.encode(q)

	u := *c.endpoint
	u.RawQuery = q.Encode()

	var body []byte
	err := c.retry.Do(ctx, string(req.Operation), func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		b, err := c.get(ctx, u.String())
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrUpstreamUnavailable, req.Operation, err)
	}

	return decodeResponse(req.Operation, body)
}

func (c *FindingClient) get(ctx context.Context, u string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpStatusError{Code: resp.StatusCode}
	}
	return b, nil
}

// isTransient reports whether a failed call may succeed on retry.
// Auth errors and caller cancellation are permanent.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests || statusErr.Code >= 500
	}
	return true
}
