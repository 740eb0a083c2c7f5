package ibp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/roivaz/ibp-masterdata-mcp/internal/logging"
)

var (
	ErrMissingURL         = errors.New("IBP URL not found in environment variables")
	ErrMissingCredentials = errors.New("IBP credentials not found in environment variables")
)

// Config describes how to reach IBP.
type Config struct {
	// BaseURL is used verbatim as the query prefix and is expected to end
	// with "?$" so that "select=..." completes the OData $select option.
	BaseURL  string
	Username string
	Password string
	// Timeout bounds a single request. Zero means no timeout.
	Timeout time.Duration
	OAuth   *OAuthConfig
	// HTTPClient overrides the transport used for requests.
	HTTPClient *http.Client
}

// Validate reports configuration problems that make a query impossible.
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrMissingURL
	}
	if c.OAuth != nil {
		if c.OAuth.ClientID == "" || c.OAuth.ClientSecret == "" {
			return fmt.Errorf("oauth client: %w", ErrMissingCredentials)
		}
		return nil
	}
	if c.Username == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// Client issues OData queries against IBP.
type Client struct {
	cfg  Config
	http *http.Client
	log  logging.Logger
}

// NewClient builds a Client. Configuration is validated per query, not here.
func NewClient(cfg Config, log logging.Logger) *Client {
	base := cfg.HTTPClient
	if base == nil {
		base = &http.Client{}
	}
	httpClient := base
	if cfg.OAuth != nil {
		httpClient = cfg.OAuth.client(base)
	}
	return &Client{cfg: cfg, http: httpClient, log: log.WithName("ibp.client")}
}

// BuildURL appends the attribute selection and JSON format options to base.
func BuildURL(base string, attributes []string) string {
	return base + "select=" + strings.Join(attributes, ",") + "&$format=json"
}

// Query issues exactly one GET selecting the given attributes. A non-2xx
// status is not an error: it is reported through the Response.
func (c *Client) Query(ctx context.Context, attributes []string) (*Response, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	url := BuildURL(c.cfg.BaseURL, attributes)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.OAuth == nil {
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	}

	start := time.Now()
	c.log.Debug("querying IBP", "select", strings.Join(attributes, ","))
	resp, err := c.http.Do(req)
	if err != nil {
		annotated := c.annotateError(err)
		c.log.Error(annotated, "IBP request failed", "elapsed", time.Since(start).String())
		return nil, fmt.Errorf("query IBP: %w", annotated)
	}
	defer resp.Body.Close()

	out := &Response{StatusCode: resp.StatusCode, StatusText: statusText(resp)}
	if !out.OK() {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.log.Info("IBP returned an error status", "status", resp.StatusCode, "elapsed", time.Since(start).String())
		return out, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read IBP response: %w", c.annotateError(err))
	}
	out.Rows = parseResults(body)
	c.log.Debug("IBP query finished", "status", resp.StatusCode, "rows", len(out.Rows), "elapsed", time.Since(start).String())
	return out, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.Timeout)
}

func (c *Client) annotateError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("IBP call timed out after %s: %w", c.cfg.Timeout, err)
	}
	return err
}

// statusText returns the reason phrase the server sent, falling back to the
// canonical text for the code.
func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}
