// Package transport executes signed HTTP exchanges against the exchange host.
// Two implementations share one contract: Blocking runs each exchange on the caller's
// goroutine, Concurrent hands it to a worker pool.
package transport

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"resty.dev/v3"

	"bitgetx/pkg/core"
)

// Request is a fully prepared HTTP exchange. URL already carries the query string and
// Body holds the exact bytes to transmit; neither is re-encoded.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response is a completed HTTP exchange whose body parsed as JSON.
type Response struct {
	// StatusCode is the HTTP status code returned by the server.
	StatusCode int
	// Body contains the raw response body bytes.
	Body []byte
	// Payload is the decoded JSON value of Body.
	Payload any
}

// Transport executes requests. Implementations are safe for concurrent use.
type Transport interface {
	// Execute performs one HTTP exchange. A body that is not JSON is an error
	// wrapping core.ErrNonJSONResponse.
	Execute(ctx context.Context, req *Request) (*Response, error)
	// Mode reports which execution strategy the transport uses.
	Mode() core.Mode
	// Close releases idle connections and, for Concurrent, stops the workers.
	Close() error
}

// New returns the Transport selected by config.Mode.
func New(config *core.Config, logger zerolog.Logger) (Transport, error) {
	switch config.Mode {
	case core.ModeBlocking:
		return NewBlocking(config, logger)
	case core.ModeConcurrent:
		return NewConcurrent(config, logger)
	default:
		return nil, fmt.Errorf("unsupported mode: %s", config.Mode)
	}
}

// client is the resty setup shared by both transports.
type client struct {
	http   *resty.Client
	logger zerolog.Logger
}

func newClient(config *core.Config, logger zerolog.Logger) (*client, error) {
	http := resty.New()
	http.SetLogger(restyLogger{logger: logger})
	http.SetTimeout(config.Timeout)
	http.SetRetryCount(0)

	if config.Proxy != "" {
		proxy, err := ProxyURL(config.Proxy)
		if err != nil {
			return nil, err
		}
		http.SetProxy(proxy)
	}

	http.AddRequestMiddleware(func(_ *resty.Client, req *resty.Request) error {
		logger.Debug().
			Str("method", req.Method).
			Str("url", redactQuery(req.URL)).
			Msg("http request")
		return nil
	})

	return &client{http: http, logger: logger}, nil
}

// do runs one exchange on the calling goroutine.
func (c *client) do(ctx context.Context, req *Request) (*Response, error) {
	r := c.http.R().
		SetContext(ctx).
		SetHeaders(req.Headers)
	if len(req.Body) > 0 {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		c.logger.Error().Err(err).
			Str("method", req.Method).
			Str("url", redactQuery(req.URL)).
			Msg("http request failed")
		return nil, fmt.Errorf("http request: %w", err)
	}

	body := resp.Bytes()
	c.logger.Debug().
		Str("method", req.Method).
		Str("url", redactQuery(req.URL)).
		Int("status", resp.StatusCode()).
		Int("size", len(body)).
		Msg("http response")

	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body (status %d)", core.ErrNonJSONResponse, resp.StatusCode())
	}
	var payload any
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: status %d: %v", core.ErrNonJSONResponse, resp.StatusCode(), err)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       body,
		Payload:    payload,
	}, nil
}

func (c *client) close() error {
	return c.http.Close()
}

// ProxyURL normalizes a proxy address. "host:port" and "user:pass@host:port" get an
// http:// scheme; addresses with a scheme are kept.
func ProxyURL(raw string) (string, error) {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse proxy: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("parse proxy: missing host in %q", raw)
	}
	return u.String(), nil
}

// redactQuery drops the query string, which may carry account identifiers.
func redactQuery(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) { l.logger.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...any)  { l.logger.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...any) { l.logger.Debug().Msgf(format, v...) }
