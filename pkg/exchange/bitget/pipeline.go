package bitget

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"

	"bitgetx/internal/transport"
	"bitgetx/pkg/core"
)

// call runs one signed request and records its outcome. It is used by operations
// that need no payload from the envelope.
func (c *Client) call(ctx context.Context, op core.Operation, req *core.Request) (env *envelope, err error) {
	done := c.collector.Start(op)
	defer func() { done(err) }()
	return c.roundTrip(ctx, op, req)
}

// roundTrip sends one signed request and returns the decoded envelope of a successful
// response. Every failure is a *core.Error attributed to op.
func (c *Client) roundTrip(ctx context.Context, op core.Operation, req *core.Request) (*envelope, error) {
	if err := req.Validate(); err != nil {
		return nil, core.NewError(op, core.KindConfig, err)
	}
	if err := c.limiter.Wait(ctx, req.Path); err != nil {
		return nil, core.NewError(op, core.KindTransport, fmt.Errorf("rate limit: %w", err))
	}

	ts := Timestamp(c.now())
	query := req.QueryString()

	var body []byte
	payload := query
	if req.Method == http.MethodPost && req.Body != nil {
		var err error
		if body, err = sonic.Marshal(req.Body); err != nil {
			return nil, core.NewError(op, core.KindConfig, fmt.Errorf("encode body: %w", err))
		}
		payload = string(body)
	}

	sig, err := c.signer.Sign(ts, req.Method, req.Path, payload)
	if err != nil {
		return nil, core.NewError(op, core.KindConfig, fmt.Errorf("sign request: %w", err))
	}

	resp, err := c.transport.Execute(ctx, &transport.Request{
		Method:  req.Method,
		URL:     c.config.BaseURL + req.Path + query,
		Headers: c.signer.Headers(ts, sig, c.config.Locale),
		Body:    body,
	})
	if err != nil {
		return nil, core.NewError(op, core.KindTransport, err)
	}

	c.logger.Debug().
		Str("op", op.String()).
		Int("status", resp.StatusCode).
		RawJSON("body", resp.Body).
		Msg("bitget response")

	return classify(op, resp)
}

// classify turns a JSON response into an envelope or an exchange failure.
func classify(op core.Operation, resp *transport.Response) (*envelope, error) {
	var env envelope
	decodeErr := sonic.Unmarshal(resp.Body, &env)

	if resp.StatusCode != http.StatusOK {
		return nil, core.NewExchangeError(op, resp.StatusCode, env.Code, exchangeMessage(&env, resp.Body))
	}
	if decodeErr != nil {
		return nil, core.NewError(op, core.KindProtocol, fmt.Errorf("decode envelope: %w", decodeErr))
	}
	if env.Code != "" && env.Code != core.CodeSuccess {
		return nil, core.NewExchangeError(op, resp.StatusCode, env.Code, exchangeMessage(&env, resp.Body))
	}
	return &env, nil
}

func exchangeMessage(env *envelope, raw []byte) string {
	if env.Msg != "" {
		return env.Msg
	}
	return string(raw)
}

// fetch runs roundTrip, extracts the envelope's data with parse and converts it with
// normalize. Failures after a successful round trip are protocol errors. The recorded
// outcome is that of the whole sequence.
func fetch[T, R any](
	ctx context.Context,
	c *Client,
	op core.Operation,
	req *core.Request,
	parse func(json.RawMessage) (*T, error),
	normalize func(*T) (R, error),
) (out R, err error) {
	done := c.collector.Start(op)
	defer func() { done(err) }()

	var zero R
	env, err := c.roundTrip(ctx, op, req)
	if err != nil {
		return zero, err
	}
	raw, err := parse(env.Data)
	if err != nil {
		return zero, core.NewError(op, core.KindProtocol, err)
	}
	if out, err = normalize(raw); err != nil {
		return zero, core.NewError(op, core.KindProtocol, err)
	}
	return out, nil
}
