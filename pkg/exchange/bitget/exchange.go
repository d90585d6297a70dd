package bitget

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"bitgetx/internal/metrics"
	"bitgetx/internal/ratelimit"
	"bitgetx/internal/transport"
	"bitgetx/pkg/core"
	"bitgetx/pkg/exchange"
)

var _ exchange.Exchange = (*Client)(nil)

// Client implements exchange.Exchange for one Bitget API key. All methods are safe
// for concurrent use.
type Client struct {
	config     *core.Config
	signer     *Signer
	transport  transport.Transport
	limiter    *ratelimit.Limiter
	collector  *metrics.Collector
	logger     zerolog.Logger
	protocol   *Protocol
	normalizer *Normalizer
	chains     ChainTable
	now        func() time.Time
}

// Option is a functional option for configuring the Client.
type Option func(*Options)

// Options holds configuration options for the Client.
type Options struct {
	Logger     zerolog.Logger
	Registerer prometheus.Registerer
	Chains     *ChainTable
	Clock      func() time.Time
	Transport  transport.Transport
}

// WithLogger returns an option that sets the logger for the client.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithMetrics registers the request collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *Options) {
		o.Registerer = reg
	}
}

// WithChainTable replaces the default chain aliases.
func WithChainTable(t ChainTable) Option {
	return func(o *Options) {
		o.Chains = &t
	}
}

// WithClock sets the clock used for request timestamps and withdrawal windows.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Clock = now
	}
}

// WithTransport replaces the transport selected by Config.Mode. The client takes
// ownership and closes it on Close.
func WithTransport(t transport.Transport) Option {
	return func(o *Options) {
		o.Transport = t
	}
}

// New creates a Client. Invalid configuration or credentials are reported as a
// *core.Error of kind core.KindConfig.
func New(config *core.Config, opts ...Option) (*Client, error) {
	if config == nil {
		return nil, &core.Error{Op: core.OpNewClient, Kind: core.KindConfig, Message: "nil config"}
	}
	if err := config.Validate(); err != nil {
		return nil, newConfigError("validate config", err)
	}

	options := &Options{
		Logger: zerolog.Nop(),
		Clock:  time.Now,
	}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.Logger
	if config.LogLevel != "" && logger.GetLevel() != zerolog.Disabled {
		level, err := zerolog.ParseLevel(config.LogLevel)
		if err != nil {
			return nil, newConfigError("parse log level", err)
		}
		logger = logger.Level(level)
	}
	logger = logger.With().Str("exchange", "bitget").Logger()

	signer, err := NewSigner(*config.Credentials)
	if err != nil {
		return nil, newConfigError("create signer", err)
	}

	var collector *metrics.Collector
	if options.Registerer != nil {
		if collector, err = metrics.New(options.Registerer); err != nil {
			return nil, newConfigError("register metrics", err)
		}
	}

	protocol := NewProtocol()
	limiter := ratelimit.New(config.RateLimitRequests, config.RateLimitPeriod)
	if config.RateLimitRequests > 0 {
		for path, perSecond := range protocol.EndpointLimits() {
			limiter.WithEndpointLimit(path, perSecond, time.Second)
		}
	}

	tr := options.Transport
	if tr == nil {
		if tr, err = transport.New(config, logger); err != nil {
			return nil, newConfigError("create transport", err)
		}
	}

	chains := DefaultChainTable()
	if options.Chains != nil {
		chains = *options.Chains
	}

	logger.Info().
		Object("credentials", *config.Credentials).
		Str("mode", config.Mode.String()).
		Str("base_url", config.BaseURL).
		Msg("bitget client created")

	return &Client{
		config:     config,
		signer:     signer,
		transport:  tr,
		limiter:    limiter,
		collector:  collector,
		logger:     logger,
		protocol:   protocol,
		normalizer: NewNormalizer(),
		chains:     chains,
		now:        options.Clock,
	}, nil
}

func newConfigError(action string, err error) error {
	return &core.Error{Op: core.OpNewClient, Kind: core.KindConfig, Message: action, Err: err}
}

// Register builds a client from config and registers it in container under name.
// A client previously registered under the same name is closed.
func Register(container *exchange.Container, name string, config *core.Config, opts ...Option) (*Client, error) {
	client, err := New(config, opts...)
	if err != nil {
		return nil, err
	}
	if old := container.Register(name, client); old != nil {
		if err := old.Close(); err != nil {
			client.logger.Warn().Err(err).Str("account", name).Msg("close replaced client")
		}
	}
	return client, nil
}

// Name returns the exchange identifier "bitget".
func (c *Client) Name() string {
	return c.protocol.Name()
}

// Version returns the Bitget API version.
func (c *Client) Version() string {
	return c.protocol.Version()
}

// Mode reports the execution mode of the underlying transport.
func (c *Client) Mode() core.Mode {
	return c.transport.Mode()
}

// Chains returns the client's chain alias table.
func (c *Client) Chains() ChainTable {
	return c.chains
}

// Close stops the transport. Calls made after Close fail with core.ErrClientClosed.
func (c *Client) Close() error {
	return c.transport.Close()
}

// symbol forms the spot symbol of coin against the configured quote coin. An empty
// coin yields an empty symbol.
func (c *Client) symbol(coin string) string {
	if coin == "" {
		return ""
	}
	return strings.ToUpper(coin) + c.config.QuoteCoin
}

func (c *Client) build(op core.Operation, params core.Params) (*core.Request, error) {
	req, err := c.protocol.BuildRequest(op, params)
	if err != nil {
		return nil, core.NewError(op, core.KindConfig, fmt.Errorf("%w: %v", core.ErrInvalidRequest, err))
	}
	return req, nil
}

// GetCoinInfo retrieves a coin and the chains it can be moved on.
func (c *Client) GetCoinInfo(ctx context.Context, coin string) (*core.CoinInfo, error) {
	req, err := c.build(core.OpGetCoinInfo, core.Params{"coin": coin})
	if err != nil {
		return nil, err
	}
	return fetch(ctx, c, core.OpGetCoinInfo, req, decodeFirst[bitgetCoin], c.normalizer.NormalizeCoinInfo)
}

// GetChainInfo retrieves one chain of coin. chain is resolved through the client's
// chain table first.
func (c *Client) GetChainInfo(ctx context.Context, coin, chain string) (*core.ChainInfo, error) {
	info, err := c.GetCoinInfo(ctx, coin)
	if err != nil {
		return nil, core.Wrap(core.OpGetChainInfo, err)
	}
	name := c.chains.Resolve(chain)
	ci, ok := info.Chain(name)
	if !ok {
		return nil, core.NewError(core.OpGetChainInfo, core.KindProtocol,
			fmt.Errorf("%w: %s has no chain %q", core.ErrNoSuchChain, info.Coin, name))
	}
	return &ci, nil
}

// GetSymbolInfo retrieves the spot symbol configuration of coin.
func (c *Client) GetSymbolInfo(ctx context.Context, coin string) (*core.SymbolInfo, error) {
	symbol := c.symbol(coin)
	req, err := c.build(core.OpGetSymbolInfo, core.Params{"symbol": symbol})
	if err != nil {
		return nil, err
	}
	return fetch(ctx, c, core.OpGetSymbolInfo, req, decodeFirst[bitgetSymbol],
		func(raw *bitgetSymbol) (*core.SymbolInfo, error) {
			info, err := c.normalizer.NormalizeSymbolInfo(raw)
			if err != nil {
				return nil, err
			}
			if info.Symbol != symbol {
				return nil, fmt.Errorf("%w: symbol %q, requested %q", core.ErrInvalidField, info.Symbol, symbol)
			}
			return info, nil
		})
}

// GetQuantityPrecision returns the number of decimal places a spot order quantity of
// coin may carry.
func (c *Client) GetQuantityPrecision(ctx context.Context, coin string) (int32, error) {
	info, err := c.GetSymbolInfo(ctx, coin)
	if err != nil {
		return 0, core.Wrap(core.OpGetQuantityPrecision, err)
	}
	return info.QuantityPrecision, nil
}

// GetTicker retrieves the spot ticker of coin.
func (c *Client) GetTicker(ctx context.Context, coin string) (*core.Ticker, error) {
	symbol := c.symbol(coin)
	req, err := c.build(core.OpGetTicker, core.Params{"symbol": symbol})
	if err != nil {
		return nil, err
	}
	return fetch(ctx, c, core.OpGetTicker, req, decodeFirst[bitgetTicker],
		func(raw *bitgetTicker) (*core.Ticker, error) {
			ticker, err := c.normalizer.NormalizeTicker(raw)
			if err != nil {
				return nil, err
			}
			if ticker.Symbol != "" && ticker.Symbol != symbol {
				return nil, fmt.Errorf("%w: symbol %q, requested %q", core.ErrInvalidField, ticker.Symbol, symbol)
			}
			return ticker, nil
		})
}

// GetPrice returns the last traded price of coin in the quote coin.
func (c *Client) GetPrice(ctx context.Context, coin string) (apd.Decimal, error) {
	ticker, err := c.GetTicker(ctx, coin)
	if err != nil {
		return apd.Decimal{}, core.Wrap(core.OpGetPrice, err)
	}
	return ticker.Last, nil
}

// IsConnected reports whether the exchange accepts the client's credentials.
func (c *Client) IsConnected(ctx context.Context) (bool, error) {
	req, err := c.build(core.OpIsConnected, nil)
	if err != nil {
		return false, err
	}
	if _, err := c.call(ctx, core.OpIsConnected, req); err != nil {
		return false, err
	}
	return true, nil
}

// GetAccountInfo retrieves the main account record.
func (c *Client) GetAccountInfo(ctx context.Context) (*core.AccountInfo, error) {
	req, err := c.build(core.OpGetAccountInfo, nil)
	if err != nil {
		return nil, err
	}
	return fetch(ctx, c, core.OpGetAccountInfo, req, decodeData[bitgetAccountInfo], c.normalizer.NormalizeAccountInfo)
}

// GetMainUID returns the user id of the main account.
func (c *Client) GetMainUID(ctx context.Context) (string, error) {
	info, err := c.GetAccountInfo(ctx)
	if err != nil {
		return "", core.Wrap(core.OpGetMainUID, err)
	}
	return info.UserID, nil
}

// GetBalance retrieves spot balances. WithCoin restricts the result to one coin.
func (c *Client) GetBalance(ctx context.Context, opts ...exchange.Option) ([]core.Balance, error) {
	options := exchange.ApplyOptions(opts...)
	req, err := c.build(core.OpGetBalance, core.Params{"coin": options.Coin})
	if err != nil {
		return nil, err
	}
	return fetch(ctx, c, core.OpGetBalance, req, decodeData[[]bitgetAsset],
		func(raw *[]bitgetAsset) ([]core.Balance, error) {
			return c.normalizer.NormalizeBalances(*raw)
		})
}
