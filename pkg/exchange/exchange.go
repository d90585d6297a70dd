package exchange

import (
	"context"
	"time"

	"github.com/cockroachdb/apd/v3"

	"bitgetx/pkg/core"
)

// MarketData covers the public spot endpoints. Coins are bare tickers ("ETH"); the
// implementation appends its quote coin to form symbols.
type MarketData interface {
	GetCoinInfo(ctx context.Context, coin string) (*core.CoinInfo, error)
	GetChainInfo(ctx context.Context, coin, chain string) (*core.ChainInfo, error)
	GetSymbolInfo(ctx context.Context, coin string) (*core.SymbolInfo, error)
	GetQuantityPrecision(ctx context.Context, coin string) (int32, error)
	GetTicker(ctx context.Context, coin string) (*core.Ticker, error)
	GetPrice(ctx context.Context, coin string) (apd.Decimal, error)

	ConvertUSDToNative(ctx context.Context, usd apd.Decimal, coin, chain string) (apd.Decimal, error)
	ConvertUSDToQuantity(ctx context.Context, usd apd.Decimal, coin string) (apd.Decimal, error)
}

// Account covers the main account.
type Account interface {
	IsConnected(ctx context.Context) (bool, error)
	GetAccountInfo(ctx context.Context) (*core.AccountInfo, error)
	GetMainUID(ctx context.Context) (string, error)
	GetBalance(ctx context.Context, opts ...Option) ([]core.Balance, error)
}

// Wallet covers on-chain withdrawals. A withdrawal is submitted once and then polled
// by the caller with CheckWithdrawal until it reports true.
type Wallet interface {
	PostWithdrawal(ctx context.Context, req *core.WithdrawalRequest) (*core.WithdrawalTicket, error)
	GetWithdrawalRecords(ctx context.Context, opts ...Option) ([]core.WithdrawalRecord, error)
	CheckWithdrawal(ctx context.Context, start time.Time, orderID string) (bool, error)
}

// SubAccounts covers virtual sub-accounts and transfers back to the main account.
type SubAccounts interface {
	GetSubAccounts(ctx context.Context) ([]core.SubAccount, error)
	GetSubAccountBalance(ctx context.Context, uid string, opts ...Option) ([]core.Balance, error)
	TransferToMain(ctx context.Context, uid, coin string, amount apd.Decimal) (string, error)
}

// Exchange is the full endpoint catalog of an authenticated exchange client.
// Every method returns its payload or a *core.Error naming the failed operation.
type Exchange interface {
	Name() string
	Version() string
	Mode() core.Mode
	Close() error

	MarketData
	Account
	Wallet
	SubAccounts
}

// TimeRange is a closed interval used by record queries.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether the range is unset.
func (r TimeRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}
