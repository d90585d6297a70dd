package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/go-playground/validator/v10"
)

// ChainInfo describes one network a coin can be deposited or withdrawn on.
type ChainInfo struct {
	// Chain is the exchange's name for the network (e.g. "ArbitrumOne").
	Chain string `json:"chain"`
	// NeedTag reports whether deposits require a memo or tag.
	NeedTag bool `json:"need_tag"`
	// Withdrawable reports whether withdrawals are currently open.
	Withdrawable bool `json:"withdrawable"`
	// Rechargeable reports whether deposits are currently open.
	Rechargeable bool `json:"rechargeable"`
	// WithdrawFee is the fixed fee charged per withdrawal.
	WithdrawFee apd.Decimal `json:"withdraw_fee"`
	// ExtraWithdrawFee is the proportional fee charged per withdrawal.
	ExtraWithdrawFee apd.Decimal `json:"extra_withdraw_fee"`
	// DepositConfirm is the number of confirmations before a deposit is credited.
	DepositConfirm int64 `json:"deposit_confirm"`
	// WithdrawConfirm is the number of confirmations before a withdrawal is final.
	WithdrawConfirm int64 `json:"withdraw_confirm"`
	// MinDepositAmount is the smallest deposit credited.
	MinDepositAmount apd.Decimal `json:"min_deposit_amount"`
	// MinWithdrawAmount is the smallest withdrawal accepted.
	MinWithdrawAmount apd.Decimal `json:"min_withdraw_amount"`
	// BrowserURL is the block explorer URL prefix.
	BrowserURL string `json:"browser_url"`
	// ContractAddress is the token contract, empty for native coins.
	ContractAddress string `json:"contract_address"`
	// WithdrawStep is the withdrawal amount increment, zero when unrestricted.
	WithdrawStep apd.Decimal `json:"withdraw_step"`
	// WithdrawMinScale is the number of decimal places accepted in a withdrawal amount.
	WithdrawMinScale int32 `json:"withdraw_min_scale"`
	// Congestion is the exchange's congestion label for the network.
	Congestion string `json:"congestion"`
}

// CoinInfo describes a coin and the chains it is available on.
type CoinInfo struct {
	CoinID   string      `json:"coin_id"`
	Coin     string      `json:"coin"`
	Transfer bool        `json:"transfer"`
	Chains   []ChainInfo `json:"chains"`
}

// Chain returns the chain with the exact exchange name, or false.
func (c *CoinInfo) Chain(name string) (ChainInfo, bool) {
	for _, ch := range c.Chains {
		if ch.Chain == name {
			return ch, true
		}
	}
	return ChainInfo{}, false
}

// SymbolInfo holds the trading configuration of a spot symbol.
type SymbolInfo struct {
	Symbol            string      `json:"symbol"`
	BaseCoin          string      `json:"base_coin"`
	QuoteCoin         string      `json:"quote_coin"`
	MinTradeAmount    apd.Decimal `json:"min_trade_amount"`
	MaxTradeAmount    apd.Decimal `json:"max_trade_amount"`
	MinTradeUSDT      apd.Decimal `json:"min_trade_usdt"`
	PricePrecision    int32       `json:"price_precision"`
	QuantityPrecision int32       `json:"quantity_precision"`
	Status            string      `json:"status"`
}

// Ticker represents 24h market statistics of a spot symbol.
type Ticker struct {
	// Symbol is the spot symbol (e.g. "ETHUSDT").
	Symbol string `json:"symbol"`
	// Last is the last traded price.
	Last apd.Decimal `json:"last"`
	// High is the 24h high.
	High apd.Decimal `json:"high"`
	// Low is the 24h low.
	Low apd.Decimal `json:"low"`
	// Bid is the best bid price.
	Bid apd.Decimal `json:"bid"`
	// Ask is the best ask price.
	Ask apd.Decimal `json:"ask"`
	// Volume is the 24h base volume.
	Volume apd.Decimal `json:"volume"`
	// Timestamp is when the exchange produced the ticker.
	Timestamp time.Time `json:"timestamp"`
}

// Balance represents the holdings of a single coin.
type Balance struct {
	Coin      string      `json:"coin"`
	Available apd.Decimal `json:"available"`
	Frozen    apd.Decimal `json:"frozen"`
	Locked    apd.Decimal `json:"locked"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// AccountInfo represents the main account.
type AccountInfo struct {
	UserID      string    `json:"user_id"`
	InviterID   string    `json:"inviter_id"`
	ChannelCode string    `json:"channel_code"`
	Authorities []string  `json:"authorities"`
	IPs         string    `json:"ips"`
	RegisTime   time.Time `json:"regis_time"`
}

// SubAccount is a virtual sub-account of the main account.
type SubAccount struct {
	UID    string `json:"uid"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// SubAccountAssets holds the spot balances of one sub-account.
type SubAccountAssets struct {
	UserID   string    `json:"user_id"`
	Balances []Balance `json:"balances"`
}

// Balance returns the balance of coin, or false when the sub-account holds none.
func (s *SubAccountAssets) Balance(coin string) (Balance, bool) {
	for _, b := range s.Balances {
		if strings.EqualFold(b.Coin, coin) {
			return b, true
		}
	}
	return Balance{}, false
}

// WithdrawalRequest describes an on-chain withdrawal.
type WithdrawalRequest struct {
	// Coin is the coin to withdraw (e.g. "ETH").
	Coin string `json:"coin" validate:"required,alphanum"`
	// Chain is the exchange chain name; aliases are resolved by the client.
	Chain string `json:"chain" validate:"required"`
	// Address is the destination address.
	Address string `json:"address" validate:"required"`
	// Tag is the memo for chains that need one.
	Tag string `json:"tag,omitempty"`
	// Amount is the amount to withdraw, fee excluded.
	Amount apd.Decimal `json:"amount"`
	// ClientOID is an idempotency id. The client generates one when empty.
	ClientOID string `json:"client_oid,omitempty"`
}

var requestValidator = validator.New()

// Validate checks the request for completeness and a positive amount.
func (r *WithdrawalRequest) Validate() error {
	if err := requestValidator.Struct(r); err != nil {
		return fmt.Errorf("invalid withdrawal request: %w", err)
	}
	if r.Amount.Sign() <= 0 {
		return fmt.Errorf("invalid withdrawal request: amount must be positive, got %s", r.Amount.String())
	}
	return nil
}

// WithdrawalTicket is what a submitted withdrawal returns: the client-observed start
// time, captured before the request was sent, and the exchange order id. Both are
// needed to look the withdrawal up later.
type WithdrawalTicket struct {
	StartTime time.Time `json:"start_time"`
	OrderID   string    `json:"order_id"`
	ClientOID string    `json:"client_oid"`
}

// WithdrawalStatus is the exchange's status string of a withdrawal record.
type WithdrawalStatus string

// Withdrawal statuses with a meaning to the client. Any other value is unexpected.
const (
	WithdrawalPending WithdrawalStatus = "pending"
	WithdrawalSuccess WithdrawalStatus = "success"
	WithdrawalFailed  WithdrawalStatus = "fail"
)

// Completed maps the status onto the withdrawal lifecycle: success is completed, pending
// is not yet, and any other status is an error wrapping ErrWrongStatus.
func (s WithdrawalStatus) Completed() (bool, error) {
	switch s {
	case WithdrawalSuccess:
		return true, nil
	case WithdrawalPending:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrWrongStatus, string(s))
	}
}

// WithdrawalRecord is the exchange's ledger entry for a withdrawal.
type WithdrawalRecord struct {
	OrderID   string           `json:"order_id"`
	TxID      string           `json:"tx_id"`
	ClientOID string           `json:"client_oid"`
	Coin      string           `json:"coin"`
	Chain     string           `json:"chain"`
	Address   string           `json:"address"`
	Tag       string           `json:"tag,omitempty"`
	Size      apd.Decimal      `json:"size"`
	Fee       apd.Decimal      `json:"fee"`
	Status    WithdrawalStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
