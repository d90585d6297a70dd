package bitget

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/apd/v3"

	"bitgetx/pkg/core"
)

// envelope is the wrapper of every Bitget response.
type envelope struct {
	Code        string          `json:"code"`
	Msg         string          `json:"msg"`
	RequestTime int64           `json:"requestTime"`
	Data        json.RawMessage `json:"data"`
}

// Required fields are pointers so that absence is distinguishable from an empty value.

// bitgetChain is one entry of a coin's chain list.
type bitgetChain struct {
	Chain             *string `json:"chain"`
	NeedTag           string  `json:"needTag"`
	Withdrawable      string  `json:"withdrawable"`
	Rechargeable      string  `json:"rechargeable"`
	WithdrawFee       string  `json:"withdrawFee"`
	ExtraWithdrawFee  string  `json:"extraWithdrawFee"`
	DepositConfirm    string  `json:"depositConfirm"`
	WithdrawConfirm   string  `json:"withdrawConfirm"`
	MinDepositAmount  string  `json:"minDepositAmount"`
	MinWithdrawAmount string  `json:"minWithdrawAmount"`
	BrowserURL        string  `json:"browserUrl"`
	ContractAddress   string  `json:"contractAddress"`
	WithdrawStep      string  `json:"withdrawStep"`
	WithdrawMinScale  *string `json:"withdrawMinScale"`
	Congestion        string  `json:"congestion"`
}

// bitgetCoin represents the raw coin record from /api/v2/spot/public/coins.
type bitgetCoin struct {
	CoinID   string        `json:"coinId"`
	Coin     *string       `json:"coin"`
	Transfer string        `json:"transfer"`
	Chains   []bitgetChain `json:"chains"`
}

// bitgetSymbol represents the raw symbol record from /api/v2/spot/public/symbols.
type bitgetSymbol struct {
	Symbol            *string `json:"symbol"`
	BaseCoin          string  `json:"baseCoin"`
	QuoteCoin         string  `json:"quoteCoin"`
	MinTradeAmount    string  `json:"minTradeAmount"`
	MaxTradeAmount    string  `json:"maxTradeAmount"`
	MinTradeUSDT      string  `json:"minTradeUSDT"`
	PricePrecision    string  `json:"pricePrecision"`
	QuantityPrecision *string `json:"quantityPrecision"`
	Status            string  `json:"status"`
}

// bitgetTicker represents the raw ticker record from /api/v2/spot/market/tickers.
type bitgetTicker struct {
	Symbol     string  `json:"symbol"`
	LastPr     *string `json:"lastPr"`
	High24h    string  `json:"high24h"`
	Low24h     string  `json:"low24h"`
	BidPr      string  `json:"bidPr"`
	AskPr      string  `json:"askPr"`
	BaseVolume string  `json:"baseVolume"`
	Ts         string  `json:"ts"`
}

// bitgetAsset represents a single coin balance.
type bitgetAsset struct {
	Coin      *string `json:"coin"`
	Available string  `json:"available"`
	Frozen    string  `json:"frozen"`
	Locked    string  `json:"locked"`
	UTime     string  `json:"uTime"`
}

// bitgetAccountInfo represents the raw response of /api/v2/spot/account/info.
type bitgetAccountInfo struct {
	UserID      *flexString `json:"userId"`
	InviterID   flexString  `json:"inviterId"`
	ChannelCode string      `json:"channelCode"`
	Authorities []string    `json:"authorities"`
	IPs         string      `json:"ips"`
	RegisTime   string      `json:"regisTime"`
}

// bitgetSubAccountList represents the raw response of /api/v2/user/virtual-subaccount-list.
type bitgetSubAccountList struct {
	SubAccountList []struct {
		SubAccountUID  *flexString `json:"subAccountUid"`
		SubAccountName string      `json:"subAccountName"`
		Status         string      `json:"status"`
	} `json:"subAccountList"`
	EndID string `json:"endId"`
}

// bitgetSubAccountAssets is one entry of /api/v2/spot/account/subaccount-assets.
type bitgetSubAccountAssets struct {
	UserID     *flexString   `json:"userId"`
	AssetsList []bitgetAsset `json:"assetsList"`
}

// bitgetWithdrawalResult represents the raw response of a withdrawal submission.
type bitgetWithdrawalResult struct {
	OrderID   *flexString `json:"orderId"`
	ClientOid string      `json:"clientOid"`
}

// bitgetWithdrawalRecord is one entry of /api/v2/spot/wallet/withdrawal-records.
type bitgetWithdrawalRecord struct {
	OrderID   *flexString `json:"orderId"`
	TradeID   string      `json:"tradeId"`
	ClientOid string      `json:"clientOid"`
	Coin      string      `json:"coin"`
	Chain     string      `json:"chain"`
	ToAddress string      `json:"toAddress"`
	Tag       string      `json:"tag"`
	Size      string      `json:"size"`
	Fee       string      `json:"fee"`
	Status    *string     `json:"status"`
	CTime     string      `json:"cTime"`
	UTime     string      `json:"uTime"`
}

// bitgetTransferResult represents the raw response of a sub-account transfer.
type bitgetTransferResult struct {
	TransferID *flexString `json:"transferId"`
	ClientOid  string      `json:"clientOid"`
}

// flexString accepts a JSON string or a JSON number. Bitget sends account ids as
// either depending on the endpoint. Numbers keep their literal digits.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("%w: %s is neither string nor number", core.ErrInvalidField, data)
	}
	*f = flexString(data)
	return nil
}

// Normalizer converts Bitget-specific records to canonical core types. Fields an
// operation depends on are required; other fields may be absent but must parse when
// present.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer instance.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeCoinInfo converts a coin record and its chains.
func (n *Normalizer) NormalizeCoinInfo(data *bitgetCoin) (*core.CoinInfo, error) {
	coin, err := required("coin", data.Coin)
	if err != nil {
		return nil, err
	}
	transfer, err := parseBool("transfer", data.Transfer)
	if err != nil {
		return nil, err
	}

	info := &core.CoinInfo{
		CoinID:   data.CoinID,
		Coin:     coin,
		Transfer: transfer,
		Chains:   make([]core.ChainInfo, 0, len(data.Chains)),
	}
	for i := range data.Chains {
		chain, err := n.NormalizeChainInfo(&data.Chains[i])
		if err != nil {
			return nil, fmt.Errorf("chains[%d]: %w", i, err)
		}
		info.Chains = append(info.Chains, *chain)
	}
	return info, nil
}

// NormalizeChainInfo converts one chain record.
func (n *Normalizer) NormalizeChainInfo(data *bitgetChain) (*core.ChainInfo, error) {
	name, err := required("chain", data.Chain)
	if err != nil {
		return nil, err
	}
	scale, err := required("withdrawMinScale", data.WithdrawMinScale)
	if err != nil {
		return nil, err
	}

	p := fieldParser{}
	info := &core.ChainInfo{
		Chain:             name,
		NeedTag:           p.boolean("needTag", data.NeedTag),
		Withdrawable:      p.boolean("withdrawable", data.Withdrawable),
		Rechargeable:      p.boolean("rechargeable", data.Rechargeable),
		WithdrawFee:       p.decimal("withdrawFee", data.WithdrawFee),
		ExtraWithdrawFee:  p.decimal("extraWithdrawFee", data.ExtraWithdrawFee),
		DepositConfirm:    p.integer("depositConfirm", data.DepositConfirm),
		WithdrawConfirm:   p.integer("withdrawConfirm", data.WithdrawConfirm),
		MinDepositAmount:  p.decimal("minDepositAmount", data.MinDepositAmount),
		MinWithdrawAmount: p.decimal("minWithdrawAmount", data.MinWithdrawAmount),
		BrowserURL:        data.BrowserURL,
		ContractAddress:   data.ContractAddress,
		WithdrawStep:      p.decimal("withdrawStep", data.WithdrawStep),
		WithdrawMinScale:  p.precision("withdrawMinScale", scale),
		Congestion:        data.Congestion,
	}
	if p.err != nil {
		return nil, p.err
	}
	return info, nil
}

// NormalizeSymbolInfo converts a symbol record.
func (n *Normalizer) NormalizeSymbolInfo(data *bitgetSymbol) (*core.SymbolInfo, error) {
	symbol, err := required("symbol", data.Symbol)
	if err != nil {
		return nil, err
	}
	precision, err := required("quantityPrecision", data.QuantityPrecision)
	if err != nil {
		return nil, err
	}

	p := fieldParser{}
	info := &core.SymbolInfo{
		Symbol:            symbol,
		BaseCoin:          data.BaseCoin,
		QuoteCoin:         data.QuoteCoin,
		MinTradeAmount:    p.decimal("minTradeAmount", data.MinTradeAmount),
		MaxTradeAmount:    p.decimal("maxTradeAmount", data.MaxTradeAmount),
		MinTradeUSDT:      p.decimal("minTradeUSDT", data.MinTradeUSDT),
		PricePrecision:    p.precision("pricePrecision", data.PricePrecision),
		QuantityPrecision: p.precision("quantityPrecision", precision),
		Status:            data.Status,
	}
	if p.err != nil {
		return nil, p.err
	}
	return info, nil
}

// NormalizeTicker converts a ticker record.
func (n *Normalizer) NormalizeTicker(data *bitgetTicker) (*core.Ticker, error) {
	last, err := required("lastPr", data.LastPr)
	if err != nil {
		return nil, err
	}

	p := fieldParser{}
	ticker := &core.Ticker{
		Symbol:    data.Symbol,
		Last:      p.decimal("lastPr", last),
		High:      p.decimal("high24h", data.High24h),
		Low:       p.decimal("low24h", data.Low24h),
		Bid:       p.decimal("bidPr", data.BidPr),
		Ask:       p.decimal("askPr", data.AskPr),
		Volume:    p.decimal("baseVolume", data.BaseVolume),
		Timestamp: p.millis("ts", data.Ts),
	}
	if p.err != nil {
		return nil, p.err
	}
	return ticker, nil
}

// NormalizeBalances converts a list of asset records.
func (n *Normalizer) NormalizeBalances(data []bitgetAsset) ([]core.Balance, error) {
	balances := make([]core.Balance, 0, len(data))
	for i := range data {
		coin, err := required("coin", data[i].Coin)
		if err != nil {
			return nil, fmt.Errorf("assets[%d]: %w", i, err)
		}
		p := fieldParser{}
		b := core.Balance{
			Coin:      coin,
			Available: p.decimal("available", data[i].Available),
			Frozen:    p.decimal("frozen", data[i].Frozen),
			Locked:    p.decimal("locked", data[i].Locked),
			UpdatedAt: p.millis("uTime", data[i].UTime),
		}
		if p.err != nil {
			return nil, fmt.Errorf("assets[%d]: %w", i, p.err)
		}
		balances = append(balances, b)
	}
	return balances, nil
}

// NormalizeAccountInfo converts the main account record.
func (n *Normalizer) NormalizeAccountInfo(data *bitgetAccountInfo) (*core.AccountInfo, error) {
	if data.UserID == nil || *data.UserID == "" {
		return nil, fmt.Errorf("%w: userId", core.ErrMissingField)
	}
	p := fieldParser{}
	info := &core.AccountInfo{
		UserID:      string(*data.UserID),
		InviterID:   string(data.InviterID),
		ChannelCode: data.ChannelCode,
		Authorities: data.Authorities,
		IPs:         data.IPs,
		RegisTime:   p.millis("regisTime", data.RegisTime),
	}
	if p.err != nil {
		return nil, p.err
	}
	return info, nil
}

// NormalizeSubAccounts converts the virtual sub-account list.
func (n *Normalizer) NormalizeSubAccounts(data *bitgetSubAccountList) ([]core.SubAccount, error) {
	accounts := make([]core.SubAccount, 0, len(data.SubAccountList))
	for i, raw := range data.SubAccountList {
		if raw.SubAccountUID == nil || *raw.SubAccountUID == "" {
			return nil, fmt.Errorf("subAccountList[%d]: %w: subAccountUid", i, core.ErrMissingField)
		}
		accounts = append(accounts, core.SubAccount{
			UID:    string(*raw.SubAccountUID),
			Name:   raw.SubAccountName,
			Status: raw.Status,
		})
	}
	return accounts, nil
}

// NormalizeSubAccountAssets converts one sub-account's asset list.
func (n *Normalizer) NormalizeSubAccountAssets(data *bitgetSubAccountAssets) (*core.SubAccountAssets, error) {
	if data.UserID == nil || *data.UserID == "" {
		return nil, fmt.Errorf("%w: userId", core.ErrMissingField)
	}
	balances, err := n.NormalizeBalances(data.AssetsList)
	if err != nil {
		return nil, err
	}
	return &core.SubAccountAssets{UserID: string(*data.UserID), Balances: balances}, nil
}

// NormalizeWithdrawalRecord converts one withdrawal record.
func (n *Normalizer) NormalizeWithdrawalRecord(data *bitgetWithdrawalRecord) (*core.WithdrawalRecord, error) {
	if data.OrderID == nil || *data.OrderID == "" {
		return nil, fmt.Errorf("%w: orderId", core.ErrMissingField)
	}
	status, err := required("status", data.Status)
	if err != nil {
		return nil, err
	}

	p := fieldParser{}
	record := &core.WithdrawalRecord{
		OrderID:   string(*data.OrderID),
		TxID:      data.TradeID,
		ClientOID: data.ClientOid,
		Coin:      data.Coin,
		Chain:     data.Chain,
		Address:   data.ToAddress,
		Tag:       data.Tag,
		Size:      p.decimal("size", data.Size),
		Fee:       p.decimal("fee", data.Fee),
		Status:    core.WithdrawalStatus(status),
		CreatedAt: p.millis("cTime", data.CTime),
		UpdatedAt: p.millis("uTime", data.UTime),
	}
	if p.err != nil {
		return nil, p.err
	}
	return record, nil
}

// NormalizeWithdrawalRecords converts a list of withdrawal records.
func (n *Normalizer) NormalizeWithdrawalRecords(data []bitgetWithdrawalRecord) ([]core.WithdrawalRecord, error) {
	records := make([]core.WithdrawalRecord, 0, len(data))
	for i := range data {
		r, err := n.NormalizeWithdrawalRecord(&data[i])
		if err != nil {
			return nil, fmt.Errorf("records[%d]: %w", i, err)
		}
		records = append(records, *r)
	}
	return records, nil
}

// decodeData unmarshals an envelope's data into T. Absent or null data is
// core.ErrEmptyData.
func decodeData[T any](data json.RawMessage) (*T, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil, core.ErrEmptyData
	}
	var out T
	if err := sonic.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: decode data: %v", core.ErrInvalidField, err)
	}
	return &out, nil
}

// decodeFirst unmarshals a data array and returns its first element.
func decodeFirst[T any](data json.RawMessage) (*T, error) {
	list, err := decodeData[[]T](data)
	if err != nil {
		return nil, err
	}
	if len(*list) == 0 {
		return nil, core.ErrEmptyData
	}
	return &(*list)[0], nil
}

func required(field string, v *string) (string, error) {
	if v == nil || *v == "" {
		return "", fmt.Errorf("%w: %s", core.ErrMissingField, field)
	}
	return *v, nil
}

func parseBool(field, s string) (bool, error) {
	switch s {
	case "", "false":
		return false, nil
	case "true":
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s=%q is not a boolean", core.ErrInvalidField, field, s)
	}
}

// fieldParser parses optional string fields and keeps the first failure.
type fieldParser struct {
	err error
}

func (p *fieldParser) fail(field, value, kind string) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s=%q is not %s", core.ErrInvalidField, field, value, kind)
	}
}

func (p *fieldParser) decimal(field, s string) apd.Decimal {
	if s == "" {
		return apd.Decimal{}
	}
	d, _, err := apd.NewFromString(s)
	if err != nil {
		p.fail(field, s, "a decimal")
		return apd.Decimal{}
	}
	return *d
}

func (p *fieldParser) boolean(field, s string) bool {
	b, err := parseBool(field, s)
	if err != nil && p.err == nil {
		p.err = err
	}
	return b
}

func (p *fieldParser) integer(field, s string) int64 {
	if s == "" {
		return 0
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		p.fail(field, s, "an integer")
	}
	return i
}

func (p *fieldParser) precision(field, s string) int32 {
	if s == "" {
		return 0
	}
	i, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		p.fail(field, s, "an integer")
	}
	return int32(i)
}

func (p *fieldParser) millis(field, s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		p.fail(field, s, "a millisecond timestamp")
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
