package bitget

import (
	"fmt"
	"net/http"
	"strconv"

	"bitgetx/pkg/core"
)

// API paths.
const (
	PathCoins              = "/api/v2/spot/public/coins"
	PathSymbols            = "/api/v2/spot/public/symbols"
	PathTickers            = "/api/v2/spot/market/tickers"
	PathAssets             = "/api/v2/spot/account/assets"
	PathAccountInfo        = "/api/v2/spot/account/info"
	PathSubAccountAssets   = "/api/v2/spot/account/subaccount-assets"
	PathWithdrawal         = "/api/v2/spot/wallet/withdrawal"
	PathWithdrawalRecords  = "/api/v2/spot/wallet/withdrawal-records"
	PathSubAccountTransfer = "/api/v2/spot/wallet/subaccount-transfer"
	PathVirtualSubAccounts = "/api/v2/user/virtual-subaccount-list"
)

// Protocol builds Bitget requests for catalog operations that map onto a single
// endpoint. Derived operations such as GetPrice have no request of their own.
type Protocol struct{}

// NewProtocol creates a new Bitget protocol instance.
func NewProtocol() *Protocol {
	return &Protocol{}
}

// Name returns the protocol identifier "bitget".
func (p *Protocol) Name() string {
	return "bitget"
}

// Version returns the Bitget API version string.
func (p *Protocol) Version() string {
	return "2"
}

// SupportedOperations returns the operations BuildRequest accepts.
func (p *Protocol) SupportedOperations() []core.Operation {
	return []core.Operation{
		core.OpGetCoinInfo,
		core.OpGetSymbolInfo,
		core.OpGetTicker,
		core.OpIsConnected,
		core.OpGetAccountInfo,
		core.OpGetBalance,
		core.OpPostWithdrawal,
		core.OpGetWithdrawalRecords,
		core.OpGetSubAccounts,
		core.OpGetSubAccountBalance,
		core.OpTransferToMain,
	}
}

// EndpointLimits returns Bitget's documented per-key request quota, per second, of the
// endpoints that are stricter than the default.
func (p *Protocol) EndpointLimits() map[string]int {
	return map[string]int{
		PathCoins:              3,
		PathAccountInfo:        1,
		PathWithdrawal:         5,
		PathSubAccountTransfer: 10,
	}
}

// BuildRequest constructs the request for op from params.
func (p *Protocol) BuildRequest(op core.Operation, params core.Params) (*core.Request, error) {
	switch op {
	case core.OpGetCoinInfo:
		return p.buildGetCoinInfoRequest(params)
	case core.OpGetSymbolInfo:
		return p.buildSymbolRequest(PathSymbols, params)
	case core.OpGetTicker:
		return p.buildSymbolRequest(PathTickers, params)
	case core.OpIsConnected:
		return core.NewRequest(http.MethodGet, PathAssets), nil
	case core.OpGetAccountInfo:
		return core.NewRequest(http.MethodGet, PathAccountInfo), nil
	case core.OpGetBalance:
		return p.buildGetBalanceRequest(params)
	case core.OpPostWithdrawal:
		return p.buildPostWithdrawalRequest(params)
	case core.OpGetWithdrawalRecords:
		return p.buildGetWithdrawalRecordsRequest(params)
	case core.OpGetSubAccounts:
		return p.buildPagedRequest(PathVirtualSubAccounts, params), nil
	case core.OpGetSubAccountBalance:
		return p.buildPagedRequest(PathSubAccountAssets, params), nil
	case core.OpTransferToMain:
		return p.buildTransferRequest(params)
	default:
		return nil, fmt.Errorf("unsupported operation: %s", op)
	}
}

func (p *Protocol) buildGetCoinInfoRequest(params core.Params) (*core.Request, error) {
	coin, err := getRequiredStringParam(params, "coin")
	if err != nil {
		return nil, err
	}
	return core.NewRequest(http.MethodGet, PathCoins).SetQuery("coin", coin), nil
}

func (p *Protocol) buildSymbolRequest(path string, params core.Params) (*core.Request, error) {
	symbol, err := getRequiredStringParam(params, "symbol")
	if err != nil {
		return nil, err
	}
	return core.NewRequest(http.MethodGet, path).SetQuery("symbol", symbol), nil
}

func (p *Protocol) buildGetBalanceRequest(params core.Params) (*core.Request, error) {
	req := core.NewRequest(http.MethodGet, PathAssets)
	if coin := getStringParamWithDefault(params, "coin", ""); coin != "" {
		req.SetQuery("coin", coin)
	}
	return req, nil
}

// withdrawalBody is the POST body of a withdrawal. Field order is the wire order.
type withdrawalBody struct {
	Coin         string `json:"coin"`
	TransferType string `json:"transferType"`
	Address      string `json:"address"`
	Chain        string `json:"chain"`
	Tag          string `json:"tag,omitempty"`
	Size         string `json:"size"`
	ClientOid    string `json:"clientOid,omitempty"`
}

func (p *Protocol) buildPostWithdrawalRequest(params core.Params) (*core.Request, error) {
	body := withdrawalBody{TransferType: "on_chain"}
	var err error
	if body.Coin, err = getRequiredStringParam(params, "coin"); err != nil {
		return nil, err
	}
	if body.Address, err = getRequiredStringParam(params, "address"); err != nil {
		return nil, err
	}
	if body.Chain, err = getRequiredStringParam(params, "chain"); err != nil {
		return nil, err
	}
	if body.Size, err = getRequiredStringParam(params, "size"); err != nil {
		return nil, err
	}
	body.Tag = getStringParamWithDefault(params, "tag", "")
	body.ClientOid = getStringParamWithDefault(params, "clientOid", "")

	return core.NewRequest(http.MethodPost, PathWithdrawal).SetBody(body), nil
}

func (p *Protocol) buildGetWithdrawalRecordsRequest(params core.Params) (*core.Request, error) {
	start, err := getRequiredIntParam(params, "startTime")
	if err != nil {
		return nil, err
	}
	end, err := getRequiredIntParam(params, "endTime")
	if err != nil {
		return nil, err
	}
	if end < start {
		return nil, fmt.Errorf("endTime %d is before startTime %d", end, start)
	}

	req := core.NewRequest(http.MethodGet, PathWithdrawalRecords)
	req.SetQuery("startTime", strconv.FormatInt(start, 10))
	req.SetQuery("endTime", strconv.FormatInt(end, 10))
	for _, key := range []string{"coin", "orderId", "clientOid", "idLessThan"} {
		if v := getStringParamWithDefault(params, key, ""); v != "" {
			req.SetQuery(key, v)
		}
	}
	if limit := getIntParamWithDefault(params, "limit", 0); limit > 0 {
		req.SetQuery("limit", strconv.Itoa(limit))
	}
	return req, nil
}

func (p *Protocol) buildPagedRequest(path string, params core.Params) *core.Request {
	req := core.NewRequest(http.MethodGet, path)
	if id := getStringParamWithDefault(params, "idLessThan", ""); id != "" {
		req.SetQuery("idLessThan", id)
	}
	if limit := getIntParamWithDefault(params, "limit", 0); limit > 0 {
		req.SetQuery("limit", strconv.Itoa(limit))
	}
	return req
}

// transferBody is the POST body of a sub-account transfer. Field order is the wire order.
type transferBody struct {
	FromType   string `json:"fromType"`
	ToType     string `json:"toType"`
	Amount     string `json:"amount"`
	Coin       string `json:"coin"`
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId"`
	ClientOid  string `json:"clientOid,omitempty"`
}

func (p *Protocol) buildTransferRequest(params core.Params) (*core.Request, error) {
	body := transferBody{FromType: "spot", ToType: "spot"}
	var err error
	if body.Amount, err = getRequiredStringParam(params, "amount"); err != nil {
		return nil, err
	}
	if body.Coin, err = getRequiredStringParam(params, "coin"); err != nil {
		return nil, err
	}
	if body.FromUserID, err = getRequiredStringParam(params, "fromUserId"); err != nil {
		return nil, err
	}
	if body.ToUserID, err = getRequiredStringParam(params, "toUserId"); err != nil {
		return nil, err
	}
	body.ClientOid = getStringParamWithDefault(params, "clientOid", "")

	return core.NewRequest(http.MethodPost, PathSubAccountTransfer).SetBody(body), nil
}

func getRequiredStringParam(params core.Params, key string) (string, error) {
	val, ok := params[key]
	if !ok {
		return "", fmt.Errorf("missing required parameter: %s", key)
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("parameter %s must be a string", key)
	}

	if str == "" {
		return "", fmt.Errorf("parameter %s cannot be empty", key)
	}

	return str, nil
}

func getStringParamWithDefault(params core.Params, key, def string) string {
	if val, ok := params[key]; ok {
		if str, ok := val.(string); ok && str != "" {
			return str
		}
	}
	return def
}

func getRequiredIntParam(params core.Params, key string) (int64, error) {
	val, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("missing required parameter: %s", key)
	}
	switch v := val.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parameter %s: %w", key, err)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("parameter %s must be an integer", key)
	}
}

func getIntParamWithDefault(params core.Params, key string, def int) int {
	if val, ok := params[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case string:
			if i, err := strconv.Atoi(v); err == nil {
				return i
			}
		}
	}
	return def
}
