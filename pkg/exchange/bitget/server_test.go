package bitget

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bitgetx/pkg/core"
)

const (
	testKey        = "test-key"
	testSecret     = "test-secret"
	testPassphrase = "test-pass"
	testMillis     = 1700000000000
)

var testNow = time.UnixMilli(testMillis)

// recorded is one request as the server received it.
type recorded struct {
	Method  string
	Path    string
	Query   string
	Body    string
	Headers http.Header
}

// reply is a canned response.
type reply struct {
	status int
	body   string
}

// fakeBitget verifies the signature of every request it receives and answers from a
// table of canned replies keyed by path.
type fakeBitget struct {
	t      *testing.T
	srv    *httptest.Server
	mu     sync.Mutex
	routes map[string]reply
	calls  []recorded
}

func newFakeBitget(t *testing.T) *fakeBitget {
	t.Helper()
	f := &fakeBitget{t: t, routes: make(map[string]reply)}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeBitget) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	payload := ""
	if r.URL.RawQuery != "" {
		payload = "?" + r.URL.RawQuery
	}
	if len(body) > 0 {
		payload = string(body)
	}

	f.mu.Lock()
	f.calls = append(f.calls, recorded{
		Method:  r.Method,
		Path:    r.URL.Path,
		Query:   r.URL.RawQuery,
		Body:    string(body),
		Headers: r.Header.Clone(),
	})
	rep, ok := f.routes[r.URL.Path]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	ts := r.Header.Get(HeaderAccessTimestamp)
	want := computeSignature([]byte(testSecret), ts+r.Method+r.URL.Path+payload)
	if r.Header.Get(HeaderAccessSign) != want || r.Header.Get(HeaderAccessKey) != testKey ||
		r.Header.Get(HeaderAccessPassphrase) != testPassphrase {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":"40009","msg":"sign signature error","requestTime":1700000000000,"data":null}`)
		return
	}

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code":"40404","msg":"Request URL NOT FOUND","requestTime":1700000000000,"data":null}`)
		return
	}
	w.WriteHeader(rep.status)
	_, _ = io.WriteString(w, rep.body)
}

// on answers path with data wrapped in a success envelope.
func (f *fakeBitget) on(path, data string) *fakeBitget {
	return f.onRaw(path, http.StatusOK, okBody(data))
}

// onRaw answers path with status and body as given.
func (f *fakeBitget) onRaw(path string, status int, body string) *fakeBitget {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[path] = reply{status: status, body: body}
	return f
}

func (f *fakeBitget) requests() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recorded(nil), f.calls...)
}

func (f *fakeBitget) last() recorded {
	f.t.Helper()
	calls := f.requests()
	require.NotEmpty(f.t, calls, "no request reached the server")
	return calls[len(calls)-1]
}

func (f *fakeBitget) config(mode core.Mode) *core.Config {
	return core.DefaultConfig(&core.Credentials{
		APIKey:     testKey,
		SecretKey:  testSecret,
		Passphrase: testPassphrase,
	}).
		WithBaseURL(f.srv.URL).
		WithMode(mode).
		WithRateLimit(0, 0).
		WithTimeout(5 * time.Second)
}

// client builds a client against the fake server with a frozen clock.
func (f *fakeBitget) client(mode core.Mode, opts ...Option) *Client {
	f.t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	c, err := New(f.config(mode), opts...)
	require.NoError(f.t, err)
	f.t.Cleanup(func() { _ = c.Close() })
	return c
}

func okBody(data string) string {
	return `{"code":"00000","msg":"success","requestTime":1700000000000,"data":` + data + `}`
}

const ethCoinData = `[{
	"coinId": "2",
	"coin": "ETH",
	"transfer": "true",
	"chains": [
		{
			"chain": "ERC20",
			"needTag": "false",
			"withdrawable": "true",
			"rechargeable": "true",
			"withdrawFee": "0.0012",
			"extraWithdrawFee": "0",
			"depositConfirm": "12",
			"withdrawConfirm": "64",
			"minDepositAmount": "0.001",
			"minWithdrawAmount": "0.01",
			"browserUrl": "https://etherscan.io/tx/",
			"contractAddress": "",
			"withdrawStep": "0",
			"withdrawMinScale": "8",
			"congestion": "normal"
		},
		{
			"chain": "ArbitrumOne",
			"needTag": "false",
			"withdrawable": "true",
			"rechargeable": "true",
			"withdrawFee": "0.0001",
			"extraWithdrawFee": "0",
			"depositConfirm": "12",
			"withdrawConfirm": "12",
			"minDepositAmount": "0.0001",
			"minWithdrawAmount": "0.001",
			"browserUrl": "https://arbiscan.io/tx/",
			"contractAddress": "",
			"withdrawStep": "0",
			"withdrawMinScale": "4",
			"congestion": "normal"
		}
	]
}]`

const ethTickerData = `[{
	"symbol": "ETHUSDT",
	"high24h": "3600.10",
	"open": "3450.00",
	"lastPr": "3500.00",
	"low24h": "3400.55",
	"quoteVolume": "123456789.1",
	"baseVolume": "35000.12",
	"bidPr": "3499.99",
	"askPr": "3500.01",
	"ts": "1700000000000"
}]`

const ethSymbolData = `[{
	"symbol": "ETHUSDT",
	"baseCoin": "ETH",
	"quoteCoin": "USDT",
	"minTradeAmount": "0",
	"maxTradeAmount": "10000000000",
	"minTradeUSDT": "1",
	"pricePrecision": "2",
	"quantityPrecision": "3",
	"status": "online"
}]`

const accountInfoData = `{
	"userId": "1000000001",
	"inviterId": "",
	"channelCode": "",
	"authorities": ["wallet", "transfer"],
	"ips": "",
	"regisTime": "1600000000000"
}`
