package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitgetx/pkg/core"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"success", nil, "success"},
		{"transport", core.NewError(core.OpGetTicker, core.KindTransport, core.ErrNonJSONResponse), "transport"},
		{"exchange", core.NewExchangeError(core.OpGetTicker, 400, "40034", "bad"), "exchange"},
		{"protocol", core.NewError(core.OpGetChainInfo, core.KindProtocol, core.ErrNoSuchChain), "protocol"},
		{"plain", errors.New("x"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Outcome(tt.err))
		})
	}
}

func TestCollector_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	c.Observe(core.OpGetPrice, nil, 10*time.Millisecond)
	c.Observe(core.OpGetPrice, nil, 20*time.Millisecond)
	c.Observe(core.OpGetPrice, core.NewExchangeError(core.OpGetPrice, 400, "", "bad"), time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Requests.WithLabelValues("get_price", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Requests.WithLabelValues("get_price", "exchange")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.Duration))
}

func TestCollector_Start(t *testing.T) {
	c, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	done := c.Start(core.OpIsConnected)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.InFlight))

	done(nil)
	assert.Equal(t, 0.0, testutil.ToFloat64(c.InFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Requests.WithLabelValues("is_connected", "success")))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.Observe(core.OpGetPrice, nil, time.Second)
		c.Start(core.OpGetPrice)(errors.New("x"))
	})
}

func TestNew_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := New(reg)
	require.NoError(t, err)
	second, err := New(reg)
	require.NoError(t, err)

	first.Observe(core.OpGetBalance, nil, time.Millisecond)
	second.Observe(core.OpGetBalance, nil, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(first.Requests.WithLabelValues("get_balance", "success")))
}

func TestNew_WithoutRegistry(t *testing.T) {
	c, err := New(nil)
	require.NoError(t, err)

	c.Observe(core.OpGetBalance, nil, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Requests.WithLabelValues("get_balance", "success")))
}
