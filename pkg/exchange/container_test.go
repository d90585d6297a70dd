package exchange

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExchange implements only what the container touches; any other call panics.
type mockExchange struct {
	Exchange
	name     string
	closed   bool
	closeErr error
}

func (m *mockExchange) Name() string { return m.name }
func (m *mockExchange) Close() error {
	m.closed = true
	return m.closeErr
}

func TestContainer_NewContainer(t *testing.T) {
	c := NewContainer()
	assert.NotNil(t, c)
	assert.Empty(t, c.Names())
}

func TestContainer_Register(t *testing.T) {
	c := NewContainer()
	first := &mockExchange{name: "main"}

	assert.Nil(t, c.Register("main", first))
	assert.True(t, c.Exists("main"))

	second := &mockExchange{name: "main-2"}
	replaced := c.Register("main", second)
	assert.Same(t, first, replaced)

	got, err := c.Get("main")
	require.NoError(t, err)
	assert.Equal(t, "main-2", got.Name())
}

func TestContainer_Get(t *testing.T) {
	c := NewContainer()
	c.Register("main", &mockExchange{name: "main"})

	got, err := c.Get("main")
	require.NoError(t, err)
	assert.Equal(t, "main", got.Name())

	_, err = c.Get("notfound")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.ErrorContains(t, err, `"notfound"`)
}

func TestContainer_NamesSorted(t *testing.T) {
	c := NewContainer()
	c.Register("treasury", &mockExchange{name: "treasury"})
	c.Register("alpha", &mockExchange{name: "alpha"})
	c.Register("main", &mockExchange{name: "main"})

	assert.Equal(t, []string{"alpha", "main", "treasury"}, c.Names())
}

func TestContainer_Unregister(t *testing.T) {
	c := NewContainer()
	ex := &mockExchange{name: "main"}
	c.Register("main", ex)

	assert.Same(t, ex, c.Unregister("main"))
	assert.False(t, c.Exists("main"))
	assert.Nil(t, c.Unregister("main"))
}

func TestContainer_Close(t *testing.T) {
	c := NewContainer()
	ok := &mockExchange{name: "ok"}
	failing := &mockExchange{name: "failing", closeErr: errors.New("boom")}
	c.Register("ok", ok)
	c.Register("failing", failing)

	err := c.Close()

	assert.ErrorContains(t, err, "close failing: boom")
	assert.True(t, ok.closed)
	assert.True(t, failing.closed)
	assert.Empty(t, c.Names())
}

func TestApplyOptions(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		opts := ApplyOptions()
		assert.Equal(t, 0, opts.Limit)
		assert.Empty(t, opts.Coin)
		assert.True(t, opts.Range.IsZero())
	})

	t.Run("with all options", func(t *testing.T) {
		start := time.UnixMilli(1700000000000)
		end := start.Add(time.Hour)

		opts := ApplyOptions(
			WithCoin("ETH"),
			WithOrderID("1122334455"),
			WithClientOID("c-1"),
			WithLimit(100),
			WithIDLessThan("99"),
			WithTimeRange(start, end),
		)
		assert.Equal(t, "ETH", opts.Coin)
		assert.Equal(t, "1122334455", opts.OrderID)
		assert.Equal(t, "c-1", opts.ClientOID)
		assert.Equal(t, 100, opts.Limit)
		assert.Equal(t, "99", opts.IDLessThan)
		assert.Equal(t, start, opts.Range.Start)
		assert.Equal(t, end, opts.Range.End)
		assert.False(t, opts.Range.IsZero())
	})

	t.Run("later option wins", func(t *testing.T) {
		opts := ApplyOptions(WithCoin("ETH"), WithCoin("BTC"))
		assert.Equal(t, "BTC", opts.Coin)
	})
}
