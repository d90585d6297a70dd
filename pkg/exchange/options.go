package exchange

import (
	"time"
)

type Option func(*Options)

type Options struct {
	Coin       string
	OrderID    string
	ClientOID  string
	Limit      int
	IDLessThan string
	Range      TimeRange
}

func WithCoin(coin string) Option {
	return func(o *Options) {
		o.Coin = coin
	}
}

func WithOrderID(orderID string) Option {
	return func(o *Options) {
		o.OrderID = orderID
	}
}

func WithClientOID(clientOID string) Option {
	return func(o *Options) {
		o.ClientOID = clientOID
	}
}

func WithLimit(limit int) Option {
	return func(o *Options) {
		o.Limit = limit
	}
}

// WithIDLessThan pages backwards from the given record id.
func WithIDLessThan(id string) Option {
	return func(o *Options) {
		o.IDLessThan = id
	}
}

func WithTimeRange(start, end time.Time) Option {
	return func(o *Options) {
		o.Range = TimeRange{Start: start, End: end}
	}
}

func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
