package bitget

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bitgetx/pkg/core"
	"bitgetx/pkg/exchange"
)

// DefaultRecordWindow is the lookback of GetWithdrawalRecords without WithTimeRange.
const DefaultRecordWindow = 24 * time.Hour

// PostWithdrawal submits an on-chain withdrawal. The ticket's StartTime is taken
// before the request is sent so that CheckWithdrawal's window always covers the
// record. A ClientOID is generated when the request has none.
func (c *Client) PostWithdrawal(ctx context.Context, wr *core.WithdrawalRequest) (*core.WithdrawalTicket, error) {
	if wr == nil {
		return nil, core.NewError(core.OpPostWithdrawal, core.KindConfig, fmt.Errorf("%w: nil withdrawal request", core.ErrInvalidRequest))
	}
	if err := wr.Validate(); err != nil {
		return nil, core.NewError(core.OpPostWithdrawal, core.KindConfig, err)
	}

	clientOID := wr.ClientOID
	if clientOID == "" {
		clientOID = uuid.NewString()
	}

	req, err := c.build(core.OpPostWithdrawal, core.Params{
		"coin":      wr.Coin,
		"address":   wr.Address,
		"chain":     c.chains.Resolve(wr.Chain),
		"size":      wr.Amount.Text('f'),
		"tag":       wr.Tag,
		"clientOid": clientOID,
	})
	if err != nil {
		return nil, err
	}

	start := c.now()
	return fetch(ctx, c, core.OpPostWithdrawal, req, decodeData[bitgetWithdrawalResult],
		func(raw *bitgetWithdrawalResult) (*core.WithdrawalTicket, error) {
			if raw.OrderID == nil || *raw.OrderID == "" {
				return nil, fmt.Errorf("%w: orderId", core.ErrMissingField)
			}
			return &core.WithdrawalTicket{
				StartTime: start,
				OrderID:   string(*raw.OrderID),
				ClientOID: clientOID,
			}, nil
		})
}

// GetWithdrawalRecords lists withdrawals created within a time range, the last
// DefaultRecordWindow unless WithTimeRange is given. WithCoin, WithOrderID,
// WithClientOID, WithIDLessThan and WithLimit narrow the query.
func (c *Client) GetWithdrawalRecords(ctx context.Context, opts ...exchange.Option) ([]core.WithdrawalRecord, error) {
	options := exchange.ApplyOptions(opts...)

	window := options.Range
	if window.End.IsZero() {
		window.End = c.now()
	}
	if window.Start.IsZero() {
		window.Start = window.End.Add(-DefaultRecordWindow)
	}

	req, err := c.build(core.OpGetWithdrawalRecords, core.Params{
		"startTime":  window.Start.UnixMilli(),
		"endTime":    window.End.UnixMilli(),
		"coin":       options.Coin,
		"orderId":    options.OrderID,
		"clientOid":  options.ClientOID,
		"idLessThan": options.IDLessThan,
		"limit":      options.Limit,
	})
	if err != nil {
		return nil, err
	}
	return fetch(ctx, c, core.OpGetWithdrawalRecords, req, decodeData[[]bitgetWithdrawalRecord],
		func(raw *[]bitgetWithdrawalRecord) ([]core.WithdrawalRecord, error) {
			return c.normalizer.NormalizeWithdrawalRecords(*raw)
		})
}

// CheckWithdrawal reports whether the withdrawal orderID, submitted at start, has
// completed. A pending withdrawal reports false; any status other than pending or
// success is an error wrapping core.ErrWrongStatus.
func (c *Client) CheckWithdrawal(ctx context.Context, start time.Time, orderID string) (bool, error) {
	if orderID == "" {
		return false, core.NewError(core.OpCheckWithdrawal, core.KindConfig, fmt.Errorf("%w: empty order id", core.ErrInvalidRequest))
	}

	records, err := c.GetWithdrawalRecords(ctx,
		exchange.WithTimeRange(start, c.now()),
		exchange.WithOrderID(orderID),
	)
	if err != nil {
		return false, core.Wrap(core.OpCheckWithdrawal, err)
	}

	for _, r := range records {
		if r.OrderID != orderID {
			continue
		}
		done, err := r.Status.Completed()
		if err != nil {
			return false, core.NewError(core.OpCheckWithdrawal, core.KindProtocol, err)
		}
		return done, nil
	}
	return false, core.NewError(core.OpCheckWithdrawal, core.KindProtocol,
		fmt.Errorf("%w: no record of order %s", core.ErrEmptyData, orderID))
}
