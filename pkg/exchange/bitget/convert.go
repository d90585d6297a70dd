package bitget

import (
	"context"
	"fmt"

	"github.com/cockroachdb/apd/v3"

	"bitgetx/pkg/core"
)

// ConvertUSDToNative converts a USD amount into coin at the current price, rounded
// half-even to the number of decimals chain accepts for withdrawals.
func (c *Client) ConvertUSDToNative(ctx context.Context, usd apd.Decimal, coin, chain string) (apd.Decimal, error) {
	price, err := c.GetPrice(ctx, coin)
	if err != nil {
		return apd.Decimal{}, core.Wrap(core.OpConvertUSDToNative, err)
	}
	info, err := c.GetChainInfo(ctx, coin, chain)
	if err != nil {
		return apd.Decimal{}, core.Wrap(core.OpConvertUSDToNative, err)
	}
	return divide(core.OpConvertUSDToNative, &usd, &price, info.WithdrawMinScale)
}

// ConvertUSDToQuantity converts a USD amount into a spot order quantity of coin,
// rounded half-even to the symbol's quantity precision.
func (c *Client) ConvertUSDToQuantity(ctx context.Context, usd apd.Decimal, coin string) (apd.Decimal, error) {
	price, err := c.GetPrice(ctx, coin)
	if err != nil {
		return apd.Decimal{}, core.Wrap(core.OpConvertUSDToQuantity, err)
	}
	precision, err := c.GetQuantityPrecision(ctx, coin)
	if err != nil {
		return apd.Decimal{}, core.Wrap(core.OpConvertUSDToQuantity, err)
	}
	return divide(core.OpConvertUSDToQuantity, &usd, &price, precision)
}

// divide returns amount/price with scale decimal places.
func divide(op core.Operation, amount, price *apd.Decimal, scale int32) (apd.Decimal, error) {
	if price.IsZero() {
		return apd.Decimal{}, core.NewError(op, core.KindProtocol, fmt.Errorf("%w: price is zero", core.ErrInvalidField))
	}

	ctx := apd.BaseContext.WithPrecision(34)
	ctx.Rounding = apd.RoundHalfEven

	var quo, out apd.Decimal
	if _, err := ctx.Quo(&quo, amount, price); err != nil {
		return apd.Decimal{}, core.NewError(op, core.KindProtocol, fmt.Errorf("divide %s by %s: %w", amount, price, err))
	}
	if _, err := ctx.Quantize(&out, &quo, -scale); err != nil {
		return apd.Decimal{}, core.NewError(op, core.KindProtocol, fmt.Errorf("round to %d places: %w", scale, err))
	}
	return out, nil
}
