package bitget

import (
	"context"
	"fmt"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"

	"bitgetx/pkg/core"
	"bitgetx/pkg/exchange"
)

// GetSubAccounts lists the virtual sub-accounts of the main account. An account
// without sub-accounts is an error wrapping core.ErrEmptySubAccounts.
func (c *Client) GetSubAccounts(ctx context.Context) ([]core.SubAccount, error) {
	req, err := c.build(core.OpGetSubAccounts, nil)
	if err != nil {
		return nil, err
	}
	return fetch(ctx, c, core.OpGetSubAccounts, req, decodeData[bitgetSubAccountList],
		func(raw *bitgetSubAccountList) ([]core.SubAccount, error) {
			accounts, err := c.normalizer.NormalizeSubAccounts(raw)
			if err != nil {
				return nil, err
			}
			if len(accounts) == 0 {
				return nil, core.ErrEmptySubAccounts
			}
			return accounts, nil
		})
}

// GetSubAccountBalance returns the spot balances of sub-account uid. With WithCoin
// only that coin's balance is returned.
func (c *Client) GetSubAccountBalance(ctx context.Context, uid string, opts ...exchange.Option) ([]core.Balance, error) {
	if uid == "" {
		return nil, core.NewError(core.OpGetSubAccountBalance, core.KindConfig, fmt.Errorf("%w: empty sub-account id", core.ErrInvalidRequest))
	}
	options := exchange.ApplyOptions(opts...)

	req, err := c.build(core.OpGetSubAccountBalance, core.Params{
		"idLessThan": options.IDLessThan,
		"limit":      options.Limit,
	})
	if err != nil {
		return nil, err
	}
	return fetch(ctx, c, core.OpGetSubAccountBalance, req, decodeData[[]bitgetSubAccountAssets],
		func(raw *[]bitgetSubAccountAssets) ([]core.Balance, error) {
			assets, err := c.findSubAccount(*raw, uid)
			if err != nil {
				return nil, err
			}
			if options.Coin == "" {
				return assets.Balances, nil
			}
			b, ok := assets.Balance(options.Coin)
			if !ok {
				return nil, fmt.Errorf("%w: %s in sub-account %s", core.ErrNoSuchAsset, options.Coin, uid)
			}
			return []core.Balance{b}, nil
		})
}

func (c *Client) findSubAccount(list []bitgetSubAccountAssets, uid string) (*core.SubAccountAssets, error) {
	for i := range list {
		if list[i].UserID == nil {
			return nil, fmt.Errorf("[%d]: %w: userId", i, core.ErrMissingField)
		}
		if string(*list[i].UserID) == uid {
			return c.normalizer.NormalizeSubAccountAssets(&list[i])
		}
	}
	return nil, fmt.Errorf("%w: %s", core.ErrNoSuchSubAccount, uid)
}

// TransferToMain moves amount of coin from sub-account uid to the main account and
// returns the transfer id.
func (c *Client) TransferToMain(ctx context.Context, uid, coin string, amount apd.Decimal) (string, error) {
	if uid == "" || coin == "" {
		return "", core.NewError(core.OpTransferToMain, core.KindConfig,
			fmt.Errorf("%w: sub-account id and coin are required", core.ErrInvalidRequest))
	}
	if amount.Sign() <= 0 {
		return "", core.NewError(core.OpTransferToMain, core.KindConfig,
			fmt.Errorf("%w: amount must be positive, got %s", core.ErrInvalidRequest, amount.Text('f')))
	}

	mainUID, err := c.GetMainUID(ctx)
	if err != nil {
		return "", core.Wrap(core.OpTransferToMain, err)
	}

	req, err := c.build(core.OpTransferToMain, core.Params{
		"amount":     amount.Text('f'),
		"coin":       coin,
		"fromUserId": uid,
		"toUserId":   mainUID,
		"clientOid":  uuid.NewString(),
	})
	if err != nil {
		return "", err
	}
	return fetch(ctx, c, core.OpTransferToMain, req, decodeData[bitgetTransferResult],
		func(raw *bitgetTransferResult) (string, error) {
			if raw.TransferID == nil || *raw.TransferID == "" {
				return "", fmt.Errorf("%w: transferId", core.ErrMissingField)
			}
			return string(*raw.TransferID), nil
		})
}
