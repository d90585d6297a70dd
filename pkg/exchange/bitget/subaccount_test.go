package bitget

import (
	"context"
	"net/http"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitgetx/pkg/core"
	"bitgetx/pkg/exchange"
)

const subAccountAssetsData = `[
	{
		"userId": 2000000001,
		"assetsList": [
			{"coin":"USDT","available":"10.5","frozen":"0","locked":"0","uTime":"1700000000000"},
			{"coin":"ETH","available":"0.02","frozen":"0","locked":"0","uTime":"1700000000000"}
		]
	},
	{
		"userId": 2000000002,
		"assetsList": []
	}
]`

func TestClient_GetSubAccounts(t *testing.T) {
	f := newFakeBitget(t).on(PathVirtualSubAccounts, `{
		"subAccountList": [
			{"subAccountUid":"2000000001","subAccountName":"sweep01@virtual-bitget.com","status":"normal","label":"a"},
			{"subAccountUid":2000000002,"subAccountName":"sweep02@virtual-bitget.com","status":"freeze","label":"b"}
		],
		"endId": "2000000002"
	}`)
	c := f.client(core.ModeBlocking)

	accounts, err := c.GetSubAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.SubAccount{
		{UID: "2000000001", Name: "sweep01@virtual-bitget.com", Status: "normal"},
		{UID: "2000000002", Name: "sweep02@virtual-bitget.com", Status: "freeze"},
	}, accounts)
}

func TestClient_GetSubAccounts_Empty(t *testing.T) {
	f := newFakeBitget(t).on(PathVirtualSubAccounts, `{"subAccountList":[],"endId":""}`)
	c := f.client(core.ModeBlocking)

	_, err := c.GetSubAccounts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEmptySubAccounts)
	assert.True(t, core.IsProtocolError(err))
	assert.Equal(t, "get_sub_accounts: empty sub-accounts list", err.Error())
}

func TestClient_GetSubAccountBalance(t *testing.T) {
	f := newFakeBitget(t).on(PathSubAccountAssets, subAccountAssetsData)
	c := f.client(core.ModeBlocking)
	ctx := context.Background()

	t.Run("all_assets", func(t *testing.T) {
		balances, err := c.GetSubAccountBalance(ctx, "2000000001")
		require.NoError(t, err)
		require.Len(t, balances, 2)
		assert.Equal(t, "USDT", balances[0].Coin)
		assert.Equal(t, "10.5", balances[0].Available.String())
	})

	t.Run("one_coin", func(t *testing.T) {
		balances, err := c.GetSubAccountBalance(ctx, "2000000001", exchange.WithCoin("ETH"))
		require.NoError(t, err)
		require.Len(t, balances, 1)
		assert.Equal(t, "0.02", balances[0].Available.String())
	})

	t.Run("no_such_asset", func(t *testing.T) {
		_, err := c.GetSubAccountBalance(ctx, "2000000002", exchange.WithCoin("ETH"))
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrNoSuchAsset)
		assert.True(t, core.IsProtocolError(err))
	})

	t.Run("no_such_sub_account", func(t *testing.T) {
		_, err := c.GetSubAccountBalance(ctx, "3000000000")
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrNoSuchSubAccount)
		assert.True(t, core.IsProtocolError(err))
	})

	t.Run("empty_uid", func(t *testing.T) {
		_, err := c.GetSubAccountBalance(ctx, "")
		require.Error(t, err)
		assert.True(t, core.IsConfigError(err))
	})
}

func TestClient_TransferToMain(t *testing.T) {
	f := newFakeBitget(t).
		on(PathAccountInfo, accountInfoData).
		on(PathSubAccountTransfer, `{"transferId":"7777","clientOid":"x"}`)
	c := f.client(core.ModeBlocking)

	id, err := c.TransferToMain(context.Background(), "2000000001", "USDT", mustDecimal(t, "10.5"))
	require.NoError(t, err)
	assert.Equal(t, "7777", id)

	req := f.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, PathSubAccountTransfer, req.Path)

	var body map[string]string
	require.NoError(t, sonic.Unmarshal([]byte(req.Body), &body))
	assert.Equal(t, "spot", body["fromType"])
	assert.Equal(t, "spot", body["toType"])
	assert.Equal(t, "10.5", body["amount"])
	assert.Equal(t, "USDT", body["coin"])
	assert.Equal(t, "2000000001", body["fromUserId"])
	assert.Equal(t, "1000000001", body["toUserId"])
	_, err = uuid.Parse(body["clientOid"])
	assert.NoError(t, err)
}

func TestClient_TransferToMain_AccountInfoFails(t *testing.T) {
	f := newFakeBitget(t).
		onRaw(PathAccountInfo, http.StatusTooManyRequests, `{"code":"429","msg":"Too Many Requests"}`).
		on(PathSubAccountTransfer, `{"transferId":"7777"}`)
	c := f.client(core.ModeBlocking)

	_, err := c.TransferToMain(context.Background(), "2000000001", "USDT", mustDecimal(t, "1"))
	require.Error(t, err)
	assert.Equal(t, "transfer_to_main: get_main_uid: get_account_info: Too Many Requests", err.Error())
	assert.True(t, core.IsErrorCode(err, core.CodeRateLimit))

	for _, req := range f.requests() {
		assert.NotEqual(t, PathSubAccountTransfer, req.Path)
	}
}

func TestClient_TransferToMain_InvalidInput(t *testing.T) {
	f := newFakeBitget(t).on(PathAccountInfo, accountInfoData)
	c := f.client(core.ModeBlocking)
	ctx := context.Background()

	_, err := c.TransferToMain(ctx, "2000000001", "USDT", mustDecimal(t, "0"))
	assert.True(t, core.IsConfigError(err))

	_, err = c.TransferToMain(ctx, "", "USDT", mustDecimal(t, "1"))
	assert.ErrorIs(t, err, core.ErrInvalidRequest)

	_, err = c.TransferToMain(ctx, "2000000001", "", mustDecimal(t, "1"))
	assert.ErrorIs(t, err, core.ErrInvalidRequest)
}
