package core

// Operation represents a catalog action that can be performed on the exchange.
// Its string form prefixes every failure message.
type Operation int

// Operation constants define all supported exchange operations.
const (
	// OpGetCoinInfo retrieves a coin and its chains.
	OpGetCoinInfo Operation = iota
	// OpGetChainInfo selects one chain of a coin.
	OpGetChainInfo
	// OpGetSymbolInfo retrieves spot symbol configuration.
	OpGetSymbolInfo
	// OpGetQuantityPrecision reads the quantity precision of a spot symbol.
	OpGetQuantityPrecision
	// OpGetTicker retrieves the spot ticker of a symbol.
	OpGetTicker
	// OpGetPrice reads the last traded price of a symbol.
	OpGetPrice
	// OpIsConnected checks that the credentials are accepted.
	OpIsConnected
	// OpGetAccountInfo retrieves main account information.
	OpGetAccountInfo
	// OpGetMainUID reads the main account user id.
	OpGetMainUID
	// OpGetBalance retrieves spot balances.
	OpGetBalance
	// OpConvertUSDToNative converts a USD amount into a chain's native amount.
	OpConvertUSDToNative
	// OpConvertUSDToQuantity converts a USD amount into a spot order quantity.
	OpConvertUSDToQuantity
	// OpPostWithdrawal submits an on-chain withdrawal.
	OpPostWithdrawal
	// OpGetWithdrawalRecords retrieves withdrawal records.
	OpGetWithdrawalRecords
	// OpCheckWithdrawal reports whether a withdrawal completed.
	OpCheckWithdrawal
	// OpGetSubAccounts lists virtual sub-accounts.
	OpGetSubAccounts
	// OpGetSubAccountBalance retrieves the balances of one sub-account.
	OpGetSubAccountBalance
	// OpTransferToMain moves funds from a sub-account to the main account.
	OpTransferToMain
	// OpNewClient labels failures while constructing a client. It never reaches the wire.
	OpNewClient
)

var operationNames = [...]string{
	"get_coin_info",
	"get_chain_info",
	"get_symbol_info",
	"get_quantity_precision",
	"get_ticker",
	"get_price",
	"is_connected",
	"get_account_info",
	"get_main_uid",
	"get_balance",
	"convert_usd_to_native",
	"convert_usd_to_quantity",
	"post_withdrawal",
	"get_withdrawal_records",
	"check_withdrawal",
	"get_sub_accounts",
	"get_sub_account_balance",
	"transfer_to_main",
	"new_client",
}

// String returns the snake_case name of the operation.
func (o Operation) String() string {
	if o < 0 || int(o) >= len(operationNames) {
		return "unknown_operation"
	}
	return operationNames[o]
}
