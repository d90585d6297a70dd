// Package bitget implements the Exchange interface for Bitget spot accounts over the
// authenticated v2 REST API.
//
// The package includes:
//   - Signer: HMAC-SHA256 request signatures and authentication headers
//   - Protocol: request building per operation
//   - Normalizer: decoding of Bitget response records into canonical types
//   - Client: the endpoint catalog, built on one signed request pipeline
//
// Every request, public or private, is signed. Calls either return their payload or a
// *core.Error naming the failed operation. Nothing is retried.
//
// Example usage:
//
//	client, err := bitget.New(core.DefaultConfig(creds), bitget.WithLogger(logger))
//	price, err := client.GetPrice(ctx, "ETH")
//
// Bitget API Documentation: https://www.bitget.com/api-doc/common/intro
package bitget
