package bitget

import "maps"

// ChainTable maps common network names to the chain names Bitget lists for coins.
// A table is read-only once built and is safe for concurrent use.
type ChainTable struct {
	aliases map[string]string
}

// NewChainTable builds a table from aliases. The map is copied.
func NewChainTable(aliases map[string]string) ChainTable {
	return ChainTable{aliases: maps.Clone(aliases)}
}

// DefaultChainTable returns the aliases of the EVM networks Bitget names differently.
func DefaultChainTable() ChainTable {
	return NewChainTable(map[string]string{
		"Arbitrum":  "ArbitrumOne",
		"Avalanche": "C-Chain",
		"Base":      "BASE",
		"BSC":       "BEP20",
		"Fantom":    "Fantom",
		"Optimism":  "Optimism",
		"Polygon":   "Polygon",
		"zkSync":    "zkSyncEra",
	})
}

// Resolve returns the Bitget chain name for name. Unknown names pass through.
func (t ChainTable) Resolve(name string) string {
	if alias, ok := t.aliases[name]; ok {
		return alias
	}
	return name
}

// Aliases returns a copy of the table.
func (t ChainTable) Aliases() map[string]string {
	return maps.Clone(t.aliases)
}
