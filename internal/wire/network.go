// Package wire implements the compact binary codec that replaces the
// ~1200-byte x402 JSON payment representation with the 30/108-byte records
// the acoustic modem can carry.
package wire

// Network identifies one of the settlement chains this codec knows about.
// It is the wire representation (1 byte); see NetworkInfo for the
// out-of-band metadata (chain ID, stablecoin address) each one carries.
type Network uint8

const (
	NetworkBaseSepolia       Network = 0
	NetworkBase              Network = 1
	NetworkEthereum          Network = 2
	NetworkEthereumSepolia   Network = 3
	defaultNetwork                   = NetworkBaseSepolia
)

// NetworkInfo is the process-wide, immutable metadata for one network:
// its wire name, EIP-155 chain ID, and canonical stablecoin asset address.
// The asset address is never transmitted on the wire — the decoder derives
// it from the network ID using this table.
type NetworkInfo struct {
	Name        string
	ChainID     int64
	USDCAddress string
}

// networkTable is the closed mapping the spec calls out: network name to
// 1-byte ID, plus the settlement metadata each one implies. Never mutated
// after init.
var networkTable = map[Network]NetworkInfo{
	NetworkBaseSepolia: {
		Name:        "base-sepolia",
		ChainID:     84532,
		USDCAddress: "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
	},
	NetworkBase: {
		Name:        "base",
		ChainID:     8453,
		USDCAddress: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
	},
	NetworkEthereum: {
		Name:        "ethereum",
		ChainID:     1,
		USDCAddress: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
	},
	NetworkEthereumSepolia: {
		Name:        "ethereum-sepolia",
		ChainID:     11155111,
		USDCAddress: "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238",
	},
}

var networkByName = func() map[string]Network {
	m := make(map[string]Network, len(networkTable))
	for id, info := range networkTable {
		m[info.Name] = id
	}
	return m
}()

// Info returns the metadata for n, or base-sepolia's if n is not a known
// network ID — the same fallback the wire decoder applies.
func (n Network) Info() NetworkInfo {
	if info, ok := networkTable[n]; ok {
		return info
	}
	return networkTable[defaultNetwork]
}

// String returns the network's canonical name (e.g. "base-sepolia").
func (n Network) String() string {
	return n.Info().Name
}

// NetworkByName looks up a network by its canonical name. The bool result
// is false for unknown names; callers that need the spec's "unknown
// network decodes to the default" behavior should use defaultNetwork
// directly rather than this lookup, which is for parsing external input.
func NetworkByName(name string) (Network, bool) {
	n, ok := networkByName[name]
	return n, ok
}

// normalizeNetwork maps an arbitrary decoded byte to a known Network,
// falling back to the default network for anything outside the table —
// the "unknown IDs decode back to the default" rule from the data model.
func normalizeNetwork(raw uint8) Network {
	n := Network(raw)
	if _, ok := networkTable[n]; ok {
		return n
	}
	return defaultNetwork
}
