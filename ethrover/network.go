package ethrover

import (
	"github.com/chainrover/rover/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
)

// NetworkParams is the per-network identity a Session's STATUS handshake
// and fork probe are pinned to.
type NetworkParams struct {
	NetworkID   uint64
	GenesisHash common.Hash
	BootNodes   []string
}

// mainnetBootNodes and ropstenBootNodes are the chain-provided default
// boot nodes; operator-configured alt-boot nodes are appended on top.
var (
	mainnetBootNodes = params.MainnetBootnodes
	ropstenBootNodes = params.RopstenBootnodes
)

// ResolveNetwork honors config.Network instead of the unconditional
// mainnet selection the source always made regardless of BC_NETWORK.
func ResolveNetwork(n config.Network) NetworkParams {
	if n == config.NetworkTest {
		return NetworkParams{
			NetworkID:   3,
			GenesisHash: params.RopstenGenesisHash,
			BootNodes:   ropstenBootNodes,
		}
	}

	return NetworkParams{
		NetworkID:   1,
		GenesisHash: params.MainnetGenesisHash,
		BootNodes:   mainnetBootNodes,
	}
}
