package workers

import (
	"gobrgbridge/EVMRPC"
	"gobrgbridge/config"
	"gobrgbridge/lzstatus"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// ChainEndpoint is what the poller needs to observe one chain.
type ChainEndpoint struct {
	Client         lzstatus.ChainClient
	BridgeContract common.Address
}

type Chains map[int]ChainEndpoint

// NewChains builds RPC clients for every chain with a deployed bridge contract.
func NewChains(logger *logrus.Logger, chains map[int]config.ChainConfig) Chains {
	out := make(Chains, len(chains))
	for id, chain := range chains {
		if !chain.Deployed() {
			logger.WithField("chain", id).Infof("%s has no bridge contract, not tracked", chain.Name)
			continue
		}
		out[id] = ChainEndpoint{
			Client:         EVMRPC.NewClient(logger, id, chain.RPCList),
			BridgeContract: common.HexToAddress(chain.BridgeContract),
		}
	}
	return out
}
