// Package lzstatus observes LayerZero OFT transfers: it reads the guid of a send
// from the source receipt, looks for the matching receive on the destination chain,
// and folds those observations into a transfer status.
package lzstatus

import (
	"context"

	"gobrgbridge/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ChainClient is the read-only access the tracker needs from one chain.
// Implementations must return types.ErrReceiptNotFound for a missing receipt and
// wrap transport failures in types.ErrChainUnavailable.
type ChainClient interface {
	GetReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	GetLogs(ctx context.Context, q types.LogQuery) ([]types.Log, error)
}

const OFTReceivedSignature = "OFTReceived(bytes32,uint32,address,uint256)"

// Event signatures
var (
	// OFTSent(bytes32 indexed guid, uint32 dstEid, address indexed fromAddress, uint256 amountSentLD, uint256 amountReceivedLD)
	OFTSentTopic = common.HexToHash("0x85496b760a4b7f8d66384b9df21b381f5d1b1e79f229a47aaf4c232edc2fe59a")
	// OFTReceived(bytes32 indexed guid, uint32 srcEid, address indexed toAddress, uint256 amountReceivedLD)
	OFTReceivedTopic = crypto.Keccak256Hash([]byte(OFTReceivedSignature))
)
