package types

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrReceiptNotFound means the node answered and has no receipt for the hash (yet).
	ErrReceiptNotFound = errors.New("receipt not found")
	// ErrChainUnavailable means no RPC endpoint of the chain could answer.
	ErrChainUnavailable = errors.New("chain unavailable")
)

const (
	ReceiptStatusFailed     uint64 = 0
	ReceiptStatusSuccessful uint64 = 1
)

type Log struct {
	Address     common.Address
	Topics      []common.Hash
	Data        []byte
	BlockNumber uint64
	TxHash      common.Hash
}

type Receipt struct {
	TxHash      common.Hash
	Status      uint64
	BlockNumber uint64
	Logs        []Log
}

func (r *Receipt) Succeeded() bool {
	return r.Status == ReceiptStatusSuccessful
}

// LogQuery selects event logs of one contract.
// IndexedFilters[i] lists accepted values for topic i+1, an empty entry matches anything.
// Nil FromBlock means the earliest block, nil ToBlock the latest one.
type LogQuery struct {
	Contract       common.Address
	EventSignature common.Hash
	IndexedFilters [][]common.Hash
	FromBlock      *big.Int
	ToBlock        *big.Int
}
