package lzstatus

import (
	"context"
	"sync"

	"gobrgbridge/types"

	"github.com/ethereum/go-ethereum/common"
)

type fakeChain struct {
	mu       sync.Mutex
	receipt  *types.Receipt
	logs     []types.Log
	err      error
	queries  []types.LogQuery
	receipts int
}

func (f *fakeChain) GetReceipt(_ context.Context, _ common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.receipts++
	if f.err != nil {
		return nil, f.err
	}
	if f.receipt == nil {
		return nil, types.ErrReceiptNotFound
	}
	return f.receipt, nil
}

func (f *fakeChain) GetLogs(_ context.Context, q types.LogQuery) ([]types.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.logs, nil
}
