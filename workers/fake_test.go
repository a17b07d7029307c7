package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gobrgbridge/history"
	"gobrgbridge/lzstatus"
	"gobrgbridge/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

var (
	srcBridge = common.HexToAddress("0xECC80fc532b80F0Fa9D160F90921EE7b94374e16")
	dstBridge = common.HexToAddress("0x4dBBdC8CE1267c170E5aB37831cdC9870f386Dc9")
	guid1     = common.HexToHash("0x4755494431")
)

// scriptedChain answers from per-call scripts; the last entry repeats.
// A nil receipt entry means "not found".
type scriptedChain struct {
	mu       sync.Mutex
	receipts []*types.Receipt
	logs     [][]types.Log

	receiptCalls int
	logCalls     int

	// when set, calls signal entered and wait for release or ctx
	entered chan struct{}
	release chan struct{}
	// when set, calls run it before answering
	onCall func()
	panics bool
}

func (c *scriptedChain) wait(ctx context.Context) error {
	if c.entered == nil {
		return nil
	}
	c.entered <- struct{}{}
	select {
	case <-c.release:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", types.ErrChainUnavailable, ctx.Err())
	}
}

func (c *scriptedChain) GetReceipt(ctx context.Context, _ common.Hash) (*types.Receipt, error) {
	if c.panics {
		panic("node returned garbage")
	}
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	if c.onCall != nil {
		c.onCall()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.receiptCalls
	c.receiptCalls++
	if len(c.receipts) == 0 {
		return nil, types.ErrReceiptNotFound
	}
	if i >= len(c.receipts) {
		i = len(c.receipts) - 1
	}
	if c.receipts[i] == nil {
		return nil, types.ErrReceiptNotFound
	}
	return c.receipts[i], nil
}

func (c *scriptedChain) GetLogs(ctx context.Context, _ types.LogQuery) ([]types.Log, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.logCalls
	c.logCalls++
	if len(c.logs) == 0 {
		return nil, errors.New("no script")
	}
	if i >= len(c.logs) {
		i = len(c.logs) - 1
	}
	return c.logs[i], nil
}

func (c *scriptedChain) calls() (receipts, logs int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.receiptCalls, c.logCalls
}

func sentReceipt(guid common.Hash) *types.Receipt {
	return &types.Receipt{
		Status: types.ReceiptStatusSuccessful,
		Logs: []types.Log{{
			Address: srcBridge,
			Topics:  []common.Hash{lzstatus.OFTSentTopic, guid, common.HexToHash("0x01")},
		}},
	}
}

func revertedReceipt() *types.Receipt {
	return &types.Receipt{Status: types.ReceiptStatusFailed}
}

func receivedLogs(guid common.Hash) []types.Log {
	return []types.Log{{
		Address: dstBridge,
		Topics:  []common.Hash{lzstatus.OFTReceivedTopic, guid, common.HexToHash("0x02")},
	}}
}

func testHash(s string) string {
	return common.HexToHash(s).Hex()
}

func testRecord(hash string, src, dst int) types.TransferRecord {
	return types.TransferRecord{
		TxHash:     hash,
		SrcChainID: src,
		DstChainID: dst,
		Amount:     "1000000000000000000",
		Timestamp:  1700000000000,
		Status:     types.StatusPending,
	}
}

func newTestStore() *history.Store {
	return history.NewStore(logrus.New(), history.NewMemoryKV(), "brg-bridge-tx-history", history.DefaultCapacity)
}

func chainsOf(src, dst *scriptedChain) Chains {
	return Chains{
		1:     {Client: src, BridgeContract: srcBridge},
		42161: {Client: dst, BridgeContract: dstBridge},
	}
}
