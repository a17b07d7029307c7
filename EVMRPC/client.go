package EVMRPC

import (
	"context"
	"errors"
	"fmt"

	"gobrgbridge/types"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

// Client is the read-only view of one EVM chain used by the tracker.
// Every call may be retried, endpoints are tried in order.
type Client struct {
	chainID int
	rpcList []string
	logger  *logrus.Entry
}

func NewClient(logger *logrus.Logger, chainID int, rpcList []string) *Client {
	return &Client{
		chainID: chainID,
		rpcList: rpcList,
		logger:  logger.WithField("pkg", "EVMRPC").WithField("chain", chainID),
	}
}

// GetReceipt returns types.ErrReceiptNotFound when a node has no receipt for the hash,
// and types.ErrChainUnavailable when no endpoint could answer.
func (c *Client) GetReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	rec, err := WithClient(ctx, c.logger, c.rpcList, func(client *ethclient.Client) (*ethtypes.Receipt, error) {
		r, err := client.TransactionReceipt(ctx, txHash)
		if errors.Is(err, ethereum.NotFound) {
			// an answer, not a failure: stop failing over
			return nil, nil
		}
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: chain %d: eth_getTransactionReceipt: %w", types.ErrChainUnavailable, c.chainID, err)
	}
	if rec == nil {
		return nil, types.ErrReceiptNotFound
	}

	out := &types.Receipt{
		TxHash: rec.TxHash,
		Status: rec.Status,
		Logs:   make([]types.Log, 0, len(rec.Logs)),
	}
	if rec.BlockNumber != nil {
		out.BlockNumber = rec.BlockNumber.Uint64()
	}
	for _, l := range rec.Logs {
		if l != nil {
			out.Logs = append(out.Logs, convertLog(*l))
		}
	}
	return out, nil
}

func (c *Client) GetLogs(ctx context.Context, q types.LogQuery) ([]types.Log, error) {
	topics := [][]common.Hash{{q.EventSignature}}
	for _, f := range q.IndexedFilters {
		topics = append(topics, f)
	}

	logs, err := WithClient(ctx, c.logger, c.rpcList, func(client *ethclient.Client) ([]ethtypes.Log, error) {
		return client.FilterLogs(ctx, ethereum.FilterQuery{
			FromBlock: q.FromBlock,
			ToBlock:   q.ToBlock,
			Addresses: []common.Address{q.Contract},
			Topics:    topics,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: chain %d: eth_getLogs: %w", types.ErrChainUnavailable, c.chainID, err)
	}

	out := make([]types.Log, 0, len(logs))
	for _, l := range logs {
		out = append(out, convertLog(l))
	}
	return out, nil
}

func convertLog(l ethtypes.Log) types.Log {
	return types.Log{
		Address:     l.Address,
		Topics:      l.Topics,
		Data:        l.Data,
		BlockNumber: l.BlockNumber,
		TxHash:      l.TxHash,
	}
}
