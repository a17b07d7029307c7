package handlers

import (
	"context"

	"gobrgbridge/config"
	"gobrgbridge/types"

	"github.com/sirupsen/logrus"
)

// History is the part of the history store the API uses.
type History interface {
	Append(ctx context.Context, rec types.TransferRecord) error
	Get(ctx context.Context, txHash string) (types.TransferRecord, bool, error)
	ListAll(ctx context.Context) []types.TransferRecord
	Clear(ctx context.Context) error
	Capacity() int
}

// Tracker starts and describes live tracking tasks.
type Tracker interface {
	Begin(rec types.TransferRecord) types.TrackingSnapshot
	Snapshot(txHash string) (types.TrackingSnapshot, bool)
	StopAll()
}

type API struct {
	logger    *logrus.Entry
	history   History
	tracker   Tracker
	chains    map[int]config.ChainConfig
	isTestnet bool
}

func NewAPI(logger *logrus.Logger, history History, tracker Tracker, chains map[int]config.ChainConfig, isTestnet bool) *API {
	return &API{
		logger:    logger.WithField("pkg", "handlers"),
		history:   history,
		tracker:   tracker,
		chains:    chains,
		isTestnet: isTestnet,
	}
}

func (a *API) chain(chainID int) (config.ChainConfig, bool) {
	return config.GetChain(a.chains, chainID)
}
