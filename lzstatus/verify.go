package lzstatus

import (
	"context"

	"gobrgbridge/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

type Verifier struct {
	logger *logrus.Entry
}

func NewVerifier(logger *logrus.Logger) *Verifier {
	return &Verifier{
		logger: logger.WithField("pkg", "lzstatus.verifier"),
	}
}

// DeliveryQuery filters OFTReceived logs of dstContract by guid over the whole chain history.
// Polling can resume long after delivery, so the range is never narrowed.
func DeliveryQuery(dstContract common.Address, guid common.Hash) types.LogQuery {
	return types.LogQuery{
		Contract:       dstContract,
		EventSignature: OFTReceivedTopic,
		IndexedFilters: [][]common.Hash{{guid}},
	}
}

// Delivered reports whether dst has emitted OFTReceived for guid.
// A failed query counts as not delivered for this poll.
func (v *Verifier) Delivered(ctx context.Context, dst ChainClient, dstContract common.Address, guid common.Hash) bool {
	logs, err := dst.GetLogs(ctx, DeliveryQuery(dstContract, guid))
	if err != nil {
		v.logger.WithFields(logrus.Fields{
			"guid":     guid.Hex(),
			"contract": dstContract.Hex(),
		}).Warnf("destination logs unavailable: %v", err)
		return false
	}
	return len(logs) > 0
}
