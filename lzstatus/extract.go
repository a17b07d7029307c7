package lzstatus

import (
	"context"
	"errors"

	"gobrgbridge/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

type ExtractOutcome int

const (
	// receipt not available yet, or the chain could not be reached
	Unconfirmed ExtractOutcome = iota
	Reverted
	// successful receipt without the send event
	NoMatch
	GuidFound
)

func (o ExtractOutcome) String() string {
	switch o {
	case Unconfirmed:
		return "unconfirmed"
	case Reverted:
		return "reverted"
	case NoMatch:
		return "nomatch"
	case GuidFound:
		return "guid_found"
	default:
		return "unknown"
	}
}

type Extraction struct {
	Outcome ExtractOutcome
	Guid    common.Hash // set for GuidFound only
}

type Extractor struct {
	logger *logrus.Entry
}

func NewExtractor(logger *logrus.Logger) *Extractor {
	return &Extractor{
		logger: logger.WithField("pkg", "lzstatus.extractor"),
	}
}

// Extract reads the source receipt and returns the guid of the OFTSent event emitted
// by bridgeContract. It never fails: every error path maps to an outcome.
func (e *Extractor) Extract(ctx context.Context, src ChainClient, txHash common.Hash, bridgeContract common.Address) Extraction {
	fields := logrus.Fields{"tx_hash": txHash.Hex(), "contract": bridgeContract.Hex()}

	rec, err := src.GetReceipt(ctx, txHash)
	if err != nil {
		if !errors.Is(err, types.ErrReceiptNotFound) {
			e.logger.WithFields(fields).Warnf("source receipt unavailable: %v", err)
		}
		return Extraction{Outcome: Unconfirmed}
	}
	if rec == nil {
		return Extraction{Outcome: Unconfirmed}
	}
	if !rec.Succeeded() {
		return Extraction{Outcome: Reverted}
	}

	if guid, ok := FindGuid(rec.Logs, bridgeContract); ok {
		return Extraction{Outcome: GuidFound, Guid: guid}
	}

	e.logger.WithFields(fields).WithField("logs", len(rec.Logs)).Warn("successful receipt without OFTSent log")
	return Extraction{Outcome: NoMatch}
}

// FindGuid scans receipt logs for the OFTSent event of contract and returns topic1.
// common.Address comparison is byte-wise, so hex casing of the source does not matter.
func FindGuid(logs []types.Log, contract common.Address) (common.Hash, bool) {
	for _, l := range logs {
		if l.Address != contract || len(l.Topics) < 2 {
			continue
		}
		if l.Topics[0] == OFTSentTopic {
			return l.Topics[1], true
		}
	}
	return common.Hash{}, false
}
