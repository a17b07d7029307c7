package workers

import (
	"context"
	"sync"

	"gobrgbridge/history"
	"gobrgbridge/lzstatus"
	"gobrgbridge/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// PollResult is the outcome of one poll cycle of a transfer.
type PollResult struct {
	Status types.TxStatus
	Guid   common.Hash // zero until extracted
	// false once the record is gone from history
	Tracked bool
	// another cycle of the same transfer was still running
	Skipped bool
}

// Poller runs poll cycles: read the record, take one state-appropriate step,
// persist the transition. Cycles of one transfer never overlap.
type Poller struct {
	logger    *logrus.Entry
	history   *history.Store
	chains    Chains
	extractor *lzstatus.Extractor
	verifier  *lzstatus.Verifier
	guids     *guidBook

	busy sync.Map // tx hash -> struct{}
}

func NewPoller(logger *logrus.Logger, store *history.Store, chains Chains) *Poller {
	return &Poller{
		logger:    logger.WithField("pkg", "workers.poller"),
		history:   store,
		chains:    chains,
		extractor: lzstatus.NewExtractor(logger),
		verifier:  lzstatus.NewVerifier(logger),
		guids:     newGuidBook(),
	}
}

// Poll never fails: transient problems leave the status unchanged until the next cycle.
func (p *Poller) Poll(ctx context.Context, txHash string) (res PollResult) {
	rec, found, err := p.history.Get(ctx, txHash)
	if err != nil {
		p.logger.WithField("tx_hash", txHash).Warnf("cannot read record, skipping cycle: %v", err)
		return PollResult{Tracked: true, Skipped: true}
	}
	if !found {
		p.guids.Forget(txHash)
		return PollResult{}
	}

	res = PollResult{Status: rec.Status, Tracked: true}
	if guid, ok := p.guids.Get(txHash); ok {
		res.Guid = guid
	}
	if rec.Status.Terminal() {
		p.guids.Forget(txHash)
		return res
	}

	if _, running := p.busy.LoadOrStore(txHash, struct{}{}); running {
		res.Skipped = true
		return res
	}
	defer p.busy.Delete(txHash)

	fields := logrus.Fields{
		"tx_hash":   rec.TxHash,
		"src_chain": rec.SrcChainID,
		"dst_chain": rec.DstChainID,
		"status":    rec.Status,
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.WithFields(fields).Errorf("poll cycle panicked, retrying next interval: %v", r)
			res.Skipped = true
		}
	}()

	next, guid, known := p.advance(ctx, rec, fields)
	if known {
		res.Guid = guid
	}
	if next == rec.Status {
		return res
	}

	// disposed while waiting on the chain: the answer may be stale
	if ctx.Err() != nil {
		p.logger.WithFields(fields).Debugf("discarding %s, tracking context done", next)
		return res
	}

	changed, err := p.history.UpdateStatus(ctx, rec.TxHash, next)
	if err != nil {
		p.logger.WithFields(fields).Warnf("cannot persist status %s: %v", next, err)
		return res
	}
	if !changed {
		// removed or advanced by another writer meanwhile
		cur, found, err := p.history.Get(ctx, rec.TxHash)
		if err == nil {
			res.Tracked = found
			if found {
				res.Status = cur.Status
			}
		}
		return res
	}

	p.logger.WithFields(fields).Infof("status updated, newStatus=%s", next)
	res.Status = next
	if next.Terminal() {
		p.guids.Forget(rec.TxHash)
	}
	return res
}

func (p *Poller) advance(ctx context.Context, rec types.TransferRecord, fields logrus.Fields) (types.TxStatus, common.Hash, bool) {
	status := rec.Status
	guid, known := p.guids.Get(rec.TxHash)

	if !known {
		src, ok := p.chains[rec.SrcChainID]
		if !ok {
			p.logger.WithFields(fields).Warn("source chain not configured")
			return status, guid, false
		}

		ex := p.extractor.Extract(ctx, src.Client, common.HexToHash(rec.TxHash), src.BridgeContract)
		if ex.Outcome == lzstatus.GuidFound {
			guid = p.guids.Set(rec.TxHash, ex.Guid)
			known = true
		}
		next := lzstatus.Next(status, lzstatus.EventOf(ex.Outcome))

		// a record restored as inflight needs its guid back before verifying
		if status != types.StatusInflight || !known {
			return next, guid, known
		}
	} else if status != types.StatusInflight {
		return lzstatus.Next(status, lzstatus.EventGuidFound), guid, true
	}

	dst, ok := p.chains[rec.DstChainID]
	if !ok {
		p.logger.WithFields(fields).Warn("destination chain not configured")
		return status, guid, true
	}
	delivered := p.verifier.Delivered(ctx, dst.Client, dst.BridgeContract, guid)
	return lzstatus.Next(status, lzstatus.DeliveryEvent(delivered)), guid, true
}
