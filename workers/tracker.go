package workers

import (
	"context"
	"sync"
	"time"

	"gobrgbridge/lzstatus"
	"gobrgbridge/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Tracker runs one polling task per tracked transfer. A task ends when its transfer
// reaches a terminal status, leaves history, or is stopped.
type Tracker struct {
	logger    *logrus.Entry
	poller    *Poller
	interval  time.Duration
	timeout   time.Duration
	isTestnet bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	active map[string]*Tracking
}

// Tracking is the live state of one tracked transfer.
type Tracking struct {
	ID     uuid.UUID
	TxHash string

	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.RWMutex
	status types.TxStatus
	guid   common.Hash
}

func NewTracker(logger *logrus.Logger, poller *Poller, interval, timeout time.Duration, isTestnet bool) *Tracker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Tracker{
		logger:    logger.WithField("pkg", "workers.tracker"),
		poller:    poller,
		interval:  interval,
		timeout:   timeout,
		isTestnet: isTestnet,
		ctx:       ctx,
		cancel:    cancel,
		active:    make(map[string]*Tracking),
	}
}

// Track starts polling rec unless it is tracked already, in which case the running
// task is returned. Terminal records get a finished Tracking and no task.
func (t *Tracker) Track(rec types.TransferRecord) *Tracking {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tr, ok := t.active[rec.TxHash]; ok {
		return tr
	}

	tr := &Tracking{
		ID:     uuid.New(),
		TxHash: rec.TxHash,
		done:   make(chan struct{}),
		status: rec.Status,
	}
	if rec.Status.Terminal() || t.ctx.Err() != nil {
		close(tr.done)
		return tr
	}

	ctx, cancel := context.WithCancel(t.ctx)
	tr.cancel = cancel
	t.active[rec.TxHash] = tr

	t.wg.Add(1)
	go t.run(ctx, tr)

	t.logger.WithFields(logrus.Fields{
		"tx_hash":     rec.TxHash,
		"tracking_id": tr.ID.String(),
	}).Info("tracking started")
	return tr
}

// Lookup returns the running task of txHash.
func (t *Tracker) Lookup(txHash string) (*Tracking, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tr, ok := t.active[txHash]
	return tr, ok
}

// Snapshot describes the running task of txHash.
func (t *Tracker) Snapshot(txHash string) (types.TrackingSnapshot, bool) {
	tr, ok := t.Lookup(txHash)
	if !ok {
		return types.TrackingSnapshot{}, false
	}
	return tr.Snapshot(t.isTestnet), true
}

// Begin is Track for callers that only need the snapshot.
func (t *Tracker) Begin(rec types.TransferRecord) types.TrackingSnapshot {
	return t.Track(rec).Snapshot(t.isTestnet)
}

// StopAll cancels every running task and waits for them to return.
func (t *Tracker) StopAll() {
	t.mu.Lock()
	tasks := make([]*Tracking, 0, len(t.active))
	for _, tr := range t.active {
		tasks = append(tasks, tr)
	}
	t.mu.Unlock()

	for _, tr := range tasks {
		tr.Stop()
		<-tr.done
	}
}

// Stop disposes the tracker: no new tasks start and running ones are cancelled.
func (t *Tracker) Stop() {
	// under mu, so no Track can be between its ctx check and wg.Add
	t.mu.Lock()
	t.cancel()
	t.mu.Unlock()

	t.wg.Wait()
}

func (t *Tracker) run(ctx context.Context, tr *Tracking) {
	defer t.wg.Done()
	defer close(tr.done)
	defer t.remove(tr)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		if !t.pollOnce(ctx, tr) {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// pollOnce reports whether polling should go on.
func (t *Tracker) pollOnce(ctx context.Context, tr *Tracking) bool {
	pctx, cancel := context.WithTimeout(ctx, t.timeout)
	res := t.poller.Poll(pctx, tr.TxHash)
	cancel()

	if ctx.Err() != nil {
		return false
	}

	fields := logrus.Fields{"tx_hash": tr.TxHash, "tracking_id": tr.ID.String()}
	if !res.Tracked {
		t.logger.WithFields(fields).Info("transfer no longer in history, tracking dropped")
		return false
	}
	if res.Status.Valid() {
		tr.set(res.Status, res.Guid)
	}
	if res.Status.Terminal() {
		t.logger.WithFields(fields).Infof("tracking finished, status=%s", res.Status)
		return false
	}
	return true
}

func (t *Tracker) remove(tr *Tracking) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cur, ok := t.active[tr.TxHash]; ok && cur == tr {
		delete(t.active, tr.TxHash)
	}
}

func (tr *Tracking) set(status types.TxStatus, guid common.Hash) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	// statuses only move forward, a late result must not roll the view back
	if tr.status == status || tr.status.Precedes(status) {
		tr.status = status
	}
	if tr.guid == (common.Hash{}) {
		tr.guid = guid
	}
}

func (tr *Tracking) Status() types.TxStatus {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.status
}

func (tr *Tracking) Guid() (common.Hash, bool) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.guid, tr.guid != (common.Hash{})
}

// Done is closed when the task has returned.
func (tr *Tracking) Done() <-chan struct{} {
	return tr.done
}

func (tr *Tracking) Stop() {
	if tr.cancel != nil {
		tr.cancel()
	}
}

func (tr *Tracking) Snapshot(isTestnet bool) types.TrackingSnapshot {
	snap := types.TrackingSnapshot{
		ID:              tr.ID.String(),
		TxHash:          tr.TxHash,
		Status:          tr.Status(),
		DeliveryLinkURL: lzstatus.ScanURL(tr.TxHash, isTestnet),
	}
	select {
	case <-tr.done:
	default:
		snap.Active = true
	}
	if guid, ok := tr.Guid(); ok {
		snap.Guid = guid.Hex()
	}
	return snap
}
