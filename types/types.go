package types

// TxStatus is the lifecycle label of a tracked cross-chain transfer.
// Values are persisted as-is, keep them stable.
type TxStatus string

const (
	StatusPending    TxStatus = "pending"
	StatusConfirming TxStatus = "confirming" // enumerated for consumers, never produced by the tracker
	StatusInflight   TxStatus = "inflight"
	StatusDelivered  TxStatus = "delivered"
	StatusFailed     TxStatus = "failed"
)

// order along the happy path, failed is handled separately
var statusRank = map[TxStatus]int{
	StatusPending:    0,
	StatusConfirming: 1,
	StatusInflight:   2,
	StatusDelivered:  3,
}

func (s TxStatus) Valid() bool {
	if s == StatusFailed {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

func (s TxStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusFailed
}

// Precedes reports whether moving from s to next is a forward step.
// Equal statuses are not a step. Any non-terminal status may escape to failed.
func (s TxStatus) Precedes(next TxStatus) bool {
	if s.Terminal() || !next.Valid() {
		return false
	}
	if next == StatusFailed {
		return true
	}
	return statusRank[s] < statusRank[next]
}

// TransferRecord is one submitted cross-chain transfer as kept in history.
// JSON names match the layout written by earlier clients, only add optional fields.
type TransferRecord struct {
	TxHash     string   `json:"txHash"`
	SrcChainID int      `json:"srcChainId"`
	DstChainID int      `json:"dstChainId"`
	Amount     string   `json:"amount"`    // smallest token unit, decimal string
	Timestamp  int64    `json:"timestamp"` // unix milliseconds of local submission
	Status     TxStatus `json:"status"`
}

// TrackingSnapshot is a point-in-time view of a tracking task.
type TrackingSnapshot struct {
	ID              string   `json:"trackingId"`
	TxHash          string   `json:"txHash"`
	Status          TxStatus `json:"status"`
	Guid            string   `json:"guid,omitempty"`
	DeliveryLinkURL string   `json:"deliveryLinkUrl"`
	Active          bool     `json:"tracking"`
}
