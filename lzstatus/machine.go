package lzstatus

import "gobrgbridge/types"

type Event int

const (
	EventUnconfirmed Event = iota
	EventNoMatch
	EventReverted
	EventGuidFound
	EventNotDelivered
	EventDelivered
)

func (e Event) String() string {
	switch e {
	case EventUnconfirmed:
		return "unconfirmed"
	case EventNoMatch:
		return "nomatch"
	case EventReverted:
		return "reverted"
	case EventGuidFound:
		return "guid_found"
	case EventNotDelivered:
		return "not_delivered"
	case EventDelivered:
		return "delivered"
	default:
		return "unknown"
	}
}

// EventOf maps an extraction outcome to a machine event.
func EventOf(o ExtractOutcome) Event {
	switch o {
	case Reverted:
		return EventReverted
	case NoMatch:
		return EventNoMatch
	case GuidFound:
		return EventGuidFound
	default:
		return EventUnconfirmed
	}
}

// DeliveryEvent maps a verifier answer to a machine event.
func DeliveryEvent(delivered bool) Event {
	if delivered {
		return EventDelivered
	}
	return EventNotDelivered
}

// Next returns the status after observing ev in status cur.
// Events that do not apply to cur leave it unchanged, so no state is ever skipped:
// pending only reaches delivered through inflight.
func Next(cur types.TxStatus, ev Event) types.TxStatus {
	switch cur {
	case types.StatusPending, types.StatusConfirming:
		switch ev {
		case EventReverted:
			return types.StatusFailed
		case EventGuidFound:
			return types.StatusInflight
		}
	case types.StatusInflight:
		if ev == EventDelivered {
			return types.StatusDelivered
		}
	}
	return cur
}
