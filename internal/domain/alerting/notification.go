package alerting

import (
	"time"
)

// NotificationKind tags the type of a notification delivered by the
// upstream commerce backend. Only KindNewOrder drives the alert pipeline.
type NotificationKind string

const (
	// KindNewOrder is raised by the backend when a buyer places an order
	// that the seller has not yet accepted or rejected.
	KindNewOrder NotificationKind = "new_order"

	// KindSystem covers announcements and other informational messages.
	// They appear in the snapshot but never trigger an alert.
	KindSystem NotificationKind = "system"
)

// Notification is a single unread-notification record as reported by the
// upstream backend. The panel only reads notifications; the backend owns
// their lifecycle (read_at transitions null -> timestamp exactly once).
type Notification struct {
	ID      string           `json:"id"`
	Kind    NotificationKind `json:"kind"`
	OrderID string           `json:"order_id,omitempty"`
	Text    string           `json:"text,omitempty"`
	ReadAt  *time.Time       `json:"read_at,omitempty"`
}

// IsAlertable reports whether this notification should open the alert
// gate: it must be a new-order notification that is still unread and
// carries the order it refers to.
func (n Notification) IsAlertable() bool {
	return n.Kind == KindNewOrder && n.ReadAt == nil && n.OrderID != ""
}

// Snapshot is the full unread-notification set for one poll cycle.
// Consumers diff consecutive snapshots themselves; the poller always
// reports the complete current state, never a delta.
type Snapshot struct {
	UnreadCount   int
	Notifications []Notification
	FetchedAt     time.Time
}

// Alertable returns the notifications in the snapshot that qualify for
// alerting, in snapshot order.
func (s Snapshot) Alertable() []Notification {
	var out []Notification
	for _, n := range s.Notifications {
		if n.IsAlertable() {
			out = append(out, n)
		}
	}
	return out
}
