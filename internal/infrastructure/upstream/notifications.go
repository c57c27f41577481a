package upstream

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sellerdesk/panel/internal/domain/alerting"
)

// unreadResponse is the wire shape of the unread-notifications endpoint.
type unreadResponse struct {
	UnreadCount   int               `json:"unread_count"`
	Notifications []rawNotification `json:"notifications"`
}

type rawNotification struct {
	ID      string     `json:"id"`
	Kind    string     `json:"kind"`
	ReadAt  *time.Time `json:"read_at"`
	Payload struct {
		OrderID string `json:"order_id"`
		Text    string `json:"text"`
	} `json:"payload"`
}

// FetchUnreadNotifications returns the full current unread-notification
// snapshot for the authenticated seller. Consumers diff snapshots
// themselves; this is never a delta.
func (c *Client) FetchUnreadNotifications(ctx context.Context) (alerting.Snapshot, error) {
	var resp unreadResponse
	if err := c.getJSON(ctx, "/api/v1/seller/notifications/unread", nil, &resp); err != nil {
		return alerting.Snapshot{}, err
	}

	snap := alerting.Snapshot{
		UnreadCount:   resp.UnreadCount,
		Notifications: make([]alerting.Notification, 0, len(resp.Notifications)),
		FetchedAt:     time.Now(),
	}
	for _, n := range resp.Notifications {
		snap.Notifications = append(snap.Notifications, alerting.Notification{
			ID:      n.ID,
			Kind:    alerting.NotificationKind(n.Kind),
			OrderID: n.Payload.OrderID,
			Text:    n.Payload.Text,
			ReadAt:  n.ReadAt,
		})
	}
	return snap, nil
}

// MarkNotificationRead marks a notification read upstream. Fire and
// forget: failure only skews the unread-count badge, so it is logged and
// swallowed here rather than surfaced to the decision flow.
func (c *Client) MarkNotificationRead(ctx context.Context, notificationID string) {
	if err := c.postJSON(ctx, "/api/v1/seller/notifications/"+notificationID+"/read", nil, nil); err != nil {
		c.logger.Warn("failed to mark notification read",
			zap.String("notification_id", notificationID),
			zap.Error(err),
		)
	}
}
