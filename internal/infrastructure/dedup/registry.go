// Package dedup suppresses repeat alerting for notification ids that
// have already been surfaced to the seller.
package dedup

import "context"

// Registry remembers which notification ids have already triggered an
// alert. A given id passes ShouldAlert at most once per registry
// lifetime; the set only grows (re-alerting is suppressed until the
// panel restarts, or until the key expires in distributed deployments).
type Registry interface {
	// ShouldAlert atomically records the id on first sight and reports
	// whether the caller should surface it. The check and the record are
	// a single operation; two concurrent callers can never both get true
	// for the same id.
	ShouldAlert(ctx context.Context, notificationID string) (bool, error)

	// Seen reports whether the id has already been recorded, without
	// recording it.
	Seen(ctx context.Context, notificationID string) (bool, error)

	// Close releases any resources held by the registry.
	Close() error
}
