package upstream

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sellerdesk/panel/internal/domain/alerting"
)

// DecisionResult is the upstream's answer to a submitted decision.
type DecisionResult struct {
	Success bool
	Message string
}

// FetchOrderDetail retrieves and normalizes the display projection of an
// order. The raw payload is inconsistent about key names; normalization
// happens here, once, so callers only ever see alerting.OrderDetail.
func (c *Client) FetchOrderDetail(ctx context.Context, orderID string) (*alerting.OrderDetail, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, alerting.ErrOrderIDRequired
	}

	var raw rawOrder
	if err := c.getJSON(ctx, "/api/v1/seller/orders/"+orderID, nil, &raw); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", alerting.ErrOrderNotFound, orderID)
		}
		return nil, err
	}

	detail := raw.normalize()
	if detail.OrderID == "" {
		detail.OrderID = orderID
	}
	return &detail, nil
}

// Decide submits the seller's accept/reject verdict for an order. The
// upstream contract encodes the action as 1 (accept) or 2 (reject) with
// a reason required only for reject; Validate enforces that before any
// network traffic.
func (c *Client) Decide(ctx context.Context, decision alerting.Decision) (*DecisionResult, error) {
	if err := decision.Validate(); err != nil {
		return nil, err
	}

	body := map[string]any{
		"action": int(decision.Action),
	}
	if decision.Action == alerting.ActionReject {
		body["reason"] = strings.TrimSpace(decision.Reason)
	}

	env, err := c.doRequest(ctx, "POST", "/api/v1/seller/orders/"+decision.OrderID+"/decision", nil, body)
	if err != nil {
		// Preserve the server-provided message for the UI where we have
		// one; the gate surfaces it verbatim on a failed submission.
		if env != nil && env.Message != "" {
			return &DecisionResult{Success: false, Message: env.Message}, err
		}
		return nil, err
	}

	return &DecisionResult{Success: true, Message: env.Message}, nil
}
