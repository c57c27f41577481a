package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	alertapp "github.com/sellerdesk/panel/internal/application/alerting"
	"github.com/sellerdesk/panel/internal/domain/alerting"
	"github.com/sellerdesk/panel/internal/infrastructure/upstream"
	"github.com/sellerdesk/panel/internal/interfaces/http/dto"
)

type fakeAlarm struct {
	mu     sync.Mutex
	starts int
	stops  int
}

func (a *fakeAlarm) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.starts++
}

func (a *fakeAlarm) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stops++
}

type fakeDecider struct {
	mu        sync.Mutex
	decideErr error
	decisions []alerting.Decision
	markedIDs []string
}

func (d *fakeDecider) FetchOrderDetail(ctx context.Context, orderID string) (*alerting.OrderDetail, error) {
	return &alerting.OrderDetail{
		OrderID:      orderID,
		CustomerName: "Ada Marsh",
		Lines: []alerting.OrderLine{
			{ProductName: "Thermos", Quantity: 2, UnitPrice: decimal.NewFromFloat(14.50)},
		},
		Total: decimal.NewFromFloat(29.00),
	}, nil
}

func (d *fakeDecider) Decide(ctx context.Context, decision alerting.Decision) (*upstream.DecisionResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.decideErr != nil {
		return nil, d.decideErr
	}
	d.decisions = append(d.decisions, decision)
	return &upstream.DecisionResult{Success: true, Message: "ok"}, nil
}

func (d *fakeDecider) MarkNotificationRead(ctx context.Context, notificationID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.markedIDs = append(d.markedIDs, notificationID)
}

func newAlertTestRig(t *testing.T) (*gin.Engine, *alertapp.AlertGate, *fakeDecider) {
	t.Helper()

	decider := &fakeDecider{}
	gate := alertapp.NewAlertGate(
		alertapp.GateConfig{CloseDelay: 10 * time.Millisecond},
		&fakeAlarm{},
		decider,
		zap.NewNop(),
	)
	t.Cleanup(gate.Close)

	h := NewAlertHandler(gate)
	router := gin.New()
	router.GET("/alerts/current", h.Current)
	router.POST("/alerts/accept", h.Accept)
	router.POST("/alerts/reject", h.Reject)
	router.POST("/alerts/reject/cancel", h.CancelReject)
	router.POST("/alerts/reject/confirm", h.ConfirmReject)
	return router, gate, decider
}

func openTestAlert(t *testing.T, gate *alertapp.AlertGate) {
	t.Helper()
	err := gate.Open(context.Background(), alerting.Notification{
		ID:      "n-1",
		Kind:    alerting.KindNewOrder,
		OrderID: "o-77",
	})
	require.NoError(t, err)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func snapshotState(t *testing.T, resp dto.Response) string {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	state, _ := data["state"].(string)
	return state
}

func TestAlertHandler_CurrentClosed(t *testing.T) {
	router, _, _ := newAlertTestRig(t)

	w, resp := doJSON(t, router, http.MethodGet, "/alerts/current", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, string(alerting.GateClosed), snapshotState(t, resp))
}

func TestAlertHandler_CurrentOpen(t *testing.T) {
	router, gate, _ := newAlertTestRig(t)
	openTestAlert(t, gate)

	w, resp := doJSON(t, router, http.MethodGet, "/alerts/current", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(alerting.GateAwaitingDecision), snapshotState(t, resp))

	data := resp.Data.(map[string]interface{})
	detail, ok := data["detail"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "o-77", detail["order_id"])
	assert.Equal(t, "Ada Marsh", detail["customer_name"])
}

func TestAlertHandler_Accept(t *testing.T) {
	router, gate, decider := newAlertTestRig(t)
	openTestAlert(t, gate)

	w, resp := doJSON(t, router, http.MethodPost, "/alerts/accept", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	decider.mu.Lock()
	defer decider.mu.Unlock()
	require.Len(t, decider.decisions, 1)
	assert.Equal(t, alerting.ActionAccept, decider.decisions[0].Action)
	assert.Equal(t, "o-77", decider.decisions[0].OrderID)
	assert.Equal(t, []string{"n-1"}, decider.markedIDs)
}

func TestAlertHandler_AcceptWithoutOpenAlert(t *testing.T) {
	router, _, _ := newAlertTestRig(t)

	w, resp := doJSON(t, router, http.MethodPost, "/alerts/accept", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)
}

func TestAlertHandler_RejectFlow(t *testing.T) {
	router, gate, decider := newAlertTestRig(t)
	openTestAlert(t, gate)

	w, resp := doJSON(t, router, http.MethodPost, "/alerts/reject", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(alerting.GateAwaitingRejectReason), snapshotState(t, resp))

	w, resp = doJSON(t, router, http.MethodPost, "/alerts/reject/confirm",
		gin.H{"reason": "out of stock"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	decider.mu.Lock()
	defer decider.mu.Unlock()
	require.Len(t, decider.decisions, 1)
	assert.Equal(t, alerting.ActionReject, decider.decisions[0].Action)
	assert.Equal(t, "out of stock", decider.decisions[0].Reason)
}

func TestAlertHandler_ConfirmRejectWithoutReason(t *testing.T) {
	router, gate, decider := newAlertTestRig(t)
	openTestAlert(t, gate)

	_, _ = doJSON(t, router, http.MethodPost, "/alerts/reject", nil)

	w, resp := doJSON(t, router, http.MethodPost, "/alerts/reject/confirm", gin.H{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)

	decider.mu.Lock()
	defer decider.mu.Unlock()
	assert.Empty(t, decider.decisions)
}

func TestAlertHandler_CancelReject(t *testing.T) {
	router, gate, _ := newAlertTestRig(t)
	openTestAlert(t, gate)

	_, _ = doJSON(t, router, http.MethodPost, "/alerts/reject", nil)

	w, resp := doJSON(t, router, http.MethodPost, "/alerts/reject/cancel", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(alerting.GateAwaitingDecision), snapshotState(t, resp))
}

func TestAlertHandler_CancelRejectWithoutPendingReason(t *testing.T) {
	router, gate, _ := newAlertTestRig(t)
	openTestAlert(t, gate)

	w, resp := doJSON(t, router, http.MethodPost, "/alerts/reject/cancel", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)
}

func TestAlertHandler_AcceptUpstreamRejection(t *testing.T) {
	router, gate, decider := newAlertTestRig(t)
	openTestAlert(t, gate)

	decider.mu.Lock()
	decider.decideErr = fmt.Errorf("order already cancelled: %w", alerting.ErrDecisionRejected)
	decider.mu.Unlock()

	w, resp := doJSON(t, router, http.MethodPost, "/alerts/accept", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeUpstreamRejected, resp.Error.Code)

	// The gate stays open so the seller can retry.
	w, resp = doJSON(t, router, http.MethodGet, "/alerts/current", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(alerting.GateAwaitingDecision), snapshotState(t, resp))

	decider.mu.Lock()
	decider.decideErr = nil
	decider.mu.Unlock()

	w, resp = doJSON(t, router, http.MethodPost, "/alerts/accept", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}
