package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	alertapp "github.com/sellerdesk/panel/internal/application/alerting"
	"github.com/sellerdesk/panel/internal/interfaces/http/middleware"
)

// SSEClient represents a connected SSE client
type SSEClient struct {
	ID       string
	SellerID string
	Chan     chan SSEMessage
	Done     chan struct{}
}

// SSEMessage represents a message to be sent to SSE clients
type SSEMessage struct {
	Event string `json:"event"`
	Data  string `json:"data"`
	ID    string `json:"id,omitempty"`
}

// AlertStreamHandler pushes alert-gate state changes to connected panel
// clients over Server-Sent Events. Every gate transition is broadcast as
// an `alert_state` event carrying the full snapshot, so a client that
// misses one event renders correctly from the next.
type AlertStreamHandler struct {
	BaseHandler
	gate        *alertapp.AlertGate
	logger      *zap.Logger
	clients     sync.Map // map[string]*SSEClient
	ctx         context.Context
	cancel      context.CancelFunc
	heartbeat   time.Duration
	started     bool
	startMu     sync.Mutex
	maxClients  int
	unsubscribe func()
}

// AlertStreamOption is a functional option for configuring the handler
type AlertStreamOption func(*AlertStreamHandler)

// WithSSELogger sets the logger for the handler
func WithSSELogger(logger *zap.Logger) AlertStreamOption {
	return func(h *AlertStreamHandler) {
		h.logger = logger
	}
}

// WithSSEHeartbeat sets the heartbeat interval
func WithSSEHeartbeat(interval time.Duration) AlertStreamOption {
	return func(h *AlertStreamHandler) {
		h.heartbeat = interval
	}
}

// WithSSEMaxClients sets the maximum number of concurrent SSE clients
func WithSSEMaxClients(max int) AlertStreamOption {
	return func(h *AlertStreamHandler) {
		h.maxClients = max
	}
}

// NewAlertStreamHandler creates an SSE handler fed by the alert gate.
func NewAlertStreamHandler(gate *alertapp.AlertGate, opts ...AlertStreamOption) *AlertStreamHandler {
	ctx, cancel := context.WithCancel(context.Background())
	h := &AlertStreamHandler{
		gate:       gate,
		logger:     zap.NewNop(),
		ctx:        ctx,
		cancel:     cancel,
		heartbeat:  30 * time.Second,
		maxClients: 1000,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Start subscribes to gate transitions and begins heartbeating.
func (h *AlertStreamHandler) Start() error {
	h.startMu.Lock()
	defer h.startMu.Unlock()

	if h.started {
		return fmt.Errorf("SSE handler already started")
	}

	go h.sendHeartbeats()

	h.unsubscribe = h.gate.Subscribe(h.handleGateChange)

	h.started = true
	h.logger.Info("alert SSE handler started")
	return nil
}

// Stop stops the SSE handler and disconnects all clients.
func (h *AlertStreamHandler) Stop() {
	h.startMu.Lock()
	if h.unsubscribe != nil {
		h.unsubscribe()
		h.unsubscribe = nil
	}
	h.startMu.Unlock()

	h.cancel()

	h.clients.Range(func(key, value any) bool {
		if client, ok := value.(*SSEClient); ok {
			close(client.Done)
		}
		return true
	})

	h.logger.Info("alert SSE handler stopped")
}

// handleGateChange broadcasts a gate snapshot to every connected client.
func (h *AlertStreamHandler) handleGateChange(snap alertapp.GateSnapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		h.logger.Error("failed to marshal gate snapshot", zap.Error(err))
		return
	}

	h.broadcast(SSEMessage{
		Event: "alert_state",
		Data:  string(data),
		ID:    fmt.Sprintf("%d", time.Now().UnixNano()),
	})
}

// broadcast sends a message to all connected clients
func (h *AlertStreamHandler) broadcast(msg SSEMessage) {
	h.clients.Range(func(key, value any) bool {
		client, ok := value.(*SSEClient)
		if !ok {
			return true
		}

		select {
		case client.Chan <- msg:
			h.logger.Debug("sent SSE message to client",
				zap.String("client_id", client.ID),
				zap.String("event", msg.Event))
		default:
			// Channel full, client might be slow
			h.logger.Warn("client channel full, dropping message",
				zap.String("client_id", client.ID))
		}
		return true
	})
}

// sendHeartbeats periodically sends heartbeat messages to keep connections alive
func (h *AlertStreamHandler) sendHeartbeats() {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
			h.broadcast(SSEMessage{
				Event: "heartbeat",
				Data:  fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()),
			})
		}
	}
}

// Stream establishes a Server-Sent Events connection carrying alert-gate
// state changes. The first event is the current snapshot, so clients
// render the open alert immediately after a reconnect.
func (h *AlertStreamHandler) Stream(c *gin.Context) {
	if h.maxClients > 0 && h.GetClientCount() >= h.maxClients {
		c.JSON(503, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MAX_CONNECTIONS_REACHED",
				"message": "Maximum number of SSE connections reached",
			},
		})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	sellerID := middleware.GetJWTSellerID(c)

	// Buffer size allows messages to queue without blocking broadcast
	const sseMessageBufferSize = 100
	client := &SSEClient{
		ID:       uuid.New().String(),
		SellerID: sellerID,
		Chan:     make(chan SSEMessage, sseMessageBufferSize),
		Done:     make(chan struct{}),
	}

	h.clients.Store(client.ID, client)
	defer func() {
		// The channel is never closed here. A broadcast racing this
		// disconnect may still hold a reference from clients.Range, and a
		// send on a closed channel would panic on the poller goroutine.
		// Deleting from the map is enough; the channel is collected once
		// the last sender drops its reference.
		h.clients.Delete(client.ID)
	}()

	h.logger.Info("SSE client connected",
		zap.String("client_id", client.ID),
		zap.String("seller_id", sellerID))

	// Current snapshot first so reconnecting clients catch up.
	if data, err := json.Marshal(h.gate.Snapshot()); err == nil {
		h.sendEvent(c.Writer, SSEMessage{Event: "alert_state", Data: string(data)})
		c.Writer.Flush()
	}

	reqCtx := c.Request.Context()

	for {
		select {
		case <-reqCtx.Done():
			h.logger.Info("SSE client disconnected (request context done)",
				zap.String("client_id", client.ID))
			return
		case <-client.Done:
			h.logger.Info("SSE client disconnected (done signal)",
				zap.String("client_id", client.ID))
			return
		case <-h.ctx.Done():
			h.logger.Info("SSE handler stopped, disconnecting client",
				zap.String("client_id", client.ID))
			return
		case msg := <-client.Chan:
			h.sendEvent(c.Writer, msg)
			c.Writer.Flush()
		}
	}
}

// sendEvent writes an SSE event to the response writer
func (h *AlertStreamHandler) sendEvent(w io.Writer, msg SSEMessage) {
	if msg.Event != "" {
		fmt.Fprintf(w, "event: %s\n", msg.Event)
	}
	if msg.ID != "" {
		fmt.Fprintf(w, "id: %s\n", msg.ID)
	}
	fmt.Fprintf(w, "data: %s\n\n", msg.Data)
}

// GetClientCount returns the number of connected SSE clients
func (h *AlertStreamHandler) GetClientCount() int {
	count := 0
	h.clients.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
