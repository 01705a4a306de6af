package chatbot

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nixrix/site-api/internal/observability/metrics"
	"github.com/nixrix/site-api/pkg/logging"
	"golang.org/x/net/websocket"
)

// Handler serves the site chat widget: canned replies over HTTP and an
// optional WebSocket path for the same rule table.
type Handler struct {
	responder *Responder
	metrics   *metrics.LeadMetrics
	logger    *logging.Logger
	now       func() time.Time
}

// InboundMessage is what the widget sends over the WebSocket.
type InboundMessage struct {
	Type      string `json:"type"` // "message", "ping"
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// OutboundMessage is what we send back to the widget.
type OutboundMessage struct {
	Type      string `json:"type"` // "message", "typing", "session", "pong", "error"
	Text      string `json:"text,omitempty"`
	Role      string `json:"role,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// NewHandler creates a chat widget handler.
func NewHandler(responder *Responder, m *metrics.LeadMetrics, logger *logging.Logger) *Handler {
	if responder == nil {
		responder = NewResponder()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		responder: responder,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// generateSessionID creates a random session identifier.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// HandleReply is the HTTP path for the widget: one message in, one
// canned reply out.
func (h *Handler) HandleReply(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Text      string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = generateSessionID()
	}

	reply, rule := h.responder.Reply(req.Text)
	h.metrics.ObserveChatReply(rule)
	h.logger.Info("chat: replied", "rule", rule, "session_id", req.SessionID)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"reply":      reply,
		"rule":       rule,
		"session_id": req.SessionID,
	})
}

// HandleQuickReplies returns the widget's suggestion chips.
func (h *Handler) HandleQuickReplies(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]string{
		"quick_replies": h.responder.QuickReplies(),
	})
}

// HandleWebSocket upgrades to WebSocket and answers messages in real time.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = generateSessionID()
	}

	_ = websocket.JSON.Send(conn, OutboundMessage{
		Type:      "session",
		SessionID: sessionID,
	})

	h.logger.Info("chat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("chat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		}

		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "typing"})

		reply, rule := h.responder.Reply(msg.Text)
		h.metrics.ObserveChatReply(rule)

		_ = websocket.JSON.Send(conn, OutboundMessage{
			Type:      "message",
			Role:      "assistant",
			Text:      reply,
			Timestamp: h.now().UTC().Format(time.RFC3339),
		})
	}
}
