package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/futureforceai/careerprep/internal/models"
	"github.com/futureforceai/careerprep/internal/services"
	"github.com/futureforceai/careerprep/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSHandler runs an interview session over a WebSocket: each user_message
// frame goes through the same relay as the HTTP chat endpoint, and the
// canonical message list comes back.
type WSHandler struct {
	svc      services.InterviewService
	upgrader websocket.Upgrader
}

func NewWSHandler(svc services.InterviewService) *WSHandler {
	return &WSHandler{
		svc: svc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type wsClientMsg struct {
	Type string `json:"type"` // user_message
	Text string `json:"text"`
}

type wsServerMsg struct {
	Type     string               `json:"type"` // messages | error
	Messages []models.ChatMessage `json:"messages,omitempty"`
	Code     utils.Code           `json:"code,omitempty"`
	Message  string               `json:"message,omitempty"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (h *WSHandler) SessionWS(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")
	if sessionID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "WSHandler.SessionWS", "missing session_id", nil))
		return
	}

	// authorize before upgrading
	if _, err := h.svc.Get(c.Request.Context(), userID, sessionID); err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}

	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, data, rerr := conn.ReadMessage()
		if rerr != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var msg wsClientMsg
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "user_message" || msg.Text == "" {
			_ = wc.writeJSON(wsServerMsg{
				Type:    "error",
				Code:    utils.CodeInvalidArgument,
				Message: "expected {\"type\":\"user_message\",\"text\":...}",
			})
			continue
		}

		messages, cerr := h.svc.Chat(c.Request.Context(), userID, sessionID, msg.Text)
		if cerr != nil {
			out := wsServerMsg{Type: "error", Code: utils.CodeInternal, Message: "chat failed"}
			var ae *utils.AppError
			if errors.As(cerr, &ae) {
				out.Code = ae.Code
				out.Message = ae.Message
			}
			_ = wc.writeJSON(out)
			continue
		}

		_ = wc.writeJSON(wsServerMsg{Type: "messages", Messages: messages})
	}
}
