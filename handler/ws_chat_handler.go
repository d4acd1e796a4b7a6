package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/docuchat/docuchat-be/logger"
	"github.com/docuchat/docuchat-be/service"
	"github.com/docuchat/docuchat-be/types"
)

// WsChatHandler serves the chat exchange over a websocket, one document
// per connection. Frames are typed: "chat" carries a query, "ping" gets
// a "pong", validation failures come back as "error" frames.
type WsChatHandler struct {
	documentService *service.DocumentService
	upgrader        websocket.Upgrader
}

func NewWsChatHandler(documentService *service.DocumentService) *WsChatHandler {
	return &WsChatHandler{
		documentService: documentService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

func (h *WsChatHandler) HandleChat(c *gin.Context) {
	documentID := c.Param("documentId")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("Upgrade error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512 * 1024)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Error("WebSocket read error", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			h.writeError(conn, "Invalid message")
			continue
		}

		switch req.Type {
		case types.TypeWebsocketChat:
			payloadBytes, err := json.Marshal(req.Payload)
			if err != nil {
				h.writeError(conn, "Invalid message")
				continue
			}
			var payload types.WebsocketChatPayload
			if err := json.Unmarshal(payloadBytes, &payload); err != nil || payload.Query == "" {
				h.writeError(conn, "Query is required")
				continue
			}

			response, err := h.documentService.Chat(c.Request.Context(), documentID, payload.Query)
			if err != nil {
				var appErr *types.AppError
				if errors.As(err, &appErr) {
					h.writeError(conn, appErr.Detail)
				} else {
					h.writeError(conn, err.Error())
				}
				continue
			}
			if err := conn.WriteJSON(types.WebsocketResponse{
				Type: types.TypeWebsocketChat,
				Payload: types.ChatResponse{
					DocumentID: documentID,
					Query:      payload.Query,
					Response:   response,
				},
			}); err != nil {
				logger.Error("Write error", err)
			}
		case types.TypeWebsocketPing:
			if err := conn.WriteJSON(types.WebsocketResponse{Type: types.TypeWebsocketPong}); err != nil {
				logger.Error("Write error", err)
			}
		default:
			h.writeError(conn, "Invalid message type")
		}
	}
}

func (h *WsChatHandler) writeError(conn *websocket.Conn, detail string) {
	if err := conn.WriteJSON(types.WebsocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: types.WebsocketErrorPayload{Detail: detail},
	}); err != nil {
		logger.Error("Write error", err)
	}
}
