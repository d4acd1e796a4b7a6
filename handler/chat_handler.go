package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docuchat/docuchat-be/service"
	"github.com/docuchat/docuchat-be/types"
)

type ChatHandler struct {
	documentService *service.DocumentService
}

func NewChatHandler(documentService *service.DocumentService) *ChatHandler {
	return &ChatHandler{
		documentService: documentService,
	}
}

// HandleChat answers a question about a completed document. The call is
// synchronous; the client waits for the model provider.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, types.NewValidationError("Invalid request body"))
		return
	}
	if req.Query == "" {
		respondError(c, types.NewValidationError("Query is required"))
		return
	}

	documentID := c.Param("documentId")
	response, err := h.documentService.Chat(c.Request.Context(), documentID, req.Query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.ChatResponse{
		DocumentID: documentID,
		Query:      req.Query,
		Response:   response,
	})
}
