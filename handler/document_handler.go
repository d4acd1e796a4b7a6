package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docuchat/docuchat-be/service"
	"github.com/docuchat/docuchat-be/types"
)

type DocumentHandler struct {
	documentService *service.DocumentService
}

func NewDocumentHandler(documentService *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

// UploadDocument accepts a multipart file (PDF or image) and starts OCR
// processing in the background.
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, types.NewValidationError("Invalid file"))
		return
	}

	resp, err := h.documentService.SubmitFile(file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ProcessURL submits a remote document URL for OCR processing.
func (h *DocumentHandler) ProcessURL(c *gin.Context) {
	var req types.ProcessURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, types.NewValidationError("Invalid request body"))
		return
	}

	resp, err := h.documentService.SubmitURL(req.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetDocument returns the full stored record, including OCR results once
// the background task has finished.
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	record, err := h.documentService.GetDocument(c.Param("documentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetChatHistory returns the document's conversation in order.
func (h *DocumentHandler) GetChatHistory(c *gin.Context) {
	documentID := c.Param("documentId")
	messages, err := h.documentService.GetChatHistory(documentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.ChatHistoryResponse{
		DocumentID: documentID,
		Messages:   messages,
	})
}
