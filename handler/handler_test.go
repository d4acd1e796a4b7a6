package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docuchat/docuchat-be/service"
	"github.com/docuchat/docuchat-be/storage"
	"github.com/docuchat/docuchat-be/types"
)

type stubOCR struct {
	pages []types.PageContent
}

func (s *stubOCR) UploadPDF(ctx context.Context, content []byte, filename string) (string, error) {
	return "https://signed.example.com/f1", nil
}

func (s *stubOCR) ProcessOCR(ctx context.Context, source service.DocumentSource) ([]types.PageContent, error) {
	return s.pages, nil
}

type stubAI struct {
	response string
}

func (s *stubAI) GenerateResponse(ctx context.Context, documentContent, query string) string {
	return s.response
}

func newTestRouter(t *testing.T) (*gin.Engine, *storage.DocumentStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.NewDocumentStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDocumentStore() error = %v", err)
	}
	documentService := service.NewDocumentService(
		store,
		&stubOCR{pages: []types.PageContent{{PageNumber: 1, Markdown: "page text"}}},
		&stubAI{response: "stub answer"},
		1<<20,
	)

	documentHandler := NewDocumentHandler(documentService)
	chatHandler := NewChatHandler(documentService)
	healthHandler := NewHealthHandler()

	router := gin.New()
	api := router.Group("/api")
	{
		documents := api.Group("/documents")
		{
			documents.POST("/upload", documentHandler.UploadDocument)
			documents.POST("/process-url", documentHandler.ProcessURL)
			documents.GET("/:documentId", documentHandler.GetDocument)
			documents.GET("/:documentId/history", documentHandler.GetChatHistory)
		}
		api.POST("/chat/:documentId", chatHandler.HandleChat)
	}
	router.GET("/health", healthHandler.HealthCheck)

	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not an error body: %s", w.Body.String())
	}
	return resp.Detail
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"healthy"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestUploadDocument(t *testing.T) {
	router, store := newTestRouter(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "report.pdf")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("%PDF-1.4"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp types.DocumentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != types.StatusProcessing {
		t.Errorf("status = %q, want %q", resp.Status, types.StatusProcessing)
	}
	if resp.Filename != "report.pdf" {
		t.Errorf("filename = %q", resp.Filename)
	}

	// The record exists immediately; the background task completes it.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if record := store.GetDocument(resp.DocumentID); record != nil && record.Status == types.StatusCompleted {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("document %s never completed", resp.DocumentID)
}

func TestUploadDocument_MissingFile(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/documents/upload", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if detail := decodeDetail(t, w); detail != "Invalid file" {
		t.Errorf("detail = %q", detail)
	}
}

func TestUploadDocument_UnsupportedType(t *testing.T) {
	router, _ := newTestRouter(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile("file", "notes.docx")
	part.Write([]byte("word doc"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if detail := decodeDetail(t, w); !strings.Contains(detail, "Only PDF and image files") {
		t.Errorf("detail = %q", detail)
	}
}

func TestProcessURL_EmptyURL(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/documents/process-url", types.ProcessURLRequest{URL: ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/documents/no-such-id", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if detail := decodeDetail(t, w); detail != "Document not found" {
		t.Errorf("detail = %q", detail)
	}
}

func TestGetDocument(t *testing.T) {
	router, store := newTestRouter(t)
	if err := store.SaveURL("doc-1", "https://example.com/a.pdf"); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, router, http.MethodGet, "/api/documents/doc-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var record types.DocumentRecord
	if err := json.Unmarshal(w.Body.Bytes(), &record); err != nil {
		t.Fatal(err)
	}
	if record.DocumentID != "doc-1" || record.Status != types.StatusUploaded {
		t.Errorf("record = %+v", record)
	}
}

func TestChat(t *testing.T) {
	router, store := newTestRouter(t)
	if err := store.SaveURL("doc-1", "https://example.com/a.pdf"); err != nil {
		t.Fatal(err)
	}
	status := types.StatusCompleted
	content := "long enough document content"
	store.UpdateDocument("doc-1", types.DocumentUpdate{Status: &status, Content: &content})

	w := doJSON(t, router, http.MethodPost, "/api/chat/doc-1", types.ChatRequest{Query: "what is it?"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp types.ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.DocumentID != "doc-1" || resp.Query != "what is it?" || resp.Response != "stub answer" {
		t.Errorf("response = %+v", resp)
	}
}

func TestChat_NotFoundWritesNoTurns(t *testing.T) {
	router, store := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/chat/no-such-id", types.ChatRequest{Query: "hello?"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if history := store.GetChatHistory("no-such-id"); len(history) != 0 {
		t.Errorf("chat turns written for missing document: %+v", history)
	}
}

func TestChat_EmptyQuery(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/chat/doc-1", types.ChatRequest{Query: ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGetChatHistory(t *testing.T) {
	router, store := newTestRouter(t)
	if err := store.SaveURL("doc-1", "https://example.com/a.pdf"); err != nil {
		t.Fatal(err)
	}
	store.SaveChatMessage("doc-1", types.RoleUser, "hi")
	store.SaveChatMessage("doc-1", types.RoleAssistant, "hello")

	w := doJSON(t, router, http.MethodGet, "/api/documents/doc-1/history", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp types.ChatHistoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(resp.Messages))
	}
	if resp.Messages[0].Role != types.RoleUser || resp.Messages[1].Role != types.RoleAssistant {
		t.Errorf("messages = %+v", resp.Messages)
	}
}

func TestGetChatHistory_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/documents/no-such-id/history", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
