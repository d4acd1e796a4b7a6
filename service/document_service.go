package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/docuchat/docuchat-be/logger"
	"github.com/docuchat/docuchat-be/storage"
	"github.com/docuchat/docuchat-be/types"
)

var supportedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

const pageDivider = "----------"

// OCRProcessor is the slice of the OCR adapter the lifecycle needs.
type OCRProcessor interface {
	UploadPDF(ctx context.Context, content []byte, filename string) (string, error)
	ProcessOCR(ctx context.Context, source DocumentSource) ([]types.PageContent, error)
}

// DocumentService drives the document lifecycle: submission, the
// fire-and-forget OCR task, and chat exchanges.
type DocumentService struct {
	store         *storage.DocumentStore
	ocr           OCRProcessor
	ai            AIService
	maxUploadSize int64
}

func NewDocumentService(store *storage.DocumentStore, ocr OCRProcessor, ai AIService, maxUploadSize int64) *DocumentService {
	return &DocumentService{
		store:         store,
		ocr:           ocr,
		ai:            ai,
		maxUploadSize: maxUploadSize,
	}
}

// SubmitFile validates and stores an uploaded file, schedules OCR in the
// background and returns immediately. The response says "processing"
// while the fresh record still says "uploaded"; the background task is
// the only writer that advances it.
func (s *DocumentService) SubmitFile(file *multipart.FileHeader) (*types.DocumentResponse, error) {
	logger.Infof("Processing uploaded file: %s", file.Filename)

	if file.Size > s.maxUploadSize {
		return nil, types.NewValidationError(fmt.Sprintf("File too large. Maximum size is %gMB", float64(s.maxUploadSize)/(1024*1024)))
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !supportedExtensions[ext] {
		return nil, types.NewValidationError("Only PDF and image files (PNG, JPG) are supported")
	}

	src, err := file.Open()
	if err != nil {
		return nil, types.NewServiceError(fmt.Sprintf("Error processing document: %v", err))
	}
	defer src.Close()

	documentID := uuid.NewString()
	documentPath, err := s.store.SaveDocument(documentID, src, file.Filename)
	if err != nil {
		return nil, types.NewServiceError(fmt.Sprintf("Error processing document: %v", err))
	}

	go s.processDocument(documentID, documentPath, file.Filename)

	return &types.DocumentResponse{
		DocumentID: documentID,
		Filename:   file.Filename,
		Status:     types.StatusProcessing,
		Message:    "Document uploaded and OCR processing started",
	}, nil
}

// SubmitURL stores a URL-sourced document and schedules OCR against the
// URL directly.
func (s *DocumentService) SubmitURL(url string) (*types.DocumentResponse, error) {
	logger.Infof("Processing document from URL: %s", url)

	if url == "" {
		return nil, types.NewValidationError("URL is required")
	}

	documentID := uuid.NewString()
	if err := s.store.SaveURL(documentID, url); err != nil {
		return nil, types.NewServiceError(fmt.Sprintf("Error processing document URL: %v", err))
	}

	go s.processURL(documentID, url)

	return &types.DocumentResponse{
		DocumentID: documentID,
		Filename:   filepath.Base(url),
		Status:     types.StatusProcessing,
		Message:    "Document URL submitted and OCR processing started",
	}, nil
}

// GetDocument returns the full stored record.
func (s *DocumentService) GetDocument(documentID string) (*types.DocumentRecord, error) {
	record := s.store.GetDocument(documentID)
	if record == nil {
		return nil, types.NewNotFoundError("Document not found")
	}
	return record, nil
}

// GetChatHistory returns the document's conversation in order.
func (s *DocumentService) GetChatHistory(documentID string) ([]types.ChatMessage, error) {
	if s.store.GetDocument(documentID) == nil {
		return nil, types.NewNotFoundError("Document not found")
	}
	return s.store.GetChatHistory(documentID), nil
}

// Chat answers a question about a completed document and appends both
// turns to the history. The answer may itself be an adapter error string;
// it is stored and returned like any other answer.
func (s *DocumentService) Chat(ctx context.Context, documentID, query string) (string, error) {
	logger.Infof("Chat request for document: %s", documentID)

	record := s.store.GetDocument(documentID)
	if record == nil {
		return "", types.NewNotFoundError("Document not found")
	}
	if record.Status != types.StatusCompleted {
		return "", types.NewValidationError(fmt.Sprintf("Document processing not completed. Current status: %s", record.Status))
	}
	if record.Content == "" {
		return "", types.NewValidationError("No document content available")
	}

	response := s.ai.GenerateResponse(ctx, record.Content, query)

	s.store.SaveChatMessage(documentID, types.RoleUser, query)
	s.store.SaveChatMessage(documentID, types.RoleAssistant, response)

	return response, nil
}

// processDocument is the background OCR task for an uploaded file. It
// never returns an error: every failure is terminal and recorded on the
// document itself.
func (s *DocumentService) processDocument(documentID, filePath, filename string) {
	logger.Infof("Starting OCR processing for document: %s", documentID)
	s.setStatus(documentID, types.StatusProcessing)

	ctx := context.Background()
	content, err := os.ReadFile(filePath)
	if err != nil {
		s.failDocument(documentID, err)
		return
	}

	ext := strings.ToLower(filepath.Ext(filename))
	var pages []types.PageContent
	if ext == ".pdf" {
		signedURL, err := s.ocr.UploadPDF(ctx, content, filename)
		if err != nil {
			s.failDocument(documentID, err)
			return
		}
		pages, err = s.ocr.ProcessOCR(ctx, DocumentSource{Type: SourceDocumentURL, URL: signedURL})
		if err != nil {
			s.failDocument(documentID, err)
			return
		}
	} else {
		imageURL := fmt.Sprintf("data:image/%s;base64,%s", strings.TrimPrefix(ext, "."), base64.StdEncoding.EncodeToString(content))
		pages, err = s.ocr.ProcessOCR(ctx, DocumentSource{Type: SourceImageURL, URL: imageURL})
		if err != nil {
			s.failDocument(documentID, err)
			return
		}
	}

	s.completeDocument(documentID, pages)
	logger.Infof("OCR processing completed for document: %s", documentID)
}

// processURL is the background OCR task for a URL-sourced document.
func (s *DocumentService) processURL(documentID, url string) {
	logger.Infof("Starting OCR processing for URL: %s, document ID: %s", url, documentID)
	s.setStatus(documentID, types.StatusProcessing)

	pages, err := s.ocr.ProcessOCR(context.Background(), DocumentSource{Type: SourceDocumentURL, URL: url})
	if err != nil {
		s.failDocument(documentID, err)
		return
	}

	s.completeDocument(documentID, pages)
	logger.Infof("OCR processing completed for URL document: %s", documentID)
}

func (s *DocumentService) completeDocument(documentID string, pages []types.PageContent) {
	content, displayContent := joinPages(pages)
	status := types.StatusCompleted
	s.store.UpdateDocument(documentID, types.DocumentUpdate{
		Status:         &status,
		Content:        &content,
		DisplayContent: &displayContent,
		Pages:          pages,
	})
}

func (s *DocumentService) failDocument(documentID string, err error) {
	logger.Errorf("Error in OCR processing for document %s: %v", documentID, err)
	status := types.StatusFailed
	detail := err.Error()
	s.store.UpdateDocument(documentID, types.DocumentUpdate{
		Status: &status,
		Error:  &detail,
	})
}

func (s *DocumentService) setStatus(documentID, status string) {
	s.store.UpdateDocument(documentID, types.DocumentUpdate{Status: &status})
}

// joinPages builds the plain content (pages joined by blank lines) and
// the display content ("Page N:" headers separated by dividers). Page
// numbers follow the provider's page order; empty pages are skipped.
func joinPages(pages []types.PageContent) (content, displayContent string) {
	for i, page := range pages {
		pageContent := strings.TrimSpace(page.Markdown)
		if pageContent == "" {
			continue
		}
		content += pageContent + "\n\n"
		displayContent += fmt.Sprintf("Page %d:\n%s\n\n%s\n\n", i+1, pageContent, pageDivider)
	}
	return content, displayContent
}
