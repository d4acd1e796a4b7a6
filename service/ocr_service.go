package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/docuchat/docuchat-be/logger"
	"github.com/docuchat/docuchat-be/types"
)

const defaultMistralBaseURL = "https://api.mistral.ai/v1"

const ocrModel = "mistral-ocr-latest"

// Document source types accepted by the OCR endpoint.
const (
	SourceDocumentURL = "document_url"
	SourceImageURL    = "image_url"
)

// DocumentSource points the OCR provider at a document: a URL or signed
// reference for PDFs, a data URL or remote URL for images.
type DocumentSource struct {
	Type string
	URL  string
}

// OCRService wraps the Mistral OCR API. One synchronous call per
// document, no retries, documents are sent whole.
type OCRService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewOCRService(apiKey string) *OCRService {
	return &OCRService{
		apiKey:     apiKey,
		baseURL:    defaultMistralBaseURL,
		httpClient: http.DefaultClient,
	}
}

type fileUploadResponse struct {
	ID string `json:"id"`
}

type signedURLResponse struct {
	URL string `json:"url"`
}

type ocrRequest struct {
	Model              string      `json:"model"`
	Document           ocrDocument `json:"document"`
	IncludeImageBase64 bool        `json:"include_image_base64"`
}

type ocrDocument struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

type ocrResponse struct {
	Pages []ocrPage `json:"pages"`
}

type ocrPage struct {
	Index    int        `json:"index"`
	Markdown string     `json:"markdown"`
	Images   []ocrImage `json:"images"`
}

type ocrImage struct {
	ID          string `json:"id"`
	ImageBase64 string `json:"image_base64"`
}

// UploadPDF uploads binary content to the provider and returns a signed
// URL referencing it for a later OCR call.
func (s *OCRService) UploadPDF(ctx context.Context, content []byte, filename string) (string, error) {
	logger.Infof("Uploading PDF: %s", filename)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("purpose", "ocr"); err != nil {
		return "", types.NewServiceError(fmt.Sprintf("Error uploading PDF: %v", err))
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", types.NewServiceError(fmt.Sprintf("Error uploading PDF: %v", err))
	}
	if _, err := part.Write(content); err != nil {
		return "", types.NewServiceError(fmt.Sprintf("Error uploading PDF: %v", err))
	}
	if err := writer.Close(); err != nil {
		return "", types.NewServiceError(fmt.Sprintf("Error uploading PDF: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/files", &body)
	if err != nil {
		return "", types.NewServiceError(fmt.Sprintf("Error uploading PDF: %v", err))
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	var upload fileUploadResponse
	if err := s.do(req, &upload); err != nil {
		return "", types.NewServiceError(fmt.Sprintf("Error uploading PDF: %v", err))
	}

	signedReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/files/"+upload.ID+"/url", nil)
	if err != nil {
		return "", types.NewServiceError(fmt.Sprintf("Error uploading PDF: %v", err))
	}
	signedReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	var signed signedURLResponse
	if err := s.do(signedReq, &signed); err != nil {
		return "", types.NewServiceError(fmt.Sprintf("Error uploading PDF: %v", err))
	}

	logger.Info("PDF uploaded successfully, signed URL obtained")
	return signed.URL, nil
}

// ProcessOCR runs the provider's OCR over the given source and returns
// the per-page results in page order.
func (s *OCRService) ProcessOCR(ctx context.Context, source DocumentSource) ([]types.PageContent, error) {
	logger.Infof("Processing OCR for document source type: %s", source.Type)

	doc := ocrDocument{Type: source.Type}
	switch source.Type {
	case SourceDocumentURL:
		doc.DocumentURL = source.URL
	case SourceImageURL:
		doc.ImageURL = source.URL
	default:
		return nil, types.NewServiceError(fmt.Sprintf("Unsupported document source type: %s", source.Type))
	}

	payload, err := json.Marshal(ocrRequest{
		Model:              ocrModel,
		Document:           doc,
		IncludeImageBase64: true,
	})
	if err != nil {
		return nil, types.NewServiceError(fmt.Sprintf("Error processing OCR: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/ocr", bytes.NewReader(payload))
	if err != nil {
		return nil, types.NewServiceError(fmt.Sprintf("Error processing OCR: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	var result ocrResponse
	if err := s.do(req, &result); err != nil {
		return nil, types.NewServiceError(fmt.Sprintf("Error processing OCR: %v", err))
	}

	pages := make([]types.PageContent, 0, len(result.Pages))
	for _, page := range result.Pages {
		images := make(map[string]string, len(page.Images))
		for _, img := range page.Images {
			images[img.ID] = img.ImageBase64
		}
		pages = append(pages, types.PageContent{
			PageNumber: page.Index + 1,
			Markdown:   page.Markdown,
			Images:     images,
		})
	}
	return pages, nil
}

func (s *OCRService) do(req *http.Request, out interface{}) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
