// Package storage persists document records, uploaded files and chat
// history as flat files under the upload directory.
package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/docuchat/docuchat-be/logger"
	"github.com/docuchat/docuchat-be/types"
)

// DocumentStore reads and writes one JSON record per document plus one
// JSON chat history per document. There is no locking: concurrent writes
// to the same document id are last-write-wins.
type DocumentStore struct {
	uploadDir   string
	metadataDir string
	filesDir    string
	chatDir     string
}

func NewDocumentStore(uploadDir string) (*DocumentStore, error) {
	s := &DocumentStore{
		uploadDir:   uploadDir,
		metadataDir: filepath.Join(uploadDir, "metadata"),
		filesDir:    filepath.Join(uploadDir, "files"),
		chatDir:     filepath.Join(uploadDir, "chat"),
	}
	for _, dir := range []string{s.metadataDir, s.filesDir, s.chatDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	logger.Infof("Document store initialized with upload directory: %s", uploadDir)
	return s, nil
}

// SaveDocument copies the uploaded file under the document's own directory
// and writes the initial metadata record. Returns the stored file path.
func (s *DocumentStore) SaveDocument(documentID string, src io.Reader, filename string) (string, error) {
	docDir := filepath.Join(s.filesDir, documentID)
	if err := os.MkdirAll(docDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create document directory: %w", err)
	}

	destPath := filepath.Join(docDir, "document"+filepath.Ext(filename))
	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create document file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to copy document file: %w", err)
	}

	record := &types.DocumentRecord{
		DocumentID:   documentID,
		Filename:     filename,
		Type:         types.SourceTypeFile,
		OriginalPath: destPath,
		Status:       types.StatusUploaded,
		CreatedAt:    time.Now().Format(time.RFC3339),
	}
	if err := s.writeMetadata(documentID, record); err != nil {
		return "", err
	}
	return destPath, nil
}

// SaveURL writes the initial metadata record for a URL-sourced document.
// The filename is the URL's last path segment.
func (s *DocumentStore) SaveURL(documentID, url string) error {
	record := &types.DocumentRecord{
		DocumentID: documentID,
		Filename:   filepath.Base(url),
		Type:       types.SourceTypeURL,
		URL:        url,
		Status:     types.StatusUploaded,
		CreatedAt:  time.Now().Format(time.RFC3339),
	}
	return s.writeMetadata(documentID, record)
}

// UpdateDocument shallow-merges the given fields over the stored record
// and stamps updated_at. A missing record is logged and skipped, never an
// error: background tasks must not fail on a vanished document.
func (s *DocumentStore) UpdateDocument(documentID string, update types.DocumentUpdate) {
	record := s.GetDocument(documentID)
	if record == nil {
		logger.Errorf("Cannot update document, not found: %s", documentID)
		return
	}

	if update.Status != nil {
		record.Status = *update.Status
	}
	if update.Content != nil {
		record.Content = *update.Content
	}
	if update.DisplayContent != nil {
		record.DisplayContent = *update.DisplayContent
	}
	if update.Pages != nil {
		record.Pages = update.Pages
	}
	if update.Error != nil {
		record.Error = *update.Error
	}
	record.UpdatedAt = time.Now().Format(time.RFC3339)

	if err := s.writeMetadata(documentID, record); err != nil {
		logger.Error("Error saving updated metadata", err)
	}
}

// GetDocument returns the stored record, or nil when the record is absent
// or unreadable.
func (s *DocumentStore) GetDocument(documentID string) *types.DocumentRecord {
	data, err := os.ReadFile(s.metadataPath(documentID))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Error("Error reading metadata", err)
		}
		return nil
	}

	var record types.DocumentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		logger.Warnf("Malformed metadata for document %s: %v", documentID, err)
		return nil
	}
	return &record
}

// SaveChatMessage appends one turn to the document's chat history. Read
// and write errors are logged, not returned; an unreadable history starts
// over empty.
func (s *DocumentStore) SaveChatMessage(documentID, role, content string) {
	docChatDir := filepath.Join(s.chatDir, documentID)
	if err := os.MkdirAll(docChatDir, 0755); err != nil {
		logger.Error("Error creating chat directory", err)
		return
	}

	history := s.GetChatHistory(documentID)
	history = append(history, types.ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().Format(time.RFC3339),
	})

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		logger.Error("Error marshaling chat history", err)
		return
	}
	if err := os.WriteFile(filepath.Join(docChatDir, "chat_history.json"), data, 0644); err != nil {
		logger.Error("Error saving chat history", err)
	}
}

// GetChatHistory returns the persisted turns in insertion order, or an
// empty slice when there is no history or it is unreadable.
func (s *DocumentStore) GetChatHistory(documentID string) []types.ChatMessage {
	chatFile := filepath.Join(s.chatDir, documentID, "chat_history.json")
	data, err := os.ReadFile(chatFile)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Error("Error reading chat history", err)
		}
		return []types.ChatMessage{}
	}

	var history []types.ChatMessage
	if err := json.Unmarshal(data, &history); err != nil {
		logger.Error("Error parsing chat history", err)
		return []types.ChatMessage{}
	}
	return history
}

func (s *DocumentStore) writeMetadata(documentID string, record *types.DocumentRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(s.metadataPath(documentID), data, 0644); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	return nil
}

func (s *DocumentStore) metadataPath(documentID string) string {
	return filepath.Join(s.metadataDir, documentID+".json")
}
