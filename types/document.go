package types

// Document lifecycle statuses. A record only moves forward:
// uploaded -> processing -> completed | failed.
const (
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Document source types
const (
	SourceTypeFile = "file"
	SourceTypeURL  = "url"
)

// DocumentRecord is the persisted state of one submitted document.
type DocumentRecord struct {
	DocumentID     string        `json:"document_id"`
	Filename       string        `json:"filename"`
	Type           string        `json:"type"`
	OriginalPath   string        `json:"original_path,omitempty"`
	URL            string        `json:"url,omitempty"`
	Status         string        `json:"status"`
	Content        string        `json:"content,omitempty"`
	DisplayContent string        `json:"display_content,omitempty"`
	Pages          []PageContent `json:"pages,omitempty"`
	Error          string        `json:"error,omitempty"`
	CreatedAt      string        `json:"created_at"`
	UpdatedAt      string        `json:"updated_at,omitempty"`
}

// PageContent is one OCR page as returned by the provider.
type PageContent struct {
	PageNumber int               `json:"page_number"`
	Markdown   string            `json:"markdown"`
	Images     map[string]string `json:"images,omitempty"`
}

// DocumentUpdate carries the fields a merge-update may set on a record.
// Nil pointers leave the stored value untouched.
type DocumentUpdate struct {
	Status         *string
	Content        *string
	DisplayContent *string
	Pages          []PageContent
	Error          *string
}
