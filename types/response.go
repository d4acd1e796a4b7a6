package types

// DocumentResponse is returned by the upload and process-url endpoints.
// Status is always "processing" here even though the record starts out
// as "uploaded"; the background task is the only writer that advances it.
type DocumentResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	Message    string `json:"message"`
	Error      string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
