package service

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// NoContentResponse is returned as a normal answer when a document has no
// usable content. Callers must treat it as text, not a failure.
const NoContentResponse = "Error: No document content available to answer your question."

// minContextLength is the shortest document content worth answering over.
const minContextLength = 10

// AIService answers a question about a document given its extracted text.
// Provider failures come back as an answer string prefixed with
// "Error generating response: ", never as an error. The string-prefix
// convention is a known fragility kept for compatibility with existing
// clients.
type AIService interface {
	GenerateResponse(ctx context.Context, documentContent, query string) string
}

// contentTooShort reports whether the document content is below the
// answering threshold. Counted in characters, not bytes, so multibyte
// text is not over-counted.
func contentTooShort(documentContent string) bool {
	return utf8.RuneCountInString(documentContent) < minContextLength
}

func buildPrompt(documentContent, query string) string {
	return fmt.Sprintf(`I have a document with the following content:

%s

Based on this document, please answer the following question:
%s

If you can find information related to the query in the document, please answer based on that information.
If the document doesn't specifically mention the exact information asked, please try to infer from related content or clearly state that the specific information isn't available in the document.`,
		documentContent, query)
}
