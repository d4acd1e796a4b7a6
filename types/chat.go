package types

// Chat roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn in a document's conversation history.
type ChatMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type ChatRequest struct {
	Query string `json:"query"`
}

type ChatResponse struct {
	DocumentID string `json:"document_id"`
	Query      string `json:"query"`
	Response   string `json:"response"`
}

type ChatHistoryResponse struct {
	DocumentID string        `json:"document_id"`
	Messages   []ChatMessage `json:"messages"`
}

const (
	TypeWebsocketPing  = "ping"
	TypeWebsocketPong  = "pong"
	TypeWebsocketChat  = "chat"
	TypeWebsocketError = "error"
)

type WebsocketRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebsocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebsocketChatPayload struct {
	Query string `json:"query"`
}

type WebsocketErrorPayload struct {
	Detail string `json:"detail"`
}
