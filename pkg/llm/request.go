package llm

// ChatRequest is the body forwarded to the upstream chat-completion endpoint.
type ChatRequest struct {
	Messages []Message `json:"messages"` // Sanitized conversation, oldest first
}
