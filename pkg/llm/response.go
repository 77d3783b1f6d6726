package llm

// Response is the only body the chat route ever returns, on success and on failure.
type Response struct {
	Content string `json:"content"`
}
