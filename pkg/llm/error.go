// Package llm holds the wire types exchanged between the browser, the gateway and the
// upstream chat-completion provider.
package llm

// ErrorResponse is the envelope for routes other than the chat route, which never
// returns an error shape.
type ErrorResponse struct {
	Error string `json:"error"`
}
