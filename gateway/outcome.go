package gateway

import (
	"fmt"

	"github.com/miguagnxin/web-Joeyllmcahtinterface/pkg/llm"
)

// WarningMarker prefixes every diagnostic line returned to the client.
const WarningMarker = "⚠️ "

// Kind classifies how a request ended.
type Kind int

const (
	KindOK Kind = iota
	KindMalformedRequest
	KindInvalidPayload
	KindEmptyConversation
	KindUpstreamTimeout
	KindUpstreamHTTPError
	KindUpstreamNonJSON
	KindUpstreamNetworkFault
	KindInternal
)

var kindNames = map[Kind]string{
	KindOK:                   "ok",
	KindMalformedRequest:     "malformed_request",
	KindInvalidPayload:       "invalid_payload",
	KindEmptyConversation:    "empty_conversation",
	KindUpstreamTimeout:      "upstream_timeout",
	KindUpstreamHTTPError:    "upstream_http_error",
	KindUpstreamNonJSON:      "upstream_non_json",
	KindUpstreamNetworkFault: "upstream_network_fault",
	KindInternal:             "internal",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Fixed user-visible texts. The warning marker is added when rendering.
const (
	MsgInvalidJSON     = "Invalid JSON in request."
	MsgInvalidPayload  = "Invalid payload: 'messages' must be an array."
	MsgNoValidMessages = "No valid messages to send."
	MsgTimeout         = "Joey API request timed out. Please try again."
	MsgNonJSON         = "Unexpected non-JSON response from Joey API."
	MsgNetworkError    = "Network error calling Joey API. Please try again."
	MsgNoResponse      = "Sorry, I cannot generate a response."
	MsgInternal        = "Something went wrong handling your message. Please try again."
	MsgBodyTooLarge    = "Message is too large to send."
)

// Outcome is the result of one request before it is rendered for the client.
type Outcome struct {
	Kind Kind
	Text string
}

func ok(text string) Outcome {
	return Outcome{Kind: KindOK, Text: text}
}

func fail(kind Kind, text string) Outcome {
	return Outcome{Kind: kind, Text: text}
}

// Failed reports whether o carries a diagnostic rather than an assistant reply.
func (o Outcome) Failed() bool {
	return o.Kind != KindOK
}

// Response renders o into the single shape the chat route returns.
func (o Outcome) Response() llm.Response {
	if o.Failed() {
		return llm.Response{Content: WarningMarker + o.Text}
	}
	return llm.Response{Content: o.Text}
}

// Warning renders a diagnostic response outside of a gateway call, for example when the
// HTTP layer rejects a request before the gateway sees it.
func Warning(text string) llm.Response {
	return fail(KindInternal, text).Response()
}

func upstreamStatusText(status int, statusText string) string {
	if statusText == "" {
		return fmt.Sprintf("Joey API error: %d", status)
	}
	return fmt.Sprintf("Joey API error: %d %s", status, statusText)
}
