package gateway

import (
	"encoding/json"

	"github.com/miguagnxin/web-Joeyllmcahtinterface/pkg/llm"
)

// parseConversation decodes a raw chat request and returns the turns that are safe to
// forward. A non-OK outcome means the request must not reach the upstream.
func parseConversation(raw []byte) ([]llm.Message, Outcome) {
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fail(KindMalformedRequest, MsgInvalidJSON)
	}

	obj, _ := body.(map[string]any)
	items, isArray := obj["messages"].([]any)
	if !isArray {
		return nil, fail(KindInvalidPayload, MsgInvalidPayload)
	}

	msgs := sanitize(items)
	if len(msgs) == 0 {
		return nil, fail(KindEmptyConversation, MsgNoValidMessages)
	}
	return msgs, ok("")
}

// sanitize keeps the turns with a known role and string content, in order. Anything
// else on a turn is dropped.
func sanitize(items []any) []llm.Message {
	msgs := make([]llm.Message, 0, len(items))
	for _, item := range items {
		turn, isObject := item.(map[string]any)
		if !isObject {
			continue
		}
		role, _ := turn["role"].(string)
		content, isString := turn["content"].(string)
		if !llm.Role(role).Valid() || !isString {
			continue
		}
		msgs = append(msgs, llm.Message{Role: llm.Role(role), Content: content})
	}
	return msgs
}
