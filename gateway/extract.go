package gateway

// Extractor pulls a string out of a decoded upstream body. The bool is false when the
// shape it looks for is absent.
type Extractor func(body any) (string, bool)

// ReplyExtractors are tried in order against a successful upstream body. The first
// present string wins, even when it is empty.
var ReplyExtractors = []Extractor{
	choicesMessageContent,
	flatContent,
}

// ErrorExtractors are tried in order against an error upstream body. Empty strings
// are skipped.
var ErrorExtractors = []Extractor{
	nonEmpty(nestedErrorMessage),
	nonEmpty(flatMessage),
}

func firstOf(extractors []Extractor, body any) (string, bool) {
	for _, extract := range extractors {
		if s, found := extract(body); found {
			return s, true
		}
	}
	return "", false
}

// choicesMessageContent reads the OpenAI shape {"choices":[{"message":{"content":...}}]}.
func choicesMessageContent(body any) (string, bool) {
	choices, _ := field(body, "choices").([]any)
	if len(choices) == 0 {
		return "", false
	}
	return stringField(field(choices[0], "message"), "content")
}

// flatContent reads {"content":...}.
func flatContent(body any) (string, bool) {
	return stringField(body, "content")
}

// nestedErrorMessage reads {"error":{"message":...}}.
func nestedErrorMessage(body any) (string, bool) {
	return stringField(field(body, "error"), "message")
}

// flatMessage reads {"message":...}.
func flatMessage(body any) (string, bool) {
	return stringField(body, "message")
}

func nonEmpty(extract Extractor) Extractor {
	return func(body any) (string, bool) {
		s, found := extract(body)
		return s, found && s != ""
	}
}

func field(v any, key string) any {
	obj, _ := v.(map[string]any)
	return obj[key]
}

func stringField(v any, key string) (string, bool) {
	s, isString := field(v, key).(string)
	return s, isString
}
