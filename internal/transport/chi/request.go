package chi

import (
	"encoding/json"
	"strings"
)

const roleUser = "user"

// chatRequest keeps fields raw: clients send loosely typed payloads and
// anything of the wrong shape is ignored rather than rejected.
type chatRequest struct {
	Query    json.RawMessage `json:"query"`
	Messages json.RawMessage `json:"messages"`
}

type chatMessage struct {
	Role    json.RawMessage `json:"role"`
	Content json.RawMessage `json:"content"`
}

// extractQuery returns the explicit query, or else the content of the most
// recent user-authored message. A message without a string role counts as
// user-authored. The result is trimmed; "" means no usable query.
func extractQuery(body []byte) string {
	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return ""
	}

	if q, ok := stringValue(req.Query); ok && q != "" {
		return strings.TrimSpace(q)
	}

	var messages []json.RawMessage
	if err := json.Unmarshal(req.Messages, &messages); err != nil {
		return ""
	}
	for i := len(messages) - 1; i >= 0; i-- {
		var m chatMessage
		if err := json.Unmarshal(messages[i], &m); err != nil {
			continue
		}
		if role, _ := stringValue(m.Role); role != "" && role != roleUser {
			continue
		}
		if content := messageContent(m.Content); content != "" {
			return strings.TrimSpace(content)
		}
	}
	return ""
}

// messageContent accepts a string or an array whose string pieces are joined
// by spaces. Other shapes yield "".
func messageContent(raw json.RawMessage) string {
	if s, ok := stringValue(raw); ok {
		return s
	}
	var pieces []any
	if err := json.Unmarshal(raw, &pieces); err != nil {
		return ""
	}
	parts := make([]string, len(pieces))
	for i, p := range pieces {
		if s, ok := p.(string); ok {
			parts[i] = s
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func stringValue(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
