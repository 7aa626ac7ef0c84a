package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf16"
)

type textMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// EncodeConversation serializes a text-only conversation into the JSON
// question string expected by Model.Chat. Non-ASCII characters are escaped as
// \uXXXX so the payload is pure ASCII.
func EncodeConversation(msgs []Message) (string, error) {
	out := make([]textMessage, len(msgs))
	for i, m := range msgs {
		if m.Content.Kind != ContentText {
			return "", fmt.Errorf("message %d: %s content cannot be JSON encoded", i, m.Content.Kind)
		}
		out[i] = textMessage{Role: m.Role, Content: m.Content.Text}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return escapeNonASCII(string(b)), nil
}

// DecodeConversation is the inverse of EncodeConversation.
func DecodeConversation(question string) ([]Message, error) {
	var in []textMessage
	if err := json.Unmarshal([]byte(question), &in); err != nil {
		return nil, fmt.Errorf("decode conversation: %w", err)
	}
	msgs := make([]Message, len(in))
	for i, m := range in {
		msgs[i] = Message{Role: m.Role, Content: Text(m.Content)}
	}
	return msgs, nil
}

func escapeNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x80 {
			b.WriteRune(r)
			continue
		}
		if r > 0xFFFF {
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(&b, `\u%04x\u%04x`, r1, r2)
			continue
		}
		fmt.Fprintf(&b, `\u%04x`, r)
	}
	return b.String()
}
