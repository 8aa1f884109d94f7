package parse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// recordProbe holds the fields that discriminate between the two
// dialects at the record level.
type recordProbe struct {
	ChatMessages json.RawMessage `json:"chat_messages"`
	Messages     json.RawMessage `json:"messages"`
	Mapping      json.RawMessage `json:"mapping"`
}

type roleProbe struct {
	Sender string `json:"sender"`
	Role   string `json:"role"`
}

// DetectFormat classifies arbitrary parsed JSON as one of the two
// known export dialects, or FormatUnknown. Detection is structural:
// both dialects wrap their conversation array inconsistently, so the
// envelope (a `conversations` property, a bare array, or a generic
// object whose first property is an array) is probed before the
// per-record shape tests run.
func DetectFormat(raw json.RawMessage) Format {
	if isObject(raw) {
		var env struct {
			Conversations json.RawMessage `json:"conversations"`
		}
		if err := json.Unmarshal(raw, &env); err == nil && isArray(env.Conversations) {
			if f := detectFromArray(env.Conversations); f != FormatUnknown {
				return f
			}
		}
	}

	if isArray(raw) {
		if f := detectFromArray(raw); f != FormatUnknown {
			return f
		}
	}

	if isObject(raw) {
		if _, first, ok := firstProperty(raw); ok && isArray(first) {
			if f := detectFromArray(first); f != FormatUnknown {
				return f
			}
		}
	}

	return FormatUnknown
}

func detectFromArray(raw json.RawMessage) Format {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return FormatUnknown
	}
	for _, item := range items {
		if looksLikeClaudeRecord(item) {
			return FormatClaude
		}
	}
	for _, item := range items {
		if looksLikeChatGPTRecord(item) {
			return FormatChatGPT
		}
	}
	return FormatUnknown
}

func looksLikeClaudeRecord(item json.RawMessage) bool {
	if !isObject(item) {
		return false
	}
	var probe recordProbe
	if err := json.Unmarshal(item, &probe); err != nil {
		return false
	}
	if isArray(probe.ChatMessages) {
		return true
	}
	if !isArray(probe.Messages) {
		return false
	}
	var msgs []roleProbe
	if err := json.Unmarshal(probe.Messages, &msgs); err != nil {
		return false
	}
	for _, m := range msgs {
		r := m.Sender
		if r == "" {
			r = m.Role
		}
		if r == "" {
			continue
		}
		switch strings.ToLower(r) {
		case "human", "assistant", "user":
			return true
		}
		return false
	}
	return false
}

func looksLikeChatGPTRecord(item json.RawMessage) bool {
	if !isObject(item) {
		return false
	}
	var probe recordProbe
	if err := json.Unmarshal(item, &probe); err != nil {
		return false
	}
	return isObject(probe.Mapping) || isArray(probe.Messages)
}

// Records extracts the raw conversation records for an already
// detected format, unwrapping whichever envelope the export tool
// produced.
func Records(raw json.RawMessage, format Format) ([]json.RawMessage, error) {
	if isArray(raw) {
		return decodeArray(raw)
	}

	if isObject(raw) {
		var env struct {
			Conversations json.RawMessage `json:"conversations"`
		}
		if err := json.Unmarshal(raw, &env); err == nil && isArray(env.Conversations) {
			return decodeArray(env.Conversations)
		}

		// Some ChatGPT exports key each conversation by ID at the top
		// level; every property value is then a record with a mapping.
		if format == FormatChatGPT {
			if _, first, ok := firstProperty(raw); ok && isObject(first) {
				var probe recordProbe
				if err := json.Unmarshal(first, &probe); err == nil && isObject(probe.Mapping) {
					return objectValues(raw)
				}
			}
		}

		if _, first, ok := firstProperty(raw); ok && isArray(first) {
			return decodeArray(first)
		}
	}

	return nil, fmt.Errorf("no conversation array found (top-level keys: %v)", TopLevelKeys(raw))
}

func decodeArray(raw json.RawMessage) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode conversation array: %w", err)
	}
	return items, nil
}

// firstProperty returns the first key/value pair of a JSON object in
// document order. Go maps discard key order, so the raw bytes are
// walked with a token decoder instead.
func firstProperty(raw json.RawMessage) (string, json.RawMessage, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return "", nil, false
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return "", nil, false
	}
	tok, err = dec.Token()
	if err != nil {
		return "", nil, false
	}
	key, ok := tok.(string)
	if !ok {
		return "", nil, false
	}
	var value json.RawMessage
	if err := dec.Decode(&value); err != nil {
		return "", nil, false
	}
	return key, value, true
}

// objectValues returns every property value of a JSON object in
// document order.
func objectValues(raw json.RawMessage) ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("not a JSON object")
	}
	var values []json.RawMessage
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

// TopLevelKeys lists an object's keys in document order, to make
// unknown-format errors diagnosable when export schemas drift.
func TopLevelKeys(raw json.RawMessage) []string {
	if !isObject(raw) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := tok.(string)
		if !ok {
			return keys
		}
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
	}
	return keys
}

func isArray(raw json.RawMessage) bool {
	return firstByte(raw) == '['
}

func isObject(raw json.RawMessage) bool {
	return firstByte(raw) == '{'
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
