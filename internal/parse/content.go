package parse

import (
	"bytes"
	"encoding/json"
	"strings"
)

// contentShape tags the recognized representations of a message's raw
// content value. Extraction never fails: unrecognized shapes degrade
// to a serialized form instead of dropping the message.
type contentShape int

const (
	shapeEmpty contentShape = iota
	shapePlain
	shapeParts
	shapeBlocks
	shapeTextField
	shapeUnknown
)

type contentObject struct {
	Parts []json.RawMessage `json:"parts"`
	Text  json.RawMessage   `json:"text"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func classifyContent(raw json.RawMessage) contentShape {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return shapeEmpty
	}

	switch trimmed[0] {
	case '"':
		return shapePlain
	case '[':
		return shapeBlocks
	case '{':
		var obj contentObject
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return shapeUnknown
		}
		if obj.Parts != nil {
			return shapeParts
		}
		var text string
		if err := json.Unmarshal(obj.Text, &text); err == nil && text != "" {
			return shapeTextField
		}
		return shapeUnknown
	default:
		return shapeUnknown
	}
}

// extractText flattens a raw content value into plain text:
// a string is returned as-is, a parts-array object joins its
// string-typed parts, a block array joins the text of its
// type=="text" blocks, an object with a text field yields that field,
// and anything else serializes compactly as a last resort.
func extractText(raw json.RawMessage) string {
	switch classifyContent(raw) {
	case shapeEmpty:
		return ""

	case shapePlain:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return serializeContent(raw)
		}
		return s

	case shapeParts:
		var obj contentObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return serializeContent(raw)
		}
		var parts []string
		for _, p := range obj.Parts {
			var s string
			if err := json.Unmarshal(p, &s); err == nil {
				parts = append(parts, s)
			}
		}
		return strings.TrimSpace(strings.Join(parts, "\n"))

	case shapeBlocks:
		var blocks []contentBlock
		if err := json.Unmarshal(raw, &blocks); err != nil {
			return serializeContent(raw)
		}
		var parts []string
		for _, b := range blocks {
			if b.Type == "text" && b.Text != "" {
				parts = append(parts, b.Text)
			}
		}
		return strings.TrimSpace(strings.Join(parts, "\n"))

	case shapeTextField:
		var obj contentObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return serializeContent(raw)
		}
		var text string
		if err := json.Unmarshal(obj.Text, &text); err != nil {
			return serializeContent(raw)
		}
		return text

	default:
		return serializeContent(raw)
	}
}

func serializeContent(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return buf.String()
}
