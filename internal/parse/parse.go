// Package parse turns raw AI-chat export JSON (ChatGPT and Claude
// dialects) into the canonical conversation model. Detection is
// structural, normalization is per-record, and a single malformed
// record never aborts the batch.
package parse

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Normalizer turns one raw conversation record into a canonical
// Conversation. Implementations report failure for a single record
// without aborting the batch; ordinal is the record's position within
// the batch and only feeds the title fallback.
type Normalizer interface {
	Normalize(raw json.RawMessage, ordinal int) (*Conversation, error)
}

// NormalizerFor selects the normalizer variant for a detected format.
func NormalizerFor(format Format) (Normalizer, bool) {
	switch format {
	case FormatChatGPT:
		return chatGPTNormalizer{}, true
	case FormatClaude:
		return claudeNormalizer{}, true
	default:
		return nil, false
	}
}

// NormalizeAll detects the dialect of a raw export document and
// normalizes every conversation record in it. Records that fail
// individually are logged and dropped; an unrecognized format is
// fatal for the whole document.
func NormalizeAll(raw json.RawMessage, log *logrus.Entry) ([]Conversation, Format, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	format := DetectFormat(raw)
	normalizer, ok := NormalizerFor(format)
	if !ok {
		return nil, FormatUnknown, fmt.Errorf(
			"unknown export format (top-level keys: %v); expected a ChatGPT or Claude export", TopLevelKeys(raw))
	}

	records, err := Records(raw, format)
	if err != nil {
		return nil, format, err
	}

	conversations := make([]Conversation, 0, len(records))
	for i, rec := range records {
		conv, err := normalizer.Normalize(rec, i)
		if err != nil {
			log.WithFields(logrus.Fields{
				"record": i,
				"format": format,
			}).WithError(err).Warn("dropping malformed conversation record")
			continue
		}
		conversations = append(conversations, *conv)
	}

	log.WithFields(logrus.Fields{
		"format":  format,
		"records": len(records),
		"kept":    len(conversations),
	}).Debug("normalized export document")

	return conversations, format, nil
}
