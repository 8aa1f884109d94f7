// Package merge combines normalized conversation batches across
// uploads, removing duplicates via a composite fingerprint, issuing
// stable conversation IDs, and computing global statistics over the
// merged set.
package merge

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Zuo-Peng/ai-archive-explorer/internal/parse"
)

// anchorChars bounds the first/last message excerpts that anchor the
// dedup fingerprint.
const anchorChars = 64

// Engine owns the conversation ID counter for one session. IDs are
// issued when a conversation first survives dedup, so they stay
// stable across later merges regardless of batch order.
type Engine struct {
	nextID int
}

func NewEngine() *Engine {
	return &Engine{}
}

// Merge combines a freshly normalized batch with the conversations
// accumulated from prior files. Dedup is stable and order-preserving:
// when two entries share a fingerprint, the first-encountered one
// survives. Survivors without an ID are assigned one. The inputs are
// not mutated.
func (e *Engine) Merge(existing, batch []parse.Conversation) (merged []parse.Conversation, removed int) {
	combined := make([]parse.Conversation, 0, len(existing)+len(batch))
	combined = append(combined, existing...)
	combined = append(combined, batch...)

	seen := make(map[string]struct{}, len(combined))
	for _, conv := range combined {
		sig := fingerprint(conv)
		if _, dup := seen[sig]; dup {
			removed++
			continue
		}
		seen[sig] = struct{}{}
		if conv.ID == "" {
			conv.ID = fmt.Sprintf("conv_%d", e.nextID)
			e.nextID++
		}
		merged = append(merged, conv)
	}
	return merged, removed
}

// fingerprint builds the composite dedup key: lowercased title, the
// creation/update epochs, message count, and excerpts of the first
// and last messages as content anchors.
func fingerprint(c parse.Conversation) string {
	var firstMsg, lastMsg string
	if len(c.Messages) > 0 {
		firstMsg = headRunes(c.Messages[0].Text, anchorChars)
		lastMsg = tailRunes(c.Messages[len(c.Messages)-1].Text, anchorChars)
	}
	return strings.Join([]string{
		strings.ToLower(c.Title),
		fmt.Sprintf("%d", c.CreatedAt.UnixMilli()),
		fmt.Sprintf("%d", c.UpdatedAt.UnixMilli()),
		fmt.Sprintf("%d", c.Stats.MessageCount),
		firstMsg,
		lastMsg,
	}, "|")
}

// Hash computes the identity token for the merged set: a SHA-256
// digest of the serialized list, truncated to 16 hex chars. It is a
// cache key, not a correctness mechanism.
func Hash(conversations []parse.Conversation) (string, error) {
	data, err := json.Marshal(conversations)
	if err != nil {
		return "", fmt.Errorf("serialize conversations: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16], nil
}

func headRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func tailRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
