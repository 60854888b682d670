// Package transcript extracts conversation summaries from Claude Code
// session transcripts (JSONL).
package transcript

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/hay-kot/recall/internal/core/compile"
)

// messageCharLimit bounds a single message's contribution to the summary.
const messageCharLimit = 500

// importantKeywords flag assistant messages worth carrying across a
// compaction: decisions, fixes, failures, and the reasons behind them.
var importantKeywords = []string{
	"implemented", "fixed", "error", "failed", "decided", "found",
	"issue", "problem", "solution", "because", "changed", "updated",
	"added", "removed", "created", "modified",
}

// Message is one user or assistant turn with its text flattened.
type Message struct {
	Role string
	Text string
}

// jsonlEntry covers both transcript shapes: the current nested form
// {"type","message":{"content":[...]}} and the legacy flat {"role","content"}.
type jsonlEntry struct {
	Type    string          `json:"type"`
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
	Message struct {
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

// Parse reads all user/assistant messages from a JSONL transcript file.
// Unparseable lines are skipped; only an unreadable file is an error.
func Parse(path string) ([]Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer func() { _ = f.Close() }()

	var messages []Message

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry jsonlEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}

		role := entry.Type
		raw := entry.Message.Content
		if role != "user" && role != "assistant" {
			// Legacy flat format; anything else (queue-operation,
			// summary markers) is not a conversation turn.
			role = entry.Role
			raw = entry.Content
			if role != "user" && role != "assistant" {
				continue
			}
		}

		text := flattenContent(raw)
		if len(text) < 10 {
			continue
		}

		messages = append(messages, Message{Role: role, Text: text})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}

	return messages, nil
}

// flattenContent handles content that is either a plain string or a list of
// typed blocks, joining the text blocks.
func flattenContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var blocks []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}

	var parts []string
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// Summarize renders the last maxMessages turns as a markdown summary capped
// at maxChars. User turns are always kept; assistant turns are kept when
// they contain an importance keyword or enough substance to matter.
func Summarize(messages []Message, maxMessages, maxChars int) string {
	if len(messages) == 0 {
		return ""
	}

	recent := messages
	if len(recent) > maxMessages {
		recent = recent[len(recent)-maxMessages:]
	}

	parts := []string{"# Session Summary (Pre-Compact)\n"}

	for _, msg := range recent {
		text := msg.Text
		if len(text) > messageCharLimit {
			cut := text[:messageCharLimit]
			for len(cut) > 0 && !utf8.ValidString(cut) {
				cut = cut[:len(cut)-1]
			}
			text = cut + "..."
		}

		switch msg.Role {
		case "user":
			parts = append(parts, fmt.Sprintf("\n**User:** %s\n", text))
		case "assistant":
			if hasImportantKeyword(msg.Text) || len(msg.Text) > 100 {
				parts = append(parts, fmt.Sprintf("\n**Assistant:** %s\n", text))
			}
		}
	}

	summary := strings.Join(parts, "\n")
	return compile.Truncate(summary, maxChars)
}

func hasImportantKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range importantKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
