package callback

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultHistorySize is how many callbacks the debug listing keeps.
const DefaultHistorySize = 20

// Entry is one received callback as shown in the debug listing.
type Entry struct {
	ReceivedAt time.Time
	Outcome    Outcome
	RequestID  string
	Body       string
}

// History is a fixed-capacity ring buffer of recent callbacks, safe for
// concurrent use.
type History struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

// NewHistory creates a History holding at most capacity entries. A
// non-positive capacity falls back to DefaultHistorySize.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{entries: make([]Entry, capacity)}
}

// Add appends e, evicting the oldest entry when full.
func (h *History) Add(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.next] = e
	h.next = (h.next + 1) % len(h.entries)
	if h.next == 0 {
		h.full = true
	}
}

// Entries returns the stored entries, newest first.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := h.next
	if h.full {
		n = len(h.entries)
	}
	out := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		idx := (h.next - i + len(h.entries)) % len(h.entries)
		out = append(out, h.entries[idx])
	}
	return out
}

// Len reports how many entries are stored.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.full {
		return len(h.entries)
	}
	return h.next
}

// Render formats the history as plain text, newest first. JSON bodies are
// indented; anything else is printed as received.
func (h *History) Render() string {
	entries := h.Entries()
	if len(entries) == 0 {
		return "No callbacks received yet.\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Last %d callback payload(s), newest first\n", len(entries))
	for i, e := range entries {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "--- #%d  %s  [%s]", i+1, e.ReceivedAt.UTC().Format(time.RFC3339), e.Outcome)
		if e.RequestID != "" {
			fmt.Fprintf(&sb, "  request_id=%s", e.RequestID)
		}
		sb.WriteString(" ---\n")
		sb.WriteString(prettyBody(e.Body))
		sb.WriteString("\n")
	}
	return sb.String()
}

func prettyBody(body string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(body), "", "  "); err != nil {
		return body
	}
	return buf.String()
}
