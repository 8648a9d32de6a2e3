package tui

import (
	"slices"
	"strings"
)

// History keeps submitted lines for Up/Down recall. Recall is filtered by
// the input typed when navigation began, so typing "move" and pressing Up
// walks back through earlier move lines only.
type History struct {
	entries []string
	max     int
	cursor  int    // -1 when not navigating
	prefix  string // input at the start of navigation
}

// NewHistory creates a history holding at most max lines.
func NewHistory(max int) *History {
	return &History{
		entries: make([]string, 0, max),
		max:     max,
		cursor:  -1,
	}
}

// Push records a line as the newest entry. An earlier copy of the same
// line is removed; blank lines are ignored.
func (h *History) Push(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if i := slices.Index(h.entries, line); i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}
	h.entries = append(h.entries, line)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
}

// Prev steps to the next older entry starting with the navigation prefix.
// input becomes the prefix when navigation starts. At the oldest match it
// stays put; with no match at all it returns false.
func (h *History) Prev(input string) (string, bool) {
	if h.cursor == -1 {
		h.prefix = input
		h.cursor = len(h.entries)
	}
	for i := h.cursor - 1; i >= 0; i-- {
		if strings.HasPrefix(h.entries[i], h.prefix) {
			h.cursor = i
			return h.entries[i], true
		}
	}
	if h.cursor == len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor], true
}

// Next steps to the next newer matching entry. Past the newest it ends
// navigation and returns the prefix with false.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	for i := h.cursor + 1; i < len(h.entries); i++ {
		if strings.HasPrefix(h.entries[i], h.prefix) {
			h.cursor = i
			return h.entries[i], true
		}
	}
	h.cursor = -1
	return h.prefix, false
}

// Len returns the number of stored lines.
func (h *History) Len() int { return len(h.entries) }

// ResetCursor ends navigation.
func (h *History) ResetCursor() {
	h.cursor = -1
	h.prefix = ""
}
