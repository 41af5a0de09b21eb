package task

import "fmt"

// Script is an ordered, finite sequence of human-readable waiting messages.
// Entry 0 is delivered synchronously by the Supervisor when the fast path
// times out; the last entry is reserved as the giving-up notice and is never
// sent as a keep-waiting message. The cursor therefore starts at 1.
type Script struct {
	entries []string
	index   int
}

// NewScript builds a Script from the configured waiting messages. At least
// two entries are required: one to answer the synchronous caller and one to
// give up with.
func NewScript(entries []string) (*Script, error) {
	if len(entries) < 2 {
		return nil, fmt.Errorf("script requires at least 2 entries, got %d", len(entries))
	}
	s := &Script{
		entries: make([]string, len(entries)),
		index:   1,
	}
	copy(s.entries, entries)
	return s, nil
}

// First returns the entry delivered with the synchronous fast-path response.
func (s *Script) First() string { return s.entries[0] }

// Next returns the next message due after a cadence elapses. When only the
// reserved final entry remains, Next returns it with terminal set; the
// caller must send it exactly once and then cancel the operation rather
// than wait again.
func (s *Script) Next() (msg string, terminal bool) {
	if s.index >= len(s.entries)-1 {
		return s.entries[len(s.entries)-1], true
	}
	msg = s.entries[s.index]
	s.index++
	return msg, false
}
