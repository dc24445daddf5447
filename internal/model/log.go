// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// ===== TYPES =====

// Log is the append-only message log. Messages are kept in the order
// they were learned about, which is the sole ordering authority for
// every rendered transcript.
//
// Outgoing messages are appended optimistically via AppendLocal; when
// the server later echoes the same message back, Append detects the
// echo by identity key and drops it so the message appears once.
type Log struct {
	messages []Message

	// pending counts locally appended messages awaiting a server
	// echo, keyed by Message.Key.
	pending map[string]int
}

// ===== CONSTRUCTORS =====

// NewLog creates an empty message log.
func NewLog() *Log {
	return &Log{
		pending: make(map[string]int),
	}
}

// ===== METHODS =====

// Replace discards the current contents and installs the given
// history wholesale. Any pending echo bookkeeping is cleared: the
// server snapshot is authoritative.
func (l *Log) Replace(messages []Message) {
	l.messages = make([]Message, len(messages))
	copy(l.messages, messages)
	l.pending = make(map[string]int)
}

// Append records an inbound message at the end of the log. If the
// message matches one we appended locally and are still awaiting an
// echo for, the echo is absorbed instead and Append returns false.
func (l *Log) Append(m Message) bool {
	key := m.Key()
	if n := l.pending[key]; n > 0 {
		if n == 1 {
			delete(l.pending, key)
		} else {
			l.pending[key] = n - 1
		}
		return false
	}
	l.messages = append(l.messages, m)
	return true
}

// AppendLocal records an outgoing message at the end of the log and
// marks it as awaiting a server echo.
func (l *Log) AppendLocal(m Message) {
	l.messages = append(l.messages, m)
	l.pending[m.Key()]++
}

// Messages returns a copy of the full log in insertion order.
func (l *Log) Messages() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Conversation projects the log onto the exchange between me and
// peer, preserving log order. In strict mode only messages exchanged
// between the two participants are included; otherwise any message
// that involves the peer qualifies.
func (l *Log) Conversation(me, peer string, strict bool) []Message {
	var out []Message
	for _, m := range l.messages {
		if strict {
			if m.Between(me, peer) {
				out = append(out, m)
			}
			continue
		}
		if m.InvolvedWith(peer) {
			out = append(out, m)
		}
	}
	return out
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	return len(l.messages)
}

// Last returns the most recent message, if any.
func (l *Log) Last() (Message, bool) {
	if len(l.messages) == 0 {
		return Message{}, false
	}
	return l.messages[len(l.messages)-1], true
}
