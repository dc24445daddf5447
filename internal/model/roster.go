// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// ===== TYPES =====

// PresenceEntry is one user visible in the presence roster. Online is
// carried on the wire for the bulk user fetch; entries held in the
// roster are online by definition.
type PresenceEntry struct {
	Username string `json:"username"`
	Online   bool   `json:"online"`
}

// Roster is the set of currently known users, keyed by username and
// kept in arrival order. Going offline removes the entry entirely;
// a repeated online announcement is a no-op.
type Roster struct {
	entries []PresenceEntry
	index   map[string]int
}

// ===== CONSTRUCTORS =====

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{
		index: make(map[string]int),
	}
}

// ===== METHODS =====

// Replace discards the current contents and installs the given
// entries wholesale, deduplicating by username (first entry wins).
// Entries flagged offline are dropped: absence is how the roster
// represents offline users.
func (r *Roster) Replace(entries []PresenceEntry) {
	r.entries = r.entries[:0]
	r.index = make(map[string]int, len(entries))
	for _, e := range entries {
		if e.Username == "" || !e.Online {
			continue
		}
		if _, ok := r.index[e.Username]; ok {
			continue
		}
		r.index[e.Username] = len(r.entries)
		r.entries = append(r.entries, e)
	}
}

// SetOnline adds a user to the roster. Returns false if the user was
// already present or the username is empty.
func (r *Roster) SetOnline(username string) bool {
	if username == "" {
		return false
	}
	if _, ok := r.index[username]; ok {
		return false
	}
	r.index[username] = len(r.entries)
	r.entries = append(r.entries, PresenceEntry{Username: username, Online: true})
	return true
}

// SetOffline removes a user from the roster. Removing an absent user
// is a no-op and returns false.
func (r *Roster) SetOffline(username string) bool {
	i, ok := r.index[username]
	if !ok {
		return false
	}
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	delete(r.index, username)
	for j := i; j < len(r.entries); j++ {
		r.index[r.entries[j].Username] = j
	}
	return true
}

// Contains reports whether the user is currently in the roster.
func (r *Roster) Contains(username string) bool {
	_, ok := r.index[username]
	return ok
}

// Entries returns a copy of the roster in arrival order.
func (r *Roster) Entries() []PresenceEntry {
	out := make([]PresenceEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Usernames returns the roster usernames in arrival order.
func (r *Roster) Usernames() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Username
	}
	return out
}

// Len returns the number of users in the roster.
func (r *Roster) Len() int {
	return len(r.entries)
}
