// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sync implements the synchronization engine: the single
// consumer of server events that folds presence announcements,
// inbound messages, and bulk snapshots into the roster and message
// log. All methods must be called from the UI event loop.
package sync

import (
	"github.com/rs/zerolog"

	"github.com/kazakhpunk/chatapp-tui/internal/model"
)

// ===== TYPES =====

// Engine owns the roster and the message log and applies every state
// transition they undergo. It performs no I/O of its own; events are
// handed to it after they have been decoded and validated.
type Engine struct {
	roster *model.Roster
	log    *model.Log
	logger zerolog.Logger
}

// ===== CONSTRUCTORS =====

// New creates an engine with an empty roster and log.
func New(logger zerolog.Logger) *Engine {
	return &Engine{
		roster: model.NewRoster(),
		log:    model.NewLog(),
		logger: logger.With().Str("component", "sync").Logger(),
	}
}

// ===== SNAPSHOT =====

// ApplySnapshot installs the bulk-fetched roster and history
// wholesale, replacing whatever was held before. Either slice may be
// nil when the corresponding fetch failed; the other half is still
// applied.
func (e *Engine) ApplySnapshot(users []model.PresenceEntry, history []model.Message) {
	if users != nil {
		e.roster.Replace(users)
	}
	if history != nil {
		e.log.Replace(history)
	}
	e.logger.Debug().
		Int("users", e.roster.Len()).
		Int("messages", e.log.Len()).
		Msg("snapshot applied")
}

// ===== PRESENCE =====

// ApplyUserOnline adds a user to the roster. Duplicate announcements
// are absorbed. Returns true if the roster changed.
func (e *Engine) ApplyUserOnline(username string) bool {
	changed := e.roster.SetOnline(username)
	if changed {
		e.logger.Debug().Str("user", username).Msg("user online")
	}
	return changed
}

// ApplyUserOffline removes a user from the roster. Announcements for
// absent users are absorbed. Returns true if the roster changed.
func (e *Engine) ApplyUserOffline(username string) bool {
	changed := e.roster.SetOffline(username)
	if changed {
		e.logger.Debug().Str("user", username).Msg("user offline")
	}
	return changed
}

// ===== MESSAGES =====

// ApplyMessage appends an inbound message to the log. Messages that
// turn out to be echoes of our own optimistic appends are absorbed;
// the return value reports whether the log grew.
func (e *Engine) ApplyMessage(m model.Message) bool {
	appended := e.log.Append(m)
	if !appended {
		e.logger.Debug().Str("from", m.Sender).Msg("echo absorbed")
	}
	return appended
}

// RecordOutgoing appends a message we just published so the sender
// sees it immediately, and arms echo absorption for it.
func (e *Engine) RecordOutgoing(m model.Message) {
	e.log.AppendLocal(m)
	e.logger.Debug().Str("to", m.Receiver).Str("local_id", m.LocalID).Msg("outgoing recorded")
}

// ===== VIEWS =====

// Conversation projects the log onto the exchange with peer.
func (e *Engine) Conversation(me, peer string, strict bool) []model.Message {
	return e.log.Conversation(me, peer, strict)
}

// Roster returns the engine's roster.
func (e *Engine) Roster() *model.Roster {
	return e.roster
}

// Log returns the engine's message log.
func (e *Engine) Log() *model.Log {
	return e.log
}
