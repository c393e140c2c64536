/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github/sabouaram/netsession/endpoint"
)

// State is spec §4.4's SessionState: the status state machine with
// discriminant dedup, timestamps, and error counting. It implements
// connmgr.StatusSink so a connmgr.Manager can drive it directly.
type State struct {
	mu sync.Mutex

	sessionID    string
	status       endpoint.ConnectionStatus
	connectedAt  *time.Time
	lastActivity *time.Time

	errorCount atomic.Uint32
	sink       endpoint.EventSink

	// pauseAutoReconnect is an inert flag per spec §9: a future
	// watchdog would consult it before reconnecting; none exists yet.
	pauseAutoReconnect atomic.Bool
}

// NewState returns a State for sessionID starting Disconnected.
// sink may be nil, in which case transitions are tracked but never
// emitted.
func NewState(sessionID string, sink endpoint.EventSink) *State {
	return &State{
		sessionID: sessionID,
		status:    endpoint.StatusDisconnected(),
		sink:      sink,
	}
}

// SetStatus implements connmgr.StatusSink. Per spec §4.4: a
// transition sharing the current discriminant is suppressed; a real
// change adjusts timestamps/error_count, commits, then emits exactly
// one connection-status event.
func (s *State) SetStatus(status endpoint.ConnectionStatus) {
	s.mu.Lock()
	if status.SameDiscriminant(s.status) {
		s.mu.Unlock()
		return
	}

	now := time.Now()
	switch status.Kind {
	case endpoint.Connected:
		s.connectedAt = &now
		s.lastActivity = &now
	case endpoint.Disconnected:
		s.connectedAt = nil
	case endpoint.StatusError:
		s.errorCount.Add(1)
	}
	s.status = status
	s.mu.Unlock()

	s.emit(status)
}

func (s *State) emit(status endpoint.ConnectionStatus) {
	if s.sink == nil {
		return
	}
	st := status
	s.sink.Emit(endpoint.NetworkEvent{
		SessionID: s.sessionID,
		Type:      endpoint.EventConnectionStatus,
		Status:    &st,
	})
}

// ForceEmitStatus re-emits the current status unconditionally, to
// resynchronize a late-arriving observer (spec §4.4).
func (s *State) ForceEmitStatus() {
	s.mu.Lock()
	status := s.status
	s.mu.Unlock()
	s.emit(status)
}

// EmitConfigUpdate emits a config-update event out-of-band, carrying
// the given key/value updates (spec §4.4, §4.6 port-fallback note).
func (s *State) EmitConfigUpdate(updates map[string]interface{}) {
	if s.sink == nil {
		return
	}
	s.sink.Emit(endpoint.NetworkEvent{
		SessionID:     s.sessionID,
		Type:          endpoint.EventConfigUpdate,
		ConfigUpdates: updates,
	})
}

// Status returns the current status.
func (s *State) Status() endpoint.ConnectionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ErrorCount returns the cumulative count of Error transitions.
func (s *State) ErrorCount() uint32 {
	return s.errorCount.Load()
}

// ConnectedAt returns the timestamp of the most recent Connected
// transition, or nil if currently disconnected.
func (s *State) ConnectedAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectedAt
}

// Touch records activity (a send or receive) for last_activity.
func (s *State) Touch() {
	now := time.Now()
	s.mu.Lock()
	s.lastActivity = &now
	s.mu.Unlock()
}

// LastActivity returns the timestamp of the most recent Touch, or
// nil if the session has never been active.
func (s *State) LastActivity() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// PauseAutoReconnect and ResumeAutoReconnect flip an inert flag (spec
// §9 open question): no watchdog in this codebase consults it yet,
// but it is recorded for one to be added later.
func (s *State) PauseAutoReconnect()  { s.pauseAutoReconnect.Store(true) }
func (s *State) ResumeAutoReconnect() { s.pauseAutoReconnect.Store(false) }
func (s *State) AutoReconnectPaused() bool {
	return s.pauseAutoReconnect.Load()
}
