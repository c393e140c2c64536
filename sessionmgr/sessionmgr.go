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

// Package sessionmgr is the process-wide registry of session.Session
// values (spec §4.7): a concurrent id -> Session map with per-session
// delegation for every session operation, one shared EventSink every
// session feeds, and the host/port bookkeeping a supervisor needs to
// answer "is there already a TCP server bound here".
package sessionmgr

import (
	"context"
	"sync"

	libctx "github/sabouaram/netsession/context"
	"github/sabouaram/netsession/endpoint"
	liberr "github/sabouaram/netsession/errors"
	liblog "github/sabouaram/netsession/logger"
	"github/sabouaram/netsession/session"
)

// Manager is spec §4.7's SessionManager: no persistence, so a freshly
// constructed Manager's map is empty and every client that queries it
// before create_session observes Disconnected.
type Manager struct {
	root libctx.Config[string]
	log  liblog.Logger
	sink *endpoint.ChannelSink

	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// NewManager returns an empty Manager. log may be nil. sinkCapacity <=
// 0 uses the endpoint package default (1000).
func NewManager(log liblog.Logger, sinkCapacity int) *Manager {
	if log == nil {
		log = liblog.New()
	}
	return &Manager{
		root:     libctx.New[string](context.Background()),
		log:      log,
		sink:     endpoint.NewEventSink(sinkCapacity),
		sessions: make(map[string]*session.Session),
	}
}

// Events returns the process-wide event stream every session feeds,
// each entry stamped with its originating SessionID.
func (m *Manager) Events() <-chan endpoint.NetworkEvent {
	return m.sink.Events()
}

// CreateSession registers a new Session under id (spec §4.7
// "create_session"); fails with ErrSessionExists if id is already
// taken.
func (m *Manager) CreateSession(id string, cfg session.Config) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; exists {
		return nil, liberr.ErrSessionExists.Error()
	}

	s := session.New(id, cfg, m.sink, m.log)
	m.sessions[id] = s
	return s, nil
}

// Session returns the Session registered under id, if any.
func (m *Manager) Session(id string) (*session.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) get(id string) (*session.Session, error) {
	s, ok := m.Session(id)
	if !ok {
		return nil, liberr.ErrSessionNotFound.Error()
	}
	return s, nil
}

// UpdateConfig replaces the config id's session uses on its next
// Connect (spec §4.7 "update_config").
func (m *Manager) UpdateConfig(id string, cfg session.Config) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	s.UpdateConfig(cfg)
	return nil
}

// Connect delegates to the session's Connect. The context passed down
// is a child of ctx whose cancel func is registered under id on the
// manager's root store for the duration of the call, so a concurrent
// CancelConnect(id) or Shutdown() can abort it.
func (m *Manager) Connect(ctx context.Context, id string) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}

	cctx, cancel := context.WithCancel(ctx)
	m.root.Store(id, cancel)
	defer func() {
		m.root.Delete(id)
		cancel()
	}()

	return s.Connect(cctx)
}

// CancelConnect aborts id's in-flight Connect, if any, by canceling
// the context Connect derived from the root store. Returns false if
// id has no Connect call currently registered.
func (m *Manager) CancelConnect(id string) bool {
	v, loaded := m.root.LoadAndDelete(id)
	if !loaded {
		return false
	}
	if cancel, ok := v.(context.CancelFunc); ok {
		cancel()
		return true
	}
	return false
}

// Shutdown cancels every in-flight Connect registered on the root
// store. It does not touch already-connected sessions; call
// CleanupAllSessions for that.
func (m *Manager) Shutdown() {
	m.root.Walk(func(_ string, v interface{}) bool {
		if cancel, ok := v.(context.CancelFunc); ok {
			cancel()
		}
		return true
	})
	m.root.Clean()
}

// Disconnect delegates to the session's Disconnect.
func (m *Manager) Disconnect(ctx context.Context, id string) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	return s.Disconnect(ctx)
}

// Send delegates a unicast send to id's session.
func (m *Manager) Send(ctx context.Context, id string, data []byte) (int, error) {
	s, err := m.get(id)
	if err != nil {
		return 0, err
	}
	return s.Send(ctx, data)
}

// SendToClient delegates to id's session.
func (m *Manager) SendToClient(ctx context.Context, id, clientID string, data []byte) (int, error) {
	s, err := m.get(id)
	if err != nil {
		return 0, err
	}
	return s.SendToClient(ctx, clientID, data)
}

// Broadcast delegates to id's session.
func (m *Manager) Broadcast(ctx context.Context, id string, data []byte) (int, error) {
	s, err := m.get(id)
	if err != nil {
		return 0, err
	}
	return s.Broadcast(ctx, data)
}

// DisconnectClient delegates to id's session.
func (m *Manager) DisconnectClient(ctx context.Context, id, clientID string) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	return s.DisconnectClient(ctx, clientID)
}

// SendUDPMessage delegates to id's session.
func (m *Manager) SendUDPMessage(ctx context.Context, id string, data []byte, host string, port uint16) (int, error) {
	s, err := m.get(id)
	if err != nil {
		return 0, err
	}
	return s.SendUDPMessage(ctx, data, host, port)
}

// SubscribeMqttTopic delegates to id's session.
func (m *Manager) SubscribeMqttTopic(id, topic string, qos byte) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	return s.SubscribeMqttTopic(topic, qos)
}

// UnsubscribeMqttTopic delegates to id's session.
func (m *Manager) UnsubscribeMqttTopic(id, topic string) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	return s.UnsubscribeMqttTopic(topic)
}

// PublishMqttMessage delegates to id's session.
func (m *Manager) PublishMqttMessage(id, topic string, payload []byte, qos byte, retain bool) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	return s.PublishMqttMessage(topic, payload, qos, retain)
}

// ReadCoils delegates to id's session.
func (m *Manager) ReadCoils(ctx context.Context, id string, address, quantity uint16) ([]bool, error) {
	s, err := m.get(id)
	if err != nil {
		return nil, err
	}
	return s.ReadCoils(ctx, address, quantity)
}

// ReadHoldingRegisters delegates to id's session.
func (m *Manager) ReadHoldingRegisters(ctx context.Context, id string, address, quantity uint16) ([]uint16, error) {
	s, err := m.get(id)
	if err != nil {
		return nil, err
	}
	return s.ReadHoldingRegisters(ctx, address, quantity)
}

// WriteSingleRegister delegates to id's session.
func (m *Manager) WriteSingleRegister(ctx context.Context, id string, address, value uint16) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	return s.WriteSingleRegister(ctx, address, value)
}

// EmitCurrentStatus re-emits id's current status unconditionally
// (spec §4.7 "emit_current_status").
func (m *Manager) EmitCurrentStatus(id string) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	s.State().ForceEmitStatus()
	return nil
}

// RemoveSession disconnects id's session (if connected) and drops it
// from the registry.
func (m *Manager) RemoveSession(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return liberr.ErrSessionNotFound.Error()
	}
	delete(m.sessions, id)
	m.mu.Unlock()

	return s.Disconnect(ctx)
}

// CleanupAllSessions disconnects every session and clears the
// registry (spec §4.7 "cleanup_all_sessions").
func (m *Manager) CleanupAllSessions(ctx context.Context) {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*session.Session)
	m.mu.Unlock()

	for _, s := range all {
		_ = s.Disconnect(ctx)
	}
}
