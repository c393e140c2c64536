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
	"context"
	"net"
	"strconv"
	"sync"

	"github/sabouaram/netsession/connmgr"
	"github/sabouaram/netsession/endpoint"
	liberr "github/sabouaram/netsession/errors"
	liblog "github/sabouaram/netsession/logger"
)

// Session is spec §4.6: the owner of one Endpoint (through a
// connmgr.Manager), one State, and one Buffer. Created by
// sessionmgr.Manager on first connect; destroyed by explicit removal
// or process exit.
type Session struct {
	id      string
	state   *State
	buffer  *Buffer
	manager *connmgr.Manager
	log     liblog.Logger

	globalSink endpoint.EventSink
	epSink     *endpoint.ChannelSink

	mu         sync.Mutex
	pumpCancel context.CancelFunc
}

// New returns a Session bound to id and cfg. globalSink is the
// process-wide EventSink (spec §4 EventSink fan-out); it may be nil
// for a Session used without a sessionmgr.Manager. log may be nil.
func New(id string, cfg Config, globalSink EventSink, log liblog.Logger) *Session {
	return &Session{
		id:         id,
		state:      NewState(id, globalSink),
		buffer:     NewBuffer(0, 0),
		manager:    connmgr.NewManager(cfg, log),
		log:        log,
		globalSink: globalSink,
		epSink:     endpoint.NewEventSink(1000),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the session's status/timestamp/error-count tracker.
func (s *Session) State() *State { return s.state }

// Buffer returns the session's bounded message ring.
func (s *Session) Buffer() *Buffer { return s.buffer }

// Config returns the config the session's manager currently holds.
func (s *Session) Config() Config { return s.manager.Config() }

// UpdateConfig replaces the config used by the next Connect (spec
// §4.7 "update_config"); it does not affect an endpoint already
// connected.
func (s *Session) UpdateConfig(cfg Config) {
	s.manager.SetConfig(cfg)
}

// Connect constructs the factory closure spec §4.6 describes,
// capturing (protocol, role, config, event-sink handle), and invokes
// connmgr.Manager.ConnectWithRetry. Calling Connect while already
// connected is a no-op (spec §8 idempotence law); on a fresh success
// for a server whose actual_port differs from the configured port, a
// config-update event follows the Connected transition.
func (s *Session) Connect(ctx context.Context) error {
	if s.manager.IsConnected() {
		return nil
	}

	requestedPort := s.manager.Config().Port
	factory := func(cfg endpoint.Config) (endpoint.Endpoint, error) {
		return endpoint.New(cfg, s.epSink)
	}

	if err := s.manager.ConnectWithRetry(ctx, factory, s.state); err != nil {
		return err
	}

	s.startPump()

	if actual, ok := s.manager.ActualPort(); ok && actual != requestedPort {
		s.state.EmitConfigUpdate(map[string]interface{}{
			"port":         actual,
			"originalPort": requestedPort,
		})
	}
	return nil
}

// Disconnect delegates to the manager and stops forwarding endpoint
// events; calling it twice in a row is equivalent to calling it once.
func (s *Session) Disconnect(ctx context.Context) error {
	s.stopPump()
	err := s.manager.Disconnect(ctx)
	s.state.SetStatus(endpoint.StatusDisconnected())
	return err
}

// Cancel requests cooperative cancellation of an in-flight Connect.
func (s *Session) Cancel() {
	s.manager.Cancel()
}

func (s *Session) startPump() {
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	if s.pumpCancel != nil {
		s.pumpCancel()
	}
	s.pumpCancel = cancel
	s.mu.Unlock()

	// The endpoint's read task emits every event to epSink as well, so
	// its own channel is only drained here.
	if ep := s.manager.Endpoint(); ep != nil {
		if received, err := ep.StartReceiving(ctx); err == nil {
			go func() {
				for range received {
				}
			}()
		}
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-s.epSink.Events():
				if !ok {
					return
				}
				s.handleEndpointEvent(ev)
			}
		}
	}()
}

func (s *Session) stopPump() {
	s.mu.Lock()
	cancel := s.pumpCancel
	s.pumpCancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// handleEndpointEvent routes one event from the per-endpoint sink
// into the buffer (messages only), the state machine (EOF closes the
// session per spec §7), and the global sink, stamped with SessionID.
func (s *Session) handleEndpointEvent(ev endpoint.NetworkEvent) {
	ev.SessionID = s.id

	switch ev.Type {
	case endpoint.EventMessage:
		s.buffer.AddIncoming(ev.Bytes)
		ev.Direction = endpoint.DirectionIncoming
		s.state.Touch()
	case endpoint.EventDisconnected:
		s.state.SetStatus(endpoint.StatusDisconnected())
	}

	if s.globalSink != nil {
		s.globalSink.Emit(ev)
	}
}

// Send unicasts through the manager and records the outgoing message.
func (s *Session) Send(ctx context.Context, data []byte) (int, error) {
	n, err := s.manager.Send(ctx, data)
	if err == nil {
		s.buffer.AddOutgoing(data)
		s.state.Touch()
	}
	return n, err
}

// SendToClient routes a unicast to one server-tracked client.
func (s *Session) SendToClient(ctx context.Context, clientID string, data []byte) (int, error) {
	n, err := s.manager.SendToClient(ctx, clientID, data)
	if err == nil {
		s.buffer.AddOutgoing(data)
		s.state.Touch()
	}
	return n, err
}

// Broadcast fans a message out to every server-tracked client.
func (s *Session) Broadcast(ctx context.Context, data []byte) (int, error) {
	n, err := s.manager.Broadcast(ctx, data)
	if err == nil {
		s.buffer.AddOutgoing(data)
		s.state.Touch()
	}
	return n, err
}

// DisconnectClient drops one server-tracked client connection.
func (s *Session) DisconnectClient(ctx context.Context, clientID string) error {
	return s.manager.DisconnectClient(ctx, clientID)
}

// SendUDPMessage sends one explicit-address datagram (spec §6
// "send_udp_message"). This is deliberately independent of the
// managed endpoint connection: none of the UDP variants expose a
// per-call destination override, only a default peer set at Connect
// time, so an explicit (host, port) datagram is a one-shot net.Dial
// rather than a path through connmgr.
func (s *Session) SendUDPMessage(ctx context.Context, data []byte, host string, port uint16) (int, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))

	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "udp", addr)
	if err != nil {
		return 0, liberr.ErrSendFailed.Error(err)
	}
	defer conn.Close()

	n, err := conn.Write(data)
	if err != nil {
		return n, liberr.ErrSendFailed.Error(err)
	}
	s.buffer.AddOutgoing(data)
	s.state.Touch()
	return n, nil
}

func (s *Session) SubscribeMqttTopic(topic string, qos byte) error {
	return s.manager.Subscribe(topic, qos)
}

func (s *Session) UnsubscribeMqttTopic(topic string) error {
	return s.manager.Unsubscribe(topic)
}

func (s *Session) PublishMqttMessage(topic string, payload []byte, qos byte, retain bool) error {
	err := s.manager.Publish(topic, payload, qos, retain)
	if err == nil {
		s.buffer.AddOutgoing(payload)
		s.state.Touch()
	}
	return err
}

func (s *Session) MqttSubscriptions() ([]string, error) {
	return s.manager.Subscriptions()
}

func (s *Session) ReadCoils(ctx context.Context, address, quantity uint16) ([]bool, error) {
	return s.manager.ReadCoils(ctx, address, quantity)
}

func (s *Session) ReadDiscreteInputs(ctx context.Context, address, quantity uint16) ([]bool, error) {
	return s.manager.ReadDiscreteInputs(ctx, address, quantity)
}

func (s *Session) ReadHoldingRegisters(ctx context.Context, address, quantity uint16) ([]uint16, error) {
	return s.manager.ReadHoldingRegisters(ctx, address, quantity)
}

func (s *Session) ReadInputRegisters(ctx context.Context, address, quantity uint16) ([]uint16, error) {
	return s.manager.ReadInputRegisters(ctx, address, quantity)
}

func (s *Session) WriteSingleCoil(ctx context.Context, address uint16, value bool) error {
	return s.manager.WriteSingleCoil(ctx, address, value)
}

func (s *Session) WriteSingleRegister(ctx context.Context, address uint16, value uint16) error {
	return s.manager.WriteSingleRegister(ctx, address, value)
}

func (s *Session) WriteMultipleCoils(ctx context.Context, address uint16, values []bool) error {
	return s.manager.WriteMultipleCoils(ctx, address, values)
}

func (s *Session) WriteMultipleRegisters(ctx context.Context, address uint16, values []uint16) error {
	return s.manager.WriteMultipleRegisters(ctx, address, values)
}

func (s *Session) ReadWriteMultipleRegisters(ctx context.Context, readAddress, readQuantity, writeAddress uint16, writeValues []uint16) ([]uint16, error) {
	return s.manager.ReadWriteMultipleRegisters(ctx, readAddress, readQuantity, writeAddress, writeValues)
}

// PauseAutoReconnect and ResumeAutoReconnect flip the inert flag
// recorded on State (spec §9 open question: no watchdog consults it).
func (s *Session) PauseAutoReconnect()  { s.state.PauseAutoReconnect() }
func (s *Session) ResumeAutoReconnect() { s.state.ResumeAutoReconnect() }

// IsConnected reports the manager's endpoint connectivity.
func (s *Session) IsConnected() bool { return s.manager.IsConnected() }

// ActualPort reports the bound port of a server endpoint, if any.
func (s *Session) ActualPort() (uint16, bool) { return s.manager.ActualPort() }
