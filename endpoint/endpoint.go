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

// Package endpoint implements the per-protocol capability set every
// connection variant (TCP/UDP/WebSocket/MQTT/SSE/Modbus, client and
// server) satisfies, plus the factory that builds one from a Config.
package endpoint

import (
	"context"
)

// Role distinguishes a client-role endpoint from a server-role one.
type Role string

const (
	RoleClient Role = "client"
	RoleServer Role = "server"
)

// Protocol selects the wire protocol an endpoint speaks.
type Protocol string

const (
	ProtocolTcp       Protocol = "tcp"
	ProtocolUdp       Protocol = "udp"
	ProtocolWebSocket Protocol = "websocket"
	ProtocolMqtt      Protocol = "mqtt"
	ProtocolSse       Protocol = "sse"
	ProtocolModbusTcp Protocol = "modbus-tcp"
	ProtocolModbusRtu Protocol = "modbus-rtu"
)

// StatusKind is the discriminant of a ConnectionStatus tagged union.
type StatusKind uint8

const (
	Disconnected StatusKind = iota
	Connecting
	Connected
	Reconnecting
	TimedOut
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case Disconnected:
		return "Disconnected"
	case Connecting:
		return "Connecting"
	case Connected:
		return "Connected"
	case Reconnecting:
		return "Reconnecting"
	case TimedOut:
		return "TimedOut"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// ConnectionStatus is the tagged union described in spec §3: every
// transition is observed by the EventSink exactly once; duplicate
// transitions sharing a discriminant are suppressed by the caller
// (session.State), not by this type itself.
type ConnectionStatus struct {
	Kind    StatusKind
	Attempt uint32
	Message string
}

// SameDiscriminant reports whether s and o share the same Kind,
// independent of Attempt/Message payload.
func (s ConnectionStatus) SameDiscriminant(o ConnectionStatus) bool {
	return s.Kind == o.Kind
}

func (s ConnectionStatus) String() string {
	switch s.Kind {
	case Reconnecting:
		return "Reconnecting"
	case StatusError:
		if s.Message == "" {
			return "Error"
		}
		return "Error: " + s.Message
	default:
		return s.Kind.String()
	}
}

func StatusDisconnected() ConnectionStatus { return ConnectionStatus{Kind: Disconnected} }
func StatusConnecting() ConnectionStatus   { return ConnectionStatus{Kind: Connecting} }
func StatusConnected() ConnectionStatus    { return ConnectionStatus{Kind: Connected} }
func StatusReconnecting(attempt uint32) ConnectionStatus {
	return ConnectionStatus{Kind: Reconnecting, Attempt: attempt}
}
func StatusTimedOut() ConnectionStatus { return ConnectionStatus{Kind: TimedOut} }
func StatusErr(message string) ConnectionStatus {
	return ConnectionStatus{Kind: StatusError, Message: message}
}

// EventType names the kind of NetworkEvent flowing through an EventSink.
type EventType string

const (
	EventConnected          EventType = "connected"
	EventDisconnected       EventType = "disconnected"
	EventMessage            EventType = "message"
	EventErr                EventType = "error"
	EventClientConnected    EventType = "client-connected"
	EventClientDisconnected EventType = "client-disconnected"
	EventConfigUpdate       EventType = "config-update"
	EventConnectionStatus   EventType = "connection-status"
)

// Direction labels a buffered/streamed message as inbound or outbound
// (spec §3 BufferedMessage, §6 "message-received").
type Direction string

const (
	DirectionIncoming Direction = "in"
	DirectionOutgoing Direction = "out"
)

// NetworkEvent is the envelope carried on a per-session channel and on
// the global EventSink (spec §3).
type NetworkEvent struct {
	SessionID string
	Type      EventType
	Bytes     []byte
	Err       error
	ClientID  string
	Direction Direction

	// Status carries the full ConnectionStatus payload for an
	// EventConnectionStatus event (spec §6 "connection-status").
	Status *ConnectionStatus

	MqttTopic  string
	MqttQoS    byte
	MqttRetain bool

	SseEvent *SseEvent

	ConfigUpdates map[string]interface{}
}

// EventSink is a clone-cheap handle over the host channel that
// delivers events to an external observer. Emit never blocks: if the
// consumer is gone, the event is dropped silently (spec §5 "Shared
// resource policy").
type EventSink interface {
	Emit(e NetworkEvent)
}

// ChannelSink is the default EventSink: a bounded buffered channel.
type ChannelSink struct {
	ch chan NetworkEvent
}

// NewEventSink returns a ChannelSink with the given buffer capacity.
// Spec §4.1 fixes the per-endpoint receive channel at 1000; the global
// sink used by sessionmgr may use a different capacity.
func NewEventSink(capacity int) *ChannelSink {
	if capacity <= 0 {
		capacity = 1000
	}
	return &ChannelSink{ch: make(chan NetworkEvent, capacity)}
}

func (s *ChannelSink) Emit(e NetworkEvent) {
	select {
	case s.ch <- e:
	default:
	}
}

// Events returns the receive side of the sink's channel.
func (s *ChannelSink) Events() <-chan NetworkEvent {
	return s.ch
}

// Close closes the underlying channel. Callers must stop emitting
// before calling Close.
func (s *ChannelSink) Close() {
	close(s.ch)
}

// Endpoint is the capability set every protocol variant implements
// (spec §4.1).
type Endpoint interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Send(ctx context.Context, data []byte) (int, error)
	IsConnected() bool
	Status() string
	StartReceiving(ctx context.Context) (<-chan NetworkEvent, error)
	ActualPort() (uint16, bool)
}

// ServerEndpoint extends Endpoint with the per-client operations
// TcpServer/UdpServer/WsServer expose.
type ServerEndpoint interface {
	Endpoint
	SendToClient(ctx context.Context, clientID string, data []byte) (int, error)
	Broadcast(ctx context.Context, data []byte) (int, error)
	DisconnectClient(ctx context.Context, clientID string) error
}

// MqttEndpoint extends Endpoint with the publish/subscribe surface.
type MqttEndpoint interface {
	Endpoint
	Subscribe(topic string, qos byte) error
	Unsubscribe(topic string) error
	Publish(topic string, payload []byte, qos byte, retain bool) error
	Subscriptions() []string
}

// ModbusEndpoint extends Endpoint with the function-code methods
// spec §4.1 requires in place of a raw Send.
type ModbusEndpoint interface {
	Endpoint
	ReadCoils(ctx context.Context, address, quantity uint16) ([]bool, error)
	ReadDiscreteInputs(ctx context.Context, address, quantity uint16) ([]bool, error)
	ReadHoldingRegisters(ctx context.Context, address, quantity uint16) ([]uint16, error)
	ReadInputRegisters(ctx context.Context, address, quantity uint16) ([]uint16, error)
	WriteSingleCoil(ctx context.Context, address uint16, value bool) error
	WriteSingleRegister(ctx context.Context, address uint16, value uint16) error
	WriteMultipleCoils(ctx context.Context, address uint16, values []bool) error
	WriteMultipleRegisters(ctx context.Context, address uint16, values []uint16) error
	ReadWriteMultipleRegisters(ctx context.Context, readAddress, readQuantity, writeAddress uint16, writeValues []uint16) ([]uint16, error)
}
