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

package connmgr

import (
	"context"
	"fmt"

	"github/sabouaram/netsession/endpoint"
	liberr "github/sabouaram/netsession/errors"
)

// Send unicasts through the held endpoint (spec §4.1 client/server
// send semantics); returns NotConnected if no endpoint is held.
func (m *Manager) Send(ctx context.Context, data []byte) (int, error) {
	ep := m.Endpoint()
	if ep == nil {
		return 0, liberr.ErrNotConnected.Error()
	}
	return ep.Send(ctx, data)
}

// SendToClient downcasts to ServerEndpoint (spec §4.3 "Downcasting
// helpers"); any other variant reports the connection doesn't support
// per-client send.
func (m *Manager) SendToClient(ctx context.Context, clientID string, data []byte) (int, error) {
	ep := m.Endpoint()
	if ep == nil {
		return 0, liberr.ErrNotConnected.Error()
	}
	srv, ok := ep.(endpoint.ServerEndpoint)
	if !ok {
		return 0, liberr.ErrSendFailed.Error(fmt.Errorf("connection does not support client send"))
	}
	return srv.SendToClient(ctx, clientID, data)
}

// Broadcast downcasts to ServerEndpoint.
func (m *Manager) Broadcast(ctx context.Context, data []byte) (int, error) {
	ep := m.Endpoint()
	if ep == nil {
		return 0, liberr.ErrNotConnected.Error()
	}
	srv, ok := ep.(endpoint.ServerEndpoint)
	if !ok {
		return 0, liberr.ErrSendFailed.Error(fmt.Errorf("connection does not support broadcast"))
	}
	return srv.Broadcast(ctx, data)
}

// DisconnectClient downcasts to ServerEndpoint.
func (m *Manager) DisconnectClient(ctx context.Context, clientID string) error {
	ep := m.Endpoint()
	if ep == nil {
		return liberr.ErrNotConnected.Error()
	}
	srv, ok := ep.(endpoint.ServerEndpoint)
	if !ok {
		return liberr.ErrConnectionFailed.Error(fmt.Errorf("connection does not support client disconnection"))
	}
	return srv.DisconnectClient(ctx, clientID)
}

// asMqtt downcasts to MqttEndpoint, reporting NotSupported otherwise.
func (m *Manager) asMqtt() (endpoint.MqttEndpoint, error) {
	ep := m.Endpoint()
	if ep == nil {
		return nil, liberr.ErrNotConnected.Error()
	}
	mq, ok := ep.(endpoint.MqttEndpoint)
	if !ok {
		return nil, liberr.ErrNotSupported.Error(fmt.Errorf("connection does not support mqtt operations"))
	}
	return mq, nil
}

func (m *Manager) Subscribe(topic string, qos byte) error {
	mq, err := m.asMqtt()
	if err != nil {
		return err
	}
	return mq.Subscribe(topic, qos)
}

func (m *Manager) Unsubscribe(topic string) error {
	mq, err := m.asMqtt()
	if err != nil {
		return err
	}
	return mq.Unsubscribe(topic)
}

func (m *Manager) Publish(topic string, payload []byte, qos byte, retain bool) error {
	mq, err := m.asMqtt()
	if err != nil {
		return err
	}
	return mq.Publish(topic, payload, qos, retain)
}

func (m *Manager) Subscriptions() ([]string, error) {
	mq, err := m.asMqtt()
	if err != nil {
		return nil, err
	}
	return mq.Subscriptions(), nil
}

// asModbus downcasts to ModbusEndpoint, reporting NotSupported
// otherwise (spec §4.6: Modbus function-code methods "route through
// the manager, which validates endpoint capability").
func (m *Manager) asModbus() (endpoint.ModbusEndpoint, error) {
	ep := m.Endpoint()
	if ep == nil {
		return nil, liberr.ErrNotConnected.Error()
	}
	mb, ok := ep.(endpoint.ModbusEndpoint)
	if !ok {
		return nil, liberr.ErrNotSupported.Error(fmt.Errorf("connection does not support modbus operations"))
	}
	return mb, nil
}

func (m *Manager) ReadCoils(ctx context.Context, address, quantity uint16) ([]bool, error) {
	mb, err := m.asModbus()
	if err != nil {
		return nil, err
	}
	return mb.ReadCoils(ctx, address, quantity)
}

func (m *Manager) ReadDiscreteInputs(ctx context.Context, address, quantity uint16) ([]bool, error) {
	mb, err := m.asModbus()
	if err != nil {
		return nil, err
	}
	return mb.ReadDiscreteInputs(ctx, address, quantity)
}

func (m *Manager) ReadHoldingRegisters(ctx context.Context, address, quantity uint16) ([]uint16, error) {
	mb, err := m.asModbus()
	if err != nil {
		return nil, err
	}
	return mb.ReadHoldingRegisters(ctx, address, quantity)
}

func (m *Manager) ReadInputRegisters(ctx context.Context, address, quantity uint16) ([]uint16, error) {
	mb, err := m.asModbus()
	if err != nil {
		return nil, err
	}
	return mb.ReadInputRegisters(ctx, address, quantity)
}

func (m *Manager) WriteSingleCoil(ctx context.Context, address uint16, value bool) error {
	mb, err := m.asModbus()
	if err != nil {
		return err
	}
	return mb.WriteSingleCoil(ctx, address, value)
}

func (m *Manager) WriteSingleRegister(ctx context.Context, address uint16, value uint16) error {
	mb, err := m.asModbus()
	if err != nil {
		return err
	}
	return mb.WriteSingleRegister(ctx, address, value)
}

func (m *Manager) WriteMultipleCoils(ctx context.Context, address uint16, values []bool) error {
	mb, err := m.asModbus()
	if err != nil {
		return err
	}
	return mb.WriteMultipleCoils(ctx, address, values)
}

func (m *Manager) WriteMultipleRegisters(ctx context.Context, address uint16, values []uint16) error {
	mb, err := m.asModbus()
	if err != nil {
		return err
	}
	return mb.WriteMultipleRegisters(ctx, address, values)
}

func (m *Manager) ReadWriteMultipleRegisters(ctx context.Context, readAddress, readQuantity, writeAddress uint16, writeValues []uint16) ([]uint16, error) {
	mb, err := m.asModbus()
	if err != nil {
		return nil, err
	}
	return mb.ReadWriteMultipleRegisters(ctx, readAddress, readQuantity, writeAddress, writeValues)
}
