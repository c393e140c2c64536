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

// Package udp implements the socket.Client contract over a UDP socket.
// Connect associates the socket with the remote address (net.DialUDP)
// so that Read/Write behave like a connected stream even though the
// underlying transport is datagram-based - resolved this way rather than
// a separate send/receive socket pair, since a single *net.UDPConn
// already serializes both directions correctly for a point-to-point
// session.
package udp

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"

	libsck "github/sabouaram/netsession/socket"
)

var ErrAddress = errors.New("udp: empty or invalid address")

type ClientUDP interface {
	libsck.Client
}

type client struct {
	address string

	mu   sync.Mutex
	conn *net.UDPConn

	connected atomic.Bool

	fnErr  atomic.Pointer[libsck.FuncError]
	fnInfo atomic.Pointer[libsck.FuncInfo]
}

func New(address string) (ClientUDP, error) {
	if address == "" {
		return nil, ErrAddress
	}
	if _, err := net.ResolveUDPAddr("udp", address); err != nil {
		return nil, ErrAddress
	}
	return &client{address: address}, nil
}

func (c *client) RegisterFuncError(f libsck.FuncError) {
	c.fnErr.Store(&f)
}

func (c *client) RegisterFuncInfo(f libsck.FuncInfo) {
	c.fnInfo.Store(&f)
}

func (c *client) notifyError(errs ...error) {
	if p := c.fnErr.Load(); p != nil {
		(*p)(errs...)
	}
}

func (c *client) notifyInfo(state libsck.ConnState) {
	p := c.fnInfo.Load()
	if p == nil {
		return
	}
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return
	}
	(*p)(conn.LocalAddr(), conn.RemoteAddr(), state)
}

func (c *client) Connect(ctx context.Context) error {
	c.notifyInfo(libsck.ConnectionDial)

	raddr, err := net.ResolveUDPAddr("udp", c.address)
	if err != nil {
		c.notifyError(err)
		return err
	}

	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		c.notifyError(err)
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.connected.Store(true)
	c.notifyInfo(libsck.ConnectionNew)
	return nil
}

func (c *client) IsConnected() bool {
	return c.connected.Load()
}

func (c *client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	c.connected.Store(false)
	c.notifyInfo(libsck.ConnectionClose)

	if err := libsck.ErrorFilter(conn.Close()); err != nil {
		c.notifyError(err)
		return err
	}
	return nil
}

func (c *client) Read(p []byte) (int, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return 0, net.ErrClosed
	}

	c.notifyInfo(libsck.ConnectionRead)
	n, err := conn.Read(p)
	if err != nil {
		if filtered := libsck.ErrorFilter(err); filtered != nil {
			c.notifyError(filtered)
		}
	}
	return n, err
}

func (c *client) Write(p []byte) (int, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return 0, net.ErrClosed
	}

	c.notifyInfo(libsck.ConnectionWrite)
	n, err := conn.Write(p)
	if err != nil {
		if filtered := libsck.ErrorFilter(err); filtered != nil {
			c.notifyError(filtered)
		}
	}
	return n, err
}
