/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

package socket

import (
	"context"
	"net"
	"sync/atomic"
	"time"
)

// connContext is the shared Context implementation used by every
// tcp/udp client and server in this module: it binds a net.Conn to a
// parent context so a handler observes cancellation the same way
// regardless of transport.
type connContext struct {
	context.Context
	conn   net.Conn
	closed atomic.Bool
}

// NewContext wraps conn as a socket.Context bound to parent's
// cancellation.
func NewContext(parent context.Context, conn net.Conn) Context {
	return &connContext{Context: parent, conn: conn}
}

func (c *connContext) IsConnected() bool {
	if c.closed.Load() {
		return false
	}
	select {
	case <-c.Context.Done():
		return false
	default:
		return true
	}
}

func (c *connContext) LocalHost() string {
	if c.conn == nil {
		return ""
	}
	if a := c.conn.LocalAddr(); a != nil {
		return a.String()
	}
	return ""
}

func (c *connContext) RemoteHost() string {
	if c.conn == nil {
		return ""
	}
	if a := c.conn.RemoteAddr(); a != nil {
		return a.String()
	}
	return ""
}

func (c *connContext) Read(p []byte) (int, error) {
	return c.conn.Read(p)
}

func (c *connContext) Write(p []byte) (int, error) {
	return c.conn.Write(p)
}

func (c *connContext) Close() error {
	c.closed.Store(true)
	return c.conn.Close()
}

// deadline applies an idle-timeout duration to a net.Conn as one
// combined read/write deadline; d <= 0 leaves the conn untouched. It is
// unexported and no code in this module calls it.
func deadline(conn net.Conn, d time.Duration) {
	if d <= 0 {
		return
	}
	_ = conn.SetDeadline(time.Now().Add(d))
}
