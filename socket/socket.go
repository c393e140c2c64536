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

// Package socket carries the primitives shared by every stream/datagram
// transport endpoint (tcp, udp): connection lifecycle states, the
// per-connection I/O handle handed to a handler, and the Client/Server
// capability surface that the protocol-specific packages implement.
package socket

import (
	"context"
	"net"
	"strings"
)

// DefaultBufferSize is the read buffer size used when a caller does not
// size its own buffer.
const DefaultBufferSize = 32 * 1024

// EOL is the line terminator used by line-oriented handlers.
const EOL byte = '\n'

// ConnState names a point in a connection's lifecycle, reported to a
// registered FuncInfo callback.
type ConnState uint8

const (
	ConnectionDial ConnState = iota
	ConnectionNew
	ConnectionRead
	ConnectionCloseRead
	ConnectionHandler
	ConnectionWrite
	ConnectionCloseWrite
	ConnectionClose
)

func (c ConnState) String() string {
	switch c {
	case ConnectionDial:
		return "Dial Connection"
	case ConnectionNew:
		return "New Connection"
	case ConnectionRead:
		return "Read Incoming Stream"
	case ConnectionCloseRead:
		return "Close Incoming Stream"
	case ConnectionHandler:
		return "Run HandlerFunc"
	case ConnectionWrite:
		return "Write Outgoing Steam"
	case ConnectionCloseWrite:
		return "Close Outgoing Stream"
	case ConnectionClose:
		return "Close Connection"
	default:
		return "unknown connection state"
	}
}

// ErrorFilter drops the noisy "use of closed network connection" error
// that every listener/conn produces on a deliberate Close, so callback
// registrants don't have to special-case it themselves. Any other error,
// including nil, passes through unchanged.
func ErrorFilter(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(strings.ToLower(err.Error()), "use of closed network connection") {
		return nil
	}
	return err
}

// FuncError receives one or more errors raised during a connection's
// lifetime (dial, read, write, handler panics recovered upstream).
type FuncError func(errs ...error)

// FuncInfo receives a connection-state transition, with both endpoints'
// addresses for correlation in logs.
type FuncInfo func(local, remote net.Addr, state ConnState)

// Context is the per-connection I/O handle passed to a HandlerFunc. It
// wraps the underlying net.Conn with the cancellation and addressing
// surface a handler needs without exposing the raw connection.
type Context interface {
	context.Context

	IsConnected() bool
	LocalHost() string
	RemoteHost() string

	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// HandlerFunc processes one connection end to end.
type HandlerFunc func(ctx Context)

// Handler is the stateful counterpart of HandlerFunc: a bound method
// value (h.Handle) satisfies HandlerFunc once closed over its receiver,
// letting a server dispatch into a type that carries its own dependencies.
type Handler interface {
	Handle(ctx Context)
}

// Server is the capability surface the tcp and udp server packages
// implement.
type Server interface {
	RegisterFuncError(f FuncError)
	RegisterFuncInfo(f FuncInfo)

	Listen(ctx context.Context) error
	Shutdown(ctx context.Context) error

	IsRunning() bool
	IsGone() bool
	OpenConnections() int64
}

// Client is the capability surface every protocol-specific client
// implements.
type Client interface {
	RegisterFuncError(f FuncError)
	RegisterFuncInfo(f FuncInfo)

	Connect(ctx context.Context) error
	IsConnected() bool
	Close() error

	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
}
