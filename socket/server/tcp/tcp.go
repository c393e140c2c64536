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

// Package tcp implements the socket.Server contract over a plain TCP
// listener, dispatching one goroutine per accepted connection to a
// socket.HandlerFunc.
package tcp

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"

	sckcfg "github/sabouaram/netsession/socket/config"

	libsck "github/sabouaram/netsession/socket"
)

var ErrInvalidAddress = errors.New("tcp: invalid listen address")

// ServerTcp is the capability surface of a TCP server.
type ServerTcp interface {
	libsck.Server
}

// UpdateConn customizes an accepted connection (deadlines, keepalive,
// buffer sizes) before the handler runs.
type UpdateConn func(conn net.Conn)

type server struct {
	cfg     sckcfg.Server
	upd     UpdateConn
	handler libsck.HandlerFunc

	mu  sync.Mutex
	ln  net.Listener
	wg  sync.WaitGroup
	err error

	running atomic.Bool
	gone    atomic.Bool
	open    atomic.Int64

	fnErr  atomic.Pointer[libsck.FuncError]
	fnInfo atomic.Pointer[libsck.FuncInfo]
}

// New validates cfg and returns a server ready to Listen. gone is true
// on a freshly-created, not-yet-started server.
func New(upd UpdateConn, handler libsck.HandlerFunc, cfg sckcfg.Server) (ServerTcp, error) {
	if cfg.Address == "" {
		return nil, ErrInvalidAddress
	}
	if _, err := net.ResolveTCPAddr("tcp", cfg.Address); err != nil {
		return nil, ErrInvalidAddress
	}

	s := &server{cfg: cfg, upd: upd, handler: handler}
	s.gone.Store(true)
	return s, nil
}

func (s *server) RegisterFuncError(f libsck.FuncError) {
	s.fnErr.Store(&f)
}

func (s *server) RegisterFuncInfo(f libsck.FuncInfo) {
	s.fnInfo.Store(&f)
}

func (s *server) notifyError(errs ...error) {
	if p := s.fnErr.Load(); p != nil {
		(*p)(errs...)
	}
}

func (s *server) notifyInfo(local, remote net.Addr, state libsck.ConnState) {
	if p := s.fnInfo.Load(); p != nil {
		(*p)(local, remote, state)
	}
}

func (s *server) Listen(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		s.notifyError(err)
		return err
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.running.Store(true)
	s.gone.Store(false)

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if filtered := libsck.ErrorFilter(err); filtered != nil {
				s.notifyError(filtered)
			}
			s.running.Store(false)
			s.wg.Wait()
			s.gone.Store(true)
			return nil
		}

		if s.upd != nil {
			s.upd(conn)
		}

		s.wg.Add(1)
		s.open.Add(1)
		go s.serve(ctx, conn)
	}
}

func (s *server) serve(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer s.open.Add(-1)
	defer conn.Close()

	s.notifyInfo(conn.LocalAddr(), conn.RemoteAddr(), libsck.ConnectionNew)

	hctx := libsck.NewContext(ctx, conn)
	s.notifyInfo(conn.LocalAddr(), conn.RemoteAddr(), libsck.ConnectionHandler)

	if s.handler != nil {
		s.handler(hctx)
	}

	s.notifyInfo(conn.LocalAddr(), conn.RemoteAddr(), libsck.ConnectionClose)
}

func (s *server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()

	if ln != nil {
		if err := ln.Close(); err != nil {
			if filtered := libsck.ErrorFilter(err); filtered != nil {
				s.notifyError(filtered)
			}
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.running.Store(false)
	s.gone.Store(true)
	return nil
}

func (s *server) IsRunning() bool {
	return s.running.Load()
}

func (s *server) IsGone() bool {
	return s.gone.Load()
}

func (s *server) OpenConnections() int64 {
	return s.open.Load()
}
