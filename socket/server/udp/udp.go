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

// Package udp implements the socket.Server contract over a UDP socket.
// There is no per-client connection: one goroutine reads datagrams off
// the shared socket and hands each one to the handler through a
// per-datagram Context bound to the sender's address.
package udp

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	libsck "github/sabouaram/netsession/socket"
	sckcfg "github/sabouaram/netsession/socket/config"
)

var ErrInvalidAddress = errors.New("udp: invalid listen address")

type ServerUdp interface {
	libsck.Server
}

type UpdateConn func(conn net.Conn)

type server struct {
	cfg     sckcfg.Server
	upd     UpdateConn
	handler libsck.HandlerFunc

	mu   sync.Mutex
	conn *net.UDPConn

	running atomic.Bool
	gone    atomic.Bool
	open    atomic.Int64

	fnErr  atomic.Pointer[libsck.FuncError]
	fnInfo atomic.Pointer[libsck.FuncInfo]
}

func New(upd UpdateConn, handler libsck.HandlerFunc, cfg sckcfg.Server) (ServerUdp, error) {
	if cfg.Address == "" {
		return nil, ErrInvalidAddress
	}
	if _, err := net.ResolveUDPAddr("udp", cfg.Address); err != nil {
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

// udpDatagram adapts a single received datagram, plus the shared
// listening socket, into a net.Conn good for one Read and any number of
// Writes back to the sender - the shape socket.Context expects.
type udpDatagram struct {
	sock   *net.UDPConn
	remote net.Addr
	data   []byte
	read   bool
}

func (d *udpDatagram) Read(p []byte) (int, error) {
	if d.read {
		return 0, io.EOF
	}
	d.read = true
	n := copy(p, d.data)
	return n, nil
}

func (d *udpDatagram) Write(p []byte) (int, error) {
	return d.sock.WriteTo(p, d.remote)
}

func (d *udpDatagram) Close() error                     { return nil }
func (d *udpDatagram) LocalAddr() net.Addr              { return d.sock.LocalAddr() }
func (d *udpDatagram) RemoteAddr() net.Addr             { return d.remote }
func (d *udpDatagram) SetDeadline(t time.Time) error     { return nil }
func (d *udpDatagram) SetReadDeadline(t time.Time) error { return nil }
func (d *udpDatagram) SetWriteDeadline(t time.Time) error {
	return nil
}

func (s *server) Listen(ctx context.Context) error {
	raddr, err := net.ResolveUDPAddr("udp", s.cfg.Address)
	if err != nil {
		s.notifyError(err)
		return err
	}

	conn, err := net.ListenUDP("udp", raddr)
	if err != nil {
		s.notifyError(err)
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	s.running.Store(true)
	s.gone.Store(false)

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	buf := make([]byte, libsck.DefaultBufferSize)
	for {
		n, remote, err := conn.ReadFrom(buf)
		if err != nil {
			if filtered := libsck.ErrorFilter(err); filtered != nil {
				s.notifyError(filtered)
			}
			s.running.Store(false)
			s.gone.Store(true)
			return nil
		}

		payload := make([]byte, n)
		copy(payload, buf[:n])

		s.open.Add(1)
		go s.serve(ctx, remote, payload)
	}
}

func (s *server) serve(ctx context.Context, remote net.Addr, payload []byte) {
	defer s.open.Add(-1)

	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}

	s.notifyInfo(conn.LocalAddr(), remote, libsck.ConnectionNew)

	hctx := libsck.NewContext(ctx, &udpDatagram{sock: conn, remote: remote, data: payload})

	s.notifyInfo(conn.LocalAddr(), remote, libsck.ConnectionHandler)
	if s.handler != nil {
		s.handler(hctx)
	}
	s.notifyInfo(conn.LocalAddr(), remote, libsck.ConnectionClose)
}

func (s *server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn != nil {
		if err := conn.Close(); err != nil {
			if filtered := libsck.ErrorFilter(err); filtered != nil {
				s.notifyError(filtered)
			}
		}
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
