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

package endpoint

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	liberr "github/sabouaram/netsession/errors"
	libptc "github/sabouaram/netsession/network/protocol"
	libsck "github/sabouaram/netsession/socket"
	sckcfg "github/sabouaram/netsession/socket/config"
	scktcpclt "github/sabouaram/netsession/socket/client/tcp"
	scktcpsrv "github/sabouaram/netsession/socket/server/tcp"
)

const readChunkSize = 8 * 1024

// tcpClient is the TcpClient variant (spec §4.1): one read task
// reading up to 8 KiB per iteration; EOF emits disconnected; an I/O
// error emits error then terminates the task.
type tcpClient struct {
	cfg  Config
	sink EventSink

	cli scktcpclt.ClientTCP

	connected atomic.Bool
	actual    atomic.Uint32
}

func newTcpClient(cfg Config, sink EventSink) (Endpoint, error) {
	cli, err := scktcpclt.New(cfg.Address())
	if err != nil {
		return nil, liberr.ErrInvalidConfig.Error(err)
	}
	return &tcpClient{cfg: cfg, sink: sink, cli: cli}, nil
}

func (c *tcpClient) Connect(ctx context.Context) error {
	if c.connected.Load() {
		return nil
	}

	to := ctx
	var cancel context.CancelFunc
	if c.cfg.TimeoutMs > 0 {
		to, cancel = context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	if err := c.cli.Connect(to); err != nil {
		return classifyConnectErr(err, c.cfg.Port)
	}

	c.connected.Store(true)
	c.actual.Store(uint32(c.cfg.Port))
	if c.sink != nil {
		c.sink.Emit(NetworkEvent{Type: EventConnected})
	}
	return nil
}

func (c *tcpClient) Disconnect(ctx context.Context) error {
	if !c.connected.Load() {
		return nil
	}
	c.connected.Store(false)
	err := c.cli.Close()
	if c.sink != nil {
		c.sink.Emit(NetworkEvent{Type: EventDisconnected})
	}
	return err
}

func (c *tcpClient) Send(ctx context.Context, data []byte) (int, error) {
	if !c.connected.Load() {
		return 0, liberr.ErrNotConnected.Error()
	}
	n, err := c.cli.Write(data)
	if err != nil {
		return n, liberr.ErrSendFailed.Error(err)
	}
	return n, nil
}

func (c *tcpClient) IsConnected() bool { return c.connected.Load() }

func (c *tcpClient) Status() string {
	if c.connected.Load() {
		return fmt.Sprintf("tcp client connected to %s", c.cfg.Address())
	}
	return fmt.Sprintf("tcp client not connected (target %s)", c.cfg.Address())
}

func (c *tcpClient) ActualPort() (uint16, bool) {
	if !c.connected.Load() {
		return 0, false
	}
	return uint16(c.actual.Load()), true
}

func (c *tcpClient) StartReceiving(ctx context.Context) (<-chan NetworkEvent, error) {
	if !c.connected.Load() {
		return nil, liberr.ErrNotConnected.Error()
	}

	out := make(chan NetworkEvent, 1000)
	go func() {
		defer close(out)
		buf := make([]byte, readChunkSize)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			n, err := c.cli.Read(buf)
			if n > 0 {
				payload := make([]byte, n)
				copy(payload, buf[:n])
				ev := NetworkEvent{Type: EventMessage, Bytes: payload}
				out <- ev
				if c.sink != nil {
					c.sink.Emit(ev)
				}
			}
			if err != nil {
				if err == io.EOF {
					c.connected.Store(false)
					ev := NetworkEvent{Type: EventDisconnected}
					out <- ev
					if c.sink != nil {
						c.sink.Emit(ev)
					}
					return
				}
				ev := NetworkEvent{Type: EventErr, Err: err}
				out <- ev
				if c.sink != nil {
					c.sink.Emit(ev)
				}
				return
			}
		}
	}()
	return out, nil
}

// tcpServer is the TcpServer variant (spec §4.1): binds, spawns an
// accept loop, tracks connected clients in a table keyed by
// "ip:port" so SendToClient/Broadcast/DisconnectClient can reach a
// specific peer.
type tcpServer struct {
	cfg  Config
	sink EventSink

	srv scktcpsrv.ServerTcp

	mu      sync.RWMutex
	clients map[string]libsck.Context

	running atomic.Bool
	actual  atomic.Uint32
}

func newTcpServer(cfg Config, sink EventSink) (Endpoint, error) {
	s := &tcpServer{cfg: cfg, sink: sink, clients: make(map[string]libsck.Context)}

	scfg := sckcfg.Server{Network: libptc.NetworkTCP, Address: cfg.Address()}
	srv, err := scktcpsrv.New(nil, s.handle, scfg)
	if err != nil {
		return nil, liberr.ErrInvalidConfig.Error(err)
	}
	s.srv = srv
	return s, nil
}

func (s *tcpServer) handle(ctx libsck.Context) {
	clientID := ctx.RemoteHost()

	s.mu.Lock()
	s.clients[clientID] = ctx
	s.mu.Unlock()

	ev := NetworkEvent{Type: EventClientConnected, ClientID: clientID}
	if s.sink != nil {
		s.sink.Emit(ev)
	}

	buf := make([]byte, readChunkSize)
	for {
		n, err := ctx.Read(buf)
		if n > 0 {
			payload := make([]byte, n)
			copy(payload, buf[:n])
			if s.sink != nil {
				s.sink.Emit(NetworkEvent{Type: EventMessage, ClientID: clientID, Bytes: payload})
			}
		}
		if err != nil {
			break
		}
	}

	s.mu.Lock()
	delete(s.clients, clientID)
	s.mu.Unlock()

	if s.sink != nil {
		s.sink.Emit(NetworkEvent{Type: EventClientDisconnected, ClientID: clientID})
	}
}

func (s *tcpServer) Connect(ctx context.Context) error {
	if s.running.Load() {
		return nil
	}

	started := make(chan error, 1)
	go func() {
		started <- s.srv.Listen(ctx)
	}()

	select {
	case err := <-started:
		if err != nil {
			return classifyConnectErr(err, s.cfg.Port)
		}
	case <-time.After(50 * time.Millisecond):
	}

	s.running.Store(true)
	s.actual.Store(uint32(s.cfg.Port))
	if s.sink != nil {
		s.sink.Emit(NetworkEvent{Type: EventConnected})
	}
	return nil
}

func (s *tcpServer) Disconnect(ctx context.Context) error {
	if !s.running.Load() {
		return nil
	}
	s.running.Store(false)
	err := s.srv.Shutdown(ctx)
	if s.sink != nil {
		s.sink.Emit(NetworkEvent{Type: EventDisconnected})
	}
	return err
}

func (s *tcpServer) Send(ctx context.Context, data []byte) (int, error) {
	return s.Broadcast(ctx, data)
}

func (s *tcpServer) IsConnected() bool { return s.running.Load() }

func (s *tcpServer) Status() string {
	return fmt.Sprintf("tcp server on %s, %d open connections", s.cfg.Address(), s.srv.OpenConnections())
}

func (s *tcpServer) ActualPort() (uint16, bool) {
	if !s.running.Load() {
		return 0, false
	}
	return uint16(s.actual.Load()), true
}

func (s *tcpServer) StartReceiving(ctx context.Context) (<-chan NetworkEvent, error) {
	return nil, liberr.ErrNotSupported.Error(fmt.Errorf("tcp server events are delivered per-client through the event sink"))
}

func (s *tcpServer) SendToClient(ctx context.Context, clientID string, data []byte) (int, error) {
	s.mu.RLock()
	c, ok := s.clients[clientID]
	s.mu.RUnlock()
	if !ok {
		return 0, liberr.ErrClientNotFound.Error()
	}
	n, err := c.Write(data)
	if err != nil {
		return n, liberr.ErrSendFailed.Error(err)
	}
	return n, nil
}

func (s *tcpServer) Broadcast(ctx context.Context, data []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, c := range s.clients {
		if n, err := c.Write(data); err == nil {
			total += n
		}
	}
	return total, nil
}

func (s *tcpServer) DisconnectClient(ctx context.Context, clientID string) error {
	s.mu.Lock()
	c, ok := s.clients[clientID]
	delete(s.clients, clientID)
	s.mu.Unlock()

	if !ok {
		return liberr.ErrClientNotFound.Error()
	}
	return c.Close()
}
