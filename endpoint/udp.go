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
	skdclt "github/sabouaram/netsession/socket/client/udp"
	skdsrv "github/sabouaram/netsession/socket/server/udp"
)

// udpClient is the UdpClient variant (spec §4.1): binds an ephemeral
// local socket via Connect to a default peer; a background task polls
// Read and emits message events.
type udpClient struct {
	cfg  Config
	sink EventSink

	cli skdclt.ClientUDP

	connected atomic.Bool
	actual    atomic.Uint32
}

func newUdpClient(cfg Config, sink EventSink) (Endpoint, error) {
	cli, err := skdclt.New(cfg.Address())
	if err != nil {
		return nil, liberr.ErrInvalidConfig.Error(err)
	}
	return &udpClient{cfg: cfg, sink: sink, cli: cli}, nil
}

func (c *udpClient) Connect(ctx context.Context) error {
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

func (c *udpClient) Disconnect(ctx context.Context) error {
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

func (c *udpClient) Send(ctx context.Context, data []byte) (int, error) {
	if !c.connected.Load() {
		return 0, liberr.ErrNotConnected.Error()
	}
	n, err := c.cli.Write(data)
	if err != nil {
		return n, liberr.ErrSendFailed.Error(err)
	}
	return n, nil
}

func (c *udpClient) IsConnected() bool { return c.connected.Load() }

func (c *udpClient) Status() string {
	if c.connected.Load() {
		return fmt.Sprintf("udp client connected to %s", c.cfg.Address())
	}
	return fmt.Sprintf("udp client not connected (target %s)", c.cfg.Address())
}

func (c *udpClient) ActualPort() (uint16, bool) {
	if !c.connected.Load() {
		return 0, false
	}
	return uint16(c.actual.Load()), true
}

func (c *udpClient) StartReceiving(ctx context.Context) (<-chan NetworkEvent, error) {
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

// udpServer is the UdpServer variant (spec §4.1): binds the advertised
// address; every datagram's source is tracked in the client table
// (client-connected on first sight); disconnect is a semantic no-op,
// the table is simply cleared.
type udpServer struct {
	cfg  Config
	sink EventSink

	srv skdsrv.ServerUdp

	mu      sync.Mutex
	clients map[string]bool

	running atomic.Bool
	actual  atomic.Uint32
}

func newUdpServer(cfg Config, sink EventSink) (Endpoint, error) {
	s := &udpServer{cfg: cfg, sink: sink, clients: make(map[string]bool)}

	scfg := sckcfg.Server{Network: libptc.NetworkUDP, Address: cfg.Address()}
	srv, err := skdsrv.New(nil, s.handle, scfg)
	if err != nil {
		return nil, liberr.ErrInvalidConfig.Error(err)
	}
	s.srv = srv
	return s, nil
}

func (s *udpServer) handle(ctx libsck.Context) {
	clientID := ctx.RemoteHost()

	s.mu.Lock()
	_, seen := s.clients[clientID]
	s.clients[clientID] = true
	s.mu.Unlock()

	if !seen && s.sink != nil {
		s.sink.Emit(NetworkEvent{Type: EventClientConnected, ClientID: clientID})
	}

	buf := make([]byte, readChunkSize)
	n, err := ctx.Read(buf)
	if n > 0 && s.sink != nil {
		payload := make([]byte, n)
		copy(payload, buf[:n])
		s.sink.Emit(NetworkEvent{Type: EventMessage, ClientID: clientID, Bytes: payload})
	}
	if err != nil && err != io.EOF && s.sink != nil {
		s.sink.Emit(NetworkEvent{Type: EventErr, ClientID: clientID, Err: err})
	}
}

func (s *udpServer) Connect(ctx context.Context) error {
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

func (s *udpServer) Disconnect(ctx context.Context) error {
	if !s.running.Load() {
		return nil
	}
	s.running.Store(false)
	err := s.srv.Shutdown(ctx)

	s.mu.Lock()
	s.clients = make(map[string]bool)
	s.mu.Unlock()

	if s.sink != nil {
		s.sink.Emit(NetworkEvent{Type: EventDisconnected})
	}
	return err
}

func (s *udpServer) Send(ctx context.Context, data []byte) (int, error) {
	return s.Broadcast(ctx, data)
}

func (s *udpServer) IsConnected() bool { return s.running.Load() }

func (s *udpServer) Status() string {
	return fmt.Sprintf("udp server on %s, %d open handlers", s.cfg.Address(), s.srv.OpenConnections())
}

func (s *udpServer) ActualPort() (uint16, bool) {
	if !s.running.Load() {
		return 0, false
	}
	return uint16(s.actual.Load()), true
}

func (s *udpServer) StartReceiving(ctx context.Context) (<-chan NetworkEvent, error) {
	return nil, liberr.ErrNotSupported.Error(fmt.Errorf("udp server events are delivered per-datagram through the event sink"))
}

// SendToClient parses clientID back to a UDP address and sends a
// fresh datagram - UDP has no persistent per-client socket to reuse.
func (s *udpServer) SendToClient(ctx context.Context, clientID string, data []byte) (int, error) {
	s.mu.Lock()
	_, ok := s.clients[clientID]
	s.mu.Unlock()
	if !ok {
		return 0, liberr.ErrClientNotFound.Error()
	}

	peer, err := skdclt.New(clientID)
	if err != nil {
		return 0, liberr.ErrSendFailed.Error(err)
	}
	if err := peer.Connect(ctx); err != nil {
		return 0, liberr.ErrSendFailed.Error(err)
	}
	defer peer.Close()

	n, err := peer.Write(data)
	if err != nil {
		return n, liberr.ErrSendFailed.Error(err)
	}
	return n, nil
}

// Broadcast iterates known peers and uses independent datagrams (spec
// §4.1 "UDP broadcast to tracked peers").
func (s *udpServer) Broadcast(ctx context.Context, data []byte) (int, error) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.clients))
	for id := range s.clients {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	total := 0
	for _, id := range ids {
		if n, err := s.SendToClient(ctx, id, data); err == nil {
			total += n
		}
	}
	return total, nil
}

func (s *udpServer) DisconnectClient(ctx context.Context, clientID string) error {
	s.mu.Lock()
	_, ok := s.clients[clientID]
	delete(s.clients, clientID)
	s.mu.Unlock()

	if !ok {
		return liberr.ErrClientNotFound.Error()
	}
	return nil
}
