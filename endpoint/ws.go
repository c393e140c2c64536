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
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"

	liberr "github/sabouaram/netsession/errors"
)

// wsClient is the WsClient variant (spec §4.1): performs a handshake
// to ws://host:port; Send picks Text if the payload is valid UTF-8,
// else Binary; Ping/Pong/raw frames are absorbed silently by gorilla's
// default control-frame handling; Close ends the read task.
type wsClient struct {
	cfg  Config
	sink EventSink

	mu   sync.Mutex
	conn *websocket.Conn

	connected atomic.Bool
	actual    atomic.Uint32
}

func newWsClient(cfg Config, sink EventSink) (Endpoint, error) {
	return &wsClient{cfg: cfg, sink: sink}, nil
}

func (c *wsClient) Connect(ctx context.Context) error {
	if c.connected.Load() {
		return nil
	}

	to := ctx
	var cancel context.CancelFunc
	if c.cfg.TimeoutMs > 0 {
		to, cancel = context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	if c.cfg.Ws != nil {
		dialer.EnableCompression = c.cfg.Ws.Compression
		if c.cfg.Ws.Subprotocol != "" {
			dialer.Subprotocols = []string{c.cfg.Ws.Subprotocol}
		}
	}

	url := fmt.Sprintf("ws://%s/", c.cfg.Address())
	conn, _, err := dialer.DialContext(to, url, nil)
	if err != nil {
		return classifyConnectErr(err, c.cfg.Port)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.connected.Store(true)
	c.actual.Store(uint32(c.cfg.Port))
	if c.sink != nil {
		c.sink.Emit(NetworkEvent{Type: EventConnected})
	}
	return nil
}

func (c *wsClient) Disconnect(ctx context.Context) error {
	if !c.connected.Load() {
		return nil
	}
	c.connected.Store(false)

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	var err error
	if conn != nil {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err = conn.Close()
	}
	if c.sink != nil {
		c.sink.Emit(NetworkEvent{Type: EventDisconnected})
	}
	return err
}

func (c *wsClient) Send(ctx context.Context, data []byte) (int, error) {
	if !c.connected.Load() {
		return 0, liberr.ErrNotConnected.Error()
	}

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return 0, liberr.ErrNotConnected.Error()
	}

	mt := websocket.BinaryMessage
	if utf8.Valid(data) {
		mt = websocket.TextMessage
	}

	if err := conn.WriteMessage(mt, data); err != nil {
		return 0, liberr.ErrSendFailed.Error(err)
	}
	return len(data), nil
}

func (c *wsClient) IsConnected() bool { return c.connected.Load() }

func (c *wsClient) Status() string {
	if c.connected.Load() {
		return fmt.Sprintf("websocket client connected to %s", c.cfg.Address())
	}
	return fmt.Sprintf("websocket client not connected (target %s)", c.cfg.Address())
}

func (c *wsClient) ActualPort() (uint16, bool) {
	if !c.connected.Load() {
		return 0, false
	}
	return uint16(c.actual.Load()), true
}

func (c *wsClient) StartReceiving(ctx context.Context) (<-chan NetworkEvent, error) {
	if !c.connected.Load() {
		return nil, liberr.ErrNotConnected.Error()
	}

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	out := make(chan NetworkEvent, 1000)
	go func() {
		defer close(out)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				c.connected.Store(false)
				var ev NetworkEvent
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					ev = NetworkEvent{Type: EventDisconnected}
				} else {
					ev = NetworkEvent{Type: EventErr, Err: err}
				}
				out <- ev
				if c.sink != nil {
					c.sink.Emit(ev)
				}
				return
			}

			ev := NetworkEvent{Type: EventMessage, Bytes: data}
			out <- ev
			if c.sink != nil {
				c.sink.Emit(ev)
			}
		}
	}()
	return out, nil
}

// wsServer is the WsServer variant (spec §4.1): a TCP listener plus
// per-connection WebSocket handshake via gorilla's Upgrader.
// Handshake errors emit error with the offending client_id.
type wsServer struct {
	cfg  Config
	sink EventSink

	upgrader websocket.Upgrader
	httpSrv  *http.Server
	ln       net.Listener

	mu      sync.RWMutex
	clients map[string]*websocket.Conn

	running atomic.Bool
	actual  atomic.Uint32
}

func newWsServer(cfg Config, sink EventSink) (Endpoint, error) {
	s := &wsServer{
		cfg:      cfg,
		sink:     sink,
		clients:  make(map[string]*websocket.Conn),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
	if cfg.Ws != nil {
		s.upgrader.EnableCompression = cfg.Ws.Compression
	}
	return s, nil
}

func (s *wsServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if s.sink != nil {
			s.sink.Emit(NetworkEvent{Type: EventErr, ClientID: r.RemoteAddr, Err: err})
		}
		return
	}

	clientID := conn.RemoteAddr().String()

	s.mu.Lock()
	s.clients[clientID] = conn
	s.mu.Unlock()

	if s.sink != nil {
		s.sink.Emit(NetworkEvent{Type: EventClientConnected, ClientID: clientID})
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if s.sink != nil {
			s.sink.Emit(NetworkEvent{Type: EventMessage, ClientID: clientID, Bytes: data})
		}
	}

	s.mu.Lock()
	delete(s.clients, clientID)
	s.mu.Unlock()
	_ = conn.Close()

	if s.sink != nil {
		s.sink.Emit(NetworkEvent{Type: EventClientDisconnected, ClientID: clientID})
	}
}

func (s *wsServer) Connect(ctx context.Context) error {
	if s.running.Load() {
		return nil
	}

	ln, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return classifyConnectErr(err, s.cfg.Port)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveHTTP)
	s.httpSrv = &http.Server{Handler: mux}
	s.ln = ln

	go func() { _ = s.httpSrv.Serve(ln) }()

	s.running.Store(true)
	s.actual.Store(uint32(s.cfg.Port))
	if s.sink != nil {
		s.sink.Emit(NetworkEvent{Type: EventConnected})
	}
	return nil
}

func (s *wsServer) Disconnect(ctx context.Context) error {
	if !s.running.Load() {
		return nil
	}
	s.running.Store(false)

	err := s.httpSrv.Shutdown(ctx)
	if s.sink != nil {
		s.sink.Emit(NetworkEvent{Type: EventDisconnected})
	}
	return err
}

func (s *wsServer) Send(ctx context.Context, data []byte) (int, error) {
	return s.Broadcast(ctx, data)
}

func (s *wsServer) IsConnected() bool { return s.running.Load() }

func (s *wsServer) Status() string {
	s.mu.RLock()
	n := len(s.clients)
	s.mu.RUnlock()
	return fmt.Sprintf("websocket server on %s, %d clients", s.cfg.Address(), n)
}

func (s *wsServer) ActualPort() (uint16, bool) {
	if !s.running.Load() {
		return 0, false
	}
	return uint16(s.actual.Load()), true
}

func (s *wsServer) StartReceiving(ctx context.Context) (<-chan NetworkEvent, error) {
	return nil, liberr.ErrNotSupported.Error(fmt.Errorf("websocket server events are delivered per-client through the event sink"))
}

func (s *wsServer) SendToClient(ctx context.Context, clientID string, data []byte) (int, error) {
	s.mu.RLock()
	conn, ok := s.clients[clientID]
	s.mu.RUnlock()
	if !ok {
		return 0, liberr.ErrClientNotFound.Error()
	}

	mt := websocket.BinaryMessage
	if utf8.Valid(data) {
		mt = websocket.TextMessage
	}
	if err := conn.WriteMessage(mt, data); err != nil {
		return 0, liberr.ErrSendFailed.Error(err)
	}
	return len(data), nil
}

func (s *wsServer) Broadcast(ctx context.Context, data []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for id := range s.clients {
		if n, err := s.SendToClient(ctx, id, data); err == nil {
			total += n
		}
	}
	return total, nil
}

func (s *wsServer) DisconnectClient(ctx context.Context, clientID string) error {
	s.mu.Lock()
	conn, ok := s.clients[clientID]
	delete(s.clients, clientID)
	s.mu.Unlock()

	if !ok {
		return liberr.ErrClientNotFound.Error()
	}
	return conn.Close()
}
