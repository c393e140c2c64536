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
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	liberr "github/sabouaram/netsession/errors"
)

// SseEvent is the decoded shape of one server-sent event frame,
// matching gin-contrib/sse's Event fields (id/event/data/retry)
// without pulling in its Encode-only helper, since here we only ever
// decode.
type SseEvent struct {
	ID    string
	Event string
	Data  string
	Retry int
}

// sseClient is the SseClient variant (spec §4.1): an HTTP event-stream
// client; emits sse_event records carrying the decoded frame.
type sseClient struct {
	cfg  Config
	sink EventSink

	httpCli *http.Client

	mu     sync.Mutex
	cancel context.CancelFunc

	connected atomic.Bool
	actual    atomic.Uint32
}

func newSseClient(cfg Config, sink EventSink) (Endpoint, error) {
	return &sseClient{cfg: cfg, sink: sink, httpCli: &http.Client{}}, nil
}

func (c *sseClient) url() string {
	path := "/"
	if c.cfg.Sse != nil && c.cfg.Sse.Path != "" {
		path = c.cfg.Sse.Path
	}
	return fmt.Sprintf("http://%s%s", c.cfg.Address(), path)
}

func (c *sseClient) Connect(ctx context.Context) error {
	if c.connected.Load() {
		return nil
	}

	req, err := http.NewRequest(http.MethodGet, c.url(), nil)
	if err != nil {
		return liberr.ErrInvalidConfig.Error(err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return classifyConnectErr(err, c.cfg.Port)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return liberr.ErrConnectionFailed.Error(fmt.Errorf("unexpected status %d from %s", resp.StatusCode, c.url()))
	}

	streamCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	c.connected.Store(true)
	c.actual.Store(uint32(c.cfg.Port))
	if c.sink != nil {
		c.sink.Emit(NetworkEvent{Type: EventConnected})
	}

	go c.readLoop(streamCtx, resp.Body)
	return nil
}

// readLoop parses the text/event-stream framing byte-prefixed by
// "event:"/"data:"/"id:"/"retry:" lines, one event per blank-line
// terminated block.
func (c *sseClient) readLoop(ctx context.Context, body closer) {
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	cur := SseEvent{}
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := scanner.Text()
		switch {
		case line == "":
			if cur.Data != "" || cur.Event != "" {
				ev := cur
				c.dispatch(ev)
			}
			cur = SseEvent{}
		case strings.HasPrefix(line, "event:"):
			cur.Event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			d := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if cur.Data != "" {
				cur.Data += "\n" + d
			} else {
				cur.Data = d
			}
		case strings.HasPrefix(line, "id:"):
			cur.ID = strings.TrimSpace(strings.TrimPrefix(line, "id:"))
		case strings.HasPrefix(line, "retry:"):
			if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "retry:"))); err == nil {
				cur.Retry = n
			}
		}
	}

	c.connected.Store(false)
	ev := NetworkEvent{Type: EventDisconnected}
	if err := scanner.Err(); err != nil {
		ev = NetworkEvent{Type: EventErr, Err: err}
	}
	if c.sink != nil {
		c.sink.Emit(ev)
	}
}

// closer narrows io.ReadCloser to the part readLoop needs, kept as its
// own name so the loop's signature reads clearly.
type closer interface {
	Read(p []byte) (int, error)
	Close() error
}

func (c *sseClient) dispatch(ev SseEvent) {
	if c.sink == nil {
		return
	}
	e := ev
	c.sink.Emit(NetworkEvent{Type: EventMessage, Bytes: []byte(ev.Data), SseEvent: &e})
}

func (c *sseClient) Disconnect(ctx context.Context) error {
	if !c.connected.Load() {
		return nil
	}
	c.connected.Store(false)

	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if c.sink != nil {
		c.sink.Emit(NetworkEvent{Type: EventDisconnected})
	}
	return nil
}

// Send is unsupported: SSE is a server-to-client-only stream.
func (c *sseClient) Send(ctx context.Context, data []byte) (int, error) {
	return 0, liberr.ErrNotSupported.Error(fmt.Errorf("sse is a one-way server-to-client stream"))
}

func (c *sseClient) IsConnected() bool { return c.connected.Load() }

func (c *sseClient) Status() string {
	if c.connected.Load() {
		return fmt.Sprintf("sse client streaming from %s", c.url())
	}
	return fmt.Sprintf("sse client not connected (source %s)", c.url())
}

func (c *sseClient) ActualPort() (uint16, bool) {
	if !c.connected.Load() {
		return 0, false
	}
	return uint16(c.actual.Load()), true
}

// StartReceiving returns a channel that carries no events: every parsed
// frame goes only to the sink, from the read loop Connect starts. The
// returned channel is closed once ctx is done.
func (c *sseClient) StartReceiving(ctx context.Context) (<-chan NetworkEvent, error) {
	if !c.connected.Load() {
		return nil, liberr.ErrNotConnected.Error()
	}
	out := make(chan NetworkEvent)
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out, nil
}
