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

package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github/sabouaram/netsession/endpoint"
)

const (
	defaultMaxMessages    = 10_000
	defaultMaxMemoryBytes = 100 * 1024 * 1024
)

// BufferedMessage is spec §3's BufferedMessage: created on every send
// or receive, dropped FIFO once the ring exceeds either cap.
type BufferedMessage struct {
	Bytes     []byte
	Direction endpoint.Direction
	TsMs      int64
	Size      int
}

// Buffer is spec §4.5's SessionBuffer: a bounded ring with dual caps
// and cumulative counters that survive Clear.
type Buffer struct {
	mu            sync.Mutex
	ring          []BufferedMessage
	memoryUsage   int
	maxMessages   int
	maxMemoryByte int

	messagesReceived atomic.Uint64
	messagesSent     atomic.Uint64
	bytesReceived    atomic.Uint64
	bytesSent        atomic.Uint64
}

// NewBuffer returns a Buffer with the spec-default caps. maxMessages
// <= 0 or maxMemoryBytes <= 0 fall back to the default.
func NewBuffer(maxMessages, maxMemoryBytes int) *Buffer {
	if maxMessages <= 0 {
		maxMessages = defaultMaxMessages
	}
	if maxMemoryBytes <= 0 {
		maxMemoryBytes = defaultMaxMemoryBytes
	}
	return &Buffer{maxMessages: maxMessages, maxMemoryByte: maxMemoryBytes}
}

func (b *Buffer) push(msg BufferedMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.ring = append(b.ring, msg)
	b.memoryUsage += msg.Size

	for len(b.ring) > 0 && (len(b.ring) > b.maxMessages || b.memoryUsage > b.maxMemoryByte) {
		evicted := b.ring[0]
		b.ring = b.ring[1:]
		b.memoryUsage -= evicted.Size
	}
}

// AddIncoming records a received message and bumps the cumulative
// receive counters.
func (b *Buffer) AddIncoming(data []byte) {
	b.messagesReceived.Add(1)
	b.bytesReceived.Add(uint64(len(data)))
	b.push(BufferedMessage{
		Bytes:     append([]byte(nil), data...),
		Direction: endpoint.DirectionIncoming,
		TsMs:      time.Now().UnixMilli(),
		Size:      len(data),
	})
}

// AddOutgoing records a sent message and bumps the cumulative send
// counters.
func (b *Buffer) AddOutgoing(data []byte) {
	b.messagesSent.Add(1)
	b.bytesSent.Add(uint64(len(data)))
	b.push(BufferedMessage{
		Bytes:     append([]byte(nil), data...),
		Direction: endpoint.DirectionOutgoing,
		TsMs:      time.Now().UnixMilli(),
		Size:      len(data),
	})
}

// Recent returns up to limit most-recent entries, chronological.
func (b *Buffer) Recent(limit int) []BufferedMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	if limit <= 0 || limit > len(b.ring) {
		limit = len(b.ring)
	}
	start := len(b.ring) - limit
	out := make([]BufferedMessage, limit)
	copy(out, b.ring[start:])
	return out
}

// Len returns the current ring length.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ring)
}

// MemoryUsage returns the current tracked memory usage, which always
// equals the sum of sizes of entries presently in the ring.
func (b *Buffer) MemoryUsage() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.memoryUsage
}

// Clear empties the ring and zeros current memory usage; the
// cumulative counters (MessagesSent, BytesReceived, ...) are
// retained (spec §4.5).
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ring = nil
	b.memoryUsage = 0
}

func (b *Buffer) MessagesReceived() uint64 { return b.messagesReceived.Load() }
func (b *Buffer) MessagesSent() uint64     { return b.messagesSent.Load() }
func (b *Buffer) BytesReceived() uint64    { return b.bytesReceived.Load() }
func (b *Buffer) BytesSent() uint64        { return b.bytesSent.Load() }
