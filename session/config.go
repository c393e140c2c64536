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

// Package session binds one Endpoint (through a connmgr.Manager) to
// its SessionState and SessionBuffer (spec §4.4-§4.6): the unit
// SessionManager creates, looks up, and tears down.
package session

import (
	"github/sabouaram/netsession/endpoint"
)

// Config is spec §3's SessionConfig: immutable-per-connect, may be
// replaced between connects via Session.UpdateConfig. Owned by
// endpoint (not redeclared here) to keep connmgr/session/endpoint
// free of import cycles.
type Config = endpoint.Config

// ConnectionStatus is spec §3's tagged-union connection status.
type ConnectionStatus = endpoint.ConnectionStatus

// NetworkEvent is spec §3's event envelope.
type NetworkEvent = endpoint.NetworkEvent

// EventSink is the clone-cheap handle events are delivered through.
type EventSink = endpoint.EventSink
