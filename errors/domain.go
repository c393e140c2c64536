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

package errors

// Registered codes for the network session core error taxonomy
// (spec §7). Only ErrConnectionFailed is registered: Message() resolves
// it and every code above it through domainMessage below.
const (
	ErrConnectionFailed CodeError = 1000 + iota
	ErrConnectionFailedPermanent
	ErrSendFailed
	ErrNotConnected
	ErrInvalidConfig
	ErrSessionNotFound
	ErrConnectionTimedOut
	ErrConnectionCancelled
	ErrConnectionInProgress
	ErrNotSupported
	ErrClientNotFound
	ErrSessionExists
)

func init() {
	RegisterIdFctMessage(ErrConnectionFailed, domainMessage)
}

func domainMessage(code CodeError) string {
	switch code {
	case ErrConnectionFailed:
		return "connection failed"
	case ErrConnectionFailedPermanent:
		return "connection failed permanently"
	case ErrSendFailed:
		return "send failed"
	case ErrNotConnected:
		return "not connected"
	case ErrInvalidConfig:
		return "invalid configuration"
	case ErrSessionNotFound:
		return "session not found"
	case ErrConnectionTimedOut:
		return "connection timed out"
	case ErrConnectionCancelled:
		return "connection cancelled"
	case ErrConnectionInProgress:
		return "connection already in progress"
	case ErrNotSupported:
		return "operation not supported"
	case ErrClientNotFound:
		return "client not found"
	case ErrSessionExists:
		return "session already exists"
	default:
		return UnknownMessage
	}
}

// permanentCodes holds the taxonomy entries whose retry would fail for
// the same reason every time (spec §4.3 "Error permanence rule").
var permanentCodes = map[CodeError]bool{
	ErrConnectionFailedPermanent: true,
	ErrInvalidConfig:             true,
	ErrSessionNotFound:           true,
	ErrNotSupported:              true,
	ErrSessionExists:             true,
}

// IsPermanent reports whether err (or one of its parents) carries a
// permanent error code. The connmgr retry loop must honor this on any
// failure path, independent of which function raised it.
func IsPermanent(err error) bool {
	e, ok := err.(Error)
	if !ok {
		return false
	}
	permanent := false
	e.Map(func(cur error) bool {
		if ce, ok := cur.(Error); ok && permanentCodes[ce.GetCode()] {
			permanent = true
			return false
		}
		return true
	})
	return permanent
}
