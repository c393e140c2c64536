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
	"errors"
	"os"
	"strings"

	liberr "github/sabouaram/netsession/errors"
)

// IsAddrInUse reports whether err, or any error it wraps through
// Unwrap() []error, represents a bind failure on an
// already-occupied address/port, including the Windows error 10013
// ambiguity called out in spec §6 ("Windows error 10013 rule"): for
// port >= 1024 that code is treated as in-use rather than
// permission-denied.
func IsAddrInUse(err error, port uint16) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if strings.Contains(msg, "address already in use") || strings.Contains(msg, "bind: address already in use") {
		return true
	}
	if strings.Contains(msg, "10013") && port >= 1024 {
		return true
	}
	if u, ok := err.(interface{ Unwrap() []error }); ok {
		for _, p := range u.Unwrap() {
			if IsAddrInUse(p, port) {
				return true
			}
		}
	}
	return false
}

// classifyConnectErr wraps a raw connect/bind error from a protocol
// variant into the registered CodeError taxonomy (spec §7), so that
// connmgr's errors.IsPermanent can apply the "error permanence rule"
// uniformly across every transport.
func classifyConnectErr(err error, port uint16) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return liberr.ErrConnectionTimedOut.Error(err)
	}

	msg := err.Error()

	if os.IsPermission(err) || strings.Contains(msg, "permission denied") {
		return liberr.ErrConnectionFailedPermanent.Error(err)
	}
	if port < 1024 && strings.Contains(msg, "10013") {
		return liberr.ErrConnectionFailedPermanent.Error(err)
	}
	if strings.Contains(msg, "cannot assign requested address") || strings.Contains(msg, "address not available") {
		return liberr.ErrConnectionFailedPermanent.Error(err)
	}
	if IsAddrInUse(err, port) {
		return liberr.ErrConnectionFailed.Error(err)
	}
	if strings.Contains(msg, "no such host") || strings.Contains(msg, "invalid") {
		return liberr.ErrConnectionFailedPermanent.Error(err)
	}

	// refused, unreachable, timeout, reset, EOF mid-handshake: transient.
	return liberr.ErrConnectionFailed.Error(err)
}
