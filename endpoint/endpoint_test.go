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

package endpoint_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github/sabouaram/netsession/endpoint"
)

var _ = Describe("ConnectionStatus", func() {
	It("shares a discriminant regardless of attempt/message payload", func() {
		a := endpoint.StatusReconnecting(1)
		b := endpoint.StatusReconnecting(7)
		Expect(a.SameDiscriminant(b)).To(BeTrue())
		Expect(a.SameDiscriminant(endpoint.StatusConnected())).To(BeFalse())
	})

	It("renders an error message when present", func() {
		s := endpoint.StatusErr("boom")
		Expect(s.String()).To(Equal("Error: boom"))
	})

	It("renders a bare Error when no message is set", func() {
		s := endpoint.ConnectionStatus{Kind: endpoint.StatusError}
		Expect(s.String()).To(Equal("Error"))
	})
})

var _ = Describe("ChannelSink", func() {
	It("delivers emitted events to Events()", func() {
		sink := endpoint.NewEventSink(4)
		sink.Emit(endpoint.NetworkEvent{Type: endpoint.EventConnected})

		select {
		case ev := <-sink.Events():
			Expect(ev.Type).To(Equal(endpoint.EventConnected))
		default:
			Fail("expected a buffered event")
		}
	})

	It("drops events rather than blocking once the buffer is full", func() {
		sink := endpoint.NewEventSink(1)
		sink.Emit(endpoint.NetworkEvent{Type: endpoint.EventConnected})
		sink.Emit(endpoint.NetworkEvent{Type: endpoint.EventDisconnected})

		Expect(<-sink.Events()).To(Equal(endpoint.NetworkEvent{Type: endpoint.EventConnected}))
	})
})
