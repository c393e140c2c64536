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

package session_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github/sabouaram/netsession/endpoint"
	"github/sabouaram/netsession/session"
)

var _ = Describe("State.SetStatus", func() {
	It("suppresses consecutive identical discriminants", func() {
		sink := endpoint.NewEventSink(10)
		st := session.NewState("s1", sink)

		st.SetStatus(endpoint.StatusConnecting())
		st.SetStatus(endpoint.StatusConnecting())
		st.SetStatus(endpoint.StatusConnected())

		var evs []endpoint.NetworkEvent
		for {
			select {
			case e := <-sink.Events():
				evs = append(evs, e)
				continue
			default:
			}
			break
		}
		Expect(evs).To(HaveLen(2))
		Expect(evs[0].Status.Kind).To(Equal(endpoint.Connecting))
		Expect(evs[1].Status.Kind).To(Equal(endpoint.Connected))
	})

	It("sets connected_at on Connected and clears it on Disconnected", func() {
		st := session.NewState("s2", nil)
		Expect(st.ConnectedAt()).To(BeNil())

		st.SetStatus(endpoint.StatusConnected())
		Expect(st.ConnectedAt()).NotTo(BeNil())

		st.SetStatus(endpoint.StatusDisconnected())
		Expect(st.ConnectedAt()).To(BeNil())
	})

	It("increments error_count on every distinct Error transition", func() {
		st := session.NewState("s3", nil)
		Expect(st.ErrorCount()).To(Equal(uint32(0)))

		st.SetStatus(endpoint.StatusErr("boom"))
		Expect(st.ErrorCount()).To(Equal(uint32(1)))

		// Same discriminant (Error), different message: still
		// suppressed as a duplicate transition, no further increment.
		st.SetStatus(endpoint.StatusErr("boom again"))
		Expect(st.ErrorCount()).To(Equal(uint32(1)))

		st.SetStatus(endpoint.StatusConnecting())
		st.SetStatus(endpoint.StatusErr("boom a third time"))
		Expect(st.ErrorCount()).To(Equal(uint32(2)))
	})

	It("ForceEmitStatus re-emits the current status unconditionally", func() {
		sink := endpoint.NewEventSink(10)
		st := session.NewState("s4", sink)
		st.SetStatus(endpoint.StatusConnected())
		<-sink.Events()

		st.ForceEmitStatus()
		var ev endpoint.NetworkEvent
		Eventually(sink.Events()).Should(Receive(&ev))
		Expect(ev.Status.Kind).To(Equal(endpoint.Connected))
	})
})
