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

	"github/sabouaram/netsession/session"
)

var _ = Describe("Buffer eviction", func() {
	It("keeps only the most recent max_messages entries (spec §8 scenario 7)", func() {
		buf := session.NewBuffer(3, 0)

		buf.AddOutgoing([]byte("m1"))
		buf.AddOutgoing([]byte("m2"))
		buf.AddOutgoing([]byte("m3"))
		buf.AddOutgoing([]byte("m4"))
		buf.AddOutgoing([]byte("m5"))

		Expect(buf.Len()).To(Equal(3))
		recent := buf.Recent(10)
		Expect(recent).To(HaveLen(3))
		Expect(string(recent[0].Bytes)).To(Equal("m3"))
		Expect(string(recent[1].Bytes)).To(Equal("m4"))
		Expect(string(recent[2].Bytes)).To(Equal("m5"))

		Expect(buf.MessagesSent()).To(Equal(uint64(5)))
		Expect(buf.BytesSent()).To(Equal(uint64(10)))
	})

	It("evicts on memory pressure even under the message-count cap", func() {
		buf := session.NewBuffer(100, 10)

		buf.AddIncoming([]byte("01234"))
		buf.AddIncoming([]byte("56789"))
		buf.AddIncoming([]byte("x"))

		Expect(buf.MemoryUsage()).To(BeNumerically("<=", 10))
		Expect(buf.Len()).To(BeNumerically("<=", 2))
	})

	It("tracks memory usage as the exact sum of ring entry sizes", func() {
		buf := session.NewBuffer(0, 0)
		buf.AddIncoming([]byte("abc"))
		buf.AddOutgoing([]byte("de"))

		total := 0
		for _, m := range buf.Recent(10) {
			total += m.Size
		}
		Expect(buf.MemoryUsage()).To(Equal(total))
	})

	It("Clear empties the ring but keeps cumulative counters", func() {
		buf := session.NewBuffer(0, 0)
		buf.AddOutgoing([]byte("hello"))
		buf.Clear()

		Expect(buf.Len()).To(Equal(0))
		Expect(buf.MemoryUsage()).To(Equal(0))
		Expect(buf.MessagesSent()).To(Equal(uint64(1)))
	})
})
