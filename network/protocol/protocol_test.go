/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

package protocol_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github/sabouaram/netsession/network/protocol"
)

var all = []NetworkProtocol{
	NetworkUnix, NetworkTCP, NetworkTCP4, NetworkTCP6,
	NetworkUDP, NetworkUDP4, NetworkUDP6,
	NetworkIP, NetworkIP4, NetworkIP6, NetworkUnixGram,
}

var _ = Describe("NetworkProtocol", func() {
	It("stringifies every named protocol in lowercase", func() {
		expect := map[NetworkProtocol]string{
			NetworkUnix:     "unix",
			NetworkTCP:      "tcp",
			NetworkTCP4:     "tcp4",
			NetworkTCP6:     "tcp6",
			NetworkUDP:      "udp",
			NetworkUDP4:     "udp4",
			NetworkUDP6:     "udp6",
			NetworkIP:       "ip",
			NetworkIP4:      "ip4",
			NetworkIP6:      "ip6",
			NetworkUnixGram: "unixgram",
		}
		for p, s := range expect {
			Expect(p.String()).To(Equal(s))
			Expect(p.Code()).To(Equal(s))
		}
	})

	It("returns empty for the zero value and undefined codes", func() {
		Expect(NetworkEmpty.String()).To(Equal(""))
		Expect(NetworkProtocol(99).String()).To(Equal(""))
		Expect(NetworkProtocol(255).String()).To(Equal(""))
	})

	It("round-trips String()/Code() through Parse()", func() {
		for _, p := range all {
			Expect(Parse(p.String())).To(Equal(p))
			Expect(Parse(p.Code())).To(Equal(p))
		}
	})

	Describe("Parse", func() {
		It("is case-insensitive", func() {
			Expect(Parse("TCP")).To(Equal(NetworkTCP))
			Expect(Parse("UnixGram")).To(Equal(NetworkUnixGram))
		})

		It("trims whitespace and one layer of quoting", func() {
			Expect(Parse(" tcp ")).To(Equal(NetworkTCP))
			Expect(Parse("\tudp\n")).To(Equal(NetworkUDP))
			Expect(Parse(`"tcp"`)).To(Equal(NetworkTCP))
			Expect(Parse("`unix`")).To(Equal(NetworkUnix))
		})

		It("returns NetworkEmpty for unknown input", func() {
			Expect(Parse("invalid")).To(Equal(NetworkEmpty))
			Expect(Parse("")).To(Equal(NetworkEmpty))
		})

		It("never panics on pathological input", func() {
			Expect(func() { Parse(string(make([]byte, 10000))) }).NotTo(Panic())
		})
	})

	Describe("ParseBytes", func() {
		It("parses the same as Parse", func() {
			Expect(ParseBytes([]byte("tcp"))).To(Equal(NetworkTCP))
			Expect(ParseBytes(nil)).To(Equal(NetworkEmpty))
			Expect(ParseBytes([]byte{})).To(Equal(NetworkEmpty))
		})
	})

	Describe("ParseInt64", func() {
		It("maps registered constant values", func() {
			Expect(ParseInt64(1)).To(Equal(NetworkUnix))
			Expect(ParseInt64(2)).To(Equal(NetworkTCP))
			Expect(ParseInt64(11)).To(Equal(NetworkUnixGram))
			Expect(ParseInt64(0)).To(Equal(NetworkEmpty))
		})

		It("rejects out-of-range and unregistered values without panicking", func() {
			Expect(ParseInt64(-1)).To(Equal(NetworkEmpty))
			Expect(ParseInt64(256)).To(Equal(NetworkEmpty))
			Expect(ParseInt64(99)).To(Equal(NetworkEmpty))
			Expect(func() { ParseInt64(math.MaxInt64) }).NotTo(Panic())
			Expect(func() { ParseInt64(math.MinInt64) }).NotTo(Panic())
		})
	})

	It("has a unique value per protocol and a zero-value NetworkEmpty", func() {
		seen := map[NetworkProtocol]bool{}
		for _, p := range append([]NetworkProtocol{NetworkEmpty}, all...) {
			Expect(seen[p]).To(BeFalse())
			seen[p] = true
		}
		var zero NetworkProtocol
		Expect(zero).To(Equal(NetworkEmpty))
	})
})
