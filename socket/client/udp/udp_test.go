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

package udp_test

import (
	"context"
	"net"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	sckclt "github/sabouaram/netsession/socket/client/udp"
)

var _ = Describe("UDP Client", func() {
	It("rejects an empty address", func() {
		cli, err := sckclt.New("")
		Expect(err).To(MatchError(sckclt.ErrAddress))
		Expect(cli).To(BeNil())
	})

	It("accepts a well-formed address without dialing", func() {
		cli, err := sckclt.New("127.0.0.1:9090")
		Expect(err).NotTo(HaveOccurred())
		Expect(cli.IsConnected()).To(BeFalse())
	})

	It("sends a datagram to a listening socket", func() {
		pc, err := net.ListenPacket("udp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		defer pc.Close()

		cli, err := sckclt.New(pc.LocalAddr().String())
		Expect(err).NotTo(HaveOccurred())

		Expect(cli.Connect(context.Background())).To(Succeed())
		defer cli.Close()
		Expect(cli.IsConnected()).To(BeTrue())

		n, err := cli.Write([]byte("Hello, UDP!"))
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(11))

		buf := make([]byte, 64)
		n, _, err = pc.ReadFrom(buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(buf[:n])).To(Equal("Hello, UDP!"))
	})
})
