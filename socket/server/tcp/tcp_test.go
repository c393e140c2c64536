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

package tcp_test

import (
	"context"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github/sabouaram/netsession/network/protocol"
	libsck "github/sabouaram/netsession/socket"
	sckcfg "github/sabouaram/netsession/socket/config"
	scksrt "github/sabouaram/netsession/socket/server/tcp"
)

func echoHandler(ctx libsck.Context) {
	defer ctx.Close()
	buf := make([]byte, 64)
	n, err := ctx.Read(buf)
	if err != nil {
		return
	}
	_, _ = ctx.Write(buf[:n])
}

var _ = Describe("TCP Server", func() {
	Describe("New", func() {
		It("starts gone and idle", func() {
			cfg := sckcfg.Server{Network: protocol.NetworkTCP, Address: "127.0.0.1:0"}
			srv, err := scksrt.New(nil, echoHandler, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(srv.IsRunning()).To(BeFalse())
			Expect(srv.IsGone()).To(BeTrue())
			Expect(srv.OpenConnections()).To(Equal(int64(0)))
		})

		It("rejects an empty address", func() {
			cfg := sckcfg.Server{Network: protocol.NetworkTCP, Address: ""}
			srv, err := scksrt.New(nil, echoHandler, cfg)
			Expect(err).To(MatchError(scksrt.ErrInvalidAddress))
			Expect(srv).To(BeNil())
		})
	})

	Describe("Listen/Shutdown", func() {
		It("accepts a connection and echoes back what it reads", func() {
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())
			addr := ln.Addr().String()
			Expect(ln.Close()).To(Succeed())

			cfg := sckcfg.Server{Network: protocol.NetworkTCP, Address: addr}
			srv, err := scksrt.New(nil, echoHandler, cfg)
			Expect(err).NotTo(HaveOccurred())

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			go func() { _ = srv.Listen(ctx) }()

			var conn net.Conn
			Eventually(func() error {
				conn, err = net.Dial("tcp", addr)
				return err
			}, time.Second).Should(Succeed())
			defer conn.Close()

			_, err = conn.Write([]byte("hello"))
			Expect(err).NotTo(HaveOccurred())

			buf := make([]byte, 64)
			n, err := conn.Read(buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(buf[:n])).To(Equal("hello"))

			shutCtx, shutCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutCancel()
			Expect(srv.Shutdown(shutCtx)).To(Succeed())
			Expect(srv.IsGone()).To(BeTrue())
		})
	})
})
