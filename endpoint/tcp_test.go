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
	"context"
	"net"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github/sabouaram/netsession/endpoint"
)

func freeTCPPort() uint16 {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	defer ln.Close()
	return uint16(ln.Addr().(*net.TCPAddr).Port)
}

var _ = Describe("TcpServer and TcpClient", func() {
	It("round-trips a message end to end and broadcasts replies", func() {
		port := freeTCPPort()

		srvSink := endpoint.NewEventSink(100)
		srv, err := endpoint.New(endpoint.Config{
			Protocol: endpoint.ProtocolTcp, Role: endpoint.RoleServer,
			Host: "127.0.0.1", Port: port,
		}, srvSink)
		Expect(err).NotTo(HaveOccurred())

		ctx := context.Background()
		Expect(srv.Connect(ctx)).To(Succeed())
		defer srv.Disconnect(ctx)
		Expect(srv.IsConnected()).To(BeTrue())

		cliSink := endpoint.NewEventSink(100)
		cli, err := endpoint.New(endpoint.Config{
			Protocol: endpoint.ProtocolTcp, Role: endpoint.RoleClient,
			Host: "127.0.0.1", Port: port,
		}, cliSink)
		Expect(err).NotTo(HaveOccurred())

		Expect(cli.Connect(ctx)).To(Succeed())
		defer cli.Disconnect(ctx)

		var connectedEv endpoint.NetworkEvent
		Eventually(srvSink.Events()).Should(Receive(&connectedEv))
		Expect(connectedEv.Type).To(Equal(endpoint.EventClientConnected))

		_, err = cli.Send(ctx, []byte("hello"))
		Expect(err).NotTo(HaveOccurred())

		var msg endpoint.NetworkEvent
		Eventually(srvSink.Events()).Should(Receive(&msg))
		Expect(msg.Type).To(Equal(endpoint.EventMessage))
		Expect(string(msg.Bytes)).To(Equal("hello"))

		srvEndpoint, ok := srv.(endpoint.ServerEndpoint)
		Expect(ok).To(BeTrue())
		n, err := srvEndpoint.Broadcast(ctx, []byte("ack"))
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(3))

		port2, ok := srv.ActualPort()
		Expect(ok).To(BeTrue())
		Expect(strconv.Itoa(int(port2))).To(Equal(strconv.Itoa(int(port))))
	})

	It("rejects Send before Connect", func() {
		port := freeTCPPort()
		cli, err := endpoint.New(endpoint.Config{
			Protocol: endpoint.ProtocolTcp, Role: endpoint.RoleClient,
			Host: "127.0.0.1", Port: port,
		}, nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = cli.Send(context.Background(), []byte("x"))
		Expect(err).To(HaveOccurred())
	})
})
