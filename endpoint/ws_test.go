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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github/sabouaram/netsession/endpoint"
)

var _ = Describe("WsServer and WsClient", func() {
	It("round-trips a text message", func() {
		port := freeTCPPort()

		srvSink := endpoint.NewEventSink(100)
		srv, err := endpoint.New(endpoint.Config{
			Protocol: endpoint.ProtocolWebSocket, Role: endpoint.RoleServer,
			Host: "127.0.0.1", Port: port,
		}, srvSink)
		Expect(err).NotTo(HaveOccurred())

		ctx := context.Background()
		Expect(srv.Connect(ctx)).To(Succeed())
		defer srv.Disconnect(ctx)

		cliSink := endpoint.NewEventSink(100)
		cli, err := endpoint.New(endpoint.Config{
			Protocol: endpoint.ProtocolWebSocket, Role: endpoint.RoleClient,
			Host: "127.0.0.1", Port: port,
		}, cliSink)
		Expect(err).NotTo(HaveOccurred())

		Expect(cli.Connect(ctx)).To(Succeed())
		defer cli.Disconnect(ctx)
		Expect(cli.IsConnected()).To(BeTrue())

		var connectedEv endpoint.NetworkEvent
		Eventually(srvSink.Events()).Should(Receive(&connectedEv))
		Expect(connectedEv.Type).To(Equal(endpoint.EventClientConnected))

		_, err = cli.Send(ctx, []byte("hi there"))
		Expect(err).NotTo(HaveOccurred())

		var msg endpoint.NetworkEvent
		Eventually(srvSink.Events()).Should(Receive(&msg))
		Expect(msg.Type).To(Equal(endpoint.EventMessage))
		Expect(string(msg.Bytes)).To(Equal("hi there"))
	})
})
