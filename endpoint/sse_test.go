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
	"fmt"
	"net"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github/sabouaram/netsession/endpoint"
)

var _ = Describe("SseClient", func() {
	It("decodes event/data/id frames pushed by the server", func() {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())

		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "event: greeting\ndata: hello\nid: 1\n\n")
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		})
		httpSrv := &http.Server{Handler: mux}
		go httpSrv.Serve(ln)
		defer httpSrv.Close()

		addr := ln.Addr().(*net.TCPAddr)
		sink := endpoint.NewEventSink(10)
		cli, err := endpoint.New(endpoint.Config{
			Protocol: endpoint.ProtocolSse, Role: endpoint.RoleClient,
			Host: "127.0.0.1", Port: uint16(addr.Port),
		}, sink)
		Expect(err).NotTo(HaveOccurred())

		ctx := context.Background()
		Expect(cli.Connect(ctx)).To(Succeed())
		defer cli.Disconnect(ctx)

		var msg endpoint.NetworkEvent
		Eventually(sink.Events()).Should(Receive(&msg))
		Expect(msg.Type).To(Equal(endpoint.EventMessage))
		Expect(msg.SseEvent).NotTo(BeNil())
		Expect(msg.SseEvent.Event).To(Equal("greeting"))
		Expect(strings.TrimSpace(msg.SseEvent.Data)).To(Equal("hello"))
		Expect(msg.SseEvent.ID).To(Equal("1"))
	})

	It("rejects raw Send", func() {
		cli, err := endpoint.New(endpoint.Config{
			Protocol: endpoint.ProtocolSse, Role: endpoint.RoleClient,
			Host: "127.0.0.1", Port: 15030,
		}, nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = cli.Send(context.Background(), []byte("x"))
		Expect(err).To(HaveOccurred())
	})
})
