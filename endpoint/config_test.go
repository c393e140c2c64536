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

var _ = Describe("Config.Validate", func() {
	base := func() endpoint.Config {
		return endpoint.Config{Protocol: endpoint.ProtocolTcp, Role: endpoint.RoleClient, Host: "127.0.0.1", Port: 9000}
	}

	It("accepts a well-formed tcp client config", func() {
		Expect(base().Validate()).To(Succeed())
	})

	It("rejects an unsupported protocol", func() {
		c := base()
		c.Protocol = "carrier-pigeon"
		Expect(c.Validate()).To(HaveOccurred())
	})

	It("rejects a port out of range", func() {
		c := base()
		c.Port = 0
		Expect(c.Validate()).To(HaveOccurred())
	})

	It("rejects a missing host", func() {
		c := base()
		c.Host = ""
		Expect(c.Validate()).To(HaveOccurred())
	})

	It("rejects mqtt in the server role", func() {
		c := base()
		c.Protocol = endpoint.ProtocolMqtt
		c.Role = endpoint.RoleServer
		c.Mqtt = &endpoint.MqttConfig{ClientID: "x"}
		Expect(c.Validate()).To(HaveOccurred())
	})

	It("rejects mqtt without a client id", func() {
		c := base()
		c.Protocol = endpoint.ProtocolMqtt
		Expect(c.Validate()).To(HaveOccurred())
	})

	It("accepts mqtt with a client id", func() {
		c := base()
		c.Protocol = endpoint.ProtocolMqtt
		c.Mqtt = &endpoint.MqttConfig{ClientID: "x"}
		Expect(c.Validate()).To(Succeed())
	})

	It("rejects sse in the server role", func() {
		c := base()
		c.Protocol = endpoint.ProtocolSse
		c.Role = endpoint.RoleServer
		Expect(c.Validate()).To(HaveOccurred())
	})

	It("rejects modbus-rtu without a serial device", func() {
		c := base()
		c.Protocol = endpoint.ProtocolModbusRtu
		Expect(c.Validate()).To(HaveOccurred())
	})

	It("accepts modbus-rtu with a serial device and skips host/port checks", func() {
		c := endpoint.Config{Protocol: endpoint.ProtocolModbusRtu, Role: endpoint.RoleClient, Modbus: &endpoint.ModbusConfig{SerialDevice: "/dev/ttyUSB0"}}
		Expect(c.Validate()).To(Succeed())
	})

	It("rejects modbus-rtu in the server role", func() {
		c := endpoint.Config{Protocol: endpoint.ProtocolModbusRtu, Role: endpoint.RoleServer, Modbus: &endpoint.ModbusConfig{SerialDevice: "/dev/ttyUSB0"}}
		Expect(c.Validate()).To(HaveOccurred())
	})

	It("builds the host:port address pair", func() {
		Expect(base().Address()).To(Equal("127.0.0.1:9000"))
	})
})
