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

package endpoint

import (
	"fmt"

	liberr "github/sabouaram/netsession/errors"
)

// New builds the Endpoint variant named by cfg.Protocol/cfg.Role (spec
// §4.2). The factory is pure: it allocates the variant's state but
// performs no I/O and starts no background task until Connect is
// called.
func New(cfg Config, sink EventSink) (Endpoint, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Protocol {
	case ProtocolTcp:
		if cfg.Role == RoleServer {
			return newTcpServer(cfg, sink)
		}
		return newTcpClient(cfg, sink)
	case ProtocolUdp:
		if cfg.Role == RoleServer {
			return newUdpServer(cfg, sink)
		}
		return newUdpClient(cfg, sink)
	case ProtocolWebSocket:
		if cfg.Role == RoleServer {
			return newWsServer(cfg, sink)
		}
		return newWsClient(cfg, sink)
	case ProtocolMqtt:
		return newMqttClient(cfg, sink)
	case ProtocolSse:
		return newSseClient(cfg, sink)
	case ProtocolModbusTcp:
		if cfg.Role == RoleServer {
			return newModbusTcpServer(cfg, sink)
		}
		return newModbusTcpClient(cfg, sink)
	case ProtocolModbusRtu:
		return newModbusRtuClient(cfg, sink)
	default:
		return nil, liberr.ErrInvalidConfig.Error(fmt.Errorf("unsupported protocol %q", cfg.Protocol))
	}
}
