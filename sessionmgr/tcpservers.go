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

package sessionmgr

import "github/sabouaram/netsession/endpoint"

// TCPServerInfo is one entry of ActiveTCPServers: the session id and
// the host/port its TCP server endpoint is bound to.
type TCPServerInfo struct {
	SessionID string
	Host      string
	Port      uint16
}

// normalizeHost canonicalizes the loopback aliases spec §4.7 names:
// "localhost" and "127.0.0.1" refer to the same bound address.
func normalizeHost(host string) string {
	if host == "localhost" {
		return "127.0.0.1"
	}
	return host
}

// hostMatches reports whether a server bound to boundHost accepts
// connections addressed to queryHost (spec §4.7
// "has_internal_tcp_server" host normalization): "0.0.0.0" binds all
// interfaces and matches any query host; otherwise loopback aliases
// are folded together before an exact comparison.
func hostMatches(boundHost, queryHost string) bool {
	if boundHost == "0.0.0.0" {
		return true
	}
	return normalizeHost(boundHost) == normalizeHost(queryHost)
}

func (m *Manager) tcpServerSnapshot() []TCPServerInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []TCPServerInfo
	for id, s := range m.sessions {
		cfg := s.Config()
		if cfg.Protocol != endpoint.ProtocolTcp || cfg.Role != endpoint.RoleServer {
			continue
		}
		if !s.IsConnected() {
			continue
		}
		port := cfg.Port
		if actual, ok := s.ActualPort(); ok {
			port = actual
		}
		out = append(out, TCPServerInfo{SessionID: id, Host: cfg.Host, Port: port})
	}
	return out
}

// HasInternalTCPServer reports whether a connected TCP server in the
// registry is already bound to (host, port) (spec §4.7
// "has_internal_tcp_server").
func (m *Manager) HasInternalTCPServer(host string, port uint16) bool {
	for _, srv := range m.tcpServerSnapshot() {
		if srv.Port == port && hostMatches(srv.Host, host) {
			return true
		}
	}
	return false
}

// ActiveTCPServers lists every connected TCP server session (spec
// §4.7 "active_tcp_servers").
func (m *Manager) ActiveTCPServers() []TCPServerInfo {
	return m.tcpServerSnapshot()
}
