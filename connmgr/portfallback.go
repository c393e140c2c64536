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

package connmgr

import (
	"context"

	"github/sabouaram/netsession/endpoint"
)

const maxFallbackAlternatives = 5

// curatedFallbacks gives the well-known dev ports named in spec §4.3 a
// hand-picked adjacent list instead of the generic port+1/+2/+3 rule.
var curatedFallbacks = map[uint16][]uint16{
	8080: {8081, 8082, 8000, 3000, 9000},
	8081: {8082, 8083, 8080, 3000, 9000},
	8000: {8001, 8002, 8080, 3000, 9000},
	3000: {3001, 3002, 8080, 8000, 9000},
	5000: {5001, 5002, 8080, 8000, 9000},
	9000: {9001, 9002, 8080, 8000, 3000},
}

// candidatePorts returns up to maxFallbackAlternatives distinct,
// non-privileged (unless the original port itself was privileged)
// alternative ports for port, per spec §4.3 "Port-fallback policy".
func candidatePorts(port uint16) []uint16 {
	if curated, ok := curatedFallbacks[port]; ok {
		return append([]uint16(nil), curated...)
	}

	privilegedOK := port < 1024
	seen := map[uint16]bool{port: true}
	out := make([]uint16, 0, maxFallbackAlternatives)

	add := func(p uint16) {
		if len(out) >= maxFallbackAlternatives || seen[p] {
			return
		}
		if p < 1024 && !privilegedOK {
			return
		}
		seen[p] = true
		out = append(out, p)
	}

	if port <= 65532 {
		add(port + 1)
		add(port + 2)
		add(port + 3)
	}
	for _, p := range []uint16{8080, 8081, 8082, 9000, 9001} {
		add(p)
	}
	return out
}

// tryPortFallback implements the TCP-server-only bind-retry policy:
// on an address-in-use failure it tries each candidate port in order,
// stopping at the first successful bind. It returns ok=false if the
// protocol/role doesn't qualify or every candidate also failed.
func (m *Manager) tryPortFallback(ctx context.Context, cfg endpoint.Config, factory EndpointFactory, origErr error) (endpoint.Endpoint, uint16, bool) {
	if cfg.Protocol != endpoint.ProtocolTcp || cfg.Role != endpoint.RoleServer {
		return nil, 0, false
	}
	if !endpoint.IsAddrInUse(origErr, cfg.Port) {
		return nil, 0, false
	}

	for _, p := range candidatePorts(cfg.Port) {
		if ctx.Err() != nil {
			return nil, 0, false
		}
		fbCfg := cfg
		fbCfg.Port = p
		ep, err := factory(fbCfg)
		if err != nil {
			continue
		}
		if err := ep.Connect(ctx); err == nil {
			return ep, p, true
		}
	}
	return nil, 0, false
}
