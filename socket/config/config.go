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

// Package config holds the address/network configuration types for tcp
// and udp endpoints. The tcp and udp server constructors take a Server;
// the client constructors take a bare address and do not use Client.
package config

import (
	"net"
	"strings"
	"time"

	libptc "github/sabouaram/netsession/network/protocol"
)

// Client configures a tcp/udp client endpoint.
type Client struct {
	Network libptc.NetworkProtocol
	Address string

	// ConnectTimeout is carried with the config; no client in this
	// module reads it, so it puts no bound on a dial.
	ConnectTimeout time.Duration
}

func (c Client) Validate() error {
	return validateAddress(c.Network, c.Address)
}

// Server configures a tcp/udp server endpoint.
type Server struct {
	Network libptc.NetworkProtocol
	Address string

	// ConIdleTimeout is carried with the config; the tcp and udp
	// servers do not read it, so accepted connections get no deadline
	// from it.
	ConIdleTimeout time.Duration
}

func (s Server) Validate() error {
	return validateAddress(s.Network, s.Address)
}

func validateAddress(network libptc.NetworkProtocol, address string) error {
	if address == "" {
		return ErrInvalidAddress
	}

	switch network {
	case libptc.NetworkTCP, libptc.NetworkTCP4, libptc.NetworkTCP6:
		if _, err := net.ResolveTCPAddr(network.String(), address); err != nil {
			return ErrInvalidAddress
		}
	case libptc.NetworkUDP, libptc.NetworkUDP4, libptc.NetworkUDP6:
		if _, err := net.ResolveUDPAddr(network.String(), address); err != nil {
			return ErrInvalidAddress
		}
	case libptc.NetworkUnix, libptc.NetworkUnixGram:
		if strings.TrimSpace(address) == "" {
			return ErrInvalidAddress
		}
	default:
		return ErrInvalidNetwork
	}

	return nil
}
