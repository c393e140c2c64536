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

// Package protocol names the low-level network families (the `net.Dial`
// network argument) as a typed, parseable enum instead of bare strings.
package protocol

import (
	"math"
	"strconv"
	"strings"
)

// NetworkProtocol identifies a net.Dial/net.Listen network family.
type NetworkProtocol uint8

const (
	NetworkEmpty NetworkProtocol = iota
	NetworkUnix
	NetworkTCP
	NetworkTCP4
	NetworkTCP6
	NetworkUDP
	NetworkUDP4
	NetworkUDP6
	NetworkIP
	NetworkIP4
	NetworkIP6
	NetworkUnixGram
)

var names = map[NetworkProtocol]string{
	NetworkUnix:     "unix",
	NetworkTCP:      "tcp",
	NetworkTCP4:     "tcp4",
	NetworkTCP6:     "tcp6",
	NetworkUDP:      "udp",
	NetworkUDP4:     "udp4",
	NetworkUDP6:     "udp6",
	NetworkIP:       "ip",
	NetworkIP4:      "ip4",
	NetworkIP6:      "ip6",
	NetworkUnixGram: "unixgram",
}

var byName = func() map[string]NetworkProtocol {
	m := make(map[string]NetworkProtocol, len(names))
	for p, n := range names {
		m[n] = p
	}
	return m
}()

// String returns the net.Dial network name, or "" for NetworkEmpty and
// any undefined value.
func (p NetworkProtocol) String() string {
	return names[p]
}

// Code is an alias of String kept for parity with the rest of the
// toolbox's enum types, which expose both a display String() and a
// wire-stable Code().
func (p NetworkProtocol) Code() string {
	return p.String()
}

// Parse resolves a network name to its NetworkProtocol, trimming
// surrounding whitespace and a single layer of quoting
// (', ", `) and matching case-insensitively. Returns NetworkEmpty when
// nothing matches.
func Parse(s string) NetworkProtocol {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			s = s[1 : len(s)-1]
		}
	}
	return byName[strings.ToLower(s)]
}

// ParseBytes is Parse over a byte slice.
func ParseBytes(b []byte) NetworkProtocol {
	return Parse(string(b))
}

// ParseInt64 resolves a raw NetworkProtocol constant value, rejecting
// anything outside the uint8 range or not a registered protocol.
func ParseInt64(i int64) NetworkProtocol {
	if i < 0 || i > math.MaxUint8 {
		return NetworkEmpty
	}
	p := NetworkProtocol(i)
	if _, ok := names[p]; !ok {
		return NetworkEmpty
	}
	return p
}

// ParseString is an alias of Parse, matching the String() naming.
func ParseString(s string) NetworkProtocol {
	return Parse(s)
}

// FormatInt renders the underlying constant as a base-10 string, for
// configuration round-tripping through formats that only carry numbers.
func (p NetworkProtocol) FormatInt() string {
	return strconv.FormatUint(uint64(p), 10)
}
