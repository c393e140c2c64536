/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

// Package network carries small value types shared by every transport
// endpoint: byte counts (binary units) and plain counts (decimal units),
// both used to report buffer sizes and throughput figures in logs.
package network

import (
	"fmt"
	"strconv"
)

// Bytes is a byte count, formatted with binary (base-1024) unit suffixes.
type Bytes uint64

var byteUnits = []string{"KB", "MB", "GB", "TB", "PB", "EB"}

func (b Bytes) String() string {
	return strconv.FormatUint(uint64(b), 10)
}

func (b Bytes) AsNumber() Number {
	return Number(b)
}

func (b Bytes) AsUint64() uint64 {
	return uint64(b)
}

func (b Bytes) AsFloat64() float64 {
	return float64(b)
}

func (b Bytes) FormatUnitInt() string {
	return formatUnitInt(uint64(b), 1024, byteUnits)
}

func (b Bytes) FormatUnitFloat(precision int) string {
	return formatUnitFloat(uint64(b), 1024, byteUnits, precision)
}

// Number is a plain count, formatted with decimal (base-1000) unit suffixes.
type Number uint64

var numberUnits = []string{"K", "M", "G", "T", "P", "E"}

func (n Number) String() string {
	return strconv.FormatUint(uint64(n), 10)
}

func (n Number) AsBytes() Bytes {
	return Bytes(n)
}

func (n Number) AsUint64() uint64 {
	return uint64(n)
}

func (n Number) AsFloat64() float64 {
	return float64(n)
}

func (n Number) FormatUnitInt() string {
	return formatUnitInt(uint64(n), 1000, numberUnits)
}

func (n Number) FormatUnitFloat(precision int) string {
	return formatUnitFloat(uint64(n), 1000, numberUnits, precision)
}

// scale divides v by base until it drops below base or the unit table is
// exhausted, returning the scaled value and the unit index used (0 means
// no unit applies).
func scale(v float64, base float64, units []string) (float64, int) {
	idx := 0
	for v >= base && idx < len(units) {
		v /= base
		idx++
	}
	return v, idx
}

func formatUnitInt(v uint64, base float64, units []string) string {
	scaled, idx := scale(float64(v), base, units)
	if idx == 0 {
		return fmt.Sprintf("%4d", v)
	}
	return fmt.Sprintf("%4d %s", int64(scaled+0.5), units[idx-1])
}

func formatUnitFloat(v uint64, base float64, units []string, precision int) string {
	if precision <= 0 {
		return formatUnitInt(v, base, units)
	}

	scaled, idx := scale(float64(v), base, units)
	width := precision + 5

	if idx == 0 {
		return fmt.Sprintf("%*.*f", width, precision, scaled)
	}
	return fmt.Sprintf("%*.*f %s", width, precision, scaled, units[idx-1])
}
