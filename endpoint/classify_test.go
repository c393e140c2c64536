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
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github/sabouaram/netsession/endpoint"
)

var _ = Describe("IsAddrInUse", func() {
	It("recognizes the standard bind-in-use message", func() {
		err := fmt.Errorf("listen tcp 127.0.0.1:8080: bind: address already in use")
		Expect(endpoint.IsAddrInUse(err, 8080)).To(BeTrue())
	})

	It("treats Windows 10013 as in-use for ports >= 1024", func() {
		err := fmt.Errorf("bind: An attempt was made to access a socket (10013)")
		Expect(endpoint.IsAddrInUse(err, 8080)).To(BeTrue())
	})

	It("does not flag an unrelated error", func() {
		err := fmt.Errorf("connection refused")
		Expect(endpoint.IsAddrInUse(err, 8080)).To(BeFalse())
	})

	It("returns false for a nil error", func() {
		Expect(endpoint.IsAddrInUse(nil, 8080)).To(BeFalse())
	})
})
