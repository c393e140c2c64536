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

package errors_test

import (
	"errors"

	liberr "github/sabouaram/netsession/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CodeError taxonomy", func() {
	It("resolves registered domain messages", func() {
		Expect(liberr.ErrConnectionFailed.Message()).To(Equal("connection failed"))
		Expect(liberr.ErrSessionNotFound.Message()).To(Equal("session not found"))
	})

	It("falls back to UnknownMessage for an unregistered code", func() {
		Expect(liberr.NewCodeError(65000).Message()).To(Equal(liberr.UnknownMessage))
	})
})

var _ = Describe("Error hierarchy", func() {
	It("chains a parent error", func() {
		parent := liberr.ErrConnectionFailed.Error(nil)
		child := liberr.ErrSendFailed.Error(parent)

		Expect(child.HasParent()).To(BeTrue())
		Expect(child.HasError(parent)).To(BeTrue())
		Expect(child.HasCode(liberr.ErrConnectionFailed)).To(BeTrue())
		Expect(child.IsCode(liberr.ErrConnectionFailed)).To(BeFalse())
	})

	It("drops nil parents", func() {
		err := liberr.ErrNotConnected.Error(nil, nil)
		Expect(err.HasParent()).To(BeFalse())
	})
})

var _ = Describe("IsPermanent", func() {
	It("is true for permanent taxonomy codes", func() {
		Expect(liberr.IsPermanent(liberr.ErrConnectionFailedPermanent.Error())).To(BeTrue())
		Expect(liberr.IsPermanent(liberr.ErrInvalidConfig.Error())).To(BeTrue())
	})

	It("is false for retryable codes", func() {
		Expect(liberr.IsPermanent(liberr.ErrConnectionFailed.Error())).To(BeFalse())
	})

	It("is false for a plain error and for nil", func() {
		Expect(liberr.IsPermanent(errors.New("plain"))).To(BeFalse())
		Expect(liberr.IsPermanent(nil)).To(BeFalse())
	})

	It("sees permanence through a parent chain", func() {
		parent := liberr.ErrConnectionFailedPermanent.Error()
		wrapped := liberr.ErrConnectionFailed.Error(parent)
		Expect(liberr.IsPermanent(wrapped)).To(BeTrue())
	})
})
