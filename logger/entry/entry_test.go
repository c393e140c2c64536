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

package entry_test

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	logent "github/sabouaram/netsession/logger/entry"
	logfld "github/sabouaram/netsession/logger/fields"
	loglvl "github/sabouaram/netsession/logger/level"
)

var _ = Describe("Entry", func() {
	var (
		log  *logrus.Logger
		hook *test.Hook
	)

	BeforeEach(func() {
		log, hook = test.NewNullLogger()
		log.SetLevel(logrus.TraceLevel)
	})

	It("does not log without a logger or fields set", func() {
		e := logent.New(loglvl.InfoLevel)
		e.Log()
		Expect(hook.Entries).To(BeEmpty())
	})

	It("logs at the configured level once logger and fields are set", func() {
		e := logent.New(loglvl.WarnLevel).
			SetLogger(func() *logrus.Logger { return log }).
			FieldSet(logfld.New()).
			SetEntryContext(time.Now(), 0, "caller", "file.go", 12, "something happened")

		e.Log()

		Expect(hook.Entries).To(HaveLen(1))
		Expect(hook.LastEntry().Level).To(Equal(logrus.WarnLevel))
		Expect(hook.LastEntry().Data["message"]).To(Equal("something happened"))
	})

	It("never logs at NilLevel", func() {
		e := logent.New(loglvl.NilLevel).
			SetLogger(func() *logrus.Logger { return log }).
			FieldSet(logfld.New())
		e.Log()
		Expect(hook.Entries).To(BeEmpty())
	})

	It("Check logs at lvlNoErr when no error is present", func() {
		e := logent.New(loglvl.ErrorLevel).
			SetLogger(func() *logrus.Logger { return log }).
			FieldSet(logfld.New())

		found := e.Check(loglvl.InfoLevel)

		Expect(found).To(BeFalse())
		Expect(hook.LastEntry().Level).To(Equal(logrus.InfoLevel))
	})

	It("Check logs at the entry level when an error is present", func() {
		e := logent.New(loglvl.ErrorLevel).
			SetLogger(func() *logrus.Logger { return log }).
			FieldSet(logfld.New()).
			ErrorAdd(true, errors.New("boom"))

		found := e.Check(loglvl.InfoLevel)

		Expect(found).To(BeTrue())
		Expect(hook.LastEntry().Level).To(Equal(logrus.ErrorLevel))
	})

	It("drops nil errors when cleanNil is true", func() {
		e := logent.New(loglvl.ErrorLevel).ErrorAdd(true, nil, errors.New("real"))
		found := e.Check(loglvl.NilLevel)
		Expect(found).To(BeTrue())
	})
})
