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

package logger_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	liblog "github/sabouaram/netsession/logger"
	logcfg "github/sabouaram/netsession/logger/config"
	logfld "github/sabouaram/netsession/logger/fields"
	loglvl "github/sabouaram/netsession/logger/level"
)

var _ = Describe("Logger", func() {
	It("defaults to InfoLevel", func() {
		l := liblog.New()
		Expect(l.GetLevel()).To(Equal(loglvl.InfoLevel))
	})

	It("writes to a configured file sink", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "session.log")

		l := liblog.New()
		opt := &logcfg.Options{
			LogFile: logcfg.OptionsFiles{{
				Filepath: path,
				Create:   true,
			}},
		}
		Expect(l.SetOptions(opt)).To(Succeed())
		defer l.Close()

		l.SetLevel(loglvl.DebugLevel)
		l.Info("endpoint started on %s", nil, "tcp://127.0.0.1:9000")

		data, err := readAll(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("endpoint started on tcp://127.0.0.1:9000"))
	})

	It("filters messages below the configured level", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "filtered.log")

		l := liblog.New()
		Expect(l.SetOptions(&logcfg.Options{
			LogFile: logcfg.OptionsFiles{{Filepath: path, Create: true}},
		})).To(Succeed())
		defer l.Close()

		l.SetLevel(loglvl.WarnLevel)
		l.Debug("should not appear", nil)

		data, err := readAll(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).NotTo(ContainSubstring("should not appear"))
	})

	It("CheckError distinguishes success from failure", func() {
		l := liblog.New()
		Expect(l.CheckError(loglvl.ErrorLevel, loglvl.NilLevel, "no-op")).To(BeFalse())
		Expect(l.CheckError(loglvl.ErrorLevel, loglvl.NilLevel, "boom", errors.New("x"))).To(BeTrue())
	})

	It("Clone copies level and fields", func() {
		l := liblog.New()
		l.SetLevel(loglvl.DebugLevel)
		l.SetFields(logfld.New().Add("service", "endpoint"))

		c, err := l.Clone()
		Expect(err).NotTo(HaveOccurred())
		Expect(c.GetLevel()).To(Equal(loglvl.DebugLevel))

		v, ok := c.GetFields().Get("service")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("endpoint"))
	})
})

func readAll(path string) ([]byte, error) {
	return os.ReadFile(path)
}
