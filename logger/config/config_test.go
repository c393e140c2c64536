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

package config_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	logcfg "github/sabouaram/netsession/logger/config"
)

var _ = Describe("Options", func() {
	It("rejects a file sink with no path", func() {
		o := &logcfg.Options{LogFile: logcfg.OptionsFiles{{}}}
		Expect(o.Validate()).To(HaveOccurred())
	})

	It("accepts a file sink with a path", func() {
		o := &logcfg.Options{LogFile: logcfg.OptionsFiles{{Filepath: "/tmp/x.log"}}}
		Expect(o.Validate()).NotTo(HaveOccurred())
	})

	It("extends rather than replaces file sinks when LogFileExtend is set", func() {
		base := &logcfg.Options{LogFile: logcfg.OptionsFiles{{Filepath: "/tmp/a.log"}}}
		extra := &logcfg.Options{LogFileExtend: true, LogFile: logcfg.OptionsFiles{{Filepath: "/tmp/b.log"}}}

		base.Merge(extra)

		Expect(base.LogFile).To(HaveLen(2))
	})

	It("replaces file sinks without the extend flag", func() {
		base := &logcfg.Options{LogFile: logcfg.OptionsFiles{{Filepath: "/tmp/a.log"}}}
		extra := &logcfg.Options{LogFile: logcfg.OptionsFiles{{Filepath: "/tmp/b.log"}}}

		base.Merge(extra)

		Expect(base.LogFile).To(HaveLen(1))
		Expect(base.LogFile[0].Filepath).To(Equal("/tmp/b.log"))
	})

	It("clones independently", func() {
		base := &logcfg.Options{Stdout: &logcfg.OptionsStd{EnableTrace: true}}
		c := base.Clone()
		c.Stdout.EnableTrace = false

		Expect(base.Stdout.EnableTrace).To(BeTrue())
	})

	It("Default enables stdout tracing with no file sinks", func() {
		d := logcfg.Default()
		Expect(d.Stdout).NotTo(BeNil())
		Expect(d.Stdout.EnableTrace).To(BeTrue())
		Expect(d.LogFile).To(BeEmpty())
	})
})
