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

package logger

import (
	"fmt"
	"io"
	"os"

	logcfg "github/sabouaram/netsession/logger/config"

	"github.com/sirupsen/logrus"
)

type StdWriter uint8

const (
	StdOut StdWriter = iota
	StdErr
)

type HookStandard interface {
	logrus.Hook
	io.WriteCloser
	RegisterHook(log *logrus.Logger)
}

type hookStd struct {
	w io.Writer
	l []logrus.Level
	s bool
	d bool
	t bool
}

// NewHookStandard writes every fired entry to stdout or stderr,
// stripping the stack/timestamp/trace fields the options disable.
func NewHookStandard(opt logcfg.OptionsStd, s StdWriter, lvls []logrus.Level) HookStandard {
	if len(lvls) < 1 {
		lvls = logrus.AllLevels
	}

	var w io.Writer
	switch s {
	case StdErr:
		w = os.Stderr
	default:
		w = os.Stdout
	}

	return &hookStd{
		w: w,
		l: lvls,
		s: opt.DisableStack,
		d: opt.DisableTimestamp,
		t: opt.EnableTrace,
	}
}

func (o *hookStd) RegisterHook(log *logrus.Logger) {
	log.AddHook(o)
}

func (o *hookStd) Levels() []logrus.Level {
	return o.l
}

func (o *hookStd) Fire(entry *logrus.Entry) error {
	ent := entry.Dup()
	if o.s {
		delete(ent.Data, fieldStack)
	}
	if o.d {
		delete(ent.Data, fieldTime)
	}
	if !o.t {
		delete(ent.Data, fieldCaller)
		delete(ent.Data, fieldFile)
		delete(ent.Data, fieldLine)
	}

	p, e := ent.Bytes()
	if e != nil {
		return e
	}
	_, e = o.Write(p)
	return e
}

func (o *hookStd) Write(p []byte) (int, error) {
	if o.w == nil {
		return 0, fmt.Errorf("logger: stdout/stderr writer not configured")
	}
	return o.w.Write(p)
}

func (o *hookStd) Close() error {
	return nil
}
