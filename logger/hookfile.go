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
	"path/filepath"
	"sync"

	logcfg "github/sabouaram/netsession/logger/config"
	loglvl "github/sabouaram/netsession/logger/level"

	"github.com/sirupsen/logrus"
)

type HookFile interface {
	logrus.Hook
	io.WriteCloser
	RegisterHook(log *logrus.Logger)
}

type hookFile struct {
	mu sync.Mutex
	fh *os.File
	fr logrus.Formatter
	lv []logrus.Level
	s  bool
	d  bool
	t  bool
	o  logcfg.OptionsFile
}

// NewHookFile opens (and optionally creates) the configured log file
// and returns a hook that appends every matching-level entry to it.
func NewHookFile(opt logcfg.OptionsFile, format logrus.Formatter) (HookFile, error) {
	if opt.Filepath == "" {
		return nil, fmt.Errorf("logger: file hook requires a filepath")
	}

	lvls := make([]logrus.Level, 0, len(opt.LogLevel))
	if len(opt.LogLevel) > 0 {
		for _, ls := range opt.LogLevel {
			lvls = append(lvls, loglvl.Parse(ls).Logrus())
		}
	} else {
		lvls = logrus.AllLevels
	}

	if opt.FileMode == 0 {
		opt.FileMode = 0644
	}
	if opt.PathMode == 0 {
		opt.PathMode = 0755
	}

	h := &hookFile{
		fr: format,
		lv: lvls,
		s:  opt.DisableStack,
		d:  opt.DisableTimestamp,
		t:  opt.EnableTrace,
		o:  opt,
	}

	if e := h.open(); e != nil {
		return nil, e
	}
	return h, nil
}

func (o *hookFile) open() error {
	if o.o.CreatePath {
		if e := os.MkdirAll(filepath.Dir(o.o.Filepath), o.o.PathMode); e != nil {
			return e
		}
	}

	flags := os.O_WRONLY | os.O_APPEND
	if o.o.Create {
		flags |= os.O_CREATE
	}

	fh, e := os.OpenFile(o.o.Filepath, flags, o.o.FileMode)
	if e != nil {
		return e
	}
	o.fh = fh
	return nil
}

func (o *hookFile) RegisterHook(log *logrus.Logger) {
	log.AddHook(o)
}

func (o *hookFile) Levels() []logrus.Level {
	return o.lv
}

func (o *hookFile) Fire(entry *logrus.Entry) error {
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

	var (
		p []byte
		e error
	)
	if o.fr != nil {
		p, e = o.fr.Format(ent)
	} else {
		p, e = ent.Bytes()
	}
	if e != nil {
		return e
	}

	_, e = o.Write(p)
	return e
}

func (o *hookFile) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.fh == nil {
		return 0, fmt.Errorf("logger: file hook is closed")
	}
	return o.fh.Write(p)
}

func (o *hookFile) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.fh == nil {
		return nil
	}
	e := o.fh.Close()
	o.fh = nil
	return e
}
