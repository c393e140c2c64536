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

// Package logger is the structured logging facade used by every other
// package in this module: endpoints, the connection manager and
// sessions all log through a Logger rather than touching logrus
// directly.
package logger

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	logcfg "github/sabouaram/netsession/logger/config"
	logent "github/sabouaram/netsession/logger/entry"
	logfld "github/sabouaram/netsession/logger/fields"
	loglvl "github/sabouaram/netsession/logger/level"

	"github.com/sirupsen/logrus"
)

const (
	fieldLevel   = "level"
	fieldTime    = "time"
	fieldStack   = "stack"
	fieldCaller  = "caller"
	fieldFile    = "file"
	fieldLine    = "line"
	fieldMessage = "message"
)

type FuncLog func() Logger

// Logger is the main structured-logging facade. It extends
// io.WriteCloser so it can double as the destination for anything
// that wants a plain writer.
type Logger interface {
	io.WriteCloser

	SetLevel(lvl loglvl.Level)
	GetLevel() loglvl.Level

	SetOptions(opt *logcfg.Options) error
	GetOptions() *logcfg.Options

	SetFields(field logfld.Fields)
	GetFields() logfld.Fields

	Clone() (Logger, error)

	Debug(message string, data interface{}, args ...interface{})
	Info(message string, data interface{}, args ...interface{})
	Warning(message string, data interface{}, args ...interface{})
	Error(message string, data interface{}, args ...interface{})
	Fatal(message string, data interface{}, args ...interface{})
	Panic(message string, data interface{}, args ...interface{})

	LogDetails(lvl loglvl.Level, message string, data interface{}, err []error, fields logfld.Fields, args ...interface{})
	CheckError(lvlKO, lvlOK loglvl.Level, message string, err ...error) bool

	Entry(lvl loglvl.Level, message string, args ...interface{}) logent.Entry
}

type logger struct {
	mu  sync.RWMutex
	lvl loglvl.Level
	wlv loglvl.Level
	fld logfld.Fields
	opt *logcfg.Options
	log *logrus.Logger
	hks []io.Closer
}

// New returns a Logger at InfoLevel with no configured sinks; call
// SetOptions to attach stdout/file hooks.
func New() Logger {
	l := &logger{
		lvl: loglvl.InfoLevel,
		wlv: loglvl.InfoLevel,
		fld: logfld.New(),
		log: logrus.New(),
	}
	l.log.SetOutput(io.Discard)
	l.log.SetLevel(logrus.TraceLevel)
	return l
}

func (o *logger) SetLevel(lvl loglvl.Level) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lvl = lvl
}

func (o *logger) GetLevel() loglvl.Level {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.lvl
}

func (o *logger) SetFields(field logfld.Fields) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fld = field
}

func (o *logger) GetFields() logfld.Fields {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.fld
}

func (o *logger) GetOptions() *logcfg.Options {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.opt
}

// SetOptions tears down any previously registered hooks and rebuilds
// the logrus output chain (stdout + any file sinks) from opt.
func (o *logger) SetOptions(opt *logcfg.Options) error {
	if opt == nil {
		return fmt.Errorf("logger: nil options")
	}
	if e := opt.Validate(); e != nil {
		return e
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	for _, h := range o.hks {
		_ = h.Close()
	}
	o.hks = o.hks[:0]

	resolved := opt.Options()
	o.log.ReplaceHooks(make(logrus.LevelHooks))
	o.log.SetOutput(io.Discard)

	if resolved.Stdout != nil && !resolved.Stdout.DisableStandard {
		hk := NewHookStandard(*resolved.Stdout, StdOut, nil)
		hk.RegisterHook(o.log)
		o.hks = append(o.hks, hk)
	}

	for _, fo := range resolved.LogFile {
		hk, e := NewHookFile(fo, &logrus.JSONFormatter{})
		if e != nil {
			return e
		}
		hk.RegisterHook(o.log)
		o.hks = append(o.hks, hk)
	}

	o.opt = resolved
	return nil
}

// Clone copies level, fields and options into a fresh Logger, useful
// for giving each session its own field set derived from a shared
// base logger.
func (o *logger) Clone() (Logger, error) {
	n := New().(*logger)
	n.SetLevel(o.GetLevel())
	if f := o.GetFields(); f != nil {
		n.SetFields(f.Clone())
	}
	if o.opt != nil {
		c := o.opt.Clone()
		if e := n.SetOptions(&c); e != nil {
			return nil, e
		}
	}
	return n, nil
}

// Write implements io.Writer at the logger's configured write level,
// letting this Logger stand in for any plain io.Writer destination.
func (o *logger) Write(p []byte) (int, error) {
	o.newEntry(o.wlv, string(p), nil, nil, nil).SetMessageOnly(true).Log()
	return len(p), nil
}

func (o *logger) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var firstErr error
	for _, h := range o.hks {
		if e := h.Close(); e != nil && firstErr == nil {
			firstErr = e
		}
	}
	return firstErr
}

func (o *logger) getCaller() (function, file string, line int) {
	pc, file, line, ok := runtime.Caller(4)
	if !ok {
		return "", "", 0
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		function = fn.Name()
	}
	return function, file, line
}

func (o *logger) newEntry(lvl loglvl.Level, message string, err []error, fields logfld.Fields, data interface{}) logent.Entry {
	if o == nil || lvl.Int() > o.GetLevel().Int() {
		return logent.New(loglvl.NilLevel)
	}

	fn, file, line := o.getCaller()
	ent := logent.New(lvl)
	ent.ErrorSet(err)
	ent.DataSet(data)

	var ln uint64
	if line > 0 {
		ln = uint64(line)
	}
	ent.SetEntryContext(time.Now(), uint64(runtime.NumGoroutine()), fn, file, ln, message)

	if fld := o.GetFields(); fld != nil {
		ent.FieldSet(fld.Clone())
	} else {
		ent.FieldSet(logfld.New())
	}
	ent.FieldMerge(fields)
	ent.SetLogger(func() *logrus.Logger { return o.log })

	return ent
}
