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

// Package entry builds a single structured log record and hands it to
// logrus. It is the unit the logger package emits on every Debug/Info/
// Warning/Error/Fatal/Panic call.
package entry

import (
	"os"
	"strings"
	"time"

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
	fieldError   = "error"
	fieldData    = "data"
)

type Entry interface {
	SetLogger(fct func() *logrus.Logger) Entry
	SetLevel(lvl loglvl.Level) Entry
	SetMessageOnly(flag bool) Entry
	SetEntryContext(etime time.Time, stack uint64, caller, file string, line uint64, msg string) Entry

	DataSet(data interface{}) Entry
	Check(lvlNoErr loglvl.Level) bool
	Log()

	FieldAdd(key string, val interface{}) Entry
	FieldMerge(fields logfld.Fields) Entry
	FieldSet(fields logfld.Fields) Entry
	FieldClean(keys ...string) Entry

	ErrorClean() Entry
	ErrorSet(err []error) Entry
	ErrorAdd(cleanNil bool, err ...error) Entry
}

type entry struct {
	log   func() *logrus.Logger
	clean bool

	Time    time.Time
	Level   loglvl.Level
	Stack   uint64
	Caller  string
	File    string
	Line    uint64
	Message string
	Error   []error
	Data    interface{}
	Fields  logfld.Fields
}

// New returns a ready Entry stamped with the current time; it still
// needs SetLogger and FieldSet before Log does anything.
func New(lvl loglvl.Level) Entry {
	return &entry{
		Level: lvl,
		Time:  time.Now(),
		Error: make([]error, 0),
	}
}

func (e *entry) SetEntryContext(etime time.Time, stack uint64, caller, file string, line uint64, msg string) Entry {
	if e == nil {
		return nil
	}
	e.Time = etime
	e.Stack = stack
	e.Caller = caller
	e.File = file
	e.Line = line
	e.Message = msg
	return e
}

func (e *entry) SetMessageOnly(flag bool) Entry {
	if e == nil {
		return nil
	}
	e.clean = flag
	return e
}

func (e *entry) SetLevel(lvl loglvl.Level) Entry {
	if e == nil {
		return nil
	}
	e.Level = lvl
	return e
}

func (e *entry) SetLogger(fct func() *logrus.Logger) Entry {
	if e == nil {
		return nil
	}
	e.log = fct
	return e
}

func (e *entry) DataSet(data interface{}) Entry {
	if e == nil {
		return nil
	}
	e.Data = data
	return e
}

// Check logs at lvlNoErr if no non-nil error was accumulated, otherwise
// at the entry's current level, and reports which happened.
func (e *entry) Check(lvlNoErr loglvl.Level) bool {
	if e == nil {
		return false
	}
	found := false
	for _, er := range e.Error {
		if er != nil {
			found = true
			break
		}
	}
	if !found {
		e.Level = lvlNoErr
	}
	e.Log()
	return found
}

func (e *entry) Log() {
	if e == nil || e.log == nil || e.Fields == nil {
		return
	}
	if e.clean {
		e.logClean()
		return
	}
	if e.Level == loglvl.NilLevel {
		return
	}

	tag := logfld.New().Add(fieldLevel, e.Level.String())

	if !e.Time.IsZero() {
		tag = tag.Add(fieldTime, e.Time.Format(time.RFC3339Nano))
	}
	if e.Stack > 0 {
		tag = tag.Add(fieldStack, e.Stack)
	}
	if e.Caller != "" {
		tag = tag.Add(fieldCaller, e.Caller)
	} else if e.File != "" {
		tag = tag.Add(fieldFile, e.File)
	}
	if e.Line > 0 {
		tag = tag.Add(fieldLine, e.Line)
	}
	if e.Message != "" {
		tag = tag.Add(fieldMessage, e.Message)
	}
	if len(e.Error) > 0 {
		msg := make([]string, 0, len(e.Error))
		for _, er := range e.Error {
			if er != nil {
				msg = append(msg, er.Error())
			}
		}
		if len(msg) > 0 {
			tag = tag.Add(fieldError, strings.Join(msg, ", "))
		}
	}
	if e.Data != nil {
		tag = tag.Add(fieldData, e.Data)
	}
	tag.Merge(e.Fields)

	log := e.log()
	if log == nil {
		return
	}
	log.WithFields(tag.Logrus()).Log(e.Level.Logrus())

	if e.Level <= loglvl.FatalLevel {
		os.Exit(1)
	}
}

func (e *entry) logClean() {
	if e.log == nil {
		return
	}
	log := e.log()
	if log == nil {
		return
	}
	log.Info(e.Message)
}

func (e *entry) FieldAdd(key string, val interface{}) Entry {
	if e == nil || e.Fields == nil {
		return nil
	}
	e.Fields.Add(key, val)
	return e
}

func (e *entry) FieldMerge(fields logfld.Fields) Entry {
	if e == nil || e.Fields == nil {
		return nil
	}
	e.Fields.Merge(fields)
	return e
}

func (e *entry) FieldSet(fields logfld.Fields) Entry {
	if e == nil {
		return nil
	}
	e.Fields = fields
	return e
}

func (e *entry) FieldClean(keys ...string) Entry {
	if e == nil || e.Fields == nil {
		return nil
	}
	for _, k := range keys {
		e.Fields.Delete(k)
	}
	return e
}

func (e *entry) ErrorClean() Entry {
	e.Error = make([]error, 0)
	return e
}

func (e *entry) ErrorSet(err []error) Entry {
	if len(err) < 1 {
		err = make([]error, 0)
	}
	e.Error = err
	return e
}

func (e *entry) ErrorAdd(cleanNil bool, err ...error) Entry {
	if e.Error == nil {
		e.Error = make([]error, 0)
	}
	for _, er := range err {
		if cleanNil && er == nil {
			continue
		}
		e.Error = append(e.Error, er)
	}
	return e
}
