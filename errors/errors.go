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

package errors

import (
	"fmt"
	"strings"
)

type ers struct {
	c CodeError
	e string
	p []error
	t frame
}

// New creates an Error with the given raw code and message, chaining
// any non-nil parents. The call site three frames up is captured.
func New(code uint16, message string, parent ...error) Error {
	return &ers{
		c: CodeError(code),
		e: message,
		p: filterNilErrors(parent),
		t: captureFrame(3),
	}
}

// Newf is New with fmt.Sprintf-style message formatting.
func Newf(code uint16, format string, args ...interface{}) Error {
	return &ers{
		c: CodeError(code),
		e: fmt.Sprintf(format, args...),
		t: captureFrame(3),
	}
}

func filterNilErrors(in []error) []error {
	out := make([]error, 0, len(in))
	for _, e := range in {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (e *ers) Error() string {
	if e == nil {
		return ""
	}
	if e.e != "" {
		return e.e
	}
	return e.c.Message()
}

func (e *ers) IsCode(code CodeError) bool {
	return e != nil && e.c == code
}

func (e *ers) HasCode(code CodeError) bool {
	if e == nil {
		return false
	}
	if e.c == code {
		return true
	}
	for _, p := range e.p {
		if er, ok := p.(Error); ok && er.HasCode(code) {
			return true
		}
	}
	return false
}

func (e *ers) GetCode() CodeError {
	if e == nil {
		return UnknownError
	}
	return e.c
}

func (e *ers) Is(target error) bool {
	if target == nil || e == nil {
		return false
	}
	if o, ok := target.(*ers); ok {
		return e.c == o.c && strings.EqualFold(e.Error(), o.Error())
	}
	return e.HasError(target)
}

func (e *ers) HasError(err error) bool {
	if e == nil || err == nil {
		return false
	}
	if e == err {
		return true
	}
	for _, p := range e.p {
		if p == err {
			return true
		}
		if er, ok := p.(Error); ok && er.HasError(err) {
			return true
		}
	}
	return false
}

func (e *ers) HasParent() bool {
	return e != nil && len(e.p) > 0
}

func (e *ers) GetParent(withSelf bool) []error {
	if e == nil {
		return nil
	}
	res := make([]error, 0, len(e.p)+1)
	if withSelf {
		res = append(res, e)
	}
	res = append(res, e.p...)
	return res
}

func (e *ers) Map(fct FuncMap) bool {
	if e == nil || fct == nil {
		return true
	}
	if !fct(e) {
		return false
	}
	for _, p := range e.p {
		if er, ok := p.(Error); ok {
			if !er.Map(fct) {
				return false
			}
		} else if !fct(p) {
			return false
		}
	}
	return true
}

func (e *ers) Add(parent ...error) {
	if e == nil {
		return
	}
	e.p = append(e.p, filterNilErrors(parent)...)
}

func (e *ers) SetParent(parent ...error) {
	if e == nil {
		return
	}
	e.p = filterNilErrors(parent)
}

func (e *ers) Unwrap() []error {
	if e == nil {
		return nil
	}
	return e.p
}

func (e *ers) GetTrace() string {
	if e == nil || e.t.file == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d %s", e.t.file, e.t.line, e.t.fct)
}
