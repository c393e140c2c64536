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

// Package errors provides a registered error-code taxonomy with stack
// trace capture and parent-error chaining, used throughout this module
// in place of bare fmt.Errorf strings.
package errors

import "runtime"

// FuncMap iterates an error hierarchy; return false to stop early.
type FuncMap func(e error) bool

// Error extends the standard error with a numeric code, parent chain,
// and the call site where it was created.
type Error interface {
	error

	// IsCode reports whether this error's own code equals code.
	IsCode(code CodeError) bool
	// HasCode reports whether this error or any parent has code.
	HasCode(code CodeError) bool
	// GetCode returns this error's own code.
	GetCode() CodeError

	// Is implements compatibility with the standard errors.Is.
	Is(e error) bool
	// HasError reports whether err appears in the parent chain.
	HasError(err error) bool
	// HasParent reports whether this error has any parent.
	HasParent() bool
	// GetParent returns the parent chain, optionally including self.
	GetParent(withSelf bool) []error
	// Map walks self then parents, stopping when fct returns false.
	Map(fct FuncMap) bool

	// Add appends non-nil errors to the parent chain.
	Add(parent ...error)
	// SetParent replaces the parent chain.
	SetParent(parent ...error)

	// Unwrap supports errors.Is / errors.As.
	Unwrap() []error

	// GetTrace returns "file:line func" for the call site.
	GetTrace() string
}

// Message generates the human string for a CodeError.
type Message func(code CodeError) (message string)

// frame captures a single call-site location.
type frame struct {
	file string
	line int
	fct  string
}

func captureFrame(skip int) frame {
	var fr frame
	if pc, file, line, ok := runtime.Caller(skip); ok {
		fr.file = file
		fr.line = line
		if f := runtime.FuncForPC(pc); f != nil {
			fr.fct = f.Name()
		}
	}
	return fr
}
