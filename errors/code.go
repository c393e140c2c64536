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
	"sort"
	"strconv"
)

// idMsgFct maps each registered minimum code to its message function.
var idMsgFct = make(map[CodeError]Message)

// CodeError is a numeric error classification, similar in spirit to an
// HTTP status code but scoped to this module's own taxonomy.
type CodeError uint16

const (
	// UnknownError is the fallback code for an error with no registration.
	UnknownError CodeError = 0
	// UnknownMessage is the message used when a code has no registration.
	UnknownMessage = "unknown error"
)

// NewCodeError wraps a raw uint16 as a CodeError.
func NewCodeError(code uint16) CodeError {
	return CodeError(code)
}

// Uint16 returns the raw code value.
func (c CodeError) Uint16() uint16 {
	return uint16(c)
}

// String returns the decimal code, not the registered message.
func (c CodeError) String() string {
	return strconv.Itoa(int(c))
}

// Message returns the registered human string for c, or UnknownMessage.
func (c CodeError) Message() string {
	if c == UnknownError {
		return UnknownMessage
	}

	if f, ok := idMsgFct[findCodeErrorInMapMessage(c)]; ok {
		if m := f(c); m != "" {
			return m
		}
	}

	return UnknownMessage
}

// Error builds a new Error value for this code, chaining any parents.
func (c CodeError) Error(p ...error) Error {
	return New(c.Uint16(), c.Message(), p...)
}

// RegisterIdFctMessage registers the message function responsible for
// every code greater than or equal to minCode, until the next
// registered boundary.
func RegisterIdFctMessage(minCode CodeError, fct Message) {
	if idMsgFct == nil {
		idMsgFct = make(map[CodeError]Message)
	}

	idMsgFct[minCode] = fct
}

// ExistInMapMessage reports whether code resolves to a non-empty message.
func ExistInMapMessage(code CodeError) bool {
	f, ok := idMsgFct[findCodeErrorInMapMessage(code)]
	return ok && f(code) != ""
}

func getMapMessageKey() []CodeError {
	keys := make([]int, 0, len(idMsgFct))
	for k := range idMsgFct {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)

	res := make([]CodeError, 0, len(keys))
	for _, k := range keys {
		res = append(res, CodeError(k))
	}
	return res
}

// findCodeErrorInMapMessage returns the largest registered boundary
// code that is <= code, defaulting to 0.
func findCodeErrorInMapMessage(code CodeError) CodeError {
	var res CodeError
	for _, k := range getMapMessageKey() {
		if k <= code && k > res {
			res = k
		}
	}
	return res
}
