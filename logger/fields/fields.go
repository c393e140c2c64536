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

// Package fields is a thread-safe, ordered-key-agnostic bag of
// structured logging key/value pairs, convertible to logrus.Fields.
package fields

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// WalkFunc is called for each key/value pair by Walk/WalkLimit. Return
// false to stop iterating early.
type WalkFunc func(key string, val interface{}) bool

type Fields interface {
	json.Marshaler
	json.Unmarshaler

	Clone() Fields
	Clean()

	Add(key string, val interface{}) Fields
	Delete(key string) Fields
	Merge(f Fields) Fields
	Walk(fct WalkFunc) Fields
	WalkLimit(fct WalkFunc, validKeys ...string) Fields

	Get(key string) (val interface{}, ok bool)
	Store(key string, val interface{})
	LoadOrStore(key string, val interface{}) (interface{}, bool)
	LoadAndDelete(key string) (interface{}, bool)

	Logrus() logrus.Fields
	Map(fct func(key string, val interface{}) interface{}) Fields
}

type fldModel struct {
	mu sync.RWMutex
	m  map[string]interface{}
}

// New returns an empty, ready-to-use Fields.
func New() Fields {
	return &fldModel{m: make(map[string]interface{})}
}

func (o *fldModel) Add(key string, val interface{}) Fields {
	o.Store(key, val)
	return o
}

func (o *fldModel) Delete(key string) Fields {
	o.mu.Lock()
	delete(o.m, key)
	o.mu.Unlock()
	return o
}

func (o *fldModel) Clean() {
	o.mu.Lock()
	o.m = make(map[string]interface{})
	o.mu.Unlock()
}

func (o *fldModel) Merge(f Fields) Fields {
	if f == nil {
		return o
	}
	f.Walk(func(key string, val interface{}) bool {
		o.Store(key, val)
		return true
	})
	return o
}

func (o *fldModel) Walk(fct WalkFunc) Fields {
	if fct == nil {
		return o
	}
	o.mu.RLock()
	snap := make(map[string]interface{}, len(o.m))
	for k, v := range o.m {
		snap[k] = v
	}
	o.mu.RUnlock()

	for k, v := range snap {
		if !fct(k, v) {
			break
		}
	}
	return o
}

func (o *fldModel) WalkLimit(fct WalkFunc, validKeys ...string) Fields {
	if fct == nil {
		return o
	}
	for _, k := range validKeys {
		if v, ok := o.Get(k); ok {
			if !fct(k, v) {
				break
			}
		}
	}
	return o
}

func (o *fldModel) Get(key string) (interface{}, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	v, ok := o.m[key]
	return v, ok
}

func (o *fldModel) Store(key string, val interface{}) {
	o.mu.Lock()
	o.m[key] = val
	o.mu.Unlock()
}

func (o *fldModel) LoadOrStore(key string, val interface{}) (interface{}, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if v, ok := o.m[key]; ok {
		return v, true
	}
	o.m[key] = val
	return val, false
}

func (o *fldModel) LoadAndDelete(key string) (interface{}, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, ok := o.m[key]
	if ok {
		delete(o.m, key)
	}
	return v, ok
}

func (o *fldModel) Logrus() logrus.Fields {
	res := make(logrus.Fields)
	if o == nil {
		return res
	}
	o.Walk(func(key string, val interface{}) bool {
		res[key] = val
		return true
	})
	return res
}

func (o *fldModel) Map(fct func(key string, val interface{}) interface{}) Fields {
	o.Walk(func(key string, val interface{}) bool {
		o.Store(key, fct(key, val))
		return true
	})
	return o
}

func (o *fldModel) Clone() Fields {
	c := New()
	o.Walk(func(key string, val interface{}) bool {
		c.Store(key, val)
		return true
	})
	return c
}

func (o *fldModel) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Logrus())
}

func (o *fldModel) UnmarshalJSON(data []byte) error {
	l := make(logrus.Fields)
	if e := json.Unmarshal(data, &l); e != nil {
		return e
	}
	for k, v := range l {
		o.Store(k, v)
	}
	return nil
}
