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

// Package context holds the cancellable root context that sessionmgr
// derives every per-session and per-connect-attempt context.Context
// from, plus a small concurrent key/value store riding alongside it
// (used to stash session metadata that outlives any one goroutine).
package context

import (
	"context"
)

type FuncWalk[T comparable] func(key T, val interface{}) bool

// MapManage is the concurrent key/value store embedded in Config.
type MapManage[T comparable] interface {
	Clean()
	Load(key T) (val interface{}, ok bool)
	Store(key T, val interface{})
	Delete(key T)
	LoadOrStore(key T, val interface{}) (actual interface{}, loaded bool)
	LoadAndDelete(key T) (val interface{}, loaded bool)
	Walk(fct FuncWalk[T])
	WalkLimit(fct FuncWalk[T], validKeys ...T)
}

// Config is a context.Context that also owns a concurrent store keyed
// by T. sessionmgr.Manager keeps one Config[string] as its root,
// storing each session's cancel func under its session id.
type Config[T comparable] interface {
	context.Context
	MapManage[T]

	// GetContext returns the underlying context.Context.
	GetContext() context.Context

	// Clone returns an independent copy with its own store, seeded
	// from the current one, rooted at ctx (or the current context if
	// ctx is nil).
	Clone(ctx context.Context) Config[T]

	// Merge copies every entry from cfg into the current store.
	// Returns false if cfg is nil.
	Merge(cfg Config[T]) bool
}

// New returns a Config rooted at ctx (context.Background() if nil).
func New[T comparable](ctx context.Context) Config[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	return &ccx[T]{x: ctx}
}
