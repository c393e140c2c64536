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

package context_test

import (
	gocontext "context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libctx "github/sabouaram/netsession/context"
)

var _ = Describe("Config", func() {
	It("defaults to context.Background when given a nil context", func() {
		cfg := libctx.New[string](nil)
		Expect(cfg.GetContext()).To(Equal(gocontext.Background()))
		Expect(cfg.Err()).NotTo(HaveOccurred())
	})

	It("stores, loads, and deletes values independent of the wrapped context", func() {
		cfg := libctx.New[string](gocontext.Background())

		_, ok := cfg.Load("missing")
		Expect(ok).To(BeFalse())

		cfg.Store("k1", "v1")
		v, ok := cfg.Load("k1")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("v1"))

		cfg.Delete("k1")
		_, ok = cfg.Load("k1")
		Expect(ok).To(BeFalse())
	})

	It("ignores a Store of a nil value", func() {
		cfg := libctx.New[string](nil)
		cfg.Store("k", nil)
		_, ok := cfg.Load("k")
		Expect(ok).To(BeFalse())
	})

	It("LoadOrStore reports whether a value already existed", func() {
		cfg := libctx.New[string](nil)

		v, loaded := cfg.LoadOrStore("k", "first")
		Expect(loaded).To(BeFalse())
		Expect(v).To(Equal("first"))

		v, loaded = cfg.LoadOrStore("k", "second")
		Expect(loaded).To(BeTrue())
		Expect(v).To(Equal("first"))
	})

	It("LoadAndDelete removes the entry and returns its value once", func() {
		cfg := libctx.New[string](nil)
		cfg.Store("k", "v")

		v, loaded := cfg.LoadAndDelete("k")
		Expect(loaded).To(BeTrue())
		Expect(v).To(Equal("v"))

		_, loaded = cfg.LoadAndDelete("k")
		Expect(loaded).To(BeFalse())
	})

	It("Walk visits every stored entry", func() {
		cfg := libctx.New[string](nil)
		cfg.Store("a", 1)
		cfg.Store("b", 2)

		seen := map[string]interface{}{}
		cfg.Walk(func(k string, v interface{}) bool {
			seen[k] = v
			return true
		})
		Expect(seen).To(HaveLen(2))
		Expect(seen["a"]).To(Equal(1))
		Expect(seen["b"]).To(Equal(2))
	})

	It("WalkLimit only visits the given keys", func() {
		cfg := libctx.New[string](nil)
		cfg.Store("a", 1)
		cfg.Store("b", 2)
		cfg.Store("c", 3)

		seen := map[string]interface{}{}
		cfg.WalkLimit(func(k string, v interface{}) bool {
			seen[k] = v
			return true
		}, "a", "c")
		Expect(seen).To(HaveLen(2))
		Expect(seen).To(HaveKey("a"))
		Expect(seen).To(HaveKey("c"))
		Expect(seen).NotTo(HaveKey("b"))
	})

	It("Clone copies the store into an independently mutable map", func() {
		cfg := libctx.New[string](nil)
		cfg.Store("k", "v")

		clone := cfg.Clone(nil)
		clone.Store("k2", "v2")

		_, ok := cfg.Load("k2")
		Expect(ok).To(BeFalse())

		v, ok := clone.Load("k")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("v"))
	})

	It("Merge copies every entry from another Config", func() {
		a := libctx.New[string](nil)
		a.Store("a", 1)

		b := libctx.New[string](nil)
		b.Store("b", 2)

		Expect(a.Merge(b)).To(BeTrue())
		_, ok := a.Load("b")
		Expect(ok).To(BeTrue())
	})

	It("Merge with a nil Config returns false", func() {
		a := libctx.New[string](nil)
		Expect(a.Merge(nil)).To(BeFalse())
	})

	It("propagates cancellation from the wrapped context", func() {
		parent, cancel := gocontext.WithCancel(gocontext.Background())
		cfg := libctx.New[string](parent)

		Expect(cfg.Err()).NotTo(HaveOccurred())
		cancel()

		Eventually(cfg.Done()).Should(BeClosed())
		Expect(cfg.Err()).To(Equal(gocontext.Canceled))
	})

	It("a cancelled Config clears its store on the next mutation", func() {
		parent, cancel := gocontext.WithCancel(gocontext.Background())
		cfg := libctx.New[string](parent)
		cfg.Store("k", "v")
		cancel()

		cfg.Store("other", "v2")
		_, ok := cfg.Load("k")
		Expect(ok).To(BeFalse())
	})

	It("Value checks the store before falling back to the wrapped context", func() {
		type ctxKey string
		parent := gocontext.WithValue(gocontext.Background(), ctxKey("fallback"), "parent-value")
		cfg := libctx.New[ctxKey](parent)
		cfg.Store(ctxKey("fallback"), "store-value")

		Expect(cfg.Value(ctxKey("fallback"))).To(Equal("store-value"))
		Expect(cfg.Value(ctxKey("other-type-key"))).To(BeNil())
	})

	It("honors a Deadline from the wrapped context", func() {
		deadline := time.Now().Add(time.Hour)
		parent, cancel := gocontext.WithDeadline(gocontext.Background(), deadline)
		defer cancel()

		cfg := libctx.New[string](parent)
		d, ok := cfg.Deadline()
		Expect(ok).To(BeTrue())
		Expect(d).To(Equal(deadline))
	})
})
