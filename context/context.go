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

package context

import (
	"context"
	"time"
)

func (c *ccx[T]) GetContext() context.Context {
	if c.x != nil {
		return c.x
	}
	return context.Background()
}

func (c *ccx[T]) Deadline() (deadline time.Time, ok bool) {
	return c.GetContext().Deadline()
}

func (c *ccx[T]) Done() <-chan struct{} {
	return c.GetContext().Done()
}

func (c *ccx[T]) Err() error {
	return c.GetContext().Err()
}

// Value checks the store first (for key of type T), then falls back
// to the wrapped context.Context.
func (c *ccx[T]) Value(key any) any {
	if k, ok := key.(T); ok {
		if v, found := c.Load(k); found {
			return v
		}
	}
	return c.GetContext().Value(key)
}
