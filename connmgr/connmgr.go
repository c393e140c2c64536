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

// Package connmgr is the reliability layer sitting between a Session
// and its Endpoint (spec §4.3): retry with exponential backoff under a
// global deadline, cooperative cancellation, TCP server port-fallback,
// and the downcasting helpers a Session needs to reach server/MQTT/
// Modbus capabilities without knowing the concrete endpoint variant.
package connmgr

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github/sabouaram/netsession/endpoint"
	liberr "github/sabouaram/netsession/errors"
	liblog "github/sabouaram/netsession/logger"
)

const (
	defaultMaxRetries    = 3
	defaultTimeoutMs     = 30_000
	defaultRetryDelayMs  = 1_000
	globalDeadline       = 300 * time.Second
	backoffCapMs         = 30_000
	cancelPollInterval   = 100 * time.Millisecond
)

// EndpointFactory builds a fresh Endpoint from cfg. Session closes
// over the protocol/role/config/event-sink handle described in spec
// §4.6; the cfg parameter lets the manager substitute a fallback port
// on successive attempts without the caller's original config object
// ever being mutated.
type EndpointFactory func(cfg endpoint.Config) (endpoint.Endpoint, error)

// StatusSink receives every connection-status transition the manager
// computes; session.State implements it, deduplicating consecutive
// identical discriminants per spec §4.4.
type StatusSink interface {
	SetStatus(status endpoint.ConnectionStatus)
}

// Manager is the ConnectionManager of spec §4.3. Zero value is not
// usable; construct with NewManager.
type Manager struct {
	mu  sync.Mutex
	cfg endpoint.Config
	ep  endpoint.Endpoint
	log liblog.Logger

	connecting atomic.Bool
	cancelFlag atomic.Bool
	attempt    atomic.Uint32
}

// NewManager returns a Manager bound to cfg. log may be nil, in which
// case a discarding logger is used.
func NewManager(cfg endpoint.Config, log liblog.Logger) *Manager {
	if log == nil {
		log = liblog.New()
	}
	return &Manager{cfg: cfg, log: log}
}

// SetConfig replaces the config used by the next ConnectWithRetry
// call (spec §4.7 "update_config"); it has no effect on an endpoint
// already connected.
func (m *Manager) SetConfig(cfg endpoint.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
}

// Config returns the config the manager currently holds.
func (m *Manager) Config() endpoint.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

func clampDuration(ms int, def int) time.Duration {
	if ms <= 0 {
		ms = def
	}
	return time.Duration(ms) * time.Millisecond
}

// ConnectWithRetry runs the retry algorithm of spec §4.3 steps 1-5.
// factory builds an Endpoint for a given (possibly port-substituted)
// config; statusSink observes every status transition.
func (m *Manager) ConnectWithRetry(ctx context.Context, factory EndpointFactory, statusSink StatusSink) error {
	if !m.connecting.CompareAndSwap(false, true) {
		statusSink.SetStatus(endpoint.StatusErr("Connection already in progress"))
		return liberr.ErrConnectionInProgress.Error()
	}
	defer m.connecting.Store(false)

	m.attempt.Store(0)
	m.cancelFlag.Store(false)

	cfg := m.Config()
	maxRetries := cfg.RetryAttempts
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	attemptTimeout := clampDuration(cfg.TimeoutMs, defaultTimeoutMs)
	baseDelayMs := cfg.RetryDelayMs
	if baseDelayMs <= 0 {
		baseDelayMs = defaultRetryDelayMs
	}

	deadlineCtx, cancelDeadline := context.WithTimeout(ctx, globalDeadline)
	defer cancelDeadline()

	for a := 0; a <= maxRetries; a++ {
		m.attempt.Store(uint32(a))

		if m.cancelFlag.Load() {
			statusSink.SetStatus(endpoint.StatusErr("Connection cancelled"))
			return liberr.ErrConnectionCancelled.Error()
		}
		if deadlineCtx.Err() != nil {
			statusSink.SetStatus(endpoint.StatusTimedOut())
			return liberr.ErrConnectionTimedOut.Error(fmt.Errorf("global connection timeout"))
		}

		if a == 0 {
			statusSink.SetStatus(endpoint.StatusConnecting())
		} else {
			statusSink.SetStatus(endpoint.StatusReconnecting(uint32(a)))
		}

		attemptCtx, cancelAttempt := context.WithTimeout(deadlineCtx, attemptTimeout)
		ep, err := factory(cfg)
		if err == nil {
			err = ep.Connect(attemptCtx)
		}
		cancelAttempt()

		if err == nil {
			m.mu.Lock()
			m.ep = ep
			m.cfg = cfg
			m.mu.Unlock()
			statusSink.SetStatus(endpoint.StatusConnected())
			return nil
		}

		last := a == maxRetries

		if liberr.IsPermanent(err) {
			statusSink.SetStatus(endpoint.StatusErr(err.Error()))
			return err
		}

		if fbEp, fbPort, ok := m.tryPortFallback(deadlineCtx, cfg, factory, err); ok {
			m.mu.Lock()
			m.ep = fbEp
			fbCfg := cfg
			fbCfg.Port = fbPort
			m.cfg = fbCfg
			m.mu.Unlock()
			statusSink.SetStatus(endpoint.StatusConnected())
			return nil
		}

		if isTimeoutErr(err) {
			if last {
				statusSink.SetStatus(endpoint.StatusTimedOut())
				return err
			}
		} else if last {
			statusSink.SetStatus(endpoint.StatusErr("Failed to connect after " + strconv.Itoa(maxRetries+1) + " attempts"))
			return err
		}

		if !m.backoffSleep(deadlineCtx, baseDelayMs, a) {
			statusSink.SetStatus(endpoint.StatusErr("Connection cancelled"))
			return liberr.ErrConnectionCancelled.Error()
		}
	}

	statusSink.SetStatus(endpoint.StatusErr("Failed to connect after " + strconv.Itoa(maxRetries+1) + " attempts"))
	return liberr.ErrConnectionFailed.Error()
}

// backoffSleep waits min(base*2^attempt, 30s) in 100ms slices,
// returning false the moment cancellation or the deadline is observed
// (spec §5 "cancellation observed within one backoff quantum").
func (m *Manager) backoffSleep(ctx context.Context, baseDelayMs int, attempt int) bool {
	delayMs := baseDelayMs << uint(attempt)
	if delayMs <= 0 || delayMs > backoffCapMs {
		delayMs = backoffCapMs
	}
	remaining := time.Duration(delayMs) * time.Millisecond

	for remaining > 0 {
		slice := cancelPollInterval
		if remaining < slice {
			slice = remaining
		}
		timer := time.NewTimer(slice)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return false
		}
		remaining -= slice
		if m.cancelFlag.Load() {
			return false
		}
	}
	return true
}

func isTimeoutErr(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(liberr.Error); ok {
		return e.HasCode(liberr.ErrConnectionTimedOut)
	}
	return false
}

// Cancel requests cooperative cancellation of an in-flight
// ConnectWithRetry call (spec §5 "Cancellation").
func (m *Manager) Cancel() {
	m.cancelFlag.Store(true)
}

// Disconnect sets the cancellation flag (in case a connect is
// in-flight), then disconnects and clears any connected endpoint.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.cancelFlag.Store(true)

	m.mu.Lock()
	ep := m.ep
	m.ep = nil
	m.mu.Unlock()

	if ep == nil {
		return nil
	}
	return ep.Disconnect(ctx)
}

// Endpoint returns the currently connected endpoint, or nil.
func (m *Manager) Endpoint() endpoint.Endpoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ep
}

// IsConnecting reports whether a ConnectWithRetry call is in flight.
func (m *Manager) IsConnecting() bool {
	return m.connecting.Load()
}

// IsConnected delegates to the held endpoint, if any.
func (m *Manager) IsConnected() bool {
	ep := m.Endpoint()
	return ep != nil && ep.IsConnected()
}

// Status returns a diagnostic string; never used for control flow.
func (m *Manager) Status() string {
	ep := m.Endpoint()
	if ep == nil {
		return endpoint.Disconnected.String()
	}
	return ep.Status()
}

// ActualPort delegates to the held endpoint's bound port, if any.
func (m *Manager) ActualPort() (uint16, bool) {
	ep := m.Endpoint()
	if ep == nil {
		return 0, false
	}
	return ep.ActualPort()
}
