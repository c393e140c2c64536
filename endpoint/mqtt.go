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

package endpoint

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	liberr "github/sabouaram/netsession/errors"
)

const defaultMqttKeepAliveSec = 30

// mqttClient is the MqttClient variant (spec §4.1/Mqtt extension):
// opens a broker connection with 30 s keep-alive and optional
// credentials; the receive task dispatches Publish packets as message
// events with topic/qos/retain populated; connection close terminates
// the task.
type mqttClient struct {
	cfg  Config
	sink EventSink

	cli mqtt.Client

	mu   sync.Mutex
	subs map[string]bool

	connected atomic.Bool
	actual    atomic.Uint32
}

func newMqttClient(cfg Config, sink EventSink) (Endpoint, error) {
	c := &mqttClient{cfg: cfg, sink: sink, subs: make(map[string]bool)}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Address()))
	opts.SetClientID(cfg.Mqtt.ClientID)
	opts.SetCleanSession(cfg.Mqtt.CleanSession)
	opts.SetAutoReconnect(false)

	keepAlive := cfg.Mqtt.KeepAliveSec
	if keepAlive <= 0 {
		keepAlive = defaultMqttKeepAliveSec
	}
	opts.SetKeepAlive(time.Duration(keepAlive) * time.Second)

	if cfg.Mqtt.Username != "" {
		opts.SetUsername(cfg.Mqtt.Username)
		opts.SetPassword(cfg.Mqtt.Password)
	}
	if cfg.Mqtt.WillTopic != "" {
		opts.SetWill(cfg.Mqtt.WillTopic, cfg.Mqtt.WillPayload, cfg.Mqtt.WillQoS, cfg.Mqtt.WillRetain)
	}

	opts.SetDefaultPublishHandler(func(_ mqtt.Client, msg mqtt.Message) {
		ev := NetworkEvent{
			Type:       EventMessage,
			Bytes:      msg.Payload(),
			MqttTopic:  msg.Topic(),
			MqttQoS:    msg.Qos(),
			MqttRetain: msg.Retained(),
		}
		if c.sink != nil {
			c.sink.Emit(ev)
		}
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		c.connected.Store(false)
		if c.sink != nil {
			c.sink.Emit(NetworkEvent{Type: EventDisconnected, Err: err})
		}
	})

	c.cli = mqtt.NewClient(opts)
	return c, nil
}

func (c *mqttClient) Connect(ctx context.Context) error {
	if c.connected.Load() {
		return nil
	}

	token := c.cli.Connect()
	if ok := token.WaitTimeout(connectTimeout(c.cfg)); !ok {
		return liberr.ErrConnectionTimedOut.Error()
	}
	if err := token.Error(); err != nil {
		return classifyConnectErr(err, c.cfg.Port)
	}

	c.connected.Store(true)
	c.actual.Store(uint32(c.cfg.Port))
	if c.sink != nil {
		c.sink.Emit(NetworkEvent{Type: EventConnected})
	}
	return nil
}

func connectTimeout(cfg Config) time.Duration {
	if cfg.TimeoutMs > 0 {
		return time.Duration(cfg.TimeoutMs) * time.Millisecond
	}
	return 30 * time.Second
}

func (c *mqttClient) Disconnect(ctx context.Context) error {
	if !c.connected.Load() {
		return nil
	}
	c.connected.Store(false)
	c.cli.Disconnect(250)
	if c.sink != nil {
		c.sink.Emit(NetworkEvent{Type: EventDisconnected})
	}
	return nil
}

// Send is unsupported for Mqtt - callers use Publish (spec §4.1 Modbus
// rule applied by analogy: a topic-less raw send has no meaning here).
func (c *mqttClient) Send(ctx context.Context, data []byte) (int, error) {
	return 0, liberr.ErrSendFailed.Error(fmt.Errorf("mqtt endpoint requires Publish(topic, payload, qos, retain)"))
}

func (c *mqttClient) IsConnected() bool { return c.connected.Load() }

func (c *mqttClient) Status() string {
	if c.connected.Load() {
		return fmt.Sprintf("mqtt client connected to %s", c.cfg.Address())
	}
	return fmt.Sprintf("mqtt client not connected (broker %s)", c.cfg.Address())
}

func (c *mqttClient) ActualPort() (uint16, bool) {
	if !c.connected.Load() {
		return 0, false
	}
	return uint16(c.actual.Load()), true
}

// StartReceiving is a no-op source of events for Mqtt: messages are
// already dispatched to the sink via the default publish handler,
// since paho has no blocking read loop to drive ourselves.
func (c *mqttClient) StartReceiving(ctx context.Context) (<-chan NetworkEvent, error) {
	out := make(chan NetworkEvent)
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out, nil
}

// Subscribe/Unsubscribe/Publish/Subscriptions implement MqttEndpoint
// (spec §4.1 Mqtt extension). QoS values outside {0,1,2} coerce to 0.
func (c *mqttClient) Subscribe(topic string, qos byte) error {
	if qos > 2 {
		qos = 0
	}
	token := c.cli.Subscribe(topic, qos, nil)
	token.Wait()
	if err := token.Error(); err != nil {
		return liberr.ErrSendFailed.Error(err)
	}
	c.mu.Lock()
	c.subs[topic] = true
	c.mu.Unlock()
	return nil
}

func (c *mqttClient) Unsubscribe(topic string) error {
	token := c.cli.Unsubscribe(topic)
	token.Wait()
	if err := token.Error(); err != nil {
		return liberr.ErrSendFailed.Error(err)
	}
	c.mu.Lock()
	delete(c.subs, topic)
	c.mu.Unlock()
	return nil
}

func (c *mqttClient) Publish(topic string, payload []byte, qos byte, retain bool) error {
	if qos > 2 {
		qos = 0
	}
	token := c.cli.Publish(topic, qos, retain, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return liberr.ErrSendFailed.Error(err)
	}
	return nil
}

func (c *mqttClient) Subscriptions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, len(c.subs))
	for t := range c.subs {
		out = append(out, t)
	}
	return out
}
