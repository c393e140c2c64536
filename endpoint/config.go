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
	"fmt"
	"strconv"

	liberr "github/sabouaram/netsession/errors"
)

// WsConfig carries the WebSocket-specific extension fields (spec §3).
type WsConfig struct {
	Subprotocol    string `json:"subprotocol,omitempty"`
	Compression    bool   `json:"compression,omitempty"`
	PingIntervalMs int    `json:"ping_interval_ms,omitempty"`
}

// MqttConfig carries the MQTT-specific extension fields (spec §3).
type MqttConfig struct {
	ClientID     string `json:"client_id"`
	Username     string `json:"username,omitempty"`
	Password     string `json:"password,omitempty"`
	CleanSession bool   `json:"clean_session,omitempty"`
	KeepAliveSec int    `json:"keep_alive_sec,omitempty"`
	WillTopic    string `json:"will_topic,omitempty"`
	WillPayload  string `json:"will_payload,omitempty"`
	WillQoS      byte   `json:"will_qos,omitempty"`
	WillRetain   bool   `json:"will_retain,omitempty"`
}

// SseConfig carries the SSE-specific extension fields (spec §3).
type SseConfig struct {
	EventTypes []string `json:"event_types,omitempty"`
	RetryMs    int      `json:"retry_ms,omitempty"`
	Path       string   `json:"path,omitempty"`
}

// ModbusConfig carries the Modbus-specific extension fields (spec §3).
type ModbusConfig struct {
	UnitID       byte   `json:"unit_id,omitempty"`
	SerialDevice string `json:"serial_device,omitempty"`
	BaudRate     int    `json:"baud_rate,omitempty"`
	DataBits     int    `json:"data_bits,omitempty"`
	Parity       string `json:"parity,omitempty"`
	StopBits     int    `json:"stop_bits,omitempty"`
}

// Config is the wire/in-process shape of spec §3's SessionConfig: one
// struct covering every protocol, with the protocol-specific fields
// left nil/zero for protocols that don't use them.
type Config struct {
	Protocol Protocol `json:"protocol"`
	Role     Role     `json:"role"`
	Host     string   `json:"host"`
	Port     uint16   `json:"port"`

	TimeoutMs     int  `json:"timeout_ms,omitempty"`
	KeepAlive     bool `json:"keep_alive,omitempty"`
	RetryAttempts int  `json:"retry_attempts,omitempty"`
	RetryDelayMs  int  `json:"retry_delay_ms,omitempty"`

	Ws     *WsConfig     `json:"ws,omitempty"`
	Mqtt   *MqttConfig   `json:"mqtt,omitempty"`
	Sse    *SseConfig    `json:"sse,omitempty"`
	Modbus *ModbusConfig `json:"modbus,omitempty"`
}

// Address returns the "host:port" pair used to dial or bind.
func (c Config) Address() string {
	return c.Host + ":" + strconv.Itoa(int(c.Port))
}

// Validate checks the invariants named in spec §3: port range and
// protocol-required fields present.
func (c Config) Validate() error {
	switch c.Protocol {
	case ProtocolTcp, ProtocolUdp, ProtocolWebSocket, ProtocolMqtt, ProtocolSse, ProtocolModbusTcp, ProtocolModbusRtu:
	default:
		return liberr.ErrInvalidConfig.Error(fmt.Errorf("unsupported protocol %q", c.Protocol))
	}

	switch c.Role {
	case RoleClient, RoleServer:
	default:
		return liberr.ErrInvalidConfig.Error(fmt.Errorf("unsupported role %q", c.Role))
	}

	if c.Protocol != ProtocolModbusRtu {
		if c.Port < 1 || c.Port > 65535 {
			return liberr.ErrInvalidConfig.Error(fmt.Errorf("port out of range [1,65535]: %d", c.Port))
		}
		if c.Host == "" {
			return liberr.ErrInvalidConfig.Error(fmt.Errorf("missing required field: host"))
		}
	}

	switch c.Protocol {
	case ProtocolMqtt:
		if c.Role == RoleServer {
			return liberr.ErrInvalidConfig.Error(fmt.Errorf("mqtt server role is not supported"))
		}
		if c.Mqtt == nil || c.Mqtt.ClientID == "" {
			return liberr.ErrInvalidConfig.Error(fmt.Errorf("missing required field: mqtt.client_id"))
		}
	case ProtocolSse:
		if c.Role == RoleServer {
			return liberr.ErrInvalidConfig.Error(fmt.Errorf("sse server role is not supported"))
		}
	case ProtocolModbusRtu:
		if c.Modbus == nil || c.Modbus.SerialDevice == "" {
			return liberr.ErrInvalidConfig.Error(fmt.Errorf("missing required field: modbus.serial_device"))
		}
		if c.Role == RoleServer {
			return liberr.ErrInvalidConfig.Error(fmt.Errorf("modbus-rtu server role is not supported"))
		}
	}

	return nil
}
