// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"cms-admin/internal/pkg/session"
)

// EventType represents different real-time event types
type EventType string

const (
	// Connection events
	EventTypePing      EventType = "ping"
	EventTypePong      EventType = "pong"
	EventTypeConnected EventType = "connected"
	EventTypeError     EventType = "error"

	// Session events (server -> client)
	EventTypeSessionState EventType = "session:state"

	// System events (server -> client)
	EventTypeSystemShutdown EventType = "system:shutdown"

	// Subscription events
	EventTypeSubscribe   EventType = "subscribe"
	EventTypeUnsubscribe EventType = "unsubscribe"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ChannelType names a stream of events a client can subscribe to.
type ChannelType string

const (
	ChannelSession ChannelType = "session"
	ChannelSystem  ChannelType = "system"
)

// Known reports whether c is a channel the server publishes on.
func (c ChannelType) Known() bool {
	return c == ChannelSession || c == ChannelSystem
}

// SubscribeRequest sent by client to subscribe to specific channels
type SubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// UnsubscribeRequest sent by client to unsubscribe from channels
type UnsubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// ErrorData for error events
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SessionStateData mirrors the console session. The token is never sent.
type SessionStateData = session.View

// NewMessage creates a new WebSocket message
func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// ToJSON converts message to JSON bytes
func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses JSON bytes into WSMessage
func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("message has no type")
	}
	return &msg, nil
}
