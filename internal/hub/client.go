package hub

import (
	"sync"
)

// Conn pushes bytes to one peer. Send must not block indefinitely; the
// websocket layer backs it with a buffered channel and reports a full
// buffer as an error.
type Conn interface {
	Send(data []byte) error
	Close() error
}

// ConnState is the lifecycle position of one client.
type ConnState int

const (
	StateConnecting ConnState = iota
	StateOpen
	StateClosing
	StateClosed
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Client is one registered connection.
type Client struct {
	ID   string
	conn Conn

	mu         sync.RWMutex
	state      ConnState
	deviceInfo map[string]any
}

// State returns the client's current lifecycle state.
func (c *Client) State() ConnState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// DeviceInfo returns metadata attached via device_registration, or nil.
func (c *Client) DeviceInfo() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.deviceInfo == nil {
		return nil
	}
	info := make(map[string]any, len(c.deviceInfo))
	for k, v := range c.deviceInfo {
		info[k] = v
	}
	return info
}

func (c *Client) setState(s ConnState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// transition moves to next only if the client is currently in one of from.
// Reports whether the move happened.
func (c *Client) transition(next ConnState, from ...ConnState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range from {
		if c.state == s {
			c.state = next
			return true
		}
	}
	return false
}

func (c *Client) setDeviceInfo(info map[string]any) {
	c.mu.Lock()
	c.deviceInfo = info
	c.mu.Unlock()
}
