// internal/poller/modbus/client.go
package modbus

import (
	"errors"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// Client implements poller.Client using Modbus TCP.
// This adapter is geometry-only: it issues reads and unpacks raw responses.
type Client struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

// Config is minimal transport config.
type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
}

// New creates a connected Modbus TCP client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus client: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, err
	}

	return &Client{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

// Close closes the TCP connection.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// ---- poller.Client interface ----

func (c *Client) ReadCoils(addr, qty uint16) ([]bool, error) {
	return c.readBits(c.client.ReadCoils, addr, qty)
}

func (c *Client) ReadDiscreteInputs(addr, qty uint16) ([]bool, error) {
	return c.readBits(c.client.ReadDiscreteInputs, addr, qty)
}

func (c *Client) ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) {
	return c.readRegisters(c.client.ReadHoldingRegisters, addr, qty)
}

func (c *Client) ReadInputRegisters(addr, qty uint16) ([]uint16, error) {
	return c.readRegisters(c.client.ReadInputRegisters, addr, qty)
}

type readFunc func(addr, qty uint16) ([]byte, error)

func (c *Client) readBits(fn readFunc, addr, qty uint16) ([]bool, error) {
	if qty == 0 {
		return nil, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := fn(addr, qty)
	if err != nil {
		return nil, err
	}
	if len(data) < (int(qty)+7)/8 {
		return nil, errors.New("modbus: read-bits payload shorter than quantity")
	}
	return UnpackBits(data, int(qty)), nil
}

func (c *Client) readRegisters(fn readFunc, addr, qty uint16) ([]uint16, error) {
	if qty == 0 {
		return nil, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := fn(addr, qty)
	if err != nil {
		return nil, err
	}
	if len(data)%2 != 0 {
		return nil, errors.New("modbus: read-registers byte count not even")
	}
	if len(data) < 2*int(qty) {
		return nil, errors.New("modbus: read-registers payload shorter than quantity")
	}
	return UnpackRegisters(data), nil
}

// ---- helpers (pure geometry) ----

func UnpackBits(data []byte, count int) []bool {
	out := make([]bool, count)
	for i := 0; i < count; i++ {
		byteIdx := i / 8
		bitIdx := i % 8
		if byteIdx >= len(data) {
			continue
		}
		out[i] = data[byteIdx]&(1<<bitIdx) != 0
	}
	return out
}

func UnpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
