// internal/driver/modbus/client.go
package modbus

import (
	"errors"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// registerClient is the subset of modbus.Client the driver uses.
type registerClient interface {
	WriteSingleRegister(address, value uint16) ([]byte, error)
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
	ReadInputRegisters(address, quantity uint16) ([]byte, error)
}

// EndpointClient is a single TCP connection to the motor controller board.
// Requests are serialized.
type EndpointClient struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

type EndpointConfig struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
}

func NewEndpointClient(cfg EndpointConfig) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("driver modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, err
	}

	return &EndpointClient{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

func (c *EndpointClient) WriteSingleRegister(addr, v uint16) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client.WriteSingleRegister(addr, v)
}

func (c *EndpointClient) WriteMultipleRegisters(addr, qty uint16, payload []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client.WriteMultipleRegisters(addr, qty, payload)
}

func (c *EndpointClient) ReadInputRegisters(addr, qty uint16) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client.ReadInputRegisters(addr, qty)
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
