package sse

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const (
	DefaultBufferSize        = 16
	DefaultWriteTimeout      = 5 * time.Second
	DefaultHeartbeatInterval = 30 * time.Second
)

// ClientConfig tunes per-connection behaviour. Zero values fall back to the
// defaults above.
type ClientConfig struct {
	BufferSize        int
	WriteTimeout      time.Duration
	HeartbeatInterval time.Duration
	Clock             clockwork.Clock
}

func (c ClientConfig) withDefaults() ClientConfig {
	if c.BufferSize <= 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	return c
}

// Client is a Subscriber backed by one streaming HTTP response.
type Client struct {
	id         string
	writer     http.ResponseWriter
	controller *http.ResponseController
	cfg        ClientConfig

	sendChannel chan []byte
	doneChannel chan struct{}
	closeOnce   sync.Once
}

func NewClient(w http.ResponseWriter, cfg ClientConfig) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		id:          uuid.NewString(),
		writer:      w,
		controller:  http.NewResponseController(w),
		cfg:         cfg,
		sendChannel: make(chan []byte, cfg.BufferSize),
		doneChannel: make(chan struct{}),
	}
}

func (c *Client) ID() string { return c.id }

// Send queues frame for the writer loop without blocking.
func (c *Client) Send(frame []byte) error {
	select {
	case <-c.doneChannel:
		return ErrClientClosed
	default:
	}

	select {
	case c.sendChannel <- frame:
		return nil
	default:
		return ErrClientSlow
	}
}

// Close stops the writer loop. Queued frames are dropped.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.doneChannel) })
}

// Done is closed once Close has been called.
func (c *Client) Done() <-chan struct{} { return c.doneChannel }

// Run writes queued frames and heartbeats until ctx ends, Close is called,
// or a write fails. It must be the only goroutine writing to the response.
func (c *Client) Run(ctx context.Context) error {
	ticker := c.cfg.Clock.NewTicker(c.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.doneChannel:
			return nil
		case frame := <-c.sendChannel:
			if err := c.write(frame); err != nil {
				return err
			}
		case <-ticker.Chan():
			if err := c.write(pingFrame); err != nil {
				return fmt.Errorf("heartbeat: %w", err)
			}
		}
	}
}

// write sends one frame with a wall-clock deadline and flushes it. Writers
// that cannot take a deadline (recorders, some proxies) are written without.
func (c *Client) write(frame []byte) error {
	err := c.controller.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	if err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}

	if _, err := c.writer.Write(frame); err != nil {
		return err
	}
	if err := c.controller.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}
