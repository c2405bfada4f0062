// Package live maintains the WebSocket connections to the tracker server:
// the update channel (change notifications driving re-fetch) and the
// presence channel (who else is looking at the board). Both reconnect
// automatically; consumers observe connectivity through a Store rather
// than handling transport errors themselves.
package live

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/klondike-tools/dash/pkg/store"
)

// State is the connection lifecycle of a channel.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateOpen         State = "open"
)

// Options tunes reconnect behavior. Zero values fall back to defaults.
type Options struct {
	// BaseDelay is the first retry delay after a failed connect or a drop.
	BaseDelay time.Duration
	// MaxDelay caps the exponential backoff.
	MaxDelay time.Duration
	// Hello, when non-nil, is JSON-encoded and sent immediately after
	// every successful connect.
	Hello interface{}
}

const (
	defaultBaseDelay = time.Second
	defaultMaxDelay  = 30 * time.Second
)

// Channel is a self-reconnecting WebSocket reader. Inbound text frames are
// handed to the onFrame callback; connectivity transitions are published on
// the Connected and State stores.
type Channel struct {
	url     string
	log     *logrus.Entry
	opts    Options
	onFrame func([]byte)

	// Connected flips false the moment the socket drops and true once a
	// dial succeeds; views render the connectivity indicator from it.
	Connected *store.Store[bool]
	// ConnState carries the finer-grained lifecycle for logging and the
	// status bar.
	ConnState *store.Store[State]

	dialer *websocket.Dialer

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

// NewChannel creates a channel for the given ws:// URL. Run must be called
// to start it.
func NewChannel(url string, log *logrus.Entry, opts Options, onFrame func([]byte)) *Channel {
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = defaultBaseDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = defaultMaxDelay
	}
	return &Channel{
		url:       url,
		log:       log,
		opts:      opts,
		onFrame:   onFrame,
		Connected: store.New(false),
		ConnState: store.New(StateDisconnected),
		dialer:    websocket.DefaultDialer,
	}
}

// Run connects and keeps reconnecting until ctx is cancelled or Close is
// called. It blocks; callers run it on its own goroutine.
func (c *Channel) Run(ctx context.Context) {
	delay := c.opts.BaseDelay
	for {
		if ctx.Err() != nil || c.isClosed() {
			return
		}

		c.ConnState.Set(StateConnecting)
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			c.ConnState.Set(StateDisconnected)
			c.log.WithError(err).Debug("websocket dial failed")
			if !c.sleep(ctx, delay) {
				return
			}
			delay = nextDelay(delay, c.opts.MaxDelay)
			continue
		}

		c.setConn(conn)
		if c.isClosed() {
			conn.Close()
			return
		}

		c.ConnState.Set(StateOpen)
		c.Connected.Set(true)
		delay = c.opts.BaseDelay

		if c.opts.Hello != nil {
			if err := c.Send(c.opts.Hello); err != nil {
				c.log.WithError(err).Debug("failed to send hello")
			}
		}

		c.readLoop(conn)

		c.setConn(nil)
		c.Connected.Set(false)
		c.ConnState.Set(StateDisconnected)

		if !c.sleep(ctx, delay) {
			return
		}
		delay = nextDelay(delay, c.opts.MaxDelay)
	}
}

// readLoop pumps frames until the connection errors out.
func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.log.WithError(err).Debug("websocket read ended")
			return
		}
		if c.onFrame != nil {
			c.onFrame(data)
		}
	}
}

// Send JSON-encodes v onto the socket. Returns an error when disconnected.
func (c *Channel) Send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return websocket.ErrCloseSent
	}
	return c.conn.WriteJSON(v)
}

// Close tears the channel down permanently.
func (c *Channel) Close() {
	c.mu.Lock()
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

func (c *Channel) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

func (c *Channel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// sleep waits for d plus jitter, returning false if ctx ended first.
func (c *Channel) sleep(ctx context.Context, d time.Duration) bool {
	jittered := d + time.Duration(rand.Int63n(int64(d)/2+1))
	timer := time.NewTimer(jittered)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return !c.isClosed()
	}
}

func nextDelay(d, max time.Duration) time.Duration {
	d *= 2
	if d > max {
		return max
	}
	return d
}
