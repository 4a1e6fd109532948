package server

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 8192

	// sendBufferSize bounds each connection's outbound queue. A recipient
	// that can't keep up is dropped rather than allowed to stall the
	// coordinator goroutine that owns the hand.
	sendBufferSize = 64
)

// inboundFrame pairs a raw inbound frame with the connection it arrived
// on, so the coordinator goroutine can process every connection's traffic
// through a single channel without losing the sender's identity.
type inboundFrame struct {
	conn *Conn
	data []byte
}

// Conn wraps one WebSocket connection's read/write pumps. It does not
// interpret frame contents; it only moves bytes, so all game-state
// decisions are serialized through the coordinator goroutine that reads
// from inbound.
type Conn struct {
	ws     *websocket.Conn
	send   chan []byte
	logger zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.RWMutex
	seat int // -1 until the coordinator assigns one at join time
	name string

	closeOnce sync.Once
}

// NewConn wraps ws and starts its read/write pumps. Every frame read off
// ws is forwarded to inbound tagged with this Conn. The pump pair is
// supervised by an errgroup so that either goroutine exiting (cleanly or
// via panic recovery upstream) tears the whole connection down.
func NewConn(ws *websocket.Conn, logger zerolog.Logger, inbound chan<- inboundFrame) *Conn {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Conn{
		ws:     ws,
		send:   make(chan []byte, sendBufferSize),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		seat:   -1,
	}

	group, _ := errgroup.WithContext(ctx)
	group.Go(func() error {
		c.writePump()
		return nil
	})
	group.Go(func() error {
		c.readPump(inbound)
		return nil
	})
	go func() {
		_ = group.Wait()
		_ = c.Close()
	}()

	return c
}

// Seat returns the seat this connection has been assigned, or -1 before
// join completes.
func (c *Conn) Seat() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seat
}

// SetSeat records the seat the coordinator assigned this connection at
// join time.
func (c *Conn) SetSeat(seat int, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seat = seat
	c.name = name
}

// Name returns the registered bot name, empty before join completes.
func (c *Conn) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// Done reports whether this connection's context has been canceled.
func (c *Conn) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close tears down the connection. Safe to call more than once. Frames
// already queued by Send are still written: writePump drains the queue,
// sends a close frame, and then closes the socket.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
	})
	return nil
}

// Send enqueues a pre-encoded frame. If the outbound queue is full, the
// connection is dropped rather than backpressuring the caller.
func (c *Conn) Send(data []byte) {
	defer func() {
		// The send channel may already be closed by a concurrent Close.
		recover()
	}()

	select {
	case c.send <- data:
	case <-c.ctx.Done():
	default:
		c.logger.Warn().Msg("outbound queue full, dropping connection")
		_ = c.Close()
		_ = c.ws.Close()
	}
}

func (c *Conn) readPump(inbound chan<- inboundFrame) {
	defer func() { _ = c.Close() }()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug().Err(err).Msg("websocket read error")
			}
			return
		}

		select {
		case inbound <- inboundFrame{conn: c, data: data}:
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Debug().Err(err).Msg("websocket write error")
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
