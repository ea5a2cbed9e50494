// Package stream serves a lab session over WebSocket. A single goroutine
// owns the session: it ticks the engine, applies client commands in arrival
// order and broadcasts frames.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"phase-lab/internal/core"
	"phase-lab/internal/lab"

	"github.com/gorilla/websocket"
)

const (
	sendBuffer   = 8
	writeTimeout = 5 * time.Second
	maxMessage   = 4096
)

// Options tunes a Hub.
type Options struct {
	// TPS is the engine tick rate.
	TPS int
	// FrameEvery broadcasts a frame every n ticks.
	FrameEvery int
	Logger     *log.Logger
}

// Hub fans frames out to connected clients and funnels their commands into
// the session loop.
type Hub struct {
	session  *lab.Session
	logger   *log.Logger
	timer    *core.FixedStep
	every    int
	upgrader websocket.Upgrader

	commands   chan envelope
	register   chan *client
	unregister chan *client
	done       chan struct{}

	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type envelope struct {
	from *client
	cmd  Command
	err  error
}

// NewHub wraps session. The session must not be touched by other goroutines
// once Run has started.
func NewHub(session *lab.Session, opts Options) *Hub {
	if opts.FrameEvery <= 0 {
		opts.FrameEvery = 1
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	return &Hub{
		session: session,
		logger:  opts.Logger,
		timer:   core.NewFixedStep(opts.TPS),
		every:   opts.FrameEvery,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		commands:   make(chan envelope, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		clients:    map[*client]struct{}{},
	}
}

// Run drives the session until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.timer.Interval())
	defer ticker.Stop()
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Printf("client connected (%d total)", len(h.clients))
			h.deliver(c, h.frame())
		case c := <-h.unregister:
			h.drop(c)
		case env := <-h.commands:
			err := env.err
			if err == nil {
				err = env.cmd.Apply(h.session)
			}
			if err != nil {
				h.logger.Printf("command %q: %v", env.cmd.Type, err)
				if _, ok := h.clients[env.from]; ok {
					h.deliver(env.from, encodeError(err))
				}
				continue
			}
			if !h.session.Running() {
				h.broadcast()
			}
		case <-ticker.C:
			if !h.timer.ShouldStep() {
				continue
			}
			h.session.Step()
			if h.session.Frames()%h.every == 0 {
				h.broadcast()
			}
		}
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	for c := range h.clients {
		h.drop(c)
	}
}

func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.logger.Printf("client disconnected (%d left)", len(h.clients))
}

func (h *Hub) frame() []byte {
	b, err := json.Marshal(snapshot(h.session))
	if err != nil {
		h.logger.Printf("encode frame: %v", err)
		return nil
	}
	return b
}

func (h *Hub) broadcast() {
	if len(h.clients) == 0 {
		return
	}
	msg := h.frame()
	for c := range h.clients {
		h.deliver(c, msg)
	}
}

// deliver queues msg for c, dropping it when the client is behind.
func (h *Hub) deliver(c *client, msg []byte) {
	if msg == nil {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

// ServeHTTP upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()
	c.conn.SetReadLimit(maxMessage)
	for {
		env := envelope{from: c}
		if err := c.conn.ReadJSON(&env.cmd); err != nil {
			var syntax *json.SyntaxError
			var typ *json.UnmarshalTypeError
			if !errors.As(err, &syntax) && !errors.As(err, &typ) {
				return
			}
			env.err = fmt.Errorf("malformed command: %w", err)
		}
		select {
		case h.commands <- env:
		case <-h.done:
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Printf("write: %v", err)
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeTimeout))
}
