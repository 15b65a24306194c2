package transport

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"star-duel/internal/mathx"
	"star-duel/internal/sim"
)

const writeTimeout = 5 * time.Second

// Client is the persistent WebSocket connection to the arena server.
// Inbound messages are decoded on the read goroutine but applied through
// Post, so sink handlers run to completion between simulation ticks.
// Client implements sim.Outbound for the session's periodic sends.
type Client struct {
	conn *websocket.Conn

	sink    sim.EventSink
	post    func(func())
	welcome func(id string)
	offline func()

	writeMu sync.Mutex
	started atomic.Bool
	closed  atomic.Bool
	done    chan struct{}
}

// Options wires the client to the session.
type Options struct {
	// Sink receives decoded events; its methods run inside closures
	// delivered through Post.
	Sink sim.EventSink
	// Post enqueues onto the simulation inbox.
	Post func(func())
	// OnWelcome receives the server-assigned local player id.
	OnWelcome func(id string)
	// OnOffline fires once when the connection drops.
	OnOffline func()
}

// Dial connects and starts the read loop.
func Dial(url string, opts Options) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	log.Printf("📡 Connected to %s", url)
	c := NewClient(conn, opts)
	c.Start()
	return c, nil
}

// NewClient wraps an established connection without starting the read
// loop; tests drive Dispatch directly instead.
func NewClient(conn *websocket.Conn, opts Options) *Client {
	return &Client{
		conn:    conn,
		sink:    opts.Sink,
		post:    opts.Post,
		welcome: opts.OnWelcome,
		offline: opts.OnOffline,
		done:    make(chan struct{}),
	}
}

// Start launches the read loop goroutine. Safe to call once.
func (c *Client) Start() {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	go c.readLoop()
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		var env Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if !c.closed.Load() {
				log.Printf("📡 Connection lost: %v", err)
			}
			break
		}
		c.post(func() {
			if err := Dispatch(env, c.sink, c.welcome); err != nil {
				log.Printf("⚠️ Dropping malformed %s event: %v", env.Event, err)
			}
		})
	}
	c.closed.Store(true)
	c.conn.Close()
	if c.offline != nil {
		c.offline()
	}
}

// SendUpdate implements sim.Outbound.
func (c *Client) SendUpdate(position, rotation, velocity mathx.Vec3) error {
	return c.send(EventUpdate, updatePayload{
		Position: position,
		Rotation: rotation,
		Velocity: velocity,
	})
}

// SendFire implements sim.Outbound.
func (c *Client) SendFire(position, velocity mathx.Vec3) error {
	return c.send(EventFire, firePayload{
		Position: position,
		Velocity: velocity,
	})
}

func (c *Client) send(event string, payload any) error {
	if c.closed.Load() {
		return nil // offline: sends are suppressed, not errors
	}
	data, err := marshalEnvelope(event, payload)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Close shuts the connection down and waits for the read loop, if it was
// started, to exit.
func (c *Client) Close() {
	c.closed.Store(true)
	c.conn.Close()
	if c.started.Load() {
		<-c.done
	}
}
