// Package telemetry streams simulation steps to websocket clients as JSON
// frames. A Hub is a sim.Observer, so attaching it to a simulator is enough
// to publish every tick.
package telemetry

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/edaniels/golog"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/san-kum/boatsim/internal/boat"
	"github.com/san-kum/boatsim/internal/course"
	"github.com/san-kum/boatsim/internal/guidance"
	"github.com/san-kum/boatsim/internal/sim"
)

const (
	sendBuffer   = 256
	writeTimeout = 5 * time.Second
	pingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Buoy struct {
	Point
	Color string `json:"color"`
}

// Frame is one published tick.
type Frame struct {
	Index    int                `json:"index"`
	Boat     boat.Snapshot      `json:"boat"`
	Hull     [4]Point           `json:"hull"`
	Linear   float64            `json:"linear"`
	Angular  float64            `json:"angular"`
	Progress int                `json:"progress"`
	Done     bool               `json:"done"`
	Manual   bool               `json:"manual"`
	Buoys    []Buoy             `json:"buoys,omitempty"`
	Guidance guidance.Telemetry `json:"guidance"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type Hub struct {
	logger golog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	buoys   []Buoy
	every   int
	count   int
}

type Option func(*Hub)

func WithLogger(l golog.Logger) Option {
	return func(h *Hub) { h.logger = l }
}

// WithDecimation publishes only every n-th step.
func WithDecimation(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.every = n
		}
	}
}

func NewHub(opts ...Option) *Hub {
	h := &Hub{
		logger:  zap.NewNop().Sugar(),
		clients: make(map[*client]struct{}),
		every:   1,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SetGate attaches the gate buoys to every following frame.
func (h *Hub) SetGate(g course.Gate) {
	buoys := make([]Buoy, 0, len(g.Buoys))
	for _, b := range g.Buoys {
		buoys = append(buoys, Buoy{Point: Point{b.Position.X, b.Position.Y}, Color: b.Color.String()})
	}
	h.mu.Lock()
	h.buoys = buoys
	h.mu.Unlock()
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// OnStep implements sim.Observer.
func (h *Hub) OnStep(st sim.Step) {
	h.mu.Lock()
	h.count++
	skip := (h.count-1)%h.every != 0 || len(h.clients) == 0
	buoys := h.buoys
	h.mu.Unlock()
	if skip {
		return
	}

	f := Frame{
		Index:    st.Index,
		Boat:     st.Snapshot,
		Linear:   st.Linear,
		Angular:  st.Angular,
		Progress: st.Progress,
		Done:     st.Done,
		Manual:   st.Manual,
		Buoys:    buoys,
		Guidance: st.Telemetry,
	}
	for i, c := range st.Corners {
		f.Hull[i] = Point{c.X, c.Y}
	}

	msg, err := json.Marshal(f)
	if err != nil {
		h.logger.Errorw("marshal frame", "error", err)
		return
	}
	h.broadcast(msg)
}

func (h *Hub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warnw("dropping slow client", "remote", c.conn.RemoteAddr().String())
			h.drop(c)
		}
	}
}

// drop must be called with mu held.
func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Infow("client connected", "remote", r.RemoteAddr)

	go h.readLoop(c)
	go h.writeLoop(c)
}

// readLoop discards inbound messages and unregisters the client once the
// connection fails.
func (h *Hub) readLoop(c *client) {
	defer func() {
		h.mu.Lock()
		h.drop(c)
		h.mu.Unlock()
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.logger.Debugw("client disconnected", "error", err)
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.drop(c)
	}
}
