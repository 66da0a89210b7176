package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ProgramFactory/internal/codec"
	"github.com/GriffinCanCode/ProgramFactory/internal/domain/dispatch"
	"github.com/GriffinCanCode/ProgramFactory/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

const (
	sendBuffer   = 32
	writeTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var _ dispatch.Observer = (*Hub)(nil)

// ConnCounter tracks open connections
type ConnCounter interface {
	IncWSConnections()
	DecWSConnections()
}

// Message is one frame sent to clients
type Message struct {
	Type      string          `json:"type"`
	Event     json.RawMessage `json:"event,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub fans factory events out to connected clients
type Hub struct {
	logger  *zap.Logger
	counter ConnCounter

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates a hub. Counter may be nil.
func NewHub(logger *zap.Logger, counter ConnCounter) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:  logger.Named(logging.ComponentEvents),
		counter: counter,
		clients: make(map[*client]struct{}),
	}
}

// CommandHandled broadcasts the event of a successful command
func (h *Hub) CommandHandled(cmd dispatch.Command) {
	if !cmd.Result.IsOk() {
		return
	}
	event, err := codec.EncodeEvent(cmd.Result.Event)
	if err != nil {
		h.logger.Error("Failed to encode event", zap.Error(err))
		return
	}
	frame, err := codec.Marshal(Message{Type: "event", Event: event, Timestamp: time.Now().Unix()})
	if err != nil {
		h.logger.Error("Failed to encode frame", zap.Error(err))
		return
	}
	h.broadcast(frame)
}

// QueryServed is a no-op; queries produce no events
func (h *Hub) QueryServed(types.Query, time.Duration) {}

func (h *Hub) broadcast(frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			h.logger.Warn("Dropping slow event client", zap.String("remote", c.conn.RemoteAddr().String()))
			h.removeLocked(c)
		}
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	if h.counter != nil {
		h.counter.IncWSConnections()
	}
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.close()
	if h.counter != nil {
		h.counter.DecWSConnections()
	}
}

// HandleConnection upgrades the request and streams events until the
// client goes away
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.add(cl) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}
	h.logger.Debug("Event client connected", zap.String("remote", conn.RemoteAddr().String()))

	go h.writeLoop(cl)
	h.readLoop(cl)
}

func (h *Hub) readLoop(cl *client) {
	defer h.remove(cl)
	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			return
		}
		if string(data) == "ping" {
			pong, _ := codec.Marshal(Message{Type: "pong"})
			h.mu.Lock()
			if _, ok := h.clients[cl]; ok {
				select {
				case cl.send <- pong:
				default:
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) writeLoop(cl *client) {
	defer cl.conn.Close()
	for frame := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := cl.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			h.logger.Debug("Event client write failed", zap.Error(err))
			h.remove(cl)
			break
		}
	}
	_ = cl.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
