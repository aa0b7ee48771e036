package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"recados-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "recados:realtime"

// Message is what a connected session receives.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// clusterMessage travels over redis so that every instance can reach the
// sessions it holds. Origin lets the sender skip its own echo.
type clusterMessage struct {
	Origin   string          `json:"origin"`
	PersonID int64           `json:"person_id"`
	Message  json.RawMessage `json:"message"`
}

type Hub struct {
	// PersonID -> open sessions (multi-device)
	clients map[int64]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client

	// closed once Run returns
	done chan struct{}

	mu sync.RWMutex

	// nil runs the hub single-instance
	rdb    *redis.Client
	origin string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rdb:        rdb,
		origin:     uuid.NewString(),
		logger:     log,
	}
}

// Run serves register/unregister until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.PersonID] == nil {
				h.clients[client.PersonID] = make(map[*Client]struct{})
			}
			h.clients[client.PersonID][client] = struct{}{}
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"person_id": client.PersonID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// attach hands client to the running hub. It reports false once the hub
// has stopped.
func (h *Hub) attach(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) detach(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessions, ok := h.clients[client.PersonID]
	if !ok {
		return
	}
	if _, ok := sessions[client]; !ok {
		return
	}
	delete(sessions, client)
	close(client.Send)
	if len(sessions) == 0 {
		delete(h.clients, client.PersonID)
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"person_id": client.PersonID})
	}
}

// Connected reports how many sessions this instance holds for personID.
func (h *Hub) Connected(personID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[personID])
}

// SendToPerson delivers to every session of personID on this instance and
// publishes to the cluster for the others.
func (h *Hub) SendToPerson(ctx context.Context, personID int64, msgType string, data interface{}) error {
	raw, err := json.Marshal(Message{Type: msgType, Data: data})
	if err != nil {
		return err
	}

	h.deliverLocal(personID, raw)

	if h.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(clusterMessage{Origin: h.origin, PersonID: personID, Message: raw})
	if err != nil {
		return err
	}
	return h.rdb.Publish(ctx, clusterChannel, payload).Err()
}

func (h *Hub) deliverLocal(personID int64, raw []byte) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients[personID] {
		select {
		case client.Send <- raw:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Hub", "Client Send buffer full, dropping session", map[string]interface{}{"person_id": personID})
		h.remove(client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.Origin == h.origin {
			continue
		}
		h.deliverLocal(payload.PersonID, payload.Message)
	}
}
