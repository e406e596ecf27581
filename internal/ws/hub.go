package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/fme-backend/internal/goroutine"
	"github.com/ignatzorin/fme-backend/internal/logger"
)

// Event — сообщение ленты онбординга для дашборда.
type Event struct {
	Type       string    `json:"type"`
	Data       any       `json:"data"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Hub рассылает события онбординга подключённым администраторам.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// Run запускает главный цикл хаба до отмены ctx.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case payload := <-h.broadcast:
			h.sendAll(payload)
		}
	}
}

// Register добавляет клиента. После остановки хаба клиент сразу закрывается.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.closeSend()
	}
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish ставит событие в очередь рассылки. Если очередь заполнена, событие
// отбрасывается: лента не должна тормозить процесс верификации.
func (h *Hub) Publish(event string, data any) {
	raw, err := json.Marshal(Event{Type: event, Data: data, OccurredAt: time.Now().UTC()})
	if err != nil {
		logWarn(logrus.Fields{"event": event, "error": err.Error()}, "ws: не удалось сериализовать событие")
		return
	}

	select {
	case h.broadcast <- raw:
	default:
		logWarn(logrus.Fields{"event": event}, "ws: очередь событий переполнена, событие отброшено")
	}
}

// ClientCount возвращает число подключённых клиентов.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]struct{})
	}
	h.clients[client.userID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.userID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			client.closeSend()
		}
		if len(clients) == 0 {
			delete(h.clients, client.userID)
		}
	}
}

func (h *Hub) sendAll(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, clients := range h.clients {
		for client := range clients {
			select {
			case client.send <- payload:
			default:
				// Медленный клиент: отключаем, не блокируя хаб.
				goroutine.SafeGo(client.Close)
			}
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, clients := range h.clients {
		for client := range clients {
			client.closeSend()
		}
		delete(h.clients, userID)
	}
}

func logWarn(fields logrus.Fields, msg string) {
	if logger.Log != nil {
		logger.Log.WithFields(fields).Warn(msg)
	}
}
