package websocket

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const pingInterval = 30 * time.Second

// Hub - реестр живых соединений. Членство в комнатах хранит room.Registry,
// хаб только доставляет байты по id соединения.
type Hub struct {
	clients map[string]*Client

	// Каналы для регистрации/отмены регистрации
	register   chan *Client
	unregister chan *Client

	mu  sync.RWMutex
	log *slog.Logger

	// Контекст для graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub создает новый Hub
func NewHub(log *slog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run запускает hub
func (h *Hub) Run() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ticker.C:
			h.ping()
		}
	}
}

// Stop останавливает hub и закрывает все соединения
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		delete(h.clients, id)
		close(client.Send)
		if client.Conn != nil {
			client.Conn.Close()
		}
	}
}

// Register регистрирует нового клиента
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Unregister отменяет регистрацию клиента
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	h.log.Debug("Client registered", "conn_id", client.ID, "user_id", client.UserID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.Send)
		h.log.Debug("Client unregistered", "conn_id", client.ID, "user_id", client.UserID)
	}
}

// Send ставит сообщение в очередь одного соединения
func (h *Hub) Send(connID string, message []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[connID]
	if !ok {
		return ErrClientNotFound
	}
	return h.enqueue(client, message)
}

// SendMany ставит одно и то же сообщение в очереди нескольких соединений,
// в порядке вызовов. Неизвестные id пропускаются.
func (h *Hub) SendMany(connIDs []string, message []byte, excludeID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, id := range connIDs {
		if id == excludeID {
			continue
		}
		client, ok := h.clients[id]
		if !ok {
			continue
		}
		if h.enqueue(client, message) == nil {
			delivered++
		}
	}
	return delivered
}

// Broadcast отправляет сообщение всем подключённым клиентам
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		_ = h.enqueue(client, message)
	}
}

func (h *Hub) enqueue(client *Client, message []byte) error {
	select {
	case client.Send <- message:
		return nil
	default:
		h.log.Warn("Client send channel full", "conn_id", client.ID)
		return ErrClientQueueFull
	}
}

func (h *Hub) ping() {
	data, err := Encode(TypePing, "", nil, time.Now())
	if err != nil {
		return
	}
	h.Broadcast(data)
}

// Count возвращает число подключённых клиентов
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
