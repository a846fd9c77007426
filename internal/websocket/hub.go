package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Типы событий, рассылаемых клиентам
const (
	EventLeaderboardUpdated = "leaderboard:updated"
	EventQuizJoined         = "quiz:joined"
)

// Event — конверт исходящего сообщения
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Hub ведет реестр подключенных клиентов и комнат по викторинам.
// Комната нужна только для адресной рассылки: геймплей через нее не идет,
// сессии живут на HTTP-стороне.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	// rooms: quizID -> клиенты, заявившие интерес к этой викторине
	rooms map[uint]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
}

// NewHub создает новый хаб
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[uint]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run обрабатывает регистрацию и отключение клиентов.
// Запускается одной горутиной при старте приложения.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			log.Printf("[WSHub] Клиент %s подключен (всего: %d)", client.ID, h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				for _, room := range h.rooms {
					delete(room, client)
				}
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("[WSHub] Клиент %s отключен (всего: %d)", client.ID, h.ClientCount())
		}
	}
}

// JoinQuiz добавляет клиента в комнату викторины
func (h *Hub) JoinQuiz(client *Client, quizID uint) {
	h.mu.Lock()
	room, ok := h.rooms[quizID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[quizID] = room
	}
	room[client] = struct{}{}
	h.mu.Unlock()

	client.Send(Event{Type: EventQuizJoined, Data: map[string]uint{"quiz_id": quizID}})
}

// Broadcast отправляет событие всем подключенным клиентам
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[WSHub] Ошибка сериализации события %s: %v", event.Type, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		client.enqueue(data)
	}
}

// BroadcastToQuiz отправляет событие клиентам в комнате викторины
func (h *Hub) BroadcastToQuiz(quizID uint, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[WSHub] Ошибка сериализации события %s: %v", event.Type, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[quizID] {
		client.enqueue(data)
	}
}

// NotifyLeaderboardUpdated реализует service.ScoreNotifier: после новой записи
// результата всем клиентам уходит сигнал перезапросить лидерборд.
func (h *Hub) NotifyLeaderboardUpdated(quizID uint) {
	h.Broadcast(Event{
		Type: EventLeaderboardUpdated,
		Data: map[string]uint{"quiz_id": quizID},
	})
}

// ClientCount возвращает количество подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
