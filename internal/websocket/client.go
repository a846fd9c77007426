package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Время, которое разрешено писать сообщение клиенту
	writeWait = 10 * time.Second

	// Время ожидания pong-ответа от клиента
	pongWait = 30 * time.Second

	// Периодичность отправки ping-сообщений клиенту
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер входящего сообщения
	maxMessageSize = 512

	// Размер буфера канала отправки
	sendBufferSize = 64
)

// inboundMessage — единственный тип входящих сообщений: заявка на комнату
type inboundMessage struct {
	Type   string `json:"type"`
	QuizID uint   `json:"quiz_id"`
}

// Client является посредником между WebSocket соединением и хабом
type Client struct {
	ID     string
	UserID uint

	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient создает клиента и регистрирует его в хабе
func NewClient(hub *Hub, conn *websocket.Conn, userID uint) *Client {
	client := &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}
	hub.register <- client
	return client
}

// Send сериализует и ставит событие в очередь отправки
func (c *Client) Send(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[WSClient %s] Ошибка сериализации события: %v", c.ID, err)
		return
	}
	c.enqueue(data)
}

// enqueue ставит готовые байты в очередь. Медленный клиент сообщения теряет,
// соединение при этом не рвется.
func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		log.Printf("[WSClient %s] Буфер отправки переполнен, сообщение отброшено", c.ID)
	}
}

// ReadPump читает входящие сообщения. Должен запускаться отдельной горутиной;
// завершение означает разрыв соединения.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WSClient %s] Неожиданное закрытие: %v", c.ID, err)
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("[WSClient %s] Некорректное сообщение: %v", c.ID, err)
			continue
		}

		if msg.Type == "joinQuiz" && msg.QuizID > 0 {
			c.hub.JoinQuiz(c, msg.QuizID)
		}
	}
}

// WritePump пишет сообщения из очереди в соединение и шлет ping.
// Должен запускаться отдельной горутиной.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Хаб закрыл канал
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
