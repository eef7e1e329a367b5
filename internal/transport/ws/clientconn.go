package ws

import (
	"sync"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/kiryu-dev/tetris/internal/domain"
	"github.com/pkg/errors"
)

// client serializes writes: snapshots are pushed both from the command loop
// and from the fall timer goroutine.
type client struct {
	conn *websocket.Conn
	mu   *sync.Mutex
}

func newClient(conn *websocket.Conn) client {
	return client{conn: conn, mu: &sync.Mutex{}}
}

func (c client) WriteMessage(msg domain.Message) error {
	data, err := jsoniter.Marshal(msg)
	if err != nil {
		return errors.WithMessage(err, "marshal message")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return errors.WithMessage(mapCloseError(err), "websocket conn write message")
	}
	return nil
}

func (c client) ReadMessage() (domain.Message, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return domain.Message{}, errors.WithMessage(mapCloseError(err), "websocket conn read message")
	}
	if len(data) == 0 {
		return domain.Message{}, domain.ErrEmptyMessage
	}
	var msg domain.Message
	if err := jsoniter.Unmarshal(data, &msg); err != nil {
		return domain.Message{}, errors.WithMessage(err, "unmarshal message")
	}
	return msg, nil
}

func (c client) Close() {
	_ = c.conn.Close()
}

func mapCloseError(err error) error {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) || errors.Is(err, websocket.ErrCloseSent) {
		return domain.ErrConnectionClosed
	}
	return err
}
