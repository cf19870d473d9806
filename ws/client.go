package ws

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client 一个 websocket 连接。playerID 可以为空（只观战，不能发动作）
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	roomID   string
	playerID string
}

func NewClient(hub *Hub, conn *websocket.Conn, roomID, playerID string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, hub.sendBuffer),
		roomID:   roomID,
		playerID: playerID,
	}
}

// writePump 每个连接一个 goroutine，按入队顺序逐条写出
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// hub 已经关闭了队列
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.Disconnect(c, ReasonWriteFailed)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.hub.Disconnect(c, ReasonWriteFailed)
				return
			}
		}
	}
}

// readPump 读取客户端消息，交给 handle 处理；读失败即视为断开
func (c *Client) readPump(handle func(c *Client, msg []byte)) {
	defer func() {
		c.hub.Disconnect(c, ReasonReadClosed)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("读取消息失败",
					zap.String("room_id", c.roomID),
					zap.String("player_id", c.playerID),
					zap.Error(err))
			}
			return
		}
		// 任何消息都算心跳
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		handle(c, msg)
	}
}
