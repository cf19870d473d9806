package ws

import (
	"encoding/json"
	"sync"

	"startup-tycoon/dto"

	"go.uber.org/zap"
)

// DisconnectReason 连接被移出房间的原因
type DisconnectReason string

const (
	ReasonQueueFull   DisconnectReason = "send_queue_full"
	ReasonWriteFailed DisconnectReason = "write_failed"
	ReasonReadClosed  DisconnectReason = "read_closed"
	ReasonRoomDeleted DisconnectReason = "room_deleted"
	ReasonShutdown    DisconnectReason = "shutdown"
)

// Hub 维护每个房间当前在线的连接，并把事件推给它们。
// 推送只是把消息放进每个连接自己的发送队列，真正的写操作在 writePump 里完成。
type Hub struct {
	mu         sync.Mutex
	rooms      map[string]map[*Client]struct{}
	sendBuffer int
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger, sendBuffer int) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		sendBuffer: sendBuffer,
		logger:     logger,
	}
}

// Register 把连接加入房间，房间不存在也可以先连上
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[c.roomID]
	if !ok {
		clients = make(map[*Client]struct{})
		h.rooms[c.roomID] = clients
	}
	clients[c] = struct{}{}
	h.logger.Info("连接加入房间",
		zap.String("room_id", c.roomID),
		zap.String("player_id", c.playerID),
		zap.Int("connections", len(clients)))
}

// Disconnect 移除连接并关闭它的发送队列，重复调用无副作用
func (h *Hub) Disconnect(c *Client, reason DisconnectReason) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c, reason)
}

func (h *Hub) removeLocked(c *Client, reason DisconnectReason) {
	clients, ok := h.rooms[c.roomID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.rooms, c.roomID)
	}

	fields := []zap.Field{
		zap.String("room_id", c.roomID),
		zap.String("player_id", c.playerID),
		zap.String("reason", string(reason)),
		zap.Int("connections", len(clients)),
	}
	if reason == ReasonQueueFull || reason == ReasonWriteFailed {
		h.logger.Warn("移除连接", fields...)
		return
	}
	h.logger.Info("移除连接", fields...)
}

// enqueueLocked 队列满说明客户端跟不上，直接断开，不阻塞其他连接
func (h *Hub) enqueueLocked(c *Client, data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		h.removeLocked(c, ReasonQueueFull)
		return false
	}
}

func (h *Hub) marshal(roomID string, evt dto.Event) ([]byte, bool) {
	data, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("事件序列化失败",
			zap.String("room_id", roomID),
			zap.String("event", evt.Type),
			zap.Error(err))
		return nil, false
	}
	return data, true
}

// Publish 把事件推给房间内所有连接，不等待发送完成
func (h *Hub) Publish(roomID string, evt dto.Event) {
	data, ok := h.marshal(roomID, evt)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[roomID] {
		h.enqueueLocked(c, data)
	}
	h.logger.Debug("广播事件",
		zap.String("room_id", roomID),
		zap.String("event", evt.Type),
		zap.Int("connections", len(h.rooms[roomID])))
}

// SendTo 只发给一个连接（连接时的快照、错误回执）
func (h *Hub) SendTo(c *Client, evt dto.Event) bool {
	data, ok := h.marshal(c.roomID, evt)
	if !ok {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[c.roomID][c]; !ok {
		return false
	}
	return h.enqueueLocked(c, data)
}

// CloseRoom 房间删除后释放它的所有连接，已入队的消息仍会发出去
func (h *Hub) CloseRoom(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[roomID] {
		h.removeLocked(c, ReasonRoomDeleted)
	}
}

// Shutdown 关闭所有房间的连接
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.rooms {
		for c := range clients {
			h.removeLocked(c, ReasonShutdown)
		}
	}
}

func (h *Hub) ConnectionCount(roomID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[roomID])
}
