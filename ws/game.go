package ws

import (
	"encoding/json"

	"startup-tycoon/apperror"
	"startup-tycoon/dto"
	"startup-tycoon/entities"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoomService websocket 需要的房间操作
type RoomService interface {
	// Attach 在房间锁内调用 attach，room 是当前快照，房间不存在时为 nil
	Attach(roomID string, attach func(room *entities.Room))
	DrawFromDeck(roomID, playerID string) (dto.DrawResponse, error)
	TakeFromMarket(roomID, playerID string, index int) (dto.TakeResponse, error)
	PlayCard(roomID, playerID, company, action string) error
}

type Handler struct {
	hub    *Hub
	rooms  RoomService
	logger *zap.Logger
}

func NewHandler(hub *Hub, rooms RoomService, logger *zap.Logger) *Handler {
	return &Handler{hub: hub, rooms: rooms, logger: logger}
}

var errNoPlayer = apperror.BadRequest("player_id required")

// 消息处理函数类型
type messageHandler func(h *Handler, c *Client, msg dto.ClientMessage) error

// 消息处理函数映射
var messageHandlers = map[string]messageHandler{
	dto.ActionDrawFromDeck:   handleDrawMessage,
	dto.ActionTakeFromMarket: handleTakeMessage,
	dto.ActionPlayCard:       handlePlayMessage,
}

func handleDrawMessage(h *Handler, c *Client, _ dto.ClientMessage) error {
	_, err := h.rooms.DrawFromDeck(c.roomID, c.playerID)
	return err
}

func handleTakeMessage(h *Handler, c *Client, msg dto.ClientMessage) error {
	if msg.CardIndex == nil {
		return apperror.BadRequest("Invalid card index")
	}
	_, err := h.rooms.TakeFromMarket(c.roomID, c.playerID, *msg.CardIndex)
	return err
}

func handlePlayMessage(h *Handler, c *Client, msg dto.ClientMessage) error {
	return h.rooms.PlayCard(c.roomID, c.playerID, msg.CardCompany, msg.Action)
}

// handleMessage 非 JSON 或未知类型的消息当作心跳忽略
func (h *Handler) handleMessage(c *Client, raw []byte) {
	msgMap := make(map[string]interface{})
	if err := json.Unmarshal(raw, &msgMap); err != nil {
		return
	}
	msgType, _ := msgMap["type"].(string)
	handler, found := messageHandlers[msgType]
	if !found {
		return
	}

	err := h.dispatch(c, handler, msgMap)
	if err == nil {
		return
	}
	h.logger.Debug("动作被拒绝",
		zap.String("room_id", c.roomID),
		zap.String("player_id", c.playerID),
		zap.String("action", msgType),
		zap.Error(err))
	h.hub.SendTo(c, dto.Event{Type: dto.EventError, Data: dto.ErrorData{
		Code:    apperror.HTTPStatus(err),
		Message: apperror.PublicMessage(err),
	}})
}

func (h *Handler) dispatch(c *Client, handler messageHandler, msgMap map[string]interface{}) error {
	if c.playerID == "" {
		return errNoPlayer
	}
	msg, err := decodeClientMessage(msgMap)
	if err != nil {
		return apperror.BadRequest("invalid message")
	}
	return handler(h, c, msg)
}

// HandleWebSocket /ws/:roomID?player_id=xxx
func (h *Handler) HandleWebSocket(c *gin.Context) {
	roomID := c.Param("roomID")
	playerID := c.Query("player_id")

	conn, err := upgradeConnection(c)
	if err != nil {
		h.logger.Warn("WebSocket 升级失败", zap.String("room_id", roomID), zap.Error(err))
		return
	}

	client := NewClient(h.hub, conn, roomID, playerID)
	// 注册和快照在同一把房间锁里完成，快照之后的事件一定排在快照后面
	h.rooms.Attach(roomID, func(room *entities.Room) {
		h.hub.Register(client)
		if room != nil {
			h.hub.SendTo(client, dto.RoomStateEvent(room))
		}
	})

	go client.writePump()
	client.readPump(h.handleMessage)
}
