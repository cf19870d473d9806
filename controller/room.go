package controller

import (
	"context"
	"encoding/json"

	"startup-tycoon/dto"
	"startup-tycoon/entities"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoomService 房间注册表对外提供的操作
type RoomService interface {
	CreateRoom(hostPlayerID string, maxPlayers int) (string, error)
	ListRooms() []dto.RoomSummary
	GetRoom(roomID string) (*entities.Room, error)
	JoinRoom(roomID, playerID string) error
	LeaveRoom(roomID, playerID string) (bool, error)
	StartGame(roomID, hostPlayerID string) error
	DeleteRoom(roomID, requesterID string) error

	DrawFromDeck(roomID, playerID string) (dto.DrawResponse, error)
	TakeFromMarket(roomID, playerID string, index int) (dto.TakeResponse, error)
	PlayCard(roomID, playerID, company, action string) error
}

// GameLog 房间事件流水，只读
type GameLog interface {
	List(ctx context.Context, roomID string) ([]json.RawMessage, error)
}

type Controller struct {
	rooms  RoomService
	log    GameLog
	logger *zap.Logger
}

func New(rooms RoomService, log GameLog, logger *zap.Logger) *Controller {
	return &Controller{rooms: rooms, log: log, logger: logger}
}

func (ctl *Controller) Index(c *gin.Context) {
	success(c, dto.MessageResponse{Message: "Startup Tycoon with WebSocket Broadcasting"})
}

func (ctl *Controller) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := bind(c, &req); err != nil {
		ctl.fail(c, err)
		return
	}
	maxPlayers := entities.DefaultMaxPlayers
	if req.MaxPlayers != nil {
		maxPlayers = *req.MaxPlayers
	}

	roomID, err := ctl.rooms.CreateRoom(req.HostPlayerID, maxPlayers)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	success(c, dto.CreateRoomResponse{RoomID: roomID, Message: "Room created"})
}

func (ctl *Controller) ListRooms(c *gin.Context) {
	success(c, ctl.rooms.ListRooms())
}

func (ctl *Controller) GetRoom(c *gin.Context) {
	room, err := ctl.rooms.GetRoom(c.Param("roomID"))
	if err != nil {
		ctl.fail(c, err)
		return
	}
	success(c, room)
}

func (ctl *Controller) JoinRoom(c *gin.Context) {
	var req dto.PlayerRequest
	if err := bind(c, &req); err != nil {
		ctl.fail(c, err)
		return
	}
	if err := ctl.rooms.JoinRoom(c.Param("roomID"), req.PlayerID); err != nil {
		ctl.fail(c, err)
		return
	}
	success(c, dto.MessageResponse{Message: req.PlayerID + " joined"})
}

func (ctl *Controller) LeaveRoom(c *gin.Context) {
	var req dto.PlayerRequest
	if err := bind(c, &req); err != nil {
		ctl.fail(c, err)
		return
	}
	deleted, err := ctl.rooms.LeaveRoom(c.Param("roomID"), req.PlayerID)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	if deleted {
		success(c, dto.MessageResponse{Message: "Room deleted"})
		return
	}
	success(c, dto.MessageResponse{Message: req.PlayerID + " left"})
}

func (ctl *Controller) StartGame(c *gin.Context) {
	var req dto.StartGameRequest
	if err := bind(c, &req); err != nil {
		ctl.fail(c, err)
		return
	}
	if err := ctl.rooms.StartGame(c.Param("roomID"), req.HostPlayerID); err != nil {
		ctl.fail(c, err)
		return
	}
	success(c, dto.MessageResponse{Message: "Game started"})
}

func (ctl *Controller) DeleteRoom(c *gin.Context) {
	var req dto.DeleteRoomRequest
	if err := bind(c, &req); err != nil {
		ctl.fail(c, err)
		return
	}
	if err := ctl.rooms.DeleteRoom(c.Param("roomID"), req.RequesterID); err != nil {
		ctl.fail(c, err)
		return
	}
	success(c, dto.MessageResponse{Message: "Room deleted"})
}

// GameLog 房间不存在时返回 404，已结束的房间仍可查看
func (ctl *Controller) GameLog(c *gin.Context) {
	roomID := c.Param("roomID")
	if _, err := ctl.rooms.GetRoom(roomID); err != nil {
		ctl.fail(c, err)
		return
	}
	entries, err := ctl.log.List(c.Request.Context(), roomID)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	success(c, entries)
}
