package dto

import "startup-tycoon/entities"

// 请求参数既可以走 query/form，也可以走 JSON body

type CreateRoomRequest struct {
	HostPlayerID string `form:"host_player_id" json:"host_player_id"`
	MaxPlayers   *int   `form:"max_players" json:"max_players"`
}

type CreateRoomResponse struct {
	RoomID  string `json:"room_id"`
	Message string `json:"message"`
}

type PlayerRequest struct {
	PlayerID string `form:"player_id" json:"player_id"`
}

type StartGameRequest struct {
	HostPlayerID string `form:"host_player_id" json:"host_player_id"`
}

type DeleteRoomRequest struct {
	RequesterID string `form:"requester_id" json:"requester_id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// RoomSummary 房间列表里的一项
type RoomSummary struct {
	RoomID     string              `json:"room_id"`
	Host       string              `json:"host"`
	Players    []string            `json:"players"`
	MaxPlayers int                 `json:"max_players"`
	Status     entities.RoomStatus `json:"status"`
}
