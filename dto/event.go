package dto

import "startup-tycoon/entities"

// 推送给房间内所有连接的事件类型
const (
	EventRoomState   = "room_state"
	EventRoomCreated = "room_created"
	EventPlayerJoin  = "player_joined"
	EventPlayerLeft  = "player_left"
	EventRoomDeleted = "room_deleted"
	EventGameStarted = "game_started"
	EventAction      = "action"
	EventGameOver    = "game_over"
	EventError       = "error"
)

const (
	ActionDrawFromDeck   = "draw_from_deck"
	ActionTakeFromMarket = "take_from_market"
	ActionPlayCard       = "play_card"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type RoomCreatedData struct {
	RoomID string `json:"room_id"`
	Host   string `json:"host"`
}

// PlayersChangedData player_joined / player_left 共用
type PlayersChangedData struct {
	PlayerID string   `json:"player_id"`
	Players  []string `json:"players"`
}

type GameStartedData struct {
	CurrentPlayer string `json:"current_player"`
}

type DrawActionData struct {
	PlayerID   string `json:"player_id"`
	Action     string `json:"action"`
	Card       string `json:"card"`
	MoneySpent int    `json:"money_spent"`
	MoneyLeft  int    `json:"money_left"`
}

type TakeActionData struct {
	PlayerID    string `json:"player_id"`
	Action      string `json:"action"`
	Company     string `json:"company"`
	CoinsGained int    `json:"coins_gained"`
}

type PlayActionData struct {
	PlayerID    string `json:"player_id"`
	Action      string `json:"action"`
	CardCompany string `json:"card_company"`
	PlayType    string `json:"play_type"`
	// NewCurrentPlayer 游戏结束时为 null
	NewCurrentPlayer *string `json:"new_current_player"`
	RoundEnded       bool    `json:"round_ended"`
}

type GameOverData struct {
	FinalScores map[string]int `json:"final_scores"`
	Winner      string         `json:"winner"`
}

type ErrorData struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func RoomStateEvent(room *entities.Room) Event {
	return Event{Type: EventRoomState, Data: room}
}

func RoomDeletedEvent() Event {
	return Event{Type: EventRoomDeleted, Data: struct{}{}}
}
