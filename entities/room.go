package entities

import "slices"

type RoomStatus string

const (
	RoomStatusWaiting  RoomStatus = "waiting"  // 等待玩家加入房间
	RoomStatusActive   RoomStatus = "active"   // 游戏进行中
	RoomStatusFinished RoomStatus = "finished" // 游戏结束
)

const (
	MinPlayers        = 3
	MaxPlayers        = 7
	DefaultMaxPlayers = 6
)

// Room 房间信息。Players 的顺序就是出牌顺序
type Room struct {
	RoomID       string     `json:"room_id"`
	HostPlayerID string     `json:"host_player_id"`
	MaxPlayers   int        `json:"max_players"`
	Players      []string   `json:"players"`
	Status       RoomStatus `json:"status"`
	GameState    *GameState `json:"game_state"`
}

func (r *Room) HasPlayer(playerID string) bool {
	for _, p := range r.Players {
		if p == playerID {
			return true
		}
	}
	return false
}

// Clone 深拷贝，用于在锁外序列化快照
func (r *Room) Clone() *Room {
	cp := *r
	cp.Players = slices.Clone(r.Players)
	if r.GameState != nil {
		cp.GameState = r.GameState.Clone()
	}
	return &cp
}
