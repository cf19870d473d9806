// Package service 房间注册表：创建/加入/离开/开始/删除房间，并把游戏动作转发给对应房间的 Game。
//
// 每个房间一把锁，房间内所有读改写操作串行执行；事件在锁内按顺序发布，
// 发布只是入队，不等待客户端收到。
package service

import (
	"fmt"
	"sort"
	"sync"

	"startup-tycoon/apperror"
	"startup-tycoon/dto"
	"startup-tycoon/entities"
	"startup-tycoon/game"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

// Broadcaster 把事件推给房间内的连接
type Broadcaster interface {
	Publish(roomID string, evt dto.Event)
	CloseRoom(roomID string)
}

// Recorder 游戏日志，只用于观察，不会读回游戏状态
type Recorder interface {
	Record(roomID string, evt dto.Event)
	Forget(roomID string)
}

var (
	ErrRoomNotFound     = apperror.NotFound("Room not found")
	ErrPlayerRequired   = apperror.BadRequest("Player ID required")
	ErrMaxPlayers       = apperror.BadRequest("Max players must be 3–7")
	ErrAlreadyStarted   = apperror.BadRequest("Cannot join: game already started")
	ErrAlreadyInRoom    = apperror.BadRequest("Already in room")
	ErrRoomFull         = apperror.BadRequest("Room is full")
	ErrNotInRoom        = apperror.BadRequest("Not in room")
	ErrLeaveAfterStart  = apperror.BadRequest("Cannot leave after game started")
	ErrOnlyHostStart    = apperror.Forbidden("Only host can start")
	ErrNotEnoughPlayers = apperror.BadRequest("Need at least 3 players")
	ErrGameStarted      = apperror.BadRequest("Game already started")
	ErrDeleteActive     = apperror.Forbidden("Cannot delete active room")
	ErrGameNotActive    = apperror.BadRequest("Game not active")
	ErrGameStateMissing = apperror.Internal("Game state missing")
)

type roomEntry struct {
	mu      sync.Mutex
	seq     uint64
	room    *entities.Room
	game    *game.Game
	deleted bool
}

type RoomService struct {
	mu      sync.RWMutex
	rooms   map[string]*roomEntry
	nextSeq uint64

	broadcaster Broadcaster
	recorder    Recorder
	newRand     func() (*rand.Rand, error)
	logger      *zap.Logger
}

type Option func(*RoomService)

func WithRecorder(r Recorder) Option {
	return func(s *RoomService) { s.recorder = r }
}

// WithRand 指定每局游戏的随机源，测试用固定种子
func WithRand(newRand func() (*rand.Rand, error)) Option {
	return func(s *RoomService) { s.newRand = newRand }
}

func NewRoomService(b Broadcaster, logger *zap.Logger, opts ...Option) *RoomService {
	s := &RoomService{
		rooms:       make(map[string]*roomEntry),
		broadcaster: b,
		logger:      logger,
		newRand: func() (*rand.Rand, error) {
			seed, err := game.NewSeed()
			if err != nil {
				return nil, err
			}
			return game.NewRand(seed), nil
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// emit 必须在房间锁内调用，保证同一房间的事件顺序
func (s *RoomService) emit(roomID string, evt dto.Event) {
	s.broadcaster.Publish(roomID, evt)
	if s.recorder != nil {
		s.recorder.Record(roomID, evt)
	}
}

// lock 找到房间并加锁，调用方负责 Unlock
func (s *RoomService) lock(roomID string) (*roomEntry, error) {
	s.mu.RLock()
	entry, ok := s.rooms[roomID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrRoomNotFound
	}
	entry.mu.Lock()
	if entry.deleted {
		entry.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	return entry, nil
}

// removeLocked 持有房间锁时删除房间
func (s *RoomService) removeLocked(e *roomEntry) {
	roomID := e.room.RoomID
	e.deleted = true
	s.mu.Lock()
	delete(s.rooms, roomID)
	s.mu.Unlock()

	s.emit(roomID, dto.RoomDeletedEvent())
	s.broadcaster.CloseRoom(roomID)
	if s.recorder != nil {
		s.recorder.Forget(roomID)
	}
	s.logger.Info("房间已删除", zap.String("room_id", roomID))
}

func (s *RoomService) CreateRoom(hostPlayerID string, maxPlayers int) (string, error) {
	if isBlank(hostPlayerID) {
		return "", ErrPlayerRequired
	}
	if maxPlayers < entities.MinPlayers || maxPlayers > entities.MaxPlayers {
		return "", ErrMaxPlayers
	}

	room := &entities.Room{
		HostPlayerID: hostPlayerID,
		MaxPlayers:   maxPlayers,
		Players:      []string{hostPlayerID},
		Status:       entities.RoomStatusWaiting,
	}
	entry := &roomEntry{room: room}

	s.mu.Lock()
	roomID := newRoomID()
	for _, exists := s.rooms[roomID]; exists; _, exists = s.rooms[roomID] {
		roomID = newRoomID()
	}
	room.RoomID = roomID
	s.nextSeq++
	entry.seq = s.nextSeq
	// 新房间还没有别人能拿到，先加锁再放进表里，保证 room_created 是第一条事件
	entry.mu.Lock()
	s.rooms[roomID] = entry
	s.mu.Unlock()
	defer entry.mu.Unlock()

	s.emit(roomID, dto.Event{Type: dto.EventRoomCreated, Data: dto.RoomCreatedData{
		RoomID: roomID,
		Host:   hostPlayerID,
	}})
	s.logger.Info("房间创建成功",
		zap.String("room_id", roomID),
		zap.String("player_id", hostPlayerID),
		zap.Int("max_players", maxPlayers))
	return roomID, nil
}

// ListRooms 未结束的房间，按创建顺序
func (s *RoomService) ListRooms() []dto.RoomSummary {
	s.mu.RLock()
	entries := make([]*roomEntry, 0, len(s.rooms))
	for _, e := range s.rooms {
		entries = append(entries, e)
	}
	s.mu.RUnlock()
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	rooms := make([]dto.RoomSummary, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.deleted && e.room.Status != entities.RoomStatusFinished {
			rooms = append(rooms, dto.RoomSummary{
				RoomID:     e.room.RoomID,
				Host:       e.room.HostPlayerID,
				Players:    append([]string{}, e.room.Players...),
				MaxPlayers: e.room.MaxPlayers,
				Status:     e.room.Status,
			})
		}
		e.mu.Unlock()
	}
	return rooms
}

func (s *RoomService) GetRoom(roomID string) (*entities.Room, error) {
	entry, err := s.lock(roomID)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()
	return entry.room.Clone(), nil
}

// Attach 在房间锁内执行 attach，房间不存在时传 nil
func (s *RoomService) Attach(roomID string, attach func(room *entities.Room)) {
	entry, err := s.lock(roomID)
	if err != nil {
		attach(nil)
		return
	}
	defer entry.mu.Unlock()
	attach(entry.room)
}

func (s *RoomService) JoinRoom(roomID, playerID string) error {
	if isBlank(playerID) {
		return ErrPlayerRequired
	}
	entry, err := s.lock(roomID)
	if err != nil {
		return err
	}
	defer entry.mu.Unlock()

	room := entry.room
	if room.Status != entities.RoomStatusWaiting {
		return ErrAlreadyStarted
	}
	if room.HasPlayer(playerID) {
		return ErrAlreadyInRoom
	}
	if len(room.Players) >= room.MaxPlayers {
		return ErrRoomFull
	}
	room.Players = append(room.Players, playerID)

	s.emit(roomID, dto.Event{Type: dto.EventPlayerJoin, Data: dto.PlayersChangedData{
		PlayerID: playerID,
		Players:  append([]string{}, room.Players...),
	}})
	s.logger.Info("玩家加入房间", zap.String("room_id", roomID), zap.String("player_id", playerID))
	return nil
}

// LeaveRoom 返回 true 表示最后一个人离开，房间已删除
func (s *RoomService) LeaveRoom(roomID, playerID string) (bool, error) {
	entry, err := s.lock(roomID)
	if err != nil {
		return false, err
	}
	defer entry.mu.Unlock()

	room := entry.room
	if !room.HasPlayer(playerID) {
		return false, ErrNotInRoom
	}
	if room.Status != entities.RoomStatusWaiting {
		return false, ErrLeaveAfterStart
	}

	players := make([]string, 0, len(room.Players))
	for _, p := range room.Players {
		if p != playerID {
			players = append(players, p)
		}
	}
	room.Players = players
	if playerID == room.HostPlayerID && len(players) > 0 {
		room.HostPlayerID = players[0]
	}
	if len(players) == 0 {
		s.removeLocked(entry)
		return true, nil
	}

	s.emit(roomID, dto.Event{Type: dto.EventPlayerLeft, Data: dto.PlayersChangedData{
		PlayerID: playerID,
		Players:  append([]string{}, players...),
	}})
	s.logger.Info("玩家离开房间", zap.String("room_id", roomID), zap.String("player_id", playerID))
	return false, nil
}

func (s *RoomService) StartGame(roomID, hostPlayerID string) error {
	entry, err := s.lock(roomID)
	if err != nil {
		return err
	}
	defer entry.mu.Unlock()

	room := entry.room
	if room.HostPlayerID != hostPlayerID {
		return ErrOnlyHostStart
	}
	if len(room.Players) < entities.MinPlayers {
		return ErrNotEnoughPlayers
	}
	if room.Status != entities.RoomStatusWaiting {
		return ErrGameStarted
	}

	rng, err := s.newRand()
	if err != nil {
		s.logger.Error("随机数初始化失败", zap.String("room_id", roomID), zap.Error(err))
		return apperror.Internal(fmt.Sprintf("Game init failed: %v", err))
	}
	g, err := game.New(rng, room.Players)
	if err != nil {
		s.logger.Error("游戏初始化失败", zap.String("room_id", roomID), zap.Error(err))
		return apperror.Internal(fmt.Sprintf("Game init failed: %v", err))
	}
	entry.game = g
	room.GameState = g.State
	room.Status = entities.RoomStatusActive

	s.emit(roomID, dto.Event{Type: dto.EventGameStarted, Data: dto.GameStartedData{
		CurrentPlayer: g.State.CurrentPlayerID,
	}})
	s.logger.Info("游戏开始",
		zap.String("room_id", roomID),
		zap.Strings("players", room.Players),
		zap.String("current_player", g.State.CurrentPlayerID))
	return nil
}

// DeleteRoom 等待中的房间谁都可以删，其他状态只有房主能删
func (s *RoomService) DeleteRoom(roomID, requesterID string) error {
	entry, err := s.lock(roomID)
	if err != nil {
		return err
	}
	defer entry.mu.Unlock()

	room := entry.room
	if room.Status != entities.RoomStatusWaiting && requesterID != room.HostPlayerID {
		return ErrDeleteActive
	}
	s.removeLocked(entry)
	return nil
}
