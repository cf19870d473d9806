package bot

import (
	"errors"
	"fmt"

	"startup-tycoon/dto"
	"startup-tycoon/entities"
	"startup-tycoon/game"
	"startup-tycoon/service"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

// ErrNoLegalMove 当前玩家既摸不起牌，市场上也没有能拿的牌。
// 钱被结算扣成负数后，即使摸牌费用为 0 也摸不了
var ErrNoLegalMove = errors.New("no legal acquisition")

var ErrTooManyTurns = errors.New("turn limit exceeded")

// maxTurns 一局最多 2 × 31 次摸牌，加上市场牌被拿走的回合，远小于这个数
const maxTurns = 1000

type Result struct {
	RoomID  string
	Players []string
	Scores  map[string]int
	Money   map[string]int
	Winner  string
	Turns   int
	Events  int
}

type eventCounter struct {
	events int
}

func (e *eventCounter) Publish(string, dto.Event) { e.events++ }
func (e *eventCounter) CloseRoom(string)          {}

func PlayerIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("bot%d", i+1)
	}
	return ids
}

// Simulate 建房、开局，由 bot 替所有玩家行动直到游戏结束。
// 同样的 seed 得到同样的结果
func Simulate(players int, seed uint64, logger *zap.Logger) (Result, error) {
	if players < entities.MinPlayers || players > entities.MaxPlayers {
		return Result{}, fmt.Errorf("players must be %d-%d, got %d", entities.MinPlayers, entities.MaxPlayers, players)
	}

	counter := &eventCounter{}
	rooms := service.NewRoomService(counter, logger, service.WithRand(func() (*rand.Rand, error) {
		return game.NewRand(seed), nil
	}))
	ids := PlayerIDs(players)
	res := Result{Players: ids}

	roomID, err := rooms.CreateRoom(ids[0], players)
	if err != nil {
		return res, fmt.Errorf("create room: %w", err)
	}
	res.RoomID = roomID
	for _, id := range ids[1:] {
		if err := rooms.JoinRoom(roomID, id); err != nil {
			return res, fmt.Errorf("join %s: %w", id, err)
		}
	}
	if err := rooms.StartGame(roomID, ids[0]); err != nil {
		return res, fmt.Errorf("start game: %w", err)
	}

	bot := NewPlayer(game.NewRand(seed + 1))
	for res.Turns = 0; res.Turns < maxTurns; res.Turns++ {
		room, err := rooms.GetRoom(roomID)
		if err != nil {
			return res, err
		}
		if room.Status == entities.RoomStatusFinished {
			collect(&res, room.GameState)
			res.Events = counter.events
			return res, nil
		}
		if err := playTurn(rooms, bot, room); err != nil {
			collect(&res, room.GameState)
			res.Events = counter.events
			return res, fmt.Errorf("turn %d: %w", res.Turns+1, err)
		}
	}
	return res, ErrTooManyTurns
}

func playTurn(rooms *service.RoomService, bot *Player, room *entities.Room) error {
	st := room.GameState
	pid := st.CurrentPlayerID

	choice, ok := bot.ChooseAcquire(st, pid)
	if !ok {
		return fmt.Errorf("player %s (money %d): %w", pid, st.Players[pid].Money, ErrNoLegalMove)
	}
	var acquired entities.Company
	if choice.Draw {
		drawn, err := rooms.DrawFromDeck(room.RoomID, pid)
		if err != nil {
			return fmt.Errorf("draw: %w", err)
		}
		acquired = entities.Company(drawn.Drawn)
	} else {
		taken, err := rooms.TakeFromMarket(room.RoomID, pid, choice.Index)
		if err != nil {
			return fmt.Errorf("take %d: %w", choice.Index, err)
		}
		acquired = entities.Company(taken.Taken)
	}

	// 重新取快照，拿到包含新牌的手牌
	after, err := rooms.GetRoom(room.RoomID)
	if err != nil {
		return err
	}
	company, mode := bot.ChoosePlay(after.GameState, pid, acquired, choice.Draw)
	if err := rooms.PlayCard(room.RoomID, pid, string(company), string(mode)); err != nil {
		return fmt.Errorf("play %s %s: %w", company, mode, err)
	}
	return nil
}

func collect(res *Result, st *entities.GameState) {
	if st == nil {
		return
	}
	res.Scores = make(map[string]int, len(st.Players))
	res.Money = make(map[string]int, len(st.Players))
	for id, p := range st.Players {
		res.Scores[id] = p.Score
		res.Money[id] = p.Money
	}
	res.Winner = ""
	if st.Status == entities.GameStatusGameOver {
		res.Winner = st.Winner()
	}
}
