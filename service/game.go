package service

import (
	"startup-tycoon/apperror"
	"startup-tycoon/dto"
	"startup-tycoon/entities"
	"startup-tycoon/game"

	"go.uber.org/zap"
)

// activeGame 调用方持有房间锁
func activeGame(entry *roomEntry) (*game.Game, error) {
	if entry.room.Status != entities.RoomStatusActive {
		return nil, ErrGameNotActive
	}
	if entry.game == nil || entry.room.GameState == nil {
		return nil, ErrGameStateMissing
	}
	return entry.game, nil
}

func (s *RoomService) lockActive(roomID string) (*roomEntry, *game.Game, error) {
	entry, err := s.lock(roomID)
	if err != nil {
		return nil, nil, err
	}
	g, err := activeGame(entry)
	if err != nil {
		entry.mu.Unlock()
		if apperror.KindOf(err) == apperror.KindInternal {
			s.logger.Error("房间状态异常", zap.String("room_id", roomID), zap.Error(err))
		}
		return nil, nil, err
	}
	return entry, g, nil
}

func (s *RoomService) DrawFromDeck(roomID, playerID string) (dto.DrawResponse, error) {
	entry, g, err := s.lockActive(roomID)
	if err != nil {
		return dto.DrawResponse{}, err
	}
	defer entry.mu.Unlock()

	res, err := g.DrawFromDeck(playerID)
	if err != nil {
		return dto.DrawResponse{}, err
	}
	s.emit(roomID, dto.Event{Type: dto.EventAction, Data: dto.DrawActionData{
		PlayerID:   playerID,
		Action:     dto.ActionDrawFromDeck,
		Card:       string(res.Card),
		MoneySpent: res.Cost,
		MoneyLeft:  res.MoneyLeft,
	}})
	s.logger.Debug("摸牌",
		zap.String("room_id", roomID),
		zap.String("player_id", playerID),
		zap.Int("cost", res.Cost),
		zap.Int("deck_left", len(g.State.MarketDeck)))
	return dto.DrawResponse{Drawn: string(res.Card), MoneyLeft: res.MoneyLeft}, nil
}

func (s *RoomService) TakeFromMarket(roomID, playerID string, index int) (dto.TakeResponse, error) {
	entry, g, err := s.lockActive(roomID)
	if err != nil {
		return dto.TakeResponse{}, err
	}
	defer entry.mu.Unlock()

	res, err := g.TakeFromMarket(playerID, index)
	if err != nil {
		return dto.TakeResponse{}, err
	}
	s.emit(roomID, dto.Event{Type: dto.EventAction, Data: dto.TakeActionData{
		PlayerID:    playerID,
		Action:      dto.ActionTakeFromMarket,
		Company:     string(res.Company),
		CoinsGained: res.CoinsGained,
	}})
	s.logger.Debug("拿市场牌",
		zap.String("room_id", roomID),
		zap.String("player_id", playerID),
		zap.String("company", string(res.Company)))
	return dto.TakeResponse{Taken: string(res.Company), CoinsGained: res.CoinsGained}, nil
}

func (s *RoomService) PlayCard(roomID, playerID, company, action string) error {
	c, ok := entities.ParseCompany(company)
	if !ok {
		return apperror.BadRequestf("Unknown company %s", company)
	}
	mode, ok := game.ParsePlayMode(action)
	if !ok {
		return apperror.BadRequestf("Invalid play action %s", action)
	}

	entry, g, err := s.lockActive(roomID)
	if err != nil {
		return err
	}
	defer entry.mu.Unlock()

	res, err := g.PlayCard(playerID, c, mode)
	if err != nil {
		return err
	}

	if res.Settlement != nil {
		s.logger.Info("轮次结算",
			zap.String("room_id", roomID),
			zap.Int("round", res.Settlement.Round),
			zap.Int("payments", len(res.Settlement.Payments)),
			zap.Strings("ranking", res.Settlement.Ranking))
	}
	if res.GameOver {
		entry.room.Status = entities.RoomStatusFinished
		winner := g.Winner()
		s.emit(roomID, dto.Event{Type: dto.EventGameOver, Data: dto.GameOverData{
			FinalScores: g.FinalScores(),
			Winner:      winner,
		}})
		s.logger.Info("游戏结束", zap.String("room_id", roomID), zap.String("winner", winner))
	}

	var next *string
	if !res.GameOver {
		next = &res.NextPlayer
	}
	s.emit(roomID, dto.Event{Type: dto.EventAction, Data: dto.PlayActionData{
		PlayerID:         playerID,
		Action:           dto.ActionPlayCard,
		CardCompany:      string(c),
		PlayType:         string(mode),
		NewCurrentPlayer: next,
		RoundEnded:       res.RoundEnded,
	}})
	return nil
}
