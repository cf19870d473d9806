// Package game 实现牌局规则：发牌、抽牌、拿市场牌、出牌、反垄断标记与轮次结算。
//
// Game 本身不加锁，调用方（service）要保证同一房间的操作串行执行。
// 每个动作都先完成全部校验再修改状态，失败时状态不变。
package game

import (
	"fmt"

	"startup-tycoon/apperror"
	"startup-tycoon/entities"
	"startup-tycoon/utils"

	"golang.org/x/exp/rand"
)

type PlayMode string

const (
	PlayInvest   PlayMode = "invest"
	PlayToMarket PlayMode = "to_market"
)

func ParsePlayMode(s string) (PlayMode, bool) {
	switch PlayMode(s) {
	case PlayInvest, PlayToMarket:
		return PlayMode(s), true
	}
	return "", false
}

var (
	ErrNotYourTurn   = apperror.BadRequest("Not your turn")
	ErrGameNotActive = apperror.BadRequest("Game not active")
	ErrHandToDraw    = apperror.BadRequest("Hand must have 3 cards before drawing")
	ErrHandToTake    = apperror.BadRequest("Hand must have 3 cards before taking")
	ErrDeckEmpty     = apperror.BadRequest("Deck is empty")
	ErrInvalidIndex  = apperror.BadRequest("Invalid card index")
	ErrCardNotInHand = apperror.BadRequest("Card not in hand")
)

type Game struct {
	State *entities.GameState
	rng   *rand.Rand
}

// New 按 playerIDs 的顺序建局，playerIDs[0] 先手
func New(rng *rand.Rand, playerIDs []string) (*Game, error) {
	if len(playerIDs) == 0 {
		return nil, fmt.Errorf("no players")
	}
	deal, err := InitialDeal(BuildFullDeck(rng), playerIDs)
	if err != nil {
		return nil, fmt.Errorf("initial deal: %w", err)
	}

	state := &entities.GameState{
		GameID:            "game_" + playerIDs[0],
		Players:           make(map[string]*entities.PlayerState, len(playerIDs)),
		PlayerOrder:       append([]string(nil), playerIDs...),
		MarketDeck:        deal.MarketDeck,
		MarketDisplay:     []entities.MarketCard{},
		RemovedCards:      deal.Removed,
		CurrentPlayerID:   playerIDs[0],
		RoundNumber:       1,
		Status:            entities.GameStatusActive,
		AntimonopolyOwner: make(map[entities.Company]*string, len(entities.Companies)),
	}
	for _, pid := range playerIDs {
		p := entities.NewPlayerState(pid)
		p.Hand = deal.Hands[pid]
		state.Players[pid] = p
	}
	for _, c := range entities.Companies {
		state.AntimonopolyOwner[c] = nil
	}
	return &Game{State: state, rng: rng}, nil
}

func (g *Game) Over() bool {
	return g.State.Status == entities.GameStatusGameOver
}

// checkTurn 所有动作的公共前置条件
func (g *Game) checkTurn(playerID string) (*entities.PlayerState, error) {
	if g.State.Status != entities.GameStatusActive {
		return nil, ErrGameNotActive
	}
	if g.State.CurrentPlayerID != playerID {
		return nil, ErrNotYourTurn
	}
	p, ok := g.State.Players[playerID]
	if !ok {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

// DrawCost 摸牌费用：市场上每张自己没有反垄断标记的牌付 1
func (g *Game) DrawCost(playerID string) int {
	p := g.State.Players[playerID]
	if p == nil {
		return 0
	}
	cost := 0
	for _, mc := range g.State.MarketDisplay {
		if !p.HasAntimonopoly[mc.Company] {
			cost++
		}
	}
	return cost
}

type DrawResult struct {
	Card      entities.Company
	Cost      int
	MoneyLeft int
}

func (g *Game) DrawFromDeck(playerID string) (DrawResult, error) {
	p, err := g.checkTurn(playerID)
	if err != nil {
		return DrawResult{}, err
	}
	if len(p.Hand) != entities.HandSize {
		return DrawResult{}, ErrHandToDraw
	}
	if len(g.State.MarketDeck) == 0 {
		return DrawResult{}, ErrDeckEmpty
	}
	cost := g.DrawCost(playerID)
	if p.Money < cost {
		return DrawResult{}, apperror.BadRequestf("Need %d money", cost)
	}

	var card entities.Company
	g.State.MarketDeck, card = pop(g.State.MarketDeck)
	p.Money -= cost
	p.Hand = append(p.Hand, card)
	return DrawResult{Card: card, Cost: cost, MoneyLeft: p.Money}, nil
}

type TakeResult struct {
	Company     entities.Company
	CoinsGained int
}

func (g *Game) TakeFromMarket(playerID string, index int) (TakeResult, error) {
	p, err := g.checkTurn(playerID)
	if err != nil {
		return TakeResult{}, err
	}
	if len(p.Hand) != entities.HandSize {
		return TakeResult{}, ErrHandToTake
	}
	if index < 0 || index >= len(g.State.MarketDisplay) {
		return TakeResult{}, ErrInvalidIndex
	}
	card := g.State.MarketDisplay[index]
	if p.HasAntimonopoly[card.Company] {
		return TakeResult{}, apperror.BadRequestf("You hold anti-monopoly token for %s", card.Company)
	}

	p.Hand = append(p.Hand, card.Company)
	p.Money += card.CoinsOnTop
	g.State.MarketDisplay = utils.RemoveAt(g.State.MarketDisplay, index)
	return TakeResult{Company: card.Company, CoinsGained: card.CoinsOnTop}, nil
}

type PlayResult struct {
	// RoundEnded 本次出牌触发了结算且游戏没有结束
	RoundEnded bool
	GameOver   bool
	// NextPlayer 游戏结束时为空
	NextPlayer string
	Settlement *Settlement
}

func (g *Game) PlayCard(playerID string, company entities.Company, mode PlayMode) (PlayResult, error) {
	p, err := g.checkTurn(playerID)
	if err != nil {
		return PlayResult{}, err
	}
	if _, ok := entities.CompanyCardCounts[company]; !ok {
		return PlayResult{}, apperror.BadRequestf("Unknown company %s", company)
	}
	if _, ok := ParsePlayMode(string(mode)); !ok {
		return PlayResult{}, apperror.BadRequestf("Invalid play action %s", mode)
	}
	idx := utils.IndexOf(p.Hand, company)
	if idx < 0 {
		return PlayResult{}, ErrCardNotInHand
	}
	if mode == PlayToMarket && p.HasAntimonopoly[company] {
		return PlayResult{}, apperror.BadRequestf("Cannot put %s on market", company)
	}

	// 牌堆已空时这次出牌会触发结算，下一轮的牌先发好，失败则什么都不改
	var next *Deal
	if len(g.State.MarketDeck) == 0 && g.State.RoundNumber < entities.FinalRound {
		deal, err := ReshuffleForRound(g.rng, g.State.RemovedCards, g.State.PlayerOrder)
		if err != nil {
			return PlayResult{}, fmt.Errorf("reshuffle round %d: %w", g.State.RoundNumber+1, err)
		}
		next = &deal
	}

	p.Hand = utils.RemoveAt(p.Hand, idx)
	switch mode {
	case PlayInvest:
		p.Investments[company]++
		if g.State.Owner(company) == "" {
			g.State.SetOwner(company, playerID)
			p.HasAntimonopoly[company] = true
		}
		g.updateAntimonopolyToken(company)
	case PlayToMarket:
		g.State.MarketDisplay = append(g.State.MarketDisplay, entities.MarketCard{Company: company})
	}

	var res PlayResult
	if len(g.State.MarketDeck) == 0 {
		res.Settlement = g.endRound(next)
		res.GameOver = g.Over()
		res.RoundEnded = !res.GameOver
	}
	if !g.Over() {
		g.advanceTurn()
		res.NextPlayer = g.State.CurrentPlayerID
	}
	return res, nil
}

// advanceTurn 按固定顺序轮到下一位，循环
func (g *Game) advanceTurn() {
	order := g.State.PlayerOrder
	idx := utils.IndexOf(order, g.State.CurrentPlayerID)
	g.State.CurrentPlayerID = order[(idx+1)%len(order)]
}

func (g *Game) Winner() string {
	return g.State.Winner()
}

func (g *Game) FinalScores() map[string]int {
	scores := make(map[string]int, len(g.State.Players))
	for id, p := range g.State.Players {
		scores[id] = p.Score
	}
	return scores
}
