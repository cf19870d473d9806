package entities

import "slices"

type GameStatus string

const (
	GameStatusActive GameStatus = "active"
	// GameStatusRoundEnd 类型里保留了这个值，但引擎从不设置它，轮次结算在一次出牌内完成
	GameStatusRoundEnd GameStatus = "round_end"
	GameStatusGameOver GameStatus = "game_over"
)

const (
	StartingMoney = 10
	HandSize      = 3
	RemovedCards  = 5
	FinalRound    = 2
)

type PlayerState struct {
	PlayerID        string           `json:"player_id"`
	Hand            []Company        `json:"hand"`
	Investments     map[Company]int  `json:"investments"`
	Money           int              `json:"money"`
	Score           int              `json:"score"`
	HasAntimonopoly map[Company]bool `json:"has_antimonopoly"`
}

type MarketCard struct {
	Company    Company `json:"company"`
	CoinsOnTop int     `json:"coins_on_top"`
}

type GameState struct {
	GameID        string                  `json:"game_id"`
	Players       map[string]*PlayerState `json:"players"`
	PlayerOrder   []string                `json:"player_order"`
	MarketDeck    []Company               `json:"market_deck"`
	MarketDisplay []MarketCard            `json:"market_display"`
	RemovedCards  []Company               `json:"removed_cards"`
	// CurrentPlayerID 游戏结束后保持最后一个出牌的玩家
	CurrentPlayerID   string              `json:"current_player_id"`
	RoundNumber       int                 `json:"round_number"`
	Status            GameStatus          `json:"status"`
	AntimonopolyOwner map[Company]*string `json:"antimonopoly_owner"`
}

func NewPlayerState(playerID string) *PlayerState {
	p := &PlayerState{
		PlayerID:        playerID,
		Hand:            []Company{},
		Investments:     make(map[Company]int, len(Companies)),
		Money:           StartingMoney,
		HasAntimonopoly: make(map[Company]bool, len(Companies)),
	}
	for _, c := range Companies {
		p.Investments[c] = 0
		p.HasAntimonopoly[c] = false
	}
	return p
}

// Owner 返回持有该公司反垄断标记的玩家，没有时返回 ""
func (g *GameState) Owner(c Company) string {
	if id := g.AntimonopolyOwner[c]; id != nil {
		return *id
	}
	return ""
}

func (g *GameState) SetOwner(c Company, playerID string) {
	if playerID == "" {
		g.AntimonopolyOwner[c] = nil
		return
	}
	id := playerID
	g.AntimonopolyOwner[c] = &id
}

// OrderedPlayers 按出牌顺序返回玩家
func (g *GameState) OrderedPlayers() []*PlayerState {
	out := make([]*PlayerState, 0, len(g.PlayerOrder))
	for _, id := range g.PlayerOrder {
		out = append(out, g.Players[id])
	}
	return out
}

// Winner 分数最高者，平分时取出牌顺序靠前的
func (g *GameState) Winner() string {
	winner := ""
	best := 0
	for _, p := range g.OrderedPlayers() {
		if winner == "" || p.Score > best {
			winner, best = p.PlayerID, p.Score
		}
	}
	return winner
}

func (g *GameState) Clone() *GameState {
	cp := *g
	cp.PlayerOrder = slices.Clone(g.PlayerOrder)
	cp.MarketDeck = slices.Clone(g.MarketDeck)
	cp.MarketDisplay = slices.Clone(g.MarketDisplay)
	cp.RemovedCards = slices.Clone(g.RemovedCards)
	cp.Players = make(map[string]*PlayerState, len(g.Players))
	for id, p := range g.Players {
		pc := *p
		pc.Hand = slices.Clone(p.Hand)
		pc.Investments = make(map[Company]int, len(p.Investments))
		for c, n := range p.Investments {
			pc.Investments[c] = n
		}
		pc.HasAntimonopoly = make(map[Company]bool, len(p.HasAntimonopoly))
		for c, b := range p.HasAntimonopoly {
			pc.HasAntimonopoly[c] = b
		}
		cp.Players[id] = &pc
	}
	cp.AntimonopolyOwner = make(map[Company]*string, len(g.AntimonopolyOwner))
	for c := range g.AntimonopolyOwner {
		cp.SetOwner(c, g.Owner(c))
	}
	return &cp
}
