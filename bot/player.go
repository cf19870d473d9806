// Package bot 简单的自动玩家，用于离线模拟整局游戏
package bot

import (
	"startup-tycoon/entities"
	"startup-tycoon/game"

	"golang.org/x/exp/rand"
)

// Acquire 回合第一步的选择：摸牌或者拿市场上第 Index 张
type Acquire struct {
	Draw  bool
	Index int
}

type Player struct {
	rng *rand.Rand
	// MarketChance 摸牌后把一张手牌放到市场上的概率
	MarketChance float64
}

func NewPlayer(rng *rand.Rand) *Player {
	return &Player{rng: rng, MarketChance: 0.35}
}

// drawCost 与引擎的计费规则一致
func drawCost(st *entities.GameState, p *entities.PlayerState) int {
	cost := 0
	for _, mc := range st.MarketDisplay {
		if !p.HasAntimonopoly[mc.Company] {
			cost++
		}
	}
	return cost
}

// ChooseAcquire 有金币的市场牌优先拿；其次摸得起就摸；再次随便拿一张能拿的市场牌。
// 返回 false 表示这名玩家没有合法的获取方式
func (b *Player) ChooseAcquire(st *entities.GameState, playerID string) (Acquire, bool) {
	p := st.Players[playerID]
	if p == nil {
		return Acquire{}, false
	}

	var legal []int
	richest, coins := -1, 0
	for i, mc := range st.MarketDisplay {
		if p.HasAntimonopoly[mc.Company] {
			continue
		}
		legal = append(legal, i)
		if mc.CoinsOnTop > coins {
			richest, coins = i, mc.CoinsOnTop
		}
	}
	if richest >= 0 {
		return Acquire{Index: richest}, true
	}

	cost := drawCost(st, p)
	canDraw := len(st.MarketDeck) > 0 && p.Money >= cost
	// 摸牌越贵越倾向于直接拿市场牌
	if canDraw && (len(legal) == 0 || b.rng.Intn(len(st.Players)) >= cost) {
		return Acquire{Draw: true}, true
	}
	if len(legal) > 0 {
		return Acquire{Index: legal[b.rng.Intn(len(legal))]}, true
	}
	return Acquire{}, false
}

// ChoosePlay 拿市场牌之后总是投资刚拿到的牌，保证市场牌数减少；
// 摸牌之后按 MarketChance 把一张没有反垄断标记的手牌放到市场，否则投资
func (b *Player) ChoosePlay(st *entities.GameState, playerID string, acquired entities.Company, drew bool) (entities.Company, game.PlayMode) {
	p := st.Players[playerID]
	if drew && b.rng.Float64() < b.MarketChance {
		var candidates []entities.Company
		for _, c := range p.Hand {
			if !p.HasAntimonopoly[c] {
				candidates = append(candidates, c)
			}
		}
		if len(candidates) > 0 {
			return candidates[b.rng.Intn(len(candidates))], game.PlayToMarket
		}
	}
	return acquired, game.PlayInvest
}
