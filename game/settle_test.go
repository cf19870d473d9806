package game

import (
	"testing"

	"startup-tycoon/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lastTurn 让 current 玩家的下一次出牌触发结算
func lastTurn(g *Game, round int, hands map[string][]entities.Company) {
	g.State.RoundNumber = round
	g.State.MarketDeck = g.State.MarketDeck[:0]
	g.State.MarketDisplay = []entities.MarketCard{}
	for pid, p := range g.State.Players {
		p.Hand = append([]entities.Company{}, hands[pid]...)
	}
}

func TestRoundEndConvertsHandToInvestments(t *testing.T) {
	g := newTestGame(t)
	lastTurn(g, 2, map[string][]entities.Company{
		"a": {entities.Alpha, entities.Alpha, entities.Beta, entities.Zeta},
	})

	res, err := g.PlayCard("a", entities.Zeta, PlayToMarket)
	require.NoError(t, err)
	require.True(t, res.GameOver)

	a := g.State.Players["a"]
	assert.Equal(t, 2, a.Investments[entities.Alpha])
	assert.Equal(t, 1, a.Investments[entities.Beta])
	assert.Empty(t, a.Hand)
}

func TestSettlementPaymentClamp(t *testing.T) {
	g := newTestGame(t)
	lastTurn(g, 2, map[string][]entities.Company{"a": {entities.Zeta}})
	setInvestments(g, entities.Alpha, map[string]int{"a": 3, "b": 2, "c": 0})
	g.State.Players["b"].Money = 4

	res, err := g.PlayCard("a", entities.Zeta, PlayToMarket)
	require.NoError(t, err)

	a, b, c := g.State.Players["a"], g.State.Players["b"], g.State.Players["c"]
	assert.Equal(t, 14, a.Money, "leader receives at most what the payer has")
	assert.Equal(t, -2, b.Money, "payer is debited the full amount")
	assert.Equal(t, 10, c.Money)
	assert.Equal(t, []Payment{{From: "b", To: "a", Company: entities.Alpha, Owed: 6, Paid: 4}}, res.Settlement.Payments)

	assert.Equal(t, []string{"a", "c", "b"}, res.Settlement.Ranking)
	assert.Equal(t, 2, a.Score)
	assert.Equal(t, 1, c.Score)
	assert.Equal(t, -1, b.Score)
}

func TestSettlementTiedLeaderCollectsNothing(t *testing.T) {
	g := newTestGame(t)
	lastTurn(g, 2, map[string][]entities.Company{"a": {entities.Zeta}})
	setInvestments(g, entities.Beta, map[string]int{"a": 2, "b": 2, "c": 1})

	res, err := g.PlayCard("a", entities.Zeta, PlayToMarket)
	require.NoError(t, err)
	assert.Empty(t, res.Settlement.Payments)
	for _, p := range g.State.Players {
		assert.Equal(t, 10, p.Money)
	}
	// 金钱全部相同，按出牌顺序排名
	assert.Equal(t, []string{"a", "b", "c"}, res.Settlement.Ranking)
}

func TestGameOverAfterSecondRound(t *testing.T) {
	g := newTestGame(t)
	lastTurn(g, 2, map[string][]entities.Company{"a": {entities.Zeta}})
	g.State.Players["b"].Score = 5
	g.State.Players["c"].Score = 1

	res, err := g.PlayCard("a", entities.Zeta, PlayToMarket)
	require.NoError(t, err)

	assert.True(t, res.GameOver)
	assert.False(t, res.RoundEnded)
	assert.Equal(t, "", res.NextPlayer)
	assert.Equal(t, entities.GameStatusGameOver, g.State.Status)
	assert.Equal(t, 2, g.State.RoundNumber)
	assert.Equal(t, "a", g.State.CurrentPlayerID)
	// 三人金钱相同：a +2, b +1, c -1
	assert.Equal(t, map[string]int{"a": 2, "b": 6, "c": 0}, g.FinalScores())
	assert.Equal(t, "b", g.Winner())

	_, err = g.DrawFromDeck("a")
	assertBadRequest(t, err, "Game not active")
}

func TestWinnerTieTakesFirstInOrder(t *testing.T) {
	g := newTestGame(t)
	g.State.Players["b"].Score = 3
	g.State.Players["c"].Score = 3
	assert.Equal(t, "b", g.Winner())
}

func TestFirstRoundEndStartsSecondRound(t *testing.T) {
	g := newTestGame(t)
	removed := append([]entities.Company(nil), g.State.RemovedCards...)
	lastTurn(g, 1, map[string][]entities.Company{
		"a": {entities.Gamma, entities.Gamma, entities.Zeta},
		"b": {entities.Gamma},
	})
	g.State.MarketDisplay = []entities.MarketCard{{Company: entities.Beta}}

	res, err := g.PlayCard("a", entities.Zeta, PlayInvest)
	require.NoError(t, err)

	assert.True(t, res.RoundEnded)
	assert.False(t, res.GameOver)
	assert.Equal(t, 2, g.State.RoundNumber)
	assert.Equal(t, entities.GameStatusActive, g.State.Status)
	assert.Empty(t, g.State.MarketDisplay)
	assert.Equal(t, removed, g.State.RemovedCards)
	assert.Len(t, g.State.MarketDeck, 45-5-9)
	for _, p := range g.State.Players {
		assert.Len(t, p.Hand, 3)
	}
	// 结算后重置为第一位，再照常轮转一次
	assert.Equal(t, "b", res.NextPlayer)
	assert.Equal(t, "b", g.State.CurrentPlayerID)

	// a: Gamma 2 / b: Gamma 1，a 是唯一大股东，标记在新一轮开始时重新计算
	assert.Equal(t, "a", g.State.Owner(entities.Gamma))
	assert.True(t, g.State.Players["a"].HasAntimonopoly[entities.Gamma])
	assert.Equal(t, "a", g.State.Owner(entities.Zeta))
}

// playTurn 取一个合法动作：能拿市场牌就拿第一张，否则摸牌。
// 摸到的牌偶尔放到市场，拿来的牌一律投资，避免同一张牌来回倒手
func playTurn(t *testing.T, g *Game) PlayResult {
	t.Helper()
	cur := g.State.CurrentPlayerID
	p := g.State.Players[cur]
	taken := false
	for i, mc := range g.State.MarketDisplay {
		if !p.HasAntimonopoly[mc.Company] {
			_, err := g.TakeFromMarket(cur, i)
			require.NoError(t, err)
			taken = true
			break
		}
	}
	if !taken {
		_, err := g.DrawFromDeck(cur)
		require.NoError(t, err)
	}
	card := p.Hand[len(p.Hand)-1]
	mode := PlayInvest
	if !taken && len(g.State.MarketDeck)%3 == 0 && !p.HasAntimonopoly[card] {
		mode = PlayToMarket
	}
	res, err := g.PlayCard(cur, card, mode)
	require.NoError(t, err)
	return res
}

func assertConservation(t *testing.T, g *Game, baseline map[string]map[entities.Company]int) {
	t.Helper()
	total := make(map[entities.Company]int)
	add := func(cards []entities.Company) {
		for _, c := range cards {
			total[c]++
		}
	}
	add(g.State.MarketDeck)
	add(g.State.RemovedCards)
	for _, mc := range g.State.MarketDisplay {
		total[mc.Company]++
	}
	for id, p := range g.State.Players {
		add(p.Hand)
		for c, n := range p.Investments {
			total[c] += n - baseline[id][c]
		}
	}
	assert.Equal(t, entities.CompanyCardCounts, total)
}

func assertTokenUniqueness(t *testing.T, g *Game) {
	t.Helper()
	for _, c := range entities.Companies {
		leader, _ := g.uniqueLeader(c)
		assert.Equal(t, leader, g.State.Owner(c), c)
		holders := 0
		for id, p := range g.State.Players {
			if p.HasAntimonopoly[c] {
				holders++
				assert.Equal(t, id, leader)
			}
		}
		assert.LessOrEqual(t, holders, 1)
	}
}

func snapshotInvestments(g *Game) map[string]map[entities.Company]int {
	out := make(map[string]map[entities.Company]int)
	for id, p := range g.State.Players {
		out[id] = make(map[entities.Company]int)
		for c, n := range p.Investments {
			out[id][c] = n
		}
	}
	return out
}

func TestFullGameInvariants(t *testing.T) {
	for _, n := range []int{3, 5, 7} {
		ids := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7"}[:n]
		g, err := New(NewRand(uint64(n)), ids)
		require.NoError(t, err)

		baseline := snapshotInvestments(g)
		settlements := 0
		for turns := 0; !g.Over(); turns++ {
			require.Less(t, turns, 200, "game must terminate")
			assertConservation(t, g, baseline)
			assertTokenUniqueness(t, g)
			assert.Contains(t, ids, g.State.CurrentPlayerID)

			res := playTurn(t, g)
			if res.Settlement != nil {
				settlements++
				baseline = snapshotInvestments(g)
				// 负数的钱连 0 费用的摸牌都不允许，这里只关心牌的守恒，把钱补到 0
				for _, p := range g.State.Players {
					p.Money = max(p.Money, 0)
				}
			}
		}
		assert.Equal(t, 2, settlements, "one settlement per round")
		assert.Equal(t, entities.GameStatusGameOver, g.State.Status)
		assert.Equal(t, 2, g.State.RoundNumber)
	}
}

// 下一轮发牌失败时，这次出牌不应改变任何状态
func TestRoundEndReshuffleFailureChangesNothing(t *testing.T) {
	g := newTestGame(t)
	lastTurn(g, 1, map[string][]entities.Company{
		"a": {entities.Gamma, entities.Zeta, entities.Zeta},
		"b": {entities.Beta},
	})
	// Alpha 只有 5 张，移除 6 张无法重建牌堆
	g.State.RemovedCards = []entities.Company{
		entities.Alpha, entities.Alpha, entities.Alpha, entities.Alpha, entities.Alpha, entities.Alpha,
	}
	before := g.State.Clone()

	_, err := g.PlayCard("a", entities.Zeta, PlayInvest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reshuffle round 2")
	assert.Equal(t, before, g.State)
}
