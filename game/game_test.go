package game

import (
	"testing"

	"startup-tycoon/apperror"
	"startup-tycoon/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, players ...string) *Game {
	t.Helper()
	if len(players) == 0 {
		players = []string{"a", "b", "c"}
	}
	g, err := New(NewRand(42), players)
	require.NoError(t, err)
	return g
}

func setInvestments(g *Game, company entities.Company, holdings map[string]int) {
	for pid, n := range holdings {
		g.State.Players[pid].Investments[company] = n
	}
	g.updateAntimonopolyToken(company)
}

func assertBadRequest(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
	assert.Equal(t, msg, err.Error())
}

func TestNewGame(t *testing.T) {
	g := newTestGame(t)
	s := g.State

	assert.Equal(t, "game_a", s.GameID)
	assert.Equal(t, "a", s.CurrentPlayerID)
	assert.Equal(t, 1, s.RoundNumber)
	assert.Equal(t, entities.GameStatusActive, s.Status)
	assert.Len(t, s.MarketDeck, 31)
	assert.Empty(t, s.MarketDisplay)
	assert.Len(t, s.RemovedCards, 5)
	for _, p := range s.Players {
		assert.Len(t, p.Hand, 3)
		assert.Equal(t, 10, p.Money)
		assert.Equal(t, 0, p.Score)
	}
	for _, c := range entities.Companies {
		assert.Equal(t, "", s.Owner(c))
	}
}

func TestDrawFromDeckCost(t *testing.T) {
	g := newTestGame(t)
	g.State.MarketDisplay = []entities.MarketCard{
		{Company: entities.Alpha}, {Company: entities.Beta}, {Company: entities.Beta},
	}
	setInvestments(g, entities.Beta, map[string]int{"a": 1})
	require.True(t, g.State.Players["a"].HasAntimonopoly[entities.Beta])

	top := g.State.MarketDeck[len(g.State.MarketDeck)-1]
	res, err := g.DrawFromDeck("a")
	require.NoError(t, err)

	assert.Equal(t, top, res.Card)
	assert.Equal(t, 1, res.Cost, "Beta cards are free for the Beta token holder")
	assert.Equal(t, 9, res.MoneyLeft)
	assert.Len(t, g.State.Players["a"].Hand, 4)
	assert.Len(t, g.State.MarketDeck, 30)
}

func TestDrawFromDeckRejections(t *testing.T) {
	t.Run("wrong turn", func(t *testing.T) {
		g := newTestGame(t)
		_, err := g.DrawFromDeck("b")
		assertBadRequest(t, err, "Not your turn")
	})

	t.Run("hand already drawn", func(t *testing.T) {
		g := newTestGame(t)
		_, err := g.DrawFromDeck("a")
		require.NoError(t, err)
		_, err = g.DrawFromDeck("a")
		assertBadRequest(t, err, "Hand must have 3 cards before drawing")
	})

	t.Run("insufficient funds", func(t *testing.T) {
		g := newTestGame(t)
		g.State.Players["a"].Money = 1
		g.State.MarketDisplay = []entities.MarketCard{{Company: entities.Alpha}, {Company: entities.Zeta}}
		before := g.State.Clone()

		_, err := g.DrawFromDeck("a")
		assertBadRequest(t, err, "Need 2 money")
		assert.Equal(t, before, g.State)
	})

	t.Run("empty deck", func(t *testing.T) {
		g := newTestGame(t)
		g.State.MarketDeck = g.State.MarketDeck[:0]
		_, err := g.DrawFromDeck("a")
		assertBadRequest(t, err, "Deck is empty")
	})
}

func TestTakeFromMarket(t *testing.T) {
	g := newTestGame(t)
	g.State.MarketDisplay = []entities.MarketCard{
		{Company: entities.Alpha}, {Company: entities.Delta, CoinsOnTop: 2},
	}

	res, err := g.TakeFromMarket("a", 1)
	require.NoError(t, err)
	assert.Equal(t, entities.Delta, res.Company)
	assert.Equal(t, 2, res.CoinsGained)
	assert.Equal(t, 12, g.State.Players["a"].Money)
	assert.Equal(t, []entities.MarketCard{{Company: entities.Alpha}}, g.State.MarketDisplay)
	assert.Equal(t, entities.Delta, g.State.Players["a"].Hand[3])
}

func TestTakeFromMarketRejections(t *testing.T) {
	g := newTestGame(t)
	g.State.MarketDisplay = []entities.MarketCard{{Company: entities.Delta}}

	_, err := g.TakeFromMarket("a", 1)
	assertBadRequest(t, err, "Invalid card index")
	_, err = g.TakeFromMarket("a", -1)
	assertBadRequest(t, err, "Invalid card index")

	setInvestments(g, entities.Delta, map[string]int{"a": 2, "b": 1})
	before := g.State.Clone()
	_, err = g.TakeFromMarket("a", 0)
	assertBadRequest(t, err, "You hold anti-monopoly token for Delta")
	assert.Equal(t, before, g.State)

	_, err = g.TakeFromMarket("c", 0)
	assertBadRequest(t, err, "Not your turn")
}

func TestPlayCardInvestGrantsToken(t *testing.T) {
	g := newTestGame(t)
	g.State.Players["a"].Hand = []entities.Company{entities.Gamma, entities.Alpha, entities.Beta, entities.Zeta}

	res, err := g.PlayCard("a", entities.Gamma, PlayInvest)
	require.NoError(t, err)

	a := g.State.Players["a"]
	assert.Equal(t, 1, a.Investments[entities.Gamma])
	assert.True(t, a.HasAntimonopoly[entities.Gamma])
	assert.Equal(t, "a", g.State.Owner(entities.Gamma))
	assert.Equal(t, []entities.Company{entities.Alpha, entities.Beta, entities.Zeta}, a.Hand)
	assert.False(t, res.RoundEnded)
	assert.Equal(t, "b", res.NextPlayer)
}

// 两人投资并列时标记收回
func TestPlayCardTieClearsToken(t *testing.T) {
	g := newTestGame(t)
	g.State.Players["a"].Hand = []entities.Company{entities.Gamma, entities.Alpha, entities.Beta}
	g.State.Players["b"].Hand = []entities.Company{entities.Gamma, entities.Alpha, entities.Beta}

	_, err := g.PlayCard("a", entities.Gamma, PlayInvest)
	require.NoError(t, err)
	require.Equal(t, "a", g.State.Owner(entities.Gamma))

	_, err = g.PlayCard("b", entities.Gamma, PlayInvest)
	require.NoError(t, err)

	assert.Equal(t, "", g.State.Owner(entities.Gamma))
	assert.Nil(t, g.State.AntimonopolyOwner[entities.Gamma])
	assert.False(t, g.State.Players["a"].HasAntimonopoly[entities.Gamma])
	assert.False(t, g.State.Players["b"].HasAntimonopoly[entities.Gamma])
}

func TestPlayCardOvertakeMovesToken(t *testing.T) {
	g := newTestGame(t)
	setInvestments(g, entities.Epsilon, map[string]int{"a": 1, "b": 1})
	g.State.CurrentPlayerID = "b"
	g.State.Players["b"].Hand = []entities.Company{entities.Epsilon}

	_, err := g.PlayCard("b", entities.Epsilon, PlayInvest)
	require.NoError(t, err)
	assert.Equal(t, "b", g.State.Owner(entities.Epsilon))
	assert.True(t, g.State.Players["b"].HasAntimonopoly[entities.Epsilon])
	assert.False(t, g.State.Players["a"].HasAntimonopoly[entities.Epsilon])
}

func TestPlayCardToMarketWithTokenRejected(t *testing.T) {
	g := newTestGame(t)
	setInvestments(g, entities.Delta, map[string]int{"a": 1})
	g.State.Players["a"].Hand = []entities.Company{entities.Delta, entities.Alpha, entities.Beta, entities.Gamma}
	before := g.State.Clone()

	_, err := g.PlayCard("a", entities.Delta, PlayToMarket)
	assertBadRequest(t, err, "Cannot put Delta on market")
	assert.Equal(t, before, g.State)
}

func TestPlayCardToMarket(t *testing.T) {
	g := newTestGame(t)
	g.State.Players["a"].Hand = []entities.Company{entities.Delta, entities.Alpha}

	_, err := g.PlayCard("a", entities.Delta, PlayToMarket)
	require.NoError(t, err)
	assert.Equal(t, []entities.MarketCard{{Company: entities.Delta, CoinsOnTop: 0}}, g.State.MarketDisplay)
}

func TestPlayCardRejections(t *testing.T) {
	g := newTestGame(t)
	g.State.Players["a"].Hand = []entities.Company{entities.Alpha}

	_, err := g.PlayCard("a", entities.Zeta, PlayInvest)
	assertBadRequest(t, err, "Card not in hand")
	_, err = g.PlayCard("a", "Omega", PlayInvest)
	assertBadRequest(t, err, "Unknown company Omega")
	_, err = g.PlayCard("a", entities.Alpha, "burn")
	assertBadRequest(t, err, "Invalid play action burn")
	_, err = g.PlayCard("b", entities.Alpha, PlayInvest)
	assertBadRequest(t, err, "Not your turn")
}

func TestTurnRotationWraps(t *testing.T) {
	g := newTestGame(t)
	order := []string{"b", "c", "a", "b"}
	for _, want := range order {
		cur := g.State.CurrentPlayerID
		_, err := g.DrawFromDeck(cur)
		require.NoError(t, err)
		hand := g.State.Players[cur].Hand
		res, err := g.PlayCard(cur, hand[len(hand)-1], PlayInvest)
		require.NoError(t, err)
		assert.Equal(t, want, res.NextPlayer)
		assert.Equal(t, want, g.State.CurrentPlayerID)
	}
}

func TestParsePlayMode(t *testing.T) {
	m, ok := ParsePlayMode("invest")
	assert.True(t, ok)
	assert.Equal(t, PlayInvest, m)
	_, ok = ParsePlayMode("to_market")
	assert.True(t, ok)
	_, ok = ParsePlayMode("sell")
	assert.False(t, ok)
}
