package bot

import (
	"errors"
	"testing"

	"startup-tycoon/entities"
	"startup-tycoon/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newState(playerID string) *entities.GameState {
	return &entities.GameState{
		Players:         map[string]*entities.PlayerState{playerID: entities.NewPlayerState(playerID)},
		PlayerOrder:     []string{playerID},
		MarketDeck:      []entities.Company{entities.Alpha, entities.Beta},
		MarketDisplay:   []entities.MarketCard{},
		CurrentPlayerID: playerID,
	}
}

func TestChooseAcquireDrawsWhenMarketEmpty(t *testing.T) {
	b := NewPlayer(game.NewRand(1))
	choice, ok := b.ChooseAcquire(newState("a"), "a")
	require.True(t, ok)
	assert.True(t, choice.Draw)
}

func TestChooseAcquirePrefersCoins(t *testing.T) {
	st := newState("a")
	st.MarketDisplay = []entities.MarketCard{
		{Company: entities.Gamma},
		{Company: entities.Delta, CoinsOnTop: 2},
		{Company: entities.Zeta, CoinsOnTop: 1},
	}
	b := NewPlayer(game.NewRand(1))
	choice, ok := b.ChooseAcquire(st, "a")
	require.True(t, ok)
	assert.Equal(t, Acquire{Index: 1}, choice)
}

func TestChooseAcquireSkipsTokenCompanies(t *testing.T) {
	st := newState("a")
	p := st.Players["a"]
	p.HasAntimonopoly[entities.Gamma] = true
	p.Money = 0
	st.MarketDisplay = []entities.MarketCard{{Company: entities.Gamma}, {Company: entities.Beta}}

	b := NewPlayer(game.NewRand(1))
	choice, ok := b.ChooseAcquire(st, "a")
	require.True(t, ok)
	assert.Equal(t, Acquire{Index: 1}, choice, "cannot afford the draw, only Beta is takeable")
}

func TestChooseAcquireNegativeMoneyIsStuck(t *testing.T) {
	st := newState("a")
	st.Players["a"].Money = -2

	b := NewPlayer(game.NewRand(1))
	_, ok := b.ChooseAcquire(st, "a")
	assert.False(t, ok)

	st.Players["a"].HasAntimonopoly[entities.Alpha] = true
	st.MarketDisplay = []entities.MarketCard{{Company: entities.Alpha}}
	_, ok = b.ChooseAcquire(st, "a")
	assert.False(t, ok)
}

func TestChoosePlay(t *testing.T) {
	st := newState("a")
	p := st.Players["a"]
	p.Hand = []entities.Company{entities.Alpha, entities.Beta, entities.Gamma, entities.Delta}
	p.HasAntimonopoly[entities.Alpha] = true
	p.HasAntimonopoly[entities.Beta] = true
	p.HasAntimonopoly[entities.Gamma] = true

	b := NewPlayer(game.NewRand(1))
	company, mode := b.ChoosePlay(st, "a", entities.Delta, false)
	assert.Equal(t, entities.Delta, company)
	assert.Equal(t, game.PlayInvest, mode)

	b.MarketChance = 1
	company, mode = b.ChoosePlay(st, "a", entities.Alpha, true)
	assert.Equal(t, entities.Delta, company, "only Delta has no token")
	assert.Equal(t, game.PlayToMarket, mode)

	b.MarketChance = 0
	company, mode = b.ChoosePlay(st, "a", entities.Alpha, true)
	assert.Equal(t, entities.Alpha, company)
	assert.Equal(t, game.PlayInvest, mode)
}

func TestSimulateRejectsPlayerCount(t *testing.T) {
	_, err := Simulate(2, 1, zap.NewNop())
	assert.Error(t, err)
	_, err = Simulate(8, 1, zap.NewNop())
	assert.Error(t, err)
}

func TestSimulateIsDeterministic(t *testing.T) {
	first, errA := Simulate(4, 99, zap.NewNop())
	second, errB := Simulate(4, 99, zap.NewNop())
	assert.Equal(t, errA == nil, errB == nil)
	assert.Equal(t, first.Scores, second.Scores)
	assert.Equal(t, first.Money, second.Money)
	assert.Equal(t, first.Turns, second.Turns)
	assert.Equal(t, first.Winner, second.Winner)
}

func TestSimulateManyGames(t *testing.T) {
	completed := 0
	for players := entities.MinPlayers; players <= entities.MaxPlayers; players++ {
		for seed := uint64(1); seed <= 10; seed++ {
			res, err := Simulate(players, seed, zap.NewNop())
			if err != nil {
				require.True(t, errors.Is(err, ErrNoLegalMove), "players=%d seed=%d: %v", players, seed, err)
				assert.Empty(t, res.Winner)
				continue
			}
			completed++
			require.Len(t, res.Scores, players)
			assert.Contains(t, res.Players, res.Winner)
			for _, id := range res.Players {
				assert.GreaterOrEqual(t, res.Scores[res.Winner], res.Scores[id])
			}
			// 两轮结算，每轮排名分合计 +2 +1 -1
			total := 0
			for _, s := range res.Scores {
				total += s
			}
			assert.Equal(t, 4, total)
			assert.Greater(t, res.Events, res.Turns)
		}
	}
	assert.Positive(t, completed)
}

func TestCollectUsesStateWinner(t *testing.T) {
	st := &entities.GameState{
		Players: map[string]*entities.PlayerState{
			"a": entities.NewPlayerState("a"),
			"b": entities.NewPlayerState("b"),
			"c": entities.NewPlayerState("c"),
		},
		PlayerOrder: []string{"a", "b", "c"},
		Status:      entities.GameStatusActive,
	}
	st.Players["b"].Score = 3
	st.Players["c"].Score = 3

	var res Result
	collect(&res, st)
	assert.Empty(t, res.Winner, "no winner before game over")
	assert.Equal(t, map[string]int{"a": 0, "b": 3, "c": 3}, res.Scores)

	st.Status = entities.GameStatusGameOver
	collect(&res, st)
	assert.Equal(t, "b", res.Winner)
	assert.Equal(t, st.Winner(), res.Winner)
}
