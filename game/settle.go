package game

import (
	"sort"

	"startup-tycoon/entities"
)

// Payment 结算时一笔付款。Owed 全额从付款方扣除，收款方只拿到 Paid
type Payment struct {
	From    string           `json:"from"`
	To      string           `json:"to"`
	Company entities.Company `json:"company"`
	Owed    int              `json:"owed"`
	Paid    int              `json:"paid"`
}

type Settlement struct {
	Round    int       `json:"round"`
	Payments []Payment `json:"payments"`
	// Ranking 按结算后金钱从高到低
	Ranking []string `json:"ranking"`
}

const payPerShare = 3

// endRound 市场牌堆摸空后调用：手牌转投资、大股东收钱、按金钱排名加减分，
// 第二轮之后游戏结束，否则用 next 开始下一轮
func (g *Game) endRound(next *Deal) *Settlement {
	s := &Settlement{Round: g.State.RoundNumber}
	players := g.State.OrderedPlayers()

	// 1. 手里剩下的牌全部转成投资
	for _, p := range players {
		for _, card := range p.Hand {
			p.Investments[card]++
		}
		p.Hand = p.Hand[:0]
	}

	// 2. 每家公司唯一的大股东向其他人收钱，付款方钱不够也全额扣，可以扣成负数
	for _, company := range entities.Companies {
		major, _ := g.uniqueLeader(company)
		if major == "" {
			continue
		}
		receiver := g.State.Players[major]
		for _, payer := range players {
			if payer.PlayerID == major {
				continue
			}
			owed := payer.Investments[company] * payPerShare
			paid := min(payer.Money, owed)
			receiver.Money += paid
			payer.Money -= owed
			if owed > 0 {
				s.Payments = append(s.Payments, Payment{
					From: payer.PlayerID, To: major, Company: company, Owed: owed, Paid: paid,
				})
			}
		}
	}

	// 3. 金钱排名：第一 +2，第二 +1，最后 -1
	ranked := append([]*entities.PlayerState(nil), players...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Money > ranked[j].Money })
	if n := len(ranked); n >= 2 {
		ranked[0].Score += 2
		ranked[1].Score++
		ranked[n-1].Score--
	}
	for _, p := range ranked {
		s.Ranking = append(s.Ranking, p.PlayerID)
	}

	if next == nil {
		g.State.Status = entities.GameStatusGameOver
		return s
	}
	g.startNextRound(*next)
	return s
}

func (g *Game) startNextRound(deal Deal) {
	g.State.RoundNumber++
	g.State.MarketDeck = deal.MarketDeck
	g.State.MarketDisplay = []entities.MarketCard{}
	for _, pid := range g.State.PlayerOrder {
		g.State.Players[pid].Hand = deal.Hands[pid]
	}
	g.State.CurrentPlayerID = g.State.PlayerOrder[0]
	for _, c := range entities.Companies {
		g.updateAntimonopolyToken(c)
	}
}
