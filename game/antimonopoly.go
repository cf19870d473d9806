package game

import "startup-tycoon/entities"

// uniqueLeader 返回某公司投资最多且唯一的玩家；最大值为 0 或并列时返回 ""
func (g *Game) uniqueLeader(company entities.Company) (string, int) {
	best := 0
	leader := ""
	tied := false
	for _, p := range g.State.OrderedPlayers() {
		n := p.Investments[company]
		switch {
		case n > best:
			best, leader, tied = n, p.PlayerID, false
		case n == best:
			tied = true
		}
	}
	if best == 0 || tied {
		return "", best
	}
	return leader, best
}

func (g *Game) clearOwner(company entities.Company) {
	if old := g.State.Owner(company); old != "" {
		g.State.Players[old].HasAntimonopoly[company] = false
	}
	g.State.SetOwner(company, "")
}

// updateAntimonopolyToken 投资变化后重新计算标记归属。
// 并列时标记收回，即使之前有人持有。
func (g *Game) updateAntimonopolyToken(company entities.Company) {
	leader, _ := g.uniqueLeader(company)
	if leader == "" {
		g.clearOwner(company)
		return
	}
	if old := g.State.Owner(company); old != leader {
		g.clearOwner(company)
		g.State.SetOwner(company, leader)
		g.State.Players[leader].HasAntimonopoly[company] = true
	}
}
