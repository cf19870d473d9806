package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"

	"startup-tycoon/entities"
	"startup-tycoon/utils"

	"golang.org/x/exp/rand"
)

// NewRand 固定种子，测试和模拟用
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NewSeed 从 crypto/rand 读取种子
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// orderedDeck 按公司顺序排好、未洗的整副牌
func orderedDeck() []entities.Company {
	deck := make([]entities.Company, 0, entities.TotalCards())
	for _, c := range entities.Companies {
		for i := 0; i < entities.CompanyCardCounts[c]; i++ {
			deck = append(deck, c)
		}
	}
	return deck
}

func shuffle(rng *rand.Rand, deck []entities.Company) {
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
}

// BuildFullDeck 45 张牌洗好返回，切片末尾是下一张要摸的牌
func BuildFullDeck(rng *rand.Rand) []entities.Company {
	deck := orderedDeck()
	shuffle(rng, deck)
	return deck
}

// Deal 一次发牌的结果
type Deal struct {
	Removed    []entities.Company
	Hands      map[string][]entities.Company
	MarketDeck []entities.Company
}

func pop(deck []entities.Company) ([]entities.Company, entities.Company) {
	last := deck[len(deck)-1]
	return deck[:len(deck)-1], last
}

// dealHands 按 playerIDs 的顺序每人从牌堆末尾摸 3 张，一个人发完再发下一个
func dealHands(deck []entities.Company, playerIDs []string) ([]entities.Company, map[string][]entities.Company) {
	hands := make(map[string][]entities.Company, len(playerIDs))
	for _, pid := range playerIDs {
		hand := make([]entities.Company, 0, entities.HandSize+1)
		for i := 0; i < entities.HandSize; i++ {
			var card entities.Company
			deck, card = pop(deck)
			hand = append(hand, card)
		}
		hands[pid] = hand
	}
	return deck, hands
}

// InitialDeal 从洗好的牌里先移除 5 张，再给每人发 3 张，剩下的作为市场牌堆
func InitialDeal(deck []entities.Company, playerIDs []string) (Deal, error) {
	need := entities.RemovedCards + entities.HandSize*len(playerIDs)
	if len(deck) < need {
		return Deal{}, fmt.Errorf("deck has %d cards, need %d", len(deck), need)
	}
	deck = append([]entities.Company(nil), deck...)

	removed := make([]entities.Company, 0, entities.RemovedCards)
	for i := 0; i < entities.RemovedCards; i++ {
		var card entities.Company
		deck, card = pop(deck)
		removed = append(removed, card)
	}
	deck, hands := dealHands(deck, playerIDs)
	return Deal{Removed: removed, Hands: hands, MarketDeck: deck}, nil
}

// ReshuffleForRound 重建整副牌，拿掉开局时移除的同样 5 张（不重新抽），洗牌后重新发牌
func ReshuffleForRound(rng *rand.Rand, removed []entities.Company, playerIDs []string) (Deal, error) {
	deck := orderedDeck()
	for _, r := range removed {
		var ok bool
		if deck, ok = utils.RemoveFirst(deck, r); !ok {
			return Deal{}, fmt.Errorf("removed card %s not in deck", r)
		}
	}
	shuffle(rng, deck)

	if len(deck) < entities.HandSize*len(playerIDs) {
		return Deal{}, fmt.Errorf("deck has %d cards, need %d", len(deck), entities.HandSize*len(playerIDs))
	}
	deck, hands := dealHands(deck, playerIDs)
	return Deal{
		Removed:    append([]entities.Company(nil), removed...),
		Hands:      hands,
		MarketDeck: deck,
	}, nil
}
