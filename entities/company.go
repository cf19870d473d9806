package entities

// Company 公司标签，同时也是卡牌的牌面
type Company string

const (
	Alpha   Company = "Alpha"
	Beta    Company = "Beta"
	Gamma   Company = "Gamma"
	Delta   Company = "Delta"
	Epsilon Company = "Epsilon"
	Zeta    Company = "Zeta"
)

// Companies 固定顺序，所有遍历公司的地方都按这个顺序
var Companies = []Company{Alpha, Beta, Gamma, Delta, Epsilon, Zeta}

// CompanyCardCounts 每家公司的卡牌数量，合计 45 张
var CompanyCardCounts = map[Company]int{
	Alpha:   5,
	Beta:    6,
	Gamma:   7,
	Delta:   8,
	Epsilon: 9,
	Zeta:    10,
}

// TotalCards 整副牌的张数
func TotalCards() int {
	total := 0
	for _, c := range Companies {
		total += CompanyCardCounts[c]
	}
	return total
}

// ParseCompany 校验公司名是否合法
func ParseCompany(name string) (Company, bool) {
	c := Company(name)
	_, ok := CompanyCardCounts[c]
	return c, ok
}
